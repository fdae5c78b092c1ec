package api

// DaemonStatus aggregates runtime information about the daemon.
type DaemonStatus struct {
	Running           bool   `json:"running"`
	PID               int    `json:"pid"`
	APIAddress        string `json:"api_address,omitempty"`
	SettingsDBPath    string `json:"settings_db_path"`
	LockFilePath      string `json:"lock_file_path"`
	WebhookConfigured bool   `json:"webhook_configured"`
	WebhookProblem    string `json:"webhook_problem,omitempty"`
	Listeners         int    `json:"listeners"`
	StartedAt         string `json:"started_at,omitempty"`
}

// EventResponse acknowledges a build lifecycle event.
type EventResponse struct {
	Event    string `json:"event,omitempty"`
	Accepted bool   `json:"accepted"`
	Ignored  string `json:"ignored,omitempty"`
}

// ProjectSettings is the transport form of a project's overrides.
type ProjectSettings struct {
	ProjectID      string `json:"project_id"`
	PostStarted    string `json:"post_started"`
	PostSuccessful string `json:"post_successful"`
	PostFailed     string `json:"post_failed"`
	Channel        string `json:"channel"`
	LogoURL        string `json:"logo_url"`
	Enabled        *bool  `json:"enabled,omitempty"`
	UpdatedAt      string `json:"updated_at,omitempty"`
}

// ProjectListResponse wraps the stored project overrides.
type ProjectListResponse struct {
	Projects []ProjectSettings `json:"projects"`
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error string `json:"error"`
}
