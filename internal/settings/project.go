package settings

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Project holds the overrides configured for one build project. A nil toggle
// means "use the global default".
type Project struct {
	ProjectID      string    `json:"project_id"`
	PostStarted    *bool     `json:"post_started"`
	PostSuccessful *bool     `json:"post_successful"`
	PostFailed     *bool     `json:"post_failed"`
	Channel        string    `json:"channel,omitempty"`
	LogoURL        string    `json:"logo_url,omitempty"`
	Enabled        bool      `json:"enabled"`
	UpdatedAt      time.Time `json:"updated_at,omitzero"`
}

// NewProject returns an enabled record with every toggle unset.
func NewProject(projectID string) Project {
	return Project{ProjectID: strings.TrimSpace(projectID), Enabled: true}
}

// Provider reads project overrides. Get returns (nil, nil) when the project
// has no stored record.
type Provider interface {
	Get(ctx context.Context, projectID string) (*Project, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, projectID string) (*Project, error)

// Get implements Provider.
func (f ProviderFunc) Get(ctx context.Context, projectID string) (*Project, error) {
	return f(ctx, projectID)
}

// ParseToggle converts the textual tri-state used by the CLI and API into an
// override. "default" (or "") clears the override.
func ParseToggle(value string) (*bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "default", "unset", "inherit":
		return nil, nil
	case "on", "true", "yes", "enabled", "1":
		return boolPtr(true), nil
	case "off", "false", "no", "disabled", "0":
		return boolPtr(false), nil
	default:
		return nil, fmt.Errorf("invalid toggle %q (want on, off, or default)", value)
	}
}

// FormatToggle renders an override for display.
func FormatToggle(value *bool) string {
	switch {
	case value == nil:
		return "default"
	case *value:
		return "on"
	default:
		return "off"
	}
}

func boolPtr(v bool) *bool { return &v }
