package build

import (
	"fmt"
	"strings"

	"slacknotifier/internal/services"
)

// Status is the build outcome reported by the build server.
type Status string

const (
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// ParseStatus normalizes a status string. Unknown values are rejected.
func ParseStatus(value string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(value))) {
	case StatusRunning:
		return StatusRunning, nil
	case StatusSuccess, "successful", "succeeded":
		return StatusSuccess, nil
	case StatusFailed, "failure":
		return StatusFailed, nil
	default:
		return "", fmt.Errorf("unknown build status %q", value)
	}
}

// Branch identifies the VCS branch a build ran against.
type Branch struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name,omitempty"`
}

// Label returns the display name, falling back to the raw branch name.
func (b Branch) Label() string {
	if display := strings.TrimSpace(b.DisplayName); display != "" {
		return display
	}
	return strings.TrimSpace(b.Name)
}

// User is a committer whose change is included in the build.
type User struct {
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty"`
}

// DisplayName returns the user's name, falling back to the account username.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	return strings.TrimSpace(u.Username)
}

// Issue is a tracker issue referenced by the build's changes.
type Issue struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Build is the build metadata attached to a lifecycle event.
type Build struct {
	ID             int64             `json:"id"`
	FullName       string            `json:"full_name"`
	ProjectID      string            `json:"project_id"`
	Branch         *Branch           `json:"branch,omitempty"`
	Status         Status            `json:"status"`
	DurationMillis int64             `json:"duration_ms"`
	Personal       bool              `json:"personal,omitempty"`
	Committers     []User            `json:"committers,omitempty"`
	Issues         []Issue           `json:"issues,omitempty"`
	Parameters     map[string]string `json:"parameters,omitempty"`
}

// Parameter returns the trimmed value of a build parameter, or "" when absent.
func (b Build) Parameter(name string) string {
	if b.Parameters == nil {
		return ""
	}
	return strings.TrimSpace(b.Parameters[name])
}

// Validate checks the fields every event handler depends on.
func (b *Build) Validate() error {
	b.FullName = strings.TrimSpace(b.FullName)
	b.ProjectID = strings.TrimSpace(b.ProjectID)
	if b.FullName == "" {
		return services.Wrap(services.ErrValidation, "build", "validate", "full_name is required", nil)
	}
	if b.ProjectID == "" {
		return services.Wrap(services.ErrValidation, "build", "validate", "project_id is required", nil)
	}
	if b.DurationMillis < 0 {
		return services.Wrap(services.ErrValidation, "build", "validate", "duration_ms must not be negative", nil)
	}
	if b.Status == "" {
		b.Status = StatusRunning
		return nil
	}
	status, err := ParseStatus(string(b.Status))
	if err != nil {
		return services.Wrap(services.ErrValidation, "build", "validate", "", err)
	}
	b.Status = status
	return nil
}
