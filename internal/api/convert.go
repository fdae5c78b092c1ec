package api

import (
	"strings"
	"time"

	"slacknotifier/internal/services"
	"slacknotifier/internal/settings"
)

// FromProject converts a stored record to its API representation.
func FromProject(p settings.Project) ProjectSettings {
	enabled := p.Enabled
	dto := ProjectSettings{
		ProjectID:      p.ProjectID,
		PostStarted:    settings.FormatToggle(p.PostStarted),
		PostSuccessful: settings.FormatToggle(p.PostSuccessful),
		PostFailed:     settings.FormatToggle(p.PostFailed),
		Channel:        p.Channel,
		LogoURL:        p.LogoURL,
		Enabled:        &enabled,
	}
	if !p.UpdatedAt.IsZero() {
		dto.UpdatedAt = p.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return dto
}

// FromProjects converts a slice of records.
func FromProjects(projects []settings.Project) []ProjectSettings {
	out := make([]ProjectSettings, 0, len(projects))
	for _, p := range projects {
		out = append(out, FromProject(p))
	}
	return out
}

// ToProject validates a transport record and converts it. An omitted enabled
// flag means enabled.
func (p ProjectSettings) ToProject(projectID string) (settings.Project, error) {
	project := settings.NewProject(projectID)
	if project.ProjectID == "" {
		project.ProjectID = strings.TrimSpace(p.ProjectID)
	}
	if project.ProjectID == "" {
		return settings.Project{}, services.Wrap(services.ErrValidation, "api", "project settings", "project id is required", nil)
	}

	var err error
	if project.PostStarted, err = settings.ParseToggle(p.PostStarted); err != nil {
		return settings.Project{}, services.Wrap(services.ErrValidation, "api", "post_started", "", err)
	}
	if project.PostSuccessful, err = settings.ParseToggle(p.PostSuccessful); err != nil {
		return settings.Project{}, services.Wrap(services.ErrValidation, "api", "post_successful", "", err)
	}
	if project.PostFailed, err = settings.ParseToggle(p.PostFailed); err != nil {
		return settings.Project{}, services.Wrap(services.ErrValidation, "api", "post_failed", "", err)
	}
	project.Channel = strings.TrimSpace(p.Channel)
	project.LogoURL = strings.TrimSpace(p.LogoURL)
	if p.Enabled != nil {
		project.Enabled = *p.Enabled
	}
	return project, nil
}
