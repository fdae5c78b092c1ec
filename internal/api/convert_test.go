package api_test

import (
	"errors"
	"testing"
	"time"

	"slacknotifier/internal/api"
	"slacknotifier/internal/services"
	"slacknotifier/internal/settings"
)

func TestFromProjectRendersToggles(t *testing.T) {
	on := true
	p := settings.Project{
		ProjectID:   "Proj",
		PostStarted: &on,
		Channel:     "#ci",
		Enabled:     true,
		UpdatedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	dto := api.FromProject(p)
	if dto.PostStarted != "on" || dto.PostSuccessful != "default" || dto.PostFailed != "default" {
		t.Fatalf("unexpected toggles %+v", dto)
	}
	if dto.Enabled == nil || !*dto.Enabled {
		t.Fatalf("expected enabled flag, got %+v", dto.Enabled)
	}
	if dto.UpdatedAt != "2026-01-02T03:04:05Z" {
		t.Fatalf("unexpected timestamp %q", dto.UpdatedAt)
	}
}

func TestToProject(t *testing.T) {
	disabled := false
	dto := api.ProjectSettings{PostFailed: "off", PostStarted: "on", Channel: " #ci ", Enabled: &disabled}
	p, err := dto.ToProject("Proj")
	if err != nil {
		t.Fatalf("ToProject returned error: %v", err)
	}
	if p.ProjectID != "Proj" || p.Channel != "#ci" || p.Enabled {
		t.Fatalf("unexpected project %+v", p)
	}
	if settings.FormatToggle(p.PostFailed) != "off" || settings.FormatToggle(p.PostStarted) != "on" || p.PostSuccessful != nil {
		t.Fatalf("unexpected toggles %+v", p)
	}

	defaulted, err := api.ProjectSettings{ProjectID: "Other"}.ToProject("")
	if err != nil {
		t.Fatalf("ToProject returned error: %v", err)
	}
	if defaulted.ProjectID != "Other" || !defaulted.Enabled {
		t.Fatalf("expected enabled project from body id, got %+v", defaulted)
	}
}

func TestToProjectRejectsBadInput(t *testing.T) {
	if _, err := (api.ProjectSettings{}).ToProject(""); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for missing id, got %v", err)
	}
	if _, err := (api.ProjectSettings{PostStarted: "sometimes"}).ToProject("Proj"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for bad toggle, got %v", err)
	}
}
