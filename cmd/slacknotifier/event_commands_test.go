package main

import (
	"encoding/json"
	"strings"
	"testing"

	"slacknotifier/internal/api"
)

const successBuild = `{"id": 3, "full_name": "Proj", "project_id": "Proj", "branch": {"name": "main"}, "status": "success", "duration_ms": 61000}`

func TestEventFinishedFromFile(t *testing.T) {
	env := setupCLITestEnv(t)
	path := writeBuildDocument(t, env.baseDir, successBuild)

	out, _, err := runCLI(t, []string{"event", "finished", path}, env.configPath)
	if err != nil {
		t.Fatalf("event finished: %v", err)
	}
	requireContains(t, out, "Event succeeded accepted for Proj")

	posts := env.webhook.Requests()
	if len(posts) != 1 {
		t.Fatalf("expected one webhook post, got %d", len(posts))
	}
	if got := posts[0].Payload["text"]; got != "Project 'Proj' (main) built successfully in 1 minute and 1 second." {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestEventStartedFromStdin(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLIWithInput(t, []string{"--json", "event", "started", "-"}, env.configPath, strings.NewReader(successBuild))
	if err != nil {
		t.Fatalf("event started: %v", err)
	}
	var resp api.EventResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if !resp.Accepted || resp.Event != "started" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if len(env.webhook.Requests()) != 0 {
		t.Fatal("started notifications are off by default")
	}
}

func TestEventFinishedIgnoresRunningBuild(t *testing.T) {
	env := setupCLITestEnv(t)
	doc := strings.Replace(successBuild, `"success"`, `"running"`, 1)

	out, _, err := runCLIWithInput(t, []string{"event", "finished", "-"}, env.configPath, strings.NewReader(doc))
	if err != nil {
		t.Fatalf("event finished: %v", err)
	}
	requireContains(t, out, "Event ignored")
}

func TestEventRejectsInvalidDocument(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLIWithInput(t, []string{"event", "finished", "-"}, env.configPath, strings.NewReader(`{"full_name": "Proj"}`))
	if err == nil {
		t.Fatal("expected validation error for missing project id")
	}
}

func TestStatusCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "Daemon Status")
	requireContains(t, out, "[OK] Running")
	requireContains(t, out, "[OK] Configured")

	out, _, err = runCLI(t, []string{"--json", "status"}, env.configPath)
	if err != nil {
		t.Fatalf("status --json: %v", err)
	}
	var status api.DaemonStatus
	if err := json.Unmarshal([]byte(out), &status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !status.Running || status.APIAddress != env.daemon.APIAddress() {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestTestNotifyCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"test-notify"}, env.configPath)
	if err != nil {
		t.Fatalf("test-notify: %v", err)
	}
	requireContains(t, out, "Test notification sent")

	posts := env.webhook.Requests()
	if len(posts) != 1 || posts[0].Payload["text"] != "slacknotifier test notification" {
		t.Fatalf("unexpected webhook posts %+v", posts)
	}
}
