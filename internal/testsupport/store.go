package testsupport

import (
	"context"
	"testing"

	"slacknotifier/internal/config"
	"slacknotifier/internal/settings"
)

// MustOpenStore opens a settings.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *settings.Store {
	t.Helper()

	store, err := settings.Open(cfg)
	if err != nil {
		t.Fatalf("settings.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// PutProject stores project overrides for tests.
func PutProject(t testing.TB, store *settings.Store, project settings.Project) *settings.Project {
	t.Helper()

	saved, err := store.Put(context.Background(), project)
	if err != nil {
		t.Fatalf("store.Put: %v", err)
	}
	return saved
}
