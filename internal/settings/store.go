package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"slacknotifier/internal/config"
	"slacknotifier/internal/services"
)

// Store persists project overrides in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

const selectColumns = `project_id, post_started, post_successful, post_failed, channel, logo_url, enabled, updated_at`

// Open initializes or connects to the settings database under the data directory.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.SettingsDBPath())
}

// OpenPath opens the settings database at an explicit location.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	ctx = ensureContext(ctx)
	if err := s.db.PingContext(ctx); err != nil {
		return services.Wrap(services.ErrTransient, "settings", "ping", "database unreachable", err)
	}
	return nil
}

// Get returns the stored overrides for a project, or nil when none exist.
func (s *Store) Get(ctx context.Context, projectID string) (*Project, error) {
	ctx = ensureContext(ctx)
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return nil, services.Wrap(services.ErrValidation, "settings", "get", "project id is required", nil)
	}

	var project *Project
	err := retryOnBusy(ctx, func() error {
		row := s.db.QueryRowContext(ctx,
			"SELECT "+selectColumns+" FROM project_settings WHERE project_id = ?", projectID)
		p, scanErr := scanProject(row)
		if errors.Is(scanErr, sql.ErrNoRows) {
			project = nil
			return nil
		}
		if scanErr != nil {
			return scanErr
		}
		project = p
		return nil
	})
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "settings", "get", "query project settings", err)
	}
	return project, nil
}

// Put inserts or replaces a project's overrides.
func (s *Store) Put(ctx context.Context, project Project) (*Project, error) {
	project.ProjectID = strings.TrimSpace(project.ProjectID)
	if project.ProjectID == "" {
		return nil, services.Wrap(services.ErrValidation, "settings", "put", "project id is required", nil)
	}
	project.Channel = strings.TrimSpace(project.Channel)
	project.LogoURL = strings.TrimSpace(project.LogoURL)
	project.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	_, err := s.execWithRetry(ctx, `
		INSERT INTO project_settings (`+selectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(project_id) DO UPDATE SET
			post_started = excluded.post_started,
			post_successful = excluded.post_successful,
			post_failed = excluded.post_failed,
			channel = excluded.channel,
			logo_url = excluded.logo_url,
			enabled = excluded.enabled,
			updated_at = excluded.updated_at`,
		project.ProjectID,
		toggleArg(project.PostStarted),
		toggleArg(project.PostSuccessful),
		toggleArg(project.PostFailed),
		project.Channel,
		project.LogoURL,
		boolArg(project.Enabled),
		project.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "settings", "put", "store project settings", err)
	}
	return &project, nil
}

// Delete removes a project's overrides. It reports whether a record existed.
func (s *Store) Delete(ctx context.Context, projectID string) (bool, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return false, services.Wrap(services.ErrValidation, "settings", "delete", "project id is required", nil)
	}
	res, err := s.execWithRetry(ctx, "DELETE FROM project_settings WHERE project_id = ?", projectID)
	if err != nil {
		return false, services.Wrap(services.ErrTransient, "settings", "delete", "remove project settings", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, services.Wrap(services.ErrTransient, "settings", "delete", "rows affected", err)
	}
	return affected > 0, nil
}

// List returns every stored project ordered by project id.
func (s *Store) List(ctx context.Context) ([]Project, error) {
	ctx = ensureContext(ctx)
	var projects []Project
	err := retryOnBusy(ctx, func() error {
		projects = projects[:0]
		rows, err := s.db.QueryContext(ctx, "SELECT "+selectColumns+" FROM project_settings ORDER BY project_id")
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			p, err := scanProject(rows)
			if err != nil {
				return err
			}
			projects = append(projects, *p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "settings", "list", "query project settings", err)
	}
	return projects, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (*Project, error) {
	var (
		p                           Project
		started, successful, failed sql.NullBool
		enabled                     bool
		updatedAt                   string
	)
	if err := row.Scan(&p.ProjectID, &started, &successful, &failed, &p.Channel, &p.LogoURL, &enabled, &updatedAt); err != nil {
		return nil, err
	}
	p.PostStarted = nullToggle(started)
	p.PostSuccessful = nullToggle(successful)
	p.PostFailed = nullToggle(failed)
	p.Enabled = enabled
	if ts, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		p.UpdatedAt = ts
	}
	return &p, nil
}

func nullToggle(v sql.NullBool) *bool {
	if !v.Valid {
		return nil
	}
	return boolPtr(v.Bool)
}

func toggleArg(v *bool) any {
	if v == nil {
		return nil
	}
	return boolArg(*v)
}

func boolArg(v bool) int {
	if v {
		return 1
	}
	return 0
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}
