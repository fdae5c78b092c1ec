// Package settings owns per-project notification overrides and resolves them
// against the global Slack defaults.
//
// A Project record carries tri-state post_* toggles (unset, on, off), an
// optional channel and logo URL, and an enabled kill switch. Resolve overlays
// a record on config.Slack and returns the Effective settings the notifier
// consults for one event. Records persist in a SQLite database (Store) that
// stands in for the build server's own keyed settings storage; callers depend
// on the read-only Provider interface so tests can substitute stubs.
package settings
