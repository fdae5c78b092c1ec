// Package api defines wire-format types and converters for the daemon HTTP
// API, plus a small client the CLI uses to talk to a running daemon.
//
// # Key Types
//
// DaemonStatus: running state, PID, settings database and lock paths, and
// whether a webhook is configured.
//
// EventResponse: acknowledgement for a posted build lifecycle event.
//
// ProjectSettings: transport form of settings.Project with the tri-state
// toggles rendered as "on", "off", or "default".
//
// # Design Notes
//
// JSON tags are snake_case to match the inbound build document. Timestamps use
// RFC3339.
package api
