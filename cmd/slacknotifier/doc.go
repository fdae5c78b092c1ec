// Package main hosts the slacknotifier CLI entrypoint and command graph.
//
// The Cobra command tree runs the notification daemon in the foreground,
// forwards build lifecycle events to a running daemon over its HTTP API,
// edits per-project overrides in the settings database, and scaffolds
// configuration. Keep commands thin: behavior lives in the internal packages.
package main
