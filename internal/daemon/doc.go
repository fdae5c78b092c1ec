// Package daemon coordinates the long-running slacknotifier process.
//
// It wires configuration, the project settings store, the notifier, and the
// event dispatcher into a single lifecycle with flock-based locking to prevent
// multiple instances. The daemon exposes a chi HTTP API through which a build
// server reports lifecycle events and operators manage project overrides,
// plus health and Prometheus metrics endpoints.
//
// Keep orchestration logic here: formatting and delivery live in the notifier
// package while the daemon focuses on startup, shutdown, and request handling.
package daemon
