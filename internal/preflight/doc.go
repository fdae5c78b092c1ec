// Package preflight provides readiness checks for the filesystem paths and
// the webhook endpoint slacknotifier depends on.
//
// These checks run in two contexts:
//   - The daemon runs RunAll on start and logs every failing check at warn.
//     Failures never block startup; events are still accepted and dropped
//     notifications are reported per event.
//   - The CLI "config validate" command prints each result as a status line.
package preflight
