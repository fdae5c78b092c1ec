// Package notifier turns build lifecycle events into Slack webhook posts.
//
// For each event the Notifier decides whether to post (personal builds,
// branchless finished builds, disabled projects, and disabled event toggles
// are skipped), resolves the effective settings for the build's project,
// formats the message text, attaches committer and related-issue summaries,
// and POSTs the payload as a form-encoded `payload=<json>` body.
//
// Delivery is fire-and-forget. Configuration problems, transport errors, and
// non-2xx responses are logged and counted but never returned to the event
// source. TestNotification is the one exception: it reports delivery errors so
// the CLI can tell the operator whether the webhook works.
package notifier
