package notifier

import (
	"context"

	"slacknotifier/internal/build"
)

// Event names a build lifecycle transition.
type Event string

const (
	EventStarted   Event = "started"
	EventSucceeded Event = "succeeded"
	EventFailed    Event = "failed"
)

// Finished reports whether the event marks the end of a build.
func (e Event) Finished() bool {
	return e == EventSucceeded || e == EventFailed
}

// Listener receives build lifecycle callbacks. Implementations must not block
// the caller on delivery problems.
type Listener interface {
	BuildStarted(ctx context.Context, b build.Build)
	BuildSucceeded(ctx context.Context, b build.Build)
	BuildFailed(ctx context.Context, b build.Build)
}
