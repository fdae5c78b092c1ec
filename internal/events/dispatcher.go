// Package events fans build lifecycle events out to registered listeners.
//
// The Dispatcher stands in for the build server's event bus: the daemon API
// feeds it started and finished builds, and it routes finished builds to the
// success or failure callback by status.
package events

import (
	"context"
	"log/slog"
	"sync"

	"slacknotifier/internal/build"
	"slacknotifier/internal/logging"
	"slacknotifier/internal/notifier"
)

// Source accepts listener registrations.
type Source interface {
	AddListener(l notifier.Listener)
}

// Dispatcher delivers events synchronously to every registered listener in
// registration order.
type Dispatcher struct {
	mu        sync.RWMutex
	listeners []notifier.Listener
	logger    *slog.Logger
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	return &Dispatcher{logger: logging.NewComponentLogger(logger, "events")}
}

// AddListener implements Source.
func (d *Dispatcher) AddListener(l notifier.Listener) {
	if l == nil {
		return
	}
	d.mu.Lock()
	d.listeners = append(d.listeners, l)
	d.mu.Unlock()
}

// Started announces a build start.
func (d *Dispatcher) Started(ctx context.Context, b build.Build) {
	for _, l := range d.snapshot() {
		l.BuildStarted(ctx, b)
	}
}

// Finished routes a finished build by status and reports the event it was
// routed as. Builds that are neither successful nor failed are ignored.
func (d *Dispatcher) Finished(ctx context.Context, b build.Build) (notifier.Event, bool) {
	var event notifier.Event
	switch b.Status {
	case build.StatusSuccess:
		event = notifier.EventSucceeded
	case build.StatusFailed:
		event = notifier.EventFailed
	default:
		d.logger.Debug("ignoring finished build with non-terminal status",
			logging.Int64(logging.FieldBuildID, b.ID),
			logging.String("status", string(b.Status)),
		)
		return "", false
	}
	for _, l := range d.snapshot() {
		if event == notifier.EventSucceeded {
			l.BuildSucceeded(ctx, b)
		} else {
			l.BuildFailed(ctx, b)
		}
	}
	return event, true
}

// Listeners reports how many listeners are registered.
func (d *Dispatcher) Listeners() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.listeners)
}

func (d *Dispatcher) snapshot() []notifier.Listener {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]notifier.Listener(nil), d.listeners...)
}
