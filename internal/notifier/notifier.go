package notifier

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"slacknotifier/internal/build"
	"slacknotifier/internal/config"
	"slacknotifier/internal/duration"
	"slacknotifier/internal/logging"
	"slacknotifier/internal/metrics"
	"slacknotifier/internal/services"
	"slacknotifier/internal/settings"
)

// Skip reasons reported in Result.
const (
	SkipPersonal      = "personal build"
	SkipNoBranch      = "build has no branch"
	SkipDisabled      = "project notifications disabled"
	SkipEventDisabled = "event disabled for project"
	SkipBadDuration   = "invalid build duration"
)

// Result describes what happened to one event.
type Result struct {
	Event         Event  `json:"event"`
	CorrelationID string `json:"correlation_id"`
	Sent          bool   `json:"sent"`
	Skipped       string `json:"skipped,omitempty"`
	Error         string `json:"error,omitempty"`
}

// Notifier posts build notifications to the configured Slack webhook.
type Notifier struct {
	slack    config.Slack
	provider settings.Provider
	client   *http.Client
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// Option customizes a Notifier.
type Option func(*Notifier)

// WithHTTPClient overrides the outbound HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(n *Notifier) {
		if client != nil {
			n.client = client
		}
	}
}

// WithMetrics records event and delivery metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(n *Notifier) { n.metrics = m }
}

// New builds a Notifier from the global config. provider may be nil, in which
// case every project uses the global defaults.
func New(cfg *config.Config, provider settings.Provider, logger *slog.Logger, opts ...Option) *Notifier {
	n := &Notifier{
		slack:    cfg.Slack,
		provider: provider,
		client:   &http.Client{Timeout: cfg.RequestTimeout()},
		logger:   logging.NewComponentLogger(logger, "notifier"),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// BuildStarted implements Listener.
func (n *Notifier) BuildStarted(ctx context.Context, b build.Build) {
	n.Handle(ctx, EventStarted, b)
}

// BuildSucceeded implements Listener.
func (n *Notifier) BuildSucceeded(ctx context.Context, b build.Build) {
	n.Handle(ctx, EventSucceeded, b)
}

// BuildFailed implements Listener.
func (n *Notifier) BuildFailed(ctx context.Context, b build.Build) {
	n.Handle(ctx, EventFailed, b)
}

// Handle runs the full decide/format/deliver pipeline for one event. Delivery
// problems are logged and reflected in the Result, never returned.
func (n *Notifier) Handle(ctx context.Context, event Event, b build.Build) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	result := Result{Event: event}
	if id, ok := services.RequestIDFromContext(ctx); ok {
		result.CorrelationID = id
	} else {
		result.CorrelationID = uuid.NewString()
		ctx = services.WithRequestID(ctx, result.CorrelationID)
	}
	ctx = services.WithBuildID(ctx, b.ID)
	ctx = services.WithProjectID(ctx, b.ProjectID)
	logger := logging.WithContext(ctx, n.logger).With(logging.String(logging.FieldEvent, string(event)))

	n.metrics.EventReceived(string(event))

	skip := func(reason string) Result {
		result.Skipped = reason
		n.metrics.Notification(string(event), metrics.ResultSkipped)
		logger.Debug("notification skipped", logging.String("reason", reason))
		return result
	}

	if b.Personal {
		return skip(SkipPersonal)
	}
	if event.Finished() && b.Branch == nil {
		return skip(SkipNoBranch)
	}

	eff := settings.Resolve(n.slack, n.lookup(ctx, logger, b.ProjectID))
	if !eff.Enabled {
		return skip(SkipDisabled)
	}
	if !allowed(eff, event) {
		return skip(SkipEventDisabled)
	}

	text, err := n.text(event, b, eff)
	if err != nil {
		logger.Warn("cannot format build duration", logging.Error(err), logging.Int64("duration_ms", b.DurationMillis))
		return skip(SkipBadDuration)
	}

	payload := Payload{
		Channel:     eff.ChannelFor(b),
		Username:    eff.Username,
		Text:        text,
		IconURL:     eff.IconURL,
		Attachments: attachments(b, eventColor(event)),
	}

	start := time.Now()
	err = n.deliver(ctx, payload)
	n.metrics.ObserveDelivery(string(event), time.Since(start))
	if err != nil {
		result.Error = err.Error()
		n.metrics.Notification(string(event), metrics.ResultFailed)
		logger.Warn("slack notification not delivered",
			logging.Error(err),
			logging.String("channel", payload.Channel),
		)
		return result
	}

	result.Sent = true
	n.metrics.Notification(string(event), metrics.ResultSent)
	logger.Info("slack notification sent",
		logging.String("channel", payload.Channel),
		logging.Int("attachments", len(payload.Attachments)),
	)
	return result
}

// TestNotification posts a synthetic message through the normal delivery
// path and returns any delivery error.
func (n *Notifier) TestNotification(ctx context.Context) error {
	eff := settings.Resolve(n.slack, nil)
	payload := Payload{
		Channel:  eff.ChannelFor(build.Build{}),
		Username: eff.Username,
		Text:     "slacknotifier test notification",
		IconURL:  eff.IconURL,
	}
	return n.deliver(ctx, payload)
}

func (n *Notifier) lookup(ctx context.Context, logger *slog.Logger, projectID string) *settings.Project {
	if n.provider == nil {
		return nil
	}
	project, err := n.provider.Get(ctx, projectID)
	if err != nil {
		logger.Warn("project settings unavailable; using global defaults", logging.Error(err))
		return nil
	}
	return project
}

func (n *Notifier) text(event Event, b build.Build, eff settings.Effective) (string, error) {
	if event == EventStarted {
		return startedText(b), nil
	}
	elapsed, err := duration.FromBuild(b)
	if err != nil {
		return "", err
	}
	if event == EventSucceeded {
		return succeededText(b, elapsed), nil
	}
	return failedText(b, elapsed, eff.FailedLink), nil
}

func allowed(eff settings.Effective, event Event) bool {
	switch event {
	case EventStarted:
		return eff.PostStarted
	case EventSucceeded:
		return eff.PostSuccessful
	case EventFailed:
		return eff.PostFailed
	default:
		return false
	}
}
