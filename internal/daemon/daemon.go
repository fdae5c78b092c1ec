package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"slacknotifier/internal/api"
	"slacknotifier/internal/config"
	"slacknotifier/internal/events"
	"slacknotifier/internal/logging"
	"slacknotifier/internal/metrics"
	"slacknotifier/internal/notifier"
	"slacknotifier/internal/preflight"
	"slacknotifier/internal/settings"
)

// Daemon owns the event API and enforces single-instance execution.
type Daemon struct {
	cfg        *config.Config
	logger     *slog.Logger
	store      *settings.Store
	notifier   *notifier.Notifier
	dispatcher *events.Dispatcher
	metrics    *metrics.Metrics
	api        *apiServer

	lockPath string
	lock     *flock.Flock

	notifierOpts []notifier.Option

	running   atomic.Bool
	startedAt time.Time
	cancel    context.CancelFunc
}

// Option customizes daemon construction.
type Option func(*Daemon)

// WithNotifierOptions forwards options to the notifier the daemon builds.
func WithNotifierOptions(opts ...notifier.Option) Option {
	return func(d *Daemon) {
		d.notifierOpts = append(d.notifierOpts, opts...)
	}
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *settings.Store, logger *slog.Logger, opts ...Option) (*Daemon, error) {
	if cfg == nil || store == nil {
		return nil, errors.New("daemon requires config and settings store")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	d := &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    store,
		metrics:  metrics.New(),
		lockPath: cfg.LockPath(),
		lock:     flock.New(cfg.LockPath()),
	}
	for _, opt := range opts {
		opt(d)
	}
	notifierOpts := append([]notifier.Option{notifier.WithMetrics(d.metrics)}, d.notifierOpts...)
	d.notifier = notifier.New(cfg, store, logger, notifierOpts...)

	d.dispatcher = events.NewDispatcher(logger)
	d.dispatcher.AddListener(d.notifier)

	srv, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.api = srv
	return d, nil
}

// Start acquires the daemon lock and begins serving the API.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another slacknotifier daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := d.api.start(runCtx); err != nil {
		cancel()
		_ = d.lock.Unlock()
		return err
	}

	d.cancel = cancel
	d.startedAt = time.Now().UTC()
	d.running.Store(true)
	d.logger.Info("slacknotifier daemon started",
		logging.String("lock", d.lockPath),
		logging.String("api", d.api.address()),
	)
	for _, check := range preflight.Failed(preflight.RunAll(runCtx, d.cfg)) {
		d.logger.Warn("preflight check failed",
			logging.String("check", check.Name),
			logging.String("detail", check.Detail),
		)
	}
	return nil
}

// Stop stops the API server and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("slacknotifier daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Status reports daemon runtime information.
func (d *Daemon) Status() api.DaemonStatus {
	status := api.DaemonStatus{
		Running:        d.running.Load(),
		PID:            os.Getpid(),
		APIAddress:     d.api.address(),
		SettingsDBPath: d.store.Path(),
		LockFilePath:   d.lockPath,
		Listeners:      d.dispatcher.Listeners(),
	}
	if _, err := d.cfg.Slack.WebhookEndpoint(); err != nil {
		status.WebhookProblem = err.Error()
	} else {
		status.WebhookConfigured = true
	}
	if !d.startedAt.IsZero() {
		status.StartedAt = d.startedAt.Format(time.RFC3339)
	}
	return status
}

// APIAddress returns the address the API listener is bound to.
func (d *Daemon) APIAddress() string {
	return d.api.address()
}

// Dispatcher exposes the event source so additional listeners can subscribe.
func (d *Daemon) Dispatcher() *events.Dispatcher {
	return d.dispatcher
}
