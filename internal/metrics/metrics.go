// Package metrics exposes Prometheus collectors for event intake and webhook
// delivery. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Notification outcomes.
const (
	ResultSent    = "sent"
	ResultSkipped = "skipped"
	ResultFailed  = "failed"
)

// Metrics holds the collectors registered on a dedicated registry.
type Metrics struct {
	registry         *prometheus.Registry
	events           *prometheus.CounterVec
	notifications    *prometheus.CounterVec
	deliveryDuration *prometheus.HistogramVec
}

// New registers the collectors on a fresh registry alongside the Go and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slacknotifier_events_total",
				Help: "Build lifecycle events received",
			},
			[]string{"event"},
		),
		notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slacknotifier_notifications_total",
				Help: "Notifications by outcome (sent, skipped, failed)",
			},
			[]string{"event", "result"},
		),
		deliveryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "slacknotifier_delivery_duration_seconds",
				Help:    "Duration of webhook POSTs",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"event"},
		),
	}
	m.registry.MustRegister(
		m.events,
		m.notifications,
		m.deliveryDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// EventReceived counts an incoming lifecycle event.
func (m *Metrics) EventReceived(event string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(event).Inc()
}

// Notification counts a notification outcome.
func (m *Metrics) Notification(event, result string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(event, result).Inc()
}

// ObserveDelivery records how long a webhook POST took.
func (m *Metrics) ObserveDelivery(event string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.deliveryDuration.WithLabelValues(event).Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry for gathering in tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
