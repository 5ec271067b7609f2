// Package metrics exposes study activity as Prometheus metrics.
package metrics

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/p-devianne/flashmind/internal/events"
)

const namespace = "flashmind"

// Recorder counts study events on a private registry.
type Recorder struct {
	registry *prometheus.Registry
	logger   *slog.Logger

	sessionsStarted *prometheus.CounterVec
	sessionsEnded   prometheus.Counter
	activeSessions  prometheus.Gauge
	feedback        *prometheus.CounterVec
	passesCompleted *prometheus.CounterVec
	modeSwitches    *prometheus.CounterVec
}

// NewRecorder creates a Recorder with its own registry, including the Go
// runtime and process collectors.
func NewRecorder(logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}

	r := &Recorder{
		registry: prometheus.NewRegistry(),
		logger:   logger.With(slog.String("component", "metrics")),
		sessionsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Study sessions started, by mode.",
		}, []string{"mode"}),
		sessionsEnded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_ended_total",
			Help:      "Study sessions ended.",
		}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Study sessions currently open.",
		}),
		feedback: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feedback_total",
			Help:      "Feedback submitted on cards, by value.",
		}, []string{"feedback"}),
		passesCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "passes_completed_total",
			Help:      "Completed passes through a topic's cards, by mode.",
		}, []string{"mode"}),
		modeSwitches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mode_switches_total",
			Help:      "Study mode switches, by target mode.",
		}, []string{"to"}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.sessionsStarted,
		r.sessionsEnded,
		r.activeSessions,
		r.feedback,
		r.passesCompleted,
		r.modeSwitches,
	)
	return r
}

// Registry returns the registry the collectors live on.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// HandleEvent implements events.EventHandler.
func (r *Recorder) HandleEvent(_ context.Context, event *events.Event) error {
	switch event.Type {
	case events.TypeSessionStarted:
		var p events.SessionStartedPayload
		if err := event.UnmarshalPayload(&p); err != nil {
			return err
		}
		r.sessionsStarted.WithLabelValues(p.Mode).Inc()
		r.activeSessions.Inc()

	case events.TypeCardScored:
		var p events.CardScoredPayload
		if err := event.UnmarshalPayload(&p); err != nil {
			return err
		}
		r.feedback.WithLabelValues(p.Feedback).Inc()

	case events.TypeSessionPassCompleted:
		var p events.PassCompletedPayload
		if err := event.UnmarshalPayload(&p); err != nil {
			return err
		}
		r.passesCompleted.WithLabelValues(p.Mode).Inc()

	case events.TypeSessionModeChanged:
		var p events.ModeChangedPayload
		if err := event.UnmarshalPayload(&p); err != nil {
			return err
		}
		r.modeSwitches.WithLabelValues(p.To).Inc()

	case events.TypeSessionEnded:
		r.sessionsEnded.Inc()
		r.activeSessions.Dec()

	default:
		r.logger.Debug("ignoring event", slog.String("event_type", event.Type))
	}
	return nil
}
