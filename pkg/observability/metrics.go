package observability

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/concierge/pkg/domain"
)

const namespace = "concierge"

// Call outcomes recorded by the port decorators.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
)

// Metrics holds the Prometheus collectors of one process.
type Metrics struct {
	registry *prometheus.Registry

	nodeVisits   *prometheus.CounterVec
	nodeDuration *prometheus.HistogramVec
	turns        *prometheus.CounterVec
	turnDuration prometheus.Histogram
	intents      *prometheus.CounterVec
	calls        *prometheus.CounterVec
	callDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers the collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		nodeVisits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "node_visits_total",
			Help:      "Total number of node visits",
		}, []string{"node"}),
		nodeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "node_duration_seconds",
			Help:      "Duration of node work functions",
			Buckets:   prometheus.DefBuckets,
		}, []string{"node"}),
		turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Engine runs by outcome",
		}, []string{"outcome"}),
		turnDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "turn_duration_seconds",
			Help:      "Duration of complete engine runs",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}),
		intents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intents_total",
			Help:      "Classified intents of completed turns",
		}, []string{"intent"}),
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "external_calls_total",
			Help:      "Calls to external collaborators by outcome",
		}, []string{"service", "op", "outcome"}),
		callDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "external_call_duration_seconds",
			Help:      "Latency of calls to external collaborators",
			Buckets:   prometheus.DefBuckets,
		}, []string{"service", "op"}),
	}

	m.registry.MustRegister(
		m.nodeVisits, m.nodeDuration,
		m.turns, m.turnDuration, m.intents,
		m.calls, m.callDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// TrackSessions registers a gauge reporting the number of live sessions.
func (m *Metrics) TrackSessions(count func() int) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Number of sessions held by the store",
	}, func() float64 {
		return float64(count())
	}))
}

// Hooks returns lifecycle hooks that record node and turn metrics.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeEnter: func(ctx context.Context, e *domain.NodeEvent) {
			m.nodeVisits.WithLabelValues(e.NodeID).Inc()
		},
		OnNodeLeave: func(ctx context.Context, e *domain.NodeEvent) {
			m.nodeDuration.WithLabelValues(e.NodeID).Observe(e.Duration.Seconds())
		},
		OnTurnComplete: func(ctx context.Context, e *domain.TurnEvent) {
			m.turnDuration.Observe(e.Took.Seconds())
			if e.Err != nil {
				m.turns.WithLabelValues(turnOutcome(e.Err)).Inc()
				return
			}
			m.turns.WithLabelValues(OutcomeOK).Inc()
			if e.Intent != "" {
				m.intents.WithLabelValues(string(e.Intent)).Inc()
			}
		},
	}
}

func turnOutcome(err error) string {
	var rtErr *domain.EngineRuntimeError
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "aborted"
	case errors.As(err, &rtErr):
		return "engine_error"
	}
	return OutcomeError
}

func (m *Metrics) observeCall(service, op string, seconds float64, err error) {
	m.callDuration.WithLabelValues(service, op).Observe(seconds)
	m.calls.WithLabelValues(service, op, callOutcome(err)).Inc()
}

func callOutcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, domain.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return OutcomeTimeout
	}
	return OutcomeError
}
