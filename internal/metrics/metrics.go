package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "partygames"

// Metrics holds every collector the server exports. Each instance registers
// on its own registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	SessionsCreated     prometheus.Counter
	ChallengesShown     *prometheus.CounterVec
	ChallengesResolved  *prometheus.CounterVec
	EmptyPools          *prometheus.CounterVec
	LedgerWriteFailures prometheus.Counter
	DiceRolls           *prometheus.CounterVec
	SessionSubscribers  prometheus.Gauge
}

// New creates the collectors on a fresh registry, together with the Go
// runtime and process collectors
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by method, route and status.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by method and route.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		SessionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tod_sessions_created_total",
			Help:      "Total number of truth-or-dare sessions created.",
		}),
		ChallengesShown: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tod_challenges_shown_total",
				Help:      "Total number of challenges drawn, by type and mode.",
			},
			[]string{"type", "mode"},
		),
		ChallengesResolved: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tod_challenges_resolved_total",
				Help:      "Total number of challenges resolved, by outcome.",
			},
			[]string{"outcome"},
		),
		EmptyPools: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tod_empty_question_pool_total",
				Help:      "Total number of draws that found no eligible question, by type and mode.",
			},
			[]string{"type", "mode"},
		),
		SessionSubscribers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tod_session_subscribers",
			Help:      "Number of open session event streams.",
		}),
		LedgerWriteFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_write_failures_total",
			Help:      "Total number of score entries that failed to persist after a resolved challenge.",
		}),
		DiceRolls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dice_rolls_total",
				Help:      "Total number of dice rolls by face value.",
			},
			[]string{"value"},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the registry for tests
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}
