// Package metrics exposes prometheus collectors for the order assistant.
// A nil *Recorder is valid and records nothing, so callers never need to
// check whether metrics are enabled.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Turn outcomes.
const (
	OutcomeDeterministic = "deterministic"
	OutcomeGenerated     = "generated"
	OutcomeEmpty         = "empty"
	OutcomeFailed        = "failed"
)

// Recorder owns a private registry and the assistant's collectors.
type Recorder struct {
	registry *prometheus.Registry

	turns           *prometheus.CounterVec
	transitions     *prometheus.CounterVec
	pricingFailures *prometheus.CounterVec
	ordersCompleted prometheus.Counter
	orderValue      prometheus.Histogram
	generator       *prometheus.HistogramVec
	transcriptions  *prometheus.CounterVec
	sessions        prometheus.Gauge
}

// New creates a recorder with all collectors registered. Go runtime and
// process collectors are included when withRuntime is set.
func New(withRuntime bool) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		turns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pizzabot_turns_total",
				Help: "Processed user turns by stage at turn start and outcome",
			},
			[]string{"stage", "outcome"},
		),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pizzabot_stage_transitions_total",
				Help: "Stage transitions taken by the dialogue engine",
			},
			[]string{"from", "to"},
		),
		pricingFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pizzabot_pricing_failures_total",
				Help: "Order summaries whose total could not be calculated",
			},
			[]string{"kind"},
		),
		ordersCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pizzabot_orders_completed_total",
			Help: "Orders that reached the completed stage",
		}),
		orderValue: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pizzabot_order_value_dollars",
			Help:    "Total value of completed orders",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		}),
		generator: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pizzabot_generator_duration_seconds",
				Help:    "Latency of conversational generator calls",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		),
		transcriptions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pizzabot_transcriptions_total",
				Help: "Audio transcription requests by result",
			},
			[]string{"result"},
		),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pizzabot_sessions_active",
			Help: "Sessions currently held in memory",
		}),
	}

	r.registry.MustRegister(
		r.turns, r.transitions, r.pricingFailures, r.ordersCompleted,
		r.orderValue, r.generator, r.transcriptions, r.sessions,
	)
	if withRuntime {
		r.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return r
}

// Handler serves the registry in the prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ── Recording ────────────────────────────────────────────────────

func (r *Recorder) Turn(stage, outcome string) {
	if r == nil {
		return
	}
	r.turns.WithLabelValues(stage, outcome).Inc()
}

func (r *Recorder) Transition(from, to string) {
	if r == nil || from == to {
		return
	}
	r.transitions.WithLabelValues(from, to).Inc()
}

func (r *Recorder) PricingFailure(kind string) {
	if r == nil {
		return
	}
	r.pricingFailures.WithLabelValues(kind).Inc()
}

// OrderCompleted counts a finished order. A negative total means the price
// could not be calculated and only the count is recorded.
func (r *Recorder) OrderCompleted(total float64) {
	if r == nil {
		return
	}
	r.ordersCompleted.Inc()
	if total >= 0 {
		r.orderValue.Observe(total)
	}
}

func (r *Recorder) Generator(d time.Duration, err error) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.generator.WithLabelValues(result).Observe(d.Seconds())
}

func (r *Recorder) Transcription(err error) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.transcriptions.WithLabelValues(result).Inc()
}

func (r *Recorder) Sessions(n int) {
	if r == nil {
		return
	}
	r.sessions.Set(float64(n))
}
