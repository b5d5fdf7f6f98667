package metrics

import (
	"time"

	"github.com/osuushi/convexify/advanced"
	"github.com/osuushi/convexify/internal/polyio"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the decomposition collectors. Its Observer method adapts it to
// the engine's progress events.
type Metrics struct {
	Decompositions *prometheus.CounterVec
	Duration       prometheus.Histogram
	Pieces         *prometheus.CounterVec
	Splits         *prometheus.CounterVec
	Rounds         prometheus.Histogram
	CacheRequests  *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Decompositions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "convexify_decompositions_total",
				Help: "Decompositions by outcome",
			},
			[]string{"outcome"},
		),
		Duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "convexify_decomposition_duration_seconds",
				Help:    "Time spent decomposing one polygon",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
		),
		Pieces: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "convexify_pieces_total",
				Help: "Pieces that were emitted as convex or given up on",
			},
			[]string{"state"},
		),
		Splits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "convexify_splits_total",
				Help: "Splits by target kind",
			},
			[]string{"target"},
		),
		Rounds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "convexify_rounds",
				Help:    "Rounds needed per decomposition",
				Buckets: prometheus.LinearBuckets(1, 4, 10),
			},
		),
		CacheRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "convexify_cache_requests_total",
				Help: "Result cache lookups by result",
			},
			[]string{"result"},
		),
	}
	reg.MustRegister(m.Decompositions, m.Duration, m.Pieces, m.Splits, m.Rounds, m.CacheRequests)
	return m
}

// Observer returns an advanced.Observer counting pieces and splits.
func (m *Metrics) Observer() advanced.Observer {
	return observer{m}
}

type observer struct {
	*Metrics
}

func (o observer) PieceConvex(id int, poly advanced.Polygon) {
	o.Pieces.WithLabelValues("convex").Inc()
}

func (o observer) PieceSplit(id int, plan advanced.SplitPlan) {
	if plan.Steiner != nil {
		o.Splits.WithLabelValues("steiner").Inc()
		return
	}
	o.Splits.WithLabelValues("vertex").Inc()
}

func (o observer) PieceFailed(err *advanced.PieceError) {
	o.Pieces.WithLabelValues("failed").Inc()
}

// ObserveDecomposition records the outcome of one call.
func (m *Metrics) ObserveDecomposition(result *advanced.Result, err error, elapsed time.Duration) {
	m.Duration.Observe(elapsed.Seconds())
	switch {
	case err != nil:
		m.Decompositions.WithLabelValues(polyio.ErrorKind(err)).Inc()
	case len(result.Failures) > 0:
		m.Decompositions.WithLabelValues("partial").Inc()
		m.Rounds.Observe(float64(result.Stats.Rounds))
	default:
		m.Decompositions.WithLabelValues("ok").Inc()
		m.Rounds.Observe(float64(result.Stats.Rounds))
	}
}

func (m *Metrics) CacheHit() {
	m.CacheRequests.WithLabelValues("hit").Inc()
}

func (m *Metrics) CacheMiss() {
	m.CacheRequests.WithLabelValues("miss").Inc()
}

func (m *Metrics) CacheError() {
	m.CacheRequests.WithLabelValues("error").Inc()
}
