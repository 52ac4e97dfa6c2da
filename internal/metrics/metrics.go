// Package metrics exposes Prometheus instrumentation for matching and scoring.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "boutmatch"

// Recorder receives domain events worth counting
type Recorder interface {
	MatchingRun(bouts, leftovers int, elapsed time.Duration)
	ManualPair(accepted bool, reason string)
	OutcomeRecorded(outcome, source string)
	WebSocketClients(n int)
}

// Metrics is a Recorder backed by its own Prometheus registry
type Metrics struct {
	registry *prometheus.Registry

	runs            prometheus.Counter
	runDuration     prometheus.Histogram
	bouts           prometheus.Gauge
	leftovers       prometheus.Gauge
	manualPairs     *prometheus.CounterVec
	outcomes        *prometheus.CounterVec
	websocketClient prometheus.Gauge
}

// New creates Metrics registered on a fresh registry. Go runtime and process
// collectors are included.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matching_runs_total",
			Help:      "Number of automatic matching runs.",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "matching_run_seconds",
			Help:      "Time spent partitioning and pairing the roster.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		bouts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "bouts",
			Help:      "Bouts produced by the latest matching run.",
		}),
		leftovers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "leftovers",
			Help:      "Entrants left without a bout by the latest matching run.",
		}),
		manualPairs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "manual_pairs_total",
			Help:      "Manual pairing attempts by result.",
		}, []string{"result"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outcomes_recorded_total",
			Help:      "Bout outcomes recorded by outcome and source.",
		}, []string{"outcome", "source"}),
		websocketClient: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_clients",
			Help:      "Connected live-update clients.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.runs, m.runDuration, m.bouts, m.leftovers, m.manualPairs, m.outcomes, m.websocketClient,
	)
	return m
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// MatchingRun records a completed automatic matching run
func (m *Metrics) MatchingRun(bouts, leftovers int, elapsed time.Duration) {
	m.runs.Inc()
	m.runDuration.Observe(elapsed.Seconds())
	m.bouts.Set(float64(bouts))
	m.leftovers.Set(float64(leftovers))
}

// ManualPair records a manual pairing attempt. reason is the rejection reason
// and is ignored when accepted.
func (m *Metrics) ManualPair(accepted bool, reason string) {
	if accepted {
		m.manualPairs.WithLabelValues("accepted").Inc()
		m.bouts.Inc()
		m.leftovers.Sub(2)
		return
	}
	m.manualPairs.WithLabelValues(reason).Inc()
}

// OutcomeRecorded records an outcome from the given source (api or scoreboard)
func (m *Metrics) OutcomeRecorded(outcome, source string) {
	m.outcomes.WithLabelValues(outcome, source).Inc()
}

// WebSocketClients sets the number of connected clients
func (m *Metrics) WebSocketClients(n int) {
	m.websocketClient.Set(float64(n))
}

// Nop is a Recorder that discards everything
type Nop struct{}

func (Nop) MatchingRun(int, int, time.Duration) {}
func (Nop) ManualPair(bool, string)             {}
func (Nop) OutcomeRecorded(string, string)      {}
func (Nop) WebSocketClients(int)                {}

var (
	_ Recorder = (*Metrics)(nil)
	_ Recorder = Nop{}
)
