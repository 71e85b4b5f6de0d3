package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Mohsinsiddi/bn8004/internal/launchpad"
)

const Namespace = "bn8004"

var states = []launchpad.State{
	launchpad.StateDisconnected,
	launchpad.StateConnected,
	launchpad.StateApproved,
	launchpad.StateMinting,
}

// Metrics records launchpad activity in a prometheus registry.
type Metrics struct {
	registry *prometheus.Registry

	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	state      *prometheus.GaugeVec
	info       *prometheus.GaugeVec
}

var _ launchpad.Recorder = (*Metrics)(nil)

// New creates metrics in a fresh registry that also carries the Go runtime
// and process collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewGoCollector())
	return newMetrics(registry)
}

func newMetrics(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)
	m := &Metrics{
		registry: registry,

		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "operations_total",
			Help:      "Count of launchpad operations by outcome",
		}, []string{"op", "outcome"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "operation_duration_seconds",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
			Help:      "Time from request to confirmation, including wallet prompts",
		}, []string{"op"}),

		state: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "state",
			Help:      "1 for the current state of the mint flow, 0 for the others",
		}, []string{"state"}),

		info: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "info",
			Help:      "Pseudo-metric tracking version and chain",
		}, []string{"version", "chain_id"}),
	}
	m.SetState(launchpad.StateDisconnected)
	return m
}

// Registry returns the registry to serve on /metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordInfo sets the info pseudo-metric.
func (m *Metrics) RecordInfo(version, chainID string) {
	m.info.WithLabelValues(version, chainID).Set(1)
}

func (m *Metrics) ObserveOperation(op, outcome string, elapsed time.Duration) {
	m.operations.WithLabelValues(op, outcome).Inc()
	m.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}

func (m *Metrics) SetState(s launchpad.State) {
	for _, st := range states {
		v := 0.0
		if st == s {
			v = 1
		}
		m.state.WithLabelValues(st.String()).Set(v)
	}
}
