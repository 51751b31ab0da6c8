package observe

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records traced transitions as Prometheus metrics.
type Metrics struct {
	transitions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewMetrics creates and registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	m := &Metrics{
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "agent_transitions_total",
				Help:      "Total number of traced agent transitions by outcome",
			},
			[]string{"agent", "type"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "agent_transition_duration_seconds",
				Help:      "Duration of traced agent transitions",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"agent"},
		),
	}
	for _, c := range []prometheus.Collector{m.transitions, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return m, nil
}

// Observe implements Observer.
func (m *Metrics) Observe(_ context.Context, e Event) {
	m.transitions.WithLabelValues(e.Agent, string(e.Type)).Inc()
	m.duration.WithLabelValues(e.Agent).Observe(e.Duration.Seconds())
}

// Transitions exposes the transitions counter, labelled by agent and event type.
func (m *Metrics) Transitions() *prometheus.CounterVec { return m.transitions }
