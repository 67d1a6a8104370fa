package pipeline

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Step outcomes used as metric labels.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomePanic   = "panic"
	OutcomeSkipped = "skipped"
)

// Metrics counts step executions and their durations.
type Metrics struct {
	steps    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the pipeline collectors with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "debugkit",
			Subsystem: "pipeline",
			Name:      "steps_total",
			Help:      "Pipeline step executions by outcome.",
		}, []string{"step", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "debugkit",
			Subsystem: "pipeline",
			Name:      "step_duration_seconds",
			Help:      "Pipeline step wall time.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 10, 6),
		}, []string{"step"}),
	}
	for _, c := range []prometheus.Collector{m.steps, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(step Step, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.steps.WithLabelValues(string(step), outcome(err)).Inc()
	m.duration.WithLabelValues(string(step)).Observe(elapsed.Seconds())
}

func (m *Metrics) skipped(step Step) {
	if m == nil {
		return
	}
	m.steps.WithLabelValues(string(step), OutcomeSkipped).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrPanic):
		return OutcomePanic
	default:
		return OutcomeError
	}
}
