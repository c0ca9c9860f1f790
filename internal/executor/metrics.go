package executor

import (
	"time"

	"stacks-crowdfund-go/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	dispatches *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewMetrics registers the executor metrics with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		dispatches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "campaign",
				Name:      "dispatch_total",
				Help:      "Dispatched transactions by action and terminal status",
			},
			[]string{"action", "status", "category"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "campaign",
				Name:      "dispatch_duration_seconds",
				Help:      "Time from dispatch to terminal status, including wallet approval",
				Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60, 300},
			},
			[]string{"action", "context"},
		),
	}
}

func (m *Metrics) observe(action models.Action, ctxName string, result models.ExecutionResult, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.dispatches.WithLabelValues(string(action), string(result.Status), string(result.Category)).Inc()
	m.duration.WithLabelValues(string(action), ctxName).Observe(elapsed.Seconds())
}
