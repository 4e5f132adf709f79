package institutionapi

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	calls       *prometheus.HistogramVec
	breakerOpen *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		calls: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "credverify_institution_call_duration_seconds",
			Help:    "Institution API call latency by outcome",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"outcome"}), // outcome: ok, pending, or an error category
		breakerOpen: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "credverify_institution_breaker_opened_total",
			Help: "Circuit breaker openings by institution",
		}, []string{"institution_id"}),
	}
}

func (m *Metrics) ObserveCall(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(outcome).Observe(d.Seconds())
}

func (m *Metrics) IncBreakerOpened(institutionID string) {
	if m == nil {
		return
	}
	m.breakerOpen.WithLabelValues(institutionID).Inc()
}
