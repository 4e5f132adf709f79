package compliance

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	eventsEmitted   *prometheus.CounterVec
	persistFailures prometheus.Counter
	persistDuration prometheus.Histogram
}

func NewMetrics() *Metrics {
	return &Metrics{
		eventsEmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "credverify_audit_events_emitted_total",
			Help: "Audit events persisted, by category",
		}, []string{"category"}),
		persistFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "credverify_audit_persist_failures_total",
			Help: "Audit events that failed to persist",
		}),
		persistDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "credverify_audit_persist_duration_seconds",
			Help:    "Latency of synchronous audit writes",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) IncEventsEmitted(category string) {
	if m == nil {
		return
	}
	m.eventsEmitted.WithLabelValues(category).Inc()
}

func (m *Metrics) IncPersistFailures() {
	if m == nil {
		return
	}
	m.persistFailures.Inc()
}

func (m *Metrics) ObservePersistDuration(seconds float64) {
	if m == nil {
		return
	}
	m.persistDuration.Observe(seconds)
}
