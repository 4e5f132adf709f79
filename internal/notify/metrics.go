package notify

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	sent    *prometheus.CounterVec
	dropped prometheus.Counter
}

func NewMetrics() *Metrics {
	return &Metrics{
		sent: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "credverify_notifications_sent_total",
			Help: "Notification deliveries by sink and outcome",
		}, []string{"sink", "outcome"}),
		dropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "credverify_notifications_dropped_total",
			Help: "Notifications dropped because the buffer was full",
		}),
	}
}

func (m *Metrics) IncSent(sink, outcome string) {
	if m == nil {
		return
	}
	m.sent.WithLabelValues(sink, outcome).Inc()
}

func (m *Metrics) IncDropped() {
	if m == nil {
		return
	}
	m.dropped.Inc()
}
