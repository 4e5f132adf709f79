package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks ledger mutations.
type Metrics struct {
	Mutations *prometheus.CounterVec
	Amount    *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		Mutations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "credverify_wallet_mutations_total",
			Help: "Ledger mutations by kind and outcome",
		}, []string{"kind", "outcome"}), // outcome: applied, insufficient_funds, duplicate, error
		Amount: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "credverify_wallet_amount_total",
			Help: "Sum of applied ledger amounts by kind",
		}, []string{"kind"}),
	}
}

func (m *Metrics) IncMutation(kind, outcome string) {
	if m != nil {
		m.Mutations.WithLabelValues(kind, outcome).Inc()
	}
}

func (m *Metrics) AddAmount(kind string, amount int64) {
	if m != nil {
		m.Amount.WithLabelValues(kind).Add(float64(amount))
	}
}
