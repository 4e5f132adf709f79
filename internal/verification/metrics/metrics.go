package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks verification lifecycle activity.
type Metrics struct {
	Created      *prometheus.CounterVec
	Outcomes     *prometheus.CounterVec
	Scores       prometheus.Histogram
	RiskTiers    *prometheus.CounterVec
	Absorbed     *prometheus.CounterVec
	Compensation *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		Created: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "credverify_verifications_created_total",
			Help: "Verification requests created, by dispatch route",
		}, []string{"route"}),
		Outcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "credverify_response_outcomes_total",
			Help: "Institution responses settled, by response type and status",
		}, []string{"type", "status"}),
		Scores: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "credverify_verification_score",
			Help:    "Verification score of reconciled responses",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),
		RiskTiers: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "credverify_risk_tier_total",
			Help: "Risk assessments, by tier",
		}, []string{"tier"}),
		Absorbed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "credverify_absorbed_errors_total",
			Help: "External-call and pipeline errors folded into response state, by category",
		}, []string{"category"}),
		Compensation: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "credverify_creation_compensations_total",
			Help: "Rollback actions taken when verification creation fails",
		}, []string{"action", "outcome"}), // action: refund, delete_document
	}
}

func (m *Metrics) IncCreated(route string) {
	if m != nil {
		m.Created.WithLabelValues(route).Inc()
	}
}

func (m *Metrics) IncOutcome(responseType, status string) {
	if m != nil {
		m.Outcomes.WithLabelValues(responseType, status).Inc()
	}
}

func (m *Metrics) ObserveScore(score int) {
	if m != nil {
		m.Scores.Observe(float64(score))
	}
}

func (m *Metrics) IncRiskTier(tier string) {
	if m != nil {
		m.RiskTiers.WithLabelValues(tier).Inc()
	}
}

func (m *Metrics) IncAbsorbed(category string) {
	if m != nil {
		m.Absorbed.WithLabelValues(category).Inc()
	}
}

func (m *Metrics) IncCompensation(action, outcome string) {
	if m != nil {
		m.Compensation.WithLabelValues(action, outcome).Inc()
	}
}
