package reconcile

import "credverify/internal/verification/models"

const (
	discrepancyBelow = 50
	completedAtLeast = models.VerifiedThreshold
)

// Decide maps a reconciled institution answer to a response status.
func Decide(data models.ResponseData, res Result, risk models.RiskAssessment) models.ResponseStatus {
	switch {
	case data.ReportsNoRecord():
		return models.ResponseStatusDiscrepancy
	case res.Scores.Verification < discrepancyBelow:
		return models.ResponseStatusDiscrepancy
	case res.Scores.Verification >= completedAtLeast && risk.Tier == models.RiskLow:
		return models.ResponseStatusCompleted
	default:
		return models.ResponseStatusRequiresReview
	}
}

// AIAcceptConfidence is the analyzer confidence at which a document result
// is accepted without review.
const AIAcceptConfidence = 0.85

// DecideAI maps analyzer confidence to a response status. Low confidence is
// a review, never a failure.
func DecideAI(confidence float64) models.ResponseStatus {
	if confidence >= AIAcceptConfidence {
		return models.ResponseStatusCompleted
	}
	return models.ResponseStatusRequiresReview
}
