// Package risk derives an advisory risk tier from reconciliation output.
package risk

import (
	"time"

	"credverify/internal/verification/models"
)

const (
	lowScoreThreshold   = 70
	lowQualityThreshold = 70
	quickResponse       = time.Second

	lowScorePoints     = 30
	highFlagPoints     = 40
	lowQualityPoints   = 20
	quickResponsePoint = 10

	mediumTierFrom = 40
	highTierFrom   = 70
)

const (
	MitigationManualReview       = "manual_review"
	MitigationSecondaryCheck     = "secondary_verification"
	MitigationStandardAcceptance = "standard_acceptance"
)

// Assess scores risk additively and caps it at 100. responseTime of zero
// means the latency is unknown and adds nothing.
func Assess(scores models.Scores, flags []models.Flag, responseTime time.Duration) models.RiskAssessment {
	score := 0
	if scores.Verification < lowScoreThreshold {
		score += lowScorePoints
	}
	if models.HasSeverity(flags, models.SeverityHigh) {
		score += highFlagPoints
	}
	if scores.DataQuality < lowQualityThreshold {
		score += lowQualityPoints
	}
	if responseTime > 0 && responseTime < quickResponse {
		score += quickResponsePoint
	}
	if score > 100 {
		score = 100
	}
	tier := Tier(score)
	return models.RiskAssessment{Score: score, Tier: tier, Mitigations: Mitigations(tier)}
}

func Tier(score int) models.RiskTier {
	switch {
	case score >= highTierFrom:
		return models.RiskHigh
	case score >= mediumTierFrom:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

func Mitigations(tier models.RiskTier) []string {
	switch tier {
	case models.RiskHigh:
		return []string{MitigationManualReview, MitigationSecondaryCheck}
	case models.RiskMedium:
		return []string{MitigationSecondaryCheck}
	default:
		return []string{MitigationStandardAcceptance}
	}
}
