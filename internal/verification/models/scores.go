package models

import (
	"fmt"
	"time"
)

// Scores are the reconciliation outputs. Every value is in [0,100].
type Scores struct {
	Verification    int `json:"verification_score"`
	Confidence      int `json:"confidence_score"`
	DataQuality     int `json:"data_quality_score"`
	Completeness    int `json:"completeness_score"`
	Timeliness      int `json:"timeliness_score"`
	MatchPercentage int `json:"match_percentage"`
}

func (s Scores) Validate() error {
	for name, v := range map[string]int{
		"verification": s.Verification,
		"confidence":   s.Confidence,
		"data_quality": s.DataQuality,
		"completeness": s.Completeness,
		"timeliness":   s.Timeliness,
		"match":        s.MatchPercentage,
	} {
		if v < 0 || v > 100 {
			return fmt.Errorf("%s score %d out of range", name, v)
		}
	}
	return nil
}

// VerifiedThreshold is the minimum verification score for IsVerified.
const VerifiedThreshold = 80

// RiskTier summarizes reconciliation and metadata signals.
type RiskTier string

const (
	RiskLow    RiskTier = "low"
	RiskMedium RiskTier = "medium"
	RiskHigh   RiskTier = "high"
)

// RiskAssessment is advisory output for reviewers.
type RiskAssessment struct {
	Score       int      `json:"score"`
	Tier        RiskTier `json:"tier"`
	Mitigations []string `json:"mitigations"`
}

// ReconciliationSummary is written into response metadata for audit.
type ReconciliationSummary struct {
	Fields       []FieldResult `json:"fields"`
	MatchedCount int           `json:"matched_count"`
	TotalFields  int           `json:"total_fields"`
	ResponseTime time.Duration `json:"response_time_ns"`
	ReconciledAt time.Time     `json:"reconciled_at"`
}

// FieldResult is the comparison outcome for one field.
type FieldResult struct {
	Field      string `json:"field"`
	Match      bool   `json:"match"`
	Confidence int    `json:"confidence"`
	Missing    bool   `json:"missing,omitempty"`
}
