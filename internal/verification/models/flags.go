package models

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type FlagCode string

const (
	FlagLowConfidence    FlagCode = "low_confidence"
	FlagMissingField     FlagCode = "missing_field"
	FlagFastResponse     FlagCode = "fast_response"
	FlagPlaceholder      FlagCode = "placeholder_content"
	FlagNoRecord         FlagCode = "no_record"
	FlagInconsistentData FlagCode = "inconsistent_data"
)

// Flag is a severity-tagged observation raised during reconciliation.
type Flag struct {
	Code        FlagCode `json:"code"`
	Field       string   `json:"field,omitempty"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

// HasSeverity reports whether any flag carries severity s.
func HasSeverity(flags []Flag, s Severity) bool {
	for _, f := range flags {
		if f.Severity == s {
			return true
		}
	}
	return false
}
