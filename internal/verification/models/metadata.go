package models

import "time"

// ErrorCategory names the cause of an absorbed failure.
type ErrorCategory string

const (
	ErrorCategoryTimeout        ErrorCategory = "timeout"
	ErrorCategoryBadData        ErrorCategory = "bad_data"
	ErrorCategoryAuthentication ErrorCategory = "authentication"
	ErrorCategoryOutage         ErrorCategory = "provider_outage"
	ErrorCategoryNotFound       ErrorCategory = "not_found"
	ErrorCategoryRateLimited    ErrorCategory = "rate_limited"
	ErrorCategoryCircuitOpen    ErrorCategory = "circuit_open"
	ErrorCategoryInternal       ErrorCategory = "internal"
	ErrorCategoryPanic          ErrorCategory = "panic"
)

// Metadata is the audit trail kept on an institution response.
type Metadata struct {
	AssignedTo          string     `json:"assigned_to,omitempty"`
	AssignedAt          *time.Time `json:"assigned_at,omitempty"`
	ProcessingStartedAt *time.Time `json:"processing_started_at,omitempty"`
	ProcessingEndedAt   *time.Time `json:"processing_ended_at,omitempty"`
	StartedBy           string     `json:"started_by,omitempty"`

	Endpoint            string        `json:"endpoint,omitempty"`
	InstitutionRequest  string        `json:"institution_request_id,omitempty"`
	AcknowledgedAt      *time.Time    `json:"acknowledged_at,omitempty"`
	ResponseTimeMS      int64         `json:"response_time_ms,omitempty"`
	APIError            string        `json:"api_error,omitempty"`
	APIErrorCategory    ErrorCategory `json:"api_error_category,omitempty"`
	InternalError       string        `json:"internal_error,omitempty"`
	InternalErrorReason ErrorCategory `json:"internal_error_category,omitempty"`

	AIConfidence   *float64 `json:"ai_confidence,omitempty"`
	AIModelVersion string   `json:"ai_model_version,omitempty"`
	AINotes        []string `json:"ai_notes,omitempty"`

	Reconciliation *ReconciliationSummary `json:"reconciliation,omitempty"`
	Risk           *RiskAssessment        `json:"risk,omitempty"`

	Extra map[string]string `json:"extra,omitempty"`
}

// ClearErrors removes the previous attempt's failure details.
func (m *Metadata) ClearErrors() {
	m.APIError = ""
	m.APIErrorCategory = ""
	m.InternalError = ""
	m.InternalErrorReason = ""
}
