package models

import (
	"encoding/json"
	"time"

	id "credverify/pkg/domain"
	dErrors "credverify/pkg/domain-errors"
)

// InstitutionResponse is the institution-facing counterpart of a request.
//
// Invariants:
//   - at most one exists per VerificationID
//   - every score is in [0,100]
//   - IsVerified == (Scores.Verification >= 80) once reconciled
//   - completed and discrepancy responses are immutable
//   - Attempts counts processing starts and never decreases
type InstitutionResponse struct {
	ID             id.ResponseID     `json:"id"`
	VerificationID id.VerificationID `json:"verification_id"`
	InstitutionID  id.InstitutionID  `json:"institution_id"`
	Type           ResponseType      `json:"response_type"`
	Status         ResponseStatus    `json:"status"`
	RawResponse    json.RawMessage   `json:"raw_response,omitempty"`
	ResponseData   *ResponseData     `json:"response_data,omitempty"`
	Scores         Scores            `json:"scores"`
	Flags          []Flag            `json:"flags"`
	Metadata       Metadata          `json:"metadata"`
	IsVerified     bool              `json:"is_verified"`
	Attempts       int               `json:"attempts"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func NewInstitutionResponse(
	responseID id.ResponseID,
	verificationID id.VerificationID,
	institutionID id.InstitutionID,
	responseType ResponseType,
	now time.Time,
) (*InstitutionResponse, error) {
	if verificationID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "verification is required")
	}
	if !responseType.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "invalid response type")
	}
	return &InstitutionResponse{
		ID:             responseID,
		VerificationID: verificationID,
		InstitutionID:  institutionID,
		Type:           responseType,
		Status:         ResponseStatusPending,
		Flags:          []Flag{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// CanAssign checks the response is waiting for an operator.
func (r *InstitutionResponse) CanAssign() error {
	if r.Status != ResponseStatusPending && r.Status != ResponseStatusRequiresReview {
		return dErrors.New(dErrors.CodeConflict, "response cannot be assigned in status "+r.Status.String())
	}
	return nil
}

// ApplyAssign must only be called after CanAssign returns nil.
func (r *InstitutionResponse) ApplyAssign(operator string, now time.Time) {
	r.Metadata.AssignedTo = operator
	r.Metadata.AssignedAt = &now
	r.UpdatedAt = now
}

// CanStartProcessing checks the response may begin an attempt. Failed
// responses go through CanRetry instead.
func (r *InstitutionResponse) CanStartProcessing() error {
	if r.Status != ResponseStatusPending && r.Status != ResponseStatusRequiresReview {
		return dErrors.New(dErrors.CodeConflict, "response cannot start processing in status "+r.Status.String())
	}
	return nil
}

// CanRetry checks the response failed, or has waited on a webhook for longer
// than ackWait, and that the attempt ceiling allows another.
func (r *InstitutionResponse) CanRetry(maxAttempts int, now time.Time, ackWait time.Duration) error {
	if r.Status != ResponseStatusFailed && !r.AcknowledgementExpired(now, ackWait) {
		return dErrors.New(dErrors.CodeConflict, "only failed responses or expired acknowledgements can be retried")
	}
	if r.Attempts >= maxAttempts {
		return dErrors.New(dErrors.CodeConflict, "retry ceiling reached")
	}
	return nil
}

// ApplyStartProcessing enters processing and counts the attempt.
// Must only be called after CanStartProcessing or CanRetry returns nil.
func (r *InstitutionResponse) ApplyStartProcessing(actor string, now time.Time) {
	r.Status = ResponseStatusProcessing
	r.Attempts++
	r.Metadata.ProcessingStartedAt = &now
	r.Metadata.ProcessingEndedAt = nil
	r.Metadata.StartedBy = actor
	r.Metadata.AcknowledgedAt = nil
	r.Metadata.ClearErrors()
	r.UpdatedAt = now
}

// ApplyAcknowledged records that the institution accepted the request and
// will deliver the result by webhook. The response stays processing.
func (r *InstitutionResponse) ApplyAcknowledged(endpoint, institutionRequest string, now time.Time) {
	r.Metadata.Endpoint = endpoint
	r.Metadata.InstitutionRequest = institutionRequest
	r.Metadata.AcknowledgedAt = &now
	r.UpdatedAt = now
}

// AcknowledgementExpired reports whether the response has been waiting on a
// webhook for at least ackWait.
func (r *InstitutionResponse) AcknowledgementExpired(now time.Time, ackWait time.Duration) bool {
	if r.Status != ResponseStatusProcessing || r.Metadata.AcknowledgedAt == nil {
		return false
	}
	return now.Sub(*r.Metadata.AcknowledgedAt) >= ackWait
}

// Outcome carries everything a settled attempt writes onto the response.
type Outcome struct {
	Status       ResponseStatus
	ResponseData *ResponseData
	RawResponse  json.RawMessage
	Scores       Scores
	Flags        []Flag
	Summary      *ReconciliationSummary
	Risk         *RiskAssessment
}

func (r *InstitutionResponse) CanSettle(next ResponseStatus) error {
	if r.Status.IsImmutable() {
		return dErrors.New(dErrors.CodeConflict, "response is already "+r.Status.String())
	}
	if r.Status != ResponseStatusProcessing || !r.Status.CanTransitionTo(next) {
		return dErrors.New(dErrors.CodeConflict, "response cannot move from "+r.Status.String()+" to "+next.String())
	}
	return nil
}

// ApplyOutcome records a reconciled result and derives IsVerified.
// Must only be called after CanSettle returns nil.
func (r *InstitutionResponse) ApplyOutcome(o Outcome, now time.Time) {
	r.Status = o.Status
	if o.ResponseData != nil {
		r.ResponseData = o.ResponseData
	}
	if len(o.RawResponse) > 0 {
		r.RawResponse = o.RawResponse
	}
	r.Scores = o.Scores
	r.Flags = o.Flags
	if r.Flags == nil {
		r.Flags = []Flag{}
	}
	r.IsVerified = o.Scores.Verification >= VerifiedThreshold
	r.Metadata.Reconciliation = o.Summary
	r.Metadata.Risk = o.Risk
	r.Metadata.ProcessingEndedAt = &now
	r.UpdatedAt = now
}

// ApplyCallFailure records a failed external call.
// Must only be called after CanSettle(ResponseStatusFailed) returns nil.
func (r *InstitutionResponse) ApplyCallFailure(category ErrorCategory, message string, now time.Time) {
	r.Status = ResponseStatusFailed
	r.Metadata.APIError = message
	r.Metadata.APIErrorCategory = category
	r.Metadata.ProcessingEndedAt = &now
	r.UpdatedAt = now
}

// ApplyInternalError folds a pipeline error into requires_review.
// Must only be called after CanSettle(ResponseStatusRequiresReview) returns nil.
func (r *InstitutionResponse) ApplyInternalError(category ErrorCategory, message string, now time.Time) {
	r.Status = ResponseStatusRequiresReview
	r.Metadata.InternalError = message
	r.Metadata.InternalErrorReason = category
	r.Metadata.ProcessingEndedAt = &now
	r.UpdatedAt = now
}
