package models

import (
	"strings"
	"time"

	id "credverify/pkg/domain"
	dErrors "credverify/pkg/domain-errors"
)

// AIResult is the structured answer from the document analyzer.
type AIResult struct {
	Confidence   float64       `json:"confidence"`
	ModelVersion string        `json:"model_version,omitempty"`
	Extracted    *ResponseData `json:"extracted,omitempty"`
	Notes        []string      `json:"notes,omitempty"`
	Error        string        `json:"error,omitempty"`
}

// VerificationRequest is the applicant's unit of work.
//
// Invariants:
//   - CertificateHandle and ConsentHandle are non-empty and ConsentAgreement is true
//   - Applicant.GraduationYear is in [1950, current year]
//   - Applicant.DateOfBirth is strictly in the past
//   - Reference is unique and never changes
//   - Status only moves forward (see RequestStatus.CanTransitionTo)
//   - Process and Route are set once, when the request leaves pending
type VerificationRequest struct {
	ID                id.VerificationID `json:"id"`
	OwnerID           id.OwnerID        `json:"owner_id"`
	InstitutionID     id.InstitutionID  `json:"institution_id"`
	Reference         string            `json:"reference"`
	Status            RequestStatus     `json:"status"`
	Process           Process           `json:"process,omitempty"`
	Route             Route             `json:"route,omitempty"`
	Applicant         Applicant         `json:"applicant"`
	ConsentAgreement  bool              `json:"consent_agreement"`
	CertificateHandle string            `json:"-"`
	ConsentHandle     string            `json:"-"`
	Fee               int64             `json:"fee"`
	AIResult          *AIResult         `json:"ai_result,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

func NewVerificationRequest(
	verificationID id.VerificationID,
	ownerID id.OwnerID,
	institutionID id.InstitutionID,
	reference string,
	applicant Applicant,
	consentAgreement bool,
	certificateHandle string,
	consentHandle string,
	fee int64,
	now time.Time,
) (*VerificationRequest, error) {
	if ownerID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "owner is required")
	}
	if institutionID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "institution is required")
	}
	if strings.TrimSpace(reference) == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "reference is required")
	}
	if certificateHandle == "" || consentHandle == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "certificate and consent documents are required")
	}
	if !consentAgreement {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "consent agreement is required")
	}
	if fee < 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "fee cannot be negative")
	}
	if err := ValidateApplicantDates(applicant, now); err != nil {
		return nil, err
	}
	return &VerificationRequest{
		ID:                verificationID,
		OwnerID:           ownerID,
		InstitutionID:     institutionID,
		Reference:         reference,
		Status:            RequestStatusPending,
		Applicant:         applicant,
		ConsentAgreement:  consentAgreement,
		CertificateHandle: certificateHandle,
		ConsentHandle:     consentHandle,
		Fee:               fee,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// ValidateApplicantDates enforces the graduation year range and a date of
// birth strictly before now.
func ValidateApplicantDates(a Applicant, now time.Time) error {
	if a.GraduationYear < MinGraduationYear || a.GraduationYear > now.Year() {
		return dErrors.New(dErrors.CodeInvariantViolation, "graduation year must be between 1950 and the current year")
	}
	if a.DateOfBirth.IsZero() || !a.DateOfBirth.Before(now) {
		return dErrors.New(dErrors.CodeInvariantViolation, "date of birth must be in the past")
	}
	return nil
}

// CanRoute checks that the request is still pending.
func (r *VerificationRequest) CanRoute(route Route) error {
	if r.Route != "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "request is already routed")
	}
	if !r.Status.CanTransitionTo(route.InitialStatus()) {
		return dErrors.New(dErrors.CodeInvariantViolation, "request cannot be routed from status "+r.Status.String())
	}
	return nil
}

// ApplyRoute records the routing decision and leaves pending.
// Must only be called after CanRoute returns nil.
func (r *VerificationRequest) ApplyRoute(route Route, now time.Time) {
	r.Route = route
	r.Process = route.Process()
	r.Status = route.InitialStatus()
	r.UpdatedAt = now
}

func (r *VerificationRequest) CanSettle(next RequestStatus) error {
	if !r.Status.CanTransitionTo(next) {
		return dErrors.New(dErrors.CodeInvariantViolation, "request cannot move from "+r.Status.String()+" to "+next.String())
	}
	return nil
}

// ApplySettle moves the request to an outcome status.
// Must only be called after CanSettle returns nil.
func (r *VerificationRequest) ApplySettle(next RequestStatus, now time.Time) {
	r.Status = next
	r.UpdatedAt = now
}

// IsOwnedBy reports whether owner submitted the request.
func (r *VerificationRequest) IsOwnedBy(owner id.OwnerID) bool {
	return r.OwnerID == owner
}
