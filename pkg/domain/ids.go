// Package domain holds typed identifiers shared across modules.
//
// Each identifier is a distinct named type over uuid.UUID so an owner id can
// never be passed where an institution id is expected. Parse functions are the
// trust boundary: they reject empty, malformed and nil UUIDs with
// CodeInvalidInput.
package domain

import (
	"github.com/google/uuid"

	dErrors "credverify/pkg/domain-errors"
)

const maxIDLength = 64

type (
	OwnerID        uuid.UUID
	InstitutionID  uuid.UUID
	VerificationID uuid.UUID
	ResponseID     uuid.UUID
	EntryID        uuid.UUID
)

func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" is required")
	}
	if len(s) > maxIDLength {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" is too long")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be nil")
	}
	return u, nil
}

func ParseOwnerID(s string) (OwnerID, error) {
	u, err := parseUUID(s, "owner ID")
	return OwnerID(u), err
}

func ParseInstitutionID(s string) (InstitutionID, error) {
	u, err := parseUUID(s, "institution ID")
	return InstitutionID(u), err
}

func ParseVerificationID(s string) (VerificationID, error) {
	u, err := parseUUID(s, "verification ID")
	return VerificationID(u), err
}

func ParseResponseID(s string) (ResponseID, error) {
	u, err := parseUUID(s, "response ID")
	return ResponseID(u), err
}

func (id OwnerID) String() string        { return uuid.UUID(id).String() }
func (id InstitutionID) String() string  { return uuid.UUID(id).String() }
func (id VerificationID) String() string { return uuid.UUID(id).String() }
func (id ResponseID) String() string     { return uuid.UUID(id).String() }
func (id EntryID) String() string        { return uuid.UUID(id).String() }

func (id OwnerID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id InstitutionID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id VerificationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id ResponseID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }

func (id OwnerID) MarshalText() ([]byte, error)        { return uuid.UUID(id).MarshalText() }
func (id InstitutionID) MarshalText() ([]byte, error)  { return uuid.UUID(id).MarshalText() }
func (id VerificationID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id ResponseID) MarshalText() ([]byte, error)     { return uuid.UUID(id).MarshalText() }
func (id EntryID) MarshalText() ([]byte, error)        { return uuid.UUID(id).MarshalText() }

func (id *OwnerID) UnmarshalText(b []byte) error        { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *InstitutionID) UnmarshalText(b []byte) error  { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *VerificationID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *ResponseID) UnmarshalText(b []byte) error     { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *EntryID) UnmarshalText(b []byte) error        { return (*uuid.UUID)(id).UnmarshalText(b) }

// Role distinguishes applicants from staff operators.
type Role string

const (
	RoleApplicant Role = "applicant"
	RoleStaff     Role = "staff"
)

func (r Role) IsValid() bool {
	return r == RoleApplicant || r == RoleStaff
}
