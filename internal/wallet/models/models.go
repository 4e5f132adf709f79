package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	id "credverify/pkg/domain"
	dErrors "credverify/pkg/domain-errors"
)

// ErrInsufficientFunds is returned by stores when a debit exceeds the balance.
var ErrInsufficientFunds = errors.New("insufficient funds")

type EntryKind string

const (
	EntryKindDebit  EntryKind = "debit"
	EntryKindCredit EntryKind = "credit"
)

// Entry is one signed balance mutation tied to an external reference.
//
// Invariants:
//   - Delta is negative for debits and positive for credits
//   - Reference is non-empty; a (Reference, Kind) pair is recorded at most once
//   - BalanceAfter is never negative
type Entry struct {
	ID           id.EntryID `json:"id"`
	OwnerID      id.OwnerID `json:"owner_id"`
	Kind         EntryKind  `json:"kind"`
	Delta        int64      `json:"delta"`
	BalanceAfter int64      `json:"balance_after"`
	Reference    string     `json:"reference"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Amount returns the absolute value moved by the entry.
func (e *Entry) Amount() int64 {
	if e.Delta < 0 {
		return -e.Delta
	}
	return e.Delta
}

const maxReferenceLength = 128

func NewEntry(ownerID id.OwnerID, kind EntryKind, amount int64, reference string, now time.Time) (*Entry, error) {
	if ownerID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "owner is required")
	}
	if amount <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "amount must be positive")
	}
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "reference is required")
	}
	if len(reference) > maxReferenceLength {
		return nil, dErrors.New(dErrors.CodeValidation, "reference is too long")
	}

	delta := amount
	switch kind {
	case EntryKindDebit:
		delta = -amount
	case EntryKindCredit:
	default:
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "unknown entry kind")
	}

	return &Entry{
		ID:        id.EntryID(uuid.New()),
		OwnerID:   ownerID,
		Kind:      kind,
		Delta:     delta,
		Reference: reference,
		CreatedAt: now,
	}, nil
}

// Statement is the read model returned to wallet owners.
type Statement struct {
	OwnerID id.OwnerID `json:"owner_id"`
	Balance int64      `json:"balance"`
	Entries []*Entry   `json:"entries"`
}
