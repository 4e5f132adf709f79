package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "credverify/pkg/domain"
	dErrors "credverify/pkg/domain-errors"
)

func TestNewEntry(t *testing.T) {
	owner := id.OwnerID(uuid.New())
	now := time.Now()

	t.Run("debit is negative", func(t *testing.T) {
		e, err := NewEntry(owner, EntryKindDebit, 15, "VR-20240101-ABCDEFGH", now)
		require.NoError(t, err)
		assert.Equal(t, int64(-15), e.Delta)
		assert.Equal(t, int64(15), e.Amount())
	})

	t.Run("credit is positive", func(t *testing.T) {
		e, err := NewEntry(owner, EntryKindCredit, 100, "topup-1", now)
		require.NoError(t, err)
		assert.Equal(t, int64(100), e.Delta)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewEntry(owner, EntryKindDebit, 0, "ref", now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects blank reference", func(t *testing.T) {
		_, err := NewEntry(owner, EntryKindDebit, 5, "  ", now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects nil owner", func(t *testing.T) {
		_, err := NewEntry(id.OwnerID{}, EntryKindCredit, 5, "ref", now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}
