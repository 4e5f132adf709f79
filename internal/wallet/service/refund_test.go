package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credverify/internal/wallet/models"
	"credverify/internal/wallet/store"
	id "credverify/pkg/domain"
	"credverify/pkg/testutil"
)

func TestCompensatingCredit(t *testing.T) {
	ctx := context.Background()
	svc := New(store.NewInMemory())
	owner := id.OwnerID(uuid.New())
	const reference = "VR-20260314-7K3M9QXZ"

	testutil.Given(t, "a funded wallet debited for a verification", func(t *testing.T) {
		_, err := svc.Credit(ctx, owner, 100, "topup-1")
		require.NoError(t, err)
		_, err = svc.Debit(ctx, owner, 15, reference)
		require.NoError(t, err)
	})

	testutil.When(t, "persisting the verification fails and the fee is refunded", func(t *testing.T) {
		_, err := svc.Credit(ctx, owner, 15, "refund:"+reference)
		require.NoError(t, err)
	})

	testutil.Then(t, "the balance is restored and both legs are on the statement", func(t *testing.T) {
		st, err := svc.Statement(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, int64(100), st.Balance)
		require.Len(t, st.Entries, 3)

		var debits, credits int64
		for _, e := range st.Entries {
			switch e.Kind {
			case models.EntryKindDebit:
				debits += e.Amount()
			case models.EntryKindCredit:
				credits += e.Amount()
			}
		}
		assert.Equal(t, int64(15), debits)
		assert.Equal(t, int64(115), credits)
	})

	testutil.And(t, "a second refund for the same reference is refused", func(t *testing.T) {
		_, err := svc.Credit(ctx, owner, 15, "refund:"+reference)
		assert.Error(t, err)
	})
}
