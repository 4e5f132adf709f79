//go:build integration

package store_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"credverify/internal/wallet/models"
	"credverify/internal/wallet/store"
	id "credverify/pkg/domain"
	"credverify/pkg/platform/sentinel"
	"credverify/pkg/testutil/containers"
)

type PostgresLedgerSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres
}

func TestPostgresLedgerSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresLedgerSuite))
}

func (s *PostgresLedgerSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.Pool)
}

func (s *PostgresLedgerSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "wallet_entries", "wallet_accounts"))
}

func (s *PostgresLedgerSuite) TestDebitCreditAndDuplicateReference() {
	ctx := context.Background()
	owner := id.OwnerID(uuid.New())

	credit, err := models.NewEntry(owner, models.EntryKindCredit, 100, "topup-"+uuid.NewString(), time.Now())
	s.Require().NoError(err)
	_, err = s.store.Apply(ctx, credit)
	s.Require().NoError(err)

	ref := "VR-" + uuid.NewString()
	debit, err := models.NewEntry(owner, models.EntryKindDebit, 15, ref, time.Now())
	s.Require().NoError(err)
	stored, err := s.store.Apply(ctx, debit)
	s.Require().NoError(err)
	s.Equal(int64(85), stored.BalanceAfter)

	again, err := models.NewEntry(owner, models.EntryKindDebit, 15, ref, time.Now())
	s.Require().NoError(err)
	_, err = s.store.Apply(ctx, again)
	s.ErrorIs(err, sentinel.ErrAlreadyUsed)

	entries, err := s.store.ListByReference(ctx, ref)
	s.Require().NoError(err)
	s.Len(entries, 1)

	balance, err := s.store.Balance(ctx, owner)
	s.Require().NoError(err)
	s.Equal(int64(85), balance)
}

// TestConcurrentDebits verifies the row lock prevents lost updates.
func (s *PostgresLedgerSuite) TestConcurrentDebits() {
	ctx := context.Background()
	owner := id.OwnerID(uuid.New())
	credit, err := models.NewEntry(owner, models.EntryKindCredit, 100, "topup-"+uuid.NewString(), time.Now())
	s.Require().NoError(err)
	_, err = s.store.Apply(ctx, credit)
	s.Require().NoError(err)

	const goroutines = 20
	var wg sync.WaitGroup
	var succeeded atomic.Int32
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e, err := models.NewEntry(owner, models.EntryKindDebit, 15, fmt.Sprintf("VR-%s-%d", owner, i), time.Now())
			if err != nil {
				return
			}
			if _, err := s.store.Apply(ctx, e); err == nil {
				succeeded.Add(1)
			} else if !errors.Is(err, models.ErrInsufficientFunds) {
				s.T().Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	s.Equal(int32(6), succeeded.Load())
	balance, err := s.store.Balance(ctx, owner)
	s.Require().NoError(err)
	s.Equal(int64(10), balance)
}
