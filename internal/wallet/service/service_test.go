package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"credverify/internal/wallet/store"
	id "credverify/pkg/domain"
	dErrors "credverify/pkg/domain-errors"
)

type WalletServiceSuite struct {
	suite.Suite
	svc   *Service
	ctx   context.Context
	owner id.OwnerID
}

func TestWalletServiceSuite(t *testing.T) {
	suite.Run(t, new(WalletServiceSuite))
}

func (s *WalletServiceSuite) SetupTest() {
	s.svc = New(store.NewInMemory(), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	s.ctx = context.Background()
	s.owner = id.OwnerID(uuid.New())
}

func (s *WalletServiceSuite) TestDebit() {
	_, err := s.svc.Credit(s.ctx, s.owner, 100, "topup-1")
	s.Require().NoError(err)

	s.Run("debits and reports balance", func() {
		entry, err := s.svc.Debit(s.ctx, s.owner, 15, "VR-20240101-AAAAAAAA")
		s.Require().NoError(err)
		s.Equal(int64(-15), entry.Delta)

		balance, err := s.svc.GetBalance(s.ctx, s.owner)
		s.Require().NoError(err)
		s.Equal(int64(85), balance)
	})

	s.Run("fails loudly when amount exceeds balance", func() {
		_, err := s.svc.Debit(s.ctx, s.owner, 500, "VR-20240101-BBBBBBBB")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInsufficientFunds))
	})

	s.Run("same reference is debited once", func() {
		_, err := s.svc.Debit(s.ctx, s.owner, 15, "VR-20240101-AAAAAAAA")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))

		entries, err := s.svc.EntriesByReference(s.ctx, "VR-20240101-AAAAAAAA")
		s.Require().NoError(err)
		s.Len(entries, 1)
	})

	s.Run("rejects non-positive amounts", func() {
		_, err := s.svc.Debit(s.ctx, s.owner, -3, "VR-x")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *WalletServiceSuite) TestStatement() {
	_, err := s.svc.Credit(s.ctx, s.owner, 40, "topup-a")
	s.Require().NoError(err)
	_, err = s.svc.Debit(s.ctx, s.owner, 10, "VR-a")
	s.Require().NoError(err)

	st, err := s.svc.Statement(s.ctx, s.owner)
	s.Require().NoError(err)
	s.Equal(int64(30), st.Balance)
	s.Len(st.Entries, 2)
}

func (s *WalletServiceSuite) TestUnknownOwnerHasZeroBalance() {
	balance, err := s.svc.GetBalance(s.ctx, id.OwnerID(uuid.New()))
	s.Require().NoError(err)
	s.Zero(balance)
}
