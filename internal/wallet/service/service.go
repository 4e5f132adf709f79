// Package service implements the wallet ledger: balance checks and atomic,
// reference-keyed debits and credits.
package service

import (
	"context"
	"errors"
	"log/slog"

	"credverify/internal/wallet/metrics"
	"credverify/internal/wallet/models"
	id "credverify/pkg/domain"
	dErrors "credverify/pkg/domain-errors"
	"credverify/pkg/platform/sentinel"
	"credverify/pkg/requestcontext"
)

// Store applies ledger entries atomically. Apply must reject an entry that
// would make the balance negative with models.ErrInsufficientFunds, and a
// repeated (reference, kind) pair with sentinel.ErrAlreadyUsed.
type Store interface {
	Balance(ctx context.Context, ownerID id.OwnerID) (int64, error)
	Apply(ctx context.Context, entry *models.Entry) (*models.Entry, error)
	ListByOwner(ctx context.Context, ownerID id.OwnerID) ([]*models.Entry, error)
	ListByReference(ctx context.Context, reference string) ([]*models.Entry, error)
}

type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) GetBalance(ctx context.Context, ownerID id.OwnerID) (int64, error) {
	balance, err := s.store.Balance(ctx, ownerID)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read balance")
	}
	return balance, nil
}

// Debit removes amount from the owner's balance. It fails with
// CodeInsufficientFunds when amount exceeds the balance and with CodeConflict
// when reference was already debited.
func (s *Service) Debit(ctx context.Context, ownerID id.OwnerID, amount int64, reference string) (*models.Entry, error) {
	return s.apply(ctx, ownerID, models.EntryKindDebit, amount, reference)
}

// Credit adds amount to the owner's balance. A reference may be credited once.
func (s *Service) Credit(ctx context.Context, ownerID id.OwnerID, amount int64, reference string) (*models.Entry, error) {
	return s.apply(ctx, ownerID, models.EntryKindCredit, amount, reference)
}

func (s *Service) apply(ctx context.Context, ownerID id.OwnerID, kind models.EntryKind, amount int64, reference string) (*models.Entry, error) {
	entry, err := models.NewEntry(ownerID, kind, amount, reference, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	stored, err := s.store.Apply(ctx, entry)
	switch {
	case err == nil:
	case errors.Is(err, models.ErrInsufficientFunds):
		s.metrics.IncMutation(string(kind), "insufficient_funds")
		return nil, dErrors.New(dErrors.CodeInsufficientFunds, "wallet balance is lower than the requested amount")
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		s.metrics.IncMutation(string(kind), "duplicate")
		return nil, dErrors.New(dErrors.CodeConflict, "reference already recorded for this "+string(kind))
	default:
		s.metrics.IncMutation(string(kind), "error")
		s.logger.ErrorContext(ctx, "ledger apply failed",
			"request_id", requestcontext.RequestID(ctx),
			"owner_id", ownerID,
			"kind", kind,
			"reference", entry.Reference,
			"error", err,
		)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record ledger entry")
	}

	s.metrics.IncMutation(string(kind), "applied")
	s.metrics.AddAmount(string(kind), amount)
	s.logger.InfoContext(ctx, "ledger entry recorded",
		"request_id", requestcontext.RequestID(ctx),
		"owner_id", ownerID,
		"kind", kind,
		"amount", amount,
		"reference", stored.Reference,
		"balance_after", stored.BalanceAfter,
	)
	return stored, nil
}

// Statement returns the balance and full entry history for an owner.
func (s *Service) Statement(ctx context.Context, ownerID id.OwnerID) (*models.Statement, error) {
	balance, err := s.GetBalance(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	entries, err := s.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list ledger entries")
	}
	return &models.Statement{OwnerID: ownerID, Balance: balance, Entries: entries}, nil
}

func (s *Service) EntriesByReference(ctx context.Context, reference string) ([]*models.Entry, error) {
	entries, err := s.store.ListByReference(ctx, reference)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list ledger entries")
	}
	return entries, nil
}
