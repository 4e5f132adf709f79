// Package service is the institution directory: read-only lookups of
// institution configuration with an optional shared cache in front of the
// store.
package service

import (
	"context"
	"errors"
	"log/slog"

	"credverify/internal/institution/models"
	id "credverify/pkg/domain"
	dErrors "credverify/pkg/domain-errors"
	"credverify/pkg/platform/sentinel"
	"credverify/pkg/requestcontext"
)

type Store interface {
	FindByID(ctx context.Context, instID id.InstitutionID) (*models.Institution, error)
	Upsert(ctx context.Context, inst *models.Institution) error
	List(ctx context.Context) ([]*models.Institution, error)
}

// Cache is consulted before the store. Get returns sentinel.ErrNotFound on a
// miss. Cache failures are logged and never fail a lookup.
type Cache interface {
	Get(ctx context.Context, instID id.InstitutionID) (*models.Institution, error)
	Set(ctx context.Context, inst *models.Institution) error
	Invalidate(ctx context.Context, instID id.InstitutionID) error
}

type Service struct {
	store  Store
	cache  Cache
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithCache(cache Cache) Option {
	return func(s *Service) { s.cache = cache }
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the institution regardless of its active flag.
func (s *Service) Get(ctx context.Context, instID id.InstitutionID) (*models.Institution, error) {
	if s.cache != nil {
		inst, err := s.cache.Get(ctx, instID)
		if err == nil {
			return inst, nil
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			s.logger.WarnContext(ctx, "institution cache read failed",
				"request_id", requestcontext.RequestID(ctx),
				"institution_id", instID.String(),
				"error", err,
			)
		}
	}

	inst, err := s.store.FindByID(ctx, instID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "institution not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load institution")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, inst); err != nil {
			s.logger.WarnContext(ctx, "institution cache write failed",
				"request_id", requestcontext.RequestID(ctx),
				"institution_id", instID.String(),
				"error", err,
			)
		}
	}
	return inst, nil
}

// Resolve returns the institution only when it accepts new verifications.
func (s *Service) Resolve(ctx context.Context, instID id.InstitutionID) (*models.Institution, error) {
	inst, err := s.Get(ctx, instID)
	if err != nil {
		return nil, err
	}
	if !inst.Active {
		return nil, dErrors.New(dErrors.CodeInstitutionInactive, "institution is not accepting verifications")
	}
	return inst, nil
}

func (s *Service) List(ctx context.Context) ([]*models.Institution, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list institutions")
	}
	return list, nil
}

// Register stores or replaces an institution and drops any cached copy.
func (s *Service) Register(ctx context.Context, inst *models.Institution) error {
	if err := s.store.Upsert(ctx, inst); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save institution")
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, inst.ID); err != nil {
			s.logger.WarnContext(ctx, "institution cache invalidate failed",
				"institution_id", inst.ID.String(),
				"error", err,
			)
		}
	}
	s.logger.InfoContext(ctx, "institution registered",
		"institution_id", inst.ID.String(),
		"process", string(inst.Process),
		"active", inst.Active,
	)
	return nil
}

// VerifyWebhookSecret checks an inbound webhook secret against the
// institution's stored hash.
func (s *Service) VerifyWebhookSecret(ctx context.Context, instID id.InstitutionID, secret string) (bool, error) {
	inst, err := s.Get(ctx, instID)
	if err != nil {
		return false, err
	}
	return inst.VerifyWebhookSecret(secret), nil
}
