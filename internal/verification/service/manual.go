package service

import (
	"context"
	"strings"

	"credverify/internal/verification/models"
	id "credverify/pkg/domain"
	dErrors "credverify/pkg/domain-errors"
	audit "credverify/pkg/platform/audit"
	"credverify/pkg/requestcontext"
)

// Assign puts a waiting response in an operator's queue.
func (s *Service) Assign(ctx context.Context, vid id.VerificationID, operator string) (*models.InstitutionResponse, error) {
	operator = strings.TrimSpace(operator)
	if operator == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "operator is required")
	}
	var (
		vr *models.VerificationRequest
		ir *models.InstitutionResponse
	)
	err := s.tx.RunInTx(ctx, vid, func(ctx context.Context) error {
		var err error
		if vr, err = s.loadRequest(ctx, vid); err != nil {
			return err
		}
		if ir, err = s.ensureResponse(ctx, vr); err != nil {
			return err
		}
		if err := ir.CanAssign(); err != nil {
			return err
		}
		ir.ApplyAssign(operator, requestcontext.Now(ctx))
		return s.saveResponse(ctx, ir)
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "institution response assigned",
		"request_id", requestcontext.RequestID(ctx),
		"verification_id", vid.String(),
		"operator", operator,
	)
	s.audit(ctx, vr, audit.EventResponseAssigned, operator)
	return ir, nil
}

// StartManualEntry begins an operator's data-entry attempt.
func (s *Service) StartManualEntry(ctx context.Context, vid id.VerificationID, operator string) (*models.InstitutionResponse, error) {
	operator = strings.TrimSpace(operator)
	if operator == "" {
		operator = actorFrom(ctx)
	}
	var ir *models.InstitutionResponse
	err := s.tx.RunInTx(ctx, vid, func(ctx context.Context) error {
		vr, err := s.loadRequest(ctx, vid)
		if err != nil {
			return err
		}
		if ir, err = s.ensureResponse(ctx, vr); err != nil {
			return err
		}
		if err := ir.CanStartProcessing(); err != nil {
			return err
		}
		ir.ApplyStartProcessing(operator, requestcontext.Now(ctx))
		return s.saveResponse(ctx, ir)
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "manual entry started",
		"request_id", requestcontext.RequestID(ctx),
		"verification_id", vid.String(),
		"operator", operator,
		"attempts", ir.Attempts,
	)
	return ir, nil
}

// SubmitManualEntry reconciles operator-entered institution data and settles
// the response.
func (s *Service) SubmitManualEntry(ctx context.Context, vid id.VerificationID, data models.ResponseData) (*models.InstitutionResponse, error) {
	var settled settlement
	err := s.tx.RunInTx(ctx, vid, func(ctx context.Context) error {
		vr, err := s.loadRequest(ctx, vid)
		if err != nil {
			return err
		}
		ir, err := s.GetResponse(ctx, vid)
		if err != nil {
			return err
		}
		if ir.Status != models.ResponseStatusProcessing {
			return dErrors.New(dErrors.CodeConflict, "manual entry must be started before it is submitted")
		}
		settled = newSettlement(vr, ir)
		if err := s.reconcileInto(settled, data, nil, 0, requestcontext.Now(ctx)); err != nil {
			return err
		}
		return s.persist(ctx, settled)
	})
	if err != nil {
		return nil, err
	}
	s.afterSettle(ctx, settled)
	return settled.response, nil
}
