package service

import (
	"context"
	"encoding/json"
	"time"

	"credverify/internal/verification/models"
	id "credverify/pkg/domain"
	dErrors "credverify/pkg/domain-errors"
	"credverify/pkg/requestcontext"
)

const (
	webhookActor       = "webhook"
	maxWebhookMetadata = 32
)

// WebhookPayload is an institution's asynchronous answer.
type WebhookPayload struct {
	RequestID    string               `json:"requestId,omitempty"`
	ResponseData *models.ResponseData `json:"responseData"`
	RawResponse  json.RawMessage      `json:"rawResponse,omitempty"`
	Metadata     map[string]string    `json:"metadata,omitempty"`
}

// HandleWebhook settles a response from an institution push. The response
// is created if no attempt started it; settled and failed responses reject
// the push.
func (s *Service) HandleWebhook(ctx context.Context, vid id.VerificationID, secret string, p WebhookPayload) (*models.InstitutionResponse, error) {
	if p.ResponseData == nil {
		return nil, dErrors.New(dErrors.CodeValidation, "responseData is required")
	}
	vr, err := s.loadRequest(ctx, vid)
	if err != nil {
		return nil, err
	}
	ok, err := s.institutions.VerifyWebhookSecret(ctx, vr.InstitutionID, secret)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.logger.WarnContext(ctx, "webhook secret rejected",
			"request_id", requestcontext.RequestID(ctx),
			"verification_id", vid.String(),
			"institution_id", vr.InstitutionID.String(),
		)
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid webhook secret")
	}

	var settled settlement
	err = s.tx.RunInTx(ctx, vid, func(ctx context.Context) error {
		vr, err := s.loadRequest(ctx, vid)
		if err != nil {
			return err
		}
		ir, err := s.ensureResponse(ctx, vr)
		if err != nil {
			return err
		}
		if ir.Status.IsImmutable() || ir.Status == models.ResponseStatusFailed {
			return dErrors.New(dErrors.CodeConflict, "response is "+ir.Status.String()+" and cannot accept a webhook")
		}

		now := requestcontext.Now(ctx)
		var responseTime time.Duration
		if ir.Status == models.ResponseStatusProcessing {
			if started := ir.Metadata.ProcessingStartedAt; started != nil && now.After(*started) {
				responseTime = now.Sub(*started)
			}
		} else {
			ir.ApplyStartProcessing(webhookActor, now)
		}
		settled = newSettlement(vr, ir)
		if p.RequestID != "" {
			ir.Metadata.InstitutionRequest = p.RequestID
		}
		mergeMetadata(&ir.Metadata, p.Metadata)

		if err := s.reconcileInto(settled, *p.ResponseData, p.RawResponse, responseTime, now); err != nil {
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

// mergeMetadata copies pushed metadata into the bounded extension map.
func mergeMetadata(m *models.Metadata, pushed map[string]string) {
	if len(pushed) == 0 {
		return
	}
	if m.Extra == nil {
		m.Extra = make(map[string]string, len(pushed))
	}
	for k, v := range pushed {
		if _, exists := m.Extra[k]; !exists && len(m.Extra) >= maxWebhookMetadata {
			continue
		}
		m.Extra[k] = v
	}
}
