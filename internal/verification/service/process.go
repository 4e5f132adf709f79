package service

import (
	"context"
	"encoding/json"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	instmodels "credverify/internal/institution/models"
	"credverify/internal/verification/institutionapi"
	"credverify/internal/verification/models"
	"credverify/internal/verification/reconcile"
	"credverify/internal/verification/risk"
	id "credverify/pkg/domain"
	dErrors "credverify/pkg/domain-errors"
	audit "credverify/pkg/platform/audit"
	"credverify/pkg/requestcontext"
)

// process runs the auto path for a freshly routed request.
func (s *Service) process(ctx context.Context, vid id.VerificationID) {
	vr, err := s.loadRequest(ctx, vid)
	if err != nil {
		s.logger.ErrorContext(ctx, "auto verification could not load request",
			"request_id", requestcontext.RequestID(ctx),
			"verification_id", vid.String(),
			"error", err,
		)
		return
	}
	switch vr.Route {
	case models.RouteAPIAuto:
		var inst *instmodels.Institution
		inst, err = s.institutions.Get(ctx, vr.InstitutionID)
		if err == nil {
			_, err = s.attempt(ctx, vr, inst, systemActor, false)
		}
	case models.RouteAIDocument:
		_, err = s.analyzeDocuments(ctx, vr)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "auto verification did not run",
			"request_id", requestcontext.RequestID(ctx),
			"verification_id", vid.String(),
			"route", string(vr.Route),
			"error", err,
		)
	}
}

// CallInstitution makes one bounded API attempt for a pending or
// requires_review response.
func (s *Service) CallInstitution(ctx context.Context, vid id.VerificationID) (*models.InstitutionResponse, error) {
	vr, inst, err := s.apiTarget(ctx, vid)
	if err != nil {
		return nil, err
	}
	return s.attempt(ctx, vr, inst, actorFrom(ctx), false)
}

// Retry re-attempts a failed response while the institution's attempt
// ceiling allows it. A response still waiting on a webhook past the
// institution timeout is re-attempted too, or failed once no attempts remain.
func (s *Service) Retry(ctx context.Context, vid id.VerificationID) (*models.InstitutionResponse, error) {
	vr, inst, err := s.apiTarget(ctx, vid)
	if err != nil {
		return nil, err
	}
	return s.attempt(ctx, vr, inst, actorFrom(ctx), true)
}

func (s *Service) apiTarget(ctx context.Context, vid id.VerificationID) (*models.VerificationRequest, *instmodels.Institution, error) {
	vr, err := s.loadRequest(ctx, vid)
	if err != nil {
		return nil, nil, err
	}
	if vr.Route != models.RouteAPIAuto && vr.Route != models.RouteAPIManual {
		return nil, nil, dErrors.New(dErrors.CodeConflict, "verification is not routed to an institution API")
	}
	inst, err := s.institutions.Get(ctx, vr.InstitutionID)
	if err != nil {
		return nil, nil, err
	}
	if !inst.HasAPICredentials() {
		return nil, nil, dErrors.New(dErrors.CodeConflict, "institution has no API credentials")
	}
	return vr, inst, nil
}

// attempt moves the response to processing, calls the institution outside
// any transaction, then settles the result.
func (s *Service) attempt(
	ctx context.Context,
	vr *models.VerificationRequest,
	inst *instmodels.Institution,
	actor string,
	retry bool,
) (*models.InstitutionResponse, error) {
	if s.client == nil {
		return nil, dErrors.New(dErrors.CodeUnavailable, "institution API client is not configured")
	}
	ctx, span := s.tracer.Start(ctx, "verification.CallInstitution", trace.WithAttributes(
		attribute.String("verification_id", vr.ID.String()),
		attribute.String("institution_id", inst.ID.String()),
		attribute.Bool("retry", retry),
	))
	defer span.End()

	maxAttempts := s.maxAttempts(inst)
	ackWait := inst.API.EffectiveTimeout(0)
	var expired *settlement
	err := s.tx.RunInTx(ctx, vr.ID, func(ctx context.Context) error {
		ir, err := s.ensureResponse(ctx, vr)
		if err != nil {
			return err
		}
		now := requestcontext.Now(ctx)
		if retry && ir.Attempts >= maxAttempts && ir.AcknowledgementExpired(now, ackWait) {
			st, err := s.expireAcknowledgement(ctx, vr.ID, now)
			if err != nil {
				return err
			}
			expired = &st
			return nil
		}
		if retry {
			err = ir.CanRetry(maxAttempts, now, ackWait)
		} else {
			err = ir.CanStartProcessing()
		}
		if err != nil {
			return err
		}
		ir.ApplyStartProcessing(actor, now)
		return s.saveResponse(ctx, ir)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
		return nil, err
	}
	if expired != nil {
		span.SetAttributes(attribute.String("response_status", expired.response.Status.String()))
		s.afterSettle(ctx, *expired)
		return expired.response, nil
	}

	reply, callErr := s.client.Verify(ctx, inst, institutionapi.NewRequest(vr))
	if callErr != nil {
		span.RecordError(callErr)
		s.metrics.IncAbsorbed(string(institutionapi.Category(callErr)))
		s.logger.WarnContext(ctx, "institution call failed",
			"request_id", requestcontext.RequestID(ctx),
			"verification_id", vr.ID.String(),
			"institution_id", inst.ID.String(),
			"category", string(institutionapi.Category(callErr)),
			"retryable", institutionapi.IsRetryable(callErr),
			"error", callErr,
		)
	}

	var settled settlement
	err = s.tx.RunInTx(ctx, vr.ID, func(ctx context.Context) error {
		var err error
		settled, err = s.loadProcessing(ctx, vr.ID)
		if err != nil {
			return err
		}
		now := requestcontext.Now(ctx)
		ir := settled.response
		switch {
		case callErr != nil:
			if err := ir.CanSettle(models.ResponseStatusFailed); err != nil {
				return err
			}
			ir.ApplyCallFailure(institutionapi.Category(callErr), callErr.Error(), now)
			if ir.Attempts >= maxAttempts {
				if err := settled.mirror(now); err != nil {
					return err
				}
			}
		case reply.Pending:
			ir.ApplyAcknowledged(reply.Endpoint, reply.RequestID, now)
		default:
			ir.Metadata.Endpoint = reply.Endpoint
			ir.Metadata.InstitutionRequest = reply.RequestID
			if err := s.reconcileInto(settled, reply.Data, reply.Raw, reply.Elapsed, now); err != nil {
				return err
			}
		}
		return s.persist(ctx, settled)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
		return nil, err
	}
	span.SetAttributes(attribute.String("response_status", settled.response.Status.String()))
	s.afterSettle(ctx, settled)
	return settled.response, nil
}

// expireAcknowledgement fails a response whose institution acknowledged the
// request but never delivered a result, once no attempts remain.
func (s *Service) expireAcknowledgement(ctx context.Context, vid id.VerificationID, now time.Time) (settlement, error) {
	st, err := s.loadProcessing(ctx, vid)
	if err != nil {
		return settlement{}, err
	}
	if err := st.response.CanSettle(models.ResponseStatusFailed); err != nil {
		return settlement{}, err
	}
	st.response.ApplyCallFailure(models.ErrorCategoryTimeout, "institution acknowledged the request but never delivered a result", now)
	if err := st.mirror(now); err != nil {
		return settlement{}, err
	}
	return st, s.persist(ctx, st)
}

// settlement is one response being settled together with its request.
type settlement struct {
	request      *models.VerificationRequest
	response     *models.InstitutionResponse
	fromRequest  models.RequestStatus
	fromResponse models.ResponseStatus
}

func (st settlement) requestChanged() bool {
	return st.request.Status != st.fromRequest
}

// mirror copies a settled response status onto the request. Statuses the
// request already holds are left alone.
func (st settlement) mirror(now time.Time) error {
	next, ok := models.MirrorResponseStatus(st.response.Status)
	if !ok || st.request.Status == next {
		return nil
	}
	if err := st.request.CanSettle(next); err != nil {
		return err
	}
	st.request.ApplySettle(next, now)
	return nil
}

// loadProcessing reloads the pair inside a transaction and checks nothing
// else settled the response while the attempt was in flight.
func (s *Service) loadProcessing(ctx context.Context, vid id.VerificationID) (settlement, error) {
	vr, err := s.loadRequest(ctx, vid)
	if err != nil {
		return settlement{}, err
	}
	ir, err := s.GetResponse(ctx, vid)
	if err != nil {
		return settlement{}, err
	}
	if ir.Status != models.ResponseStatusProcessing {
		return settlement{}, dErrors.New(dErrors.CodeConflict, "response was settled by another operation")
	}
	return newSettlement(vr, ir), nil
}

func newSettlement(vr *models.VerificationRequest, ir *models.InstitutionResponse) settlement {
	return settlement{
		request:      vr,
		response:     ir,
		fromRequest:  vr.Status,
		fromResponse: ir.Status,
	}
}

// reconcileInto scores institution data against the applicant's submission
// and settles the response with the resulting status.
func (s *Service) reconcileInto(st settlement, data models.ResponseData, raw json.RawMessage, responseTime time.Duration, now time.Time) error {
	data.BoundExtra()
	if len(raw) == 0 {
		encoded, err := json.Marshal(data)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode response data")
		}
		raw = encoded
	}
	in := reconcile.Input{
		Applicant:    st.request.Applicant,
		Data:         data,
		Raw:          raw,
		SubmittedAt:  st.request.CreatedAt,
		RespondedAt:  now,
		ResponseTime: responseTime,
		Now:          now,
	}
	res := reconcile.Reconcile(in)
	assessment := risk.Assess(res.Scores, res.Flags, responseTime)
	status := reconcile.Decide(data, res, assessment)

	if err := st.response.CanSettle(status); err != nil {
		return err
	}
	st.response.ApplyOutcome(models.Outcome{
		Status:       status,
		ResponseData: &data,
		RawResponse:  raw,
		Scores:       res.Scores,
		Flags:        res.Flags,
		Summary:      res.Summary(in),
		Risk:         &assessment,
	}, now)
	if responseTime > 0 {
		st.response.Metadata.ResponseTimeMS = responseTime.Milliseconds()
	}
	return st.mirror(now)
}

func (s *Service) persist(ctx context.Context, st settlement) error {
	if err := s.saveResponse(ctx, st.response); err != nil {
		return err
	}
	if st.requestChanged() {
		return s.saveRequest(ctx, st.request)
	}
	return nil
}

// afterSettle records metrics, audit and notifications once the settlement
// is committed.
func (s *Service) afterSettle(ctx context.Context, st settlement) {
	ir, vr := st.response, st.request
	if ir.Status != st.fromResponse && ir.Status.IsSettled() {
		s.metrics.IncOutcome(string(ir.Type), ir.Status.String())
		if ir.Metadata.Risk != nil {
			s.metrics.ObserveScore(ir.Scores.Verification)
			s.metrics.IncRiskTier(string(ir.Metadata.Risk.Tier))
		}
		s.audit(ctx, vr, audit.EventResponseStatusChanged, ir.Status.String())
	}
	s.logger.InfoContext(ctx, "institution response settled",
		"request_id", requestcontext.RequestID(ctx),
		"verification_id", vr.ID.String(),
		"reference", vr.Reference,
		"institution_id", vr.InstitutionID.String(),
		"response_status", ir.Status.String(),
		"request_status", vr.Status.String(),
		"verification_score", ir.Scores.Verification,
		"attempts", ir.Attempts,
	)
	if !st.requestChanged() {
		return
	}
	if event, ok := eventFor(vr.Status); ok {
		s.notify(ctx, vr, event)
	}
	if vr.Status.IsTerminal() {
		s.audit(ctx, vr, audit.EventVerificationFinalized, vr.Status.String())
	}
}
