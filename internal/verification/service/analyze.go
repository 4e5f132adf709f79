package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"credverify/internal/verification/analysis"
	"credverify/internal/verification/models"
	"credverify/internal/verification/reconcile"
	"credverify/internal/verification/risk"
	dErrors "credverify/pkg/domain-errors"
	"credverify/pkg/requestcontext"
)

// analysisPanic carries a recovered analyzer panic as an error.
type analysisPanic struct {
	value any
}

func (p *analysisPanic) Error() string {
	return fmt.Sprintf("document analysis panicked: %v", p.value)
}

// analyzeDocuments runs the AI document path. Analyzer errors and panics
// never fail the verification; they leave it in requires_review.
func (s *Service) analyzeDocuments(ctx context.Context, vr *models.VerificationRequest) (*models.InstitutionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "verification.AnalyzeDocuments",
		trace.WithAttributes(attribute.String("verification_id", vr.ID.String())),
	)
	defer span.End()

	var institutionName string
	if inst, err := s.institutions.Get(ctx, vr.InstitutionID); err == nil {
		institutionName = inst.Name
	}

	err := s.tx.RunInTx(ctx, vr.ID, func(ctx context.Context) error {
		ir, err := s.ensureResponse(ctx, vr)
		if err != nil {
			return err
		}
		if err := ir.CanStartProcessing(); err != nil {
			return err
		}
		ir.ApplyStartProcessing(systemActor, requestcontext.Now(ctx))
		return s.saveResponse(ctx, ir)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
		return nil, err
	}

	start := time.Now()
	result, analyzeErr := s.analyze(ctx, analysis.Input{
		VerificationID:    vr.ID.String(),
		Reference:         vr.Reference,
		InstitutionName:   institutionName,
		CertificateHandle: vr.CertificateHandle,
		ConsentHandle:     vr.ConsentHandle,
		Applicant:         vr.Applicant,
	})
	if analyzeErr == nil && result.Error != "" {
		analyzeErr = fmt.Errorf("analyzer reported: %s", result.Error)
	}
	category := models.ErrorCategoryInternal
	if analyzeErr != nil {
		var panicked *analysisPanic
		if errors.As(analyzeErr, &panicked) {
			category = models.ErrorCategoryPanic
		}
		span.RecordError(analyzeErr)
		s.metrics.IncAbsorbed(string(category))
		s.logger.ErrorContext(ctx, "document analysis failed, routing to review",
			"request_id", requestcontext.RequestID(ctx),
			"verification_id", vr.ID.String(),
			"category", string(category),
			"elapsed", time.Since(start),
			"error", analyzeErr,
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
		settled.request.AIResult = result
		if analyzeErr != nil {
			if err := settled.response.CanSettle(models.ResponseStatusRequiresReview); err != nil {
				return err
			}
			settled.response.ApplyInternalError(category, analyzeErr.Error(), now)
			if err := settled.mirror(now); err != nil {
				return err
			}
		} else if err := s.applyAIResult(settled, result, now); err != nil {
			return err
		}
		if err := s.persist(ctx, settled); err != nil {
			return err
		}
		if !settled.requestChanged() && result != nil {
			return s.saveRequest(ctx, settled.request)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
		return nil, err
	}
	s.afterSettle(ctx, settled)
	return settled.response, nil
}

func (s *Service) analyze(ctx context.Context, in analysis.Input) (result *models.AIResult, err error) {
	if s.analyzer == nil {
		return nil, errors.New("document analysis is not configured")
	}
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, &analysisPanic{value: r}
		}
	}()
	result, err = s.analyzer.Analyze(ctx, in)
	if err == nil && result == nil {
		err = analysis.ErrInvalidResult
	}
	return result, err
}

// applyAIResult settles the response from analyzer confidence. Extracted
// fields are reconciled like institution data; confidence always comes from
// the analyzer.
func (s *Service) applyAIResult(st settlement, result *models.AIResult, now time.Time) error {
	confidence := int(math.Round(result.Confidence * 100))
	status := reconcile.DecideAI(result.Confidence)

	outcome := models.Outcome{
		Status: status,
		Scores: models.Scores{Verification: confidence, Confidence: confidence},
		Flags:  []models.Flag{},
	}
	if result.Extracted != nil {
		data := *result.Extracted
		data.BoundExtra()
		in := reconcile.Input{
			Applicant:   st.request.Applicant,
			Data:        data,
			SubmittedAt: st.request.CreatedAt,
			RespondedAt: now,
			Now:         now,
		}
		res := reconcile.Reconcile(in)
		outcome.ResponseData = &data
		outcome.Scores = res.Scores
		outcome.Scores.Confidence = confidence
		outcome.Flags = res.Flags
		outcome.Summary = res.Summary(in)
	}
	assessment := risk.Assess(outcome.Scores, outcome.Flags, 0)
	outcome.Risk = &assessment

	if err := st.response.CanSettle(status); err != nil {
		return err
	}
	st.response.ApplyOutcome(outcome, now)
	conf := result.Confidence
	st.response.Metadata.AIConfidence = &conf
	st.response.Metadata.AIModelVersion = result.ModelVersion
	st.response.Metadata.AINotes = result.Notes
	return st.mirror(now)
}
