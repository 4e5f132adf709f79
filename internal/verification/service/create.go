package service

import (
	"context"
	"io"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"credverify/internal/filestore"
	instmodels "credverify/internal/institution/models"
	"credverify/internal/notify"
	"credverify/internal/verification/dispatch"
	"credverify/internal/verification/models"
	id "credverify/pkg/domain"
	dErrors "credverify/pkg/domain-errors"
	audit "credverify/pkg/platform/audit"
	"credverify/pkg/requestcontext"
)

// RefundPrefix marks the compensating credit for a verification whose
// creation failed after the fee was debited.
const RefundPrefix = "refund:"

// Document is one applicant upload.
type Document struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Submission is everything an applicant sends to create a verification.
type Submission struct {
	InstitutionID    id.InstitutionID
	Applicant        models.Applicant
	ConsentAgreement bool
	Certificate      *Document
	Consent          *Document
}

func (sub Submission) validate() error {
	a := sub.Applicant
	switch {
	case sub.InstitutionID.IsNil():
		return dErrors.New(dErrors.CodeValidation, "institution is required")
	case strings.TrimSpace(a.StudentName) == "":
		return dErrors.New(dErrors.CodeValidation, "student name is required")
	case strings.TrimSpace(a.StudentID) == "":
		return dErrors.New(dErrors.CodeValidation, "student id is required")
	case strings.TrimSpace(a.CourseName) == "":
		return dErrors.New(dErrors.CodeValidation, "course name is required")
	case strings.TrimSpace(a.DegreeType) == "":
		return dErrors.New(dErrors.CodeValidation, "degree type is required")
	case !sub.ConsentAgreement:
		return dErrors.New(dErrors.CodeValidation, "consent agreement is required")
	case sub.Certificate == nil || sub.Certificate.Body == nil:
		return dErrors.New(dErrors.CodeValidation, "certificate document is required")
	case sub.Consent == nil || sub.Consent.Body == nil:
		return dErrors.New(dErrors.CodeValidation, "consent document is required")
	}
	return nil
}

// Create validates the submission, uploads both documents, debits the
// institution fee and persists the routed request. Every failure after an
// upload deletes the uploaded documents; a failure after the debit refunds it.
func (s *Service) Create(ctx context.Context, sub Submission) (*models.VerificationRequest, error) {
	ctx, span := s.tracer.Start(ctx, "verification.Create",
		trace.WithAttributes(attribute.String("institution_id", sub.InstitutionID.String())),
	)
	defer span.End()

	vr, err := s.create(ctx, sub)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
		return nil, err
	}
	span.SetAttributes(
		attribute.String("verification_id", vr.ID.String()),
		attribute.String("route", string(vr.Route)),
	)
	return vr, nil
}

func (s *Service) create(ctx context.Context, sub Submission) (*models.VerificationRequest, error) {
	owner := requestcontext.OwnerID(ctx)
	if owner.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	now := requestcontext.Now(ctx)
	if err := sub.validate(); err != nil {
		return nil, err
	}
	if err := models.ValidateApplicantDates(sub.Applicant, now); err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
	}

	inst, err := s.institutions.Resolve(ctx, sub.InstitutionID)
	if err != nil {
		return nil, err
	}
	if inst.Fee > 0 {
		balance, err := s.wallet.GetBalance(ctx, owner)
		if err != nil {
			return nil, err
		}
		if balance < inst.Fee {
			return nil, dErrors.New(dErrors.CodeInsufficientFunds, "wallet balance is lower than the institution fee")
		}
	}

	reference, err := models.NewReference(now)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate reference")
	}

	certificate, consent, err := s.uploadDocuments(ctx, owner, sub)
	if err != nil {
		return nil, err
	}
	uploaded := []filestore.Handle{certificate, consent}

	if err := s.debitFee(ctx, owner, inst, reference); err != nil {
		s.deleteDocuments(ctx, uploaded)
		return nil, err
	}

	vr, err := models.NewVerificationRequest(
		id.VerificationID(s.newID()),
		owner,
		inst.ID,
		reference,
		sub.Applicant,
		sub.ConsentAgreement,
		certificate.String(),
		consent.String(),
		inst.Fee,
		now,
	)
	if err == nil {
		route := dispatch.Decide(inst)
		if err = vr.CanRoute(route); err == nil {
			vr.ApplyRoute(route, now)
			err = s.requests.Create(ctx, vr)
		}
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "verification persist failed after fee debit",
			"request_id", requestcontext.RequestID(ctx),
			"owner_id", owner.String(),
			"reference", reference,
			"error", err,
		)
		s.refundFee(ctx, owner, inst.Fee, reference)
		s.deleteDocuments(ctx, uploaded)
		if dErrors.CodeOf(err) == dErrors.CodeInvariantViolation {
			return nil, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create verification")
	}

	s.metrics.IncCreated(string(vr.Route))
	s.logger.InfoContext(ctx, "verification created",
		"request_id", requestcontext.RequestID(ctx),
		"owner_id", owner.String(),
		"verification_id", vr.ID.String(),
		"reference", vr.Reference,
		"institution_id", inst.ID.String(),
		"route", string(vr.Route),
		"fee", vr.Fee,
	)
	s.audit(ctx, vr, audit.EventVerificationCreated, string(vr.Route))
	s.notify(ctx, vr, notify.EventVerificationCreated)

	s.dispatch(ctx, vr)
	return vr, nil
}

// uploadDocuments stores both documents concurrently. If either fails the
// other is deleted.
func (s *Service) uploadDocuments(ctx context.Context, owner id.OwnerID, sub Submission) (filestore.Handle, filestore.Handle, error) {
	var (
		mu          sync.Mutex
		uploaded    []filestore.Handle
		certificate filestore.Handle
		consent     filestore.Handle
	)
	upload := func(ctx context.Context, kind filestore.Kind, doc *Document, dst *filestore.Handle) error {
		h, err := s.files.Upload(ctx, filestore.Document{
			OwnerID:     owner,
			Kind:        kind,
			FileName:    doc.FileName,
			ContentType: doc.ContentType,
			Size:        doc.Size,
			Body:        doc.Body,
		})
		if err != nil {
			return err
		}
		mu.Lock()
		uploaded = append(uploaded, h)
		mu.Unlock()
		*dst = h
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return upload(gctx, filestore.KindCertificate, sub.Certificate, &certificate) })
	g.Go(func() error { return upload(gctx, filestore.KindConsent, sub.Consent, &consent) })
	if err := g.Wait(); err != nil {
		s.logger.WarnContext(ctx, "document upload failed",
			"request_id", requestcontext.RequestID(ctx),
			"owner_id", owner.String(),
			"error", err,
		)
		s.deleteDocuments(ctx, uploaded)
		return "", "", dErrors.Wrap(err, dErrors.CodeUploadFailed, "failed to upload documents")
	}
	return certificate, consent, nil
}

// deleteDocuments removes uploads on a failure path. It outlives the
// caller's cancellation so a cancelled request still cleans up.
func (s *Service) deleteDocuments(ctx context.Context, handles []filestore.Handle) {
	ctx = requestcontext.Detach(ctx)
	for _, h := range handles {
		if err := s.files.Delete(ctx, h); err != nil {
			s.metrics.IncCompensation("delete_document", "error")
			s.logger.ErrorContext(ctx, "orphaned document could not be deleted",
				"request_id", requestcontext.RequestID(ctx),
				"handle", h.String(),
				"error", err,
			)
			continue
		}
		s.metrics.IncCompensation("delete_document", "ok")
	}
}

// debitFee charges the institution fee under the verification reference and
// records it. A fee that cannot be audited is refunded.
func (s *Service) debitFee(ctx context.Context, owner id.OwnerID, inst *instmodels.Institution, reference string) error {
	if inst.Fee == 0 {
		return nil
	}
	if _, err := s.wallet.Debit(ctx, owner, inst.Fee, reference); err != nil {
		return err
	}
	if s.auditor == nil {
		return nil
	}
	err := s.auditor.Emit(ctx, audit.Event{
		OwnerID:   owner,
		Action:    string(audit.EventFeeDebited),
		Reference: reference,
		Amount:    inst.Fee,
		RequestID: requestcontext.RequestID(ctx),
	})
	if err != nil {
		s.refundFee(ctx, owner, inst.Fee, reference)
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record fee debit")
	}
	return nil
}

func (s *Service) refundFee(ctx context.Context, owner id.OwnerID, fee int64, reference string) {
	if fee == 0 {
		return
	}
	ctx = requestcontext.Detach(ctx)
	refundRef := RefundPrefix + reference
	if _, err := s.wallet.Credit(ctx, owner, fee, refundRef); err != nil {
		s.metrics.IncCompensation("refund", "error")
		s.logger.ErrorContext(ctx, "CRITICAL: fee refund failed",
			"request_id", requestcontext.RequestID(ctx),
			"owner_id", owner.String(),
			"reference", refundRef,
			"amount", fee,
			"error", err,
		)
		return
	}
	s.metrics.IncCompensation("refund", "ok")
	if s.auditor == nil {
		return
	}
	err := s.auditor.Emit(ctx, audit.Event{
		OwnerID:   owner,
		Action:    string(audit.EventFeeRefunded),
		Reference: refundRef,
		Amount:    fee,
		RequestID: requestcontext.RequestID(ctx),
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "fee refund not audited",
			"request_id", requestcontext.RequestID(ctx),
			"owner_id", owner.String(),
			"reference", refundRef,
			"error", err,
		)
	}
}

// dispatch starts the routed path: manual routes get their response record
// now, auto routes are handed to the scheduler.
func (s *Service) dispatch(ctx context.Context, vr *models.VerificationRequest) {
	if vr.Process == models.ProcessManual {
		err := s.tx.RunInTx(ctx, vr.ID, func(ctx context.Context) error {
			_, err := s.ensureResponse(ctx, vr)
			return err
		})
		if err != nil {
			// The response is created lazily by the first operation that needs it.
			s.logger.WarnContext(ctx, "eager institution response creation failed",
				"request_id", requestcontext.RequestID(ctx),
				"verification_id", vr.ID.String(),
				"error", err,
			)
		}
		return
	}

	requestID := requestcontext.RequestID(ctx)
	job := func(ctx context.Context) {
		s.process(requestcontext.WithRequestID(ctx, requestID), vr.ID)
	}
	if s.scheduler != nil {
		err := s.scheduler.Submit(job)
		if err == nil {
			return
		}
		s.logger.WarnContext(ctx, "scheduler rejected auto verification, running inline",
			"request_id", requestID,
			"verification_id", vr.ID.String(),
			"error", err,
		)
	}
	job(requestcontext.Detach(ctx))
}
