// Package service runs the verification lifecycle: creation with fee debit,
// dispatch, institution and document-analysis attempts, manual entry,
// webhooks, and the reconciliation that settles each institution response.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"credverify/internal/filestore"
	instmodels "credverify/internal/institution/models"
	"credverify/internal/notify"
	"credverify/internal/platform/workerpool"
	"credverify/internal/verification/analysis"
	"credverify/internal/verification/institutionapi"
	"credverify/internal/verification/metrics"
	"credverify/internal/verification/models"
	walletmodels "credverify/internal/wallet/models"
	id "credverify/pkg/domain"
	dErrors "credverify/pkg/domain-errors"
	audit "credverify/pkg/platform/audit"
	"credverify/pkg/platform/sentinel"
	"credverify/pkg/requestcontext"
)

// RequestStore persists verification requests. Create returns
// sentinel.ErrAlreadyUsed for a duplicate id or reference.
type RequestStore interface {
	Create(ctx context.Context, vr *models.VerificationRequest) error
	FindByID(ctx context.Context, vid id.VerificationID) (*models.VerificationRequest, error)
	ListByOwner(ctx context.Context, owner id.OwnerID) ([]*models.VerificationRequest, error)
	Update(ctx context.Context, vr *models.VerificationRequest) error
}

// ResponseStore persists institution responses. Create returns
// sentinel.ErrAlreadyUsed when a response already exists for the request.
type ResponseStore interface {
	Create(ctx context.Context, ir *models.InstitutionResponse) error
	FindByVerificationID(ctx context.Context, vid id.VerificationID) (*models.InstitutionResponse, error)
	Update(ctx context.Context, ir *models.InstitutionResponse) error
}

// Tx serializes mutations of one verification and its response.
type Tx interface {
	RunInTx(ctx context.Context, vid id.VerificationID, fn func(ctx context.Context) error) error
}

type Wallet interface {
	GetBalance(ctx context.Context, ownerID id.OwnerID) (int64, error)
	Debit(ctx context.Context, ownerID id.OwnerID, amount int64, reference string) (*walletmodels.Entry, error)
	Credit(ctx context.Context, ownerID id.OwnerID, amount int64, reference string) (*walletmodels.Entry, error)
}

type Institutions interface {
	Get(ctx context.Context, instID id.InstitutionID) (*instmodels.Institution, error)
	Resolve(ctx context.Context, instID id.InstitutionID) (*instmodels.Institution, error)
	VerifyWebhookSecret(ctx context.Context, instID id.InstitutionID, secret string) (bool, error)
}

type FileStore interface {
	Upload(ctx context.Context, doc filestore.Document) (filestore.Handle, error)
	Delete(ctx context.Context, handle filestore.Handle) error
}

type InstitutionClient interface {
	Verify(ctx context.Context, inst *instmodels.Institution, req institutionapi.Request) (*institutionapi.Reply, error)
}

type Analyzer interface {
	Analyze(ctx context.Context, in analysis.Input) (*models.AIResult, error)
}

// Notifier must not block.
type Notifier interface {
	Notify(ctx context.Context, n notify.Notification)
}

// Auditor appends audit events; an error means the event was not recorded.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Scheduler runs auto-path work after Create returns.
type Scheduler interface {
	Submit(job workerpool.Job) error
}

const systemActor = "system"

type Service struct {
	requests     RequestStore
	responses    ResponseStore
	tx           Tx
	wallet       Wallet
	institutions Institutions
	files        FileStore
	client       InstitutionClient
	analyzer     Analyzer
	notifier     Notifier
	auditor      Auditor
	scheduler    Scheduler

	logger        *slog.Logger
	metrics       *metrics.Metrics
	tracer        trace.Tracer
	retryAttempts int
	newID         func() uuid.UUID
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithInstitutionClient(c InstitutionClient) Option {
	return func(s *Service) { s.client = c }
}

func WithAnalyzer(a Analyzer) Option {
	return func(s *Service) { s.analyzer = a }
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func WithAuditor(a Auditor) Option {
	return func(s *Service) { s.auditor = a }
}

// WithScheduler runs auto-path work in the background. Without one, it runs
// before Create returns.
func WithScheduler(sch Scheduler) Option {
	return func(s *Service) { s.scheduler = sch }
}

// WithRetryAttempts sets the attempt ceiling for institutions that do not
// configure their own.
func WithRetryAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.retryAttempts = n
		}
	}
}

func New(
	requests RequestStore,
	responses ResponseStore,
	tx Tx,
	wallet Wallet,
	institutions Institutions,
	files FileStore,
	opts ...Option,
) *Service {
	s := &Service{
		requests:      requests,
		responses:     responses,
		tx:            tx,
		wallet:        wallet,
		institutions:  institutions,
		files:         files,
		logger:        slog.Default(),
		tracer:        otel.Tracer("credverify/verification"),
		retryAttempts: instmodels.DefaultRetryAttempts,
		newID:         uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns a verification. Applicants only see their own.
func (s *Service) Get(ctx context.Context, vid id.VerificationID) (*models.VerificationRequest, error) {
	vr, err := s.loadRequest(ctx, vid)
	if err != nil {
		return nil, err
	}
	if !requestcontext.IsStaff(ctx) && !vr.IsOwnedBy(requestcontext.OwnerID(ctx)) {
		return nil, dErrors.New(dErrors.CodeNotFound, "verification not found")
	}
	return vr, nil
}

func (s *Service) ListByOwner(ctx context.Context, owner id.OwnerID) ([]*models.VerificationRequest, error) {
	list, err := s.requests.ListByOwner(ctx, owner)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list verifications")
	}
	return list, nil
}

func (s *Service) GetResponse(ctx context.Context, vid id.VerificationID) (*models.InstitutionResponse, error) {
	ir, err := s.responses.FindByVerificationID(ctx, vid)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "institution response not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load institution response")
	}
	return ir, nil
}

func (s *Service) loadRequest(ctx context.Context, vid id.VerificationID) (*models.VerificationRequest, error) {
	vr, err := s.requests.FindByID(ctx, vid)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "verification not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load verification")
	}
	return vr, nil
}

// createResponse inserts the single response for vr. A second creation is a
// conflict and leaves the first untouched.
func (s *Service) createResponse(ctx context.Context, vr *models.VerificationRequest) (*models.InstitutionResponse, error) {
	ir, err := models.NewInstitutionResponse(
		id.ResponseID(s.newID()),
		vr.ID,
		vr.InstitutionID,
		vr.Route.ResponseType(),
		requestcontext.Now(ctx),
	)
	if err != nil {
		return nil, err
	}
	if err := s.responses.Create(ctx, ir); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "institution response already exists for this verification")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create institution response")
	}
	return ir, nil
}

// ensureResponse returns the existing response or lazily creates it. Callers
// hold the verification's transaction.
func (s *Service) ensureResponse(ctx context.Context, vr *models.VerificationRequest) (*models.InstitutionResponse, error) {
	ir, err := s.responses.FindByVerificationID(ctx, vr.ID)
	switch {
	case err == nil:
		return ir, nil
	case errors.Is(err, sentinel.ErrNotFound):
		return s.createResponse(ctx, vr)
	default:
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load institution response")
	}
}

func (s *Service) saveResponse(ctx context.Context, ir *models.InstitutionResponse) error {
	if err := s.responses.Update(ctx, ir); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save institution response")
	}
	return nil
}

func (s *Service) saveRequest(ctx context.Context, vr *models.VerificationRequest) error {
	if err := s.requests.Update(ctx, vr); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save verification")
	}
	return nil
}

// maxAttempts is the institution's attempt ceiling for this service.
func (s *Service) maxAttempts(inst *instmodels.Institution) int {
	return inst.API.EffectiveRetryAttempts(s.retryAttempts)
}

func (s *Service) notify(ctx context.Context, vr *models.VerificationRequest, event notify.EventType) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, notify.Notification{
		Type:           event,
		VerificationID: vr.ID,
		Reference:      vr.Reference,
		OwnerID:        vr.OwnerID,
		Recipient:      vr.Applicant.Email,
		Status:         vr.Status.String(),
		OccurredAt:     requestcontext.Now(ctx),
	})
}

// audit records an operations event. Failures are logged, not returned.
func (s *Service) audit(ctx context.Context, vr *models.VerificationRequest, action audit.AuditEvent, decision string) {
	if s.auditor == nil {
		return
	}
	err := s.auditor.Emit(ctx, audit.Event{
		OwnerID:   vr.OwnerID,
		Subject:   vr.ID.String(),
		Action:    string(action),
		Reference: vr.Reference,
		Decision:  decision,
		RequestID: requestcontext.RequestID(ctx),
		ActorID:   actorFrom(ctx),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "audit event not recorded",
			"request_id", requestcontext.RequestID(ctx),
			"verification_id", vr.ID.String(),
			"action", string(action),
			"error", err,
		)
	}
}

// actorFrom names the caller for audit and response metadata.
func actorFrom(ctx context.Context) string {
	owner := requestcontext.OwnerID(ctx)
	if owner.IsNil() {
		return systemActor
	}
	return owner.String()
}

func eventFor(status models.RequestStatus) (notify.EventType, bool) {
	switch status {
	case models.RequestStatusCompleted:
		return notify.EventVerificationCompleted, true
	case models.RequestStatusRequiresReview:
		return notify.EventVerificationRequiresReview, true
	case models.RequestStatusFailed:
		return notify.EventVerificationFailed, true
	}
	return "", false
}
