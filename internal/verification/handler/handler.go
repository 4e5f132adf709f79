package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"credverify/internal/verification/models"
	"credverify/internal/verification/service"
	id "credverify/pkg/domain"
	dErrors "credverify/pkg/domain-errors"
	"credverify/pkg/platform/httputil"
	"credverify/pkg/requestcontext"
)

const (
	defaultMaxUploadBytes = 10 << 20
	maxMemoryBytes        = 8 << 20

	// WebhookSecretHeader carries the institution's shared webhook secret.
	WebhookSecretHeader = "X-Webhook-Secret"
)

var allowedDocumentTypes = map[string]bool{
	"application/pdf": true,
	"image/png":       true,
	"image/jpeg":      true,
}

// Service defines the verification operations exposed over HTTP.
type Service interface {
	Create(ctx context.Context, sub service.Submission) (*models.VerificationRequest, error)
	Get(ctx context.Context, vid id.VerificationID) (*models.VerificationRequest, error)
	ListByOwner(ctx context.Context, owner id.OwnerID) ([]*models.VerificationRequest, error)
	GetResponse(ctx context.Context, vid id.VerificationID) (*models.InstitutionResponse, error)
	Assign(ctx context.Context, vid id.VerificationID, operator string) (*models.InstitutionResponse, error)
	StartManualEntry(ctx context.Context, vid id.VerificationID, operator string) (*models.InstitutionResponse, error)
	SubmitManualEntry(ctx context.Context, vid id.VerificationID, data models.ResponseData) (*models.InstitutionResponse, error)
	CallInstitution(ctx context.Context, vid id.VerificationID) (*models.InstitutionResponse, error)
	Retry(ctx context.Context, vid id.VerificationID) (*models.InstitutionResponse, error)
	HandleWebhook(ctx context.Context, vid id.VerificationID, secret string, p service.WebhookPayload) (*models.InstitutionResponse, error)
}

type Handler struct {
	service        Service
	logger         *slog.Logger
	maxUploadBytes int64
}

type Option func(*Handler)

// WithMaxUploadBytes caps the whole multipart submission. Non-positive values
// keep the default.
func WithMaxUploadBytes(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxUploadBytes = n
		}
	}
}

func New(service Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{service: service, logger: logger, maxUploadBytes: defaultMaxUploadBytes}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts applicant endpoints. Callers must be authenticated.
func (h *Handler) Register(r chi.Router) {
	r.Post("/verifications", h.HandleCreate)
	r.Get("/verifications", h.HandleList)
	r.Get("/verifications/{id}", h.HandleGet)
}

// RegisterStaff mounts the response workflow. Mount behind the staff guard.
func (h *Handler) RegisterStaff(r chi.Router) {
	r.Route("/verifications/{id}/response", func(r chi.Router) {
		r.Get("/", h.HandleGetResponse)
		r.Post("/assign", h.HandleAssign)
		r.Post("/start", h.HandleStart)
		r.Post("/entry", h.HandleEntry)
		r.Post("/call", h.HandleCall)
		r.Post("/retry", h.HandleRetry)
	})
}

// RegisterWebhooks mounts institution callbacks, authenticated by shared
// secret rather than bearer token.
func (h *Handler) RegisterWebhooks(r chi.Router) {
	r.Post("/webhooks/institutions/{id}", h.HandleWebhook)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(maxMemoryBytes); err != nil {
		h.logger.WarnContext(ctx, "invalid multipart submission",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "request must be multipart/form-data with payload, certificate and consent"))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	var payload CreateRequest
	if err := json.Unmarshal([]byte(r.FormValue("payload")), &payload); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "payload must be a JSON object"))
		return
	}
	if err := payload.Validate(); err != nil {
		h.logger.WarnContext(ctx, "verification submission rejected",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	sub, err := payload.Submission()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	certificate, closeCert, err := formDocument(r, "certificate")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	defer closeCert()
	consent, closeConsent, err := formDocument(r, "consent")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	defer closeConsent()
	sub.Certificate, sub.Consent = certificate, consent

	vr, err := h.service.Create(ctx, sub)
	if err != nil {
		h.logFailure(ctx, "verification create failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, vr)
}

// formDocument opens one uploaded file part.
func formDocument(r *http.Request, field string) (*service.Document, func(), error) {
	file, hdr, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, dErrors.New(dErrors.CodeValidation, field+" file is required")
		}
		return nil, nil, dErrors.New(dErrors.CodeBadRequest, "could not read "+field+" file")
	}
	contentType := hdr.Header.Get("Content-Type")
	if !allowedDocumentTypes[contentType] {
		_ = file.Close()
		return nil, nil, dErrors.New(dErrors.CodeValidation, field+" must be a PDF, PNG or JPEG")
	}
	doc := &service.Document{
		FileName:    hdr.Filename,
		ContentType: contentType,
		Size:        hdr.Size,
		Body:        file,
	}
	return doc, func() { _ = file.Close() }, nil
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner := requestcontext.OwnerID(ctx)
	if owner.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}
	list, err := h.service.ListByOwner(ctx, owner)
	if err != nil {
		h.logFailure(ctx, "verification list failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"verifications": list})
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vid, ok := verificationID(w, r)
	if !ok {
		return
	}
	vr, err := h.service.Get(ctx, vid)
	if err != nil {
		h.logFailure(ctx, "verification get failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, vr)
}

func (h *Handler) HandleGetResponse(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, "institution response get failed", func(ctx context.Context, vid id.VerificationID) (*models.InstitutionResponse, error) {
		return h.service.GetResponse(ctx, vid)
	})
}

func (h *Handler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[AssignRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.respond(w, r, "institution response assign failed", func(ctx context.Context, vid id.VerificationID) (*models.InstitutionResponse, error) {
		return h.service.Assign(ctx, vid, req.Operator)
	})
}

func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var operator string
	if r.ContentLength != 0 {
		req, ok := httputil.DecodeAndPrepare[StartRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
		if !ok {
			return
		}
		operator = req.Operator
	}
	h.respond(w, r, "manual entry start failed", func(ctx context.Context, vid id.VerificationID) (*models.InstitutionResponse, error) {
		return h.service.StartManualEntry(ctx, vid, operator)
	})
}

func (h *Handler) HandleEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[EntryRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.respond(w, r, "manual entry submit failed", func(ctx context.Context, vid id.VerificationID) (*models.InstitutionResponse, error) {
		return h.service.SubmitManualEntry(ctx, vid, req.Data)
	})
}

func (h *Handler) HandleCall(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, "institution call failed", h.service.CallInstitution)
}

func (h *Handler) HandleRetry(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, "institution retry failed", h.service.Retry)
}

func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	secret := r.Header.Get(WebhookSecretHeader)
	if secret == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing webhook secret"))
		return
	}
	payload, ok := httputil.DecodeAndPrepare[service.WebhookPayload](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.respond(w, r, "institution webhook failed", func(ctx context.Context, vid id.VerificationID) (*models.InstitutionResponse, error) {
		return h.service.HandleWebhook(ctx, vid, secret, *payload)
	})
}

// respond parses the verification id, runs op and writes the response record.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, failure string, op func(context.Context, id.VerificationID) (*models.InstitutionResponse, error)) {
	ctx := r.Context()
	vid, ok := verificationID(w, r)
	if !ok {
		return
	}
	ir, err := op(ctx, vid)
	if err != nil {
		h.logFailure(ctx, failure, err, "verification_id", vid.String())
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ir)
}

func verificationID(w http.ResponseWriter, r *http.Request) (id.VerificationID, bool) {
	vid, err := id.ParseVerificationID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return vid, false
	}
	return vid, true
}

// logFailure logs client errors at warn and everything else at error.
func (h *Handler) logFailure(ctx context.Context, msg string, err error, attrs ...any) {
	attrs = append([]any{"request_id", requestcontext.RequestID(ctx), "error", err}, attrs...)
	if dErrors.HTTPStatus(dErrors.CodeOf(err)) < http.StatusInternalServerError {
		h.logger.WarnContext(ctx, msg, attrs...)
		return
	}
	h.logger.ErrorContext(ctx, msg, attrs...)
}
