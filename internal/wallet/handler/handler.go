package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"credverify/internal/wallet/models"
	id "credverify/pkg/domain"
	dErrors "credverify/pkg/domain-errors"
	"credverify/pkg/platform/httputil"
	"credverify/pkg/requestcontext"
)

type Service interface {
	Statement(ctx context.Context, ownerID id.OwnerID) (*models.Statement, error)
	Credit(ctx context.Context, ownerID id.OwnerID, amount int64, reference string) (*models.Entry, error)
}

// CreditRequest tops up an applicant's wallet.
type CreditRequest struct {
	Amount    int64  `json:"amount"`
	Reference string `json:"reference"`
}

func (r *CreditRequest) Validate() error {
	r.Reference = strings.TrimSpace(r.Reference)
	if r.Amount <= 0 {
		return dErrors.New(dErrors.CodeValidation, "amount must be positive")
	}
	if r.Reference == "" {
		return dErrors.New(dErrors.CodeValidation, "reference is required")
	}
	return nil
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts wallet endpoints. Callers must be authenticated.
func (h *Handler) Register(r chi.Router) {
	r.Get("/wallet", h.HandleStatement)
}

// RegisterStaff mounts wallet administration. Mount behind the staff guard.
func (h *Handler) RegisterStaff(r chi.Router) {
	r.Post("/wallets/{ownerID}/credits", h.HandleCredit)
}

func (h *Handler) HandleStatement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID := requestcontext.OwnerID(ctx)
	if ownerID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	st, err := h.service.Statement(ctx, ownerID)
	if err != nil {
		h.logger.ErrorContext(ctx, "wallet statement failed",
			"request_id", requestcontext.RequestID(ctx),
			"owner_id", ownerID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, st)
}

func (h *Handler) HandleCredit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	ownerID, err := id.ParseOwnerID(chi.URLParam(r, "ownerID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[CreditRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	entry, err := h.service.Credit(ctx, ownerID, req.Amount, req.Reference)
	if err != nil {
		h.logger.WarnContext(ctx, "wallet credit failed",
			"request_id", requestID,
			"owner_id", ownerID,
			"reference", req.Reference,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, entry)
}
