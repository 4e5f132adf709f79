package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credverify/internal/wallet/models"
	"credverify/internal/wallet/service"
	"credverify/internal/wallet/store"
	id "credverify/pkg/domain"
	"credverify/pkg/requestcontext"
	"credverify/pkg/testutil"
)

func TestHandleStatement(t *testing.T) {
	svc := service.New(store.NewInMemory())
	owner := id.OwnerID(uuid.New())
	_, err := svc.Credit(context.Background(), owner, 100, "topup-1")
	require.NoError(t, err)

	r := chi.NewRouter()
	New(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)

	t.Run("unauthenticated", func(t *testing.T) {
		rr := testutil.DoRequest(r, httptest.NewRequest(http.MethodGet, "/wallet", nil))
		testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
	})

	t.Run("returns balance and entries", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/wallet", nil)
		req = req.WithContext(requestcontext.WithOwner(req.Context(), owner, id.RoleApplicant))
		rr := testutil.DoRequest(r, req)
		testutil.AssertStatusOK(t, rr)

		st := testutil.UnmarshalResponse[models.Statement](t, rr)
		assert.Equal(t, int64(100), st.Balance)
		assert.Len(t, st.Entries, 1)
	})
}

func TestHandleCredit(t *testing.T) {
	svc := service.New(store.NewInMemory())
	owner := id.OwnerID(uuid.New())
	staff := id.OwnerID(uuid.New())

	r := chi.NewRouter()
	New(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).RegisterStaff(r)
	path := "/wallets/" + owner.String() + "/credits"

	t.Run("credits the owner", func(t *testing.T) {
		req := testutil.AsStaff(testutil.NewJSONRequest(t, http.MethodPost, path, map[string]any{
			"amount":    50,
			"reference": "topup-42",
		}), staff)
		rr := testutil.DoRequest(r, req)
		testutil.AssertStatus(t, rr, http.StatusCreated)

		entry := testutil.UnmarshalResponse[models.Entry](t, rr)
		assert.Equal(t, int64(50), entry.Delta)
		assert.Equal(t, int64(50), entry.BalanceAfter)

		balance, err := svc.GetBalance(context.Background(), owner)
		require.NoError(t, err)
		assert.Equal(t, int64(50), balance)
	})

	t.Run("repeated reference is a conflict", func(t *testing.T) {
		req := testutil.AsStaff(testutil.NewJSONRequest(t, http.MethodPost, path, map[string]any{
			"amount":    50,
			"reference": "topup-42",
		}), staff)
		rr := testutil.DoRequest(r, req)
		testutil.AssertStatusAndError(t, rr, http.StatusConflict, "conflict")
	})

	t.Run("rejects invalid bodies", func(t *testing.T) {
		for name, body := range map[string]map[string]any{
			"zero amount":       {"amount": 0, "reference": "r"},
			"negative amount":   {"amount": -5, "reference": "r"},
			"missing reference": {"amount": 5, "reference": "  "},
		} {
			t.Run(name, func(t *testing.T) {
				req := testutil.AsStaff(testutil.NewJSONRequest(t, http.MethodPost, path, body), staff)
				rr := testutil.DoRequest(r, req)
				testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
			})
		}
	})

	t.Run("rejects malformed owner id", func(t *testing.T) {
		req := testutil.AsStaff(testutil.NewJSONRequest(t, http.MethodPost, "/wallets/nope/credits", map[string]any{
			"amount":    5,
			"reference": "r",
		}), staff)
		rr := testutil.DoRequest(r, req)
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "invalid_input")
	})
}
