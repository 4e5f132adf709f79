package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	id "credverify/pkg/domain"
	"credverify/pkg/requestcontext"
)

// TokenValidator validates bearer tokens and returns the authenticated principal.
type TokenValidator interface {
	ValidateToken(token string) (*Principal, error)
}

type Principal struct {
	OwnerID id.OwnerID
	Role    id.Role
}

func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if errDesc == "" {
		_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s"}`, errCode))
		return
	}
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// RequireAuth authenticates the bearer token and places the principal in the
// request context.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}

			principal, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"request_id", requestcontext.RequestID(ctx),
					"error", err,
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			ctx = requestcontext.WithOwner(ctx, principal.OwnerID, principal.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireStaff rejects callers whose role is not staff. Mount after RequireAuth.
func RequireStaff(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if !requestcontext.IsStaff(ctx) {
				logger.WarnContext(ctx, "forbidden - staff role required",
					"request_id", requestcontext.RequestID(ctx),
					"owner_id", requestcontext.OwnerID(ctx),
				)
				writeJSONError(w, http.StatusForbidden, "forbidden", "staff role required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
