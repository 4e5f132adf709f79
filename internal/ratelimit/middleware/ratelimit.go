package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"credverify/internal/ratelimit/models"
	dErrors "credverify/pkg/domain-errors"
	"credverify/pkg/platform/httputil"
	"credverify/pkg/requestcontext"
)

var rejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "credverify_rate_limit_rejected_total",
	Help: "Requests rejected by the rate limiter",
}, []string{"class"})

// BucketStore counts requests per key over a sliding window.
type BucketStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error)
}

var defaultLimits = map[models.EndpointClass]models.Limit{
	models.ClassApplicant: {Requests: 60, Window: time.Minute},
	models.ClassWebhook:   {Requests: 120, Window: time.Minute},
}

type Middleware struct {
	store    BucketStore
	logger   *slog.Logger
	limits   map[models.EndpointClass]models.Limit
	disabled bool
}

type Option func(*Middleware)

// WithDisabled turns every limiter into a pass-through.
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

// WithLimit overrides the budget for one class. Non-positive values keep the
// default.
func WithLimit(class models.EndpointClass, limit models.Limit) Option {
	return func(m *Middleware) {
		if limit.Requests > 0 && limit.Window > 0 {
			m.limits[class] = limit
		}
	}
}

func New(store BucketStore, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{
		store:  store,
		logger: logger,
		limits: make(map[models.EndpointClass]models.Limit, len(defaultLimits)),
	}
	for class, limit := range defaultLimits {
		m.limits[class] = limit
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled {
		logger.Info("rate limiting disabled")
	}
	return m
}

// ByIP limits by client address. Used for unauthenticated callers.
func (m *Middleware) ByIP(class models.EndpointClass) func(http.Handler) http.Handler {
	return m.limit(class, func(r *http.Request) string {
		return models.BucketKey(class, "ip", ClientIP(r))
	})
}

// ByOwner limits by authenticated owner, falling back to client address when
// no owner is on the context.
func (m *Middleware) ByOwner(class models.EndpointClass) func(http.Handler) http.Handler {
	return m.limit(class, func(r *http.Request) string {
		if owner := requestcontext.OwnerID(r.Context()); !owner.IsNil() {
			return models.BucketKey(class, "owner", owner.String())
		}
		return models.BucketKey(class, "ip", ClientIP(r))
	})
}

func (m *Middleware) limit(class models.EndpointClass, keyFn func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m.disabled {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			limit := m.limits[class]

			result, err := m.store.Allow(ctx, keyFn(r), limit.Requests, limit.Window)
			if err != nil {
				// Fail open.
				m.logger.ErrorContext(ctx, "rate limit check failed",
					"request_id", requestcontext.RequestID(ctx),
					"class", string(class),
					"error", err,
				)
				next.ServeHTTP(w, r)
				return
			}

			addRateLimitHeaders(w, result)
			if !result.Allowed {
				rejectedTotal.WithLabelValues(string(class)).Inc()
				m.logger.WarnContext(ctx, "rate limit exceeded",
					"request_id", requestcontext.RequestID(ctx),
					"class", string(class),
					"retry_after", result.RetryAfter,
				)
				w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
				httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited, "too many requests, try again later"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.RateLimitResult) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

// ClientIP returns the first X-Forwarded-For hop, else the remote host.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
