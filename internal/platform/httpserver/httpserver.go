package httpserver

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"credverify/internal/platform/config"
	"credverify/pkg/platform/httputil"
)

const DefaultCheckTimeout = 2 * time.Second

// New builds the HTTP server from server config.
func New(cfg config.Server, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

// Checker reports whether a backing dependency is reachable.
type Checker func(ctx context.Context) error

type healthReport struct {
	Status string            `json:"status"`
	Failed map[string]string `json:"failed,omitempty"`
}

// Health runs every check concurrently, each bounded by timeout. It answers
// 200 when all pass and 503 listing the failing dependencies otherwise.
func Health(checks map[string]Checker, timeout time.Duration) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		var (
			mu     sync.Mutex
			wg     sync.WaitGroup
			failed = map[string]string{}
		)
		for _, name := range names {
			wg.Add(1)
			go func(name string, check Checker) {
				defer wg.Done()
				if err := check(ctx); err != nil {
					mu.Lock()
					failed[name] = err.Error()
					mu.Unlock()
				}
			}(name, checks[name])
		}
		wg.Wait()

		if len(failed) > 0 {
			httputil.WriteJSON(w, http.StatusServiceUnavailable, healthReport{Status: "degraded", Failed: failed})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, healthReport{Status: "ok"})
	}
}
