package httpserver

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"credverify/pkg/testutil"
)

func TestHealth(t *testing.T) {
	ok := func(context.Context) error { return nil }

	t.Run("no checks is healthy", func(t *testing.T) {
		rr := testutil.DoRequest(Health(nil, time.Second), testutil.NewRequest(t, http.MethodGet, "/healthz"))
		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "status", "ok")
	})

	t.Run("names the failing dependency", func(t *testing.T) {
		h := Health(map[string]Checker{
			"postgres": ok,
			"redis":    func(context.Context) error { return errors.New("connection refused") },
		}, time.Second)

		rr := testutil.DoRequest(h, testutil.NewRequest(t, http.MethodGet, "/healthz"))

		testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
		report := testutil.UnmarshalResponse[healthReport](t, rr)
		assert.Equal(t, "degraded", report.Status)
		assert.Equal(t, map[string]string{"redis": "connection refused"}, report.Failed)
	})

	t.Run("slow check is cut off by the timeout", func(t *testing.T) {
		h := Health(map[string]Checker{
			"redis": func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			},
		}, 10*time.Millisecond)

		rr := testutil.DoRequest(h, testutil.NewRequest(t, http.MethodGet, "/healthz"))

		testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
		report := testutil.UnmarshalResponse[healthReport](t, rr)
		assert.Contains(t, report.Failed["redis"], "deadline exceeded")
	})
}
