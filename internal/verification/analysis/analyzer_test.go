package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credverify/internal/verification/models"
)

func TestHTTPAnalyzer(t *testing.T) {
	t.Run("returns the structured result", func(t *testing.T) {
		var got Input
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&got)
			_, _ = w.Write([]byte(`{"confidence":0.91,"model_version":"doc-v3","notes":["seal detected"],"extracted":{"student_name":"Ada Lovelace"}}`))
		}))
		defer srv.Close()

		res, err := NewHTTPAnalyzer(srv.URL, time.Second).Analyze(context.Background(), Input{
			VerificationID:    "vr-1",
			CertificateHandle: "owners/o/certificate/c.pdf",
		})

		require.NoError(t, err)
		assert.InDelta(t, 0.91, res.Confidence, 1e-9)
		assert.Equal(t, "doc-v3", res.ModelVersion)
		assert.Equal(t, []string{"seal detected"}, res.Notes)
		require.NotNil(t, res.Extracted)
		assert.Equal(t, "Ada Lovelace", res.Extracted.StudentName)
		assert.Equal(t, "owners/o/certificate/c.pdf", got.CertificateHandle)
	})

	t.Run("rejects out of range confidence", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"confidence":1.7}`))
		}))
		defer srv.Close()

		_, err := NewHTTPAnalyzer(srv.URL, time.Second).Analyze(context.Background(), Input{})

		assert.True(t, errors.Is(err, ErrInvalidResult))
	})

	t.Run("surfaces server errors", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "model overloaded", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, err := NewHTTPAnalyzer(srv.URL, time.Second).Analyze(context.Background(), Input{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "503")
	})

	t.Run("times out", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer srv.Close()

		_, err := NewHTTPAnalyzer(srv.URL, 20*time.Millisecond).Analyze(context.Background(), Input{})

		require.Error(t, err)
		assert.True(t, errors.Is(err, context.DeadlineExceeded))
	})
}

func TestAIResultShape(t *testing.T) {
	var res models.AIResult
	require.NoError(t, json.Unmarshal([]byte(`{"confidence":0.5,"error":"blurred scan"}`), &res))
	assert.Equal(t, "blurred scan", res.Error)
}
