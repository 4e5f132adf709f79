// Package analysis talks to the document analysis service used when an
// auto-process institution has no API.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"credverify/internal/verification/models"
	"credverify/pkg/requestcontext"
)

const maxResponseBytes = 1 << 20

// Input identifies the documents and the claims to check them against.
type Input struct {
	VerificationID    string           `json:"verification_id"`
	Reference         string           `json:"reference"`
	InstitutionName   string           `json:"institution_name"`
	CertificateHandle string           `json:"certificate_handle"`
	ConsentHandle     string           `json:"consent_handle"`
	Applicant         models.Applicant `json:"applicant"`
}

// ErrInvalidResult is returned when the analyzer answers with a confidence
// outside [0,1] or an unreadable body.
var ErrInvalidResult = errors.New("invalid analysis result")

// HTTPAnalyzer posts analysis jobs to a remote service and waits for the
// structured answer.
type HTTPAnalyzer struct {
	endpoint string
	client   *http.Client
	timeout  time.Duration
}

func NewHTTPAnalyzer(endpoint string, timeout time.Duration) *HTTPAnalyzer {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPAnalyzer{
		endpoint: endpoint,
		client:   &http.Client{},
		timeout:  timeout,
	}
}

func (a *HTTPAnalyzer) Analyze(ctx context.Context, in Input) (*models.AIResult, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analysis input: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if rid := requestcontext.RequestID(ctx); rid != "" {
		req.Header.Set("X-Request-ID", rid)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analysis request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read analysis response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("analysis service returned %d: %s", resp.StatusCode, truncate(raw, 200))
	}

	var result models.AIResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResult, err)
	}
	if result.Confidence < 0 || result.Confidence > 1 {
		return nil, fmt.Errorf("%w: confidence %.3f", ErrInvalidResult, result.Confidence)
	}
	if result.Extracted != nil {
		result.Extracted.BoundExtra()
	}
	return &result, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
