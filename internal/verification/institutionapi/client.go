// Package institutionapi calls institution verification endpoints.
//
// One Verify call is one bounded attempt: the timeout comes from the
// institution's API configuration and failures are returned as *CallError
// for the caller to record. Nothing here retries.
package institutionapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	instmodels "credverify/internal/institution/models"
	"credverify/internal/verification/models"
	"credverify/pkg/platform/circuit"
	"credverify/pkg/requestcontext"
)

const maxResponseBytes = 1 << 20

// Request is the payload sent to the institution.
type Request struct {
	VerificationID string `json:"verification_id"`
	Reference      string `json:"reference"`
	StudentID      string `json:"student_id"`
	StudentName    string `json:"student_name"`
	MaidenName     string `json:"maiden_name,omitempty"`
	DateOfBirth    string `json:"date_of_birth"`
	CourseName     string `json:"course_name"`
	FieldOfStudy   string `json:"field_of_study,omitempty"`
	DegreeType     string `json:"degree_type"`
	Classification string `json:"classification,omitempty"`
	GraduationYear int    `json:"graduation_year"`
}

// NewRequest builds the outbound payload from a verification request.
func NewRequest(vr *models.VerificationRequest) Request {
	a := vr.Applicant
	return Request{
		VerificationID: vr.ID.String(),
		Reference:      vr.Reference,
		StudentID:      a.StudentID,
		StudentName:    a.StudentName,
		MaidenName:     a.MaidenName,
		DateOfBirth:    a.DateOfBirth.Format("2006-01-02"),
		CourseName:     a.CourseName,
		FieldOfStudy:   a.FieldOfStudy,
		DegreeType:     a.DegreeType,
		Classification: a.Classification,
		GraduationYear: a.GraduationYear,
	}
}

// Reply is a successful institution answer.
type Reply struct {
	Data      models.ResponseData
	Raw       json.RawMessage
	RequestID string
	// Pending is set when the institution accepted the request and will
	// push the result to the webhook later.
	Pending  bool
	Endpoint string
	Elapsed  time.Duration
}

// envelope accepts both a nested "data" object and a flat record.
type envelope struct {
	RequestID string               `json:"request_id"`
	Status    string               `json:"status"`
	Data      *models.ResponseData `json:"data"`
}

type Client struct {
	http             *http.Client
	logger           *slog.Logger
	metrics          *Metrics
	defaultTimeout   time.Duration
	failureThreshold int
	cooldown         time.Duration

	mu       sync.Mutex
	breakers map[string]*circuit.Breaker
}

type Option func(*Client)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithDefaultTimeout applies when an institution has no timeout configured.
func WithDefaultTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.defaultTimeout = d
		}
	}
}

func WithBreaker(failureThreshold int, cooldown time.Duration) Option {
	return func(c *Client) {
		if failureThreshold > 0 {
			c.failureThreshold = failureThreshold
		}
		if cooldown > 0 {
			c.cooldown = cooldown
		}
	}
}

func New(opts ...Option) *Client {
	c := &Client{
		http:             &http.Client{},
		defaultTimeout:   instmodels.DefaultAPITimeout,
		failureThreshold: 5,
		cooldown:         30 * time.Second,
		breakers:         make(map[string]*circuit.Breaker),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) breaker(institutionID string) *circuit.Breaker {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.breakers[institutionID]
	if !ok {
		b = circuit.New("institution:"+institutionID,
			circuit.WithFailureThreshold(c.failureThreshold),
			circuit.WithSuccessThreshold(1),
			circuit.WithCooldown(c.cooldown),
		)
		c.breakers[institutionID] = b
	}
	return b
}

// Verify performs one attempt against the institution's endpoint.
func (c *Client) Verify(ctx context.Context, inst *instmodels.Institution, req Request) (*Reply, error) {
	instID := inst.ID.String()
	if !inst.HasAPICredentials() {
		return nil, newCallError(models.ErrorCategoryAuthentication, instID, "institution has no API credentials", nil)
	}
	b := c.breaker(instID)
	if !b.Allow() {
		c.metrics.ObserveCall(string(models.ErrorCategoryCircuitOpen), 0)
		return nil, newCallError(models.ErrorCategoryCircuitOpen, instID, "institution API circuit is open", nil)
	}

	start := time.Now()
	reply, err := c.do(ctx, inst, req)
	elapsed := time.Since(start)

	if err != nil {
		category := Category(err)
		c.metrics.ObserveCall(string(category), elapsed)
		if !countsAgainstBreaker(category) {
			b.Release()
			return nil, err
		}
		if change := b.RecordFailure(); change.Opened {
			c.metrics.IncBreakerOpened(instID)
			if c.logger != nil {
				c.logger.WarnContext(ctx, "institution API circuit opened",
					"breaker", b.Name(),
					"error", err,
				)
			}
		}
		return nil, err
	}

	if change := b.RecordSuccess(); change.Closed && c.logger != nil {
		c.logger.InfoContext(ctx, "institution API circuit closed", "breaker", b.Name())
	}
	reply.Elapsed = elapsed
	if reply.Pending {
		c.metrics.ObserveCall("pending", elapsed)
	} else {
		c.metrics.ObserveCall("ok", elapsed)
	}
	return reply, nil
}

func (c *Client) do(ctx context.Context, inst *instmodels.Institution, req Request) (*Reply, error) {
	instID := inst.ID.String()
	api := inst.API

	body, err := json.Marshal(req)
	if err != nil {
		return nil, newCallError(models.ErrorCategoryInternal, instID, "failed to encode request", err)
	}

	ctx, cancel := context.WithTimeout(ctx, api.EffectiveTimeout(c.defaultTimeout))
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, api.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, newCallError(models.ErrorCategoryInternal, instID, "failed to build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if rid := requestcontext.RequestID(ctx); rid != "" {
		httpReq.Header.Set("X-Request-ID", rid)
	}
	setAuth(httpReq, api)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return nil, newCallError(models.ErrorCategoryTimeout, instID, "institution API timed out", err)
		}
		return nil, newCallError(models.ErrorCategoryOutage, instID, "institution API unreachable", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		if isTimeout(err) {
			return nil, newCallError(models.ErrorCategoryTimeout, instID, "institution API timed out", err)
		}
		return nil, newCallError(models.ErrorCategoryOutage, instID, "failed to read response", err)
	}

	if category, failed := statusCategory(resp.StatusCode); failed {
		ce := newCallError(category, instID, fmt.Sprintf("institution API returned %d", resp.StatusCode), nil)
		ce.StatusCode = resp.StatusCode
		return nil, ce
	}

	reply := &Reply{Endpoint: api.Endpoint}
	if len(bytes.TrimSpace(raw)) == 0 {
		if resp.StatusCode == http.StatusAccepted {
			reply.Pending = true
			return reply, nil
		}
		return nil, newCallError(models.ErrorCategoryBadData, instID, "institution API returned an empty body", nil)
	}
	if !json.Valid(raw) {
		return nil, newCallError(models.ErrorCategoryBadData, instID, "institution API returned invalid JSON", nil)
	}
	reply.Raw = json.RawMessage(raw)

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, newCallError(models.ErrorCategoryBadData, instID, "unexpected response shape", err)
	}
	reply.RequestID = env.RequestID
	if resp.StatusCode == http.StatusAccepted || isPendingStatus(env.Status) {
		reply.Pending = true
		return reply, nil
	}

	if env.Data != nil {
		reply.Data = *env.Data
	} else if err := json.Unmarshal(raw, &reply.Data); err != nil {
		return nil, newCallError(models.ErrorCategoryBadData, instID, "unexpected response shape", err)
	}
	if reply.Data.Status == "" {
		reply.Data.Status = env.Status
	}
	reply.Data.BoundExtra()
	return reply, nil
}

func setAuth(r *http.Request, api *instmodels.APIConfig) {
	switch api.AuthMethod {
	case instmodels.AuthAPIKey:
		r.Header.Set("X-API-Key", api.Key)
	case instmodels.AuthBearer:
		r.Header.Set("Authorization", "Bearer "+api.Key)
	case instmodels.AuthBasic:
		r.SetBasicAuth(api.Username, api.Password)
	}
}

// statusCategory maps a non-2xx status onto the failure taxonomy.
func statusCategory(code int) (models.ErrorCategory, bool) {
	switch {
	case code >= 200 && code < 300:
		return "", false
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return models.ErrorCategoryAuthentication, true
	case code == http.StatusNotFound:
		return models.ErrorCategoryNotFound, true
	case code == http.StatusTooManyRequests:
		return models.ErrorCategoryRateLimited, true
	case code == http.StatusRequestTimeout, code == http.StatusGatewayTimeout:
		return models.ErrorCategoryTimeout, true
	case code >= 500:
		return models.ErrorCategoryOutage, true
	default:
		return models.ErrorCategoryBadData, true
	}
}

func isPendingStatus(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending", "accepted", "processing":
		return true
	}
	return false
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
