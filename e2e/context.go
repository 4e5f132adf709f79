package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"credverify/e2e/steps/common"
)

// actor is a named caller with a minted access token.
type actor struct {
	ownerID uuid.UUID
	role    string
	token   string
}

// TestContext holds per-scenario HTTP state shared by all step packages.
type TestContext struct {
	BaseURL    string
	SigningKey string
	Issuer     string

	client  *http.Client
	actors  map[string]*actor
	current string
	vars    map[string]string

	lastStatus int
	lastBody   []byte
}

func NewTestContext(baseURL, signingKey, issuer string) *TestContext {
	return &TestContext{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		SigningKey: signingKey,
		Issuer:     issuer,
		client:     &http.Client{Timeout: 15 * time.Second},
	}
}

// Reset clears state between scenarios.
func (tc *TestContext) Reset() {
	tc.actors = make(map[string]*actor)
	tc.vars = make(map[string]string)
	tc.current = ""
	tc.lastStatus = 0
	tc.lastBody = nil
}

// ActAs switches the caller, minting a token the first time a name is seen.
func (tc *TestContext) ActAs(name, role string) error {
	if a, ok := tc.actors[name]; ok {
		if a.role != role {
			return fmt.Errorf("%s is already a %s", name, a.role)
		}
		tc.current = name
		return nil
	}
	ownerID := uuid.New()
	now := time.Now()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  ownerID.String(),
		"role": role,
		"iss":  tc.Issuer,
		"iat":  now.Unix(),
		"exp":  now.Add(time.Hour).Unix(),
	}).SignedString([]byte(tc.SigningKey))
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}
	tc.actors[name] = &actor{ownerID: ownerID, role: role, token: token}
	tc.current = name
	return nil
}

// SwitchTo resumes acting as a known caller.
func (tc *TestContext) SwitchTo(name string) error {
	if _, ok := tc.actors[name]; !ok {
		return fmt.Errorf("unknown actor %q", name)
	}
	tc.current = name
	return nil
}

// Current returns the acting caller's name.
func (tc *TestContext) Current() string {
	return tc.current
}

func (tc *TestContext) OwnerID(name string) (string, error) {
	a, ok := tc.actors[name]
	if !ok {
		return "", fmt.Errorf("unknown actor %q", name)
	}
	return a.ownerID.String(), nil
}

func (tc *TestContext) Remember(key, value string) {
	tc.vars[key] = value
}

func (tc *TestContext) Recall(key string) (string, error) {
	v, ok := tc.vars[key]
	if !ok {
		return "", fmt.Errorf("nothing remembered as %q", key)
	}
	return v, nil
}

// Expand substitutes {key} placeholders with remembered values.
func (tc *TestContext) Expand(s string) string {
	for k, v := range tc.vars {
		s = strings.ReplaceAll(s, "{"+k+"}", v)
	}
	return s
}

// JSON sends a JSON request as the current actor. A nil body sends none.
func (tc *TestContext) JSON(method, path string, body any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, tc.BaseURL+tc.Expand(path), reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return tc.do(req)
}

// Multipart sends a payload field plus file parts as the current actor.
func (tc *TestContext) Multipart(path string, payload any, uploads ...common.Upload) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if err := mw.WriteField("payload", string(raw)); err != nil {
		return err
	}
	for _, u := range uploads {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, u.Field, u.FileName))
		hdr.Set("Content-Type", u.ContentType)
		part, err := mw.CreatePart(hdr)
		if err != nil {
			return err
		}
		if _, err := part.Write(u.Content); err != nil {
			return err
		}
	}
	if err := mw.Close(); err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, tc.BaseURL+tc.Expand(path), &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return tc.do(req)
}

// Webhook posts an institution callback. It carries no bearer token.
func (tc *TestContext) Webhook(path, secret string, body any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, tc.BaseURL+tc.Expand(path), bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set("X-Webhook-Secret", secret)
	}
	return tc.send(req)
}

func (tc *TestContext) do(req *http.Request) error {
	if a, ok := tc.actors[tc.current]; ok {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	return tc.send(req)
}

func (tc *TestContext) send(req *http.Request) error {
	resp, err := tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	tc.lastStatus = resp.StatusCode
	tc.lastBody = body
	return nil
}

func (tc *TestContext) LastStatus() int {
	return tc.lastStatus
}

func (tc *TestContext) LastBody() []byte {
	return tc.lastBody
}

// Field reads a dotted path from the last JSON response, e.g. "scores.verification_score".
func (tc *TestContext) Field(path string) (any, error) {
	var v any
	if err := json.Unmarshal(tc.lastBody, &v); err != nil {
		return nil, fmt.Errorf("response is not JSON: %w (%s)", err, tc.lastBody)
	}
	for _, key := range strings.Split(path, ".") {
		obj, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s: not an object at %q", path, key)
		}
		if v, ok = obj[key]; !ok {
			return nil, fmt.Errorf("%s: missing key %q in %s", path, key, tc.lastBody)
		}
	}
	return v, nil
}

// FieldString formats a response field the way Gherkin tables write it.
func (tc *TestContext) FieldString(path string) (string, error) {
	v, err := tc.Field(path)
	if err != nil {
		return "", err
	}
	switch t := v.(type) {
	case string:
		return t, nil
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t)), nil
		}
		return fmt.Sprintf("%g", t), nil
	default:
		return fmt.Sprint(t), nil
	}
}
