package models

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	id "credverify/pkg/domain"
	dErrors "credverify/pkg/domain-errors"
)

// Process selects how verifications for an institution are handled.
type Process string

const (
	ProcessAuto   Process = "auto"
	ProcessManual Process = "manual"
)

// Connection describes how staff reach the institution on the manual path.
type Connection string

const (
	ConnectionPortal Connection = "portal"
	ConnectionAPI    Connection = "api"
)

type AuthMethod string

const (
	AuthAPIKey AuthMethod = "api_key"
	AuthBearer AuthMethod = "bearer"
	AuthBasic  AuthMethod = "basic"
)

const (
	DefaultAPITimeout    = 30 * time.Second
	DefaultRetryAttempts = 3
)

// APIConfig holds the institution's verification API endpoint and credentials.
type APIConfig struct {
	Endpoint      string        `json:"endpoint"`
	AuthMethod    AuthMethod    `json:"auth_method"`
	Key           string        `json:"key,omitempty"`
	Username      string        `json:"username,omitempty"`
	Password      string        `json:"password,omitempty"`
	Timeout       time.Duration `json:"timeout"`
	RetryAttempts int           `json:"retry_attempts"`
}

// HasCredentials reports whether an endpoint and the credential required by
// the auth method are both configured.
func (c *APIConfig) HasCredentials() bool {
	if c == nil || strings.TrimSpace(c.Endpoint) == "" {
		return false
	}
	switch c.AuthMethod {
	case AuthAPIKey, AuthBearer:
		return c.Key != ""
	case AuthBasic:
		return c.Username != "" && c.Password != ""
	default:
		return false
	}
}

// EffectiveTimeout returns the configured timeout or fallback.
func (c *APIConfig) EffectiveTimeout(fallback time.Duration) time.Duration {
	if c != nil && c.Timeout > 0 {
		return c.Timeout
	}
	if fallback > 0 {
		return fallback
	}
	return DefaultAPITimeout
}

// EffectiveRetryAttempts returns the configured attempt ceiling or fallback.
func (c *APIConfig) EffectiveRetryAttempts(fallback int) int {
	if c != nil && c.RetryAttempts > 0 {
		return c.RetryAttempts
	}
	if fallback > 0 {
		return fallback
	}
	return DefaultRetryAttempts
}

// Institution is read-only reference data consulted at verification time.
//
// Invariants:
//   - Name is non-empty
//   - Fee is never negative
//   - Process and Connection are from their closed sets
type Institution struct {
	ID                id.InstitutionID `json:"id"`
	Name              string           `json:"name"`
	Active            bool             `json:"active"`
	Fee               int64            `json:"fee"`
	Process           Process          `json:"process"`
	Connection        Connection       `json:"connection"`
	API               *APIConfig       `json:"api,omitempty"`
	WebhookSecretHash string           `json:"webhook_secret_hash,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

func NewInstitution(instID id.InstitutionID, name string, fee int64, process Process, connection Connection, api *APIConfig, now time.Time) (*Institution, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "institution name cannot be empty")
	}
	if fee < 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "institution fee cannot be negative")
	}
	if process != ProcessAuto && process != ProcessManual {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "unknown institution process")
	}
	if connection == "" {
		connection = ConnectionPortal
	}
	if connection != ConnectionPortal && connection != ConnectionAPI {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "unknown institution connection")
	}
	if api != nil {
		switch api.AuthMethod {
		case AuthAPIKey, AuthBearer, AuthBasic:
		default:
			return nil, dErrors.New(dErrors.CodeInvariantViolation, "unknown API auth method")
		}
	}
	return &Institution{
		ID:         instID,
		Name:       name,
		Active:     true,
		Fee:        fee,
		Process:    process,
		Connection: connection,
		API:        api,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (i *Institution) HasAPICredentials() bool {
	return i.API.HasCredentials()
}

// SetWebhookSecret stores a bcrypt hash of secret.
func (i *Institution) SetWebhookSecret(secret string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash webhook secret")
	}
	i.WebhookSecretHash = string(hash)
	return nil
}

// VerifyWebhookSecret reports whether secret matches the stored hash.
func (i *Institution) VerifyWebhookSecret(secret string) bool {
	if i.WebhookSecretHash == "" || secret == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(i.WebhookSecretHash), []byte(secret)) == nil
}
