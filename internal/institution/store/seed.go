package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"credverify/internal/institution/models"
	id "credverify/pkg/domain"
)

// SeedRecord is the on-disk shape of one institution in a seed file.
type SeedRecord struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Active        *bool  `json:"active,omitempty"`
	Fee           int64  `json:"fee"`
	Process       string `json:"process"`
	Connection    string `json:"connection,omitempty"`
	WebhookSecret string `json:"webhook_secret,omitempty"`
	API           *struct {
		Endpoint      string `json:"endpoint"`
		AuthMethod    string `json:"auth_method"`
		Key           string `json:"key,omitempty"`
		Username      string `json:"username,omitempty"`
		Password      string `json:"password,omitempty"`
		TimeoutMS     int64  `json:"timeout_ms,omitempty"`
		RetryAttempts int    `json:"retry_attempts,omitempty"`
	} `json:"api,omitempty"`
}

type upserter interface {
	Upsert(ctx context.Context, inst *models.Institution) error
}

// SeedFromFile loads institutions from a JSON array and upserts them.
// An empty path is a no-op.
func SeedFromFile(ctx context.Context, path string, store upserter) (int, error) {
	if path == "" {
		return 0, nil
	}
	raw, err := os.ReadFile(path) //nolint:gosec // operator-supplied path
	if err != nil {
		return 0, fmt.Errorf("read institution seed: %w", err)
	}
	var records []SeedRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return 0, fmt.Errorf("decode institution seed: %w", err)
	}
	now := time.Now()
	for i, rec := range records {
		inst, err := rec.toInstitution(now)
		if err != nil {
			return i, fmt.Errorf("seed record %d (%s): %w", i, rec.Name, err)
		}
		if err := store.Upsert(ctx, inst); err != nil {
			return i, fmt.Errorf("seed record %d (%s): %w", i, rec.Name, err)
		}
	}
	return len(records), nil
}

func (r SeedRecord) toInstitution(now time.Time) (*models.Institution, error) {
	instID, err := id.ParseInstitutionID(r.ID)
	if err != nil {
		return nil, err
	}
	var api *models.APIConfig
	if r.API != nil {
		api = &models.APIConfig{
			Endpoint:      r.API.Endpoint,
			AuthMethod:    models.AuthMethod(r.API.AuthMethod),
			Key:           r.API.Key,
			Username:      r.API.Username,
			Password:      r.API.Password,
			Timeout:       time.Duration(r.API.TimeoutMS) * time.Millisecond,
			RetryAttempts: r.API.RetryAttempts,
		}
	}
	inst, err := models.NewInstitution(instID, r.Name, r.Fee, models.Process(r.Process), models.Connection(r.Connection), api, now)
	if err != nil {
		return nil, err
	}
	if r.Active != nil {
		inst.Active = *r.Active
	}
	if r.WebhookSecret != "" {
		if err := inst.SetWebhookSecret(r.WebhookSecret); err != nil {
			return nil, err
		}
	}
	return inst, nil
}
