package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"credverify/internal/institution/models"
	id "credverify/pkg/domain"
	"credverify/pkg/platform/sentinel"
)

// Postgres persists institutions through database/sql with the lib/pq driver.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const selectInstitution = `
SELECT id, name, active, fee, process, connection,
       api_endpoint, api_auth_method, api_key, api_username, api_password,
       api_timeout_ms, api_retry_attempts, webhook_secret_hash,
       created_at, updated_at
FROM institutions`

func (s *Postgres) FindByID(ctx context.Context, instID id.InstitutionID) (*models.Institution, error) {
	row := s.db.QueryRowContext(ctx, selectInstitution+" WHERE id = $1", uuid.UUID(instID))
	inst, err := scanInstitution(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find institution: %w", err)
	}
	return inst, nil
}

func (s *Postgres) List(ctx context.Context) ([]*models.Institution, error) {
	rows, err := s.db.QueryContext(ctx, selectInstitution+" ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list institutions: %w", err)
	}
	defer rows.Close()

	var out []*models.Institution
	for rows.Next() {
		inst, err := scanInstitution(rows)
		if err != nil {
			return nil, fmt.Errorf("scan institution: %w", err)
		}
		out = append(out, inst)
	}
	return out, rows.Err()
}

func (s *Postgres) Upsert(ctx context.Context, inst *models.Institution) error {
	var (
		endpoint, method, key, username, password sql.NullString
		timeoutMS                                 sql.NullInt64
		retries                                   sql.NullInt32
	)
	if inst.API != nil {
		endpoint = nullString(inst.API.Endpoint)
		method = nullString(string(inst.API.AuthMethod))
		key = nullString(inst.API.Key)
		username = nullString(inst.API.Username)
		password = nullString(inst.API.Password)
		timeoutMS = sql.NullInt64{Int64: inst.API.Timeout.Milliseconds(), Valid: inst.API.Timeout > 0}
		retries = sql.NullInt32{Int32: int32(inst.API.RetryAttempts), Valid: inst.API.RetryAttempts > 0} //nolint:gosec // bounded by config
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO institutions (id, name, active, fee, process, connection,
    api_endpoint, api_auth_method, api_key, api_username, api_password,
    api_timeout_ms, api_retry_attempts, webhook_secret_hash, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    active = EXCLUDED.active,
    fee = EXCLUDED.fee,
    process = EXCLUDED.process,
    connection = EXCLUDED.connection,
    api_endpoint = EXCLUDED.api_endpoint,
    api_auth_method = EXCLUDED.api_auth_method,
    api_key = EXCLUDED.api_key,
    api_username = EXCLUDED.api_username,
    api_password = EXCLUDED.api_password,
    api_timeout_ms = EXCLUDED.api_timeout_ms,
    api_retry_attempts = EXCLUDED.api_retry_attempts,
    webhook_secret_hash = EXCLUDED.webhook_secret_hash,
    updated_at = EXCLUDED.updated_at`,
		uuid.UUID(inst.ID), inst.Name, inst.Active, inst.Fee, string(inst.Process), string(inst.Connection),
		endpoint, method, key, username, password, timeoutMS, retries,
		nullString(inst.WebhookSecretHash), inst.CreatedAt, inst.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert institution: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInstitution(row rowScanner) (*models.Institution, error) {
	var (
		rawID                                     uuid.UUID
		inst                                      models.Institution
		process, connection                       string
		endpoint, method, key, username, password sql.NullString
		timeoutMS                                 sql.NullInt64
		retries                                   sql.NullInt32
		secretHash                                sql.NullString
	)
	if err := row.Scan(&rawID, &inst.Name, &inst.Active, &inst.Fee, &process, &connection,
		&endpoint, &method, &key, &username, &password, &timeoutMS, &retries, &secretHash,
		&inst.CreatedAt, &inst.UpdatedAt); err != nil {
		return nil, err
	}
	inst.ID = id.InstitutionID(rawID)
	inst.Process = models.Process(process)
	inst.Connection = models.Connection(connection)
	inst.WebhookSecretHash = secretHash.String
	if endpoint.Valid || method.Valid {
		inst.API = &models.APIConfig{
			Endpoint:      endpoint.String,
			AuthMethod:    models.AuthMethod(method.String),
			Key:           key.String,
			Username:      username.String,
			Password:      password.String,
			Timeout:       time.Duration(timeoutMS.Int64) * time.Millisecond,
			RetryAttempts: int(retries.Int32),
		}
	}
	return &inst, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
