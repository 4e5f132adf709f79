package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"credverify/internal/verification/models"
	id "credverify/pkg/domain"
	"credverify/pkg/platform/sentinel"
	txcontext "credverify/pkg/platform/tx"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

type scanner interface {
	Scan(dest ...any) error
}

// PostgresRequests persists verification requests. Every statement joins
// the transaction carried by ctx, if any.
type PostgresRequests struct {
	db *sql.DB
}

func NewPostgresRequests(db *sql.DB) *PostgresRequests {
	return &PostgresRequests{db: db}
}

const selectRequest = `
SELECT id, owner_id, institution_id, reference, status, process, route,
       applicant, certificate_handle, consent_handle, consent_agreement,
       fee_charged, ai_result, created_at, updated_at
FROM verification_requests`

func (s *PostgresRequests) Create(ctx context.Context, vr *models.VerificationRequest) error {
	applicantJSON, err := json.Marshal(vr.Applicant)
	if err != nil {
		return fmt.Errorf("marshal applicant: %w", err)
	}
	aiResult, err := marshalNullable(vr.AIResult)
	if err != nil {
		return fmt.Errorf("marshal ai result: %w", err)
	}
	_, err = txcontext.Exec(ctx, s.db).ExecContext(ctx, `
		INSERT INTO verification_requests (
			id, owner_id, institution_id, reference, status, process, route,
			applicant, certificate_handle, consent_handle, consent_agreement,
			fee_charged, ai_result, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		uuid.UUID(vr.ID),
		uuid.UUID(vr.OwnerID),
		uuid.UUID(vr.InstitutionID),
		vr.Reference,
		string(vr.Status),
		nullString(string(vr.Process)),
		nullString(string(vr.Route)),
		string(applicantJSON),
		vr.CertificateHandle,
		vr.ConsentHandle,
		vr.ConsentAgreement,
		vr.Fee,
		aiResult,
		vr.CreatedAt,
		vr.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return sentinel.ErrAlreadyUsed
	}
	if err != nil {
		return fmt.Errorf("insert verification request: %w", err)
	}
	return nil
}

func (s *PostgresRequests) FindByID(ctx context.Context, vid id.VerificationID) (*models.VerificationRequest, error) {
	row := txcontext.Exec(ctx, s.db).QueryRowContext(ctx, selectRequest+" WHERE id = $1", uuid.UUID(vid))
	return s.findOne(row)
}

func (s *PostgresRequests) FindByReference(ctx context.Context, reference string) (*models.VerificationRequest, error) {
	row := txcontext.Exec(ctx, s.db).QueryRowContext(ctx, selectRequest+" WHERE reference = $1", reference)
	return s.findOne(row)
}

func (s *PostgresRequests) findOne(row scanner) (*models.VerificationRequest, error) {
	vr, err := scanRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find verification request: %w", err)
	}
	return vr, nil
}

// ListByOwner returns the owner's requests, newest first.
func (s *PostgresRequests) ListByOwner(ctx context.Context, owner id.OwnerID) ([]*models.VerificationRequest, error) {
	rows, err := txcontext.Exec(ctx, s.db).QueryContext(ctx,
		selectRequest+" WHERE owner_id = $1 ORDER BY created_at DESC, id",
		uuid.UUID(owner),
	)
	if err != nil {
		return nil, fmt.Errorf("list verification requests: %w", err)
	}
	defer rows.Close()

	out := []*models.VerificationRequest{}
	for rows.Next() {
		vr, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan verification request: %w", err)
		}
		out = append(out, vr)
	}
	return out, rows.Err()
}

func (s *PostgresRequests) Update(ctx context.Context, vr *models.VerificationRequest) error {
	aiResult, err := marshalNullable(vr.AIResult)
	if err != nil {
		return fmt.Errorf("marshal ai result: %w", err)
	}
	res, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, `
		UPDATE verification_requests
		SET status = $2, process = $3, route = $4, ai_result = $5, updated_at = $6
		WHERE id = $1`,
		uuid.UUID(vr.ID),
		string(vr.Status),
		nullString(string(vr.Process)),
		nullString(string(vr.Route)),
		aiResult,
		vr.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update verification request: %w", err)
	}
	return expectOneRow(res)
}

func scanRequest(row scanner) (*models.VerificationRequest, error) {
	var (
		vr                  models.VerificationRequest
		vid, owner, inst    uuid.UUID
		status              string
		process, route      sql.NullString
		applicant, aiResult []byte
	)
	if err := row.Scan(&vid, &owner, &inst, &vr.Reference, &status, &process, &route,
		&applicant, &vr.CertificateHandle, &vr.ConsentHandle, &vr.ConsentAgreement,
		&vr.Fee, &aiResult, &vr.CreatedAt, &vr.UpdatedAt); err != nil {
		return nil, err
	}
	vr.ID = id.VerificationID(vid)
	vr.OwnerID = id.OwnerID(owner)
	vr.InstitutionID = id.InstitutionID(inst)
	vr.Status = models.RequestStatus(status)
	vr.Process = models.Process(process.String)
	vr.Route = models.Route(route.String)
	if err := json.Unmarshal(applicant, &vr.Applicant); err != nil {
		return nil, fmt.Errorf("decode applicant: %w", err)
	}
	if len(aiResult) > 0 {
		vr.AIResult = &models.AIResult{}
		if err := json.Unmarshal(aiResult, vr.AIResult); err != nil {
			return nil, fmt.Errorf("decode ai result: %w", err)
		}
	}
	return &vr, nil
}

// PostgresResponses persists institution responses. The unique constraint
// on verification_id rejects a second response for the same request.
type PostgresResponses struct {
	db *sql.DB
}

func NewPostgresResponses(db *sql.DB) *PostgresResponses {
	return &PostgresResponses{db: db}
}

const selectResponse = `
SELECT id, verification_id, institution_id, response_type, status,
       raw_response, response_data,
       verification_score, confidence_score, data_quality_score,
       completeness_score, timeliness_score, match_percentage,
       flags, metadata, is_verified, attempts, created_at, updated_at
FROM institution_responses`

// responseColumns holds the encoded JSON columns of a response.
type responseColumns struct {
	raw      sql.NullString
	data     any
	flags    string
	metadata string
}

func encodeResponse(ir *models.InstitutionResponse) (responseColumns, error) {
	var cols responseColumns
	if len(ir.RawResponse) > 0 {
		cols.raw = sql.NullString{String: string(ir.RawResponse), Valid: true}
	}
	data, err := marshalNullable(ir.ResponseData)
	if err != nil {
		return cols, fmt.Errorf("marshal response data: %w", err)
	}
	cols.data = data
	flags := ir.Flags
	if flags == nil {
		flags = []models.Flag{}
	}
	flagsJSON, err := json.Marshal(flags)
	if err != nil {
		return cols, fmt.Errorf("marshal flags: %w", err)
	}
	metaJSON, err := json.Marshal(ir.Metadata)
	if err != nil {
		return cols, fmt.Errorf("marshal metadata: %w", err)
	}
	cols.flags = string(flagsJSON)
	cols.metadata = string(metaJSON)
	return cols, nil
}

func (s *PostgresResponses) Create(ctx context.Context, ir *models.InstitutionResponse) error {
	cols, err := encodeResponse(ir)
	if err != nil {
		return err
	}
	_, err = txcontext.Exec(ctx, s.db).ExecContext(ctx, `
		INSERT INTO institution_responses (
			id, verification_id, institution_id, response_type, status,
			raw_response, response_data,
			verification_score, confidence_score, data_quality_score,
			completeness_score, timeliness_score, match_percentage,
			flags, metadata, is_verified, attempts, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		uuid.UUID(ir.ID),
		uuid.UUID(ir.VerificationID),
		uuid.UUID(ir.InstitutionID),
		string(ir.Type),
		string(ir.Status),
		cols.raw,
		cols.data,
		ir.Scores.Verification,
		ir.Scores.Confidence,
		ir.Scores.DataQuality,
		ir.Scores.Completeness,
		ir.Scores.Timeliness,
		ir.Scores.MatchPercentage,
		cols.flags,
		cols.metadata,
		ir.IsVerified,
		ir.Attempts,
		ir.CreatedAt,
		ir.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return sentinel.ErrAlreadyUsed
	}
	if err != nil {
		return fmt.Errorf("insert institution response: %w", err)
	}
	return nil
}

func (s *PostgresResponses) FindByVerificationID(ctx context.Context, vid id.VerificationID) (*models.InstitutionResponse, error) {
	row := txcontext.Exec(ctx, s.db).QueryRowContext(ctx, selectResponse+" WHERE verification_id = $1", uuid.UUID(vid))
	ir, err := scanResponse(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find institution response: %w", err)
	}
	return ir, nil
}

func (s *PostgresResponses) Update(ctx context.Context, ir *models.InstitutionResponse) error {
	cols, err := encodeResponse(ir)
	if err != nil {
		return err
	}
	res, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, `
		UPDATE institution_responses
		SET status = $3, raw_response = $4, response_data = $5,
		    verification_score = $6, confidence_score = $7, data_quality_score = $8,
		    completeness_score = $9, timeliness_score = $10, match_percentage = $11,
		    flags = $12, metadata = $13, is_verified = $14, attempts = $15, updated_at = $16
		WHERE id = $1 AND verification_id = $2`,
		uuid.UUID(ir.ID),
		uuid.UUID(ir.VerificationID),
		string(ir.Status),
		cols.raw,
		cols.data,
		ir.Scores.Verification,
		ir.Scores.Confidence,
		ir.Scores.DataQuality,
		ir.Scores.Completeness,
		ir.Scores.Timeliness,
		ir.Scores.MatchPercentage,
		cols.flags,
		cols.metadata,
		ir.IsVerified,
		ir.Attempts,
		ir.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update institution response: %w", err)
	}
	return expectOneRow(res)
}

func scanResponse(row scanner) (*models.InstitutionResponse, error) {
	var (
		ir                    models.InstitutionResponse
		rid, vid, inst        uuid.UUID
		responseType, status  string
		raw                   sql.NullString
		data, flags, metadata []byte
	)
	if err := row.Scan(&rid, &vid, &inst, &responseType, &status,
		&raw, &data,
		&ir.Scores.Verification, &ir.Scores.Confidence, &ir.Scores.DataQuality,
		&ir.Scores.Completeness, &ir.Scores.Timeliness, &ir.Scores.MatchPercentage,
		&flags, &metadata, &ir.IsVerified, &ir.Attempts, &ir.CreatedAt, &ir.UpdatedAt); err != nil {
		return nil, err
	}
	ir.ID = id.ResponseID(rid)
	ir.VerificationID = id.VerificationID(vid)
	ir.InstitutionID = id.InstitutionID(inst)
	ir.Type = models.ResponseType(responseType)
	ir.Status = models.ResponseStatus(status)
	if raw.Valid {
		ir.RawResponse = json.RawMessage(raw.String)
	}
	if len(data) > 0 {
		ir.ResponseData = &models.ResponseData{}
		if err := json.Unmarshal(data, ir.ResponseData); err != nil {
			return nil, fmt.Errorf("decode response data: %w", err)
		}
	}
	if err := json.Unmarshal(flags, &ir.Flags); err != nil {
		return nil, fmt.Errorf("decode flags: %w", err)
	}
	if err := json.Unmarshal(metadata, &ir.Metadata); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	return &ir, nil
}

// marshalNullable encodes v for a JSONB column, or NULL when v is nil.
func marshalNullable[T any](v *T) (any, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
