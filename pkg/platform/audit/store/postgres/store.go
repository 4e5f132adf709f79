package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	id "credverify/pkg/domain"
	audit "credverify/pkg/platform/audit"
	txcontext "credverify/pkg/platform/tx"
)

// Store implements audit.Store over the audit_events table. Appends join the
// caller's transaction when one is present in the context.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	var owner *uuid.UUID
	if !event.OwnerID.IsNil() {
		u := uuid.UUID(event.OwnerID)
		owner = &u
	}
	category := event.Category
	if category == "" {
		category = audit.AuditEvent(event.Action).Category()
	}

	_, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, `
		INSERT INTO audit_events (
			id, category, action, owner_id, subject, reference, amount,
			decision, reason, request_id, actor_id, occurred_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		uuid.New(),
		string(category),
		event.Action,
		owner,
		event.Subject,
		nullable(event.Reference),
		event.Amount,
		nullable(event.Decision),
		nullable(event.Reason),
		nullable(event.RequestID),
		nullable(event.ActorID),
		event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func (s *Store) ListByOwner(ctx context.Context, ownerID id.OwnerID) ([]audit.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, action, owner_id, subject, reference, amount,
			   decision, reason, request_id, actor_id, occurred_at
		FROM audit_events
		WHERE owner_id = $1
		ORDER BY occurred_at, id`, uuid.UUID(ownerID))
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var (
			event                                         audit.Event
			category                                      string
			owner                                         uuid.NullUUID
			reference, decision, reason, requestID, actor sql.NullString
			amount                                        sql.NullInt64
		)
		if err := rows.Scan(&category, &event.Action, &owner, &event.Subject, &reference, &amount,
			&decision, &reason, &requestID, &actor, &event.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.Category = audit.EventCategory(category)
		if owner.Valid {
			event.OwnerID = id.OwnerID(owner.UUID)
		}
		event.Reference = reference.String
		event.Amount = amount.Int64
		event.Decision = decision.String
		event.Reason = reason.String
		event.RequestID = requestID.String
		event.ActorID = actor.String
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
