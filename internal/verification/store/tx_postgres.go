package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	id "credverify/pkg/domain"
	dErrors "credverify/pkg/domain-errors"
	txcontext "credverify/pkg/platform/tx"
)

// PostgresTx runs a unit of work in one database transaction holding the
// verification row lock. Stores built on the same *sql.DB pick the
// transaction up from the context.
type PostgresTx struct {
	db      *sql.DB
	timeout time.Duration
}

func NewPostgresTx(db *sql.DB) *PostgresTx {
	return &PostgresTx{db: db, timeout: defaultTxTimeout}
}

func (t *PostgresTx) RunInTx(ctx context.Context, vid id.VerificationID, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	ctx, cancel := withTxTimeout(ctx, t.timeout)
	defer cancel()

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("tx begin failed: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// The row is absent while the request itself is being inserted.
	var locked uuid.UUID
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM verification_requests WHERE id = $1 FOR UPDATE",
		uuid.UUID(vid),
	).Scan(&locked)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("lock acquisition failed: %w", err)
	}

	if err := fn(txcontext.WithTx(ctx, tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("tx commit failed: %w", err)
	}
	return nil
}
