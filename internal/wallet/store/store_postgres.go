package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"credverify/internal/wallet/models"
	id "credverify/pkg/domain"
	"credverify/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

// Postgres persists the ledger with row-level locking on the account row.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) Balance(ctx context.Context, ownerID id.OwnerID) (int64, error) {
	var balance int64
	err := s.pool.QueryRow(ctx,
		"SELECT balance FROM wallet_accounts WHERE owner_id = $1",
		uuid.UUID(ownerID),
	).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("balance query failed: %w", err)
	}
	return balance, nil
}

// Apply locks the account row, checks the resulting balance, inserts the
// entry and updates the balance inside one transaction.
func (s *Postgres) Apply(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("tx begin failed: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	owner := uuid.UUID(entry.OwnerID)
	if _, err := tx.Exec(ctx,
		"INSERT INTO wallet_accounts (owner_id, balance, updated_at) VALUES ($1, 0, $2) ON CONFLICT (owner_id) DO NOTHING",
		owner, entry.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("account upsert failed: %w", err)
	}

	var balance int64
	if err := tx.QueryRow(ctx,
		"SELECT balance FROM wallet_accounts WHERE owner_id = $1 FOR UPDATE",
		owner,
	).Scan(&balance); err != nil {
		return nil, fmt.Errorf("lock acquisition failed: %w", err)
	}

	next := balance + entry.Delta
	if next < 0 {
		return nil, models.ErrInsufficientFunds
	}

	stored := *entry
	stored.BalanceAfter = next
	_, err = tx.Exec(ctx,
		`INSERT INTO wallet_entries (id, owner_id, kind, delta, balance_after, reference, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.UUID(stored.ID), owner, string(stored.Kind), stored.Delta, stored.BalanceAfter, stored.Reference, stored.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, sentinel.ErrAlreadyUsed
		}
		return nil, fmt.Errorf("ledger entry failed: %w", err)
	}

	if _, err := tx.Exec(ctx,
		"UPDATE wallet_accounts SET balance = $1, updated_at = $2 WHERE owner_id = $3",
		next, stored.CreatedAt, owner,
	); err != nil {
		return nil, fmt.Errorf("balance update failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("tx commit failed: %w", err)
	}
	return &stored, nil
}

func (s *Postgres) ListByOwner(ctx context.Context, ownerID id.OwnerID) ([]*models.Entry, error) {
	return s.list(ctx,
		`SELECT id, owner_id, kind, delta, balance_after, reference, created_at
		 FROM wallet_entries WHERE owner_id = $1 ORDER BY created_at, id`,
		uuid.UUID(ownerID),
	)
}

func (s *Postgres) ListByReference(ctx context.Context, reference string) ([]*models.Entry, error) {
	return s.list(ctx,
		`SELECT id, owner_id, kind, delta, balance_after, reference, created_at
		 FROM wallet_entries WHERE reference = $1 ORDER BY created_at, id`,
		reference,
	)
}

func (s *Postgres) list(ctx context.Context, query string, arg any) ([]*models.Entry, error) {
	rows, err := s.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("entries query failed: %w", err)
	}
	defer rows.Close()

	var out []*models.Entry
	for rows.Next() {
		var (
			e         models.Entry
			entryID   uuid.UUID
			ownerUUID uuid.UUID
			kind      string
		)
		if err := rows.Scan(&entryID, &ownerUUID, &kind, &e.Delta, &e.BalanceAfter, &e.Reference, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.ID = id.EntryID(entryID)
		e.OwnerID = id.OwnerID(ownerUUID)
		e.Kind = models.EntryKind(kind)
		out = append(out, &e)
	}
	return out, rows.Err()
}
