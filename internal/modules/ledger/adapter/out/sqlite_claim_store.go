package out

import (
	"context"
	"database/sql"
	"time"

	ledgerout "studyledger/internal/modules/ledger/port/out"
	"studyledger/internal/platform/clock"
	apperrors "studyledger/internal/platform/errors"
	"studyledger/internal/platform/sqlite"
	"studyledger/internal/platform/tx"
)

type SQLiteClaimStore struct {
	db *sql.DB
}

func NewSQLiteClaimStore(db *sql.DB) ledgerout.ClaimStore {
	return &SQLiteClaimStore{db: db}
}

func (s *SQLiteClaimStore) Claim(ctx context.Context, userID string, date time.Time, kind string, at time.Time) (bool, error) {
	_, err := tx.From(ctx, s.db).ExecContext(ctx,
		`INSERT INTO reward_claims (user_id, date, kind, claimed_at) VALUES (?, ?, ?, ?)`,
		userID, clock.Format(date), kind, at.Format(time.RFC3339Nano))
	if sqlite.IsUniqueViolation(err) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.Storage("claim reward", err)
	}
	return true, nil
}

func (s *SQLiteClaimStore) Claimed(ctx context.Context, userID string, date time.Time, kind string) (bool, error) {
	var n int
	err := tx.From(ctx, s.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reward_claims WHERE user_id = ? AND date = ? AND kind = ?`,
		userID, clock.Format(date), kind).Scan(&n)
	if err != nil {
		return false, apperrors.Storage("check claim", err)
	}
	return n > 0, nil
}
