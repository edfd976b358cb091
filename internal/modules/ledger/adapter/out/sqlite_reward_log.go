package out

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"studyledger/internal/modules/ledger/domain"
	ledgerout "studyledger/internal/modules/ledger/port/out"
	"studyledger/internal/platform/clock"
	apperrors "studyledger/internal/platform/errors"
	"studyledger/internal/platform/tx"
)

type SQLiteRewardLog struct {
	db *sql.DB
}

func NewSQLiteRewardLog(db *sql.DB) ledgerout.RewardLog {
	return &SQLiteRewardLog{db: db}
}

func (s *SQLiteRewardLog) Append(ctx context.Context, entry domain.RewardEntry) (domain.RewardEntry, error) {
	res, err := tx.From(ctx, s.db).ExecContext(ctx,
		`INSERT INTO reward_log (user_id, date, type, name, coins_change, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		entry.UserID, clock.Format(entry.Date), entry.Type, entry.Name, entry.CoinsChange, entry.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return domain.RewardEntry{}, apperrors.Storage("append reward", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		entry.ID = id
	}
	return entry, nil
}

func (s *SQLiteRewardLog) BalanceThrough(ctx context.Context, userID string, date time.Time) (int, error) {
	var total int
	err := tx.From(ctx, s.db).QueryRowContext(ctx,
		`SELECT COALESCE(SUM(coins_change), 0) FROM reward_log WHERE user_id = ? AND date <= ?`,
		userID, clock.Format(date)).Scan(&total)
	if err != nil {
		return 0, apperrors.Storage("sum rewards", err)
	}
	return total, nil
}

func (s *SQLiteRewardLog) Recent(ctx context.Context, userID string, limit int) ([]domain.RewardEntry, error) {
	rows, err := tx.From(ctx, s.db).QueryContext(ctx,
		`SELECT id, user_id, date, type, name, coins_change, created_at FROM reward_log
		 WHERE user_id = ? ORDER BY id DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, apperrors.Storage("list rewards", err)
	}
	defer rows.Close()
	out := []domain.RewardEntry{}
	for rows.Next() {
		var (
			entry     domain.RewardEntry
			date      string
			createdAt string
		)
		if err := rows.Scan(&entry.ID, &entry.UserID, &date, &entry.Type, &entry.Name, &entry.CoinsChange, &createdAt); err != nil {
			return nil, apperrors.Storage("scan reward", err)
		}
		if entry.Date, err = clock.ParseDate(date); err != nil {
			return nil, fmt.Errorf("parse reward date %q: %w", date, err)
		}
		entry.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("iterate rewards", err)
	}
	return out, nil
}
