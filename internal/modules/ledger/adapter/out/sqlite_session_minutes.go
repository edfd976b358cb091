package out

import (
	"context"
	"database/sql"
	"time"

	ledgerout "studyledger/internal/modules/ledger/port/out"
	"studyledger/internal/platform/clock"
	apperrors "studyledger/internal/platform/errors"
	"studyledger/internal/platform/tx"
)

// SQLiteSessionMinutes reads study_sessions directly. Going through the session
// usecase would make the two modules depend on each other at construction.
type SQLiteSessionMinutes struct {
	db *sql.DB
}

func NewSQLiteSessionMinutes(db *sql.DB) ledgerout.MinutesReader {
	return &SQLiteSessionMinutes{db: db}
}

func (s *SQLiteSessionMinutes) MinutesByDay(ctx context.Context, userID string, from, to time.Time) (map[string]int, error) {
	rows, err := tx.From(ctx, s.db).QueryContext(ctx,
		`SELECT date, SUM(duration_min) FROM study_sessions
		 WHERE user_id = ? AND date BETWEEN ? AND ? GROUP BY date`,
		userID, clock.Format(from), clock.Format(to))
	if err != nil {
		return nil, apperrors.Storage("sum minutes", err)
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var (
			date    string
			minutes int
		)
		if err := rows.Scan(&date, &minutes); err != nil {
			return nil, apperrors.Storage("scan minutes", err)
		}
		out[date] = minutes
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("iterate minutes", err)
	}
	return out, nil
}
