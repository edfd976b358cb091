package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"studyledger/internal/modules/ledger/domain"
	ledgerout "studyledger/internal/modules/ledger/port/out"
	"studyledger/internal/platform/clock"
	apperrors "studyledger/internal/platform/errors"
	"studyledger/internal/platform/tx"
)

type SQLiteDailyStore struct {
	db *sql.DB
}

func NewSQLiteDailyStore(db *sql.DB) ledgerout.DailyStore {
	return &SQLiteDailyStore{db: db}
}

const selectDaily = `
SELECT user_id, date, goal_min, coins, streak, equipped_theme, equipped_sound, equipped_mascot
FROM daily_states`

func scanDaily(row *sql.Row) (domain.DailyState, error) {
	var (
		state domain.DailyState
		date  string
	)
	if err := row.Scan(&state.UserID, &date, &state.GoalMin, &state.Coins, &state.Streak,
		&state.Equipped.Theme, &state.Equipped.Sound, &state.Equipped.Mascot); err != nil {
		return domain.DailyState{}, err
	}
	day, err := clock.ParseDate(date)
	if err != nil {
		return domain.DailyState{}, fmt.Errorf("parse daily date %q: %w", date, err)
	}
	state.Date = day
	return state, nil
}

func (s *SQLiteDailyStore) Get(ctx context.Context, userID string, date time.Time) (domain.DailyState, error) {
	row := tx.From(ctx, s.db).QueryRowContext(ctx, selectDaily+` WHERE user_id = ? AND date = ?`, userID, clock.Format(date))
	state, err := scanDaily(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DailyState{}, apperrors.ErrNotFound
	}
	if err != nil {
		return domain.DailyState{}, apperrors.Storage("get daily state", err)
	}
	return state, nil
}

func (s *SQLiteDailyStore) LatestBefore(ctx context.Context, userID string, date time.Time) (domain.DailyState, error) {
	row := tx.From(ctx, s.db).QueryRowContext(ctx, selectDaily+` WHERE user_id = ? AND date < ? ORDER BY date DESC LIMIT 1`, userID, clock.Format(date))
	state, err := scanDaily(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DailyState{}, apperrors.ErrNotFound
	}
	if err != nil {
		return domain.DailyState{}, apperrors.Storage("latest daily state", err)
	}
	return state, nil
}

func (s *SQLiteDailyStore) Insert(ctx context.Context, state domain.DailyState) error {
	const stmt = `
INSERT INTO daily_states (user_id, date, goal_min, coins, streak, equipped_theme, equipped_sound, equipped_mascot)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id, date) DO NOTHING;
`
	_, err := tx.From(ctx, s.db).ExecContext(ctx, stmt,
		state.UserID,
		clock.Format(state.Date),
		state.GoalMin,
		state.Coins,
		state.Streak,
		state.Equipped.Theme,
		state.Equipped.Sound,
		state.Equipped.Mascot,
	)
	return apperrors.Storage("insert daily state", err)
}

func (s *SQLiteDailyStore) update(ctx context.Context, op, stmt string, args ...any) error {
	res, err := tx.From(ctx, s.db).ExecContext(ctx, stmt, args...)
	if err != nil {
		return apperrors.Storage(op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", op, apperrors.ErrNotFound)
	}
	return nil
}

func (s *SQLiteDailyStore) SetGoal(ctx context.Context, userID string, date time.Time, goalMin int) error {
	return s.update(ctx, "set goal", `UPDATE daily_states SET goal_min = ? WHERE user_id = ? AND date = ?`, goalMin, userID, clock.Format(date))
}

func (s *SQLiteDailyStore) SetStreak(ctx context.Context, userID string, date time.Time, streak int) error {
	return s.update(ctx, "set streak", `UPDATE daily_states SET streak = ? WHERE user_id = ? AND date = ?`, streak, userID, clock.Format(date))
}

func (s *SQLiteDailyStore) SetEquipped(ctx context.Context, userID string, date time.Time, equipped domain.Equipment) error {
	return s.update(ctx, "set equipped",
		`UPDATE daily_states SET equipped_theme = ?, equipped_sound = ?, equipped_mascot = ? WHERE user_id = ? AND date = ?`,
		equipped.Theme, equipped.Sound, equipped.Mascot, userID, clock.Format(date))
}

var equipColumns = map[domain.ItemType]string{
	domain.ItemTheme:  "equipped_theme",
	domain.ItemSound:  "equipped_sound",
	domain.ItemMascot: "equipped_mascot",
}

func (s *SQLiteDailyStore) CarryEquipped(ctx context.Context, userID string, from time.Time, itemType domain.ItemType, old, name string) error {
	col, ok := equipColumns[itemType]
	if !ok {
		return fmt.Errorf("%w: unknown item type %q", apperrors.ErrInvalidInput, itemType)
	}
	day := clock.Format(from)
	stmt := `
UPDATE daily_states SET ` + col + ` = ?
WHERE user_id = ? AND date > ? AND ` + col + ` = ?
  AND date < COALESCE(
    (SELECT MIN(date) FROM daily_states WHERE user_id = ? AND date > ? AND ` + col + ` <> ?),
    '9999-12-31')`
	_, err := tx.From(ctx, s.db).ExecContext(ctx, stmt, name, userID, day, old, userID, day, old)
	return apperrors.Storage("carry equipped", err)
}

func (s *SQLiteDailyStore) AdjustCoinsFrom(ctx context.Context, userID string, date time.Time, delta int) error {
	_, err := tx.From(ctx, s.db).ExecContext(ctx,
		`UPDATE daily_states SET coins = coins + ? WHERE user_id = ? AND date >= ?`,
		delta, userID, clock.Format(date))
	return apperrors.Storage("adjust coins", err)
}

func (s *SQLiteDailyStore) MinCoinsFrom(ctx context.Context, userID string, date time.Time) (int, error) {
	var min sql.NullInt64
	err := tx.From(ctx, s.db).QueryRowContext(ctx,
		`SELECT MIN(coins) FROM daily_states WHERE user_id = ? AND date >= ?`,
		userID, clock.Format(date)).Scan(&min)
	if err != nil {
		return 0, apperrors.Storage("min coins", err)
	}
	if !min.Valid {
		return 0, nil
	}
	return int(min.Int64), nil
}

func (s *SQLiteDailyStore) Goals(ctx context.Context, userID string, through time.Time) ([]domain.DayGoal, error) {
	query := `SELECT date, goal_min, streak FROM daily_states WHERE user_id = ?`
	args := []any{userID}
	if !through.IsZero() {
		query += ` AND date <= ?`
		args = append(args, clock.Format(through))
	}
	rows, err := tx.From(ctx, s.db).QueryContext(ctx, query+` ORDER BY date ASC`, args...)
	if err != nil {
		return nil, apperrors.Storage("list goals", err)
	}
	defer rows.Close()
	out := []domain.DayGoal{}
	for rows.Next() {
		var (
			date string
			goal domain.DayGoal
		)
		if err := rows.Scan(&date, &goal.GoalMin, &goal.Streak); err != nil {
			return nil, apperrors.Storage("scan goal", err)
		}
		day, err := clock.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("parse goal date %q: %w", date, err)
		}
		goal.Date = day
		out = append(out, goal)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("iterate goals", err)
	}
	return out, nil
}
