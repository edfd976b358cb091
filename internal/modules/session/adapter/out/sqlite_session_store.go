package out

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"studyledger/internal/modules/session/domain"
	sessionout "studyledger/internal/modules/session/port/out"
	"studyledger/internal/platform/clock"
	apperrors "studyledger/internal/platform/errors"
	"studyledger/internal/platform/sqlite"
	"studyledger/internal/platform/tx"
)

type SQLiteSubjectStore struct {
	db *sql.DB
}

func NewSQLiteSubjectStore(db *sql.DB) sessionout.SubjectStore {
	return &SQLiteSubjectStore{db: db}
}

func (s *SQLiteSubjectStore) Add(ctx context.Context, subject domain.Subject) error {
	_, err := tx.From(ctx, s.db).ExecContext(ctx,
		`INSERT INTO subjects (id, user_id, name, created_at) VALUES (?, ?, ?, ?)`,
		subject.ID, subject.UserID, subject.Name, subject.CreatedAt.Format(time.RFC3339))
	if sqlite.IsUniqueViolation(err) {
		return fmt.Errorf("%w: subject %q already exists", apperrors.ErrDuplicateName, subject.Name)
	}
	return apperrors.Storage("insert subject", err)
}

func (s *SQLiteSubjectStore) List(ctx context.Context, userID string) ([]domain.Subject, error) {
	rows, err := tx.From(ctx, s.db).QueryContext(ctx,
		`SELECT id, user_id, name, created_at FROM subjects WHERE user_id = ? ORDER BY created_at ASC, name ASC`, userID)
	if err != nil {
		return nil, apperrors.Storage("list subjects", err)
	}
	defer rows.Close()
	out := []domain.Subject{}
	for rows.Next() {
		var (
			subject   domain.Subject
			createdAt string
		)
		if err := rows.Scan(&subject.ID, &subject.UserID, &subject.Name, &createdAt); err != nil {
			return nil, apperrors.Storage("scan subject", err)
		}
		subject.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, subject)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("iterate subjects", err)
	}
	return out, nil
}

type SQLiteSessionStore struct {
	db *sql.DB
}

func NewSQLiteSessionStore(db *sql.DB) sessionout.SessionStore {
	return &SQLiteSessionStore{db: db}
}

func (s *SQLiteSessionStore) Append(ctx context.Context, session domain.Session) error {
	const stmt = `
INSERT INTO study_sessions (id, user_id, date, subject, duration_min, distractions, mood, energy, difficulty, note, source, started_at, ended_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`
	_, err := tx.From(ctx, s.db).ExecContext(ctx, stmt,
		session.ID,
		session.UserID,
		clock.Format(session.Date),
		session.Subject,
		session.DurationMin,
		session.Distractions,
		session.Mood,
		session.Energy,
		session.Difficulty,
		session.Note,
		session.Source,
		session.StartedAt.Format(time.RFC3339),
		session.EndedAt.Format(time.RFC3339),
	)
	return apperrors.Storage("append session", err)
}

func (s *SQLiteSessionStore) List(ctx context.Context, userID string, from, to time.Time, limit int) ([]domain.Session, error) {
	rows, err := tx.From(ctx, s.db).QueryContext(ctx, `
SELECT id, user_id, date, subject, duration_min, distractions, mood, energy, difficulty, note, source, started_at, ended_at
FROM study_sessions
WHERE user_id = ? AND date BETWEEN ? AND ?
ORDER BY date DESC, ended_at DESC
LIMIT ?`, userID, clock.Format(from), clock.Format(to), limit)
	if err != nil {
		return nil, apperrors.Storage("list sessions", err)
	}
	defer rows.Close()
	out := []domain.Session{}
	for rows.Next() {
		var (
			session            domain.Session
			date, start, ended string
		)
		if err := rows.Scan(&session.ID, &session.UserID, &date, &session.Subject, &session.DurationMin,
			&session.Distractions, &session.Mood, &session.Energy, &session.Difficulty, &session.Note,
			&session.Source, &start, &ended); err != nil {
			return nil, apperrors.Storage("scan session", err)
		}
		if session.Date, err = clock.ParseDate(date); err != nil {
			return nil, fmt.Errorf("parse session date %q: %w", date, err)
		}
		session.StartedAt, _ = time.Parse(time.RFC3339, start)
		session.EndedAt, _ = time.Parse(time.RFC3339, ended)
		out = append(out, session)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("iterate sessions", err)
	}
	return out, nil
}

func (s *SQLiteSessionStore) DailyTotals(ctx context.Context, userID string, from, to time.Time) ([]domain.DayTotal, error) {
	rows, err := tx.From(ctx, s.db).QueryContext(ctx, `
SELECT date, SUM(duration_min), COUNT(*)
FROM study_sessions
WHERE user_id = ? AND date BETWEEN ? AND ?
GROUP BY date
ORDER BY date ASC`, userID, clock.Format(from), clock.Format(to))
	if err != nil {
		return nil, apperrors.Storage("daily totals", err)
	}
	defer rows.Close()
	out := []domain.DayTotal{}
	for rows.Next() {
		var (
			total domain.DayTotal
			date  string
		)
		if err := rows.Scan(&date, &total.Minutes, &total.Sessions); err != nil {
			return nil, apperrors.Storage("scan daily total", err)
		}
		if total.Date, err = clock.ParseDate(date); err != nil {
			return nil, fmt.Errorf("parse total date %q: %w", date, err)
		}
		out = append(out, total)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("iterate daily totals", err)
	}
	return out, nil
}

func (s *SQLiteSessionStore) SubjectTotals(ctx context.Context, userID string, from, to time.Time) ([]domain.SubjectTotal, error) {
	rows, err := tx.From(ctx, s.db).QueryContext(ctx, `
SELECT subject, SUM(duration_min), COUNT(*), SUM(distractions), AVG(energy), AVG(difficulty)
FROM study_sessions
WHERE user_id = ? AND date BETWEEN ? AND ?
GROUP BY subject
ORDER BY SUM(duration_min) DESC, subject ASC`, userID, clock.Format(from), clock.Format(to))
	if err != nil {
		return nil, apperrors.Storage("subject totals", err)
	}
	defer rows.Close()
	out := []domain.SubjectTotal{}
	for rows.Next() {
		var total domain.SubjectTotal
		if err := rows.Scan(&total.Subject, &total.Minutes, &total.Sessions, &total.Distractions, &total.AvgEnergy, &total.AvgDifficulty); err != nil {
			return nil, apperrors.Storage("scan subject total", err)
		}
		out = append(out, total)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("iterate subject totals", err)
	}
	return out, nil
}
