package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"studyledger/internal/modules/diary/domain"
	diaryout "studyledger/internal/modules/diary/port/out"
	"studyledger/internal/platform/clock"
	apperrors "studyledger/internal/platform/errors"
	"studyledger/internal/platform/tx"
)

type SQLiteEntryStore struct {
	db *sql.DB
}

func NewSQLiteEntryStore(db *sql.DB) diaryout.EntryStore {
	return &SQLiteEntryStore{db: db}
}

const selectEntry = `
SELECT id, user_id, date, mood, mood_score, tags, content, created_at, updated_at
FROM diary_entries`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (domain.Entry, error) {
	var (
		e                domain.Entry
		date, mood, tags string
		created, updated string
	)
	if err := row.Scan(&e.ID, &e.UserID, &date, &mood, &e.MoodScore, &tags, &e.Content, &created, &updated); err != nil {
		return domain.Entry{}, err
	}
	day, err := clock.ParseDate(date)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("parse entry date %q: %w", date, err)
	}
	e.Date = day
	e.Mood = domain.Mood(mood)
	e.Tags = domain.ParseTags(tags)
	e.CreatedAt, _ = time.Parse(time.RFC3339, created)
	e.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return e, nil
}

func (s *SQLiteEntryStore) Insert(ctx context.Context, e domain.Entry) error {
	_, err := tx.From(ctx, s.db).ExecContext(ctx, `
INSERT INTO diary_entries (id, user_id, date, mood, mood_score, tags, content, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, clock.Format(e.Date), string(e.Mood), e.MoodScore, domain.JoinTags(e.Tags), e.Content,
		e.CreatedAt.Format(time.RFC3339), e.UpdatedAt.Format(time.RFC3339))
	return apperrors.Storage("insert diary entry", err)
}

func (s *SQLiteEntryStore) Update(ctx context.Context, e domain.Entry) error {
	res, err := tx.From(ctx, s.db).ExecContext(ctx, `
UPDATE diary_entries SET date = ?, mood = ?, mood_score = ?, tags = ?, content = ?, updated_at = ?
WHERE id = ? AND user_id = ?`,
		clock.Format(e.Date), string(e.Mood), e.MoodScore, domain.JoinTags(e.Tags), e.Content,
		e.UpdatedAt.Format(time.RFC3339), e.ID, e.UserID)
	if err != nil {
		return apperrors.Storage("update diary entry", err)
	}
	return affected(res, "update diary entry", e.ID)
}

func (s *SQLiteEntryStore) AddFiles(ctx context.Context, files []domain.Attachment) error {
	exec := tx.From(ctx, s.db)
	for _, f := range files {
		if _, err := exec.ExecContext(ctx,
			`INSERT INTO diary_files (id, entry_id, kind, path, original_name, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			f.ID, f.EntryID, string(f.Kind), f.Path, f.OriginalName, f.CreatedAt.Format(time.RFC3339)); err != nil {
			return apperrors.Storage("insert diary file", err)
		}
	}
	return nil
}

func (s *SQLiteEntryStore) Delete(ctx context.Context, userID, id string) error {
	res, err := tx.From(ctx, s.db).ExecContext(ctx, `DELETE FROM diary_entries WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return apperrors.Storage("delete diary entry", err)
	}
	return affected(res, "delete diary entry", id)
}

func (s *SQLiteEntryStore) Get(ctx context.Context, userID, id string) (domain.Entry, error) {
	row := tx.From(ctx, s.db).QueryRowContext(ctx, selectEntry+` WHERE id = ? AND user_id = ?`, id, userID)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Entry{}, fmt.Errorf("%w: diary entry %s", apperrors.ErrNotFound, id)
	}
	if err != nil {
		return domain.Entry{}, apperrors.Storage("get diary entry", err)
	}
	files, err := s.files(ctx, `WHERE entry_id = ?`, id)
	if err != nil {
		return domain.Entry{}, err
	}
	e.Files = files[id]
	return e, nil
}

func (s *SQLiteEntryStore) List(ctx context.Context, userID string, filter domain.Filter) ([]domain.Entry, error) {
	var (
		where = []string{"user_id = ?"}
		args  = []any{userID}
	)
	if filter.Query != "" {
		like := "%" + escapeLike(filter.Query) + "%"
		where = append(where, `(content LIKE ? ESCAPE '\' OR tags LIKE ? ESCAPE '\')`)
		args = append(args, like, like)
	}
	if filter.Mood != "" {
		where = append(where, "mood = ?")
		args = append(args, string(filter.Mood))
	}
	query := selectEntry + " WHERE " + strings.Join(where, " AND ") + " ORDER BY date DESC, created_at DESC, id DESC"
	rows, err := tx.From(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Storage("list diary entries", err)
	}
	defer rows.Close()
	out := []domain.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, apperrors.Storage("scan diary entry", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("iterate diary entries", err)
	}
	if err := rows.Close(); err != nil {
		return nil, apperrors.Storage("close diary entries", err)
	}
	files, err := s.files(ctx, `WHERE entry_id IN (SELECT id FROM diary_entries WHERE user_id = ?)`, userID)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Files = files[out[i].ID]
	}
	return out, nil
}

func (s *SQLiteEntryStore) files(ctx context.Context, where string, arg any) (map[string][]domain.Attachment, error) {
	rows, err := tx.From(ctx, s.db).QueryContext(ctx,
		`SELECT id, entry_id, kind, path, original_name, created_at FROM diary_files `+where+` ORDER BY created_at ASC, id ASC`, arg)
	if err != nil {
		return nil, apperrors.Storage("list diary files", err)
	}
	defer rows.Close()
	out := map[string][]domain.Attachment{}
	for rows.Next() {
		var (
			f             domain.Attachment
			kind, created string
		)
		if err := rows.Scan(&f.ID, &f.EntryID, &kind, &f.Path, &f.OriginalName, &created); err != nil {
			return nil, apperrors.Storage("scan diary file", err)
		}
		f.Kind = domain.FileKind(kind)
		f.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out[f.EntryID] = append(out[f.EntryID], f)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("iterate diary files", err)
	}
	return out, nil
}

func affected(res sql.Result, op, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.Storage(op, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: diary entry %s", apperrors.ErrNotFound, id)
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
