package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// Open creates the parent directory, opens the database with foreign keys on,
// and applies the schema. One connection keeps writes serialized.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS subjects (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	name TEXT NOT NULL,
	created_at TEXT NOT NULL,
	UNIQUE(user_id, name)
);
CREATE TABLE IF NOT EXISTS study_sessions (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	date TEXT NOT NULL,
	subject TEXT NOT NULL,
	duration_min INTEGER NOT NULL CHECK (duration_min >= 1),
	distractions INTEGER NOT NULL DEFAULT 0 CHECK (distractions >= 0),
	mood TEXT NOT NULL DEFAULT '',
	energy INTEGER NOT NULL CHECK (energy BETWEEN 1 AND 5),
	difficulty INTEGER NOT NULL CHECK (difficulty BETWEEN 1 AND 5),
	note TEXT NOT NULL DEFAULT '',
	source TEXT NOT NULL DEFAULT 'manual',
	started_at TEXT NOT NULL,
	ended_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_study_sessions_user_date ON study_sessions(user_id, date);
CREATE TABLE IF NOT EXISTS daily_states (
	user_id TEXT NOT NULL,
	date TEXT NOT NULL,
	goal_min INTEGER NOT NULL,
	coins INTEGER NOT NULL DEFAULT 0,
	streak INTEGER NOT NULL DEFAULT 0,
	equipped_theme TEXT NOT NULL DEFAULT 'default',
	equipped_sound TEXT NOT NULL DEFAULT 'default',
	equipped_mascot TEXT NOT NULL DEFAULT 'default',
	PRIMARY KEY (user_id, date)
);
CREATE TABLE IF NOT EXISTS reward_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id TEXT NOT NULL,
	date TEXT NOT NULL,
	type TEXT NOT NULL,
	name TEXT NOT NULL,
	coins_change INTEGER NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reward_log_user_date ON reward_log(user_id, date);
CREATE TABLE IF NOT EXISTS reward_claims (
	user_id TEXT NOT NULL,
	date TEXT NOT NULL,
	kind TEXT NOT NULL,
	claimed_at TEXT NOT NULL,
	UNIQUE(user_id, date, kind)
);
CREATE TABLE IF NOT EXISTS inventory (
	user_id TEXT NOT NULL,
	item_type TEXT NOT NULL,
	name TEXT NOT NULL,
	acquired_at TEXT NOT NULL,
	UNIQUE(user_id, item_type, name)
);
CREATE TABLE IF NOT EXISTS diary_entries (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	date TEXT NOT NULL,
	mood TEXT NOT NULL,
	mood_score INTEGER NOT NULL CHECK (mood_score BETWEEN 1 AND 5),
	tags TEXT NOT NULL DEFAULT '',
	content TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_diary_entries_user_date ON diary_entries(user_id, date);
CREATE TABLE IF NOT EXISTS diary_files (
	id TEXT PRIMARY KEY,
	entry_id TEXT NOT NULL REFERENCES diary_entries(id) ON DELETE CASCADE,
	kind TEXT NOT NULL CHECK (kind IN ('image', 'audio')),
	path TEXT NOT NULL,
	original_name TEXT NOT NULL,
	created_at TEXT NOT NULL
);
`

// Migrate applies the idempotent schema.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// IsUniqueViolation reports whether err came from a UNIQUE constraint.
func IsUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Backup writes a consistent copy of the database to dest.
func Backup(ctx context.Context, db *sql.DB, dest string) error {
	if dest == "" {
		return fmt.Errorf("backup destination is required")
	}
	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("backup destination %s already exists", dest)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}
	if _, err := db.ExecContext(ctx, `VACUUM INTO ?`, dest); err != nil {
		return fmt.Errorf("vacuum into %s: %w", dest, err)
	}
	return nil
}
