package tx_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"studyledger/internal/platform/tx"

	_ "modernc.org/sqlite"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "tx.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	if _, err := db.Exec(`CREATE TABLE items (name TEXT PRIMARY KEY)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}

func count(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM items`).Scan(&n); err != nil {
		t.Fatalf("count items: %v", err)
	}
	return n
}

func TestSQLManagerRollsBackOnError(t *testing.T) {
	t.Parallel()
	db := openDB(t)
	mgr := tx.NewSQLManager(db)
	boom := errors.New("boom")

	err := mgr.Within(context.Background(), func(ctx context.Context) error {
		if _, err := tx.From(ctx, db).ExecContext(ctx, `INSERT INTO items(name) VALUES ('a')`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if n := count(t, db); n != 0 {
		t.Fatalf("expected rollback, got %d rows", n)
	}
}

func TestSQLManagerNestedJoinsOuter(t *testing.T) {
	t.Parallel()
	db := openDB(t)
	mgr := tx.NewSQLManager(db)

	err := mgr.Within(context.Background(), func(ctx context.Context) error {
		if err := mgr.Within(ctx, func(inner context.Context) error {
			_, err := tx.From(inner, db).ExecContext(inner, `INSERT INTO items(name) VALUES ('a')`)
			return err
		}); err != nil {
			return err
		}
		_, err := tx.From(ctx, db).ExecContext(ctx, `INSERT INTO items(name) VALUES ('b')`)
		return err
	})
	if err != nil {
		t.Fatalf("within: %v", err)
	}
	if n := count(t, db); n != 2 {
		t.Fatalf("expected 2 rows, got %d", n)
	}
}
