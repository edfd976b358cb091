package bootstrap_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"studyledger/internal/bootstrap"
	apperrors "studyledger/internal/platform/errors"
)

func TestNewWiresModulesEndToEnd(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()

	app, err := bootstrap.New(ctx, dir)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer app.Close()

	if _, err := app.UserID(ctx); !errors.Is(err, apperrors.ErrNotLoggedIn) {
		t.Fatalf("expected not logged in, got %v", err)
	}
	if _, err := app.AccountCLI.Register(ctx, "me@example.com", "Me", "pass1234", "pass1234"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := app.AccountCLI.Login(ctx, "me@example.com", "pass1234"); err != nil {
		t.Fatalf("login: %v", err)
	}
	userID, err := app.UserID(ctx)
	if err != nil || userID == "" {
		t.Fatalf("expected logged in user, got %q %v", userID, err)
	}

	subjects, err := app.SessionCLI.ListSubjects(ctx, userID)
	if err != nil || len(subjects) != 3 {
		t.Fatalf("expected seeded subjects, got %v %v", subjects, err)
	}
	items, err := app.ShopCLI.List(ctx, userID)
	if err != nil || len(items) != len(app.Config.Catalog) {
		t.Fatalf("expected catalog from config, got %d %v", len(items), err)
	}

	dest := filepath.Join(dir, "backup", "copy.db")
	if err := app.Backup(ctx, dest); err != nil {
		t.Fatalf("backup: %v", err)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Fatalf("expected backup file: %v", err)
	}
	if err := app.Backup(ctx, dest); err == nil {
		t.Fatalf("expected existing backup destination rejected")
	}
	if _, err := os.Stat(app.Config.LogPath); err != nil {
		t.Fatalf("expected log file at %s: %v", app.Config.LogPath, err)
	}
}
