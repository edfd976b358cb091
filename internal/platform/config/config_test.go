package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"studyledger/internal/platform/config"
)

func TestNewUsesDefaultsWithoutFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.Ledger.DefaultGoalMin != 120 || cfg.Ledger.GoalBonus != 50 {
		t.Fatalf("unexpected ledger defaults: %+v", cfg.Ledger)
	}
	if cfg.DBPath != filepath.Join(dir, ".studyledger", "studyledger.db") {
		t.Fatalf("unexpected db path %s", cfg.DBPath)
	}
	if len(cfg.Catalog) == 0 {
		t.Fatalf("expected default catalog")
	}
}

func TestNewOverlaysYAML(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	payload := []byte("ledger:\n  default_goal_min: 90\n  min_goal_min: 30\n  max_goal_min: 600\n  coins_per_minute: 2\n  goal_bonus: 10\npomodoro:\n  focus_min: 50\n  break_min: 10\n")
	if err := os.WriteFile(filepath.Join(dir, config.FileName), payload, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.Ledger.DefaultGoalMin != 90 || cfg.Ledger.CoinsPerMinute != 2 || cfg.Pomodoro.FocusMin != 50 {
		t.Fatalf("yaml overlay not applied: %+v %+v", cfg.Ledger, cfg.Pomodoro)
	}
}

func TestNewRejectsInvalidRules(t *testing.T) {
	t.Parallel()
	if _, err := config.New(""); err == nil {
		t.Fatalf("expected empty data dir to fail")
	}
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.FileName), []byte("ledger:\n  default_goal_min: 5\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := config.New(dir); err == nil {
		t.Fatalf("expected out-of-bounds default goal to fail")
	}
}
