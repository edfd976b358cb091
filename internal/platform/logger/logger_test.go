package logger_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"studyledger/internal/platform/logger"
)

func TestNewWritesRedactedJSONLines(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	log, err := logger.New(path, "debug")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	log.With("user_id", "u1").Info("account_registered", "email", "a@b.c", "password", "hunter2")
	log.Sync()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := string(raw)
	if !strings.Contains(line, `"msg":"account_registered"`) || !strings.Contains(line, `"ts":`) {
		t.Fatalf("unexpected log line %s", line)
	}
	if strings.Contains(line, "hunter2") {
		t.Fatalf("password leaked into log: %s", line)
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	t.Parallel()
	if _, err := logger.New(filepath.Join(t.TempDir(), "app.log"), "chatty"); err == nil {
		t.Fatalf("expected unknown level to fail")
	}
	logger.Nop().Info("ignored", "k", "v")
}
