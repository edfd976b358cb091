package usecase_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	accountout "studyledger/internal/modules/account/adapter/out"
	"studyledger/internal/modules/account/dto"
	accountin "studyledger/internal/modules/account/port/in"
	"studyledger/internal/modules/account/service"
	"studyledger/internal/modules/account/usecase"
	sessionout "studyledger/internal/modules/session/adapter/out"
	sessionin "studyledger/internal/modules/session/port/in"
	sessionservice "studyledger/internal/modules/session/service"
	sessionusecase "studyledger/internal/modules/session/usecase"
	apperrors "studyledger/internal/platform/errors"
	"studyledger/internal/platform/id"
	"studyledger/internal/platform/logger"
	"studyledger/internal/platform/sqlite"
	"studyledger/internal/platform/tx"
)

type fixedClock struct{ now time.Time }

func (f fixedClock) Now() time.Time { return f.now }

func newAccounts(t *testing.T) (accountin.Usecase, sessionin.Usecase) {
	t.Helper()
	dir := t.TempDir()
	db, err := sqlite.Open(context.Background(), filepath.Join(dir, "app.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	clk := fixedClock{now: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}
	txm := tx.NewSQLManager(db)
	stateDir := filepath.Join(dir, ".studyledger")
	sessions := sessionusecase.NewInteractor(sessionservice.NewSessionService(clk, id.UUID{}, sessionservice.Settings{CoinsPerMinute: 1, FocusMin: 25, BreakMin: 5},
		sessionout.NewSQLiteSubjectStore(db),
		sessionout.NewSQLiteSessionStore(db),
		sessionout.NewFileTimerStore(stateDir),
	), nil, txm, logger.Nop())
	svc := service.NewAccountService(clk, id.UUID{},
		accountout.NewSQLiteUserStore(db),
		accountout.NewFileCurrentUserStore(stateDir),
		accountout.NewBcryptHasher(bcrypt.MinCost),
	)
	return usecase.NewInteractor(svc, sessions, []string{"Korean", "Math", "English"}, txm, logger.Nop()), sessions
}

func TestRegisterSeedsSubjectsAndRejectsDuplicateEmail(t *testing.T) {
	t.Parallel()
	accounts, sessions := newAccounts(t)
	ctx := context.Background()
	user, err := accounts.Register(ctx, dto.RegisterInput{Email: "Jiwoo@Example.com", Password: "pass1234", Confirm: "pass1234"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "jiwoo@example.com" || user.Name != "jiwoo" || user.ID == "" {
		t.Fatalf("unexpected user %+v", user)
	}
	subjects, err := sessions.ListSubjects(ctx, user.ID)
	if err != nil {
		t.Fatalf("list subjects: %v", err)
	}
	if len(subjects) != 3 {
		t.Fatalf("expected 3 seeded subjects, got %+v", subjects)
	}

	_, err = accounts.Register(ctx, dto.RegisterInput{Email: "jiwoo@example.com ", Password: "other123", Confirm: "other123"})
	if !errors.Is(err, apperrors.ErrDuplicateName) {
		t.Fatalf("expected duplicate email, got %v", err)
	}
	if _, err := accounts.Register(ctx, dto.RegisterInput{Email: "x@example.com", Password: "pass1234", Confirm: "nope1234"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected mismatched confirm to fail, got %v", err)
	}
}

func TestLoginLogoutCurrent(t *testing.T) {
	t.Parallel()
	accounts, _ := newAccounts(t)
	ctx := context.Background()
	if _, err := accounts.Current(ctx); !errors.Is(err, apperrors.ErrNotLoggedIn) {
		t.Fatalf("expected not logged in, got %v", err)
	}
	registered, err := accounts.Register(ctx, dto.RegisterInput{Email: "a@b.co", Name: "Ari", Password: "pass1234", Confirm: "pass1234"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := accounts.Login(ctx, "a@b.co", "wrong"); !errors.Is(err, apperrors.ErrBadCredentials) {
		t.Fatalf("expected bad credentials, got %v", err)
	}
	if _, err := accounts.Login(ctx, "nobody@b.co", "pass1234"); !errors.Is(err, apperrors.ErrBadCredentials) {
		t.Fatalf("expected bad credentials for unknown email, got %v", err)
	}
	if _, err := accounts.Login(ctx, " A@B.CO ", "pass1234"); err != nil {
		t.Fatalf("login: %v", err)
	}
	current, err := accounts.Current(ctx)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if current.ID != registered.ID || current.Name != "Ari" {
		t.Fatalf("unexpected current user %+v", current)
	}
	if err := accounts.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if err := accounts.Logout(ctx); err != nil {
		t.Fatalf("second logout should be a no-op: %v", err)
	}
	if _, err := accounts.Current(ctx); !errors.Is(err, apperrors.ErrNotLoggedIn) {
		t.Fatalf("expected not logged in after logout, got %v", err)
	}
}
