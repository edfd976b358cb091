package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"studyledger/internal/modules/account/domain"
	accountout "studyledger/internal/modules/account/port/out"
	apperrors "studyledger/internal/platform/errors"
	"studyledger/internal/platform/sqlite"
	"studyledger/internal/platform/tx"
)

type SQLiteUserStore struct {
	db *sql.DB
}

func NewSQLiteUserStore(db *sql.DB) accountout.UserStore {
	return &SQLiteUserStore{db: db}
}

func (s *SQLiteUserStore) Create(ctx context.Context, user domain.User) error {
	_, err := tx.From(ctx, s.db).ExecContext(ctx,
		`INSERT INTO users (id, email, name, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.Name, user.PasswordHash, user.CreatedAt.Format(time.RFC3339))
	if sqlite.IsUniqueViolation(err) {
		return fmt.Errorf("%w: email %s is already registered", apperrors.ErrDuplicateName, user.Email)
	}
	return apperrors.Storage("insert user", err)
}

func (s *SQLiteUserStore) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return s.get(ctx, `WHERE email = ?`, email)
}

func (s *SQLiteUserStore) GetByID(ctx context.Context, id string) (domain.User, error) {
	return s.get(ctx, `WHERE id = ?`, id)
}

func (s *SQLiteUserStore) get(ctx context.Context, where string, arg string) (domain.User, error) {
	var (
		user      domain.User
		createdAt string
	)
	err := tx.From(ctx, s.db).QueryRowContext(ctx,
		`SELECT id, email, name, password_hash, created_at FROM users `+where, arg).
		Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, apperrors.ErrNotFound
	}
	if err != nil {
		return domain.User{}, apperrors.Storage("get user", err)
	}
	user.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return user, nil
}
