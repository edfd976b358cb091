package out

import (
	"context"

	"studyledger/internal/modules/account/domain"
)

type UserStore interface {
	Create(ctx context.Context, user domain.User) error
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
}

type CurrentUserStore interface {
	Save(ctx context.Context, userID string) error
	Load(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}
