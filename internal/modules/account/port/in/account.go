package in

import (
	"context"

	"studyledger/internal/modules/account/dto"
)

type Usecase interface {
	Register(ctx context.Context, input dto.RegisterInput) (dto.UserOutput, error)
	Login(ctx context.Context, email, password string) (dto.UserOutput, error)
	Logout(ctx context.Context) error
	// Current returns apperrors.ErrNotLoggedIn when nobody is signed in.
	Current(ctx context.Context) (dto.UserOutput, error)
}
