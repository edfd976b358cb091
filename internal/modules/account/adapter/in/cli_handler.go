package in

import (
	"context"

	"studyledger/internal/modules/account/dto"
	accountin "studyledger/internal/modules/account/port/in"
)

type CLIHandler struct {
	usecase accountin.Usecase
}

func NewCLIHandler(usecase accountin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Register(ctx context.Context, email, name, password, confirm string) (dto.UserOutput, error) {
	return h.usecase.Register(ctx, dto.RegisterInput{Email: email, Name: name, Password: password, Confirm: confirm})
}

func (h CLIHandler) Login(ctx context.Context, email, password string) (dto.UserOutput, error) {
	return h.usecase.Login(ctx, email, password)
}

func (h CLIHandler) Logout(ctx context.Context) error {
	return h.usecase.Logout(ctx)
}

func (h CLIHandler) WhoAmI(ctx context.Context) (dto.UserOutput, error) {
	return h.usecase.Current(ctx)
}
