package usecase

import (
	"context"
	"errors"

	"studyledger/internal/modules/account/domain"
	"studyledger/internal/modules/account/dto"
	accountin "studyledger/internal/modules/account/port/in"
	"studyledger/internal/modules/account/service"
	sessionin "studyledger/internal/modules/session/port/in"
	apperrors "studyledger/internal/platform/errors"
	"studyledger/internal/platform/logger"
	"studyledger/internal/platform/tx"
)

type Interactor struct {
	svc             *service.AccountService
	subjects        sessionin.Usecase
	defaultSubjects []string
	tx              tx.Manager
	log             *logger.Logger
}

// NewInteractor seeds defaultSubjects for every new account through subjects.
func NewInteractor(svc *service.AccountService, subjects sessionin.Usecase, defaultSubjects []string, txm tx.Manager, log *logger.Logger) accountin.Usecase {
	if txm == nil {
		txm = tx.NoopManager{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Interactor{svc: svc, subjects: subjects, defaultSubjects: defaultSubjects, tx: txm, log: log.With("module", "account")}
}

func (i *Interactor) Register(ctx context.Context, input dto.RegisterInput) (dto.UserOutput, error) {
	var user domain.User
	err := i.tx.Within(ctx, func(ctx context.Context) error {
		var err error
		user, err = i.svc.Register(ctx, input.Email, input.Name, input.Password, input.Confirm)
		if err != nil {
			return err
		}
		if i.subjects == nil {
			return nil
		}
		for _, name := range i.defaultSubjects {
			if _, err := i.subjects.AddSubject(ctx, user.ID, name); err != nil && !errors.Is(err, apperrors.ErrDuplicateName) {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return dto.UserOutput{}, err
	}
	i.log.Info("account_registered", "user_id", user.ID, "subjects", len(i.defaultSubjects))
	return toUserOutput(user), nil
}

func (i *Interactor) Login(ctx context.Context, email, password string) (dto.UserOutput, error) {
	user, err := i.svc.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, apperrors.ErrBadCredentials) {
			i.log.Warn("login_rejected", "email", email)
		}
		return dto.UserOutput{}, err
	}
	if err := i.svc.SetCurrent(ctx, user.ID); err != nil {
		return dto.UserOutput{}, err
	}
	i.log.Info("login", "user_id", user.ID)
	return toUserOutput(user), nil
}

func (i *Interactor) Logout(ctx context.Context) error {
	return i.svc.ClearCurrent(ctx)
}

func (i *Interactor) Current(ctx context.Context) (dto.UserOutput, error) {
	user, err := i.svc.Current(ctx)
	if err != nil {
		return dto.UserOutput{}, err
	}
	return toUserOutput(user), nil
}

func toUserOutput(user domain.User) dto.UserOutput {
	return dto.UserOutput{ID: user.ID, Email: user.Email, Name: user.Name, CreatedAt: user.CreatedAt}
}
