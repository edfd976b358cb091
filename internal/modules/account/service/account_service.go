package service

import (
	"context"
	"errors"
	"fmt"

	"studyledger/internal/modules/account/domain"
	accountout "studyledger/internal/modules/account/port/out"
	"studyledger/internal/platform/clock"
	apperrors "studyledger/internal/platform/errors"
	"studyledger/internal/platform/id"
)

type AccountService struct {
	clock   clock.Clock
	idGen   id.Generator
	users   accountout.UserStore
	current accountout.CurrentUserStore
	hasher  accountout.PasswordHasher
}

func NewAccountService(clock clock.Clock, idGen id.Generator, users accountout.UserStore, current accountout.CurrentUserStore, hasher accountout.PasswordHasher) *AccountService {
	return &AccountService{clock: clock, idGen: idGen, users: users, current: current, hasher: hasher}
}

func (s *AccountService) Register(ctx context.Context, email, name, password, confirm string) (domain.User, error) {
	if err := domain.ValidateRegistration(email, password, confirm); err != nil {
		return domain.User{}, err
	}
	email = domain.NormalizeEmail(email)
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	user := domain.User{
		ID:           s.idGen.New(),
		Email:        email,
		Name:         domain.DisplayName(name, email),
		PasswordHash: hash,
		CreatedAt:    s.clock.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Authenticate reports ErrBadCredentials for an unknown email or a wrong
// password alike.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	user, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if errors.Is(err, apperrors.ErrNotFound) {
		return domain.User{}, apperrors.ErrBadCredentials
	}
	if err != nil {
		return domain.User{}, err
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return domain.User{}, apperrors.ErrBadCredentials
	}
	return user, nil
}

func (s *AccountService) SetCurrent(ctx context.Context, userID string) error {
	return s.current.Save(ctx, userID)
}

func (s *AccountService) ClearCurrent(ctx context.Context) error {
	return s.current.Clear(ctx)
}

func (s *AccountService) Current(ctx context.Context) (domain.User, error) {
	userID, err := s.current.Load(ctx)
	if err != nil {
		return domain.User{}, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return domain.User{}, apperrors.ErrNotLoggedIn
	}
	return user, err
}
