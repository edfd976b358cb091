package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "studyledger/internal/platform/errors"
)

const MinPasswordLen = 4

type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateRegistration checks the sign-up form before hashing.
func ValidateRegistration(email, password, confirm string) error {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return fmt.Errorf("%w: email and password are required", apperrors.ErrInvalidInput)
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 || strings.ContainsAny(email, " \t") {
		return fmt.Errorf("%w: %q is not an email address", apperrors.ErrInvalidInput, email)
	}
	if len(password) < MinPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", apperrors.ErrInvalidInput, MinPasswordLen)
	}
	if password != confirm {
		return fmt.Errorf("%w: passwords do not match", apperrors.ErrInvalidInput)
	}
	return nil
}

// DisplayName falls back to the mailbox part of the email.
func DisplayName(name, email string) string {
	name = strings.TrimSpace(name)
	if name != "" {
		return name
	}
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
