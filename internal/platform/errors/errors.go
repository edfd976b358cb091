package apperrors

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrDuplicateName     = errors.New("duplicate name")
	ErrStorage           = errors.New("storage failure")
	ErrNoActiveTimer     = errors.New("no active timer")
	ErrTimerActive       = errors.New("timer already active")
	ErrNotLoggedIn       = errors.New("not logged in")
	ErrBadCredentials    = errors.New("invalid email or password")
)

// StorageError wraps a persistence failure. It matches ErrStorage with
// errors.Is and unwraps to the driver error.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// Storage returns nil for a nil err so call sites can wrap unconditionally.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
