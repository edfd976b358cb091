package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "studyledger/internal/platform/errors"
)

const (
	SourceManual    = "manual"
	SourceStopwatch = "stopwatch"
	SourcePomodoro  = "pomodoro"
)

type Subject struct {
	ID        string
	UserID    string
	Name      string
	CreatedAt time.Time
}

// Session is one append-only study log row.
type Session struct {
	ID           string
	UserID       string
	Date         time.Time
	Subject      string
	DurationMin  int
	Distractions int
	Mood         string
	Energy       int
	Difficulty   int
	Note         string
	Source       string
	StartedAt    time.Time
	EndedAt      time.Time
}

// DurationMinutes floors elapsed to whole minutes but never below one.
func DurationMinutes(elapsed time.Duration) int {
	minutes := int(elapsed / time.Minute)
	if minutes < 1 {
		return 1
	}
	return minutes
}

func ValidateSubjectName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: subject name is required", apperrors.ErrInvalidInput)
	}
	return name, nil
}

func (s Session) Validate() error {
	if strings.TrimSpace(s.UserID) == "" {
		return fmt.Errorf("%w: user id is required", apperrors.ErrInvalidInput)
	}
	if strings.TrimSpace(s.Subject) == "" {
		return fmt.Errorf("%w: subject is required", apperrors.ErrInvalidInput)
	}
	if s.DurationMin < 1 {
		return fmt.Errorf("%w: duration must be at least one minute", apperrors.ErrInvalidInput)
	}
	if s.Distractions < 0 {
		return fmt.Errorf("%w: distractions must be non-negative", apperrors.ErrInvalidInput)
	}
	if s.Energy < 1 || s.Energy > 5 {
		return fmt.Errorf("%w: energy must be between 1 and 5", apperrors.ErrInvalidInput)
	}
	if s.Difficulty < 1 || s.Difficulty > 5 {
		return fmt.Errorf("%w: difficulty must be between 1 and 5", apperrors.ErrInvalidInput)
	}
	switch s.Source {
	case SourceManual, SourceStopwatch, SourcePomodoro:
	default:
		return fmt.Errorf("%w: unknown session source %q", apperrors.ErrInvalidInput, s.Source)
	}
	return nil
}

type DayTotal struct {
	Date     time.Time
	Minutes  int
	Sessions int
}

type SubjectTotal struct {
	Subject       string
	Minutes       int
	Sessions      int
	Distractions  int
	AvgEnergy     float64
	AvgDifficulty float64
}
