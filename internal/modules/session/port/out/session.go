package out

import (
	"context"
	"time"

	"studyledger/internal/modules/session/domain"
)

type SubjectStore interface {
	Add(ctx context.Context, subject domain.Subject) error
	List(ctx context.Context, userID string) ([]domain.Subject, error)
}

type SessionStore interface {
	Append(ctx context.Context, session domain.Session) error
	List(ctx context.Context, userID string, from, to time.Time, limit int) ([]domain.Session, error)
	DailyTotals(ctx context.Context, userID string, from, to time.Time) ([]domain.DayTotal, error)
	SubjectTotals(ctx context.Context, userID string, from, to time.Time) ([]domain.SubjectTotal, error)
}

type TimerStore interface {
	Save(ctx context.Context, state domain.TimerState) error
	Load(ctx context.Context) (domain.TimerState, error)
	Clear(ctx context.Context) error
}
