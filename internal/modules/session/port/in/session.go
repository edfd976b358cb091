package in

import (
	"context"
	"time"

	"studyledger/internal/modules/session/dto"
)

type Usecase interface {
	AddSubject(ctx context.Context, userID, name string) (dto.SubjectOutput, error)
	ListSubjects(ctx context.Context, userID string) ([]dto.SubjectOutput, error)
	Record(ctx context.Context, input dto.RecordInput) (dto.RecordOutput, error)
	List(ctx context.Context, input dto.ListInput) ([]dto.SessionOutput, error)
	DailyTotals(ctx context.Context, userID string, from, to time.Time) ([]dto.DayTotalOutput, error)
	SubjectTotals(ctx context.Context, userID string, from, to time.Time) ([]dto.SubjectTotalOutput, error)

	TimerStart(ctx context.Context, userID, subject string) (dto.TimerOutput, error)
	TimerPause(ctx context.Context) (dto.TimerOutput, error)
	TimerStop(ctx context.Context, input dto.StopInput) (dto.RecordOutput, error)
	TimerStatus(ctx context.Context) (dto.TimerOutput, error)

	PomodoroStart(ctx context.Context, userID, subject string) (dto.TimerOutput, error)
	PomodoroTick(ctx context.Context) (dto.TickOutput, error)
	PomodoroStop(ctx context.Context) (dto.TimerOutput, error)
}
