package in

import (
	"context"
	"time"

	sessiondto "studyledger/internal/modules/session/dto"
	sessionin "studyledger/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) AddSubject(ctx context.Context, userID, name string) (sessiondto.SubjectOutput, error) {
	return h.usecase.AddSubject(ctx, userID, name)
}

func (h CLIHandler) ListSubjects(ctx context.Context, userID string) ([]sessiondto.SubjectOutput, error) {
	return h.usecase.ListSubjects(ctx, userID)
}

func (h CLIHandler) Log(ctx context.Context, input sessiondto.RecordInput) (sessiondto.RecordOutput, error) {
	return h.usecase.Record(ctx, input)
}

func (h CLIHandler) List(ctx context.Context, userID string, from, to time.Time, limit int) ([]sessiondto.SessionOutput, error) {
	return h.usecase.List(ctx, sessiondto.ListInput{UserID: userID, From: from, To: to, Limit: limit})
}

func (h CLIHandler) DailyTotals(ctx context.Context, userID string, from, to time.Time) ([]sessiondto.DayTotalOutput, error) {
	return h.usecase.DailyTotals(ctx, userID, from, to)
}

func (h CLIHandler) SubjectTotals(ctx context.Context, userID string, from, to time.Time) ([]sessiondto.SubjectTotalOutput, error) {
	return h.usecase.SubjectTotals(ctx, userID, from, to)
}

func (h CLIHandler) TimerStart(ctx context.Context, userID, subject string) (sessiondto.TimerOutput, error) {
	return h.usecase.TimerStart(ctx, userID, subject)
}

func (h CLIHandler) TimerPause(ctx context.Context) (sessiondto.TimerOutput, error) {
	return h.usecase.TimerPause(ctx)
}

func (h CLIHandler) TimerStop(ctx context.Context, input sessiondto.StopInput) (sessiondto.RecordOutput, error) {
	return h.usecase.TimerStop(ctx, input)
}

func (h CLIHandler) TimerStatus(ctx context.Context) (sessiondto.TimerOutput, error) {
	return h.usecase.TimerStatus(ctx)
}

func (h CLIHandler) PomodoroStart(ctx context.Context, userID, subject string) (sessiondto.TimerOutput, error) {
	return h.usecase.PomodoroStart(ctx, userID, subject)
}

func (h CLIHandler) PomodoroTick(ctx context.Context) (sessiondto.TickOutput, error) {
	return h.usecase.PomodoroTick(ctx)
}

func (h CLIHandler) PomodoroStop(ctx context.Context) (sessiondto.TimerOutput, error) {
	return h.usecase.PomodoroStop(ctx)
}
