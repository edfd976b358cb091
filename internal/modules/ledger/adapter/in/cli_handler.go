package in

import (
	"context"
	"time"

	"studyledger/internal/modules/ledger/dto"
	ledgerin "studyledger/internal/modules/ledger/port/in"
)

type CLIHandler struct {
	usecase ledgerin.Usecase
}

func NewCLIHandler(usecase ledgerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Today(ctx context.Context, userID string) (dto.SnapshotOutput, error) {
	return h.usecase.Snapshot(ctx, userID, time.Time{})
}

func (h CLIHandler) Snapshot(ctx context.Context, userID string, date time.Time) (dto.SnapshotOutput, error) {
	return h.usecase.Snapshot(ctx, userID, date)
}

func (h CLIHandler) SetGoal(ctx context.Context, userID string, date time.Time, minutes int) (dto.DailyStateOutput, error) {
	return h.usecase.SetGoal(ctx, dto.SetGoalInput{UserID: userID, Date: date, GoalMin: minutes})
}

func (h CLIHandler) Streak(ctx context.Context, userID string, asOf time.Time) (int, error) {
	return h.usecase.ComputeStreak(ctx, userID, asOf)
}

func (h CLIHandler) ClaimBonus(ctx context.Context, userID string, date time.Time) (dto.BonusOutput, error) {
	return h.usecase.ClaimGoalBonus(ctx, userID, date)
}

func (h CLIHandler) History(ctx context.Context, userID string, limit int) ([]dto.RewardOutput, error) {
	return h.usecase.History(ctx, userID, limit)
}

func (h CLIHandler) Week(ctx context.Context, userID string, end time.Time, days int) ([]dto.DayMinutesOutput, error) {
	return h.usecase.WeeklyMinutes(ctx, userID, end, days)
}
