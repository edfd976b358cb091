package in

import (
	"context"
	"time"

	"studyledger/internal/modules/ledger/dto"
)

// Usecase is the Daily Progress Ledger. A zero date means today.
type Usecase interface {
	GetOrInitDaily(ctx context.Context, userID string, date time.Time) (dto.DailyStateOutput, error)
	SetGoal(ctx context.Context, input dto.SetGoalInput) (dto.DailyStateOutput, error)
	GrantCoins(ctx context.Context, input dto.CoinsInput) (dto.BalanceOutput, error)
	SpendCoins(ctx context.Context, input dto.CoinsInput) (dto.BalanceOutput, error)
	ComputeStreak(ctx context.Context, userID string, asOf time.Time) (int, error)
	RefreshStreak(ctx context.Context, userID string, date time.Time) (int, error)
	ClaimGoalBonus(ctx context.Context, userID string, date time.Time) (dto.BonusOutput, error)
	Snapshot(ctx context.Context, userID string, date time.Time) (dto.SnapshotOutput, error)
	History(ctx context.Context, userID string, limit int) ([]dto.RewardOutput, error)
	WeeklyMinutes(ctx context.Context, userID string, end time.Time, days int) ([]dto.DayMinutesOutput, error)
	Equip(ctx context.Context, input dto.EquipInput) (dto.DailyStateOutput, error)
}
