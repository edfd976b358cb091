package out

import (
	"context"
	"time"

	"studyledger/internal/modules/ledger/domain"
)

type DailyStore interface {
	// Get returns apperrors.ErrNotFound when the row does not exist.
	Get(ctx context.Context, userID string, date time.Time) (domain.DailyState, error)
	LatestBefore(ctx context.Context, userID string, date time.Time) (domain.DailyState, error)
	Insert(ctx context.Context, state domain.DailyState) error
	SetGoal(ctx context.Context, userID string, date time.Time, goalMin int) error
	SetStreak(ctx context.Context, userID string, date time.Time, streak int) error
	SetEquipped(ctx context.Context, userID string, date time.Time, equipped domain.Equipment) error
	// CarryEquipped sets the itemType slot to name on rows after from that still
	// hold old, stopping at the first later row where the slot was changed.
	CarryEquipped(ctx context.Context, userID string, from time.Time, itemType domain.ItemType, old, name string) error
	AdjustCoinsFrom(ctx context.Context, userID string, date time.Time, delta int) error
	MinCoinsFrom(ctx context.Context, userID string, date time.Time) (int, error)
	// Goals lists rows up to through, oldest first; a zero through lists all rows.
	Goals(ctx context.Context, userID string, through time.Time) ([]domain.DayGoal, error)
}

type RewardLog interface {
	Append(ctx context.Context, entry domain.RewardEntry) (domain.RewardEntry, error)
	BalanceThrough(ctx context.Context, userID string, date time.Time) (int, error)
	Recent(ctx context.Context, userID string, limit int) ([]domain.RewardEntry, error)
}

type ClaimStore interface {
	// Claim reports false when the key was already taken.
	Claim(ctx context.Context, userID string, date time.Time, kind string, at time.Time) (bool, error)
	Claimed(ctx context.Context, userID string, date time.Time, kind string) (bool, error)
}

// MinutesReader sums study minutes per calendar day, keyed by clock.Format.
type MinutesReader interface {
	MinutesByDay(ctx context.Context, userID string, from, to time.Time) (map[string]int, error)
}
