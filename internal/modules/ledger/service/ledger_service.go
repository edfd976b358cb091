package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studyledger/internal/modules/ledger/domain"
	ledgerout "studyledger/internal/modules/ledger/port/out"
	"studyledger/internal/platform/clock"
	apperrors "studyledger/internal/platform/errors"
)

type LedgerService struct {
	clock   clock.Clock
	rules   domain.Rules
	daily   ledgerout.DailyStore
	rewards ledgerout.RewardLog
	claims  ledgerout.ClaimStore
	minutes ledgerout.MinutesReader
}

func NewLedgerService(clock clock.Clock, rules domain.Rules, daily ledgerout.DailyStore, rewards ledgerout.RewardLog, claims ledgerout.ClaimStore, minutes ledgerout.MinutesReader) *LedgerService {
	return &LedgerService{clock: clock, rules: rules, daily: daily, rewards: rewards, claims: claims, minutes: minutes}
}

func (s *LedgerService) Rules() domain.Rules {
	return s.rules
}

// Day normalizes date to a calendar day, defaulting to today.
func (s *LedgerService) Day(date time.Time) time.Time {
	if date.IsZero() {
		return clock.DateOf(s.clock.Now())
	}
	return clock.DateOf(date)
}

func requireUser(userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: user id is required", apperrors.ErrInvalidInput)
	}
	return nil
}

func (s *LedgerService) GetOrInitDaily(ctx context.Context, userID string, date time.Time) (domain.DailyState, error) {
	if err := requireUser(userID); err != nil {
		return domain.DailyState{}, err
	}
	day := s.Day(date)
	state, err := s.daily.Get(ctx, userID, day)
	if err == nil {
		return state, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return domain.DailyState{}, err
	}

	coins, err := s.rewards.BalanceThrough(ctx, userID, day)
	if err != nil {
		return domain.DailyState{}, err
	}
	streak := 1
	prior, err := s.daily.Get(ctx, userID, day.AddDate(0, 0, -1))
	switch {
	case err == nil:
		streak = prior.Streak + 1
	case !errors.Is(err, apperrors.ErrNotFound):
		return domain.DailyState{}, err
	}
	equipped := domain.DefaultEquipmentSet()
	latest, err := s.daily.LatestBefore(ctx, userID, day)
	switch {
	case err == nil:
		equipped = latest.Equipped
	case !errors.Is(err, apperrors.ErrNotFound):
		return domain.DailyState{}, err
	}

	state = domain.DailyState{
		UserID:   userID,
		Date:     day,
		GoalMin:  s.rules.DefaultGoalMin,
		Coins:    coins,
		Streak:   streak,
		Equipped: equipped,
	}
	if err := s.daily.Insert(ctx, state); err != nil {
		return domain.DailyState{}, err
	}
	return state, nil
}

func (s *LedgerService) SetGoal(ctx context.Context, userID string, date time.Time, goalMin int) (domain.DailyState, error) {
	if err := s.rules.ValidateGoal(goalMin); err != nil {
		return domain.DailyState{}, err
	}
	state, err := s.GetOrInitDaily(ctx, userID, date)
	if err != nil {
		return domain.DailyState{}, err
	}
	if err := s.daily.SetGoal(ctx, userID, state.Date, goalMin); err != nil {
		return domain.DailyState{}, err
	}
	state.GoalMin = goalMin
	streak, err := s.RefreshStreak(ctx, userID, state.Date)
	if err != nil {
		return domain.DailyState{}, err
	}
	state.Streak = streak
	return state, nil
}

// Grant appends a credit and raises the balance of date and every later row.
func (s *LedgerService) Grant(ctx context.Context, userID string, date time.Time, amount int, kind, name string) (int, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return 0, err
	}
	return s.apply(ctx, userID, date, amount, kind, name)
}

// Spend fails with ErrInsufficientFunds when amount exceeds the balance of date
// or of any later row, so no balance ever turns negative.
func (s *LedgerService) Spend(ctx context.Context, userID string, date time.Time, amount int, kind, name string) (int, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return 0, err
	}
	state, err := s.GetOrInitDaily(ctx, userID, date)
	if err != nil {
		return 0, err
	}
	available, err := s.daily.MinCoinsFrom(ctx, userID, state.Date)
	if err != nil {
		return 0, err
	}
	if amount > available {
		return 0, fmt.Errorf("%w: need %d coins, have %d", apperrors.ErrInsufficientFunds, amount, available)
	}
	return s.apply(ctx, userID, state.Date, -amount, kind, name)
}

func (s *LedgerService) apply(ctx context.Context, userID string, date time.Time, delta int, kind, name string) (int, error) {
	state, err := s.GetOrInitDaily(ctx, userID, date)
	if err != nil {
		return 0, err
	}
	if kind == "" {
		return 0, fmt.Errorf("%w: reward type is required", apperrors.ErrInvalidInput)
	}
	if _, err := s.rewards.Append(ctx, domain.RewardEntry{
		UserID:      userID,
		Date:        state.Date,
		Type:        kind,
		Name:        name,
		CoinsChange: delta,
		CreatedAt:   s.clock.Now().UTC(),
	}); err != nil {
		return 0, err
	}
	if err := s.daily.AdjustCoinsFrom(ctx, userID, state.Date, delta); err != nil {
		return 0, err
	}
	return state.Coins + delta, nil
}

func (s *LedgerService) ComputeStreak(ctx context.Context, userID string, asOf time.Time) (int, error) {
	if err := requireUser(userID); err != nil {
		return 0, err
	}
	day := s.Day(asOf)
	goals, err := s.daily.Goals(ctx, userID, day)
	if err != nil {
		return 0, err
	}
	if len(goals) == 0 {
		return 0, nil
	}
	minutes, err := s.minutes.MinutesByDay(ctx, userID, goals[0].Date, day)
	if err != nil {
		return 0, err
	}
	return domain.ComputeStreak(day, goals, minutes), nil
}

// RefreshStreak stores the computed streak for date and for every later row,
// since a change on date can extend or break the runs passing through it.
// It returns the streak of date.
func (s *LedgerService) RefreshStreak(ctx context.Context, userID string, date time.Time) (int, error) {
	state, err := s.GetOrInitDaily(ctx, userID, date)
	if err != nil {
		return 0, err
	}
	goals, err := s.daily.Goals(ctx, userID, time.Time{})
	if err != nil {
		return 0, err
	}
	if len(goals) == 0 {
		return 0, nil
	}
	minutes, err := s.minutes.MinutesByDay(ctx, userID, goals[0].Date, goals[len(goals)-1].Date)
	if err != nil {
		return 0, err
	}
	for _, row := range domain.StaleStreaks(state.Date, goals, minutes) {
		if err := s.daily.SetStreak(ctx, userID, row.Date, row.Streak); err != nil {
			return 0, err
		}
	}
	return domain.ComputeStreak(state.Date, goals, minutes), nil
}

type BonusResult struct {
	Date           time.Time
	Granted        bool
	AlreadyClaimed bool
	Amount         int
	Minutes        int
	GoalMin        int
	Balance        int
}

// ClaimGoalBonus grants the goal bonus at most once per user and date. The
// claim row is the idempotency key.
func (s *LedgerService) ClaimGoalBonus(ctx context.Context, userID string, date time.Time) (BonusResult, error) {
	state, err := s.GetOrInitDaily(ctx, userID, date)
	if err != nil {
		return BonusResult{}, err
	}
	minutes, err := s.minutesOn(ctx, userID, state.Date)
	if err != nil {
		return BonusResult{}, err
	}
	result := BonusResult{Date: state.Date, Minutes: minutes, GoalMin: state.GoalMin, Balance: state.Coins}
	if minutes < state.GoalMin {
		return result, nil
	}
	claimed, err := s.claims.Claim(ctx, userID, state.Date, domain.ClaimGoalBonus, s.clock.Now().UTC())
	if err != nil {
		return BonusResult{}, err
	}
	if !claimed {
		result.AlreadyClaimed = true
		return result, nil
	}
	result.Granted = true
	if s.rules.GoalBonus > 0 {
		balance, err := s.Grant(ctx, userID, state.Date, s.rules.GoalBonus, domain.RewardGoalBonus, "daily goal reached")
		if err != nil {
			return BonusResult{}, err
		}
		result.Amount = s.rules.GoalBonus
		result.Balance = balance
	}
	return result, nil
}

func (s *LedgerService) minutesOn(ctx context.Context, userID string, day time.Time) (int, error) {
	byDay, err := s.minutes.MinutesByDay(ctx, userID, day, day)
	if err != nil {
		return 0, err
	}
	return byDay[clock.Format(day)], nil
}

type Snapshot struct {
	State        domain.DailyState
	Minutes      int
	Streak       int
	Progress     float64
	BonusClaimed bool
}

func (s *LedgerService) Snapshot(ctx context.Context, userID string, date time.Time) (Snapshot, error) {
	state, err := s.GetOrInitDaily(ctx, userID, date)
	if err != nil {
		return Snapshot{}, err
	}
	minutes, err := s.minutesOn(ctx, userID, state.Date)
	if err != nil {
		return Snapshot{}, err
	}
	streak, err := s.ComputeStreak(ctx, userID, state.Date)
	if err != nil {
		return Snapshot{}, err
	}
	claimed, err := s.claims.Claimed(ctx, userID, state.Date, domain.ClaimGoalBonus)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		State:        state,
		Minutes:      minutes,
		Streak:       streak,
		Progress:     domain.Progress(minutes, state.GoalMin),
		BonusClaimed: claimed,
	}, nil
}

func (s *LedgerService) History(ctx context.Context, userID string, limit int) ([]domain.RewardEntry, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	return s.rewards.Recent(ctx, userID, limit)
}

type DayMinutes struct {
	Date    time.Time
	Minutes int
	GoalMin int
}

// WeeklyMinutes returns days consecutive totals ending at end, oldest first.
// GoalMin is the goal in effect that day, or 0 before any goal.
func (s *LedgerService) WeeklyMinutes(ctx context.Context, userID string, end time.Time, days int) ([]DayMinutes, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if days <= 0 || days > 366 {
		return nil, fmt.Errorf("%w: days must be between 1 and 366", apperrors.ErrInvalidInput)
	}
	last := s.Day(end)
	first := last.AddDate(0, 0, -(days - 1))
	minutes, err := s.minutes.MinutesByDay(ctx, userID, first, last)
	if err != nil {
		return nil, err
	}
	goals, err := s.daily.Goals(ctx, userID, last)
	if err != nil {
		return nil, err
	}
	out := make([]DayMinutes, 0, days)
	idx := 0
	goal := 0
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		for idx < len(goals) && !goals[idx].Date.After(day) {
			goal = goals[idx].GoalMin
			idx++
		}
		out = append(out, DayMinutes{Date: day, Minutes: minutes[clock.Format(day)], GoalMin: goal})
	}
	return out, nil
}

// Equip sets a slot on date. Later rows that inherited the old value follow
// the change up to the next day where the slot was picked again.
func (s *LedgerService) Equip(ctx context.Context, userID string, date time.Time, itemType domain.ItemType, name string) (domain.DailyState, error) {
	if err := itemType.Validate(); err != nil {
		return domain.DailyState{}, err
	}
	if name == "" {
		return domain.DailyState{}, fmt.Errorf("%w: item name is required", apperrors.ErrInvalidInput)
	}
	state, err := s.GetOrInitDaily(ctx, userID, date)
	if err != nil {
		return domain.DailyState{}, err
	}
	previous := state.Equipped.Slot(itemType)
	state.Equipped = state.Equipped.With(itemType, name)
	if err := s.daily.SetEquipped(ctx, userID, state.Date, state.Equipped); err != nil {
		return domain.DailyState{}, err
	}
	if previous != name {
		if err := s.daily.CarryEquipped(ctx, userID, state.Date, itemType, previous, name); err != nil {
			return domain.DailyState{}, err
		}
	}
	return state, nil
}
