package domain_test

import (
	"errors"
	"testing"
	"time"

	"studyledger/internal/modules/ledger/domain"
	apperrors "studyledger/internal/platform/errors"
)

func day(d int) time.Time {
	return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeStreakGoalScenario(t *testing.T) {
	t.Parallel()
	goals := []domain.DayGoal{{Date: day(1), GoalMin: 120}, {Date: day(2), GoalMin: 120}}
	minutes := map[string]int{"2026-03-01": 150, "2026-03-02": 90}

	if got := domain.ComputeStreak(day(2), goals, minutes); got != 0 {
		t.Fatalf("expected streak 0 on failing day, got %d", got)
	}
	if got := domain.ComputeStreak(day(1), goals, minutes); got != 1 {
		t.Fatalf("expected streak 1 on qualifying day, got %d", got)
	}
}

func TestComputeStreakZeroWithoutSessions(t *testing.T) {
	t.Parallel()
	goals := []domain.DayGoal{{Date: day(5), GoalMin: 60}}
	if got := domain.ComputeStreak(day(5), goals, map[string]int{}); got != 0 {
		t.Fatalf("expected 0 without sessions, got %d", got)
	}
	if got := domain.ComputeStreak(day(5), nil, map[string]int{"2026-03-05": 500}); got != 0 {
		t.Fatalf("expected 0 without any goal, got %d", got)
	}
}

func TestComputeStreakInheritsNearestPriorGoal(t *testing.T) {
	t.Parallel()
	goals := []domain.DayGoal{{Date: day(1), GoalMin: 60}, {Date: day(4), GoalMin: 30}}
	minutes := map[string]int{
		"2026-03-01": 60,
		"2026-03-02": 60,
		"2026-03-03": 59,
		"2026-03-04": 30,
		"2026-03-05": 45,
	}
	// 5 inherits 30 from day 4, day 3 inherits 60 and fails.
	if got := domain.ComputeStreak(day(5), goals, minutes); got != 2 {
		t.Fatalf("expected streak 2, got %d", got)
	}
	// day 2 inherits 60 from day 1, and nothing precedes day 1.
	if got := domain.ComputeStreak(day(2), goals, minutes); got != 2 {
		t.Fatalf("expected streak 2 through first goal, got %d", got)
	}
}

func TestStaleStreaksOnlyReportsChangedRowsFromDate(t *testing.T) {
	t.Parallel()
	goals := []domain.DayGoal{
		{Date: day(1), GoalMin: 60, Streak: 0},
		{Date: day(2), GoalMin: 60, Streak: 1},
		{Date: day(3), GoalMin: 60, Streak: 3},
	}
	minutes := map[string]int{"2026-03-01": 60, "2026-03-02": 60, "2026-03-03": 60}

	stale := domain.StaleStreaks(day(2), goals, minutes)
	if len(stale) != 1 || !stale[0].Date.Equal(day(2)) || stale[0].Streak != 2 {
		t.Fatalf("expected only day 2 corrected to 2, got %+v", stale)
	}
	if got := domain.StaleStreaks(day(4), goals, minutes); len(got) != 0 {
		t.Fatalf("expected nothing after the last row, got %+v", got)
	}
}

func TestRulesValidateGoal(t *testing.T) {
	t.Parallel()
	rules := domain.Rules{DefaultGoalMin: 120, MinGoalMin: 30, MaxGoalMin: 600}
	if err := rules.ValidateGoal(120); err != nil {
		t.Fatalf("120 should be valid: %v", err)
	}
	for _, bad := range []int{0, -5, 29, 601} {
		if err := rules.ValidateGoal(bad); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("goal %d: expected invalid input, got %v", bad, err)
		}
	}
	if err := domain.ValidateAmount(0); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("zero amount should be invalid, got %v", err)
	}
}

func TestProgressCapsAtOne(t *testing.T) {
	t.Parallel()
	if got := domain.Progress(60, 120); got != 0.5 {
		t.Fatalf("expected 0.5, got %v", got)
	}
	if got := domain.Progress(300, 120); got != 1 {
		t.Fatalf("expected cap at 1, got %v", got)
	}
	if got := domain.Progress(10, 0); got != 0 {
		t.Fatalf("expected 0 for missing goal, got %v", got)
	}
}

func TestEquipmentWith(t *testing.T) {
	t.Parallel()
	eq := domain.DefaultEquipmentSet().With(domain.ItemTheme, "ocean")
	if eq.Theme != "ocean" || eq.Sound != domain.DefaultEquipment {
		t.Fatalf("unexpected equipment %+v", eq)
	}
	if err := domain.ItemType("hat").Validate(); err == nil {
		t.Fatalf("unknown item type should fail")
	}
}
