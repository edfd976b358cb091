package domain

import (
	"fmt"
	"time"

	"studyledger/internal/platform/clock"
	apperrors "studyledger/internal/platform/errors"
)

const (
	RewardStudy     = "study"
	RewardGoalBonus = "goal_bonus"
	RewardPurchase  = "purchase"

	ClaimGoalBonus = "goal_bonus"

	DefaultEquipment = "default"
)

type ItemType string

const (
	ItemTheme  ItemType = "theme"
	ItemSound  ItemType = "sound"
	ItemMascot ItemType = "mascot"
)

func (t ItemType) Validate() error {
	switch t {
	case ItemTheme, ItemSound, ItemMascot:
		return nil
	default:
		return fmt.Errorf("%w: unsupported item type %q", apperrors.ErrInvalidInput, string(t))
	}
}

type Equipment struct {
	Theme  string
	Sound  string
	Mascot string
}

func DefaultEquipmentSet() Equipment {
	return Equipment{Theme: DefaultEquipment, Sound: DefaultEquipment, Mascot: DefaultEquipment}
}

// Slot returns the item equipped for itemType.
func (e Equipment) Slot(itemType ItemType) string {
	switch itemType {
	case ItemSound:
		return e.Sound
	case ItemMascot:
		return e.Mascot
	default:
		return e.Theme
	}
}

// With returns a copy with the slot for itemType replaced.
func (e Equipment) With(itemType ItemType, name string) Equipment {
	switch itemType {
	case ItemTheme:
		e.Theme = name
	case ItemSound:
		e.Sound = name
	case ItemMascot:
		e.Mascot = name
	}
	return e
}

// DailyState is the per-user, per-day ledger row. Coins is the running
// balance through Date.
type DailyState struct {
	UserID   string
	Date     time.Time
	GoalMin  int
	Coins    int
	Streak   int
	Equipped Equipment
}

type RewardEntry struct {
	ID          int64
	UserID      string
	Date        time.Time
	Type        string
	Name        string
	CoinsChange int
	CreatedAt   time.Time
}

// Rules are the configurable accounting constants.
type Rules struct {
	DefaultGoalMin int
	MinGoalMin     int
	MaxGoalMin     int
	CoinsPerMinute int
	GoalBonus      int
}

func (r Rules) ValidateGoal(minutes int) error {
	if minutes <= 0 {
		return fmt.Errorf("%w: goal must be positive", apperrors.ErrInvalidInput)
	}
	if minutes < r.MinGoalMin || minutes > r.MaxGoalMin {
		return fmt.Errorf("%w: goal must be between %d and %d minutes", apperrors.ErrInvalidInput, r.MinGoalMin, r.MaxGoalMin)
	}
	return nil
}

func ValidateAmount(amount int) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", apperrors.ErrInvalidInput)
	}
	return nil
}

type DayGoal struct {
	Date    time.Time
	GoalMin int
	// Streak is the value stored on the row.
	Streak int
}

// ComputeStreak counts consecutive days ending at asOf whose minutes meet the
// goal in effect that day. A day without its own row uses the nearest earlier
// row's goal; the walk stops once no earlier goal exists. goals must be sorted
// by date ascending; minutes is keyed by clock.Format.
func ComputeStreak(asOf time.Time, goals []DayGoal, minutes map[string]int) int {
	day := clock.DateOf(asOf)
	idx := len(goals) - 1
	streak := 0
	for {
		for idx >= 0 && goals[idx].Date.After(day) {
			idx--
		}
		if idx < 0 {
			return streak
		}
		goal := goals[idx].GoalMin
		if goal <= 0 || minutes[clock.Format(day)] < goal {
			return streak
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
}

// StaleStreaks returns the rows dated from onwards whose stored streak no
// longer matches ComputeStreak, carrying the corrected value in Streak.
func StaleStreaks(from time.Time, goals []DayGoal, minutes map[string]int) []DayGoal {
	start := clock.DateOf(from)
	var stale []DayGoal
	for _, g := range goals {
		if g.Date.Before(start) {
			continue
		}
		if streak := ComputeStreak(g.Date, goals, minutes); streak != g.Streak {
			g.Streak = streak
			stale = append(stale, g)
		}
	}
	return stale
}

// Progress is minutes over goal, capped at 1.
func Progress(minutes, goal int) float64 {
	if goal <= 0 {
		return 0
	}
	ratio := float64(minutes) / float64(goal)
	if ratio > 1 {
		return 1
	}
	return ratio
}
