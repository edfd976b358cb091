package dto

import "time"

// Reward types shared with callers that move coins.
const (
	RewardStudy    = "study"
	RewardPurchase = "purchase"
)

type DailyStateOutput struct {
	UserID         string
	Date           time.Time
	GoalMin        int
	Coins          int
	Streak         int
	EquippedTheme  string
	EquippedSound  string
	EquippedMascot string
}

type SetGoalInput struct {
	UserID  string
	Date    time.Time
	GoalMin int
}

type CoinsInput struct {
	UserID string
	Date   time.Time
	Amount int
	Type   string
	Name   string
}

type BalanceOutput struct {
	UserID  string
	Date    time.Time
	Balance int
	Change  int
}

type BonusOutput struct {
	Date           time.Time
	Granted        bool
	AlreadyClaimed bool
	Amount         int
	MinutesToday   int
	GoalMin        int
	Balance        int
}

type SnapshotOutput struct {
	State        DailyStateOutput
	MinutesToday int
	Streak       int
	Progress     float64
	BonusClaimed bool
}

type RewardOutput struct {
	ID          int64
	Date        time.Time
	Type        string
	Name        string
	CoinsChange int
	CreatedAt   time.Time
}

type DayMinutesOutput struct {
	Date    time.Time
	Minutes int
	GoalMin int
}

type EquipInput struct {
	UserID   string
	Date     time.Time
	ItemType string
	Name     string
}
