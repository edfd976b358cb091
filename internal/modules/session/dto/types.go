package dto

import (
	"time"

	ledgerdto "studyledger/internal/modules/ledger/dto"
)

type SubjectOutput struct {
	ID   string
	Name string
}

type RecordInput struct {
	UserID       string
	Date         time.Time
	Subject      string
	ElapsedSec   int64
	Distractions int
	Mood         string
	Energy       int
	Difficulty   int
	Note         string
	Source       string
	StartedAt    time.Time
	EndedAt      time.Time
}

type SessionOutput struct {
	ID           string
	Date         time.Time
	Subject      string
	DurationMin  int
	Distractions int
	Mood         string
	Energy       int
	Difficulty   int
	Note         string
	Source       string
	StartedAt    time.Time
	EndedAt      time.Time
}

type RecordOutput struct {
	Session     SessionOutput
	CoinsEarned int
	Bonus       ledgerdto.BonusOutput
	Snapshot    ledgerdto.SnapshotOutput
}

type ListInput struct {
	UserID string
	From   time.Time
	To     time.Time
	Limit  int
}

type DayTotalOutput struct {
	Date     time.Time
	Minutes  int
	Sessions int
}

type SubjectTotalOutput struct {
	Subject       string
	Minutes       int
	Sessions      int
	Distractions  int
	AvgEnergy     float64
	AvgDifficulty float64
}

// StopInput carries the self-assessment captured when a timer ends.
type StopInput struct {
	Distractions int
	Mood         string
	Energy       int
	Difficulty   int
	Note         string
}

type TimerOutput struct {
	Mode           string
	Subject        string
	Running        bool
	Elapsed        time.Duration
	Phase          string
	Remaining      time.Duration
	PhaseEndsAt    time.Time
	CompletedFocus int
}

type TickOutput struct {
	Timer    TimerOutput
	Flipped  bool
	Recorded *RecordOutput
}
