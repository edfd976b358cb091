package domain

import (
	"fmt"
	"time"

	apperrors "studyledger/internal/platform/errors"
)

type TimerMode string

const (
	ModeStopwatch TimerMode = "stopwatch"
	ModePomodoro  TimerMode = "pomodoro"
)

type Phase string

const (
	PhaseFocus Phase = "focus"
	PhaseBreak Phase = "break"
)

// TimerState is UI-transient and lives outside the database.
type TimerState struct {
	UserID         string    `json:"user_id"`
	Mode           TimerMode `json:"mode"`
	Subject        string    `json:"subject"`
	Running        bool      `json:"running"`
	StartedAt      time.Time `json:"started_at"`
	ElapsedSec     int64     `json:"elapsed_sec"`
	Phase          Phase     `json:"phase,omitempty"`
	PhaseStartedAt time.Time `json:"phase_started_at"`
	PhaseEndsAt    time.Time `json:"phase_ends_at"`
	FocusMin       int       `json:"focus_min,omitempty"`
	BreakMin       int       `json:"break_min,omitempty"`
	CompletedFocus int       `json:"completed_focus,omitempty"`
}

func NewStopwatch(userID, subject string, now time.Time) TimerState {
	return TimerState{UserID: userID, Mode: ModeStopwatch, Subject: subject, Running: true, StartedAt: now}
}

func NewPomodoro(userID, subject string, focusMin, breakMin int, now time.Time) (TimerState, error) {
	if focusMin <= 0 || breakMin <= 0 {
		return TimerState{}, fmt.Errorf("%w: pomodoro phases must be positive", apperrors.ErrInvalidInput)
	}
	return TimerState{
		UserID:         userID,
		Mode:           ModePomodoro,
		Subject:        subject,
		Running:        true,
		StartedAt:      now,
		Phase:          PhaseFocus,
		PhaseStartedAt: now,
		PhaseEndsAt:    now.Add(time.Duration(focusMin) * time.Minute),
		FocusMin:       focusMin,
		BreakMin:       breakMin,
	}, nil
}

// Elapsed is the accumulated stopwatch time at now.
func (t TimerState) Elapsed(now time.Time) time.Duration {
	if !t.Running {
		return time.Duration(t.ElapsedSec) * time.Second
	}
	d := now.Sub(t.StartedAt)
	if d < 0 {
		return 0
	}
	return d
}

func (t TimerState) Pause(now time.Time) TimerState {
	if !t.Running {
		return t
	}
	t.ElapsedSec = int64(t.Elapsed(now) / time.Second)
	t.Running = false
	return t
}

// Resume rebases StartedAt so Elapsed continues from the paused total.
func (t TimerState) Resume(now time.Time) TimerState {
	if t.Running {
		return t
	}
	t.StartedAt = now.Add(-time.Duration(t.ElapsedSec) * time.Second)
	t.Running = true
	return t
}

func (t TimerState) Remaining(now time.Time) time.Duration {
	r := t.PhaseEndsAt.Sub(now)
	if r < 0 {
		return 0
	}
	return r
}

func (t TimerState) phaseLength(p Phase) time.Duration {
	if p == PhaseFocus {
		return time.Duration(t.FocusMin) * time.Minute
	}
	return time.Duration(t.BreakMin) * time.Minute
}

// PhaseChange describes a phase that just ended.
type PhaseChange struct {
	Ended     Phase
	StartedAt time.Time
	EndedAt   time.Time
}

// Advance flips focus and break once remaining reaches zero, restarting the
// next phase at now. It reports the phase that ended, if any.
func (t TimerState) Advance(now time.Time) (TimerState, PhaseChange, bool) {
	if t.Mode != ModePomodoro || now.Before(t.PhaseEndsAt) {
		return t, PhaseChange{}, false
	}
	change := PhaseChange{Ended: t.Phase, StartedAt: t.PhaseStartedAt, EndedAt: t.PhaseEndsAt}
	next := PhaseBreak
	if t.Phase == PhaseBreak {
		next = PhaseFocus
	} else {
		t.CompletedFocus++
	}
	t.Phase = next
	t.PhaseStartedAt = now
	t.PhaseEndsAt = now.Add(t.phaseLength(next))
	return t, change, true
}
