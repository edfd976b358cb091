package domain_test

import (
	"errors"
	"testing"
	"time"

	"studyledger/internal/modules/session/domain"
	apperrors "studyledger/internal/platform/errors"
)

func TestDurationMinutesFloorsAtOne(t *testing.T) {
	t.Parallel()
	cases := map[time.Duration]int{
		45 * time.Second:                1,
		59 * time.Second:                1,
		60 * time.Second:                1,
		119 * time.Second:               1,
		25*time.Minute + 59*time.Second: 25,
	}
	for elapsed, want := range cases {
		if got := domain.DurationMinutes(elapsed); got != want {
			t.Fatalf("elapsed %s: expected %d, got %d", elapsed, want, got)
		}
	}
}

func TestSessionValidate(t *testing.T) {
	t.Parallel()
	base := domain.Session{UserID: "u1", Subject: "Math", DurationMin: 1, Energy: 3, Difficulty: 3, Source: domain.SourceManual}
	if err := base.Validate(); err != nil {
		t.Fatalf("base session should be valid: %v", err)
	}
	mutations := map[string]func(s *domain.Session){
		"blank subject":  func(s *domain.Session) { s.Subject = "  " },
		"negative dist":  func(s *domain.Session) { s.Distractions = -1 },
		"energy high":    func(s *domain.Session) { s.Energy = 6 },
		"difficulty low": func(s *domain.Session) { s.Difficulty = 0 },
		"zero duration":  func(s *domain.Session) { s.DurationMin = 0 },
		"bad source":     func(s *domain.Session) { s.Source = "import" },
	}
	for name, mutate := range mutations {
		s := base
		mutate(&s)
		if err := s.Validate(); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("%s: expected invalid input, got %v", name, err)
		}
	}
}

func TestStopwatchPauseResumeAccumulates(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	sw := domain.NewStopwatch("u1", "Math", start)
	sw = sw.Pause(start.Add(10 * time.Minute))
	if got := sw.Elapsed(start.Add(time.Hour)); got != 10*time.Minute {
		t.Fatalf("paused elapsed should freeze at 10m, got %s", got)
	}
	sw = sw.Resume(start.Add(30 * time.Minute))
	if got := sw.Elapsed(start.Add(35 * time.Minute)); got != 15*time.Minute {
		t.Fatalf("expected 15m after resume, got %s", got)
	}
}

func TestPomodoroAdvanceFlipsPhases(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	p, err := domain.NewPomodoro("u1", "Math", 25, 5, start)
	if err != nil {
		t.Fatalf("new pomodoro: %v", err)
	}
	if _, _, flipped := p.Advance(start.Add(24 * time.Minute)); flipped {
		t.Fatalf("must not flip before the end time")
	}
	if got := p.Remaining(start.Add(24 * time.Minute)); got != time.Minute {
		t.Fatalf("expected 1m remaining, got %s", got)
	}
	at := start.Add(26 * time.Minute)
	p, change, flipped := p.Advance(at)
	if !flipped || change.Ended != domain.PhaseFocus || !change.EndedAt.Equal(start.Add(25*time.Minute)) {
		t.Fatalf("expected focus to end, got %+v flipped=%v", change, flipped)
	}
	if p.Phase != domain.PhaseBreak || !p.PhaseEndsAt.Equal(at.Add(5*time.Minute)) || p.CompletedFocus != 1 {
		t.Fatalf("unexpected break state %+v", p)
	}
	p, change, flipped = p.Advance(at.Add(5 * time.Minute))
	if !flipped || change.Ended != domain.PhaseBreak || p.Phase != domain.PhaseFocus || p.CompletedFocus != 1 {
		t.Fatalf("expected break to end into focus, got %+v", p)
	}
	if _, err := domain.NewPomodoro("u1", "Math", 0, 5, start); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for zero focus, got %v", err)
	}
}
