package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"studyledger/internal/modules/session/domain"
	sessionout "studyledger/internal/modules/session/port/out"
	"studyledger/internal/platform/clock"
	apperrors "studyledger/internal/platform/errors"
	"studyledger/internal/platform/id"
)

type Settings struct {
	CoinsPerMinute int
	FocusMin       int
	BreakMin       int
}

type SessionService struct {
	clock    clock.Clock
	idGen    id.Generator
	settings Settings
	subjects sessionout.SubjectStore
	sessions sessionout.SessionStore
	timers   sessionout.TimerStore
}

func NewSessionService(clock clock.Clock, idGen id.Generator, settings Settings, subjects sessionout.SubjectStore, sessions sessionout.SessionStore, timers sessionout.TimerStore) *SessionService {
	return &SessionService{clock: clock, idGen: idGen, settings: settings, subjects: subjects, sessions: sessions, timers: timers}
}

func (s *SessionService) Now() time.Time {
	return s.clock.Now()
}

func (s *SessionService) Settings() Settings {
	return s.settings
}

func (s *SessionService) AddSubject(ctx context.Context, userID, name string) (domain.Subject, error) {
	if strings.TrimSpace(userID) == "" {
		return domain.Subject{}, fmt.Errorf("%w: user id is required", apperrors.ErrInvalidInput)
	}
	name, err := domain.ValidateSubjectName(name)
	if err != nil {
		return domain.Subject{}, err
	}
	subject := domain.Subject{ID: s.idGen.New(), UserID: userID, Name: name, CreatedAt: s.clock.Now().UTC()}
	if err := s.subjects.Add(ctx, subject); err != nil {
		return domain.Subject{}, err
	}
	return subject, nil
}

func (s *SessionService) ListSubjects(ctx context.Context, userID string) ([]domain.Subject, error) {
	return s.subjects.List(ctx, userID)
}

// Build turns raw elapsed seconds into a validated session. Missing times are
// derived from the clock.
func (s *SessionService) Build(userID string, date time.Time, subject string, elapsedSec int64, distractions int, mood string, energy, difficulty int, note, source string, startedAt, endedAt time.Time) (domain.Session, error) {
	if elapsedSec <= 0 {
		return domain.Session{}, fmt.Errorf("%w: elapsed time must be positive", apperrors.ErrInvalidInput)
	}
	elapsed := time.Duration(elapsedSec) * time.Second
	if endedAt.IsZero() {
		endedAt = s.clock.Now()
	}
	if startedAt.IsZero() {
		startedAt = endedAt.Add(-elapsed)
	}
	if date.IsZero() {
		date = endedAt
	}
	if source == "" {
		source = domain.SourceManual
	}
	session := domain.Session{
		ID:           s.idGen.New(),
		UserID:       userID,
		Date:         clock.DateOf(date),
		Subject:      strings.TrimSpace(subject),
		DurationMin:  domain.DurationMinutes(elapsed),
		Distractions: distractions,
		Mood:         strings.TrimSpace(mood),
		Energy:       energy,
		Difficulty:   difficulty,
		Note:         note,
		Source:       source,
		StartedAt:    startedAt,
		EndedAt:      endedAt,
	}
	if err := session.Validate(); err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

func (s *SessionService) Append(ctx context.Context, session domain.Session) error {
	return s.sessions.Append(ctx, session)
}

func (s *SessionService) List(ctx context.Context, userID string, from, to time.Time, limit int) ([]domain.Session, error) {
	if limit <= 0 {
		limit = 50
	}
	from, to, err := s.window(from, to)
	if err != nil {
		return nil, err
	}
	return s.sessions.List(ctx, userID, from, to, limit)
}

func (s *SessionService) DailyTotals(ctx context.Context, userID string, from, to time.Time) ([]domain.DayTotal, error) {
	from, to, err := s.window(from, to)
	if err != nil {
		return nil, err
	}
	return s.sessions.DailyTotals(ctx, userID, from, to)
}

func (s *SessionService) SubjectTotals(ctx context.Context, userID string, from, to time.Time) ([]domain.SubjectTotal, error) {
	from, to, err := s.window(from, to)
	if err != nil {
		return nil, err
	}
	return s.sessions.SubjectTotals(ctx, userID, from, to)
}

// window defaults to the last 30 days ending today.
func (s *SessionService) window(from, to time.Time) (time.Time, time.Time, error) {
	if to.IsZero() {
		to = s.clock.Now()
	}
	to = clock.DateOf(to)
	if from.IsZero() {
		from = to.AddDate(0, 0, -29)
	}
	from = clock.DateOf(from)
	if from.After(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: from must not be after to", apperrors.ErrInvalidInput)
	}
	return from, to, nil
}

func (s *SessionService) LoadTimer(ctx context.Context) (domain.TimerState, error) {
	return s.timers.Load(ctx)
}

func (s *SessionService) SaveTimer(ctx context.Context, state domain.TimerState) error {
	return s.timers.Save(ctx, state)
}

func (s *SessionService) ClearTimer(ctx context.Context) error {
	return s.timers.Clear(ctx)
}
