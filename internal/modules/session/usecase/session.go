package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ledgerdto "studyledger/internal/modules/ledger/dto"
	ledgerin "studyledger/internal/modules/ledger/port/in"
	"studyledger/internal/modules/session/domain"
	sessiondto "studyledger/internal/modules/session/dto"
	sessionin "studyledger/internal/modules/session/port/in"
	"studyledger/internal/modules/session/service"
	apperrors "studyledger/internal/platform/errors"
	"studyledger/internal/platform/logger"
	"studyledger/internal/platform/tx"
)

// Energy and difficulty recorded for pomodoro focus blocks, which have no
// self-assessment prompt.
const neutralRating = 3

type Interactor struct {
	svc    *service.SessionService
	ledger ledgerin.Usecase
	tx     tx.Manager
	log    *logger.Logger
}

func NewInteractor(svc *service.SessionService, ledger ledgerin.Usecase, txm tx.Manager, log *logger.Logger) sessionin.Usecase {
	if txm == nil {
		txm = tx.NoopManager{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Interactor{svc: svc, ledger: ledger, tx: txm, log: log.With("module", "session")}
}

func (i *Interactor) AddSubject(ctx context.Context, userID, name string) (sessiondto.SubjectOutput, error) {
	subject, err := i.svc.AddSubject(ctx, userID, name)
	if err != nil {
		return sessiondto.SubjectOutput{}, err
	}
	i.log.Info("subject_added", "user_id", userID, "subject", subject.Name)
	return sessiondto.SubjectOutput{ID: subject.ID, Name: subject.Name}, nil
}

func (i *Interactor) ListSubjects(ctx context.Context, userID string) ([]sessiondto.SubjectOutput, error) {
	subjects, err := i.svc.ListSubjects(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]sessiondto.SubjectOutput, 0, len(subjects))
	for _, subject := range subjects {
		out = append(out, sessiondto.SubjectOutput{ID: subject.ID, Name: subject.Name})
	}
	return out, nil
}

// Record appends the session and settles its rewards in one transaction:
// study coins, the goal bonus when reached, and the reconciled streak.
func (i *Interactor) Record(ctx context.Context, input sessiondto.RecordInput) (sessiondto.RecordOutput, error) {
	if i.ledger == nil {
		return sessiondto.RecordOutput{}, fmt.Errorf("ledger usecase is not configured")
	}
	session, err := i.svc.Build(input.UserID, input.Date, input.Subject, input.ElapsedSec, input.Distractions,
		input.Mood, input.Energy, input.Difficulty, input.Note, input.Source, input.StartedAt, input.EndedAt)
	if err != nil {
		return sessiondto.RecordOutput{}, err
	}

	out := sessiondto.RecordOutput{Session: toSessionOutput(session)}
	err = i.tx.Within(ctx, func(ctx context.Context) error {
		if _, err := i.ledger.GetOrInitDaily(ctx, session.UserID, session.Date); err != nil {
			return err
		}
		if err := i.svc.Append(ctx, session); err != nil {
			return err
		}
		if coins := session.DurationMin * i.svc.Settings().CoinsPerMinute; coins > 0 {
			if _, err := i.ledger.GrantCoins(ctx, ledgerdto.CoinsInput{
				UserID: session.UserID,
				Date:   session.Date,
				Amount: coins,
				Type:   ledgerdto.RewardStudy,
				Name:   session.Subject,
			}); err != nil {
				return err
			}
			out.CoinsEarned = coins
		}
		bonus, err := i.ledger.ClaimGoalBonus(ctx, session.UserID, session.Date)
		if err != nil {
			return err
		}
		out.Bonus = bonus
		if _, err := i.ledger.RefreshStreak(ctx, session.UserID, session.Date); err != nil {
			return err
		}
		snapshot, err := i.ledger.Snapshot(ctx, session.UserID, session.Date)
		if err != nil {
			return err
		}
		out.Snapshot = snapshot
		return nil
	})
	if err != nil {
		i.log.Error("session_record_failed", "user_id", input.UserID, "subject", input.Subject, "error", err)
		return sessiondto.RecordOutput{}, err
	}
	i.log.Info("session_recorded",
		"user_id", session.UserID,
		"date", session.Date,
		"subject", session.Subject,
		"duration_min", session.DurationMin,
		"source", session.Source,
		"coins", out.CoinsEarned,
		"bonus", out.Bonus.Granted,
	)
	return out, nil
}

func (i *Interactor) List(ctx context.Context, input sessiondto.ListInput) ([]sessiondto.SessionOutput, error) {
	sessions, err := i.svc.List(ctx, input.UserID, input.From, input.To, input.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]sessiondto.SessionOutput, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, toSessionOutput(session))
	}
	return out, nil
}

func (i *Interactor) DailyTotals(ctx context.Context, userID string, from, to time.Time) ([]sessiondto.DayTotalOutput, error) {
	totals, err := i.svc.DailyTotals(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]sessiondto.DayTotalOutput, 0, len(totals))
	for _, total := range totals {
		out = append(out, sessiondto.DayTotalOutput{Date: total.Date, Minutes: total.Minutes, Sessions: total.Sessions})
	}
	return out, nil
}

func (i *Interactor) SubjectTotals(ctx context.Context, userID string, from, to time.Time) ([]sessiondto.SubjectTotalOutput, error) {
	totals, err := i.svc.SubjectTotals(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]sessiondto.SubjectTotalOutput, 0, len(totals))
	for _, total := range totals {
		out = append(out, sessiondto.SubjectTotalOutput{
			Subject:       total.Subject,
			Minutes:       total.Minutes,
			Sessions:      total.Sessions,
			Distractions:  total.Distractions,
			AvgEnergy:     total.AvgEnergy,
			AvgDifficulty: total.AvgDifficulty,
		})
	}
	return out, nil
}

// ─── stopwatch ───────────────────────────────────────────────────────────────

// TimerStart begins a stopwatch, or resumes a paused one.
func (i *Interactor) TimerStart(ctx context.Context, userID, subject string) (sessiondto.TimerOutput, error) {
	now := i.svc.Now()
	subject = strings.TrimSpace(subject)
	current, err := i.svc.LoadTimer(ctx)
	switch {
	case err == nil:
		if current.Mode != domain.ModeStopwatch || current.Running {
			return sessiondto.TimerOutput{}, apperrors.ErrTimerActive
		}
		if subject != "" && subject != current.Subject {
			return sessiondto.TimerOutput{}, fmt.Errorf("%w: paused timer belongs to %q", apperrors.ErrTimerActive, current.Subject)
		}
		resumed := current.Resume(now)
		if err := i.svc.SaveTimer(ctx, resumed); err != nil {
			return sessiondto.TimerOutput{}, err
		}
		return toTimerOutput(resumed, now), nil
	case !errors.Is(err, apperrors.ErrNoActiveTimer):
		return sessiondto.TimerOutput{}, err
	}

	if userID == "" {
		return sessiondto.TimerOutput{}, fmt.Errorf("%w: user id is required", apperrors.ErrInvalidInput)
	}
	if _, err := domain.ValidateSubjectName(subject); err != nil {
		return sessiondto.TimerOutput{}, err
	}
	state := domain.NewStopwatch(userID, subject, now)
	if err := i.svc.SaveTimer(ctx, state); err != nil {
		return sessiondto.TimerOutput{}, err
	}
	i.log.Debug("timer_started", "user_id", userID, "subject", subject)
	return toTimerOutput(state, now), nil
}

func (i *Interactor) TimerPause(ctx context.Context) (sessiondto.TimerOutput, error) {
	state, err := i.loadStopwatch(ctx)
	if err != nil {
		return sessiondto.TimerOutput{}, err
	}
	now := i.svc.Now()
	paused := state.Pause(now)
	if err := i.svc.SaveTimer(ctx, paused); err != nil {
		return sessiondto.TimerOutput{}, err
	}
	return toTimerOutput(paused, now), nil
}

// TimerStop clears the timer, then records the run. The timer is cleared
// first so a run can never be paid twice; a failed record puts it back.
func (i *Interactor) TimerStop(ctx context.Context, input sessiondto.StopInput) (sessiondto.RecordOutput, error) {
	state, err := i.loadStopwatch(ctx)
	if err != nil {
		return sessiondto.RecordOutput{}, err
	}
	if err := i.svc.ClearTimer(ctx); err != nil {
		return sessiondto.RecordOutput{}, err
	}
	now := i.svc.Now()
	elapsed := state.Elapsed(now)
	recorded, err := i.Record(ctx, sessiondto.RecordInput{
		UserID:       state.UserID,
		Subject:      state.Subject,
		ElapsedSec:   int64(elapsed / time.Second),
		Distractions: input.Distractions,
		Mood:         input.Mood,
		Energy:       input.Energy,
		Difficulty:   input.Difficulty,
		Note:         input.Note,
		Source:       domain.SourceStopwatch,
		StartedAt:    state.StartedAt,
		EndedAt:      now,
	})
	if err != nil {
		return sessiondto.RecordOutput{}, i.restoreTimer(ctx, state, err)
	}
	return recorded, nil
}

// restoreTimer puts back a timer whose record failed and returns cause,
// joined with the save error when the timer could not be restored.
func (i *Interactor) restoreTimer(ctx context.Context, state domain.TimerState, cause error) error {
	if err := i.svc.SaveTimer(ctx, state); err != nil {
		i.log.Error("timer_restore_failed", "user_id", state.UserID, "subject", state.Subject, "error", err)
		return errors.Join(cause, err)
	}
	return cause
}

func (i *Interactor) TimerStatus(ctx context.Context) (sessiondto.TimerOutput, error) {
	state, err := i.svc.LoadTimer(ctx)
	if err != nil {
		return sessiondto.TimerOutput{}, err
	}
	return toTimerOutput(state, i.svc.Now()), nil
}

func (i *Interactor) loadStopwatch(ctx context.Context) (domain.TimerState, error) {
	state, err := i.svc.LoadTimer(ctx)
	if err != nil {
		return domain.TimerState{}, err
	}
	if state.Mode != domain.ModeStopwatch {
		return domain.TimerState{}, fmt.Errorf("%w: running timer is a %s", apperrors.ErrNoActiveTimer, state.Mode)
	}
	return state, nil
}

// ─── pomodoro ────────────────────────────────────────────────────────────────

func (i *Interactor) PomodoroStart(ctx context.Context, userID, subject string) (sessiondto.TimerOutput, error) {
	if _, err := i.svc.LoadTimer(ctx); err == nil {
		return sessiondto.TimerOutput{}, apperrors.ErrTimerActive
	} else if !errors.Is(err, apperrors.ErrNoActiveTimer) {
		return sessiondto.TimerOutput{}, err
	}
	if userID == "" {
		return sessiondto.TimerOutput{}, fmt.Errorf("%w: user id is required", apperrors.ErrInvalidInput)
	}
	subject, err := domain.ValidateSubjectName(subject)
	if err != nil {
		return sessiondto.TimerOutput{}, err
	}
	now := i.svc.Now()
	settings := i.svc.Settings()
	state, err := domain.NewPomodoro(userID, subject, settings.FocusMin, settings.BreakMin, now)
	if err != nil {
		return sessiondto.TimerOutput{}, err
	}
	if err := i.svc.SaveTimer(ctx, state); err != nil {
		return sessiondto.TimerOutput{}, err
	}
	i.log.Debug("pomodoro_started", "user_id", userID, "subject", subject, "focus_min", settings.FocusMin)
	return toTimerOutput(state, now), nil
}

// PomodoroTick re-derives the phase from the wall clock. A completed focus
// phase is recorded as a session of FocusMin minutes.
func (i *Interactor) PomodoroTick(ctx context.Context) (sessiondto.TickOutput, error) {
	state, err := i.svc.LoadTimer(ctx)
	if err != nil {
		return sessiondto.TickOutput{}, err
	}
	if state.Mode != domain.ModePomodoro {
		return sessiondto.TickOutput{}, fmt.Errorf("%w: running timer is a %s", apperrors.ErrNoActiveTimer, state.Mode)
	}
	now := i.svc.Now()
	next, change, flipped := state.Advance(now)
	out := sessiondto.TickOutput{Flipped: flipped}
	if !flipped {
		out.Timer = toTimerOutput(state, now)
		return out, nil
	}
	// The advanced timer is saved before the focus block is recorded, so a
	// later tick cannot see the same phase end again.
	if err := i.svc.SaveTimer(ctx, next); err != nil {
		return sessiondto.TickOutput{}, err
	}
	if change.Ended == domain.PhaseFocus {
		recorded, err := i.Record(ctx, sessiondto.RecordInput{
			UserID:     state.UserID,
			Date:       change.EndedAt,
			Subject:    state.Subject,
			ElapsedSec: int64(state.FocusMin) * 60,
			Energy:     neutralRating,
			Difficulty: neutralRating,
			Source:     domain.SourcePomodoro,
			StartedAt:  change.StartedAt,
			EndedAt:    change.EndedAt,
		})
		if err != nil {
			return sessiondto.TickOutput{}, i.restoreTimer(ctx, state, err)
		}
		out.Recorded = &recorded
	}
	out.Timer = toTimerOutput(next, now)
	return out, nil
}

// PomodoroStop discards the running cycle. Completed focus phases stay recorded.
func (i *Interactor) PomodoroStop(ctx context.Context) (sessiondto.TimerOutput, error) {
	state, err := i.svc.LoadTimer(ctx)
	if err != nil {
		return sessiondto.TimerOutput{}, err
	}
	if state.Mode != domain.ModePomodoro {
		return sessiondto.TimerOutput{}, fmt.Errorf("%w: running timer is a %s", apperrors.ErrNoActiveTimer, state.Mode)
	}
	if err := i.svc.ClearTimer(ctx); err != nil {
		return sessiondto.TimerOutput{}, err
	}
	out := toTimerOutput(state, i.svc.Now())
	out.Running = false
	return out, nil
}

func toSessionOutput(session domain.Session) sessiondto.SessionOutput {
	return sessiondto.SessionOutput{
		ID:           session.ID,
		Date:         session.Date,
		Subject:      session.Subject,
		DurationMin:  session.DurationMin,
		Distractions: session.Distractions,
		Mood:         session.Mood,
		Energy:       session.Energy,
		Difficulty:   session.Difficulty,
		Note:         session.Note,
		Source:       session.Source,
		StartedAt:    session.StartedAt,
		EndedAt:      session.EndedAt,
	}
}

func toTimerOutput(state domain.TimerState, now time.Time) sessiondto.TimerOutput {
	out := sessiondto.TimerOutput{
		Mode:           string(state.Mode),
		Subject:        state.Subject,
		Running:        state.Running,
		Phase:          string(state.Phase),
		CompletedFocus: state.CompletedFocus,
	}
	switch state.Mode {
	case domain.ModeStopwatch:
		out.Elapsed = state.Elapsed(now)
	case domain.ModePomodoro:
		out.Elapsed = state.Elapsed(now)
		out.Remaining = state.Remaining(now)
		out.PhaseEndsAt = state.PhaseEndsAt
	}
	return out
}
