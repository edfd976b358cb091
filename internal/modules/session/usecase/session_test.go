package usecase_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	ledgerout "studyledger/internal/modules/ledger/adapter/out"
	"studyledger/internal/modules/ledger/domain"
	ledgerdto "studyledger/internal/modules/ledger/dto"
	ledgerin "studyledger/internal/modules/ledger/port/in"
	ledgerservice "studyledger/internal/modules/ledger/service"
	ledgerusecase "studyledger/internal/modules/ledger/usecase"
	sessionout "studyledger/internal/modules/session/adapter/out"
	sessiondomain "studyledger/internal/modules/session/domain"
	sessiondto "studyledger/internal/modules/session/dto"
	sessionin "studyledger/internal/modules/session/port/in"
	sessionport "studyledger/internal/modules/session/port/out"
	"studyledger/internal/modules/session/service"
	"studyledger/internal/modules/session/usecase"
	apperrors "studyledger/internal/platform/errors"
	"studyledger/internal/platform/logger"
	"studyledger/internal/platform/sqlite"
	"studyledger/internal/platform/tx"
)

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type seqID struct {
	mu sync.Mutex
	n  int
}

func (s *seqID) New() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("id-%d", s.n)
}

type harness struct {
	uc     sessionin.Usecase
	ledger ledgerin.Usecase
	db     *sql.DB
	clock  *stepClock
}

var settings = service.Settings{CoinsPerMinute: 1, FocusMin: 25, BreakMin: 5}

func newHarness(t *testing.T, wrap func(ledgerin.Usecase) ledgerin.Usecase) harness {
	t.Helper()
	return newHarnessWithTimers(t, wrap, nil)
}

func newHarnessWithTimers(t *testing.T, wrap func(ledgerin.Usecase) ledgerin.Usecase, timers func(sessionport.TimerStore) sessionport.TimerStore) harness {
	t.Helper()
	dir := t.TempDir()
	db, err := sqlite.Open(context.Background(), filepath.Join(dir, "app.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	clk := &stepClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	txm := tx.NewSQLManager(db)
	ledger := ledgerusecase.NewInteractor(ledgerservice.NewLedgerService(
		clk,
		domain.Rules{DefaultGoalMin: 120, MinGoalMin: 30, MaxGoalMin: 600, CoinsPerMinute: 1, GoalBonus: 50},
		ledgerout.NewSQLiteDailyStore(db),
		ledgerout.NewSQLiteRewardLog(db),
		ledgerout.NewSQLiteClaimStore(db),
		ledgerout.NewSQLiteSessionMinutes(db),
	), txm, logger.Nop())
	if wrap != nil {
		ledger = wrap(ledger)
	}
	timerStore := sessionout.NewFileTimerStore(filepath.Join(dir, ".studyledger"))
	if timers != nil {
		timerStore = timers(timerStore)
	}
	svc := service.NewSessionService(clk, &seqID{}, settings,
		sessionout.NewSQLiteSubjectStore(db),
		sessionout.NewSQLiteSessionStore(db),
		timerStore,
	)
	return harness{uc: usecase.NewInteractor(svc, ledger, txm, logger.Nop()), ledger: ledger, db: db, clock: clk}
}

func (h harness) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	if err := h.db.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func manual(subject string, elapsedSec int64) sessiondto.RecordInput {
	return sessiondto.RecordInput{UserID: "u1", Subject: subject, ElapsedSec: elapsedSec, Energy: 3, Difficulty: 2, Mood: "calm"}
}

func TestRecordFloorsShortSessionToOneMinute(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)
	out, err := h.uc.Record(context.Background(), manual("Math", 45))
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if out.Session.DurationMin != 1 {
		t.Fatalf("expected 1 minute, got %d", out.Session.DurationMin)
	}
	if out.CoinsEarned != 1 || out.Snapshot.State.Coins != 1 || out.Snapshot.MinutesToday != 1 {
		t.Fatalf("unexpected reward settlement %+v", out)
	}
	if !out.Session.StartedAt.Equal(out.Session.EndedAt.Add(-45 * time.Second)) {
		t.Fatalf("expected derived start time, got %+v", out.Session)
	}
}

func TestRecordRejectsInvalidInputWithoutWriting(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)
	bad := []sessiondto.RecordInput{
		manual(" ", 600),
		manual("Math", 0),
		func() sessiondto.RecordInput { in := manual("Math", 600); in.Energy = 6; return in }(),
		func() sessiondto.RecordInput { in := manual("Math", 600); in.Distractions = -2; return in }(),
	}
	for _, input := range bad {
		if _, err := h.uc.Record(context.Background(), input); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("expected invalid input for %+v, got %v", input, err)
		}
	}
	if n := h.count(t, "study_sessions"); n != 0 {
		t.Fatalf("expected no sessions, got %d", n)
	}
	if n := h.count(t, "reward_log"); n != 0 {
		t.Fatalf("expected no rewards, got %d", n)
	}
}

func TestRecordGrantsGoalBonusOnce(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)
	ctx := context.Background()
	if _, err := h.ledger.SetGoal(ctx, ledgerdto.SetGoalInput{UserID: "u1", GoalMin: 60}); err != nil {
		t.Fatalf("set goal: %v", err)
	}
	first, err := h.uc.Record(ctx, manual("Math", 40*60))
	if err != nil {
		t.Fatalf("first record: %v", err)
	}
	if first.Bonus.Granted {
		t.Fatalf("bonus must wait for the goal")
	}
	second, err := h.uc.Record(ctx, manual("English", 30*60))
	if err != nil {
		t.Fatalf("second record: %v", err)
	}
	third, err := h.uc.Record(ctx, manual("Math", 10*60))
	if err != nil {
		t.Fatalf("third record: %v", err)
	}
	if !second.Bonus.Granted || third.Bonus.Granted || !third.Bonus.AlreadyClaimed {
		t.Fatalf("expected a single bonus, got %+v then %+v", second.Bonus, third.Bonus)
	}
	if got := third.Snapshot.State.Coins; got != 80+50 {
		t.Fatalf("expected 130 coins, got %d", got)
	}
	if third.Snapshot.Streak != 1 || !third.Snapshot.BonusClaimed {
		t.Fatalf("unexpected snapshot %+v", third.Snapshot)
	}
}

type failingBonusLedger struct {
	ledgerin.Usecase
}

func (failingBonusLedger) ClaimGoalBonus(context.Context, string, time.Time) (ledgerdto.BonusOutput, error) {
	return ledgerdto.BonusOutput{}, apperrors.Storage("claim reward", errors.New("disk I/O error"))
}

func TestRecordRollsBackWhenSettlementFails(t *testing.T) {
	t.Parallel()
	h := newHarness(t, func(l ledgerin.Usecase) ledgerin.Usecase { return failingBonusLedger{Usecase: l} })
	_, err := h.uc.Record(context.Background(), manual("Math", 30*60))
	if !errors.Is(err, apperrors.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if n := h.count(t, "study_sessions"); n != 0 {
		t.Fatalf("expected session rollback, got %d rows", n)
	}
	if n := h.count(t, "reward_log"); n != 0 {
		t.Fatalf("expected reward rollback, got %d rows", n)
	}
}

func TestBackdatedRecordLiftsLaterStoredStreak(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)
	ctx := context.Background()
	day1 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	for _, d := range []time.Time{day2, day1} {
		in := manual("Math", 130*60)
		in.Date = d
		if _, err := h.uc.Record(ctx, in); err != nil {
			t.Fatalf("record %s: %v", d.Format("2006-01-02"), err)
		}
	}
	state, err := h.ledger.GetOrInitDaily(ctx, "u1", day2)
	if err != nil {
		t.Fatalf("read day 2: %v", err)
	}
	computed, err := h.ledger.ComputeStreak(ctx, "u1", day2)
	if err != nil {
		t.Fatalf("compute streak: %v", err)
	}
	if state.Streak != 2 || computed != 2 {
		t.Fatalf("expected stored and computed streak 2, got %d / %d", state.Streak, computed)
	}
}

func TestSubjectsRejectDuplicatesAndBlanks(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)
	ctx := context.Background()
	if _, err := h.uc.AddSubject(ctx, "u1", " Physics "); err != nil {
		t.Fatalf("add subject: %v", err)
	}
	if _, err := h.uc.AddSubject(ctx, "u1", "Physics"); !errors.Is(err, apperrors.ErrDuplicateName) {
		t.Fatalf("expected duplicate name, got %v", err)
	}
	if _, err := h.uc.AddSubject(ctx, "u2", "Physics"); err != nil {
		t.Fatalf("other users may reuse names: %v", err)
	}
	if _, err := h.uc.AddSubject(ctx, "u1", ""); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	subjects, err := h.uc.ListSubjects(ctx, "u1")
	if err != nil {
		t.Fatalf("list subjects: %v", err)
	}
	if len(subjects) != 1 || subjects[0].Name != "Physics" {
		t.Fatalf("unexpected subjects %+v", subjects)
	}
}

func TestStopwatchPauseResumeStop(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)
	ctx := context.Background()
	if _, err := h.uc.TimerStart(ctx, "u1", "Math"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := h.uc.TimerStart(ctx, "u1", "Math"); !errors.Is(err, apperrors.ErrTimerActive) {
		t.Fatalf("expected timer active, got %v", err)
	}
	if _, err := h.uc.PomodoroStart(ctx, "u1", "Math"); !errors.Is(err, apperrors.ErrTimerActive) {
		t.Fatalf("expected timer active for pomodoro, got %v", err)
	}
	h.clock.Advance(10 * time.Minute)
	paused, err := h.uc.TimerPause(ctx)
	if err != nil {
		t.Fatalf("pause: %v", err)
	}
	if paused.Running || paused.Elapsed != 10*time.Minute {
		t.Fatalf("unexpected paused state %+v", paused)
	}
	h.clock.Advance(time.Hour)
	if _, err := h.uc.TimerStart(ctx, "u1", ""); err != nil {
		t.Fatalf("resume: %v", err)
	}
	h.clock.Advance(5*time.Minute + 30*time.Second)
	status, err := h.uc.TimerStatus(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Elapsed != 15*time.Minute+30*time.Second {
		t.Fatalf("expected 15m30s elapsed, got %s", status.Elapsed)
	}

	recorded, err := h.uc.TimerStop(ctx, sessiondto.StopInput{Energy: 4, Difficulty: 3, Distractions: 1})
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if recorded.Session.DurationMin != 15 || recorded.Session.Source != "stopwatch" {
		t.Fatalf("unexpected recorded session %+v", recorded.Session)
	}
	if _, err := h.uc.TimerStatus(ctx); !errors.Is(err, apperrors.ErrNoActiveTimer) {
		t.Fatalf("expected cleared timer, got %v", err)
	}
	if _, err := h.uc.TimerPause(ctx); !errors.Is(err, apperrors.ErrNoActiveTimer) {
		t.Fatalf("expected no active timer, got %v", err)
	}
}

func TestStopwatchStopKeepsTimerWhenRecordFails(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)
	ctx := context.Background()
	if _, err := h.uc.TimerStart(ctx, "u1", "Math"); err != nil {
		t.Fatalf("start: %v", err)
	}
	h.clock.Advance(3 * time.Minute)
	if _, err := h.uc.TimerStop(ctx, sessiondto.StopInput{Energy: 0, Difficulty: 3}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid energy, got %v", err)
	}
	if _, err := h.uc.TimerStatus(ctx); err != nil {
		t.Fatalf("timer should survive a failed stop: %v", err)
	}
}

func TestPomodoroRecordsCompletedFocus(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)
	ctx := context.Background()
	started, err := h.uc.PomodoroStart(ctx, "u1", "English")
	if err != nil {
		t.Fatalf("pomodoro start: %v", err)
	}
	if started.Phase != "focus" || started.Remaining != 25*time.Minute {
		t.Fatalf("unexpected start %+v", started)
	}

	h.clock.Advance(20 * time.Minute)
	tick, err := h.uc.PomodoroTick(ctx)
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if tick.Flipped || tick.Timer.Remaining != 5*time.Minute {
		t.Fatalf("unexpected early tick %+v", tick)
	}

	h.clock.Advance(6 * time.Minute)
	tick, err = h.uc.PomodoroTick(ctx)
	if err != nil {
		t.Fatalf("tick after focus: %v", err)
	}
	if !tick.Flipped || tick.Timer.Phase != "break" || tick.Recorded == nil {
		t.Fatalf("expected focus to complete, got %+v", tick)
	}
	if tick.Recorded.Session.DurationMin != 25 || tick.Recorded.Session.Source != "pomodoro" {
		t.Fatalf("unexpected focus session %+v", tick.Recorded.Session)
	}

	h.clock.Advance(5 * time.Minute)
	tick, err = h.uc.PomodoroTick(ctx)
	if err != nil {
		t.Fatalf("tick after break: %v", err)
	}
	if !tick.Flipped || tick.Timer.Phase != "focus" || tick.Recorded != nil || tick.Timer.CompletedFocus != 1 {
		t.Fatalf("expected break to end without a record, got %+v", tick)
	}
	if n := h.count(t, "study_sessions"); n != 1 {
		t.Fatalf("expected one focus session, got %d", n)
	}
	if _, err := h.uc.PomodoroStop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if _, err := h.uc.PomodoroTick(ctx); !errors.Is(err, apperrors.ErrNoActiveTimer) {
		t.Fatalf("expected no timer after stop, got %v", err)
	}
}

func TestTotalsAggregateByDayAndSubject(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)
	ctx := context.Background()
	yesterday := h.clock.Now().AddDate(0, 0, -1)
	inputs := []sessiondto.RecordInput{manual("Math", 30*60), manual("Math", 20*60), manual("English", 15*60)}
	inputs[2].Date = yesterday
	inputs[2].Energy = 5
	for _, input := range inputs {
		if _, err := h.uc.Record(ctx, input); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	days, err := h.uc.DailyTotals(ctx, "u1", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("daily totals: %v", err)
	}
	if len(days) != 2 || days[0].Minutes != 15 || days[1].Minutes != 50 || days[1].Sessions != 2 {
		t.Fatalf("unexpected daily totals %+v", days)
	}
	subjects, err := h.uc.SubjectTotals(ctx, "u1", yesterday, h.clock.Now())
	if err != nil {
		t.Fatalf("subject totals: %v", err)
	}
	if len(subjects) != 2 || subjects[0].Subject != "Math" || subjects[0].Minutes != 50 || subjects[1].AvgEnergy != 5 {
		t.Fatalf("unexpected subject totals %+v", subjects)
	}
	listed, err := h.uc.List(ctx, sessiondto.ListInput{UserID: "u1", Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 2 || listed[0].Subject != "Math" {
		t.Fatalf("unexpected listing %+v", listed)
	}
	if _, err := h.uc.DailyTotals(ctx, "u1", h.clock.Now(), yesterday); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected inverted window to fail, got %v", err)
	}
}

// stuckTimers fails writes to the timer file while broken is set.
type stuckTimers struct {
	sessionport.TimerStore
	broken atomic.Bool
}

func (s *stuckTimers) Save(ctx context.Context, state sessiondomain.TimerState) error {
	if s.broken.Load() {
		return apperrors.Storage("save timer", errors.New("read-only file system"))
	}
	return s.TimerStore.Save(ctx, state)
}

func (s *stuckTimers) Clear(ctx context.Context) error {
	if s.broken.Load() {
		return apperrors.Storage("clear timer", errors.New("read-only file system"))
	}
	return s.TimerStore.Clear(ctx)
}

func (h harness) studyCoins(t *testing.T) int {
	t.Helper()
	var sum int
	if err := h.db.QueryRow(`SELECT COALESCE(SUM(coins_change), 0) FROM reward_log WHERE type = 'study'`).Scan(&sum); err != nil {
		t.Fatalf("sum study coins: %v", err)
	}
	return sum
}

func TestPomodoroTickPaysOnceWhenTimerWriteFails(t *testing.T) {
	t.Parallel()
	stuck := &stuckTimers{}
	h := newHarnessWithTimers(t, nil, func(inner sessionport.TimerStore) sessionport.TimerStore {
		stuck.TimerStore = inner
		return stuck
	})
	ctx := context.Background()
	if _, err := h.uc.PomodoroStart(ctx, "u1", "Math"); err != nil {
		t.Fatalf("pomodoro start: %v", err)
	}
	h.clock.Advance(26 * time.Minute)

	stuck.broken.Store(true)
	if _, err := h.uc.PomodoroTick(ctx); !errors.Is(err, apperrors.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if n, coins := h.count(t, "study_sessions"), h.studyCoins(t); n != 0 || coins != 0 {
		t.Fatalf("expected nothing recorded while the timer is stuck, got %d sessions / %d coins", n, coins)
	}

	stuck.broken.Store(false)
	for i := 0; i < 2; i++ {
		if _, err := h.uc.PomodoroTick(ctx); err != nil {
			t.Fatalf("tick: %v", err)
		}
	}
	if n, coins := h.count(t, "study_sessions"), h.studyCoins(t); n != 1 || coins != 25 {
		t.Fatalf("expected one focus block paid once, got %d sessions / %d coins", n, coins)
	}
}

func TestStopwatchStopPaysOnceWhenTimerWriteFails(t *testing.T) {
	t.Parallel()
	stuck := &stuckTimers{}
	h := newHarnessWithTimers(t, nil, func(inner sessionport.TimerStore) sessionport.TimerStore {
		stuck.TimerStore = inner
		return stuck
	})
	ctx := context.Background()
	if _, err := h.uc.TimerStart(ctx, "u1", "Math"); err != nil {
		t.Fatalf("start: %v", err)
	}
	h.clock.Advance(10 * time.Minute)

	stuck.broken.Store(true)
	stop := sessiondto.StopInput{Energy: 3, Difficulty: 3}
	if _, err := h.uc.TimerStop(ctx, stop); !errors.Is(err, apperrors.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if coins := h.studyCoins(t); coins != 0 {
		t.Fatalf("expected no coins before the timer is cleared, got %d", coins)
	}
	if _, err := h.uc.TimerStatus(ctx); err != nil {
		t.Fatalf("timer should survive a failed clear: %v", err)
	}

	stuck.broken.Store(false)
	if _, err := h.uc.TimerStop(ctx, stop); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if _, err := h.uc.TimerStop(ctx, stop); !errors.Is(err, apperrors.ErrNoActiveTimer) {
		t.Fatalf("expected second stop to find no timer, got %v", err)
	}
	if n, coins := h.count(t, "study_sessions"), h.studyCoins(t); n != 1 || coins != 10 {
		t.Fatalf("expected one run paid once, got %d sessions / %d coins", n, coins)
	}
}
