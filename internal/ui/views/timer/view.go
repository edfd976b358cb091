package timer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "studyledger/internal/modules/session/dto"
	apperrors "studyledger/internal/platform/errors"
	"studyledger/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

// Port is the minimal interface this view needs from the session use-case.
type Port interface {
	TimerStart(ctx context.Context, userID, subject string) (sessiondto.TimerOutput, error)
	TimerPause(ctx context.Context) (sessiondto.TimerOutput, error)
	TimerStop(ctx context.Context, input sessiondto.StopInput) (sessiondto.RecordOutput, error)
	TimerStatus(ctx context.Context) (sessiondto.TimerOutput, error)
	PomodoroStart(ctx context.Context, userID, subject string) (sessiondto.TimerOutput, error)
	PomodoroTick(ctx context.Context) (sessiondto.TickOutput, error)
	PomodoroStop(ctx context.Context) (sessiondto.TimerOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type tickMsg time.Time

// StateMsg replaces the displayed timer. Idle is set when no timer exists.
type StateMsg struct {
	Timer sessiondto.TimerOutput
	Idle  bool
	Err   error
}

// RecordedMsg reports a session written by a stop or a finished focus phase.
// The app model refreshes the dashboard when it sees one.
type RecordedMsg struct {
	Record sessiondto.RecordOutput
	Err    error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port      Port
	userID    string
	timer     sessiondto.TimerOutput
	idle      bool
	fetchedAt time.Time
	now       time.Time
	ticking   bool
	last      string
	width     int
	height    int
}

func New(port Port, userID string) Model {
	return Model{port: port, userID: userID, idle: true}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.statusCmd(), tick())
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		m.now = time.Time(msg)
		cmds := []tea.Cmd{tick()}
		if m.phaseDue() && !m.ticking {
			m.ticking = true
			cmds = append(cmds, m.pomodoroTickCmd())
		}
		return m, tea.Batch(cmds...)

	case StateMsg:
		m.ticking = false
		if msg.Err != nil {
			m.last = theme.Hot.Render(msg.Err.Error())
			return m, nil
		}
		m.idle = msg.Idle
		m.timer = msg.Timer
		m.fetchedAt = time.Now()
		m.now = m.fetchedAt

	case RecordedMsg:
		if msg.Err != nil {
			m.last = theme.Hot.Render("record failed: " + msg.Err.Error())
			return m, nil
		}
		s := msg.Record.Session
		m.last = fmt.Sprintf("recorded %d min of %s (+%d coins)", s.DurationMin, s.Subject, msg.Record.CoinsEarned)
		if msg.Record.Bonus.Granted {
			m.last += theme.Ok.Render(fmt.Sprintf("  goal bonus +%d", msg.Record.Bonus.Amount))
		}
		return m, m.statusCmd()
	}
	return m, nil
}

func (m Model) View() string {
	var sb strings.Builder
	if m.idle {
		sb.WriteString(theme.Title.Render("No timer running") + "\n\n")
		sb.WriteString(theme.Muted.Render(":timer:start <subject>  or  :pomodoro:start <subject>") + "\n")
	} else {
		t := m.timer
		state := "running"
		if !t.Running {
			state = "paused"
		}
		sb.WriteString(theme.Title.Render(fmt.Sprintf("%s · %s", t.Subject, t.Mode)) + "  " + theme.Muted.Render(state) + "\n\n")
		if t.Mode == "pomodoro" {
			sb.WriteString(theme.Hot.Render(strings.ToUpper(t.Phase)) + "  " + clockFace(m.remaining()) + "\n")
			sb.WriteString(theme.Muted.Render(fmt.Sprintf("focus blocks done: %d", t.CompletedFocus)) + "\n")
		} else {
			sb.WriteString(clockFace(m.elapsed()) + "\n")
		}
	}
	if m.last != "" {
		sb.WriteString("\n" + m.last + "\n")
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, sb.String())
}

// Active reports whether a timer is loaded.
func (m Model) Active() bool { return !m.idle }

func (m Model) Start(subject string) tea.Cmd {
	return m.stateCmd(func(ctx context.Context) (sessiondto.TimerOutput, error) {
		return m.port.TimerStart(ctx, m.userID, subject)
	})
}

func (m Model) Pause() tea.Cmd {
	return m.stateCmd(m.port.TimerPause)
}

func (m Model) StartPomodoro(subject string) tea.Cmd {
	return m.stateCmd(func(ctx context.Context) (sessiondto.TimerOutput, error) {
		return m.port.PomodoroStart(ctx, m.userID, subject)
	})
}

func (m Model) StopPomodoro() tea.Cmd {
	port := m.port
	return func() tea.Msg {
		if _, err := port.PomodoroStop(context.Background()); err != nil {
			return StateMsg{Err: err}
		}
		return StateMsg{Idle: true}
	}
}

func (m Model) Stop(input sessiondto.StopInput) tea.Cmd {
	port := m.port
	return func() tea.Msg {
		out, err := port.TimerStop(context.Background(), input)
		return RecordedMsg{Record: out, Err: err}
	}
}

// ─── private ─────────────────────────────────────────────────────────────────

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// elapsed and remaining extrapolate from the last fetch so the clock moves
// without reading the timer file every second.
func (m Model) elapsed() time.Duration {
	if !m.timer.Running {
		return m.timer.Elapsed
	}
	return m.timer.Elapsed + m.now.Sub(m.fetchedAt)
}

func (m Model) remaining() time.Duration {
	r := m.timer.Remaining - m.now.Sub(m.fetchedAt)
	if r < 0 {
		return 0
	}
	return r
}

func (m Model) phaseDue() bool {
	return !m.idle && m.timer.Mode == "pomodoro" && m.timer.Running && m.remaining() == 0
}

func (m Model) statusCmd() tea.Cmd {
	return m.stateCmd(m.port.TimerStatus)
}

func (m Model) stateCmd(fn func(context.Context) (sessiondto.TimerOutput, error)) tea.Cmd {
	return func() tea.Msg {
		out, err := fn(context.Background())
		if errors.Is(err, apperrors.ErrNoActiveTimer) {
			return StateMsg{Idle: true}
		}
		return StateMsg{Timer: out, Err: err}
	}
}

func (m Model) pomodoroTickCmd() tea.Cmd {
	port := m.port
	return func() tea.Msg {
		out, err := port.PomodoroTick(context.Background())
		if err != nil {
			return StateMsg{Err: err}
		}
		if out.Recorded != nil {
			return RecordedMsg{Record: *out.Recorded}
		}
		return StateMsg{Timer: out.Timer}
	}
}

func clockFace(d time.Duration) string {
	d = d.Truncate(time.Second)
	h := int(d / time.Hour)
	mnt := int(d%time.Hour) / int(time.Minute)
	s := int(d%time.Minute) / int(time.Second)
	return theme.Hot.Render(fmt.Sprintf("%02d:%02d:%02d", h, mnt, s))
}
