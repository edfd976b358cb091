package today

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	ledgerdto "studyledger/internal/modules/ledger/dto"
	"studyledger/internal/ui/components"
	"studyledger/internal/ui/theme"
)

const weekDays = 7

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	Today(ctx context.Context, userID string) (ledgerdto.SnapshotOutput, error)
	Week(ctx context.Context, userID string, end time.Time, days int) ([]ledgerdto.DayMinutesOutput, error)
	History(ctx context.Context, userID string, limit int) ([]ledgerdto.RewardOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

// LoadedMsg carries everything the dashboard shows. The app model also reads
// it to pick up the equipped theme.
type LoadedMsg struct {
	Snapshot ledgerdto.SnapshotOutput
	Week     []ledgerdto.DayMinutesOutput
	History  []ledgerdto.RewardOutput
	Err      error
}

// ─── list item ───────────────────────────────────────────────────────────────

type rewardItem struct{ r ledgerdto.RewardOutput }

func (i rewardItem) Title() string {
	return fmt.Sprintf("%+d  %s", i.r.CoinsChange, i.r.Type)
}
func (i rewardItem) Description() string {
	desc := i.r.Date.Format("2006-01-02")
	if i.r.Name != "" {
		desc += "  " + i.r.Name
	}
	return desc
}
func (i rewardItem) FilterValue() string { return i.r.Type + " " + i.r.Name }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port     Port
	userID   string
	snapshot ledgerdto.SnapshotOutput
	week     []ledgerdto.DayMinutesOutput
	rewards  list.Model
	bar      progress.Model
	spinner  spinner.Model
	loading  bool
	err      error
	width    int
	height   int
}

func New(port Port, userID string) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Coins"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:    port,
		userID:  userID,
		rewards: l,
		bar:     progress.New(progress.WithGradient(string(theme.Peach), string(theme.Green))),
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Refresh(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case LoadedMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Err != nil {
			return m, nil
		}
		m.snapshot = msg.Snapshot
		m.week = msg.Week
		items := make([]list.Item, len(msg.History))
		for i, r := range msg.History {
			items[i] = rewardItem{r: r}
		}
		cmds = append(cmds, m.rewards.SetItems(items))

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.loading {
		var lCmd tea.Cmd
		m.rewards, lCmd = m.rewards.Update(msg)
		cmds = append(cmds, lCmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading today…")
	}
	if m.err != nil {
		return theme.Hot.Render("Error: " + m.err.Error())
	}

	leftW := m.width * 6 / 10
	left := lipgloss.NewStyle().Width(leftW).Height(m.height).Render(m.renderSummary(leftW))
	right := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Width(m.width - leftW - 2).
		Height(m.height - 2).
		Render(m.rewards.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

// Refresh reloads the snapshot, the last seven days and recent coin moves.
func (m Model) Refresh() tea.Cmd {
	port, userID := m.port, m.userID
	return func() tea.Msg {
		ctx := context.Background()
		snap, err := port.Today(ctx, userID)
		if err != nil {
			return LoadedMsg{Err: err}
		}
		week, err := port.Week(ctx, userID, time.Time{}, weekDays)
		if err != nil {
			return LoadedMsg{Err: err}
		}
		history, err := port.History(ctx, userID, 20)
		return LoadedMsg{Snapshot: snap, Week: week, History: history, Err: err}
	}
}

// Coins returns the balance of the last loaded snapshot.
func (m Model) Coins() int { return m.snapshot.State.Coins }

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	leftW := m.width * 6 / 10
	m.bar.Width = leftW - 6
	m.rewards.SetSize(m.width-leftW-4, m.height-4)
}

func (m Model) renderSummary(width int) string {
	s := m.snapshot
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Today "+s.State.Date.Format("2006-01-02")) + "\n\n")
	sb.WriteString(fmt.Sprintf("%s%d / %d min\n", theme.Muted.Render("studied: "), s.MinutesToday, s.State.GoalMin))
	sb.WriteString(m.bar.ViewAs(s.Progress) + "\n\n")
	sb.WriteString(fmt.Sprintf("%s%d\n", theme.Muted.Render("coins:   "), s.State.Coins))
	sb.WriteString(fmt.Sprintf("%s%d day(s)\n", theme.Muted.Render("streak:  "), s.Streak))
	bonus := "not yet"
	if s.BonusClaimed {
		bonus = theme.Ok.Render("claimed")
	}
	sb.WriteString(theme.Muted.Render("bonus:   ") + bonus + "\n")
	sb.WriteString(theme.Muted.Render("mascot:  ") + s.State.EquippedMascot + "\n\n")

	bars := make([]components.Bar, 0, len(m.week))
	for _, d := range m.week {
		bars = append(bars, components.Bar{Label: d.Date.Format("Mon 01/02"), Value: d.Minutes, Goal: d.GoalMin})
	}
	sb.WriteString(theme.Title.Render("Last 7 days") + "\n")
	sb.WriteString(components.BarChart(bars, width-2))
	return sb.String()
}
