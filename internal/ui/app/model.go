package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	ledgerdto "studyledger/internal/modules/ledger/dto"
	sessiondto "studyledger/internal/modules/session/dto"
	"studyledger/internal/ui/components"
	"studyledger/internal/ui/theme"
	diaryview "studyledger/internal/ui/views/diary"
	shopview "studyledger/internal/ui/views/shop"
	timerview "studyledger/internal/ui/views/timer"
	todayview "studyledger/internal/ui/views/today"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type ledgerPort interface {
	todayview.Port
	SetGoal(ctx context.Context, userID string, date time.Time, minutes int) (ledgerdto.DailyStateOutput, error)
	ClaimBonus(ctx context.Context, userID string, date time.Time) (ledgerdto.BonusOutput, error)
}

// User is the logged-in account the dashboard acts for.
type User struct {
	ID   string
	Name string
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabToday tabID = iota
	tabTimer
	tabShop
	tabDiary
	tabCount
)

var tabLabels = [tabCount]string{
	"Today", "Timer", "Shop", "Diary",
}

// ─── async messages ───────────────────────────────────────────────────────────

type goalSetMsg struct {
	state ledgerdto.DailyStateOutput
	err   error
}

type bonusMsg struct {
	out ledgerdto.BonusOutput
	err error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Pause   key.Binding
	Stop    key.Binding
	Buy     key.Binding
	Equip   key.Binding
	Refresh key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Pause:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause/resume timer")),
		Stop:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop timer")),
		Buy:     key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "buy item")),
		Equip:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "equip item")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Refresh},
		{k.Pause, k.Stop},
		{k.Buy, k.Equip},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the help overlay
// and the command palette. Rendering is delegated to sub-views.
type Model struct {
	user   User
	ledger ledgerPort

	todayView todayview.Model
	timerView timerview.Model
	shopView  shopview.Model
	diaryView diaryview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(user User, ledger ledgerPort, session timerview.Port, shop shopview.Port, diary diaryview.Port) Model {
	return Model{
		user:      user,
		ledger:    ledger,
		todayView: todayview.New(ledger, user.ID),
		timerView: timerview.New(session, user.ID),
		shopView:  shopview.New(shop, user.ID),
		diaryView: diaryview.New(diary, user.ID),
		activeTab: tabToday,
		keys:      defaultKeys(),
		help:      help.New(),
		palette:   components.NewPalette(),
		status:    "hello, " + user.Name,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.todayView.Init(),
		m.timerView.Init(),
		m.shopView.Init(),
		m.diaryView.Init(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all key input while open.
	if _, isKey := msg.(tea.KeyMsg); isKey && m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	// Messages owned by one view are routed there regardless of the active
	// tab; some of them also update app-level state.
	case todayview.LoadedMsg:
		if msg.Err == nil {
			theme.Apply(msg.Snapshot.State.EquippedTheme)
		}
		var cmd tea.Cmd
		m.todayView, cmd = m.todayView.Update(msg)
		return m, cmd

	case timerview.StateMsg, timerview.RecordedMsg:
		var cmd tea.Cmd
		m.timerView, cmd = m.timerView.Update(msg)
		if rec, ok := msg.(timerview.RecordedMsg); ok && rec.Err == nil {
			m.status = fmt.Sprintf("+%d coins", rec.Record.CoinsEarned)
			return m, tea.Batch(cmd, m.todayView.Refresh())
		}
		return m, cmd

	case shopview.ItemsLoadedMsg, shopview.PurchasedMsg, shopview.EquippedMsg:
		var cmd tea.Cmd
		m.shopView, cmd = m.shopView.Update(msg)
		switch msg := msg.(type) {
		case shopview.PurchasedMsg:
			if msg.Err == nil {
				cmds = append(cmds, m.todayView.Refresh())
			}
		case shopview.EquippedMsg:
			if msg.Err == nil {
				theme.Apply(msg.Out.Theme)
				m.status = "theme: " + theme.Current()
				cmds = append(cmds, m.todayView.Refresh())
			}
		}
		return m, tea.Batch(append(cmds, cmd)...)

	case diaryview.EntriesLoadedMsg, diaryview.AddedMsg:
		var cmd tea.Cmd
		m.diaryView, cmd = m.diaryView.Update(msg)
		if added, ok := msg.(diaryview.AddedMsg); ok && added.Err == nil {
			m.status = "diary entry saved"
		}
		return m, cmd

	case goalSetMsg:
		if msg.err != nil {
			m.status = "goal: " + msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("goal set to %d min", msg.state.GoalMin)
		return m, m.todayView.Refresh()

	case bonusMsg:
		switch {
		case msg.err != nil:
			m.status = "bonus: " + msg.err.Error()
		case msg.out.Granted:
			m.status = fmt.Sprintf("goal bonus +%d", msg.out.Amount)
		case msg.out.AlreadyClaimed:
			m.status = "bonus already claimed today"
		default:
			m.status = fmt.Sprintf("%d more minutes for the bonus", msg.out.GoalMin-msg.out.MinutesToday)
		}
		return m, m.todayView.Refresh()

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to sub-view when its search filter is active.
		if m.subViewFiltering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			return m, m.palette.Open()
		case "r":
			return m, tea.Batch(m.todayView.Refresh(), m.shopView.Reload(), m.diaryView.Search(""))
		case "p":
			if m.activeTab == tabTimer {
				return m, m.timerView.Pause()
			}
		case "x":
			if m.activeTab == tabTimer {
				return m, m.timerView.Stop(sessiondto.StopInput{})
			}
		}
	}

	// Anything else (keys, ticks) goes to the active tab; the timer also keeps
	// its clock running in the background.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabToday:
		m.todayView, tabCmd = m.todayView.Update(msg)
	case tabTimer:
		m.timerView, tabCmd = m.timerView.Update(msg)
	case tabShop:
		m.shopView, tabCmd = m.shopView.Update(msg)
	case tabDiary:
		m.diaryView, tabCmd = m.diaryView.Update(msg)
	}
	cmds = append(cmds, tabCmd)
	if _, isKey := msg.(tea.KeyMsg); !isKey && m.activeTab != tabTimer {
		var cmd tea.Cmd
		m.timerView, cmd = m.timerView.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := m.height - lipgloss.Height(tabBar) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabToday:
		return m.todayView.View()
	case tabTimer:
		return m.timerView.View()
	case tabShop:
		return m.shopView.View()
	case tabDiary:
		return m.diaryView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "studyledger  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := fmt.Sprintf("%s  %d coins  %s", m.user.Name, m.todayView.Coins(), m.status)
	if m.timerView.Active() {
		left = theme.Hot.Render("● timer") + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)
	rest := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))

	switch parts[0] {
	case "timer:start":
		m.activeTab = tabTimer
		return m, m.timerView.Start(rest)

	case "timer:pause":
		return m, m.timerView.Pause()

	case "timer:stop":
		stop := sessiondto.StopInput{}
		if len(parts) >= 2 {
			n, err := strconv.Atoi(parts[1])
			if err != nil {
				m.status = "usage: timer:stop [distractions] [mood]"
				return m, nil
			}
			stop.Distractions = n
		}
		if len(parts) >= 3 {
			stop.Mood = parts[2]
		}
		return m, m.timerView.Stop(stop)

	case "pomodoro:start":
		m.activeTab = tabTimer
		return m, m.timerView.StartPomodoro(rest)

	case "pomodoro:stop":
		return m, m.timerView.StopPomodoro()

	case "goal:set":
		minutes, err := strconv.Atoi(rest)
		if err != nil {
			m.status = "usage: goal:set <minutes>"
			return m, nil
		}
		return m, m.setGoalCmd(minutes)

	case "bonus:claim":
		return m, m.claimBonusCmd()

	case "shop:buy", "shop:equip":
		if len(parts) < 3 {
			m.status = "usage: " + parts[0] + " <type> <name>"
			return m, nil
		}
		m.activeTab = tabShop
		if parts[0] == "shop:buy" {
			return m, m.shopView.Buy(parts[1], parts[2])
		}
		return m, m.shopView.Equip(parts[1], parts[2])

	case "diary:add":
		if len(parts) < 3 {
			m.status = "usage: diary:add <mood> <text>"
			return m, nil
		}
		m.activeTab = tabDiary
		text := strings.TrimSpace(strings.TrimPrefix(rest, parts[1]))
		return m, m.diaryView.Add(parts[1], text)

	case "diary:search":
		m.activeTab = tabDiary
		return m, m.diaryView.Search(rest)

	case "refresh":
		return m, tea.Batch(m.todayView.Refresh(), m.shopView.Reload(), m.diaryView.Search(""))

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// subViewFiltering reports whether the active tab's list filter is open,
// in which case global key bindings must yield to allow free typing.
func (m Model) subViewFiltering() bool {
	switch m.activeTab {
	case tabShop:
		return m.shopView.Filtering()
	case tabDiary:
		return m.diaryView.Filtering()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.todayView, _ = m.todayView.Update(sz)
	m.timerView, _ = m.timerView.Update(sz)
	m.shopView, _ = m.shopView.Update(sz)
	m.diaryView, _ = m.diaryView.Update(sz)
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) setGoalCmd(minutes int) tea.Cmd {
	ledger, userID := m.ledger, m.user.ID
	return func() tea.Msg {
		state, err := ledger.SetGoal(context.Background(), userID, time.Time{}, minutes)
		return goalSetMsg{state: state, err: err}
	}
}

func (m Model) claimBonusCmd() tea.Cmd {
	ledger, userID := m.ledger, m.user.ID
	return func() tea.Msg {
		out, err := ledger.ClaimBonus(context.Background(), userID, time.Time{})
		return bonusMsg{out: out, err: err}
	}
}
