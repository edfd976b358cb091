package diary

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	diarydto "studyledger/internal/modules/diary/dto"
	"studyledger/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	List(ctx context.Context, userID, query, mood, tag string, limit int) ([]diarydto.EntryOutput, error)
	Add(ctx context.Context, input diarydto.CreateInput) (diarydto.EntryOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type EntriesLoadedMsg struct {
	Query   string
	Entries []diarydto.EntryOutput
	Err     error
}

type AddedMsg struct {
	Entry diarydto.EntryOutput
	Err   error
}

// ─── list item ───────────────────────────────────────────────────────────────

type entryItem struct{ e diarydto.EntryOutput }

func (i entryItem) Title() string {
	return i.e.Date.Format("2006-01-02") + "  " + firstLine(i.e.Content)
}
func (i entryItem) Description() string {
	desc := fmt.Sprintf("%s %d/5", i.e.Mood, i.e.MoodScore)
	if len(i.e.Tags) > 0 {
		desc += "  #" + strings.Join(i.e.Tags, " #")
	}
	if n := len(i.e.Files); n > 0 {
		desc += fmt.Sprintf("  [%d file(s)]", n)
	}
	return desc
}
func (i entryItem) FilterValue() string { return i.e.Content + " " + strings.Join(i.e.Tags, " ") }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port     Port
	userID   string
	query    string
	list     list.Model
	preview  viewport.Model
	renderer *glamour.TermRenderer
	width    int
	height   int
}

func New(port Port, userID string) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Diary"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	r, _ := glamour.NewTermRenderer(glamour.WithStylePath("dark"), glamour.WithWordWrap(0))
	return Model{port: port, userID: userID, list: l, preview: viewport.New(0, 0), renderer: r}
}

func (m Model) Init() tea.Cmd { return m.Search("") }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.preview.SetContent(m.renderSelected())

	case EntriesLoadedMsg:
		if msg.Err != nil {
			m.list.Title = "Diary: " + msg.Err.Error()
			return m, nil
		}
		m.query = msg.Query
		m.list.Title = "Diary"
		if msg.Query != "" {
			m.list.Title = fmt.Sprintf("Diary · %q", msg.Query)
		}
		items := make([]list.Item, len(msg.Entries))
		for i, e := range msg.Entries {
			items[i] = entryItem{e: e}
		}
		cmds = append(cmds, m.list.SetItems(items))
		m.preview.SetContent(m.renderSelected())

	case AddedMsg:
		if msg.Err != nil {
			m.list.Title = "Diary: " + msg.Err.Error()
			return m, nil
		}
		return m, m.Search(m.query)
	}

	prev := m.list.Index()
	var lCmd tea.Cmd
	m.list, lCmd = m.list.Update(msg)
	cmds = append(cmds, lCmd)
	if m.list.Index() != prev {
		m.preview.SetContent(m.renderSelected())
		m.preview.GotoTop()
	}
	var vCmd tea.Cmd
	m.preview, vCmd = m.preview.Update(msg)
	cmds = append(cmds, vCmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	listW := m.width * 4 / 10
	listPane := lipgloss.NewStyle().Width(listW).Height(m.height).Render(m.list.View())
	previewPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Width(m.width - listW - 2).
		Height(m.height - 2).
		Render(m.preview.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, previewPane)
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// Search reloads entries whose content or tags contain query.
func (m Model) Search(query string) tea.Cmd {
	port, userID := m.port, m.userID
	return func() tea.Msg {
		entries, err := port.List(context.Background(), userID, query, "", "", 0)
		return EntriesLoadedMsg{Query: query, Entries: entries, Err: err}
	}
}

func (m Model) Add(mood, content string) tea.Cmd {
	port, userID := m.port, m.userID
	return func() tea.Msg {
		out, err := port.Add(context.Background(), diarydto.CreateInput{UserID: userID, Mood: mood, Content: content})
		return AddedMsg{Entry: out, Err: err}
	}
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 4 / 10
	m.list.SetSize(listW, m.height)
	m.preview.Width = m.width - listW - 4
	m.preview.Height = m.height - 4
	if r, err := glamour.NewTermRenderer(glamour.WithStylePath("dark"), glamour.WithWordWrap(m.preview.Width)); err == nil {
		m.renderer = r
	}
}

func (m Model) renderSelected() string {
	item, ok := m.list.SelectedItem().(entryItem)
	if !ok {
		return theme.Muted.Render("No entries yet. :diary:add <mood> <text>")
	}
	e := item.e
	var md strings.Builder
	fmt.Fprintf(&md, "# %s\n\n*%s · %d/5*", e.Date.Format("2006-01-02"), e.Mood, e.MoodScore)
	if len(e.Tags) > 0 {
		md.WriteString(" · `" + strings.Join(e.Tags, "` `") + "`")
	}
	md.WriteString("\n\n" + e.Content + "\n")
	for _, f := range e.Files {
		fmt.Fprintf(&md, "\n- %s: %s", f.Kind, f.OriginalName)
	}
	if m.renderer == nil {
		return md.String()
	}
	out, err := m.renderer.Render(md.String())
	if err != nil {
		return md.String()
	}
	return out
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	if line == "" {
		return "(attachments only)"
	}
	if r := []rune(line); len(r) > 40 {
		return string(r[:40]) + "…"
	}
	return line
}
