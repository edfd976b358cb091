package shop

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	shopdto "studyledger/internal/modules/shop/dto"
	"studyledger/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	List(ctx context.Context, userID string) ([]shopdto.ItemOutput, error)
	Buy(ctx context.Context, userID, itemType, name string) (shopdto.PurchaseOutput, error)
	Equip(ctx context.Context, userID, itemType, name string) (shopdto.EquipOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type ItemsLoadedMsg struct {
	Items []shopdto.ItemOutput
	Err   error
}

// PurchasedMsg and EquippedMsg bubble up so the app can refresh coins and
// switch the palette.
type PurchasedMsg struct {
	Out shopdto.PurchaseOutput
	Err error
}

type EquippedMsg struct {
	Out shopdto.EquipOutput
	Err error
}

// ─── list item ───────────────────────────────────────────────────────────────

type itemRow struct{ item shopdto.ItemOutput }

func (i itemRow) Title() string { return i.item.Type + ": " + i.item.Name }
func (i itemRow) Description() string {
	switch {
	case i.item.Equipped:
		return "equipped"
	case i.item.Owned:
		return "owned · e to equip"
	default:
		return fmt.Sprintf("%d coins · b to buy", i.item.Price)
	}
}
func (i itemRow) FilterValue() string { return i.item.Type + " " + i.item.Name }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port   Port
	userID string
	list   list.Model
	status string
	width  int
	height int
}

func New(port Port, userID string) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Shop"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	return Model{port: port, userID: userID, list: l}
}

func (m Model) Init() tea.Cmd { return m.Reload() }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.width, m.height-2)

	case ItemsLoadedMsg:
		if msg.Err != nil {
			m.status = theme.Hot.Render(msg.Err.Error())
			return m, nil
		}
		items := make([]list.Item, len(msg.Items))
		for i, it := range msg.Items {
			items[i] = itemRow{item: it}
		}
		cmds = append(cmds, m.list.SetItems(items))

	case PurchasedMsg:
		if msg.Err != nil {
			m.status = theme.Hot.Render("purchase failed: " + msg.Err.Error())
		} else {
			m.status = fmt.Sprintf("bought %s %s · balance %d", msg.Out.Item.Type, msg.Out.Item.Name, msg.Out.Balance)
		}
		return m, m.Reload()

	case EquippedMsg:
		if msg.Err != nil {
			m.status = theme.Hot.Render("equip failed: " + msg.Err.Error())
		} else {
			m.status = "equipped"
		}
		return m, m.Reload()

	case tea.KeyMsg:
		if m.Filtering() {
			break
		}
		if row, ok := m.list.SelectedItem().(itemRow); ok {
			switch msg.String() {
			case "b":
				return m, m.Buy(row.item.Type, row.item.Name)
			case "e":
				return m, m.Equip(row.item.Type, row.item.Name)
			}
		}
	}

	var lCmd tea.Cmd
	m.list, lCmd = m.list.Update(msg)
	cmds = append(cmds, lCmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left, m.list.View(), m.status)
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Reload() tea.Cmd {
	port, userID := m.port, m.userID
	return func() tea.Msg {
		items, err := port.List(context.Background(), userID)
		return ItemsLoadedMsg{Items: items, Err: err}
	}
}

func (m Model) Buy(itemType, name string) tea.Cmd {
	port, userID := m.port, m.userID
	return func() tea.Msg {
		out, err := port.Buy(context.Background(), userID, itemType, name)
		return PurchasedMsg{Out: out, Err: err}
	}
}

func (m Model) Equip(itemType, name string) tea.Cmd {
	port, userID := m.port, m.userID
	return func() tea.Msg {
		out, err := port.Equip(context.Background(), userID, itemType, name)
		return EquippedMsg{Out: out, Err: err}
	}
}
