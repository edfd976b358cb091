package app

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	diarydto "studyledger/internal/modules/diary/dto"
	ledgerdto "studyledger/internal/modules/ledger/dto"
	sessiondto "studyledger/internal/modules/session/dto"
	shopdto "studyledger/internal/modules/shop/dto"
	"studyledger/internal/ui/components"
	shopview "studyledger/internal/ui/views/shop"
)

type fakeLedger struct{ goal int }

func (f *fakeLedger) Today(context.Context, string) (ledgerdto.SnapshotOutput, error) {
	return ledgerdto.SnapshotOutput{State: ledgerdto.DailyStateOutput{GoalMin: f.goal, Coins: 42, EquippedTheme: "default"}}, nil
}
func (f *fakeLedger) Week(context.Context, string, time.Time, int) ([]ledgerdto.DayMinutesOutput, error) {
	return nil, nil
}
func (f *fakeLedger) History(context.Context, string, int) ([]ledgerdto.RewardOutput, error) {
	return nil, nil
}
func (f *fakeLedger) SetGoal(_ context.Context, _ string, _ time.Time, minutes int) (ledgerdto.DailyStateOutput, error) {
	f.goal = minutes
	return ledgerdto.DailyStateOutput{GoalMin: minutes}, nil
}
func (f *fakeLedger) ClaimBonus(context.Context, string, time.Time) (ledgerdto.BonusOutput, error) {
	return ledgerdto.BonusOutput{AlreadyClaimed: true}, nil
}

type fakeSession struct{}

func (fakeSession) TimerStart(context.Context, string, string) (sessiondto.TimerOutput, error) {
	return sessiondto.TimerOutput{Mode: "stopwatch", Running: true}, nil
}
func (fakeSession) TimerPause(context.Context) (sessiondto.TimerOutput, error) {
	return sessiondto.TimerOutput{}, nil
}
func (fakeSession) TimerStop(context.Context, sessiondto.StopInput) (sessiondto.RecordOutput, error) {
	return sessiondto.RecordOutput{}, nil
}
func (fakeSession) TimerStatus(context.Context) (sessiondto.TimerOutput, error) {
	return sessiondto.TimerOutput{}, nil
}
func (fakeSession) PomodoroStart(context.Context, string, string) (sessiondto.TimerOutput, error) {
	return sessiondto.TimerOutput{}, nil
}
func (fakeSession) PomodoroTick(context.Context) (sessiondto.TickOutput, error) {
	return sessiondto.TickOutput{}, nil
}
func (fakeSession) PomodoroStop(context.Context) (sessiondto.TimerOutput, error) {
	return sessiondto.TimerOutput{}, nil
}

type fakeShop struct{ bought string }

func (f *fakeShop) List(context.Context, string) ([]shopdto.ItemOutput, error) { return nil, nil }
func (f *fakeShop) Buy(_ context.Context, _ string, itemType, name string) (shopdto.PurchaseOutput, error) {
	f.bought = itemType + ":" + name
	return shopdto.PurchaseOutput{Item: shopdto.ItemOutput{Type: itemType, Name: name}, Balance: 10}, nil
}
func (f *fakeShop) Equip(context.Context, string, string, string) (shopdto.EquipOutput, error) {
	return shopdto.EquipOutput{Theme: "ocean"}, nil
}

type fakeDiary struct{}

func (fakeDiary) List(context.Context, string, string, string, string, int) ([]diarydto.EntryOutput, error) {
	return nil, nil
}
func (fakeDiary) Add(_ context.Context, in diarydto.CreateInput) (diarydto.EntryOutput, error) {
	return diarydto.EntryOutput{Mood: in.Mood, Content: in.Content}, nil
}

func newTestModel() (Model, *fakeLedger, *fakeShop) {
	ledger := &fakeLedger{goal: 120}
	shop := &fakeShop{}
	return NewModel(User{ID: "u1", Name: "Min"}, ledger, fakeSession{}, shop, fakeDiary{}), ledger, shop
}

func submit(t *testing.T, m Model, input string) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(components.PaletteSubmitMsg{Input: input})
	return next.(Model), cmd
}

func TestPaletteGoalSet(t *testing.T) {
	t.Parallel()
	m, ledger, _ := newTestModel()

	m, cmd := submit(t, m, "goal:set abc")
	if cmd != nil || !strings.HasPrefix(m.status, "usage: goal:set") {
		t.Fatalf("expected usage message, got %q", m.status)
	}

	m, cmd = submit(t, m, "goal:set 90")
	if cmd == nil {
		t.Fatalf("expected goal command")
	}
	next, _ := m.Update(cmd())
	if ledger.goal != 90 || next.(Model).status != "goal set to 90 min" {
		t.Fatalf("expected goal stored, got %d %q", ledger.goal, next.(Model).status)
	}
}

func TestPaletteShopBuySwitchesTab(t *testing.T) {
	t.Parallel()
	m, _, shop := newTestModel()

	m, cmd := submit(t, m, "shop:buy theme ocean")
	if m.activeTab != tabShop || cmd == nil {
		t.Fatalf("expected shop tab and a command, got tab %d", m.activeTab)
	}
	msg := cmd()
	if _, ok := msg.(shopview.PurchasedMsg); !ok || shop.bought != "theme:ocean" {
		t.Fatalf("expected purchase, got %T %q", msg, shop.bought)
	}
}

func TestPaletteUnknownCommand(t *testing.T) {
	t.Parallel()
	m, _, _ := newTestModel()

	m, _ = submit(t, m, "launch:rocket")
	if m.status != "unknown command: launch:rocket" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestBonusAlreadyClaimedStatus(t *testing.T) {
	t.Parallel()
	m, _, _ := newTestModel()

	m, cmd := submit(t, m, "bonus:claim")
	next, _ := m.Update(cmd())
	if next.(Model).status != "bonus already claimed today" {
		t.Fatalf("unexpected status %q", next.(Model).status)
	}
}
