package usecase_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	ledgerout "studyledger/internal/modules/ledger/adapter/out"
	ledgerdomain "studyledger/internal/modules/ledger/domain"
	ledgerdto "studyledger/internal/modules/ledger/dto"
	ledgerin "studyledger/internal/modules/ledger/port/in"
	ledgerservice "studyledger/internal/modules/ledger/service"
	ledgerusecase "studyledger/internal/modules/ledger/usecase"
	shopout "studyledger/internal/modules/shop/adapter/out"
	"studyledger/internal/modules/shop/domain"
	"studyledger/internal/modules/shop/dto"
	shopin "studyledger/internal/modules/shop/port/in"
	shopport "studyledger/internal/modules/shop/port/out"
	"studyledger/internal/modules/shop/service"
	"studyledger/internal/modules/shop/usecase"
	apperrors "studyledger/internal/platform/errors"
	"studyledger/internal/platform/logger"
	"studyledger/internal/platform/sqlite"
	"studyledger/internal/platform/tx"
)

type fixedClock struct{ now time.Time }

func (f fixedClock) Now() time.Time { return f.now }

type brokenInventory struct {
	shopport.InventoryStore
}

func (brokenInventory) Add(context.Context, domain.InventoryItem) error {
	return apperrors.Storage("insert inventory", errors.New("database is locked"))
}

type fixture struct {
	shop   shopin.Usecase
	ledger ledgerin.Usecase
	db     *sql.DB
}

func newFixture(t *testing.T, breakInventory bool) fixture {
	t.Helper()
	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "shop.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	clk := fixedClock{now: time.Date(2026, 3, 3, 20, 0, 0, 0, time.UTC)}
	txm := tx.NewSQLManager(db)
	ledger := ledgerusecase.NewInteractor(ledgerservice.NewLedgerService(
		clk,
		ledgerdomain.Rules{DefaultGoalMin: 120, MinGoalMin: 30, MaxGoalMin: 600, CoinsPerMinute: 1, GoalBonus: 50},
		ledgerout.NewSQLiteDailyStore(db),
		ledgerout.NewSQLiteRewardLog(db),
		ledgerout.NewSQLiteClaimStore(db),
		ledgerout.NewSQLiteSessionMinutes(db),
	), txm, logger.Nop())
	catalog, err := domain.NewCatalog([]domain.CatalogItem{
		{Type: domain.ItemTheme, Name: "ocean", Price: 50},
		{Type: domain.ItemMascot, Name: "cat", Price: 20},
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	inventory := shopout.NewSQLiteInventoryStore(db)
	if breakInventory {
		inventory = brokenInventory{InventoryStore: inventory}
	}
	shop := usecase.NewInteractor(service.NewShopService(clk, catalog, inventory), ledger, txm, logger.Nop())
	return fixture{shop: shop, ledger: ledger, db: db}
}

func (f fixture) fund(t *testing.T, amount int) {
	t.Helper()
	if _, err := f.ledger.GrantCoins(context.Background(), ledgerdto.CoinsInput{UserID: "u1", Amount: amount, Type: ledgerdto.RewardStudy, Name: "Math"}); err != nil {
		t.Fatalf("fund: %v", err)
	}
}

func (f fixture) balance(t *testing.T) int {
	t.Helper()
	state, err := f.ledger.GetOrInitDaily(context.Background(), "u1", time.Time{})
	if err != nil {
		t.Fatalf("read balance: %v", err)
	}
	return state.Coins
}

func (f fixture) inventoryRows(t *testing.T) int {
	t.Helper()
	var n int
	if err := f.db.QueryRow(`SELECT COUNT(*) FROM inventory`).Scan(&n); err != nil {
		t.Fatalf("count inventory: %v", err)
	}
	return n
}

func TestPurchaseWithInsufficientFundsChangesNothing(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)
	f.fund(t, 30)
	_, err := f.shop.Purchase(context.Background(), dto.PurchaseInput{UserID: "u1", ItemType: "theme", Name: "ocean"})
	if !errors.Is(err, apperrors.ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
	if got := f.balance(t); got != 30 {
		t.Fatalf("expected balance 30, got %d", got)
	}
	if n := f.inventoryRows(t); n != 0 {
		t.Fatalf("expected empty inventory, got %d", n)
	}
}

func TestPurchaseSpendsAndOwns(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)
	ctx := context.Background()
	f.fund(t, 80)
	out, err := f.shop.Purchase(ctx, dto.PurchaseInput{UserID: "u1", ItemType: "theme", Name: "ocean"})
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if out.Balance != 30 || !out.Item.Owned {
		t.Fatalf("unexpected purchase output %+v", out)
	}
	if _, err := f.shop.Purchase(ctx, dto.PurchaseInput{UserID: "u1", ItemType: "theme", Name: "ocean"}); !errors.Is(err, apperrors.ErrDuplicateName) {
		t.Fatalf("expected duplicate purchase to fail, got %v", err)
	}
	if _, err := f.shop.Purchase(ctx, dto.PurchaseInput{UserID: "u1", ItemType: "theme", Name: "lava"}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected unknown item to be not found, got %v", err)
	}
	if got := f.balance(t); got != 30 {
		t.Fatalf("failed purchases must not move coins, got %d", got)
	}

	catalog, err := f.shop.Catalog(ctx, "u1")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if !catalog[0].Owned || catalog[1].Owned {
		t.Fatalf("unexpected ownership flags %+v", catalog)
	}
	history, err := f.ledger.History(ctx, "u1", 1)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if history[0].CoinsChange != -50 || history[0].Name != "theme:ocean" {
		t.Fatalf("expected purchase entry, got %+v", history[0])
	}
}

func TestPurchaseRollsBackSpendWhenInventoryFails(t *testing.T) {
	t.Parallel()
	f := newFixture(t, true)
	f.fund(t, 100)
	_, err := f.shop.Purchase(context.Background(), dto.PurchaseInput{UserID: "u1", ItemType: "mascot", Name: "cat"})
	if !errors.Is(err, apperrors.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if got := f.balance(t); got != 100 {
		t.Fatalf("expected rolled back balance 100, got %d", got)
	}
	history, err := f.ledger.History(context.Background(), "u1", 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected only the funding entry, got %+v", history)
	}
}

func TestEquipRequiresOwnership(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)
	ctx := context.Background()
	if _, err := f.shop.Equip(ctx, dto.EquipInput{UserID: "u1", ItemType: "mascot", Name: "cat"}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected unowned equip to fail, got %v", err)
	}
	f.fund(t, 20)
	if _, err := f.shop.Purchase(ctx, dto.PurchaseInput{UserID: "u1", ItemType: "mascot", Name: "cat"}); err != nil {
		t.Fatalf("purchase: %v", err)
	}
	equipped, err := f.shop.Equip(ctx, dto.EquipInput{UserID: "u1", ItemType: "mascot", Name: "cat"})
	if err != nil {
		t.Fatalf("equip: %v", err)
	}
	if equipped.Mascot != "cat" || equipped.Theme != domain.DefaultItem {
		t.Fatalf("unexpected equipment %+v", equipped)
	}
	inventory, err := f.shop.Inventory(ctx, "u1")
	if err != nil {
		t.Fatalf("inventory: %v", err)
	}
	if len(inventory) != 1 || !inventory[0].Equipped || inventory[0].Price != 20 {
		t.Fatalf("unexpected inventory %+v", inventory)
	}
	reset, err := f.shop.Equip(ctx, dto.EquipInput{UserID: "u1", ItemType: "mascot", Name: domain.DefaultItem})
	if err != nil {
		t.Fatalf("equip default: %v", err)
	}
	if reset.Mascot != domain.DefaultItem {
		t.Fatalf("expected default mascot, got %+v", reset)
	}
}
