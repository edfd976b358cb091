package usecase

import (
	"context"
	"fmt"
	"time"

	ledgerdto "studyledger/internal/modules/ledger/dto"
	ledgerin "studyledger/internal/modules/ledger/port/in"
	"studyledger/internal/modules/shop/domain"
	"studyledger/internal/modules/shop/dto"
	shopin "studyledger/internal/modules/shop/port/in"
	"studyledger/internal/modules/shop/service"
	"studyledger/internal/platform/logger"
	"studyledger/internal/platform/tx"
)

type Interactor struct {
	svc    *service.ShopService
	ledger ledgerin.Usecase
	tx     tx.Manager
	log    *logger.Logger
}

func NewInteractor(svc *service.ShopService, ledger ledgerin.Usecase, txm tx.Manager, log *logger.Logger) shopin.Usecase {
	if txm == nil {
		txm = tx.NoopManager{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Interactor{svc: svc, ledger: ledger, tx: txm, log: log.With("module", "shop")}
}

func (i *Interactor) Catalog(ctx context.Context, userID string) ([]dto.ItemOutput, error) {
	owned, err := i.svc.Owned(ctx, userID)
	if err != nil {
		return nil, err
	}
	equipped, err := i.equipped(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ItemOutput, 0, len(i.svc.Catalog()))
	for _, item := range i.svc.Catalog() {
		_, has := owned[item.Key()]
		out = append(out, dto.ItemOutput{
			Type:     string(item.Type),
			Name:     item.Name,
			Price:    item.Price,
			Owned:    has,
			Equipped: equipped[item.Type] == item.Name,
		})
	}
	return out, nil
}

// Purchase spends coins and adds the item in one transaction, so a failed
// inventory write leaves the balance untouched.
func (i *Interactor) Purchase(ctx context.Context, input dto.PurchaseInput) (dto.PurchaseOutput, error) {
	if i.ledger == nil {
		return dto.PurchaseOutput{}, fmt.Errorf("ledger usecase is not configured")
	}
	var out dto.PurchaseOutput
	err := i.tx.Within(ctx, func(ctx context.Context) error {
		item, err := i.svc.Resolve(ctx, input.UserID, input.ItemType, input.Name)
		if err != nil {
			return err
		}
		balance, err := i.ledger.SpendCoins(ctx, ledgerdto.CoinsInput{
			UserID: input.UserID,
			Date:   input.Date,
			Amount: item.Price,
			Type:   ledgerdto.RewardPurchase,
			Name:   item.Key(),
		})
		if err != nil {
			return err
		}
		if err := i.svc.Grant(ctx, input.UserID, item); err != nil {
			return err
		}
		out = dto.PurchaseOutput{
			Item:    dto.ItemOutput{Type: string(item.Type), Name: item.Name, Price: item.Price, Owned: true},
			Balance: balance.Balance,
		}
		return nil
	})
	if err != nil {
		i.log.Warn("purchase_failed", "user_id", input.UserID, "item_type", input.ItemType, "name", input.Name, "error", err)
		return dto.PurchaseOutput{}, err
	}
	i.log.Info("item_purchased", "user_id", input.UserID, "item_type", out.Item.Type, "name", out.Item.Name, "price", out.Item.Price)
	return out, nil
}

func (i *Interactor) Inventory(ctx context.Context, userID string) ([]dto.ItemOutput, error) {
	items, err := i.svc.Inventory(ctx, userID)
	if err != nil {
		return nil, err
	}
	equipped, err := i.equipped(ctx, userID)
	if err != nil {
		return nil, err
	}
	prices := map[string]int{}
	for _, item := range i.svc.Catalog() {
		prices[item.Key()] = item.Price
	}
	out := make([]dto.ItemOutput, 0, len(items))
	for _, item := range items {
		out = append(out, dto.ItemOutput{
			Type:     string(item.Type),
			Name:     item.Name,
			Price:    prices[string(item.Type)+":"+item.Name],
			Owned:    true,
			Equipped: equipped[item.Type] == item.Name,
		})
	}
	return out, nil
}

func (i *Interactor) Equip(ctx context.Context, input dto.EquipInput) (dto.EquipOutput, error) {
	if i.ledger == nil {
		return dto.EquipOutput{}, fmt.Errorf("ledger usecase is not configured")
	}
	itemType, err := i.svc.CanEquip(ctx, input.UserID, input.ItemType, input.Name)
	if err != nil {
		return dto.EquipOutput{}, err
	}
	state, err := i.ledger.Equip(ctx, ledgerdto.EquipInput{
		UserID:   input.UserID,
		Date:     input.Date,
		ItemType: string(itemType),
		Name:     input.Name,
	})
	if err != nil {
		return dto.EquipOutput{}, err
	}
	return dto.EquipOutput{Theme: state.EquippedTheme, Sound: state.EquippedSound, Mascot: state.EquippedMascot}, nil
}

func (i *Interactor) equipped(ctx context.Context, userID string) (map[domain.ItemType]string, error) {
	if i.ledger == nil {
		return map[domain.ItemType]string{}, nil
	}
	state, err := i.ledger.GetOrInitDaily(ctx, userID, time.Time{})
	if err != nil {
		return nil, err
	}
	return map[domain.ItemType]string{
		domain.ItemTheme:  state.EquippedTheme,
		domain.ItemSound:  state.EquippedSound,
		domain.ItemMascot: state.EquippedMascot,
	}, nil
}
