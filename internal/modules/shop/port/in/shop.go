package in

import (
	"context"

	"studyledger/internal/modules/shop/dto"
)

type Usecase interface {
	Catalog(ctx context.Context, userID string) ([]dto.ItemOutput, error)
	Purchase(ctx context.Context, input dto.PurchaseInput) (dto.PurchaseOutput, error)
	Inventory(ctx context.Context, userID string) ([]dto.ItemOutput, error)
	Equip(ctx context.Context, input dto.EquipInput) (dto.EquipOutput, error)
}
