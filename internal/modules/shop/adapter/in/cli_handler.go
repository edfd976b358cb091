package in

import (
	"context"
	"time"

	"studyledger/internal/modules/shop/dto"
	shopin "studyledger/internal/modules/shop/port/in"
)

type CLIHandler struct {
	usecase shopin.Usecase
}

func NewCLIHandler(usecase shopin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context, userID string) ([]dto.ItemOutput, error) {
	return h.usecase.Catalog(ctx, userID)
}

func (h CLIHandler) Buy(ctx context.Context, userID, itemType, name string) (dto.PurchaseOutput, error) {
	return h.usecase.Purchase(ctx, dto.PurchaseInput{UserID: userID, Date: time.Time{}, ItemType: itemType, Name: name})
}

func (h CLIHandler) Equip(ctx context.Context, userID, itemType, name string) (dto.EquipOutput, error) {
	return h.usecase.Equip(ctx, dto.EquipInput{UserID: userID, ItemType: itemType, Name: name})
}

func (h CLIHandler) Inventory(ctx context.Context, userID string) ([]dto.ItemOutput, error) {
	return h.usecase.Inventory(ctx, userID)
}
