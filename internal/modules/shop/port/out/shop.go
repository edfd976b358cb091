package out

import (
	"context"

	"studyledger/internal/modules/shop/domain"
)

type InventoryStore interface {
	Add(ctx context.Context, item domain.InventoryItem) error
	List(ctx context.Context, userID string) ([]domain.InventoryItem, error)
	Owns(ctx context.Context, userID string, itemType domain.ItemType, name string) (bool, error)
}
