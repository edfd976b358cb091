package service

import (
	"context"
	"fmt"

	"studyledger/internal/modules/shop/domain"
	shopout "studyledger/internal/modules/shop/port/out"
	"studyledger/internal/platform/clock"
	apperrors "studyledger/internal/platform/errors"
)

type ShopService struct {
	clock     clock.Clock
	catalog   domain.Catalog
	inventory shopout.InventoryStore
}

func NewShopService(clock clock.Clock, catalog domain.Catalog, inventory shopout.InventoryStore) *ShopService {
	return &ShopService{clock: clock, catalog: catalog, inventory: inventory}
}

func (s *ShopService) Catalog() domain.Catalog {
	return s.catalog
}

func (s *ShopService) Owned(ctx context.Context, userID string) (map[string]domain.InventoryItem, error) {
	items, err := s.inventory.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	owned := make(map[string]domain.InventoryItem, len(items))
	for _, item := range items {
		owned[string(item.Type)+":"+item.Name] = item
	}
	return owned, nil
}

func (s *ShopService) Inventory(ctx context.Context, userID string) ([]domain.InventoryItem, error) {
	return s.inventory.List(ctx, userID)
}

// Resolve checks a purchase request before any coins move.
func (s *ShopService) Resolve(ctx context.Context, userID, itemType, name string) (domain.CatalogItem, error) {
	if userID == "" {
		return domain.CatalogItem{}, fmt.Errorf("%w: user id is required", apperrors.ErrInvalidInput)
	}
	t, err := domain.ParseItemType(itemType)
	if err != nil {
		return domain.CatalogItem{}, err
	}
	item, err := s.catalog.Find(t, name)
	if err != nil {
		return domain.CatalogItem{}, err
	}
	owns, err := s.inventory.Owns(ctx, userID, t, name)
	if err != nil {
		return domain.CatalogItem{}, err
	}
	if owns {
		return domain.CatalogItem{}, fmt.Errorf("%w: %s already owned", apperrors.ErrDuplicateName, item.Key())
	}
	return item, nil
}

func (s *ShopService) Grant(ctx context.Context, userID string, item domain.CatalogItem) error {
	return s.inventory.Add(ctx, domain.InventoryItem{
		UserID:     userID,
		Type:       item.Type,
		Name:       item.Name,
		AcquiredAt: s.clock.Now().UTC(),
	})
}

// CanEquip accepts owned items and the built-in default of every slot.
func (s *ShopService) CanEquip(ctx context.Context, userID, itemType, name string) (domain.ItemType, error) {
	t, err := domain.ParseItemType(itemType)
	if err != nil {
		return "", err
	}
	if name == domain.DefaultItem {
		return t, nil
	}
	owns, err := s.inventory.Owns(ctx, userID, t, name)
	if err != nil {
		return "", err
	}
	if !owns {
		return "", fmt.Errorf("%w: %s:%s is not in the inventory", apperrors.ErrNotFound, t, name)
	}
	return t, nil
}
