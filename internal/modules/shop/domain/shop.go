package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "studyledger/internal/platform/errors"
)

const DefaultItem = "default"

type ItemType string

const (
	ItemTheme  ItemType = "theme"
	ItemSound  ItemType = "sound"
	ItemMascot ItemType = "mascot"
)

func ParseItemType(value string) (ItemType, error) {
	t := ItemType(strings.ToLower(strings.TrimSpace(value)))
	switch t {
	case ItemTheme, ItemSound, ItemMascot:
		return t, nil
	default:
		return "", fmt.Errorf("%w: unsupported item type %q", apperrors.ErrInvalidInput, value)
	}
}

type CatalogItem struct {
	Type  ItemType
	Name  string
	Price int
}

// Key is the reward log name for a purchase.
func (i CatalogItem) Key() string {
	return string(i.Type) + ":" + i.Name
}

type Catalog []CatalogItem

func NewCatalog(items []CatalogItem) (Catalog, error) {
	seen := map[string]struct{}{}
	out := make(Catalog, 0, len(items))
	for _, item := range items {
		if _, err := ParseItemType(string(item.Type)); err != nil {
			return nil, err
		}
		if strings.TrimSpace(item.Name) == "" || item.Name == DefaultItem {
			return nil, fmt.Errorf("%w: catalog item needs a non-default name", apperrors.ErrInvalidInput)
		}
		if item.Price <= 0 {
			return nil, fmt.Errorf("%w: catalog item %s needs a positive price", apperrors.ErrInvalidInput, item.Key())
		}
		if _, dup := seen[item.Key()]; dup {
			return nil, fmt.Errorf("%w: catalog item %s listed twice", apperrors.ErrDuplicateName, item.Key())
		}
		seen[item.Key()] = struct{}{}
		out = append(out, item)
	}
	return out, nil
}

func (c Catalog) Find(itemType ItemType, name string) (CatalogItem, error) {
	for _, item := range c {
		if item.Type == itemType && item.Name == name {
			return item, nil
		}
	}
	return CatalogItem{}, fmt.Errorf("%w: no %s named %q in the shop", apperrors.ErrNotFound, itemType, name)
}

type InventoryItem struct {
	UserID     string
	Type       ItemType
	Name       string
	AcquiredAt time.Time
}
