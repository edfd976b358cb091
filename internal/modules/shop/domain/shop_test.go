package domain_test

import (
	"errors"
	"testing"

	"studyledger/internal/modules/shop/domain"
	apperrors "studyledger/internal/platform/errors"
)

func TestNewCatalogValidatesItems(t *testing.T) {
	t.Parallel()
	catalog, err := domain.NewCatalog([]domain.CatalogItem{
		{Type: domain.ItemTheme, Name: "ocean", Price: 100},
		{Type: domain.ItemSound, Name: "ocean", Price: 80},
	})
	if err != nil {
		t.Fatalf("catalog should be valid: %v", err)
	}
	if item, err := catalog.Find(domain.ItemSound, "ocean"); err != nil || item.Price != 80 {
		t.Fatalf("expected sound ocean at 80, got %+v (%v)", item, err)
	}
	if _, err := catalog.Find(domain.ItemMascot, "ocean"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	bad := [][]domain.CatalogItem{
		{{Type: "hat", Name: "x", Price: 1}},
		{{Type: domain.ItemTheme, Name: "", Price: 1}},
		{{Type: domain.ItemTheme, Name: domain.DefaultItem, Price: 1}},
		{{Type: domain.ItemTheme, Name: "x", Price: 0}},
		{{Type: domain.ItemTheme, Name: "x", Price: 1}, {Type: domain.ItemTheme, Name: "x", Price: 2}},
	}
	for _, items := range bad {
		if _, err := domain.NewCatalog(items); err == nil {
			t.Fatalf("expected catalog %+v to fail", items)
		}
	}
}

func TestParseItemTypeNormalizes(t *testing.T) {
	t.Parallel()
	if got, err := domain.ParseItemType(" Theme "); err != nil || got != domain.ItemTheme {
		t.Fatalf("expected theme, got %q (%v)", got, err)
	}
	if _, err := domain.ParseItemType("hat"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
