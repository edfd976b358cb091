package theme_test

import (
	"testing"

	"studyledger/internal/ui/theme"
)

func TestApplySwitchesPalette(t *testing.T) {
	theme.Apply("ocean")
	if theme.Current() != "ocean" || theme.Base != theme.Palettes["ocean"].Base {
		t.Fatalf("expected ocean palette, got %s %v", theme.Current(), theme.Base)
	}
	theme.Apply("neon")
	if theme.Current() != "default" || theme.Peach != theme.Palettes["default"].Peach {
		t.Fatalf("expected fallback to default, got %s", theme.Current())
	}
}

func TestShopThemesHavePalettes(t *testing.T) {
	for _, name := range []string{"default", "ocean", "sakura", "forest"} {
		if _, ok := theme.Palettes[name]; !ok {
			t.Fatalf("missing palette %s", name)
		}
	}
}
