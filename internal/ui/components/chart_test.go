package components_test

import (
	"strings"
	"testing"

	"studyledger/internal/ui/components"
)

func TestBarChartScalesToLargest(t *testing.T) {
	t.Parallel()

	out := components.BarChart([]components.Bar{
		{Label: "Mon", Value: 120, Goal: 120},
		{Label: "Tue", Value: 60, Goal: 120},
		{Label: "Wed", Value: 0, Goal: 120},
	}, 41)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 rows, got %d:\n%s", len(lines), out)
	}
	full := strings.Count(lines[0], "█")
	half := strings.Count(lines[1], "█")
	if full == 0 || half*2 != full || strings.Count(lines[2], "█") != 0 {
		t.Fatalf("unexpected bar lengths %d %d:\n%s", full, half, out)
	}
	if !strings.Contains(lines[1], "60m") {
		t.Fatalf("expected minutes label, got %q", lines[1])
	}
}

func TestBarChartEmpty(t *testing.T) {
	t.Parallel()

	if out := components.BarChart(nil, 40); !strings.Contains(out, "no data") {
		t.Fatalf("expected placeholder, got %q", out)
	}
}
