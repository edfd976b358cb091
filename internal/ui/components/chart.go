package components

import (
	"fmt"
	"strings"

	"studyledger/internal/ui/theme"
)

// Bar is one row of a horizontal bar chart.
type Bar struct {
	Label string
	Value int
	Goal  int
}

// BarChart renders one bar per row scaled to the largest value or goal.
// Bars that reach their goal use the accent color.
func BarChart(bars []Bar, width int) string {
	if len(bars) == 0 {
		return theme.Muted.Render("(no data)")
	}
	labelW, scale := 0, 1
	for _, b := range bars {
		labelW = max(labelW, len(b.Label))
		scale = max(scale, b.Value, b.Goal)
	}
	barW := width - labelW - 10
	if barW < 10 {
		barW = 10
	}
	var sb strings.Builder
	for _, b := range bars {
		n := b.Value * barW / scale
		bar := strings.Repeat("█", n)
		if b.Goal > 0 && b.Value >= b.Goal {
			bar = theme.Ok.Render(bar)
		} else {
			bar = theme.Hot.Render(bar)
		}
		fmt.Fprintf(&sb, "%-*s %s%s %s\n", labelW, b.Label, bar, strings.Repeat(" ", barW-n), theme.Muted.Render(fmt.Sprintf("%4dm", b.Value)))
	}
	return strings.TrimRight(sb.String(), "\n")
}
