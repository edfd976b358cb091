package theme

import "github.com/charmbracelet/lipgloss"

// Palette is the set of colors one shop theme swaps in.
type Palette struct {
	Base, Mantle, Surface0, Surface1 lipgloss.Color
	Text, Subtext0                   lipgloss.Color
	Lavender, Sapphire, Green, Peach lipgloss.Color
}

// Palettes are keyed by the theme item name; "default" is catppuccin mocha.
var Palettes = map[string]Palette{
	"default": {
		Base: "#1e1e2e", Mantle: "#181825", Surface0: "#313244", Surface1: "#45475a",
		Text: "#cdd6f4", Subtext0: "#a6adc8",
		Lavender: "#b4befe", Sapphire: "#74c7ec", Green: "#a6e3a1", Peach: "#fab387",
	},
	"ocean": {
		Base: "#0f1c2e", Mantle: "#0a1422", Surface0: "#1b2d45", Surface1: "#27415f",
		Text: "#d6e6f5", Subtext0: "#8fa9c4",
		Lavender: "#7fb8e6", Sapphire: "#4fd1e0", Green: "#7ee0b5", Peach: "#f2c57c",
	},
	"sakura": {
		Base: "#2a1f27", Mantle: "#21181f", Surface0: "#3b2c37", Surface1: "#533d4d",
		Text: "#f6e3ec", Subtext0: "#c9a9b9",
		Lavender: "#f5a9c8", Sapphire: "#e58fb1", Green: "#b8e0a8", Peach: "#ffc1a1",
	},
	"forest": {
		Base: "#1c241c", Mantle: "#151b15", Surface0: "#2a362a", Surface1: "#3c4d3b",
		Text: "#e1ead9", Subtext0: "#a7b89c",
		Lavender: "#a9cf8e", Sapphire: "#7fb89a", Green: "#b5e48c", Peach: "#e9c46a",
	},
}

var (
	Base, Mantle, Surface0, Surface1 lipgloss.Color
	Text, Subtext0                   lipgloss.Color
	Lavender, Sapphire, Green, Peach lipgloss.Color

	App, Pane, PaneActive lipgloss.Style
	Title, Muted, Hot, Ok lipgloss.Style

	current string
)

func init() {
	Apply("default")
}

// Current is the name of the applied palette.
func Current() string { return current }

// Apply switches every exported color and style to the named palette.
// Unknown names fall back to the default one.
func Apply(name string) {
	p, ok := Palettes[name]
	if !ok {
		name = "default"
		p = Palettes[name]
	}
	current = name
	Base, Mantle, Surface0, Surface1 = p.Base, p.Mantle, p.Surface0, p.Surface1
	Text, Subtext0 = p.Text, p.Subtext0
	Lavender, Sapphire, Green, Peach = p.Lavender, p.Sapphire, p.Green, p.Peach

	App = lipgloss.NewStyle().
		Background(Base).
		Foreground(Text).
		Padding(1, 2)

	Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Surface1).
		Background(Mantle).
		Foreground(Text).
		Padding(1)

	PaneActive = Pane.BorderForeground(Lavender)

	Title = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Subtext0)
	Hot = lipgloss.NewStyle().Foreground(Peach).Bold(true)
	Ok = lipgloss.NewStyle().Foreground(Green)
}
