package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeBg returns the given hex color for TrueColor terminals and
// lipgloss.NoColor{} otherwise, so 16/256-color terminals keep their own
// background.
func ThemeBg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

type Theme struct {
	Renderer *lipgloss.Renderer

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor

	// Rows
	Parent lipgloss.AdaptiveColor
	Leaf   lipgloss.AdaptiveColor
	Marker lipgloss.AdaptiveColor

	// UI Elements
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Danger    lipgloss.AdaptiveColor
	Success   lipgloss.AdaptiveColor

	// Styles
	Base     lipgloss.Style
	Selected lipgloss.Style
	Header   lipgloss.Style
	Footer   lipgloss.Style
	Detail   lipgloss.Style

	// Pre-computed row styles, created once instead of per frame
	ParentText  lipgloss.Style
	LeafText    lipgloss.Style
	MarkerText  lipgloss.Style
	MutedText   lipgloss.Style
	StatusText  lipgloss.Style
	StatusError lipgloss.Style
}

// DefaultTheme returns the standard Dracula-inspired theme (adaptive)
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}, // Purple
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}, // Gray
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"}, // Dim

		Parent: lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}, // Cyan
		Leaf:   lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"},
		Marker: lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}, // Orange

		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},
		Muted:     lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Danger:    lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"},
		Success:   lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})

	t.Selected = r.NewStyle().
		Background(t.Highlight).
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(t.Primary).
		Bold(true)

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	t.Footer = r.NewStyle().Background(ThemeBg("#21222C"))

	t.Detail = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border)

	t.ParentText = r.NewStyle().Foreground(t.Parent).Bold(true)
	t.LeafText = r.NewStyle().Foreground(t.Leaf)
	t.MarkerText = r.NewStyle().Foreground(ThemeFg("#FFB86C"))
	t.MutedText = r.NewStyle().Foreground(t.Muted)
	t.StatusText = r.NewStyle().Foreground(t.Success)
	t.StatusError = r.NewStyle().Foreground(t.Danger).Bold(true)

	return t
}

// TestTheme returns a theme suitable for use in tests.
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
