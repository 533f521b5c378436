package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile is detected once so style helpers can branch on it cheaply.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeFg returns hex on ANSI256+ terminals and plain white below that.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

// ThemeBg returns hex on TrueColor terminals and the terminal's own
// background otherwise.
func ThemeBg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// Theme holds the colours and pre-built styles of the chart view.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary lipgloss.AdaptiveColor
	Marker  lipgloss.AdaptiveColor
	Axis    lipgloss.AdaptiveColor
	Muted   lipgloss.AdaptiveColor
	Error   lipgloss.AdaptiveColor
	Border  lipgloss.AdaptiveColor

	Base           lipgloss.Style
	MarkerStyle    lipgloss.Style
	MarkerHover    lipgloss.Style
	PointLabel     lipgloss.Style
	AxisLine       lipgloss.Style
	TickLabel      lipgloss.Style
	SelectorActive lipgloss.Style
	SelectorIdle   lipgloss.Style
	TooltipText    lipgloss.Style
	TooltipBorder  lipgloss.Style
	StatusText     lipgloss.Style
	ErrorText      lipgloss.Style
	HelpBar        lipgloss.Style
}

// paints maps canvas paints to the theme's styles.
func (t Theme) paints() map[paint]lipgloss.Style {
	return map[paint]lipgloss.Style{
		paintAxis:           t.AxisLine,
		paintTick:           t.TickLabel,
		paintMarker:         t.MarkerStyle,
		paintMarkerHover:    t.MarkerHover,
		paintLabel:          t.PointLabel,
		paintSelectorActive: t.SelectorActive,
		paintSelectorIdle:   t.SelectorIdle,
		paintTooltip:        t.TooltipText,
		paintTooltipBorder:  t.TooltipBorder,
	}
}

// DefaultTheme returns the adaptive light/dark theme.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary: lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"},
		Marker:  lipgloss.AdaptiveColor{Light: "#C2185B", Dark: "#FFB6C1"}, // pink
		Axis:    lipgloss.AdaptiveColor{Light: "#333333", Dark: "#F8F8F2"},
		Muted:   lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Error:   lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"},
		Border:  lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})
	t.MarkerStyle = r.NewStyle().Foreground(t.Marker)
	t.MarkerHover = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.PointLabel = r.NewStyle().Foreground(t.Axis)
	t.AxisLine = r.NewStyle().Foreground(t.Axis)
	t.TickLabel = r.NewStyle().Foreground(t.Muted)
	t.SelectorActive = r.NewStyle().Foreground(t.Primary).Bold(true).Underline(true)
	t.SelectorIdle = r.NewStyle().Foreground(t.Muted)
	t.TooltipText = r.NewStyle().Foreground(t.Axis).Background(ThemeBg("#282A36"))
	t.TooltipBorder = r.NewStyle().Foreground(t.Primary).Background(ThemeBg("#282A36"))
	t.StatusText = r.NewStyle().Foreground(t.Muted)
	t.ErrorText = r.NewStyle().Foreground(t.Error).Bold(true)
	t.HelpBar = r.NewStyle().Foreground(t.Muted)
	return t
}
