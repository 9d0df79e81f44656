package views

import (
	"github.com/charmbracelet/lipgloss"

	"tagrow/internal/config"
)

// Fade indicator glyphs, drawn in the one-cell gutter on each side of a row
const (
	FadeGlyphLeft  = "‹"
	FadeGlyphRight = "›"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Dim           lipgloss.Style
	Status        lipgloss.Style
	Prompt        lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	Fade          lipgloss.Style
	StatusError   lipgloss.Style
	StatusLoading lipgloss.Style
	StatusSuccess lipgloss.Style
	Badge         BadgeStyles
}

// BadgeStyles are the building blocks of a rendered badge
type BadgeStyles struct {
	Outline  lipgloss.Style
	Solid    lipgloss.Style
	Active   lipgloss.Style
	Disabled lipgloss.Style
	Focused  lipgloss.Style
}

// outlineBorder draws brackets on the sides only, so badges stay one line tall
var outlineBorder = lipgloss.Border{Left: "[", Right: "]"}

var (
	subtle    = lipgloss.AdaptiveColor{Light: "245", Dark: "241"}
	text      = lipgloss.AdaptiveColor{Light: "236", Dark: "252"}
	accent    = lipgloss.AdaptiveColor{Light: "57", Dark: "99"}
	inverseFg = lipgloss.AdaptiveColor{Light: "255", Dark: "235"}
)

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			MarginBottom(1),
		Dim: lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().
			Foreground(subtle).
			MarginTop(1),
		Prompt:        lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "166", Dark: "214"}),
		Help:          lipgloss.NewStyle().Faint(true).MarginTop(1),
		Main:          lipgloss.NewStyle().Padding(1, 2),
		Fade:          lipgloss.NewStyle().Foreground(subtle).Bold(true),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "203"}),
		StatusLoading: lipgloss.NewStyle().Foreground(subtle),
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "78"}),
		Badge:         NewBadgeStyles(),
	}
}

// NewBadgeStyles returns the default badge look
func NewBadgeStyles() BadgeStyles {
	return BadgeStyles{
		Outline: lipgloss.NewStyle().
			Border(outlineBorder, false, true, false, true).
			BorderForeground(subtle).
			Foreground(text).
			Padding(0, 1),
		Solid: lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "254", Dark: "237"}).
			Foreground(text).
			Padding(0, 2),
		Active: lipgloss.NewStyle().
			Background(text).
			Foreground(inverseFg).
			Bold(true),
		Disabled: lipgloss.NewStyle().Faint(true),
		Focused:  lipgloss.NewStyle().Underline(true),
	}
}

// ApplyTheme forces the light/dark appearance used by adaptive colours.
// With config.ThemeAuto the terminal background is detected.
func ApplyTheme(theme string) {
	switch theme {
	case config.ThemeLight:
		lipgloss.SetHasDarkBackground(false)
	case config.ThemeDark:
		lipgloss.SetHasDarkBackground(true)
	}
}

// IsDark reports the appearance currently in effect
func IsDark() bool {
	return lipgloss.HasDarkBackground()
}
