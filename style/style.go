// Package style holds the colors and lipgloss styles of the osa-scroll
// feed view. Styles are package-level vars rebuilt by SetTheme.
package style

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
)

// Colors, initialized to the dark theme. Updated via SetTheme().
var (
	Primary   color.Color = darkTheme.Primary
	Secondary color.Color = darkTheme.Secondary
	Success   color.Color = darkTheme.Success
	Warning   color.Color = darkTheme.Warning
	Error     color.Color = darkTheme.Error
	Muted     color.Color = darkTheme.Muted
	Dim       color.Color = darkTheme.Dim
	Border    color.Color = darkTheme.Border

	RowAccentColor color.Color = darkTheme.RowAccent
	SeparatorColor color.Color = darkTheme.Separator

	GradColorA color.Color = darkTheme.GradA
	GradColorB color.Color = darkTheme.GradB
)

// Styles, rebuilt when the theme changes.
var (
	Bold      lipgloss.Style
	Faint     lipgloss.Style
	ErrorText lipgloss.Style

	// Feed rows
	RowTitle  lipgloss.Style
	RowMeta   lipgloss.Style
	RowBody   lipgloss.Style
	RowFrame  lipgloss.Style // left-ruled box around a row
	Separator lipgloss.Style

	// Status bar
	StatusBar   lipgloss.Style
	StatusLabel lipgloss.Style
	StatusValue lipgloss.Style
	StatusPhase lipgloss.Style

	// Help line
	HelpKey       lipgloss.Style
	HelpDesc      lipgloss.Style
	HelpSeparator lipgloss.Style

	// Scrollbar
	ScrollbarThumb lipgloss.Style
	ScrollbarTrack lipgloss.Style
)

func init() {
	rebuildStyles()
}

// SetTheme applies a named theme, updating all color vars and rebuilding styles.
func SetTheme(name string) bool {
	t, ok := Themes[name]
	if !ok {
		return false
	}
	CurrentThemeName = name
	Primary = t.Primary
	Secondary = t.Secondary
	Success = t.Success
	Warning = t.Warning
	Error = t.Error
	Muted = t.Muted
	Dim = t.Dim
	Border = t.Border
	RowAccentColor = t.RowAccent
	SeparatorColor = t.Separator
	GradColorA = t.GradA
	GradColorB = t.GradB
	rebuildStyles()
	return true
}

// IsDark returns whether the current theme is dark.
func IsDark() bool {
	return CurrentThemeName != "light"
}

func rebuildStyles() {
	Bold = lipgloss.NewStyle().Bold(true)
	Faint = lipgloss.NewStyle().Foreground(Muted)
	ErrorText = lipgloss.NewStyle().Foreground(Error).Bold(true)

	RowTitle = lipgloss.NewStyle().Foreground(Secondary).Bold(true)
	RowMeta = lipgloss.NewStyle().Foreground(Muted).Italic(true)
	RowBody = lipgloss.NewStyle()
	RowFrame = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(RowAccentColor).
		PaddingLeft(1)
	Separator = lipgloss.NewStyle().Foreground(SeparatorColor)

	StatusBar = lipgloss.NewStyle().Foreground(Muted).PaddingLeft(1)
	StatusLabel = lipgloss.NewStyle().Foreground(Muted)
	StatusValue = lipgloss.NewStyle().Foreground(Secondary)
	StatusPhase = lipgloss.NewStyle().Foreground(Warning).Bold(true)

	HelpKey = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	HelpDesc = lipgloss.NewStyle().Foreground(Muted)
	HelpSeparator = lipgloss.NewStyle().Foreground(Dim)

	ScrollbarThumb = lipgloss.NewStyle().Foreground(Primary)
	ScrollbarTrack = lipgloss.NewStyle().Foreground(Dim)
}

// ---------------------------------------------------------------------------
// Gradient
// ---------------------------------------------------------------------------

// LerpColor linearly interpolates between two colors at position t in [0,1].
func LerpColor(a, b color.Color, t float64) color.Color {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()

	// RGBA() returns values in [0, 65535].
	lerp := func(x, y uint32) uint8 {
		return uint8(min(float64(x>>8)*(1-t)+float64(y>>8)*t, 255))
	}
	return color.NRGBA{R: lerp(ar, br), G: lerp(ag, bg), B: lerp(ab, bb), A: lerp(aa, ba)}
}

func hex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02X%02X%02X", r>>8, g>>8, b>>8)
}

// Gradient renders text bold with a left-to-right gradient between the
// theme's header colors, one rune at a time.
func Gradient(text string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		c := lipgloss.Color(hex(LerpColor(GradColorA, GradColorB, t)))
		sb.WriteString(lipgloss.NewStyle().Foreground(c).Bold(true).Render(string(r)))
	}
	return sb.String()
}
