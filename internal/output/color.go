// Package output renders artawatch reports for the terminal.
package output

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/blackwell-systems/artawatch/internal/analyzer"
)

// Palette. Good, fair and poor follow the interpretation bands.
var (
	ColorPrimary = lipgloss.Color("#64b5f6")
	ColorGood    = lipgloss.Color("#66bb6a")
	ColorFair    = lipgloss.Color("#fff59d")
	ColorPoor    = lipgloss.Color("#ef5350")
	ColorMuted   = lipgloss.Color("#888888")
)

// Styles shared by every command. SetNoColor rebuilds them.
var (
	StyleHeader  lipgloss.Style
	StyleSuccess lipgloss.Style
	StyleWarning lipgloss.Style
	StyleError   lipgloss.Style
	StyleMuted   lipgloss.Style
	StyleBold    lipgloss.Style
	StyleLabel   lipgloss.Style
)

const labelWidth = 24

var noColor bool

func init() {
	applyStyles()
}

func applyStyles() {
	fg := func(c lipgloss.Color) lipgloss.Style {
		if noColor {
			return lipgloss.NewStyle()
		}
		return lipgloss.NewStyle().Foreground(c)
	}
	StyleHeader = fg(ColorPrimary).Bold(!noColor)
	StyleSuccess = fg(ColorGood)
	StyleWarning = fg(ColorFair)
	StyleError = fg(ColorPoor)
	StyleMuted = fg(ColorMuted)
	StyleBold = lipgloss.NewStyle().Bold(!noColor)
	StyleLabel = lipgloss.NewStyle().Width(labelWidth)
}

// SetNoColor switches every style to plain text, or back to colour.
func SetNoColor(disabled bool) {
	noColor = disabled
	applyStyles()
}

// bandStyle colours by interpretation band: green for Very High and High,
// yellow for Moderate, muted for no data and red otherwise.
func bandStyle(l analyzer.Level) lipgloss.Style {
	switch l {
	case analyzer.LevelVeryHigh, analyzer.LevelHigh:
		return StyleSuccess
	case analyzer.LevelModerate:
		return StyleWarning
	case analyzer.LevelNoData:
		return StyleMuted
	}
	return StyleError
}

// Level renders an interpretation level in the colour of its band.
func Level(l analyzer.Level) string {
	return bandStyle(l).Render(string(l))
}
