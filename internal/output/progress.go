package output

import (
	"fmt"
	"strings"

	"github.com/blackwell-systems/artawatch/internal/analyzer"
)

const ruleWidth = 66

// ScoreBar draws a 0-100 score as a bar of the given width followed by the
// percentage, coloured by the score's interpretation band.
//
//	████████░░ 80.0%
func ScoreBar(score float64, width int) string {
	if width <= 0 {
		width = 20
	}
	filled := min(max(int(score/100*float64(width)), 0), width)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return bandStyle(analyzer.Interpret(score)).Render(bar) + " " +
		StyleMuted.Render(fmt.Sprintf("%.1f%%", score))
}

// TrendArrow renders a change between snapshots. The arrow follows the sign
// of delta; the colour says whether the change is an improvement.
func TrendArrow(delta float64, higherIsBetter bool) string {
	switch {
	case delta == 0:
		return StyleMuted.Render("─")
	case (delta > 0) == higherIsBetter:
		return StyleSuccess.Render(arrow(delta))
	default:
		return StyleError.Render(arrow(delta))
	}
}

func arrow(delta float64) string {
	if delta > 0 {
		return fmt.Sprintf("▲ +%.1f", delta)
	}
	return fmt.Sprintf("▼ %.1f", delta)
}

// Section is a report heading underlined with a rule.
func Section(title string) string {
	return "\n " + StyleHeader.Render(title) + "\n " + StyleMuted.Render(strings.Repeat("─", ruleWidth))
}

// KeyValue renders a fixed-width label followed by its value.
func KeyValue(label, value string) string {
	return " " + StyleLabel.Render(label) + " " + value
}
