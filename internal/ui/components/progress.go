// Package components holds small reusable terminal widgets.
package components

import (
	"fmt"
	"math"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/x7ian/jstopia/internal/ui/theme"
)

// minBarWidth is the narrowest bar drawn regardless of the label.
const minBarWidth = 4

// ProgressBar is a horizontal bar with an optional label and percentage.
type ProgressBar struct {
	Label       string
	Fraction    float64
	ShowPercent bool
	Width       int
}

// View renders the bar.
func (p ProgressBar) View() string {
	var b strings.Builder
	if p.Label != "" {
		b.WriteString(theme.Body.Render(p.Label))
		b.WriteString("  ")
	}

	percentWidth := 0
	if p.ShowPercent {
		percentWidth = 6
	}
	barWidth := max(minBarWidth, p.Width-lipgloss.Width(b.String())-percentWidth)

	filled := min(barWidth, max(0, int(float64(barWidth)*p.Fraction)))
	b.WriteString(theme.ProgressFilled.Render(strings.Repeat(" ", filled)))
	b.WriteString(theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled)))

	if p.ShowPercent {
		pct := min(100, max(0, int(math.Round(p.Fraction*100))))
		b.WriteString(theme.Hint.Render(fmt.Sprintf("  %3d%%", pct)))
	}
	return b.String()
}
