package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/optima-study/optima/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar with a position counter,
// e.g. "Question 3/10 ████░░░░ 30%".
type ProgressBar struct {
	Label   string
	Current int
	Total   int
	Percent float64
	Width   int
}

// NewProgressBar creates a bar for position current (1-based) of total.
// percent is a fraction in [0,1]; values outside are clamped.
func NewProgressBar(label string, current, total int, percent float64, width int) ProgressBar {
	return ProgressBar{
		Label:   label,
		Current: current,
		Total:   total,
		Percent: min(max(percent, 0), 1),
		Width:   width,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var prefix string
	if p.Label != "" {
		prefix = fmt.Sprintf("%s %d/%d", p.Label, p.Current, p.Total)
		prefix = lipgloss.NewStyle().Foreground(theme.Text).Render(prefix) + "  "
	}
	suffix := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("  %3d%%", int(p.Percent*100)))

	barWidth := max(p.Width-lipgloss.Width(prefix)-lipgloss.Width(suffix), 4)
	filled := min(int(float64(barWidth)*p.Percent), barWidth)

	bar := lipgloss.NewStyle().Foreground(theme.Secondary).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", barWidth-filled))

	return prefix + bar + suffix
}
