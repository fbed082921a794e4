// Package summary shows the record of a finished study session.
package summary

import (
	"fmt"
	"slices"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/optima-study/optima/internal/router"
	"github.com/optima-study/optima/internal/screen"
	"github.com/optima-study/optima/internal/session"
	"github.com/optima-study/optima/internal/ui/layout"
	"github.com/optima-study/optima/internal/ui/theme"
)

// maxErrors caps the error list so the screen fits small terminals.
const maxErrors = 5

// SummaryScreen displays the session summary.
type SummaryScreen struct {
	summary *session.SessionSummary
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a SummaryScreen for a finished session.
func New(s *session.StudySession) *SummaryScreen {
	return &SummaryScreen{summary: s.Summary(time.Now())}
}

// FromSummary creates a SummaryScreen from a prepared summary.
func FromSummary(sum *session.SessionSummary) *SummaryScreen {
	return &SummaryScreen{summary: sum}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Library"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok && kmsg.String() == "enter" {
		return s, func() tea.Msg { return router.PopToRootMsg{} }
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	if sum == nil {
		return ""
	}

	var b strings.Builder

	b.WriteString(layout.Centered("Session complete", width, theme.Title))
	b.WriteString("\n\n")

	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	b.WriteString(layout.Centered(
		fmt.Sprintf("%s session  ·  Duration %d:%02d", sum.Type, mins, secs),
		width, theme.Subtitle))
	b.WriteString("\n\n")

	stats := fmt.Sprintf("Activities: %d", sum.Activities)
	if sum.Scored > 0 {
		stats += fmt.Sprintf("        Correct: %d/%d        Accuracy: %.0f%%",
			sum.Correct, sum.Scored, sum.Accuracy()*100)
	}
	if sum.OverallScore != nil {
		stats += fmt.Sprintf("        Score: %.0f%%", *sum.OverallScore*100)
	}
	b.WriteString(layout.Centered(stats, width, theme.Body))
	b.WriteString("\n\n")

	if len(sum.Concepts) > 0 {
		b.WriteString(section("Concepts", width))
		b.WriteString(layout.Centered(strings.Join(sum.Concepts, ", "), width, theme.Body))
		b.WriteString("\n\n")
	}

	if len(sum.ByActivity) > 1 {
		b.WriteString(section("Activities", width))
		types := make([]string, 0, len(sum.ByActivity))
		for t := range sum.ByActivity {
			types = append(types, string(t))
		}
		slices.Sort(types)
		for _, t := range types {
			b.WriteString(layout.Centered(
				fmt.Sprintf("%s: %d", t, sum.ByActivity[session.ActivityType(t)]), width, theme.Body))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(sum.Errors) > 0 {
		b.WriteString(section("To review", width))
		for i, e := range sum.Errors {
			if i == maxErrors {
				b.WriteString(layout.Centered(
					fmt.Sprintf("… and %d more", len(sum.Errors)-maxErrors), width, theme.Hint))
				b.WriteString("\n")
				break
			}
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				theme.Incorrect.Render("• ")+theme.Body.Render(e.Description)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func section(title string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(title)) +
		"\n" + layout.Divider(width) + "\n\n"
}
