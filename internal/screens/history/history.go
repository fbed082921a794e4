// Package history lists finished study sessions.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/optima-study/optima/internal/router"
	"github.com/optima-study/optima/internal/screen"
	"github.com/optima-study/optima/internal/screens/summary"
	"github.com/optima-study/optima/internal/session"
	"github.com/optima-study/optima/internal/store"
	"github.com/optima-study/optima/internal/ui/layout"
	"github.com/optima-study/optima/internal/ui/theme"
)

// historyLimit is the number of sessions loaded.
const historyLimit = 50

type historyLoadedMsg struct {
	Sessions []*session.StudySession
	Err      error
}

// HistoryScreen displays past sessions, newest first.
type HistoryScreen struct {
	sessionRepo store.SessionRepo
	sessions    []*session.StudySession
	selected    int
	loaded      bool
	errMsg      string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(sessionRepo store.SessionRepo) *HistoryScreen {
	return &HistoryScreen{sessionRepo: sessionRepo}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.sessionRepo
	return func() tea.Msg {
		sessions, err := repo.List(context.Background(), store.SessionFilter{Limit: historyLimit})
		return historyLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
			s.selected = min(s.selected, max(len(s.sessions)-1, 0))
		}
		s.loaded = true
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
		case "enter":
			if s.selected < len(s.sessions) {
				return s, router.Push(summary.New(s.sessions[s.selected]))
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return layout.Centered(fmt.Sprintf("\n\nError: %s", s.errMsg), width,
			lipgloss.NewStyle().Foreground(theme.Error))
	}
	if !s.loaded {
		return layout.Centered("\n\n  Loading history...", width, theme.Hint)
	}
	if len(s.sessions) == 0 {
		return layout.Centered("\n\n  No sessions yet. Open a quiz or deck from the library.", width, theme.Hint)
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, sess := range s.sessions {
		d := sess.Duration(sess.StartedAt)
		line := fmt.Sprintf("%s  %-10s  %d:%02d  %2d activities  %s",
			sess.StartedAt.Local().Format("Jan 02, 2006 15:04"),
			sess.Type,
			int(d.Minutes()), int(d.Seconds())%60,
			len(sess.Activities),
			score(sess))

		prefix := "  "
		style := theme.Unselected
		if i == s.selected {
			prefix = "> "
			style = theme.Selected
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(prefix+line)))
		b.WriteString("\n")
	}

	return b.String()
}

func score(s *session.StudySession) string {
	if s.OverallScore == nil {
		return "unscored"
	}
	return fmt.Sprintf("%3.0f%%", *s.OverallScore*100)
}
