// Package quiz is the screen that drives a quiz player.
package quiz

import (
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/optima-study/optima/internal/content"
	"github.com/optima-study/optima/internal/player"
	"github.com/optima-study/optima/internal/router"
	"github.com/optima-study/optima/internal/screen"
	"github.com/optima-study/optima/internal/screens/summary"
	"github.com/optima-study/optima/internal/session"
	"github.com/optima-study/optima/internal/ui/components"
	"github.com/optima-study/optima/internal/ui/layout"
	"github.com/optima-study/optima/internal/ui/theme"
)

// ErrNotQuiz is returned when the item does not carry a quiz payload.
var ErrNotQuiz = errors.New("content item is not a quiz")

// QuizScreen renders the current question and maps keys onto the player.
type QuizScreen struct {
	item    *content.GeneratedContentItem
	player  *player.Quiz
	choices components.Choices
	last    *session.StudySession
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)

// New creates a quiz screen. Finished sessions go to emitter.
func New(item *content.GeneratedContentItem, emitter player.Emitter, opts ...player.Option) (*QuizScreen, error) {
	data, ok := item.Data.Quiz()
	if !ok {
		return nil, ErrNotQuiz
	}
	s := &QuizScreen{item: item}

	opts = append([]player.Option{
		player.WithContentItem(item.ID),
		player.WithConcepts(item.Tags...),
	}, opts...)
	s.player = player.NewQuiz(data.Questions, item.Title, item.DocumentID,
		player.EmitterFunc(func(sess *session.StudySession) {
			s.last = sess
			if emitter != nil {
				emitter.Emit(sess)
			}
		}), opts...)
	s.syncChoices()
	return s, nil
}

func (s *QuizScreen) Init() tea.Cmd { return nil }

func (s *QuizScreen) Title() string { return s.item.Title }

// Player exposes the underlying player.
func (s *QuizScreen) Player() *player.Quiz { return s.player }

// LastSession is the most recently emitted session, or nil.
func (s *QuizScreen) LastSession() *session.StudySession { return s.last }

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.player.Finished() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Summary"},
			{Key: "r", Description: "Restart"},
			{Key: "Esc", Description: "Library"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: "Enter", Description: "Select"},
		{Key: "→/n", Description: "Next"},
		{Key: "f", Description: "Finish"},
		{Key: "r", Description: "Restart"},
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}

	if s.player.Finished() {
		switch kmsg.String() {
		case "enter":
			if s.last != nil {
				return s, router.Push(summary.New(s.last))
			}
		case "r":
			s.player.Restart()
			s.syncChoices()
		}
		return s, nil
	}

	switch kmsg.String() {
	case "up", "k":
		s.choices.MoveUp()
	case "down", "j":
		s.choices.MoveDown()
	case "enter":
		s.player.SelectOption(s.choices.Highlight)
		s.choices.Chosen = s.choices.Highlight
	case "right", "n":
		s.player.Advance()
		s.syncChoices()
	case "f":
		s.player.Finish()
		s.syncChoices()
	case "r":
		s.player.Restart()
		s.syncChoices()
	}
	return s, nil
}

// syncChoices rebuilds the option view for the current question.
func (s *QuizScreen) syncChoices() {
	q, ok := s.player.Current()
	if !ok {
		s.choices = components.Choices{Chosen: -1}
		return
	}
	s.choices = components.Choices{
		Options: q.Options,
		Chosen:  -1,
		Correct: q.CorrectAnswers,
		Reveal:  s.player.Finished(),
	}
	if idx, ok := s.player.Selection(q.ID); ok {
		s.choices.Chosen = idx
		s.choices.Highlight = idx
	}
}

func (s *QuizScreen) View(width, height int) string {
	if s.player.Len() == 0 {
		return layout.Centered("\n\nThis quiz has no questions.", width, theme.Hint)
	}
	if s.player.Finished() {
		return s.renderResult(width)
	}

	q, _ := s.player.Current()
	var b strings.Builder

	bar := components.NewProgressBar("Question", s.player.CurrentIndex()+1, s.player.Len(),
		s.player.Progress(), min(width-4, 70))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n\n")

	b.WriteString(layout.Centered(q.Text, width, lipgloss.NewStyle().Foreground(theme.Text).Bold(true)))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.choices.View()))

	if s.player.HasAnsweredCurrent() {
		b.WriteString("\n")
		b.WriteString(layout.Centered("Answer recorded. Press → for the next question.", width, theme.Hint))
	}
	return b.String()
}

func (s *QuizScreen) renderResult(width int) string {
	var b strings.Builder

	score := s.player.FinalScore()
	style := theme.Correct
	verdict := "Passed"
	if data, ok := s.item.Data.Quiz(); ok && !data.Passed(score) {
		style = theme.Incorrect
		verdict = "Not passed"
	}

	b.WriteString("\n")
	b.WriteString(layout.Centered("Quiz complete", width, theme.Title))
	b.WriteString("\n\n")
	b.WriteString(layout.Centered(
		fmt.Sprintf("Score: %.0f%%  (%d/%d correct)  %s",
			score*100, s.player.CorrectCount(), s.player.Len(), verdict),
		width, style))
	b.WriteString("\n\n")
	b.WriteString(layout.Divider(width))
	b.WriteString("\n\n")

	for i, q := range s.player.Questions() {
		mark, st := "✗", theme.Incorrect
		if idx, ok := s.player.Selection(q.ID); ok && q.IsCorrect(idx) {
			mark, st = "✓", theme.Correct
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			st.Render(mark)+"  "+theme.Body.Render(fmt.Sprintf("%d. %s", i+1, q.Text))))
		b.WriteString("\n")
	}
	return b.String()
}
