// Package flashcards is the screen that drives a flashcard player.
package flashcards

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

// ErrNotDeck is returned when the item does not carry a flashcard payload.
var ErrNotDeck = errors.New("content item is not a flashcard deck")

// DeckScreen shows one card at a time and maps keys onto the player.
type DeckScreen struct {
	item   *content.GeneratedContentItem
	player *player.Flashcards
	known  int
	last   *session.StudySession
}

var _ screen.Screen = (*DeckScreen)(nil)
var _ screen.KeyHintProvider = (*DeckScreen)(nil)

// New creates a flashcard screen. Finished sessions go to emitter.
func New(item *content.GeneratedContentItem, emitter player.Emitter, opts ...player.Option) (*DeckScreen, error) {
	deck, ok := item.Data.Flashcards()
	if !ok {
		return nil, ErrNotDeck
	}
	s := &DeckScreen{item: item}

	opts = append([]player.Option{
		player.WithContentItem(item.ID),
		player.WithConcepts(item.Tags...),
	}, opts...)
	s.player = player.NewFlashcards(deck.Cards, item.Title, item.DocumentID,
		player.EmitterFunc(func(sess *session.StudySession) {
			s.last = sess
			if emitter != nil {
				emitter.Emit(sess)
			}
		}), opts...)
	return s, nil
}

func (s *DeckScreen) Init() tea.Cmd { return nil }

func (s *DeckScreen) Title() string { return s.item.Title }

// Player exposes the underlying player.
func (s *DeckScreen) Player() *player.Flashcards { return s.player }

// LastSession is the most recently emitted session, or nil.
func (s *DeckScreen) LastSession() *session.StudySession { return s.last }

func (s *DeckScreen) KeyHints() []layout.KeyHint {
	if s.player.Finished() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Summary"},
			{Key: "r", Description: "Restart"},
			{Key: "Esc", Description: "Library"},
		}
	}
	return []layout.KeyHint{
		{Key: "Space", Description: "Flip"},
		{Key: "k", Description: "Known"},
		{Key: "u", Description: "Unknown"},
		{Key: "r", Description: "Restart"},
	}
}

func (s *DeckScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "r":
		s.player.Restart()
		s.known = 0
		return s, nil
	case "enter":
		if s.player.Finished() && s.last != nil {
			return s, router.Push(summary.New(s.last))
		}
		return s, nil
	}
	if s.player.Finished() {
		return s, nil
	}

	switch kmsg.String() {
	case "space", " ":
		s.player.FlipCurrent()
	case "k":
		if _, ok := s.player.Current(); ok {
			s.known++
		}
		s.player.MarkKnown()
	case "u":
		s.player.MarkUnknown()
	}
	return s, nil
}

func (s *DeckScreen) View(width, height int) string {
	if s.player.Len() == 0 {
		return layout.Centered("\n\nThis deck has no cards.", width, theme.Hint)
	}
	if s.player.Finished() {
		return s.renderResult(width)
	}

	card, _ := s.player.Current()
	var b strings.Builder

	bar := components.NewProgressBar("Card", s.player.CurrentIndex()+1, s.player.Len(),
		s.player.Progress(), min(width-4, 70))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n\n")

	if card.Category != "" {
		b.WriteString(layout.Centered(card.Category, width, theme.Hint))
		b.WriteString("\n")
	}

	face, style, side := card.Front, theme.CardFront, "front"
	if s.player.Flipped() {
		face, style, side = card.Back, theme.CardBack, "back"
	}
	cardWidth := min(width-8, 60)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		style.Width(cardWidth).Height(max(height/3, 5)).Render(face)))
	b.WriteString("\n")
	b.WriteString(layout.Centered(side, width, theme.Hint))
	return b.String()
}

func (s *DeckScreen) renderResult(width int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(layout.Centered("Deck complete", width, theme.Title))
	b.WriteString("\n\n")
	b.WriteString(layout.Centered(
		fmt.Sprintf("Reviewed %d of %d cards  ·  %d known, %d to revisit",
			s.player.Reviewed(), s.player.Len(), s.known, s.player.Reviewed()-s.known),
		width, theme.Body))
	b.WriteString("\n")
	return b.String()
}
