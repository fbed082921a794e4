// Package home is the library screen: every generated content item, with
// a filter box. Quizzes and flashcard decks open in their players.
package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/optima-study/optima/internal/content"
	"github.com/optima-study/optima/internal/player"
	"github.com/optima-study/optima/internal/router"
	"github.com/optima-study/optima/internal/screen"
	"github.com/optima-study/optima/internal/screens/flashcards"
	"github.com/optima-study/optima/internal/screens/history"
	"github.com/optima-study/optima/internal/screens/quiz"
	"github.com/optima-study/optima/internal/screens/reader"
	"github.com/optima-study/optima/internal/store"
	"github.com/optima-study/optima/internal/ui/components"
	"github.com/optima-study/optima/internal/ui/layout"
	"github.com/optima-study/optima/internal/ui/theme"
)

type libraryLoadedMsg struct {
	Items []*content.GeneratedContentItem
	Err   error
}

// HomeScreen lists the content library.
type HomeScreen struct {
	contentRepo store.ContentRepo
	sessionRepo store.SessionRepo
	emitter     player.Emitter
	playerOpts  []player.Option

	items   []*content.GeneratedContentItem
	visible []*content.GeneratedContentItem
	list    components.List
	filter  components.FilterInput
	loaded  bool
	errMsg  string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.Capturer = (*HomeScreen)(nil)

// New creates the library screen. Sessions finished in the players are
// passed to emitter. sessionRepo may be nil, which hides the history.
func New(contentRepo store.ContentRepo, sessionRepo store.SessionRepo, emitter player.Emitter, opts ...player.Option) *HomeScreen {
	return &HomeScreen{
		contentRepo: contentRepo,
		sessionRepo: sessionRepo,
		emitter:     emitter,
		playerOpts:  opts,
		filter:      components.NewFilterInput("filter by title, tag or kind", 60),
	}
}

// Init loads the library. It runs again whenever the screen is revealed,
// so usage counts are fresh after a session.
func (h *HomeScreen) Init() tea.Cmd {
	repo := h.contentRepo
	return tea.Batch(h.filter.Init(), func() tea.Msg {
		if repo == nil {
			return libraryLoadedMsg{}
		}
		items, err := repo.List(context.Background(), store.ContentFilter{})
		return libraryLoadedMsg{Items: items, Err: err}
	})
}

func (h *HomeScreen) Title() string {
	return "Library"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "Type", Description: "Filter"},
	}
	if h.sessionRepo != nil {
		hints = append(hints, layout.KeyHint{Key: "Tab", Description: "History"})
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

// CapturesEsc is true while the filter has text; Esc clears it.
func (h *HomeScreen) CapturesEsc() bool {
	return h.filter.Value() != ""
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case libraryLoadedMsg:
		h.loaded = true
		h.errMsg = ""
		if msg.Err != nil {
			h.errMsg = msg.Err.Error()
		}
		h.items = msg.Items
		h.refilter()
		return h, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "up":
			h.list.Up()
			return h, nil
		case "down":
			h.list.Down()
			return h, nil
		case "enter":
			return h, h.open()
		case "tab":
			if h.sessionRepo != nil {
				return h, router.Push(history.New(h.sessionRepo))
			}
			return h, nil
		case "esc":
			h.filter.Model.SetValue("")
			h.refilter()
			return h, nil
		}
	}

	var cmd tea.Cmd
	before := h.filter.Value()
	h.filter, cmd = h.filter.Update(msg)
	if h.filter.Value() != before {
		h.refilter()
	}
	return h, cmd
}

// refilter rebuilds the visible rows, keeping the selection on the same
// item when it is still visible.
func (h *HomeScreen) refilter() {
	var selectedID string
	if sel := h.selected(); sel != nil {
		selectedID = sel.ID
	}

	h.visible = h.visible[:0]
	rows := make([]components.ListItem, 0, len(h.items))
	for _, it := range h.items {
		if !h.filter.Matches(it.Title, string(it.Kind), it.Kind.DisplayName(), strings.Join(it.Tags, " ")) {
			continue
		}
		h.visible = append(h.visible, it)
		rows = append(rows, components.ListItem{
			Label:    fmt.Sprintf("%-12s %s", it.Kind.DisplayName(), it.Title),
			Detail:   detail(it),
			Disabled: !openable(it.Kind),
		})
	}
	h.list = components.NewList(rows)
	for i, it := range h.visible {
		if it.ID == selectedID && !rows[i].Disabled {
			h.list.Selected = i
		}
	}
}

func (h *HomeScreen) selected() *content.GeneratedContentItem {
	if h.list.Selected < 0 || h.list.Selected >= len(h.visible) {
		return nil
	}
	return h.visible[h.list.Selected]
}

// open pushes the screen for the selected item.
func (h *HomeScreen) open() tea.Cmd {
	it := h.selected()
	if it == nil {
		return nil
	}
	next, err := Open(it, h.emitter, h.playerOpts...)
	if err != nil {
		h.errMsg = err.Error()
		return nil
	}
	return router.Push(next)
}

// Open builds the screen that plays or displays item.
func Open(item *content.GeneratedContentItem, emitter player.Emitter, opts ...player.Option) (screen.Screen, error) {
	switch item.Kind {
	case content.KindQuiz:
		return quiz.New(item, emitter, opts...)
	case content.KindFlashcards:
		return flashcards.New(item, emitter, opts...)
	case content.KindSummary, content.KindExplanation:
		return reader.New(item)
	}
	return nil, fmt.Errorf("%s items cannot be opened", item.Kind.DisplayName())
}

// openable reports whether the library can open items of kind. Only
// quizzes and decks are playable; summaries and explanations open in the
// reader.
func openable(k content.Kind) bool {
	return k.Playable() || k == content.KindSummary || k == content.KindExplanation
}

func detail(it *content.GeneratedContentItem) string {
	var parts []string
	if it.Usage.TimesUsed > 0 {
		parts = append(parts, fmt.Sprintf("used %d×", it.Usage.TimesUsed))
	}
	if it.Usage.AverageScore != nil {
		parts = append(parts, fmt.Sprintf("avg %.0f%%", *it.Usage.AverageScore*100))
	}
	if it.EstimatedDuration > 0 {
		parts = append(parts, fmt.Sprintf("~%d min", int(it.EstimatedDuration.Minutes()+0.5)))
	}
	return strings.Join(parts, "  ")
}

func (h *HomeScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(h.filter.View())
	b.WriteString("\n\n")

	switch {
	case h.errMsg != "":
		b.WriteString(layout.Centered("Error: "+h.errMsg, width, lipgloss.NewStyle().Foreground(theme.Error)))
		b.WriteString("\n\n")
	case !h.loaded:
		b.WriteString(layout.Centered("Loading library...", width, theme.Hint))
		return b.String()
	}

	if len(h.items) == 0 {
		b.WriteString(layout.Centered("No content yet. Import a PDF and run `optima generate`.", width, theme.Hint))
		return b.String()
	}
	if len(h.visible) == 0 {
		b.WriteString(layout.Centered("Nothing matches the filter.", width, theme.Hint))
		return b.String()
	}

	b.WriteString(h.list.View(width-2, max(height-5, 1)))
	return b.String()
}
