package app

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/optima-study/optima/internal/content"
	"github.com/optima-study/optima/internal/router"
	"github.com/optima-study/optima/internal/screen"
	"github.com/optima-study/optima/internal/store"
	"github.com/optima-study/optima/internal/ui/layout"
)

type emptyContent struct{}

func (emptyContent) Save(context.Context, *content.GeneratedContentItem) error { return nil }
func (emptyContent) Get(context.Context, string) (*content.GeneratedContentItem, error) {
	return nil, store.ErrNotFound
}
func (emptyContent) List(context.Context, store.ContentFilter) ([]*content.GeneratedContentItem, error) {
	return nil, nil
}
func (emptyContent) RecordUsage(context.Context, string, *float64, time.Time) error { return nil }

// stubScreen is a minimal screen for stack tests.
type stubScreen struct {
	title   string
	capture bool
	keys    []string
}

func (s *stubScreen) Init() tea.Cmd { return nil }
func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyPressMsg); ok {
		s.keys = append(s.keys, k.String())
	}
	return s, nil
}
func (s *stubScreen) View(int, int) string { return s.title + " body" }
func (s *stubScreen) Title() string        { return s.title }
func (s *stubScreen) CapturesEsc() bool    { return s.capture }
func (s *stubScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "x", Description: "Do thing"}}
}

func newModel() AppModel {
	m, err := newAppModel(Options{Content: emptyContent{}, Status: "3-day streak"})
	if err != nil {
		panic(err)
	}
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(AppModel)
}

func TestApp_CtrlCQuits(t *testing.T) {
	m := newModel()
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected QuitMsg, got %T", cmd())
	}
}

func TestApp_EscPopsPushedScreen(t *testing.T) {
	m := newModel()
	m.router.Push(&stubScreen{title: "Deck"})

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Errorf("expected PopScreenMsg, got %T", cmd())
	}
}

func TestApp_EscAtRootDoesNothing(t *testing.T) {
	m := newModel()
	if _, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape}); cmd != nil {
		t.Error("esc on an idle root should do nothing")
	}
}

func TestApp_EscForwardedToCapturer(t *testing.T) {
	m := newModel()
	s := &stubScreen{title: "Filtering", capture: true}
	m.router.Push(s)

	m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.router.Depth() != 2 {
		t.Fatalf("capturing screen was popped")
	}
	if len(s.keys) != 1 || s.keys[0] != "esc" {
		t.Errorf("esc not forwarded: %v", s.keys)
	}
}

func TestApp_View(t *testing.T) {
	m := newModel()
	m.router.Push(&stubScreen{title: "Deck"})

	view := m.render()
	for _, want := range []string{"Optima", "Deck", "3-day streak", "Do thing", "Deck body"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestApp_TooSmall(t *testing.T) {
	m, _ := newAppModel(Options{})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	if !strings.Contains(updated.(AppModel).render(), "Terminal too small") {
		t.Error("expected min size message")
	}
}

func TestApp_StartOpensItem(t *testing.T) {
	deck, err := content.NewItem(content.KindFlashcards, "Organelles", "doc-1", content.NewContentData(&content.FlashcardsData{
		Cards: []content.Flashcard{content.NewFlashcard("ATP", "Energy")},
	}), time.Now())
	if err != nil {
		t.Fatal(err)
	}

	m, err := newAppModel(Options{Content: emptyContent{}, Start: deck})
	if err != nil {
		t.Fatalf("newAppModel: %v", err)
	}
	if m.start == nil || m.start.Title() != "Organelles" {
		t.Fatal("start screen not built")
	}

	mind, _ := content.NewItem(content.KindMindMap, "Map", "doc-1", nil, time.Now())
	if _, err := newAppModel(Options{Start: mind}); err == nil {
		t.Error("expected an error for an unopenable start item")
	}
}
