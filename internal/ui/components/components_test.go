package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func TestList_SkipsDisabled(t *testing.T) {
	l := NewList([]ListItem{
		{Label: "summary", Disabled: true},
		{Label: "quiz"},
		{Label: "mind map", Disabled: true},
		{Label: "deck"},
	})
	if l.Selected != 1 {
		t.Fatalf("expected first enabled row selected, got %d", l.Selected)
	}
	l.Down()
	if l.Selected != 3 {
		t.Errorf("Down: expected 3, got %d", l.Selected)
	}
	l.Down()
	if l.Selected != 3 {
		t.Errorf("Down at end: expected 3, got %d", l.Selected)
	}
	l.Up()
	l.Up()
	if l.Selected != 1 {
		t.Errorf("Up: expected 1, got %d", l.Selected)
	}
}

func TestList_AllDisabled(t *testing.T) {
	l := NewList([]ListItem{{Label: "x", Disabled: true}})
	if l.Selected != -1 {
		t.Errorf("expected -1, got %d", l.Selected)
	}
}

func TestList_ViewScrolls(t *testing.T) {
	items := make([]ListItem, 10)
	for i := range items {
		items[i] = ListItem{Label: string(rune('a' + i))}
	}
	l := NewList(items)
	l.Selected = 7

	view := l.View(40, 3)
	if got := strings.Count(view, "\n"); got != 3 {
		t.Fatalf("expected 3 rows, got %d", got)
	}
	if !strings.Contains(view, "▸ h") {
		t.Errorf("selected row not visible:\n%s", view)
	}
}

func TestChoices_Navigation(t *testing.T) {
	c := Choices{Options: []string{"ATP", "RNA", "DNA"}, Chosen: -1}
	c.MoveUp()
	if c.Highlight != 0 {
		t.Errorf("MoveUp at top: got %d", c.Highlight)
	}
	c.MoveDown()
	c.MoveDown()
	c.MoveDown()
	if c.Highlight != 2 {
		t.Errorf("MoveDown at bottom: got %d", c.Highlight)
	}
	if !strings.Contains(c.View(), "C)  DNA") {
		t.Errorf("expected lettered options:\n%s", c.View())
	}
}

func TestFilterInput_Matches(t *testing.T) {
	f := NewFilterInput("filter", 40)
	if !f.Matches("anything") {
		t.Error("empty filter must match")
	}
	for _, r := range "cell quiz" {
		f, _ = f.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	if f.Value() != "cell quiz" {
		t.Fatalf("unexpected value %q", f.Value())
	}
	if !f.Matches("Cell Biology", "Quiz") {
		t.Error("expected case-insensitive match across fields")
	}
	if f.Matches("Cell Biology", "Flashcards") {
		t.Error("all terms must match")
	}
}

func TestProgressBar_Clamps(t *testing.T) {
	p := NewProgressBar("Card", 1, 4, 1.5, 40)
	if p.Percent != 1 {
		t.Errorf("expected clamp to 1, got %v", p.Percent)
	}
	if !strings.Contains(p.View(), "Card 1/4") {
		t.Errorf("missing counter: %s", p.View())
	}
}
