// Package reader displays summary and explanation items.
package reader

import (
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/optima-study/optima/internal/content"
	"github.com/optima-study/optima/internal/screen"
	"github.com/optima-study/optima/internal/ui/layout"
	"github.com/optima-study/optima/internal/ui/theme"
)

// ErrNotReadable is returned for items without a text payload.
var ErrNotReadable = errors.New("content item has no readable text")

// ReaderScreen shows a text item with line scrolling.
type ReaderScreen struct {
	title  string
	lines  []string
	offset int
	width  int
	body   string
}

var _ screen.Screen = (*ReaderScreen)(nil)
var _ screen.KeyHintProvider = (*ReaderScreen)(nil)

// New creates a reader for a summary or explanation item.
func New(item *content.GeneratedContentItem) (*ReaderScreen, error) {
	var b strings.Builder
	switch p := item.Data.Payload().(type) {
	case *content.SummaryData:
		b.WriteString(p.Text)
		writeList(&b, "Key points", p.KeyPoints)
		if len(p.Concepts) > 0 {
			b.WriteString("\n\nConcepts\n")
			for _, c := range p.Concepts {
				fmt.Fprintf(&b, "  • %s (%s): %s\n", c.Name, c.Importance, c.Definition)
			}
		}
	case *content.ExplanationData:
		b.WriteString(p.Text)
		writeList(&b, "Examples", p.Examples)
		writeList(&b, "Analogies", p.Analogies)
		writeList(&b, "Diagrams", p.VisualDescriptions)
	default:
		return nil, ErrNotReadable
	}
	return &ReaderScreen{title: item.Title, body: b.String()}, nil
}

func writeList(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n\n%s\n", heading)
	for _, it := range items {
		fmt.Fprintf(b, "  • %s\n", it)
	}
}

func (r *ReaderScreen) Init() tea.Cmd { return nil }

func (r *ReaderScreen) Title() string { return r.title }

func (r *ReaderScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (r *ReaderScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "up", "k":
			r.offset = max(r.offset-1, 0)
		case "down", "j":
			r.offset = min(r.offset+1, max(len(r.lines)-1, 0))
		}
	}
	return r, nil
}

func (r *ReaderScreen) View(width, height int) string {
	textWidth := max(min(width-8, 90), 20)
	if textWidth != r.width {
		wrapped := lipgloss.NewStyle().Width(textWidth).Render(r.body)
		r.lines = strings.Split(wrapped, "\n")
		r.width = textWidth
		r.offset = min(r.offset, max(len(r.lines)-1, 0))
	}

	end := min(r.offset+max(height-2, 1), len(r.lines))
	page := strings.Join(r.lines[r.offset:end], "\n")
	return "\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Body.Render(page))
}
