package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/optima-study/optima/internal/ui/theme"
)

// ListItem is a single row in a List.
type ListItem struct {
	Label  string
	Detail string

	// Disabled rows are shown dimmed and skipped by navigation.
	Disabled bool
}

// List is a vertical selectable list that skips disabled rows.
type List struct {
	Items    []ListItem
	Selected int
}

// NewList creates a list with the first enabled row selected. Selected
// is -1 when every row is disabled.
func NewList(items []ListItem) List {
	l := List{Items: items, Selected: -1}
	for i, item := range items {
		if !item.Disabled {
			l.Selected = i
			break
		}
	}
	return l
}

// Up moves the selection to the previous enabled row.
func (l *List) Up() {
	for i := l.Selected - 1; i >= 0; i-- {
		if !l.Items[i].Disabled {
			l.Selected = i
			return
		}
	}
}

// Down moves the selection to the next enabled row.
func (l *List) Down() {
	for i := l.Selected + 1; i < len(l.Items); i++ {
		if !l.Items[i].Disabled {
			l.Selected = i
			return
		}
	}
}

// View renders at most height rows, scrolled to keep the selection visible.
func (l List) View(width, height int) string {
	start := 0
	if height > 0 && l.Selected >= height {
		start = l.Selected - height + 1
	}
	end := len(l.Items)
	if height > 0 {
		end = min(end, start+height)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		item := l.Items[i]
		prefix := "    "
		style := theme.Unselected
		switch {
		case item.Disabled:
			style = theme.Disabled
		case i == l.Selected:
			prefix = "  ▸ "
			style = theme.Selected
		}

		line := style.Render(prefix + item.Label)
		if item.Detail != "" {
			gap := max(width-lipgloss.Width(line)-lipgloss.Width(item.Detail)-2, 2)
			line += strings.Repeat(" ", gap) + theme.Hint.Render(item.Detail)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
