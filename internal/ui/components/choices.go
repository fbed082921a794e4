package components

import (
	"fmt"
	"slices"
	"strings"

	"github.com/optima-study/optima/internal/ui/theme"
)

// Choices renders the options of a quiz question. The quiz player owns
// the answer state; Choices only draws it.
type Choices struct {
	Options []string

	// Highlight is the option under the cursor.
	Highlight int

	// Chosen is the recorded selection, -1 for none.
	Chosen int

	// Correct holds the correct option indices. When Reveal is set the
	// correct options are shown in green and a wrong choice in red.
	Correct []int
	Reveal  bool
}

// MoveUp moves the highlight one option up.
func (c *Choices) MoveUp() {
	if c.Highlight > 0 {
		c.Highlight--
	}
}

// MoveDown moves the highlight one option down.
func (c *Choices) MoveDown() {
	if c.Highlight < len(c.Options)-1 {
		c.Highlight++
	}
}

// View renders one option per line, lettered A, B, C and so on.
func (c Choices) View() string {
	var b strings.Builder
	for i, opt := range c.Options {
		cursor := "  "
		if i == c.Highlight && !c.Reveal {
			cursor = "▸ "
		}
		mark := " "
		if i == c.Chosen {
			mark = "●"
		}
		line := fmt.Sprintf("%s%s %c)  %s", cursor, mark, optionLetter(i), opt)

		style := theme.Unselected
		switch {
		case c.Reveal && c.isCorrect(i):
			style = theme.Correct
		case c.Reveal && i == c.Chosen:
			style = theme.Incorrect
		case c.Reveal:
			style = theme.Disabled
		case i == c.Highlight:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func (c Choices) isCorrect(i int) bool {
	return slices.Contains(c.Correct, i)
}

func optionLetter(i int) rune {
	if i < 26 {
		return rune('A' + i)
	}
	return '?'
}

