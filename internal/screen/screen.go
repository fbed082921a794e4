// Package screen defines the contract between the router and the screens
// it stacks.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/optima-study/optima/internal/ui/layout"
)

// Screen is one page of the terminal host. Screens are driven only from
// the bubbletea update loop, so they may own non-thread-safe state such
// as a player.
type Screen interface {
	// Init returns an initial command when the screen is pushed.
	Init() tea.Cmd

	// Update handles messages and returns the updated screen and command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Capturer is an optional interface for screens that consume Esc
// themselves, e.g. to clear a filter before navigating back.
type Capturer interface {
	CapturesEsc() bool
}
