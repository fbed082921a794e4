// Package app is the root bubbletea model of the terminal host.
package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/optima-study/optima/internal/content"
	"github.com/optima-study/optima/internal/player"
	"github.com/optima-study/optima/internal/router"
	"github.com/optima-study/optima/internal/screen"
	"github.com/optima-study/optima/internal/screens/home"
	"github.com/optima-study/optima/internal/store"
	"github.com/optima-study/optima/internal/ui/layout"
)

// Options configures the terminal host.
type Options struct {
	Content  store.ContentRepo
	Sessions store.SessionRepo

	// Emitter receives every finished session. Usually a player.Handoff.
	Emitter player.Emitter

	// PlayerOpts are applied to every player the library opens.
	PlayerOpts []player.Option

	// Status is shown on the right of the header, e.g. the study streak.
	Status string

	// Start, when set, is opened on top of the library at launch.
	Start *content.GeneratedContentItem
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	start  screen.Screen
	status string
	width  int
	height int
}

// newAppModel creates an AppModel with the library as root screen.
func newAppModel(opts Options) (AppModel, error) {
	root := home.New(opts.Content, opts.Sessions, opts.Emitter, opts.PlayerOpts...)
	m := AppModel{
		router: router.New(root),
		status: opts.Status,
	}
	if opts.Start != nil {
		s, err := home.Open(opts.Start, opts.Emitter, opts.PlayerOpts...)
		if err != nil {
			return AppModel{}, err
		}
		m.start = s
	}
	return m, nil
}

func (m AppModel) Init() tea.Cmd {
	cmd := m.router.Active().Init()
	if m.start != nil {
		return tea.Batch(cmd, router.Push(m.start))
	}
	return cmd
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if c, ok := m.router.Active().(screen.Capturer); ok && c.CapturesEsc() {
				break
			}
			if m.router.Depth() > 1 {
				return m, router.Pop
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) footerHints() []layout.KeyHint {
	if p, ok := m.router.Active().(screen.KeyHintProvider); ok {
		return p.KeyHints()
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render draws the full frame for the current terminal size.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	title := ""
	if active := m.router.Active(); active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.status, m.width)
	footer := layout.RenderFooter(m.footerHints(), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)

	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	m, err := newAppModel(opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
