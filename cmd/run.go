package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/optima-study/optima/internal/analytics"
	"github.com/optima-study/optima/internal/app"
	"github.com/optima-study/optima/internal/content"
	"github.com/optima-study/optima/internal/player"
	"github.com/optima-study/optima/internal/store"
	"github.com/spf13/cobra"
)

// runApp opens the store, wires the session hand-off, and launches the TUI.
// startID, when set, names a content item opened on top of the library.
func runApp(cmd *cobra.Command, startID string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	var start *content.GeneratedContentItem
	if startID != "" {
		start, err = st.Content().Get(cmd.Context(), startID)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no content item %q; run `optima library` to list items", startID)
		}
		if err != nil {
			return fmt.Errorf("load content: %w", err)
		}
	}

	logger, logFile, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer logFile.Close()

	handoff := player.NewHandoff(st.Sessions(), logger)
	// Sessions finished just before quitting are still in flight.
	defer handoff.Wait()

	opts := app.Options{
		Content:    st.Content(),
		Sessions:   st.Sessions(),
		Emitter:    handoff,
		PlayerOpts: []player.Option{player.WithLogger(logger)},
		Status:     streakStatus(cmd.Context(), st.Sessions()),
		Start:      start,
	}
	return app.Run(opts)
}

// streakStatus renders the current study streak for the header.
func streakStatus(ctx context.Context, repo store.SessionRepo) string {
	sessions, err := repo.List(ctx, store.SessionFilter{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: load sessions: %v\n", err)
		return ""
	}
	report := analytics.Compute(sessions, time.Now())
	switch report.CurrentStreak {
	case 0:
		return ""
	case 1:
		return "1-day streak  "
	default:
		return fmt.Sprintf("%d-day streak  ", report.CurrentStreak)
	}
}
