package cmd

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/optima-study/optima/internal/session"
	"github.com/optima-study/optima/internal/store"
	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List finished study sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		docID, _ := cmd.Flags().GetString("doc")
		typ, _ := cmd.Flags().GetString("type")
		limit, _ := cmd.Flags().GetInt("limit")

		filter := store.SessionFilter{DocumentID: docID, Type: session.Type(typ), Limit: limit}
		if typ != "" && !slices.Contains(session.Types, filter.Type) {
			return fmt.Errorf("unknown session type: %q", typ)
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		sessions, err := st.Sessions().List(cmd.Context(), filter)
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions recorded yet.")
			return nil
		}

		fmt.Printf("%-36s  %-16s  %-10s  %8s  %10s  %6s\n", "ID", "Started", "Type", "Duration", "Activities", "Score")
		fmt.Println(strings.Repeat("─", 96))
		for _, s := range sessions {
			fmt.Printf("%-36s  %-16s  %-10s  %8s  %10d  %6s\n",
				s.ID,
				s.StartedAt.Local().Format("2006-01-02 15:04"),
				s.Type,
				formatDuration(s.Duration(time.Now())),
				len(s.Activities),
				formatScore(s.OverallScore),
			)
		}
		return nil
	},
}

var sessionsViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the summary of one session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		s, err := st.Sessions().Get(cmd.Context(), args[0])
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("session %s not found", args[0])
		}
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}

		sum := s.Summary(time.Now())
		fmt.Printf("ID:          %s\n", s.ID)
		fmt.Printf("Type:        %s\n", sum.Type)
		fmt.Printf("Document:    %s\n", s.DocumentID)
		fmt.Printf("Started:     %s\n", s.StartedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("Duration:    %s\n", formatDuration(sum.Duration))
		fmt.Printf("Activities:  %d\n", sum.Activities)
		if sum.Scored > 0 {
			fmt.Printf("Correct:     %d/%d (%.0f%%)\n", sum.Correct, sum.Scored, sum.Accuracy()*100)
		}
		fmt.Printf("Score:       %s\n", formatScore(sum.OverallScore))
		if len(sum.Concepts) > 0 {
			fmt.Printf("Concepts:    %s\n", strings.Join(sum.Concepts, ", "))
		}
		if len(sum.Errors) > 0 {
			fmt.Println()
			fmt.Println("Errors")
			fmt.Println(strings.Repeat("─", 60))
			for _, e := range sum.Errors {
				fmt.Printf("  [%s] %s\n", e.Category, e.Description)
			}
		}
		return nil
	},
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

func formatScore(score *float64) string {
	if score == nil {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", *score*100)
}

func init() {
	sessionsCmd.Flags().StringP("doc", "d", "", "Only sessions on this document")
	sessionsCmd.Flags().StringP("type", "t", "", "Only sessions of this type (quiz, flashcards, ...)")
	sessionsCmd.Flags().IntP("limit", "n", 20, "Maximum number of sessions (0 for all)")

	sessionsCmd.AddCommand(sessionsViewCmd)
}
