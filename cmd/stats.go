package cmd

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/optima-study/optima/internal/analytics"
	"github.com/optima-study/optima/internal/session"
	"github.com/optima-study/optima/internal/store"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show study statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		top, _ := cmd.Flags().GetInt("top")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		sessions, err := st.Sessions().List(cmd.Context(), store.SessionFilter{})
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}

		r := analytics.Compute(sessions, time.Now())
		if r.TotalSessions == 0 {
			fmt.Println("No sessions recorded yet.")
			return nil
		}

		fmt.Printf("Sessions:        %d\n", r.TotalSessions)
		fmt.Printf("Study time:      %s\n", r.TotalTime.Round(time.Minute))
		fmt.Printf("Average score:   %s\n", formatScore(r.AverageScore))
		fmt.Printf("Current streak:  %d days\n", r.CurrentStreak)
		fmt.Printf("Longest streak:  %d days\n", r.LongestStreak)

		fmt.Println()
		fmt.Println("By Type")
		fmt.Println(strings.Repeat("─", 40))
		for _, t := range session.Types {
			ts, ok := r.ByType[t]
			if !ok {
				continue
			}
			fmt.Printf("%-12s  %6d  %12s\n", t, ts.Sessions, ts.Time.Round(time.Second))
		}

		if concepts := r.TopConcepts(top); len(concepts) > 0 {
			fmt.Println()
			fmt.Println("Top Concepts")
			fmt.Println(strings.Repeat("─", 40))
			for _, c := range concepts {
				fmt.Printf("%-32s  %6d\n", truncate(c.Concept, 32), c.Count)
			}
		}

		if len(r.Errors) > 0 {
			fmt.Println()
			fmt.Println("Errors")
			fmt.Println(strings.Repeat("─", 40))
			cats := make([]session.ErrorCategory, 0, len(r.Errors))
			for c := range r.Errors {
				cats = append(cats, c)
			}
			slices.Sort(cats)
			for _, c := range cats {
				fmt.Printf("%-16s  %6d\n", c, r.Errors[c])
			}
		}

		if n := len(r.Trend); n > 0 {
			fmt.Println()
			fmt.Println("Recent Scores")
			fmt.Println(strings.Repeat("─", 40))
			for _, p := range r.Trend[max(n-5, 0):] {
				fmt.Printf("%-16s  %5.0f%%\n", p.At.Local().Format("2006-01-02 15:04"), p.Score*100)
			}
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Int("top", 10, "Number of concepts to show")
}
