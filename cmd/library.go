package cmd

import (
	"fmt"
	"strings"

	"github.com/optima-study/optima/internal/content"
	"github.com/optima-study/optima/internal/store"
	"github.com/spf13/cobra"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "List generated content items",
	RunE: func(cmd *cobra.Command, args []string) error {
		docID, _ := cmd.Flags().GetString("doc")
		kindFlag, _ := cmd.Flags().GetString("kind")
		limit, _ := cmd.Flags().GetInt("limit")

		filter := store.ContentFilter{DocumentID: docID, Limit: limit}
		if kindFlag != "" {
			kind, err := content.ParseKind(kindFlag)
			if err != nil {
				return err
			}
			filter.Kind = kind
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		items, err := st.Content().List(cmd.Context(), filter)
		if err != nil {
			return fmt.Errorf("list content: %w", err)
		}
		if len(items) == 0 {
			fmt.Println("No content yet. Run `optima generate`.")
			return nil
		}

		fmt.Printf("%-36s  %-12s  %-12s  %4s  %5s  %s\n", "ID", "Kind", "Difficulty", "Used", "Avg", "Title")
		fmt.Println(strings.Repeat("─", 100))
		for _, it := range items {
			avg := "-"
			if it.Usage.AverageScore != nil {
				avg = fmt.Sprintf("%.0f%%", *it.Usage.AverageScore*100)
			}
			fmt.Printf("%-36s  %-12s  %-12s  %4d  %5s  %s\n",
				it.ID, it.Kind.DisplayName(), it.Difficulty, it.Usage.TimesUsed, avg, it.Title)
		}
		return nil
	},
}

func init() {
	libraryCmd.Flags().StringP("doc", "d", "", "Only items generated from this document")
	libraryCmd.Flags().StringP("kind", "k", "", "Only items of this kind")
	libraryCmd.Flags().IntP("limit", "n", 0, "Maximum number of items (0 for all)")
}
