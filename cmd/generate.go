package cmd

import (
	"errors"
	"fmt"

	"github.com/optima-study/optima/internal/content"
	"github.com/optima-study/optima/internal/generate"
	"github.com/optima-study/optima/internal/llm"
	"github.com/optima-study/optima/internal/store"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate <quiz|flashcards|summary|explanation>",
	Short: "Generate study content from an imported document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		kind, err := content.ParseKind(args[0])
		if err != nil {
			return err
		}
		docID, _ := cmd.Flags().GetString("doc")
		page, _ := cmd.Flags().GetInt("page")
		diffFlag, _ := cmd.Flags().GetString("difficulty")
		count, _ := cmd.Flags().GetInt("count")
		title, _ := cmd.Flags().GetString("title")
		focus, _ := cmd.Flags().GetString("focus")

		difficulty, err := content.ParseDifficulty(diffFlag)
		if err != nil {
			return err
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		doc, err := st.Documents().Get(ctx, docID)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no document %q; run `optima documents` to list them", docID)
		}
		if err != nil {
			return fmt.Errorf("load document: %w", err)
		}

		cfg, err := llm.ResolveConfig()
		if err != nil {
			return err
		}
		provider, err := llm.NewProvider(ctx, cfg, st.Events())
		if err != nil {
			return err
		}

		req := generate.Request{
			Kind:       kind,
			Document:   doc,
			Difficulty: difficulty,
			Count:      count,
			Title:      title,
			Focus:      focus,
		}
		if page > 0 {
			req.Page = &page
		}

		fmt.Printf("Generating %s from %s with %s/%s...\n",
			kind.DisplayName(), doc.Name, provider.Name(), provider.ModelID())
		item, err := generate.New(provider, generate.DefaultConfig()).Generate(ctx, req)
		if err != nil {
			return fmt.Errorf("generate: %w", err)
		}
		if err := st.Content().Save(ctx, item); err != nil {
			return fmt.Errorf("save content: %w", err)
		}

		fmt.Printf("Saved %q\n", item.Title)
		fmt.Printf("  id:       %s\n", item.ID)
		fmt.Printf("  duration: ~%d min\n", int(item.EstimatedDuration.Minutes()+0.5))
		if kind.Playable() {
			fmt.Printf("Run `optima play %s` to start.\n", item.ID)
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringP("doc", "d", "", "Document id (see `optima documents`)")
	generateCmd.Flags().IntP("page", "p", 0, "Use only this 1-based page")
	generateCmd.Flags().String("difficulty", string(content.DifficultyIntermediate), "beginner, intermediate, advanced or expert")
	generateCmd.Flags().IntP("count", "n", 0, "Number of questions or cards (default depends on kind)")
	generateCmd.Flags().String("title", "", "Override the generated title")
	generateCmd.Flags().String("focus", "", "Topic to focus on")
	_ = generateCmd.MarkFlagRequired("doc")
}
