package cmd

import (
	"fmt"
	"strings"

	"github.com/optima-study/optima/internal/document"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file.pdf>...",
	Short: "Import PDF documents",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		docs := st.Documents()
		for _, path := range args {
			doc, err := document.Import(path)
			if err != nil {
				return fmt.Errorf("import %s: %w", path, err)
			}
			if err := docs.Save(cmd.Context(), doc); err != nil {
				return fmt.Errorf("save %s: %w", path, err)
			}
			fmt.Printf("Imported %s\n", doc.Name)
			fmt.Printf("  id:    %s\n", doc.ID)
			fmt.Printf("  pages: %d (%d with text), %d words\n", doc.PageCount, len(doc.Pages), doc.WordCount())
		}
		return nil
	},
}

var documentsCmd = &cobra.Command{
	Use:     "documents",
	Aliases: []string{"docs"},
	Short:   "List imported documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		docs, err := st.Documents().List(cmd.Context())
		if err != nil {
			return fmt.Errorf("list documents: %w", err)
		}
		if len(docs) == 0 {
			fmt.Println("No documents yet. Run `optima import <file.pdf>`.")
			return nil
		}

		fmt.Printf("%-36s  %-16s  %5s  %s\n", "ID", "Imported", "Pages", "Name")
		fmt.Println(strings.Repeat("─", 90))
		for _, d := range docs {
			fmt.Printf("%-36s  %-16s  %5d  %s\n",
				d.ID, d.ImportedAt.Local().Format("2006-01-02 15:04"), d.PageCount, d.Name)
		}
		return nil
	},
}
