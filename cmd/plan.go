package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/puffgino/bookgen/pkg/config"
	"github.com/puffgino/bookgen/pkg/outline"
	"github.com/spf13/cobra"
)

const planWidth = 76

func newPlanCmd() *cobra.Command {
	var bookFile string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "List the units that generate would write, without calling the model",
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := config.LoadBook(bookFile)
			if err != nil {
				return err
			}
			chapters, err := book.Chapters()
			if err != nil {
				return err
			}
			renderPlan(cmd.OutOrStdout(), book, chapters, planWidth)
			return nil
		},
	}

	cmd.Flags().StringVar(&bookFile, "book", config.BookFileName, "Book file")
	return cmd
}

// renderPlan prints the generation order: chapters numbered, subsections
// nested under them, and the persona wrapped to width.
func renderPlan(w io.Writer, book *config.Book, chapters []outline.Chapter, width int) {
	fmt.Fprintf(w, "Title: %s\n", book.Title)
	if book.Persona != "" {
		fmt.Fprintln(w, "Persona:")
		fmt.Fprintln(w, indent.String(wordwrap.String(book.Persona, width-2), 2))
	}
	fmt.Fprintf(w, "Units (%d):\n", outline.UnitCount(chapters))
	for i, ch := range chapters {
		if !ch.HasSubsections() {
			fmt.Fprintf(w, "  %d. %s (continuous prose)\n", i+1, ch.Title)
			continue
		}
		fmt.Fprintf(w, "  %d. %s\n", i+1, ch.Title)
		for j, sub := range ch.Subsections {
			fmt.Fprintf(w, "     %d.%d %s\n", i+1, j+1, strings.TrimSpace(sub))
		}
	}
}
