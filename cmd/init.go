package cmd

import (
	"fmt"
	"os"

	"github.com/puffgino/bookgen/internal/scaffold"
	"github.com/puffgino/bookgen/pkg/outline"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	var opts scaffold.InitOptions
	var dir, personaFile, tocFile string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a book.yaml to start a new book",
		Long: `Writes a book.yaml in the target directory. With --toc-file, the table of contents
is imported from a plain-text list: "Chapter N", "PART ..." and ALL CAPS lines start
chapters, every other line becomes a subsection. Without it, a starter outline is used.

It will not overwrite an existing file unless --force is given.

Examples:
  bookgen init --title "Sleep Well"                          # starter outline
  bookgen init --title "Sleep Well" --toc-file toc.txt       # import a pasted TOC
  bookgen init --title "Sleep Well" --persona-file buyer.txt --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if personaFile != "" {
				data, err := os.ReadFile(personaFile)
				if err != nil {
					return fmt.Errorf("failed to read persona file: %w", err)
				}
				opts.Persona = string(data)
			}
			if tocFile != "" {
				data, err := os.ReadFile(tocFile)
				if err != nil {
					return fmt.Errorf("failed to read toc file: %w", err)
				}
				opts.Chapters = outline.ParseText(string(data))
				if len(opts.Chapters) == 0 {
					return fmt.Errorf("toc file %s has no entries", tocFile)
				}
			}
			_, err := scaffold.Init(dir, opts, getLogger())
			return err
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "Book title")
	cmd.Flags().StringVar(&personaFile, "persona-file", "", "File holding the buyer persona")
	cmd.Flags().StringVar(&tocFile, "toc-file", "", "Plain-text table of contents to import")
	cmd.Flags().StringVar(&dir, "dir", ".", "Directory to write book.yaml into")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Overwrite an existing book.yaml")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}
