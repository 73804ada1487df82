package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/puffgino/bookgen/pkg/config"
	"github.com/puffgino/bookgen/pkg/cover"
	"github.com/puffgino/bookgen/pkg/writer"
	"github.com/spf13/cobra"
)

func newCoverCmd() *cobra.Command {
	cfg := cover.DefaultConfig()
	var bookFile, outputDir string

	cmd := &cobra.Command{
		Use:   "cover",
		Short: "Render the book title as an SVG cover",
		Long: `Renders the title from the book file onto a plain cover. Text is converted
to paths so the SVG needs no fonts where it is used.

Examples:
  bookgen cover --font ./fonts/Cambria.ttf
  bookgen cover --font Inter.ttf --subtitle "A practical guide" --output cover.svg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := config.LoadBook(bookFile)
			if err != nil {
				return err
			}
			cfg.Title = book.Title
			if cfg.OutputPath == "" {
				cfg.OutputPath = filepath.Join(outputDir, fmt.Sprintf("COVER - %s.svg", writer.SafeTitle(book.Title)))
			}
			if err := cover.New(getLogger()).Generate(cfg); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cfg.OutputPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&cfg.FontPath, "font", "", "Path to TTF/OTF font file (required)")
	cmd.Flags().StringVar(&bookFile, "book", config.BookFileName, "Book file")
	cmd.Flags().StringVarP(&cfg.OutputPath, "output", "o", "", "Output SVG path")
	cmd.Flags().StringVar(&outputDir, "output-dir", "output", "Directory for the default output path")
	cmd.Flags().StringVar(&cfg.Subtitle, "subtitle", "", "Line printed under the title")
	cmd.Flags().StringVar(&cfg.Background, "background", cfg.Background, "Background color (hex)")
	cmd.Flags().StringVar(&cfg.TextColor, "color", cfg.TextColor, "Text color (hex)")
	cmd.Flags().IntVar(&cfg.WrapChars, "wrap", cfg.WrapChars, "Wrap the title after this many characters")
	_ = cmd.MarkFlagRequired("font")

	return cmd
}
