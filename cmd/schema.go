package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/puffgino/bookgen/pkg/config"
	"github.com/puffgino/bookgen/pkg/schema"
	"github.com/spf13/cobra"
)

func newSchemaCmd() *cobra.Command {
	var output, format string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the book file",
		Long: `Emits the JSON Schema for book.yaml, for editor validation and front-ends that
produce the file. --format text prints a readable field reference instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := json.MarshalIndent(config.BookSchema(), "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal schema: %w", err)
			}
			switch format {
			case "json":
			case "text":
				r, err := schema.Parse(data)
				if err != nil {
					return err
				}
				data = []byte(r.RenderAsText())
			default:
				return fmt.Errorf("invalid format %q: must be 'json' or 'text'", format)
			}

			if output == "" {
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("failed to write schema file: %w", err)
			}
			getLogger().Infof("✓ Wrote schema to %s", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the schema to a file instead of stdout")
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or text")
	return cmd
}
