package cmd

import (
	"context"
	"fmt"

	"github.com/puffgino/bookgen/pkg/config"
	"github.com/puffgino/bookgen/pkg/generator"
	"github.com/puffgino/bookgen/pkg/llm"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// generateFlags maps setting keys to the flags that override them.
var generateFlags = map[string]string{
	"book_file":         "book",
	"model":             "model",
	"provider":          "provider",
	"run_id":            "run-id",
	"output_dir":        "output-dir",
	"mini_heading_mode": "mini-heading-mode",
	"max_tries":         "max-tries",
}

func addGenerateFlags(flags *pflag.FlagSet) {
	flags.String("book", "", "Book file (default book.yaml, env BOOK_FILE)")
	flags.String("model", "", "Model name (env BOOK_MODEL)")
	flags.String("provider", "", "Completion provider: openai or gemini (env BOOK_PROVIDER)")
	flags.String("run-id", "", "Run identifier used in the output file name (env BOOK_RUN_ID)")
	flags.String("output-dir", "", "Output directory (env BOOK_OUTPUT_DIR)")
	flags.String("mini-heading-mode", "", "Inline mini-heading style: bullet or bold (env MINI_HEADING_MODE)")
	flags.Int("max-tries", 0, "Normal attempts per subsection before forced expansion (env MAX_TRIES_PER_SUB)")
}

// bindFlags attaches the flags named in keys to v. Flags left unchanged fall
// through to the environment and defaults.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) error {
	for key, name := range keys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}
	return nil
}

func loadGenerateSettings(flags *pflag.FlagSet) (*viper.Viper, *config.Settings, error) {
	v := viper.New()
	if err := bindFlags(v, flags, generateFlags); err != nil {
		return nil, nil, err
	}
	settings, err := config.LoadSettings(v)
	if err != nil {
		return nil, nil, err
	}
	return v, settings, nil
}

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the book document from the book file",
		Long: `Reads book.yaml (title, persona, toc), writes every chapter and subsection with
the configured model, and saves the .docx after every unit.

The output path is printed on success. Settings come from flags, then the
environment, then defaults.

Examples:
  bookgen generate                                  # book.yaml in the current directory
  bookgen generate --book my-book.yaml --run-id v2  # explicit file and run id
  bookgen generate --provider gemini --model gemini-2.5-flash`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, settings, err := loadGenerateSettings(cmd.Flags())
			if err != nil {
				return err
			}
			result, err := runGenerate(cmd.Context(), settings, getLogger())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Path)
			return nil
		},
	}
	addGenerateFlags(cmd.Flags())
	return cmd
}

func runGenerate(ctx context.Context, settings *config.Settings, logger *logrus.Logger) (*generator.Result, error) {
	client, err := llm.New(ctx, clientConfig(settings, logger))
	if err != nil {
		return nil, err
	}
	logger.WithField("client", client.Name()).Debug("Completion client ready")

	return generator.New(client, settings, logger).Generate(ctx, settings.BookFile)
}

// clientConfig derives the completion client settings. The base URL only
// applies to the OpenAI provider.
func clientConfig(settings *config.Settings, logger *logrus.Logger) llm.Config {
	cfg := llm.Config{
		Provider: settings.Provider,
		Model:    settings.Model,
		APIKey:   settings.APIKey(),
		Timeout:  settings.RequestTimeout,
		Logger:   logger,
	}
	if settings.Provider == config.ProviderOpenAI {
		cfg.Endpoint = settings.BaseURL
	}
	return cfg
}
