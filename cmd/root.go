package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	rootCmd   *cobra.Command
	verbose   bool
	logFormat string
)

func init() {
	rootCmd = &cobra.Command{
		Use:          "bookgen",
		Short:        "LLM-powered book writer that turns an outline into a formatted .docx.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return configureLogger(getLogger(), verbose, logFormat)
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")

	// Add commands
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newPlanCmd())
	rootCmd.AddCommand(newSchemaCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newCoverCmd())
}

// Execute runs the root command. An interrupt cancels the context, which
// stops generation between units.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}
