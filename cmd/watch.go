package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/puffgino/bookgen/pkg/config"
	"github.com/puffgino/bookgen/pkg/watcher"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var debounceMs int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the book whenever the book file changes",
		Long: `Runs generate once, then again every time the book file is saved, until
interrupted. Each rebuild gets a fresh run id unless --run-id or BOOK_RUN_ID
pins one, in which case the same output file is rewritten.

Example:
  bookgen watch --book book.yaml --debounce 500`,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, settings, err := loadGenerateSettings(cmd.Flags())
			if err != nil {
				return err
			}
			pinnedRunID := v.GetString("run_id") != ""
			logger := getLogger()

			w, err := watcher.New(settings.BookFile, time.Duration(debounceMs)*time.Millisecond, logger)
			if err != nil {
				return err
			}
			defer w.Close()

			rebuild := func(ctx context.Context) error {
				run := *settings
				if !pinnedRunID {
					run.RunID = time.Now().Format(config.RunIDLayout)
				}
				result, err := runGenerate(ctx, &run, logger)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), result.Path)
				return nil
			}

			if err := rebuild(cmd.Context()); err != nil {
				logger.WithError(err).Error("Initial generation failed")
			}
			logger.WithField("path", w.Path()).Info("Watching for book file changes")
			return w.Run(cmd.Context(), rebuild)
		},
	}

	addGenerateFlags(cmd.Flags())
	cmd.Flags().IntVar(&debounceMs, "debounce", int(watcher.DefaultDebounce/time.Millisecond), "Debounce interval in milliseconds")
	return cmd
}
