package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/c360studio/semunits/annotate"
	"github.com/c360studio/semunits/metrics"
	"github.com/c360studio/semunits/watcher"
)

func watchCmd(a *app) *cobra.Command {
	var (
		flags    runFlags
		dir      string
		patterns []string
	)

	cmd := &cobra.Command{
		Use:   "watch <model>...",
		Short: "Re-annotate models whenever they change",
		Long: `Watch performs an initial run, then watches --dir and performs a complete
run each time a matching model file changes. Runs never overlap; changes
made during a run are picked up by the next one. A failing run is logged
and watching continues.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			rec := metrics.NewRecorder()
			opts, err := flags.options(a, args, rec)
			if err != nil {
				return err
			}
			w, err := watcher.NewWatcher(watcher.Config{
				Root:     dir,
				Patterns: patterns,
				Debounce: a.cfg.Watch.Debounce,
				Logger:   a.logger,
			})
			if err != nil {
				return annotate.NewConfigError(err)
			}
			if err := w.Start(ctx); err != nil {
				return fmt.Errorf("start watcher: %w", err)
			}
			defer func() { _ = w.Stop() }()

			out := cmd.OutOrStdout()
			metricsFile := flags.metricsPath(a)
			run := func(ctx context.Context) error {
				err := runOnce(ctx, out, a, opts, rec, metricsFile)
				if err == nil {
					// Later runs replace the output this watch wrote.
					opts.Force = true
				}
				return err
			}
			if err := run(ctx); err != nil {
				a.logger.Error("Initial run failed, waiting for changes", "error", err)
			}

			watcher.Loop(ctx, w.Events(), func(ctx context.Context, batch watcher.Batch) error {
				a.logger.Debug("Batch", "changed", batch.Changed, "removed", batch.Removed)
				return run(ctx)
			}, a.logger)

			a.logger.Info("Watch stopped")
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&dir, "dir", ".", "Directory to watch recursively")
	cmd.Flags().StringSliceVar(&patterns, "pattern", nil, "Doublestar pattern, relative to --dir, of files that trigger a run (default **/*.cellml)")

	return cmd
}
