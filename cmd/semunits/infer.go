package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/c360studio/semunits/annotate"
	"github.com/c360studio/semunits/classifier"
	"github.com/c360studio/semunits/metrics"
)

// runFlags are the flags shared by infer and watch.
type runFlags struct {
	annotations string
	output      string
	archive     string
	archiveRoot string
	tables      string
	metricsFile string
	force       bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.annotations, "annotations", "", "Annotation file to load and update (format from extension)")
	cmd.Flags().StringVar(&f.output, "output", "", "Write annotations here instead of updating --annotations")
	cmd.Flags().StringVar(&f.archive, "omex-name", "", "OMEX archive name used in identifiers (default from config)")
	cmd.Flags().StringVar(&f.archiveRoot, "archive-root", "", "Directory model source names are relative to (default: base name)")
	cmd.Flags().StringVar(&f.tables, "tables", "", "YAML file of compartment and species overrides")
	cmd.Flags().StringVar(&f.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile after each run")
	cmd.Flags().BoolVar(&f.force, "force", false, "Replace an existing --output file")
	_ = cmd.MarkFlagRequired("annotations")
}

// options merges flags over the loaded configuration.
func (f *runFlags) options(a *app, inputs []string, rec *metrics.Recorder) (annotate.Options, error) {
	opts := annotate.Options{
		Inputs:      inputs,
		Annotations: f.annotations,
		Output:      f.output,
		Archive:     firstNonEmpty(f.archive, a.cfg.Archive.Name),
		ArchiveRoot: firstNonEmpty(f.archiveRoot, a.cfg.Archive.Root),
		Force:       f.force,
		Prefixes:    a.cfg.Annotate.Prefixes,
		Metrics:     rec,
		Logger:      a.logger,
	}
	if opts.Archive == "" {
		return opts, annotate.NewConfigError(fmt.Errorf("archive name is required (--omex-name or archive.name in config)"))
	}

	if path := firstNonEmpty(f.tables, a.cfg.Annotate.Tables); path != "" {
		tables, err := classifier.LoadTables(path)
		if err != nil {
			return opts, annotate.NewConfigError(err)
		}
		opts.Tables = tables
	}
	return opts, nil
}

func (f *runFlags) metricsPath(a *app) string {
	return firstNonEmpty(f.metricsFile, a.cfg.Metrics.File)
}

func inferCmd(a *app) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "infer <model>...",
		Short: "Annotate models with inferred quantity categories",
		Long: `Infer loads the annotation file, validates every input model, classifies
each variable by its units and name, and saves the updated annotations once.

Inputs may be file paths or doublestar patterns such as "models/**/*.cellml".
Nothing is written when any model fails validation.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			rec := metrics.NewRecorder()
			opts, err := flags.options(a, args, rec)
			if err != nil {
				return err
			}
			return runOnce(ctx, cmd.OutOrStdout(), a, opts, rec, flags.metricsPath(a))
		},
	}
	flags.register(cmd)

	return cmd
}

// runOnce performs one run, writes the metrics textfile if requested and
// prints a summary line.
func runOnce(ctx context.Context, out io.Writer, a *app, opts annotate.Options, rec *metrics.Recorder, metricsFile string) error {
	res, err := annotate.Run(ctx, opts)

	if metricsFile != "" {
		if werr := rec.WriteTextfile(metricsFile); werr != nil {
			a.logger.Warn("Failed to write metrics file", "path", metricsFile, "error", werr)
		}
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Annotated %d model(s): %d variable(s), %d inferred, %d classified, %d fact(s) added, %d triple(s) in %s\n",
		res.Models,
		res.Stats.Variables,
		res.Stats.Inferred,
		res.Stats.Classified,
		res.Stats.FactsAdded,
		res.TriplesSave,
		res.Output)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
