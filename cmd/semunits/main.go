// Package main provides the semunits binary entry point.
// Semunits infers the physical quantity category of every variable in a
// CellML model from its units and records the result as RDF annotations.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/c360studio/semunits/annotate"
	"github.com/c360studio/semunits/config"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "semunits"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(annotate.ExitFailure)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(annotate.ExitCode(err))
	}
}

// app carries the state shared by all subcommands.
type app struct {
	configPath string
	logLevel   string
	verbose    bool

	cfg    *config.Config
	logger *slog.Logger
}

func rootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Unit-based semantic annotation for CellML models",
		Long: `Semunits classifies model variables into physical quantity categories
by dimensional analysis of their units, and records the result as
BioModels qualifier annotations in an RDF file.

Variables named q_<compartment>_<species> are additionally linked to an
anonymous physical entity carrying the species and compartment terms.
Runs are idempotent: annotating the same models twice adds nothing.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Shorthand for --log-level debug")

	cmd.AddCommand(
		inferCmd(a),
		watchCmd(a),
		categoriesCmd(),
		classifyCmd(a),
		validateCmd(a),
		summarizeCmd(),
		configCmd(a),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
			},
		},
	)

	return cmd
}

// setup loads the layered configuration and configures logging. Bootstrap
// messages from the loader go to a warn-level logger until the configured
// level is known.
func (a *app) setup(stderr io.Writer) error {
	bootstrap := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg, err := config.NewLoader(bootstrap).Load(a.configPath)
	if err != nil {
		return annotate.NewConfigError(fmt.Errorf("load config: %w", err))
	}

	levelName := cfg.Log.Level
	if a.logLevel != "" {
		levelName = a.logLevel
	}
	if a.verbose {
		levelName = "debug"
	}
	level, err := config.ParseLevel(levelName)
	if err != nil {
		return annotate.NewConfigError(fmt.Errorf("log level: %w", err))
	}
	cfg.Log.Level = levelName

	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.logger)
	return nil
}
