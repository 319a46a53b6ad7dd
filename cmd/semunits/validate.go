package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/c360studio/semunits/annotate"
	"github.com/c360studio/semunits/model/cellml"
)

func validateCmd(a *app) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate <model>...",
		Short: "Check models against the structural rules inference relies on",
		Long: `Validate parses each model and prints every issue found. With --strict,
documents must also be CellML 2.0. The command fails when any model is
invalid; inputs may be doublestar patterns.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := annotate.ResolveInputs(args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			failed := 0
			for _, path := range paths {
				doc, err := cellml.ParseFile(path)
				if err != nil {
					failed++
					fmt.Fprintf(out, "FAIL %s\n  %v\n", path, err)
					continue
				}

				issues := doc.Validate()
				if strict {
					issues = doc.ValidateStrict()
				}
				if len(issues) == 0 {
					fmt.Fprintf(out, "OK   %s (CellML %s)\n", path, doc.Version())
					continue
				}

				failed++
				fmt.Fprintf(out, "FAIL %s\n", path)
				for _, issue := range issues {
					fmt.Fprintf(out, "  %s\n", issue)
				}
				a.logger.Debug("Model failed validation", "path", path, "issues", len(issues))
			}

			if failed > 0 {
				return annotate.NewPreconditionError(fmt.Errorf("%d of %d model(s) failed validation: %w", failed, len(paths), cellml.ErrInvalidModel))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&strict, "strict", "s", false, "Also require CellML 2.0")

	return cmd
}

func summarizeCmd() *cobra.Command {
	var details bool

	cmd := &cobra.Command{
		Use:   "summarize <model>...",
		Short: "Print a short summary of each model file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := annotate.ResolveInputs(args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, path := range paths {
				info, err := os.Stat(path)
				if err != nil {
					return err
				}
				doc, err := cellml.ParseFile(path)
				if err != nil {
					return annotate.NewPreconditionError(err)
				}

				variables := 0
				for _, c := range doc.Components {
					variables += len(c.Variables)
				}

				fmt.Fprintf(out, "File: %s\n", filepath.Base(path))
				fmt.Fprintf(out, "Size: %d bytes\n", info.Size())
				fmt.Fprintf(out, "Model: %s (CellML %s)\n", doc.Name, doc.Version())
				fmt.Fprintf(out, "Components: %d, variables: %d, model units: %d\n", len(doc.Components), variables, len(doc.Units))
				if details {
					fmt.Fprintf(out, "Absolute path: %s\n", path)
					for _, c := range doc.Components {
						fmt.Fprintf(out, "  component %s: %d variable(s)\n", c.Name, len(c.Variables))
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&details, "details", "d", false, "Show per-component details and the absolute path")

	return cmd
}
