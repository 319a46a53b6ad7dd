package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/c360studio/semunits/annotate"
	"github.com/c360studio/semunits/classifier"
	"github.com/c360studio/semunits/ontology"
)

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List quantity categories in inference order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RANK\tNAME\tKIND\tAMOUNT\tSI UNITS\tTERM")
			for _, cat := range ontology.NewCatalog().Ordered() {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
					cat.Rank(),
					cat.Name(),
					cat.Kind(),
					cat.AmountKind(),
					cat.Canonical(),
					cat.StandardTerm())
			}
			return tw.Flush()
		},
	}
}

func classifyCmd(a *app) *cobra.Command {
	var tables string

	cmd := &cobra.Command{
		Use:   "classify <variable-name>...",
		Short: "Show how variable names map to compartment and species terms",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t := classifier.DefaultTables()
			if path := firstNonEmpty(tables, a.cfg.Annotate.Tables); path != "" {
				loaded, err := classifier.LoadTables(path)
				if err != nil {
					return annotate.NewConfigError(err)
				}
				t = loaded
			}
			cls := classifier.New(t)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tRESULT\tCOMPARTMENT\tSPECIES")
			for _, name := range args {
				c, miss := cls.Classify(name)
				if miss != classifier.MissNone {
					fmt.Fprintf(tw, "%s\tno match (%s)\t-\t-\n", name, miss)
					continue
				}
				fmt.Fprintf(tw, "%s\tmatch\t%s\t%s\n", name, c.Compartment, c.Species)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&tables, "tables", "", "YAML file of compartment and species overrides")

	return cmd
}
