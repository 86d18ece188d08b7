package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/graphquality/rpcheck/evaluator"
)

func newMeasuresCommand() *cobra.Command {
	var measureNames []string

	cmd := &cobra.Command{
		Use:   "measures <constraint>...",
		Short: "compute inconsistency measures over a set of constraints",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(cmd)
			if err != nil {
				return err
			}

			requested := make([]evaluator.Measure, 0, len(measureNames))
			for _, name := range measureNames {
				m, err := evaluator.ParseMeasure(name)
				if err != nil {
					return err
				}
				requested = append(requested, m)
			}

			result, err := evaluator.ComputeMeasures(cmd.Context(), g, args, requested)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	cmd.Flags().StringSliceVarP(&measureNames, "measure", "m", nil, "measure to compute (repeatable; default all)")

	return cmd
}
