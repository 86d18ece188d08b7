package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/graphquality/rpcheck/evaluator"
)

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <constraint>",
		Short: "check a single constraint against the graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(cmd)
			if err != nil {
				return err
			}

			result, err := evaluator.CheckInclusion(cmd.Context(), g, args[0])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
}
