package main

import (
	"github.com/spf13/cobra"

	"github.com/graphquality/rpcheck/memgraph"
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rpcheck",
		Short: "evaluate regular path constraints over a labelled graph",
		Long: `rpcheck evaluates regular path constraints of the form "name = LHS ⊆ RHS"
over a directed labelled graph and quantifies how inconsistent the graph is
with respect to a set of such constraints.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringP("graph", "g", "", "path to the graph JSON file")

	cmd.AddCommand(newCheckCommand())
	cmd.AddCommand(newMeasuresCommand())
	cmd.AddCommand(newServeCommand())

	return cmd
}

func loadGraph(cmd *cobra.Command) (*memgraph.Graph, error) {
	path, err := cmd.Flags().GetString("graph")
	if err != nil {
		return nil, err
	}
	if path == "" {
		return memgraph.New(), nil
	}

	return memgraph.ReadFile(path)
}
