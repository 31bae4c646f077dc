package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/recera/visgraph/cmd/visgraph/internal/ui"
	"github.com/recera/visgraph/pkg/graph"
)

func newDiffCommand() *cobra.Command {
	var summary bool

	cmd := &cobra.Command{
		Use:   "diff <old graph> <new graph>",
		Short: "Show the dataset mutations that turn one graph into another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := graph.Load(args[0])
			if err != nil {
				return err
			}
			to, err := graph.Load(args[1])
			if err != nil {
				return err
			}
			d := ui.Diff(from, to)
			if summary {
				fmt.Fprintln(cmd.OutOrStdout(), d.Summary())
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), d.Render())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&summary, "summary", "s", false, "Print only the change counts")
	return cmd
}
