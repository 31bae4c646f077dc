package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/recera/visgraph/pkg/logging"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

// rootFlags are shared by every subcommand.
type rootFlags struct {
	configPath string
	verbose    bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}
	rootCmd := &cobra.Command{
		Use:   "visgraph",
		Short: "visgraph - interactive graph views over vis-network",
		Long: `visgraph serves declarative node/edge graphs as interactive vis-network
views, keeps them in sync with the files they come from, and renders static
SVG snapshots.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flags.verbose {
				logging.EnableDebug()
			}
		},
	}
	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file (default: visgraph.yaml/.toml/.json in the working directory)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newServeCommand(flags))
	rootCmd.AddCommand(newDiffCommand())
	rootCmd.AddCommand(newWatchCommand(flags))
	rootCmd.AddCommand(newRenderCommand(flags))
	return rootCmd
}
