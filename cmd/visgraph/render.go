package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/recera/visgraph/cmd/visgraph/internal/config"
	"github.com/recera/visgraph/pkg/graph"
	"github.com/recera/visgraph/pkg/logging"
	"github.com/recera/visgraph/pkg/snapshot"
)

func newRenderCommand(flags *rootFlags) *cobra.Command {
	var (
		output   string
		rankDir  string
		detailed bool
		dotOnly  bool
	)

	cmd := &cobra.Command{
		Use:   "render [graph file]",
		Short: "Render a static SVG snapshot of a graph",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}
			path := cfg.Graph
			if len(args) == 1 {
				path = args[0]
			}
			d, err := graph.Load(path)
			if err != nil {
				return err
			}

			opts := snapshot.Options{RankDir: cfg.Snapshot.RankDir, Detailed: cfg.Snapshot.Detailed || detailed}
			if rankDir != "" {
				opts.RankDir = rankDir
			}
			var out []byte
			if dotOnly {
				out = []byte(snapshot.ToDOT(d, opts))
			} else {
				start := time.Now()
				out, err = snapshot.NewRenderer(opts, nil).Render(cmd.Context(), d)
				if err != nil {
					return fmt.Errorf("render %s: %w", path, err)
				}
				logging.For("render").Debug("rendered", "path", path, "bytes", len(out), "took", time.Since(start))
			}

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			logging.For("render").Info("wrote snapshot", "path", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&rankDir, "rankdir", "", "Layout direction: TB, LR, BT or RL")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "Include titles and groups in labels")
	cmd.Flags().BoolVar(&dotOnly, "dot", false, "Print Graphviz DOT instead of SVG")
	return cmd
}
