package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/recera/visgraph/cmd/visgraph/internal/config"
	"github.com/recera/visgraph/cmd/visgraph/internal/source"
	"github.com/recera/visgraph/cmd/visgraph/internal/ui"
)

func newWatchCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [graph file]",
		Short: "Watch a graph file and show each reconciliation pass",
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
			src := source.New(path, "")
			initial := src.Load()
			if initial.Err != nil {
				return initial.Err
			}

			p := tea.NewProgram(ui.NewWatchModel(path, initial.Data), tea.WithAltScreen())

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			watchErr := make(chan error, 1)
			go func() {
				watchErr <- src.Watch(ctx, func(s source.Snapshot) {
					p.Send(ui.ReloadMsg{Data: s.Data, Err: s.Err, At: s.At})
				})
			}()

			if _, err := p.Run(); err != nil {
				return fmt.Errorf("watch ui: %w", err)
			}
			cancel()
			return <-watchErr
		},
	}
}
