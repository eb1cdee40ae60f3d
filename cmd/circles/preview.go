package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/recera/circles/cmd/circles/internal/config"
	"github.com/recera/circles/cmd/circles/internal/ui"
)

func newPreviewCommand() *cobra.Command {
	var configDir string
	var id string
	var duration time.Duration

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Preview a graph's animation in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configDir)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			g := cfg.Graphs[0]
			if id != "" {
				var ok bool
				if g, ok = cfg.Graph(id); !ok {
					return fmt.Errorf("no graph %q in %s", id, config.FileName)
				}
			}

			opts := g.Options()
			if cmd.Flags().Changed("duration") {
				opts.Duration = duration
			}

			p := tea.NewProgram(ui.NewModel(opts), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&configDir, "config", ".", "Directory containing circles.yaml")
	cmd.Flags().StringVar(&id, "id", "", "Graph to preview (default: the first one)")
	cmd.Flags().DurationVar(&duration, "duration", 0, "Entry animation length, overriding the config")

	return cmd
}
