package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/recera/circles/pkg/components/circles"
)

var (
	version = "0.1.0-preview"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:   "circles",
		Short: "Circles - animated circular progress graphs",
		Long: `Circles renders circular progress graphs as SVG, animates them in the
browser or over a live websocket, and exports static markup and PNG snapshots.`,
		Version:       fmt.Sprintf("%s (component %s, commit: %s, built: %s)", version, circles.Version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add commands
	rootCmd.AddCommand(newRenderCommand())
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newPreviewCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the CLI and component versions",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "circles %s\ncomponent %s\n", version, circles.Version)
		},
	}
}
