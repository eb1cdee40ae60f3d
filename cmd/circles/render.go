package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/recera/circles/cmd/circles/internal/config"
	"github.com/recera/circles/pkg/components/circles"
	"github.com/recera/circles/pkg/renderer/html"
	"github.com/recera/circles/pkg/renderer/raster"
)

type renderFlags struct {
	configDir string
	id        string
	format    string
	out       string

	radius   float64
	width    float64
	value    float64
	maxValue float64
	colors   []string
	text     string
}

func newRenderCommand() *cobra.Command {
	var f renderFlags

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render graphs as static markup or PNG",
		Long: `Renders the final state of graphs. Without --id every graph of circles.yaml is
rendered; graph flags override config values, or describe a one-off graph when no
config graph is selected.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			graphs, err := selectGraphs(cmd, f)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if f.out != "" && f.out != "-" {
				file, err := os.Create(f.out)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", f.out, err)
				}
				defer file.Close()
				w = file
			}

			bw := bufio.NewWriter(w)
			if err := renderGraphs(bw, f.format, graphs); err != nil {
				return err
			}
			if err := bw.Flush(); err != nil {
				return err
			}

			if f.out != "" && f.out != "-" {
				fmt.Fprintln(cmd.ErrOrStderr(), successStyle.Render(
					fmt.Sprintf("✓ rendered %d graph(s) as %s to %s", len(graphs), f.format, f.out)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&f.configDir, "config", ".", "Directory containing circles.yaml")
	cmd.Flags().StringVar(&f.id, "id", "", "Render only the graph with this id")
	cmd.Flags().StringVarP(&f.format, "format", "f", "html", "Output format: html, svg or png")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "Output file (default stdout)")

	cmd.Flags().Float64Var(&f.radius, "radius", 0, "Outer radius in pixels")
	cmd.Flags().Float64Var(&f.width, "width", 0, "Ring width in pixels")
	cmd.Flags().Float64Var(&f.value, "value", 0, "Value to display")
	cmd.Flags().Float64Var(&f.maxValue, "max", 0, "Value that fills the ring")
	cmd.Flags().StringSliceVar(&f.colors, "colors", nil, "Track and indicator colors")
	cmd.Flags().StringVar(&f.text, "text", "", `Label text; "{value}" is replaced by the value`)

	return cmd
}

var graphFlags = []string{"radius", "width", "value", "max", "colors", "text"}

// selectGraphs resolves the graphs to render. CLI flags take precedence over
// config values.
func selectGraphs(cmd *cobra.Command, f renderFlags) ([]config.GraphConfig, error) {
	cfg, err := config.Load(f.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	overridden := false
	for _, name := range graphFlags {
		if cmd.Flags().Changed(name) {
			overridden = true
		}
	}

	var graphs []config.GraphConfig
	switch {
	case f.id != "":
		g, ok := cfg.Graph(f.id)
		if !ok && !overridden {
			return nil, fmt.Errorf("no graph %q in %s", f.id, config.FileName)
		}
		g.ID = f.id
		graphs = []config.GraphConfig{g}
	case overridden:
		graphs = []config.GraphConfig{{ID: "graph"}}
	default:
		graphs = cfg.Graphs
	}

	for i := range graphs {
		g := &graphs[i]
		if cmd.Flags().Changed("radius") {
			g.Radius = f.radius
		}
		if cmd.Flags().Changed("width") {
			g.Width = f.width
		}
		if cmd.Flags().Changed("value") {
			g.Value = f.value
		}
		if cmd.Flags().Changed("max") {
			g.MaxValue = f.maxValue
		}
		if cmd.Flags().Changed("colors") {
			g.Colors = f.colors
		}
		if cmd.Flags().Changed("text") {
			g.Text = f.text
		}
	}

	selected := config.Config{Graphs: graphs}
	if err := selected.Validate(); err != nil {
		return nil, err
	}
	return graphs, nil
}

func renderGraphs(w io.Writer, format string, graphs []config.GraphConfig) error {
	switch format {
	case "html":
		for _, g := range graphs {
			if err := html.Render(w, circles.StaticVNode(g.Options())); err != nil {
				return err
			}
			io.WriteString(w, "\n")
		}
		return nil

	case "svg":
		for _, g := range graphs {
			svg := circles.StaticVNode(g.Options()).Kids[0]
			if err := html.Render(w, &svg); err != nil {
				return err
			}
			io.WriteString(w, "\n")
		}
		return nil

	case "png":
		if len(graphs) != 1 {
			return fmt.Errorf("png output needs exactly one graph, got %d (use --id)", len(graphs))
		}
		graph := circles.Create(nil, nil, graphs[0].Options())
		return raster.EncodePNG(w, raster.FromGraph(graph))

	default:
		return fmt.Errorf("unknown format %q (want html, svg or png)", format)
	}
}
