package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindgrove/pkg/render"
	"github.com/matzehuels/mindgrove/pkg/tree/transform"
	"github.com/matzehuels/mindgrove/pkg/treemodel"
)

// Render formats supported by the render command.
const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPNG = "png"
)

var validRenderFormats = map[string]bool{
	formatDOT: true,
	formatSVG: true,
	formatPNG: true,
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		format   string
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "render <artifact.json>",
		Short: "Render an artifact to DOT, SVG, or PNG",
		Long: `Render an artifact to DOT, SVG, or PNG.

The artifact is drawn as a radial mind map with the root at the center and
node colors taken from each node's brush. DOT output can be piped into any
Graphviz toolchain; SVG and PNG are rendered directly.

Examples:
  mindgrove render lecture.json                  # lecture.svg
  mindgrove render lecture.json -f png -o map.png
  mindgrove render lecture.json -f dot`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validRenderFormats[format] {
				return fmt.Errorf("invalid format: %q (must be one of: dot, svg, png)", format)
			}
			return c.runRender(cmd.Context(), args[0], format, output, detailed)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatSVG, "output format: svg (default), png, dot")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (derived from input if empty)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include depth and direction in node labels")

	return cmd
}

// runRender loads the artifact and writes the rendered output.
func (c *CLI) runRender(ctx context.Context, input, format, output string, detailed bool) error {
	model, err := treemodel.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load artifact %s: %w", input, err)
	}
	t, report, err := transform.Normalize(model.Records())
	if err != nil {
		return fmt.Errorf("artifact %s: %w", input, err)
	}
	if total := report.Total(); total > 0 {
		printWarning("repaired %d malformed records", total)
	}

	dot := render.ToDOT(t, render.Options{Detailed: detailed})

	var data []byte
	switch format {
	case formatDOT:
		data = []byte(dot)
	case formatSVG, formatPNG:
		spinner := newSpinnerWithContext(ctx, "Rendering...")
		spinner.Start()
		if format == formatSVG {
			data, err = render.SVG(ctx, dot)
		} else {
			data, err = render.PNG(ctx, dot)
		}
		if err != nil {
			spinner.StopWithError("Rendering failed")
			return err
		}
		spinner.Stop()
	}

	if output == "" {
		output = outputPath(input, format)
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printSuccess("Rendered %s", input)
	printFile(output)
	printStats(t.Len(), 0, false)
	return nil
}

// outputPath derives the output filename from the input and format.
func outputPath(input, format string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + "." + format
}
