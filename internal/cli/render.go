package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/degreetree/pkg/pipeline"
	"github.com/matzehuels/degreetree/pkg/render"
)

// renderCommand creates the render command for generating visualizations.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		noCache    bool
	)
	var flags pipeline.Options

	cmd := &cobra.Command{
		Use:   "render <tree>",
		Short: "Render a degree tree to SVG, PNG, PDF, DOT or JSON",
		Long: `Render a degree tree to one or more output formats.

The native style draws status-colored nodes with the camera centered on
--focus, or the whole tree when no focus is given. The graphviz style lays
the tree out with Graphviz instead. PNG and PDF output of the native style
need rsvg-convert on the PATH.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.layoutOptions(cmd, flags)
			opts.Source = args[0]
			opts.Formats = parseFormats(formatsStr)
			return c.runRender(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, dot, png, pdf (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.Refresh, "refresh", false, "re-render even when cached")
	cmd.Flags().StringVar(&flags.Style, "style", pipeline.DefaultStyle, "renderer: native (default), graphviz")
	cmd.Flags().StringVar(&flags.Focus, "focus", "", "node to center the camera on")
	cmd.Flags().Float64Var(&flags.Zoom, "zoom", 0, "camera scale when focused (default: camera.default_scale)")
	cmd.Flags().Float64Var(&flags.PNGScale, "scale", pipeline.DefaultPNGScale, "raster scale for png output")
	cmd.Flags().BoolVar(&flags.Animate, "animate", false, "draw links in by depth (native svg)")
	addLayoutFlags(cmd, &flags)

	return cmd
}

// runRender runs the full pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if needsRasterizer(opts) && !render.Available() {
		printWarning("rsvg-convert not found; png and pdf output will fail")
	}

	runner, err := c.newRunner(ctx, opts.Source, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer closeRunner(ctx, runner)

	spinner := newSpinner(ctx, os.Stderr, fmt.Sprintf("Rendering %s...", strings.Join(opts.Formats, ", ")))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, opts.Source, output)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", opts.Source)
	for _, p := range paths {
		printFile(p)
	}
	stats := newTreeStats(result.Tree.TreeNodes())
	stats.links, stats.depth, stats.issues = result.Stats.EdgeCount, result.Stats.MaxDepth, len(result.Issues)
	stats.cached = result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit
	printStats(stats)
	return nil
}

// needsRasterizer reports whether opts asks for png or pdf from the native
// renderer.
func needsRasterizer(opts pipeline.Options) bool {
	if opts.Style != pipeline.DefaultStyle {
		return false
	}
	for _, f := range opts.Formats {
		if f == pipeline.FormatPNG || f == pipeline.FormatPDF {
			return true
		}
	}
	return false
}

// writeArtifacts writes each format to its own file and returns the paths
// in format order. A single format goes to output when given.
func writeArtifacts(artifacts map[string][]byte, formats []string, source, output string) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			return paths, fmt.Errorf("no %s output was produced", format)
		}
		path := outputPath(format, formats, source, output)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// outputPath names the file for format. An explicit output is used as is for
// a single format and as a base path otherwise, minus any format extension.
func outputPath(format string, formats []string, source, output string) string {
	if output != "" && len(formats) == 1 {
		return output
	}
	return basePath(output, source) + "." + format
}

// basePath derives the base output path from the output and source.
// If output is empty, the source's base name is used. If output has a
// format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, source string) string {
	if output == "" {
		return baseName(source)
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
