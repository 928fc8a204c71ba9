package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/degreetree/pkg/graph"
	"github.com/matzehuels/degreetree/pkg/pipeline"
)

// layoutCommand creates the layout command for computing tree layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	var flags pipeline.Options

	cmd := &cobra.Command{
		Use:   "layout <tree>",
		Short: "Compute the layout of a degree tree",
		Long: `Compute the layout of a degree tree.

The tree is a .json, .toml or .yaml file, or the ID of a tree in the
configured store. The output is a layout document with one position per
node; with --focus it also carries the camera centered on that node.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.layoutOptions(cmd, flags)
			opts.Source = args[0]
			return c.runLayout(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default: <tree>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.Refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().StringVar(&flags.Focus, "focus", "", "node to center the camera on")
	cmd.Flags().Float64Var(&flags.Zoom, "zoom", 0, "camera scale when focused (default: camera.default_scale)")
	addLayoutFlags(cmd, &flags)

	return cmd
}

// runLayout loads the tree, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.Source, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer closeRunner(ctx, runner)

	doc, err := runner.Load(ctx, opts)
	if err != nil {
		return err
	}
	nodes := doc.TreeNodes()

	spinner := newSpinner(ctx, os.Stderr, "Computing layout...")
	spinner.Start()
	prog := newProgress(c.Logger)

	l, cacheHit, err := runner.ComputeLayoutWithCacheInfo(ctx, doc, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()
	prog.done("computed layout", "nodes", len(nodes), "cached", cacheHit)

	if ctx.Err() != nil {
		return ctx.Err()
	}

	cam, ok, err := pipeline.CameraFor(nodes, l, opts)
	if err != nil {
		return err
	}
	if ok {
		l.Camera = cam.Export()
	}

	if output == "-" {
		data, err := graph.MarshalLayout(l)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}

	outputPath := output
	if outputPath == "" {
		outputPath = baseName(opts.Source) + ".layout.json"
	}
	if err := graph.WriteLayoutFile(l, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	issues := pipeline.Issues(nodes)
	printSuccess("Layout complete")
	printFile(outputPath)
	stats := newTreeStats(nodes)
	stats.links, stats.depth, stats.issues, stats.cached = len(l.Edges), l.MaxDepth, len(issues), cacheHit
	printStats(stats)
	if len(issues) > 0 {
		printNextStep("Inspect issues", appName+" check "+opts.Source)
	}
	printNewline()
	printNextStep("Render", appName+" render "+opts.Source)

	return nil
}
