package pipeline

import (
	"context"
	"fmt"

	apperrors "github.com/matzehuels/degreetree/pkg/errors"
	"github.com/matzehuels/degreetree/pkg/graph"
	"github.com/matzehuels/degreetree/pkg/layout"
	"github.com/matzehuels/degreetree/pkg/render"
	"github.com/matzehuels/degreetree/pkg/render/nodelink"
	"github.com/matzehuels/degreetree/pkg/render/svg"
	"github.com/matzehuels/degreetree/pkg/tree"
)

// Render generates output artifacts in the requested formats.
//
// The native style draws l with the built-in SVG renderer; the graphviz
// style lays the forest out again with Graphviz. Either SVG is rasterized
// through rsvg-convert for png and pdf. JSON is l itself, with the camera attached when opts.Focus is
// set. DOT is the same for both styles.
func Render(ctx context.Context, doc graph.Tree, l graph.Layout, opts Options) (map[string][]byte, error) {
	nodes := doc.TreeNodes()

	cam, hasCam, err := CameraFor(nodes, l, opts)
	if err != nil {
		return nil, err
	}
	if hasCam {
		l.Camera = cam.Export()
	}

	var dot string
	if needsDOT(opts) {
		dot = nodelink.ToDOT(nodes, nodelink.Options{Focus: opts.Focus})
	}

	var drawn []byte
	if needsSVG(opts.Formats) {
		if opts.Style == graph.StyleGraphviz {
			if drawn, err = nodelink.RenderSVG(ctx, dot); err != nil {
				return nil, fmt.Errorf("render svg: %w", err)
			}
		} else {
			result, err := layout.Parse(l)
			if err != nil {
				return nil, fmt.Errorf("convert layout: %w", err)
			}
			svgOpts := []svg.Option{svg.WithTitle(doc.Title)}
			if hasCam {
				svgOpts = append(svgOpts, svg.WithCamera(cam))
			}
			if opts.Animate {
				svgOpts = append(svgOpts, svg.WithAnimation())
			}
			drawn = svg.Render(nodes, result, svgOpts...)
		}
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = graph.MarshalLayout(l)
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data = drawn
		case FormatPNG, FormatPDF:
			data, err = render.Rasterize(ctx, drawn, format, opts.PNGScale)
		default:
			return nil, apperrors.New(apperrors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// RenderFromLayoutData renders output from serialized layout data.
// This is useful when the layout was computed elsewhere (e.g., cached).
func RenderFromLayoutData(ctx context.Context, doc graph.Tree, layoutData []byte, opts Options) (map[string][]byte, error) {
	parsed, err := graph.UnmarshalLayout(layoutData)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	return Render(ctx, doc, parsed, opts)
}

func needsDOT(opts Options) bool {
	for _, f := range opts.Formats {
		if f == FormatDOT || (opts.Style == graph.StyleGraphviz && f != FormatJSON) {
			return true
		}
	}
	return false
}

func needsSVG(formats []string) bool {
	for _, f := range formats {
		if f == FormatSVG || f == FormatPNG || f == FormatPDF {
			return true
		}
	}
	return false
}

// Issues returns the structural problems recovered while building nodes
// into a forest.
func Issues(nodes []tree.Node) []tree.Issue {
	return tree.Build(nodes).Issues()
}
