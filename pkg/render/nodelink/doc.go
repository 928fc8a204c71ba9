// Package nodelink renders prerequisite forests as Graphviz node-link
// diagrams.
//
// # Overview
//
// This is the alternative to the native SVG renderer: Graphviz places the
// nodes itself, ranked left to right by depth, and the camera is ignored.
// Node fill and link colors follow the same status palette.
//
// # Usage
//
// Convert a node slice to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(nodes, nodelink.Options{Focus: "cse123"})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, rasterize the SVG:
//
//	png, err := render.Rasterize(ctx, svg, "png", 2.0)  // 2x scale
//
// # Options
//
//   - Detailed: node labels add the full title and status
//   - Focus: outlines one node
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
