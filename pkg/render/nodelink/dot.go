package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/degreetree/pkg/render"
	"github.com/matzehuels/degreetree/pkg/tree"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the full title and status below the short label.
	Detailed bool

	// Focus outlines the node with this ID.
	Focus string
}

// ToDOT converts a prerequisite forest to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
//
// Nodes are drawn left to right by depth and filled with their status color.
// Parent loops are broken the same way the layout breaks them, so the DOT
// graph is always a forest.
func ToDOT(nodes []tree.Node, opts Options) string {
	f := tree.Build(nodes)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontname=\"Helvetica\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for h := range f.Len() {
		n := f.At(h)
		attrs := fmtAttrs(n, fmtLabel(n, opts.Detailed), n.ID == opts.Focus)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range f.Edges() {
		child, _ := f.Node(e[1])
		color, width := render.LinkColor(child.Status)
		fmt.Fprintf(&buf, "  %q -> %q [color=%q, penwidth=%s];\n", e[0], e[1], color, strconv.FormatFloat(width, 'f', -1, 64))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n tree.Node, detailed bool) string {
	label := n.DisplayLabel()
	if !detailed {
		return label
	}
	parts := []string{label}
	if n.FullTitle != "" {
		parts = append(parts, n.FullTitle)
	}
	parts = append(parts, "status: "+string(n.Status.OrPlanned()))
	return strings.Join(parts, "\n")
}

func fmtAttrs(n tree.Node, label string, focused bool) []string {
	c := render.StatusColors(n.Status)
	stroke := c.Stroke
	if focused {
		stroke = render.FocusColor
	}
	attrs := []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("fillcolor=%q", c.Fill),
		fmt.Sprintf("color=%q", stroke),
		fmt.Sprintf("fontcolor=%q", c.Text),
	}
	if focused {
		attrs = append(attrs, "penwidth=3")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// The result can be rasterized with [render.Rasterize].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a
// viewBox-only one that scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
