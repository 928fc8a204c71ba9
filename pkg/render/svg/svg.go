// Package svg draws a computed layout as a standalone SVG document.
//
// The drawing follows the interactive viewer: links from parent to child,
// highlighted when the child is completed; status-colored node circles;
// labels below each node; and a dashed ring around the focused node. The
// whole scene sits in one group carrying the camera transform, so the SVG
// shows exactly what a viewer with that camera sees.
//
//	out := svg.Render(nodes, result, svg.WithCamera(ctrl.State()))
package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strconv"

	"github.com/matzehuels/degreetree/pkg/camera"
	"github.com/matzehuels/degreetree/pkg/layout"
	"github.com/matzehuels/degreetree/pkg/render"
	"github.com/matzehuels/degreetree/pkg/tree"
)

// Geometry of the drawn nodes, in layout units.
const (
	NodeRadius    = 10.0
	FocusRadius   = 16.0
	FocusRing     = 28.0
	LabelOffset   = 28.0
	LabelFontSize = 13.0

	// LinkDelayPerDepth staggers link draw-in by the parent's depth.
	LinkDelayPerDepth = 0.15
	linkDrawSeconds   = 0.6
)

const fontFamily = "ui-sans-serif, system-ui, sans-serif"

const drawInCSS = `
    @keyframes draw-in { from { stroke-dashoffset: var(--len); } to { stroke-dashoffset: 0; } }
    .link { stroke-dasharray: var(--len); animation: draw-in %.1fs ease-out both; }
    .focus-ring { animation: spin 8s linear infinite; transform-box: fill-box; transform-origin: center; }
    @keyframes spin { to { transform: rotate(360deg); } }`

// Option configures [Render].
type Option func(*renderer)

type renderer struct {
	cam        camera.State
	hasCam     bool
	animate    bool
	background string
	title      string
}

// WithCamera draws the scene under the camera transform and rings the
// camera's focused node. Without it the scene is drawn untransformed and
// unfocused.
func WithCamera(s camera.State) Option {
	return func(r *renderer) { r.cam, r.hasCam = s, true }
}

// WithAnimation adds link draw-in and focus ring animations.
func WithAnimation() Option { return func(r *renderer) { r.animate = true } }

// WithBackground fills the canvas with color.
func WithBackground(color string) Option { return func(r *renderer) { r.background = color } }

// WithTitle sets the document title.
func WithTitle(title string) Option { return func(r *renderer) { r.title = title } }

// Render draws nodes at their positions in result. Nodes without a position
// are skipped, as are links whose endpoints lack one.
func Render(nodes []tree.Node, result layout.Result, opts ...Option) []byte {
	r := renderer{background: render.BackgroundColor}
	for _, opt := range opts {
		opt(&r)
	}
	if !r.hasCam {
		r.cam = camera.State{Scale: 1}
	}

	w, h := math.Max(result.Width, 1), math.Max(result.Height, 1)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%.0f" height="%.0f" role="tree">`+"\n",
		num(w), num(h), w, h)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(r.title))
	}
	if r.animate {
		fmt.Fprintf(&buf, "  <style>"+drawInCSS+"\n  </style>\n", linkDrawSeconds)
	}
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", r.background)
	}

	fmt.Fprintf(&buf, `  <g transform="translate(%s %s) scale(%s)">`+"\n",
		num(r.cam.OffsetX), num(r.cam.OffsetY), num(r.cam.Scale))
	renderLinks(&buf, nodes, result, r.animate)
	renderNodes(&buf, nodes, result, r.cam.FocusedID)
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderLinks(buf *bytes.Buffer, nodes []tree.Node, result layout.Result, animate bool) {
	for _, n := range nodes {
		if n.Parent == "" {
			continue
		}
		child, okC := result.Positions[n.ID]
		parent, okP := result.Positions[n.Parent]
		if !okC || !okP {
			continue
		}
		color, width := render.LinkColor(n.Status)
		fmt.Fprintf(buf, `    <line class="link" data-from="%s" data-to="%s" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s"`,
			escapeXML(n.Parent), escapeXML(n.ID),
			num(parent.X), num(parent.Y), num(child.X), num(child.Y), color, num(width))
		if animate {
			length := math.Hypot(child.X-parent.X, child.Y-parent.Y)
			fmt.Fprintf(buf, ` style="--len: %s; animation-delay: %ss"`,
				num(length), num(float64(parent.Depth)*LinkDelayPerDepth))
		}
		buf.WriteString("/>\n")
	}
}

func renderNodes(buf *bytes.Buffer, nodes []tree.Node, result layout.Result, focused string) {
	seen := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		p, ok := result.Positions[n.ID]
		if !ok || seen[n.ID] {
			continue
		}
		seen[n.ID] = true

		c := render.StatusColors(n.Status)
		isFocused := n.ID == focused

		fmt.Fprintf(buf, `    <g class="node" id="node-%s" data-status="%s" transform="translate(%s %s)">`+"\n",
			escapeXML(n.ID), n.Status.OrPlanned(), num(p.X), num(p.Y))
		if title := n.Title(); title != "" {
			fmt.Fprintf(buf, "      <title>%s</title>\n", escapeXML(title))
		}

		r, fill, stroke, textFill, weight := NodeRadius, c.Fill, c.Stroke, c.Text, "600"
		strokeWidth := 2.0
		if isFocused {
			fmt.Fprintf(buf, `      <circle class="focus-ring" r="%s" fill="none" stroke="%s" stroke-width="1.5" stroke-dasharray="6 4" opacity="0.6"/>`+"\n",
				num(FocusRing), render.FocusColor)
			r, fill, stroke, textFill, weight = FocusRadius, render.FocusColor, c.Fill, render.FocusColor, "bold"
			strokeWidth = 3
		}
		fmt.Fprintf(buf, `      <circle r="%s" fill="%s" stroke="%s" stroke-width="%s"/>`+"\n",
			num(r), fill, stroke, num(strokeWidth))
		fmt.Fprintf(buf, `      <text y="%s" font-family="%s" font-size="%s" font-weight="%s" fill="%s" text-anchor="middle" stroke="%s" stroke-width="4" paint-order="stroke" stroke-linejoin="round">%s</text>`+"\n",
			num(LabelOffset), fontFamily, num(LabelFontSize), weight, textFill, render.LabelHaloColor, escapeXML(n.DisplayLabel()))
		buf.WriteString("    </g>\n")
	}
}

// num formats a coordinate with at most two decimals and no trailing zeros.
func num(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
