// Package render holds what the degreetree renderers share: the status
// palette and SVG to PDF/PNG conversion.
//
// # Renderers
//
//   - [svg]: the native renderer, drawing a layout under a camera transform
//   - [nodelink]: Graphviz DOT export and Graphviz-rendered SVG
//
// # Format Conversion
//
// [Rasterize] converts any SVG to PDF or PNG using the external
// rsvg-convert tool (from librsvg):
//
//	out := svg.Render(nodes, result, svg.WithCamera(state))
//	pdf, err := render.Rasterize(ctx, out, "pdf", 1)
//	png, err := render.Rasterize(ctx, out, "png", 2.0)  // 2x scale
//
// [svg]: github.com/matzehuels/degreetree/pkg/render/svg
// [nodelink]: github.com/matzehuels/degreetree/pkg/render/nodelink
package render
