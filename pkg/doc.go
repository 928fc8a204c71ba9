// Package pkg provides the core libraries for degreetree.
//
// # Overview
//
// degreetree draws a degree plan as a prerequisite forest: each course points
// at the course it follows, roots start a track, and a camera pans and zooms
// so the selected course sits at the center of the view. The pkg directory
// is organized into four areas:
//
//  1. Domain logic: [tree], [layout], [camera], [cutscene]
//  2. Rendering: [render], [render/svg], [render/nodelink]
//  3. Serialization and orchestration: [graph], [pipeline]
//  4. Infrastructure: [cache], [store], [session], [config], [errors]
//
// # Architecture
//
// The typical data flow:
//
//	Tree file (.json, .toml, .yaml) or stored tree
//	         ↓
//	    [graph] package (decode and validate)
//	         ↓
//	    [layout] package (positions inside the viewport)
//	         ↓
//	    [camera] package (offset and scale for the focused node)
//	         ↓
//	    SVG/PDF/PNG/DOT/JSON output
//
// # Quick Start
//
//	doc, _ := graph.ReadTreeFile("examples/degree.toml")
//	nodes := doc.TreeNodes()
//
//	result := layout.Compute(nodes, 1200, 800)
//	cam := camera.New(nodes, result)
//	_ = cam.Select("cse332")
//
//	out := svg.Render(nodes, result, svg.WithCamera(cam.State()))
//
// [pipeline] wraps these steps with caching for the CLI and the HTTP API.
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/camera/...   # Specific package
//	go test -run Example       # Examples only
//
// [tree]: https://pkg.go.dev/github.com/matzehuels/degreetree/pkg/tree
// [layout]: https://pkg.go.dev/github.com/matzehuels/degreetree/pkg/layout
// [camera]: https://pkg.go.dev/github.com/matzehuels/degreetree/pkg/camera
// [cutscene]: https://pkg.go.dev/github.com/matzehuels/degreetree/pkg/cutscene
// [render]: https://pkg.go.dev/github.com/matzehuels/degreetree/pkg/render
// [render/svg]: https://pkg.go.dev/github.com/matzehuels/degreetree/pkg/render/svg
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/degreetree/pkg/render/nodelink
// [graph]: https://pkg.go.dev/github.com/matzehuels/degreetree/pkg/graph
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/degreetree/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/degreetree/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/degreetree/pkg/store
// [session]: https://pkg.go.dev/github.com/matzehuels/degreetree/pkg/session
// [config]: https://pkg.go.dev/github.com/matzehuels/degreetree/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/degreetree/pkg/errors
package pkg
