// Package graph provides serialization types for degree trees and layouts.
//
// This package defines the canonical wire format for degreetree data, used
// for tree files, API bodies, document storage and caching.
//
// # Architecture
//
// The package sits at the serialization boundary between internal
// representations and external formats:
//
//   - [Tree], [Layout]: Serialization types (this package)
//   - pkg/tree.Node: In-memory course record
//   - pkg/layout.Result: In-memory layout (position map)
//
// Use [FromNodes]/[Tree.TreeNodes] and the layout package's Export/Parse to
// convert between them.
//
// # Tree Documents
//
// Trees are an ordered list of course records. The same fields are
// accepted in JSON, TOML and YAML:
//
//	{
//	  "id": "cse",
//	  "title": "Degree Path",
//	  "nodes": [
//	    {"id": "cse121", "label": "CSE 121", "status": "completed"},
//	    {"id": "cse122", "label": "CSE 122", "parent": "cse121"}
//	  ]
//	}
//
// In TOML each node is a [[nodes]] table. File helpers pick the format from
// the extension (.json, .toml, .yaml, .yml):
//
//	t, _ := graph.ReadTreeFile("degree.toml")
//	_ = graph.WriteTreeFile(t, "degree.json")
//
// # Layout Documents
//
// Layouts are JSON only:
//
//	{
//	  "width": 800, "height": 320, "margin_x": 40, "margin_y": 60,
//	  "positions": [{"id": "a", "x": 40, "y": 160, "depth": 0, "slot": 0.5}],
//	  "camera": {"offset_x": 360, "offset_y": 0, "scale": 1, "focused_id": "a"}
//	}
//
// # Concurrency
//
// All functions are safe for concurrent use.
package graph
