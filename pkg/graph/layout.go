package graph

import (
	"encoding/json"
	"fmt"
	"os"
)

// =============================================================================
// Layout - Positioned Forest
// =============================================================================

// Layout is the serialization format for a computed layout.
//
// Positions are sorted by ID so that equal layouts serialize to equal
// bytes. Camera is present when the layout was produced for a specific view
// (a session or a focused render).
//
// The in-memory representation (pkg/layout.Result) is optimized for lookup.
// Use its Export method and layout.Parse to convert between them.
type Layout struct {
	Width    float64 `json:"width" bson:"width"`
	Height   float64 `json:"height" bson:"height"`
	MarginX  float64 `json:"margin_x" bson:"margin_x"`
	MarginY  float64 `json:"margin_y" bson:"margin_y"`
	MaxDepth int     `json:"max_depth" bson:"max_depth"`

	Positions []Position `json:"positions" bson:"positions"`
	Edges     []Edge     `json:"edges,omitempty" bson:"edges,omitempty"`
	Camera    *Camera    `json:"camera,omitempty" bson:"camera,omitempty"`
}

// Position is a single positioned node.
type Position struct {
	ID     string  `json:"id" bson:"id"`
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Depth  int     `json:"depth" bson:"depth"`
	Slot   float64 `json:"slot" bson:"slot"`
	Label  string  `json:"label,omitempty" bson:"label,omitempty"`
	Status string  `json:"status,omitempty" bson:"status,omitempty"`
}

// Edge is a parent to child link.
type Edge struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
}

// Camera is a serialized camera state.
type Camera struct {
	OffsetX   float64 `json:"offset_x" bson:"offset_x"`
	OffsetY   float64 `json:"offset_y" bson:"offset_y"`
	Scale     float64 `json:"scale" bson:"scale"`
	FocusedID string  `json:"focused_id,omitempty" bson:"focused_id,omitempty"`
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	for i, p := range l.Positions {
		if p.ID == "" {
			return Layout{}, fmt.Errorf("layout position %d has no id", i)
		}
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
