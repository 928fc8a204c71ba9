// Package pipeline provides the load → layout → render pipeline for degreetree.
//
// The CLI and the HTTP API both go through this package, so a tree file
// rendered on the command line and the same tree served over HTTP produce
// identical layouts and artifacts, and share cache entries.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read a tree document from a file or a [store.Store]
//  2. Layout: Compute node positions for a viewport (cached)
//  3. Render: Generate output in various formats (SVG, JSON, DOT, PNG, PDF) (cached)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  "examples/degree.toml",
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	doc, err := runner.Load(ctx, opts)
//	l, err := runner.ComputeLayout(ctx, doc, opts)
//	artifacts, err := runner.Render(ctx, doc, l, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/degreetree/pkg/cache"
	"github.com/matzehuels/degreetree/pkg/camera"
	apperrors "github.com/matzehuels/degreetree/pkg/errors"
	"github.com/matzehuels/degreetree/pkg/graph"
	"github.com/matzehuels/degreetree/pkg/layout"
	"github.com/matzehuels/degreetree/pkg/tree"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default viewport width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default viewport height in pixels.
	DefaultHeight = 320.0

	// DefaultPNGScale is the raster scale used for PNG output.
	DefaultPNGScale = 2.0
)

// DefaultStyle is the default rendering style.
const DefaultStyle = graph.StyleNative

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// ValidStyles is the set of supported rendering styles.
var ValidStyles = map[string]bool{
	graph.StyleNative:   true,
	graph.StyleGraphviz: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Source string `json:"source,omitempty"` // tree file path or stored tree ID

	// Layout options
	Width   float64 `json:"width,omitempty"`
	Height  float64 `json:"height,omitempty"`
	MarginX float64 `json:"margin_x,omitempty"`
	MarginY float64 `json:"margin_y,omitempty"`
	Refresh bool    `json:"refresh,omitempty"` // bypass cache reads

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Style    string   `json:"style,omitempty"`
	Focus    string   `json:"focus,omitempty"` // center the camera here; empty draws the whole tree
	Zoom     float64  `json:"zoom,omitempty"`  // camera scale when Focus is set
	PNGScale float64  `json:"png_scale,omitempty"`
	Animate  bool     `json:"animate,omitempty"`

	// Runtime options (not serialized)
	Camera camera.Config `json:"-"` // zoom bounds for Focus; zero means camera defaults
	Logger *log.Logger   `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Tree is the loaded tree document.
	Tree graph.Tree

	// TreeHash is the content hash of the tree document.
	TreeHash string

	// Layout is the serialized layout, with a camera when Focus was set.
	Layout graph.Layout

	// Issues lists the structural problems recovered while building the forest.
	Issues []tree.Issue

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	MaxDepth   int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return apperrors.New(apperrors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, json, dot, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if !ValidStyles[style] {
		return apperrors.New(apperrors.ErrCodeInvalidStyle,
			"invalid style: %q (must be one of: native, graphviz)", style)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Source == "" {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "source is required")
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
// A zero margin selects the default margin; layouts cannot ask for none.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.MarginX == 0 {
		o.MarginX = layout.DefaultMarginX
	}
	if o.MarginY == 0 {
		o.MarginY = layout.DefaultMarginY
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	return apperrors.ValidateViewport(o.Width, o.Height)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.PNGScale <= 0 {
		o.PNGScale = DefaultPNGScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateStyle(o.Style); err != nil {
		return err
	}
	if o.Focus != "" {
		return apperrors.ValidateNodeID(o.Focus)
	}
	return nil
}

// LayoutOptions returns the layout engine options for these settings.
func (o *Options) LayoutOptions() []layout.Option {
	return []layout.Option{layout.WithMargins(o.MarginX, o.MarginY)}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:   o.Width,
		Height:  o.Height,
		MarginX: o.MarginX,
		MarginY: o.MarginY,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
// Settings that cannot affect the format are left out, so for example a
// DOT artifact is shared between zoom levels.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format, Focus: o.Focus}
	switch format {
	case FormatDOT:
		return k
	case FormatJSON:
		k.Zoom = o.Zoom
		o.keyCamera(&k)
		return k
	case FormatPNG:
		k.Scale = o.PNGScale
	}
	k.Style = o.Style
	if o.Style == graph.StyleNative {
		k.Zoom = o.Zoom
		o.keyCamera(&k)
		if o.Animate {
			k.Style += "+animate"
		}
	}
	return k
}

// keyCamera adds the zoom bounds that clamp a focused camera. The zero
// config keys the same as the camera defaults.
func (o *Options) keyCamera(k *cache.ArtifactKeyOpts) {
	if o.Focus == "" {
		return
	}
	cfg := o.Camera
	if cfg == (camera.Config{}) {
		cfg = camera.DefaultConfig()
	}
	k.MinZoom, k.MaxZoom, k.DefaultZoom = cfg.MinScale, cfg.MaxScale, cfg.DefaultScale
}
