package pipeline

import (
	"testing"

	"github.com/matzehuels/degreetree/pkg/cache"
	"github.com/matzehuels/degreetree/pkg/camera"
	apperrors "github.com/matzehuels/degreetree/pkg/errors"
	"github.com/matzehuels/degreetree/pkg/graph"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"json", false},
		{"dot", false},
		{"png", false},
		{"pdf", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && apperrors.GetCode(err) != apperrors.ErrCodeInvalidFormat {
			t.Errorf("ValidateFormat(%q) code = %q, want INVALID_FORMAT", tt.format, apperrors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "dot"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateStyle(t *testing.T) {
	tests := []struct {
		style   string
		wantErr bool
	}{
		{"native", false},
		{"graphviz", false},
		{"handdrawn", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateStyle(tt.style)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateStyle(%q) error = %v, wantErr %v", tt.style, err, tt.wantErr)
		}
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Source: "degree.toml"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("viewport = %vx%v, want %vx%v", opts.Width, opts.Height, DefaultWidth, DefaultHeight)
	}
	if opts.MarginX != 40 || opts.MarginY != 60 {
		t.Errorf("margins = %v/%v, want 40/60", opts.MarginX, opts.MarginY)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("formats = %v, want [svg]", opts.Formats)
	}
	if opts.Style != graph.StyleNative {
		t.Errorf("style = %q, want native", opts.Style)
	}
	if opts.Logger == nil {
		t.Error("logger should default to a discard logger")
	}

	// Idempotent
	opts.Width = 0
	if err := opts.ValidateAndSetDefaults(); err != nil || opts.Width != 0 {
		t.Errorf("second call should be a no-op, width = %v err = %v", opts.Width, err)
	}
}

func TestValidateAndSetDefaultsErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code apperrors.Code
	}{
		{"no source", Options{}, apperrors.ErrCodeInvalidInput},
		{"bad format", Options{Source: "a", Formats: []string{"gif"}}, apperrors.ErrCodeInvalidFormat},
		{"bad style", Options{Source: "a", Style: "sketch"}, apperrors.ErrCodeInvalidStyle},
		{"control char focus", Options{Source: "a", Focus: "a\x00"}, apperrors.ErrCodeInvalidTree},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if code := apperrors.GetCode(err); code != tt.code {
				t.Errorf("code = %q, want %q (err %v)", code, tt.code, err)
			}
		})
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	base := Options{Style: graph.StyleNative, Focus: "cse121", Zoom: 1.5, PNGScale: 2}

	if got := base.ArtifactKeyOpts(FormatDOT); got != (cache.ArtifactKeyOpts{Format: "dot", Focus: "cse121"}) {
		t.Errorf("dot key opts = %+v, want only format and focus", got)
	}
	if got := base.ArtifactKeyOpts(FormatSVG); got.Zoom != 1.5 || got.Scale != 0 {
		t.Errorf("svg key opts = %+v, want zoom without raster scale", got)
	}
	if got := base.ArtifactKeyOpts(FormatPNG); got.Scale != 2 {
		t.Errorf("png key opts = %+v, want raster scale 2", got)
	}

	animated := base
	animated.Animate = true
	if base.ArtifactKeyOpts(FormatSVG) == animated.ArtifactKeyOpts(FormatSVG) {
		t.Error("animation should change the svg key")
	}

	gv := base
	gv.Style = graph.StyleGraphviz
	if got := gv.ArtifactKeyOpts(FormatSVG); got.Zoom != 0 || got.MaxZoom != 0 {
		t.Errorf("graphviz svg ignores the camera, got %+v", got)
	}
}

func TestArtifactKeyOptsCameraBounds(t *testing.T) {
	base := Options{Style: graph.StyleNative, Focus: "cse121", Zoom: 3}
	explicit := base
	explicit.Camera = camera.DefaultConfig()
	wider := base
	wider.Camera = camera.DefaultConfig()
	wider.Camera.MaxScale = 4

	for _, format := range []string{FormatSVG, FormatJSON, FormatPNG} {
		k := base.ArtifactKeyOpts(format)
		if k.MinZoom != camera.DefaultMinScale || k.MaxZoom != camera.DefaultMaxScale || k.DefaultZoom != camera.DefaultScale {
			t.Errorf("%s key opts = %+v, want default zoom bounds", format, k)
		}
		if k != explicit.ArtifactKeyOpts(format) {
			t.Errorf("%s: zero camera config should key like the defaults", format)
		}
		if k == wider.ArtifactKeyOpts(format) {
			t.Errorf("%s: changing the zoom bounds should change the key", format)
		}
	}

	unfocused := wider
	unfocused.Focus = ""
	if got := unfocused.ArtifactKeyOpts(FormatSVG); got.MaxZoom != 0 {
		t.Errorf("unfocused key opts = %+v, want no zoom bounds", got)
	}
}

func TestLayoutKeyOpts(t *testing.T) {
	opts := Options{Width: 1024, Height: 400}
	opts.SetLayoutDefaults()
	want := cache.LayoutKeyOpts{Width: 1024, Height: 400, MarginX: 40, MarginY: 60}
	if got := opts.LayoutKeyOpts(); got != want {
		t.Errorf("LayoutKeyOpts = %+v, want %+v", got, want)
	}
}
