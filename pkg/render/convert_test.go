package render

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"testing"

	apperrors "github.com/matzehuels/degreetree/pkg/errors"
	"github.com/matzehuels/degreetree/pkg/tree"
)

func TestRsvgArgs(t *testing.T) {
	tests := []struct {
		format string
		scale  float64
		want   []string
	}{
		{"pdf", 2, []string{"-f", "pdf"}},
		{"png", 2, []string{"-f", "png", "-z", "2.00"}},
		{"png", 0, []string{"-f", "png", "-z", "1.00"}},
		{"png", -3, []string{"-f", "png", "-z", "1.00"}},
	}
	for _, tt := range tests {
		got, err := rsvgArgs(tt.format, tt.scale)
		if err != nil {
			t.Fatalf("rsvgArgs(%q, %v) error: %v", tt.format, tt.scale, err)
		}
		if !slices.Equal(got, tt.want) {
			t.Errorf("rsvgArgs(%q, %v) = %v, want %v", tt.format, tt.scale, got, tt.want)
		}
	}
}

func TestRasterizeRejectsFormat(t *testing.T) {
	_, err := Rasterize(context.Background(), []byte("<svg/>"), "svg", 1)
	if !apperrors.Is(err, apperrors.ErrCodeInvalidFormat) {
		t.Errorf("Rasterize(svg) err = %v, want INVALID_FORMAT", err)
	}
}

func TestRasterizeWithoutConverter(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	_, err := Rasterize(context.Background(), []byte("<svg/>"), "png", 1)
	if !errors.Is(err, ErrNoRasterizer) {
		t.Errorf("err = %v, want ErrNoRasterizer", err)
	}
	if apperrors.HTTPStatus(apperrors.GetCode(err)) != http.StatusNotImplemented {
		t.Errorf("missing converter should map to 501")
	}
}

func TestStatusColors(t *testing.T) {
	done := StatusColors(tree.StatusCompleted)
	if done == StatusColors(tree.StatusInProgress) {
		t.Error("completed and in-progress share colors")
	}
	if StatusColors("elective") != StatusColors(tree.StatusPlanned) {
		t.Error("unknown status should use the planned colors")
	}
	if done.Fill == "" || done.Stroke == "" || done.Text == "" {
		t.Errorf("incomplete colors: %+v", done)
	}
}
