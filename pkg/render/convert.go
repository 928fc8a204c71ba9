package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	apperrors "github.com/matzehuels/degreetree/pkg/errors"
)

// rsvgBinary is the converter looked up on PATH.
const rsvgBinary = "rsvg-convert"

// ErrNoRasterizer is returned when png or pdf output is requested and
// rsvg-convert is not installed.
var ErrNoRasterizer = apperrors.New(apperrors.ErrCodeUnsupported,
	"png and pdf output need rsvg-convert (brew install librsvg, apt install librsvg2-bin)")

// Available reports whether rsvg-convert is on PATH.
func Available() bool {
	_, err := exec.LookPath(rsvgBinary)
	return err == nil
}

// Rasterize converts an SVG document to "png" or "pdf" with rsvg-convert.
// scale applies to png only; values <= 0 mean 1. The conversion is killed
// when ctx is done.
func Rasterize(ctx context.Context, svg []byte, format string, scale float64) ([]byte, error) {
	args, err := rsvgArgs(format, scale)
	if err != nil {
		return nil, err
	}
	if !Available() {
		return nil, ErrNoRasterizer
	}

	cmd := exec.CommandContext(ctx, rsvgBinary, args...)
	cmd.Stdin = bytes.NewReader(svg)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %w: %s", rsvgBinary, err, strings.TrimSpace(stderr.String()))
	}
	return out.Bytes(), nil
}

func rsvgArgs(format string, scale float64) ([]string, error) {
	switch format {
	case "pdf":
		return []string{"-f", "pdf"}, nil
	case "png":
		if !(scale > 0) {
			scale = 1
		}
		return []string{"-f", "png", "-z", fmt.Sprintf("%.2f", scale)}, nil
	default:
		return nil, apperrors.New(apperrors.ErrCodeInvalidFormat, "cannot rasterize to %q", format)
	}
}
