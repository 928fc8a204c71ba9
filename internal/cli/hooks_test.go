package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/degreetree/pkg/camera"
	"github.com/matzehuels/degreetree/pkg/layout"
	"github.com/matzehuels/degreetree/pkg/observability"
)

func TestDebugHooks(t *testing.T) {
	var buf bytes.Buffer
	h := &debugHooks{logger: newLogger(&buf, log.DebugLevel)}
	ctx := context.Background()

	h.OnLayoutComplete(ctx, "cse", 3*time.Millisecond, nil)
	h.OnRenderComplete(ctx, []string{"png"}, time.Millisecond, errors.New("no rsvg"))
	h.OnCacheHit(ctx, "layout")
	h.OnZoom(2.5, true)

	out := buf.String()
	for _, want := range []string{"layout done", "tree=cse", "render failed", "no rsvg", "cache hit", "kind=layout", "clamped=true"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestVerboseInstallsHooks(t *testing.T) {
	observability.Reset()
	defer observability.Reset()

	var buf bytes.Buffer
	c := New(&buf, LogDebug)
	c.configPath = writeConfig(t, "")
	if err := c.loadConfig(); err != nil {
		t.Fatal(err)
	}

	nodes := viewNodes
	ctrl := camera.New(nodes, layout.Compute(nodes, 800, 320))
	if err := ctrl.Select("cse123"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "camera focus") {
		t.Errorf("camera events not logged:\n%s", buf.String())
	}
}

func TestQuietSkipsHooks(t *testing.T) {
	observability.Reset()
	defer observability.Reset()

	c := New(&bytes.Buffer{}, LogInfo)
	c.configPath = writeConfig(t, "")
	if err := c.loadConfig(); err != nil {
		t.Fatal(err)
	}
	if _, ok := observability.Camera().(observability.NoopCameraHooks); !ok {
		t.Error("hooks installed without --verbose")
	}
}
