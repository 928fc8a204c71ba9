package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/degreetree/pkg/cache"
	apperrors "github.com/matzehuels/degreetree/pkg/errors"
	"github.com/matzehuels/degreetree/pkg/graph"
	"github.com/matzehuels/degreetree/pkg/store"
)

const sampleTOML = `
id = "cse"
title = "Degree Path"

[[nodes]]
id = "cse121"
label = "CSE 121"
status = "completed"

[[nodes]]
id = "cse122"
label = "CSE 122"
parent = "cse121"
status = "completed"

[[nodes]]
id = "cse123"
label = "CSE 123"
parent = "cse122"
status = "in-progress"

[[nodes]]
id = "math126"
label = "MATH 126"
parent = "nowhere"
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "degree.toml")
	if err := os.WriteFile(path, []byte(sampleTOML), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newFileRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestExecute(t *testing.T) {
	r := newFileRunner(t)
	path := writeSample(t)

	res, err := r.Execute(context.Background(), Options{
		Source:  path,
		Formats: []string{FormatSVG, FormatJSON, FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.Tree.ID != "cse" || res.Stats.NodeCount != 4 {
		t.Errorf("tree = %q with %d nodes, want cse with 4", res.Tree.ID, res.Stats.NodeCount)
	}
	if res.TreeHash == "" {
		t.Error("TreeHash should be set")
	}
	if len(res.Issues) != 1 {
		t.Errorf("issues = %v, want the dangling parent of math126", res.Issues)
	}
	if res.Stats.MaxDepth != 2 || res.Stats.EdgeCount != 2 {
		t.Errorf("depth = %d edges = %d, want 2 and 2", res.Stats.MaxDepth, res.Stats.EdgeCount)
	}
	for _, f := range []string{FormatSVG, FormatJSON, FormatDOT} {
		if len(res.Artifacts[f]) == 0 {
			t.Errorf("missing %s artifact", f)
		}
	}
	if !strings.Contains(string(res.Artifacts[FormatSVG]), "<title>Degree Path</title>") {
		t.Error("svg should carry the tree title")
	}
	if !strings.Contains(string(res.Artifacts[FormatDOT]), `"cse121" -> "cse122"`) {
		t.Error("dot should contain the cse121 -> cse122 edge")
	}
	if res.CacheInfo.LayoutHit || res.CacheInfo.RenderHit {
		t.Errorf("first run should miss the cache: %+v", res.CacheInfo)
	}

	again, err := r.Execute(context.Background(), Options{
		Source:  path,
		Formats: []string{FormatSVG, FormatJSON, FormatDOT},
	})
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !again.CacheInfo.LayoutHit || !again.CacheInfo.RenderHit {
		t.Errorf("second run should hit the cache: %+v", again.CacheInfo)
	}
	if string(again.Artifacts[FormatSVG]) != string(res.Artifacts[FormatSVG]) {
		t.Error("cached svg differs from the rendered one")
	}

	fresh, err := r.Execute(context.Background(), Options{Source: path, Refresh: true})
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	if fresh.CacheInfo.LayoutHit || fresh.CacheInfo.RenderHit {
		t.Errorf("refresh should bypass cache reads: %+v", fresh.CacheInfo)
	}
}

func TestExecuteFocus(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	path := writeSample(t)

	res, err := r.Execute(context.Background(), Options{
		Source:  path,
		Focus:   "cse123",
		Zoom:    2,
		Formats: []string{FormatSVG, FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	cam := res.Layout.Camera
	if cam == nil || cam.FocusedID != "cse123" || cam.Scale != 2 {
		t.Fatalf("camera = %+v, want focus cse123 at scale 2", cam)
	}

	parsed, err := graph.UnmarshalLayout(res.Artifacts[FormatJSON])
	if err != nil {
		t.Fatal(err)
	}
	if parsed.Camera == nil || *parsed.Camera != *cam {
		t.Errorf("json camera = %+v, want %+v", parsed.Camera, cam)
	}
	if !strings.Contains(string(res.Artifacts[FormatSVG]), `class="focus-ring"`) {
		t.Error("focused svg should draw a focus ring")
	}

	_, err = r.Execute(context.Background(), Options{Source: path, Focus: "cse999"})
	if code := apperrors.GetCode(err); code != apperrors.ErrCodeNodeNotFound {
		t.Errorf("unknown focus code = %q, want NODE_NOT_FOUND (err %v)", code, err)
	}
}

func TestExecuteFromStore(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	doc, err := graph.UnmarshalTree([]byte(sampleTOML), graph.FormatTOML)
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Put(ctx, doc); err != nil {
		t.Fatal(err)
	}

	r := NewRunner(nil, nil, nil)
	r.Store = st
	res, err := r.Execute(ctx, Options{Source: "cse", Formats: []string{FormatJSON}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(res.Layout.Positions) != 4 {
		t.Errorf("positions = %d, want 4", len(res.Layout.Positions))
	}
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name   string
		source string
		want   error
	}{
		{"missing file", filepath.Join(dir, "absent.json"), store.ErrNotFound},
		{"missing id without store", "cse", store.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(ctx, nil, tt.source)
			if !errors.Is(err, tt.want) {
				t.Errorf("Load(%q) err = %v, want %v", tt.source, err, tt.want)
			}
		})
	}

	t.Run("file without extension", func(t *testing.T) {
		path := filepath.Join(dir, "tree")
		if err := os.WriteFile(path, []byte(sampleTOML), 0644); err != nil {
			t.Fatal(err)
		}
		_, err := Load(ctx, nil, path)
		if code := apperrors.GetCode(err); code != apperrors.ErrCodeInvalidFormat {
			t.Errorf("code = %q, want INVALID_FORMAT (err %v)", code, err)
		}
	})

	t.Run("empty source", func(t *testing.T) {
		_, err := Load(ctx, nil, "")
		if code := apperrors.GetCode(err); code != apperrors.ErrCodeInvalidInput {
			t.Errorf("code = %q, want INVALID_INPUT", code)
		}
	})
}

func TestGenerateLayoutDeterministic(t *testing.T) {
	doc, err := graph.UnmarshalTree([]byte(sampleTOML), graph.FormatTOML)
	if err != nil {
		t.Fatal(err)
	}
	a, _ := graph.MarshalLayout(GenerateLayout(doc.TreeNodes(), Options{}))
	b, _ := graph.MarshalLayout(GenerateLayout(doc.TreeNodes(), Options{}))
	if string(a) != string(b) {
		t.Error("equal inputs should serialize to equal layouts")
	}
}

func TestRenderGraphvizDOTOnly(t *testing.T) {
	doc, err := graph.UnmarshalTree([]byte(sampleTOML), graph.FormatTOML)
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Style: graph.StyleGraphviz, Formats: []string{FormatDOT, FormatJSON}}
	if err := opts.ValidateForRender(); err != nil {
		t.Fatal(err)
	}
	out, err := Render(context.Background(), doc, GenerateLayout(doc.TreeNodes(), opts), opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.HasPrefix(string(out[FormatDOT]), "digraph G {") {
		t.Errorf("dot = %q", out[FormatDOT])
	}
}
