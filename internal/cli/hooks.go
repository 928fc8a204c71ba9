package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/degreetree/pkg/observability"
)

// debugHooks logs pipeline, camera and cache events at debug level. It is
// installed by --verbose; HTTP requests are already logged by the server.
type debugHooks struct {
	logger *log.Logger
}

func (h *debugHooks) OnLoadStart(_ context.Context, source string) {
	h.logger.Debug("load start", "source", source)
}

func (h *debugHooks) OnLoadComplete(_ context.Context, source string, nodeCount int, d time.Duration, err error) {
	h.done("load", err, "source", source, "nodes", nodeCount, "duration", d)
}

func (h *debugHooks) OnLayoutStart(_ context.Context, treeID string, nodeCount int) {
	h.logger.Debug("layout start", "tree", treeID, "nodes", nodeCount)
}

func (h *debugHooks) OnLayoutComplete(_ context.Context, treeID string, d time.Duration, err error) {
	h.done("layout", err, "tree", treeID, "duration", d)
}

func (h *debugHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h *debugHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.done("render", err, "formats", formats, "duration", d)
}

func (h *debugHooks) OnFocus(from, to string) {
	h.logger.Debug("camera focus", "from", from, "to", to)
}

func (h *debugHooks) OnZoom(scale float64, clamped bool) {
	h.logger.Debug("camera zoom", "scale", scale, "clamped", clamped)
}

func (h *debugHooks) OnReset(focus string) {
	h.logger.Debug("camera reset", "focus", focus)
}

func (h *debugHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "kind", keyType)
}

func (h *debugHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "kind", keyType)
}

func (h *debugHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "kind", keyType, "bytes", size)
}

func (h *debugHooks) done(stage string, err error, keyvals ...any) {
	if err != nil {
		h.logger.Debug(stage+" failed", append(keyvals, "error", err)...)
		return
	}
	h.logger.Debug(stage+" done", keyvals...)
}

var (
	_ observability.PipelineHooks = (*debugHooks)(nil)
	_ observability.CameraHooks   = (*debugHooks)(nil)
	_ observability.CacheHooks    = (*debugHooks)(nil)
)
