package pipeline

import (
	"github.com/matzehuels/degreetree/pkg/camera"
	"github.com/matzehuels/degreetree/pkg/graph"
	"github.com/matzehuels/degreetree/pkg/layout"
	"github.com/matzehuels/degreetree/pkg/tree"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout computes positions for nodes and exports them in the
// serialization format. The result carries no camera.
func GenerateLayout(nodes []tree.Node, opts Options) graph.Layout {
	opts.SetLayoutDefaults()
	return layout.Compute(nodes, opts.Width, opts.Height, opts.LayoutOptions()...).Export(nodes)
}

// =============================================================================
// Camera
// =============================================================================

// CameraFor returns the camera that a viewer focused on opts.Focus at
// opts.Zoom would show. ok is false when opts.Focus is empty, in which case
// renderers draw the whole tree untransformed. An unknown focus is a
// NODE_NOT_FOUND error.
func CameraFor(nodes []tree.Node, l graph.Layout, opts Options) (state camera.State, ok bool, err error) {
	if opts.Focus == "" {
		return camera.State{}, false, nil
	}
	result, err := layout.Parse(l)
	if err != nil {
		return camera.State{}, false, err
	}
	var camOpts []camera.Option
	if opts.Camera != (camera.Config{}) {
		camOpts = append(camOpts, camera.WithConfig(opts.Camera))
	}
	ctrl := camera.New(nodes, result, camOpts...)
	if err := ctrl.Select(opts.Focus); err != nil {
		return camera.State{}, false, err
	}
	if opts.Zoom > 0 {
		ctrl.Zoom(opts.Zoom - ctrl.State().Scale)
	}
	return ctrl.State(), true, nil
}
