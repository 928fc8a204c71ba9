package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/degreetree/pkg/camera"
	apperrors "github.com/matzehuels/degreetree/pkg/errors"
	"github.com/matzehuels/degreetree/pkg/graph"
	"github.com/matzehuels/degreetree/pkg/httputil"
	"github.com/matzehuels/degreetree/pkg/layout"
	"github.com/matzehuels/degreetree/pkg/pipeline"
	"github.com/matzehuels/degreetree/pkg/render/svg"
	"github.com/matzehuels/degreetree/pkg/session"
	"github.com/matzehuels/degreetree/pkg/tree"
)

// =============================================================================
// Request and Response Types
// =============================================================================

type createSessionRequest struct {
	TreeID string  `json:"tree_id"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type selectRequest struct {
	NodeID string `json:"node_id"`
}

type zoomRequest struct {
	Delta float64 `json:"delta"`
}

type wheelRequest struct {
	DeltaY float64 `json:"delta_y"`
	Ctrl   bool    `json:"ctrl"`
}

type viewportRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// nodeRecord is the detail panel payload for a node.
type nodeRecord struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	FullTitle   string `json:"full_title,omitempty"`
	Description string `json:"description,omitempty"`
	Parent      string `json:"parent,omitempty"`
	Status      string `json:"status"`
}

type sessionResponse struct {
	*session.Session
	Focused *nodeRecord `json:"focused,omitempty"`
	Applied *bool       `json:"applied,omitempty"` // wheel only
	Reset   bool        `json:"reset,omitempty"`   // camera reset because the tree changed
}

func newNodeRecord(n tree.Node) *nodeRecord {
	return &nodeRecord{
		ID:          n.ID,
		Label:       n.DisplayLabel(),
		FullTitle:   n.FullTitle,
		Description: n.Description,
		Parent:      n.Parent,
		Status:      string(n.Status.OrPlanned()),
	}
}

// =============================================================================
// View - Restored Camera over a Session's Tree
// =============================================================================

// view is a session with its tree, layout and restored controller.
type view struct {
	sess  *session.Session
	doc   graph.Tree
	nodes []tree.Node
	ctrl  *camera.Controller
	reset bool

	applied *bool // wheel result, reported in the response
}

// restore rebuilds the controller for sess. When the stored tree changed
// since the snapshot was taken, the camera starts over at the defaults.
func (s *Server) restore(ctx context.Context, sess *session.Session) (*view, error) {
	doc, err := s.cfg.Trees.Get(ctx, sess.TreeID)
	if err != nil {
		return nil, err
	}
	nodes := doc.TreeNodes()
	result, err := s.computeLayout(ctx, doc, sess.Width, sess.Height)
	if err != nil {
		return nil, err
	}

	v := &view{sess: sess, doc: doc, nodes: nodes}
	v.ctrl = camera.New(nodes, result, camera.WithConfig(s.cfg.Camera))
	fp := tree.FingerprintString(nodes)
	switch {
	case sess.Camera == nil:
	case sess.Fingerprint != "" && sess.Fingerprint != fp:
		v.reset = true
	default:
		v.ctrl.Restore(sess.CameraState())
	}
	sess.Fingerprint = fp
	return v, nil
}

func (s *Server) computeLayout(ctx context.Context, doc graph.Tree, width, height float64) (layout.Result, error) {
	l, err := s.cfg.Runner.ComputeLayout(ctx, doc, pipeline.Options{
		Width:  width,
		Height: height,
		Logger: s.cfg.Logger,
	})
	if err != nil {
		return layout.Result{}, err
	}
	return layout.Parse(l)
}

// save stores the controller state and extends the session.
func (s *Server) save(ctx context.Context, v *view) error {
	v.sess.SetCamera(v.ctrl.State())
	v.sess.Touch(s.cfg.SessionTTL)
	return s.cfg.Sessions.Set(ctx, v.sess)
}

func (v *view) response() sessionResponse {
	resp := sessionResponse{Session: v.sess, Reset: v.reset, Applied: v.applied}
	if n, ok := v.ctrl.Focused(); ok {
		resp.Focused = newNodeRecord(n)
	}
	return resp
}

// update runs fn on the restored view of the path session under the
// session lock, saves the result and writes it.
func (s *Server) update(w http.ResponseWriter, r *http.Request, fn func(*view) error) {
	id := chi.URLParam(r, "sessionID")
	unlock := s.locks.Lock(id)
	defer unlock()

	v, err := s.loadView(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := fn(v); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.save(r.Context(), v); err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, v.response())
}

func (s *Server) loadView(ctx context.Context, id string) (*view, error) {
	sess, err := s.cfg.Sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.restore(ctx, sess)
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := apperrors.ValidateTreeID(req.TreeID); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := apperrors.ValidateViewport(req.Width, req.Height); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.Width == 0 {
		req.Width = pipeline.DefaultWidth
	}
	if req.Height == 0 {
		req.Height = pipeline.DefaultHeight
	}

	sess := session.New(req.TreeID, req.Width, req.Height, s.cfg.SessionTTL)
	v, err := s.restore(r.Context(), sess)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.save(r.Context(), v); err != nil {
		s.fail(w, r, err)
		return
	}
	s.cfg.Logger.Info("created session", "id", sess.ID, "tree", sess.TreeID)
	s.writeJSON(w, http.StatusCreated, v.response())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	unlock := s.locks.Lock(id)
	defer unlock()

	v, err := s.loadView(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if v.reset {
		if err := s.save(r.Context(), v); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	s.writeJSON(w, http.StatusOK, v.response())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	unlock := s.locks.Lock(id)
	defer unlock()

	if err := s.cfg.Sessions.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	s.update(w, r, func(v *view) error {
		return v.ctrl.Apply(camera.SelectEvent(req.NodeID))
	})
}

func (s *Server) handleZoom(w http.ResponseWriter, r *http.Request) {
	var req zoomRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	s.update(w, r, func(v *view) error {
		return v.ctrl.Apply(camera.ZoomEvent(req.Delta))
	})
}

func (s *Server) handleWheel(w http.ResponseWriter, r *http.Request) {
	var req wheelRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	s.update(w, r, func(v *view) error {
		applied := v.ctrl.Wheel(req.DeltaY, req.Ctrl)
		v.applied = &applied
		return nil
	})
}

// handleViewport recomputes the layout for a new viewport and recenters on
// the unchanged focus.
func (s *Server) handleViewport(w http.ResponseWriter, r *http.Request) {
	var req viewportRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := apperrors.ValidateViewport(req.Width, req.Height); err != nil {
		s.fail(w, r, err)
		return
	}
	s.update(w, r, func(v *view) error {
		result, err := s.computeLayout(r.Context(), v.doc, req.Width, req.Height)
		if err != nil {
			return err
		}
		v.sess.Width, v.sess.Height = req.Width, req.Height
		return v.ctrl.Apply(camera.SetLayoutEvent(result))
	})
}

// handleSessionSVG draws the session's tree under its camera.
func (s *Server) handleSessionSVG(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	unlock := s.locks.Lock(id)
	v, err := s.loadView(r.Context(), id)
	unlock()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	opts := []svg.Option{svg.WithCamera(v.ctrl.State()), svg.WithTitle(v.doc.Title)}
	if r.URL.Query().Get("animate") == "true" {
		opts = append(opts, svg.WithAnimation())
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg.Render(v.nodes, v.ctrl.Layout(), opts...))
}
