package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/matzehuels/degreetree/pkg/errors"
	"github.com/matzehuels/degreetree/pkg/graph"
	"github.com/matzehuels/degreetree/pkg/httputil"
	"github.com/matzehuels/degreetree/pkg/pipeline"
	"github.com/matzehuels/degreetree/pkg/tree"
)

type treeListResponse struct {
	Trees []string `json:"trees"`
}

type issueResponse struct {
	Kind    string `json:"kind"`
	NodeID  string `json:"node_id,omitempty"`
	Parent  string `json:"parent,omitempty"`
	Index   int    `json:"index"`
	Message string `json:"message"`
}

type issuesResponse struct {
	TreeID string          `json:"tree_id"`
	Issues []issueResponse `json:"issues"`
}

func (s *Server) handleListTrees(w http.ResponseWriter, r *http.Request) {
	ids, err := s.cfg.Trees.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, treeListResponse{Trees: ids})
}

func (s *Server) handleGetTree(w http.ResponseWriter, r *http.Request) {
	doc, err := s.loadTree(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

// handlePutTree stores the body under the path ID. A body ID, when present,
// must match the path.
func (s *Server) handlePutTree(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "treeID")
	if err := apperrors.ValidateTreeID(id); err != nil {
		s.fail(w, r, err)
		return
	}

	var doc graph.Tree
	if err := httputil.DecodeJSON(w, r, &doc); err != nil {
		s.fail(w, r, err)
		return
	}
	if doc.ID != "" && doc.ID != id {
		s.fail(w, r, apperrors.New(apperrors.ErrCodeInvalidInput, "body id %q does not match path id %q", doc.ID, id))
		return
	}
	doc.ID = id
	if doc.Nodes == nil {
		doc.Nodes = []graph.Node{}
	}

	if err := s.cfg.Trees.Put(r.Context(), doc); err != nil {
		s.fail(w, r, err)
		return
	}
	s.cfg.Logger.Info("stored tree", "id", id, "nodes", len(doc.Nodes))
	s.writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteTree(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "treeID")
	if err := apperrors.ValidateTreeID(id); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.cfg.Trees.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleTreeLayout returns the layout for ?width=&height=, with a camera
// when ?focus= is given.
func (s *Server) handleTreeLayout(w http.ResponseWriter, r *http.Request) {
	doc, opts, err := s.treeRequest(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	l, err := s.cfg.Runner.ComputeLayout(r.Context(), doc, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	cam, ok, err := pipeline.CameraFor(doc.TreeNodes(), l, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if ok {
		l.Camera = cam.Export()
	}
	s.writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleTreeDOT(w http.ResponseWriter, r *http.Request) {
	s.renderTree(w, r, pipeline.FormatDOT, "text/vnd.graphviz; charset=utf-8")
}

// handleTreeSVG renders a static SVG; ?style=graphviz switches renderer.
func (s *Server) handleTreeSVG(w http.ResponseWriter, r *http.Request) {
	s.renderTree(w, r, pipeline.FormatSVG, "image/svg+xml")
}

func (s *Server) renderTree(w http.ResponseWriter, r *http.Request, format, contentType string) {
	doc, opts, err := s.treeRequest(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opts.Formats = []string{format}
	l, err := s.cfg.Runner.ComputeLayout(r.Context(), doc, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	artifacts, err := s.cfg.Runner.Render(r.Context(), doc, l, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(artifacts[format])
}

func (s *Server) handleTreeIssues(w http.ResponseWriter, r *http.Request) {
	doc, err := s.loadTree(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	issues := pipeline.Issues(doc.TreeNodes())
	resp := issuesResponse{TreeID: doc.ID, Issues: make([]issueResponse, len(issues))}
	for i, is := range issues {
		resp.Issues[i] = newIssueResponse(is)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func newIssueResponse(is tree.Issue) issueResponse {
	return issueResponse{
		Kind:    is.Kind.String(),
		NodeID:  is.NodeID,
		Parent:  is.Parent,
		Index:   is.Index,
		Message: is.String(),
	}
}

func (s *Server) loadTree(r *http.Request) (graph.Tree, error) {
	id := chi.URLParam(r, "treeID")
	if err := apperrors.ValidateTreeID(id); err != nil {
		return graph.Tree{}, err
	}
	return s.cfg.Trees.Get(r.Context(), id)
}

// treeRequest loads the path tree and reads render settings from the query.
func (s *Server) treeRequest(r *http.Request) (graph.Tree, pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Source: chi.URLParam(r, "treeID"),
		Style:  q.Get("style"),
		Focus:  q.Get("focus"),
		Camera: s.cfg.Camera,
		Logger: s.cfg.Logger,
	}
	var err error
	if opts.Width, err = floatParam(q.Get("width"), "width"); err != nil {
		return graph.Tree{}, opts, err
	}
	if opts.Height, err = floatParam(q.Get("height"), "height"); err != nil {
		return graph.Tree{}, opts, err
	}
	if opts.Zoom, err = floatParam(q.Get("zoom"), "zoom"); err != nil {
		return graph.Tree{}, opts, err
	}
	opts.Animate = q.Get("animate") == "true"
	if err := opts.ValidateForRender(); err != nil {
		return graph.Tree{}, opts, err
	}

	doc, err := s.loadTree(r)
	return doc, opts, err
}

// floatParam parses an optional numeric query parameter; empty means zero.
func floatParam(v, name string) (float64, error) {
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, apperrors.New(apperrors.ErrCodeInvalidViewport, "%s: not a number: %q", name, v)
	}
	return f, nil
}
