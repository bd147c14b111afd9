package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/taxotree/pkg/buildinfo"
	"github.com/matzehuels/taxotree/pkg/errors"
	"github.com/matzehuels/taxotree/pkg/observability"
	"github.com/matzehuels/taxotree/pkg/pipeline"
	"github.com/matzehuels/taxotree/pkg/render/nodelink"
	"github.com/matzehuels/taxotree/pkg/taxonomy"
)

type healthResponse struct {
	Status   string                  `json:"status"`
	Version  string                  `json:"version"`
	Counters *observability.Snapshot `json:"counters,omitempty"`
}

type treeResponse struct {
	Source           string               `json:"source"`
	RunID            string               `json:"run_id"`
	MultiInheritance []string             `json:"multi_inheritance,omitempty"`
	Tree             []*taxonomy.TreeNode `json:"tree"`
}

type errorResponse struct {
	Code  errors.Code `json:"code"`
	Error string      `json:"error"`
}

var diagramTypes = map[string]string{
	pipeline.FormatSVG: "image/svg+xml",
	pipeline.FormatDOT: "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatPNG: "image/png",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Version: buildinfo.Version}
	if s.counters != nil {
		snap := s.counters.Snapshot()
		resp.Counters = &snap
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSources(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"sources": s.catalog.Names()})
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	res, ok := s.run(w, r)
	if !ok {
		return
	}
	tree := res.Forest
	if tree == nil {
		tree = []*taxonomy.TreeNode{}
	}
	writeJSON(w, http.StatusOK, treeResponse{
		Source:           res.Source,
		RunID:            res.RunID,
		MultiInheritance: res.MultiInheritance,
		Tree:             tree,
	})
}

func (s *Server) handleHierarchy(w http.ResponseWriter, r *http.Request) {
	res, ok := s.run(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, res.Graph())
}

func (s *Server) handleDiagram(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	contentType, ok := diagramTypes[format]
	if !ok {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "unsupported diagram format %q", format))
		return
	}
	detailed, _ := strconv.ParseBool(r.URL.Query().Get("detailed"))

	res, ok := s.run(w, r)
	if !ok {
		return
	}
	out, err := pipeline.Render(r.Context(), res, []string{format}, nodelink.Options{Detailed: detailed})
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "render diagram"))
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out[format])
}

// run opens the named source and runs the pipeline, writing an error
// response on failure.
func (s *Server) run(w http.ResponseWriter, r *http.Request) (*pipeline.Result, bool) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")
	if err := errors.ValidateSourceName(name); err != nil {
		s.writeError(w, err)
		return nil, false
	}

	src, release, err := s.catalog.Open(ctx, name)
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	defer func() {
		if err := release(); err != nil {
			s.logger.Warn("close source", "source", name, "err", err)
		}
	}()

	refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))
	res, err := s.runner.Run(ctx, src, pipeline.Options{Refresh: refresh})
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return res, true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		s.logger.Error("request failed", "err", err)
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, errorResponse{Code: code, Error: errors.UserMessage(err)})
}

// StatusFor maps an error to an HTTP status code.
func StatusFor(err error) int {
	if errors.IsRecoverable(err) {
		return http.StatusServiceUnavailable
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case errors.ErrCodeAmbiguousHierarchy, errors.ErrCodeCyclicHierarchy, errors.ErrCodeUnknownEntity,
		errors.ErrCodeInvalidRecord, errors.ErrCodeInvalidFormat:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
