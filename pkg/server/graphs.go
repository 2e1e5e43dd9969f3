package server

import (
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/forcefield/pkg/catalog"
	"github.com/matzehuels/forcefield/pkg/errors"
	forceio "github.com/matzehuels/forcefield/pkg/io"
)

// requireCatalog writes a 503 when no catalog is configured.
func (s *Server) requireCatalog(w http.ResponseWriter) bool {
	if s.catalog == nil {
		s.respondError(w, http.StatusServiceUnavailable, errors.ErrCodeUnavailable, "no graph catalog configured")
		return false
	}
	return true
}

func (s *Server) handleListGraphs(w http.ResponseWriter, r *http.Request) {
	if !s.requireCatalog(w) {
		return
	}
	summaries, err := s.catalog.List(r.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "list graphs: %s", err)
		return
	}
	if summaries == nil {
		summaries = []catalog.Summary{}
	}
	s.respondJSON(w, http.StatusOK, summaries)
}

// handleSaveGraph upserts a named graph. The body is the graph document
// itself, validated the same way job submissions are.
func (s *Server) handleSaveGraph(w http.ResponseWriter, r *http.Request) {
	if !s.requireCatalog(w) {
		return
	}
	name := chi.URLParam(r, "name")
	if err := errors.ValidateGraphName(name); err != nil {
		s.respondCoded(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	g, err := forceio.Read(r.Body)
	if err != nil {
		s.respondCoded(w, err)
		return
	}

	file := g.Export()
	file.Name = name
	if err := s.catalog.Save(r.Context(), name, file); err != nil {
		s.respondCoded(w, err)
		return
	}

	s.logger.Info("graph saved", "name", name, "nodes", len(file.Nodes), "edges", len(file.Edges))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	if !s.requireCatalog(w) {
		return
	}
	name := chi.URLParam(r, "name")
	entry, err := s.catalog.Get(r.Context(), name)
	if err != nil {
		if stderrors.Is(err, catalog.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, errors.ErrCodeGraphNotFound, "unknown graph: %s", name)
		} else {
			s.respondError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "load graph: %s", err)
		}
		return
	}
	s.respondJSON(w, http.StatusOK, entry)
}

func (s *Server) handleDeleteGraph(w http.ResponseWriter, r *http.Request) {
	if !s.requireCatalog(w) {
		return
	}
	name := chi.URLParam(r, "name")
	if err := s.catalog.Delete(r.Context(), name); err != nil {
		if stderrors.Is(err, catalog.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, errors.ErrCodeGraphNotFound, "unknown graph: %s", name)
		} else {
			s.respondError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "delete graph: %s", err)
		}
		return
	}
	s.logger.Info("graph deleted", "name", name)
	w.WriteHeader(http.StatusNoContent)
}
