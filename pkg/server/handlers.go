package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/matzehuels/forcefield/pkg/analyze"
	"github.com/matzehuels/forcefield/pkg/buildinfo"
	"github.com/matzehuels/forcefield/pkg/errors"
	forceio "github.com/matzehuels/forcefield/pkg/io"
	"github.com/matzehuels/forcefield/pkg/layout"
	"github.com/matzehuels/forcefield/pkg/pipeline"
)

// analyzeRequest is the body of POST /api/v1/analyze.
type analyzeRequest struct {
	// Graph is the inline graph document to analyze.
	Graph json.RawMessage `json:"graph"`

	// Analysis tunes the analyzer.
	Analysis analyze.Options `json:"analysis,omitempty"`

	// Refresh bypasses the analysis cache.
	Refresh bool `json:"refresh,omitempty"`
}

// analyzeResponse wraps the analysis with cache provenance.
type analyzeResponse struct {
	GraphHash string         `json:"graph_hash"`
	Cached    bool           `json:"cached"`
	Analysis  analyze.Result `json:"analysis"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondCoded(w, err)
		return
	}
	if len(req.Graph) == 0 {
		s.respondError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "graph document is required")
		return
	}
	g, err := forceio.Read(bytes.NewReader(req.Graph))
	if err != nil {
		s.respondCoded(w, err)
		return
	}

	result, cached := s.runner.AnalyzeWithCacheInfo(r.Context(), g, pipeline.Options{
		Analysis: req.Analysis,
		Refresh:  req.Refresh,
		Logger:   s.logger,
	})
	s.respondJSON(w, http.StatusOK, analyzeResponse{
		GraphHash: pipeline.GraphHash(g),
		Cached:    cached,
		Analysis:  result,
	})
}

// healthResponse is the body of GET /healthz.
type healthResponse struct {
	Status     string   `json:"status"`
	Version    string   `json:"version"`
	Uptime     string   `json:"uptime"`
	Algorithms []string `json:"algorithms"`
	Catalog    bool     `json:"catalog"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, healthResponse{
		Status:     "ok",
		Version:    buildinfo.Version,
		Uptime:     time.Since(s.start).Round(time.Second).String(),
		Algorithms: layout.Algorithms(),
		Catalog:    s.catalog != nil,
	})
}
