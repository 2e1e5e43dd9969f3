package server

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/forcefield/pkg/analyze"
	"github.com/matzehuels/forcefield/pkg/errors"
	"github.com/matzehuels/forcefield/pkg/graph"
	forceio "github.com/matzehuels/forcefield/pkg/io"
	"github.com/matzehuels/forcefield/pkg/jobs"
	"github.com/matzehuels/forcefield/pkg/layout"
	"github.com/matzehuels/forcefield/pkg/pipeline"
)

// jobRequest is the body of POST /api/v1/jobs.
type jobRequest struct {
	// Graph is the inline graph document to lay out.
	Graph json.RawMessage `json:"graph"`

	// Layout carries the algorithm choice and tuning parameters. An
	// empty algorithm name walks the fallback chain.
	Layout layout.Config `json:"layout"`

	// Algorithm overrides Layout.Algorithm when set.
	Algorithm string `json:"algorithm,omitempty"`

	// Metrics computes layout quality metrics after the run.
	Metrics bool `json:"metrics,omitempty"`

	// SkipAnalyze disables the structural analysis stage.
	SkipAnalyze bool `json:"skip_analyze,omitempty"`

	// Analysis tunes the analyzer when it runs.
	Analysis analyze.Options `json:"analysis,omitempty"`
}

// jobResult is the payload stored on a finished job and served by
// GET /api/v1/jobs/{id}/result.
type jobResult struct {
	// Algorithm is the algorithm that actually ran, after fallback.
	Algorithm string `json:"algorithm"`

	// Graph is the positioned graph document.
	Graph json.RawMessage `json:"graph"`

	Metrics  *layout.Metrics `json:"metrics,omitempty"`
	Analysis *analyze.Result `json:"analysis,omitempty"`
}

func (s *Server) handleSubmitJob(w http.ResponseWriter, r *http.Request) {
	var req jobRequest
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
	if req.Algorithm != "" {
		req.Layout.Algorithm = req.Algorithm
	}
	if err := req.Layout.ValidateAndSetDefaults(); err != nil {
		s.respondCoded(w, errors.Wrap(errors.ErrCodeInvalidConfig, err, "layout options"))
		return
	}

	job := jobs.New(req.Layout.Algorithm)
	if err := s.store.Set(r.Context(), job, s.cfg.JobTTL); err != nil {
		s.respondError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "store job: %s", err)
		return
	}

	ctx, cancel := context.WithCancel(s.jobsCtx)
	s.registerCancel(job.ID, cancel)
	s.wg.Add(1)
	// The worker owns its own copy; the response below marshals the
	// original while the worker may already be updating state.
	go s.runJob(ctx, job.Clone(), g, req)

	s.logger.Info("job accepted",
		"job", job.ID,
		"algorithm", job.Algorithm,
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
	)
	s.respondJSON(w, http.StatusAccepted, job)
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	job, ok := s.lookupJob(w, r)
	if !ok {
		return
	}
	// Results are served by the result endpoint; status stays small.
	job.Result = nil
	s.respondJSON(w, http.StatusOK, job)
}

func (s *Server) handleJobResult(w http.ResponseWriter, r *http.Request) {
	job, ok := s.lookupJob(w, r)
	if !ok {
		return
	}
	switch job.State {
	case jobs.StateDone:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(job.Result)
	case jobs.StateFailed:
		s.respondError(w, http.StatusConflict, errors.ErrCodeInternal, "job %s failed: %s", job.ID, job.Error)
	case jobs.StateCanceled:
		s.respondError(w, http.StatusConflict, errors.ErrCodeCanceled, "job %s was canceled", job.ID)
	default:
		s.respondError(w, http.StatusConflict, errors.ErrCodeUnavailable, "job %s is %s", job.ID, job.State)
	}
}

func (s *Server) handleCancelJob(w http.ResponseWriter, r *http.Request) {
	job, ok := s.lookupJob(w, r)
	if !ok {
		return
	}

	if cancel := s.takeCancel(job.ID); cancel != nil {
		cancel()
	}

	// Canceling a finished job leaves it finished.
	if !job.State.Terminal() {
		job.State = jobs.StateCanceled
		job.Message = "canceled"
		job.Result = nil
		job.Touch()
		if err := s.store.Set(r.Context(), job, s.cfg.JobTTL); err != nil {
			s.respondError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "store job: %s", err)
			return
		}
		s.logger.Info("job canceled", "job", job.ID)
	}
	s.respondJSON(w, http.StatusOK, job)
}

// lookupJob fetches the job named by the URL, writing a 404 when it is
// unknown or expired.
func (s *Server) lookupJob(w http.ResponseWriter, r *http.Request) (*jobs.Job, bool) {
	id := chi.URLParam(r, "id")
	job, err := s.store.Get(r.Context(), id)
	if err != nil {
		if stderrors.Is(err, jobs.ErrNotFound) || stderrors.Is(err, jobs.ErrExpired) {
			s.respondError(w, http.StatusNotFound, errors.ErrCodeJobNotFound, "unknown job: %s", id)
		} else {
			s.respondError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "load job: %s", err)
		}
		return nil, false
	}
	return job, true
}

// runJob executes one layout job on a worker slot. A submission burst
// queues here on the semaphore rather than running unbounded.
func (s *Server) runJob(ctx context.Context, job *jobs.Job, g *graph.Graph, req jobRequest) {
	defer s.wg.Done()
	defer s.dropCancel(job.ID)

	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		s.finishCanceled(job)
		return
	}
	defer func() { <-s.sem }()

	if ctx.Err() != nil {
		s.finishCanceled(job)
		return
	}

	job.State = jobs.StateRunning
	job.Message = "running"
	s.putJob(job)

	opts := pipeline.Options{
		Layout:      req.Layout,
		Metrics:     req.Metrics,
		SkipAnalyze: req.SkipAnalyze,
		Analysis:    req.Analysis,
		Logger:      s.logger,
		OnProgress: func(p layout.Progress) {
			if ctx.Err() != nil {
				return
			}
			job.Percent = p.Percent
			job.Message = p.Message
			job.ETAMillis = p.ETAMillis
			s.putJob(job)
		},
	}

	start := time.Now()
	positions, algorithm, err := s.runner.Layout(ctx, g, opts)
	if err != nil {
		if stderrors.Is(err, layout.ErrCanceled) || ctx.Err() != nil {
			s.finishCanceled(job)
			return
		}
		s.finishFailed(job, err)
		return
	}

	res := jobResult{Algorithm: algorithm}

	// Analysis runs before positions are applied so its cache key
	// matches other runs of the same input document.
	if !req.SkipAnalyze {
		analysis, _ := s.runner.AnalyzeWithCacheInfo(ctx, g, opts)
		res.Analysis = &analysis
	}

	positions.ApplyTo(g)

	if req.Metrics {
		m := layout.Quality(g, positions)
		res.Metrics = &m
	}

	doc, err := graph.MarshalFile(g.Export())
	if err != nil {
		s.finishFailed(job, err)
		return
	}
	res.Graph = doc

	payload, err := json.Marshal(res)
	if err != nil {
		s.finishFailed(job, err)
		return
	}

	job.State = jobs.StateDone
	job.Algorithm = algorithm
	job.Percent = 100
	job.Message = "done"
	job.ETAMillis = 0
	job.Error = ""
	job.Result = payload
	s.putJob(job)

	s.logger.Info("job done",
		"job", job.ID,
		"algorithm", algorithm,
		"duration", time.Since(start).Round(time.Millisecond),
	)
}

func (s *Server) finishCanceled(job *jobs.Job) {
	job.State = jobs.StateCanceled
	job.Message = "canceled"
	job.Result = nil
	s.putJob(job)
	s.logger.Info("job canceled", "job", job.ID)
}

func (s *Server) finishFailed(job *jobs.Job, err error) {
	job.State = jobs.StateFailed
	job.Message = "failed"
	job.Error = err.Error()
	job.Result = nil
	s.putJob(job)
	s.logger.Error("job failed", "job", job.ID, "error", err)
}

// putJob stamps and writes job state from worker goroutines. The
// submitting request is long gone, so writes use a short background
// timeout; failures are logged and the run continues.
func (s *Server) putJob(job *jobs.Job) {
	job.Touch()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.store.Set(ctx, job, s.cfg.JobTTL); err != nil {
		s.logger.Error("store job", "job", job.ID, "error", err)
	}
}

func (s *Server) registerCancel(id string, cancel context.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancels[id] = cancel
}

// takeCancel removes and returns the cancel func for an in-flight job,
// nil when the job is not in flight.
func (s *Server) takeCancel(id string) context.CancelFunc {
	s.mu.Lock()
	defer s.mu.Unlock()
	cancel := s.cancels[id]
	delete(s.cancels, id)
	return cancel
}

// dropCancel releases the worker's context when it exits.
func (s *Server) dropCancel(id string) {
	if cancel := s.takeCancel(id); cancel != nil {
		cancel()
	}
}
