package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/forcefield/pkg/catalog"
	"github.com/matzehuels/forcefield/pkg/jobs"
	"github.com/matzehuels/forcefield/pkg/pipeline"
)

// Defaults for Config fields left zero.
const (
	DefaultAddr            = ":8080"
	DefaultWorkers         = 4
	DefaultShutdownTimeout = 10 * time.Second
	DefaultMaxBodyBytes    = 32 << 20
)

// Config configures a Server.
type Config struct {
	// Addr is the listen address.
	Addr string

	// Workers bounds how many layout jobs run concurrently. Submissions
	// beyond the bound stay queued until a slot frees.
	Workers int

	// JobTTL bounds how long jobs stay retrievable after their last
	// state change. Zero falls back to jobs.DefaultTTL.
	JobTTL time.Duration

	// ShutdownTimeout bounds how long Shutdown waits for in-flight
	// requests and workers.
	ShutdownTimeout time.Duration

	// MaxBodyBytes caps request body size.
	MaxBodyBytes int64

	// Store holds job state. Defaults to an in-memory store.
	Store jobs.Store

	// Catalog backs the /api/v1/graphs routes. Nil leaves them
	// responding 503.
	Catalog catalog.Catalog

	// Runner executes layout, analysis, and rendering. Defaults to an
	// uncached runner.
	Runner *pipeline.Runner

	// Logger receives request and job logs.
	Logger *log.Logger
}

// Server is the HTTP API for layout jobs, analysis, and the graph
// catalog.
type Server struct {
	cfg     Config
	logger  *log.Logger
	runner  *pipeline.Runner
	store   jobs.Store
	catalog catalog.Catalog

	router *chi.Mux
	http   *http.Server

	sem chan struct{}
	wg  sync.WaitGroup

	mu      sync.Mutex
	cancels map[string]context.CancelFunc

	// jobsCtx parents every worker context so Shutdown can cancel
	// in-flight jobs without touching request contexts.
	jobsCtx    context.Context
	jobsCancel context.CancelFunc

	start        time.Time
	shutdownOnce sync.Once
}

// New creates a server, filling zero Config fields with defaults.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = jobs.DefaultTTL
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Store == nil {
		cfg.Store = jobs.NewMemoryStore()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}

	jobsCtx, jobsCancel := context.WithCancel(context.Background())
	s := &Server{
		cfg:        cfg,
		logger:     cfg.Logger,
		runner:     cfg.Runner,
		store:      cfg.Store,
		catalog:    cfg.Catalog,
		sem:        make(chan struct{}, cfg.Workers),
		cancels:    make(map[string]context.CancelFunc),
		jobsCtx:    jobsCtx,
		jobsCancel: jobsCancel,
		start:      time.Now(),
	}
	s.router = s.routes()
	s.http = &http.Server{
		Addr:           cfg.Addr,
		Handler:        s.router,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}
	return s
}

func (s *Server) routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(s.recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/jobs", s.handleSubmitJob)
		r.Get("/jobs/{id}", s.handleJobStatus)
		r.Get("/jobs/{id}/result", s.handleJobResult)
		r.Delete("/jobs/{id}", s.handleCancelJob)

		r.Post("/analyze", s.handleAnalyze)

		r.Route("/graphs", func(r chi.Router) {
			r.Get("/", s.handleListGraphs)
			r.Put("/{name}", s.handleSaveGraph)
			r.Get("/{name}", s.handleGetGraph)
			r.Delete("/{name}", s.handleDeleteGraph)
		})
	})

	return r
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Start serves until ctx is canceled or the listener fails. On
// cancellation it drains requests and workers via Shutdown.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.http.ListenAndServe() }()

	s.logger.Info("server listening", "addr", s.cfg.Addr, "workers", s.cfg.Workers)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.Shutdown()
	}
}

// Shutdown stops the listener, cancels in-flight jobs, and waits up to
// the configured timeout for workers to finish. Safe to call more than
// once.
func (s *Server) Shutdown() error {
	var err error
	s.shutdownOnce.Do(func() {
		s.logger.Info("server shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		err = s.http.Shutdown(ctx)

		s.jobsCancel()
		done := make(chan struct{})
		go func() {
			s.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			s.logger.Warn("shutdown timeout reached with workers still running")
		}
	})
	return err
}
