package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/forcefield/pkg/analyze"
	"github.com/matzehuels/forcefield/pkg/cache"
	"github.com/matzehuels/forcefield/pkg/errors"
	"github.com/matzehuels/forcefield/pkg/graph"
	"github.com/matzehuels/forcefield/pkg/httputil"
	forceio "github.com/matzehuels/forcefield/pkg/io"
	"github.com/matzehuels/forcefield/pkg/layout"
	"github.com/matzehuels/forcefield/pkg/observability"
	"github.com/matzehuels/forcefield/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → analyze → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	observability.Pipeline().OnLoadStart(ctx, opts.Source)
	g, err := r.Load(ctx, opts)
	observability.Pipeline().OnLoadComplete(ctx, opts.Source, nodeCount(g), time.Since(loadStart), err)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Graph = g
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	result.GraphHash = GraphHash(g)

	opts.Logger.Info("loaded graph",
		"source", opts.Source,
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	positions, algorithm, err := r.Layout(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	positions.ApplyTo(g)
	result.Positions = positions
	result.Algorithm = algorithm
	result.Stats.LayoutTime = time.Since(layoutStart)

	if opts.Metrics {
		m := layout.Quality(g, positions)
		result.Metrics = &m
	}

	opts.Logger.Info("computed layout",
		"algorithm", algorithm,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Analyze
	if opts.ShouldAnalyze() {
		analyzeStart := time.Now()
		observability.Pipeline().OnAnalyzeStart(ctx, g.NodeCount())
		analysis, hit := r.analyzeCached(ctx, g, opts, result.GraphHash)
		observability.Pipeline().OnAnalyzeComplete(ctx, time.Since(analyzeStart), nil)
		result.Analysis = &analysis
		result.Stats.AnalyzeTime = time.Since(analyzeStart)
		result.CacheInfo.AnalysisHit = hit

		opts.Logger.Info("analyzed graph",
			"critical_path", len(analysis.CriticalPath),
			"bottlenecks", len(analysis.Bottlenecks),
			"cached", hit,
			"duration", result.Stats.AnalyzeTime)
	}

	// Stage 4: Render
	if len(opts.Formats) > 0 {
		renderStart := time.Now()
		artifacts, err := r.Render(ctx, g, opts)
		if err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
		result.Artifacts = artifacts
		result.Stats.RenderTime = time.Since(renderStart)

		opts.Logger.Info("rendered outputs",
			"formats", opts.Formats,
			"duration", result.Stats.RenderTime)
	}

	return result, nil
}

// Load reads the graph document named by opts.Source. Local paths are read
// directly; http(s) URLs go through the caching, retrying HTTP client.
func (r *Runner) Load(ctx context.Context, opts Options) (*graph.Graph, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	return forceio.Import(ctx, opts.Source, r.client(opts))
}

// Layout selects an algorithm for g and computes positions. It returns the
// positions and the name of the algorithm that actually ran. Algorithms
// that support cancellation receive the context and the progress callback.
func (r *Runner) Layout(ctx context.Context, g *graph.Graph, opts Options) (layout.Positions, string, error) {
	if err := opts.Layout.ValidateAndSetDefaults(); err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "layout options")
	}

	alg, err := layout.Select(g, opts.Layout.Algorithm)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidAlgorithm, err, "select algorithm")
	}

	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, alg.Name(), nodeCount(g))

	var positions layout.Positions
	if ca, ok := alg.(layout.ContextAlgorithm); ok {
		positions, err = ca.ApplyContext(ctx, g, opts.Layout, opts.OnProgress)
	} else {
		positions, err = alg.Apply(g, opts.Layout)
	}

	observability.Pipeline().OnLayoutComplete(ctx, alg.Name(), time.Since(start), err)
	if err != nil {
		return nil, alg.Name(), err
	}
	return positions, alg.Name(), nil
}

// AnalyzeWithCacheInfo analyzes g, reusing a cached result when one exists
// for the same graph content and options. The second return reports whether
// the result came from the cache. Cache failures degrade to recomputing.
func (r *Runner) AnalyzeWithCacheInfo(ctx context.Context, g *graph.Graph, opts Options) (analyze.Result, bool) {
	return r.analyzeCached(ctx, g, opts, GraphHash(g))
}

// analyzeCached keys the cache on graphHash, not the graph's current
// serialization. Execute passes the hash taken at load time, so analysis
// entries are shared across layout runs that write different positions
// into the same input document.
func (r *Runner) analyzeCached(ctx context.Context, g *graph.Graph, opts Options, graphHash string) (analyze.Result, bool) {
	key := r.keyer().AnalysisKey(graphHash, opts.AnalysisKeyOpts())

	if !opts.Refresh && graphHash != "" {
		if data, hit, err := r.cache().Get(ctx, key); err == nil && hit {
			var cached analyze.Result
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "analysis")
				return cached, true
			}
		}
		observability.Cache().OnCacheMiss(ctx, "analysis")
	}

	result := analyze.Analyze(g, opts.Analysis)

	if graphHash != "" {
		if data, err := json.Marshal(result); err == nil {
			_ = r.cache().Set(ctx, key, data, cache.TTLAnalysis)
			observability.Cache().OnCacheSet(ctx, "analysis", len(data))
		}
	}
	return result, false
}

// Analyze is a convenience wrapper that calls AnalyzeWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Analyze(ctx context.Context, g *graph.Graph, opts Options) analyze.Result {
	result, _ := r.AnalyzeWithCacheInfo(ctx, g, opts)
	return result
}

// Render generates every requested artifact format for a positioned graph.
func (r *Runner) Render(ctx context.Context, g *graph.Graph, opts Options) (map[string][]byte, error) {
	if err := render.ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		start := time.Now()
		observability.Pipeline().OnRenderStart(ctx, format)
		data, err := render.Render(ctx, g, format, render.Options{Labels: opts.Labels})
		observability.Pipeline().OnRenderComplete(ctx, format, time.Since(start), err)
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// GraphHash returns the content hash of a graph's exported document.
// Returns "" when the graph cannot be serialized.
func GraphHash(g *graph.Graph) string {
	if g == nil {
		return ""
	}
	data, err := graph.MarshalFile(g.Export())
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) cache() cache.Cache {
	if r.Cache != nil {
		return r.Cache
	}
	return cache.NewNullCache()
}

func (r *Runner) keyer() cache.Keyer {
	if r.Keyer != nil {
		return r.Keyer
	}
	return cache.NewDefaultKeyer()
}

// client returns the HTTP client used for URL sources. A caller-supplied
// client wins; otherwise one is built against the runner's cache so
// repeated imports of the same URL skip the network.
func (r *Runner) client(opts Options) *httputil.Client {
	if opts.Client != nil {
		return opts.Client
	}
	return &httputil.Client{Cache: r.Cache, Keyer: r.Keyer}
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func nodeCount(g *graph.Graph) int {
	if g == nil {
		return 0
	}
	return g.NodeCount()
}
