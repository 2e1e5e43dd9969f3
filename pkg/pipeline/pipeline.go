// Package pipeline provides the core layout pipeline for forcefield.
//
// This package implements the complete load → layout → analyze → render
// pipeline that can be used by CLI, API, and worker components. By
// centralizing this logic, we ensure consistent behavior across all entry
// points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: Read a graph document from a file or URL
//  2. Layout: Select an algorithm and compute node positions
//  3. Analyze: Compute structural results (critical path, bottlenecks, ...)
//  4. Render: Generate optional artifacts (SVG, PNG, DOT)
//
// Each stage can be run independently or as part of the complete pipeline.
// Analysis results are cached by graph content hash; positions never are,
// a layout run always computes fresh physics.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Source:  "deps.json",
//	    Layout:  layout.Config{Algorithm: "forceatlas2"},
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Load only
//	g, err := runner.Load(ctx, opts)
//
//	// Layout an existing graph
//	positions, algorithm, err := runner.Layout(ctx, g, opts)
//
//	// Analyze an existing graph
//	analysis, err := runner.Analyze(ctx, g, opts)
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/forcefield/pkg/analyze"
	"github.com/matzehuels/forcefield/pkg/cache"
	"github.com/matzehuels/forcefield/pkg/errors"
	"github.com/matzehuels/forcefield/pkg/graph"
	"github.com/matzehuels/forcefield/pkg/httputil"
	"github.com/matzehuels/forcefield/pkg/layout"
	"github.com/matzehuels/forcefield/pkg/render"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Source string `json:"source,omitempty"` // file path or http(s) URL

	// Layout options. Config carries the algorithm choice; an empty
	// algorithm name walks the fallback chain.
	Layout layout.Config `json:"layout"`

	// Metrics computes layout quality metrics after the layout stage.
	// Off by default: edge crossing counting is quadratic in edges.
	Metrics bool `json:"metrics,omitempty"`

	// Analysis options
	SkipAnalyze bool            `json:"skip_analyze,omitempty"` // default: analyze
	Analysis    analyze.Options `json:"analysis,omitempty"`
	Refresh     bool            `json:"refresh,omitempty"` // bypass the analysis cache

	// Render options. An empty format list skips the render stage.
	Formats []string `json:"formats,omitempty"`
	Labels  bool     `json:"labels,omitempty"`

	// Runtime options (not serialized)
	Logger     *log.Logger         `json:"-"`
	Client     *httputil.Client    `json:"-"` // used for URL sources
	OnProgress layout.ProgressFunc `json:"-"` // forwarded to async-capable algorithms

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the loaded graph with layout positions written back.
	Graph *graph.Graph `json:"-"`

	// GraphHash is the content hash of the loaded graph document.
	GraphHash string `json:"graph_hash,omitempty"`

	// Algorithm is the layout algorithm that actually ran, after
	// fallback selection.
	Algorithm string `json:"algorithm"`

	// Positions is the computed layout keyed by node ID.
	Positions layout.Positions `json:"positions"`

	// Metrics holds layout quality metrics when Options.Metrics is set.
	Metrics *layout.Metrics `json:"metrics,omitempty"`

	// Analysis holds the structural analysis unless it was skipped.
	Analysis *analyze.Result `json:"analysis,omitempty"`

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte `json:"-"`

	// Stats contains timing and size information.
	Stats Stats `json:"stats"`

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo `json:"cache_info"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount   int           `json:"node_count"`
	EdgeCount   int           `json:"edge_count"`
	LoadTime    time.Duration `json:"load_time"`
	LayoutTime  time.Duration `json:"layout_time"`
	AnalyzeTime time.Duration `json:"analyze_time,omitempty"`
	RenderTime  time.Duration `json:"render_time,omitempty"`
}

// CacheInfo tracks cache hits for the cacheable pipeline stages.
type CacheInfo struct {
	AnalysisHit bool `json:"analysis_hit"` // whether analysis came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent - calling it multiple times has
// the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.Layout.ValidateAndSetDefaults(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "layout options")
	}
	if err := render.ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for the load stage.
func (o *Options) ValidateForLoad() error {
	if o.Source == "" {
		return errors.New(errors.ErrCodeInvalidInput, "source is required")
	}
	return nil
}

// ShouldAnalyze returns whether the analysis stage runs.
func (o *Options) ShouldAnalyze() bool {
	return !o.SkipAnalyze
}

// AnalysisKeyOpts returns cache key options for the analysis stage.
func (o *Options) AnalysisKeyOpts() cache.AnalysisKeyOpts {
	return cache.AnalysisKeyOpts{
		DependencyKinds:   o.Analysis.DependencyKinds,
		BottleneckFactor:  o.Analysis.BottleneckFactor,
		BottleneckCeiling: o.Analysis.BottleneckCeiling,
		DensityDepth:      o.Analysis.DensityDepth,
		DensityEdgeBonus:  o.Analysis.DensityEdgeBonus,
		Center:            o.Analysis.Center,
	}
}
