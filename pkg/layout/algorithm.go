package layout

import (
	"context"
	"errors"

	"github.com/matzehuels/forcefield/pkg/graph"
)

var (
	// ErrCanceled is returned by async runs that were canceled before
	// finishing. The positions returned alongside it reflect the last
	// completed iteration batch.
	ErrCanceled = errors.New("layout canceled")

	// ErrTooLarge is returned when a graph exceeds an algorithm's
	// declared node or edge limits.
	ErrTooLarge = errors.New("graph exceeds algorithm limits")

	// ErrNoAlgorithm is returned by Select when no registered algorithm
	// can handle the graph.
	ErrNoAlgorithm = errors.New("no algorithm can handle graph")
)

// Algorithm is an interface for graph layout algorithms. An algorithm
// computes a position for every node of a graph; it never mutates the
// graph itself.
type Algorithm interface {
	// Name returns the identifier the algorithm is registered under.
	Name() string

	// Apply computes positions for every node in g. The input graph is
	// read but never modified; callers write results back with
	// Positions.ApplyTo. An empty graph yields an empty position set.
	Apply(g *graph.Graph, cfg Config) (Positions, error)

	// CanHandle reports whether the algorithm accepts g. It never
	// fails: oversized or structurally unsuitable graphs report false.
	CanHandle(g *graph.Graph) bool

	// Capabilities describes the algorithm's execution profile and
	// size limits.
	Capabilities() Capabilities
}

// ContextAlgorithm is an Algorithm that supports cancellation and
// progress reporting via a context.
type ContextAlgorithm interface {
	Algorithm
	ApplyContext(ctx context.Context, g *graph.Graph, cfg Config, progress ProgressFunc) (Positions, error)
}

// Capabilities describes what an algorithm supports. Size limits bound
// the graphs CanHandle accepts; zero means unlimited. Incremental
// algorithms refine the positions already on the graph instead of
// starting from scratch, so feeding a positioned graph back in nudges
// the existing layout rather than replacing it.
type Capabilities struct {
	Async         bool `json:"async"`
	Cancelable    bool `json:"cancelable"`
	Incremental   bool `json:"incremental"`
	Deterministic bool `json:"deterministic"`
	MaxNodes      int  `json:"max_nodes,omitempty"`
	MaxEdges      int  `json:"max_edges,omitempty"`
}

// Fits reports whether g is within the declared size limits.
func (c Capabilities) Fits(g *graph.Graph) bool {
	if c.MaxNodes > 0 && g.NodeCount() > c.MaxNodes {
		return false
	}
	if c.MaxEdges > 0 && g.EdgeCount() > c.MaxEdges {
		return false
	}
	return true
}

// Progress is a point-in-time report emitted between iteration batches.
type Progress struct {
	Percent   float64 `json:"percent"`
	Message   string  `json:"message,omitempty"`
	ETAMillis int64   `json:"eta_ms,omitempty"`
}

// ProgressFunc receives progress reports during a run. Implementations
// must return quickly; they are called from the layout goroutine.
type ProgressFunc func(Progress)
