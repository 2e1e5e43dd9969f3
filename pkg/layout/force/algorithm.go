package force

import (
	"context"

	"github.com/matzehuels/forcefield/pkg/errors"
	"github.com/matzehuels/forcefield/pkg/graph"
	"github.com/matzehuels/forcefield/pkg/layout"
)

// Size limits for the generic algorithm. The collision and spring
// phases are quadratic in the worst case, so the limits sit well below
// the ForceAtlas2 ones.
const (
	MaxNodes = 1500
	MaxEdges = 6000
)

// Algorithm is the generic spring-model layout: rest-length springs
// on edges, many-body repulsion, weak centering gravity.
type Algorithm struct{}

// New returns the generic force-directed algorithm.
func New() *Algorithm { return &Algorithm{} }

func init() { layout.Register(New()) }

func (a *Algorithm) Name() string { return "force" }

func (a *Algorithm) Capabilities() layout.Capabilities {
	return layout.Capabilities{
		Async:         true,
		Cancelable:    true,
		Incremental:   true,
		Deterministic: true,
		MaxNodes:      MaxNodes,
		MaxEdges:      MaxEdges,
	}
}

func (a *Algorithm) CanHandle(g *graph.Graph) bool {
	return g != nil && a.Capabilities().Fits(g)
}

func (a *Algorithm) Apply(g *graph.Graph, cfg layout.Config) (layout.Positions, error) {
	return a.ApplyContext(context.Background(), g, cfg, nil)
}

func (a *Algorithm) ApplyContext(ctx context.Context, g *graph.Graph, cfg layout.Config, progress layout.ProgressFunc) (layout.Positions, error) {
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "force layout")
	}
	if g == nil || g.NodeCount() == 0 {
		return layout.Positions{}, nil
	}

	sim := NewSimulator(g, cfg, Tuning{
		Attraction:     AttractionSpring,
		RepulsionScale: -cfg.ManyBodyStrength / manyBodyDivisor,
	})
	return sim.Run(ctx, progress)
}
