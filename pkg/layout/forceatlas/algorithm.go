package forceatlas

import (
	"context"

	"github.com/matzehuels/forcefield/pkg/errors"
	"github.com/matzehuels/forcefield/pkg/graph"
	"github.com/matzehuels/forcefield/pkg/layout"
	"github.com/matzehuels/forcefield/pkg/layout/force"
)

const (
	// HubDegree is the degree above which a node counts as a hub and
	// receives boosted repulsion.
	HubDegree = 10

	// HubMultiplier is the repulsion boost applied to hubs.
	HubMultiplier = 2.0

	// MaxNodes and MaxEdges bound the graphs CanHandle accepts.
	MaxNodes = 5000
	MaxEdges = 20000
)

// Algorithm implements the ForceAtlas2 layout.
type Algorithm struct{}

// New returns the ForceAtlas2 algorithm.
func New() *Algorithm { return &Algorithm{} }

func init() { layout.Register(New()) }

func (a *Algorithm) Name() string { return "forceatlas2" }

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
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "forceatlas2 layout")
	}
	if g == nil || g.NodeCount() == 0 {
		return layout.Positions{}, nil
	}

	attraction := force.AttractionLinear
	if cfg.LinLog {
		attraction = force.AttractionLinLog
	}
	sim := force.NewSimulator(g, cfg, force.Tuning{
		Attraction:     attraction,
		RepulsionScale: cfg.ScalingRatio,
		HubDegree:      HubDegree,
		HubMultiplier:  HubMultiplier,
		AdaptiveSpeed:  true,
	})
	return sim.Run(ctx, progress)
}
