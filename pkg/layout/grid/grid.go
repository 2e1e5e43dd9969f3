// Package grid implements the last-resort grid layout. It accepts any graph
// and ignores edges entirely, so it terminates the fallback chain: when every
// other algorithm rejects a graph, this one still produces usable coordinates.
package grid

import (
	"math"

	"github.com/matzehuels/forcefield/pkg/errors"
	"github.com/matzehuels/forcefield/pkg/graph"
	"github.com/matzehuels/forcefield/pkg/layout"
)

// Algorithm arranges nodes in insertion order on a square grid with
// LinkDistance cell spacing, centered on the origin.
type Algorithm struct{}

// New returns the grid layout algorithm.
func New() *Algorithm { return &Algorithm{} }

func init() { layout.Register(New()) }

func (a *Algorithm) Name() string { return "grid" }

// Capabilities reports no size limits. The grid is the only algorithm that
// must never reject a graph.
func (a *Algorithm) Capabilities() layout.Capabilities {
	return layout.Capabilities{Deterministic: true}
}

func (a *Algorithm) CanHandle(g *graph.Graph) bool { return g != nil }

func (a *Algorithm) Apply(g *graph.Graph, cfg layout.Config) (layout.Positions, error) {
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "grid layout")
	}
	if g == nil || g.NodeCount() == 0 {
		return layout.Positions{}, nil
	}

	n := g.NodeCount()
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + cols - 1) / cols

	// Center the grid so its bounding box straddles the origin like the
	// force layouts do.
	offsetX := float64(cols-1) / 2 * cfg.LinkDistance
	offsetY := float64(rows-1) / 2 * cfg.LinkDistance

	pos := make(layout.Positions, n)
	for i, id := range g.NodeIDs() {
		pos[id] = layout.Point{
			X: float64(i%cols)*cfg.LinkDistance - offsetX,
			Y: float64(i/cols)*cfg.LinkDistance - offsetY,
		}
	}
	return pos, nil
}
