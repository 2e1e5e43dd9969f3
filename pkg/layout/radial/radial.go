// Package radial implements a BFS ring layout around a focus node.
package radial

import (
	"math"

	"github.com/matzehuels/forcefield/pkg/analyze"
	"github.com/matzehuels/forcefield/pkg/errors"
	"github.com/matzehuels/forcefield/pkg/graph"
	"github.com/matzehuels/forcefield/pkg/layout"
)

const (
	// MaxNodes and MaxEdges bound the graphs CanHandle accepts.
	MaxNodes = 3000
	MaxEdges = 12000
)

// Algorithm places the focus node at the origin and every other node
// on a ring whose radius is its BFS hop distance times LinkDistance.
// Edge direction is ignored for the traversal; disconnected nodes land
// on one extra outermost ring.
type Algorithm struct{}

// New returns the radial layout algorithm.
func New() *Algorithm { return &Algorithm{} }

func init() { layout.Register(New()) }

func (a *Algorithm) Name() string { return "radial" }

func (a *Algorithm) Capabilities() layout.Capabilities {
	return layout.Capabilities{
		Deterministic: true,
		MaxNodes:      MaxNodes,
		MaxEdges:      MaxEdges,
	}
}

func (a *Algorithm) CanHandle(g *graph.Graph) bool {
	return g != nil && a.Capabilities().Fits(g)
}

func (a *Algorithm) Apply(g *graph.Graph, cfg layout.Config) (layout.Positions, error) {
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "radial layout")
	}
	if g == nil || g.NodeCount() == 0 {
		return layout.Positions{}, nil
	}

	center := analyze.DefaultCenter(g)
	levels := analyze.BFSLevels(g, center)

	// Rings in insertion order within each level.
	rings := map[int][]string{}
	maxLevel := 0
	for _, n := range g.Nodes() {
		lvl := levels[n.ID]
		rings[lvl] = append(rings[lvl], n.ID)
		if lvl > maxLevel {
			maxLevel = lvl
		}
	}

	pos := make(layout.Positions, g.NodeCount())
	for lvl := 0; lvl <= maxLevel; lvl++ {
		ring := rings[lvl]
		radius := float64(lvl) * cfg.LinkDistance
		for i, id := range ring {
			angle := 2 * math.Pi * float64(i) / float64(len(ring))
			pos[id] = layout.Point{
				X: radius * math.Cos(angle),
				Y: radius * math.Sin(angle),
			}
		}
	}
	return pos, nil
}
