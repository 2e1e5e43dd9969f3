package force

import (
	"math"

	"github.com/matzehuels/forcefield/pkg/graph"
	"github.com/matzehuels/forcefield/pkg/layout"
)

// body is the physics state of one node. Each run owns its body slice
// exclusively; the input graph is never written during simulation.
type body struct {
	id     string
	x, y   float64
	vx, vy float64
	fx, fy float64

	// mass is degree + 1. repMass is the mass used for repulsion,
	// boosted for hubs when hub handling is enabled.
	mass    float64
	repMass float64
	radius  float64
}

// spring is a prepared attraction edge. weight already includes the
// edge-weight-influence exponent.
type spring struct {
	a, b   int
	weight float64
}

func buildBodies(g *graph.Graph, tuning Tuning) ([]body, map[string]int) {
	nodes := g.Nodes()
	bodies := make([]body, len(nodes))
	index := make(map[string]int, len(nodes))

	for i, n := range nodes {
		mass := float64(g.Degree(n.ID) + 1)
		rep := mass
		if tuning.HubDegree > 0 && g.Degree(n.ID) > tuning.HubDegree {
			rep *= tuning.HubMultiplier
		}
		bodies[i] = body{
			id:      n.ID,
			x:       n.X,
			y:       n.Y,
			mass:    mass,
			repMass: rep,
			radius:  n.Radius(),
		}
		index[n.ID] = i
	}
	return bodies, index
}

func buildSprings(g *graph.Graph, index map[string]int, influence float64) []spring {
	var springs []spring
	for _, e := range g.Edges() {
		a, ok := index[e.Source]
		if !ok {
			continue
		}
		b, ok := index[e.Target]
		if !ok {
			continue
		}
		if a == b {
			continue
		}
		springs = append(springs, spring{a: a, b: b, weight: math.Pow(e.Weight, influence)})
	}
	return springs
}

func positionsOf(bodies []body) layout.Positions {
	pos := make(layout.Positions, len(bodies))
	for i := range bodies {
		pos[bodies[i].id] = layout.Point{X: bodies[i].x, Y: bodies[i].y}
	}
	return pos
}
