package layout

import (
	"math"

	"github.com/matzehuels/forcefield/pkg/graph"
)

// Point is a node coordinate.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Positions maps node IDs to computed coordinates.
type Positions map[string]Point

// FromGraph snapshots the current coordinates of every node in g.
func FromGraph(g *graph.Graph) Positions {
	pos := make(Positions, g.NodeCount())
	for _, n := range g.Nodes() {
		pos[n.ID] = Point{X: n.X, Y: n.Y}
	}
	return pos
}

// ApplyTo writes the positions onto matching nodes of g. Nodes without
// an entry keep their current coordinates; entries for unknown IDs are
// ignored.
func (p Positions) ApplyTo(g *graph.Graph) {
	for id, pt := range p {
		if n, ok := g.Node(id); ok {
			n.X = pt.X
			n.Y = pt.Y
		}
	}
}

// Clone returns an independent copy of the position set.
func (p Positions) Clone() Positions {
	out := make(Positions, len(p))
	for id, pt := range p {
		out[id] = pt
	}
	return out
}

// Bounds returns the bounding box of the position set. An empty set
// yields a zero box.
func (p Positions) Bounds() (minX, minY, maxX, maxY float64) {
	if len(p) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, pt := range p {
		minX = math.Min(minX, pt.X)
		minY = math.Min(minY, pt.Y)
		maxX = math.Max(maxX, pt.X)
		maxY = math.Max(maxY, pt.Y)
	}
	return minX, minY, maxX, maxY
}

// Finite reports whether every coordinate is a finite number.
func (p Positions) Finite() bool {
	for _, pt := range p {
		if math.IsNaN(pt.X) || math.IsInf(pt.X, 0) || math.IsNaN(pt.Y) || math.IsInf(pt.Y, 0) {
			return false
		}
	}
	return true
}
