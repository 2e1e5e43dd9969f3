package layout

import (
	"math"

	"github.com/matzehuels/forcefield/pkg/graph"
)

// Metrics summarizes the visual quality of a finished layout.
type Metrics struct {
	// EdgeCrossings counts edge pairs whose segments properly cross.
	// Pairs sharing an endpoint are not counted.
	EdgeCrossings int `json:"edge_crossings" bson:"edge_crossings"`

	// NodeOverlaps counts node pairs whose circles overlap.
	NodeOverlaps int `json:"node_overlaps" bson:"node_overlaps"`

	// AspectRatio is the longer bounding box side over the shorter,
	// so 1 is square and large values are elongated.
	AspectRatio float64 `json:"aspect_ratio" bson:"aspect_ratio"`

	// Symmetry scores point symmetry about the centroid in [0, 1],
	// where 1 means every node has a mirror partner.
	Symmetry float64 `json:"symmetry" bson:"symmetry"`

	// EdgeLengthVariance is the population variance of edge lengths.
	EdgeLengthVariance float64 `json:"edge_length_variance" bson:"edge_length_variance"`
}

// Quality computes layout quality metrics for g under pos. Nodes absent
// from pos fall back to the coordinates stored on the graph; edges with
// an unresolvable endpoint are skipped.
func Quality(g *graph.Graph, pos Positions) Metrics {
	if g == nil || g.NodeCount() == 0 {
		return Metrics{AspectRatio: 1, Symmetry: 1}
	}

	nodes := g.Nodes()
	pts := make([]Point, len(nodes))
	radii := make([]float64, len(nodes))
	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		pt := Point{X: n.X, Y: n.Y}
		if p, ok := pos[n.ID]; ok {
			pt = p
		}
		pts[i] = pt
		radii[i] = n.Radius()
		index[n.ID] = i
	}

	return Metrics{
		EdgeCrossings:      edgeCrossings(g, pts, index),
		NodeOverlaps:       nodeOverlaps(pts, radii),
		AspectRatio:        aspectRatio(pts),
		Symmetry:           symmetry(pts),
		EdgeLengthVariance: edgeLengthVariance(g, pts, index),
	}
}

func edgeCrossings(g *graph.Graph, pts []Point, index map[string]int) int {
	type seg struct {
		a, b                   Point
		ai, bi                 int
		minX, minY, maxX, maxY float64
	}
	var segs []seg
	for _, e := range g.Edges() {
		ai, ok := index[e.Source]
		if !ok {
			continue
		}
		bi, ok := index[e.Target]
		if !ok {
			continue
		}
		a, b := pts[ai], pts[bi]
		segs = append(segs, seg{
			a: a, b: b, ai: ai, bi: bi,
			minX: math.Min(a.X, b.X), minY: math.Min(a.Y, b.Y),
			maxX: math.Max(a.X, b.X), maxY: math.Max(a.Y, b.Y),
		})
	}

	count := 0
	for i := 0; i < len(segs); i++ {
		for j := i + 1; j < len(segs); j++ {
			s, t := segs[i], segs[j]
			if s.ai == t.ai || s.ai == t.bi || s.bi == t.ai || s.bi == t.bi {
				continue
			}
			// Bounding-box prefilter before the orientation tests.
			if s.maxX < t.minX || t.maxX < s.minX || s.maxY < t.minY || t.maxY < s.minY {
				continue
			}
			if segmentsCross(s.a, s.b, t.a, t.b) {
				count++
			}
		}
	}
	return count
}

// segmentsCross reports whether segments ab and cd properly intersect.
// Touching endpoints and collinear overlap do not count.
func segmentsCross(a, b, c, d Point) bool {
	d1 := orient(c, d, a)
	d2 := orient(c, d, b)
	d3 := orient(a, b, c)
	d4 := orient(a, b, d)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

func orient(a, b, p Point) float64 {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}

func nodeOverlaps(pts []Point, radii []float64) int {
	count := 0
	for i := 0; i < len(pts); i++ {
		for j := i + 1; j < len(pts); j++ {
			if math.Hypot(pts[j].X-pts[i].X, pts[j].Y-pts[i].Y) < radii[i]+radii[j] {
				count++
			}
		}
	}
	return count
}

func aspectRatio(pts []Point) float64 {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	w, h := maxX-minX, maxY-minY
	longer, shorter := math.Max(w, h), math.Min(w, h)
	if longer == 0 {
		return 1
	}
	// Collinear layouts would divide by zero; floor the short side at
	// one user unit so the ratio stays finite and JSON-encodable.
	return longer / math.Max(shorter, 1)
}

// symmetry reflects every point through the centroid and measures how
// close each reflection lands to an actual point, normalized by half
// the bounding box diagonal.
func symmetry(pts []Point) float64 {
	n := len(pts)
	if n < 2 {
		return 1
	}

	var cx, cy float64
	for _, p := range pts {
		cx += p.X
		cy += p.Y
	}
	cx /= float64(n)
	cy /= float64(n)

	minX, minY, maxX, maxY := math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	diag := math.Hypot(maxX-minX, maxY-minY)
	if diag == 0 {
		return 1
	}

	var sum float64
	for _, p := range pts {
		mx, my := 2*cx-p.X, 2*cy-p.Y
		best := math.Inf(1)
		for _, q := range pts {
			if d := math.Hypot(q.X-mx, q.Y-my); d < best {
				best = d
			}
		}
		sum += best
	}
	err := sum / float64(n) / (diag / 2)
	return 1 - math.Min(1, err)
}

func edgeLengthVariance(g *graph.Graph, pts []Point, index map[string]int) float64 {
	var lengths []float64
	for _, e := range g.Edges() {
		ai, ok := index[e.Source]
		if !ok {
			continue
		}
		bi, ok := index[e.Target]
		if !ok {
			continue
		}
		lengths = append(lengths, math.Hypot(pts[bi].X-pts[ai].X, pts[bi].Y-pts[ai].Y))
	}
	if len(lengths) == 0 {
		return 0
	}

	var mean float64
	for _, l := range lengths {
		mean += l
	}
	mean /= float64(len(lengths))

	var variance float64
	for _, l := range lengths {
		variance += (l - mean) * (l - mean)
	}
	return variance / float64(len(lengths))
}
