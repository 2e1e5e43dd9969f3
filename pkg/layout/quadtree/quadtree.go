// Package quadtree implements the Barnes-Hut spatial index used for
// approximate n-body repulsion.
//
// A [Tree] is built fresh from the current body positions every simulation
// iteration and discarded afterwards; it is never mutated in place across
// iterations. Each internal region aggregates the total mass and
// mass-weighted centroid of its descendants, so a force query can treat a
// whole distant region as a single point mass. With the opening criterion
// regionSize/distance < theta the work per query is O(log n), giving
// O(n log n) per iteration against O(n²) for the direct sum.
//
// The repulsion kernel is m_i·m_j/d² along the separation vector, returned
// unscaled; callers apply their own scaling ratio. Distances below the
// caller's floor are clamped to the floor, so coincident points yield a zero
// (finite) contribution instead of a division blow-up.
package quadtree

import "math"

// maxDepth caps subdivision so clusters of (near-)coincident points cannot
// recurse unboundedly. Regions at the cap aggregate all bodies they receive.
const maxDepth = 48

// Point is a positioned mass participating in repulsion.
type Point struct {
	X, Y, Mass float64
}

// Tree is an immutable Barnes-Hut quadtree over a set of points.
// The zero value is an empty tree; Build is the only constructor.
type Tree struct {
	root *region
}

type region struct {
	// Square spatial bounds.
	x, y, size float64

	// Aggregate mass and mass-weighted centroid of all bodies below.
	centerX, centerY float64
	mass             float64

	body           int // index of the single body if leaf, -1 otherwise
	leaf           bool
	nw, ne, sw, se *region
}

func newRegion(x, y, size float64) *region {
	return &region{x: x, y: y, size: size, leaf: true, body: -1}
}

// Build constructs a quadtree from the given points. The bounding box is
// padded by 10% and squared so quadrant subdivision stays uniform. Build
// returns an empty tree for an empty input.
func Build(pts []Point) *Tree {
	if len(pts) == 0 {
		return &Tree{}
	}

	minX, maxX := pts[0].X, pts[0].X
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	pad := math.Max(maxX-minX, maxY-minY) * 0.1
	if pad == 0 {
		pad = 1
	}
	minX -= pad
	maxX += pad
	minY -= pad
	maxY += pad

	size := math.Max(maxX-minX, maxY-minY)
	root := newRegion(minX, minY, size)
	for i, p := range pts {
		root.insert(i, p, 0)
	}
	return &Tree{root: root}
}

// TotalMass returns the aggregate mass of all inserted points.
func (t *Tree) TotalMass() float64 {
	if t.root == nil {
		return 0
	}
	return t.root.mass
}

// Centroid returns the mass-weighted centroid of all inserted points.
// For an empty tree both coordinates are 0.
func (t *Tree) Centroid() (x, y float64) {
	if t.root == nil || t.root.mass == 0 {
		return 0, 0
	}
	return t.root.centerX, t.root.centerY
}

// Repulsion returns the approximate repulsive force exerted on body i at
// point p by every other body in the tree. theta controls the accuracy/speed
// trade-off: regions satisfying size/distance < theta are treated as single
// point masses. theta = 0 disables the approximation entirely, which makes
// the result equal to the direct pairwise sum. minDist is the distance floor.
func (t *Tree) Repulsion(i int, p Point, theta, minDist float64) (fx, fy float64) {
	if t.root == nil {
		return 0, 0
	}
	return t.root.force(i, p, theta, minDist)
}

func (r *region) insert(i int, p Point, depth int) {
	if r.leaf && r.body == -1 {
		r.body = i
		r.centerX = p.X
		r.centerY = p.Y
		r.mass = p.Mass
		return
	}

	if r.leaf {
		if depth >= maxDepth {
			// Aggregate in place; the region stays a leaf holding a
			// cluster of (near-)coincident bodies.
			total := r.mass + p.Mass
			r.centerX = (r.centerX*r.mass + p.X*p.Mass) / total
			r.centerY = (r.centerY*r.mass + p.Y*p.Mass) / total
			r.mass = total
			return
		}

		old := Point{X: r.centerX, Y: r.centerY, Mass: r.mass}
		oldBody := r.body
		r.leaf = false
		r.body = -1

		half := r.size / 2
		r.nw = newRegion(r.x, r.y, half)
		r.ne = newRegion(r.x+half, r.y, half)
		r.sw = newRegion(r.x, r.y+half, half)
		r.se = newRegion(r.x+half, r.y+half, half)

		r.quadrant(old).insert(oldBody, old, depth+1)
	}

	total := r.mass + p.Mass
	r.centerX = (r.centerX*r.mass + p.X*p.Mass) / total
	r.centerY = (r.centerY*r.mass + p.Y*p.Mass) / total
	r.mass = total

	r.quadrant(p).insert(i, p, depth+1)
}

func (r *region) quadrant(p Point) *region {
	half := r.size / 2
	midX := r.x + half
	midY := r.y + half
	if p.X < midX {
		if p.Y < midY {
			return r.nw
		}
		return r.sw
	}
	if p.Y < midY {
		return r.ne
	}
	return r.se
}

func (r *region) force(i int, p Point, theta, minDist float64) (fx, fy float64) {
	if r.mass == 0 {
		return 0, 0
	}
	if r.leaf && r.body == i {
		return 0, 0
	}

	dx := p.X - r.centerX
	dy := p.Y - r.centerY
	dist := math.Sqrt(dx*dx + dy*dy)

	if r.leaf || r.size/dist < theta {
		if dist < minDist {
			dist = minDist
		}
		factor := p.Mass * r.mass / (dist * dist * dist)
		return dx * factor, dy * factor
	}

	for _, child := range []*region{r.nw, r.ne, r.sw, r.se} {
		cfx, cfy := child.force(i, p, theta, minDist)
		fx += cfx
		fy += cfy
	}
	return fx, fy
}

// DirectRepulsion returns the exact pairwise repulsive force on body i,
// computed as an O(n) sum over all other bodies. It exists for small graphs
// and as the reference the Barnes-Hut approximation is tested against.
func DirectRepulsion(pts []Point, i int, minDist float64) (fx, fy float64) {
	p := pts[i]
	for j, q := range pts {
		if j == i {
			continue
		}
		dx := p.X - q.X
		dy := p.Y - q.Y
		dist := math.Sqrt(dx*dx + dy*dy)
		if dist < minDist {
			dist = minDist
		}
		factor := p.Mass * q.Mass / (dist * dist * dist)
		fx += dx * factor
		fy += dy * factor
	}
	return fx, fy
}
