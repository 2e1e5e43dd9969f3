package force

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/matzehuels/forcefield/pkg/graph"
	"github.com/matzehuels/forcefield/pkg/layout"
	"github.com/matzehuels/forcefield/pkg/layout/quadtree"
)

// Engine constants shared by every force-directed algorithm.
const (
	// MinDistance floors pairwise distances before any division.
	MinDistance = 1e-2

	// VelocityDecay damps velocities once per integration step.
	VelocityDecay = 0.9

	// speedFactor and maxSpeedFactor bound the per-node displacement
	// derived from the swinging-damped speed controller.
	speedFactor    = 0.1
	maxSpeedFactor = 10.0

	// manyBodyDivisor maps the d3-style charge scale onto the kernel
	// scale: ManyBodyStrength -1000 and ScalingRatio 10 drive the
	// repulsion kernel identically.
	manyBodyDivisor = 100.0

	// speedStep caps how much the adaptive global speed may grow in
	// one iteration.
	speedStep = 0.5

	// minGlobalSpeed keeps the adaptive controller from stalling.
	minGlobalSpeed = 0.01
)

// AttractionKind selects the attraction model applied per edge.
type AttractionKind int

const (
	// AttractionSpring pulls edge endpoints toward LinkDistance.
	AttractionSpring AttractionKind = iota
	// AttractionLinear pulls proportionally to distance.
	AttractionLinear
	// AttractionLinLog pulls proportionally to log(1 + distance).
	AttractionLinLog
)

// Tuning selects the simulator variant an algorithm runs.
type Tuning struct {
	// Attraction is the per-edge attraction model.
	Attraction AttractionKind

	// RepulsionScale multiplies the m_i·m_j/d² repulsion kernel.
	RepulsionScale float64

	// HubDegree and HubMultiplier boost repulsion for nodes whose
	// degree exceeds HubDegree. Zero HubDegree disables boosting.
	HubDegree     int
	HubMultiplier float64

	// AdaptiveSpeed enables the global swinging/traction speed
	// controller. When false the global speed is fixed at 1.
	AdaptiveSpeed bool
}

// Simulator advances a force-directed layout one iteration at a time.
// It is not safe for concurrent use; each run builds its own.
type Simulator struct {
	cfg    layout.Config
	tuning Tuning

	bodies  []body
	springs []spring
	rng     *rng

	globalSpeed float64
}

// NewSimulator prepares the physics state for one run. cfg must
// already be validated. Initial placement, including recovery from
// degenerate geometry, happens here.
func NewSimulator(g *graph.Graph, cfg layout.Config, tuning Tuning) *Simulator {
	s := &Simulator{
		cfg:         cfg,
		tuning:      tuning,
		rng:         newRNG(cfg.Seed),
		globalSpeed: 1,
	}
	var index map[string]int
	s.bodies, index = buildBodies(g, tuning)
	s.springs = buildSprings(g, index, cfg.EdgeWeightInfluence)
	s.place()
	return s
}

// Positions snapshots the current node coordinates.
func (s *Simulator) Positions() layout.Positions {
	return positionsOf(s.bodies)
}

// Run executes the configured iteration count in batches, reporting
// progress and checking for cancellation between batches. A canceled
// run returns the positions of the last completed batch together with
// layout.ErrCanceled.
func (s *Simulator) Run(ctx context.Context, progress layout.ProgressFunc) (layout.Positions, error) {
	total := s.cfg.Iterations
	batch := s.cfg.BatchIterations
	if batch <= 0 {
		batch = layout.DefaultBatchIterations
	}

	start := time.Now()
	for done := 0; done < total; {
		select {
		case <-ctx.Done():
			return s.Positions(), layout.ErrCanceled
		default:
		}

		n := batch
		if rest := total - done; rest < n {
			n = rest
		}
		for i := 0; i < n; i++ {
			s.Step()
		}
		done += n

		if progress != nil {
			progress(layout.Progress{
				Percent:   float64(done) / float64(total) * 100,
				Message:   fmt.Sprintf("iteration %d/%d", done, total),
				ETAMillis: etaMillis(start, done, total),
			})
		}
	}
	return s.Positions(), nil
}

func etaMillis(start time.Time, done, total int) int64 {
	if done == 0 || done >= total {
		return 0
	}
	elapsed := time.Since(start)
	remaining := time.Duration(float64(elapsed) * float64(total-done) / float64(done))
	return remaining.Milliseconds()
}

// Step runs one full iteration of the force pipeline: zero forces,
// repulsion, attraction, gravity, collision, then integration.
func (s *Simulator) Step() {
	if len(s.bodies) == 0 {
		return
	}
	s.zeroForces()
	s.applyRepulsion()
	s.applyAttraction()
	s.applyGravity()
	s.applyCollision()
	s.integrate()
}

func (s *Simulator) zeroForces() {
	for i := range s.bodies {
		s.bodies[i].fx = 0
		s.bodies[i].fy = 0
	}
}

// applyRepulsion accumulates many-body repulsion, either through a
// quadtree built fresh from the current positions or by exact pairwise
// summation when Exact is set.
func (s *Simulator) applyRepulsion() {
	pts := make([]quadtree.Point, len(s.bodies))
	for i := range s.bodies {
		pts[i] = quadtree.Point{X: s.bodies[i].x, Y: s.bodies[i].y, Mass: s.bodies[i].repMass}
	}
	scale := s.tuning.RepulsionScale

	if s.cfg.Exact {
		for i := range s.bodies {
			fx, fy := quadtree.DirectRepulsion(pts, i, MinDistance)
			s.bodies[i].fx += scale * fx
			s.bodies[i].fy += scale * fy
		}
		return
	}

	tree := quadtree.Build(pts)
	for i := range s.bodies {
		fx, fy := tree.Repulsion(i, pts[i], s.cfg.Theta, MinDistance)
		s.bodies[i].fx += scale * fx
		s.bodies[i].fy += scale * fy
	}
}

func (s *Simulator) applyAttraction() {
	for _, sp := range s.springs {
		a := &s.bodies[sp.a]
		b := &s.bodies[sp.b]
		dx := b.x - a.x
		dy := b.y - a.y
		dist := math.Hypot(dx, dy)
		if dist < MinDistance {
			dist = MinDistance
		}

		var magnitude float64
		switch s.tuning.Attraction {
		case AttractionLinear:
			magnitude = dist
		case AttractionLinLog:
			magnitude = math.Log1p(dist)
		default:
			magnitude = dist - s.cfg.LinkDistance
		}

		factor := s.cfg.LinkStrength * sp.weight * magnitude
		if !s.cfg.UniformAttraction {
			// Outbound distribution: a hub's pull is divided across
			// its edges via the source mass.
			factor /= a.mass
		}
		fx := dx / dist * factor
		fy := dy / dist * factor
		a.fx += fx
		a.fy += fy
		b.fx -= fx
		b.fy -= fy
	}
}

// applyGravity pulls every body toward the mass-weighted centroid.
// Weak gravity fades with distance; strong gravity is constant.
func (s *Simulator) applyGravity() {
	if s.cfg.Gravity == 0 {
		return
	}

	var cx, cy, total float64
	for i := range s.bodies {
		cx += s.bodies[i].x * s.bodies[i].mass
		cy += s.bodies[i].y * s.bodies[i].mass
		total += s.bodies[i].mass
	}
	cx /= total
	cy /= total

	for i := range s.bodies {
		b := &s.bodies[i]
		dx := cx - b.x
		dy := cy - b.y
		dist := math.Hypot(dx, dy)
		if dist < MinDistance {
			continue
		}
		strength := s.cfg.Gravity * b.mass
		if !s.cfg.StrongGravity {
			strength /= dist
		}
		b.fx += dx / dist * strength
		b.fy += dy / dist * strength
	}
}

// applyCollision pushes overlapping pairs apart with a force
// proportional to the overlap. The effective radius of a body is at
// least CollisionRadius.
func (s *Simulator) applyCollision() {
	if s.cfg.CollisionRadius <= 0 {
		return
	}

	for i := range s.bodies {
		a := &s.bodies[i]
		ra := math.Max(a.radius, s.cfg.CollisionRadius)
		for j := i + 1; j < len(s.bodies); j++ {
			b := &s.bodies[j]
			rb := math.Max(b.radius, s.cfg.CollisionRadius)

			dx := b.x - a.x
			dy := b.y - a.y
			dist := math.Hypot(dx, dy)
			overlap := ra + rb - dist
			if overlap <= 0 {
				continue
			}
			if dist < MinDistance {
				// Coincident pair: separate along a seeded direction.
				angle := s.rng.float64() * 2 * math.Pi
				dx, dy = math.Cos(angle), math.Sin(angle)
				dist = 1
			}
			push := overlap / 2
			fx := dx / dist * push
			fy := dy / dist * push
			a.fx -= fx
			a.fy -= fy
			b.fx += fx
			b.fy += fy
		}
	}
}

// integrate applies the swinging-damped speed update: bodies whose
// force direction flips against their velocity move less, then
// velocity and position advance with a uniform decay.
func (s *Simulator) integrate() {
	if s.tuning.AdaptiveSpeed {
		s.updateGlobalSpeed()
	}

	for i := range s.bodies {
		b := &s.bodies[i]
		swinging := math.Hypot(b.fx-b.vx, b.fy-b.vy)
		factor := speedFactor * s.globalSpeed / (1 + s.globalSpeed*math.Sqrt(swinging))
		if norm := math.Hypot(b.fx, b.fy); norm > 0 {
			factor = math.Min(factor, maxSpeedFactor/norm)
		}

		b.vx = (b.vx + b.fx*factor) * VelocityDecay
		b.vy = (b.vy + b.fy*factor) * VelocityDecay
		b.x += b.vx
		b.y += b.vy
	}
}

// updateGlobalSpeed is the ForceAtlas2 adaptive controller: the ratio
// of total traction to total swinging sets the target speed, stepped
// toward by at most speedStep per iteration and floored at
// minGlobalSpeed.
func (s *Simulator) updateGlobalSpeed() {
	var swinging, traction float64
	for i := range s.bodies {
		b := &s.bodies[i]
		swinging += b.mass * math.Hypot(b.fx-b.vx, b.fy-b.vy)
		traction += b.mass * math.Hypot(b.fx+b.vx, b.fy+b.vy) / 2
	}
	if swinging < 1e-12 {
		swinging = 1e-12
	}

	target := s.cfg.JitterTolerance * s.cfg.JitterTolerance * traction / swinging
	if limit := s.globalSpeed * (1 + speedStep); target > limit {
		target = limit
	}
	s.globalSpeed = math.Max(target, minGlobalSpeed)
}
