package force

import "math"

// degenerateRange scales the axis-collapse detection threshold.
const degenerateRange = 1e-4

// place validates the initial geometry. An axis range below a
// size-dependent threshold (all nodes on one line, a single point, or
// no coordinates at all) is replaced by a seeded circle distribution
// with jitter, so the simulation starts from genuine 2-D spread.
// Exactly coincident pairs are split by a small seeded offset.
func (s *Simulator) place() {
	n := len(s.bodies)
	if n == 0 {
		return
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := range s.bodies {
		minX = math.Min(minX, s.bodies[i].x)
		minY = math.Min(minY, s.bodies[i].y)
		maxX = math.Max(maxX, s.bodies[i].x)
		maxY = math.Max(maxY, s.bodies[i].y)
	}

	threshold := degenerateRange * math.Max(1, math.Sqrt(float64(n)))
	if maxX-minX < threshold || maxY-minY < threshold {
		s.placeCircle()
		return
	}
	s.splitCoincident()
}

// placeCircle distributes bodies evenly on a circle sized to the graph
// and adds jitter of ±LinkDistance/20 to every coordinate.
func (s *Simulator) placeCircle() {
	n := len(s.bodies)
	radius := s.cfg.LinkDistance * math.Sqrt(float64(n)) / 2
	jitter := s.cfg.LinkDistance / 20

	for i := range s.bodies {
		angle := 2 * math.Pi * float64(i) / float64(n)
		s.bodies[i].x = radius*math.Cos(angle) + jitter*s.rng.symmetric()
		s.bodies[i].y = radius*math.Sin(angle) + jitter*s.rng.symmetric()
	}
}

// splitCoincident nudges exact duplicates apart. The repulsion kernel
// clamps near-zero distances, but identical coordinates would leave a
// pair with no separation direction at all.
func (s *Simulator) splitCoincident() {
	seen := make(map[[2]float64]bool, len(s.bodies))
	offset := s.cfg.LinkDistance / 50

	for i := range s.bodies {
		key := [2]float64{s.bodies[i].x, s.bodies[i].y}
		for seen[key] {
			s.bodies[i].x += offset * s.rng.symmetric()
			s.bodies[i].y += offset * s.rng.symmetric()
			key = [2]float64{s.bodies[i].x, s.bodies[i].y}
		}
		seen[key] = true
	}
}
