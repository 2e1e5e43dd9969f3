package layout

import (
	"fmt"
	"math"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Worker
// =============================================================================

const (
	// DefaultIterations is the default simulation length. Interactive
	// callers keep it low; batch rendering typically raises it to 1000.
	DefaultIterations = 300

	// DefaultManyBodyStrength is the default repulsion charge used by
	// the generic force algorithm. Negative values repel.
	DefaultManyBodyStrength = -1000.0

	// DefaultScalingRatio is the default repulsion multiplier used by
	// ForceAtlas2.
	DefaultScalingRatio = 10.0

	// DefaultLinkDistance is the target rest length of an edge spring.
	DefaultLinkDistance = 150.0

	// DefaultLinkStrength is the rigidity of an edge spring in (0, 1].
	DefaultLinkStrength = 0.5

	// DefaultTheta is the Barnes-Hut accuracy parameter. Lower values
	// trade speed for accuracy; 0 degenerates to exact summation.
	DefaultTheta = 0.5

	// DefaultGravity is the strength of the centering force.
	DefaultGravity = 0.05

	// DefaultCollisionRadius is the fallback node radius used for
	// overlap prevention when a node declares no size.
	DefaultCollisionRadius = 30.0

	// DefaultEdgeWeightInfluence is the exponent applied to edge
	// weights when computing attraction.
	DefaultEdgeWeightInfluence = 1.0

	// DefaultJitterTolerance scales how much swinging the adaptive
	// speed controller tolerates before slowing the simulation down.
	DefaultJitterTolerance = 1.0

	// DefaultBatchIterations is the number of iterations run between
	// progress reports and cancellation checks on the async path.
	DefaultBatchIterations = 10

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)
)

// =============================================================================
// Config - Physics Parameters
// =============================================================================

// Config contains the physics parameters shared by the layout
// algorithms. The zero value is usable: ValidateAndSetDefaults fills
// every unset field with the documented default.
//
// Boolean fields are phrased so that false is the default behavior:
// Exact disables the Barnes-Hut approximation (off by default) and
// UniformAttraction disables outbound degree distribution (which is on
// by default).
type Config struct {
	// Algorithm names the preferred algorithm. Empty selects the first
	// capable algorithm from the fallback chain.
	Algorithm string `json:"algorithm,omitempty" toml:"algorithm,omitempty"`

	// Iterations is the number of simulation steps.
	Iterations int `json:"iterations,omitempty" toml:"iterations,omitempty"`

	// ManyBodyStrength is the repulsion charge for the generic force
	// algorithm. Negative repels, positive attracts.
	ManyBodyStrength float64 `json:"many_body_strength,omitempty" toml:"many_body_strength,omitempty"`

	// ScalingRatio is the repulsion multiplier for ForceAtlas2.
	ScalingRatio float64 `json:"scaling_ratio,omitempty" toml:"scaling_ratio,omitempty"`

	// LinkDistance is the rest length of edge springs.
	LinkDistance float64 `json:"link_distance,omitempty" toml:"link_distance,omitempty"`

	// LinkStrength is the rigidity of edge springs.
	LinkStrength float64 `json:"link_strength,omitempty" toml:"link_strength,omitempty"`

	// Exact disables the Barnes-Hut approximation and computes exact
	// pairwise repulsion.
	Exact bool `json:"exact,omitempty" toml:"exact,omitempty"`

	// Theta is the Barnes-Hut opening criterion.
	Theta float64 `json:"theta,omitempty" toml:"theta,omitempty"`

	// Gravity is the strength of the force pulling nodes toward the
	// layout center.
	Gravity float64 `json:"gravity,omitempty" toml:"gravity,omitempty"`

	// StrongGravity switches to distance-independent gravity, which
	// compacts sprawling graphs much more aggressively.
	StrongGravity bool `json:"strong_gravity,omitempty" toml:"strong_gravity,omitempty"`

	// CollisionRadius is the fallback radius for overlap prevention.
	// Negative disables the collision phase entirely.
	CollisionRadius float64 `json:"collision_radius,omitempty" toml:"collision_radius,omitempty"`

	// UniformAttraction disables outbound attraction distribution. By
	// default the attraction a node exerts along its outgoing edges is
	// divided by its mass so hubs do not collapse their neighborhoods.
	UniformAttraction bool `json:"uniform_attraction,omitempty" toml:"uniform_attraction,omitempty"`

	// LinLog switches ForceAtlas2 attraction to log(1 + d), which
	// tightens clusters.
	LinLog bool `json:"lin_log,omitempty" toml:"lin_log,omitempty"`

	// EdgeWeightInfluence is the exponent applied to edge weights in
	// the attraction phase. Zero influence treats all edges equally
	// and is requested with a negative value; 0 means default.
	EdgeWeightInfluence float64 `json:"edge_weight_influence,omitempty" toml:"edge_weight_influence,omitempty"`

	// JitterTolerance controls the adaptive speed of ForceAtlas2.
	JitterTolerance float64 `json:"jitter_tolerance,omitempty" toml:"jitter_tolerance,omitempty"`

	// BatchIterations is the async batch size between progress reports.
	BatchIterations int `json:"batch_iterations,omitempty" toml:"batch_iterations,omitempty"`

	// Seed seeds the deterministic random source used for initial
	// placement and degeneracy perturbation.
	Seed uint64 `json:"seed,omitempty" toml:"seed,omitempty"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-" toml:"-"`
}

// ValidateAndSetDefaults checks field ranges and fills unset fields
// with defaults. It is idempotent.
func (c *Config) ValidateAndSetDefaults() error {
	if c.validated {
		return nil
	}

	if c.Iterations < 0 {
		return fmt.Errorf("iterations must not be negative, got %d", c.Iterations)
	}
	if c.Theta < 0 {
		return fmt.Errorf("theta must not be negative, got %v", c.Theta)
	}
	if c.LinkDistance < 0 {
		return fmt.Errorf("link_distance must not be negative, got %v", c.LinkDistance)
	}
	if c.LinkStrength < 0 || c.LinkStrength > 1 {
		return fmt.Errorf("link_strength must be in [0, 1], got %v", c.LinkStrength)
	}
	if c.BatchIterations < 0 {
		return fmt.Errorf("batch_iterations must not be negative, got %d", c.BatchIterations)
	}
	for name, v := range map[string]float64{
		"many_body_strength": c.ManyBodyStrength,
		"scaling_ratio":      c.ScalingRatio,
		"gravity":            c.Gravity,
		"collision_radius":   c.CollisionRadius,
		"jitter_tolerance":   c.JitterTolerance,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be a finite number", name)
		}
	}

	if c.Iterations == 0 {
		c.Iterations = DefaultIterations
	}
	if c.ManyBodyStrength == 0 {
		c.ManyBodyStrength = DefaultManyBodyStrength
	}
	if c.ScalingRatio == 0 {
		c.ScalingRatio = DefaultScalingRatio
	}
	if c.LinkDistance == 0 {
		c.LinkDistance = DefaultLinkDistance
	}
	if c.LinkStrength == 0 {
		c.LinkStrength = DefaultLinkStrength
	}
	if c.Theta == 0 {
		c.Theta = DefaultTheta
	}
	if c.Gravity == 0 {
		c.Gravity = DefaultGravity
	}
	if c.CollisionRadius == 0 {
		c.CollisionRadius = DefaultCollisionRadius
	}
	if c.EdgeWeightInfluence == 0 {
		c.EdgeWeightInfluence = DefaultEdgeWeightInfluence
	} else if c.EdgeWeightInfluence < 0 {
		c.EdgeWeightInfluence = 0
	}
	if c.JitterTolerance == 0 {
		c.JitterTolerance = DefaultJitterTolerance
	}
	if c.BatchIterations == 0 {
		c.BatchIterations = DefaultBatchIterations
	}
	if c.Seed == 0 {
		c.Seed = DefaultSeed
	}

	c.validated = true
	return nil
}
