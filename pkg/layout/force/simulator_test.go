package force

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/matzehuels/forcefield/pkg/graph"
	"github.com/matzehuels/forcefield/pkg/layout"
)

func validConfig(t *testing.T, cfg layout.Config) layout.Config {
	t.Helper()
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	return cfg
}

func ringGraph(t *testing.T, n int) *graph.Graph {
	t.Helper()
	g := graph.New(nil)
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		ids[i] = string(rune('a'+i%26)) + string(rune('0'+i/26))
		if err := g.AddNode(graph.Node{ID: ids[i]}); err != nil {
			t.Fatalf("AddNode: %v", err)
		}
	}
	for i := 0; i < n; i++ {
		if err := g.AddEdge(graph.Edge{Source: ids[i], Target: ids[(i+1)%n]}); err != nil {
			t.Fatalf("AddEdge: %v", err)
		}
	}
	return g
}

func TestStepKeepsCoordinatesFinite(t *testing.T) {
	g := ringGraph(t, 40)
	sim := NewSimulator(g, validConfig(t, layout.Config{}), Tuning{
		Attraction:     AttractionLinear,
		RepulsionScale: 10,
		AdaptiveSpeed:  true,
	})

	for i := 0; i < 100; i++ {
		sim.Step()
	}
	if pos := sim.Positions(); !pos.Finite() {
		t.Error("positions not finite after 100 steps")
	}
}

func TestRunDeterministic(t *testing.T) {
	cfg := validConfig(t, layout.Config{Iterations: 60})

	first, err := New().Apply(ringGraph(t, 20), cfg)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	second, err := New().Apply(ringGraph(t, 20), cfg)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("two runs with equal input and seed differ")
	}
}

func TestSeedChangesLayout(t *testing.T) {
	base := validConfig(t, layout.Config{Iterations: 40})
	other := validConfig(t, layout.Config{Iterations: 40, Seed: 7})

	first, err := New().Apply(ringGraph(t, 12), base)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	second, err := New().Apply(ringGraph(t, 12), other)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if reflect.DeepEqual(first, second) {
		t.Error("different seeds produced identical layouts")
	}
}

func TestEmptyGraphReturnsImmediately(t *testing.T) {
	pos, err := New().Apply(graph.New(nil), layout.Config{})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(pos) != 0 {
		t.Errorf("got %d positions, want 0", len(pos))
	}
}

func TestSpringSettlesNearRestLength(t *testing.T) {
	g := graph.New(nil)
	for _, id := range []string{"a", "b"} {
		if err := g.AddNode(graph.Node{ID: id}); err != nil {
			t.Fatalf("AddNode: %v", err)
		}
	}
	if err := g.AddEdge(graph.Edge{Source: "a", Target: "b"}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	cfg := validConfig(t, layout.Config{Iterations: 1000, CollisionRadius: -1})
	pos, err := New().Apply(g, cfg)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	d := math.Hypot(pos["b"].X-pos["a"].X, pos["b"].Y-pos["a"].Y)
	if d < 100 || d > 220 {
		t.Errorf("settled distance = %v, want near rest length %v", d, cfg.LinkDistance)
	}
}

func TestExactAndTreeRepulsionAgree(t *testing.T) {
	// With theta near zero the tree path opens every region down to
	// its leaves, so a single repulsion pass must match the exact
	// pairwise sum up to summation order.
	exact := validConfig(t, layout.Config{Exact: true, Theta: 1e-12})
	tree := validConfig(t, layout.Config{Theta: 1e-12})

	a := NewSimulator(ringGraph(t, 15), exact, Tuning{RepulsionScale: 10})
	b := NewSimulator(ringGraph(t, 15), tree, Tuning{RepulsionScale: 10})

	a.zeroForces()
	a.applyRepulsion()
	b.zeroForces()
	b.applyRepulsion()

	for i := range a.bodies {
		fa, fb := a.bodies[i], b.bodies[i]
		if math.Abs(fa.fx-fb.fx) > 1e-9 || math.Abs(fa.fy-fb.fy) > 1e-9 {
			t.Fatalf("node %s force diverged: exact (%v, %v) vs tree (%v, %v)", fa.id, fa.fx, fa.fy, fb.fx, fb.fy)
		}
	}
}

func TestHubRepulsionMass(t *testing.T) {
	g := graph.New(nil)
	if err := g.AddNode(graph.Node{ID: "hub"}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	for i := 0; i < 11; i++ {
		id := string(rune('a' + i))
		if err := g.AddNode(graph.Node{ID: id}); err != nil {
			t.Fatalf("AddNode: %v", err)
		}
		if err := g.AddEdge(graph.Edge{Source: "hub", Target: id}); err != nil {
			t.Fatalf("AddEdge: %v", err)
		}
	}

	bodies, index := buildBodies(g, Tuning{HubDegree: 10, HubMultiplier: 2})
	hub := bodies[index["hub"]]
	if hub.mass != 12 {
		t.Errorf("hub mass = %v, want 12", hub.mass)
	}
	if hub.repMass != 24 {
		t.Errorf("hub repMass = %v, want 24 (boosted)", hub.repMass)
	}

	leaf := bodies[index["a"]]
	if leaf.repMass != leaf.mass {
		t.Errorf("leaf repMass = %v, want unboosted %v", leaf.repMass, leaf.mass)
	}
}

func TestDegenerateLineTriggersCircleInit(t *testing.T) {
	g := graph.New(nil)
	for i := 0; i < 10; i++ {
		id := string(rune('a' + i))
		// All nodes share y = 0: one axis has zero range.
		if err := g.AddNode(graph.Node{ID: id, X: float64(i) * 50}); err != nil {
			t.Fatalf("AddNode: %v", err)
		}
	}

	sim := NewSimulator(g, validConfig(t, layout.Config{}), Tuning{})
	_, minY, _, maxY := sim.Positions().Bounds()
	if maxY-minY < 10 {
		t.Errorf("y range = %v after init, want circular spread", maxY-minY)
	}
}

func TestCoincidentNodesAreSplit(t *testing.T) {
	g := graph.New(nil)
	nodes := []graph.Node{
		{ID: "a", X: 0, Y: 0},
		{ID: "b", X: 300, Y: 400},
		{ID: "c", X: 50, Y: 60},
		{ID: "d", X: 50, Y: 60},
	}
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			t.Fatalf("AddNode: %v", err)
		}
	}

	sim := NewSimulator(g, validConfig(t, layout.Config{}), Tuning{})
	pos := sim.Positions()
	if pos["c"] == pos["d"] {
		t.Error("coincident nodes still share coordinates after init")
	}
}

func TestRunReportsProgress(t *testing.T) {
	g := ringGraph(t, 8)
	sim := NewSimulator(g, validConfig(t, layout.Config{Iterations: 100, BatchIterations: 10}), Tuning{})

	var reports []layout.Progress
	if _, err := sim.Run(context.Background(), func(p layout.Progress) {
		reports = append(reports, p)
	}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(reports) != 10 {
		t.Fatalf("got %d progress reports, want 10", len(reports))
	}
	for i := 1; i < len(reports); i++ {
		if reports[i].Percent <= reports[i-1].Percent {
			t.Errorf("progress not monotonic: %v then %v", reports[i-1].Percent, reports[i].Percent)
		}
	}
	if last := reports[len(reports)-1]; last.Percent != 100 {
		t.Errorf("final Percent = %v, want 100", last.Percent)
	}
	if reports[0].Message == "" {
		t.Error("progress message empty")
	}
}

func TestRunCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := ringGraph(t, 8)
	sim := NewSimulator(g, validConfig(t, layout.Config{Iterations: 5000}), Tuning{})

	pos, err := sim.Run(ctx, nil)
	if !errors.Is(err, layout.ErrCanceled) {
		t.Fatalf("Run err = %v, want ErrCanceled", err)
	}
	if len(pos) != 8 {
		t.Errorf("canceled run returned %d positions, want 8", len(pos))
	}
}

func TestWeightInfluencePrecomputed(t *testing.T) {
	g := graph.New(nil)
	for _, id := range []string{"a", "b"} {
		if err := g.AddNode(graph.Node{ID: id}); err != nil {
			t.Fatalf("AddNode: %v", err)
		}
	}
	if err := g.AddEdge(graph.Edge{Source: "a", Target: "b", Weight: 4}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	_, index := buildBodies(g, Tuning{})
	springs := buildSprings(g, index, 0.5)
	if len(springs) != 1 {
		t.Fatalf("got %d springs, want 1", len(springs))
	}
	if springs[0].weight != 2 {
		t.Errorf("spring weight = %v, want 4^0.5 = 2", springs[0].weight)
	}
}
