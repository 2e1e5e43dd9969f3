package quadtree

import (
	"math"
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

const testMinDist = 1e-2

func scatter(n int, seed int64) []Point {
	rng := rand.New(rand.NewSource(seed))
	pts := make([]Point, n)
	for i := range pts {
		pts[i] = Point{
			X:    rng.Float64()*2000 - 1000,
			Y:    rng.Float64()*2000 - 1000,
			Mass: 1 + rng.Float64()*9,
		}
	}
	return pts
}

func TestBuildAggregates(t *testing.T) {
	pts := []Point{
		{X: 0, Y: 0, Mass: 1},
		{X: 100, Y: 0, Mass: 3},
		{X: 0, Y: 100, Mass: 2},
		{X: 100, Y: 100, Mass: 4},
	}

	tree := Build(pts)
	if got := tree.TotalMass(); got != 10 {
		t.Errorf("TotalMass = %v, want 10", got)
	}

	// Mass-weighted centroid: x = (0+300+0+400)/10, y = (0+0+200+400)/10.
	cx, cy := tree.Centroid()
	if math.Abs(cx-70) > 1e-9 || math.Abs(cy-60) > 1e-9 {
		t.Errorf("Centroid = (%v, %v), want (70, 60)", cx, cy)
	}
}

func TestBuildEmpty(t *testing.T) {
	tree := Build(nil)
	if tree.TotalMass() != 0 {
		t.Errorf("TotalMass = %v, want 0", tree.TotalMass())
	}
	fx, fy := tree.Repulsion(0, Point{Mass: 1}, 0.5, testMinDist)
	if fx != 0 || fy != 0 {
		t.Errorf("Repulsion on empty tree = (%v, %v), want (0, 0)", fx, fy)
	}
}

func TestSingleBodyNoSelfForce(t *testing.T) {
	pts := []Point{{X: 5, Y: 5, Mass: 3}}
	tree := Build(pts)
	fx, fy := tree.Repulsion(0, pts[0], 0.5, testMinDist)
	if fx != 0 || fy != 0 {
		t.Errorf("self force = (%v, %v), want (0, 0)", fx, fy)
	}
}

func TestThetaZeroMatchesDirect(t *testing.T) {
	pts := scatter(200, 7)
	tree := Build(pts)

	for i := range pts {
		bx, by := tree.Repulsion(i, pts[i], 0, testMinDist)
		dx, dy := DirectRepulsion(pts, i, testMinDist)
		if !closeEnough(bx, dx) || !closeEnough(by, dy) {
			t.Fatalf("body %d: theta=0 force (%v, %v) != direct (%v, %v)", i, bx, by, dx, dy)
		}
	}
}

func TestThetaAccuracyImproves(t *testing.T) {
	pts := scatter(300, 42)
	tree := Build(pts)

	coarse := approximationError(tree, pts, 0.9)
	fine := approximationError(tree, pts, 0.3)

	if fine > coarse {
		t.Errorf("mean relative error at theta=0.3 (%v) should not exceed theta=0.9 (%v)", fine, coarse)
	}
	if fine > 0.05 {
		t.Errorf("mean relative error at theta=0.3 = %v, want < 0.05", fine)
	}
}

// approximationError returns the mean relative deviation of Barnes-Hut forces
// from the direct sum across all bodies.
func approximationError(tree *Tree, pts []Point, theta float64) float64 {
	var total float64
	for i := range pts {
		bx, by := tree.Repulsion(i, pts[i], theta, testMinDist)
		dx, dy := DirectRepulsion(pts, i, testMinDist)
		exact := math.Hypot(dx, dy)
		if exact == 0 {
			continue
		}
		total += math.Hypot(bx-dx, by-dy) / exact
	}
	return total / float64(len(pts))
}

func TestCoincidentPointsFinite(t *testing.T) {
	pts := []Point{
		{X: 10, Y: 10, Mass: 2},
		{X: 10, Y: 10, Mass: 5},
		{X: 50, Y: 50, Mass: 1},
	}

	tree := Build(pts)
	for i := range pts {
		fx, fy := tree.Repulsion(i, pts[i], 0.5, testMinDist)
		if math.IsNaN(fx) || math.IsNaN(fy) || math.IsInf(fx, 0) || math.IsInf(fy, 0) {
			t.Errorf("body %d: force (%v, %v) is not finite", i, fx, fy)
		}
		dfx, dfy := DirectRepulsion(pts, i, testMinDist)
		if math.IsNaN(dfx) || math.IsNaN(dfy) || math.IsInf(dfx, 0) || math.IsInf(dfy, 0) {
			t.Errorf("body %d: direct force (%v, %v) is not finite", i, dfx, dfy)
		}
	}
}

func TestMinDistanceClamp(t *testing.T) {
	// Two bodies closer than the floor: the force must equal the force at
	// exactly the floor distance, not blow up beyond it.
	near := []Point{{X: 0, Y: 0, Mass: 1}, {X: 1e-4, Y: 0, Mass: 1}}
	fx, _ := DirectRepulsion(near, 0, testMinDist)

	wantMag := 1e-4 * 1.0 * 1.0 / (testMinDist * testMinDist * testMinDist)
	if math.Abs(math.Abs(fx)-wantMag) > wantMag*1e-9 {
		t.Errorf("clamped force = %v, want magnitude %v", fx, wantMag)
	}
}

func TestBarnesHutConvergesToDirect(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30

	properties := gopter.NewProperties(parameters)

	properties.Property("theta->0 agrees with the direct sum", prop.ForAll(
		func(seed int64, n int) bool {
			pts := scatter(n, seed)
			tree := Build(pts)
			for i := range pts {
				bx, by := tree.Repulsion(i, pts[i], 0.001, testMinDist)
				dx, dy := DirectRepulsion(pts, i, testMinDist)
				if !closeEnough(bx, dx) || !closeEnough(by, dy) {
					return false
				}
			}
			return true
		},
		gen.Int64(),
		gen.IntRange(2, 150),
	))

	properties.Property("forces are always finite", prop.ForAll(
		func(seed int64, n int, theta float64) bool {
			pts := scatter(n, seed)
			tree := Build(pts)
			for i := range pts {
				fx, fy := tree.Repulsion(i, pts[i], theta, testMinDist)
				if math.IsNaN(fx) || math.IsNaN(fy) || math.IsInf(fx, 0) || math.IsInf(fy, 0) {
					return false
				}
			}
			return true
		},
		gen.Int64(),
		gen.IntRange(1, 100),
		gen.Float64Range(0, 1.5),
	))

	properties.TestingRun(t)
}

func closeEnough(a, b float64) bool {
	diff := math.Abs(a - b)
	scale := math.Max(math.Abs(a), math.Abs(b))
	return diff <= 1e-9 || diff <= scale*1e-6
}
