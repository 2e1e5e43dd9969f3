package analyze

import (
	"math"
	"slices"

	"github.com/matzehuels/forcefield/pkg/graph"
)

// Bottlenecks returns the nodes whose dependency in-degree makes them a
// convergence point for multiple paths, sorted by ID.
//
// The threshold adapts to the graph: with mean computed over nodes that have
// positive in-degree, a node is flagged when
//
//	inDegree >= min(factor·mean, ceiling)  AND  inDegree > 1
//
// The ceiling keeps dense graphs sensitive (the threshold never climbs out
// of reach) while the factor suppresses false positives in sparse ones.
func Bottlenecks(g *graph.Graph, opts Options) []string {
	opts = opts.withDefaults()
	return dependencyView(g, opts.DependencyKinds).bottlenecks(opts.BottleneckFactor, opts.BottleneckCeiling)
}

func (v *depView) bottlenecks(factor, ceiling float64) []string {
	positive := 0
	total := 0
	for _, id := range v.order {
		if d := len(v.parents[id]); d > 0 {
			positive++
			total += d
		}
	}
	if positive == 0 {
		return nil
	}

	mean := float64(total) / float64(positive)
	threshold := math.Min(factor*mean, ceiling)

	var flagged []string
	for _, id := range v.order {
		d := len(v.parents[id])
		if float64(d) >= threshold && d > 1 {
			flagged = append(flagged, id)
		}
	}
	slices.Sort(flagged)
	return flagged
}
