package analyze

import (
	"maps"
	"slices"

	"github.com/matzehuels/forcefield/pkg/graph"
)

// LevelCrossings returns the total number of edge crossings for the given
// per-level orderings. It sums the crossings between each pair of
// consecutive levels; levels without entries in the map are treated as
// empty. This is the quality signal hierarchical layouts are judged by.
func LevelCrossings(g *graph.Graph, orders map[int][]string) int {
	levels := slices.Sorted(maps.Keys(orders))
	crossings := 0
	for i := 0; i < len(levels)-1; i++ {
		l := levels[i]
		crossings += CountLayerCrossings(g, orders[l], orders[l+1])
	}
	return crossings
}

// CountLayerCrossings counts edge crossings between two adjacent ordered
// levels using a Fenwick tree for O(E log V) performance, where E is the
// number of edges between the levels and V is the size of the lower level.
//
// Two edges (u1,v1) and (u2,v2) cross if and only if
//
//	pos(u1) < pos(u2) AND pos(v1) > pos(v2)
//
// which makes the count equal to the number of inversions in the sequence of
// target positions once edges are sorted by source position. Edges whose
// target is not in the lower level are ignored. Returns 0 if either level is
// empty.
func CountLayerCrossings(g *graph.Graph, upper, lower []string) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}

	lowerPos := graph.PosMap(lower)

	type edge struct{ upper, lower int }
	edges := make([]edge, 0, len(upper)*2)
	for i, nodeID := range upper {
		for _, child := range g.Children(nodeID) {
			if pos, ok := lowerPos[child]; ok {
				edges = append(edges, edge{i, pos})
			}
		}
	}
	if len(edges) < 2 {
		return 0
	}

	slices.SortFunc(edges, func(a, b edge) int {
		if a.upper != b.upper {
			return a.upper - b.upper
		}
		return a.lower - b.lower
	})

	// Count inversions: for each edge, how many earlier edges land to its
	// right in the lower level.
	fenwick := make([]int, len(lower)+1)
	crossings, total := 0, 0
	for _, e := range edges {
		lessOrEqual := 0
		for q := e.lower + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		crossings += total - lessOrEqual

		total++
		for idx := e.lower + 1; idx < len(fenwick); idx += idx & (-idx) {
			fenwick[idx]++
		}
	}
	return crossings
}
