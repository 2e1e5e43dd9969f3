package analyze

import (
	"slices"

	"github.com/matzehuels/forcefield/pkg/graph"
)

// Levels assigns every node its topological level over dependency edges
// using Kahn's algorithm: dependency roots (in-degree 0) sit at level 0 and
// each node lands at one plus the maximum level of its predecessors. The
// second return value lists the nodes that could not be leveled, sorted by
// ID: every node on a dependency cycle, plus every node downstream of one.
//
// For all dependency edges u→v between leveled nodes, level(v) > level(u).
//
// # Algorithm
//
//  1. Initialize all roots (dependency in-degree 0) at level 0 and enqueue
//  2. Process queue: raise each child to max(child, current+1)
//  3. Decrement in-degree counters; enqueue nodes reaching zero
//  4. Nodes never dequeued are cycle-bound and excluded from the level map
//
// Time complexity is O(V + E).
func Levels(g *graph.Graph, opts Options) (map[string]int, []string) {
	opts = opts.withDefaults()
	return dependencyView(g, opts.DependencyKinds).levels()
}

func (v *depView) levels() (map[string]int, []string) {
	inDegree := make(map[string]int, len(v.order))
	levels := make(map[string]int, len(v.order))
	queue := make([]string, 0, len(v.order))

	for _, id := range v.order {
		degree := len(v.parents[id])
		inDegree[id] = degree
		if degree == 0 {
			levels[id] = 0
			queue = append(queue, id)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range v.children[curr] {
			if level := levels[curr] + 1; level > levels[child] {
				levels[child] = level
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	var cycleBound []string
	for _, id := range v.order {
		if inDegree[id] > 0 {
			delete(levels, id)
			cycleBound = append(cycleBound, id)
		}
	}
	slices.Sort(cycleBound)
	return levels, cycleBound
}
