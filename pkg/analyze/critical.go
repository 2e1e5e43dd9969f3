package analyze

import "github.com/matzehuels/forcefield/pkg/graph"

// CriticalPath returns the longest chain of dependency-linked nodes, the
// minimum necessary completion sequence of the graph.
//
// For every node reachable from a dependency root (in-degree 0) the longest
// downstream path length is computed by memoized depth-first search; each
// node records the child that realizes its longest path. The returned path
// is reconstructed by following those best-child pointers from the root with
// the globally maximal length.
//
// Cycle edges encountered during the search are ignored (visited-set guard),
// and nodes only reachable through cycles are never visited, so the result
// is always a simple path. Ties between equally long paths resolve to the
// earlier node in insertion order. Returns nil for an empty graph.
func CriticalPath(g *graph.Graph, opts Options) []string {
	opts = opts.withDefaults()
	return dependencyView(g, opts.DependencyKinds).criticalPath()
}

func (v *depView) criticalPath() []string {
	roots := v.roots()
	if len(roots) == 0 {
		return nil
	}

	const (
		white = iota
		gray
		black
	)

	state := make(map[string]int, len(v.order))
	length := make(map[string]int, len(v.order))
	bestChild := make(map[string]string, len(v.order))

	var dfs func(id string) int
	dfs = func(id string) int {
		if state[id] == black {
			return length[id]
		}
		state[id] = gray

		best := 0
		for _, child := range v.children[id] {
			if state[child] == gray {
				continue // cycle edge
			}
			if l := dfs(child); l > best {
				best = l
				bestChild[id] = child
			}
		}

		state[id] = black
		length[id] = best + 1
		return length[id]
	}

	start := ""
	longest := 0
	for _, root := range roots {
		if l := dfs(root); l > longest {
			longest = l
			start = root
		}
	}

	path := make([]string, 0, longest)
	for id := start; id != ""; id = bestChild[id] {
		path = append(path, id)
	}
	return path
}
