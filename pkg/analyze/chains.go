package analyze

import "github.com/matzehuels/forcefield/pkg/graph"

// Chains returns the maximal linear dependency sequences of the graph,
// including singleton chains.
//
// Each dependency root starts a chain. The walk follows successor edges
// while the current node has exactly one child and that child has not been
// claimed by an earlier chain; it stops at branching points (more than one
// child) and at convergence (the child already belongs to another chain).
// Roots are processed in insertion order, so the result is deterministic.
func Chains(g *graph.Graph, opts Options) [][]string {
	opts = opts.withDefaults()
	return dependencyView(g, opts.DependencyKinds).chains()
}

func (v *depView) chains() [][]string {
	visited := make(map[string]bool, len(v.order))
	var chains [][]string

	for _, root := range v.roots() {
		if visited[root] {
			continue
		}
		chain := []string{root}
		visited[root] = true

		curr := root
		for {
			children := v.children[curr]
			if len(children) != 1 || visited[children[0]] {
				break
			}
			curr = children[0]
			visited[curr] = true
			chain = append(chain, curr)
		}
		chains = append(chains, chain)
	}
	return chains
}
