package analyze

import (
	"slices"

	"github.com/matzehuels/forcefield/pkg/graph"
)

// Cycles reports every node that lies on a dependency cycle, sorted by
// ID. Unlike the cycle-bound set returned by [Levels], nodes that are
// merely downstream of a cycle are not included: a node appears here iff
// its strongly connected component has more than one member, or it
// carries a self-edge.
func Cycles(g *graph.Graph, opts Options) []string {
	if g == nil || g.NodeCount() == 0 {
		return nil
	}
	opts = opts.withDefaults()
	return dependencyView(g, opts.DependencyKinds).cycles()
}

// cycles runs Tarjan's strongly connected components over the dependency
// edges and collects multi-node components plus self-loops.
func (v *depView) cycles() []string {
	index := make(map[string]int, len(v.order))
	low := make(map[string]int, len(v.order))
	onStack := make(map[string]bool)
	var stack []string
	next := 0

	var onCycle []string
	var connect func(id string)
	connect = func(id string) {
		index[id] = next
		low[id] = next
		next++
		stack = append(stack, id)
		onStack[id] = true

		for _, child := range v.children[id] {
			if _, seen := index[child]; !seen {
				connect(child)
				low[id] = min(low[id], low[child])
			} else if onStack[child] {
				low[id] = min(low[id], index[child])
			}
		}

		if low[id] != index[id] {
			return
		}
		// id roots a component; pop its members off the stack.
		var comp []string
		for {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[top] = false
			comp = append(comp, top)
			if top == id {
				break
			}
		}
		if len(comp) > 1 || slices.Contains(v.children[id], id) {
			onCycle = append(onCycle, comp...)
		}
	}

	for _, id := range v.order {
		if _, seen := index[id]; !seen {
			connect(id)
		}
	}

	slices.Sort(onCycle)
	return onCycle
}
