package analyze

import "github.com/matzehuels/forcefield/pkg/graph"

// BFSLevels assigns hop-distance levels to every node from the given center,
// for radial placement. Traversal is direction-blind: both outgoing and
// incoming edges connect neighbors. Nodes unreachable from the center are
// placed one ring beyond the farthest reachable node, at maxLevel+1.
//
// An unknown center yields nil.
func BFSLevels(g *graph.Graph, center string) map[string]int {
	if _, ok := g.Node(center); !ok {
		return nil
	}

	levels := map[string]int{center: 0}
	queue := []string{center}
	maxLevel := 0

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, next := range neighbors(g, curr) {
			if _, seen := levels[next]; seen {
				continue
			}
			levels[next] = levels[curr] + 1
			if levels[next] > maxLevel {
				maxLevel = levels[next]
			}
			queue = append(queue, next)
		}
	}

	for _, id := range g.NodeIDs() {
		if _, seen := levels[id]; !seen {
			levels[id] = maxLevel + 1
		}
	}
	return levels
}

// Density computes a normalized interaction-density score in [0, 1] for
// every node within maxDepth hops of the focal node. The score combines
// inverse hop distance with a bonus proportional to the number of direct
// edges shared with the focal node:
//
//	score = min(1, 1/(1+hops) + edgeBonus·directEdges)
//
// The focal node scores 1. Nodes beyond maxDepth are absent from the map.
// An unknown focal node yields nil.
func Density(g *graph.Graph, focal string, maxDepth int, edgeBonus float64) map[string]float64 {
	if _, ok := g.Node(focal); !ok {
		return nil
	}
	if maxDepth <= 0 {
		maxDepth = DefaultDensityDepth
	}

	direct := make(map[string]int)
	for _, e := range g.Edges() {
		switch {
		case e.Source == focal:
			direct[e.Target]++
		case e.Target == focal:
			direct[e.Source]++
		}
	}

	hops := map[string]int{focal: 0}
	queue := []string{focal}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		if hops[curr] >= maxDepth {
			continue
		}
		for _, next := range neighbors(g, curr) {
			if _, seen := hops[next]; seen {
				continue
			}
			hops[next] = hops[curr] + 1
			queue = append(queue, next)
		}
	}

	scores := make(map[string]float64, len(hops))
	for id, h := range hops {
		score := 1/float64(1+h) + edgeBonus*float64(direct[id])
		if score > 1 {
			score = 1
		}
		scores[id] = score
	}
	return scores
}

// neighbors returns the direction-blind adjacency of a node in stable edge
// insertion order (children first, then parents).
func neighbors(g *graph.Graph, id string) []string {
	children := g.Children(id)
	parents := g.Parents(id)
	out := make([]string, 0, len(children)+len(parents))
	out = append(out, children...)
	out = append(out, parents...)
	return out
}
