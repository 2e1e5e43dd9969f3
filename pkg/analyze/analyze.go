package analyze

import (
	"strings"

	"github.com/matzehuels/forcefield/pkg/graph"
)

// Defaults for the empirically chosen analysis thresholds. They come from
// observation of real relationship graphs, not from derived invariants, which
// is why every one of them is an overridable option.
const (
	DefaultBottleneckFactor  = 2.0
	DefaultBottleneckCeiling = 2.0
	DefaultDensityDepth      = 3
	DefaultDensityEdgeBonus  = 0.1
)

// defaultDependencyKinds are the edge kinds treated as dependency edges.
// An empty Kind also counts, so plain untagged graphs analyze as pure
// dependency graphs.
var defaultDependencyKinds = []string{"dependency", "requirement", "depends_on"}

// Options control the analysis thresholds. The zero value is usable; empty
// fields fall back to the package defaults. The struct serializes to JSON
// so it can ride inside API request bodies.
type Options struct {
	// DependencyKinds lists the edge kinds (case-insensitive) the analyzer
	// treats as dependency edges. Untagged edges always count.
	DependencyKinds []string `json:"dependency_kinds,omitempty"`

	// BottleneckFactor and BottleneckCeiling define the adaptive in-degree
	// threshold min(factor·mean, ceiling). Nodes at or above the threshold
	// with in-degree above 1 are flagged.
	BottleneckFactor  float64 `json:"bottleneck_factor,omitempty"`
	BottleneckCeiling float64 `json:"bottleneck_ceiling,omitempty"`

	// DensityDepth bounds the BFS used for the interaction-density score.
	DensityDepth int `json:"density_depth,omitempty"`

	// DensityEdgeBonus is the score bonus per direct edge to the focal node.
	DensityEdgeBonus float64 `json:"density_edge_bonus,omitempty"`

	// Center is the focal node for the density score. Empty selects the
	// highest-degree node (ties broken by insertion order).
	Center string `json:"center,omitempty"`
}

func (o Options) withDefaults() Options {
	if len(o.DependencyKinds) == 0 {
		o.DependencyKinds = defaultDependencyKinds
	}
	if o.BottleneckFactor == 0 {
		o.BottleneckFactor = DefaultBottleneckFactor
	}
	if o.BottleneckCeiling == 0 {
		o.BottleneckCeiling = DefaultBottleneckCeiling
	}
	if o.DensityDepth == 0 {
		o.DensityDepth = DefaultDensityDepth
	}
	if o.DensityEdgeBonus == 0 {
		o.DensityEdgeBonus = DefaultDensityEdgeBonus
	}
	return o
}

// Result is the combined output of one analysis pass.
//
// Slices are sorted (Bottlenecks, CycleNodes) or deterministic by
// construction (CriticalPath, Chains), so marshaling the same graph twice
// yields byte-identical documents.
type Result struct {
	CriticalPath []string           `json:"critical_path" bson:"critical_path"`
	Bottlenecks  []string           `json:"bottlenecks" bson:"bottlenecks"`
	Levels       map[string]int     `json:"levels" bson:"levels"`
	Chains       [][]string         `json:"chains" bson:"chains"`
	Density      map[string]float64 `json:"density" bson:"density"`

	// CycleNodes lists nodes excluded from the level map because they sit
	// on a dependency cycle or downstream of one.
	CycleNodes []string `json:"cycle_nodes,omitempty" bson:"cycle_nodes,omitempty"`

	// Center is the focal node the density score was computed around.
	Center string `json:"center,omitempty" bson:"center,omitempty"`
}

// Analyze runs every analyzer over the graph with the given options and
// returns the combined result. An empty graph yields an empty result.
func Analyze(g *graph.Graph, opts Options) Result {
	opts = opts.withDefaults()
	if g == nil || g.NodeCount() == 0 {
		return Result{}
	}

	view := dependencyView(g, opts.DependencyKinds)
	levels, cycleNodes := view.levels()
	center := opts.Center
	if _, ok := g.Node(center); !ok {
		center = DefaultCenter(g)
	}

	return Result{
		CriticalPath: view.criticalPath(),
		Bottlenecks:  view.bottlenecks(opts.BottleneckFactor, opts.BottleneckCeiling),
		Levels:       levels,
		Chains:       view.chains(),
		Density:      Density(g, center, opts.DensityDepth, opts.DensityEdgeBonus),
		CycleNodes:   cycleNodes,
		Center:       center,
	}
}

// DefaultCenter picks the highest-degree node, breaking ties by insertion
// order. Returns "" for an empty graph. Radial layouts use the same node as
// their ring origin so layout and analysis agree on what the hub is.
func DefaultCenter(g *graph.Graph) string {
	best := ""
	bestDegree := -1
	for _, id := range g.NodeIDs() {
		if d := g.Degree(id); d > bestDegree {
			best, bestDegree = id, d
		}
	}
	return best
}

// depView is the dependency-filtered adjacency the DAG algorithms run on.
// Iteration order follows the graph's node insertion order throughout, which
// is what makes the analyzers deterministic.
type depView struct {
	order    []string
	children map[string][]string
	parents  map[string][]string
}

func dependencyView(g *graph.Graph, kinds []string) *depView {
	included := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		included[strings.ToLower(k)] = true
	}

	v := &depView{
		order:    g.NodeIDs(),
		children: make(map[string][]string),
		parents:  make(map[string][]string),
	}
	for _, e := range g.Edges() {
		if e.Kind != "" && !included[strings.ToLower(e.Kind)] {
			continue
		}
		v.children[e.Source] = append(v.children[e.Source], e.Target)
		v.parents[e.Target] = append(v.parents[e.Target], e.Source)
	}
	return v
}

// roots returns nodes with dependency in-degree zero, in insertion order.
func (v *depView) roots() []string {
	var roots []string
	for _, id := range v.order {
		if len(v.parents[id]) == 0 {
			roots = append(roots, id)
		}
	}
	return roots
}
