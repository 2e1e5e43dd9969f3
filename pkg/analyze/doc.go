// Package analyze derives structural signals from a relationship graph:
// the critical dependency path, bottleneck nodes, topological levels, linear
// chains, and BFS proximity metrics around a focal node.
//
// All algorithms operate on the subgraph induced by dependency-kind edges
// (see [Options.DependencyKinds]) and are deterministic: identical graphs
// produce identical results, including slice ordering. The source graph is
// never modified.
//
// Graphs are not guaranteed acyclic. Algorithms that assume a DAG guard
// against cycles with visited sets: the critical-path walk skips back edges
// so it always terminates, and leveling excludes nodes on or downstream of a
// cycle, reporting them in [Result.CycleNodes]. [Cycles] narrows that set to
// exact membership via strongly connected components.
package analyze
