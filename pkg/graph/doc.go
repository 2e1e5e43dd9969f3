// Package graph defines the relationship graph model shared by the layout
// engine, the analyzer, and the serialization boundary.
//
// A [Graph] holds nodes with 2-D positions and directed, optionally tagged
// edges. Construction is incremental via [Graph.AddNode] and [Graph.AddEdge];
// adjacency indices are maintained as edges are added so degree and
// neighborhood queries are O(1) lookups.
//
// Graphs are not safe for concurrent mutation. A layout run operates on its
// own [Graph.Clone] and never shares node state with other runs.
package graph
