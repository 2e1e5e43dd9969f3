package graph

import (
	"errors"
	"math"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists in the graph. Node IDs must be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the Source
	// node does not exist in the graph.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the Target
	// node does not exist in the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// DefaultNodeSize is the visual radius assigned to nodes that do not declare
// one, in user units (typically pixels).
const DefaultNodeSize = 10

// Metadata stores arbitrary key-value pairs attached to nodes, edges, or the
// graph. It typically carries display attributes (color, icon, entity kind)
// that the engine passes through untouched. Metadata maps are never nil after
// AddNode - they are automatically initialized to empty maps when needed.
type Metadata map[string]any

// Node represents a vertex in the relationship graph. X and Y are the node's
// current 2-D position; layout algorithms overwrite them and leave every
// other field untouched.
//
// Physics state (velocity, accumulated force, mass) lives in the simulator,
// not on the shared model.
type Node struct {
	ID    string  `json:"id" bson:"id"`
	Label string  `json:"label,omitempty" bson:"label,omitempty"`
	X     float64 `json:"x" bson:"x"`
	Y     float64 `json:"y" bson:"y"`

	// Size is the visual radius used for collision separation and
	// rendering. Zero means DefaultNodeSize.
	Size float64 `json:"size,omitempty" bson:"size,omitempty"`

	Meta Metadata `json:"meta,omitempty" bson:"meta,omitempty"`
}

// Radius returns the node's effective visual radius.
func (n Node) Radius() float64 {
	if n.Size > 0 {
		return n.Size
	}
	return DefaultNodeSize
}

// Edge represents a directed connection between two nodes. Kind is a
// free-form relationship tag; the analyzer treats dependency-kind edges as
// DAG edges and ignores the rest. Weight scales attraction during layout and
// defaults to 1.
type Edge struct {
	ID     string  `json:"id,omitempty" bson:"id,omitempty"`
	Source string  `json:"source" bson:"source"`
	Target string  `json:"target" bson:"target"`
	Weight float64 `json:"weight,omitempty" bson:"weight,omitempty"`
	Kind   string  `json:"kind,omitempty" bson:"kind,omitempty"`
}

// Graph is a directed relationship graph with adjacency indices for fast
// degree and neighborhood queries.
//
// The zero value is not usable - use New to create a valid Graph instance.
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	nodes    map[string]*Node
	order    []string // node IDs in insertion order
	edges    []Edge
	outgoing map[string][]string // nodeID -> successor IDs
	incoming map[string][]string // nodeID -> predecessor IDs
	meta     Metadata
}

// New creates an empty Graph with optional graph-level metadata.
// The metadata parameter can be nil, in which case an empty map is created.
func New(meta Metadata) *Graph {
	if meta == nil {
		meta = Metadata{}
	}
	return &Graph{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
		meta:     meta,
	}
}

// Meta returns the graph-level metadata map.
// The returned map is never nil and can be safely modified.
func (g *Graph) Meta() Metadata { return g.meta }

// AddNode adds a node to the graph. Returns ErrInvalidNodeID if the node ID
// is empty, or ErrDuplicateNodeID if a node with the same ID already exists.
// The node's Meta field is automatically initialized to an empty map if nil.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	node := &n
	g.nodes[node.ID] = node
	g.order = append(g.order, node.ID)
	return nil
}

// AddEdge adds a directed edge between two existing nodes.
// Returns ErrUnknownSourceNode if the Source node doesn't exist, or
// ErrUnknownTargetNode if the Target node doesn't exist. A zero Weight is
// replaced with 1. Multiple edges between the same nodes are allowed.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.Source]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[e.Target]; !ok {
		return ErrUnknownTargetNode
	}
	if e.Weight == 0 {
		e.Weight = 1
	}
	g.edges = append(g.edges, e)
	g.outgoing[e.Source] = append(g.outgoing[e.Source], e.Target)
	g.incoming[e.Target] = append(g.incoming[e.Target], e.Source)
	return nil
}

// Node returns the node with the given ID and true, or nil and false if not
// found. The returned pointer refers to the actual node in the graph, so
// position updates through it affect the graph.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order. Iteration order is stable
// across calls, which keeps seeded layout runs deterministic. The returned
// slice contains pointers to the actual node structs.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		nodes = append(nodes, g.nodes[id])
	}
	return nodes
}

// NodeIDs returns all node IDs in insertion order.
func (g *Graph) NodeIDs() []string { return slices.Clone(g.order) }

// Edges returns a copy of all edges in insertion order. Modifications to the
// returned slice do not affect the graph.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Children returns the IDs of nodes this node has outgoing edges to.
// Returns nil if the node has no children or doesn't exist. The returned
// slice should not be modified - use it as a read-only view.
func (g *Graph) Children(id string) []string { return g.outgoing[id] }

// Parents returns the IDs of nodes that have edges to this node.
// Returns nil if the node has no parents or doesn't exist. The returned
// slice should not be modified - use it as a read-only view.
func (g *Graph) Parents(id string) []string { return g.incoming[id] }

// OutDegree returns the number of outgoing edges from the node.
// Returns 0 if the node doesn't exist.
func (g *Graph) OutDegree(id string) int { return len(g.outgoing[id]) }

// InDegree returns the number of incoming edges to the node.
// Returns 0 if the node doesn't exist.
func (g *Graph) InDegree(id string) int { return len(g.incoming[id]) }

// Degree returns the total number of edges incident to the node, counting
// direction-blind. A node's simulation mass is 1 + Degree.
func (g *Graph) Degree(id string) int {
	return len(g.outgoing[id]) + len(g.incoming[id])
}

// Sources returns nodes with no incoming edges, in insertion order.
// Returns nil for an empty graph.
func (g *Graph) Sources() []*Node {
	var sources []*Node
	for _, id := range g.order {
		if len(g.incoming[id]) == 0 {
			sources = append(sources, g.nodes[id])
		}
	}
	return sources
}

// Clone returns an independent copy of the graph. Node structs and their
// metadata maps are copied, so mutating positions in the clone never leaks
// into the original. Edge values are copied by the slice clone.
func (g *Graph) Clone() *Graph {
	c := New(copyMeta(g.meta))
	for _, id := range g.order {
		n := *g.nodes[id]
		n.Meta = copyMeta(n.Meta)
		c.nodes[n.ID] = &n
		c.order = append(c.order, n.ID)
	}
	c.edges = slices.Clone(g.edges)
	for id, out := range g.outgoing {
		c.outgoing[id] = slices.Clone(out)
	}
	for id, in := range g.incoming {
		c.incoming[id] = slices.Clone(in)
	}
	return c
}

// Bounds returns the axis-aligned bounding box of all node positions as
// (minX, minY, maxX, maxY). For an empty graph all four values are 0.
func (g *Graph) Bounds() (minX, minY, maxX, maxY float64) {
	if len(g.order) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, id := range g.order {
		n := g.nodes[id]
		minX = math.Min(minX, n.X)
		minY = math.Min(minY, n.Y)
		maxX = math.Max(maxX, n.X)
		maxY = math.Max(maxY, n.Y)
	}
	return minX, minY, maxX, maxY
}

// PosMap creates a position lookup map from a slice of node IDs.
// The returned map maps each ID to its index in the slice. This is commonly
// used to convert node orderings into fast position lookups for crossing
// calculations. Returns an empty map for a nil or empty slice.
func PosMap(ids []string) map[string]int {
	m := make(map[string]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}

func copyMeta(m Metadata) Metadata {
	c := make(Metadata, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
