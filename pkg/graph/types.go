package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
)

// =============================================================================
// File - Serialization Format
// =============================================================================

// File is the on-disk and over-the-wire graph document:
//
//	{
//	  "nodes": [{"id": "a"}, {"id": "b", "x": 10, "y": -4}],
//	  "edges": [{"source": "a", "target": "b", "kind": "dependency"}]
//	}
//
// Node coordinates are optional; nodes supplied without positions collapse to
// the origin and are spread onto a circle by the layout initializer. Edges
// that reference unknown node IDs are dropped during [FromFile], never
// surfaced as errors.
type File struct {
	Name  string   `json:"name,omitempty" bson:"name,omitempty"`
	Nodes []Node   `json:"nodes" bson:"nodes"`
	Edges []Edge   `json:"edges,omitempty" bson:"edges,omitempty"`
	Meta  Metadata `json:"meta,omitempty" bson:"meta,omitempty"`
}

// FromFile builds a Graph from a decoded File. Duplicate node IDs and empty
// node IDs are rejected with the node's position in the document for context.
// Edges referencing absent nodes are skipped; the count of skipped edges is
// returned so callers can log it.
func FromFile(f File) (*Graph, int, error) {
	g := New(copyMeta(f.Meta))
	for i, n := range f.Nodes {
		if err := g.AddNode(n); err != nil {
			return nil, 0, fmt.Errorf("node %d (%q): %w", i, n.ID, err)
		}
	}
	skipped := 0
	for _, e := range f.Edges {
		if err := g.AddEdge(e); err != nil {
			skipped++
		}
	}
	return g, skipped, nil
}

// Export converts a Graph back into its serialization form. Nodes are sorted
// by ID so repeated exports of the same graph are byte-identical.
func (g *Graph) Export() File {
	nodes := make([]Node, 0, len(g.nodes))
	for _, n := range g.Nodes() {
		nodes = append(nodes, *n)
	}
	slices.SortFunc(nodes, func(a, b Node) int {
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return File{
		Name:  asString(g.meta["name"]),
		Nodes: nodes,
		Edges: g.Edges(),
		Meta:  copyMeta(g.meta),
	}
}

// =============================================================================
// Serialization API
// =============================================================================

// MarshalFile serializes a File to pretty-printed JSON bytes.
func MarshalFile(f File) ([]byte, error) {
	return json.MarshalIndent(f, "", "  ")
}

// UnmarshalFile deserializes JSON bytes into a File and validates that the
// document contains a node list.
func UnmarshalFile(data []byte) (File, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("unmarshal graph: %w", err)
	}
	if f.Nodes == nil {
		return File{}, fmt.Errorf("graph document must contain a nodes array")
	}
	return f, nil
}

// WriteFile writes a File to a JSON file at path.
func WriteFile(f File, path string) error {
	data, err := MarshalFile(f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a File from a JSON file at path.
func ReadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalFile(data)
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
