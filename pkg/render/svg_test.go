package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/forcefield/pkg/graph"
)

func positionedGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New(nil)
	nodes := []graph.Node{
		{ID: "api", Label: "API", X: 0, Y: 0, Size: 20},
		{ID: "db", X: 150, Y: 100},
	}
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s): %v", n.ID, err)
		}
	}
	if err := g.AddEdge(graph.Edge{Source: "api", Target: "db", Weight: 4}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	return g
}

func TestRenderSVGStructure(t *testing.T) {
	svg := string(RenderSVG(positionedGraph(t)))

	if !strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg"`) {
		t.Fatalf("output does not start with an svg element:\n%s", svg)
	}
	if !strings.HasSuffix(strings.TrimSpace(svg), "</svg>") {
		t.Error("output is not closed")
	}
	if !strings.Contains(svg, `id="node-api"`) || !strings.Contains(svg, `id="node-db"`) {
		t.Error("node circles missing")
	}
	if !strings.Contains(svg, `<line x1="0.0" y1="0.0" x2="150.0" y2="100.0"`) {
		t.Errorf("edge line missing:\n%s", svg)
	}

	// Weight 4 doubles the base stroke width.
	if !strings.Contains(svg, `stroke-width="3.0"`) {
		t.Error("weighted edge did not scale its stroke")
	}

	// Edges render before nodes so nodes draw on top.
	if strings.Index(svg, `class="edges"`) > strings.Index(svg, `class="nodes"`) {
		t.Error("edges rendered after nodes")
	}
}

func TestRenderSVGLabels(t *testing.T) {
	g := positionedGraph(t)

	plain := string(RenderSVG(g))
	if strings.Contains(plain, "<text") {
		t.Error("labels rendered without WithLabels")
	}

	labeled := string(RenderSVG(g, WithLabels()))
	if !strings.Contains(labeled, ">API</text>") {
		t.Error("node label missing")
	}
	if !strings.Contains(labeled, ">db</text>") {
		t.Error("label fallback to node ID missing")
	}
}

func TestRenderSVGEscapesMarkup(t *testing.T) {
	g := graph.New(nil)
	if err := g.AddNode(graph.Node{ID: "a<b", Label: `x & "y"`}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}

	svg := string(RenderSVG(g, WithLabels()))
	if !strings.Contains(svg, `id="node-a&lt;b"`) {
		t.Errorf("node ID not escaped:\n%s", svg)
	}
	if !strings.Contains(svg, "x &amp; &quot;y&quot;") {
		t.Errorf("label not escaped:\n%s", svg)
	}
}

func TestRenderSVGEmptyGraph(t *testing.T) {
	svg := RenderSVG(graph.New(nil))
	if !bytes.HasPrefix(svg, []byte("<svg")) || !bytes.Contains(svg, []byte("</svg>")) {
		t.Errorf("empty graph did not produce a well-formed document:\n%s", svg)
	}
}

func TestEdgeWidth(t *testing.T) {
	tests := []struct {
		weight float64
		want   float64
	}{
		{0, 1.5},
		{-2, 1.5},
		{1, 1.5},
		{4, 3.0},
	}

	for _, tt := range tests {
		if got := edgeWidth(tt.weight); got != tt.want {
			t.Errorf("edgeWidth(%v) = %v, want %v", tt.weight, got, tt.want)
		}
	}
}
