package render

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/forcefield/pkg/graph"
)

// DefaultMargin is the whitespace added around the drawing bounds.
const DefaultMargin = 40.0

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	labels bool
	margin float64
}

// WithLabels draws each node's label (or its ID) beneath the node.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.labels = true } }

// WithMargin overrides the whitespace around the drawing bounds.
func WithMargin(m float64) SVGOption { return func(r *svgRenderer) { r.margin = m } }

// RenderSVG renders a positioned graph as standalone SVG markup. Edges are
// drawn first so nodes sit on top of them. The viewBox is fitted to the
// node positions plus a margin, so callers never pass canvas dimensions.
func RenderSVG(g *graph.Graph, opts ...SVGOption) []byte {
	r := svgRenderer{margin: DefaultMargin}
	for _, opt := range opts {
		opt(&r)
	}

	minX, minY, maxX, maxY := drawingBounds(g, r.margin)
	width := maxX - minX
	height := maxY - minY

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		minX, minY, width, height, width, height)

	buf.WriteString(`  <g class="edges" stroke="#94a3b8" stroke-opacity="0.6" fill="none">` + "\n")
	for _, e := range g.Edges() {
		src, ok := g.Node(e.Source)
		if !ok {
			continue
		}
		dst, ok := g.Node(e.Target)
		if !ok {
			continue
		}
		fmt.Fprintf(&buf, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke-width="%.1f"/>`+"\n",
			src.X, src.Y, dst.X, dst.Y, edgeWidth(e.Weight))
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="nodes" fill="#4c78a8" stroke="#2b4a6f" stroke-width="1.5">` + "\n")
	for _, n := range g.Nodes() {
		fmt.Fprintf(&buf, `    <circle id="node-%s" cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n",
			escape(n.ID), n.X, n.Y, n.Radius())
	}
	buf.WriteString("  </g>\n")

	if r.labels {
		buf.WriteString(`  <g class="labels" font-family="sans-serif" font-size="12" fill="#1e293b" text-anchor="middle">` + "\n")
		for _, n := range g.Nodes() {
			label := n.Label
			if label == "" {
				label = n.ID
			}
			fmt.Fprintf(&buf, `    <text x="%.1f" y="%.1f">%s</text>`+"\n",
				n.X, n.Y+n.Radius()+14, escape(label))
		}
		buf.WriteString("  </g>\n")
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// drawingBounds returns the node bounding box grown by each node's radius
// and the margin. An empty graph gets a small fixed canvas.
func drawingBounds(g *graph.Graph, margin float64) (minX, minY, maxX, maxY float64) {
	if g == nil || g.NodeCount() == 0 {
		return -margin, -margin, margin, margin
	}

	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, n := range g.Nodes() {
		r := n.Radius()
		minX = math.Min(minX, n.X-r)
		minY = math.Min(minY, n.Y-r)
		maxX = math.Max(maxX, n.X+r)
		maxY = math.Max(maxY, n.Y+r)
	}
	return minX - margin, minY - margin, maxX + margin, maxY + margin
}

// edgeWidth maps an edge weight to a stroke width. Unweighted edges get a
// hairline; weights grow the stroke sublinearly so heavy edges stay legible.
func edgeWidth(weight float64) float64 {
	if weight <= 0 {
		return 1.5
	}
	return 1.5 * math.Sqrt(weight)
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escape(s string) string { return xmlEscaper.Replace(s) }
