// Package render turns positioned graphs into visual outputs.
//
// # Overview
//
// Rendering consumes a graph whose nodes already carry coordinates,
// typically written back by a layout run. Three outputs are supported:
//
//   - SVG: hand-built markup, edges drawn under nodes ([RenderSVG])
//   - DOT: Graphviz source with pinned positions ([ToDOT])
//   - PNG: DOT rasterized through Graphviz ([RenderPNG])
//
// # Usage
//
// Render a laid-out graph to SVG:
//
//	svg := render.RenderSVG(g, render.WithLabels())
//
// Export to Graphviz and rasterize:
//
//	dot := render.ToDOT(g)
//	png, err := render.RenderPNG(ctx, dot)
//
// DOT output pins every node with a "pos" attribute, so Graphviz tools
// reproduce the computed layout instead of running their own.
package render
