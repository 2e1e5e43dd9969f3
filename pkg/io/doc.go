// Package io loads and saves graph documents.
//
// # Overview
//
// The engine's wire format is a JSON object with "nodes" and "edges" arrays:
//
//	{
//	  "nodes": [
//	    {"id": "api"},
//	    {"id": "db", "x": 120, "y": -40, "size": 14}
//	  ],
//	  "edges": [
//	    {"source": "api", "target": "db", "kind": "dependency", "weight": 2}
//	  ]
//	}
//
// Node coordinates, sizes, labels, and metadata are optional. Nodes without
// coordinates collapse to the origin and are spread onto a circle by the
// layout initializer. Edges referencing unknown node IDs are skipped with a
// debug log; a malformed document or a duplicate node ID is an error.
//
// # Sources
//
// [Import] accepts a local file path or an http(s) URL. URL fetches go
// through [httputil.Client], which layers response caching and retry on top
// of net/http. [Read] decodes from any io.Reader for callers that already
// hold the bytes.
//
// # Export
//
// [Export] and [Write] emit the same document shape with nodes sorted by ID,
// so exporting the same graph twice yields byte-identical files. A graph
// positioned by a layout run exports with its computed coordinates; feeding
// that file back in reproduces the layout without re-running physics.
//
// [httputil.Client]: github.com/matzehuels/forcefield/pkg/httputil.Client
package io
