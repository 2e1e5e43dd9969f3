// Package pkg provides the core libraries for Forcefield graph layout.
//
// # Overview
//
// Forcefield computes physics-based layouts for directed graphs and reports
// on their structure. The pkg directory is organized into four main areas:
//
//  1. [graph] - Graph documents and the in-memory directed multigraph
//  2. [layout] - Layout algorithm contract and the five built-in algorithms
//  3. [analyze] - Structural analysis (paths, bottlenecks, levels, density)
//  4. [pipeline] - Orchestration (load → layout → analyze → render)
//
// # Architecture
//
// The typical data flow through Forcefield:
//
//	JSON graph document
//	         ↓
//	    [io] package (parse + validate)
//	         ↓
//	    [layout] package (positions) · [analyze] package (structure)
//	         ↓
//	    [render] package (DOT/SVG/PNG)
//
// # Quick Start
//
// Lay out a graph and write the positions back:
//
//	import (
//	    "github.com/matzehuels/forcefield/pkg/graph"
//	    "github.com/matzehuels/forcefield/pkg/layout"
//	    _ "github.com/matzehuels/forcefield/pkg/layout/forceatlas"
//	)
//
//	// 1. Build a graph
//	g := graph.New(nil)
//	g.AddNode(graph.Node{ID: "app"})
//	g.AddNode(graph.Node{ID: "db"})
//	g.AddEdge(graph.Edge{Source: "app", Target: "db"})
//
//	// 2. Pick an algorithm and run it
//	alg, _ := layout.Select(g, "forceatlas2")
//	pos, _ := alg.Apply(g, layout.Config{})
//
//	// 3. Write positions back
//	pos.ApplyTo(g)
//
// # Main Packages
//
// ## Domain Logic
//
// [graph] - The JSON graph document format and a directed multigraph with
// O(1) adjacency, stable insertion order, and deterministic export.
//
// [layout] - The Algorithm contract (synchronous Apply, cancelable
// ApplyContext with progress), a self-registering algorithm registry with
// capability-based selection, async runs, quality metrics, and TOML config
// presets. Subpackages implement the algorithms: [layout/force] (generic
// spring simulation), [layout/forceatlas] (ForceAtlas2 with Barnes-Hut),
// [layout/hierarchical] (layered), [layout/radial] (BFS rings),
// [layout/grid] (fallback), all over the [layout/quadtree] spatial index.
//
// [analyze] - Structural analyzers: critical path, bottleneck detection,
// Kahn depth levels, linear chains, and BFS interaction density. Results
// are deterministic and cacheable by graph content hash.
//
// ## Infrastructure
//
// [cache] - Content-addressed file cache with TTL and a null fallback.
//
// [httputil] - HTTP fetching with retry, backoff, and cache integration
// for URL graph sources.
//
// [jobs] - Async layout job model and TTL'd job stores (memory, Redis).
//
// [catalog] - Named graph storage (memory, MongoDB) for repeat runs.
//
// [errors] - Coded errors that survive wrapping, for HTTP status mapping
// and machine-readable CLI failures.
//
// [observability] - Pipeline stage hooks for logging and timing.
//
// ## Entry Surfaces
//
// [pipeline] - The load → layout → analyze → render pipeline shared by the
// CLI and the server, with per-stage caching and progress forwarding.
//
// [server] - The chi HTTP API: async jobs, synchronous analysis, graph
// catalog CRUD, health.
//
// [render] - DOT, SVG, and PNG output with positions pinned, via Graphviz.
//
// [io] - Reading and writing graph documents from files, readers, and URLs.
//
// # Common Workflows
//
// Run a layout with cancellation and progress:
//
//	run := layout.Start(ctx, alg, g, cfg)
//	for p := range run.Updates() {
//	    fmt.Printf("%3.0f%% %s\n", p.Percent, p.Message)
//	}
//	pos, err := run.Wait()
//
// Analyze structure:
//
//	result := analyze.Analyze(g, analyze.Options{})
//	fmt.Println(result.CriticalPath, result.Bottlenecks)
//
// Score a finished layout:
//
//	m := layout.Quality(g, pos)
//	fmt.Printf("%d crossings, %d overlaps\n", m.EdgeCrossings, m.NodeOverlaps)
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/layout/...       # Layout contract + algorithms
//	go test -run Example           # Examples only
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/forcefield/pkg/graph
// [layout]: https://pkg.go.dev/github.com/matzehuels/forcefield/pkg/layout
// [layout/force]: https://pkg.go.dev/github.com/matzehuels/forcefield/pkg/layout/force
// [layout/forceatlas]: https://pkg.go.dev/github.com/matzehuels/forcefield/pkg/layout/forceatlas
// [layout/hierarchical]: https://pkg.go.dev/github.com/matzehuels/forcefield/pkg/layout/hierarchical
// [layout/radial]: https://pkg.go.dev/github.com/matzehuels/forcefield/pkg/layout/radial
// [layout/grid]: https://pkg.go.dev/github.com/matzehuels/forcefield/pkg/layout/grid
// [layout/quadtree]: https://pkg.go.dev/github.com/matzehuels/forcefield/pkg/layout/quadtree
// [analyze]: https://pkg.go.dev/github.com/matzehuels/forcefield/pkg/analyze
// [cache]: https://pkg.go.dev/github.com/matzehuels/forcefield/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/matzehuels/forcefield/pkg/httputil
// [jobs]: https://pkg.go.dev/github.com/matzehuels/forcefield/pkg/jobs
// [catalog]: https://pkg.go.dev/github.com/matzehuels/forcefield/pkg/catalog
// [errors]: https://pkg.go.dev/github.com/matzehuels/forcefield/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/forcefield/pkg/observability
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/forcefield/pkg/pipeline
// [server]: https://pkg.go.dev/github.com/matzehuels/forcefield/pkg/server
// [render]: https://pkg.go.dev/github.com/matzehuels/forcefield/pkg/render
// [io]: https://pkg.go.dev/github.com/matzehuels/forcefield/pkg/io
package pkg
