// Package layout defines the contract shared by all layout algorithms.
//
// This package owns the pieces every algorithm needs: the Algorithm
// interface, the physics Config with its defaults, the registry used to
// select an algorithm for a given graph, the asynchronous Run handle,
// and quality metrics for finished layouts.
//
// # Architecture
//
// Algorithms live in subpackages (force, forceatlas, hierarchical,
// radial, grid) and register themselves on import. Callers either ask
// for an algorithm by name or let Select walk the fallback chain and
// pick the first algorithm whose CanHandle accepts the graph.
//
// # Usage
//
// Synchronous:
//
//	alg, err := layout.Select(g, cfg.Algorithm)
//	if err != nil {
//	    return err
//	}
//	pos, err := alg.Apply(g, cfg)
//	if err != nil {
//	    return err
//	}
//	pos.ApplyTo(g)
//
// Asynchronous with progress and cancellation:
//
//	run := layout.Start(ctx, alg, g, cfg)
//	go func() {
//	    for p := range run.Updates() {
//	        fmt.Printf("%3.0f%% %s\n", p.Percent, p.Message)
//	    }
//	}()
//	pos, err := run.Wait()
//	if errors.Is(err, layout.ErrCanceled) {
//	    // pos holds the positions from the last completed batch
//	}
package layout
