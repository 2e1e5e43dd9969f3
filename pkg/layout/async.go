package layout

import (
	"context"
	"sync"

	"github.com/matzehuels/forcefield/pkg/graph"
)

// Run is a handle to an asynchronous layout computation. A Run owns an
// exclusive snapshot of the physics state; the input graph is never
// written to.
type Run struct {
	cancel  context.CancelFunc
	done    chan struct{}
	updates chan Progress

	mu     sync.Mutex
	latest Progress
	pos    Positions
	err    error
}

// Start launches alg on g in its own goroutine and returns immediately.
// Algorithms implementing ContextAlgorithm report progress and honor
// cancellation between iteration batches; plain Algorithms run to
// completion and ignore Cancel.
func Start(ctx context.Context, alg Algorithm, g *graph.Graph, cfg Config) *Run {
	ctx, cancel := context.WithCancel(ctx)
	r := &Run{
		cancel:  cancel,
		done:    make(chan struct{}),
		updates: make(chan Progress, 1),
	}
	go r.run(ctx, alg, g, cfg)
	return r
}

func (r *Run) run(ctx context.Context, alg Algorithm, g *graph.Graph, cfg Config) {
	defer close(r.done)
	defer close(r.updates)
	defer r.cancel()

	var pos Positions
	var err error
	if ca, ok := alg.(ContextAlgorithm); ok {
		pos, err = ca.ApplyContext(ctx, g, cfg, r.report)
	} else {
		pos, err = alg.Apply(g, cfg)
	}

	r.mu.Lock()
	r.pos, r.err = pos, err
	r.mu.Unlock()
}

// report records a progress update and publishes it. The updates
// channel holds only the most recent report when the consumer lags.
func (r *Run) report(p Progress) {
	r.mu.Lock()
	r.latest = p
	r.mu.Unlock()

	select {
	case r.updates <- p:
	default:
		select {
		case <-r.updates:
		default:
		}
		select {
		case r.updates <- p:
		default:
		}
	}
}

// Progress returns the most recent progress report.
func (r *Run) Progress() Progress {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.latest
}

// Updates returns the progress channel. It is closed when the run
// finishes.
func (r *Run) Updates() <-chan Progress {
	return r.updates
}

// Cancel requests cooperative cancellation. The run finishes its
// current batch, then Wait returns the positions computed so far along
// with ErrCanceled.
func (r *Run) Cancel() {
	r.cancel()
}

// Done returns a channel that is closed when the run has finished.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the run finishes and returns the final positions.
// A canceled run returns the last completed batch and ErrCanceled.
func (r *Run) Wait() (Positions, error) {
	<-r.done
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pos, r.err
}
