package dag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vk/taskgraph/ctxlog"
	"github.com/vk/taskgraph/internal/metrics"
	"github.com/vk/taskgraph/pool"
)

// WorkFunc is the caller-supplied work for one node. Execute invokes it
// exactly once per node per pass, on one of the pool's workers, only after
// every predecessor of the node has completed.
type WorkFunc[T any] func(id NodeID, payload *T)

// passFailures collects per-node failures so a pass can drain fully and
// report them all at once.
type passFailures struct {
	mu   sync.Mutex
	errs []error
}

func (f *passFailures) add(err error) {
	f.mu.Lock()
	f.errs = append(f.errs, err)
	f.mu.Unlock()
}

func (f *passFailures) take() []error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errs
}

// Execute performs one complete pass over the graph on the given pool and
// blocks until every node has completed. The node and edge set must be
// final before the first call, and the pool must outlive the pass.
//
// Per pass, the live in-degree counters are rebuilt from the static ones,
// every node with no dependencies is seeded into the pool, and each
// completed node atomically decrements its successors' counters; the exact
// goroutine whose decrement moves a counter from one to zero submits that
// successor, so each node is dispatched exactly once no matter how many
// predecessors finish concurrently.
//
// A panic inside fn is recovered and recorded; the node still counts as
// completed so its successors run and the pass drains, and Execute returns
// an error naming every failed node. Canceling ctx stops invoking fn on
// nodes that have not started yet, drains the remaining counters, and
// returns ctx.Err() joined with any failures recorded before the
// cancellation.
//
// A cyclic graph is not detected here and never drains; run Validate after
// the setup phase to rule that out.
func (g *Graph[T]) Execute(ctx context.Context, p *pool.Pool, fn WorkFunc[T]) error {
	if !g.running.CompareAndSwap(false, true) {
		return ErrPassInProgress
	}
	defer g.running.Store(false)

	logger := ctxlog.FromContext(ctx)
	if g.NodeCount() == 0 {
		logger.Debug("Graph is empty, nothing to execute.")
		return nil
	}

	start := time.Now()
	g.reset()

	done := make(chan struct{})
	failures := &passFailures{}
	var skipped atomic.Bool

	// A pool that was stopped mid-pass rejects submissions; rejected
	// successors are kept on a local worklist instead, so the pass still
	// drains without growing the stack along a dependency chain.
	var dispatch func(u NodeID)
	dispatch = func(u NodeID) {
		work := []NodeID{u}
		for len(work) > 0 {
			n := work[len(work)-1]
			work = work[:len(work)-1]

			if ctx.Err() == nil {
				g.runNode(logger, n, fn, failures)
			} else {
				skipped.Store(true)
			}

			// The port write above is ordered before these decrements, so a
			// successor released here observes it.
			for _, v := range g.adj[n] {
				if g.indegree[v].Add(-1) == 0 {
					logger.Debug("Unlocking dependent node.", "nodeID", n, "dependentID", v)
					if !p.Submit(func() { dispatch(v) }) {
						work = append(work, v)
					}
				}
			}
			if g.remaining.Add(-1) == 0 {
				close(done)
			}
		}
	}

	rootCount := 0
	for i := range g.baseIndegree {
		if g.baseIndegree[i] == 0 {
			u := NodeID(i)
			logger.Debug("Seeding root node.", "nodeID", i)
			if !p.Submit(func() { dispatch(u) }) {
				dispatch(u)
			}
			rootCount++
		}
	}
	logger.Debug("Seeded all root nodes.", "count", rootCount, "nodes", g.NodeCount())

	select {
	case <-done:
	case <-ctx.Done():
		// Dispatches not yet started skip their work function but keep
		// propagating decrements, so the drain below stays quick.
		<-done
	}

	// A cancellation that raced in after the last node ran is not a
	// canceled pass; only report ctx.Err() if a node was actually skipped.
	// Failures recorded before the cancellation are still reported.
	if skipped.Load() {
		metrics.PassesCanceled.Inc()
		logger.Warn("Pass canceled, remaining nodes skipped.", "error", ctx.Err())
		return errors.Join(append([]error{ctx.Err()}, failures.take()...)...)
	}

	metrics.PassesCompleted.Inc()
	metrics.PassDuration.Observe(time.Since(start).Seconds())
	logger.Debug("Pass complete.", "duration", time.Since(start))

	if errs := failures.take(); len(errs) > 0 {
		return fmt.Errorf("pass completed with %d failed node(s): %w", len(errs), errors.Join(errs...))
	}
	return nil
}

// runNode invokes the work function for one node, converting a panic into a
// recorded per-node failure.
func (g *Graph[T]) runNode(logger *slog.Logger, u NodeID, fn WorkFunc[T], failures *passFailures) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Node work function panicked.", "nodeID", u, "panic", r)
			metrics.NodePanics.Inc()
			failures.add(fmt.Errorf("node %d panicked: %v", u, r))
		}
	}()
	fn(u, &g.payloads[u])
	metrics.NodesExecuted.Inc()
}
