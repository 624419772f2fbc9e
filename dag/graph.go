package dag

import (
	"fmt"
	"sync/atomic"
)

// NodeID identifies a node by its insertion index. Handles are dense,
// zero-based integers assigned in creation order.
type NodeID int

// Graph is a directed acyclic task graph whose nodes each carry a payload of
// type T and a single type-erased output port. Building the graph (AddNode,
// AddEdge) is a setup-phase activity; it must not be interleaved with an
// in-flight Execute. The structural parts of the graph are read-only during
// a pass, so only the per-pass counters need atomic access.
type Graph[T any] struct {
	payloads     []T
	ports        []portSlot
	adj          [][]NodeID // successor lists
	baseIndegree []int32    // static in-degree per node
	edges        int

	// Per-pass run-state, rebuilt by reset at the start of every pass and
	// never read across passes.
	indegree  []atomic.Int32
	remaining atomic.Int64
	running   atomic.Bool
}

// New allocates an empty graph.
func New[T any]() *Graph[T] {
	return &Graph[T]{}
}

// AddNode appends a node holding payload and returns its handle.
func (g *Graph[T]) AddNode(payload T) NodeID {
	id := NodeID(len(g.payloads))
	g.payloads = append(g.payloads, payload)
	g.ports = append(g.ports, portSlot{})
	g.adj = append(g.adj, nil)
	g.baseIndegree = append(g.baseIndegree, 0)
	return id
}

// AddEdge records that to may not start until from has completed. Edges are
// additive only; there is no removal. Out-of-range handles and self-edges
// are rejected with an error rather than silently ignored.
func (g *Graph[T]) AddEdge(from, to NodeID) error {
	if err := g.checkHandle(from); err != nil {
		return fmt.Errorf("add edge: source: %w", err)
	}
	if err := g.checkHandle(to); err != nil {
		return fmt.Errorf("add edge: destination: %w", err)
	}
	if from == to {
		return fmt.Errorf("add edge %d -> %d: %w", from, to, ErrSelfEdge)
	}

	g.adj[from] = append(g.adj[from], to)
	g.baseIndegree[to]++
	g.edges++
	return nil
}

// NodeCount returns the total number of nodes in the graph.
func (g *Graph[T]) NodeCount() int {
	return len(g.payloads)
}

// EdgeCount returns the total number of edges added.
func (g *Graph[T]) EdgeCount() int {
	return g.edges
}

// Node returns a pointer to a node's payload for reading or modification
// outside a pass.
func (g *Graph[T]) Node(id NodeID) (*T, error) {
	if err := g.checkHandle(id); err != nil {
		return nil, err
	}
	return &g.payloads[id], nil
}

// Successors returns the direct dependents of a node.
func (g *Graph[T]) Successors(id NodeID) ([]NodeID, error) {
	if err := g.checkHandle(id); err != nil {
		return nil, err
	}
	return g.adj[id], nil
}

func (g *Graph[T]) checkHandle(id NodeID) error {
	if id < 0 || int(id) >= len(g.payloads) {
		return fmt.Errorf("%w: %d (graph has %d nodes)", ErrInvalidHandle, id, len(g.payloads))
	}
	return nil
}

// reset copies the static in-degrees into the live counters and arms the
// global remaining counter. Execute calls it at the start of every pass, so
// repeated passes need no caller bookkeeping.
func (g *Graph[T]) reset() {
	if len(g.indegree) != len(g.payloads) {
		g.indegree = make([]atomic.Int32, len(g.payloads))
	}
	for i := range g.indegree {
		g.indegree[i].Store(g.baseIndegree[i])
	}
	g.remaining.Store(int64(len(g.payloads)))
}
