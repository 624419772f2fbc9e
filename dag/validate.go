package dag

import "fmt"

// Validate checks the graph for cycles. Execute itself never verifies
// acyclicity (a cyclic graph simply never drains), so callers should run
// Validate once after the setup phase if the wiring is not known-good.
func (g *Graph[T]) Validate() error {
	// Classic depth-first search with three node states:
	// settled: fully visited and known to be cycle-free.
	// inStack: currently in the recursion stack of this traversal.
	// unvisited: everything else.
	const (
		unvisited = iota
		inStack
		settled
	)
	state := make([]uint8, g.NodeCount())

	var visit func(u NodeID) error
	visit = func(u NodeID) error {
		switch state[u] {
		case settled:
			return nil
		case inStack:
			// We've hit a node already in our recursion stack, so we have a cycle.
			return fmt.Errorf("%w involving node %d", ErrCycle, u)
		}

		state[u] = inStack
		for _, v := range g.adj[u] {
			if err := visit(v); err != nil {
				return err
			}
		}
		state[u] = settled
		return nil
	}

	for i := 0; i < g.NodeCount(); i++ {
		if state[i] == unvisited {
			if err := visit(NodeID(i)); err != nil {
				return err
			}
		}
	}
	return nil
}
