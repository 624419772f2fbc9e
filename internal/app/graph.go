package app

import (
	"fmt"
	"time"

	"github.com/vk/taskgraph/dag"
	"github.com/vk/taskgraph/internal/gridfile"
)

// gridNode is the payload each graph node carries: the declarative spec,
// the resolved handles of its dependencies, and the last pass's result.
type gridNode struct {
	spec   *gridfile.NodeSpec
	deps   []dag.NodeID
	result int64
}

// buildGraph turns a parsed grid into an executable graph. Nodes are added
// in file order, so handles are stable across rebuilds of the same file.
func buildGraph(grid *gridfile.Grid) (*dag.Graph[gridNode], error) {
	g := dag.New[gridNode]()

	ids := make(map[string]dag.NodeID, len(grid.Nodes))
	for _, spec := range grid.Nodes {
		ids[spec.Name] = g.AddNode(gridNode{spec: spec})
	}

	for _, spec := range grid.Nodes {
		to := ids[spec.Name]
		n, err := g.Node(to)
		if err != nil {
			return nil, err
		}
		for _, dep := range spec.After {
			from, ok := ids[dep]
			if !ok {
				return nil, fmt.Errorf("node %q depends on unknown node %q", spec.Name, dep)
			}
			if err := g.AddEdge(from, to); err != nil {
				return nil, fmt.Errorf("node %q: %w", spec.Name, err)
			}
			n.deps = append(n.deps, from)
		}
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// nodeWork returns the per-node work function for one grid. Each node sums
// the ports of its dependencies, applies its own emit/add/mul, and publishes
// the result on its port.
func nodeWork(g *dag.Graph[gridNode]) dag.WorkFunc[gridNode] {
	return func(id dag.NodeID, n *gridNode) {
		if n.spec.DelayMs > 0 {
			time.Sleep(time.Duration(n.spec.DelayMs) * time.Millisecond)
		}

		total := n.spec.Emit
		for _, dep := range n.deps {
			total += dag.MustPort[int64](g, dep)
		}
		total += n.spec.Add
		if n.spec.Mul != 0 {
			total *= n.spec.Mul
		}

		n.result = total
		_ = g.SetPort(id, total) // handle is ours, cannot be out of range
	}
}
