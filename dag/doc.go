// Package dag implements a reusable parallel task-graph executor. Callers
// describe units of work as nodes with directed dependency edges between
// them, then run complete passes over the graph on a worker pool: every node
// executes exactly once per pass, never before its predecessors, and nodes
// exchange typed results through per-node output ports.
//
// A Graph is built once during a setup phase and re-executed as many times
// as needed (for example once per frame) without re-allocating structure.
// The caller guarantees acyclicity; Validate offers an optional check at
// graph-finalization time.
package dag
