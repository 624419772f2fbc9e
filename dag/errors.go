package dag

import "errors"

var (
	// ErrInvalidHandle reports a node handle that is out of range for the
	// graph it was used with.
	ErrInvalidHandle = errors.New("invalid node handle")

	// ErrSelfEdge reports an attempt to make a node depend on itself.
	ErrSelfEdge = errors.New("self-referential edge not allowed")

	// ErrPortNotSet reports a read from an output port that no work
	// function has written during or before the current pass.
	ErrPortNotSet = errors.New("port not set")

	// ErrPortTypeMismatch reports a port read with a type other than the
	// one the producer wrote.
	ErrPortTypeMismatch = errors.New("port type mismatch")

	// ErrCycle is returned by Validate when the graph is not acyclic.
	ErrCycle = errors.New("cycle detected")

	// ErrPassInProgress is returned by Execute when a pass is already
	// running on the same graph.
	ErrPassInProgress = errors.New("execution pass already in progress")
)
