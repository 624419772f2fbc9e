package dag

import "fmt"

// portSlot is a node's single type-erased output slot. A slot holds at most
// one value; the producer picks the concrete type at write time.
type portSlot struct {
	value any
	set   bool
}

// SetPort stores value in the node's output slot, overwriting any previous
// value. It is normally called by the node's own work function; the
// dependency protocol already orders the write before any successor starts,
// so no extra locking is needed on the slot itself. A value stays readable
// until it is overwritten, which makes it stale once the next pass begins.
func (g *Graph[T]) SetPort(id NodeID, value any) error {
	if err := g.checkHandle(id); err != nil {
		return fmt.Errorf("set port: %w", err)
	}
	g.ports[id] = portSlot{value: value, set: true}
	return nil
}

// Port reads node id's output as type V. Callers whose execution the
// dependency protocol has ordered after the producer are guaranteed to see
// the producer's write. Reading before any write yields ErrPortNotSet;
// reading with the wrong type yields ErrPortTypeMismatch.
func Port[V any, T any](g *Graph[T], id NodeID) (V, error) {
	var zero V
	if err := g.checkHandle(id); err != nil {
		return zero, fmt.Errorf("get port: %w", err)
	}
	slot := g.ports[id]
	if !slot.set {
		return zero, fmt.Errorf("get port %d: %w", id, ErrPortNotSet)
	}
	v, ok := slot.value.(V)
	if !ok {
		return zero, fmt.Errorf("get port %d: %w (stored %T)", id, ErrPortTypeMismatch, slot.value)
	}
	return v, nil
}

// MustPort is Port for callers that treat port misuse as a programming
// error: it panics instead of returning an error.
func MustPort[V any, T any](g *Graph[T], id NodeID) V {
	v, err := Port[V](g, id)
	if err != nil {
		panic(err)
	}
	return v
}
