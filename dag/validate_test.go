package dag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Run("empty graph has no cycles", func(t *testing.T) {
		g := New[string]()
		assert.NoError(t, g.Validate())
	})

	t.Run("graph with nodes but no edges has no cycles", func(t *testing.T) {
		g := New[string]()
		g.AddNode("a")
		g.AddNode("b")
		g.AddNode("c")
		assert.NoError(t, g.Validate())
	})

	t.Run("valid dag has no cycles", func(t *testing.T) {
		g := New[string]()
		a := g.AddNode("a")
		b := g.AddNode("b")
		c := g.AddNode("c")
		d := g.AddNode("d")
		require.NoError(t, g.AddEdge(a, b))
		require.NoError(t, g.AddEdge(b, c))
		require.NoError(t, g.AddEdge(a, c)) // Transitive edge
		require.NoError(t, g.AddEdge(c, d))
		assert.NoError(t, g.Validate())
	})

	t.Run("simple direct cycle is detected", func(t *testing.T) {
		g := New[string]()
		a := g.AddNode("a")
		b := g.AddNode("b")
		require.NoError(t, g.AddEdge(a, b))
		require.NoError(t, g.AddEdge(b, a)) // Cycle
		assert.ErrorIs(t, g.Validate(), ErrCycle)
	})

	t.Run("longer cycle is detected", func(t *testing.T) {
		g := New[string]()
		a := g.AddNode("a")
		b := g.AddNode("b")
		c := g.AddNode("c")
		d := g.AddNode("d")
		require.NoError(t, g.AddEdge(a, b))
		require.NoError(t, g.AddEdge(b, c))
		require.NoError(t, g.AddEdge(c, d))
		require.NoError(t, g.AddEdge(d, a)) // Cycle back to the start
		assert.ErrorIs(t, g.Validate(), ErrCycle)
	})

	t.Run("cycle in a disjoint component is detected", func(t *testing.T) {
		g := New[string]()
		// Component 1 (valid)
		a := g.AddNode("a")
		b := g.AddNode("b")
		require.NoError(t, g.AddEdge(a, b))

		// Component 2 (has a cycle)
		x := g.AddNode("x")
		y := g.AddNode("y")
		z := g.AddNode("z")
		require.NoError(t, g.AddEdge(x, y))
		require.NoError(t, g.AddEdge(y, z))
		require.NoError(t, g.AddEdge(z, y)) // Cycle
		assert.ErrorIs(t, g.Validate(), ErrCycle)
	})
}
