package core_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/specmodel/internal/core"
)

// TestAddEdge_Directed stores only the forward edge and creates endpoints.
func TestAddEdge_Directed(t *testing.T) {
	g := core.NewGraph(core.WithDirected(true))
	id, err := g.AddEdge("m[0].mean", "m[1].mean")
	require.NoError(t, err)
	assert.Equal(t, "e1", id)

	assert.True(t, g.HasVertex("m[0].mean"))
	assert.True(t, g.HasVertex("m[1].mean"))
	assert.True(t, g.HasEdge("m[0].mean", "m[1].mean"))
	assert.False(t, g.HasEdge("m[1].mean", "m[0].mean"))
	assert.Equal(t, 2, g.VertexCount())
	assert.Equal(t, 1, g.EdgeCount())

	out, err := g.Neighbors("m[1].mean")
	require.NoError(t, err)
	assert.Empty(t, out)
}

// TestAddEdge_UndirectedMirrors stores one edge reachable from both ends.
func TestAddEdge_UndirectedMirrors(t *testing.T) {
	g := core.NewGraph()
	_, err := g.AddEdge("a", "b")
	require.NoError(t, err)

	assert.True(t, g.HasEdge("b", "a"))
	ids, err := g.NeighborIDs("b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids)
	assert.Equal(t, 1, g.EdgeCount())

	_, err = g.AddEdge("b", "a")
	assert.ErrorIs(t, err, core.ErrMultiEdgeNotAllowed)
}

// TestAddEdge_Policy covers empty IDs, loops and parallel edges.
func TestAddEdge_Policy(t *testing.T) {
	g := core.NewGraph(core.WithDirected(true))

	_, err := g.AddEdge("", "a")
	assert.ErrorIs(t, err, core.ErrEmptyVertexID)
	_, err = g.AddEdge("a", "a")
	assert.ErrorIs(t, err, core.ErrLoopNotAllowed)

	_, err = g.AddEdge("a", "b")
	require.NoError(t, err)
	_, err = g.AddEdge("a", "b")
	assert.ErrorIs(t, err, core.ErrMultiEdgeNotAllowed)

	looped := core.NewGraph(core.WithDirected(true), core.WithLoops())
	_, err = looped.AddEdge("a", "a")
	assert.NoError(t, err)
	assert.True(t, looped.Looped())

	assert.ErrorIs(t, g.AddVertex(""), core.ErrEmptyVertexID)
	_, err = g.Neighbors("missing")
	assert.ErrorIs(t, err, core.ErrVertexNotFound)
}

// TestNeighbors_InsertionOrder keeps edges in the order they were added.
func TestNeighbors_InsertionOrder(t *testing.T) {
	g := core.NewGraph(core.WithDirected(true))
	for _, to := range []string{"c", "a", "b"} {
		_, err := g.AddEdge("src", to)
		require.NoError(t, err)
	}
	edges, err := g.Neighbors("src")
	require.NoError(t, err)
	var got []string
	for _, e := range edges {
		got = append(got, e.To)
		assert.True(t, e.Directed)
	}
	assert.Equal(t, []string{"c", "a", "b"}, got)
	assert.Equal(t, []string{"a", "b", "c", "src"}, g.Vertices())
}

// TestConcurrentAddEdge adds edges from many goroutines; run with -race.
func TestConcurrentAddEdge(t *testing.T) {
	g := core.NewGraph(core.WithDirected(true))
	const num = 200
	var wg sync.WaitGroup
	wg.Add(num)
	for i := 0; i < num; i++ {
		go func(id int) {
			defer wg.Done()
			_, err := g.AddEdge("X", fmt.Sprintf("V%d", id))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	nbs, err := g.Neighbors("X")
	require.NoError(t, err)
	assert.Len(t, nbs, num)
	assert.Equal(t, num, g.EdgeCount())
}
