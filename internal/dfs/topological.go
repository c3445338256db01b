package dfs

import (
	"fmt"

	"github.com/katalvlaran/specmodel/internal/core"
)

// topoSorter carries the state of one TopologicalSort call.
type topoSorter struct {
	graph *core.Graph
	state map[string]int
	order []string // post-order
}

// TopologicalSort returns every vertex of g such that each edge u→v has u
// before v. Roots are visited in ascending ID order, so the result is
// deterministic for a given graph.
//
// Errors: ErrGraphNil, ErrNotDirected, ErrCycleDetected, ErrNeighborFetch.
// Complexity: O(V+E) time, O(V) memory.
func TopologicalSort(g *core.Graph) ([]string, error) {
	// 1. Validate the graph.
	if g == nil {
		return nil, ErrGraphNil
	}
	if !g.Directed() {
		return nil, fmt.Errorf("%w: TopologicalSort", ErrNotDirected)
	}

	// 2. Every vertex starts White.
	verts := g.Vertices()
	s := &topoSorter{
		graph: g,
		state: make(map[string]int, len(verts)),
		order: make([]string, 0, len(verts)),
	}

	// 3. Drive the walk from every unvisited vertex.
	for _, v := range verts {
		if s.state[v] == White {
			if err := s.visit(v); err != nil {
				return nil, err
			}
		}
	}

	// 4. Reverse post-order is a topological order.
	for i, j := 0, len(s.order)-1; i < j; i, j = i+1, j-1 {
		s.order[i], s.order[j] = s.order[j], s.order[i]
	}

	return s.order, nil
}

func (s *topoSorter) visit(id string) error {
	switch s.state[id] {
	case Gray:
		return fmt.Errorf("%w: back edge into %s", ErrCycleDetected, id)
	case Black:
		return nil
	}
	s.state[id] = Gray

	edges, err := s.graph.Neighbors(id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNeighborFetch, err)
	}
	for _, e := range edges {
		if err = s.visit(e.To); err != nil {
			return err
		}
	}

	s.state[id] = Black
	s.order = append(s.order, id)

	return nil
}
