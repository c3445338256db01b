package dfs

import (
	"fmt"
	"sort"
	"strings"

	"github.com/katalvlaran/specmodel/internal/core"
)

// cycleFinder carries the state of one DetectCycles call.
type cycleFinder struct {
	graph  *core.Graph
	state  map[string]int
	path   []string
	seen   map[string]struct{}
	cycles [][]string
}

// DetectCycles reports whether g has a cycle and lists the cycles found
// through back edges. Each cycle is closed and rotated to start at its
// smallest vertex ID. A nil graph has no cycles.
//
// Errors: ErrNotDirected, ErrNeighborFetch.
// Complexity: O(V+E+C·L) time.
func DetectCycles(g *core.Graph) (bool, [][]string, error) {
	if g == nil {
		return false, nil, nil
	}
	if !g.Directed() {
		return false, nil, fmt.Errorf("%w: DetectCycles", ErrNotDirected)
	}

	verts := g.Vertices()
	f := &cycleFinder{
		graph: g,
		state: make(map[string]int, len(verts)),
		path:  make([]string, 0, len(verts)),
		seen:  make(map[string]struct{}),
	}
	for _, v := range verts {
		if f.state[v] == White {
			if err := f.visit(v); err != nil {
				return false, nil, fmt.Errorf("dfs: DetectCycles: %w", err)
			}
		}
	}
	if len(f.cycles) == 0 {
		return false, nil, nil
	}

	sort.Slice(f.cycles, func(i, j int) bool {
		return strings.Join(f.cycles[i], ",") < strings.Join(f.cycles[j], ",")
	})

	return true, f.cycles, nil
}

func (f *cycleFinder) visit(id string) error {
	// 1) Enter: Gray and on the path.
	f.state[id] = Gray
	f.path = append(f.path, id)

	edges, err := f.graph.Neighbors(id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNeighborFetch, err)
	}

	// 2) A Gray neighbour closes the path segment starting at it.
	for _, e := range edges {
		switch f.state[e.To] {
		case White:
			if err = f.visit(e.To); err != nil {
				return err
			}
		case Gray:
			f.record(e.To)
		}
	}

	// 3) Leave: pop and mark Black.
	f.path = f.path[:len(f.path)-1]
	f.state[id] = Black

	return nil
}

// record stores the cycle path[start:] + start once per rotation class.
func (f *cycleFinder) record(start string) {
	idx := IndexOf(f.path, start)
	canon := MinimalRotation(f.path[idx:])
	canon = append(canon, canon[0])

	sig := strings.Join(canon, ",")
	if _, ok := f.seen[sig]; ok {
		return
	}
	f.seen[sig] = struct{}{}
	f.cycles = append(f.cycles, canon)
}
