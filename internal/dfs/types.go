package dfs

import "errors"

// Visitation states of a vertex.
const (
	White = iota // not visited
	Gray         // on the recursion stack
	Black        // fully explored
)

var (
	// ErrGraphNil is returned when a nil *core.Graph is passed to TopologicalSort.
	ErrGraphNil = errors.New("dfs: graph is nil")

	// ErrNotDirected is returned for an undirected graph.
	ErrNotDirected = errors.New("dfs: graph is not directed")

	// ErrCycleDetected indicates that TopologicalSort found a cycle.
	ErrCycleDetected = errors.New("dfs: cycle detected")

	// ErrNeighborFetch indicates a failure to retrieve neighbours from the graph.
	ErrNeighborFetch = errors.New("dfs: failed to fetch neighbors")
)
