// Package dfs implements depth-first topological sort and cycle detection
// on a directed core.Graph.
//
// What:
//
//   - TopologicalSort: a linear order of the vertices such that for every
//     edge u→v, u comes before v. A cycle yields ErrCycleDetected.
//   - DetectCycles: lists the simple cycles reachable through back edges,
//     each rotated to start at its smallest vertex ID and closed, e.g.
//     ["a", "b", "a"]. The list is sorted for deterministic output.
//
// Both walks colour vertices White (unvisited), Gray (on the recursion
// stack) and Black (done). Meeting a Gray vertex is a back edge.
//
// Why:
//
//   - Parameter ties are a dependency graph: targets must be resolved
//     before the parameters tied to them, and a tie that closes a loop has
//     to be reported with the loop it closes.
//
// Complexity:
//
//	TopologicalSort  Time O(V+E),       Memory O(V)
//	DetectCycles     Time O(V+E+C·L),   Memory O(V+L_max)
//	(C = number of cycles, L = average cycle length)
//
// Errors:
//
//	ErrGraphNil        - nil graph passed to TopologicalSort.
//	ErrNotDirected     - the graph is undirected.
//	ErrCycleDetected   - TopologicalSort met a back edge.
//	ErrNeighborFetch   - neighbour lookup failed during a walk.
package dfs
