// Package core provides the small thread-safe graph the model package uses
// to order and validate parameter ties.
//
// What:
//
//   - Graph G = (V, E) with string vertex IDs and at most one edge per
//     ordered pair of vertices.
//   - Directed or undirected edges (WithDirected); undirected edges are
//     mirrored in the adjacency map.
//   - Self-loops are rejected unless WithLoops is given.
//   - Deterministic iteration: Vertices and NeighborIDs return sorted IDs,
//     Neighbors returns edges in insertion order.
//
// Why:
//
//   - A tie value = Factor * m[Target].Param is an edge target → tied
//     parameter. Resolution order is a topological order of that graph and
//     a closing tie is a cycle, both computed by package dfs on a Graph.
//
// Complexity:
//
//	AddVertex, HasVertex, AddEdge, HasEdge  O(1) amortized
//	Neighbors                               O(d)
//	NeighborIDs                             O(d·log d)
//	Vertices                                O(V·log V)
//
// Errors:
//
//	ErrEmptyVertexID       - zero-length vertex ID.
//	ErrVertexNotFound      - Neighbors on a missing vertex.
//	ErrLoopNotAllowed      - self-loop when loops are disabled.
//	ErrMultiEdgeNotAllowed - a second edge between the same endpoints.
package core
