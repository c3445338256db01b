package core

import (
	"errors"
	"sync"
)

// Sentinel errors for graph operations.
var (
	// ErrEmptyVertexID indicates that a vertex ID is the empty string.
	ErrEmptyVertexID = errors.New("core: vertex ID is empty")

	// ErrVertexNotFound indicates an operation referenced a non-existent vertex.
	ErrVertexNotFound = errors.New("core: vertex not found")

	// ErrLoopNotAllowed indicates a self-loop was attempted when loops are disabled.
	ErrLoopNotAllowed = errors.New("core: self-loop not allowed")

	// ErrMultiEdgeNotAllowed indicates a second edge between the same endpoints.
	ErrMultiEdgeNotAllowed = errors.New("core: multi-edges not allowed")
)

// Edge connects From to To. Directed mirrors the graph's setting.
type Edge struct {
	// ID is "e1", "e2", ... in insertion order.
	ID string

	// From is the source vertex ID.
	From string

	// To is the destination vertex ID.
	To string

	// Directed is true for one-way edges.
	Directed bool
}

// GraphOption configures a Graph before creation.
type GraphOption func(g *Graph)

// WithDirected sets the directedness of every edge.
func WithDirected(directed bool) GraphOption {
	return func(g *Graph) { g.directed = directed }
}

// WithLoops permits self-loops (edges from a vertex to itself).
func WithLoops() GraphOption {
	return func(g *Graph) { g.allowLoops = true }
}

// Graph is an in-memory graph guarded by a single RWMutex.
type Graph struct {
	mu sync.RWMutex

	directed   bool
	allowLoops bool

	nextEdgeID uint64
	vertices   map[string]struct{}
	// adjacency[from][to] is the edge leaving from toward to; undirected
	// edges appear under both endpoints.
	adjacency map[string]map[string]*Edge
	// order[from] lists the edges of from in insertion order.
	order map[string][]*Edge
}

// NewGraph creates an empty Graph. By default it is undirected without loops.
// Complexity: O(1)
func NewGraph(opts ...GraphOption) *Graph {
	g := &Graph{
		vertices:  make(map[string]struct{}),
		adjacency: make(map[string]map[string]*Edge),
		order:     make(map[string][]*Edge),
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}
