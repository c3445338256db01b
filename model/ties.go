package model

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/katalvlaran/specmodel/internal/core"
	"github.com/katalvlaran/specmodel/internal/dfs"
)

// checkTies validates every tie: a finite factor, a target index in range
// that is not the tie's own component, and a parameter that exists in the
// target kind.
func checkTies(items []*Component) error {
	for ci, c := range items {
		for pi := range c.Params {
			t := c.Params[pi].Tied
			if t == nil {
				continue
			}
			if math.IsNaN(t.Factor) || math.IsInf(t.Factor, 0) {
				return fmt.Errorf("%w: %s.%s factor %v",
					ErrBadTieFactor, label(ci, c), c.Params[pi].Name, t.Factor)
			}
			if t.Target < 0 || t.Target >= len(items) {
				return fmt.Errorf("%w: %s.%s -> m[%d] (model has %d components)",
					ErrDanglingTie, label(ci, c), c.Params[pi].Name, t.Target, len(items))
			}
			if t.Target == ci {
				return fmt.Errorf("%w: %s.%s targets its own component",
					ErrDanglingTie, label(ci, c), c.Params[pi].Name)
			}
			if items[t.Target].Kind.ParamIndex(t.Param) < 0 {
				return fmt.Errorf("%w: %s.%s -> m[%d].%s (no such parameter in %s)",
					ErrDanglingTie, label(ci, c), c.Params[pi].Name, t.Target, t.Param, items[t.Target].Kind)
			}
		}
	}
	return nil
}

// vertexID names a parameter in the tie graph, e.g. "m[1].amplitude".
func vertexID(component int, param string) string {
	return fmt.Sprintf("m[%d].%s", component, param)
}

// tieGraph builds the directed graph with one vertex per parameter taking
// part in a tie and an edge target → tied parameter for every tie. tied maps
// the vertex ID of each tied parameter back to its ref. items must have
// passed checkTies.
func tieGraph(items []*Component) (g *core.Graph, tied map[string]ParamRef, err error) {
	g = core.NewGraph(core.WithDirected(true))
	tied = make(map[string]ParamRef)
	for ci, c := range items {
		for pi := range c.Params {
			t := c.Params[pi].Tied
			if t == nil {
				continue
			}
			id := vertexID(ci, c.Params[pi].Name)
			if _, err = g.AddEdge(vertexID(t.Target, t.Param), id); err != nil {
				return nil, nil, fmt.Errorf("model: tie graph: %w", err)
			}
			tied[id] = ParamRef{Component: ci, Param: pi}
		}
	}

	return g, tied, nil
}

// tieOrder returns the tied parameters in resolution order (targets before
// dependants), or ErrTieCycle naming the loop, e.g.
// "m[0].amplitude -> m[1].amplitude -> m[0].amplitude". It does not mutate
// items.
// Complexity: O(P + T) for P parameters and T ties.
func tieOrder(items []*Component) ([]ParamRef, error) {
	// 1) Per-tie checks; a model without ties has nothing to order.
	if err := checkTies(items); err != nil {
		return nil, err
	}
	g, tied, err := tieGraph(items)
	if err != nil {
		return nil, err
	}
	if len(tied) == 0 {
		return nil, nil
	}

	// 2) Topological order of the tie graph; on a cycle, name it.
	order, err := dfs.TopologicalSort(g)
	if errors.Is(err, dfs.ErrCycleDetected) {
		return nil, cycleError(g)
	}
	if err != nil {
		return nil, fmt.Errorf("model: tie order: %w", err)
	}

	// 3) Keep the tied vertices; targets that are not tied need no work.
	refs := make([]ParamRef, 0, len(tied))
	for _, id := range order {
		if ref, ok := tied[id]; ok {
			refs = append(refs, ref)
		}
	}

	return refs, nil
}

// cycleError renders the first cycle DetectCycles reports.
func cycleError(g *core.Graph) error {
	found, cycles, err := dfs.DetectCycles(g)
	if err != nil || !found {
		return ErrTieCycle
	}

	return fmt.Errorf("%w: %s", ErrTieCycle, strings.Join(cycles[0], " -> "))
}

// resolveTies assigns every tied value in dependency order. On error no
// value is changed.
func resolveTies(items []*Component) error {
	order, err := tieOrder(items)
	if err != nil {
		return err
	}
	for _, ref := range order {
		p := &items[ref.Component].Params[ref.Param]
		target := items[p.Tied.Target]
		p.Value = p.Tied.Factor * target.Params[target.Kind.ParamIndex(p.Tied.Param)].Value
	}
	return nil
}

// remapTies rewrites tie targets after a structural edit. remap returns the
// new index of an old one, or false when the old target no longer exists;
// such ties are dropped and reported through onDrop.
func remapTies(items []*Component, remap func(old int) (int, bool), onDrop func(ci int, param string, t Tie)) {
	for ci, c := range items {
		for pi := range c.Params {
			t := c.Params[pi].Tied
			if t == nil {
				continue
			}
			idx, ok := remap(t.Target)
			if !ok {
				if onDrop != nil {
					onDrop(ci, c.Params[pi].Name, *t)
				}
				c.Params[pi].Tied = nil
				continue
			}
			t.Target = idx
		}
	}
}

// label names a component for messages: its Name when set, else m[i].
func label(i int, c *Component) string {
	if c.Name != "" {
		return fmt.Sprintf("m[%d](%s)", i, c.Name)
	}
	return fmt.Sprintf("m[%d]", i)
}
