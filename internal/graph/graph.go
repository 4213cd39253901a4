// Package graph provides the small directed-graph utilities the
// inheritance analyzer needs: cycle detection over the subtype graph
// and a topological sort over the inheritance graph, both keyed by
// ir.DefnID so the analyzer never has to hand-roll DFS bookkeeping.
package graph

import "github.com/vellumlang/vellum/internal/ir"

// Graph is an adjacency-list directed graph over DefnIDs. Edge
// direction follows "depends on": an edge from A to B means A must be
// processed after B (e.g. "class A inherits from class B").
type Graph struct {
	edges map[ir.DefnID][]ir.DefnID
	nodes []ir.DefnID
	seen  map[ir.DefnID]bool
}

func New() *Graph {
	return &Graph{edges: make(map[ir.DefnID][]ir.DefnID), seen: make(map[ir.DefnID]bool)}
}

// AddNode registers id even if it ends up with no outgoing edges, so
// isolated definitions still appear in TopoSort's output.
func (g *Graph) AddNode(id ir.DefnID) {
	if !g.seen[id] {
		g.seen[id] = true
		g.nodes = append(g.nodes, id)
	}
}

// AddEdge records that from depends on to, adding both as nodes if new.
func (g *Graph) AddEdge(from, to ir.DefnID) {
	g.AddNode(from)
	g.AddNode(to)
	g.edges[from] = append(g.edges[from], to)
}

// FindCycle returns the ids on some cycle reachable from the graph, or
// nil if the graph is acyclic. The cycle starts at the node whose edge
// closes it and follows the DFS path backwards to the node that edge
// points at; nodes are searched in insertion order, so the result is
// deterministic.
func (g *Graph) FindCycle() []ir.DefnID {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[ir.DefnID]int, len(g.nodes))
	var stack []ir.DefnID
	var cycle []ir.DefnID

	var visit func(id ir.DefnID) bool
	visit = func(id ir.DefnID) bool {
		color[id] = gray
		stack = append(stack, id)
		for _, next := range g.edges[id] {
			switch color[next] {
			case white:
				if visit(next) {
					return true
				}
			case gray:
				for i := len(stack) - 1; i >= 0; i-- {
					cycle = append(cycle, stack[i])
					if stack[i] == next {
						break
					}
				}
				return true
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
		return false
	}

	for _, n := range g.nodes {
		if color[n] == white {
			if visit(n) {
				return cycle
			}
		}
	}
	return nil
}

// TopoSort returns the nodes ordered so that every edge from->to places
// to before from (dependencies first). Returns false if the graph has
// a cycle; callers must run FindCycle/report first in that case.
func (g *Graph) TopoSort() ([]ir.DefnID, bool) {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[ir.DefnID]int, len(g.nodes))
	order := make([]ir.DefnID, 0, len(g.nodes))
	ok := true

	var visit func(id ir.DefnID)
	visit = func(id ir.DefnID) {
		color[id] = gray
		for _, next := range g.edges[id] {
			switch color[next] {
			case white:
				visit(next)
			case gray:
				ok = false
			}
		}
		color[id] = black
		order = append(order, id)
	}

	for _, n := range g.nodes {
		if color[n] == white {
			visit(n)
		}
	}
	return order, ok
}
