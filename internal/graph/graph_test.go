package graph

import (
	"testing"

	"github.com/vellumlang/vellum/internal/ir"
)

func TestTopoSortOrdersDependenciesFirst(t *testing.T) {
	a, b, c := ir.NewDefnID(), ir.NewDefnID(), ir.NewDefnID()
	g := New()
	// a depends on b, b depends on c: c must come before b before a.
	g.AddEdge(a, b)
	g.AddEdge(b, c)

	order, ok := g.TopoSort()
	if !ok {
		t.Fatalf("expected acyclic graph, got a reported cycle")
	}
	index := make(map[ir.DefnID]int, len(order))
	for i, id := range order {
		index[id] = i
	}
	if index[c] >= index[b] {
		t.Errorf("expected c before b, got order %v", order)
	}
	if index[b] >= index[a] {
		t.Errorf("expected b before a, got order %v", order)
	}
}

func TestTopoSortIsolatedNodeIncluded(t *testing.T) {
	a, b := ir.NewDefnID(), ir.NewDefnID()
	g := New()
	g.AddNode(a)
	g.AddEdge(b, a)

	order, ok := g.TopoSort()
	if !ok {
		t.Fatalf("expected acyclic graph")
	}
	if len(order) != 2 {
		t.Fatalf("expected both nodes in topo order, got %v", order)
	}
}

func TestTopoSortReportsCycle(t *testing.T) {
	a, b := ir.NewDefnID(), ir.NewDefnID()
	g := New()
	g.AddEdge(a, b)
	g.AddEdge(b, a)

	if _, ok := g.TopoSort(); ok {
		t.Fatalf("expected cycle to be reported, got ok=true")
	}
}

func TestFindCycleNilOnAcyclicGraph(t *testing.T) {
	a, b, c := ir.NewDefnID(), ir.NewDefnID(), ir.NewDefnID()
	g := New()
	g.AddEdge(a, b)
	g.AddEdge(b, c)

	if cycle := g.FindCycle(); cycle != nil {
		t.Fatalf("expected no cycle, got %v", cycle)
	}
}

func TestFindCycleDirectSelfLoop(t *testing.T) {
	a := ir.NewDefnID()
	g := New()
	g.AddEdge(a, a)

	cycle := g.FindCycle()
	if len(cycle) == 0 {
		t.Fatalf("expected a self-loop to be reported as a cycle")
	}
	if cycle[0] != a {
		t.Errorf("expected cycle to contain %v, got %v", a, cycle)
	}
}

func TestFindCycleThreeNodeLoop(t *testing.T) {
	a, b, c := ir.NewDefnID(), ir.NewDefnID(), ir.NewDefnID()
	g := New()
	g.AddEdge(a, b)
	g.AddEdge(b, c)
	g.AddEdge(c, a)

	cycle := g.FindCycle()
	if len(cycle) != 3 {
		t.Fatalf("expected a 3-node cycle, got %v", cycle)
	}
	seen := map[ir.DefnID]bool{}
	for _, id := range cycle {
		seen[id] = true
	}
	for _, id := range []ir.DefnID{a, b, c} {
		if !seen[id] {
			t.Errorf("expected cycle to include %v, got %v", id, cycle)
		}
	}
}

func TestAddNodeWithoutEdgesSurvivesTopoSort(t *testing.T) {
	a := ir.NewDefnID()
	g := New()
	g.AddNode(a)
	g.AddNode(a) // idempotent

	order, ok := g.TopoSort()
	if !ok || len(order) != 1 || order[0] != a {
		t.Fatalf("expected single-node topo order [%v], got %v (ok=%v)", a, order, ok)
	}
}
