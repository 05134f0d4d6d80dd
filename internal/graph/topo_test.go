package graph

import "testing"

// assertTopoSound checks that every dependency precedes its dependents
// in the sorted order. Tests must not assume a unique total order.
func assertTopoSound(t *testing.T, g *DependencyGraph, sorted []string) {
	t.Helper()
	index := make(map[string]int, len(sorted))
	for i, id := range sorted {
		index[id] = i
	}
	for _, e := range g.Edges() {
		// e.From depends on e.To, so e.To must come first.
		if index[e.To] >= index[e.From] {
			t.Errorf("dependency %s should precede %s in %v", e.To, e.From, sorted)
		}
	}
}

func TestTopologicalSort_Empty(t *testing.T) {
	res := TopologicalSort(NewDependencyGraph())
	if !res.OK {
		t.Error("empty graph should sort successfully")
	}
	if len(res.Sorted) != 0 {
		t.Errorf("expected empty order, got %v", res.Sorted)
	}
}

func TestTopologicalSort_Chain(t *testing.T) {
	// c depends on b depends on a
	g := NewDependencyGraph()
	g.AddEdge("c", "b")
	g.AddEdge("b", "a")

	res := TopologicalSort(g)
	if !res.OK {
		t.Fatalf("unexpected failure: %v", res.Cycle)
	}
	want := []string{"a", "b", "c"}
	if len(res.Sorted) != len(want) {
		t.Fatalf("expected %v, got %v", want, res.Sorted)
	}
	for i, id := range want {
		if res.Sorted[i] != id {
			t.Fatalf("expected %v, got %v", want, res.Sorted)
		}
	}
}

func TestTopologicalSort_Diamond(t *testing.T) {
	g := NewDependencyGraph()
	g.AddEdge("d", "b")
	g.AddEdge("d", "c")
	g.AddEdge("b", "a")
	g.AddEdge("c", "a")

	res := TopologicalSort(g)
	if !res.OK {
		t.Fatalf("unexpected failure: %v", res.Cycle)
	}
	if len(res.Sorted) != 4 {
		t.Fatalf("expected 4 nodes in order, got %v", res.Sorted)
	}
	assertTopoSound(t, g, res.Sorted)
}

func TestTopologicalSort_DisconnectedAndIsolated(t *testing.T) {
	g := NewDependencyGraph()
	g.AddEdge("b", "a") // component 1
	g.AddEdge("y", "x") // component 2
	g.AddNode("lone")   // isolated, edgeless

	res := TopologicalSort(g)
	if !res.OK {
		t.Fatalf("unexpected failure: %v", res.Cycle)
	}
	if len(res.Sorted) != 5 {
		t.Fatalf("expected all 5 nodes, got %v", res.Sorted)
	}
	assertTopoSound(t, g, res.Sorted)
}

func TestTopologicalSort_MultipleRootsAndLeaves(t *testing.T) {
	// e depends on a and b; f depends on b and c
	g := NewDependencyGraph()
	g.AddEdge("e", "a")
	g.AddEdge("e", "b")
	g.AddEdge("f", "b")
	g.AddEdge("f", "c")

	res := TopologicalSort(g)
	if !res.OK {
		t.Fatalf("unexpected failure: %v", res.Cycle)
	}
	assertTopoSound(t, g, res.Sorted)
}

func TestTopologicalSort_CycleReportsBlocked(t *testing.T) {
	g := NewDependencyGraph()
	g.AddEdgeUnchecked("a", "b")
	g.AddEdgeUnchecked("b", "c")
	g.AddEdgeUnchecked("c", "a")
	g.AddEdgeUnchecked("d", "a") // blocked by the cycle, not a member

	res := TopologicalSort(g)
	if res.OK {
		t.Fatal("expected sort to fail on a cyclic graph")
	}
	blocked := make(map[string]bool)
	for _, id := range res.Cycle {
		blocked[id] = true
	}
	for _, id := range []string{"a", "b", "c", "d"} {
		if !blocked[id] {
			t.Errorf("expected %s in blocked set, got %v", id, res.Cycle)
		}
	}
}
