package graph

import (
	"errors"
	"strconv"
	"testing"
)

func TestBuildDependencyGraph(t *testing.T) {
	g, err := BuildDependencyGraph(map[string][]string{
		"b": {"a"},
		"c": {"b"},
		"d": nil,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.NodeCount() != 4 {
		t.Errorf("expected 4 nodes, got %d", g.NodeCount())
	}
	if !g.HasEdge("c", "b") || !g.HasEdge("b", "a") {
		t.Error("expected listed edges to exist")
	}
}

func TestBuildDependencyGraph_CycleSurfaced(t *testing.T) {
	_, err := BuildDependencyGraph(map[string][]string{
		"a": {"b"},
		"b": {"a"},
	})
	if err == nil {
		t.Fatal("expected cycle error")
	}
	var ce *CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("expected wrapped *CycleError, got %v", err)
	}
	t.Logf("build error (expected): %v", err)
}

func TestTransitiveClosures(t *testing.T) {
	// d -> c -> b -> a, plus d -> b shortcut
	g := NewDependencyGraph()
	g.AddEdge("d", "c")
	g.AddEdge("c", "b")
	g.AddEdge("b", "a")
	g.AddEdge("d", "b")

	deps := TransitiveDependencies(g, "d")
	for _, id := range []string{"a", "b", "c"} {
		if !deps[id] {
			t.Errorf("expected %s in transitive dependencies of d, got %v", id, deps)
		}
	}
	if deps["d"] {
		t.Error("closure must exclude the start node")
	}

	dependents := TransitiveDependents(g, "a")
	for _, id := range []string{"b", "c", "d"} {
		if !dependents[id] {
			t.Errorf("expected %s in transitive dependents of a, got %v", id, dependents)
		}
	}

	if n := len(TransitiveDependencies(g, "ghost")); n != 0 {
		t.Errorf("unknown id should yield empty closure, got %d entries", n)
	}
}

func TestTransitiveDependencies_DeepChain(t *testing.T) {
	g := NewDependencyGraph()
	prev := "n0"
	for i := 1; i <= 5000; i++ {
		cur := "n" + strconv.Itoa(i)
		g.AddEdgeUnchecked(cur, prev)
		prev = cur
	}
	deps := TransitiveDependencies(g, prev)
	if len(deps) != 5000 {
		t.Errorf("expected 5000 transitive dependencies, got %d", len(deps))
	}
}
