package graph

import (
	"fmt"
	"sort"
)

// BuildDependencyGraph constructs a validated graph from a mapping of
// id -> dependency ids. Every listed edge is inserted with cycle
// validation on; the first violation aborts the build with the
// *CycleError wrapped in build context (errors.As still reaches it).
// Edges are inserted in sorted order so the same input always fails on
// the same edge.
func BuildDependencyGraph(deps map[string][]string) (*DependencyGraph, error) {
	g := NewDependencyGraph()

	ids := make([]string, 0, len(deps))
	for id := range deps {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		g.AddNode(id)
		for _, dep := range deps[id] {
			if _, err := g.AddEdge(id, dep); err != nil {
				return nil, fmt.Errorf("build dependency graph: %w", err)
			}
		}
	}
	return g, nil
}

// TransitiveDependencies returns the full ancestor closure of id —
// everything it depends on directly or indirectly — excluding id
// itself. Unknown ids yield an empty set.
func TransitiveDependencies(g *DependencyGraph, id string) map[string]bool {
	return closure(g, id, g.Dependencies)
}

// TransitiveDependents returns the full descendant closure of id —
// everything that depends on it directly or indirectly — excluding id
// itself.
func TransitiveDependents(g *DependencyGraph, id string) map[string]bool {
	return closure(g, id, g.Dependents)
}

// closure walks with an explicit stack; deep chains must not grow the
// call stack.
func closure(g *DependencyGraph, id string, next func(string) []string) map[string]bool {
	seen := make(map[string]bool)
	stack := []string{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, n := range next(cur) {
			if !seen[n] {
				seen[n] = true
				stack = append(stack, n)
			}
		}
	}
	delete(seen, id)
	return seen
}
