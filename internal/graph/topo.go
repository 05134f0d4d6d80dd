package graph

import "sort"

// SortResult is the outcome of a topological sort. When OK is false
// the graph contains a cycle and Cycle lists the nodes whose pending
// dependency count never reached zero — every node blocked by the
// cycle, not just its members.
type SortResult struct {
	OK     bool
	Sorted []string
	Cycle  []string
}

// TopologicalSort orders the graph so that every dependency appears
// before every node that depends on it (Kahn's algorithm). The pending
// count per node is its dependency count — its outgoing edges — so a
// node becomes ready once everything it depends on has been emitted.
// Ties among ready nodes resolve in sorted id order for determinism.
func TopologicalSort(g *DependencyGraph) SortResult {
	pending := make(map[string]int, len(g.nodes))
	for id := range g.nodes {
		pending[id] = len(g.outgoing[id])
	}

	var queue []string
	for id, n := range pending {
		if n == 0 {
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)

	sorted := make([]string, 0, len(g.nodes))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		sorted = append(sorted, id)

		var ready []string
		for _, dep := range g.Dependents(id) {
			pending[dep]--
			if pending[dep] == 0 {
				ready = append(ready, dep)
			}
		}
		sort.Strings(ready)
		queue = append(queue, ready...)
	}

	if len(sorted) != len(g.nodes) {
		var blocked []string
		for id, n := range pending {
			if n > 0 {
				blocked = append(blocked, id)
			}
		}
		sort.Strings(blocked)
		return SortResult{Sorted: sorted, Cycle: blocked}
	}
	return SortResult{OK: true, Sorted: sorted}
}
