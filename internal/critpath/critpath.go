// Package critpath finds the longest chain of incomplete,
// dependency-linked work items. Every call is a from-scratch rebuild:
// item graphs here are small, so O(V+E) recomputation beats the
// complexity of incremental DAG maintenance.
package critpath

import (
	"sort"

	"github.com/khartley/linchpin/internal/graph"
	"github.com/khartley/linchpin/internal/item"
)

// Calculate computes the critical path over the incomplete
// task/decision items in the collection. It returns Empty when no
// incomplete items exist, when the incomplete subgraph has no edges,
// or when a cycle in the source data prevents a full topological
// order.
func Calculate(items map[string]item.Item) *Result {
	g, skipped := Subgraph(items)
	if g.IsEmpty() || g.EdgeCount() == 0 {
		return Empty
	}

	sorted := graph.TopologicalSort(g)
	if !sorted.OK {
		// A cycle survived edge-skipping and spans the subgraph; the
		// critical path is undefined, so report no path at all.
		return Empty
	}

	dist, pred := longestPath(g, sorted.Sorted)

	end, best := "", 0
	for _, id := range sorted.Sorted {
		if dist[id] > best {
			best = dist[id]
			end = id
		}
	}
	if best == 0 {
		return Empty
	}

	// Walk predecessor pointers back from the deepest dependent, then
	// reverse so the path reads earliest dependency first.
	var rev []string
	for id := end; ; {
		rev = append(rev, id)
		p, ok := pred[id]
		if !ok {
			break
		}
		id = p
	}

	r := &Result{
		NodeIDs:      make(map[string]bool, len(rev)),
		EdgeKeys:     make(map[string]bool, len(rev)),
		Length:       len(rev),
		HasPath:      true,
		SkippedEdges: skipped,
	}
	for i := len(rev) - 1; i >= 0; i-- {
		id := rev[i]
		it := items[id]
		pos := len(rev) - 1 - i
		r.Nodes = append(r.Nodes, PathNode{
			ID:       id,
			Title:    it.Title,
			Kind:     it.Kind,
			Status:   it.Status,
			Position: pos,
		})
		r.NodeIDs[id] = true
		if pos > 0 {
			r.EdgeKeys[edgeKey(r.Nodes[pos-1].ID, id)] = true
		}
	}
	return r
}

// Subgraph builds the dependency graph containing only incomplete
// task/decision items. Edges point task -> dependency and are added
// only when the dependency is itself incomplete — completed items and
// non-participating kinds drop out, as if the chain passed straight
// through them. An edge that would close a cycle is skipped and
// reported rather than failing the build, so legacy data with cycles
// degrades instead of crashing.
func Subgraph(items map[string]item.Item) (*graph.DependencyGraph, []SkippedEdge) {
	incomplete := make(map[string]bool)
	for id, it := range items {
		if it.Incomplete() {
			incomplete[id] = true
		}
	}

	g := graph.NewDependencyGraph()
	ids := make([]string, 0, len(incomplete))
	for id := range incomplete {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		g.AddNode(id)
	}

	var skipped []SkippedEdge
	for _, id := range ids {
		it := items[id]
		if it.Kind != item.KindTask {
			continue
		}
		for _, dep := range it.DependsOn {
			if !incomplete[dep] {
				continue
			}
			if _, err := g.AddEdge(id, dep); err != nil {
				skipped = append(skipped, SkippedEdge{From: id, To: dep, Reason: err.Error()})
			}
		}
	}
	return g, skipped
}

// longestPath runs the standard longest-path-in-DAG dynamic program.
// Every node starts at distance 1; walking the topological order, each
// node proposes distance+1 to its dependents. Strictly-greater updates
// mean the first-discovered path wins ties.
func longestPath(g *graph.DependencyGraph, order []string) (map[string]int, map[string]string) {
	dist := make(map[string]int, len(order))
	pred := make(map[string]string)
	for _, id := range order {
		dist[id] = 1
	}
	for _, id := range order {
		for _, dep := range g.Dependents(id) {
			if dist[id]+1 > dist[dep] {
				dist[dep] = dist[id] + 1
				pred[dep] = id
			}
		}
	}
	return dist, pred
}

// NonCriticalIncomplete returns the ids of incomplete task/decision
// items that are not on the critical path — the parallelizable slack
// work. Sorted for stable output.
func NonCriticalIncomplete(items map[string]item.Item, r *Result) []string {
	var ids []string
	for id, it := range items {
		if it.Incomplete() && !r.NodeIDs[id] {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Slack maps every incomplete task/decision id to a slack value:
// 0 on the critical path, a flat 1 everywhere else. This is a
// deliberate placeholder, not an earliest/latest-finish computation;
// it only distinguishes "delaying this delays everything" from
// "this has room".
func Slack(items map[string]item.Item, r *Result) map[string]int {
	slack := make(map[string]int)
	for id, it := range items {
		if !it.Incomplete() {
			continue
		}
		if r.NodeIDs[id] {
			slack[id] = 0
		} else {
			slack[id] = 1
		}
	}
	return slack
}

// Levels groups incomplete items into parallelizable waves by their
// longest-path depth: everything at level i only depends on items in
// earlier levels. Returns nil when there is nothing to group or the
// subgraph cannot be ordered.
func Levels(items map[string]item.Item) [][]string {
	g, _ := Subgraph(items)
	if g.IsEmpty() {
		return nil
	}
	sorted := graph.TopologicalSort(g)
	if !sorted.OK {
		return nil
	}
	dist, _ := longestPath(g, sorted.Sorted)

	max := 0
	for _, d := range dist {
		if d > max {
			max = d
		}
	}
	levels := make([][]string, max)
	for _, id := range sorted.Sorted {
		levels[dist[id]-1] = append(levels[dist[id]-1], id)
	}
	for i := range levels {
		sort.Strings(levels[i])
	}
	return levels
}
