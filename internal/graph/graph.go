package graph

import (
	"fmt"
	"sort"
	"strings"
)

// DependencyGraph is a directed acyclic graph over opaque string ids.
// An edge from -> to means "from depends on to": to must complete
// before from. The incoming map is maintained as the exact inverse of
// outgoing after every mutation, and with validation enabled the
// structure is always a valid DAG at rest.
type DependencyGraph struct {
	nodes    map[string]bool
	outgoing map[string]map[string]bool // id -> ids it depends on
	incoming map[string]map[string]bool // id -> ids that depend on it
}

// Edge is a single directed dependency edge.
type Edge struct {
	From string
	To   string
}

// CycleError reports an edge insertion that would close a dependency
// loop. Path is the discovered loop in forward order, starting and
// ending at the offending edge's source.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle: %s", strings.Join(e.Path, " -> "))
}

// NewDependencyGraph creates an empty graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		nodes:    make(map[string]bool),
		outgoing: make(map[string]map[string]bool),
		incoming: make(map[string]map[string]bool),
	}
}

// NewDependencyGraphFrom creates a defensive deep copy of other.
func NewDependencyGraphFrom(other *DependencyGraph) *DependencyGraph {
	return other.Clone()
}

// AddNode adds a node if absent and reports whether it was newly added.
func (g *DependencyGraph) AddNode(id string) bool {
	if g.nodes[id] {
		return false
	}
	g.nodes[id] = true
	return true
}

// RemoveNode removes the node and every edge touching it in either
// direction. Reports whether anything was removed.
func (g *DependencyGraph) RemoveNode(id string) bool {
	if !g.nodes[id] {
		return false
	}
	for to := range g.outgoing[id] {
		delete(g.incoming[to], id)
	}
	for from := range g.incoming[id] {
		delete(g.outgoing[from], id)
	}
	delete(g.outgoing, id)
	delete(g.incoming, id)
	delete(g.nodes, id)
	return true
}

// HasNode reports whether id is a graph member.
func (g *DependencyGraph) HasNode(id string) bool {
	return g.nodes[id]
}

// Nodes returns all node ids in sorted order.
func (g *DependencyGraph) Nodes() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// AddEdge inserts the edge from -> to after a cycle pre-check. Both
// endpoints are auto-created as nodes. A duplicate edge is a no-op
// reporting false with no cycle check. If inserting the edge would
// close a loop (a self-loop counts), nothing is inserted and a
// *CycleError carrying the loop path is returned, leaving the graph
// exactly as it was.
func (g *DependencyGraph) AddEdge(from, to string) (bool, error) {
	g.AddNode(from)
	g.AddNode(to)
	if g.outgoing[from][to] {
		return false, nil
	}
	if cycle := g.CheckCycle(from, to); cycle != nil {
		return false, &CycleError{Path: cycle}
	}
	g.insert(from, to)
	return true, nil
}

// AddEdgeUnchecked inserts the edge without cycle validation. Nodes
// are still auto-created; self-loops and duplicates are silently
// reported as not added. The caller takes responsibility for keeping
// the graph acyclic.
func (g *DependencyGraph) AddEdgeUnchecked(from, to string) bool {
	g.AddNode(from)
	g.AddNode(to)
	if from == to || g.outgoing[from][to] {
		return false
	}
	g.insert(from, to)
	return true
}

func (g *DependencyGraph) insert(from, to string) {
	if g.outgoing[from] == nil {
		g.outgoing[from] = make(map[string]bool)
	}
	g.outgoing[from][to] = true
	if g.incoming[to] == nil {
		g.incoming[to] = make(map[string]bool)
	}
	g.incoming[to][from] = true
}

// RemoveEdge removes the edge if present. Nodes remain even with zero
// edges left.
func (g *DependencyGraph) RemoveEdge(from, to string) bool {
	if !g.outgoing[from][to] {
		return false
	}
	delete(g.outgoing[from], to)
	delete(g.incoming[to], from)
	return true
}

// HasEdge reports whether the edge from -> to exists.
func (g *DependencyGraph) HasEdge(from, to string) bool {
	return g.outgoing[from][to]
}

// Edges returns every edge as a {From, To} pair, sorted for
// deterministic output.
func (g *DependencyGraph) Edges() []Edge {
	var edges []Edge
	for from, tos := range g.outgoing {
		for to := range tos {
			edges = append(edges, Edge{From: from, To: to})
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
	return edges
}

// Dependencies returns the nodes id points to (what id depends on),
// sorted. Unknown ids yield an empty slice.
func (g *DependencyGraph) Dependencies(id string) []string {
	return sortedKeys(g.outgoing[id])
}

// Dependents returns the nodes pointing to id (what depends on id),
// sorted. Unknown ids yield an empty slice.
func (g *DependencyGraph) Dependents(id string) []string {
	return sortedKeys(g.incoming[id])
}

func sortedKeys(set map[string]bool) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// CheckCycle is a read-only pre-check: would inserting from -> to
// close a loop in the current graph? It walks the existing dependency
// chain forward from to; if that walk can reach from, the new edge
// would complete a cycle. Returns the loop path (from, to, ..., from)
// or nil. A self-loop is a cycle of length one, reported as [from, to].
func (g *DependencyGraph) CheckCycle(from, to string) []string {
	if from == to {
		return []string{from, to}
	}
	// A node nobody references yet cannot lead anywhere.
	if !g.nodes[to] {
		return nil
	}

	// Iterative DFS to stay safe on deep chains. The visited set keeps
	// diamond-shaped graphs from blowing up; the first discovered path
	// wins, not necessarily the shortest.
	parent := map[string]string{to: ""}
	stack := []string{to}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range g.Dependencies(cur) {
			if _, seen := parent[next]; seen {
				continue
			}
			parent[next] = cur
			if next == from {
				// Reconstruct to -> ... -> from, then close the loop
				// at the front so the path reads from -> to -> ... -> from.
				var rev []string
				for n := from; n != ""; n = parent[n] {
					rev = append(rev, n)
				}
				path := make([]string, 0, len(rev)+1)
				path = append(path, from)
				for i := len(rev) - 1; i >= 0; i-- {
					path = append(path, rev[i])
				}
				return path
			}
			stack = append(stack, next)
		}
	}
	return nil
}

// Clone returns a deep, independent copy. Mutating the clone never
// affects the original and vice versa.
func (g *DependencyGraph) Clone() *DependencyGraph {
	c := NewDependencyGraph()
	for id := range g.nodes {
		c.nodes[id] = true
	}
	for from, tos := range g.outgoing {
		for to := range tos {
			c.insert(from, to)
		}
	}
	return c
}

// Clear removes all nodes and edges.
func (g *DependencyGraph) Clear() {
	g.nodes = make(map[string]bool)
	g.outgoing = make(map[string]map[string]bool)
	g.incoming = make(map[string]map[string]bool)
}

// IsEmpty reports whether the graph has no nodes.
func (g *DependencyGraph) IsEmpty() bool {
	return len(g.nodes) == 0
}

// NodeCount returns the number of nodes.
func (g *DependencyGraph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *DependencyGraph) EdgeCount() int {
	n := 0
	for _, tos := range g.outgoing {
		n += len(tos)
	}
	return n
}
