package critpath

import "github.com/khartley/linchpin/internal/item"

// PathNode is one item on the critical path. Position is the
// 0-indexed place along the path, earliest dependency first — not the
// raw longest-path distance.
type PathNode struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Kind     item.Kind `json:"kind"`
	Status   string    `json:"status"`
	Position int       `json:"position"`
}

// SkippedEdge records a dependency edge dropped while building the
// subgraph because it would have closed a cycle. The computation
// proceeds on the partial graph; callers may surface these for
// diagnostics.
type SkippedEdge struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Reason string `json:"reason"`
}

// Result is the immutable outcome of one critical-path computation.
type Result struct {
	Nodes        []PathNode      `json:"nodes"`
	NodeIDs      map[string]bool `json:"-"`
	EdgeKeys     map[string]bool `json:"-"`
	Length       int             `json:"length"`
	HasPath      bool            `json:"has_path"`
	SkippedEdges []SkippedEdge   `json:"skipped_edges,omitempty"`
}

// Empty is the canonical no-path result, shared so callers can test
// "nothing to recompute" by pointer identity. Never mutate it.
var Empty = &Result{
	NodeIDs:  map[string]bool{},
	EdgeKeys: map[string]bool{},
}

// OnPath reports whether id lies on the critical path.
func (r *Result) OnPath(id string) bool {
	return r.NodeIDs[id]
}

// EdgeOnPath reports whether the directed edge from -> to lies on the
// critical path. Direction matters: the reverse pair never matches.
func (r *Result) EdgeOnPath(from, to string) bool {
	return r.EdgeKeys[edgeKey(from, to)]
}

// Position returns the 0-indexed path position of id, or -1 if the
// item is not on the path.
func (r *Result) Position(id string) int {
	for _, n := range r.Nodes {
		if n.ID == id {
			return n.Position
		}
	}
	return -1
}

func edgeKey(from, to string) string {
	return from + "->" + to
}
