// Package reporter renders critical-path analysis for terminal, JSON,
// and Graphviz consumers.
package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/khartley/linchpin/internal/critpath"
	"github.com/khartley/linchpin/internal/graph"
	"github.com/khartley/linchpin/internal/item"
	"github.com/khartley/linchpin/internal/ui"
)

// Reporter holds one computed analysis over an item collection.
type Reporter struct {
	Items  map[string]item.Item
	Result *critpath.Result
	Levels [][]string
}

// New computes derived views (levels) and returns a Reporter.
func New(items map[string]item.Item, result *critpath.Result) *Reporter {
	return &Reporter{
		Items:  items,
		Result: result,
		Levels: critpath.Levels(items),
	}
}

// PrintReport writes the human-readable analysis.
func (r *Reporter) PrintReport(w io.Writer) {
	fmt.Fprintf(w, "%s\n", ui.BoldCyan("Linchpin Critical Path"))
	fmt.Fprintln(w, ui.Cyan("══════════════════════"))
	fmt.Fprintln(w)

	if !r.Result.HasPath {
		fmt.Fprintf(w, "%s\n", ui.Dim("No critical path — no linked incomplete work."))
		r.printNonCritical(w)
		return
	}

	var ids []string
	for _, n := range r.Result.Nodes {
		ids = append(ids, n.ID)
	}
	fmt.Fprintf(w, "⚡ %s %s (%d items)\n\n",
		ui.BoldYellow("Path:"), strings.Join(ids, " → "), r.Result.Length)

	for _, n := range r.Result.Nodes {
		fmt.Fprintf(w, "  %2d. %s %s %s  %s\n",
			n.Position, ui.StatusIcon(n.Status), ui.BoldMagenta(n.ID), n.Title, ui.KindBadge(string(n.Kind)))
	}

	if len(r.Levels) > 0 {
		fmt.Fprintf(w, "\n%s\n", ui.BoldWhite("Parallelizable levels:"))
		for i, level := range r.Levels {
			marked := make([]string, len(level))
			for j, id := range level {
				if r.Result.OnPath(id) {
					marked[j] = ui.BoldYellow(id)
				} else {
					marked[j] = id
				}
			}
			fmt.Fprintf(w, "  %s %d: %s\n", ui.Dim("level"), i+1, strings.Join(marked, ", "))
		}
	}

	r.printNonCritical(w)

	if len(r.Result.SkippedEdges) > 0 {
		fmt.Fprintf(w, "\n%s %d dependency edges skipped (cycles in source data):\n",
			ui.Yellow("⚠"), len(r.Result.SkippedEdges))
		for _, e := range r.Result.SkippedEdges {
			fmt.Fprintf(w, "  %s %s -> %s: %s\n", ui.Dim("↷"), e.From, e.To, ui.Dim(e.Reason))
		}
	}
}

func (r *Reporter) printNonCritical(w io.Writer) {
	slackIDs := critpath.NonCriticalIncomplete(r.Items, r.Result)
	if len(slackIDs) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n", ui.BoldWhite("Off the path (has slack):"))
	for _, id := range slackIDs {
		it := r.Items[id]
		fmt.Fprintf(w, "  %s %s %s  %s\n",
			ui.StatusIcon(it.Status), ui.Magenta(id), it.Title, ui.KindBadge(string(it.Kind)))
	}
}

// jsonReport is the machine-readable shape of one analysis.
type jsonReport struct {
	HasPath      bool                   `json:"has_path"`
	Length       int                    `json:"length"`
	Path         []critpath.PathNode    `json:"path"`
	NonCritical  []string               `json:"non_critical_incomplete"`
	Slack        map[string]int         `json:"slack"`
	Levels       [][]string             `json:"levels,omitempty"`
	SkippedEdges []critpath.SkippedEdge `json:"skipped_edges,omitempty"`
}

// JSON returns the analysis as indented JSON.
func (r *Reporter) JSON() ([]byte, error) {
	rep := jsonReport{
		HasPath:      r.Result.HasPath,
		Length:       r.Result.Length,
		Path:         r.Result.Nodes,
		NonCritical:  critpath.NonCriticalIncomplete(r.Items, r.Result),
		Slack:        critpath.Slack(r.Items, r.Result),
		Levels:       r.Levels,
		SkippedEdges: r.Result.SkippedEdges,
	}
	return json.MarshalIndent(rep, "", "  ")
}

// WriteDOT renders the incomplete-item subgraph as Graphviz DOT with
// the critical path highlighted.
func (r *Reporter) WriteDOT(w io.Writer) {
	g, _ := critpath.Subgraph(r.Items)

	fmt.Fprintln(w, "digraph linchpin {")
	fmt.Fprintln(w, "  rankdir=LR;")
	fmt.Fprintln(w, "  node [shape=box, style=rounded];")
	fmt.Fprintln(w)

	for _, id := range g.Nodes() {
		it := r.Items[id]
		label := fmt.Sprintf("%s\\n%s", id, it.Title)
		attrs := fmt.Sprintf(`label="%s"`, label)
		if r.Result.OnPath(id) {
			attrs += `, style="rounded,bold", color=red`
		}
		fmt.Fprintf(w, "  %q [%s];\n", id, attrs)
	}

	fmt.Fprintln(w)

	// Graph edges run task -> dependency; draw them dependency-first
	// so the diagram flows in execution order.
	for _, e := range g.Edges() {
		style := ""
		if r.Result.EdgeOnPath(e.To, e.From) {
			style = " [color=red, penwidth=2]"
		}
		fmt.Fprintf(w, "  %q -> %q%s;\n", e.To, e.From, style)
	}
	fmt.Fprintln(w, "}")
}

// PrintASCII renders the incomplete-item DAG as an indented tree by
// level, with dependents listed under each item.
func (r *Reporter) PrintASCII(w io.Writer) {
	g, _ := critpath.Subgraph(r.Items)

	fmt.Fprintf(w, "🔗 %s\n", ui.BoldCyan("Dependency Graph"))
	fmt.Fprintln(w, ui.Cyan("══════════════════"))
	fmt.Fprintln(w)

	if len(r.Levels) == 0 {
		fmt.Fprintf(w, "%s\n", ui.Dim("No incomplete items."))
		return
	}

	for i, level := range r.Levels {
		fmt.Fprintf(w, "%s level %d %s\n", ui.Cyan("──"), i+1, ui.Cyan("──────────────"))
		for _, id := range level {
			crit := " "
			if r.Result.OnPath(id) {
				crit = ui.BoldYellow("⚡")
			}
			it := r.Items[id]
			fmt.Fprintf(w, "  %s [%s] %s\n", crit, ui.BoldMagenta(id), it.Title)
			for _, dep := range g.Dependents(id) {
				fmt.Fprintf(w, "      %s %s\n", ui.Dim("└──→"), ui.Magenta(dep))
			}
		}
		fmt.Fprintln(w)
	}
}

// CheckReport prints the outcome of a full-graph cycle check. Returns
// the first cycle error encountered, or nil when the graph is sound.
func CheckReport(w io.Writer, items map[string]item.Item) error {
	deps := make(map[string][]string, len(items))
	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		it := items[id]
		var declared []string
		for _, dep := range it.DependsOn {
			if _, ok := items[dep]; ok {
				declared = append(declared, dep)
			}
		}
		deps[id] = declared
	}

	g, err := graph.BuildDependencyGraph(deps)
	if err != nil {
		fmt.Fprintf(w, "%s %v\n", ui.BoldRed("✗"), err)
		return err
	}
	fmt.Fprintf(w, "%s %d items, %d dependency edges, no cycles\n",
		ui.BoldGreen("✓"), g.NodeCount(), g.EdgeCount())
	return nil
}
