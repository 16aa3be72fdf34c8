// Package dot renders analysis results as Graphviz DOT: the augmented
// control flow graph, the program structure tree, and the CFG with
// regions drawn as nested clusters.
package dot

import (
	"fmt"
	"sort"
	"strings"

	"github.com/klintqinami/sese-regions/pkg/graph"
	"github.com/klintqinami/sese-regions/pkg/sese"
)

// Options controls what the emitters include.
type Options struct {
	IncludeBack    bool // draw the virtual exit->entry back edge
	IncludeSuper   bool // draw synthetic super-entry/super-exit nodes
	IncludeRoot    bool // draw the root region as an outermost cluster
	ShowEdgeLabels bool // annotate edges with "id:class"
}

// DefaultOptions mirror what the CLI emits unless flags say otherwise.
func DefaultOptions() Options {
	return Options{IncludeSuper: true, ShowEdgeLabels: true}
}

// quoteID escapes and quotes a node identifier.
func quoteID(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// quoteLabel escapes and quotes a label. Line breaks are already encoded
// as literal \n sequences, so only quotes need escaping.
func quoteLabel(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// isSuper reports whether label is a synthetic super-node of the result.
// A user node reused as entry or exit is not synthetic.
func isSuper(res *sese.Result, label string) bool {
	return (label == graph.EntryLabel && res.Entry == label) ||
		(label == graph.ExitLabel && res.Exit == label)
}

func edgeLabel(e sese.EdgeInfo) string {
	label := fmt.Sprintf("%d:%d", e.ID, e.Class)
	if e.Kind != graph.EdgeOriginal {
		label += `\n` + string(e.Kind)
	}
	return label
}

func edgeAttrs(e sese.EdgeInfo, opts Options) []string {
	var attrs []string
	switch e.Kind {
	case graph.EdgeBack:
		attrs = append(attrs, "style=dotted")
	case graph.EdgeEntry, graph.EdgeExit:
		attrs = append(attrs, "style=dashed")
	}
	if opts.ShowEdgeLabels {
		attrs = append(attrs, "label="+quoteLabel(edgeLabel(e)))
	}
	return attrs
}

func visibleEdges(res *sese.Result, opts Options) []sese.EdgeInfo {
	var edges []sese.EdgeInfo
	for _, e := range res.Edges {
		if e.Kind == graph.EdgeBack && !opts.IncludeBack {
			continue
		}
		if !opts.IncludeSuper && (isSuper(res, e.From) || isSuper(res, e.To)) {
			continue
		}
		edges = append(edges, e)
	}
	return edges
}

func writeNode(b *strings.Builder, pad, label string, super bool) {
	if super {
		fmt.Fprintf(b, "%s%s [shape=doublecircle];\n", pad, quoteID(label))
	} else {
		fmt.Fprintf(b, "%s%s;\n", pad, quoteID(label))
	}
}

func writeEdges(b *strings.Builder, edges []sese.EdgeInfo, opts Options) {
	for _, e := range edges {
		attrs := edgeAttrs(e, opts)
		if len(attrs) > 0 {
			fmt.Fprintf(b, "  %s -> %s [%s];\n", quoteID(e.From), quoteID(e.To), strings.Join(attrs, ", "))
		} else {
			fmt.Fprintf(b, "  %s -> %s;\n", quoteID(e.From), quoteID(e.To))
		}
	}
}

// CFG renders the augmented control flow graph.
func CFG(res *sese.Result, opts Options) string {
	edges := visibleEdges(res, opts)

	nodeSet := map[string]bool{}
	for _, e := range edges {
		nodeSet[e.From] = true
		nodeSet[e.To] = true
	}
	nodes := make([]string, 0, len(nodeSet))
	for n := range nodeSet {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)

	var b strings.Builder
	b.WriteString("digraph CFG {\n  rankdir=LR;\n")
	for _, n := range nodes {
		writeNode(&b, "  ", n, isSuper(res, n))
	}
	writeEdges(&b, edges, opts)
	b.WriteString("}\n")
	return b.String()
}

// PST renders the program structure tree, one box per region.
func PST(res *sese.Result) string {
	var b strings.Builder
	b.WriteString("digraph PST {\n  node [shape=box];\n")
	for _, r := range res.Regions {
		label := "root"
		if r.ID != sese.RootRegionID {
			entry := res.Edge(r.EntryArc)
			exit := res.Edge(r.ExitArc)
			label = fmt.Sprintf(`R%d\n%s->%s\n%s->%s`, r.ID, entry.From, entry.To, exit.From, exit.To)
		}
		fmt.Fprintf(&b, "  \"R%d\" [label=%s];\n", r.ID, quoteLabel(label))
	}
	for _, r := range res.Regions {
		if r.ID == sese.RootRegionID {
			continue
		}
		fmt.Fprintf(&b, "  \"R%d\" -> \"R%d\";\n", r.ParentID, r.ID)
	}
	b.WriteString("}\n")
	return b.String()
}

// CFGWithRegions renders the CFG with each region drawn as a nested
// cluster. Every node is placed in the deepest region containing it.
func CFGWithRegions(res *sese.Result, opts Options) string {
	depth := map[int]int{sese.RootRegionID: 0}
	for _, r := range res.Regions { // pre-order: parents first
		if r.ID != sese.RootRegionID {
			depth[r.ID] = depth[r.ParentID] + 1
		}
	}

	// Deepest region wins a node; walk regions deep-to-shallow.
	order := make([]sese.Region, len(res.Regions))
	copy(order, res.Regions)
	sort.SliceStable(order, func(i, j int) bool {
		return depth[order[i].ID] > depth[order[j].ID]
	})
	assigned := map[string]int{}
	for _, r := range order {
		if r.ID == sese.RootRegionID {
			continue
		}
		for _, n := range r.Nodes {
			if !opts.IncludeSuper && isSuper(res, n) {
				continue
			}
			if _, ok := assigned[n]; !ok {
				assigned[n] = r.ID
			}
		}
	}

	edges := visibleEdges(res, opts)
	nodeSet := map[string]bool{}
	for _, e := range edges {
		nodeSet[e.From] = true
		nodeSet[e.To] = true
	}

	ownNodes := map[int][]string{}
	var loose []string
	for n := range nodeSet {
		if rid, ok := assigned[n]; ok {
			ownNodes[rid] = append(ownNodes[rid], n)
		} else if opts.IncludeRoot {
			ownNodes[sese.RootRegionID] = append(ownNodes[sese.RootRegionID], n)
		} else {
			loose = append(loose, n)
		}
	}
	for _, ns := range ownNodes {
		sort.Strings(ns)
	}
	sort.Strings(loose)

	children := map[int][]int{}
	for _, r := range res.Regions {
		if r.ID != sese.RootRegionID {
			children[r.ParentID] = append(children[r.ParentID], r.ID)
		}
	}
	for _, k := range children {
		sort.Ints(k)
	}

	var b strings.Builder
	b.WriteString("digraph CFG {\n  rankdir=LR;\n")

	var emit func(rid, indent int)
	emit = func(rid, indent int) {
		pad := strings.Repeat("  ", indent)
		fmt.Fprintf(&b, "%ssubgraph \"cluster_R%d\" {\n", pad, rid)
		fmt.Fprintf(&b, "%s  label=\"R%d\";\n", pad, rid)
		for _, n := range ownNodes[rid] {
			writeNode(&b, pad+"  ", n, isSuper(res, n))
		}
		for _, c := range children[rid] {
			emit(c, indent+1)
		}
		fmt.Fprintf(&b, "%s}\n", pad)
	}

	if opts.IncludeRoot {
		emit(sese.RootRegionID, 1)
	} else {
		for _, c := range children[sese.RootRegionID] {
			emit(c, 1)
		}
	}
	for _, n := range loose {
		writeNode(&b, "  ", n, isSuper(res, n))
	}
	writeEdges(&b, edges, opts)
	b.WriteString("}\n")
	return b.String()
}
