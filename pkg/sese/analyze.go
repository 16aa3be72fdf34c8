package sese

import (
	"fmt"
	"sort"
	"strings"

	"github.com/klintqinami/sese-regions/pkg/graph"
)

// Analyze augments g, computes cycle equivalence over the undirected
// view, and returns the regions arranged into the program structure
// tree. The input graph is not modified.
//
// Nodes unreachable from the entry even after augmentation (cycle
// components with neither source nor sink) are dropped from the analysis
// and reported in Result.Unreachable. Nodes that cannot reach the exit
// make the decomposition undefined and yield ErrUnsupported.
func Analyze(g *graph.Graph) (*Result, error) {
	warnings := weakComponentsWarning(g)

	aug, err := graph.Augment(g)
	if err != nil {
		return nil, err
	}

	var unreachable []string
	if missing := entryUnreachable(aug); len(missing) > 0 {
		for _, v := range missing {
			unreachable = append(unreachable, aug.Graph.Label(v))
		}
		sort.Strings(unreachable)
		warnings = append(warnings, fmt.Sprintf("ignoring %d node(s) unreachable from entry: %s",
			len(unreachable), strings.Join(unreachable, ", ")))

		aug, err = graph.Augment(filterNodes(g, missing))
		if err != nil {
			return nil, err
		}
	}
	warnings = append(warnings, aug.Warnings...)

	if stuck := exitUnreachable(aug); len(stuck) > 0 {
		labels := make([]string, 0, len(stuck))
		for _, v := range stuck {
			labels = append(labels, aug.Graph.Label(v))
		}
		sort.Strings(labels)
		return nil, fmt.Errorf("%w: node(s) cannot reach the exit: %s",
			ErrUnsupported, strings.Join(labels, ", "))
	}

	und := aug.Undirected()
	st, err := cycleEquivalence(und, aug.Entry)
	if err != nil {
		return nil, err
	}
	for _, e := range aug.Edges {
		if st.arcs[e.ID].class == 0 {
			return nil, fmt.Errorf("%w: arc %d (%s->%s) left unclassified",
				ErrInternalInvariant, e.ID, aug.Graph.Label(e.From), aug.Graph.Label(e.To))
		}
	}

	regions := synthesizeRegions(aug, st)

	res := &Result{
		Adjacency:   aug.Graph.Adjacency(),
		Entry:       aug.Graph.Label(aug.Entry),
		Exit:        aug.Graph.Label(aug.Exit),
		ArcClass:    make(map[int]int, len(aug.Edges)),
		DFS:         make(map[string]NodeDFS, aug.Graph.NumNodes()),
		Unreachable: unreachable,
		Warnings:    warnings,
	}
	for _, e := range aug.Edges {
		class := st.arcs[e.ID].class
		res.Edges = append(res.Edges, EdgeInfo{
			ID:    e.ID,
			From:  aug.Graph.Label(e.From),
			To:    aug.Graph.Label(e.To),
			Kind:  e.Kind,
			Class: class,
		})
		res.ArcClass[e.ID] = class
	}
	for v := 0; v < aug.Graph.NumNodes(); v++ {
		res.DFS[aug.Graph.Label(v)] = NodeDFS{
			Enter:     st.dfsnum[v],
			Leave:     st.leave[v],
			ParentArc: st.parentArc[v],
		}
	}
	for _, r := range regions {
		labels := make([]string, 0, len(r.nodes))
		for _, v := range r.nodes {
			labels = append(labels, aug.Graph.Label(v))
		}
		sort.Strings(labels)
		res.Regions = append(res.Regions, Region{
			ID:       r.id,
			EntryArc: r.entryArc,
			ExitArc:  r.exitArc,
			Nodes:    labels,
			ParentID: r.parent,
		})
	}

	if err := verifyResult(res); err != nil {
		return nil, err
	}
	return res, nil
}

// AnalyzeAdjacency validates an adjacency map and analyzes it.
func AnalyzeAdjacency(adj graph.Adjacency) (*Result, error) {
	g, err := graph.FromAdjacency(adj)
	if err != nil {
		return nil, err
	}
	return Analyze(g)
}

// entryUnreachable returns the augmented nodes with no directed path
// from the entry.
func entryUnreachable(aug *graph.Augmented) []int {
	reached := make([]bool, aug.Graph.NumNodes())
	reached[aug.Entry] = true
	queue := []int{aug.Entry}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, v := range aug.Graph.Out(u) {
			if !reached[v] {
				reached[v] = true
				queue = append(queue, v)
			}
		}
	}
	var missing []int
	for v := range reached {
		if !reached[v] {
			missing = append(missing, v)
		}
	}
	return missing
}

// exitUnreachable returns the augmented nodes with no directed path to
// the exit, ignoring the virtual back edge.
func exitUnreachable(aug *graph.Augmented) []int {
	preds := make([][]int, aug.Graph.NumNodes())
	for _, e := range aug.Edges {
		if e.Kind == graph.EdgeBack {
			continue
		}
		preds[e.To] = append(preds[e.To], e.From)
	}
	reaches := make([]bool, aug.Graph.NumNodes())
	reaches[aug.Exit] = true
	queue := []int{aug.Exit}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, p := range preds[u] {
			if !reaches[p] {
				reaches[p] = true
				queue = append(queue, p)
			}
		}
	}
	var stuck []int
	for v := range reaches {
		if !reaches[v] {
			stuck = append(stuck, v)
		}
	}
	return stuck
}

// filterNodes returns a copy of g without the given node indices.
func filterNodes(g *graph.Graph, drop []int) *graph.Graph {
	dropped := make(map[int]bool, len(drop))
	for _, v := range drop {
		dropped[v] = true
	}
	out := graph.New()
	for v := 0; v < g.NumNodes(); v++ {
		if dropped[v] {
			continue
		}
		out.AddNode(g.Label(v))
	}
	for u := 0; u < g.NumNodes(); u++ {
		if dropped[u] {
			continue
		}
		for _, v := range g.Out(u) {
			if !dropped[v] {
				out.AddEdge(g.Label(u), g.Label(v))
			}
		}
	}
	return out
}

// weakComponentsWarning reports when the input graph is not weakly
// connected; augmentation will join the components through the
// super-nodes.
func weakComponentsWarning(g *graph.Graph) []string {
	if g.NumNodes() == 0 {
		return nil
	}
	comp := make([]int, g.NumNodes())
	for i := range comp {
		comp[i] = -1
	}
	components := 0
	for start := 0; start < g.NumNodes(); start++ {
		if comp[start] >= 0 {
			continue
		}
		comp[start] = components
		queue := []int{start}
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			for _, v := range g.Out(u) {
				if comp[v] < 0 {
					comp[v] = components
					queue = append(queue, v)
				}
			}
			for _, v := range g.In(u) {
				if comp[v] < 0 {
					comp[v] = components
					queue = append(queue, v)
				}
			}
		}
		components++
	}
	if components <= 1 {
		return nil
	}
	return []string{fmt.Sprintf("input graph has %d weakly connected components; augmentation joins them through the super-nodes", components)}
}

// verifyResult checks the structural invariants of the finished result.
func verifyResult(res *Result) error {
	if len(res.Regions) == 0 || res.Regions[0].ID != RootRegionID {
		return fmt.Errorf("%w: missing root region", ErrInternalInvariant)
	}
	seen := map[int]bool{}
	for i, r := range res.Regions {
		if seen[r.ID] {
			return fmt.Errorf("%w: duplicate region id %d", ErrInternalInvariant, r.ID)
		}
		seen[r.ID] = true
		if r.ID == RootRegionID {
			continue
		}
		// Pre-order: the parent must already have been emitted.
		parent := -1
		for j := 0; j < i; j++ {
			if res.Regions[j].ID == r.ParentID {
				parent = j
				break
			}
		}
		if parent < 0 {
			return fmt.Errorf("%w: region %d parent %d not emitted before it", ErrInternalInvariant, r.ID, r.ParentID)
		}
		if !subset(r.Nodes, res.Regions[parent].Nodes) {
			return fmt.Errorf("%w: region %d nodes not contained in parent %d", ErrInternalInvariant, r.ID, r.ParentID)
		}
	}
	return nil
}

func subset(inner, outer []string) bool {
	set := make(map[string]bool, len(outer))
	for _, s := range outer {
		set[s] = true
	}
	for _, s := range inner {
		if !set[s] {
			return false
		}
	}
	return true
}
