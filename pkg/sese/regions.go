package sese

import (
	"sort"

	"github.com/klintqinami/sese-regions/pkg/graph"
)

// region is the internal region record before labels are attached.
type region struct {
	id       int
	entryArc int
	exitArc  int
	parent   int
	nodes    []int
}

// directedEdgeOrder walks the directed augmented graph depth-first from
// the entry and yields edge ids in traversal order. The virtual back
// edge is skipped, so it never opens a region pair on its own.
func directedEdgeOrder(aug *graph.Augmented) []int {
	outArcs := make([][]int, aug.Graph.NumNodes())
	for _, e := range aug.Edges {
		if e.Kind == graph.EdgeBack {
			continue
		}
		outArcs[e.From] = append(outArcs[e.From], e.ID)
	}

	order := make([]int, 0, len(aug.Edges))
	visited := make([]bool, aug.Graph.NumNodes())
	type frame struct {
		node int
		next int
	}
	stack := []frame{{node: aug.Entry}}
	visited[aug.Entry] = true
	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		if f.next >= len(outArcs[f.node]) {
			stack = stack[:len(stack)-1]
			continue
		}
		edgeID := outArcs[f.node][f.next]
		f.next++
		order = append(order, edgeID)
		to := aug.Edges[edgeID].To
		if !visited[to] {
			visited[to] = true
			stack = append(stack, frame{node: to})
		}
	}
	return order
}

// synthesizeRegions pairs consecutive same-class arcs into regions,
// computes each region's node set, and links regions into the PST.
// Classes with a single arc are degenerate and produce no region.
func synthesizeRegions(aug *graph.Augmented, st *dfsState) []region {
	regions := []region{{id: RootRegionID, entryArc: NoArc, exitArc: NoArc, parent: NoArc}}

	lastByClass := make(map[int]int)
	for _, edgeID := range directedEdgeOrder(aug) {
		class := st.arcs[edgeID].class
		if class == 0 {
			continue
		}
		if prev, ok := lastByClass[class]; ok {
			regions = append(regions, region{
				id:       len(regions),
				entryArc: prev,
				exitArc:  edgeID,
				parent:   RootRegionID,
			})
		}
		lastByClass[class] = edgeID
	}

	dom, postdom, arcSplit := edgeSplitDominators(aug)

	// Node sets: a node lies in a region when the entry arc dominates it
	// and the exit arc postdominates it on the edge-split graph.
	for i := range regions {
		r := &regions[i]
		if r.id == RootRegionID {
			for v := 0; v < aug.Graph.NumNodes(); v++ {
				r.nodes = append(r.nodes, v)
			}
			continue
		}
		entry, exit := arcSplit[r.entryArc], arcSplit[r.exitArc]
		for v := 0; v < aug.Graph.NumNodes(); v++ {
			if dom.dominates(entry, v) && postdom.dominates(exit, v) {
				r.nodes = append(r.nodes, v)
			}
		}
	}

	contains := func(p, c *region) bool {
		if p.id == RootRegionID {
			return true
		}
		if c.id == RootRegionID {
			return false
		}
		pEntry, pExit := arcSplit[p.entryArc], arcSplit[p.exitArc]
		cEntry, cExit := arcSplit[c.entryArc], arcSplit[c.exitArc]
		return dom.dominates(pEntry, cEntry) && postdom.dominates(pExit, cExit)
	}

	// Parent: the smallest strictly containing region.
	for i := range regions {
		r := &regions[i]
		if r.id == RootRegionID {
			continue
		}
		parent := RootRegionID
		for j := range regions {
			c := &regions[j]
			if c.id == RootRegionID || c.id == r.id {
				continue
			}
			if contains(c, r) && (parent == RootRegionID || contains(&regions[parent], c)) {
				parent = c.id
			}
		}
		r.parent = parent
	}

	return preorder(regions)
}

// preorder reorders regions so parents precede children, children in
// ascending id order.
func preorder(regions []region) []region {
	kids := make(map[int][]int)
	for _, r := range regions {
		if r.id != RootRegionID {
			kids[r.parent] = append(kids[r.parent], r.id)
		}
	}
	for _, k := range kids {
		sort.Ints(k)
	}
	byID := make(map[int]region, len(regions))
	for _, r := range regions {
		byID[r.id] = r
	}

	out := make([]region, 0, len(regions))
	stack := []int{RootRegionID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, byID[id])
		// Push children in reverse so the smallest id pops first.
		k := kids[id]
		for i := len(k) - 1; i >= 0; i-- {
			stack = append(stack, k[i])
		}
	}
	return out
}

// edgeSplitDominators builds the edge-split graph (every non-back edge
// becomes a node between its endpoints), and returns its dominator tree
// from the entry, its postdominator tree from the exit, and the mapping
// from edge id to split-node index.
func edgeSplitDominators(aug *graph.Augmented) (dom, postdom *domTree, arcSplit map[int]int) {
	n := aug.Graph.NumNodes()
	arcSplit = make(map[int]int)
	for _, e := range aug.Edges {
		if e.Kind == graph.EdgeBack {
			continue
		}
		arcSplit[e.ID] = n + len(arcSplit)
	}

	total := n + len(arcSplit)
	succs := make([][]int, total)
	preds := make([][]int, total)
	for _, e := range aug.Edges {
		if e.Kind == graph.EdgeBack {
			continue
		}
		split := arcSplit[e.ID]
		succs[e.From] = append(succs[e.From], split)
		succs[split] = append(succs[split], e.To)
		preds[split] = append(preds[split], e.From)
		preds[e.To] = append(preds[e.To], split)
	}

	dom = buildDomTree(succs, aug.Entry)
	postdom = buildDomTree(preds, aug.Exit)
	return dom, postdom, arcSplit
}
