package sese

import (
	"fmt"

	"github.com/klintqinami/sese-regions/pkg/graph"
)

// edgeCapping tags the synthetic capping arcs that exist only inside the
// bracket lists. They never reach the output.
const edgeCapping graph.EdgeKind = "capping"

// workArc is the mutable per-arc state of one analysis run. Arcs with
// index >= len(Undirected.Arcs) are capping arcs.
type workArc struct {
	a, b        int
	kind        graph.EdgeKind
	class       int // 0 = unassigned
	recentSize  int // bracket-list size when this arc was last the top
	recentClass int
	cell        int // handle into the bracket arena, nilCell when absent
}

// dfsState is the traversal bookkeeping produced by cycleEquivalence.
type dfsState struct {
	arcs      []workArc // real arcs first, capping arcs appended
	dfsnum    []int     // 1-based discovery index, 0 = unvisited
	leave     []int     // max discovery index in the subtree
	parent    []int     // tree parent, -1 for the root
	parentArc []int     // arc to the tree parent, NoArc for the root
	postorder []int
	classes   int // number of classes allocated
}

// cycleEquivalence runs the bracket-list depth-first search over the
// undirected view and assigns every arc its cycle-equivalence class. The
// traversal uses an explicit stack, so recursion depth does not bound the
// graph size.
func cycleEquivalence(und *graph.Undirected, root int) (*dfsState, error) {
	n := len(und.Adj)
	st := &dfsState{
		arcs:      make([]workArc, 0, len(und.Arcs)),
		dfsnum:    make([]int, n),
		leave:     make([]int, n),
		parent:    make([]int, n),
		parentArc: make([]int, n),
	}
	for _, arc := range und.Arcs {
		st.arcs = append(st.arcs, workArc{a: arc.A, b: arc.B, kind: arc.Kind, cell: nilCell})
	}
	for i := range st.parent {
		st.parent[i] = -1
		st.parentArc[i] = NoArc
	}

	children := make([][]int, n)
	backFrom := make([][]int, n) // backedges from descendant n upward
	backTo := make([][]int, n)   // backedges expiring at ancestor n
	arcUpper := make([]int, len(st.arcs))
	seen := make([]bool, len(st.arcs))
	for i := range arcUpper {
		arcUpper[i] = -1
	}

	// Iterative DFS. Each frame holds the node and its adjacency cursor.
	type frame struct {
		node int
		next int
	}
	time := 1
	st.dfsnum[root] = time
	stack := []frame{{node: root}}
	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		adj := und.Adj[f.node]
		if f.next >= len(adj) {
			st.leave[f.node] = time
			st.postorder = append(st.postorder, f.node)
			stack = stack[:len(stack)-1]
			continue
		}
		ref := adj[f.next]
		f.next++
		if seen[ref.Arc] {
			continue
		}
		seen[ref.Arc] = true
		if st.dfsnum[ref.Other] == 0 {
			st.parent[ref.Other] = f.node
			st.parentArc[ref.Other] = ref.Arc
			children[f.node] = append(children[f.node], ref.Other)
			time++
			st.dfsnum[ref.Other] = time
			stack = append(stack, frame{node: ref.Other})
			continue
		}
		// Non-tree arc: orient it from the deeper endpoint to the
		// shallower one. Self-loops fall out with desc == anc.
		desc, anc := f.node, ref.Other
		if st.dfsnum[ref.Other] > st.dfsnum[f.node] {
			desc, anc = ref.Other, f.node
		}
		backFrom[desc] = append(backFrom[desc], ref.Arc)
		backTo[anc] = append(backTo[anc], ref.Arc)
		arcUpper[ref.Arc] = anc
	}

	nodeByDfsnum := make([]int, n+2)
	for i := 0; i < n; i++ {
		if st.dfsnum[i] > 0 {
			nodeByDfsnum[st.dfsnum[i]] = i
		}
	}

	const inf = int(^uint(0) >> 1)
	arena := newBracketArena(2 * len(st.arcs))
	blists := make([]bracketList, n)
	cappingTo := make([][]int, n)
	hi := make([]int, n)

	newClass := func() int {
		st.classes++
		return st.classes
	}

	for _, node := range st.postorder {
		// hi0: highest target among this node's own backedges. hi1/hi2:
		// smallest and second-smallest hi among the tree children.
		hi0, hi1, hi2 := inf, inf, inf
		for _, arcID := range backFrom[node] {
			if anc := arcUpper[arcID]; anc >= 0 && st.dfsnum[anc] < hi0 {
				hi0 = st.dfsnum[anc]
			}
		}
		for _, c := range children[node] {
			switch v := hi[c]; {
			case v < hi1:
				hi2 = hi1
				hi1 = v
			case v < hi2:
				hi2 = v
			}
		}
		hi[node] = hi0
		if hi1 < hi[node] {
			hi[node] = hi1
		}

		bl := newBracketList()
		for _, c := range children[node] {
			bl = concatBrackets(arena, blists[c], bl)
		}

		for _, arcID := range cappingTo[node] {
			bl.remove(arena, st.arcs[arcID].cell)
			st.arcs[arcID].cell = nilCell
		}

		// Backedges expiring here leave the list; one that was never the
		// top of any list gets a class of its own.
		for _, arcID := range backTo[node] {
			arc := &st.arcs[arcID]
			if arc.cell != nilCell {
				bl.remove(arena, arc.cell)
				arc.cell = nilCell
			}
			if arc.class == 0 {
				arc.class = newClass()
			}
		}

		// Push backedges to proper ancestors. A self-loop expires at its
		// own node and is never a bracket.
		for _, arcID := range backFrom[node] {
			if arcUpper[arcID] == node {
				continue
			}
			st.arcs[arcID].cell = bl.push(arena, arcID)
		}

		// Capping edge: when a second child reaches a proper ancestor
		// strictly above this node's own backedges, the two children
		// would otherwise be conflated into one class.
		if hi2 < hi0 && hi2 < st.dfsnum[node] {
			upper := nodeByDfsnum[hi2]
			capID := len(st.arcs)
			st.arcs = append(st.arcs, workArc{a: node, b: upper, kind: edgeCapping, cell: nilCell})
			st.arcs[capID].cell = bl.push(arena, capID)
			cappingTo[upper] = append(cappingTo[upper], capID)
		}

		if st.parent[node] >= 0 {
			topID := bl.top(arena)
			if topID < 0 {
				return nil, fmt.Errorf("%w: empty bracket list at node %d", ErrInternalInvariant, node)
			}
			top := &st.arcs[topID]
			if top.recentSize != bl.size {
				top.recentSize = bl.size
				top.recentClass = newClass()
			}
			tree := &st.arcs[st.parentArc[node]]
			tree.class = top.recentClass
			// A tree arc whose only bracket is a single real backedge is
			// cycle-equivalent to that backedge.
			if top.recentSize == 1 && top.kind != edgeCapping {
				top.class = tree.class
			}
		}

		blists[node] = bl
	}

	return st, nil
}
