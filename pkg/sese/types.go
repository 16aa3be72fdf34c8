// Package sese computes the canonical decomposition of a rooted directed
// graph into single-entry/single-exit regions and arranges them into the
// program structure tree. The cycle-equivalence core is the linear-time
// Johnson-Pearson-Pingali construction: an undirected depth-first
// traversal of the augmented graph that maintains a per-node bracket list
// of spanning back arcs.
//
// Region boundaries are reported as arc pairs: within one equivalence
// class, consecutive arcs in directed DFS order delimit one region each.
// A diamond therefore yields the region covering both branches plus the
// merge node, with one child region per branch chain inside it.
package sese

import (
	"errors"

	"github.com/klintqinami/sese-regions/pkg/graph"
)

// ErrInternalInvariant reports a post-analysis consistency failure. It
// always indicates a bug, never bad input.
var ErrInternalInvariant = errors.New("internal invariant violation")

// ErrUnsupported reports a graph shape the analysis cannot decompose:
// nodes that are reachable from the entry but cannot reach the exit even
// after augmentation (a sink-less cycle in a graph that has sinks
// elsewhere).
var ErrUnsupported = errors.New("unsupported graph shape")

// RootRegionID is the id of the top-level region bounding the whole
// program.
const RootRegionID = 0

// NoArc marks an absent arc reference (the root region's boundary, or a
// node with no DFS parent).
const NoArc = -1

// Region is one single-entry/single-exit region. The root region has
// EntryArc, ExitArc and ParentID equal to NoArc / -1 and contains every
// augmented node.
type Region struct {
	ID       int      `json:"id"`
	EntryArc int      `json:"entry_arc"`
	ExitArc  int      `json:"exit_arc"`
	Nodes    []string `json:"nodes"` // sorted labels
	ParentID int      `json:"parent_id"`
}

// EdgeInfo describes one directed edge of the augmented graph together
// with its cycle-equivalence class. Every listed edge has a class of at
// least 1; edges of unreachable components are not listed at all.
type EdgeInfo struct {
	ID    int            `json:"id"`
	From  string         `json:"from"`
	To    string         `json:"to"`
	Kind  graph.EdgeKind `json:"kind"`
	Class int            `json:"class"`
}

// NodeDFS records the depth-first traversal bookkeeping of one node, for
// debugging and visualization.
type NodeDFS struct {
	Enter     int `json:"enter"`
	Leave     int `json:"leave"`
	ParentArc int `json:"parent_arc"`
}

// Result is the output of the region analysis.
type Result struct {
	// Adjacency is the augmented adjacency, including the virtual back
	// edge (flagged in Edges).
	Adjacency graph.Adjacency `json:"augmented_adj"`
	Entry     string          `json:"entry"`
	Exit      string          `json:"exit"`

	// Regions in pre-order over the PST: parents precede children.
	Regions []Region `json:"regions"`

	// Edges lists every directed edge of the augmented graph with its
	// class. ArcClass is the arc-id to class-id map over classified arcs.
	Edges    []EdgeInfo  `json:"edges"`
	ArcClass map[int]int `json:"arc_class"`

	// DFS holds per-node traversal bookkeeping.
	DFS map[string]NodeDFS `json:"dfs,omitempty"`

	// Unreachable lists nodes excluded from the analysis because they
	// cannot be reached from the entry even after augmentation.
	Unreachable []string `json:"unreachable,omitempty"`

	// Warnings records non-fatal input oddities (synthesized entry for a
	// source-less graph, disconnected components joined by augmentation).
	Warnings []string `json:"warnings,omitempty"`
}

// Region returns the region with the given id, or nil.
func (r *Result) Region(id int) *Region {
	for i := range r.Regions {
		if r.Regions[i].ID == id {
			return &r.Regions[i]
		}
	}
	return nil
}

// Children returns the ids of the regions whose parent is id, in output
// order.
func (r *Result) Children(id int) []int {
	var kids []int
	for i := range r.Regions {
		if r.Regions[i].ParentID == id && r.Regions[i].ID != id {
			kids = append(kids, r.Regions[i].ID)
		}
	}
	return kids
}

// Edge returns the edge record with the given id, or nil.
func (r *Result) Edge(id int) *EdgeInfo {
	for i := range r.Edges {
		if r.Edges[i].ID == id {
			return &r.Edges[i]
		}
	}
	return nil
}
