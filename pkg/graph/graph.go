// Package graph defines the directed multigraph model consumed by the
// region analysis: ordered adjacency over opaque string labels, the
// super-entry/super-exit augmentation, and the undirected arc view.
package graph

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidInput is returned when the input adjacency is empty,
// internally inconsistent, or collides with a reserved label.
var ErrInvalidInput = errors.New("invalid input graph")

// NodeAdj holds the ordered successor and predecessor lists of one node.
type NodeAdj struct {
	Out []string `json:"out" yaml:"out"` // Ordered successor labels
	In  []string `json:"in" yaml:"in"`   // Ordered predecessor labels
}

// Adjacency maps node labels to their adjacency lists. This is the
// external input and output shape of the analysis.
type Adjacency map[string]NodeAdj

// Graph is a directed graph with insertion-ordered nodes and edges.
// Duplicate directed edges collapse to one; self-loops are allowed.
type Graph struct {
	labels []string
	index  map[string]int
	out    [][]int
	in     [][]int
	edges  map[[2]int]bool
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		index: make(map[string]int),
		edges: make(map[[2]int]bool),
	}
}

// AddNode inserts a node if not present and returns its index.
func (g *Graph) AddNode(label string) int {
	if i, ok := g.index[label]; ok {
		return i
	}
	i := len(g.labels)
	g.labels = append(g.labels, label)
	g.index[label] = i
	g.out = append(g.out, nil)
	g.in = append(g.in, nil)
	return i
}

// AddEdge inserts the directed edge u->v, adding missing nodes.
// A duplicate of an existing edge is ignored.
func (g *Graph) AddEdge(u, v string) {
	ui := g.AddNode(u)
	vi := g.AddNode(v)
	key := [2]int{ui, vi}
	if g.edges[key] {
		return
	}
	g.edges[key] = true
	g.out[ui] = append(g.out[ui], vi)
	g.in[vi] = append(g.in[vi], ui)
}

// NumNodes returns the node count.
func (g *Graph) NumNodes() int { return len(g.labels) }

// NumEdges returns the directed edge count.
func (g *Graph) NumEdges() int { return len(g.edges) }

// Label returns the label of node i.
func (g *Graph) Label(i int) string { return g.labels[i] }

// Labels returns the node labels in insertion order. The slice is shared;
// callers must not modify it.
func (g *Graph) Labels() []string { return g.labels }

// Index returns the index of a label and whether it exists.
func (g *Graph) Index(label string) (int, bool) {
	i, ok := g.index[label]
	return i, ok
}

// Out returns the ordered successor indices of node i.
func (g *Graph) Out(i int) []int { return g.out[i] }

// In returns the ordered predecessor indices of node i.
func (g *Graph) In(i int) []int { return g.in[i] }

// HasEdge reports whether the directed edge u->v exists.
func (g *Graph) HasEdge(u, v int) bool { return g.edges[[2]int{u, v}] }

// Adjacency returns the adjacency-map view of the graph.
func (g *Graph) Adjacency() Adjacency {
	adj := make(Adjacency, len(g.labels))
	for i, label := range g.labels {
		na := NodeAdj{
			Out: make([]string, 0, len(g.out[i])),
			In:  make([]string, 0, len(g.in[i])),
		}
		for _, s := range g.out[i] {
			na.Out = append(na.Out, g.labels[s])
		}
		for _, p := range g.in[i] {
			na.In = append(na.In, g.labels[p])
		}
		adj[label] = na
	}
	return adj
}

// FromAdjacency builds a graph from an adjacency map. Node insertion
// order is the sorted label order, which makes map input deterministic.
// The adjacency must be internally consistent: v in out(u) iff u in in(v).
func FromAdjacency(adj Adjacency) (*Graph, error) {
	if len(adj) == 0 {
		return nil, fmt.Errorf("%w: empty adjacency", ErrInvalidInput)
	}

	labels := make([]string, 0, len(adj))
	for label := range adj {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	g := New()
	for _, label := range labels {
		g.AddNode(label)
	}
	for _, label := range labels {
		for _, succ := range adj[label].Out {
			if _, ok := adj[succ]; !ok {
				return nil, fmt.Errorf("%w: node %q lists successor %q with no adjacency entry", ErrInvalidInput, label, succ)
			}
			g.AddEdge(label, succ)
		}
	}

	// Incoming lists must agree with the outgoing lists.
	for _, label := range labels {
		for _, pred := range adj[label].In {
			pi, ok := g.index[pred]
			if !ok {
				return nil, fmt.Errorf("%w: node %q lists predecessor %q with no adjacency entry", ErrInvalidInput, label, pred)
			}
			if !g.edges[[2]int{pi, g.index[label]}] {
				return nil, fmt.Errorf("%w: node %q lists predecessor %q but %q does not list %q as successor", ErrInvalidInput, label, pred, pred, label)
			}
		}
		for _, succ := range g.out[g.index[label]] {
			if !contains(adj[g.labels[succ]].In, label) {
				return nil, fmt.Errorf("%w: edge %q->%q missing from incoming list of %q", ErrInvalidInput, label, g.labels[succ], g.labels[succ])
			}
		}
	}

	return g, nil
}

// FromEdges builds a graph from an ordered list of directed edges.
// Incoming lists are derived, so the result is always consistent.
func FromEdges(edges [][2]string) (*Graph, error) {
	if len(edges) == 0 {
		return nil, fmt.Errorf("%w: no edges", ErrInvalidInput)
	}
	g := New()
	for _, e := range edges {
		g.AddEdge(e[0], e[1])
	}
	return g, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
