package graph

import "fmt"

// Reserved labels for the synthetic super-entry and super-exit nodes.
const (
	EntryLabel = "__entry__"
	ExitLabel  = "__exit__"
)

// EdgeKind tags a directed edge with its origin.
type EdgeKind string

const (
	EdgeOriginal EdgeKind = "original" // Edge from the input graph
	EdgeEntry    EdgeKind = "entry"    // Super-entry to an original source
	EdgeExit     EdgeKind = "exit"     // Original sink to super-exit
	EdgeBack     EdgeKind = "back"     // Virtual back edge exit->entry
)

// Edge is a directed edge of the augmented graph with stable identity.
type Edge struct {
	ID   int      `json:"id"`
	From int      `json:"from"`
	To   int      `json:"to"`
	Kind EdgeKind `json:"kind"`
}

// Augmented is the single-entry/single-exit closure of an input graph.
// Entry and Exit are node indices into Graph; Edges lists every directed
// edge in a stable order: original edges first (grouped by source node in
// node order, each node's successors in insertion order), then entry
// edges, exit edges, and the virtual back edge last.
type Augmented struct {
	Graph    *Graph
	Entry    int
	Exit     int
	Edges    []Edge
	Warnings []string
}

// BackEdge returns the virtual back edge exit->entry.
func (a *Augmented) BackEdge() Edge { return a.Edges[len(a.Edges)-1] }

// Augment closes g into a single-entry/single-exit graph. If g has
// exactly one source (in-degree zero) that node is the entry; otherwise a
// synthetic __entry__ node is inserted with an edge to every source, in
// node order. Sinks and __exit__ are handled symmetrically. A graph with
// no source at all has the super-entry wired to every node (and likewise
// for sinks), recorded in Warnings. The virtual back edge exit->entry is
// always added.
func Augment(g *Graph) (*Augmented, error) {
	if g.NumNodes() == 0 {
		return nil, fmt.Errorf("%w: empty graph", ErrInvalidInput)
	}

	aug := &Augmented{Graph: New()}
	for _, label := range g.labels {
		aug.Graph.AddNode(label)
	}

	addEdge := func(from, to int, kind EdgeKind) {
		aug.Edges = append(aug.Edges, Edge{ID: len(aug.Edges), From: from, To: to, Kind: kind})
		aug.Graph.AddEdge(aug.Graph.labels[from], aug.Graph.labels[to])
	}

	for u := range g.labels {
		for _, v := range g.out[u] {
			addEdge(u, v, EdgeOriginal)
		}
	}

	var sources, sinks []int
	for i := range g.labels {
		if len(g.in[i]) == 0 {
			sources = append(sources, i)
		}
		if len(g.out[i]) == 0 {
			sinks = append(sinks, i)
		}
	}

	if len(sources) == 0 {
		// Source-less graph: every node is a candidate entry.
		for i := range g.labels {
			sources = append(sources, i)
		}
		aug.Warnings = append(aug.Warnings, "graph has no source node; super-entry wired to every node")
	}
	if len(sinks) == 0 {
		for i := range g.labels {
			sinks = append(sinks, i)
		}
		aug.Warnings = append(aug.Warnings, "graph has no sink node; super-exit wired to every node")
	}

	if len(sources) == 1 && len(g.in[sources[0]]) == 0 {
		aug.Entry = sources[0]
	} else {
		if _, ok := g.index[EntryLabel]; ok {
			return nil, fmt.Errorf("%w: reserved label %q already present", ErrInvalidInput, EntryLabel)
		}
		aug.Entry = aug.Graph.AddNode(EntryLabel)
		for _, s := range sources {
			addEdge(aug.Entry, s, EdgeEntry)
		}
	}

	if len(sinks) == 1 && len(g.out[sinks[0]]) == 0 {
		aug.Exit = sinks[0]
	} else {
		if _, ok := g.index[ExitLabel]; ok {
			return nil, fmt.Errorf("%w: reserved label %q already present", ErrInvalidInput, ExitLabel)
		}
		aug.Exit = aug.Graph.AddNode(ExitLabel)
		for _, s := range sinks {
			addEdge(s, aug.Exit, EdgeExit)
		}
	}

	addEdge(aug.Exit, aug.Entry, EdgeBack)
	return aug, nil
}
