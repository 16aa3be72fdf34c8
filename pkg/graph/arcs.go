package graph

// Arc is an undirected edge of the working multigraph. It keeps the
// identity and direction of the directed edge it came from: A is the
// source endpoint, B the target. A self-loop has A == B.
type Arc struct {
	ID   int      `json:"id"`
	A    int      `json:"a"`
	B    int      `json:"b"`
	Kind EdgeKind `json:"kind"`
}

// IsBack reports whether the arc is the synthetic exit->entry back arc.
func (a Arc) IsBack() bool { return a.Kind == EdgeBack }

// ArcRef is one endpoint's view of an incident arc.
type ArcRef struct {
	Arc   int // arc id
	Other int // the opposite endpoint (equal to the node for self-loops)
}

// Undirected is the undirected multigraph view of an augmented graph.
// Arc ids coincide with the directed edge ids they originate from. Two
// antiparallel directed edges become two distinct arcs.
type Undirected struct {
	Arcs []Arc
	Adj  [][]ArcRef // per node, incident arcs in arc-id order
}

// Undirected builds the undirected view of the augmented graph.
func (a *Augmented) Undirected() *Undirected {
	u := &Undirected{
		Arcs: make([]Arc, 0, len(a.Edges)),
		Adj:  make([][]ArcRef, a.Graph.NumNodes()),
	}
	for _, e := range a.Edges {
		arc := Arc{ID: e.ID, A: e.From, B: e.To, Kind: e.Kind}
		u.Arcs = append(u.Arcs, arc)
		u.Adj[e.From] = append(u.Adj[e.From], ArcRef{Arc: e.ID, Other: e.To})
		if e.To != e.From {
			u.Adj[e.To] = append(u.Adj[e.To], ArcRef{Arc: e.ID, Other: e.From})
		} else {
			// A self-loop is incident to its node twice.
			u.Adj[e.From] = append(u.Adj[e.From], ArcRef{Arc: e.ID, Other: e.From})
		}
	}
	return u
}
