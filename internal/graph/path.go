package graph

// Path is a finite composable sequence of edges with definite endpoints.
// The empty path is legal and represents the identity at Source == Target;
// it still names a definite vertex.
//
// Invariant: for a non-empty path, Source == source of the first edge,
// Target == target of the last edge, and consecutive edges share endpoints.
// Construction enforces the invariant; a Path value is immutable.
type Path struct {
	edges  []Edge
	source Vertex
	target Vertex
}

// EmptyPath returns the identity path at v.
func EmptyPath(v Vertex) Path {
	return Path{source: v, target: v}
}

// SingleEdgePath returns the length-one path over e.
func SingleEdgePath(g *Graph, e Edge) Path {
	return Path{edges: []Edge{e}, source: g.Source(e), target: g.Target(e)}
}

// PathFromEdges builds a path from a non-empty edge sequence, validating that
// consecutive edges share endpoints. An empty sequence is malformed here
// because it names no vertex; use EmptyPath for identities.
func PathFromEdges(g *Graph, edges []Edge) (Path, error) {
	if len(edges) == 0 {
		return Path{}, newError(ErrCodeMalformedPath, "empty edge sequence with no explicit vertex")
	}
	for _, e := range edges {
		if !g.HasEdge(e) {
			return Path{}, newError(ErrCodeMalformedPath, "edge %d is not an edge of the graph", e)
		}
	}
	for i := 0; i+1 < len(edges); i++ {
		if g.Target(edges[i]) != g.Source(edges[i+1]) {
			return Path{}, newError(ErrCodeMalformedPath,
				"edges %d and %d do not compose: target %d != source %d",
				edges[i], edges[i+1], g.Target(edges[i]), g.Source(edges[i+1]))
		}
	}
	p := Path{
		edges:  append([]Edge(nil), edges...),
		source: g.Source(edges[0]),
		target: g.Target(edges[len(edges)-1]),
	}
	return p, nil
}

// Source returns the source vertex of p.
func (p Path) Source() Vertex { return p.source }

// Target returns the target vertex of p.
func (p Path) Target() Vertex { return p.target }

// Edges returns a copy of the edge sequence.
func (p Path) Edges() []Edge {
	return append([]Edge(nil), p.edges...)
}

// Len returns the number of edges in p.
func (p Path) Len() int { return len(p.edges) }

// IsEmpty reports whether p is an identity path.
func (p Path) IsEmpty() bool { return len(p.edges) == 0 }

// Equal reports whether two paths have the same endpoints and edge sequence.
func (p Path) Equal(q Path) bool {
	if p.source != q.source || p.target != q.target || len(p.edges) != len(q.edges) {
		return false
	}
	for i := range p.edges {
		if p.edges[i] != q.edges[i] {
			return false
		}
	}
	return true
}

// Concat concatenates two paths. Fails unless Target(p) == Source(q).
func Concat(p, q Path) (Path, error) {
	if p.target != q.source {
		return Path{}, newError(ErrCodeEndpointMismatch,
			"cannot concatenate: target %d != source %d", p.target, q.source)
	}
	if p.IsEmpty() {
		return q, nil
	}
	if q.IsEmpty() {
		return p, nil
	}
	edges := make([]Edge, 0, len(p.edges)+len(q.edges))
	edges = append(edges, p.edges...)
	edges = append(edges, q.edges...)
	return Path{edges: edges, source: p.source, target: q.target}, nil
}

// Reverse swaps source and target and reverses the edge order. The result is
// a path of the opposite graph; it is used to present opposite categories.
func Reverse(p Path) Path {
	edges := make([]Edge, len(p.edges))
	for i, e := range p.edges {
		edges[len(p.edges)-1-i] = e
	}
	return Path{edges: edges, source: p.target, target: p.source}
}
