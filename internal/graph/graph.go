package graph

// Vertex is an opaque handle to a vertex of a Graph.
// Handles are dense indices assigned in insertion order, so they are totally
// ordered and usable as map keys.
type Vertex int

// Edge is an opaque handle to an edge of a Graph.
type Edge int

// NoVertex is the zero-value sentinel for "no vertex".
const NoVertex Vertex = -1

// edgeData holds the endpoints and optional display name of one edge.
type edgeData struct {
	src  Vertex
	tgt  Vertex
	name string
}

// Graph is a finite directed multigraph. Parallel edges and self-loops are
// allowed. A Graph is immutable; construct one with a Builder.
type Graph struct {
	vertexNames  []string
	edges        []edgeData
	vertexByName map[string]Vertex
	edgesByName  map[string][]Edge
}

// Builder accumulates vertices and edges and finalizes them into an immutable
// Graph. The builder is not safe for concurrent use; each construction owns
// its builder exclusively.
type Builder struct {
	g *Graph
}

// NewBuilder creates an empty graph builder.
func NewBuilder() *Builder {
	return &Builder{g: &Graph{
		vertexByName: make(map[string]Vertex),
		edgesByName:  make(map[string][]Edge),
	}}
}

// AddVertex adds a vertex with an optional display name (empty for anonymous).
// Non-empty names must be unique among vertices.
func (b *Builder) AddVertex(name string) (Vertex, error) {
	if name != "" {
		if _, ok := b.g.vertexByName[name]; ok {
			return NoVertex, newError(ErrCodeDuplicateVertexName, "duplicate vertex name %q", name)
		}
	}
	v := Vertex(len(b.g.vertexNames))
	b.g.vertexNames = append(b.g.vertexNames, name)
	if name != "" {
		b.g.vertexByName[name] = v
	}
	return v, nil
}

// AddEdge adds an edge from src to tgt with an optional display name.
// Edge names are not required to be unique.
func (b *Builder) AddEdge(src, tgt Vertex, name string) (Edge, error) {
	if !b.g.HasVertex(src) {
		return -1, newError(ErrCodeUnknownVertex, "edge source %d is not a vertex of the graph", src)
	}
	if !b.g.HasVertex(tgt) {
		return -1, newError(ErrCodeUnknownVertex, "edge target %d is not a vertex of the graph", tgt)
	}
	e := Edge(len(b.g.edges))
	b.g.edges = append(b.g.edges, edgeData{src: src, tgt: tgt, name: name})
	if name != "" {
		b.g.edgesByName[name] = append(b.g.edgesByName[name], e)
	}
	return e, nil
}

// Build finalizes the graph. The builder must not be used afterwards.
func (b *Builder) Build() *Graph {
	g := b.g
	b.g = nil
	return g
}

// NumVertices returns the number of vertices.
func (g *Graph) NumVertices() int { return len(g.vertexNames) }

// NumEdges returns the number of edges.
func (g *Graph) NumEdges() int { return len(g.edges) }

// HasVertex reports whether v is a vertex of g.
func (g *Graph) HasVertex(v Vertex) bool {
	return v >= 0 && int(v) < len(g.vertexNames)
}

// HasEdge reports whether e is an edge of g.
func (g *Graph) HasEdge(e Edge) bool {
	return e >= 0 && int(e) < len(g.edges)
}

// Vertices returns all vertex handles in insertion order.
func (g *Graph) Vertices() []Vertex {
	vs := make([]Vertex, len(g.vertexNames))
	for i := range vs {
		vs[i] = Vertex(i)
	}
	return vs
}

// Edges returns all edge handles in insertion order.
func (g *Graph) Edges() []Edge {
	es := make([]Edge, len(g.edges))
	for i := range es {
		es[i] = Edge(i)
	}
	return es
}

// Source returns the source vertex of e.
func (g *Graph) Source(e Edge) Vertex { return g.edges[e].src }

// Target returns the target vertex of e.
func (g *Graph) Target(e Edge) Vertex { return g.edges[e].tgt }

// VertexName returns the display name of v, or "" if anonymous.
func (g *Graph) VertexName(v Vertex) string { return g.vertexNames[v] }

// EdgeName returns the display name of e, or "" if anonymous.
func (g *Graph) EdgeName(e Edge) string { return g.edges[e].name }

// VertexByName resolves a vertex by display name.
func (g *Graph) VertexByName(name string) (Vertex, bool) {
	v, ok := g.vertexByName[name]
	return v, ok
}

// EdgesByName resolves all edges sharing a display name, in insertion order.
func (g *Graph) EdgesByName(name string) []Edge {
	return g.edgesByName[name]
}

// OutEdges returns the edges whose source is v, in insertion order.
func (g *Graph) OutEdges(v Vertex) []Edge {
	var out []Edge
	for i, ed := range g.edges {
		if ed.src == v {
			out = append(out, Edge(i))
		}
	}
	return out
}

// InEdges returns the edges whose target is v, in insertion order.
func (g *Graph) InEdges(v Vertex) []Edge {
	var in []Edge
	for i, ed := range g.edges {
		if ed.tgt == v {
			in = append(in, Edge(i))
		}
	}
	return in
}
