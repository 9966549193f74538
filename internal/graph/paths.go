package graph

// PathIndex holds every path of an acyclic graph, indexed by endpoints.
// It is computed once and then shared read-only; the initial-functor checker
// reuses one index across all target objects.
type PathIndex struct {
	g        *Graph
	byPair   map[[2]Vertex][]Path
	byTarget map[Vertex][]Path
}

// EnumeratePaths computes all paths of g, including the empty path at every
// vertex. The free category on a graph with a directed cycle has infinitely
// many morphisms, so enumeration fails with ErrCodeCyclicGraph in that case.
//
// The number of paths can be exponential in the size of the graph; this is
// acceptable at the intended schema scale (tens to low thousands of
// generators) and is not optimized further.
func EnumeratePaths(g *Graph) (*PathIndex, error) {
	if hasCycle(g) {
		return nil, newError(ErrCodeCyclicGraph,
			"graph has a directed cycle; its free category has infinitely many morphisms")
	}
	ix := &PathIndex{
		g:        g,
		byPair:   make(map[[2]Vertex][]Path),
		byTarget: make(map[Vertex][]Path),
	}
	for _, v := range g.Vertices() {
		ix.add(EmptyPath(v))
		ix.extend(v, nil, v)
	}
	return ix, nil
}

// extend walks every edge sequence starting at start, recording each prefix.
func (ix *PathIndex) extend(start Vertex, edges []Edge, at Vertex) {
	for _, e := range ix.g.OutEdges(at) {
		next := append(append([]Edge(nil), edges...), e)
		ix.add(Path{edges: next, source: start, target: ix.g.Target(e)})
		ix.extend(start, next, ix.g.Target(e))
	}
}

func (ix *PathIndex) add(p Path) {
	key := [2]Vertex{p.source, p.target}
	ix.byPair[key] = append(ix.byPair[key], p)
	ix.byTarget[p.target] = append(ix.byTarget[p.target], p)
}

// Between returns all paths from s to t.
func (ix *PathIndex) Between(s, t Vertex) []Path {
	return ix.byPair[[2]Vertex{s, t}]
}

// IntoTarget returns all paths ending at t, from any source.
func (ix *PathIndex) IntoTarget(t Vertex) []Path {
	return ix.byTarget[t]
}

// hasCycle reports whether g contains a directed cycle, by depth-first
// search with a three-color marking.
func hasCycle(g *Graph) bool {
	const (
		white = 0 // unvisited
		gray  = 1 // on the current stack
		black = 2 // done
	)
	color := make([]int, g.NumVertices())
	var visit func(v Vertex) bool
	visit = func(v Vertex) bool {
		color[v] = gray
		for _, e := range g.OutEdges(v) {
			w := g.Target(e)
			if color[w] == gray {
				return true
			}
			if color[w] == white && visit(w) {
				return true
			}
		}
		color[v] = black
		return false
	}
	for _, v := range g.Vertices() {
		if color[v] == white && visit(v) {
			return true
		}
	}
	return false
}
