package fincat

import (
	"github.com/plurigrid/funq/internal/graph"
)

// graphCat is the shared backing for the two graph-based variants. Object
// generators are vertices, morphism generators are edges; handle values
// coincide with the graph's own handles.
type graphCat struct {
	g   *graph.Graph
	eqs []Equation
}

// FreeGraphCat is the free category on a graph: morphisms are paths, with no
// equations imposed.
type FreeGraphCat struct {
	graphCat
}

// GraphEqCat is a graph together with a finite set of path equations.
type GraphEqCat struct {
	graphCat
}

// FreeOnGraph wraps g as the free category on it. The category takes
// (read-only) ownership of g; callers must not retain a mutable builder.
func FreeOnGraph(g *graph.Graph) *FreeGraphCat {
	return &FreeGraphCat{graphCat{g: g}}
}

// GraphWithEquations wraps g with a finite equation set. Each equation must
// already be validated against the same graph (same handle space); the
// constructor re-checks endpoints and generator membership.
func GraphWithEquations(g *graph.Graph, eqs []Equation) (*GraphEqCat, error) {
	c := &GraphEqCat{graphCat{g: g}}
	for _, eq := range eqs {
		if _, err := NewEquation(c, eq.Lhs, eq.Rhs); err != nil {
			return nil, err
		}
		for _, side := range [][]MorGen{eq.Lhs.Generators(), eq.Rhs.Generators()} {
			for _, f := range side {
				if !g.HasEdge(graph.Edge(f)) {
					return nil, newError(ErrCodeBadEquation,
						"equation references edge %d outside the backing graph", f)
				}
			}
		}
	}
	c.eqs = append([]Equation(nil), eqs...)
	return c, nil
}

// UnderlyingGraph exposes the backing graph (read-only) for path-level
// algorithms such as the initial-functor checker.
func (c *graphCat) UnderlyingGraph() *graph.Graph { return c.g }

func (c *graphCat) ObjectGenerators() []Ob {
	obs := make([]Ob, c.g.NumVertices())
	for i := range obs {
		obs[i] = Ob(i)
	}
	return obs
}

func (c *graphCat) MorphismGenerators() []MorGen {
	gens := make([]MorGen, c.g.NumEdges())
	for i := range gens {
		gens[i] = MorGen(i)
	}
	return gens
}

func (c *graphCat) Equations() []Equation {
	return append([]Equation(nil), c.eqs...)
}

func (c *graphCat) ObjectName(x Ob) string     { return c.g.VertexName(graph.Vertex(x)) }
func (c *graphCat) MorphismName(f MorGen) string { return c.g.EdgeName(graph.Edge(f)) }

func (c *graphCat) ResolveObject(name string) (Ob, error) {
	v, ok := c.g.VertexByName(name)
	if !ok {
		return NoOb, newError(ErrCodeUnknownGenerator, "unknown object generator %q", name)
	}
	return Ob(v), nil
}

func (c *graphCat) ResolveMorphism(name string) (MorGen, error) {
	es := c.g.EdgesByName(name)
	switch len(es) {
	case 0:
		return -1, newError(ErrCodeUnknownGenerator, "unknown morphism generator %q", name)
	case 1:
		return MorGen(es[0]), nil
	default:
		return -1, newError(ErrCodeAmbiguousGenerator,
			"morphism name %q is shared by %d generators", name, len(es))
	}
}

func (c *graphCat) Dom(f MorGen) Ob   { return Ob(c.g.Source(graph.Edge(f))) }
func (c *graphCat) Codom(f MorGen) Ob { return Ob(c.g.Target(graph.Edge(f))) }

func (c *graphCat) IsDiscrete() bool { return c.g.NumEdges() == 0 }
func (c *graphCat) IsFree() bool     { return len(c.eqs) == 0 }

// MorOfPath converts a path of the backing graph into a morphism value.
func (c *graphCat) MorOfPath(p graph.Path) Mor {
	if p.IsEmpty() {
		return Identity(Ob(p.Source()))
	}
	gens := make([]MorGen, p.Len())
	for i, e := range p.Edges() {
		gens[i] = MorGen(e)
	}
	return Mor{kind: MorComposite, gens: gens, dom: Ob(p.Source()), cod: Ob(p.Target())}
}

// PathOfMor converts a morphism value back into a path of the backing graph.
// Zero has no path form.
func (c *graphCat) PathOfMor(m Mor) (graph.Path, error) {
	switch m.Kind() {
	case MorZero:
		return graph.Path{}, newError(ErrCodeBadGenerator, "zero morphism has no path form")
	case MorIdentity:
		return graph.EmptyPath(graph.Vertex(m.Dom())), nil
	default:
		edges := make([]graph.Edge, len(m.gens))
		for i, g := range m.gens {
			edges[i] = graph.Edge(g)
		}
		return graph.PathFromEdges(c.g, edges)
	}
}
