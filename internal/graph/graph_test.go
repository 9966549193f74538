package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTriangle returns a graph A --f--> B --g--> C with the three handles.
func buildTriangle(t *testing.T) (*Graph, []Vertex, []Edge) {
	t.Helper()
	b := NewBuilder()
	a, err := b.AddVertex("A")
	require.NoError(t, err)
	bb, err := b.AddVertex("B")
	require.NoError(t, err)
	c, err := b.AddVertex("C")
	require.NoError(t, err)
	f, err := b.AddEdge(a, bb, "f")
	require.NoError(t, err)
	g, err := b.AddEdge(bb, c, "g")
	require.NoError(t, err)
	return b.Build(), []Vertex{a, bb, c}, []Edge{f, g}
}

func TestBuilderBasics(t *testing.T) {
	g, vs, es := buildTriangle(t)

	assert.Equal(t, 3, g.NumVertices())
	assert.Equal(t, 2, g.NumEdges())
	assert.Equal(t, vs[0], g.Source(es[0]))
	assert.Equal(t, vs[1], g.Target(es[0]))
	assert.Equal(t, "f", g.EdgeName(es[0]))
	assert.Equal(t, "B", g.VertexName(vs[1]))

	v, ok := g.VertexByName("C")
	require.True(t, ok)
	assert.Equal(t, vs[2], v)

	_, ok = g.VertexByName("missing")
	assert.False(t, ok)
}

func TestBuilderDuplicateVertexName(t *testing.T) {
	b := NewBuilder()
	_, err := b.AddVertex("X")
	require.NoError(t, err)
	_, err = b.AddVertex("X")
	require.Error(t, err)
	var ge *Error
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, ErrCodeDuplicateVertexName, ge.Code)
}

func TestBuilderAllowsDuplicateEdgeNames(t *testing.T) {
	b := NewBuilder()
	a, _ := b.AddVertex("A")
	c, _ := b.AddVertex("B")
	_, err := b.AddEdge(a, c, "f")
	require.NoError(t, err)
	_, err = b.AddEdge(a, c, "f") // parallel edge, same name
	require.NoError(t, err)
	g := b.Build()
	assert.Len(t, g.EdgesByName("f"), 2)
}

func TestBuilderUnknownEndpoint(t *testing.T) {
	b := NewBuilder()
	a, _ := b.AddVertex("A")
	_, err := b.AddEdge(a, Vertex(99), "f")
	require.Error(t, err)
	var ge *Error
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, ErrCodeUnknownVertex, ge.Code)
}

func TestOutAndInEdges(t *testing.T) {
	g, vs, es := buildTriangle(t)
	assert.Equal(t, []Edge{es[0]}, g.OutEdges(vs[0]))
	assert.Equal(t, []Edge{es[1]}, g.InEdges(vs[2]))
	assert.Empty(t, g.OutEdges(vs[2]))
}

// =============================================================================
// Path construction and algebra
// =============================================================================

func TestPathFromEdges(t *testing.T) {
	g, vs, es := buildTriangle(t)

	p, err := PathFromEdges(g, es)
	require.NoError(t, err)
	assert.Equal(t, vs[0], p.Source())
	assert.Equal(t, vs[2], p.Target())
	assert.Equal(t, 2, p.Len())
}

func TestPathFromEdgesEmpty(t *testing.T) {
	g, _, _ := buildTriangle(t)
	_, err := PathFromEdges(g, nil)
	require.Error(t, err)
	assert.True(t, IsMalformedPath(err))
}

func TestPathFromEdgesNonComposable(t *testing.T) {
	b := NewBuilder()
	a, _ := b.AddVertex("A")
	c, _ := b.AddVertex("B")
	f, _ := b.AddEdge(a, c, "f")
	h, _ := b.AddEdge(a, c, "h") // h does not start where f ends
	g := b.Build()

	_, err := PathFromEdges(g, []Edge{f, h})
	require.Error(t, err)
	assert.True(t, IsMalformedPath(err))
}

func TestConcatIdentityLaws(t *testing.T) {
	g, _, es := buildTriangle(t)
	p, err := PathFromEdges(g, es)
	require.NoError(t, err)

	right, err := Concat(p, EmptyPath(p.Target()))
	require.NoError(t, err)
	assert.True(t, p.Equal(right), "p . id == p")

	left, err := Concat(EmptyPath(p.Source()), p)
	require.NoError(t, err)
	assert.True(t, p.Equal(left), "id . p == p")
}

func TestConcatAssociative(t *testing.T) {
	b := NewBuilder()
	a, _ := b.AddVertex("a")
	bb, _ := b.AddVertex("b")
	c, _ := b.AddVertex("c")
	d, _ := b.AddVertex("d")
	f, _ := b.AddEdge(a, bb, "f")
	gg, _ := b.AddEdge(bb, c, "g")
	h, _ := b.AddEdge(c, d, "h")
	g := b.Build()

	pf := SingleEdgePath(g, f)
	pg := SingleEdgePath(g, gg)
	ph := SingleEdgePath(g, h)

	fg, err := Concat(pf, pg)
	require.NoError(t, err)
	lhs, err := Concat(fg, ph)
	require.NoError(t, err)

	gh, err := Concat(pg, ph)
	require.NoError(t, err)
	rhs, err := Concat(pf, gh)
	require.NoError(t, err)

	assert.True(t, lhs.Equal(rhs))
}

func TestConcatEndpointMismatch(t *testing.T) {
	g, vs, es := buildTriangle(t)
	p := SingleEdgePath(g, es[0])
	_, err := Concat(p, EmptyPath(vs[0]))
	require.Error(t, err)
	assert.True(t, IsEndpointMismatch(err))
}

func TestReverse(t *testing.T) {
	g, vs, es := buildTriangle(t)
	p, err := PathFromEdges(g, es)
	require.NoError(t, err)

	r := Reverse(p)
	assert.Equal(t, vs[2], r.Source())
	assert.Equal(t, vs[0], r.Target())
	assert.Equal(t, []Edge{es[1], es[0]}, r.Edges())
	assert.True(t, Reverse(r).Equal(p), "reverse is an involution")
}
