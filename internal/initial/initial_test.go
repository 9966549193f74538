package initial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plurigrid/funq/internal/fincat"
	"github.com/plurigrid/funq/internal/functor"
	"github.com/plurigrid/funq/internal/graph"
)

func freeChain(t *testing.T) *fincat.FreeGraphCat {
	t.Helper()
	b := graph.NewBuilder()
	a, _ := b.AddVertex("A")
	bb, _ := b.AddVertex("B")
	c, _ := b.AddVertex("C")
	_, err := b.AddEdge(a, bb, "f")
	require.NoError(t, err)
	_, err = b.AddEdge(bb, c, "g")
	require.NoError(t, err)
	return fincat.FreeOnGraph(b.Build())
}

func TestIdentityFunctorIsInitial(t *testing.T) {
	c := freeChain(t)
	F := functor.Identity(c)

	report, err := Check(F)
	require.NoError(t, err)
	assert.True(t, report.Initial)
	assert.Empty(t, report.Disconnected())
	require.Len(t, report.Slices, 3)
	for _, s := range report.Slices {
		assert.True(t, s.Connected())
		assert.Equal(t, 1, s.Components)
	}

	// Slice over C contains (A, f.g), (B, g), (C, id).
	assert.Equal(t, 3, report.Slices[2].Size)
}

func TestCollapsingUnreachableObjectsIsNotInitial(t *testing.T) {
	// Domain: two isolated vertices; codomain: one vertex. Both domain
	// objects land on the single target with no connecting morphism, so the
	// slice has two components.
	b := graph.NewBuilder()
	x1, _ := b.AddVertex("X1")
	x2, _ := b.AddVertex("X2")
	dom := fincat.FreeOnGraph(b.Build())

	b2 := graph.NewBuilder()
	y, _ := b2.AddVertex("Y")
	cod := fincat.FreeOnGraph(b2.Build())

	F, err := functor.New(dom, cod,
		map[fincat.Ob]fincat.Ob{fincat.Ob(x1): fincat.Ob(y), fincat.Ob(x2): fincat.Ob(y)},
		map[fincat.MorGen]fincat.Mor{})
	require.NoError(t, err)

	report, err := Check(F)
	require.NoError(t, err)
	assert.False(t, report.Initial)
	require.Len(t, report.Slices, 1)
	assert.Equal(t, 2, report.Slices[0].Size)
	assert.Equal(t, 2, report.Slices[0].Components)
	assert.Equal(t, []fincat.Ob{fincat.Ob(y)}, report.Disconnected())
}

func TestEmptySliceFailsConnectivity(t *testing.T) {
	// Domain object maps to B in A --u--> B; nothing maps over A, so the
	// slice over A is empty and the functor is not initial.
	b := graph.NewBuilder()
	s, _ := b.AddVertex("S")
	dom := fincat.FreeOnGraph(b.Build())

	b2 := graph.NewBuilder()
	a, _ := b2.AddVertex("A")
	bb, _ := b2.AddVertex("B")
	_, _ = b2.AddEdge(a, bb, "u")
	cod := fincat.FreeOnGraph(b2.Build())

	F, err := functor.New(dom, cod,
		map[fincat.Ob]fincat.Ob{fincat.Ob(s): fincat.Ob(bb)},
		map[fincat.MorGen]fincat.Mor{})
	require.NoError(t, err)

	report, err := Check(F)
	require.NoError(t, err)
	assert.False(t, report.Initial)
	assert.Equal(t, 0, report.Slices[int(a)].Size)
	assert.False(t, report.Slices[int(a)].Connected())
	// The slice over B is the singleton (S, id_B) and stays connected.
	assert.True(t, report.Slices[int(bb)].Connected())
}

func TestInclusionOfSourceIsInitial(t *testing.T) {
	// Including the source vertex of A --u--> B is initial: every slice is a
	// single path from A.
	b := graph.NewBuilder()
	s, _ := b.AddVertex("S")
	dom := fincat.FreeOnGraph(b.Build())

	b2 := graph.NewBuilder()
	a, _ := b2.AddVertex("A")
	bb, _ := b2.AddVertex("B")
	_, _ = b2.AddEdge(a, bb, "u")
	cod := fincat.FreeOnGraph(b2.Build())
	_ = bb

	F, err := functor.New(dom, cod,
		map[fincat.Ob]fincat.Ob{fincat.Ob(s): fincat.Ob(a)},
		map[fincat.MorGen]fincat.Mor{})
	require.NoError(t, err)

	report, err := Check(F)
	require.NoError(t, err)
	assert.True(t, report.Initial)
}

func TestCheckRejectsNonFreeDomain(t *testing.T) {
	// A domain with equations is outside the checker's precondition.
	b := graph.NewBuilder()
	a, _ := b.AddVertex("A")
	c, _ := b.AddVertex("B")
	f, _ := b.AddEdge(a, c, "f")
	g, _ := b.AddEdge(a, c, "g")
	gr := b.Build()

	free := fincat.FreeOnGraph(gr)
	lhs, err := fincat.FromGenerators(free, []fincat.MorGen{fincat.MorGen(f)})
	require.NoError(t, err)
	rhs, err := fincat.FromGenerators(free, []fincat.MorGen{fincat.MorGen(g)})
	require.NoError(t, err)
	eq, err := fincat.NewEquation(free, lhs, rhs)
	require.NoError(t, err)
	dom, err := fincat.GraphWithEquations(gr, []fincat.Equation{eq})
	require.NoError(t, err)

	F := functor.Identity(dom)
	_, err = Check(F)
	require.Error(t, err)
	assert.True(t, IsNotFreeOnGraph(err))
}

func TestCheckRejectsCyclicCodomain(t *testing.T) {
	b := graph.NewBuilder()
	a, _ := b.AddVertex("A")
	c, _ := b.AddVertex("B")
	_, _ = b.AddEdge(a, c, "f")
	_, _ = b.AddEdge(c, a, "g")
	cod := fincat.FreeOnGraph(b.Build())

	F := functor.Identity(cod)
	_, err := Check(F)
	require.Error(t, err)
	assert.True(t, graph.IsCyclicGraph(err))
}
