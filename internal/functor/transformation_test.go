package functor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plurigrid/funq/internal/fincat"
	"github.com/plurigrid/funq/internal/graph"
)

func TestIdentityTransformationIsNatural(t *testing.T) {
	c := chainCat(t)
	F := Identity(c)

	alpha := IdentityTransformation(F)
	assert.True(t, alpha.IsNatural(true))
	assert.True(t, alpha.IsNatural(false))

	a, _ := c.ResolveObject("A")
	assert.True(t, alpha.Component(a).IsIdentity())
}

func TestNewTransformationRequiresSharedEndpoints(t *testing.T) {
	c := chainCat(t)
	d := arrowCat(t)
	F := Identity(c)
	G := Identity(d)

	_, err := NewTransformation(F, G, nil)
	require.Error(t, err)
	var fe *Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, ErrCodeMismatchedFunctors, fe.Code)
}

func TestNewTransformationBoundaryViolation(t *testing.T) {
	c := chainCat(t)
	F := Identity(c)

	a, _ := c.ResolveObject("A")
	bb, _ := c.ResolveObject("B")
	cc, _ := c.ResolveObject("C")
	components := map[fincat.Ob]fincat.Mor{
		a:  fincat.Identity(bb), // wrong: must be id at F(A)=A
		bb: fincat.Identity(bb),
		cc: fincat.Identity(cc),
	}

	_, err := NewTransformation(F, F, components)
	require.Error(t, err)
	var fe *Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, ErrCodeBadComponent, fe.Code)
}

func TestNaturalitySquare(t *testing.T) {
	// Domain: single arrow u : P -> Q. Codomain: a commuting square category
	// so that two parallel functors and a non-identity transformation exist.
	b := graph.NewBuilder()
	p, _ := b.AddVertex("P")
	q, _ := b.AddVertex("Q")
	_, err := b.AddEdge(p, q, "u")
	require.NoError(t, err)
	dom := fincat.FreeOnGraph(b.Build())

	b2 := graph.NewBuilder()
	a, _ := b2.AddVertex("a")
	bb, _ := b2.AddVertex("b")
	cc, _ := b2.AddVertex("c")
	d, _ := b2.AddVertex("d")
	ab, _ := b2.AddEdge(a, bb, "ab") // F(u)
	acE, _ := b2.AddEdge(a, cc, "ac") // alpha_P
	bd, _ := b2.AddEdge(bb, d, "bd") // alpha_Q
	cd, _ := b2.AddEdge(cc, d, "cd") // G(u)
	cod := fincat.FreeOnGraph(b2.Build())

	u, _ := dom.ResolveMorphism("u")

	F, err := New(dom, cod,
		map[fincat.Ob]fincat.Ob{fincat.Ob(p): fincat.Ob(a), fincat.Ob(q): fincat.Ob(bb)},
		map[fincat.MorGen]fincat.Mor{u: fincat.Gen(cod, fincat.MorGen(ab))})
	require.NoError(t, err)

	G, err := New(dom, cod,
		map[fincat.Ob]fincat.Ob{fincat.Ob(p): fincat.Ob(cc), fincat.Ob(q): fincat.Ob(d)},
		map[fincat.MorGen]fincat.Mor{u: fincat.Gen(cod, fincat.MorGen(cd))})
	require.NoError(t, err)

	components := map[fincat.Ob]fincat.Mor{
		fincat.Ob(p): fincat.Gen(cod, fincat.MorGen(acE)),
		fincat.Ob(q): fincat.Gen(cod, fincat.MorGen(bd)),
	}
	alpha, err := NewTransformation(F, G, components)
	require.NoError(t, err)

	// In the free category ac.cd != ab.bd syntactically, so the square does
	// not commute: naturality must fail under the equation check but pass the
	// boundary-only check.
	assert.True(t, alpha.IsNatural(false))
	assert.False(t, alpha.IsNatural(true))
}

func TestNaturalityHoldsForEqualComposites(t *testing.T) {
	// Codomain is a chain x -> y -> z; F maps u to the first leg, G to the
	// second, components are chosen so both square sides are the full chain.
	b := graph.NewBuilder()
	p, _ := b.AddVertex("P")
	q, _ := b.AddVertex("Q")
	_, _ = b.AddEdge(p, q, "u")
	dom := fincat.FreeOnGraph(b.Build())

	b2 := graph.NewBuilder()
	x, _ := b2.AddVertex("x")
	y, _ := b2.AddVertex("y")
	z, _ := b2.AddVertex("z")
	xy, _ := b2.AddEdge(x, y, "xy")
	yz, _ := b2.AddEdge(y, z, "yz")
	cod := fincat.FreeOnGraph(b2.Build())

	u, _ := dom.ResolveMorphism("u")

	F, err := New(dom, cod,
		map[fincat.Ob]fincat.Ob{fincat.Ob(p): fincat.Ob(x), fincat.Ob(q): fincat.Ob(y)},
		map[fincat.MorGen]fincat.Mor{u: fincat.Gen(cod, fincat.MorGen(xy))})
	require.NoError(t, err)

	G, err := New(dom, cod,
		map[fincat.Ob]fincat.Ob{fincat.Ob(p): fincat.Ob(y), fincat.Ob(q): fincat.Ob(z)},
		map[fincat.MorGen]fincat.Mor{u: fincat.Gen(cod, fincat.MorGen(yz))})
	require.NoError(t, err)

	components := map[fincat.Ob]fincat.Mor{
		fincat.Ob(p): fincat.Gen(cod, fincat.MorGen(xy)),
		fincat.Ob(q): fincat.Gen(cod, fincat.MorGen(yz)),
	}
	alpha, err := NewTransformation(F, G, components)
	require.NoError(t, err)

	// alpha_P . G(u) = xy.yz = F(u) . alpha_Q
	assert.True(t, alpha.IsNatural(true))
}
