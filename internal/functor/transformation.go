package functor

import (
	"github.com/plurigrid/funq/internal/fincat"
)

// Transformation assigns to each object generator x of the shared domain a
// codomain morphism component α_x : F(x) -> G(x).
type Transformation struct {
	f          *Functor
	g          *Functor
	components map[fincat.Ob]fincat.Mor
}

// NewTransformation assembles a transformation between two functors sharing
// domain and codomain. Components must cover exactly the object generators
// of the domain and have the boundary endpoints dom(α_x) = F(x),
// cod(α_x) = G(x). Zero components are rejected: a transformation defers
// nothing to external functions.
func NewTransformation(F, G *Functor, components map[fincat.Ob]fincat.Mor) (*Transformation, error) {
	if F.dom != G.dom || F.cod != G.cod {
		return nil, newError(ErrCodeMismatchedFunctors,
			"transformation requires functors with the same domain and codomain")
	}
	for _, x := range F.dom.ObjectGenerators() {
		comp, ok := components[x]
		if !ok {
			return nil, newError(ErrCodeIncompleteMapping,
				"no component for object generator %q", F.dom.ObjectName(x))
		}
		if comp.IsZero() {
			return nil, newError(ErrCodeBadComponent,
				"component at %q is the zero morphism", F.dom.ObjectName(x))
		}
		if comp.Dom() != F.Ob(x) || comp.Codom() != G.Ob(x) {
			return nil, newError(ErrCodeBadComponent,
				"component at %q has endpoints %s->%s, want %s->%s",
				F.dom.ObjectName(x),
				F.cod.ObjectName(comp.Dom()), F.cod.ObjectName(comp.Codom()),
				F.cod.ObjectName(F.Ob(x)), F.cod.ObjectName(G.Ob(x)))
		}
	}
	if len(components) != len(F.dom.ObjectGenerators()) {
		return nil, newError(ErrCodeUnusedAssignment,
			"%d components for %d object generators",
			len(components), len(F.dom.ObjectGenerators()))
	}
	t := &Transformation{f: F, g: G, components: make(map[fincat.Ob]fincat.Mor, len(components))}
	for k, v := range components {
		t.components[k] = v
	}
	return t, nil
}

// DomFunctor returns F, the transformation's source functor.
func (t *Transformation) DomFunctor() *Functor { return t.f }

// CodomFunctor returns G, the transformation's target functor.
func (t *Transformation) CodomFunctor() *Functor { return t.g }

// Component returns α_x.
func (t *Transformation) Component(x fincat.Ob) fincat.Mor { return t.components[x] }

// IsNatural checks the component boundary condition for every object
// generator and then, when checkEquations is set, the naturality square
//
//	α_x . G(f)  ==  F(f) . α_y
//
// for every morphism generator f : x -> y. Checking generators suffices:
// naturality on composites follows from naturality on generators.
//
// Returns false on the first failing generator. There is no failure-collecting
// variant; naturality failures are rare and hard to localize usefully.
func (t *Transformation) IsNatural(checkEquations bool) bool {
	D := t.f.cod
	for _, x := range t.f.dom.ObjectGenerators() {
		comp := t.components[x]
		if comp.Dom() != t.f.Ob(x) || comp.Codom() != t.g.Ob(x) {
			return false
		}
	}
	if !checkEquations {
		return true
	}
	for _, f := range t.f.dom.MorphismGenerators() {
		x := t.f.dom.Dom(f)
		y := t.f.dom.Codom(f)

		lhs, err := fincat.Compose(D, t.components[x], t.g.Hom(f))
		if err != nil {
			return false
		}
		rhs, err := fincat.Compose(D, t.f.Hom(f), t.components[y])
		if err != nil {
			return false
		}
		if !lhs.Equal(rhs) {
			return false
		}
	}
	return true
}

// IdentityTransformation returns the identity transformation on F.
func IdentityTransformation(F *Functor) *Transformation {
	components := make(map[fincat.Ob]fincat.Mor)
	for _, x := range F.dom.ObjectGenerators() {
		components[x] = fincat.Identity(F.Ob(x))
	}
	return &Transformation{f: F, g: F, components: components}
}
