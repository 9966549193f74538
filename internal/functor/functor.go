package functor

import (
	"github.com/plurigrid/funq/internal/fincat"
)

// Functor maps the generators of a domain FinCat into a codomain FinCat:
// objects to objects, morphism generators to morphism values (possibly
// composites, identities, or the Zero placeholder). A Functor is immutable
// once constructed.
type Functor struct {
	dom    fincat.FinCat
	cod    fincat.FinCat
	obMap  map[fincat.Ob]fincat.Ob
	homMap map[fincat.MorGen]fincat.Mor
}

// New assembles a functor from explicit generator assignments. The
// assignments must cover exactly the generator sets of the domain: a missing
// generator fails with ErrCodeIncompleteMapping, an extra key with
// ErrCodeUnusedAssignment. Object images must be objects of the codomain;
// morphism images may be any codomain morphism value including Zero.
//
// New does not check functoriality; use Failures or IsFunctorial for that,
// or NewStrict to fail on non-functorial assignments.
func New(dom, cod fincat.FinCat, obMap map[fincat.Ob]fincat.Ob, homMap map[fincat.MorGen]fincat.Mor) (*Functor, error) {
	for _, x := range dom.ObjectGenerators() {
		img, ok := obMap[x]
		if !ok {
			return nil, newError(ErrCodeIncompleteMapping,
				"no object assignment for generator %q", dom.ObjectName(x))
		}
		if !fincat.HasObject(cod, img) {
			return nil, newError(ErrCodeBadAssignment,
				"object %q is mapped outside the codomain", dom.ObjectName(x))
		}
	}
	if len(obMap) != len(dom.ObjectGenerators()) {
		return nil, newError(ErrCodeUnusedAssignment,
			"%d object assignments for %d generators", len(obMap), len(dom.ObjectGenerators()))
	}
	for _, f := range dom.MorphismGenerators() {
		if _, ok := homMap[f]; !ok {
			return nil, newError(ErrCodeIncompleteMapping,
				"no morphism assignment for generator %q", dom.MorphismName(f))
		}
	}
	if len(homMap) != len(dom.MorphismGenerators()) {
		return nil, newError(ErrCodeUnusedAssignment,
			"%d morphism assignments for %d generators", len(homMap), len(dom.MorphismGenerators()))
	}

	F := &Functor{
		dom:    dom,
		cod:    cod,
		obMap:  make(map[fincat.Ob]fincat.Ob, len(obMap)),
		homMap: make(map[fincat.MorGen]fincat.Mor, len(homMap)),
	}
	for k, v := range obMap {
		F.obMap[k] = v
	}
	for k, v := range homMap {
		F.homMap[k] = v
	}
	return F, nil
}

// NewStrict is New plus a functoriality check (equations included). Fails
// with ErrCodeNonFunctorial when any failure set is non-empty.
func NewStrict(dom, cod fincat.FinCat, obMap map[fincat.Ob]fincat.Ob, homMap map[fincat.MorGen]fincat.Mor) (*Functor, error) {
	F, err := New(dom, cod, obMap, homMap)
	if err != nil {
		return nil, err
	}
	if fails := F.Failures(true); !fails.Empty() {
		return nil, newError(ErrCodeNonFunctorial,
			"assignments are not functorial: %d bad domains, %d bad codomains, %d bad equations",
			len(fails.BadDomains), len(fails.BadCodomains), len(fails.BadEquations))
	}
	return F, nil
}

// Dom returns the domain category.
func (F *Functor) Dom() fincat.FinCat { return F.dom }

// Codom returns the codomain category.
func (F *Functor) Codom() fincat.FinCat { return F.cod }

// Ob returns the image of an object generator.
func (F *Functor) Ob(x fincat.Ob) fincat.Ob { return F.obMap[x] }

// Hom returns the image of a morphism generator.
func (F *Functor) Hom(f fincat.MorGen) fincat.Mor { return F.homMap[f] }

// HomMor computes the image of a composite morphism by folding composition
// over the generator images, seeded with the identity at the image of the
// source object. This is the single place composite images are evaluated.
// The fold short-circuits to Zero as soon as any factor image is Zero.
func (F *Functor) HomMor(m fincat.Mor) (fincat.Mor, error) {
	switch m.Kind() {
	case fincat.MorZero:
		return fincat.Zero(), nil
	case fincat.MorIdentity:
		return fincat.Identity(F.Ob(m.Dom())), nil
	default:
		gens := m.Generators()
		imgs := make([]fincat.Mor, len(gens))
		for i, g := range gens {
			imgs[i] = F.homMap[g]
		}
		return fincat.ComposeAll(F.cod, F.Ob(m.Dom()), imgs)
	}
}

// Failures collects every functoriality violation without raising.
//
// BadDomains lists generators whose image's domain disagrees with the image
// of the generator's domain; BadCodomains symmetrically. Zero images pass
// both checks: the placeholder has no endpoints to disagree with.
//
// BadEquations (computed only when checkEquations is set) lists indices into
// Dom().Equations() whose two sides map to unequal composites. Equality of
// composites is the codomain's syntactic Mor equality, so when the codomain
// itself has equations this check is a best-effort approximation, not a
// decision procedure: it may report an equation as bad that a full
// equational theory would discharge.
func (F *Functor) Failures(checkEquations bool) *Failures {
	fails := &Failures{}
	for _, f := range F.dom.MorphismGenerators() {
		img := F.homMap[f]
		if img.IsZero() {
			continue
		}
		if img.Dom() != F.obMap[F.dom.Dom(f)] {
			fails.BadDomains = append(fails.BadDomains, f)
		}
		if img.Codom() != F.obMap[F.dom.Codom(f)] {
			fails.BadCodomains = append(fails.BadCodomains, f)
		}
	}
	if !checkEquations {
		return fails
	}
	for i, eq := range F.dom.Equations() {
		lhs, err := F.HomMor(eq.Lhs)
		if err != nil {
			fails.BadEquations = append(fails.BadEquations, i)
			continue
		}
		rhs, err := F.HomMor(eq.Rhs)
		if err != nil {
			fails.BadEquations = append(fails.BadEquations, i)
			continue
		}
		if !lhs.Equal(rhs) {
			fails.BadEquations = append(fails.BadEquations, i)
		}
	}
	return fails
}

// IsFunctorial reports whether all failure sets are empty.
func (F *Functor) IsFunctorial(checkEquations bool) bool {
	return F.Failures(checkEquations).Empty()
}

// Failures holds the structured result of a functoriality check.
type Failures struct {
	BadDomains   []fincat.MorGen
	BadCodomains []fincat.MorGen
	BadEquations []int // indices into Dom().Equations()
}

// Empty reports whether no violations were found.
func (f *Failures) Empty() bool {
	return len(f.BadDomains) == 0 && len(f.BadCodomains) == 0 && len(f.BadEquations) == 0
}

// Compose composes F then G. Fails unless F's codomain is G's domain (the
// same category value, not merely an isomorphic one).
func Compose(F, G *Functor) (*Functor, error) {
	if F.cod != G.dom {
		return nil, newError(ErrCodeComposeMismatch,
			"codomain of the first functor is not the domain of the second")
	}
	obMap := make(map[fincat.Ob]fincat.Ob, len(F.obMap))
	for x, y := range F.obMap {
		obMap[x] = G.obMap[y]
	}
	homMap := make(map[fincat.MorGen]fincat.Mor, len(F.homMap))
	for f, m := range F.homMap {
		img, err := G.HomMor(m)
		if err != nil {
			return nil, err
		}
		homMap[f] = img
	}
	return &Functor{dom: F.dom, cod: G.cod, obMap: obMap, homMap: homMap}, nil
}

// Identity returns the identity functor on c.
func Identity(c fincat.FinCat) *Functor {
	obMap := make(map[fincat.Ob]fincat.Ob)
	for _, x := range c.ObjectGenerators() {
		obMap[x] = x
	}
	homMap := make(map[fincat.MorGen]fincat.Mor)
	for _, f := range c.MorphismGenerators() {
		homMap[f] = fincat.Gen(c, f)
	}
	return &Functor{dom: c, cod: c, obMap: obMap, homMap: homMap}
}
