package diagram

import (
	"github.com/plurigrid/funq/internal/fincat"
	"github.com/plurigrid/funq/internal/functor"
)

// Diagram is a query: a functor from a small shape category into a base
// category, tagged with a Kind. For the three flat kinds the functor is held
// directly; a Gluc diagram instead assigns a Conjunctive diagram to each
// object of its outer shape and a conjunctive homomorphism to each outer
// morphism generator.
type Diagram struct {
	kind  Kind
	shape fincat.FinCat
	base  fincat.FinCat

	// fn is the shape-to-base functor for Trivial/Conjunctive/Glue.
	fn *functor.Functor

	// obQueries and homQueries carry the second level for Gluc.
	obQueries  map[fincat.Ob]*Diagram
	homQueries map[fincat.MorGen]*Hom
}

// singletonShape builds a one-object discrete shape category.
func singletonShape() (fincat.FinCat, fincat.Ob) {
	b := fincat.NewBuilder()
	x, _ := b.AddObject("*")
	c, _ := b.Build()
	return c, x
}

// Trivial wraps a bare object of the base category as a single-object query.
func Trivial(base fincat.FinCat, x fincat.Ob) (*Diagram, error) {
	if !fincat.HasObject(base, x) {
		return nil, newError(ErrCodeBadShape, "object %d is not in the base category", x)
	}
	shape, pt := singletonShape()
	F, err := functor.New(shape, base,
		map[fincat.Ob]fincat.Ob{pt: x},
		map[fincat.MorGen]fincat.Mor{})
	if err != nil {
		return nil, err
	}
	return &Diagram{kind: KindTrivial, shape: shape, base: base, fn: F}, nil
}

// Conjunctive tags a shape functor as a limit-shaped query. The functor must
// be functorial on generators; equations of ad hoc query shapes are not
// checked (best-effort by design).
func Conjunctive(F *functor.Functor) (*Diagram, error) {
	return flat(KindConjunctive, F)
}

// Glue tags a shape functor as a colimit-shaped query.
func Glue(F *functor.Functor) (*Diagram, error) {
	return flat(KindGlue, F)
}

func flat(kind Kind, F *functor.Functor) (*Diagram, error) {
	if fails := F.Failures(false); !fails.Empty() {
		return nil, newError(ErrCodeBadShape,
			"shape mapping is not functorial: %d bad domains, %d bad codomains",
			len(fails.BadDomains), len(fails.BadCodomains))
	}
	return &Diagram{kind: kind, shape: F.Dom(), base: F.Codom(), fn: F}, nil
}

// Gluc assembles a gluing of conjunctive queries: outerShape indexes a
// Conjunctive diagram per object and a conjunctive homomorphism per morphism
// generator. All inner diagrams must share the base category; each hom must
// connect the diagrams at its generator's endpoints.
func Gluc(outerShape fincat.FinCat, base fincat.FinCat,
	obQueries map[fincat.Ob]*Diagram, homQueries map[fincat.MorGen]*Hom) (*Diagram, error) {

	for _, x := range outerShape.ObjectGenerators() {
		q, ok := obQueries[x]
		if !ok {
			return nil, newError(ErrCodeBadShape,
				"no conjunctive query assigned to outer object %q", outerShape.ObjectName(x))
		}
		if q.Kind() != KindConjunctive {
			return nil, newError(ErrCodeKindMismatch,
				"outer object %q is assigned a %s query, want conjunctive",
				outerShape.ObjectName(x), q.Kind())
		}
		if q.Base() != base {
			return nil, newError(ErrCodeBadShape,
				"outer object %q is assigned a query over a different base", outerShape.ObjectName(x))
		}
	}
	if len(obQueries) != len(outerShape.ObjectGenerators()) {
		return nil, newError(ErrCodeBadShape,
			"%d inner queries for %d outer objects",
			len(obQueries), len(outerShape.ObjectGenerators()))
	}
	for _, f := range outerShape.MorphismGenerators() {
		h, ok := homQueries[f]
		if !ok {
			return nil, newError(ErrCodeBadShape,
				"no homomorphism assigned to outer morphism %q", outerShape.MorphismName(f))
		}
		// Outer level is covariant: f : x -> y maps to h : Q(x) -> Q(y).
		if h.Dom() != obQueries[outerShape.Dom(f)] || h.Codom() != obQueries[outerShape.Codom(f)] {
			return nil, newError(ErrCodeBadHom,
				"homomorphism at %q does not connect the endpoint queries", outerShape.MorphismName(f))
		}
	}
	if len(homQueries) != len(outerShape.MorphismGenerators()) {
		return nil, newError(ErrCodeBadShape,
			"%d inner homomorphisms for %d outer morphisms",
			len(homQueries), len(outerShape.MorphismGenerators()))
	}

	d := &Diagram{
		kind:       KindGluc,
		shape:      outerShape,
		base:       base,
		obQueries:  make(map[fincat.Ob]*Diagram, len(obQueries)),
		homQueries: make(map[fincat.MorGen]*Hom, len(homQueries)),
	}
	for k, v := range obQueries {
		d.obQueries[k] = v
	}
	for k, v := range homQueries {
		d.homQueries[k] = v
	}
	return d, nil
}

// Kind returns the diagram's kind tag.
func (d *Diagram) Kind() Kind { return d.kind }

// Shape returns the indexing shape category (the outer shape for Gluc).
func (d *Diagram) Shape() fincat.FinCat { return d.shape }

// Base returns the base category the query draws from.
func (d *Diagram) Base() fincat.FinCat { return d.base }

// Functor returns the shape-to-base functor of a flat diagram, or nil for
// Gluc.
func (d *Diagram) Functor() *functor.Functor { return d.fn }

// ObQuery returns the Conjunctive diagram at an outer object of a Gluc
// diagram, or nil for flat kinds.
func (d *Diagram) ObQuery(x fincat.Ob) *Diagram {
	if d.kind != KindGluc {
		return nil
	}
	return d.obQueries[x]
}

// HomQuery returns the conjunctive homomorphism at an outer morphism
// generator of a Gluc diagram, or nil for flat kinds.
func (d *Diagram) HomQuery(f fincat.MorGen) *Hom {
	if d.kind != KindGluc {
		return nil
	}
	return d.homQueries[f]
}

// SoleObject returns the base object of a single-object diagram. It is the
// read-back of Trivial and of singleton coercions.
func (d *Diagram) SoleObject() (fincat.Ob, error) {
	switch d.kind {
	case KindTrivial, KindConjunctive, KindGlue:
		obs := d.shape.ObjectGenerators()
		if len(obs) != 1 {
			return fincat.NoOb, newError(ErrCodeKindMismatch,
				"diagram has %d shape objects, not 1", len(obs))
		}
		return d.fn.Ob(obs[0]), nil
	default:
		return fincat.NoOb, newError(ErrCodeKindMismatch,
			"gluc diagram has no sole base object")
	}
}
