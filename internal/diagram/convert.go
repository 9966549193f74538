package diagram

import (
	"github.com/plurigrid/funq/internal/fincat"
	"github.com/plurigrid/funq/internal/functor"
)

// Convert coerces a diagram up to the requested kind by wrapping it in
// singleton shapes. Coercion is strictly upward in the promotion order;
// anything else is a programming error and fails with ErrCodeInvalidCoercion.
func Convert(kind Kind, d *Diagram) (*Diagram, error) {
	if kind == d.Kind() {
		return d, nil
	}
	if !LessEq(d.Kind(), kind) {
		return nil, newError(ErrCodeInvalidCoercion,
			"cannot coerce a %s query down to %s", d.Kind(), kind)
	}
	switch kind {
	case KindConjunctive, KindGlue:
		// Trivial embeds by re-tagging: the singleton shape already is a
		// (degenerate) limit or colimit shape.
		return &Diagram{kind: kind, shape: d.shape, base: d.base, fn: d.fn}, nil
	case KindGluc:
		return convertToGluc(d)
	default:
		return nil, newError(ErrCodeInvalidCoercion,
			"cannot coerce a %s query down to %s", d.Kind(), kind)
	}
}

func convertToGluc(d *Diagram) (*Diagram, error) {
	switch d.Kind() {
	case KindTrivial:
		conj, err := Convert(KindConjunctive, d)
		if err != nil {
			return nil, err
		}
		return convertToGluc(conj)
	case KindConjunctive:
		// One-object outer shape around the whole conjunctive diagram.
		shape, pt := singletonShape()
		return Gluc(shape, d.base,
			map[fincat.Ob]*Diagram{pt: d},
			map[fincat.MorGen]*Hom{})
	case KindGlue:
		// Each glued object becomes a singleton conjunctive diagram; each
		// shape morphism becomes a homomorphism between the singletons whose
		// sole component is the morphism's base image.
		obQueries := make(map[fincat.Ob]*Diagram, len(d.shape.ObjectGenerators()))
		for _, i := range d.shape.ObjectGenerators() {
			q, err := singletonConjunctive(d.base, d.fn.Ob(i))
			if err != nil {
				return nil, err
			}
			obQueries[i] = q
		}
		homQueries := make(map[fincat.MorGen]*Hom, len(d.shape.MorphismGenerators()))
		for _, f := range d.shape.MorphismGenerators() {
			src := obQueries[d.shape.Dom(f)]
			tgt := obQueries[d.shape.Codom(f)]
			shapeMap, err := pointFunctor(tgt.Shape(), src.Shape())
			if err != nil {
				return nil, err
			}
			tgtPt := tgt.Shape().ObjectGenerators()[0]
			h, err := NewConjunctiveHom(src, tgt, shapeMap,
				map[fincat.Ob]fincat.Mor{tgtPt: d.fn.Hom(f)})
			if err != nil {
				return nil, err
			}
			homQueries[f] = h
		}
		return Gluc(d.shape, d.base, obQueries, homQueries)
	default:
		return nil, newError(ErrCodeInvalidCoercion, "cannot coerce %s to gluc", d.Kind())
	}
}

// singletonConjunctive builds the one-object conjunctive query on x.
func singletonConjunctive(base fincat.FinCat, x fincat.Ob) (*Diagram, error) {
	t, err := Trivial(base, x)
	if err != nil {
		return nil, err
	}
	return Convert(KindConjunctive, t)
}

// pointFunctor maps one singleton shape onto another.
func pointFunctor(dom, cod fincat.FinCat) (*functor.Functor, error) {
	return functor.New(dom, cod,
		map[fincat.Ob]fincat.Ob{dom.ObjectGenerators()[0]: cod.ObjectGenerators()[0]},
		map[fincat.MorGen]fincat.Mor{})
}
