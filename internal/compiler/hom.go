package compiler

import (
	"github.com/plurigrid/funq/internal/diagram"
	"github.com/plurigrid/funq/internal/fincat"
	"github.com/plurigrid/funq/internal/functor"
	"github.com/plurigrid/funq/internal/statement"
)

// Homomorphism assembly from Via paths.
//
// A Via sequence is consumed positionally: when the shape that needs a
// projection target has more than one object, the leading element must name
// one of its binding variables; the remaining elements are source morphism
// generators forming the component path. An empty sequence with no external
// function yields the zero placeholder on single-object shapes.

// conjunctiveHomFromPath builds a contravariant homomorphism between
// conjunctive (or trivial) diagrams. The codomain must be single-object.
func conjunctiveHomFromPath(src *Schema, dom, cod *diagram.Diagram, via []string,
	external, field string, exts *[]ExternalRef) (*diagram.Hom, []ValidationError) {

	codObs := cod.Shape().ObjectGenerators()
	if len(codObs) != 1 {
		return nil, []ValidationError{errf(ErrUnsupportedHomShape, field,
			"morphism assignment needs a single-object codomain query, got %d objects", len(codObs))}
	}
	j := codObs[0]
	unresolved := len(via) == 0 && external == ""

	phi, rest, errs := projectionTarget(dom.Shape(), via, field)
	if len(errs) > 0 {
		return nil, errs
	}
	comp, errs := componentMor(src, dom.Functor().Ob(phi), cod.Functor().Ob(j),
		rest, external, unresolved, field, exts)
	if len(errs) > 0 {
		return nil, errs
	}
	shapeMap, err := functor.New(cod.Shape(), dom.Shape(),
		map[fincat.Ob]fincat.Ob{j: phi}, map[fincat.MorGen]fincat.Mor{})
	if err != nil {
		return nil, []ValidationError{errf(ErrBadMorphismPath, field, "%v", err)}
	}
	h, err := diagram.NewConjunctiveHom(dom, cod, shapeMap, map[fincat.Ob]fincat.Mor{j: comp})
	if err != nil {
		return nil, []ValidationError{errf(ErrBadMorphismPath, field, "%v", err)}
	}
	return h, nil
}

// glueHomFromPath builds a covariant homomorphism between glue (or trivial)
// diagrams. The domain must be single-object.
func glueHomFromPath(src *Schema, dom, cod *diagram.Diagram, via []string,
	external, field string, exts *[]ExternalRef) (*diagram.Hom, []ValidationError) {

	domObs := dom.Shape().ObjectGenerators()
	if len(domObs) != 1 {
		return nil, []ValidationError{errf(ErrUnsupportedHomShape, field,
			"morphism assignment needs a single-object domain query, got %d objects", len(domObs))}
	}
	i := domObs[0]
	unresolved := len(via) == 0 && external == ""

	phi, rest, errs := projectionTarget(cod.Shape(), via, field)
	if len(errs) > 0 {
		return nil, errs
	}
	comp, errs := componentMor(src, dom.Functor().Ob(i), cod.Functor().Ob(phi),
		rest, external, unresolved, field, exts)
	if len(errs) > 0 {
		return nil, errs
	}
	shapeMap, err := functor.New(dom.Shape(), cod.Shape(),
		map[fincat.Ob]fincat.Ob{i: phi}, map[fincat.MorGen]fincat.Mor{})
	if err != nil {
		return nil, []ValidationError{errf(ErrBadMorphismPath, field, "%v", err)}
	}
	h, err := diagram.NewGlueHom(dom, cod, shapeMap, map[fincat.Ob]fincat.Mor{i: comp})
	if err != nil {
		return nil, []ValidationError{errf(ErrBadMorphismPath, field, "%v", err)}
	}
	return h, nil
}

// glucHomFromPath builds a two-level homomorphism between gluc diagrams. The
// domain's outer shape must be single-object; the Via sequence first selects
// an outer binding of the codomain when needed, then feeds the inner
// conjunctive homomorphism.
func glucHomFromPath(src *Schema, dom, cod *diagram.Diagram, via []string,
	external, field string, exts *[]ExternalRef) (*diagram.Hom, []ValidationError) {

	domObs := dom.Shape().ObjectGenerators()
	if len(domObs) != 1 {
		return nil, []ValidationError{errf(ErrUnsupportedHomShape, field,
			"morphism assignment needs a single-object outer domain, got %d objects", len(domObs))}
	}
	i := domObs[0]

	outer, rest, errs := projectionTarget(cod.Shape(), via, field)
	if len(errs) > 0 {
		return nil, errs
	}
	innerHom, errs := conjunctiveHomFromPath(src, dom.ObQuery(i), cod.ObQuery(outer),
		rest, external, field, exts)
	if len(errs) > 0 {
		return nil, errs
	}
	outerMap, err := functor.New(dom.Shape(), cod.Shape(),
		map[fincat.Ob]fincat.Ob{i: outer}, map[fincat.MorGen]fincat.Mor{})
	if err != nil {
		return nil, []ValidationError{errf(ErrBadMorphismPath, field, "%v", err)}
	}
	h, err := diagram.NewGlucHom(dom, cod, outerMap, map[fincat.Ob]*diagram.Hom{i: innerHom})
	if err != nil {
		return nil, []ValidationError{errf(ErrBadMorphismPath, field, "%v", err)}
	}
	return h, nil
}

// projectionTarget picks the shape object a homomorphism projects through.
// Single-object shapes need no selector; otherwise the leading Via element
// must name a binding variable of the shape.
func projectionTarget(shape fincat.FinCat, via []string, field string) (fincat.Ob, []string, []ValidationError) {
	obs := shape.ObjectGenerators()
	if len(obs) == 1 {
		return obs[0], via, nil
	}
	if len(via) == 0 {
		return fincat.NoOb, nil, []ValidationError{errf(ErrUnsupportedHomShape, field,
			"a projection variable is required for a %d-object query", len(obs))}
	}
	x, err := shape.ResolveObject(via[0])
	if err != nil {
		return fincat.NoOb, nil, []ValidationError{errf(ErrBadMorphismPath, field,
			"%q does not name a binding variable", via[0])}
	}
	return x, via[1:], nil
}

// componentMor resolves the base-morphism component of a homomorphism: an
// external function key yields the zero placeholder, an empty remainder the
// identity (or zero when the whole assignment was left unresolved), and a
// generator sequence a composite with the expected endpoints.
func componentMor(src *Schema, wantDom, wantCod fincat.Ob, rest []string,
	external string, unresolved bool, field string, exts *[]ExternalRef) (fincat.Mor, []ValidationError) {

	if external != "" {
		if len(rest) > 0 {
			return fincat.Mor{}, []ValidationError{errf(ErrBadMorphismPath, field,
				"cannot combine a generator path with an external function")}
		}
		*exts = append(*exts, ExternalRef{At: field, Key: external})
		return fincat.Zero(), nil
	}
	if unresolved {
		return fincat.Zero(), nil
	}
	c := statement.Constraint{Via: rest}
	return constraintImage(src, c, wantDom, wantCod, field, exts)
}
