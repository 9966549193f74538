package diagram

import (
	"github.com/plurigrid/funq/internal/fincat"
	"github.com/plurigrid/funq/internal/functor"
)

// Hom is a homomorphism of diagrams: a shape-level functor plus per-object
// components in the base category.
//
// Variance is fixed by the kind of its endpoints:
//
//   - Conjunctive (limits): contravariant. The shape functor runs
//     shape(cod) -> shape(dom); the component at a codomain-shape object j
//     is a base morphism dom(Φ(j)) -> cod(j).
//   - Glue (colimits): covariant. The shape functor runs
//     shape(dom) -> shape(cod); the component at a domain-shape object i is
//     a base morphism dom(i) -> cod(Φ(i)).
//   - Gluc: covariant at the outer level with an inner conjunctive
//     homomorphism per outer object of the domain.
//
// Components may be the Zero placeholder: those positions are filled in by
// an externally supplied function at evaluation time.
type Hom struct {
	dom      *Diagram
	cod      *Diagram
	shapeMap *functor.Functor

	// components is keyed by shape objects of cod (contravariant) or dom
	// (covariant), per the variance rules above.
	components    map[fincat.Ob]fincat.Mor
	contravariant bool

	// inner holds the second level of a Gluc homomorphism, keyed by outer
	// shape objects of dom.
	inner map[fincat.Ob]*Hom
}

// NewConjunctiveHom builds a contravariant homomorphism between Conjunctive
// (or Trivial) diagrams. shapeMap must run shape(cod) -> shape(dom); the
// component at each codomain-shape object j must be a base morphism
// dom(Φ(j)) -> cod(j), or Zero.
func NewConjunctiveHom(dom, cod *Diagram, shapeMap *functor.Functor, components map[fincat.Ob]fincat.Mor) (*Hom, error) {
	if err := requireFlatKind(dom, KindConjunctive); err != nil {
		return nil, err
	}
	if err := requireFlatKind(cod, KindConjunctive); err != nil {
		return nil, err
	}
	if shapeMap.Dom() != cod.Shape() || shapeMap.Codom() != dom.Shape() {
		return nil, newError(ErrCodeBadHom,
			"conjunctive homomorphism needs a shape functor shape(cod) -> shape(dom)")
	}
	for _, j := range cod.Shape().ObjectGenerators() {
		comp, ok := components[j]
		if !ok {
			return nil, newError(ErrCodeBadHom,
				"no component at shape object %q", cod.Shape().ObjectName(j))
		}
		if comp.IsZero() {
			continue
		}
		want := dom.Functor().Ob(shapeMap.Ob(j))
		if comp.Dom() != want || comp.Codom() != cod.Functor().Ob(j) {
			return nil, newError(ErrCodeBadHom,
				"component at %q has wrong endpoints", cod.Shape().ObjectName(j))
		}
	}
	return &Hom{dom: dom, cod: cod, shapeMap: shapeMap,
		components: cloneComponents(components), contravariant: true}, nil
}

// NewGlueHom builds a covariant homomorphism between Glue (or Trivial)
// diagrams. shapeMap must run shape(dom) -> shape(cod); the component at
// each domain-shape object i must be a base morphism dom(i) -> cod(Φ(i)),
// or Zero.
func NewGlueHom(dom, cod *Diagram, shapeMap *functor.Functor, components map[fincat.Ob]fincat.Mor) (*Hom, error) {
	if err := requireFlatKind(dom, KindGlue); err != nil {
		return nil, err
	}
	if err := requireFlatKind(cod, KindGlue); err != nil {
		return nil, err
	}
	if shapeMap.Dom() != dom.Shape() || shapeMap.Codom() != cod.Shape() {
		return nil, newError(ErrCodeBadHom,
			"glue homomorphism needs a shape functor shape(dom) -> shape(cod)")
	}
	for _, i := range dom.Shape().ObjectGenerators() {
		comp, ok := components[i]
		if !ok {
			return nil, newError(ErrCodeBadHom,
				"no component at shape object %q", dom.Shape().ObjectName(i))
		}
		if comp.IsZero() {
			continue
		}
		want := cod.Functor().Ob(shapeMap.Ob(i))
		if comp.Dom() != dom.Functor().Ob(i) || comp.Codom() != want {
			return nil, newError(ErrCodeBadHom,
				"component at %q has wrong endpoints", dom.Shape().ObjectName(i))
		}
	}
	return &Hom{dom: dom, cod: cod, shapeMap: shapeMap, components: cloneComponents(components)}, nil
}

// NewGlucHom builds a two-level homomorphism between Gluc diagrams:
// covariant outerMap on outer shapes plus, for each outer object i of the
// domain, a conjunctive homomorphism dom.ObQuery(i) -> cod.ObQuery(Φ(i)).
func NewGlucHom(dom, cod *Diagram, outerMap *functor.Functor, inner map[fincat.Ob]*Hom) (*Hom, error) {
	if dom.Kind() != KindGluc || cod.Kind() != KindGluc {
		return nil, newError(ErrCodeKindMismatch,
			"gluc homomorphism endpoints must both be gluc, got %s -> %s", dom.Kind(), cod.Kind())
	}
	if outerMap.Dom() != dom.Shape() || outerMap.Codom() != cod.Shape() {
		return nil, newError(ErrCodeBadHom,
			"gluc homomorphism needs an outer shape functor shape(dom) -> shape(cod)")
	}
	for _, i := range dom.Shape().ObjectGenerators() {
		h, ok := inner[i]
		if !ok {
			return nil, newError(ErrCodeBadHom,
				"no inner homomorphism at outer object %q", dom.Shape().ObjectName(i))
		}
		if h.Dom() != dom.ObQuery(i) || h.Codom() != cod.ObQuery(outerMap.Ob(i)) {
			return nil, newError(ErrCodeBadHom,
				"inner homomorphism at %q does not connect the indexed queries",
				dom.Shape().ObjectName(i))
		}
	}
	g := &Hom{dom: dom, cod: cod, shapeMap: outerMap, inner: make(map[fincat.Ob]*Hom, len(inner))}
	for k, v := range inner {
		g.inner[k] = v
	}
	return g, nil
}

// requireFlatKind accepts the exact kind or Trivial, which embeds into both
// Conjunctive and Glue.
func requireFlatKind(d *Diagram, kind Kind) error {
	if d.Kind() == kind || d.Kind() == KindTrivial {
		return nil
	}
	return newError(ErrCodeKindMismatch, "diagram has kind %s, want %s or trivial", d.Kind(), kind)
}

func cloneComponents(components map[fincat.Ob]fincat.Mor) map[fincat.Ob]fincat.Mor {
	out := make(map[fincat.Ob]fincat.Mor, len(components))
	for k, v := range components {
		out[k] = v
	}
	return out
}

// Dom returns the source diagram.
func (h *Hom) Dom() *Diagram { return h.dom }

// Codom returns the target diagram.
func (h *Hom) Codom() *Diagram { return h.cod }

// ShapeMap returns the shape-level functor; its direction depends on the
// endpoints' variance.
func (h *Hom) ShapeMap() *functor.Functor { return h.shapeMap }

// Component returns the base-morphism component at a shape object.
func (h *Hom) Component(x fincat.Ob) fincat.Mor { return h.components[x] }

// Inner returns the inner conjunctive homomorphism at an outer object of a
// Gluc homomorphism, or nil otherwise.
func (h *Hom) Inner(x fincat.Ob) *Hom { return h.inner[x] }

// Unresolved lists the shape objects whose component is the Zero
// placeholder, to be filled by external functions at evaluation time.
func (h *Hom) Unresolved() []fincat.Ob {
	var out []fincat.Ob
	for _, x := range componentKeyOrder(h) {
		if h.components[x].IsZero() {
			out = append(out, x)
		}
	}
	return out
}

// componentKeyOrder returns component keys in shape generator order, so
// diagnostics are deterministic.
func componentKeyOrder(h *Hom) []fincat.Ob {
	if h.inner != nil {
		return nil
	}
	shape := h.dom.Shape()
	if h.contravariant {
		shape = h.cod.Shape()
	}
	var keys []fincat.Ob
	for _, x := range shape.ObjectGenerators() {
		if _, ok := h.components[x]; ok {
			keys = append(keys, x)
		}
	}
	return keys
}
