package fincat

// PresentationCat is a finitely-presented category over named generators:
// object generators, morphism generators with explicit endpoints, and a
// finite equation set. Unlike graph edges, presentation morphism generators
// have unique names, since the presentation addresses them by name.
type PresentationCat struct {
	obNames   []string
	morNames  []string
	morDom    []Ob
	morCod    []Ob
	obByName  map[string]Ob
	morByName map[string]MorGen
	eqs       []Equation
}

// Builder accumulates a presentation and finalizes it into an immutable
// PresentationCat. This replaces any notion of an ambient "current category":
// the builder is an explicit value threaded through the construction phase.
type Builder struct {
	c       *PresentationCat
	pending []pendingEq
}

type pendingEq struct {
	lhs []MorGen
	rhs []MorGen

	// lhsAt and rhsAt anchor an identity side when the generator list is
	// empty. NoOb when the side is a composite.
	lhsAt Ob
	rhsAt Ob
}

// NewBuilder creates an empty presentation builder.
func NewBuilder() *Builder {
	return &Builder{c: &PresentationCat{
		obByName:  make(map[string]Ob),
		morByName: make(map[string]MorGen),
	}}
}

// AddObject declares an object generator. Names must be unique and non-empty.
func (b *Builder) AddObject(name string) (Ob, error) {
	if name == "" {
		return NoOb, newError(ErrCodeDuplicateGenerator, "object generator name must be non-empty")
	}
	if _, ok := b.c.obByName[name]; ok {
		return NoOb, newError(ErrCodeDuplicateGenerator, "duplicate object generator %q", name)
	}
	x := Ob(len(b.c.obNames))
	b.c.obNames = append(b.c.obNames, name)
	b.c.obByName[name] = x
	return x, nil
}

// AddMorphism declares a morphism generator with explicit endpoints.
func (b *Builder) AddMorphism(name string, dom, cod Ob) (MorGen, error) {
	if name == "" {
		return -1, newError(ErrCodeDuplicateGenerator, "morphism generator name must be non-empty")
	}
	if _, ok := b.c.morByName[name]; ok {
		return -1, newError(ErrCodeDuplicateGenerator, "duplicate morphism generator %q", name)
	}
	if !b.hasOb(dom) || !b.hasOb(cod) {
		return -1, newError(ErrCodeBadGenerator,
			"morphism %q has an endpoint outside the presentation", name)
	}
	f := MorGen(len(b.c.morNames))
	b.c.morNames = append(b.c.morNames, name)
	b.c.morDom = append(b.c.morDom, dom)
	b.c.morCod = append(b.c.morCod, cod)
	b.c.morByName[name] = f
	return f, nil
}

// AddEquation records an equation between two generator sequences. Endpoint
// validation is deferred to Build so equations may be declared in any order
// relative to later generators.
func (b *Builder) AddEquation(lhs, rhs []MorGen) {
	b.pending = append(b.pending, pendingEq{
		lhs:   append([]MorGen(nil), lhs...),
		rhs:   append([]MorGen(nil), rhs...),
		lhsAt: NoOb,
		rhsAt: NoOb,
	})
}

// AddIdentityEquation records lhs = id(at): a composite that collapses to the
// identity at an object.
func (b *Builder) AddIdentityEquation(lhs []MorGen, at Ob) {
	b.pending = append(b.pending, pendingEq{
		lhs:   append([]MorGen(nil), lhs...),
		lhsAt: NoOb,
		rhsAt: at,
	})
}

// Build validates pending equations and finalizes the presentation.
// The builder must not be used afterwards.
func (b *Builder) Build() (*PresentationCat, error) {
	c := b.c
	for _, pe := range b.pending {
		lhs, err := b.equationSide(pe.lhs, pe.lhsAt)
		if err != nil {
			return nil, err
		}
		rhs, err := b.equationSide(pe.rhs, pe.rhsAt)
		if err != nil {
			return nil, err
		}
		eq, err := NewEquation(c, lhs, rhs)
		if err != nil {
			return nil, err
		}
		c.eqs = append(c.eqs, eq)
	}
	b.c = nil
	b.pending = nil
	return c, nil
}

func (b *Builder) hasOb(x Ob) bool {
	return x >= 0 && int(x) < len(b.c.obNames)
}

func (b *Builder) equationSide(gens []MorGen, at Ob) (Mor, error) {
	if len(gens) == 0 {
		if !b.hasOb(at) {
			return Mor{}, newError(ErrCodeBadEquation,
				"identity equation side anchored at an unknown object")
		}
		return Identity(at), nil
	}
	return FromGenerators(b.c, gens)
}

func (c *PresentationCat) ObjectGenerators() []Ob {
	obs := make([]Ob, len(c.obNames))
	for i := range obs {
		obs[i] = Ob(i)
	}
	return obs
}

func (c *PresentationCat) MorphismGenerators() []MorGen {
	gens := make([]MorGen, len(c.morNames))
	for i := range gens {
		gens[i] = MorGen(i)
	}
	return gens
}

func (c *PresentationCat) Equations() []Equation {
	return append([]Equation(nil), c.eqs...)
}

func (c *PresentationCat) ObjectName(x Ob) string       { return c.obNames[x] }
func (c *PresentationCat) MorphismName(f MorGen) string { return c.morNames[f] }

func (c *PresentationCat) ResolveObject(name string) (Ob, error) {
	x, ok := c.obByName[name]
	if !ok {
		return NoOb, newError(ErrCodeUnknownGenerator, "unknown object generator %q", name)
	}
	return x, nil
}

func (c *PresentationCat) ResolveMorphism(name string) (MorGen, error) {
	f, ok := c.morByName[name]
	if !ok {
		return -1, newError(ErrCodeUnknownGenerator, "unknown morphism generator %q", name)
	}
	return f, nil
}

func (c *PresentationCat) Dom(f MorGen) Ob   { return c.morDom[f] }
func (c *PresentationCat) Codom(f MorGen) Ob { return c.morCod[f] }

func (c *PresentationCat) IsDiscrete() bool { return len(c.morNames) == 0 }
func (c *PresentationCat) IsFree() bool     { return len(c.eqs) == 0 }
