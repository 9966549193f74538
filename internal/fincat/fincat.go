package fincat

// Ob is an opaque handle to an object generator of a FinCat.
// Handles are dense indices in generator order; they are only meaningful
// relative to the category that issued them.
type Ob int

// MorGen is an opaque handle to a morphism generator of a FinCat.
type MorGen int

// NoOb is the sentinel for "no object".
const NoOb Ob = -1

// FinCat is the uniform interface over the three backing variants: the free
// category on a graph, a graph with path equations, and a named-generator
// presentation.
//
// Generator order is fixed at construction and identical across calls, so
// callers may rely on it for deterministic iteration.
type FinCat interface {
	// ObjectGenerators returns all object generator handles in order.
	ObjectGenerators() []Ob

	// MorphismGenerators returns all morphism generator handles in order.
	MorphismGenerators() []MorGen

	// Equations returns the (possibly empty) equation set.
	Equations() []Equation

	// ObjectName returns the display name of x, or "" if anonymous.
	ObjectName(x Ob) string

	// MorphismName returns the display name of f, or "" if anonymous.
	MorphismName(f MorGen) string

	// ResolveObject resolves an object generator by display name.
	ResolveObject(name string) (Ob, error)

	// ResolveMorphism resolves a morphism generator by display name. Fails
	// with ErrCodeUnknownGenerator when absent and ErrCodeAmbiguousGenerator
	// when the name is shared.
	ResolveMorphism(name string) (MorGen, error)

	// Dom returns the domain object of generator f.
	Dom(f MorGen) Ob

	// Codom returns the codomain object of generator f.
	Codom(f MorGen) Ob

	// IsDiscrete reports whether the category has no morphism generators.
	IsDiscrete() bool

	// IsFree reports whether the category has no equations.
	IsFree() bool
}

// HasObject reports whether x is an object generator of c.
func HasObject(c FinCat, x Ob) bool {
	return x >= 0 && int(x) < len(c.ObjectGenerators())
}

// HasMorphism reports whether f is a morphism generator of c.
func HasMorphism(c FinCat, f MorGen) bool {
	return f >= 0 && int(f) < len(c.MorphismGenerators())
}
