package fincat

import (
	"fmt"
	"strings"
)

// MorKind tags the shape of a morphism value.
type MorKind int

const (
	// MorIdentity is the identity at an object.
	MorIdentity MorKind = iota

	// MorComposite is a non-empty composable generator sequence.
	MorComposite

	// MorZero is the designated undefined morphism: a placeholder for an
	// attribute value awaiting an externally supplied function. The engine
	// never invokes or inspects it; composition absorbs it.
	MorZero
)

// Mor is an immutable morphism value of a FinCat: an identity, a composite of
// generators in diagrammatic order (first generator applied first), or Zero.
type Mor struct {
	kind MorKind
	gens []MorGen
	dom  Ob
	cod  Ob
}

// Identity returns the identity morphism at x.
func Identity(x Ob) Mor {
	return Mor{kind: MorIdentity, dom: x, cod: x}
}

// Zero returns the designated undefined morphism.
func Zero() Mor {
	return Mor{kind: MorZero, dom: NoOb, cod: NoOb}
}

// Gen lifts a morphism generator of c into a morphism value.
func Gen(c FinCat, f MorGen) Mor {
	return Mor{kind: MorComposite, gens: []MorGen{f}, dom: c.Dom(f), cod: c.Codom(f)}
}

// FromGenerators builds a composite from a generator sequence, validating
// that consecutive generators compose. An empty sequence is rejected; use
// Identity for identities.
func FromGenerators(c FinCat, gens []MorGen) (Mor, error) {
	if len(gens) == 0 {
		return Mor{}, newError(ErrCodeComposeMismatch, "empty generator sequence with no explicit object")
	}
	for _, f := range gens {
		if !HasMorphism(c, f) {
			return Mor{}, newError(ErrCodeBadGenerator, "morphism generator %d is not in the category", f)
		}
	}
	for i := 0; i+1 < len(gens); i++ {
		if c.Codom(gens[i]) != c.Dom(gens[i+1]) {
			return Mor{}, newError(ErrCodeComposeMismatch,
				"generators %q and %q do not compose",
				c.MorphismName(gens[i]), c.MorphismName(gens[i+1]))
		}
	}
	return Mor{
		kind: MorComposite,
		gens: append([]MorGen(nil), gens...),
		dom:  c.Dom(gens[0]),
		cod:  c.Codom(gens[len(gens)-1]),
	}, nil
}

// Kind returns the shape tag of m.
func (m Mor) Kind() MorKind { return m.kind }

// Dom returns the domain object, or NoOb for Zero.
func (m Mor) Dom() Ob { return m.dom }

// Codom returns the codomain object, or NoOb for Zero.
func (m Mor) Codom() Ob { return m.cod }

// Generators returns a copy of the generator sequence (empty for identities
// and Zero).
func (m Mor) Generators() []MorGen {
	return append([]MorGen(nil), m.gens...)
}

// IsZero reports whether m is the undefined placeholder.
func (m Mor) IsZero() bool { return m.kind == MorZero }

// IsIdentity reports whether m is an identity.
func (m Mor) IsIdentity() bool { return m.kind == MorIdentity }

// Equal reports syntactic equality of morphism values. In a category with
// equations this under-approximates semantic equality: two composites equal
// modulo the equations may still compare unequal here.
func (m Mor) Equal(n Mor) bool {
	if m.kind != n.kind || m.dom != n.dom || m.cod != n.cod || len(m.gens) != len(n.gens) {
		return false
	}
	for i := range m.gens {
		if m.gens[i] != n.gens[i] {
			return false
		}
	}
	return true
}

// String renders m using generator names of c, for diagnostics.
func (m Mor) String(c FinCat) string {
	switch m.kind {
	case MorZero:
		return "<zero>"
	case MorIdentity:
		return fmt.Sprintf("id(%s)", c.ObjectName(m.dom))
	default:
		parts := make([]string, len(m.gens))
		for i, g := range m.gens {
			parts[i] = c.MorphismName(g)
		}
		return strings.Join(parts, ".")
	}
}

// Compose composes f then g in diagrammatic order. Zero absorbs: composing
// with Zero yields Zero without endpoint checking. Otherwise fails with
// ErrCodeComposeMismatch unless Codom(f) == Dom(g).
func Compose(c FinCat, f, g Mor) (Mor, error) {
	if f.IsZero() || g.IsZero() {
		return Zero(), nil
	}
	if f.cod != g.dom {
		return Mor{}, newError(ErrCodeComposeMismatch,
			"cannot compose %s : ..->%s with %s : %s->..",
			f.String(c), c.ObjectName(f.cod), g.String(c), c.ObjectName(g.dom))
	}
	if f.IsIdentity() {
		return g, nil
	}
	if g.IsIdentity() {
		return f, nil
	}
	gens := make([]MorGen, 0, len(f.gens)+len(g.gens))
	gens = append(gens, f.gens...)
	gens = append(gens, g.gens...)
	return Mor{kind: MorComposite, gens: gens, dom: f.dom, cod: g.cod}, nil
}

// ComposeAll folds Compose over a sequence, seeded with the identity at
// start. Returns Zero as soon as any factor is Zero.
func ComposeAll(c FinCat, start Ob, ms []Mor) (Mor, error) {
	acc := Identity(start)
	for _, m := range ms {
		next, err := Compose(c, acc, m)
		if err != nil {
			return Mor{}, err
		}
		if next.IsZero() {
			return next, nil
		}
		acc = next
	}
	return acc, nil
}
