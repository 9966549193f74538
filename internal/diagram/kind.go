package diagram

// Kind tags how evaluation interprets a diagram's shape.
//
// The kinds form a partial order used for promotion:
//
//	Trivial ⊑ Conjunctive ⊑ Gluc
//	Trivial ⊑ Glue        ⊑ Gluc
//
// Conjunctive and Glue are incomparable with each other.
type Kind int

const (
	// KindTrivial is a single-object query: a bare generator reference.
	KindTrivial Kind = iota

	// KindConjunctive is evaluated as a limit (generalized join).
	KindConjunctive

	// KindGlue is evaluated as a colimit (generalized union).
	KindGlue

	// KindGluc is a gluing of conjunctive queries: a colimit of limits.
	KindGluc
)

// String returns the kind's display name.
func (k Kind) String() string {
	switch k {
	case KindTrivial:
		return "trivial"
	case KindConjunctive:
		return "conjunctive"
	case KindGlue:
		return "glue"
	case KindGluc:
		return "gluc"
	default:
		return "unknown"
	}
}

// LessEq reports a ⊑ b in the promotion order.
func LessEq(a, b Kind) bool {
	if a == b {
		return true
	}
	switch a {
	case KindTrivial:
		return true
	case KindConjunctive, KindGlue:
		return b == KindGluc
	default:
		return false
	}
}

// Promote returns the least upper bound of two kinds, or fails with
// ErrCodeIncomparableKinds for the Conjunctive/Glue pair. Promote is
// commutative and associative.
func Promote(a, b Kind) (Kind, error) {
	if LessEq(a, b) {
		return b, nil
	}
	if LessEq(b, a) {
		return a, nil
	}
	// Exactly the {Conjunctive, Glue} pair remains.
	return 0, newError(ErrCodeIncomparableKinds,
		"query kinds %s and %s cannot be combined", a, b)
}

// PromoteAll folds Promote over a kind sequence. The empty sequence promotes
// to Trivial, the unit of the fold.
func PromoteAll(kinds []Kind) (Kind, error) {
	acc := KindTrivial
	for _, k := range kinds {
		next, err := Promote(acc, k)
		if err != nil {
			return 0, err
		}
		acc = next
	}
	return acc, nil
}
