package fincat

// Equation asserts that two morphism values with the same endpoints are equal
// in the presented category.
type Equation struct {
	Lhs Mor
	Rhs Mor
}

// NewEquation validates endpoints and returns the equation. Zero is not a
// legal side of an equation.
func NewEquation(c FinCat, lhs, rhs Mor) (Equation, error) {
	if lhs.IsZero() || rhs.IsZero() {
		return Equation{}, newError(ErrCodeBadEquation, "equation side is the zero morphism")
	}
	if lhs.Dom() != rhs.Dom() || lhs.Codom() != rhs.Codom() {
		return Equation{}, newError(ErrCodeBadEquation,
			"equation sides have different endpoints: %s vs %s", lhs.String(c), rhs.String(c))
	}
	return Equation{Lhs: lhs, Rhs: rhs}, nil
}
