package statement

// QueryExpr represents an abstract query over a source schema.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern prevents external implementations and enables
// exhaustive type switches in the compiler.
//
// Expression forms:
//   - GeneratorRef: a bare object generator (a trivial query)
//   - LimitExpr:    a join/product/terminal block (a conjunctive query)
//   - ColimitExpr:  a union/coproduct/initial block (a glue query)
//
// A ColimitExpr whose bindings are themselves LimitExprs denotes a gluing of
// conjunctive queries (a colimit of limits). Deeper or other nestings are
// rejected by the compiler.
type QueryExpr interface {
	queryExpr() // Marker method - seals interface to this package
}

// LimitTag distinguishes the surface forms that all compile to a limit.
type LimitTag string

const (
	LimitJoin     LimitTag = "join"
	LimitProduct  LimitTag = "product"
	LimitTerminal LimitTag = "terminal"
)

// ColimitTag distinguishes the surface forms that all compile to a colimit.
type ColimitTag string

const (
	ColimitUnion     ColimitTag = "union"
	ColimitCoproduct ColimitTag = "coproduct"
	ColimitInitial   ColimitTag = "initial"
)

// GeneratorRef names a single object generator of the source schema.
type GeneratorRef struct {
	Name string `json:"name"`
}

func (GeneratorRef) queryExpr() {}

// Binding introduces one shape object of a limit or colimit block: a
// variable name bound over a sub-expression.
type Binding struct {
	Var  string    `json:"var"`
	Over QueryExpr `json:"over"`
}

// Constraint introduces one shape morphism between two bound variables,
// realized by a generator path of the source schema. An empty Via with a
// non-empty External defers the morphism to an external function.
type Constraint struct {
	From     string   `json:"from"`
	To       string   `json:"to"`
	Via      []string `json:"via,omitempty"`
	External string   `json:"external,omitempty"`
}

// LimitExpr is a conjunctive (limit-shaped) block.
type LimitExpr struct {
	Tag         LimitTag     `json:"tag"`
	Bindings    []Binding    `json:"bindings"`
	Constraints []Constraint `json:"constraints,omitempty"`
}

func (LimitExpr) queryExpr() {}

// ColimitExpr is a gluing (colimit-shaped) block.
type ColimitExpr struct {
	Tag         ColimitTag   `json:"tag"`
	Bindings    []Binding    `json:"bindings"`
	Constraints []Constraint `json:"constraints,omitempty"`
}

func (ColimitExpr) queryExpr() {}
