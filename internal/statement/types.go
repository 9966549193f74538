package statement

// SchemaDoc bundles the declarations of one schema: the generators and
// equations of a finitely-presented category.
type SchemaDoc struct {
	Name      string         `json:"name"`
	Objects   []ObjectDecl   `json:"objects"`
	Morphisms []MorphismDecl `json:"morphisms"`
	Equations []EquationDecl `json:"equations,omitempty"`
}

// ObjectDecl declares an object generator.
type ObjectDecl struct {
	Name string `json:"name"`
}

// MorphismDecl declares a morphism generator with explicit endpoints.
// External, when non-empty, keys an externally supplied function for an
// attribute-valued morphism; the engine treats it as an opaque reference.
type MorphismDecl struct {
	Name     string `json:"name"`
	Src      string `json:"src"`
	Tgt      string `json:"tgt"`
	External string `json:"external,omitempty"`
}

// PathExpr names a composite morphism by its generator sequence. An empty
// Edges list denotes the identity at At; otherwise At may be left empty and
// the endpoints are inferred from the generators.
type PathExpr struct {
	At    string   `json:"at,omitempty"`
	Edges []string `json:"edges,omitempty"`
}

// EquationDecl asserts that two composite morphisms are equal.
type EquationDecl struct {
	Lhs PathExpr `json:"lhs"`
	Rhs PathExpr `json:"rhs"`
}

// MigrationDoc declares a contravariant data migration: each generator of
// the target schema is assigned a query over the source schema.
type MigrationDoc struct {
	Name      string           `json:"name"`
	Source    string           `json:"source"`
	Target    string           `json:"target"`
	Objects   []ObjectAssign   `json:"objects"`
	Morphisms []MorphismAssign `json:"morphisms,omitempty"`
}

// ObjectAssign assigns a query expression to a target object generator.
type ObjectAssign struct {
	Name  string    `json:"name"`
	Query QueryExpr `json:"query"`
}

// MorphismAssign assigns a target morphism generator either a source
// generator path (Via) or an external function key. Leaving both empty is
// legal and produces an unresolved placeholder to be filled at evaluation
// time.
type MorphismAssign struct {
	Name     string   `json:"name"`
	Via      []string `json:"via,omitempty"`
	External string   `json:"external,omitempty"`
}
