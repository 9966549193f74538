package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plurigrid/funq/internal/diagram"
	"github.com/plurigrid/funq/internal/statement"
)

func companyDoc() *statement.SchemaDoc {
	return &statement.SchemaDoc{
		Name: "company",
		Objects: []statement.ObjectDecl{
			{Name: "Emp"}, {Name: "Dept"}, {Name: "Str"},
		},
		Morphisms: []statement.MorphismDecl{
			{Name: "works_in", Src: "Emp", Tgt: "Dept"},
			{Name: "manager", Src: "Emp", Tgt: "Emp"},
			{Name: "secretary", Src: "Dept", Tgt: "Emp"},
			{Name: "name", Src: "Emp", Tgt: "Str", External: "emp_name"},
		},
		Equations: []statement.EquationDecl{
			// The secretary works in her own department.
			{
				Lhs: statement.PathExpr{Edges: []string{"secretary", "works_in"}},
				Rhs: statement.PathExpr{At: "Dept"},
			},
		},
	}
}

func compileCompany(t *testing.T) *Schema {
	t.Helper()
	s, errs := CompileSchema(companyDoc())
	require.Empty(t, errs)
	require.NotNil(t, s)
	return s
}

func compileTarget(t *testing.T, doc *statement.SchemaDoc) *Schema {
	t.Helper()
	s, errs := CompileSchema(doc)
	require.Empty(t, errs)
	return s
}

func hasCode(errs []ValidationError, code string) bool {
	for _, e := range errs {
		if e.Code == code {
			return true
		}
	}
	return false
}

func TestCompileSchemaBuildsCategory(t *testing.T) {
	s := compileCompany(t)

	assert.Equal(t, "company", s.Name)
	assert.Len(t, s.Hash, 64)
	assert.Len(t, s.Cat.ObjectGenerators(), 3)
	assert.Len(t, s.Cat.MorphismGenerators(), 4)
	assert.Len(t, s.Cat.Equations(), 1)
	assert.False(t, s.Cat.IsFree())
	assert.Equal(t, map[string]string{"name": "emp_name"}, s.Externals)
}

func TestCompileSchemaCollectsAllErrors(t *testing.T) {
	doc := &statement.SchemaDoc{
		Name: "broken",
		Objects: []statement.ObjectDecl{
			{Name: "A"}, {Name: "A"},
		},
		Morphisms: []statement.MorphismDecl{
			{Name: "f", Src: "A", Tgt: "Nowhere"},
			{Name: ""},
		},
	}
	s, errs := CompileSchema(doc)
	assert.Nil(t, s)
	assert.True(t, hasCode(errs, ErrDuplicateDecl))
	assert.True(t, hasCode(errs, ErrUnknownEndpoint))
	assert.True(t, hasCode(errs, ErrEmptyName))
	assert.Len(t, errs, 3)
}

func TestCompileSchemaRejectsBadEquations(t *testing.T) {
	doc := companyDoc()
	doc.Equations = append(doc.Equations,
		// works_in then manager does not compose.
		statement.EquationDecl{
			Lhs: statement.PathExpr{Edges: []string{"works_in", "manager"}},
			Rhs: statement.PathExpr{At: "Emp"},
		},
		// Endpoints disagree.
		statement.EquationDecl{
			Lhs: statement.PathExpr{Edges: []string{"works_in"}},
			Rhs: statement.PathExpr{Edges: []string{"manager"}},
		},
	)
	s, errs := CompileSchema(doc)
	assert.Nil(t, s)
	assert.True(t, hasCode(errs, ErrBadEquation))
	assert.Len(t, errs, 2)
}

func TestCompileMigrationTrivialKind(t *testing.T) {
	src := compileCompany(t)
	tgt := compileTarget(t, &statement.SchemaDoc{
		Name:    "people",
		Objects: []statement.ObjectDecl{{Name: "Person"}},
		Morphisms: []statement.MorphismDecl{
			{Name: "boss", Src: "Person", Tgt: "Person"},
		},
	})

	doc := &statement.MigrationDoc{
		Name:   "employees",
		Source: "company",
		Target: "people",
		Objects: []statement.ObjectAssign{
			{Name: "Person", Query: statement.GeneratorRef{Name: "Emp"}},
		},
		Morphisms: []statement.MorphismAssign{
			{Name: "boss", Via: []string{"manager"}},
		},
	}
	m, errs := CompileMigration(doc, src, tgt)
	require.Empty(t, errs)

	assert.Equal(t, diagram.KindTrivial, m.Kind)
	assert.Len(t, m.Hash, 64)
	require.Contains(t, m.Diagrams, "Person")
	x, err := m.Diagrams["Person"].SoleObject()
	require.NoError(t, err)
	assert.Equal(t, "Emp", src.Cat.ObjectName(x))
	require.Contains(t, m.Homs, "boss")
	assert.Empty(t, m.Externals)
}

func summaryDoc() *statement.SchemaDoc {
	return &statement.SchemaDoc{
		Name:    "summary",
		Objects: []statement.ObjectDecl{{Name: "Row"}, {Name: "D"}},
		Morphisms: []statement.MorphismDecl{
			{Name: "dept", Src: "Row", Tgt: "D"},
		},
	}
}

func rowJoin() statement.LimitExpr {
	return statement.LimitExpr{
		Tag: statement.LimitJoin,
		Bindings: []statement.Binding{
			{Var: "e", Over: statement.GeneratorRef{Name: "Emp"}},
			{Var: "d", Over: statement.GeneratorRef{Name: "Dept"}},
		},
		Constraints: []statement.Constraint{
			{From: "e", To: "d", Via: []string{"works_in"}},
		},
	}
}

func TestCompileMigrationConjunctiveKind(t *testing.T) {
	src := compileCompany(t)
	tgt := compileTarget(t, summaryDoc())

	doc := &statement.MigrationDoc{
		Name:   "flatten",
		Source: "company",
		Target: "summary",
		Objects: []statement.ObjectAssign{
			{Name: "Row", Query: rowJoin()},
			{Name: "D", Query: statement.GeneratorRef{Name: "Dept"}},
		},
		Morphisms: []statement.MorphismAssign{
			// Project onto the employee, then follow works_in.
			{Name: "dept", Via: []string{"e", "works_in"}},
		},
	}
	m, errs := CompileMigration(doc, src, tgt)
	require.Empty(t, errs)

	assert.Equal(t, diagram.KindConjunctive, m.Kind)
	row := m.Diagrams["Row"]
	assert.Equal(t, diagram.KindConjunctive, row.Kind())
	assert.Len(t, row.Shape().ObjectGenerators(), 2)

	// The trivial assignment was promoted alongside the join.
	assert.Equal(t, diagram.KindConjunctive, m.Diagrams["D"].Kind())

	h := m.Homs["dept"]
	require.NotNil(t, h)
	assert.Empty(t, h.Unresolved())
}

func TestCompileMigrationGlueKind(t *testing.T) {
	src := compileCompany(t)
	tgt := compileTarget(t, &statement.SchemaDoc{
		Name:    "pool",
		Objects: []statement.ObjectDecl{{Name: "All"}, {Name: "E"}},
		Morphisms: []statement.MorphismDecl{
			{Name: "inc", Src: "E", Tgt: "All"},
		},
	})

	doc := &statement.MigrationDoc{
		Name:   "pooled",
		Source: "company",
		Target: "pool",
		Objects: []statement.ObjectAssign{
			{Name: "All", Query: statement.ColimitExpr{
				Tag: statement.ColimitUnion,
				Bindings: []statement.Binding{
					{Var: "x", Over: statement.GeneratorRef{Name: "Emp"}},
					{Var: "y", Over: statement.GeneratorRef{Name: "Dept"}},
				},
			}},
			{Name: "E", Query: statement.GeneratorRef{Name: "Emp"}},
		},
		Morphisms: []statement.MorphismAssign{
			{Name: "inc", Via: []string{"x"}},
		},
	}
	m, errs := CompileMigration(doc, src, tgt)
	require.Empty(t, errs)

	assert.Equal(t, diagram.KindGlue, m.Kind)
	assert.Equal(t, diagram.KindGlue, m.Diagrams["E"].Kind())
	require.Contains(t, m.Homs, "inc")
}

func TestCompileMigrationGlucKind(t *testing.T) {
	src := compileCompany(t)
	tgt := compileTarget(t, &statement.SchemaDoc{
		Name:    "report",
		Objects: []statement.ObjectDecl{{Name: "Q"}},
	})

	doc := &statement.MigrationDoc{
		Name:   "glued",
		Source: "company",
		Target: "report",
		Objects: []statement.ObjectAssign{
			{Name: "Q", Query: statement.ColimitExpr{
				Tag: statement.ColimitUnion,
				Bindings: []statement.Binding{
					{Var: "a", Over: statement.LimitExpr{
						Tag: statement.LimitJoin,
						Bindings: []statement.Binding{
							{Var: "e", Over: statement.GeneratorRef{Name: "Emp"}},
							{Var: "m", Over: statement.GeneratorRef{Name: "Emp"}},
						},
						Constraints: []statement.Constraint{
							{From: "e", To: "m", Via: []string{"manager"}},
						},
					}},
					{Var: "b", Over: statement.GeneratorRef{Name: "Dept"}},
				},
				Constraints: []statement.Constraint{
					{From: "a", To: "b", Via: []string{"e", "works_in"}},
				},
			}},
		},
	}
	m, errs := CompileMigration(doc, src, tgt)
	require.Empty(t, errs)

	assert.Equal(t, diagram.KindGluc, m.Kind)
	q := m.Diagrams["Q"]
	assert.Equal(t, diagram.KindGluc, q.Kind())
	assert.Len(t, q.Shape().ObjectGenerators(), 2)
	assert.Len(t, q.Shape().MorphismGenerators(), 1)
}

func TestCompileMigrationIncomparableKinds(t *testing.T) {
	src := compileCompany(t)
	tgt := compileTarget(t, &statement.SchemaDoc{
		Name:    "mixed",
		Objects: []statement.ObjectDecl{{Name: "A"}, {Name: "B"}},
	})

	doc := &statement.MigrationDoc{
		Name:   "clash",
		Source: "company",
		Target: "mixed",
		Objects: []statement.ObjectAssign{
			{Name: "A", Query: rowJoin()},
			{Name: "B", Query: statement.ColimitExpr{
				Tag: statement.ColimitUnion,
				Bindings: []statement.Binding{
					{Var: "x", Over: statement.GeneratorRef{Name: "Emp"}},
				},
			}},
		},
	}
	m, errs := CompileMigration(doc, src, tgt)
	assert.Nil(t, m)
	assert.True(t, hasCode(errs, ErrIncomparableQueries))
}

func TestCompileMigrationCollectsAllErrors(t *testing.T) {
	src := compileCompany(t)
	tgt := compileTarget(t, summaryDoc())

	doc := &statement.MigrationDoc{
		Name:   "broken",
		Source: "company",
		Target: "summary",
		Objects: []statement.ObjectAssign{
			{Name: "Nope", Query: statement.GeneratorRef{Name: "Emp"}},
			{Name: "Row", Query: statement.GeneratorRef{Name: "Ghost"}},
		},
	}
	m, errs := CompileMigration(doc, src, tgt)
	assert.Nil(t, m)
	assert.True(t, hasCode(errs, ErrUnknownGenerator))
	assert.True(t, hasCode(errs, ErrMissingAssignment))
	assert.GreaterOrEqual(t, len(errs), 3)
}

func TestCompileMigrationExternalSideTable(t *testing.T) {
	src := compileCompany(t)
	tgt := compileTarget(t, &statement.SchemaDoc{
		Name:    "labeled",
		Objects: []statement.ObjectDecl{{Name: "P"}, {Name: "L"}},
		Morphisms: []statement.MorphismDecl{
			{Name: "label", Src: "P", Tgt: "L"},
		},
	})

	doc := &statement.MigrationDoc{
		Name:   "labels",
		Source: "company",
		Target: "labeled",
		Objects: []statement.ObjectAssign{
			{Name: "P", Query: statement.GeneratorRef{Name: "Emp"}},
			{Name: "L", Query: statement.GeneratorRef{Name: "Str"}},
		},
		Morphisms: []statement.MorphismAssign{
			{Name: "label", External: "mk_label"},
		},
	}
	m, errs := CompileMigration(doc, src, tgt)
	require.Empty(t, errs)

	require.Len(t, m.Externals, 1)
	assert.Equal(t, "morphisms.label", m.Externals[0].At)
	assert.Equal(t, "mk_label", m.Externals[0].Key)
	assert.Len(t, m.Homs["label"].Unresolved(), 1)
}

func TestCompileMigrationUnassignedMorphismIsPlaceholder(t *testing.T) {
	src := compileCompany(t)
	tgt := compileTarget(t, &statement.SchemaDoc{
		Name:    "sparse",
		Objects: []statement.ObjectDecl{{Name: "A"}, {Name: "B"}},
		Morphisms: []statement.MorphismDecl{
			{Name: "f", Src: "A", Tgt: "B"},
		},
	})

	doc := &statement.MigrationDoc{
		Name:   "partial",
		Source: "company",
		Target: "sparse",
		Objects: []statement.ObjectAssign{
			{Name: "A", Query: statement.GeneratorRef{Name: "Emp"}},
			{Name: "B", Query: statement.GeneratorRef{Name: "Str"}},
		},
	}
	m, errs := CompileMigration(doc, src, tgt)
	require.Empty(t, errs)
	assert.Len(t, m.Homs["f"].Unresolved(), 1)
	assert.Empty(t, m.Externals, "a bare placeholder is not an external binding")
}

func TestCompileMigrationSchemaMismatch(t *testing.T) {
	src := compileCompany(t)
	tgt := compileTarget(t, summaryDoc())

	doc := &statement.MigrationDoc{
		Name:   "wrong",
		Source: "other",
		Target: "summary",
		Objects: []statement.ObjectAssign{
			{Name: "Row", Query: statement.GeneratorRef{Name: "Emp"}},
			{Name: "D", Query: statement.GeneratorRef{Name: "Dept"}},
		},
	}
	m, errs := CompileMigration(doc, src, tgt)
	assert.Nil(t, m)
	assert.True(t, hasCode(errs, ErrSchemaMismatch))
}

func TestCompileFunctorAccepts(t *testing.T) {
	srcDoc := companyDoc()
	tgtDoc := &statement.SchemaDoc{
		Name:    "pointed",
		Objects: []statement.ObjectDecl{{Name: "P"}},
		Morphisms: []statement.MorphismDecl{
			{Name: "step", Src: "P", Tgt: "P"},
		},
	}
	doc := &statement.MigrationDoc{
		Name:   "embed",
		Source: "company",
		Target: "pointed",
		Objects: []statement.ObjectAssign{
			{Name: "P", Query: statement.GeneratorRef{Name: "Emp"}},
		},
		Morphisms: []statement.MorphismAssign{
			{Name: "step", Via: []string{"manager"}},
		},
	}
	F, errs := CompileFunctor(doc, srcDoc, tgtDoc)
	require.Empty(t, errs)
	require.NotNil(t, F)
	assert.True(t, F.IsFunctorial(true))
}

func TestCompileFunctorRejectsNonFunctorial(t *testing.T) {
	srcDoc := companyDoc()
	tgtDoc := &statement.SchemaDoc{
		Name:    "pointed",
		Objects: []statement.ObjectDecl{{Name: "P"}},
		Morphisms: []statement.MorphismDecl{
			{Name: "step", Src: "P", Tgt: "P"},
		},
	}
	doc := &statement.MigrationDoc{
		Name:   "bad",
		Source: "company",
		Target: "pointed",
		Objects: []statement.ObjectAssign{
			{Name: "P", Query: statement.GeneratorRef{Name: "Emp"}},
		},
		Morphisms: []statement.MorphismAssign{
			// works_in lands in Dept, not Emp.
			{Name: "step", Via: []string{"works_in"}},
		},
	}
	F, errs := CompileFunctor(doc, srcDoc, tgtDoc)
	assert.Nil(t, F)
	assert.True(t, hasCode(errs, ErrNonFunctorial))
}

func TestCompileFunctorRejectsQueryAssignments(t *testing.T) {
	srcDoc := companyDoc()
	tgtDoc := &statement.SchemaDoc{
		Name:    "flat",
		Objects: []statement.ObjectDecl{{Name: "X"}},
	}
	doc := &statement.MigrationDoc{
		Name:   "notfunctor",
		Source: "company",
		Target: "flat",
		Objects: []statement.ObjectAssign{
			{Name: "X", Query: rowJoin()},
		},
	}
	F, errs := CompileFunctor(doc, srcDoc, tgtDoc)
	assert.Nil(t, F)
	assert.True(t, hasCode(errs, ErrUnsupportedHomShape))
}

func TestBlockTagShapes(t *testing.T) {
	src := compileCompany(t)
	var exts []ExternalRef

	// A terminal block must be empty.
	_, errs := compileQuery(src, statement.LimitExpr{
		Tag:      statement.LimitTerminal,
		Bindings: []statement.Binding{{Var: "e", Over: statement.GeneratorRef{Name: "Emp"}}},
	}, "q", &exts)
	assert.True(t, hasCode(errs, ErrBadQueryShape))

	// A product block cannot carry constraints.
	_, errs = compileQuery(src, statement.LimitExpr{
		Tag: statement.LimitProduct,
		Bindings: []statement.Binding{
			{Var: "e", Over: statement.GeneratorRef{Name: "Emp"}},
			{Var: "d", Over: statement.GeneratorRef{Name: "Dept"}},
		},
		Constraints: []statement.Constraint{{From: "e", To: "d", Via: []string{"works_in"}}},
	}, "q", &exts)
	assert.True(t, hasCode(errs, ErrBadQueryShape))

	// An empty terminal block compiles to a conjunctive diagram over the
	// empty shape.
	d, errs := compileQuery(src, statement.LimitExpr{Tag: statement.LimitTerminal}, "q", &exts)
	require.Empty(t, errs)
	assert.Equal(t, diagram.KindConjunctive, d.Kind())
	assert.Empty(t, d.Shape().ObjectGenerators())
}

func TestConstraintDiagnostics(t *testing.T) {
	src := compileCompany(t)
	var exts []ExternalRef

	// Unknown binding variable.
	_, errs := compileQuery(src, statement.LimitExpr{
		Tag: statement.LimitJoin,
		Bindings: []statement.Binding{
			{Var: "e", Over: statement.GeneratorRef{Name: "Emp"}},
		},
		Constraints: []statement.Constraint{{From: "e", To: "ghost", Via: []string{"works_in"}}},
	}, "q", &exts)
	assert.True(t, hasCode(errs, ErrBadConstraint))

	// Path endpoints disagree with the constraint.
	_, errs = compileQuery(src, statement.LimitExpr{
		Tag: statement.LimitJoin,
		Bindings: []statement.Binding{
			{Var: "e", Over: statement.GeneratorRef{Name: "Emp"}},
			{Var: "d", Over: statement.GeneratorRef{Name: "Dept"}},
		},
		Constraints: []statement.Constraint{{From: "e", To: "d", Via: []string{"manager"}}},
	}, "q", &exts)
	assert.True(t, hasCode(errs, ErrBadConstraint))
}
