package compiler

import (
	"fmt"
	"strings"

	"github.com/plurigrid/funq/internal/diagram"
	"github.com/plurigrid/funq/internal/statement"
)

// Migration is a compiled migration document: every target object generator
// carries a query diagram over the source schema, every target morphism
// generator a homomorphism between the endpoint diagrams, all promoted to a
// single kind.
type Migration struct {
	Name   string
	Hash   string
	Source *Schema
	Target *Schema
	Kind   diagram.Kind

	// Diagrams and Homs are keyed by target generator name.
	Diagrams map[string]*diagram.Diagram
	Homs     map[string]*diagram.Hom

	// Externals lists the positions deferred to external functions.
	Externals []ExternalRef
}

// CompileMigration compiles a migration document against its source and
// target schemas. Diagnostics are collected across the whole document; on
// any error the migration is nil.
func CompileMigration(doc *statement.MigrationDoc, source, target *Schema) (*Migration, []ValidationError) {
	var errs []ValidationError

	if strings.TrimSpace(doc.Name) == "" {
		errs = append(errs, errf(ErrEmptyName, "name", "migration name is required"))
	}
	if doc.Source != source.Name {
		errs = append(errs, errf(ErrSchemaMismatch, "source",
			"document names source %q, compiling against %q", doc.Source, source.Name))
	}
	if doc.Target != target.Name {
		errs = append(errs, errf(ErrSchemaMismatch, "target",
			"document names target %q, compiling against %q", doc.Target, target.Name))
	}

	var exts []ExternalRef
	diagrams := make(map[string]*diagram.Diagram)
	kinds := make([]diagram.Kind, 0, len(doc.Objects))
	for i, a := range doc.Objects {
		field := fmt.Sprintf("objects[%d]", i)
		if _, err := target.Cat.ResolveObject(a.Name); err != nil {
			errs = append(errs, errf(ErrUnknownGenerator, field+".name",
				"unknown target object %q", a.Name))
			continue
		}
		if _, ok := diagrams[a.Name]; ok {
			errs = append(errs, errf(ErrDuplicateAssignment, field+".name",
				"target object %q assigned twice", a.Name))
			continue
		}
		d, dErrs := compileQuery(source, a.Query, field+".query", &exts)
		if len(dErrs) > 0 {
			errs = append(errs, dErrs...)
			continue
		}
		diagrams[a.Name] = d
		kinds = append(kinds, d.Kind())
	}
	for _, x := range target.Cat.ObjectGenerators() {
		name := target.Cat.ObjectName(x)
		if _, ok := diagrams[name]; !ok {
			errs = append(errs, errf(ErrMissingAssignment, "objects",
				"target object %q has no query assignment", name))
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	kind, err := diagram.PromoteAll(kinds)
	if err != nil {
		return nil, []ValidationError{errf(ErrIncomparableQueries, "objects", "%v", err)}
	}
	for name, d := range diagrams {
		conv, err := diagram.Convert(kind, d)
		if err != nil {
			return nil, []ValidationError{errf(ErrBadQueryShape, "objects", "%v", err)}
		}
		diagrams[name] = conv
	}

	assigns := make(map[string]statement.MorphismAssign)
	for i, a := range doc.Morphisms {
		field := fmt.Sprintf("morphisms[%d]", i)
		if _, err := target.Cat.ResolveMorphism(a.Name); err != nil {
			errs = append(errs, errf(ErrUnknownGenerator, field+".name",
				"unknown target morphism %q", a.Name))
			continue
		}
		if _, ok := assigns[a.Name]; ok {
			errs = append(errs, errf(ErrDuplicateAssignment, field+".name",
				"target morphism %q assigned twice", a.Name))
			continue
		}
		assigns[a.Name] = a
	}

	homs := make(map[string]*diagram.Hom)
	for _, f := range target.Cat.MorphismGenerators() {
		name := target.Cat.MorphismName(f)
		a := assigns[name] // zero value is the unresolved placeholder
		field := "morphisms." + name
		dom := diagrams[target.Cat.ObjectName(target.Cat.Dom(f))]
		cod := diagrams[target.Cat.ObjectName(target.Cat.Codom(f))]

		var h *diagram.Hom
		var hErrs []ValidationError
		switch kind {
		case diagram.KindTrivial, diagram.KindConjunctive:
			h, hErrs = conjunctiveHomFromPath(source, dom, cod, a.Via, a.External, field, &exts)
		case diagram.KindGlue:
			h, hErrs = glueHomFromPath(source, dom, cod, a.Via, a.External, field, &exts)
		default:
			h, hErrs = glucHomFromPath(source, dom, cod, a.Via, a.External, field, &exts)
		}
		if len(hErrs) > 0 {
			errs = append(errs, hErrs...)
			continue
		}
		homs[name] = h
	}
	if len(errs) > 0 {
		return nil, errs
	}

	hash, err := statement.MigrationHash(doc)
	if err != nil {
		return nil, []ValidationError{errf(ErrUnsupportedDoc, "name", "cannot hash migration: %v", err)}
	}
	return &Migration{
		Name:      doc.Name,
		Hash:      hash,
		Source:    source,
		Target:    target,
		Kind:      kind,
		Diagrams:  diagrams,
		Homs:      homs,
		Externals: exts,
	}, nil
}
