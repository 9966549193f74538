package compiler

import (
	"fmt"

	"github.com/plurigrid/funq/internal/diagram"
	"github.com/plurigrid/funq/internal/fincat"
	"github.com/plurigrid/funq/internal/functor"
	"github.com/plurigrid/funq/internal/statement"
)

// ExternalRef records a position in a compiled artifact whose morphism is
// deferred to an externally supplied function.
type ExternalRef struct {
	At  string `json:"at"`
	Key string `json:"key"`
}

// classifyQuery determines the diagram kind a query expression compiles to.
// A bare generator is trivial, a limit block conjunctive, a colimit block
// glue, and a colimit of limit blocks gluc. Any other nesting is rejected.
func classifyQuery(q statement.QueryExpr, field string) (diagram.Kind, []ValidationError) {
	switch e := q.(type) {
	case statement.GeneratorRef:
		return diagram.KindTrivial, nil
	case statement.LimitExpr:
		var errs []ValidationError
		for i, b := range e.Bindings {
			if _, ok := b.Over.(statement.GeneratorRef); !ok {
				errs = append(errs, errf(ErrBadQueryShape,
					fmt.Sprintf("%s.bindings[%d]", field, i),
					"limit bindings must be bare generators"))
			}
		}
		return diagram.KindConjunctive, errs
	case statement.ColimitExpr:
		nested := false
		var errs []ValidationError
		for i, b := range e.Bindings {
			switch b.Over.(type) {
			case statement.GeneratorRef:
			case statement.LimitExpr:
				nested = true
			default:
				errs = append(errs, errf(ErrBadQueryShape,
					fmt.Sprintf("%s.bindings[%d]", field, i),
					"colimit bindings must be generators or limit blocks"))
			}
		}
		if nested {
			return diagram.KindGluc, errs
		}
		return diagram.KindGlue, errs
	default:
		return 0, []ValidationError{errf(ErrBadQueryShape, field,
			"unsupported query expression %T", q)}
	}
}

// compileQuery builds the diagram for one query expression over a source
// schema, appending any external-function references to exts.
func compileQuery(src *Schema, q statement.QueryExpr, field string, exts *[]ExternalRef) (*diagram.Diagram, []ValidationError) {
	kind, errs := classifyQuery(q, field)
	if len(errs) > 0 {
		return nil, errs
	}
	switch e := q.(type) {
	case statement.GeneratorRef:
		x, err := src.Cat.ResolveObject(e.Name)
		if err != nil {
			return nil, []ValidationError{errf(ErrUnknownGenerator, field,
				"unknown source object %q", e.Name)}
		}
		d, err := diagram.Trivial(src.Cat, x)
		if err != nil {
			return nil, []ValidationError{errf(ErrBadQueryShape, field, "%v", err)}
		}
		return d, nil
	case statement.LimitExpr:
		if errs := checkBlockTag(string(e.Tag), len(e.Bindings), len(e.Constraints), field); len(errs) > 0 {
			return nil, errs
		}
		return buildFlat(diagram.KindConjunctive, src, e.Bindings, e.Constraints, field, exts)
	case statement.ColimitExpr:
		if errs := checkBlockTag(string(e.Tag), len(e.Bindings), len(e.Constraints), field); len(errs) > 0 {
			return nil, errs
		}
		if kind == diagram.KindGluc {
			return buildGluc(src, e, field, exts)
		}
		return buildFlat(diagram.KindGlue, src, e.Bindings, e.Constraints, field, exts)
	default:
		return nil, []ValidationError{errf(ErrBadQueryShape, field,
			"unsupported query expression %T", q)}
	}
}

// checkBlockTag enforces the shape each surface tag promises: terminal and
// initial blocks are empty, product and coproduct blocks carry no
// constraints.
func checkBlockTag(tag string, bindings, constraints int, field string) []ValidationError {
	switch tag {
	case string(statement.LimitTerminal), string(statement.ColimitInitial):
		if bindings != 0 || constraints != 0 {
			return []ValidationError{errf(ErrBadQueryShape, field+".tag",
				"%s block must be empty", tag)}
		}
	case string(statement.LimitProduct), string(statement.ColimitCoproduct):
		if constraints != 0 {
			return []ValidationError{errf(ErrBadQueryShape, field+".tag",
				"%s block cannot carry constraints", tag)}
		}
	case string(statement.LimitJoin), string(statement.ColimitUnion):
	default:
		return []ValidationError{errf(ErrBadQueryShape, field+".tag",
			"unknown block tag %q", tag)}
	}
	return nil
}

// buildFlat compiles a limit or colimit block into a conjunctive or glue
// diagram: binding variables become shape objects, constraints become shape
// morphisms, and the block's paths become the shape functor's images.
func buildFlat(kind diagram.Kind, src *Schema, bindings []statement.Binding,
	constraints []statement.Constraint, field string, exts *[]ExternalRef) (*diagram.Diagram, []ValidationError) {

	var errs []ValidationError
	sb := fincat.NewBuilder()
	vars := make(map[string]fincat.Ob, len(bindings))
	obMap := make(map[fincat.Ob]fincat.Ob, len(bindings))

	for i, b := range bindings {
		bfield := fmt.Sprintf("%s.bindings[%d]", field, i)
		if b.Var == "" {
			errs = append(errs, errf(ErrBadQueryShape, bfield+".var", "binding variable is required"))
			continue
		}
		if _, ok := vars[b.Var]; ok {
			errs = append(errs, errf(ErrDuplicateAssignment, bfield+".var",
				"duplicate binding variable %q", b.Var))
			continue
		}
		ref, ok := b.Over.(statement.GeneratorRef)
		if !ok {
			errs = append(errs, errf(ErrBadQueryShape, bfield,
				"binding must be a bare generator"))
			continue
		}
		img, err := src.Cat.ResolveObject(ref.Name)
		if err != nil {
			errs = append(errs, errf(ErrUnknownGenerator, bfield,
				"unknown source object %q", ref.Name))
			continue
		}
		x, err := sb.AddObject(b.Var)
		if err != nil {
			errs = append(errs, errf(ErrDuplicateAssignment, bfield+".var", "%v", err))
			continue
		}
		vars[b.Var] = x
		obMap[x] = img
	}

	type edgeImage struct {
		gen fincat.MorGen
		mor fincat.Mor
	}
	var images []edgeImage
	for i, c := range constraints {
		cfield := fmt.Sprintf("%s.constraints[%d]", field, i)
		from, okF := vars[c.From]
		to, okT := vars[c.To]
		if !okF || !okT {
			errs = append(errs, errf(ErrBadConstraint, cfield,
				"constraint endpoints %q -> %q are not bound variables", c.From, c.To))
			continue
		}
		f, err := sb.AddMorphism(fmt.Sprintf("%s_%s_%d", c.From, c.To, i), from, to)
		if err != nil {
			errs = append(errs, errf(ErrBadConstraint, cfield, "%v", err))
			continue
		}
		mor, cErrs := constraintImage(src, c, obMap[from], obMap[to], cfield, exts)
		if len(cErrs) > 0 {
			errs = append(errs, cErrs...)
			continue
		}
		images = append(images, edgeImage{gen: f, mor: mor})
	}
	if len(errs) > 0 {
		return nil, errs
	}

	shape, err := sb.Build()
	if err != nil {
		return nil, []ValidationError{errf(ErrBadQueryShape, field, "%v", err)}
	}
	homMap := make(map[fincat.MorGen]fincat.Mor, len(images))
	for _, im := range images {
		homMap[im.gen] = im.mor
	}
	F, err := functor.New(shape, src.Cat, obMap, homMap)
	if err != nil {
		return nil, []ValidationError{errf(ErrNonFunctorial, field, "%v", err)}
	}
	var d *diagram.Diagram
	if kind == diagram.KindConjunctive {
		d, err = diagram.Conjunctive(F)
	} else {
		d, err = diagram.Glue(F)
	}
	if err != nil {
		return nil, []ValidationError{errf(ErrNonFunctorial, field, "%v", err)}
	}
	return d, nil
}

// constraintImage resolves a constraint's Via path into a source morphism
// with the expected endpoints, or the zero placeholder when the constraint
// defers to an external function.
func constraintImage(src *Schema, c statement.Constraint, wantDom, wantCod fincat.Ob,
	field string, exts *[]ExternalRef) (fincat.Mor, []ValidationError) {

	if c.External != "" {
		if len(c.Via) > 0 {
			return fincat.Mor{}, []ValidationError{errf(ErrBadConstraint, field,
				"constraint cannot carry both a path and an external function")}
		}
		*exts = append(*exts, ExternalRef{At: field, Key: c.External})
		return fincat.Zero(), nil
	}
	if len(c.Via) == 0 {
		if wantDom != wantCod {
			return fincat.Mor{}, []ValidationError{errf(ErrBadConstraint, field,
				"empty path between distinct objects %q and %q",
				src.Cat.ObjectName(wantDom), src.Cat.ObjectName(wantCod))}
		}
		return fincat.Identity(wantDom), nil
	}
	gens := make([]fincat.MorGen, len(c.Via))
	for i, name := range c.Via {
		g, err := src.Cat.ResolveMorphism(name)
		if err != nil {
			return fincat.Mor{}, []ValidationError{errf(ErrUnknownGenerator, field,
				"unknown source morphism %q", name)}
		}
		gens[i] = g
	}
	m, err := fincat.FromGenerators(src.Cat, gens)
	if err != nil {
		return fincat.Mor{}, []ValidationError{errf(ErrBadConstraint, field, "%v", err)}
	}
	if m.Dom() != wantDom || m.Codom() != wantCod {
		return fincat.Mor{}, []ValidationError{errf(ErrBadConstraint, field,
			"path runs %s -> %s, constraint expects %s -> %s",
			src.Cat.ObjectName(m.Dom()), src.Cat.ObjectName(m.Codom()),
			src.Cat.ObjectName(wantDom), src.Cat.ObjectName(wantCod))}
	}
	return m, nil
}

// buildGluc compiles a colimit block whose bindings include limit blocks:
// the outer shape indexes a conjunctive diagram per binding and a
// conjunctive homomorphism per constraint.
func buildGluc(src *Schema, e statement.ColimitExpr, field string, exts *[]ExternalRef) (*diagram.Diagram, []ValidationError) {
	var errs []ValidationError
	sb := fincat.NewBuilder()
	vars := make(map[string]fincat.Ob, len(e.Bindings))
	inner := make(map[fincat.Ob]*diagram.Diagram, len(e.Bindings))

	for i, b := range e.Bindings {
		bfield := fmt.Sprintf("%s.bindings[%d]", field, i)
		if b.Var == "" {
			errs = append(errs, errf(ErrBadQueryShape, bfield+".var", "binding variable is required"))
			continue
		}
		x, err := sb.AddObject(b.Var)
		if err != nil {
			errs = append(errs, errf(ErrDuplicateAssignment, bfield+".var", "%v", err))
			continue
		}
		var q *diagram.Diagram
		var qErrs []ValidationError
		switch over := b.Over.(type) {
		case statement.GeneratorRef:
			q, qErrs = compileQuery(src, over, bfield+".over", exts)
			if q != nil {
				var cErr error
				q, cErr = diagram.Convert(diagram.KindConjunctive, q)
				if cErr != nil {
					qErrs = append(qErrs, errf(ErrBadQueryShape, bfield, "%v", cErr))
				}
			}
		case statement.LimitExpr:
			q, qErrs = compileQuery(src, over, bfield+".over", exts)
		default:
			qErrs = []ValidationError{errf(ErrBadQueryShape, bfield,
				"colimit bindings must be generators or limit blocks")}
		}
		if len(qErrs) > 0 {
			errs = append(errs, qErrs...)
			continue
		}
		vars[b.Var] = x
		inner[x] = q
	}

	type homEntry struct {
		gen fincat.MorGen
		hom *diagram.Hom
	}
	var homs []homEntry
	for i, c := range e.Constraints {
		cfield := fmt.Sprintf("%s.constraints[%d]", field, i)
		from, okF := vars[c.From]
		to, okT := vars[c.To]
		if !okF || !okT {
			errs = append(errs, errf(ErrBadConstraint, cfield,
				"constraint endpoints %q -> %q are not bound variables", c.From, c.To))
			continue
		}
		f, err := sb.AddMorphism(fmt.Sprintf("%s_%s_%d", c.From, c.To, i), from, to)
		if err != nil {
			errs = append(errs, errf(ErrBadConstraint, cfield, "%v", err))
			continue
		}
		h, hErrs := conjunctiveHomFromPath(src, inner[from], inner[to], c.Via, c.External, cfield, exts)
		if len(hErrs) > 0 {
			errs = append(errs, hErrs...)
			continue
		}
		homs = append(homs, homEntry{gen: f, hom: h})
	}
	if len(errs) > 0 {
		return nil, errs
	}

	outer, err := sb.Build()
	if err != nil {
		return nil, []ValidationError{errf(ErrBadQueryShape, field, "%v", err)}
	}
	homQueries := make(map[fincat.MorGen]*diagram.Hom, len(homs))
	for _, h := range homs {
		homQueries[h.gen] = h.hom
	}
	d, err := diagram.Gluc(outer, src.Cat, inner, homQueries)
	if err != nil {
		return nil, []ValidationError{errf(ErrBadQueryShape, field, "%v", err)}
	}
	return d, nil
}
