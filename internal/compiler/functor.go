package compiler

import (
	"fmt"

	"github.com/plurigrid/funq/internal/fincat"
	"github.com/plurigrid/funq/internal/functor"
	"github.com/plurigrid/funq/internal/graph"
	"github.com/plurigrid/funq/internal/statement"
)

// CompileFunctor interprets a migration document whose assignments are all
// bare generators and plain paths as a schema functor target -> source over
// graph-backed categories, the form the initiality checker accepts.
func CompileFunctor(doc *statement.MigrationDoc, srcDoc, tgtDoc *statement.SchemaDoc) (*functor.Functor, []ValidationError) {
	srcCat, errs := graphCatOf(srcDoc)
	tgtCat, tErrs := graphCatOf(tgtDoc)
	errs = append(errs, tErrs...)
	if len(errs) > 0 {
		return nil, errs
	}

	obMap := make(map[fincat.Ob]fincat.Ob)
	for i, a := range doc.Objects {
		field := fmt.Sprintf("objects[%d]", i)
		x, err := tgtCat.ResolveObject(a.Name)
		if err != nil {
			errs = append(errs, errf(ErrUnknownGenerator, field+".name",
				"unknown target object %q", a.Name))
			continue
		}
		ref, ok := a.Query.(statement.GeneratorRef)
		if !ok {
			errs = append(errs, errf(ErrUnsupportedHomShape, field+".query",
				"a schema functor needs generator-to-generator assignments"))
			continue
		}
		img, err := srcCat.ResolveObject(ref.Name)
		if err != nil {
			errs = append(errs, errf(ErrUnknownGenerator, field+".query",
				"unknown source object %q", ref.Name))
			continue
		}
		obMap[x] = img
	}
	for _, x := range tgtCat.ObjectGenerators() {
		if _, ok := obMap[x]; !ok {
			errs = append(errs, errf(ErrMissingAssignment, "objects",
				"target object %q has no assignment", tgtCat.ObjectName(x)))
		}
	}

	assigns := make(map[string]statement.MorphismAssign)
	for _, a := range doc.Morphisms {
		assigns[a.Name] = a
	}
	homMap := make(map[fincat.MorGen]fincat.Mor)
	for _, f := range tgtCat.MorphismGenerators() {
		name := tgtCat.MorphismName(f)
		field := "morphisms." + name
		a := assigns[name]
		switch {
		case a.External != "":
			homMap[f] = fincat.Zero()
		case len(a.Via) == 0:
			img, ok := obMap[tgtCat.Dom(f)]
			if !ok {
				continue
			}
			homMap[f] = fincat.Identity(img)
		default:
			gens := make([]fincat.MorGen, len(a.Via))
			bad := false
			for i, gname := range a.Via {
				g, err := srcCat.ResolveMorphism(gname)
				if err != nil {
					errs = append(errs, errf(ErrUnknownGenerator, field,
						"unknown source morphism %q", gname))
					bad = true
					break
				}
				gens[i] = g
			}
			if bad {
				continue
			}
			m, err := fincat.FromGenerators(srcCat, gens)
			if err != nil {
				errs = append(errs, errf(ErrBadMorphismPath, field, "%v", err))
				continue
			}
			homMap[f] = m
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	F, err := functor.New(tgtCat, srcCat, obMap, homMap)
	if err != nil {
		return nil, []ValidationError{errf(ErrNonFunctorial, "morphisms", "%v", err)}
	}
	if fails := F.Failures(true); !fails.Empty() {
		for _, f := range fails.BadDomains {
			errs = append(errs, errf(ErrNonFunctorial, "morphisms."+tgtCat.MorphismName(f),
				"image domain disagrees with the mapped source"))
		}
		for _, f := range fails.BadCodomains {
			errs = append(errs, errf(ErrNonFunctorial, "morphisms."+tgtCat.MorphismName(f),
				"image codomain disagrees with the mapped target"))
		}
		for _, i := range fails.BadEquations {
			errs = append(errs, errf(ErrNonFunctorial, fmt.Sprintf("equations[%d]", i),
				"equation is not preserved"))
		}
		return nil, errs
	}
	return F, nil
}

// graphCatOf builds the graph-backed category of a schema document: the free
// category on its generator graph, or the graph with path equations when the
// document declares any.
func graphCatOf(doc *statement.SchemaDoc) (fincat.FinCat, []ValidationError) {
	if _, errs := CompileSchema(doc); len(errs) > 0 {
		return nil, errs
	}

	gb := graph.NewBuilder()
	verts := make(map[string]graph.Vertex, len(doc.Objects))
	for _, o := range doc.Objects {
		v, err := gb.AddVertex(o.Name)
		if err != nil {
			return nil, []ValidationError{errf(ErrDuplicateDecl, "objects", "%v", err)}
		}
		verts[o.Name] = v
	}
	for _, m := range doc.Morphisms {
		if _, err := gb.AddEdge(verts[m.Src], verts[m.Tgt], m.Name); err != nil {
			return nil, []ValidationError{errf(ErrUnknownEndpoint, "morphisms", "%v", err)}
		}
	}
	g := gb.Build()
	free := fincat.FreeOnGraph(g)
	if len(doc.Equations) == 0 {
		return free, nil
	}

	eqs := make([]fincat.Equation, 0, len(doc.Equations))
	for i, e := range doc.Equations {
		field := fmt.Sprintf("equations[%d]", i)
		lhs, err := sideMor(free, e.Lhs)
		if err != nil {
			return nil, []ValidationError{errf(ErrBadEquation, field+".lhs", "%v", err)}
		}
		rhs, err := sideMor(free, e.Rhs)
		if err != nil {
			return nil, []ValidationError{errf(ErrBadEquation, field+".rhs", "%v", err)}
		}
		eq, err := fincat.NewEquation(free, lhs, rhs)
		if err != nil {
			return nil, []ValidationError{errf(ErrBadEquation, field, "%v", err)}
		}
		eqs = append(eqs, eq)
	}
	c, err := fincat.GraphWithEquations(g, eqs)
	if err != nil {
		return nil, []ValidationError{errf(ErrBadEquation, "equations", "%v", err)}
	}
	return c, nil
}

func sideMor(c fincat.FinCat, p statement.PathExpr) (fincat.Mor, error) {
	if len(p.Edges) == 0 {
		x, err := c.ResolveObject(p.At)
		if err != nil {
			return fincat.Mor{}, err
		}
		return fincat.Identity(x), nil
	}
	gens := make([]fincat.MorGen, len(p.Edges))
	for i, name := range p.Edges {
		g, err := c.ResolveMorphism(name)
		if err != nil {
			return fincat.Mor{}, err
		}
		gens[i] = g
	}
	return fincat.FromGenerators(c, gens)
}
