package compiler

import (
	"fmt"
	"strings"

	"github.com/plurigrid/funq/internal/fincat"
	"github.com/plurigrid/funq/internal/statement"
)

// Schema is a compiled schema document: a finitely-presented category plus
// the external-function attachments of its attribute morphisms, under a
// content-addressed identity.
type Schema struct {
	Name string
	Hash string
	Cat  *fincat.PresentationCat

	// Externals maps morphism generator names to external function keys.
	Externals map[string]string
}

// CompileSchema validates a schema document and builds its presented
// category. All structural diagnostics are collected; on any error the
// schema is nil.
func CompileSchema(doc *statement.SchemaDoc) (*Schema, []ValidationError) {
	var errs []ValidationError

	if strings.TrimSpace(doc.Name) == "" {
		errs = append(errs, errf(ErrEmptyName, "name", "schema name is required"))
	}

	obDecl := make(map[string]bool)
	for i, o := range doc.Objects {
		field := fmt.Sprintf("objects[%d].name", i)
		if strings.TrimSpace(o.Name) == "" {
			errs = append(errs, errf(ErrEmptyName, field, "object name is required"))
			continue
		}
		if obDecl[o.Name] {
			errs = append(errs, errf(ErrDuplicateDecl, field, "duplicate object %q", o.Name))
			continue
		}
		obDecl[o.Name] = true
	}

	morDecl := make(map[string]morInfo)
	for i, m := range doc.Morphisms {
		field := fmt.Sprintf("morphisms[%d]", i)
		if strings.TrimSpace(m.Name) == "" {
			errs = append(errs, errf(ErrEmptyName, field+".name", "morphism name is required"))
			continue
		}
		if _, ok := morDecl[m.Name]; ok {
			errs = append(errs, errf(ErrDuplicateDecl, field+".name", "duplicate morphism %q", m.Name))
			continue
		}
		if !obDecl[m.Src] {
			errs = append(errs, errf(ErrUnknownEndpoint, field+".src",
				"morphism %q has undeclared source %q", m.Name, m.Src))
		}
		if !obDecl[m.Tgt] {
			errs = append(errs, errf(ErrUnknownEndpoint, field+".tgt",
				"morphism %q has undeclared target %q", m.Name, m.Tgt))
		}
		morDecl[m.Name] = morInfo{src: m.Src, tgt: m.Tgt}
	}

	for i, eq := range doc.Equations {
		field := fmt.Sprintf("equations[%d]", i)
		lSrc, lTgt, lErrs := checkPathExpr(eq.Lhs, field+".lhs", obDecl, morDecl)
		rSrc, rTgt, rErrs := checkPathExpr(eq.Rhs, field+".rhs", obDecl, morDecl)
		errs = append(errs, lErrs...)
		errs = append(errs, rErrs...)
		if len(lErrs) > 0 || len(rErrs) > 0 {
			continue
		}
		if lSrc != rSrc || lTgt != rTgt {
			errs = append(errs, errf(ErrBadEquation, field,
				"equation sides have different endpoints: %s->%s vs %s->%s", lSrc, lTgt, rSrc, rTgt))
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	b := fincat.NewBuilder()
	obs := make(map[string]fincat.Ob, len(doc.Objects))
	for _, o := range doc.Objects {
		x, err := b.AddObject(o.Name)
		if err != nil {
			return nil, []ValidationError{errf(ErrDuplicateDecl, "objects", "%v", err)}
		}
		obs[o.Name] = x
	}
	mors := make(map[string]fincat.MorGen, len(doc.Morphisms))
	externals := make(map[string]string)
	for _, m := range doc.Morphisms {
		f, err := b.AddMorphism(m.Name, obs[m.Src], obs[m.Tgt])
		if err != nil {
			return nil, []ValidationError{errf(ErrDuplicateDecl, "morphisms", "%v", err)}
		}
		mors[m.Name] = f
		if m.External != "" {
			externals[m.Name] = m.External
		}
	}
	for _, eq := range doc.Equations {
		lhs := resolvePathGens(eq.Lhs, mors)
		rhs := resolvePathGens(eq.Rhs, mors)
		switch {
		case len(lhs) == 0 && len(rhs) == 0:
			// id = id carries no content.
		case len(lhs) == 0:
			b.AddIdentityEquation(rhs, obs[eq.Lhs.At])
		case len(rhs) == 0:
			b.AddIdentityEquation(lhs, obs[eq.Rhs.At])
		default:
			b.AddEquation(lhs, rhs)
		}
	}
	cat, err := b.Build()
	if err != nil {
		return nil, []ValidationError{errf(ErrBadEquation, "equations", "%v", err)}
	}

	hash, err := statement.SchemaHash(doc)
	if err != nil {
		return nil, []ValidationError{errf(ErrUnsupportedDoc, "name", "cannot hash schema: %v", err)}
	}
	return &Schema{Name: doc.Name, Hash: hash, Cat: cat, Externals: externals}, nil
}

type morInfo struct {
	src, tgt string
}

// checkPathExpr validates one equation side against the declared generators
// and returns its endpoints. An empty edge list is the identity at At.
func checkPathExpr(p statement.PathExpr, field string, obDecl map[string]bool,
	morDecl map[string]morInfo) (src, tgt string, errs []ValidationError) {

	if len(p.Edges) == 0 {
		if p.At == "" {
			return "", "", []ValidationError{errf(ErrBadEquation, field,
				"empty path needs an anchor object")}
		}
		if !obDecl[p.At] {
			return "", "", []ValidationError{errf(ErrBadEquation, field,
				"identity anchored at undeclared object %q", p.At)}
		}
		return p.At, p.At, nil
	}
	for i, name := range p.Edges {
		m, ok := morDecl[name]
		if !ok {
			errs = append(errs, errf(ErrBadEquation, field,
				"path references undeclared morphism %q", name))
			continue
		}
		if i == 0 {
			src = m.src
		} else if tgt != m.src {
			errs = append(errs, errf(ErrBadEquation, field,
				"path does not compose at %q", name))
		}
		tgt = m.tgt
	}
	return src, tgt, errs
}

func resolvePathGens(p statement.PathExpr, mors map[string]fincat.MorGen) []fincat.MorGen {
	gens := make([]fincat.MorGen, len(p.Edges))
	for i, name := range p.Edges {
		gens[i] = mors[name]
	}
	return gens
}
