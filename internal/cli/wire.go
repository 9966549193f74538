package cli

import (
	"fmt"

	"github.com/plurigrid/funq/internal/statement"
)

// Wire forms for document decoding. Query expressions form a sealed
// interface in the statement package, so decoders first fill these concrete
// structs and then convert. The field names double as the YAML keys; the
// json tags serve the CUE decoder.

type wireDocuments struct {
	Schemas    []wireSchema    `json:"schemas"`
	Migrations []wireMigration `json:"migrations"`
}

type wireSchema struct {
	Name      string                    `json:"name"`
	Objects   []statement.ObjectDecl    `json:"objects"`
	Morphisms []statement.MorphismDecl  `json:"morphisms"`
	Equations []statement.EquationDecl  `json:"equations"`
}

type wireMigration struct {
	Name      string                     `json:"name"`
	Source    string                     `json:"source"`
	Target    string                     `json:"target"`
	Objects   []wireObjectAssign         `json:"objects"`
	Morphisms []statement.MorphismAssign `json:"morphisms"`
}

type wireObjectAssign struct {
	Name  string    `json:"name"`
	Query wireQuery `json:"query"`
}

type wireQuery struct {
	Kind        string                 `json:"kind"` // generator | limit | colimit
	Name        string                 `json:"name"`
	Tag         string                 `json:"tag"`
	Bindings    []wireBinding          `json:"bindings"`
	Constraints []statement.Constraint `json:"constraints"`
}

type wireBinding struct {
	Var  string    `json:"var"`
	Over wireQuery `json:"over"`
}

func (w wireSchema) toStatement() *statement.SchemaDoc {
	return &statement.SchemaDoc{
		Name:      w.Name,
		Objects:   w.Objects,
		Morphisms: w.Morphisms,
		Equations: w.Equations,
	}
}

func (w wireMigration) toStatement() (*statement.MigrationDoc, error) {
	doc := &statement.MigrationDoc{
		Name:      w.Name,
		Source:    w.Source,
		Target:    w.Target,
		Morphisms: w.Morphisms,
	}
	for _, a := range w.Objects {
		q, err := a.Query.toExpr()
		if err != nil {
			return nil, fmt.Errorf("object %q: %w", a.Name, err)
		}
		doc.Objects = append(doc.Objects, statement.ObjectAssign{Name: a.Name, Query: q})
	}
	return doc, nil
}

func (w wireQuery) toExpr() (statement.QueryExpr, error) {
	switch w.Kind {
	case "generator", "":
		if w.Name == "" {
			return nil, fmt.Errorf("generator query needs a name")
		}
		return statement.GeneratorRef{Name: w.Name}, nil
	case "limit":
		bindings, err := w.toBindings()
		if err != nil {
			return nil, err
		}
		return statement.LimitExpr{
			Tag:         statement.LimitTag(w.Tag),
			Bindings:    bindings,
			Constraints: w.Constraints,
		}, nil
	case "colimit":
		bindings, err := w.toBindings()
		if err != nil {
			return nil, err
		}
		return statement.ColimitExpr{
			Tag:         statement.ColimitTag(w.Tag),
			Bindings:    bindings,
			Constraints: w.Constraints,
		}, nil
	default:
		return nil, fmt.Errorf("unknown query kind %q", w.Kind)
	}
}

func (w wireQuery) toBindings() ([]statement.Binding, error) {
	out := make([]statement.Binding, 0, len(w.Bindings))
	for _, b := range w.Bindings {
		over, err := b.Over.toExpr()
		if err != nil {
			return nil, fmt.Errorf("binding %q: %w", b.Var, err)
		}
		out = append(out, statement.Binding{Var: b.Var, Over: over})
	}
	return out, nil
}
