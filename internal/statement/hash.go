package statement

import (
	"crypto/sha256"
	"encoding/hex"
)

// Domain prefixes for content-addressed identity. The version suffix allows
// future algorithm migration without colliding hash spaces.
const (
	DomainSchema    = "funq/schema/v1"
	DomainMigration = "funq/migration/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte prevents domain/data
// boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// CanonicalSchema renders the canonical JSON body of a schema document, the
// exact bytes its hash is computed over.
func CanonicalSchema(doc *SchemaDoc) ([]byte, error) {
	return MarshalCanonical(doc.canonicalMap())
}

// CanonicalMigration renders the canonical JSON body of a migration document.
func CanonicalMigration(doc *MigrationDoc) ([]byte, error) {
	return MarshalCanonical(doc.canonicalMap())
}

// SchemaHash computes the content-addressed identity of a schema document.
// The hash is stable across field ordering in the surface document because
// it goes through canonical JSON.
func SchemaHash(doc *SchemaDoc) (string, error) {
	enc, err := MarshalCanonical(doc.canonicalMap())
	if err != nil {
		return "", err
	}
	return hashWithDomain(DomainSchema, enc), nil
}

// MigrationHash computes the content-addressed identity of a migration
// document.
func MigrationHash(doc *MigrationDoc) (string, error) {
	enc, err := MarshalCanonical(doc.canonicalMap())
	if err != nil {
		return "", err
	}
	return hashWithDomain(DomainMigration, enc), nil
}

func (d *SchemaDoc) canonicalMap() map[string]any {
	objects := make([]any, len(d.Objects))
	for i, o := range d.Objects {
		objects[i] = map[string]any{"name": o.Name}
	}
	morphisms := make([]any, len(d.Morphisms))
	for i, m := range d.Morphisms {
		mm := map[string]any{"name": m.Name, "src": m.Src, "tgt": m.Tgt}
		if m.External != "" {
			mm["external"] = m.External
		}
		morphisms[i] = mm
	}
	out := map[string]any{
		"name":      d.Name,
		"objects":   objects,
		"morphisms": morphisms,
	}
	if len(d.Equations) > 0 {
		eqs := make([]any, len(d.Equations))
		for i, e := range d.Equations {
			eqs[i] = map[string]any{
				"lhs": pathMap(e.Lhs),
				"rhs": pathMap(e.Rhs),
			}
		}
		out["equations"] = eqs
	}
	return out
}

func (d *MigrationDoc) canonicalMap() map[string]any {
	objects := make([]any, len(d.Objects))
	for i, a := range d.Objects {
		objects[i] = map[string]any{"name": a.Name, "query": queryMap(a.Query)}
	}
	out := map[string]any{
		"name":    d.Name,
		"source":  d.Source,
		"target":  d.Target,
		"objects": objects,
	}
	if len(d.Morphisms) > 0 {
		morphisms := make([]any, len(d.Morphisms))
		for i, a := range d.Morphisms {
			mm := map[string]any{"name": a.Name}
			if len(a.Via) > 0 {
				mm["via"] = stringList(a.Via)
			}
			if a.External != "" {
				mm["external"] = a.External
			}
			morphisms[i] = mm
		}
		out["morphisms"] = morphisms
	}
	return out
}

// queryMap renders a query expression for canonical hashing, switching
// exhaustively over the sealed interface.
func queryMap(q QueryExpr) map[string]any {
	switch e := q.(type) {
	case GeneratorRef:
		return map[string]any{"kind": "generator", "name": e.Name}
	case LimitExpr:
		return blockMap("limit", string(e.Tag), e.Bindings, e.Constraints)
	case ColimitExpr:
		return blockMap("colimit", string(e.Tag), e.Bindings, e.Constraints)
	default:
		// Sealed interface: unreachable for well-formed documents.
		return map[string]any{"kind": "invalid"}
	}
}

func blockMap(kind, tag string, bindings []Binding, constraints []Constraint) map[string]any {
	bs := make([]any, len(bindings))
	for i, b := range bindings {
		bs[i] = map[string]any{"var": b.Var, "over": queryMap(b.Over)}
	}
	out := map[string]any{"kind": kind, "tag": tag, "bindings": bs}
	if len(constraints) > 0 {
		cs := make([]any, len(constraints))
		for i, c := range constraints {
			cm := map[string]any{"from": c.From, "to": c.To}
			if len(c.Via) > 0 {
				cm["via"] = stringList(c.Via)
			}
			if c.External != "" {
				cm["external"] = c.External
			}
			cs[i] = cm
		}
		out["constraints"] = cs
	}
	return out
}

func pathMap(p PathExpr) map[string]any {
	out := map[string]any{}
	if p.At != "" {
		out["at"] = p.At
	}
	if len(p.Edges) > 0 {
		out["edges"] = stringList(p.Edges)
	}
	return out
}

func stringList(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
