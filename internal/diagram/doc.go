// Package diagram implements the query algebra: a query is a diagram, a
// functor from a small indexing shape into a base category, tagged with a
// kind that fixes how evaluation interprets the shape.
//
// The kinds form a closed enumeration {Trivial, Conjunctive, Glue, Gluc} and
// every per-kind behavior (construction, homomorphism building, promotion,
// coercion) switches exhaustively over it. Conjunctive queries evaluate as
// limits and their homomorphisms are contravariant in shape; Glue queries
// evaluate as colimits and are covariant; Gluc composes both levels.
//
// The kind tag is metadata the evaluator depends on: operations must never
// drop it silently when combining queries. Mixing kinds goes through the
// promotion lattice, which either finds a least common kind or fails hard.
package diagram
