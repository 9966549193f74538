// Package fincat models finitely-presented categories: objects and morphism
// generators plus an optional finite set of path equations.
//
// Three backing variants exist behind one interface: the free category on a
// graph, a graph with equations, and a named-generator presentation. The
// functor and diagram layers are generic over the FinCat interface and never
// branch on the backing representation.
//
// Morphism values (Mor) are composites of generators in diagrammatic order,
// identities at an object, or the designated Zero placeholder standing for an
// externally supplied function. Equality of Mor values is syntactic equality
// of generator sequences; in a category with equations this is only a partial
// (best-effort) equality and callers relying on it must say so.
package fincat
