// Package compiler turns abstract statement documents into executable
// category-theoretic artifacts.
//
// The pipeline has two stages. CompileSchema builds a finitely-presented
// category from a schema document. CompileMigration then compiles a migration
// document against a source and a target schema: each target object generator
// is assigned a query diagram over the source, the diagram kinds are promoted
// to a common kind, and each target morphism generator becomes a diagram
// homomorphism. The result is a content-addressed Migration artifact.
//
// Validation is collect-all: a compile returns every diagnostic it can find
// rather than stopping at the first. Each diagnostic carries a stable Exxx
// code and a field path into the offending document.
package compiler
