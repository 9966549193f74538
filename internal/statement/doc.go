// Package statement defines the abstract statement trees handed over by the
// textual front-end: schema declarations (objects, morphisms, equations) and
// migration documents whose right-hand sides are query expressions.
//
// This package contains type definitions, canonical serialization, and
// content hashing only. All other internal packages may import statement;
// statement imports nothing internal.
//
// Key design constraints:
//   - QueryExpr is a sealed interface; backends switch exhaustively over it
//   - Canonical JSON (sorted UTF-16 keys, NFC strings, no floats or nulls)
//     is the only serialization used for content-addressed identity
//   - External function bodies are never represented here, only their keys
package statement
