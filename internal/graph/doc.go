// Package graph provides the directed multigraph and path kernel that the
// category layers are built on.
//
// This package contains handle types and path algebra only. All other internal
// packages may import graph; graph imports nothing internal. This keeps the
// kernel the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Vertex and Edge are opaque int handles, ordered and hashable
//   - A Graph is mutable only through a Builder; the built value is immutable
//   - Paths always carry definite endpoints, even when empty
package graph
