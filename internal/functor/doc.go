// Package functor builds and checks functors between finitely-presented
// categories, and natural transformations between functors.
//
// Construction is two-phase, following the rest of the module: a functor is
// assembled from explicit generator assignments and validated in a single
// pass. Structural problems (missing or extra assignments) fail fast;
// semantic problems (non-functoriality) are reported as structured failure
// sets so callers can surface generator-level diagnostics without treating
// "not a functor" as a system fault.
package functor
