// Package initial decides whether a functor between free categories on
// graphs is initial: whether every comma slice over a target object is
// connected. Non-initiality is an expected outcome, so the checker returns a
// structured per-target report rather than an error.
package initial
