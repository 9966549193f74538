package initial

import (
	"errors"
	"fmt"

	"github.com/plurigrid/funq/internal/fincat"
	"github.com/plurigrid/funq/internal/functor"
	"github.com/plurigrid/funq/internal/graph"
)

// Error codes (E060-E069) for initiality checking preconditions.
const (
	// ErrCodeNotFreeOnGraph indicates a functor whose domain or codomain is
	// not a free category on a graph. The comma-slice construction here is
	// defined for free categories only.
	ErrCodeNotFreeOnGraph = "E060"
)

// Error represents a precondition failure of the checker.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// IsNotFreeOnGraph returns true if err reports a non-free category input.
func IsNotFreeOnGraph(err error) bool {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Code == ErrCodeNotFreeOnGraph
	}
	return false
}

// graphBacked is satisfied by the graph-based FinCat variants.
type graphBacked interface {
	fincat.FinCat
	UnderlyingGraph() *graph.Graph
	PathOfMor(fincat.Mor) (graph.Path, error)
}

// SliceReport describes one comma slice F/t.
type SliceReport struct {
	// Target is the object t of the codomain.
	Target fincat.Ob

	// Size is the number of slice objects (s, path: F(s) -> t).
	Size int

	// Components is the number of connected components. Zero for an empty
	// slice; a slice is connected iff Components == 1.
	Components int
}

// Connected reports whether this slice passes the connectivity condition.
// An empty slice fails: it has no component at all.
func (r SliceReport) Connected() bool { return r.Components == 1 }

// Report is the structured result of an initiality check.
type Report struct {
	// Initial is true iff every comma slice is connected.
	Initial bool

	// Slices holds one entry per target object, in generator order.
	Slices []SliceReport
}

// Disconnected returns the targets whose slices fail connectivity.
func (r *Report) Disconnected() []fincat.Ob {
	var out []fincat.Ob
	for _, s := range r.Slices {
		if !s.Connected() {
			out = append(out, s.Target)
		}
	}
	return out
}

// sliceObject is a pair of a domain object s and a codomain path F(s) -> t.
type sliceObject struct {
	s    fincat.Ob
	path graph.Path
}

// Check decides initiality of F, whose domain and codomain must both be free
// categories on acyclic graphs. All codomain paths are enumerated once and
// reused across target objects.
//
// Per target object the pairwise merge over slice objects is quadratic in the
// slice size (with an inner loop over domain generators). This is correct but
// deliberately not optimized; at the intended schema scale it is affordable,
// and callers needing bounded latency must limit input size beforehand.
func Check(F *functor.Functor) (*Report, error) {
	S, ok := F.Dom().(graphBacked)
	if !ok || !F.Dom().IsFree() {
		return nil, &Error{Code: ErrCodeNotFreeOnGraph,
			Message: "domain is not a free category on a graph"}
	}
	T, ok := F.Codom().(graphBacked)
	if !ok || !F.Codom().IsFree() {
		return nil, &Error{Code: ErrCodeNotFreeOnGraph,
			Message: "codomain is not a free category on a graph"}
	}

	paths, err := graph.EnumeratePaths(T.UnderlyingGraph())
	if err != nil {
		return nil, err
	}

	// Images of domain generators as codomain paths, computed once.
	sg := S.UnderlyingGraph()
	genImage := make(map[fincat.MorGen]graph.Path, sg.NumEdges())
	for _, g := range S.MorphismGenerators() {
		p, err := T.PathOfMor(F.Hom(g))
		if err != nil {
			return nil, err
		}
		genImage[g] = p
	}

	report := &Report{Initial: true}
	for _, t := range T.ObjectGenerators() {
		slice := buildSlice(S, F, paths, t)
		rep := SliceReport{Target: t, Size: len(slice)}
		if len(slice) == 0 {
			report.Slices = append(report.Slices, rep)
			report.Initial = false
			continue
		}
		uf := newUnionFind(len(slice))
		for i := 0; i < len(slice); i++ {
			for j := i + 1; j < len(slice); j++ {
				if slicesLinked(S, genImage, slice[i], slice[j]) {
					uf.union(i, j)
				}
			}
		}
		rep.Components = uf.groups
		if rep.Components != 1 {
			report.Initial = false
		}
		report.Slices = append(report.Slices, rep)
	}
	return report, nil
}

// buildSlice collects the objects of the comma slice F/t.
func buildSlice(S graphBacked, F *functor.Functor, paths *graph.PathIndex, t fincat.Ob) []sliceObject {
	var slice []sliceObject
	for _, s := range S.ObjectGenerators() {
		fs := graph.Vertex(F.Ob(s))
		for _, p := range paths.Between(fs, graph.Vertex(t)) {
			slice = append(slice, sliceObject{s: s, path: p})
		}
	}
	return slice
}

// slicesLinked tests, in both directions, whether some domain generator g
// closes a commuting triangle between two slice objects: g : m -> n with
// p_m == F(g) . p_n.
func slicesLinked(S graphBacked, genImage map[fincat.MorGen]graph.Path, a, b sliceObject) bool {
	return triangleCommutes(S, genImage, a, b) || triangleCommutes(S, genImage, b, a)
}

func triangleCommutes(S graphBacked, genImage map[fincat.MorGen]graph.Path, m, n sliceObject) bool {
	for _, g := range S.MorphismGenerators() {
		if S.Dom(g) != m.s || S.Codom(g) != n.s {
			continue
		}
		composite, err := graph.Concat(genImage[g], n.path)
		if err != nil {
			continue
		}
		if composite.Equal(m.path) {
			return true
		}
	}
	return false
}
