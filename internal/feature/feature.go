// Package feature implements the cheap, small-domain classifiers the trie
// uses to prune candidates before full unification runs (spec.md §4.F).
//
// Grounded structurally on the teacher's size/shape helpers in
// internal/types/types.go (Kind-tagged dispatch over a tagged-union Type);
// there is no corpus library for "compute a pruning key from a type", so
// this is plain functions over term.Ty — justified as a data-classification
// concern with no ecosystem analogue in the pack.
package feature

import "github.com/dowsing-go/dowsing/internal/term"

// Value is a feature's small, totally ordered domain — in practice always a
// non-negative int (a Kind or an arity).
type Value int

// Extractor bundles a feature's compute function with the compatibility
// predicate the trie's filtered query mode uses to decide whether an edge
// must be descended (spec.md §4.F).
type Extractor struct {
	Name       string
	Compute    func(t *term.Ty) Value
	Compatible func(query, entry Value) bool
}

// ByHead is Kind.to_int(head(t)): it separates var-headed terms from
// constructor/arrow/tuple/other-headed ones. Other is compatible only with
// Other (its hash is checked later, during real unification); this check
// comes first, so a var-headed query never descends into an Other edge and
// an Other query never descends into a var-headed edge, even though the
// unifier itself would bind such a variable to the Other term. Apart from
// Other, a var on either side is compatible with any head; otherwise kinds
// must match exactly, mirroring the unifier's own "mismatch of kinds -> fail
// this branch" rule (spec.md §4.E) one level earlier and more cheaply.
var ByHead = Extractor{
	Name:    "head",
	Compute: func(t *term.Ty) Value { return Value(term.HeadKind(t)) },
	Compatible: func(query, entry Value) bool {
		other := Value(term.KindOther)
		if query == other || entry == other {
			return query == entry
		}

		v := Value(term.KindVar)
		if query == v || entry == v {
			return true
		}

		return query == entry
	},
}

// TailLength is |tail(t)|, the arity of the outer arrow (0 for a non-arrow
// term). spec.md §4.F: "A query of tail length k may match entries with
// tail length ≥ k (via multiset partitioning)" — the unifier's multiset
// match can always group a longer side's arguments down to match a shorter
// one, never the reverse without the shorter side growing an equal-or-larger
// partner.
//
// A query tail length of 0 is ambiguous: it means either "this query is a
// genuine nullary-collapsed non-arrow" (which should only match
// tail-length-0 entries) or "this query is a bare variable, which unifies
// with an arrow of any arity" (ByHead already reports such a query as
// var-headed, but TailLength is evaluated independently at its own trie
// level and cannot see that). Since a filtered query is only required to be
// sound, never complete (spec.md §8's "Trie soundness (filtered mode)"
// invariant, as opposed to "Trie completeness" which is only promised for
// exhaustive queries), this implementation resolves the ambiguity toward
// permissiveness: a query tail length of 0 is treated as compatible with
// any entry tail length, rather than risk silently dropping a genuinely
// unifiable var-headed candidate from the fast path.
var TailLength = Extractor{
	Name:    "tail-length",
	Compute: func(t *term.Ty) Value { return Value(term.TailLength(t)) },
	Compatible: func(query, entry Value) bool {
		if query == 0 {
			return true
		}

		return entry >= query
	},
}

// All is the fixed extractor chain the trie indexes by, most to least
// discriminating first.
var All = []Extractor{ByHead, TailLength}
