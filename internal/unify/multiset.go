package unify

import (
	"github.com/dowsing-go/dowsing/internal/subst"
	"github.com/dowsing-go/dowsing/internal/term"
)

// multisetMatch implements spec.md §4.E's "Multiset match": unifying two
// unordered collections of types — arrow argument sets or tuple component
// sets — of possibly different lengths.
//
// Rather than treating "n = m: permute" and "n ≠ m: partition the larger
// side into min(n,m) groups, then permute against the smaller side" as two
// algorithms, this implements a single one: every surjective function from
// the larger side's index set onto the smaller side's index set. Each
// bucket of the surjection groups some of the larger side's elements (via
// the tuple smart constructor, which collapses a singleton group back to
// its bare element) and is paired against one element of the smaller side.
// When the sides are equal length, "surjective" forces "bijective" — i.e.
// exactly the permutations the n=m case calls for — so the partition case
// is simply the general case applied to unequal lengths.
//
// extra carries equations that must additionally be enqueued on success
// regardless of which multiset-match branch is taken (the arrow case's
// return-type equation); rest is the remainder of the outer equation queue.
func (s *search) multisetMatch(a, b []*term.Ty, extra, rest []equation, sub *subst.Subst, yield func(*subst.Subst) bool) bool {
	big, small := a, b
	if len(a) < len(b) {
		big, small = b, a
	}

	bigN, smallN := len(big), len(small)

	if smallN == 0 {
		if bigN == 0 {
			// Both multisets empty: nothing to reconcile.
			return s.solve(append(append([]equation{}, extra...), rest...), sub, yield)
		}

		// A non-empty side can't be partitioned into zero groups.
		return true
	}

	budget := s.opts.MaxPartitions
	count := 0

	assign := make([]int, bigN)
	bucketSize := make([]int, smallN)

	var rec func(idx int) bool
	rec = func(idx int) bool {
		if idx == bigN {
			for j := 0; j < smallN; j++ {
				if bucketSize[j] == 0 {
					// Not surjective: some small-side element would be
					// matched against an empty group. Not a valid branch.
					return true
				}
			}

			if budget > 0 && count >= budget {
				*s.exhausted = true
				return true
			}

			count++

			groups := make([][]*term.Ty, smallN)
			for i, j := range assign {
				groups[j] = append(groups[j], big[i])
			}

			eqs := make([]equation, 0, smallN+len(extra)+len(rest))
			for j := 0; j < smallN; j++ {
				grp := s.env.Tuple(groups[j]...)
				eqs = append(eqs, equation{grp, small[j]})
			}

			eqs = append(eqs, extra...)
			eqs = append(eqs, rest...)

			return s.solve(eqs, sub, yield)
		}

		for j := 0; j < smallN; j++ {
			assign[idx] = j
			bucketSize[j]++

			if !rec(idx + 1) {
				bucketSize[j]--
				return false
			}

			bucketSize[j]--
		}

		return true
	}

	return rec(0)
}
