// Package unify implements the multiset-aware unification engine (spec.md
// §4.E): a non-deterministic equation-queue worklist that emits every
// substitution unifying two terms, plus convenience wrappers picking the
// smallest under subst.Compare or testing mere unifiability.
//
// Grounded on the teacher's InferenceEngine.unify (internal/types/inference.go),
// a single-branch structural unifier with occurs-check; generalized here into
// a backtracking search over Go 1.23 range-over-func iterators so branch
// enumeration can be driven — and abandoned early — by an ordinary range
// loop, with no goroutines or explicit continuation stack (spec.md §9
// suggests "coroutine-like iterator, or explicit continuation stack"; an
// iter.Seq is exactly the former, and its yield-returns-false protocol is
// the cancellation mechanism spec.md §5 calls "dropping the stream").
package unify

import (
	"iter"

	"github.com/dowsing-go/dowsing/internal/subst"
	"github.com/dowsing-go/dowsing/internal/term"
	"github.com/dowsing-go/dowsing/internal/tyvar"
)

// Options tunes the search. MaxPartitions bounds how many (partition,
// pairing) branches a single multiset match will enumerate before giving up
// on that equation — spec.md §9's open question on capping the otherwise
// exponential partition enumeration. Zero means unbounded.
type Options struct {
	MaxPartitions int
}

// Result is the lazy stream of unifiers for one (t1, t2) pair, together with
// whether any multiset match along the way hit Options.MaxPartitions.
// Exhausted is only meaningful once the caller has fully drained Seq (or
// knows no further draining would change it) — a consumer that stops after
// the first result cannot tell whether a later branch would have overrun
// the bound.
type Result struct {
	Seq       iter.Seq[*subst.Subst]
	exhausted *bool
}

// Exhausted reports whether any multiset match was truncated by
// Options.MaxPartitions during the portion of Seq that has been consumed so
// far.
func (r *Result) Exhausted() bool { return *r.exhausted }

// Unifiers returns the lazy stream of every substitution that unifies t1 and
// t2 under multiset semantics (spec.md §4.E). t1 and t2 must come from env.
func Unifiers(env *term.Env, t1, t2 *term.Ty, opts Options) *Result {
	exhausted := new(bool)

	seq := func(yield func(*subst.Subst) bool) {
		st := &search{env: env, opts: opts, exhausted: exhausted}
		st.solve([]equation{{t1, t2}}, subst.Empty(), yield)
	}

	return &Result{Seq: seq, exhausted: exhausted}
}

// Unify returns the smallest unifier of t1 and t2 under subst.Compare's
// specificity order (spec.md §4.D), or (nil, false) if they do not unify.
// It must fully drain the underlying stream to guarantee minimality, so it
// is not itself lazy — only Unifiers is.
func Unify(env *term.Env, t1, t2 *term.Ty, opts Options) (*subst.Subst, bool) {
	var best *subst.Subst

	for s := range Unifiers(env, t1, t2, opts).Seq {
		if best == nil || subst.Compare(s, best) < 0 {
			best = s
		}
	}

	return best, best != nil
}

// Unifiable reports whether t1 and t2 have at least one unifier, stopping at
// the first one found.
func Unifiable(env *term.Env, t1, t2 *term.Ty, opts Options) bool {
	for range Unifiers(env, t1, t2, opts).Seq {
		return true
	}

	return false
}

type equation struct {
	l, r *term.Ty
}

// search holds the fixed, per-call context threaded through the recursive
// backtracking: the owning environment, the partition bound, and the shared
// exhaustion flag multiset matches set when they hit that bound.
type search struct {
	env       *term.Env
	opts      Options
	exhausted *bool
}

// solve is the equation-queue worklist of spec.md §4.E's Algorithm section.
// Its bool return is the "keep searching?" signal from yield, propagated up
// through every choice point so that a consumer stopping after the first
// result (the common case — Unifiable, or a caller satisfied with any
// match) aborts the whole backtracking tree rather than exploring dead
// branches. It does NOT mean "this branch unified" — a failed branch simply
// returns true ("yes, keep searching elsewhere") and contributes nothing.
func (s *search) solve(queue []equation, sub *subst.Subst, yield func(*subst.Subst) bool) bool {
	if len(queue) == 0 {
		return yield(sub)
	}

	eq := queue[0]
	rest := queue[1:]

	l := subst.Apply(s.env, sub, eq.l)
	r := subst.Apply(s.env, sub, eq.r)

	if l == r {
		return s.solve(rest, sub, yield)
	}

	if l.Kind() == term.KindVar {
		return s.bindVar(l.AsVar(), r, rest, sub, yield)
	}

	if r.Kind() == term.KindVar {
		return s.bindVar(r.AsVar(), l, rest, sub, yield)
	}

	if l.Kind() != r.Kind() {
		return true
	}

	switch l.Kind() {
	case term.KindOther:
		if l.AsOther() != r.AsOther() {
			return true
		}

		return s.solve(rest, sub, yield)

	case term.KindConstr:
		p1, a1 := l.AsConstr()
		p2, a2 := r.AsConstr()

		if p1.String() != p2.String() || len(a1) != len(a2) {
			return true
		}

		next := make([]equation, 0, len(rest)+len(a1))
		for i := range a1 {
			next = append(next, equation{a1[i], a2[i]})
		}

		next = append(next, rest...)

		return s.solve(next, sub, yield)

	case term.KindTuple:
		return s.multisetMatch(l.AsTuple(), r.AsTuple(), nil, rest, sub, yield)

	case term.KindArrow:
		args1, ret1 := l.AsArrow()
		args2, ret2 := r.AsArrow()

		return s.multisetMatch(args1, args2, []equation{{ret1, ret2}}, rest, sub, yield)

	default:
		return true
	}
}

// bindVar implements the "variable vs term" reduction: occurs-check, then
// bind and resume with the rest of the queue under the extended
// substitution.
func (s *search) bindVar(v tyvar.Var, t *term.Ty, rest []equation, sub *subst.Subst, yield func(*subst.Subst) bool) bool {
	if s.occurs(v, t) {
		return true
	}

	return s.solve(rest, sub.With(v, t), yield)
}

func (s *search) occurs(v tyvar.Var, t *term.Ty) bool {
	for occ := range term.Vars(t) {
		if occ.ID() == v.ID() {
			return true
		}
	}

	return false
}
