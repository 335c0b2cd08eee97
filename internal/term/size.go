package term

import "fmt"

// Size metrics (spec.md §3.5), used by feature extraction (internal/feature)
// and result ranking (internal/tyindex). The precise definitions of
// RootVarCount/TailRootVarCount are left unpinned by spec.md; the choice
// made here is: RootVarCount counts variables
// occurring as *direct* children of the term's head symbol (or 1 if the
// head itself is a bare variable), while TailRootVarCount counts variables
// occurring as direct elements of an arrow's argument multiset. Both stop at
// one level of nesting — they measure "how polymorphic does the immediate
// shape look", which is what a cheap pre-unification feature needs.

// HeadKind returns the Kind of the term after stripping any single outer
// Arrow (arrows are already uncurried to a single level by the smart
// constructors, so this never needs more than one step down).
func HeadKind(t *Ty) Kind {
	if t.kind == KindArrow {
		return t.ret.kind
	}

	return t.kind
}

// TailLength returns the arity of t's outer arrow, or 0 if t is not an
// Arrow.
func TailLength(t *Ty) int {
	if t.kind != KindArrow {
		return 0
	}

	return len(t.argset)
}

// head returns the term after stripping the outer Arrow, i.e. the part
// HeadKind reports the Kind of.
func head(t *Ty) *Ty {
	if t.kind == KindArrow {
		return t.ret
	}

	return t
}

// RootVarCount counts variables occurring as direct children of head(t)'s
// symbol: 1 if head(t) itself is a Var, the count of directly-Var
// constructor arguments for a Constr, the count of directly-Var elements
// for a Tuple, and 0 for Other.
func RootVarCount(t *Ty) int {
	h := head(t)

	switch h.kind {
	case KindVar:
		return 1
	case KindConstr:
		return countDirectVars(h.args)
	case KindTuple:
		return countDirectVars(h.elts)
	default:
		return 0
	}
}

// TailRootVarCount counts variables occurring as direct elements of t's
// outer arrow argument multiset (0 if t is not an Arrow).
func TailRootVarCount(t *Ty) int {
	if t.kind != KindArrow {
		return 0
	}

	return countDirectVars(t.argset)
}

func countDirectVars(ts []*Ty) int {
	n := 0

	for _, t := range ts {
		if t.kind == KindVar {
			n++
		}
	}

	return n
}

// NodeCount returns the total number of nodes in t's (unshared) tree,
// counting every occurrence of a shared subterm separately — this is the
// metric used by substitution specificity (internal/subst) and ranking, not
// a measure of the hash-cons arena's size.
func NodeCount(t *Ty) int {
	switch t.kind {
	case KindVar, KindOther:
		return 1
	case KindConstr:
		n := 1
		for _, a := range t.args {
			n += NodeCount(a)
		}

		return n
	case KindArrow:
		n := 1 + NodeCount(t.ret)
		for _, a := range t.argset {
			n += NodeCount(a)
		}

		return n
	case KindTuple:
		n := 1
		for _, e := range t.elts {
			n += NodeCount(e)
		}

		return n
	default:
		panic("term: invalid kind in NodeCount")
	}
}

// VarCount returns the number of distinct variables occurring in t.
func VarCount(t *Ty) int {
	seen := make(map[int]struct{})

	for v := range Vars(t) {
		seen[v.ID()] = struct{}{}
	}

	return len(seen)
}

// Summary renders a one-line human string describing t's size metrics,
// restoring the OCaml original's size_summary operation (SPEC_FULL.md §B.1).
// cmd/dowse's result printing does not call it.
func (t *Ty) Summary(env *Env) string {
	return fmt.Sprintf("%s | vars=%d nodes=%d head=%s tail=%d",
		t.String(env), VarCount(t), NodeCount(t), HeadKind(t), TailLength(t))
}
