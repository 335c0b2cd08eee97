// Package subst implements substitutions — finite variable→Ty maps — along
// with the specificity order used to pick "the" unifier out of a stream of
// candidates (spec.md §3.3, §4.D).
//
// Grounded on the teacher's InferenceEngine.substitutions map[string]*Type
// plus applySubstitution/composeSubstitutions in
// internal/types/inference.go, re-keyed from string names to tyvar.Var
// identities and extended with the ordering spec.md requires (the teacher
// has no such ordering; this is a from-scratch addition, justified in
// DESIGN.md as pure stdlib sort logic with no corpus library addressing it).
package subst

import (
	"sort"

	"github.com/dowsing-go/dowsing/internal/term"
	"github.com/dowsing-go/dowsing/internal/tyvar"
)

// Subst is a finite map from type variables to canonical terms.
type Subst struct {
	bindings map[tyvar.Var]*term.Ty
}

// Empty returns the identity substitution.
func Empty() *Subst {
	return &Subst{bindings: make(map[tyvar.Var]*term.Ty)}
}

// Singleton returns the substitution {v ↦ t}.
func Singleton(v tyvar.Var, t *term.Ty) *Subst {
	s := Empty()
	s.bindings[v] = t

	return s
}

// Lookup returns the term bound to v, if any.
func (s *Subst) Lookup(v tyvar.Var) (*term.Ty, bool) {
	t, ok := s.bindings[v]
	return t, ok
}

// Len returns the number of non-identity bindings.
func (s *Subst) Len() int {
	return len(s.bindings)
}

// Bindings returns the substitution's bindings sorted by variable id — the
// canonical order used by Compare's tie-break and by callers that need a
// deterministic rendering (e.g. search result printing).
func (s *Subst) Bindings() []Binding {
	out := make([]Binding, 0, len(s.bindings))
	for v, t := range s.bindings {
		out = append(out, Binding{Var: v, Ty: t})
	}

	sort.Slice(out, func(i, j int) bool {
		return tyvar.Compare(out[i].Var, out[j].Var) < 0
	})

	return out
}

// Binding is one variable↦term pair of a Subst.
type Binding struct {
	Var tyvar.Var
	Ty  *term.Ty
}

// With returns a new Subst equal to s plus the binding v↦t. It does not
// apply s to t or vice versa — callers that need a composed, fully-applied
// result should use Compose.
func (s *Subst) With(v tyvar.Var, t *term.Ty) *Subst {
	out := s.clone()
	out.bindings[v] = t

	return out
}

func (s *Subst) clone() *Subst {
	cp := make(map[tyvar.Var]*term.Ty, len(s.bindings))
	for v, t := range s.bindings {
		cp[v] = t
	}

	return &Subst{bindings: cp}
}

// Apply recursively substitutes every variable in t bound by s, rebuilding
// through env's smart constructors so the result stays canonical (spec.md
// §4.C: substitution is capture-free since variables are unique identities,
// never names).
func Apply(env *term.Env, s *Subst, t *term.Ty) *term.Ty {
	switch t.Kind() {
	case term.KindVar:
		if bound, ok := s.Lookup(t.AsVar()); ok {
			// Chase chains (v1 ↦ v2, v2 ↦ int should resolve v1 to int)
			// by re-applying s to the bound term. Termination relies on
			// the unifier never inserting a binding that would make this
			// cyclic (occurs-check at bind time keeps s acyclic).
			return Apply(env, s, bound)
		}

		return t
	case term.KindConstr:
		path, args := t.AsConstr()
		newArgs := make([]*term.Ty, len(args))

		for i, a := range args {
			newArgs[i] = Apply(env, s, a)
		}

		return env.Constr(path, newArgs...)
	case term.KindArrow:
		args, ret := t.AsArrow()
		newArgs := make([]*term.Ty, len(args))

		for i, a := range args {
			newArgs[i] = Apply(env, s, a)
		}

		return env.Arrow(newArgs, Apply(env, s, ret))
	case term.KindTuple:
		elts := t.AsTuple()
		newElts := make([]*term.Ty, len(elts))

		for i, e := range elts {
			newElts[i] = Apply(env, s, e)
		}

		return env.Tuple(newElts...)
	case term.KindOther:
		return t
	default:
		return t
	}
}

// Compose returns a substitution equivalent to applying s1 then s2: for
// every variable bound by either, Compose(s1,s2) maps it to
// Apply(env, s2, s1-or-identity). Bindings from s2 for variables not in s1
// are included as-is; s1's bindings are re-applied under s2 so chained
// substitutions stay fully resolved, matching the teacher's
// composeSubstitutions in internal/types/inference.go.
func Compose(env *term.Env, s1, s2 *Subst) *Subst {
	out := Empty()

	for v, t := range s1.bindings {
		out.bindings[v] = Apply(env, s2, t)
	}

	for v, t := range s2.bindings {
		if _, already := out.bindings[v]; !already {
			out.bindings[v] = t
		}
	}

	return out
}

// Compare implements the specificity order of spec.md §4.D: fewer
// non-identity bindings is smaller; ties broken by the sum of NodeCount over
// bound terms (simpler bound terms is smaller); remaining ties broken
// lexicographically over bindings sorted by variable id. It returns -1, 0,
// or 1 with the usual meaning ("a is more specific than / as specific as /
// less specific than b").
func Compare(a, b *Subst) int {
	if c := intCompare(a.Len(), b.Len()); c != 0 {
		return c
	}

	if c := intCompare(workDone(a), workDone(b)); c != 0 {
		return c
	}

	ba, bb := a.Bindings(), b.Bindings()
	n := len(ba)

	for i := 0; i < n; i++ {
		if c := tyvar.Compare(ba[i].Var, bb[i].Var); c != 0 {
			return c
		}

		if c := term.Compare(ba[i].Ty, bb[i].Ty); c != 0 {
			return c
		}
	}

	return 0
}

func workDone(s *Subst) int {
	total := 0
	for _, t := range s.bindings {
		total += term.NodeCount(t)
	}

	return total
}

func intCompare(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
