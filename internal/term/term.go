// Package term implements the canonical type term representation (spec.md
// §3): a hash-consed algebraic type with smart constructors enforcing the
// arrow/tuple normal forms, plus the size metrics used by ranking and
// feature extraction.
//
// Grounded on the teacher's tagged-union Type (internal/types/types.go:
// Kind enum + payload) and FunctionType/TupleType (internal/types/compound.go),
// generalized into a hash-consed, multiset-aware sum type.
package term

import (
	"fmt"
	"strings"

	"github.com/dowsing-go/dowsing/internal/ident"
	"github.com/dowsing-go/dowsing/internal/tyvar"
)

// Kind identifies which variant of Ty a node is. The ordering of the
// constants is load-bearing: spec.md §4.C fixes the tie-break order
// "Var<Constr<Arrow<Tuple<Other" used whenever two terms of different kinds
// must be compared.
type Kind int

const (
	KindVar Kind = iota
	KindConstr
	KindArrow
	KindTuple
	KindOther
)

// String renders a Kind's name, used by diagnostics and feature formatting.
func (k Kind) String() string {
	switch k {
	case KindVar:
		return "var"
	case KindConstr:
		return "constr"
	case KindArrow:
		return "arrow"
	case KindTuple:
		return "tuple"
	case KindOther:
		return "other"
	default:
		return "invalid"
	}
}

// Ty is a canonical type term. Values are always obtained from an Env's
// smart constructors (Var, Constr, Arrow, Tuple, Other); a Ty built any other
// way violates the hash-consing invariant in spec.md §3.1.3 and must never
// be compared against terms obtained through the constructors.
//
// Two canonical Ty values from the same Env are structurally equal iff they
// are pointer-equal — this is the entire payoff of hash-consing.
type Ty struct {
	kind Kind

	// KindVar.
	v tyvar.Var

	// KindConstr.
	path ident.Path
	args []*Ty // ordered, NOT a multiset, for Constr

	// KindArrow: argset is the canonical sorted multiset of argument
	// types, ret is the (non-arrow, by construction) result type.
	argset []*Ty
	ret    *Ty

	// KindTuple: elts is the canonical sorted multiset of components.
	elts []*Ty

	// KindOther.
	otherHash uint64

	// tag is the hash-cons arena index: a monotone integer assigned at
	// intern time. It defines a stable ordering independent of structural
	// Compare (spec.md §3.1.3) and is used as an O(1) proxy for "this
	// exact subterm" when building parent hash-cons keys.
	tag int
}

// Kind returns the term's variant.
func (t *Ty) Kind() Kind { return t.kind }

// Tag returns the hash-cons arena index assigned when this term was
// interned. Stable for the lifetime of the owning Env.
func (t *Ty) Tag() int { return t.tag }

// AsVar returns the variable identity for a KindVar term. Panics on any
// other kind — callers must switch on Kind() first.
func (t *Ty) AsVar() tyvar.Var {
	t.mustBe(KindVar)
	return t.v
}

// AsConstr returns the constructor path and ordered arguments for a
// KindConstr term.
func (t *Ty) AsConstr() (ident.Path, []*Ty) {
	t.mustBe(KindConstr)
	return t.path, t.args
}

// AsArrow returns the argument multiset (already in canonical sorted order)
// and return type for a KindArrow term.
func (t *Ty) AsArrow() ([]*Ty, *Ty) {
	t.mustBe(KindArrow)
	return t.argset, t.ret
}

// AsTuple returns the component multiset (already in canonical sorted
// order) for a KindTuple term.
func (t *Ty) AsTuple() []*Ty {
	t.mustBe(KindTuple)
	return t.elts
}

// AsOther returns the opaque hash for a KindOther term.
func (t *Ty) AsOther() uint64 {
	t.mustBe(KindOther)
	return t.otherHash
}

func (t *Ty) mustBe(k Kind) {
	if t.kind != k {
		panic(fmt.Sprintf("term: Ty is %s, not %s", t.kind, k))
	}
}

// String renders a term using the env's variable registry for display names
// of any KindVar subterms.
func (t *Ty) String(env *Env) string {
	var b strings.Builder
	writeTy(&b, env, t, false)

	return b.String()
}

func writeTy(b *strings.Builder, env *Env, t *Ty, parens bool) {
	switch t.kind {
	case KindVar:
		b.WriteString(env.vars.Name(t.v))
	case KindConstr:
		if len(t.args) > 0 {
			b.WriteByte('(')

			for i, a := range t.args {
				if i > 0 {
					b.WriteString(", ")
				}

				writeTy(b, env, a, false)
			}

			b.WriteByte(')')
			b.WriteByte(' ')
		}

		b.WriteString(t.path.String())
	case KindArrow:
		open, close := "", ""
		if parens {
			open, close = "(", ")"
		}

		b.WriteString(open)

		for i, a := range t.argset {
			if i > 0 {
				b.WriteString(" * ")
			}

			writeTy(b, env, a, true)
		}

		b.WriteString(" -> ")
		writeTy(b, env, t.ret, false)
		b.WriteString(close)
	case KindTuple:
		if len(t.elts) == 0 {
			b.WriteString("unit")
			return
		}

		open, close := "", ""
		if parens {
			open, close = "(", ")"
		}

		b.WriteString(open)

		for i, e := range t.elts {
			if i > 0 {
				b.WriteString(" * ")
			}

			writeTy(b, env, e, true)
		}

		b.WriteString(close)
	case KindOther:
		fmt.Fprintf(b, "<other:%016x>", t.otherHash)
	}
}

// Compare defines the total structural order on terms from the same Env,
// used to build the canonical sorted form of arrow-argument and tuple
// multisets (spec.md §3.1.1) and to rank results (spec.md §4.I). It assumes
// children are already canonical (pre-sorted) — which always holds for
// terms reachable through the smart constructors.
func Compare(a, b *Ty) int {
	if a == b {
		return 0
	}

	if a.kind != b.kind {
		if a.kind < b.kind {
			return -1
		}

		return 1
	}

	switch a.kind {
	case KindVar:
		return tyvar.Compare(a.v, b.v)
	case KindConstr:
		if c := ident.Compare(a.path, b.path); c != 0 {
			return c
		}

		return compareSlice(a.args, b.args)
	case KindArrow:
		if c := compareSlice(a.argset, b.argset); c != 0 {
			return c
		}

		return Compare(a.ret, b.ret)
	case KindTuple:
		return compareSlice(a.elts, b.elts)
	case KindOther:
		switch {
		case a.otherHash < b.otherHash:
			return -1
		case a.otherHash > b.otherHash:
			return 1
		default:
			return 0
		}
	default:
		panic("term: invalid kind in Compare")
	}
}

func compareSlice(a, b []*Ty) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	for i := 0; i < n; i++ {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}

	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

// Equal reports whether two terms from the same Env are the identical
// canonical term (pointer equality, per spec.md §3.1.3).
func Equal(a, b *Ty) bool {
	return a == b
}
