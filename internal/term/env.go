package term

import (
	"sort"
	"strconv"
	"strings"

	"github.com/dowsing-go/dowsing/internal/ident"
	"github.com/dowsing-go/dowsing/internal/tyvar"
)

// Env groups a variable generator, its name map, and the hash-cons table
// (spec.md §3.2). All type construction is parameterised by an Env; terms
// from different Envs must never be compared — spec.md §7 treats that as a
// programmer error, not a result-channel failure, so this package does not
// attempt to detect it beyond what a nil/zero-value mismatch would already
// panic on.
//
// An Env is not safe for concurrent mutation (spec.md §5); once an Index has
// been Built from one, the Env and its interned terms are safe to read
// concurrently as long as no further construction occurs.
type Env struct {
	vars  *tyvar.Registry
	arena []*Ty
	table map[string]*Ty
}

// NewEnv creates an empty environment.
func NewEnv() *Env {
	return &Env{
		vars:  tyvar.NewRegistry(),
		table: make(map[string]*Ty),
	}
}

// Vars returns the environment's variable registry, for callers that need to
// mint fresh variables (e.g. internal/typeparse minting a query's 'a, 'b,
// ...) or look up their display names.
func (env *Env) Vars() *tyvar.Registry { return env.vars }

// Size returns the number of distinct canonical terms interned so far.
func (env *Env) Size() int { return len(env.arena) }

// ByTag returns the canonical term with the given hash-cons tag, as assigned
// during a prior Intern call in this Env (used by the persistence codec to
// rebuild sharing after a Load).
func (env *Env) ByTag(tag int) (*Ty, bool) {
	if tag < 0 || tag >= len(env.arena) {
		return nil, false
	}

	return env.arena[tag], true
}

// intern deduplicates n against the hash-cons table, assigning it a fresh
// monotone tag on first sight (spec.md §3.1.3). n's children must already be
// canonical (interned) terms from this Env.
func (env *Env) intern(n *Ty) *Ty {
	key := env.key(n)
	if existing, ok := env.table[key]; ok {
		return existing
	}

	n.tag = len(env.arena)
	env.arena = append(env.arena, n)
	env.table[key] = n

	return n
}

func (env *Env) key(n *Ty) string {
	var b strings.Builder

	switch n.kind {
	case KindVar:
		b.WriteString("V")
		b.WriteString(strconv.Itoa(n.v.ID()))
	case KindConstr:
		b.WriteString("C")
		b.WriteString(n.path.String())
		writeTags(&b, n.args)
	case KindArrow:
		b.WriteString("A")
		writeTags(&b, n.argset)
		b.WriteByte('>')
		b.WriteString(strconv.Itoa(n.ret.tag))
	case KindTuple:
		b.WriteString("T")
		writeTags(&b, n.elts)
	case KindOther:
		b.WriteString("O")
		b.WriteString(strconv.FormatUint(n.otherHash, 16))
	}

	return b.String()
}

func writeTags(b *strings.Builder, ts []*Ty) {
	for _, t := range ts {
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(t.tag))
	}
}

// Var constructs (or recovers) the canonical term for a type variable.
func (env *Env) Var(v tyvar.Var) *Ty {
	return env.intern(&Ty{kind: KindVar, v: v})
}

// FreshVar mints a new variable in this Env's registry and returns its term.
func (env *Env) FreshVar() *Ty {
	return env.Var(env.vars.Fresh())
}

// Other constructs the opaque token for an unsupported type shape (spec.md
// §3.1 Other(hash)); the hash is typically produced by hashing a
// source-level AST the smart constructors cannot interpret (see
// internal/harvest, which uses blake2b for this).
func (env *Env) Other(hash uint64) *Ty {
	return env.intern(&Ty{kind: KindOther, otherHash: hash})
}

// Constr applies a named constructor to an ordered argument list (spec.md
// §3.1). A nullary application of the unit path is rewritten to the empty
// tuple (spec.md §3.1.2).
func (env *Env) Constr(path ident.Path, args ...*Ty) *Ty {
	if len(args) == 0 && path.String() == UnitPath.String() {
		return env.Tuple()
	}

	cp := make([]*Ty, len(args))
	copy(cp, args)

	return env.intern(&Ty{kind: KindConstr, path: path, args: cp})
}

// UnitPath is the constructor path smart constructors treat as the unit
// type; Constr(UnitPath) and Tuple() denote the same canonical term.
var UnitPath = ident.New("builtin", "unit")

// Tuple builds the canonical tuple over the given (unordered) components
// (spec.md §3.1.1, §3.1.2): nested tuples flatten, a singleton collapses to
// its element, and components are sorted into the canonical multiset order.
func (env *Env) Tuple(elts ...*Ty) *Ty {
	flat := flattenTuple(elts)

	if len(flat) == 1 {
		return flat[0]
	}

	sortTys(flat)

	return env.intern(&Ty{kind: KindTuple, elts: flat})
}

func flattenTuple(elts []*Ty) []*Ty {
	out := make([]*Ty, 0, len(elts))

	for _, e := range elts {
		if e.kind == KindTuple {
			out = append(out, e.elts...)
		} else {
			out = append(out, e)
		}
	}

	return out
}

// Arrow builds the canonical arrow from an (unordered) argument multiset to
// a return type, applying spec.md §3.1.2's normalisation rules: a `Tuple`
// passed as one argument is unpacked into the argset (so a function taking
// one tuple-typed argument is canonically identical to the curried
// multi-argument form — the mechanism behind §8 scenario 3, where
// `'a * 'b -> 'c` turns out to already BE the arity-2 arrow `'a -> 'b -> 'c`
// once built), nested (curried) Arrow return types are absorbed into one
// flat argset, and an empty resulting argset collapses the whole arrow to
// its return type.
//
// Earlier drafts of this package kept a Tuple-shaped argument as one opaque
// argset element, reasoning that otherwise the unifier's multiset-partition
// machinery would never fire on scenario 3's own arity-1-vs-arity-2
// mismatch. That reading does not survive the invariant
// apply(σ,t1)=apply(σ,t2): once a variable is later bound to a Tuple (e.g.
// by the unifier's own multiset match grouping several elements into one),
// rebuilding the arrow through Apply must flatten it the same way the
// original construction would have, or the two sides of an equation stop
// being pointer-equal after substitution even though they denote the same
// type. Flattening here, unconditionally, is what keeps construction and
// post-substitution reconstruction consistent; the partition machinery
// remains exercised by genuine tail-length mismatches (see §8 scenario 4,
// and any arity that does not divide evenly after flattening). See
// DESIGN.md.
func (env *Env) Arrow(args []*Ty, ret *Ty) *Ty {
	flatArgs := make([]*Ty, 0, len(args))

	for _, a := range args {
		if a.kind == KindTuple {
			flatArgs = append(flatArgs, a.elts...)
		} else {
			flatArgs = append(flatArgs, a)
		}
	}

	if ret.kind == KindArrow {
		flatArgs = append(flatArgs, ret.argset...)
		ret = ret.ret
	}

	if len(flatArgs) == 0 {
		return ret
	}

	sortTys(flatArgs)

	return env.intern(&Ty{kind: KindArrow, argset: flatArgs, ret: ret})
}

// Arrow1 is a convenience for the common curried case Arrow({a}, ret).
func (env *Env) Arrow1(a, ret *Ty) *Ty {
	return env.Arrow([]*Ty{a}, ret)
}

func sortTys(ts []*Ty) {
	sort.Slice(ts, func(i, j int) bool { return Compare(ts[i], ts[j]) < 0 })
}
