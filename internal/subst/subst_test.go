package subst

import (
	"testing"

	"github.com/dowsing-go/dowsing/internal/ident"
	"github.com/dowsing-go/dowsing/internal/term"
)

func intTy(env *term.Env) *term.Ty {
	return env.Constr(ident.New("builtin", "int"))
}

func TestApplySubstitutesVariable(t *testing.T) {
	env := term.NewEnv()
	v := env.Vars().Fresh()
	vt := env.Var(v)
	i := intTy(env)

	s := Singleton(v, i)

	got := Apply(env, s, vt)
	if got != i {
		t.Fatalf("Apply substituted var = %v, want int", got)
	}
}

func TestApplyRecursesThroughArrow(t *testing.T) {
	env := term.NewEnv()
	v := env.Vars().Fresh()
	vt := env.Var(v)
	i := intTy(env)

	arr := env.Arrow1(vt, vt)
	s := Singleton(v, i)

	got := Apply(env, s, arr)
	want := env.Arrow1(i, i)

	if got != want {
		t.Fatalf("Apply(arr) = %v, want %v", got, want)
	}
}

func TestApplyLeavesUnboundVarsAlone(t *testing.T) {
	env := term.NewEnv()
	v1 := env.Vars().Fresh()
	v2 := env.Vars().Fresh()
	s := Singleton(v1, intTy(env))

	got := Apply(env, s, env.Var(v2))
	if got != env.Var(v2) {
		t.Fatalf("unbound var must be unaffected")
	}
}

func TestComposeChainsSubstitutions(t *testing.T) {
	env := term.NewEnv()
	v1 := env.Vars().Fresh()
	v2 := env.Vars().Fresh()
	i := intTy(env)

	// s1: v1 -> v2 ; s2: v2 -> int. Compose should give v1 -> int.
	s1 := Singleton(v1, env.Var(v2))
	s2 := Singleton(v2, i)

	composed := Compose(env, s1, s2)

	got, ok := composed.Lookup(v1)
	if !ok || got != i {
		t.Fatalf("composed[v1] = %v (ok=%v), want int", got, ok)
	}

	got2, ok := composed.Lookup(v2)
	if !ok || got2 != i {
		t.Fatalf("composed[v2] = %v (ok=%v), want int", got2, ok)
	}
}

func TestCompareFewerBindingsIsSmaller(t *testing.T) {
	env := term.NewEnv()
	v1 := env.Vars().Fresh()
	v2 := env.Vars().Fresh()
	i := intTy(env)

	small := Singleton(v1, i)
	big := Singleton(v1, i).With(v2, i)

	if Compare(small, big) >= 0 {
		t.Fatalf("expected fewer bindings to compare smaller")
	}
}

func TestCompareSimplerBoundTermIsSmaller(t *testing.T) {
	env := term.NewEnv()
	v := env.Vars().Fresh()
	i := intTy(env)
	arrow := env.Arrow1(i, i)

	simple := Singleton(v, i)
	complex := Singleton(v, arrow)

	if Compare(simple, complex) >= 0 {
		t.Fatalf("expected simpler bound term (fewer nodes) to compare smaller")
	}
}

func TestCompareIsReflexiveZero(t *testing.T) {
	env := term.NewEnv()
	v := env.Vars().Fresh()
	s := Singleton(v, intTy(env))

	if Compare(s, s) != 0 {
		t.Fatalf("expected Compare(s,s) == 0")
	}
}

func TestEmptySubstIsSmallestUnderCompare(t *testing.T) {
	env := term.NewEnv()
	v := env.Vars().Fresh()
	e := Empty()
	nonEmpty := Singleton(v, intTy(env))

	if Compare(e, nonEmpty) >= 0 {
		t.Fatalf("expected empty subst to be smaller than a non-empty one")
	}
}
