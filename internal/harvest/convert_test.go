package harvest

import (
	"go/token"
	"go/types"
	"testing"

	"github.com/dowsing-go/dowsing/internal/diag"
	"github.com/dowsing-go/dowsing/internal/ident"
	"github.com/dowsing-go/dowsing/internal/term"
)

func newConverter() (*converter, *term.Env, *diag.Engine) {
	env := term.NewEnv()
	eng := diag.NewEngine()

	return &converter{env: env, diag: eng}, env, eng
}

func TestConvertBasicType(t *testing.T) {
	c, env, _ := newConverter()
	path := ident.New("example.com/pkg", "F")

	got := c.convert(path, types.Typ[types.Int])

	want := env.Constr(ident.New(builtinPkg, "int"))
	if !term.Equal(got, want) {
		t.Fatalf("convert(int) = %v, want %v", got.String(env), want.String(env))
	}
}

func TestConvertPointerSliceMap(t *testing.T) {
	c, env, _ := newConverter()
	path := ident.New("example.com/pkg", "F")

	ptr := types.NewPointer(types.Typ[types.String])
	got := c.convert(path, ptr)
	want := env.Constr(ident.New(builtinPkg, "ptr"), env.Constr(ident.New(builtinPkg, "string")))

	if !term.Equal(got, want) {
		t.Fatalf("convert(*string) = %v, want %v", got.String(env), want.String(env))
	}

	sl := types.NewSlice(types.Typ[types.Int])

	gotSlice := c.convert(path, sl)
	wantSlice := env.Constr(ident.New(builtinPkg, "slice"), env.Constr(ident.New(builtinPkg, "int")))

	if !term.Equal(gotSlice, wantSlice) {
		t.Fatalf("convert([]int) = %v, want %v", gotSlice.String(env), wantSlice.String(env))
	}

	mp := types.NewMap(types.Typ[types.String], types.Typ[types.Int])

	gotMap := c.convert(path, mp)
	wantMap := env.Constr(ident.New(builtinPkg, "map"),
		env.Constr(ident.New(builtinPkg, "string")), env.Constr(ident.New(builtinPkg, "int")))

	if !term.Equal(gotMap, wantMap) {
		t.Fatalf("convert(map[string]int) = %v, want %v", gotMap.String(env), wantMap.String(env))
	}
}

func TestConvertSignatureBuildsArrow(t *testing.T) {
	c, env, _ := newConverter()
	path := ident.New("example.com/pkg", "Add")

	params := types.NewTuple(
		types.NewVar(token.NoPos, nil, "a", types.Typ[types.Int]),
		types.NewVar(token.NoPos, nil, "b", types.Typ[types.Int]),
	)
	results := types.NewTuple(types.NewVar(token.NoPos, nil, "", types.Typ[types.Int]))
	sig := types.NewSignatureType(nil, nil, nil, params, results, false)

	got := c.convert(path, sig)

	intTy := env.Constr(ident.New(builtinPkg, "int"))
	want := env.Arrow([]*term.Ty{intTy, intTy}, intTy)

	if !term.Equal(got, want) {
		t.Fatalf("convert(func(int, int) int) = %v, want %v", got.String(env), want.String(env))
	}
}

func TestConvertSignatureNoResultsIsUnit(t *testing.T) {
	c, env, _ := newConverter()
	path := ident.New("example.com/pkg", "Log")

	params := types.NewTuple(types.NewVar(token.NoPos, nil, "s", types.Typ[types.String]))
	sig := types.NewSignatureType(nil, nil, nil, params, nil, false)

	got := c.convert(path, sig)

	want := env.Arrow([]*term.Ty{env.Constr(ident.New(builtinPkg, "string"))}, env.Tuple())

	if !term.Equal(got, want) {
		t.Fatalf("convert(func(string)) = %v, want %v", got.String(env), want.String(env))
	}
}

func TestConvertMultiResultIsTuple(t *testing.T) {
	c, env, _ := newConverter()
	path := ident.New("example.com/pkg", "Divmod")

	params := types.NewTuple(
		types.NewVar(token.NoPos, nil, "a", types.Typ[types.Int]),
		types.NewVar(token.NoPos, nil, "b", types.Typ[types.Int]),
	)
	results := types.NewTuple(
		types.NewVar(token.NoPos, nil, "q", types.Typ[types.Int]),
		types.NewVar(token.NoPos, nil, "r", types.Typ[types.Int]),
	)
	sig := types.NewSignatureType(nil, nil, nil, params, results, false)

	got := c.convert(path, sig)

	intTy := env.Constr(ident.New(builtinPkg, "int"))
	want := env.Arrow([]*term.Ty{intTy, intTy}, env.Tuple(intTy, intTy))

	if !term.Equal(got, want) {
		t.Fatalf("convert(func(int,int)(int,int)) = %v, want %v", got.String(env), want.String(env))
	}
}

func TestConvertUnsupportedShapeBecomesOtherAndRecordsDiagnostic(t *testing.T) {
	c, _, eng := newConverter()
	path := ident.New("example.com/pkg", "Weird")

	iface := types.NewInterfaceType(nil, nil)

	got := c.convert(path, iface)
	if got.Kind() != term.KindOther {
		t.Fatalf("convert(interface{}) kind = %v, want KindOther", got.Kind())
	}

	again := c.convert(path, types.NewInterfaceType(nil, nil))
	if again.AsOther() != got.AsOther() {
		t.Fatalf("two structurally-identical Other sources hashed differently")
	}

	if !eng.HasWarnings() {
		t.Fatalf("expected an unsupported-shape diagnostic to be recorded")
	}
}

func TestConvertAliasUnfoldsTransparently(t *testing.T) {
	c, env, _ := newConverter()
	path := ident.New("example.com/pkg", "F")

	pkg := types.NewPackage("example.com/pkg", "pkg")
	obj := types.NewTypeName(token.NoPos, pkg, "MyInt", nil)
	named := types.NewNamed(obj, types.Typ[types.Int], nil)

	got := c.convert(path, named)
	if got.Kind() != term.KindConstr {
		t.Fatalf("convert(named non-alias) kind = %v, want KindConstr", got.Kind())
	}

	p, _ := got.AsConstr()
	if p.Package() != "example.com/pkg" || p.Symbol() != "MyInt" {
		t.Fatalf("convert(named) path = %v, want example.com/pkg.MyInt", p.String())
	}

	alias := types.NewAlias(types.NewTypeName(token.NoPos, pkg, "IntAlias", nil), types.Typ[types.Int])

	gotAlias := c.convert(path, alias)
	if want := env.Constr(ident.New(builtinPkg, "int")); !term.Equal(gotAlias, want) {
		t.Fatalf("convert(alias of int) = %v, want %v", gotAlias.String(env), want.String(env))
	}
}
