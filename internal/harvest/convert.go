package harvest

import (
	"encoding/binary"
	"go/types"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/tools/go/packages"

	"github.com/dowsing-go/dowsing/internal/diag"
	"github.com/dowsing-go/dowsing/internal/ident"
	"github.com/dowsing-go/dowsing/internal/term"
	"github.com/dowsing-go/dowsing/internal/tyindex"
)

// builtinPkg is the synthetic package path basic types, pointers, slices,
// maps, channels and arrays are constructed under, mirroring the way
// term.UnitPath already uses a "builtin" package for unit.
const builtinPkg = "builtin"

// converter turns go/types.Type values into canonical term.Ty values within
// one shared term.Env (spec.md §6.3: "The core converts each
// external_type_ast through the smart constructors; unsupported shapes
// become Other").
type converter struct {
	env  *term.Env
	diag *diag.Engine
}

// harvestPackage walks pkg's package-level scope for exported functions and
// exported methods on exported named types, converting each signature.
func (c *converter) harvestPackage(pkg *packages.Package) []tyindex.Info {
	if pkg.Types == nil || pkg.Types.Scope() == nil {
		return nil
	}

	scope := pkg.Types.Scope()

	var out []tyindex.Info

	for _, name := range scope.Names() {
		obj := scope.Lookup(name)
		if !obj.Exported() {
			continue
		}

		switch o := obj.(type) {
		case *types.Func:
			if in, ok := c.harvestOne(ident.New(pkg.PkgPath, o.Name()), o.Type()); ok {
				out = append(out, in)
			}
		case *types.TypeName:
			named, ok := o.Type().(*types.Named)
			if !ok {
				continue
			}

			for i := 0; i < named.NumMethods(); i++ {
				m := named.Method(i)
				if !m.Exported() {
					continue
				}

				if in, ok := c.harvestOne(ident.New(pkg.PkgPath, o.Name(), m.Name()), m.Type()); ok {
					out = append(out, in)
				}
			}
		}
	}

	return out
}

func (c *converter) harvestOne(path ident.Path, t types.Type) (tyindex.Info, bool) {
	if err := path.Validate(); err != nil {
		c.diag.Add(diag.New(path).Warning().Code(diag.CodeInvalidPath).
			Message("invalid package path: %v", err).Build())

		return tyindex.Info{}, false
	}

	return tyindex.Info{Key: path, Ty: c.convert(path, t)}, true
}

func (c *converter) convert(path ident.Path, t types.Type) *term.Ty {
	switch tt := t.(type) {
	case *types.Basic:
		return c.env.Constr(ident.New(builtinPkg, tt.Name()))
	case *types.Alias:
		return c.convert(path, types.Unalias(tt))
	case *types.Named:
		return c.convertNamed(path, tt)
	case *types.Pointer:
		return c.env.Constr(ident.New(builtinPkg, "ptr"), c.convert(path, tt.Elem()))
	case *types.Slice:
		return c.env.Constr(ident.New(builtinPkg, "slice"), c.convert(path, tt.Elem()))
	case *types.Array:
		return c.env.Constr(ident.New(builtinPkg, "array"), c.convert(path, tt.Elem()))
	case *types.Map:
		return c.env.Constr(ident.New(builtinPkg, "map"), c.convert(path, tt.Key()), c.convert(path, tt.Elem()))
	case *types.Chan:
		return c.env.Constr(ident.New(builtinPkg, "chan"), c.convert(path, tt.Elem()))
	case *types.Signature:
		return c.convertSignature(path, tt)
	case *types.Tuple:
		return c.convertTuple(path, tt)
	default:
		// Interfaces, structs, type parameters and anything else the
		// algebra has no constructor-shaped home for (spec.md §1
		// Non-goals: "object/row/module/GADT types (imported as opaque
		// 'other' tokens)").
		return c.other(path, t)
	}
}

// convertNamed resolves a *types.Named into a constructor term, or unfolds
// it when it is a true alias (spec.md §1 Non-goals: "aliases are
// transparently unfolded at import time; no re-entry").
func (c *converter) convertNamed(path ident.Path, tt *types.Named) *term.Ty {
	obj := tt.Obj()
	if obj.IsAlias() {
		return c.convert(path, tt.Underlying())
	}

	pkgPath := builtinPkg
	if obj.Pkg() != nil {
		pkgPath = obj.Pkg().Path()
	}

	var args []*term.Ty

	if targs := tt.TypeArgs(); targs != nil {
		for i := 0; i < targs.Len(); i++ {
			args = append(args, c.convert(path, targs.At(i)))
		}
	}

	return c.env.Constr(ident.New(pkgPath, obj.Name()), args...)
}

// convertSignature builds an Arrow from a method/function signature. A
// method receiver, if present, is prepended as the first argument — this
// repo's searches treat "does this receiver type plus these params unify
// with the query" the same way a curried free function would (spec.md
// §3.1.1's multiset semantics mean argument order, including where the
// receiver lands in it, never matters for search purposes).
func (c *converter) convertSignature(path ident.Path, sig *types.Signature) *term.Ty {
	var args []*term.Ty

	if recv := sig.Recv(); recv != nil {
		args = append(args, c.convert(path, recv.Type()))
	}

	params := sig.Params()
	for i := 0; i < params.Len(); i++ {
		args = append(args, c.convert(path, params.At(i).Type()))
	}

	ret := c.convertTuple(path, sig.Results())

	if len(args) == 0 {
		return ret
	}

	return c.env.Arrow(args, ret)
}

// convertTuple converts a go/types.Tuple (a signature's results, or a bare
// tuple) into the canonical Tuple encoding: zero elements collapses to unit,
// one element collapses to that element (term.Env.Tuple already enforces
// both), more than one becomes a genuine multiset.
func (c *converter) convertTuple(path ident.Path, tup *types.Tuple) *term.Ty {
	if tup == nil || tup.Len() == 0 {
		return c.env.Tuple()
	}

	elts := make([]*term.Ty, tup.Len())
	for i := range elts {
		elts[i] = c.convert(path, tup.At(i).Type())
	}

	return c.env.Tuple(elts...)
}

// other folds an unsupported type shape into Other(hash), recording a
// harvest diagnostic (spec.md §3.1 Other; SPEC_FULL.md §A.2). The hash is a
// blake2b-256 digest of the type's canonical string form, truncated to 64
// bits — this is the first concrete use of golang.org/x/crypto/blake2b in
// this repo's dependency graph (the teacher lists it only indirectly).
func (c *converter) other(path ident.Path, t types.Type) *term.Ty {
	sum := blake2b.Sum256([]byte(t.String()))
	hash := binary.LittleEndian.Uint64(sum[:8])

	c.diag.Add(diag.New(path).Warning().Code(diag.CodeUnsupportedShape).
		Message("type shape %T (%s) not supported, imported as Other", t, t.String()).Build())

	return c.env.Other(hash)
}
