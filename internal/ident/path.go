// Package ident implements qualified names: dotted identifiers that tie a
// harvested signature back to the package and symbol it came from.
package ident

import (
	"strings"

	"golang.org/x/mod/module"
)

// Path is a qualified name of the form "<package>.<symbol>", where <package>
// is a Go import path (possibly containing slashes) and <symbol> is a
// dot-separated chain of names within it (e.g. a method on a type:
// "encoding/json.Decoder.Decode"). Two Paths are equal iff their string forms
// are equal.
type Path struct {
	pkg     string
	symbols []string
}

// New builds a Path from a package import path and one or more symbol name
// components. It panics if pkg or any symbol is empty; callers that harvest
// from untrusted input should validate with Validate first.
func New(pkg string, symbols ...string) Path {
	if pkg == "" {
		panic("ident: empty package path")
	}

	if len(symbols) == 0 {
		panic("ident: at least one symbol component is required")
	}

	cp := make([]string, len(symbols))
	copy(cp, symbols)

	return Path{pkg: pkg, symbols: cp}
}

// Parse splits a dotted string of the form "pkg/path.Symbol.Method" into a
// Path, treating the last run of non-slash dotted components as symbols and
// everything before the first dot after the final slash as the package path.
func Parse(s string) (Path, bool) {
	slash := strings.LastIndexByte(s, '/')
	rest := s
	prefix := ""

	if slash >= 0 {
		prefix = s[:slash+1]
		rest = s[slash+1:]
	}

	parts := strings.Split(rest, ".")
	if len(parts) < 2 {
		return Path{}, false
	}

	pkg := prefix + parts[0]
	symbols := parts[1:]

	if pkg == "" || len(symbols) == 0 {
		return Path{}, false
	}

	for _, sym := range symbols {
		if sym == "" {
			return Path{}, false
		}
	}

	return Path{pkg: pkg, symbols: symbols}, true
}

// Validate reports whether the package component looks like a well-formed Go
// import path. Harvested entries whose package fails this check should be
// rejected before they ever reach term construction.
func (p Path) Validate() error {
	return module.CheckImportPath(p.pkg)
}

// Package returns the package import path component.
func (p Path) Package() string {
	return p.pkg
}

// Symbols returns the dotted symbol components, innermost last.
func (p Path) Symbols() []string {
	out := make([]string, len(p.symbols))
	copy(out, p.symbols)

	return out
}

// Symbol returns the final (most specific) symbol component, e.g. "Decode"
// for "encoding/json.Decoder.Decode".
func (p Path) Symbol() string {
	if len(p.symbols) == 0 {
		return ""
	}

	return p.symbols[len(p.symbols)-1]
}

// IsInternal reports whether any symbol component contains a "__" marker,
// the convention this repo uses (matching spec.md §4.J) to flag
// implementation-detail re-exports that should be pruned from a Cell's
// displayed paths whenever a non-internal alternative exists.
func (p Path) IsInternal() bool {
	for _, s := range p.symbols {
		if strings.Contains(s, "__") {
			return true
		}
	}

	return false
}

// String renders the canonical "pkg.Symbol.Sub" form.
func (p Path) String() string {
	var b strings.Builder

	b.WriteString(p.pkg)

	for _, s := range p.symbols {
		b.WriteByte('.')
		b.WriteString(s)
	}

	return b.String()
}

// Compare defines the total order on Paths used wherever a deterministic
// sort is required (cell member ordering, trie child ordering over
// non-feature keys, etc). It orders by package first, then by symbol
// components lexicographically.
func Compare(a, b Path) int {
	if c := strings.Compare(a.pkg, b.pkg); c != 0 {
		return c
	}

	na, nb := len(a.symbols), len(b.symbols)
	for i := 0; i < na && i < nb; i++ {
		if c := strings.Compare(a.symbols[i], b.symbols[i]); c != 0 {
			return c
		}
	}

	switch {
	case na < nb:
		return -1
	case na > nb:
		return 1
	default:
		return 0
	}
}

// Equal reports whether two Paths are identical.
func Equal(a, b Path) bool {
	return Compare(a, b) == 0
}

// Hash returns an FNV-1a-style, collision-resistant-enough hash for use
// as a map key alongside Path equality checks (e.g. dedup sets).
func Hash(p Path) uint64 {
	h := fnvOffset
	for _, r := range p.pkg {
		h = (h ^ uint64(r)) * fnvPrime
	}

	h = (h ^ '.') * fnvPrime

	for _, s := range p.symbols {
		for _, r := range s {
			h = (h ^ uint64(r)) * fnvPrime
		}

		h = (h ^ '.') * fnvPrime
	}

	return h
}

const (
	fnvOffset = 14695981039346656037
	fnvPrime  = 1099511628211
)
