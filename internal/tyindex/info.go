// Package tyindex implements the index facade (spec.md §4.H): building a
// trie.Trie from a stream of Info entries, querying it, ranking the results,
// and persisting the whole snapshot opaquely (§6.1).
package tyindex

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dowsing-go/dowsing/internal/ident"
	"github.com/dowsing-go/dowsing/internal/term"
)

// Info is a (qualified name, canonical type) pair (spec.md §3.4).
type Info struct {
	Key ident.Path
	Ty  *term.Ty
}

// Signature renders t with every variable replaced by a position-based
// canonical name ('a, 'b, ... in left-to-right occurrence order), making the
// result independent of the concrete tyvar.Var ids, as long as the
// variables occur in the same relative order. Two entries harvested
// independently (each minting its own fresh variables) land on the same
// Signature when their terms differ only by such a renaming, even though
// they are different canonical *term.Ty values and so different trie cells
// — this is the representative key spec.md §4.J (as pinned down by
// SPEC_FULL.md §B.1) dedups re-exports by. Arrow argsets and tuple
// components are rendered in their canonical order, which sorts variables
// by id, so alpha-equivalent types whose variables sort differently (e.g.
// {x, y} -> x versus {x, y} -> y with the ids swapped) can render to
// different Signatures.
func Signature(t *term.Ty) string {
	names := make(map[int]string)

	var b strings.Builder
	writeSignature(&b, t, names)

	return b.String()
}

func writeSignature(b *strings.Builder, t *term.Ty, names map[int]string) {
	switch t.Kind() {
	case term.KindVar:
		v := t.AsVar()

		name, ok := names[v.ID()]
		if !ok {
			name = positionalName(len(names))
			names[v.ID()] = name
		}

		b.WriteString(name)
	case term.KindConstr:
		path, args := t.AsConstr()

		if len(args) > 0 {
			b.WriteByte('(')

			for i, a := range args {
				if i > 0 {
					b.WriteString(", ")
				}

				writeSignature(b, a, names)
			}

			b.WriteString(") ")
		}

		b.WriteString(path.String())
	case term.KindArrow:
		args, ret := t.AsArrow()

		b.WriteByte('(')

		for i, a := range args {
			if i > 0 {
				b.WriteString(" * ")
			}

			writeSignature(b, a, names)
		}

		b.WriteString(") -> ")
		writeSignature(b, ret, names)
	case term.KindTuple:
		elts := t.AsTuple()

		if len(elts) == 0 {
			b.WriteString("unit")
			return
		}

		b.WriteByte('(')

		for i, e := range elts {
			if i > 0 {
				b.WriteString(" * ")
			}

			writeSignature(b, e, names)
		}

		b.WriteByte(')')
	case term.KindOther:
		fmt.Fprintf(b, "<other:%016x>", t.AsOther())
	}
}

func positionalName(i int) string {
	letter := rune('a' + i%26)
	gen := i / 26

	if gen == 0 {
		return "'" + string(letter)
	}

	return fmt.Sprintf("'%c%d", letter, gen)
}

// DedupBySignature groups infos by Signature (alpha-equivalence of their
// type, independent of Key), collapsing each group to one representative
// slice per spec.md §4.J: within a group, internal paths (Path.IsInternal)
// are pruned whenever at least one non-internal path exists. Group order
// follows first occurrence in infos; within a group, members are sorted by
// ident.Compare for determinism.
func DedupBySignature(infos []Info) []Info {
	order := make([]string, 0, len(infos))
	groups := make(map[string][]Info)

	for _, in := range infos {
		sig := Signature(in.Ty)
		if _, ok := groups[sig]; !ok {
			order = append(order, sig)
		}

		groups[sig] = append(groups[sig], in)
	}

	out := make([]Info, 0, len(infos))

	for _, sig := range order {
		out = append(out, pruneInternal(groups[sig])...)
	}

	return out
}

func pruneInternal(group []Info) []Info {
	nonInternal := make([]Info, 0, len(group))

	for _, in := range group {
		if !in.Key.IsInternal() {
			nonInternal = append(nonInternal, in)
		}
	}

	kept := group
	if len(nonInternal) > 0 {
		kept = nonInternal
	}

	sort.Slice(kept, func(i, j int) bool {
		return ident.Compare(kept[i].Key, kept[j].Key) < 0
	})

	return kept
}
