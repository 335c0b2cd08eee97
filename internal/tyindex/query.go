package tyindex

import (
	"iter"
	"sort"

	"github.com/dowsing-go/dowsing/internal/subst"
	"github.com/dowsing-go/dowsing/internal/term"
	"github.com/dowsing-go/dowsing/internal/trie"
	"github.com/dowsing-go/dowsing/internal/unify"
)

// Triple is one query hit: the cell's representative type, the cell itself
// (whose Values are the matching Info entries, package-filtered), and the
// smallest unifier between the query and that type (spec.md §4.G "Candidate
// pipeline").
type Triple struct {
	Type  *term.Ty
	Cell  *trie.Cell[Info]
	Subst *subst.Subst
}

// Find runs an exhaustive query: every trie leaf is visited regardless of
// feature compatibility (spec.md §4.H "find"). Use this when completeness
// matters more than speed, or when debugging a suspiciously empty filtered
// result.
func (idx *Index) Find(query *term.Ty, pkgs []string, opts unify.Options) (iter.Seq[Triple], error) {
	return idx.search(query, pkgs, true, opts)
}

// FindWith runs a feature-filtered query: at each trie level only edges
// compatible with query's feature value are descended (spec.md §4.H
// "find_with"). Sound but not necessarily complete — see
// internal/feature's doc comment for why that tradeoff is acceptable.
func (idx *Index) FindWith(query *term.Ty, pkgs []string, opts unify.Options) (iter.Seq[Triple], error) {
	return idx.search(query, pkgs, false, opts)
}

func (idx *Index) search(query *term.Ty, pkgs []string, exhaustive bool, opts unify.Options) (iter.Seq[Triple], error) {
	if err := idx.checkPackages(pkgs); err != nil {
		return nil, err
	}

	triples := collectTriples(idx, query, pkgs, exhaustive, opts)

	return func(yield func(Triple) bool) {
		for _, tr := range triples {
			if !yield(tr) {
				return
			}
		}
	}, nil
}

// collectTriples materializes the ranked result list up front: spec.md
// §4.G requires emission sorted by compare(unifier_a, unifier_b) then
// compare(cell_type_a, cell_type_b), which is a whole-result-set sort, not
// something a single forward pass over the trie can produce incrementally.
func collectTriples(idx *Index, query *term.Ty, pkgs []string, exhaustive bool, opts unify.Options) []Triple {
	var out []Triple

	for cell := range idx.tr.Query(query, exhaustive) {
		filtered := filterCell(cell, pkgs)
		if filtered == nil {
			continue
		}

		u, ok := unify.Unify(idx.env, query, cell.Type, opts)
		if !ok {
			continue
		}

		out = append(out, Triple{Type: cell.Type, Cell: filtered, Subst: u})
	}

	sort.Slice(out, func(i, j int) bool {
		if c := subst.Compare(out[i].Subst, out[j].Subst); c != 0 {
			return c < 0
		}

		return term.Compare(out[i].Type, out[j].Type) < 0
	})

	return out
}

// filterCell returns a cell restricted to entries whose package passes pkgs,
// applying signature-based dedup (spec.md §4.J) to the surviving entries, or
// nil if nothing survives.
func filterCell(cell *trie.Cell[Info], pkgs []string) *trie.Cell[Info] {
	kept := make([]Info, 0, len(cell.Values))

	for _, in := range cell.Values {
		if pkgAllowed(pkgs, in.Key.Package()) {
			kept = append(kept, in)
		}
	}

	kept = DedupBySignature(kept)
	if len(kept) == 0 {
		return nil
	}

	return &trie.Cell[Info]{Type: cell.Type, Values: kept}
}

// Take truncates a Triple stream to at most n elements (spec.md §6.2 "-n").
// n <= 0 yields nothing.
func Take(seq iter.Seq[Triple], n int) iter.Seq[Triple] {
	return func(yield func(Triple) bool) {
		if n <= 0 {
			return
		}

		i := 0

		for tr := range seq {
			if i >= n {
				return
			}

			if !yield(tr) {
				return
			}

			i++
		}
	}
}
