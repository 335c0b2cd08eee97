package tyindex

import (
	"iter"
	"sort"

	"github.com/dowsing-go/dowsing/internal/derr"
	"github.com/dowsing-go/dowsing/internal/feature"
	"github.com/dowsing-go/dowsing/internal/ident"
	"github.com/dowsing-go/dowsing/internal/term"
	"github.com/dowsing-go/dowsing/internal/trie"
)

// Index is an immutable snapshot: a feature trie over Info entries plus the
// flat list needed for Iter and the package-filter completeness check
// (spec.md §3.4, §4.H). Safe to read from multiple goroutines once built;
// never mutated after Build returns (spec.md §5).
type Index struct {
	env      *term.Env
	tr       *trie.Trie[Info]
	entries  []Info
	packages map[string]struct{}
}

// Build consumes a finite stream of Info, canonicalizing nothing further
// (entries must already carry canonical Ty values from env) and inserting
// each into the trie keyed by feature.All.
func Build(env *term.Env, entries iter.Seq[Info]) *Index {
	idx := &Index{
		env:      env,
		tr:       trie.New[Info](feature.All),
		packages: make(map[string]struct{}),
	}

	for in := range entries {
		idx.tr.Add(in.Ty, in)
		idx.entries = append(idx.entries, in)
		idx.packages[in.Key.Package()] = struct{}{}
	}

	return idx
}

// Env returns the environment every Ty in this index belongs to. A query
// type passed to Find/FindWith must come from this same Env (spec.md §7:
// cross-environment misuse is a programmer error, not a query failure).
func (idx *Index) Env() *term.Env { return idx.env }

// Iter walks every entry in the index, in a deterministic (package then
// symbol) order.
func (idx *Index) Iter() iter.Seq[Info] {
	ordered := make([]Info, len(idx.entries))
	copy(ordered, idx.entries)

	sort.Slice(ordered, func(i, j int) bool {
		return pathLess(ordered[i], ordered[j])
	})

	return func(yield func(Info) bool) {
		for _, in := range ordered {
			if !yield(in) {
				return
			}
		}
	}
}

func pathLess(a, b Info) bool {
	return ident.Compare(a.Key, b.Key) < 0
}

// checkPackages validates a non-empty pkgs filter against every package
// segment actually present in the index, returning an "unknown package"
// error (spec.md §4.H, §7) the moment pkgs names something the index never
// harvested from — independent of whether any particular query would have
// matched.
func (idx *Index) checkPackages(pkgs []string) error {
	var unknown []string

	for _, p := range pkgs {
		if _, ok := idx.packages[p]; !ok {
			unknown = append(unknown, p)
		}
	}

	if len(unknown) == 0 {
		return nil
	}

	return derr.UnknownPackage(unknown)
}

func pkgAllowed(pkgs []string, pkg string) bool {
	if len(pkgs) == 0 {
		return true
	}

	for _, p := range pkgs {
		if p == pkg {
			return true
		}
	}

	return false
}
