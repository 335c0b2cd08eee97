// Package harvest implements the concrete library harvester SPEC_FULL.md §B
// names as a home for golang.org/x/tools' go/packages and go/types: it loads
// real Go packages and converts each exported function/method signature
// into the (ident.Path, term.Ty) pairs spec.md §6.3 describes as the
// harvester's external contract.
//
// Grounded on the teacher's internal/testrunner/mockgen/generator.go (same
// packages.Load + go/types traversal idiom, trimmed here from "find one
// named interface" to "walk every exported func/method in a package").
// Multiple -pkg patterns are loaded concurrently with golang.org/x/sync's
// errgroup, grounded on cmd/orizon/main.go's errgroup.WithContext use for
// concurrent subcommand work; the conversion pass itself stays
// single-threaded per spec.md §5 ("build is single-threaded"), since it
// mutates one shared term.Env, which is not safe for concurrent mutation.
package harvest

import (
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/packages"

	"github.com/dowsing-go/dowsing/internal/diag"
	"github.com/dowsing-go/dowsing/internal/ident"
	"github.com/dowsing-go/dowsing/internal/term"
	"github.com/dowsing-go/dowsing/internal/tyindex"
)

//go:generate go run ../devtools/mockgen -interface Source -source . -out harvestmock/harvestmock.go -package harvestmock

// Source abstracts golang.org/x/tools/go/packages.Load for a single package
// pattern, so internal/harvest's conversion logic can be tested against a
// generated mock (internal/harvest/harvestmock) instead of real package
// loading (SPEC_FULL.md §A.5).
type Source interface {
	Load(pattern string) ([]*packages.Package, error)
}

// loadMode is the packages.Load mode the harvester needs: enough to walk
// exported declarations' go/types.Type values without requiring a full
// syntax tree.
const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles |
	packages.NeedTypes | packages.NeedTypesInfo | packages.NeedDeps

// DefaultSource is the real Source, backed by go/packages.
type DefaultSource struct {
	// BuildTags are passed through to go/packages as a -tags build flag.
	BuildTags []string
}

// Load implements Source.
func (s *DefaultSource) Load(pattern string) ([]*packages.Package, error) {
	cfg := &packages.Config{Mode: loadMode}

	if len(s.BuildTags) > 0 {
		cfg.BuildFlags = append(cfg.BuildFlags, fmt.Sprintf("-tags=%s", strings.Join(s.BuildTags, ",")))
	}

	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return nil, err
	}

	if packages.PrintErrors(pkgs) > 0 {
		return nil, fmt.Errorf("harvest: errors loading pattern %q", pattern)
	}

	return pkgs, nil
}

// Harvest loads every pattern in patterns (concurrently, one goroutine per
// pattern) and converts each package's exported functions and methods into
// Info entries within env, recording any unsupported shape or invalid path
// to eng rather than failing the build (spec.md §7: harvest findings are
// diagnostics, not boundary errors). Entries are deduplicated by their final
// Path, first pattern wins, so a symbol reachable through two overlapping
// patterns is only harvested once.
func Harvest(env *term.Env, src Source, patterns []string, eng *diag.Engine) ([]tyindex.Info, error) {
	loaded := make([][]*packages.Package, len(patterns))

	g := new(errgroup.Group)

	for i, pattern := range patterns {
		g.Go(func() error {
			pkgs, err := src.Load(pattern)
			if err != nil {
				return fmt.Errorf("harvest: loading %q: %w", pattern, err)
			}

			loaded[i] = pkgs

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	conv := &converter{env: env, diag: eng}
	// seen buckets by ident.Hash rather than the full dotted string, with an
	// ident.Equal check to resolve the rare hash collision, matching the
	// hash-then-equal dedup idiom ident.Hash's doc comment describes.
	seen := make(map[uint64][]ident.Path)

	var entries []tyindex.Info

	for _, pkgs := range loaded {
		for _, pkg := range pkgs {
			for _, in := range conv.harvestPackage(pkg) {
				h := ident.Hash(in.Key)

				duplicate := false

				for _, p := range seen[h] {
					if ident.Equal(p, in.Key) {
						duplicate = true
						break
					}
				}

				if duplicate {
					continue
				}

				seen[h] = append(seen[h], in.Key)
				entries = append(entries, in)
			}
		}
	}

	return entries, nil
}
