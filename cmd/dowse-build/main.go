// Command dowse-build drives the harvest -> build -> save pipeline
// (SPEC_FULL.md §A.3): it loads one or more Go package patterns, converts
// every exported function/method signature into the type algebra, builds a
// tyindex.Index, and writes it to disk.
//
// Grounded on cmd/orizon-compiler/main.go and cmd/orizon/main.go: stdlib
// flag, no third-party CLI framework anywhere in the corpus.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/dowsing-go/dowsing/internal/clix"
	"github.com/dowsing-go/dowsing/internal/diag"
	"github.com/dowsing-go/dowsing/internal/harvest"
	"github.com/dowsing-go/dowsing/internal/term"
	"github.com/dowsing-go/dowsing/internal/tyindex"
)

// pkgFlag collects repeated "-pkg" occurrences into a slice, the stdlib
// flag idiom for a repeatable flag (flag.Value).
type pkgFlag []string

func (p *pkgFlag) String() string { return strings.Join(*p, ",") }

func (p *pkgFlag) Set(v string) error {
	*p = append(*p, v)
	return nil
}

func main() {
	var (
		out         string
		pkgs        pkgFlag
		watch       bool
		tags        string
		showVersion bool
	)

	flag.StringVar(&out, "o", "", "index output file (required)")
	flag.Var(&pkgs, "pkg", "Go import path to harvest (repeatable)")
	flag.BoolVar(&watch, "watch", false, "rebuild whenever a harvested package's files change")
	flag.StringVar(&tags, "tags", "", "build tags (comma-separated)")
	flag.BoolVar(&showVersion, "version", false, "show version information")
	flag.Parse()

	if showVersion {
		clix.PrintVersion("dowse-build")
		return
	}

	if out == "" || len(pkgs) == 0 {
		fmt.Fprintln(os.Stderr, "usage: dowse-build -o <index-file> -pkg <import-path> [-pkg <import-path> ...] [-watch] [-tags <tags>]")
		os.Exit(2)
	}

	var buildTags []string

	for _, t := range strings.Split(tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			buildTags = append(buildTags, t)
		}
	}

	src := &harvest.DefaultSource{BuildTags: buildTags}

	if err := buildOnce(src, out, pkgs); err != nil {
		clix.ExitWithError("%v", err)
	}

	if !watch {
		return
	}

	if err := watchAndRebuild(src, out, pkgs); err != nil {
		clix.ExitWithError("%v", err)
	}
}

func buildOnce(src harvest.Source, out string, pkgs []string) error {
	env := term.NewEnv()
	eng := diag.NewEngine()

	entries, err := harvest.Harvest(env, src, pkgs, eng)
	if err != nil {
		return fmt.Errorf("harvest: %w", err)
	}

	idx := tyindex.Build(env, sliceSeq(entries))

	if err := tyindex.Save(idx, out); err != nil {
		return err
	}

	if eng.HasWarnings() {
		fmt.Fprintln(os.Stderr, eng.Summary())
	}

	fmt.Printf("built %s: %d entries from %d package pattern(s)\n", out, len(entries), len(pkgs))

	return nil
}

// watchAndRebuild follows SPEC_FULL.md §A.3/§B's -watch mode: rebuild the
// index whenever any file under a harvested package's module directory
// changes, grounded on the teacher's internal/runtime/vfs FSNotifyWatcher
// (here used directly rather than through vfs.Watcher, since dowse-build
// only ever watches a fixed, flat set of directories it resolves once up
// front, not an arbitrary mountable filesystem).
func watchAndRebuild(src harvest.Source, out string, pkgs []string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	dirs, err := watchDirsFor(src, pkgs)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			return fmt.Errorf("watch: adding %q: %w", d, err)
		}
	}

	fmt.Printf("watching %d director(y/ies) for changes\n", len(dirs))

	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			fmt.Printf("%s changed, rebuilding\n", ev.Name)

			if err := buildOnce(src, out, pkgs); err != nil {
				fmt.Fprintf(os.Stderr, "rebuild failed: %v\n", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}

			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}

// watchDirsFor resolves each package pattern to the on-disk directory of
// every package src loads for it, skipping patterns that resolve to no
// on-disk file (e.g. "./..." expands to several; every matched package's
// directory is included).
func watchDirsFor(src harvest.Source, pkgs []string) ([]string, error) {
	seen := make(map[string]struct{})

	var dirs []string

	for _, pattern := range pkgs {
		loaded, err := src.Load(pattern)
		if err != nil {
			return nil, err
		}

		for _, p := range loaded {
			for _, f := range p.GoFiles {
				dir := dirOf(f)
				if _, ok := seen[dir]; ok || dir == "" {
					continue
				}

				seen[dir] = struct{}{}

				dirs = append(dirs, dir)
			}
		}
	}

	return dirs, nil
}

func dirOf(file string) string {
	i := strings.LastIndexByte(file, '/')
	if i < 0 {
		return ""
	}

	return file[:i]
}

func sliceSeq(entries []tyindex.Info) func(yield func(tyindex.Info) bool) {
	return func(yield func(tyindex.Info) bool) {
		for _, e := range entries {
			if !yield(e) {
				return
			}
		}
	}
}
