// Command dowse is the query-side CLI (spec.md §6.2): it loads a saved
// index, parses a query type, runs a (possibly package-filtered,
// exhaustive-or-feature-filtered) search, and prints the ranked results.
//
// Grounded on cmd/orizon-compiler/main.go / cmd/orizon/main.go: stdlib
// flag, no cobra/pflag anywhere in the corpus.
package main

import (
	"flag"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"

	"github.com/dowsing-go/dowsing/internal/clix"
	"github.com/dowsing-go/dowsing/internal/subst"
	"github.com/dowsing-go/dowsing/internal/term"
	"github.com/dowsing-go/dowsing/internal/typeparse"
	"github.com/dowsing-go/dowsing/internal/tyindex"
	"github.com/dowsing-go/dowsing/internal/unify"
)

func main() {
	var (
		indexPath   string
		exhaustive  bool
		n           int
		showVersion bool
	)

	flag.StringVar(&indexPath, "index", "", "index file to query (required)")
	flag.BoolVar(&exhaustive, "exhaustive", false, "bypass feature filtering, visit every leaf")
	flag.IntVar(&n, "n", -1, "take at most N results (-1 = unlimited, 0 = none)")
	flag.BoolVar(&showVersion, "version", false, "show version information")
	flag.Parse()

	if showVersion {
		clix.PrintVersion("dowse")
		return
	}

	args := flag.Args()
	if indexPath == "" || len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: dowse --index <file> [--exhaustive] [-n <int>] [<pkg>...] <type>")
		fmt.Fprintln(os.Stderr, "  -n is -1 (unlimited) by default; -n 0 emits nothing")
		os.Exit(2)
	}

	pkgs, typeExpr := args[:len(args)-1], args[len(args)-1]

	if err := run(os.Stdout, indexPath, pkgs, typeExpr, exhaustive, n); err != nil {
		clix.ExitWithError("%v", err)
	}
}

func run(w io.Writer, indexPath string, pkgs []string, typeExpr string, exhaustive bool, n int) error {
	idx, err := tyindex.Load(indexPath)
	if err != nil {
		return err
	}

	query, err := typeparse.Parse(idx.Env(), typeExpr)
	if err != nil {
		return fmt.Errorf("parsing query type %q: %w", typeExpr, err)
	}

	opts := unify.Options{}

	var results iter.Seq[tyindex.Triple]

	if exhaustive {
		seq, err := idx.Find(query, pkgs, opts)
		if err != nil {
			return err
		}

		results = seq
	} else {
		seq, err := idx.FindWith(query, pkgs, opts)
		if err != nil {
			return err
		}

		results = seq
	}

	if n >= 0 {
		results = tyindex.Take(results, n)
	}

	printResults(w, idx.Env(), results)

	return nil
}

func printResults(w io.Writer, env *term.Env, results iter.Seq[tyindex.Triple]) {
	count := 0

	for t := range results {
		for _, in := range t.Cell.Values {
			fmt.Fprintf(w, "%s : %s\n", in.Key.String(), in.Ty.String(env))
		}

		if t.Subst.Len() > 0 {
			fmt.Fprintf(w, "  via %s\n", substSummary(env, t.Subst))
		}

		count++
	}

	if count == 0 {
		fmt.Fprintln(w, "no results")
	}
}

func substSummary(env *term.Env, s *subst.Subst) string {
	parts := make([]string, 0, s.Len())

	for _, b := range s.Bindings() {
		parts = append(parts, fmt.Sprintf("%s=%s", env.Vars().Name(b.Var), b.Ty.String(env)))
	}

	return strings.Join(parts, ", ")
}
