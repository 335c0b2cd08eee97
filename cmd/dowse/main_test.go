package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dowsing-go/dowsing/internal/ident"
	"github.com/dowsing-go/dowsing/internal/term"
	"github.com/dowsing-go/dowsing/internal/tyindex"
)

func buildSampleIndex(t *testing.T) string {
	t.Helper()

	env := term.NewEnv()
	i := env.Constr(ident.New("builtin", "int"))
	b := env.Constr(ident.New("builtin", "bool"))

	entries := []tyindex.Info{
		{Key: ident.New("example.com/a", "Double"), Ty: env.Arrow1(i, i)},
		{Key: ident.New("example.com/b", "IsZero"), Ty: env.Arrow1(i, b)},
	}

	idx := tyindex.Build(env, func(yield func(tyindex.Info) bool) {
		for _, e := range entries {
			if !yield(e) {
				return
			}
		}
	})

	path := filepath.Join(t.TempDir(), "index.bin")
	if err := tyindex.Save(idx, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	return path
}

func TestRunDefaultNIsUnlimited(t *testing.T) {
	path := buildSampleIndex(t)

	var buf bytes.Buffer
	if err := run(&buf, path, nil, "int -> 'a", true, -1); err != nil {
		t.Fatalf("run: %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "example.com/a.Double") || !strings.Contains(got, "example.com/b.IsZero") {
		t.Fatalf("got %q, want both entries printed with the default -n", got)
	}
}

func TestRunNZeroEmitsNothing(t *testing.T) {
	path := buildSampleIndex(t)

	var buf bytes.Buffer
	if err := run(&buf, path, nil, "int -> 'a", true, 0); err != nil {
		t.Fatalf("run: %v", err)
	}

	got := buf.String()
	if strings.Contains(got, "example.com/a.Double") || strings.Contains(got, "example.com/b.IsZero") {
		t.Fatalf("got %q, want -n 0 to emit no entries", got)
	}

	if strings.TrimSpace(got) != "no results" {
		t.Fatalf("got %q, want the explicit no-results message", got)
	}
}

func TestRunNOneTakesOneResult(t *testing.T) {
	path := buildSampleIndex(t)

	var buf bytes.Buffer
	if err := run(&buf, path, nil, "int -> 'a", true, 1); err != nil {
		t.Fatalf("run: %v", err)
	}

	got := buf.String()

	count := strings.Count(got, " : ")
	if count != 1 {
		t.Fatalf("got %d result line(s) in %q, want exactly 1", count, got)
	}
}

func TestRunUnknownPackageErrors(t *testing.T) {
	path := buildSampleIndex(t)

	var buf bytes.Buffer
	if err := run(&buf, path, []string{"example.com/nope"}, "int -> 'a", true, -1); err == nil {
		t.Fatalf("expected an unknown-package error")
	}
}
