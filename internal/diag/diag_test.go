package diag

import (
	"strings"
	"testing"

	"github.com/dowsing-go/dowsing/internal/ident"
)

func TestBuilderBuildsDiagnostic(t *testing.T) {
	path := ident.New("example.com/a", "Foo")

	d := New(path).Warning().Code(CodeUnsupportedShape).Message("dropped %s", "chan int").Build()

	if d.Level != Warning || d.Code != CodeUnsupportedShape || d.Path != path {
		t.Fatalf("got %+v, fields not set from builder calls", d)
	}

	if d.Message != "dropped chan int" {
		t.Fatalf("got message %q, want formatted message", d.Message)
	}
}

func TestEngineAllIsSortedByPathThenCode(t *testing.T) {
	e := NewEngine()

	e.Add(New(ident.New("example.com/b", "Z")).Info().Code(CodeDuplicateSignature).Build())
	e.Add(New(ident.New("example.com/a", "Z")).Warning().Code(CodeUnsupportedShape).Build())
	e.Add(New(ident.New("example.com/a", "Z")).Info().Code(CodeInvalidPath).Build())

	all := e.All()
	if len(all) != 3 {
		t.Fatalf("got %d diagnostics, want 3", len(all))
	}

	if all[0].Path.Package() != "example.com/a" || all[0].Code != CodeUnsupportedShape {
		t.Fatalf("got first entry %+v, want example.com/a's lexicographically-smaller code first", all[0])
	}

	if all[2].Path.Package() != "example.com/b" {
		t.Fatalf("got last entry %+v, want example.com/b sorted last", all[2])
	}
}

func TestHasWarningsReflectsOnlyWarningLevel(t *testing.T) {
	e := NewEngine()
	if e.HasWarnings() {
		t.Fatalf("empty engine should report no warnings")
	}

	e.Add(New(ident.New("example.com/a", "Z")).Info().Code(CodeDuplicateSignature).Build())
	if e.HasWarnings() {
		t.Fatalf("info-only engine should report no warnings")
	}

	e.Add(New(ident.New("example.com/a", "Y")).Warning().Code(CodeUnsupportedShape).Build())
	if !e.HasWarnings() {
		t.Fatalf("engine with a warning should report HasWarnings")
	}

	if len(e.Warnings()) != 1 {
		t.Fatalf("got %d warnings, want 1", len(e.Warnings()))
	}
}

func TestSummaryCountsAndEmptyCase(t *testing.T) {
	e := NewEngine()
	if e.Summary() != "no diagnostics" {
		t.Fatalf("got %q, want the empty-engine summary", e.Summary())
	}

	e.Add(New(ident.New("example.com/a", "Z")).Info().Code(CodeDuplicateSignature).Build())
	e.Add(New(ident.New("example.com/a", "Y")).Warning().Code(CodeUnsupportedShape).Build())

	summary := e.Summary()
	if !strings.Contains(summary, "1 info, 1 warning(s)") {
		t.Fatalf("got %q, want a trailing count line", summary)
	}
}
