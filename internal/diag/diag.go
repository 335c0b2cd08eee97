// Package diag collects the non-fatal findings produced while harvesting a
// library universe (SPEC_FULL.md §A.2): unsupported type shapes folded into
// Other, duplicate signatures collapsed by a Cell, and the like. These never
// abort a build (spec.md §7 only names two fatal boundary failures, and
// harvest diagnostics are not one of them); they are surfaced as a build
// summary.
//
// Grounded on the teacher's internal/diagnostic builder+engine pattern
// (DiagnosticBuilder / DiagnosticEngine), re-keyed from source Span to
// ident.Path since there is no surface syntax in scope here (SPEC_FULL.md
// §A.2).
package diag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dowsing-go/dowsing/internal/ident"
)

// Level is a diagnostic's severity.
type Level int

const (
	Info Level = iota
	Warning
)

func (l Level) String() string {
	switch l {
	case Warning:
		return "warning"
	default:
		return "info"
	}
}

// Code identifies a diagnostic's kind, stable across versions.
type Code string

const (
	// CodeUnsupportedShape marks a go/types.Type the harvester could not
	// interpret through the smart constructors; it was imported as Other.
	CodeUnsupportedShape Code = "D001_UNSUPPORTED_SHAPE"
	// CodeDuplicateSignature marks an entry collapsed into an existing
	// cell by signature-based dedup (spec.md §4.J).
	CodeDuplicateSignature Code = "D002_DUPLICATE_SIGNATURE"
	// CodeInvalidPath marks a harvested entry whose path failed
	// ident.Path.Validate.
	CodeInvalidPath Code = "D003_INVALID_PATH"
)

// Diagnostic is one non-fatal finding, keyed by the Path of the entry it was
// produced while processing.
type Diagnostic struct {
	Level   Level
	Code    Code
	Path    ident.Path
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s[%s] %s: %s", d.Level, d.Code, d.Path.String(), d.Message)
}

// Builder constructs a Diagnostic with a fluent API, matching the teacher's
// DiagnosticBuilder idiom.
type Builder struct {
	d Diagnostic
}

// New starts a Builder for the entry at path.
func New(path ident.Path) *Builder {
	return &Builder{d: Diagnostic{Path: path}}
}

func (b *Builder) Warning() *Builder { b.d.Level = Warning; return b }
func (b *Builder) Info() *Builder    { b.d.Level = Info; return b }

func (b *Builder) Code(code Code) *Builder {
	b.d.Code = code
	return b
}

func (b *Builder) Message(format string, args ...any) *Builder {
	b.d.Message = fmt.Sprintf(format, args...)
	return b
}

// Build finalizes the Diagnostic.
func (b *Builder) Build() Diagnostic {
	return b.d
}

// Engine accumulates Diagnostics across one harvest/build run.
type Engine struct {
	entries []Diagnostic
}

// NewEngine creates an empty Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Add records one Diagnostic.
func (e *Engine) Add(d Diagnostic) {
	e.entries = append(e.entries, d)
}

// All returns every recorded Diagnostic, sorted by path then code for
// deterministic output.
func (e *Engine) All() []Diagnostic {
	out := make([]Diagnostic, len(e.entries))
	copy(out, e.entries)

	sort.Slice(out, func(i, j int) bool {
		if c := ident.Compare(out[i].Path, out[j].Path); c != 0 {
			return c < 0
		}

		return out[i].Code < out[j].Code
	})

	return out
}

// Warnings returns only Warning-level diagnostics.
func (e *Engine) Warnings() []Diagnostic {
	var out []Diagnostic

	for _, d := range e.All() {
		if d.Level == Warning {
			out = append(out, d)
		}
	}

	return out
}

// HasWarnings reports whether any Warning-level diagnostic was recorded.
func (e *Engine) HasWarnings() bool {
	return len(e.Warnings()) > 0
}

// Summary renders a one-line-per-diagnostic report followed by a count
// summary, matching the teacher's FormatDiagnostics/formatSummary shape.
func (e *Engine) Summary() string {
	all := e.All()
	if len(all) == 0 {
		return "no diagnostics"
	}

	var b strings.Builder

	for _, d := range all {
		b.WriteString(d.String())
		b.WriteByte('\n')
	}

	infoCount, warnCount := 0, 0

	for _, d := range all {
		if d.Level == Warning {
			warnCount++
		} else {
			infoCount++
		}
	}

	fmt.Fprintf(&b, "%d info, %d warning(s)", infoCount, warnCount)

	return b.String()
}
