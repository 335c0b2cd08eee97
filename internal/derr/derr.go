// Package derr provides standardized error messaging for the boundary
// failures spec.md §7 defines, generalized from the teacher's
// internal/errors package (category + code + message + context map, with
// the caller captured via runtime.Caller).
//
// spec.md §7 is explicit that only two kinds of failure cross the core's
// boundary — index I/O failure and unknown package — everything else
// (unification branch failure, trie miss, empty result stream) is a normal,
// empty outcome, never an *Error. This package's constructors are
// accordingly narrow: three CategoryIndex constructors (load, save, and an
// unsupported file version) and one CategoryQuery constructor (unknown
// package). CategoryHarvest and CategoryTrie are declared but have no
// constructor; harvest findings are recorded through internal/diag instead.
package derr

import (
	"fmt"
	"runtime"
	"strings"
)

// Category classifies an Error's origin.
type Category string

const (
	CategoryIndex   Category = "INDEX"
	CategoryQuery   Category = "QUERY"
	CategoryHarvest Category = "HARVEST"
	CategoryTrie    Category = "TRIE"
)

// Error is a standardized error: a category, a stable code, a message, an
// optional context map, and the caller that constructed it.
type Error struct {
	Category Category
	Code     string
	Message  string
	Context  map[string]any
	Caller   string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("[%s:%s] %s (caller: %s)", e.Category, e.Code, e.Message, e.Caller)
}

func newError(category Category, code, message string, context map[string]any) *Error {
	pc, _, _, ok := runtime.Caller(2)
	caller := "unknown"

	if ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			caller = fn.Name()
		}
	}

	return &Error{
		Category: category,
		Code:     code,
		Message:  message,
		Context:  context,
		Caller:   caller,
	}
}

// IndexLoadFailed reports that Load could not open or decode an index file
// (spec.md §7 "Index I/O failure").
func IndexLoadFailed(path string, cause error) *Error {
	return newError(CategoryIndex, "INDEX_LOAD_FAILED",
		fmt.Sprintf("failed to load index %q: %v", path, cause),
		map[string]any{"path": path, "cause": cause})
}

// IndexSaveFailed reports that Save could not write or encode an index
// file.
func IndexSaveFailed(path string, cause error) *Error {
	return newError(CategoryIndex, "INDEX_SAVE_FAILED",
		fmt.Sprintf("failed to save index %q: %v", path, cause),
		map[string]any{"path": path, "cause": cause})
}

// IndexVersionUnsupported reports that a persisted file's version header is
// newer than this binary can read.
func IndexVersionUnsupported(path, fileVersion, supported string) *Error {
	return newError(CategoryIndex, "INDEX_VERSION_UNSUPPORTED",
		fmt.Sprintf("index %q has version %s, this binary supports up to %s", path, fileVersion, supported),
		map[string]any{"path": path, "file_version": fileVersion, "supported": supported})
}

// UnknownPackage reports that a non-empty package filter names one or more
// packages with no entry in the index; pkgs lists those unknown names
// (spec.md §7 "Unknown package", §4.H).
func UnknownPackage(pkgs []string) *Error {
	return newError(CategoryQuery, "UNKNOWN_PACKAGE",
		fmt.Sprintf("no entries found in package(s): %s", strings.Join(pkgs, ", ")),
		map[string]any{"pkgs": pkgs})
}
