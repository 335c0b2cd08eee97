// Package tyvar implements fresh type-variable generation and the
// variable-to-display-name map, scoped per type environment (spec.md §3.2,
// §4.A). It is intentionally the smallest package in the module: a counter
// and a name table, generalized from the teacher's
// InferenceEngine.nextTypeVarId field into a standalone, embeddable type.
package tyvar

import "fmt"

// Var identifies a type variable. Identity is the integer id, not the name:
// two Vars are the same variable iff their ids match, even if their display
// names differ (spec.md §4.C: "variables are globally unique identities, not
// names").
type Var struct {
	id int
}

// ID returns the variable's unique integer identity.
func (v Var) ID() int { return v.id }

// String renders the variable using its bare id; callers that want a
// human display name should consult a Registry.
func (v Var) String() string {
	return fmt.Sprintf("_%d", v.id)
}

// FromID reconstructs the Var with the given identity, used only by
// internal/term's persistence codec to replay a saved arena's variable
// references — ordinary callers always obtain a Var via Fresh/FreshNamed.
func FromID(id int) Var { return Var{id: id} }

// Compare gives the total order on Vars used by canonical sort (spec.md
// §3.1.1): lower id sorts first.
func Compare(a, b Var) int {
	switch {
	case a.id < b.id:
		return -1
	case a.id > b.id:
		return 1
	default:
		return 0
	}
}

// Registry is a fresh-variable generator plus a variable→name map, scoped to
// one Env. A Registry is not safe for concurrent mutation (spec.md §5), the
// same restriction the owning Env carries.
type Registry struct {
	next  int
	names map[int]string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[int]string)}
}

// Fresh allocates a new Var with an auto-generated display name ("'a", "'b",
// ... "'z", "'a1", ...), mirroring the original dowsing tool's variable
// naming and the teacher's typeVarPrefix-based naming in
// internal/types/inference.go.
func (r *Registry) Fresh() Var {
	v := Var{id: r.next}
	r.next++
	r.names[v.id] = autoName(v.id)

	return v
}

// FreshNamed allocates a new Var with an explicit display name (e.g. a name
// recovered from source-level type variable syntax like 'a).
func (r *Registry) FreshNamed(name string) Var {
	v := Var{id: r.next}
	r.next++
	r.names[v.id] = name

	return v
}

// Name returns the display name registered for v, or its bare id string if
// none was ever registered (e.g. a Var from a different Registry).
func (r *Registry) Name(v Var) string {
	if n, ok := r.names[v.id]; ok {
		return n
	}

	return v.String()
}

// Count returns the number of variables this Registry has generated.
func (r *Registry) Count() int {
	return r.next
}

// Names returns the full id→display-name map, used by internal/term's
// persistence codec to snapshot a Registry's state.
func (r *Registry) Names() map[int]string {
	cp := make(map[int]string, len(r.names))
	for id, name := range r.names {
		cp[id] = name
	}

	return cp
}

// Restore reconstructs a Registry in the exact state a prior one had
// (next counter plus the full name map), used by internal/tyindex's
// persistence codec to rebuild an Env's variable identities after a Load
// without reallocating fresh ids that would no longer match the saved
// arena's VarID references.
func Restore(next int, names map[int]string) *Registry {
	cp := make(map[int]string, len(names))
	for id, name := range names {
		cp[id] = name
	}

	return &Registry{next: next, names: cp}
}

func autoName(id int) string {
	letter := rune('a' + id%26)
	gen := id / 26

	if gen == 0 {
		return "'" + string(letter)
	}

	return fmt.Sprintf("'%c%d", letter, gen)
}
