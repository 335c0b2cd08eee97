package term

import (
	"iter"

	"github.com/dowsing-go/dowsing/internal/tyvar"
)

// Vars lazily yields every variable occurrence in t, duplicates included
// (spec.md §4.C: "vars(t) lazily emits each variable occurrence"). Consumers
// that want distinct variables should dedupe on tyvar.Var.ID.
func Vars(t *Ty) iter.Seq[tyvar.Var] {
	return func(yield func(tyvar.Var) bool) {
		var walk func(*Ty) bool
		walk = func(t *Ty) bool {
			switch t.kind {
			case KindVar:
				return yield(t.v)
			case KindConstr:
				for _, a := range t.args {
					if !walk(a) {
						return false
					}
				}

				return true
			case KindArrow:
				for _, a := range t.argset {
					if !walk(a) {
						return false
					}
				}

				return walk(t.ret)
			case KindTuple:
				for _, e := range t.elts {
					if !walk(e) {
						return false
					}
				}

				return true
			default:
				return true
			}
		}

		walk(t)
	}
}
