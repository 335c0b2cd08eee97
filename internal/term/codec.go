package term

import (
	"github.com/dowsing-go/dowsing/internal/ident"
	"github.com/dowsing-go/dowsing/internal/tyvar"
)

// WireTy is the gob-serializable projection of one arena slot: children are
// referenced by their arena tag rather than by pointer, since the arena is
// append-only and every child was interned (and so assigned a tag) before
// its parent, a tag reference always resolves on replay (spec.md §6.1:
// "term identity is preserved within the deserialized image").
type WireTy struct {
	Kind      Kind
	VarID     int
	Path      string // KindConstr only
	ArgTags   []int  // KindConstr (ordered) or KindArrow (argset, already sorted)
	RetTag    int    // KindArrow only
	EltTags   []int  // KindTuple (already sorted)
	OtherHash uint64 // KindOther only
}

// Snapshot is the gob-serializable projection of an entire Env: the
// variable registry's state plus the arena in tag order.
type Snapshot struct {
	NextVar  int
	VarNames map[int]string
	Arena    []WireTy
}

// Snapshot captures env's full state for persistence (internal/tyindex's
// Save). The hash-cons table itself is not serialized — Rebuild recomputes
// it from the replayed arena, keying each slot with the same structural key
// intern uses.
func (env *Env) Snapshot() Snapshot {
	snap := Snapshot{
		NextVar:  env.vars.Count(),
		VarNames: env.vars.Names(),
		Arena:    make([]WireTy, len(env.arena)),
	}

	for i, t := range env.arena {
		snap.Arena[i] = toWire(t)
	}

	return snap
}

func toWire(t *Ty) WireTy {
	w := WireTy{Kind: t.kind}

	switch t.kind {
	case KindVar:
		w.VarID = t.v.ID()
	case KindConstr:
		w.Path = t.path.String()
		w.ArgTags = tagsOf(t.args)
	case KindArrow:
		w.ArgTags = tagsOf(t.argset)
		w.RetTag = t.ret.tag
	case KindTuple:
		w.EltTags = tagsOf(t.elts)
	case KindOther:
		w.OtherHash = t.otherHash
	}

	return w
}

func tagsOf(ts []*Ty) []int {
	out := make([]int, len(ts))
	for i, t := range ts {
		out[i] = t.tag
	}

	return out
}

// Rebuild reconstructs an Env from a Snapshot (internal/tyindex's Load).
// The arena is replayed in tag order directly — not through the smart
// constructors — since a Snapshot's arena is already canonical (it was
// built by them the first time) and replaying through Arrow/Tuple's
// normalisation again would be redundant at best and, for a Tuple/Arrow
// whose own children are replayed out of their original relative order,
// could reassign different tags than the saved Info entries' Ty references
// expect. Replaying positionally into a pre-sized arena keeps every tag
// stable.
func Rebuild(snap Snapshot) *Env {
	env := &Env{
		vars:  tyvar.Restore(snap.NextVar, snap.VarNames),
		table: make(map[string]*Ty),
		arena: make([]*Ty, len(snap.Arena)),
	}

	for i, w := range snap.Arena {
		env.arena[i] = fromWire(env, w, i)
	}

	for _, t := range env.arena {
		env.table[env.key(t)] = t
	}

	return env
}

func fromWire(env *Env, w WireTy, tag int) *Ty {
	t := &Ty{kind: w.Kind, tag: tag}

	switch w.Kind {
	case KindVar:
		t.v = tyvar.FromID(w.VarID)
	case KindConstr:
		path, ok := ident.Parse(w.Path)
		if !ok {
			// A string ident.Parse cannot split (no dot after the final
			// slash, or an empty symbol component): fall back to treating
			// the whole string as the package of a single-symbol Path.
			path = ident.New(w.Path, "_")
		}

		t.path = path
		t.args = resolveTags(env.arena, w.ArgTags)
	case KindArrow:
		t.argset = resolveTags(env.arena, w.ArgTags)
		t.ret = env.arena[w.RetTag]
	case KindTuple:
		t.elts = resolveTags(env.arena, w.EltTags)
	case KindOther:
		t.otherHash = w.OtherHash
	}

	return t
}

func resolveTags(arena []*Ty, tags []int) []*Ty {
	if len(tags) == 0 {
		return nil
	}

	out := make([]*Ty, len(tags))
	for i, tg := range tags {
		out[i] = arena[tg]
	}

	return out
}
