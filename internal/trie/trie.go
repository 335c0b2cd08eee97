// Package trie implements the feature-indexed discrimination tree (spec.md
// §4.G): a right-nested tree keyed by a fixed chain of feature.Extractor
// values, with leaves holding Cells that group entries sharing an exact
// canonical type.
//
// No corpus repo implements a discrimination tree; this is grounded
// structurally on the teacher's TypeEnvironment parent-chain-of-maps idiom
// (internal/types/inference.go: a scope is a map keyed by name with a link
// to its parent) generalized from "one map keyed by name" to "one map per
// feature level, keyed by feature.Value, nested k levels deep" — the same
// "map of children, descend by key" shape, one level per feature instead of
// one level per lexical scope.
package trie

import (
	"iter"
	"sort"

	"github.com/dowsing-go/dowsing/internal/feature"
	"github.com/dowsing-go/dowsing/internal/term"
)

// Cell groups every value sharing one canonical type at a trie leaf.
// The trie itself is agnostic to what a cell's payload looks like beyond
// the type it is keyed by; internal/tyindex supplies the Info-record
// grouping semantics of spec.md §3.4/§4.J on top of this generic cell.
type Cell[V any] struct {
	Type   *term.Ty
	Values []V
}

// Trie is a right-nested discrimination tree over a fixed feature chain.
// The zero value is not usable; construct with New.
type Trie[V any] struct {
	features []feature.Extractor
	root     *node[V]
}

// New builds an empty trie keyed by the given feature chain (most to least
// discriminating first, conventionally feature.All).
func New[V any](features []feature.Extractor) *Trie[V] {
	return &Trie[V]{
		features: features,
		root:     newNode[V](),
	}
}

// node is one level of the tree: either an internal fan-out keyed by this
// level's feature.Value (children != nil), or a collection of leaf cells
// keyed by exact type (cells != nil), never both.
type node[V any] struct {
	children map[feature.Value]*node[V]
	cells    map[*term.Ty]*Cell[V]
}

func newNode[V any]() *node[V] {
	return &node[V]{}
}

// Add inserts value under t's canonical type, creating any missing edges
// along the feature chain and the leaf cell (spec.md §4.G "Insertion").
func (tr *Trie[V]) Add(t *term.Ty, value V) {
	n := tr.root

	for _, f := range tr.features {
		key := f.Compute(t)

		if n.children == nil {
			n.children = make(map[feature.Value]*node[V])
		}

		child, ok := n.children[key]
		if !ok {
			child = newNode[V]()
			n.children[key] = child
		}

		n = child
	}

	if n.cells == nil {
		n.cells = make(map[*term.Ty]*Cell[V])
	}

	cell, ok := n.cells[t]
	if !ok {
		cell = &Cell[V]{Type: t}
		n.cells[t] = cell
	}

	cell.Values = append(cell.Values, value)
}

// Query descends the tree for query, yielding candidate cells. In
// exhaustive mode every leaf in the tree is visited; otherwise, at each
// level only children whose edge key is feature.Extractor.Compatible with
// query's feature value are descended (spec.md §4.G "Query").
func (tr *Trie[V]) Query(query *term.Ty, exhaustive bool) iter.Seq[*Cell[V]] {
	return func(yield func(*Cell[V]) bool) {
		tr.walk(tr.root, query, 0, exhaustive, yield)
	}
}

func (tr *Trie[V]) walk(n *node[V], query *term.Ty, depth int, exhaustive bool, yield func(*Cell[V]) bool) bool {
	if n == nil {
		return true
	}

	if depth == len(tr.features) {
		for _, key := range sortedCellKeys(n.cells) {
			if !yield(n.cells[key]) {
				return false
			}
		}

		return true
	}

	f := tr.features[depth]
	qval := f.Compute(query)

	for _, key := range sortedChildKeys(n.children) {
		if !exhaustive && !f.Compatible(qval, key) {
			continue
		}

		if !tr.walk(n.children[key], query, depth+1, exhaustive, yield) {
			return false
		}
	}

	return true
}

func sortedChildKeys[V any](m map[feature.Value]*node[V]) []feature.Value {
	keys := make([]feature.Value, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	return keys
}

func sortedCellKeys[V any](m map[*term.Ty]*Cell[V]) []*term.Ty {
	keys := make([]*term.Ty, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool { return term.Compare(keys[i], keys[j]) < 0 })

	return keys
}
