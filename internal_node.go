package sharingmap

import "math/bits"

// internalNode is a bitmap-compressed sparse array of up to fanout children:
// nodeMap records which of the fanout slots are populated, and children
// holds only the populated ones, ordered from lowest chunk index to
// highest. fanout is a runtime option (1<<chunk) rather than a hardcoded
// width, so indexing uses math/bits.OnesCount64 against whatever subset of
// the 64-bit nodeMap the configured chunk width actually uses.
type internalNode[K comparable, V any] struct {
	nodeMap  uint64
	children []trieNode[K, V]
}

func (t *internalNode[K, V]) isInternal() bool { return true }

func (t *internalNode[K, V]) nentries() int { return len(t.children) }

// slot returns the position in t.children that index idx occupies (or would
// occupy if inserted), and whether idx is currently populated.
func (t *internalNode[K, V]) slot(idx uint) (pos int, present bool) {
	bit := uint64(1) << idx
	present = t.nodeMap&bit != 0
	below := bit - 1
	pos = bits.OnesCount64(t.nodeMap & below)
	return pos, present
}

func (t *internalNode[K, V]) findChild(idx uint) trieNode[K, V] {
	pos, present := t.slot(idx)
	if !present {
		return nil
	}
	return t.children[pos]
}

func (t *internalNode[K, V]) clone() *internalNode[K, V] {
	nt := &internalNode[K, V]{
		nodeMap:  t.nodeMap,
		children: make([]trieNode[K, V], len(t.children)),
	}
	copy(nt.children, t.children)
	return nt
}

// withChild returns a copy of t with idx set to child (inserted if absent,
// overwritten if present). child must not be nil; use withoutChild to
// remove a slot.
func (t *internalNode[K, V]) withChild(idx uint, child trieNode[K, V]) *internalNode[K, V] {
	pos, present := t.slot(idx)
	nt := t.clone()
	if present {
		nt.children[pos] = child
		return nt
	}
	nt.nodeMap |= uint64(1) << idx
	nt.children = append(nt.children, nil)
	copy(nt.children[pos+1:], nt.children[pos:len(nt.children)-1])
	nt.children[pos] = child
	return nt
}

// withoutChild returns a copy of t with idx removed, or nil if that was the
// last child (I1: a non-root internal node must not end up empty; it is
// the caller's job to also remove the now-empty node's own slot from its
// parent, exactly as Erase's pruning-point logic does).
func (t *internalNode[K, V]) withoutChild(idx uint) *internalNode[K, V] {
	pos, present := t.slot(idx)
	if !present {
		return t
	}
	if len(t.children) == 1 {
		return nil
	}
	nt := &internalNode[K, V]{
		nodeMap:  t.nodeMap &^ (uint64(1) << idx),
		children: make([]trieNode[K, V], 0, len(t.children)-1),
	}
	nt.children = append(nt.children, t.children[:pos]...)
	nt.children = append(nt.children, t.children[pos+1:]...)
	return nt
}

// entries returns the populated (idx, child) pairs of t in ascending idx
// order.
func (t *internalNode[K, V]) entries() []tableEntry[K, V] {
	ents := make([]tableEntry[K, V], 0, len(t.children))
	pos := 0
	for idx := uint(0); idx < 64 && pos < len(t.children); idx++ {
		if t.nodeMap&(uint64(1)<<idx) != 0 {
			ents = append(ents, tableEntry[K, V]{idx: idx, node: t.children[pos]})
			pos++
		}
	}
	return ents
}

type tableEntry[K comparable, V any] struct {
	idx  uint
	node trieNode[K, V]
}

func newRootInternalNode[K comparable, V any]() *internalNode[K, V] {
	return &internalNode[K, V]{}
}
