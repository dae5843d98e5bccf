package sharingmap

// DeltaEntry is one item produced by DeltaView: either a key present in both
// maps whose leaves are not shared (OtherValue set), or a key present only
// in the receiver map (OtherValue nil).
type DeltaEntry[K comparable, V any] struct {
	Key        K
	Value      V
	OtherValue *V
}

// InBothMaps reports whether this entry's key was found in both maps that
// DeltaView compared.
func (d DeltaEntry[K, V]) InBothMaps() bool { return d.OtherValue != nil }

// noShiftDepth marks a stack frame produced while a is internal and b is a
// container, where the next container-vs-internal comparison (case 3 below)
// must never be reached, because b stays a container until a's side also
// bottoms out into a container (case 4). It exists purely as an
// internal-consistency check.
const noShiftDepth = ^uint(0)

type deltaFrame[K comparable, V any] struct {
	a, b  trieNode[K, V]
	depth uint
}

// DeltaView returns the key/value pairs that differ between m (the
// receiver, "A") and other ("B"): keys in both maps whose leaves are not
// physically shared, plus (unless onlyCommon is true) keys present only in
// m. Keys present only in other are never reported; the operation is
// asymmetric.
//
// Its dual-root depth-first search prunes any subtree pair that is
// physically shared (sharesWith) in O(1), so when m and other are
// mostly-identical clones differing by a handful of edits, only those
// edits' ancestor chains are ever visited.
func (m *Map[K, V]) DeltaView(other *Map[K, V], onlyCommon bool) []DeltaEntry[K, V] {
	var out []DeltaEntry[K, V]

	if m.Empty() {
		return out
	}

	if other.Empty() {
		if !onlyCommon {
			gatherAll[K, V](m.root, &out)
		}
		return out
	}

	if sharesWith[K, V](m.root, other.root) {
		return out
	}

	stack := []deltaFrame[K, V]{{a: m.root, b: other.root, depth: 0}}

	for len(stack) > 0 {
		fr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		a, b, depth := fr.a, fr.b, fr.depth

		switch {
		case isInternalNode[K, V](a) && isContainer[K, V](b):
			// b (a container) holds exactly one leaf here, by I3: an
			// internal node on a's side cannot be paired with a bottom-
			// level container. Compare each of a's children against the
			// same b; the hash is not re-shifted because b hasn't moved.
			for _, ent := range a.(*internalNode[K, V]).entries() {
				if !sharesWith[K, V](ent.node, b) {
					stack = append(stack, deltaFrame[K, V]{a: ent.node, b: b, depth: noShiftDepth})
				}
			}

		case isInternalNode[K, V](a):
			bInternal := b.(*internalNode[K, V])
			for _, ent := range a.(*internalNode[K, V]).entries() {
				bChild := bInternal.findChild(ent.idx)
				if bChild == nil {
					if !onlyCommon {
						gatherAll[K, V](ent.node, &out)
					}
					continue
				}
				if !sharesWith[K, V](ent.node, bChild) {
					stack = append(stack, deltaFrame[K, V]{a: ent.node, b: bChild, depth: depth + 1})
				}
			}

		case isInternalNode[K, V](b):
			if depth == noShiftDepth {
				panic("sharingmap: internal invariant violated: container-vs-internal delta step with no depth")
			}
			addItemIfNotShared(m.opts, a.(*containerNode[K, V]), b.(*internalNode[K, V]), depth, &out, onlyCommon)

		default:
			acnode := a.(*containerNode[K, V])
			bcnode := b.(*containerNode[K, V])
			for _, l1 := range acnode.leaves {
				l2 := bcnode.findLeaf(l1.key)
				if l2 != nil {
					if l1 != l2 {
						out = append(out, DeltaEntry[K, V]{Key: l1.key, Value: l1.value, OtherValue: &l2.value})
					}
				} else if !onlyCommon {
					out = append(out, DeltaEntry[K, V]{Key: l1.key, Value: l1.value})
				}
			}
		}
	}

	return out
}

// addItemIfNotShared handles the case where a is a container with a single
// leaf and b is an internal node: it descends into b along the remaining
// hash chunks of a's leaf's key, looking for a matching key.
func addItemIfNotShared[K comparable, V any](o *options[K, V], a *containerNode[K, V], b *internalNode[K, V], depth uint, out *[]DeltaEntry[K, V], onlyCommon bool) {
	l1 := a.leaves[0]
	h := o.hash(l1.key)

	cur := b
	for d := depth; ; d++ {
		idx := o.index(h, d)
		child := cur.findChild(idx)

		if child == nil {
			if !onlyCommon {
				*out = append(*out, DeltaEntry[K, V]{Key: l1.key, Value: l1.value})
			}
			return
		}

		if isContainer[K, V](child) {
			if sharesWith[K, V](trieNode[K, V](a), child) {
				return
			}
			c2 := child.(*containerNode[K, V])
			for _, l2 := range c2.leaves {
				if l1 == l2 {
					return
				}
				if l1.key == l2.key {
					*out = append(*out, DeltaEntry[K, V]{Key: l1.key, Value: l1.value, OtherValue: &l2.value})
					return
				}
			}
			if !onlyCommon {
				*out = append(*out, DeltaEntry[K, V]{Key: l1.key, Value: l1.value})
			}
			return
		}

		cur = child.(*internalNode[K, V])
	}
}

// gatherAll appends a DeltaEntry (with no OtherValue) for every leaf
// reachable from n, used when an entire subtree exists only in the
// receiver map. Uses the same explicit-stack traversal shape as View/Iterate.
func gatherAll[K comparable, V any](n trieNode[K, V], out *[]DeltaEntry[K, V]) {
	stack := []trieNode[K, V]{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if isContainer[K, V](cur) {
			for _, l := range cur.(*containerNode[K, V]).leaves {
				*out = append(*out, DeltaEntry[K, V]{Key: l.key, Value: l.value})
			}
			continue
		}

		for _, ent := range cur.(*internalNode[K, V]).entries() {
			stack = append(stack, ent.node)
		}
	}
}
