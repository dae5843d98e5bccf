package sharingmap

import "unsafe"

// SharingStats summarizes how much of a collection of maps' trie storage is
// physically shared, for diagnosis rather than runtime decision-making.
type SharingStats struct {
	NumNodes        int
	NumUniqueNodes  int
	NumLeaves       int
	NumUniqueLeaves int
}

// GetSharingStats walks every map in maps and reports node/leaf counts, both
// counting every occurrence (NumNodes, NumLeaves) and counting each distinct
// node/leaf exactly once however many of the maps reference it
// (NumUniqueNodes, NumUniqueLeaves). A large gap between the two numbers in
// either pair means the maps share most of their storage; little or no gap
// means they have mostly diverged.
//
// Runs four separate passes (one per count) over the collection rather than
// one combined pass, since the function exists for diagnosis, not the hot
// path. The two unique-count passes mark every node's identity
// unconditionally via unsafe.Pointer rather than gating on a reference
// count: a node referenced by only one of the maps can, by construction,
// only be visited once within a pass regardless of whether it is marked, so
// unconditional marking produces the identical result with a simpler pass.
func GetSharingStats[K comparable, V any](maps []*Map[K, V]) SharingStats {
	var stats SharingStats
	marked := make(map[unsafe.Pointer]struct{})

	for _, m := range maps {
		stats.NumNodes += countUnmarkedNodes(m, false, marked, false)
	}
	clearMarked(marked)

	for _, m := range maps {
		stats.NumUniqueNodes += countUnmarkedNodes(m, false, marked, true)
	}
	clearMarked(marked)

	for _, m := range maps {
		stats.NumLeaves += countUnmarkedNodes(m, true, marked, false)
	}
	clearMarked(marked)

	for _, m := range maps {
		stats.NumUniqueLeaves += countUnmarkedNodes(m, true, marked, true)
	}

	return stats
}

func clearMarked(marked map[unsafe.Pointer]struct{}) {
	for k := range marked {
		delete(marked, k)
	}
}

// countUnmarkedNodes walks m's trie with an explicit stack (the same shape
// as Iterate/View/DeltaView), counting nodes (leafsOnly false) or leaves
// (leafsOnly true). When mark is true, a node/leaf already present in marked
// is skipped entirely (not counted, not re-descended-into); when mark is
// false, marked is only consulted, never written, so a prior pass's marks
// can be reused read-only.
func countUnmarkedNodes[K comparable, V any](m *Map[K, V], leafsOnly bool, marked map[unsafe.Pointer]struct{}, mark bool) int {
	if m.Empty() {
		return 0
	}

	count := 0
	stack := []trieNode[K, V]{m.root}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		ptr := nodePointer[K, V](n)
		if _, seen := marked[ptr]; seen {
			continue
		}
		if mark {
			marked[ptr] = struct{}{}
		}

		if !leafsOnly {
			count++
		}

		if isContainer[K, V](n) {
			cnode := n.(*containerNode[K, V])
			for _, l := range cnode.leaves {
				lptr := unsafe.Pointer(l)
				if _, seen := marked[lptr]; seen {
					continue
				}
				if mark {
					marked[lptr] = struct{}{}
				}
				count++
			}
			continue
		}

		for _, ent := range n.(*internalNode[K, V]).entries() {
			stack = append(stack, ent.node)
		}
	}

	return count
}

// nodePointer extracts a node's identity as an unsafe.Pointer, for use as a
// map key in the sharing-statistics passes above.
func nodePointer[K comparable, V any](n trieNode[K, V]) unsafe.Pointer {
	if internalN, ok := n.(*internalNode[K, V]); ok {
		return unsafe.Pointer(internalN)
	}
	return unsafe.Pointer(n.(*containerNode[K, V]))
}
