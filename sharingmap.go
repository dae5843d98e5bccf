package sharingmap

import "github.com/lleo/sharingmap/internal/tracelog"

// Map is a persistent, associative hash-trie container with structural
// sharing between clones. The zero value is not usable; build one with New.
//
// A Map value itself is small, just a root pointer, a size, and its options,
// so it is cheap to copy. Mutating methods on *Map replace the root pointer
// under the hood with a freshly path-copied tree rather than returning a new
// value, so callers see an ordinary mutating API even though the underlying
// nodes are immutable once built.
type Map[K comparable, V any] struct {
	root *internalNode[K, V]
	size int
	opts *options[K, V]
}

// New constructs an empty Map configured by opts. See WithBits, WithChunk,
// WithHash, WithFailIfEqual, and WithTraceLog.
func New[K comparable, V any](opts ...Option[K, V]) *Map[K, V] {
	return &Map[K, V]{
		root: newRootInternalNode[K, V](),
		opts: newOptions(opts...),
	}
}

// Size returns the number of key/value pairs in the map. O(1).
func (m *Map[K, V]) Size() int { return m.size }

// Empty reports whether the map holds no key/value pairs. O(1).
func (m *Map[K, V]) Empty() bool { return m.size == 0 }

// Clear empties the map in place. O(1): it discards the old root rather than
// visiting it.
func (m *Map[K, V]) Clear() {
	m.root = newRootInternalNode[K, V]()
	m.size = 0
}

// Clone returns a new Map sharing its entire tree with m. O(1): only the
// root pointer, size, and options are copied; no node is visited or
// duplicated. Mutating the clone triggers copy-on-write path copying that
// leaves m untouched, and vice versa. This is the operation that makes
// DeltaView and SharingStats meaningful: the returned Map and m start out
// fully shared and only diverge where one of them is later mutated.
func (m *Map[K, V]) Clone() *Map[K, V] {
	clone := *m
	return &clone
}

// Swap exchanges the contents of m and other in place. O(1).
func (m *Map[K, V]) Swap(other *Map[K, V]) {
	m.root, other.root = other.root, m.root
	m.size, other.size = other.size, m.size
	m.opts, other.opts = other.opts, m.opts
}

// frame records one step of a descent from the root: the internal node
// visited and the chunk index used to reach its child. A slice of frames
// tracks the path taken to a mutation's target so the path can be rebuilt
// bottom-up afterward.
type frame[K comparable, V any] struct {
	node *internalNode[K, V]
	idx  uint
}

// rebuild reconstructs every internal node from path's root down to (but not
// including) child, splicing child in at the bottom. Each ancestor on the
// path is replaced by a copy with exactly one child slot updated, so every
// sibling subtree not on the path remains shared with whatever other Map
// instances still reference it.
func rebuild[K comparable, V any](path []frame[K, V], child trieNode[K, V]) *internalNode[K, V] {
	for i := len(path) - 1; i >= 0; i-- {
		f := path[i]
		child = f.node.withChild(f.idx, child)
	}
	return child.(*internalNode[K, V])
}

// Find retrieves the value bound to key, and whether key was present.
// O(height) typical, O(height + collisions) worst case.
func (m *Map[K, V]) Find(key K) (V, bool) {
	var zero V
	h := m.opts.hash(key)

	var cur trieNode[K, V] = m.root
	for depth := uint(0); cur != nil; depth++ {
		if isContainer[K, V](cur) {
			if l := cur.(*containerNode[K, V]).findLeaf(key); l != nil {
				return l.value, true
			}
			return zero, false
		}
		idx := m.opts.index(h, depth)
		cur = cur.(*internalNode[K, V]).findChild(idx)
	}
	return zero, false
}

// HasKey reports whether key is present in the map.
func (m *Map[K, V]) HasKey(key K) bool {
	_, ok := m.Find(key)
	return ok
}

// Insert adds key/value to the map. key must not already be present;
// violating this precondition is a programmer-contract error and panics
// with a *ContractViolation wrapping ErrKeyExists.
func (m *Map[K, V]) Insert(key K, value V) {
	o := m.opts
	h := o.hash(key)
	newLeaf := newLeaf(key, value)

	var path []frame[K, V]
	cur := m.root

	for depth := uint(0); ; depth++ {
		idx := o.index(h, depth)
		child := cur.findChild(idx)

		if child == nil {
			path = append(path, frame[K, V]{cur, idx})
			m.root = rebuild(path, newContainerNode(newLeaf))
			m.size++
			return
		}

		if isContainer[K, V](child) {
			cnode := child.(*containerNode[K, V])
			if existing := cnode.findLeaf(key); existing != nil {
				panicContract("Insert", key, ErrKeyExists)
			}

			path = append(path, frame[K, V]{cur, idx})

			if depth == o.height()-1 {
				if o.trace {
					tracelog.Collisionf("key=%v depth=%d existing_count=%d", key, depth, len(cnode.leaves))
				}
				m.root = rebuild(path, cnode.withLeaf(newLeaf))
				m.size++
				return
			}

			if o.trace {
				tracelog.Migratef("key=%v depth=%d", key, depth)
			}
			existing := cnode.leaves[0]
			subtree := migrateLeaves(o, existing, newLeaf, o.hash(existing.key), h, depth+1)
			m.root = rebuild(path, subtree)
			m.size++
			return
		}

		path = append(path, frame[K, V]{cur, idx})
		cur = child.(*internalNode[K, V])
	}
}

// migrateLeaves pushes two colliding leaves (existing, already in the map;
// newLeaf, being inserted) deeper into the trie until their hashes diverge,
// building one internalNode per shared chunk of hash path. If the two
// hashes agree all the way to the bottom level, both leaves land in the same
// container, chained together as a hash collision.
func migrateLeaves[K comparable, V any](o *options[K, V], existing, newLeaf *leaf[K, V], hExisting, hNew uint64, depth uint) trieNode[K, V] {
	idxExisting := o.index(hExisting, depth)
	idxNew := o.index(hNew, depth)

	node := newRootInternalNode[K, V]()

	if idxExisting != idxNew {
		node = node.withChild(idxExisting, newContainerNode(existing))
		node = node.withChild(idxNew, newContainerNode(newLeaf))
		return node
	}

	if depth == o.height()-1 {
		return node.withChild(idxExisting, newContainerNode(existing).withLeaf(newLeaf))
	}

	child := migrateLeaves(o, existing, newLeaf, hExisting, hNew, depth+1)
	return node.withChild(idxExisting, child)
}

// Erase removes key from the map. key must be present; violating this
// precondition panics with a *ContractViolation wrapping ErrKeyNotFound.
func (m *Map[K, V]) Erase(key K) {
	o := m.opts
	h := o.hash(key)

	var path []frame[K, V]
	cur := m.root
	pruneAt := -1

	for depth := uint(0); ; depth++ {
		idx := o.index(h, depth)
		child := cur.findChild(idx)
		if child == nil {
			panicContract("Erase", key, ErrKeyNotFound)
		}

		// Track the deepest ancestor seen so far that has more than one
		// child; fall back to the root (pruneAt==-1) if none qualifies.
		if cur.nentries() > 1 || pruneAt == -1 {
			pruneAt = len(path)
		}
		path = append(path, frame[K, V]{cur, idx})

		if isContainer[K, V](child) {
			cnode := child.(*containerNode[K, V])

			if len(cnode.leaves) > 1 {
				newContainer, ok := cnode.withoutLeaf(key)
				if !ok {
					panicContract("Erase", key, ErrKeyNotFound)
				}
				m.root = rebuild(path, newContainer)
				m.size--
				return
			}

			if cnode.leaves[0].key != key {
				panicContract("Erase", key, ErrKeyNotFound)
			}

			prune := path[pruneAt]
			collapsed := prune.node.withoutChild(prune.idx)
			if collapsed == nil {
				collapsed = newRootInternalNode[K, V]()
			}
			m.root = rebuild(path[:pruneAt], collapsed)
			m.size--
			return
		}

		cur = child.(*internalNode[K, V])
	}
}

// EraseIfExists removes key from the map if present, and reports whether it
// was removed. Unlike Erase, an absent key is not a contract violation.
func (m *Map[K, V]) EraseIfExists(key K) bool {
	if !m.HasKey(key) {
		return false
	}
	m.Erase(key)
	return true
}

// locateContainer descends to the container node holding key's slot,
// returning the path to it (for callers that need to rebuild afterwards)
// and the container itself, or nil if key is not present.
func (m *Map[K, V]) locateContainer(key K) ([]frame[K, V], *containerNode[K, V]) {
	o := m.opts
	h := o.hash(key)

	var path []frame[K, V]
	cur := m.root

	for depth := uint(0); ; depth++ {
		idx := o.index(h, depth)
		child := cur.findChild(idx)
		if child == nil {
			return path, nil
		}
		path = append(path, frame[K, V]{cur, idx})
		if isContainer[K, V](child) {
			return path, child.(*containerNode[K, V])
		}
		cur = child.(*internalNode[K, V])
	}
}

// Replace overwrites the value bound to key. key must already be present;
// violating this precondition panics with a *ContractViolation wrapping
// ErrKeyNotFound. If the map was constructed with WithFailIfEqual and value
// equals the value already stored, panics with a *ContractViolation
// wrapping ErrValueUnchanged, since replacing with an equal value would
// only waste a copy-on-write path copy.
func (m *Map[K, V]) Replace(key K, value V) {
	path, cnode := m.locateContainer(key)
	if cnode == nil {
		panicContract("Replace", key, ErrKeyNotFound)
	}
	existing := cnode.findLeaf(key)
	if existing == nil {
		panicContract("Replace", key, ErrKeyNotFound)
	}
	if m.opts.failIfEqual && m.opts.valueEqual(existing.value, value) {
		panicContract("Replace", key, ErrValueUnchanged)
	}
	m.root = rebuild(path, cnode.withLeaf(newLeaf(key, value)))
}

// Update applies mutator to the value bound to key and stores the result.
// key must already be present; violating this precondition panics with a
// *ContractViolation wrapping ErrKeyNotFound. If the map was constructed
// with WithFailIfEqual and mutator's result equals the old value, panics
// with a *ContractViolation wrapping ErrValueUnchanged.
//
// mutator takes the old value and returns the new one rather than receiving
// a pointer to mutate in place, since the stored value may be shared with
// another Map and a pointer into it could outlive the call and be mutated
// after the fact, breaking structural sharing between the two maps.
func (m *Map[K, V]) Update(key K, mutator func(V) V) {
	path, cnode := m.locateContainer(key)
	if cnode == nil {
		panicContract("Update", key, ErrKeyNotFound)
	}
	existing := cnode.findLeaf(key)
	if existing == nil {
		panicContract("Update", key, ErrKeyNotFound)
	}
	newValue := mutator(existing.value)
	if m.opts.failIfEqual && m.opts.valueEqual(existing.value, newValue) {
		panicContract("Update", key, ErrValueUnchanged)
	}
	m.root = rebuild(path, cnode.withLeaf(newLeaf(key, newValue)))
}

// Iterate calls f once for every key/value pair in the map. Order is
// unspecified (it follows trie traversal order, not insertion order). f must
// not mutate m. Uses the same explicit work-stack traversal as View.
func (m *Map[K, V]) Iterate(f func(key K, value V)) {
	if m.Empty() {
		return
	}
	stack := []trieNode[K, V]{m.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if isContainer[K, V](n) {
			for _, l := range n.(*containerNode[K, V]).leaves {
				f(l.key, l.value)
			}
			continue
		}

		for _, ent := range n.(*internalNode[K, V]).entries() {
			stack = append(stack, ent.node)
		}
	}
}
