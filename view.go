package sharingmap

// Entry is one key/value pair produced by View.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// View returns one Entry per leaf in the map. Order is unspecified: it
// follows trie traversal order, which is the order of the key hashes, not
// insertion order. The returned slice is a fresh copy; mutating it does not
// affect m. Complexity: O(N) where N is Size().
func (m *Map[K, V]) View() []Entry[K, V] {
	view := make([]Entry[K, V], 0, m.size)
	m.Iterate(func(k K, v V) {
		view = append(view, Entry[K, V]{Key: k, Value: v})
	})
	return view
}
