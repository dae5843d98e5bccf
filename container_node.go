package sharingmap

// containerNode holds the leaves that share a hash-path prefix: exactly one
// leaf above the bottom level (I3), one or more at the bottom level when
// keys collide all the way down, chained together in a single slice. I2/I3
// are dynamic constraints enforced by the mutating methods on Map, not
// structural ones the type itself needs to special-case.
type containerNode[K comparable, V any] struct {
	leaves []*leaf[K, V]
}

func newContainerNode[K comparable, V any](l *leaf[K, V]) *containerNode[K, V] {
	return &containerNode[K, V]{leaves: []*leaf[K, V]{l}}
}

func (c *containerNode[K, V]) isInternal() bool { return false }

// clone makes a container safe to mutate without affecting any other map
// that may still reference c.
func (c *containerNode[K, V]) clone() *containerNode[K, V] {
	nc := &containerNode[K, V]{leaves: make([]*leaf[K, V], len(c.leaves))}
	copy(nc.leaves, c.leaves)
	return nc
}

func (c *containerNode[K, V]) findLeaf(key K) *leaf[K, V] {
	for _, l := range c.leaves {
		if l.key == key {
			return l
		}
	}
	return nil
}

// withLeaf returns a new container with l appended (or, if a leaf with the
// same key already exists, with that leaf replaced; used by migrate, which
// may re-home an existing leaf into a freshly split container).
func (c *containerNode[K, V]) withLeaf(l *leaf[K, V]) *containerNode[K, V] {
	nc := c.clone()
	for i, existing := range nc.leaves {
		if existing.key == l.key {
			nc.leaves[i] = l
			return nc
		}
	}
	nc.leaves = append(nc.leaves, l)
	return nc
}

// withoutLeaf returns a new container with the leaf for key removed, and
// whether it was found. A nil result (ok still true) means the container
// became empty and its parent slot should be removed entirely (I2).
func (c *containerNode[K, V]) withoutLeaf(key K) (*containerNode[K, V], bool) {
	for i, l := range c.leaves {
		if l.key == key {
			if len(c.leaves) == 1 {
				return nil, true
			}
			nc := &containerNode[K, V]{leaves: make([]*leaf[K, V], 0, len(c.leaves)-1)}
			nc.leaves = append(nc.leaves, c.leaves[:i]...)
			nc.leaves = append(nc.leaves, c.leaves[i+1:]...)
			return nc, true
		}
	}
	return c, false
}
