/*
Package sharingmap implements a persistent hash-trie associative container
with structural sharing.

A Map[K, V] stores key/value bindings in a fixed-height, fixed-fanout trie
keyed by the bits of hash(key), exactly the way a Hash Array Mapped Trie
partitions a key's hash into fixed-width chunks to index each level of the
trie. What distinguishes a sharingmap from an ordinary HAMT is that cloning
one is O(1): a clone copies only the root pointer and the element count, and
every subsequent mutation of either map copies only the path from the root
down to the changed leaf, leaving the rest of the tree physically shared
between the two maps.

That sharing is what makes DeltaView cheap: given two maps that started as
clones of one another and have since diverged by a handful of edits,
DeltaView walks only the handful of nodes that differ, pruning whole
identical subtrees in constant time with a pointer-identity check. A typical
caller is something like a symbolic-execution engine maintaining an SSA
renaming table that gets forked at every branch in the program under
analysis, where most of two forked tables are identical and only the
branch's own writes need to be found.

The package does not attempt to order keys, is not safe for concurrent
mutation of a single Map from multiple goroutines, and does not persist
anything across process restarts.
*/
package sharingmap
