package sharingmap

import (
	"fmt"
	"hash/fnv"

	"github.com/pkg/errors"
)

const (
	defaultBits  = 30
	defaultChunk = 3
)

// options collects the configuration parameters of a Map: the trie's hash
// width and chunk size, its hash function, the fail-if-equal contract check,
// and trace logging.
type options[K comparable, V any] struct {
	bits        uint
	chunk       uint
	hash        func(K) uint64
	failIfEqual bool
	valueEqual  func(V, V) bool
	trace       bool
}

// Option configures a Map at construction time.
type Option[K comparable, V any] func(*options[K, V])

// WithBits overrides the number of hash bits consumed by the trie. Must be
// a positive multiple of the configured chunk width (checked once both are
// resolved, in newOptions).
func WithBits[K comparable, V any](bits uint) Option[K, V] {
	return func(o *options[K, V]) { o.bits = bits }
}

// WithChunk overrides the number of bits consumed per trie level.
func WithChunk[K comparable, V any](chunk uint) Option[K, V] {
	return func(o *options[K, V]) { o.chunk = chunk }
}

// WithHash overrides the key-hashing function. The low bits bits of the
// returned value are what the trie actually consumes; a poor hash function
// degrades the trie toward its worst-case chaining behavior but never
// breaks correctness.
func WithHash[K comparable, V any](hash func(K) uint64) Option[K, V] {
	return func(o *options[K, V]) { o.hash = hash }
}

// WithFailIfEqual turns on a debug-mode contract check: Replace and Update
// panic if the new value equals the old one under the comparator supplied
// here, since replacing with an equal value only wastes a copy-on-write path
// copy. Off by default.
func WithFailIfEqual[K comparable, V any](valueEqual func(V, V) bool) Option[K, V] {
	return func(o *options[K, V]) {
		o.failIfEqual = true
		o.valueEqual = valueEqual
	}
}

// WithTraceLog enables the package's debug trace logger (internal/tracelog)
// for collision and migration diagnostics, off by default.
func WithTraceLog[K comparable, V any](enabled bool) Option[K, V] {
	return func(o *options[K, V]) { o.trace = enabled }
}

func newOptions[K comparable, V any](opts ...Option[K, V]) *options[K, V] {
	o := &options[K, V]{
		bits:  defaultBits,
		chunk: defaultChunk,
		hash:  defaultHash[K],
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.chunk == 0 || o.bits == 0 || o.bits%o.chunk != 0 {
		panic(&ContractViolation{
			Op:  "New",
			Err: errors.Wrapf(ErrBadConfig, "bits=%d chunk=%d: bits must be a positive multiple of chunk", o.bits, o.chunk),
		})
	}
	if o.failIfEqual && o.valueEqual == nil {
		panic(&ContractViolation{
			Op:  "New",
			Err: errors.Wrap(ErrBadConfig, "WithFailIfEqual requires a value-equality function"),
		})
	}
	return o
}

func (o *options[K, V]) fanout() uint { return 1 << o.chunk }
func (o *options[K, V]) height() uint { return o.bits / o.chunk }
func (o *options[K, V]) mask() uint64 { return uint64(o.fanout() - 1) }

// index extracts the depth-th group of o.chunk bits from h, where o.chunk is
// the configured chunk width for this Map.
func (o *options[K, V]) index(h uint64, depth uint) uint {
	return uint((h >> (depth * o.chunk)) & o.mask())
}

// defaultHash folds an arbitrary comparable key down to 64 bits with FNV-1a.
// Callers with a performance-sensitive key type should supply WithHash
// instead; this default exists so Map can be constructed without forcing
// every caller to write a hash function for common key types.
func defaultHash[K comparable](k K) uint64 {
	h := fnv.New64a()
	_, _ = fmt.Fprintf(h, "%#v", k)
	return h.Sum64()
}
