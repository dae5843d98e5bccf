package sharingmap

import "github.com/pkg/errors"

// Sentinel errors identifying programmer-contract violations. They are
// never returned from the public API; they are always wrapped into a
// *ContractViolation and panicked, since a programmer bug like inserting a
// duplicate key is not a recoverable runtime condition for the caller to
// handle, the way Go programs treat index-out-of-range or nil-dereference.
var (
	// ErrKeyExists is wrapped when Insert is called with a key already present.
	ErrKeyExists = errors.New("key already present in map")
	// ErrKeyNotFound is wrapped when Erase, Replace, or Update is called with
	// an absent key.
	ErrKeyNotFound = errors.New("key not present in map")
	// ErrValueUnchanged is wrapped when Replace or Update is called with a
	// value equal to the one already stored, while fail-if-equal mode is on.
	ErrValueUnchanged = errors.New("replacement value equal to existing value")
	// ErrBadConfig is wrapped when a Map is constructed with an invalid
	// combination of options (e.g. bits not a multiple of chunk).
	ErrBadConfig = errors.New("invalid sharingmap configuration")
)

// ContractViolation is the panic value raised for every programmer-contract
// violation in this package: inserting an existing key, erasing/replacing/
// updating an absent key, replacing/updating with an equal value under
// fail-if-equal mode, or constructing a Map with an invalid configuration.
//
// It wraps one of the Err* sentinels above, so errors.Is(cv.Err, ErrKeyExists)
// (or errors.As on a recovered panic value) identifies the failure kind.
type ContractViolation struct {
	Op  string
	Key any
	Err error
}

func (c *ContractViolation) Error() string {
	if c.Key != nil {
		return errors.Wrapf(c.Err, "sharingmap: %s(%v)", c.Op, c.Key).Error()
	}
	return errors.Wrapf(c.Err, "sharingmap: %s", c.Op).Error()
}

func (c *ContractViolation) Unwrap() error { return c.Err }

func panicContract(op string, key any, err error) {
	panic(&ContractViolation{Op: op, Key: key, Err: err})
}
