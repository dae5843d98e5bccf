// Package tracelog is a minimal, opt-in diagnostic logger for sharingmap's
// collision and migration events. It is a reusable logger any
// sharingmap.Map can be pointed at via sharingmap.WithTraceLog, rather than
// every package importer inheriting a global log.SetPrefix side effect from
// an init function.
package tracelog

import (
	"log"
	"os"
)

var logger = log.New(os.Stderr, "[sharingmap] ", log.Lshortfile)

// Collisionf logs a hash-collision diagnostic: two distinct keys hashed to
// the same trie path and had to be chained in a bottom-level container.
func Collisionf(format string, args ...any) {
	logger.Printf("collision: "+format, args...)
}

// Migratef logs a container-migration diagnostic: an existing single-leaf
// container had to be pushed deeper to make room for a newly inserted key.
func Migratef(format string, args ...any) {
	logger.Printf("migrate: "+format, args...)
}
