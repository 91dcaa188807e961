package bloom

import "github.com/cespare/xxhash/v2"

// Hash is an interface abstracting the hashing algorithm used by a
// bloom filter. parquet-format currently defines exactly one hash
// (XXH64), but the abstraction keeps the filter and encoder code
// independent of a specific algorithm.
type Hash interface {
	// Sum64 returns the 64 bit hash of value.
	Sum64(value []byte) uint64
}

// XXH64 implements Hash using the 64-bit xxHash algorithm, the only
// hash function the parquet-format bloom filter spec currently defines.
type XXH64 struct{}

func (XXH64) Sum64(b []byte) uint64 { return xxhash.Sum64(b) }

var _ Hash = XXH64{}
