// Package hash provides the deterministic spatial hash that every pcgrid
// generator uses as its only source of randomness.
//
// The hash is a pure function of (seed, x, y). There is no sequential state,
// so cells may be generated in any order, partially, or concurrently and
// always agree with a full row-major pass.
package hash

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// keyLen is the encoded width of a (seed, x, y) key: 4 + 8 + 8 bytes.
const keyLen = 20

// Hash returns the 64-bit xxHash of the (seed, x, y) triple.
// Coordinates are encoded as little-endian int64 so the result does not
// depend on the platform word size or byte order.
func Hash(seed uint32, x, y int) uint64 {
	var key [keyLen]byte
	binary.LittleEndian.PutUint32(key[0:4], seed)
	binary.LittleEndian.PutUint64(key[4:12], uint64(int64(x)))
	binary.LittleEndian.PutUint64(key[12:20], uint64(int64(y)))
	return xxhash.Sum64(key[:])
}

// Range maps the hash of (seed, x, y) into [low, high).
//
// high must be greater than low. Any non-empty range is accepted, up to
// [math.MinInt, math.MaxInt). Callers validate their ranges before
// generation starts; Range panics on an empty range rather than inventing a
// value.
func Range(seed uint32, low, high, x, y int) int {
	if high <= low {
		panic(fmt.Sprintf("hash: empty range [%d, %d)", low, high))
	}
	// Two's complement subtraction gives the exact width of any non-empty
	// range, including ones wider than the largest int.
	span := uint64(high) - uint64(low)
	return int(uint64(low) + Hash(seed, x, y)%span)
}

