// Package bloom implements the parquet split-block bloom filter
// (SBBF): a cache-line-sized-block bloom filter tuned so that checking
// or inserting a value touches exactly one 32-byte block, trading a
// small amount of extra false-positive probability for much better
// locality than a classic single-array bloom filter.
package bloom

// BlockSize is the size, in bytes, of one split-block bloom filter
// block: eight 32-bit words, the width of a typical cache line.
const BlockSize = 32

// saltValues are the eight odd 32-bit constants the parquet-format spec
// fixes for deriving each word's bit mask from a value's hash; every
// conforming SBBF implementation (parquet-mr, arrow, parquet-go) uses
// these exact constants, so filters remain portable across writers and
// readers.
var saltValues = [8]uint32{
	0x47b6137b,
	0x44974d91,
	0x8824ad5b,
	0xa2b7289d,
	0x705495c7,
	0x2df1424b,
	0x9efc4947,
	0x5c6bfb31,
}

// Block is one 32-byte block of a split-block bloom filter: eight
// 32-bit words, each with exactly one bit set by Insert per inserted
// value.
type Block [8]uint32

// mask derives the eight per-word bit masks for hash value x.
func mask(x uint32) Block {
	var b Block
	for i, salt := range saltValues {
		b[i] = uint32(1) << ((x * salt) >> 27)
	}
	return b
}

// Insert sets, in b, the bit that mask(x) selects in each word.
func (b *Block) Insert(x uint32) {
	m := mask(x)
	for i := range b {
		b[i] |= m[i]
	}
}

// Check reports whether every bit mask(x) selects is already set in b.
func (b *Block) Check(x uint32) bool {
	m := mask(x)
	for i := range b {
		if b[i]&m[i] != m[i] {
			return false
		}
	}
	return true
}

// Bytes returns the little-endian wire representation of b, the layout
// the parquet-format spec requires split-block bloom filters to be
// stored in.
func (b *Block) Bytes() []byte {
	buf := make([]byte, BlockSize)
	for i, w := range b {
		buf[4*i+0] = byte(w)
		buf[4*i+1] = byte(w >> 8)
		buf[4*i+2] = byte(w >> 16)
		buf[4*i+3] = byte(w >> 24)
	}
	return buf
}

// blockFromBytes parses the little-endian wire representation of a
// single block.
func blockFromBytes(buf []byte) (b Block) {
	for i := range b {
		b[i] = uint32(buf[4*i+0]) | uint32(buf[4*i+1])<<8 | uint32(buf[4*i+2])<<16 | uint32(buf[4*i+3])<<24
	}
	return b
}
