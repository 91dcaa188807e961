package bloom

import (
	"io"

	"github.com/parquetcore/parquet/internal/bits"
)

// Filter is an interface representing read-only bloom filters where
// programs can probe for the possible presence of a hash key.
type Filter interface {
	Check(uint64) bool
}

// SplitBlockFilter is an in-memory implementation of the parquet
// split-block bloom filter.
//
// This type is useful to construct bloom filters that are later
// serialized to a storage medium.
type SplitBlockFilter []Block

// NumSplitBlocksOf returns the number of blocks in a filter intended to
// hold the given number of values and bits of filter per value.
//
//	f := make(bloom.SplitBlockFilter, bloom.NumSplitBlocksOf(n, 10))
func NumSplitBlocksOf(numValues, bitsPerValue int) int {
	numBytes := bits.ByteCount(numValues * bitsPerValue)
	numBlocks := (numBytes + (BlockSize - 1)) / BlockSize
	if numBlocks == 0 {
		numBlocks = 1
	}
	return numBlocks
}

// Reset clears the content of the filter f.
func (f SplitBlockFilter) Reset() {
	for i := range f {
		f[i] = Block{}
	}
}

// Block returns a pointer to the block that the given hash value
// belongs to in the filter.
func (f SplitBlockFilter) Block(x uint64) *Block {
	return &f[blockIndex(x, uint64(len(f)))]
}

// Insert adds the hash value x to f.
func (f SplitBlockFilter) Insert(x uint64) {
	f.Block(x).Insert(uint32(x))
}

// Check tests whether the hash value x may have been inserted into f.
// A false return is authoritative (x was never inserted); a true
// return may be a false positive.
func (f SplitBlockFilter) Check(x uint64) bool {
	return f.Block(x).Check(uint32(x))
}

// Bytes serializes f to its little-endian, block-concatenated wire
// representation.
func (f SplitBlockFilter) Bytes() []byte {
	buf := make([]byte, 0, len(f)*BlockSize)
	for i := range f {
		buf = append(buf, f[i].Bytes()...)
	}
	return buf
}

// FromBytes parses the little-endian wire representation of a
// split-block bloom filter bitset. len(data) must be a multiple of
// BlockSize.
func FromBytes(data []byte) SplitBlockFilter {
	n := len(data) / BlockSize
	f := make(SplitBlockFilter, n)
	for i := 0; i < n; i++ {
		f[i] = blockFromBytes(data[i*BlockSize : (i+1)*BlockSize])
	}
	return f
}

// CheckSplitBlock is similar to SplitBlockFilter.Check but reads the
// bloom filter of n bytes from r at the given base offset, loading only
// the one block that needs checking into b rather than the whole
// filter. The size n of the bloom filter is assumed to be a multiple of
// the block size.
func CheckSplitBlock(r io.ReaderAt, base, n int64, b *Block, x uint64) (bool, error) {
	offset := base + int64(BlockSize)*int64(blockIndex(x, uint64(n)/BlockSize))
	buf := make([]byte, BlockSize)
	if _, err := r.ReadAt(buf, offset); err != nil {
		return false, err
	}
	*b = blockFromBytes(buf)
	return b.Check(uint32(x)), nil
}

func blockIndex(x, n uint64) uint64 {
	return ((x >> 32) * n) >> 32
}
