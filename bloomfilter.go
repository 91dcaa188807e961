package parquet

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/parquetcore/parquet/bloom"
	"github.com/parquetcore/parquet/format"
)

// MightContain reports whether a column chunk's bloom filter, if it has
// one, may contain value (a PLAIN-encoded scalar, or the raw bytes of a
// BYTE_ARRAY/FIXED_LEN_BYTE_ARRAY value). A false return is
// authoritative: value was never written to this chunk. A true return,
// or ok == false (no bloom filter page was recorded for this chunk), is
// not — the caller must fall back to reading pages.
func (f *File) MightContain(chunk *ColumnChunk, value []byte) (mightContain bool, ok bool, err error) {
	header, bitsetOffset, ok, err := f.BloomFilterHeader(chunk)
	if err != nil || !ok {
		return false, ok, err
	}

	numBytes := int64(header.NumBytes)
	if numBytes <= 0 || numBytes%bloom.BlockSize != 0 {
		return false, false, fmt.Errorf("%w: bloom filter bitset length %d is not a positive multiple of the block size",
			ErrOutOfSpec, numBytes)
	}

	var block bloom.Block
	hash := xxhash.Sum64(value)
	present, err := bloom.CheckSplitBlock(f.reader, bitsetOffset, numBytes, &block, hash)
	if err != nil {
		return false, true, fmt.Errorf("%w: reading bloom filter block: %v", ErrIO, err)
	}
	return present, true, nil
}

var _ = format.SplitBlockAlgorithm{}
