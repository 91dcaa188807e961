// Package delta implements the three DELTA_* parquet encodings:
// DELTA_BINARY_PACKED (for INT32/INT64), DELTA_LENGTH_BYTE_ARRAY and
// DELTA_BYTE_ARRAY (both built on top of it for BYTE_ARRAY columns).
package delta

import (
	"fmt"

	"github.com/parquetcore/parquet/encoding"
	"github.com/parquetcore/parquet/format"
	"github.com/parquetcore/parquet/internal/bitpack"
)

func init() {
	encoding.Register(BinaryPackedEncoding{})
}

// Block layout constants, matching the values every DELTA_BINARY_PACKED
// writer in the ecosystem (parquet-mr, arrow, parquet-go) uses.
const (
	blockSize          = 128
	numMiniBlocks      = 4
	valuesPerMiniBlock = blockSize / numMiniBlocks
)

// BinaryPackedEncoding is the DELTA_BINARY_PACKED encoding.
type BinaryPackedEncoding struct {
	encoding.NotSupported
}

func (BinaryPackedEncoding) String() string { return "DELTA_BINARY_PACKED" }

func (BinaryPackedEncoding) Encoding() format.Encoding { return format.DeltaBinaryPacked }

func (BinaryPackedEncoding) EncodeInt32(dst []byte, src []int32) ([]byte, error) {
	values := make([]int64, len(src))
	for i, v := range src {
		values[i] = int64(v)
	}
	return encodeBinaryPacked(dst, values), nil
}

func (BinaryPackedEncoding) EncodeInt64(dst []byte, src []int64) ([]byte, error) {
	return encodeBinaryPacked(dst, src), nil
}

func (BinaryPackedEncoding) DecodeInt32(dst []int32, src []byte) ([]int32, error) {
	values, _, err := decodeBinaryPacked(src)
	if err != nil {
		return dst, err
	}
	for _, v := range values {
		dst = append(dst, int32(v))
	}
	return dst, nil
}

func (BinaryPackedEncoding) DecodeInt64(dst []int64, src []byte) ([]int64, error) {
	values, _, err := decodeBinaryPacked(src)
	if err != nil {
		return dst, err
	}
	return append(dst, values...), nil
}

func zigzag64(v int64) uint64 { return uint64(v<<1) ^ uint64(v>>63) }
func unzigzag64(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1)
}

func appendVarint(dst []byte, u uint64) []byte {
	for u >= 0x80 {
		dst = append(dst, byte(u)|0x80)
		u >>= 7
	}
	return append(dst, byte(u))
}

func readVarint(src []byte, pos *int) (uint64, error) {
	var result uint64
	var shift uint
	for {
		if *pos >= len(src) {
			return 0, fmt.Errorf("delta: truncated varint")
		}
		b := src[*pos]
		*pos++
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
}

func bitWidthForUint64(max uint64) int {
	w := 0
	for max > 0 {
		w++
		max >>= 1
	}
	return w
}

// encodeBinaryPacked implements the header + repeated-block layout of
// DELTA_BINARY_PACKED for a slice of arbitrary-width signed integers
// represented as int64.
func encodeBinaryPacked(dst []byte, values []int64) []byte {
	dst = appendVarint(dst, uint64(blockSize))
	dst = appendVarint(dst, uint64(numMiniBlocks))
	dst = appendVarint(dst, uint64(len(values)))
	if len(values) == 0 {
		dst = appendVarint(dst, 0)
		return dst
	}
	dst = appendVarint(dst, zigzag64(values[0]))

	deltas := make([]int64, len(values)-1)
	for i := 1; i < len(values); i++ {
		deltas[i-1] = values[i] - values[i-1]
	}

	for i := 0; i < len(deltas); i += blockSize {
		block := deltas[i:min(i+blockSize, len(deltas))]
		dst = encodeBlock(dst, block)
	}
	return dst
}

func encodeBlock(dst []byte, block []int64) []byte {
	min := block[0]
	for _, d := range block[1:] {
		if d < min {
			min = d
		}
	}
	dst = appendVarint(dst, zigzag64(min))

	bitWidths := make([]int, numMiniBlocks)
	packed := make([][]int32, numMiniBlocks)
	for m := 0; m < numMiniBlocks; m++ {
		start := m * valuesPerMiniBlock
		if start >= len(block) {
			bitWidths[m] = 0
			continue
		}
		end := start + valuesPerMiniBlock
		if end > len(block) {
			end = len(block)
		}
		mini := make([]int32, valuesPerMiniBlock)
		var maxV uint64
		for i := start; i < end; i++ {
			u := uint64(block[i] - min)
			mini[i-start] = int32(u)
			if u > maxV {
				maxV = u
			}
		}
		bitWidths[m] = bitWidthForUint64(maxV)
		packed[m] = mini
	}

	for _, w := range bitWidths {
		dst = append(dst, byte(w))
	}
	for m := 0; m < numMiniBlocks; m++ {
		if bitWidths[m] == 0 {
			continue
		}
		dst = bitpack.Pack8(dst, packed[m], bitWidths[m])
	}
	return dst
}

// decodeBinaryPacked decodes a DELTA_BINARY_PACKED stream from the
// start of src, returning the decoded values and the number of bytes
// of src consumed (so callers embedding this stream inside a larger
// framing, like DELTA_BYTE_ARRAY, can locate what follows).
func decodeBinaryPacked(src []byte) ([]int64, int, error) {
	pos := 0
	_, err := readVarint(src, &pos) // block size, assumed == blockSize
	if err != nil {
		return nil, 0, err
	}
	_, err = readVarint(src, &pos) // miniblocks per block, assumed == numMiniBlocks
	if err != nil {
		return nil, 0, err
	}
	totalCount, err := readVarint(src, &pos)
	if err != nil {
		return nil, 0, err
	}
	firstZ, err := readVarint(src, &pos)
	if err != nil {
		return nil, 0, err
	}
	values := make([]int64, 0, totalCount)
	if totalCount == 0 {
		return values, pos, nil
	}
	cur := unzigzag64(firstZ)
	values = append(values, cur)

	remaining := int(totalCount) - 1
	for remaining > 0 {
		minZ, err := readVarint(src, &pos)
		if err != nil {
			return nil, 0, err
		}
		min := unzigzag64(minZ)

		bitWidths := make([]int, numMiniBlocks)
		for m := 0; m < numMiniBlocks; m++ {
			if pos >= len(src) {
				return nil, 0, fmt.Errorf("delta: truncated bit-width header")
			}
			bitWidths[m] = int(src[pos])
			pos++
		}

		for m := 0; m < numMiniBlocks && remaining > 0; m++ {
			n := valuesPerMiniBlock
			nbytes := (n*bitWidths[m] + 7) / 8
			if pos+nbytes > len(src) {
				return nil, 0, fmt.Errorf("delta: truncated miniblock data")
			}
			buf := make([]int32, n)
			if bitWidths[m] > 0 {
				bitpack.Unpack8(buf, src[pos:pos+nbytes], n, bitWidths[m])
			}
			pos += nbytes
			take := n
			if take > remaining {
				take = remaining
			}
			for i := 0; i < take; i++ {
				cur += min + int64(uint32(buf[i]))
				values = append(values, cur)
			}
			remaining -= take
		}
	}
	return values, pos, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
