// Package dict implements the PLAIN_DICTIONARY and RLE_DICTIONARY
// encodings: both store a column's values as a stream of indices into a
// separate dictionary page, and both use the same wire format for that
// index stream — a single bit-width byte, followed by the hybrid
// RLE/bit-packed encoding of the indices at that bit width with no
// further framing. They differ only in the format.Encoding id written
// to the page header (the historical PLAIN_DICTIONARY name was renamed
// RLE_DICTIONARY; modern writers emit the latter).
package dict

import (
	"fmt"

	"github.com/parquetcore/parquet/encoding"
	"github.com/parquetcore/parquet/encoding/rle"
	"github.com/parquetcore/parquet/format"
)

func init() {
	encoding.Register(RLEDictionary{})
	encoding.Register(PlainDictionary{})
}

// RLEDictionary is the modern dictionary-index encoding.
type RLEDictionary struct {
	encoding.NotSupported
}

func (RLEDictionary) String() string { return "RLE_DICTIONARY" }

func (RLEDictionary) Encoding() format.Encoding { return format.RLEDictionary }

func (RLEDictionary) EncodeInt32(dst []byte, src []int32) ([]byte, error) {
	return encodeIndices(dst, src), nil
}

func (RLEDictionary) DecodeInt32(dst []int32, src []byte) ([]int32, error) {
	return decodeIndices(dst, src)
}

// PlainDictionary is the deprecated name for the same wire format,
// retained so files written by older tools still decode correctly.
type PlainDictionary struct {
	encoding.NotSupported
}

func (PlainDictionary) String() string { return "PLAIN_DICTIONARY" }

func (PlainDictionary) Encoding() format.Encoding { return format.PlainDictionary }

func (PlainDictionary) EncodeInt32(dst []byte, src []int32) ([]byte, error) {
	return encodeIndices(dst, src), nil
}

func (PlainDictionary) DecodeInt32(dst []int32, src []byte) ([]int32, error) {
	return decodeIndices(dst, src)
}

func encodeIndices(dst []byte, src []int32) []byte {
	bitWidth := bitWidthFor(src)
	dst = append(dst, byte(bitWidth))
	return rle.EncodeHybridInt32(dst, src, bitWidth)
}

func decodeIndices(dst []int32, src []byte) ([]int32, error) {
	if len(src) < 1 {
		return dst, fmt.Errorf("dict: decode: %w: missing bit-width byte", encoding.ErrInvalidInputSize)
	}
	bitWidth := int(src[0])
	if bitWidth < 0 || bitWidth > 32 {
		return dst, fmt.Errorf("dict: decode: invalid bit width %d", bitWidth)
	}
	return rle.DecodeHybridInt32(dst, src[1:], bitWidth)
}

func bitWidthFor(values []int32) int {
	max := int32(0)
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	width := 0
	for max > 0 {
		width++
		max >>= 1
	}
	return width
}
