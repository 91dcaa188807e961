// Package bitpack exposes the bit-(un)packing routines used by the
// RLE/bit-packing and delta encodings.
package bitpack

import (
	"github.com/parquetcore/parquet/internal/bits"
)

// Pack8 packs src at bitWidth bits per value, LSB-first, appending to dst.
func Pack8(dst []byte, src []int32, bitWidth int) []byte {
	return bits.Pack8(dst, src, bitWidth)
}

// Unpack8 unpacks count values of bitWidth bits each from src into dst.
func Unpack8(dst []int32, src []byte, count, bitWidth int) {
	bits.Unpack8(dst, src, count, bitWidth)
}
