// Package rle implements the parquet "hybrid RLE/bit-packing" encoding:
// a stream of runs, each either a run-length-encoded repeated value or a
// literal run of bit-packed values, as used for BOOLEAN columns and for
// definition/repetition levels and dictionary indices throughout the
// format.
package rle

import (
	"encoding/binary"
	"fmt"

	"github.com/parquetcore/parquet/internal/bitpack"
)

// minRepeatForRLE is the minimum run length worth switching out of a
// bit-packed literal run into an RLE run; below this, the 1-byte (or
// more) RLE header plus value costs more than just bit-packing the
// values, the same threshold real-world parquet writers use.
const minRepeatForRLE = 8

// EncodeHybridInt32 appends the hybrid RLE/bit-packed encoding of
// values (each assumed to fit within bitWidth bits) to dst.
func EncodeHybridInt32(dst []byte, values []int32, bitWidth int) []byte {
	i := 0
	n := len(values)
	for i < n {
		runLen := 1
		for i+runLen < n && values[i+runLen] == values[i] && runLen < math32Max {
			runLen++
		}
		if runLen >= minRepeatForRLE {
			dst = appendVarint(dst, uint64(runLen)<<1)
			dst = appendRunValue(dst, values[i], bitWidth)
			i += runLen
			continue
		}

		// Accumulate a literal (bit-packed) run: groups of 8 values,
		// stopping as soon as we find another long repeat or run out.
		start := i
		for i < n {
			next := 1
			for i+next < n && values[i+next] == values[i] && next < minRepeatForRLE {
				next++
			}
			if next >= minRepeatForRLE && (i-start)%8 == 0 {
				break
			}
			i++
		}
		literal := values[start:i]
		numGroups := (len(literal) + 7) / 8
		padded := literal
		if pad := numGroups*8 - len(literal); pad > 0 {
			padded = make([]int32, len(literal)+pad)
			copy(padded, literal)
		}
		dst = appendVarint(dst, uint64(numGroups)<<1|1)
		dst = bitpack.Pack8(dst, padded, bitWidth)
	}
	return dst
}

const math32Max = 1<<31 - 1

func appendRunValue(dst []byte, v int32, bitWidth int) []byte {
	n := (bitWidth + 7) / 8
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(v))
	return append(dst, buf[:n]...)
}

func appendVarint(dst []byte, u uint64) []byte {
	for u >= 0x80 {
		dst = append(dst, byte(u)|0x80)
		u >>= 7
	}
	return append(dst, byte(u))
}

func readVarint(src []byte) (uint64, int, error) {
	var result uint64
	var shift uint
	for i, b := range src {
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, i + 1, nil
		}
		shift += 7
		if shift >= 70 {
			return 0, 0, fmt.Errorf("rle: varint overflow")
		}
	}
	return 0, 0, fmt.Errorf("rle: truncated varint")
}

// DecodeHybridInt32 decodes every run found in the hybrid
// RLE/bit-packed stream src (bitWidth bits per value) and appends the
// resulting values to dst, returning the extended slice.
//
// src is expected to contain exactly the bytes of one page's encoded
// run with no trailing data, the same convention plain.DecodeBoolean
// uses: the last bit-packed group may include up to 7 padding values
// beyond the column's true value count, and the caller (which already
// knows that count from the page header) is expected to truncate dst
// accordingly.
func DecodeHybridInt32(dst []int32, src []byte, bitWidth int) ([]int32, error) {
	pos := 0
	valueSize := (bitWidth + 7) / 8
	for pos < len(src) {
		header, n, err := readVarint(src[pos:])
		if err != nil {
			return dst, err
		}
		pos += n

		if header&1 == 0 {
			runLen := int(header >> 1)
			if pos+valueSize > len(src) {
				return dst, fmt.Errorf("rle: truncated RLE run value")
			}
			var buf [4]byte
			copy(buf[:], src[pos:pos+valueSize])
			pos += valueSize
			v := int32(binary.LittleEndian.Uint32(buf[:]))
			if bitWidth < 32 {
				v &= int32(1)<<uint(bitWidth) - 1
			}
			for i := 0; i < runLen; i++ {
				dst = append(dst, v)
			}
		} else {
			numGroups := int(header >> 1)
			numValues := numGroups * 8
			nbytes := (numValues*bitWidth + 7) / 8
			if pos+nbytes > len(src) {
				return dst, fmt.Errorf("rle: truncated bit-packed run")
			}
			buf := make([]int32, numValues)
			bitpack.Unpack8(buf, src[pos:pos+nbytes], numValues, bitWidth)
			dst = append(dst, buf...)
			pos += nbytes
		}
	}
	return dst, nil
}
