package rle

import (
	"encoding/binary"
	"fmt"

	"github.com/parquetcore/parquet/encoding"
	"github.com/parquetcore/parquet/format"
)

func init() {
	encoding.Register(Encoding{})
}

// Encoding is the RLE encoding, valid for BOOLEAN columns (bit width 1)
// in this library's supported type set; definition/repetition levels
// and dictionary indices use the same hybrid core (EncodeHybridInt32 /
// DecodeHybridInt32) directly with an explicit bit width instead of
// going through this Encoding value.
type Encoding struct {
	encoding.NotSupported
}

func (Encoding) String() string { return "RLE" }

func (Encoding) Encoding() format.Encoding { return format.RLE }

// EncodeBoolean encodes src as the length-prefixed hybrid RLE stream
// parquet-format uses for RLE-encoded BOOLEAN pages: a 4-byte
// little-endian byte count, followed by the hybrid stream at bit width 1.
func (Encoding) EncodeBoolean(dst []byte, src []bool) ([]byte, error) {
	values := make([]int32, len(src))
	for i, v := range src {
		if v {
			values[i] = 1
		}
	}
	body := EncodeHybridInt32(nil, values, 1)
	var length [4]byte
	binary.LittleEndian.PutUint32(length[:], uint32(len(body)))
	dst = append(dst, length[:]...)
	dst = append(dst, body...)
	return dst, nil
}

func (Encoding) DecodeBoolean(dst []bool, src []byte) ([]bool, error) {
	if len(src) < 4 {
		return dst, fmt.Errorf("rle: decode boolean: %w: input shorter than length prefix", encoding.ErrInvalidInputSize)
	}
	length := int(binary.LittleEndian.Uint32(src))
	body := src[4:]
	if length > len(body) {
		return dst, fmt.Errorf("rle: decode boolean: %w: length prefix %d exceeds input", encoding.ErrInvalidInputSize, length)
	}
	body = body[:length]

	// The hybrid stream's own run headers fully determine how many
	// values it holds (give or take up to 7 trailing padding values in
	// the last bit-packed group); as with plain.DecodeBoolean, the
	// caller trims the result to the page's true value count.
	values, err := DecodeHybridInt32(nil, body, 1)
	if err != nil {
		return dst, err
	}
	for _, v := range values {
		dst = append(dst, v != 0)
	}
	return dst, nil
}
