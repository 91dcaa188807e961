// Package plain implements the PLAIN encoding: the simplest parquet
// value encoding, where values are serialized back-to-back with no
// framing beyond what each physical type requires (a 4-byte length
// prefix for BYTE_ARRAY, none at all for fixed-width types).
package plain

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/parquetcore/parquet/deprecated"
	"github.com/parquetcore/parquet/encoding"
	"github.com/parquetcore/parquet/format"
)

func float32bits(v float32) uint32    { return math.Float32bits(v) }
func float32frombits(b uint32) float32 { return math.Float32frombits(b) }
func float64bits(v float64) uint64    { return math.Float64bits(v) }
func float64frombits(b uint64) float64 { return math.Float64frombits(b) }

func init() {
	encoding.Register(Encoding{})
}

// Encoding is the PLAIN encoding. The zero value is ready to use.
type Encoding struct {
	encoding.NotSupported
}

func (Encoding) String() string { return "PLAIN" }

func (Encoding) Encoding() format.Encoding { return format.Plain }

func (Encoding) EncodeBoolean(dst []byte, src []bool) ([]byte, error) {
	off := len(dst)
	n := (len(src) + 7) / 8
	dst = growZero(dst, n)
	for i, v := range src {
		if v {
			dst[off+i/8] |= 1 << uint(i%8)
		}
	}
	return dst, nil
}

func (Encoding) EncodeInt32(dst []byte, src []int32) ([]byte, error) {
	off := len(dst)
	dst = growZero(dst, 4*len(src))
	for i, v := range src {
		binary.LittleEndian.PutUint32(dst[off+4*i:], uint32(v))
	}
	return dst, nil
}

func (Encoding) EncodeInt64(dst []byte, src []int64) ([]byte, error) {
	off := len(dst)
	dst = growZero(dst, 8*len(src))
	for i, v := range src {
		binary.LittleEndian.PutUint64(dst[off+8*i:], uint64(v))
	}
	return dst, nil
}

func (Encoding) EncodeInt96(dst []byte, src []deprecated.Int96) ([]byte, error) {
	return append(dst, deprecated.Int96ToBytes(src)...), nil
}

func (Encoding) EncodeFloat(dst []byte, src []float32) ([]byte, error) {
	off := len(dst)
	dst = growZero(dst, 4*len(src))
	for i, v := range src {
		binary.LittleEndian.PutUint32(dst[off+4*i:], float32bits(v))
	}
	return dst, nil
}

func (Encoding) EncodeDouble(dst []byte, src []float64) ([]byte, error) {
	off := len(dst)
	dst = growZero(dst, 8*len(src))
	for i, v := range src {
		binary.LittleEndian.PutUint64(dst[off+8*i:], float64bits(v))
	}
	return dst, nil
}

func (Encoding) EncodeByteArray(dst, src []byte) ([]byte, error) {
	return append(dst, src...), nil
}

func (Encoding) EncodeFixedLenByteArray(dst, src []byte, size int) ([]byte, error) {
	return append(dst, src...), nil
}

func (Encoding) DecodeBoolean(dst []bool, src []byte) ([]bool, error) {
	off := len(dst)
	n := len(src) * 8
	dst = growBool(dst, n)
	for i := 0; i < n; i++ {
		dst[off+i] = (src[i/8]>>uint(i%8))&1 != 0
	}
	return dst, nil
}

func (Encoding) DecodeInt32(dst []int32, src []byte) ([]int32, error) {
	if len(src)%4 != 0 {
		return dst, fmt.Errorf("plain: decode int32: %w: length %d is not a multiple of 4", encoding.ErrInvalidInputSize, len(src))
	}
	n := len(src) / 4
	off := len(dst)
	dst = growInt32(dst, n)
	for i := 0; i < n; i++ {
		dst[off+i] = int32(binary.LittleEndian.Uint32(src[4*i:]))
	}
	return dst, nil
}

func (Encoding) DecodeInt64(dst []int64, src []byte) ([]int64, error) {
	if len(src)%8 != 0 {
		return dst, fmt.Errorf("plain: decode int64: %w: length %d is not a multiple of 8", encoding.ErrInvalidInputSize, len(src))
	}
	n := len(src) / 8
	off := len(dst)
	dst = growInt64(dst, n)
	for i := 0; i < n; i++ {
		dst[off+i] = int64(binary.LittleEndian.Uint64(src[8*i:]))
	}
	return dst, nil
}

func (Encoding) DecodeInt96(dst []deprecated.Int96, src []byte) ([]deprecated.Int96, error) {
	if len(src)%12 != 0 {
		return dst, fmt.Errorf("plain: decode int96: %w: length %d is not a multiple of 12", encoding.ErrInvalidInputSize, len(src))
	}
	return append(dst, deprecated.BytesToInt96(src)...), nil
}

func (Encoding) DecodeFloat(dst []float32, src []byte) ([]float32, error) {
	if len(src)%4 != 0 {
		return dst, fmt.Errorf("plain: decode float: %w: length %d is not a multiple of 4", encoding.ErrInvalidInputSize, len(src))
	}
	n := len(src) / 4
	off := len(dst)
	dst = growFloat32(dst, n)
	for i := 0; i < n; i++ {
		dst[off+i] = float32frombits(binary.LittleEndian.Uint32(src[4*i:]))
	}
	return dst, nil
}

func (Encoding) DecodeDouble(dst []float64, src []byte) ([]float64, error) {
	if len(src)%8 != 0 {
		return dst, fmt.Errorf("plain: decode double: %w: length %d is not a multiple of 8", encoding.ErrInvalidInputSize, len(src))
	}
	n := len(src) / 8
	off := len(dst)
	dst = growFloat64(dst, n)
	for i := 0; i < n; i++ {
		dst[off+i] = float64frombits(binary.LittleEndian.Uint64(src[8*i:]))
	}
	return dst, nil
}

func (Encoding) DecodeByteArray(dst, src []byte) ([]byte, error) {
	return append(dst, src...), nil
}

func (Encoding) DecodeFixedLenByteArray(dst, src []byte, size int) ([]byte, error) {
	if size > 0 && len(src)%size != 0 {
		return dst, fmt.Errorf("plain: decode fixed_len_byte_array: %w: length %d is not a multiple of %d", encoding.ErrInvalidInputSize, len(src), size)
	}
	return append(dst, src...), nil
}

func growZero(dst []byte, n int) []byte          { return append(dst, make([]byte, n)...) }
func growBool(dst []bool, n int) []bool          { return append(dst, make([]bool, n)...) }
func growInt32(dst []int32, n int) []int32       { return append(dst, make([]int32, n)...) }
func growInt64(dst []int64, n int) []int64       { return append(dst, make([]int64, n)...) }
func growFloat32(dst []float32, n int) []float32 { return append(dst, make([]float32, n)...) }
func growFloat64(dst []float64, n int) []float64 { return append(dst, make([]float64, n)...) }
