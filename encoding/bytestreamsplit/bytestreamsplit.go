// Package bytestreamsplit implements the BYTE_STREAM_SPLIT encoding:
// for fixed-width values it transposes the byte matrix, writing all
// values' byte 0 first, then all values' byte 1, and so on. This groups
// bytes with similar statistical distribution (e.g. the mantissa bytes
// of a series of nearby floats) together, which downstream
// general-purpose compressors exploit much better than the
// interleaved PLAIN layout.
package bytestreamsplit

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/parquetcore/parquet/encoding"
	"github.com/parquetcore/parquet/format"
)

func init() {
	encoding.Register(Encoding{})
}

// Encoding is the BYTE_STREAM_SPLIT encoding.
type Encoding struct {
	encoding.NotSupported
}

func (Encoding) String() string { return "BYTE_STREAM_SPLIT" }

func (Encoding) Encoding() format.Encoding { return format.ByteStreamSplit }

func (Encoding) EncodeInt32(dst []byte, src []int32) ([]byte, error) {
	buf := make([]byte, 4*len(src))
	for i, v := range src {
		binary.LittleEndian.PutUint32(buf[4*i:], uint32(v))
	}
	return splitInto(dst, buf, 4), nil
}

func (Encoding) EncodeInt64(dst []byte, src []int64) ([]byte, error) {
	buf := make([]byte, 8*len(src))
	for i, v := range src {
		binary.LittleEndian.PutUint64(buf[8*i:], uint64(v))
	}
	return splitInto(dst, buf, 8), nil
}

func (Encoding) EncodeFloat(dst []byte, src []float32) ([]byte, error) {
	buf := make([]byte, 4*len(src))
	for i, v := range src {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return splitInto(dst, buf, 4), nil
}

func (Encoding) EncodeDouble(dst []byte, src []float64) ([]byte, error) {
	buf := make([]byte, 8*len(src))
	for i, v := range src {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(v))
	}
	return splitInto(dst, buf, 8), nil
}

func (Encoding) EncodeFixedLenByteArray(dst, src []byte, size int) ([]byte, error) {
	if size <= 0 {
		return dst, fmt.Errorf("bytestreamsplit: invalid element size %d", size)
	}
	return splitInto(dst, src, size), nil
}

func (Encoding) DecodeInt32(dst []int32, src []byte) ([]int32, error) {
	plain, err := joinFrom(src, 4)
	if err != nil {
		return dst, err
	}
	off := len(dst)
	n := len(plain) / 4
	dst = append(dst, make([]int32, n)...)
	for i := 0; i < n; i++ {
		dst[off+i] = int32(binary.LittleEndian.Uint32(plain[4*i:]))
	}
	return dst, nil
}

func (Encoding) DecodeInt64(dst []int64, src []byte) ([]int64, error) {
	plain, err := joinFrom(src, 8)
	if err != nil {
		return dst, err
	}
	off := len(dst)
	n := len(plain) / 8
	dst = append(dst, make([]int64, n)...)
	for i := 0; i < n; i++ {
		dst[off+i] = int64(binary.LittleEndian.Uint64(plain[8*i:]))
	}
	return dst, nil
}

func (Encoding) DecodeFloat(dst []float32, src []byte) ([]float32, error) {
	plain, err := joinFrom(src, 4)
	if err != nil {
		return dst, err
	}
	off := len(dst)
	n := len(plain) / 4
	dst = append(dst, make([]float32, n)...)
	for i := 0; i < n; i++ {
		dst[off+i] = math.Float32frombits(binary.LittleEndian.Uint32(plain[4*i:]))
	}
	return dst, nil
}

func (Encoding) DecodeDouble(dst []float64, src []byte) ([]float64, error) {
	plain, err := joinFrom(src, 8)
	if err != nil {
		return dst, err
	}
	off := len(dst)
	n := len(plain) / 8
	dst = append(dst, make([]float64, n)...)
	for i := 0; i < n; i++ {
		dst[off+i] = math.Float64frombits(binary.LittleEndian.Uint64(plain[8*i:]))
	}
	return dst, nil
}

func (Encoding) DecodeFixedLenByteArray(dst, src []byte, size int) ([]byte, error) {
	if size <= 0 {
		return dst, fmt.Errorf("bytestreamsplit: invalid element size %d", size)
	}
	plain, err := joinFrom(src, size)
	if err != nil {
		return dst, err
	}
	return append(dst, plain...), nil
}

// splitInto transposes buf (n values of width bytes each, in PLAIN
// layout) into the byte-stream-split layout, appending to dst.
func splitInto(dst, buf []byte, width int) []byte {
	n := len(buf) / width
	off := len(dst)
	dst = append(dst, make([]byte, len(buf))...)
	for b := 0; b < width; b++ {
		for i := 0; i < n; i++ {
			dst[off+b*n+i] = buf[i*width+b]
		}
	}
	return dst
}

// joinFrom reverses splitInto, recovering the PLAIN byte layout from a
// byte-stream-split buffer of the given element width.
func joinFrom(src []byte, width int) ([]byte, error) {
	if len(src)%width != 0 {
		return nil, fmt.Errorf("bytestreamsplit: %w: length %d is not a multiple of %d", encoding.ErrInvalidInputSize, len(src), width)
	}
	n := len(src) / width
	buf := make([]byte, len(src))
	for b := 0; b < width; b++ {
		for i := 0; i < n; i++ {
			buf[i*width+b] = src[b*n+i]
		}
	}
	return buf, nil
}
