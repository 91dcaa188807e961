// Package encoding provides the generic APIs implemented by parquet
// encodings in its sub-packages.
package encoding

import (
	"errors"
	"fmt"

	"github.com/parquetcore/parquet/deprecated"
	"github.com/parquetcore/parquet/format"
)

// ErrInvalidInputSize is a sentinel-wrapped error returned when a
// decoder is given a byte slice whose length is not a valid encoding of
// any number of values (e.g. a PLAIN fixed-len-byte-array stream whose
// length is not a multiple of the element size).
var ErrInvalidInputSize = errors.New("invalid input size")

// The Encoding interface is implemented by types representing parquet
// column encodings.
//
// Every Encode/Decode method appends to dst and returns the extended
// slice, mirroring the shape of append itself; this lets callers reuse
// buffers across pages without any allocation beyond what growing dst
// requires. An encoding that cannot represent a given physical type
// returns an error wrapping ErrNotSupported rather than panicking.
//
// Encoding instances must be safe to use concurrently from multiple
// goroutines: they hold no mutable state of their own.
type Encoding interface {
	fmt.Stringer

	// Encoding returns the format.Encoding identifier written to page
	// headers to select this encoding.
	Encoding() format.Encoding

	EncodeBoolean(dst []byte, src []bool) ([]byte, error)
	EncodeInt8(dst []byte, src []int8) ([]byte, error)
	EncodeInt32(dst []byte, src []int32) ([]byte, error)
	EncodeInt64(dst []byte, src []int64) ([]byte, error)
	EncodeInt96(dst []byte, src []deprecated.Int96) ([]byte, error)
	EncodeFloat(dst []byte, src []float32) ([]byte, error)
	EncodeDouble(dst []byte, src []float64) ([]byte, error)
	EncodeByteArray(dst, src []byte) ([]byte, error)
	EncodeFixedLenByteArray(dst, src []byte, size int) ([]byte, error)

	DecodeBoolean(dst []bool, src []byte) ([]bool, error)
	DecodeInt8(dst []int8, src []byte) ([]int8, error)
	DecodeInt32(dst []int32, src []byte) ([]int32, error)
	DecodeInt64(dst []int64, src []byte) ([]int64, error)
	DecodeInt96(dst []deprecated.Int96, src []byte) ([]deprecated.Int96, error)
	DecodeFloat(dst []float32, src []byte) ([]float32, error)
	DecodeDouble(dst []float64, src []byte) ([]float64, error)
	DecodeByteArray(dst, src []byte) ([]byte, error)
	DecodeFixedLenByteArray(dst, src []byte, size int) ([]byte, error)
}

// CanEncodeBoolean returns true if e can encode BOOLEAN values.
func CanEncodeBoolean(e Encoding) bool {
	_, err := e.EncodeBoolean(nil, nil)
	return !errors.Is(err, ErrNotSupported)
}

// CanEncodeInt32 returns true if e can encode INT32 values.
func CanEncodeInt32(e Encoding) bool {
	_, err := e.EncodeInt32(nil, nil)
	return !errors.Is(err, ErrNotSupported)
}

// CanEncodeInt64 returns true if e can encode INT64 values.
func CanEncodeInt64(e Encoding) bool {
	_, err := e.EncodeInt64(nil, nil)
	return !errors.Is(err, ErrNotSupported)
}

// CanEncodeByteArray returns true if e can encode BYTE_ARRAY values.
func CanEncodeByteArray(e Encoding) bool {
	_, err := e.EncodeByteArray(nil, nil)
	return !errors.Is(err, ErrNotSupported)
}

// CanEncodeFixedLenByteArray returns true if e can encode
// FIXED_LEN_BYTE_ARRAY values.
func CanEncodeFixedLenByteArray(e Encoding) bool {
	_, err := e.EncodeFixedLenByteArray(nil, nil, 1)
	return !errors.Is(err, ErrNotSupported)
}

// registry maps a format.Encoding identifier to its implementation, so
// a reader can decode a page without importing every encoding
// subpackage directly.
var registry = map[format.Encoding]Encoding{}

// Register adds enc to the global encoding registry, keyed by the
// format.Encoding it implements. Called from the init function of each
// encoding subpackage.
func Register(enc Encoding) {
	registry[enc.Encoding()] = enc
}

// Lookup returns the registered Encoding for id, or (nil, false) if no
// encoding has been registered for it.
func Lookup(id format.Encoding) (Encoding, bool) {
	enc, ok := registry[id]
	return enc, ok
}
