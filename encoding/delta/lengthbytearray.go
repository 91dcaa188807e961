package delta

import (
	"fmt"

	"github.com/parquetcore/parquet/encoding"
	"github.com/parquetcore/parquet/encoding/plain"
	"github.com/parquetcore/parquet/format"
)

func init() {
	encoding.Register(LengthByteArrayEncoding{})
}

// LengthByteArrayEncoding is the DELTA_LENGTH_BYTE_ARRAY encoding: a
// DELTA_BINARY_PACKED stream of each value's length, followed by the
// raw concatenated value bytes with no further framing.
type LengthByteArrayEncoding struct {
	encoding.NotSupported
}

func (LengthByteArrayEncoding) String() string { return "DELTA_LENGTH_BYTE_ARRAY" }

func (LengthByteArrayEncoding) Encoding() format.Encoding { return format.DeltaLengthByteArray }

func (LengthByteArrayEncoding) EncodeByteArray(dst, src []byte) ([]byte, error) {
	var lengths []int64
	var values [][]byte
	err := plain.RangeByteArray(src, func(v []byte) error {
		lengths = append(lengths, int64(len(v)))
		values = append(values, v)
		return nil
	})
	if err != nil {
		return dst, err
	}
	dst = encodeBinaryPacked(dst, lengths)
	for _, v := range values {
		dst = append(dst, v...)
	}
	return dst, nil
}

func (LengthByteArrayEncoding) DecodeByteArray(dst, src []byte) ([]byte, error) {
	lengths, consumed, err := decodeBinaryPacked(src)
	if err != nil {
		return dst, err
	}
	pos := consumed
	for _, n := range lengths {
		if n < 0 || pos+int(n) > len(src) {
			return dst, fmt.Errorf("delta: byte array value overruns input (len=%d)", n)
		}
		dst = plain.AppendByteArray(dst, src[pos:pos+int(n)])
		pos += int(n)
	}
	return dst, nil
}
