package delta

import (
	"fmt"

	"github.com/parquetcore/parquet/encoding"
	"github.com/parquetcore/parquet/encoding/plain"
	"github.com/parquetcore/parquet/format"
)

func init() {
	encoding.Register(ByteArrayEncoding{})
}

// ByteArrayEncoding is the DELTA_BYTE_ARRAY encoding: a
// DELTA_BINARY_PACKED stream of prefix lengths (the size of the prefix
// each value shares with its predecessor), followed by a
// DELTA_LENGTH_BYTE_ARRAY stream of the non-shared suffixes.
type ByteArrayEncoding struct {
	encoding.NotSupported
}

func (ByteArrayEncoding) String() string { return "DELTA_BYTE_ARRAY" }

func (ByteArrayEncoding) Encoding() format.Encoding { return format.DeltaByteArray }

func (ByteArrayEncoding) EncodeByteArray(dst, src []byte) ([]byte, error) {
	var prefixLens []int64
	var suffixLens []int64
	var suffixes [][]byte

	prev := []byte(nil)
	err := plain.RangeByteArray(src, func(v []byte) error {
		n := commonPrefixLen(prev, v)
		prefixLens = append(prefixLens, int64(n))
		suffixLens = append(suffixLens, int64(len(v)-n))
		suffixes = append(suffixes, v[n:])
		prev = v
		return nil
	})
	if err != nil {
		return dst, err
	}

	dst = encodeBinaryPacked(dst, prefixLens)
	dst = encodeBinaryPacked(dst, suffixLens)
	for _, s := range suffixes {
		dst = append(dst, s...)
	}
	return dst, nil
}

func (ByteArrayEncoding) DecodeByteArray(dst, src []byte) ([]byte, error) {
	prefixLens, n1, err := decodeBinaryPacked(src)
	if err != nil {
		return dst, fmt.Errorf("delta byte array: prefix lengths: %w", err)
	}
	suffixLens, n2, err := decodeBinaryPacked(src[n1:])
	if err != nil {
		return dst, fmt.Errorf("delta byte array: suffix lengths: %w", err)
	}
	if len(prefixLens) != len(suffixLens) {
		return dst, fmt.Errorf("delta byte array: %d prefix lengths but %d suffix lengths", len(prefixLens), len(suffixLens))
	}

	pos := n1 + n2
	var prev []byte
	for i, prefixLen := range prefixLens {
		suffixLen := int(suffixLens[i])
		if prefixLen < 0 || int(prefixLen) > len(prev) {
			return dst, fmt.Errorf("delta byte array: prefix length %d exceeds previous value length %d", prefixLen, len(prev))
		}
		if suffixLen < 0 || pos+suffixLen > len(src) {
			return dst, fmt.Errorf("delta byte array: suffix overruns input")
		}
		v := make([]byte, int(prefixLen)+suffixLen)
		copy(v, prev[:prefixLen])
		copy(v[prefixLen:], src[pos:pos+suffixLen])
		pos += suffixLen

		dst = plain.AppendByteArray(dst, v)
		prev = v
	}
	return dst, nil
}

func commonPrefixLen(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}
