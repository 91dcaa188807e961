package plain

import (
	"encoding/binary"
	"fmt"
)

// ByteArrayLengthSize is the size, in bytes, of the length prefix that
// precedes every value in the canonical PLAIN byte-array representation
// this library passes between encodings: a run of
// `uint32_le(len) ++ bytes` records concatenated with no padding.
const ByteArrayLengthSize = 4

// ValidateByteArray checks that data is a well-formed sequence of
// length-prefixed byte-array records, returning the number of values.
func ValidateByteArray(data []byte) (count int, err error) {
	for i := 0; i < len(data); {
		if i+ByteArrayLengthSize > len(data) {
			return count, fmt.Errorf("plain: truncated byte array length prefix at offset %d", i)
		}
		n := int(binary.LittleEndian.Uint32(data[i:]))
		i += ByteArrayLengthSize
		if n < 0 || i+n > len(data) {
			return count, fmt.Errorf("plain: byte array value at offset %d overruns input (len=%d)", i, n)
		}
		i += n
		count++
	}
	return count, nil
}

// RangeByteArray calls f with each value found in the canonical
// length-prefixed PLAIN byte-array representation data, stopping and
// returning f's error if it returns non-nil.
func RangeByteArray(data []byte, f func(value []byte) error) error {
	for i := 0; i < len(data); {
		n := int(binary.LittleEndian.Uint32(data[i:]))
		i += ByteArrayLengthSize
		if err := f(data[i : i+n]); err != nil {
			return err
		}
		i += n
	}
	return nil
}

// NextByteArray returns the value starting at offset i of the canonical
// length-prefixed PLAIN byte-array representation data, along with the
// offset of the record that follows it.
func NextByteArray(data []byte, i int) (value []byte, next int) {
	n := int(binary.LittleEndian.Uint32(data[i:]))
	i += ByteArrayLengthSize
	return data[i : i+n], i + n
}

// AppendByteArray appends one length-prefixed value to dst in the
// canonical PLAIN byte-array representation.
func AppendByteArray(dst []byte, value []byte) []byte {
	var length [ByteArrayLengthSize]byte
	binary.LittleEndian.PutUint32(length[:], uint32(len(value)))
	dst = append(dst, length[:]...)
	dst = append(dst, value...)
	return dst
}
