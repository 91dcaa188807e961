package deprecated

import (
	"encoding/binary"
	"math/big"
	"math/bits"
)

// Int96 is an implementation of the deprecated INT96 parquet type.
type Int96 [3]uint32

// Negative returns true if i is a negative value.
func (i Int96) Negative() bool {
	return (i[2] >> 31) != 0
}

// Less returns true if i < j.
//
// The method implements a signed comparison between the two operands.
func (i Int96) Less(j Int96) bool {
	if i.Negative() {
		if !j.Negative() {
			return true
		}
	} else {
		if j.Negative() {
			return false
		}
	}
	for k := 2; k >= 0; k-- {
		a, b := i[k], j[k]
		switch {
		case a < b:
			return true
		case a > b:
			return false
		}
	}
	return false
}

// Int converts i to a big.Int representation.
func (i Int96) Int() *big.Int {
	z := new(big.Int)
	z.Or(z, big.NewInt(int64(int32(i[2]))))
	z.Lsh(z, 32)
	z.Or(z, big.NewInt(int64(i[1])))
	z.Lsh(z, 32)
	z.Or(z, big.NewInt(int64(i[0])))
	return z
}

// String returns a string representation of i.
func (i Int96) String() string {
	return i.Int().String()
}

// Len returns the minimum length in bits required to store the value of i.
func (i Int96) Len() int {
	n0 := bits.Len32(i[0])
	n1 := bits.Len32(i[1])
	n2 := bits.Len32(i[2])
	switch {
	case n2 != 0:
		return n2 + 64
	case n1 != 0:
		return n1 + 32
	default:
		return n0
	}
}

// Int96ToBytes converts the slice of Int96 values to a freshly allocated
// slice of little-endian bytes, 12 bytes per value.
func Int96ToBytes(data []Int96) []byte {
	buf := make([]byte, 12*len(data))
	for i, v := range data {
		binary.LittleEndian.PutUint32(buf[i*12+0:], v[0])
		binary.LittleEndian.PutUint32(buf[i*12+4:], v[1])
		binary.LittleEndian.PutUint32(buf[i*12+8:], v[2])
	}
	return buf
}

// BytesToInt96 parses a slice of little-endian 12-byte-per-value records
// into Int96 values. It panics if len(data) is not a multiple of 12.
func BytesToInt96(data []byte) []Int96 {
	if len(data)%12 != 0 {
		panic("deprecated.BytesToInt96: input length is not a multiple of 12")
	}
	out := make([]Int96, len(data)/12)
	for i := range out {
		b := data[i*12:]
		out[i][0] = binary.LittleEndian.Uint32(b[0:4])
		out[i][1] = binary.LittleEndian.Uint32(b[4:8])
		out[i][2] = binary.LittleEndian.Uint32(b[8:12])
	}
	return out
}

func MaxLenInt96(data []Int96) int {
	max := 1
	for i := range data {
		n := data[i].Len()
		if n > max {
			max = n
		}
	}
	return max
}

func MinInt96(data []Int96) (min Int96) {
	if len(data) > 0 {
		min = data[0]
		for _, v := range data[1:] {
			if v.Less(min) {
				min = v
			}
		}
	}
	return min
}

func MaxInt96(data []Int96) (max Int96) {
	if len(data) > 0 {
		max = data[0]
		for _, v := range data[1:] {
			if max.Less(v) {
				max = v
			}
		}
	}
	return max
}

func MinMaxInt96(data []Int96) (min, max Int96) {
	if len(data) > 0 {
		min = data[0]
		max = data[0]
		for _, v := range data[1:] {
			if v.Less(min) {
				min = v
			}
			if max.Less(v) {
				max = v
			}
		}
	}
	return min, max
}

func OrderOfInt96(data []Int96) int {
	if len(data) > 0 {
		if int96AreInAscendingOrder(data) {
			return +1
		}
		if int96AreInDescendingOrder(data) {
			return -1
		}
	}
	return 0
}

func int96AreInAscendingOrder(data []Int96) bool {
	for i := len(data) - 1; i > 0; i-- {
		if data[i].Less(data[i-1]) {
			return false
		}
	}
	return true
}

func int96AreInDescendingOrder(data []Int96) bool {
	for i := len(data) - 1; i > 0; i-- {
		if data[i-1].Less(data[i]) {
			return false
		}
	}
	return true
}
