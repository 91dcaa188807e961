package bloom

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/parquetcore/parquet/deprecated"
	"github.com/parquetcore/parquet/encoding/plain"
)

// Encoder inserts column values into a split-block bloom filter, using
// the same canonical PLAIN byte-array representation the rest of this
// library passes between encodings for variable-length types.
type Encoder struct {
	Filter SplitBlockFilter
}

// Reset clears the encoder's filter so it can be reused.
func (e *Encoder) Reset() {
	e.Filter.Reset()
}

func (e *Encoder) EncodeBoolean(data []bool) {
	for _, v := range data {
		var b [1]byte
		if v {
			b[0] = 1
		}
		e.Filter.Insert(xxhash.Sum64(b[:]))
	}
}

func (e *Encoder) EncodeInt32(data []int32) {
	var b [4]byte
	for _, v := range data {
		binary.LittleEndian.PutUint32(b[:], uint32(v))
		e.Filter.Insert(xxhash.Sum64(b[:]))
	}
}

func (e *Encoder) EncodeInt64(data []int64) {
	var b [8]byte
	for _, v := range data {
		binary.LittleEndian.PutUint64(b[:], uint64(v))
		e.Filter.Insert(xxhash.Sum64(b[:]))
	}
}

func (e *Encoder) EncodeInt96(data []deprecated.Int96) {
	buf := deprecated.Int96ToBytes(data)
	for i := 0; i < len(data); i++ {
		e.Filter.Insert(xxhash.Sum64(buf[i*12 : (i+1)*12]))
	}
}

func (e *Encoder) EncodeFloat(data []float32) {
	var b [4]byte
	for _, v := range data {
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
		e.Filter.Insert(xxhash.Sum64(b[:]))
	}
}

func (e *Encoder) EncodeDouble(data []float64) {
	var b [8]byte
	for _, v := range data {
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
		e.Filter.Insert(xxhash.Sum64(b[:]))
	}
}

// EncodeByteArray inserts every value of the canonical length-prefixed
// PLAIN byte-array buffer data.
func (e *Encoder) EncodeByteArray(data []byte) error {
	return plain.RangeByteArray(data, func(v []byte) error {
		e.Filter.Insert(xxhash.Sum64(v))
		return nil
	})
}

func (e *Encoder) EncodeFixedLenByteArray(size int, data []byte) {
	for i, j := 0, size; j <= len(data); i, j = i+size, j+size {
		e.Filter.Insert(xxhash.Sum64(data[i:j]))
	}
}
