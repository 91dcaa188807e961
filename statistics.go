package parquet

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/parquetcore/parquet/format"
)

// statisticsBuilder accumulates a column chunk's format.Statistics by
// folding in the per-page Statistics a PageWriter observes as it writes
// each page, following the same fold a reader would use to recompute
// chunk bounds from page bounds: min is the least page min, max is the
// greatest page max, and null counts sum. Distinct counts do not have a
// sound monoid across pages (the same value can recur in two pages), so
// a chunk's DistinctCount is only ever the exact one reported for a
// column written as a single page; it is dropped otherwise.
type statisticsBuilder struct {
	typ format.Type

	hasBounds bool
	min, max  []byte

	nullCount     int64
	hasNullCount  bool
	distinctCount int64
	pageCount     int
}

func newStatisticsBuilder(typ format.Type) *statisticsBuilder {
	return &statisticsBuilder{typ: typ}
}

// Observe folds one page's statistics into the running chunk summary.
// A nil stats is valid: it means the page carried no statistics, which
// poisons the chunk's bounds and null count (a chunk's min/max and null
// count are only valid when every one of its pages reported them).
func (s *statisticsBuilder) Observe(stats *format.Statistics) {
	s.pageCount++

	if stats == nil {
		s.hasBounds = false
		s.hasNullCount = false
		return
	}

	s.hasNullCount = s.pageCount == 1 || s.hasNullCount
	s.nullCount += stats.NullCount
	s.distinctCount = stats.DistinctCount

	min, max := stats.MinValue, stats.MaxValue
	if min == nil && max == nil {
		min, max = stats.Min, stats.Max
	}
	if min == nil || max == nil {
		s.hasBounds = false
		return
	}

	if s.pageCount == 1 {
		s.hasBounds = true
		s.min = append(s.min[:0], min...)
		s.max = append(s.max[:0], max...)
		return
	}
	if !s.hasBounds {
		// A prior page poisoned the bounds; once poisoned they stay
		// poisoned for the rest of the chunk.
		return
	}

	if compareValues(s.typ, min, s.min) < 0 {
		s.min = append(s.min[:0], min...)
	}
	if compareValues(s.typ, max, s.max) > 0 {
		s.max = append(s.max[:0], max...)
	}
}

// Statistics returns the accumulated chunk-level statistics, or nil if
// no page was observed or any page was observed without statistics.
func (s *statisticsBuilder) Statistics() *format.Statistics {
	if !s.hasBounds && !s.hasNullCount {
		return nil
	}
	stats := &format.Statistics{}
	if s.hasNullCount {
		stats.NullCount = s.nullCount
	}
	if s.pageCount == 1 {
		stats.DistinctCount = s.distinctCount
	}
	if s.hasBounds {
		stats.MinValue = s.min
		stats.MaxValue = s.max
		// The deprecated Min/Max fields are kept in lockstep for
		// readers that still look at them instead of MinValue/MaxValue.
		stats.Min = s.min
		stats.Max = s.max
	}
	return stats
}

// compareValues orders two PLAIN-encoded scalars of the same physical
// type. BYTE_ARRAY, FIXED_LEN_BYTE_ARRAY and INT96 compare as raw bytes
// (unsigned lexicographic for the first two, which is what the format
// mandates in the absence of a logical type override; INT96 has no
// meaningful total order without its logical type and is only ever
// compared byte-wise for stability). Signed fixed-width numeric types
// are decoded long enough to compare correctly in two's complement /
// IEEE 754 order.
func compareValues(typ format.Type, a, b []byte) int {
	switch typ {
	case format.Int32:
		return compareInt32(a, b)
	case format.Int64:
		return compareInt64(a, b)
	case format.Float:
		return compareFloat32(a, b)
	case format.Double:
		return compareFloat64(a, b)
	case format.Boolean:
		if len(a) == 0 || len(b) == 0 {
			return bytes.Compare(a, b)
		}
		if a[0] == b[0] {
			return 0
		}
		if a[0] == 0 {
			return -1
		}
		return 1
	default: // ByteArray, FixedLenByteArray, Int96
		return bytes.Compare(a, b)
	}
}

func compareInt32(a, b []byte) int {
	if len(a) < 4 || len(b) < 4 {
		return bytes.Compare(a, b)
	}
	x := int32(binary.LittleEndian.Uint32(a))
	y := int32(binary.LittleEndian.Uint32(b))
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

func compareInt64(a, b []byte) int {
	if len(a) < 8 || len(b) < 8 {
		return bytes.Compare(a, b)
	}
	x := int64(binary.LittleEndian.Uint64(a))
	y := int64(binary.LittleEndian.Uint64(b))
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

func compareFloat32(a, b []byte) int {
	if len(a) < 4 || len(b) < 4 {
		return bytes.Compare(a, b)
	}
	x := math.Float32frombits(binary.LittleEndian.Uint32(a))
	y := math.Float32frombits(binary.LittleEndian.Uint32(b))
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

func compareFloat64(a, b []byte) int {
	if len(a) < 8 || len(b) < 8 {
		return bytes.Compare(a, b)
	}
	x := math.Float64frombits(binary.LittleEndian.Uint64(a))
	y := math.Float64frombits(binary.LittleEndian.Uint64(b))
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}
