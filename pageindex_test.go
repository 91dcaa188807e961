package parquet

import (
	"bytes"
	"testing"

	"github.com/parquetcore/parquet/format"
)

func encodeInt32(v int32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

func buildIndexes(pageMins, pageMaxes []int32, firstRows []int64) (*format.ColumnIndex, *format.OffsetIndex) {
	ci := &format.ColumnIndex{}
	oi := &format.OffsetIndex{}
	for i := range pageMins {
		ci.MinValues = append(ci.MinValues, encodeInt32(pageMins[i]))
		ci.MaxValues = append(ci.MaxValues, encodeInt32(pageMaxes[i]))
		ci.NullPages = append(ci.NullPages, false)
		ci.NullCounts = append(ci.NullCounts, 0)
		oi.PageLocations = append(oi.PageLocations, format.PageLocation{
			Offset:             int64(i) * 100,
			CompressedPageSize: 80,
			FirstRowIndex:      firstRows[i],
		})
	}
	return ci, oi
}

// TestSelectPagesFiltersByBounds verifies that a predicate rejecting
// pages whose [min,max] range cannot contain a target value prunes
// exactly those pages, leaving the rest's row ranges forming a
// strictly increasing sequence bounded by the row group's row count.
func TestSelectPagesFiltersByBounds(t *testing.T) {
	// Three pages of 10 rows each, values increasing monotonically:
	// page 0 covers [0,9], page 1 [10,19], page 2 [20,29].
	ci, oi := buildIndexes(
		[]int32{0, 10, 20},
		[]int32{9, 19, 29},
		[]int64{0, 10, 20},
	)

	target := int32(15)
	predicate := func(_ *ColumnChunk, stats PageStats) bool {
		min := int32(stats.Min[0]) | int32(stats.Min[1])<<8 | int32(stats.Min[2])<<16 | int32(stats.Min[3])<<24
		max := int32(stats.Max[0]) | int32(stats.Max[1])<<8 | int32(stats.Max[2])<<16 | int32(stats.Max[3])<<24
		return min <= target && target <= max
	}

	filtered, err := SelectPages(nil, ci, oi, 30, predicate)
	if err != nil {
		t.Fatalf("SelectPages: %v", err)
	}
	if len(filtered) != 1 {
		t.Fatalf("want 1 selected page, got %d", len(filtered))
	}
	if filtered[0].FirstRow != 10 || filtered[0].NumRows != 10 {
		t.Fatalf("want page covering rows [10,20), got first=%d num=%d", filtered[0].FirstRow, filtered[0].NumRows)
	}
}

// TestSelectPagesNoPredicateCoversAllRows exercises property 8: with no
// predicate, every page is returned and the concatenation of their
// SelectedRows forms a strictly increasing sequence bounded by the row
// group's NumRows.
func TestSelectPagesNoPredicateCoversAllRows(t *testing.T) {
	ci, oi := buildIndexes(
		[]int32{0, 10, 20},
		[]int32{9, 19, 29},
		[]int64{0, 10, 20},
	)

	filtered, err := SelectPages(nil, ci, oi, 30, nil)
	if err != nil {
		t.Fatalf("SelectPages: %v", err)
	}
	if len(filtered) != 3 {
		t.Fatalf("want 3 pages, got %d", len(filtered))
	}

	var prevEnd int64
	for i, fp := range filtered {
		if len(fp.SelectedRows) != 1 {
			t.Fatalf("page %d: want 1 selected interval, got %d", i, len(fp.SelectedRows))
		}
		iv := fp.SelectedRows[0]
		if iv.Start != prevEnd {
			t.Fatalf("page %d: want interval starting at %d, got %d", i, prevEnd, iv.Start)
		}
		if iv.End <= iv.Start {
			t.Fatalf("page %d: interval [%d,%d) is not increasing", i, iv.Start, iv.End)
		}
		prevEnd = iv.End
	}
	if prevEnd != 30 {
		t.Fatalf("want final row bound 30, got %d", prevEnd)
	}
}

func TestSelectPagesRejectsMismatchedIndexLengths(t *testing.T) {
	ci := &format.ColumnIndex{
		MinValues: [][]byte{{0}},
		MaxValues: [][]byte{{1}},
		NullPages: []bool{false},
	}
	oi := &format.OffsetIndex{
		PageLocations: []format.PageLocation{{}, {}},
	}
	if _, err := SelectPages(nil, ci, oi, 10, nil); err == nil {
		t.Fatal("want error for mismatched column/offset index lengths, got nil")
	}
}

func TestLimitedReadSeekerBoundsReads(t *testing.T) {
	src := bytes.NewReader([]byte("0123456789"))
	l := &limitedReadSeeker{r: src, n: 4}

	buf := make([]byte, 10)
	n, err := l.Read(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if n != 4 || string(buf[:n]) != "0123" {
		t.Fatalf("want 4 bytes \"0123\", got %d bytes %q", n, buf[:n])
	}

	n, err = l.Read(buf)
	if n != 0 || err == nil {
		t.Fatalf("want (0, io.EOF) once the limit is exhausted, got (%d, %v)", n, err)
	}
}
