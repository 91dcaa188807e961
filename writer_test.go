package parquet

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/parquetcore/parquet/encoding/plain"
	"github.com/parquetcore/parquet/format"
)

func int32SchemaElements() []format.SchemaElement {
	required := format.Required
	i32 := format.Int32
	numChildren := int32(1)
	return []format.SchemaElement{
		{Name: "schema", NumChildren: &numChildren},
		{Name: "value", Type: &i32, RepetitionType: &required},
	}
}

func plainInt32Statistics(values []int32) *format.Statistics {
	minV, maxV := values[0], values[0]
	for _, v := range values {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	minBytes := make([]byte, 4)
	maxBytes := make([]byte, 4)
	binary.LittleEndian.PutUint32(minBytes, uint32(minV))
	binary.LittleEndian.PutUint32(maxBytes, uint32(maxV))
	return &format.Statistics{
		NullCount: 0,
		MinValue:  minBytes,
		MaxValue:  maxBytes,
		Min:       minBytes,
		Max:       maxBytes,
	}
}

// TestFileWriterSingleColumnRoundTrip is scenario S2: a single required
// Int32 column holding [1,2,3], written as one V1 data page under
// SNAPPY with statistics, then read back and checked against the
// expected min/max/null_count/num_values and page count.
func TestFileWriterSingleColumnRoundTrip(t *testing.T) {
	values := []int32{1, 2, 3}

	var buf bytes.Buffer
	fw, err := NewFileWriter(&buf, int32SchemaElements(),
		Compression(format.Snappy),
		DataPageVersionOption(DataPageV1),
		WriteStatistics(true),
	)
	if err != nil {
		t.Fatalf("NewFileWriter: %v", err)
	}

	rg := fw.RowGroup()
	pw, err := rg.Column(0)
	if err != nil {
		t.Fatalf("Column(0): %v", err)
	}

	encoded, err := plain.Encoding{}.EncodeInt32(nil, values)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	stats := plainInt32Statistics(values)
	if err := pw.WriteDataPageV1(nil, nil, encoded, len(values), format.Plain, stats); err != nil {
		t.Fatalf("WriteDataPageV1: %v", err)
	}

	if err := rg.Close(int64(len(values))); err != nil {
		t.Fatalf("RowGroupWriter.Close: %v", err)
	}
	if err := fw.End(nil); err != nil {
		t.Fatalf("End: %v", err)
	}

	data := buf.Bytes()
	f, err := OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}

	if f.NumRows() != int64(len(values)) {
		t.Fatalf("want %d rows, got %d", len(values), f.NumRows())
	}
	if len(f.RowGroups()) != 1 {
		t.Fatalf("want 1 row group, got %d", len(f.RowGroups()))
	}

	rgr := f.RowGroups()[0]
	col, err := rgr.Column(0)
	if err != nil {
		t.Fatalf("Column(0): %v", err)
	}
	if col.NumValues() != int64(len(values)) {
		t.Fatalf("want %d values, got %d", len(values), col.NumValues())
	}
	colStats := col.Statistics()
	if colStats == nil {
		t.Fatal("want column statistics, got nil")
	}
	if colStats.NullCount != 0 {
		t.Fatalf("want null_count 0, got %d", colStats.NullCount)
	}
	if got := int32(binary.LittleEndian.Uint32(colStats.MinValue)); got != 1 {
		t.Fatalf("want min 1, got %d", got)
	}
	if got := int32(binary.LittleEndian.Uint32(colStats.MaxValue)); got != 3 {
		t.Fatalf("want max 3, got %d", got)
	}

	pr := col.Pages(f, 0)
	page, err := pr.Next()
	if err != nil {
		t.Fatalf("Pages.Next: %v", err)
	}
	got, err := plain.Encoding{}.DecodeInt32(nil, page.Values)
	if err != nil {
		t.Fatalf("decode page values: %v", err)
	}
	if len(got) != len(values) {
		t.Fatalf("want %d decoded values, got %d", len(values), len(got))
	}
	for i := range values {
		if got[i] != values[i] {
			t.Fatalf("value %d: want %d, got %d", i, values[i], got[i])
		}
	}

	if _, err := pr.Next(); err == nil {
		t.Fatal("want exactly one page, got a second")
	}
}

// TestFileWriterEndIsIdempotent exercises the documented contract that
// calling End a second time after a successful call is a harmless no-op
// rather than re-writing (and duplicating) the footer.
func TestFileWriterEndIsIdempotent(t *testing.T) {
	var buf bytes.Buffer
	fw, err := NewFileWriter(&buf, int32SchemaElements())
	if err != nil {
		t.Fatalf("NewFileWriter: %v", err)
	}
	rg := fw.RowGroup()
	pw, err := rg.Column(0)
	if err != nil {
		t.Fatalf("Column(0): %v", err)
	}
	encoded, _ := plain.Encoding{}.EncodeInt32(nil, []int32{1})
	if err := pw.WriteDataPageV1(nil, nil, encoded, 1, format.Plain, nil); err != nil {
		t.Fatalf("WriteDataPageV1: %v", err)
	}
	if err := rg.Close(1); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := fw.End(nil); err != nil {
		t.Fatalf("End: %v", err)
	}

	afterFirstEnd := append([]byte(nil), buf.Bytes()...)
	if err := fw.End(nil); err != nil {
		t.Fatalf("second End: %v", err)
	}
	if !bytes.Equal(afterFirstEnd, buf.Bytes()) {
		t.Fatal("End was not idempotent: calling it again wrote more bytes")
	}
}

// TestFileWriterRegressionStatisticsAlwaysFresh guards against the
// historical bug described in FileWriter.End: a column's statistics
// must already be up to date by the time ColumnMetaData is built,
// because PageWriter folds them synchronously as each page is written
// rather than on some deferred flush a finalizer could race with.
func TestFileWriterRegressionStatisticsAlwaysFresh(t *testing.T) {
	var buf bytes.Buffer
	fw, err := NewFileWriter(&buf, int32SchemaElements())
	if err != nil {
		t.Fatalf("NewFileWriter: %v", err)
	}
	rg := fw.RowGroup()
	pw, err := rg.Column(0)
	if err != nil {
		t.Fatalf("Column(0): %v", err)
	}

	values := []int32{10, 20}
	encoded, _ := plain.Encoding{}.EncodeInt32(nil, values)
	stats := plainInt32Statistics(values)
	if err := pw.WriteDataPageV1(nil, nil, encoded, len(values), format.Plain, stats); err != nil {
		t.Fatalf("WriteDataPageV1: %v", err)
	}

	// ColumnMetaData is built from the PageWriter's already-folded
	// statistics synchronously, with no separate flush step to race.
	meta := pw.ColumnMetaData(0, []string{"value"})
	if meta.Statistics == nil {
		t.Fatal("want non-nil statistics immediately after writing the only page")
	}
	if got := int32(binary.LittleEndian.Uint32(meta.Statistics.MinValue)); got != 10 {
		t.Fatalf("want min 10, got %d", got)
	}

	if err := rg.Close(int64(len(values))); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := fw.End(nil); err != nil {
		t.Fatalf("End: %v", err)
	}
}
