package thrift_test

import (
	"testing"

	"github.com/parquetcore/parquet/format"
	"github.com/parquetcore/parquet/thrift"
)

func TestRoundTripFileMetaData(t *testing.T) {
	typ := format.ByteArray
	rep := format.Optional
	fieldID := int32(1)

	orig := &format.FileMetaData{
		Version: 1,
		Schema: []format.SchemaElement{
			{Name: "root"},
			{
				Type:           &typ,
				RepetitionType: &rep,
				Name:           "name",
				FieldID:        &fieldID,
				LogicalType:    &format.LogicalType{STRING: &format.StringType{}},
			},
		},
		NumRows: 42,
		RowGroups: []format.RowGroup{
			{
				TotalByteSize: 100,
				NumRows:       42,
				Columns: []format.ColumnChunk{
					{
						FileOffset: 4,
						MetaData: &format.ColumnMetaData{
							Type:                  format.ByteArray,
							Encodings:             []format.Encoding{format.Plain, format.RLEDictionary},
							PathInSchema:          []string{"name"},
							Codec:                 format.Snappy,
							NumValues:             42,
							TotalUncompressedSize: 256,
							TotalCompressedSize:   200,
							DataPageOffset:        4,
							Statistics: &format.Statistics{
								NullCount: 0,
								MinValue:  []byte("a"),
								MaxValue:  []byte("z"),
							},
						},
					},
				},
			},
		},
		KeyValueMetadata: []format.KeyValue{
			{Key: "k1", Value: "v1"},
		},
		CreatedBy: strPtr("parquetcore"),
		ColumnOrders: []format.ColumnOrder{
			{TypeOrder: &format.TypeDefinedOrder{}},
		},
	}

	buf, err := thrift.Marshal(nil, orig)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got format.FileMetaData
	if err := thrift.Unmarshal(buf, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if got.Version != orig.Version {
		t.Fatalf("Version = %d, want %d", got.Version, orig.Version)
	}
	if got.NumRows != orig.NumRows {
		t.Fatalf("NumRows = %d, want %d", got.NumRows, orig.NumRows)
	}
	if len(got.Schema) != len(orig.Schema) {
		t.Fatalf("Schema len = %d, want %d", len(got.Schema), len(orig.Schema))
	}
	if got.Schema[1].Name != "name" || got.Schema[1].LogicalType == nil || got.Schema[1].LogicalType.STRING == nil {
		t.Fatalf("Schema[1] round-trip mismatch: %+v", got.Schema[1])
	}
	if len(got.RowGroups) != 1 || len(got.RowGroups[0].Columns) != 1 {
		t.Fatalf("RowGroups round-trip mismatch: %+v", got.RowGroups)
	}
	md := got.RowGroups[0].Columns[0].MetaData
	if md == nil || md.Codec != format.Snappy || md.NumValues != 42 {
		t.Fatalf("ColumnMetaData round-trip mismatch: %+v", md)
	}
	if md.Statistics == nil || string(md.Statistics.MinValue) != "a" || string(md.Statistics.MaxValue) != "z" {
		t.Fatalf("Statistics round-trip mismatch: %+v", md.Statistics)
	}
	if got.CreatedBy == nil || *got.CreatedBy != "parquetcore" {
		t.Fatalf("CreatedBy round-trip mismatch: %v", got.CreatedBy)
	}
	if len(got.ColumnOrders) != 1 || got.ColumnOrders[0].TypeOrder == nil {
		t.Fatalf("ColumnOrders round-trip mismatch: %+v", got.ColumnOrders)
	}
}

func TestUnknownFieldSkipped(t *testing.T) {
	type v1 struct {
		A int32 `thrift:"1,required"`
		B int32 `thrift:"2,required"`
	}
	type v0 struct {
		A int32 `thrift:"1,required"`
	}

	buf, err := thrift.Marshal(nil, &v1{A: 7, B: 9})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got v0
	if err := thrift.Unmarshal(buf, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.A != 7 {
		t.Fatalf("A = %d, want 7", got.A)
	}
}

// TestBoolListRoundTrip guards against a bug where bool list elements
// were decoded the same way as bool struct fields. A compact-protocol
// bool field carries its value in the field-header nibble with no
// payload byte, but a bool list element is a full byte per element
// (0x01/0x02) since the list header's element-wire-type nibble is
// shared across all elements. Decoding them identically desyncs the
// stream after the first list.
func TestBoolListRoundTrip(t *testing.T) {
	type withBools struct {
		Flags []bool `thrift:"1,required"`
		Tag   int32  `thrift:"2,required"`
	}

	orig := &withBools{
		Flags: []bool{true, false, false, true, true, false},
		Tag:   99,
	}

	buf, err := thrift.Marshal(nil, orig)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got withBools
	if err := thrift.Unmarshal(buf, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(got.Flags) != len(orig.Flags) {
		t.Fatalf("Flags len = %d, want %d", len(got.Flags), len(orig.Flags))
	}
	for i := range orig.Flags {
		if got.Flags[i] != orig.Flags[i] {
			t.Fatalf("Flags[%d] = %v, want %v", i, got.Flags[i], orig.Flags[i])
		}
	}
	if got.Tag != orig.Tag {
		t.Fatalf("Tag = %d, want %d (stream desynced past the bool list)", got.Tag, orig.Tag)
	}
}

// TestColumnIndexRoundTrip exercises the real-world trigger for the
// bool-list bug: format.ColumnIndex.NullPages, decoded whenever a
// file's page-index sidecar is read.
func TestColumnIndexRoundTrip(t *testing.T) {
	order := format.Ascending
	orig := &format.ColumnIndex{
		NullPages:     []bool{false, true, false, false, true},
		MinValues:     [][]byte{[]byte("a"), []byte("b"), []byte("c"), []byte("d"), []byte("e")},
		MaxValues:     [][]byte{[]byte("m"), []byte("n"), []byte("o"), []byte("p"), []byte("q")},
		BoundaryOrder: order,
		NullCounts:    []int64{0, 3, 0, 0, 1},
	}

	buf, err := thrift.Marshal(nil, orig)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got format.ColumnIndex
	if err := thrift.Unmarshal(buf, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if len(got.NullPages) != len(orig.NullPages) {
		t.Fatalf("NullPages len = %d, want %d", len(got.NullPages), len(orig.NullPages))
	}
	for i := range orig.NullPages {
		if got.NullPages[i] != orig.NullPages[i] {
			t.Fatalf("NullPages[%d] = %v, want %v", i, got.NullPages[i], orig.NullPages[i])
		}
	}
	if got.BoundaryOrder != orig.BoundaryOrder {
		t.Fatalf("BoundaryOrder = %v, want %v (stream desynced past NullPages)", got.BoundaryOrder, orig.BoundaryOrder)
	}
	if len(got.MinValues) != len(orig.MinValues) || string(got.MinValues[4]) != "e" {
		t.Fatalf("MinValues round-trip mismatch: %+v", got.MinValues)
	}
	if len(got.NullCounts) != len(orig.NullCounts) || got.NullCounts[1] != 3 {
		t.Fatalf("NullCounts round-trip mismatch: %+v", got.NullCounts)
	}
}

func strPtr(s string) *string { return &s }
