package parquet

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/parquetcore/parquet/format"
	"github.com/parquetcore/parquet/schema"
	"github.com/parquetcore/parquet/thrift"
)

// FileWriter assembles a spec-conforming parquet file on a byte sink:
// it writes the leading magic eagerly, sequences one or more row groups
// (each a RowGroupWriter over the same schema), and finalizes by
// serializing the thrift-encoded FileMetaData footer followed by its
// 4-byte little-endian length and the trailing magic.
//
// Like PageWriter, FileWriter never seeks: every offset it records is
// computed by tracking bytes emitted, matching the byte-sink contract
// of §6 (write_all only, no seek required).
type FileWriter struct {
	dst    io.Writer
	config *WriterConfig
	schema *schema.Schema
	offset int64

	numRows   int64
	rowGroups []format.RowGroup
	ended     bool
}

// NewFileWriter builds a FileWriter over dst for the schema described
// by elements (the same flattened, depth-first SchemaElement list a
// reader gets from a footer's Schema field), writing the leading "PAR1"
// magic immediately since nothing may precede it.
func NewFileWriter(dst io.Writer, elements []format.SchemaElement, options ...WriterOption) (*FileWriter, error) {
	config := DefaultWriterConfig()
	config.Apply(options...)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}

	sch, err := schema.New(elements)
	if err != nil {
		return nil, fmt.Errorf("%w: building schema tree: %v", ErrInvalidParameter, err)
	}

	n, err := dst.Write([]byte(magic))
	if err != nil {
		return nil, fmt.Errorf("%w: writing leading magic: %v", ErrIO, err)
	}

	return &FileWriter{dst: dst, config: config, schema: sch, offset: int64(n)}, nil
}

// Schema returns the schema the writer was constructed with.
func (fw *FileWriter) Schema() *schema.Schema { return fw.schema }

// RowGroup begins a new row group. The returned RowGroupWriter's
// columns must be written in schema leaf order and the row group must
// be closed with RowGroupWriter.Close before FileWriter.End is called
// or another row group is begun.
func (fw *FileWriter) RowGroup() *RowGroupWriter {
	return &RowGroupWriter{
		fw:      fw,
		columns: make([]*columnChunkWriter, len(fw.schema.Leaves)),
	}
}

// End finalizes the file: it writes the thrift-serialized FileMetaData
// footer, the footer's 4-byte little-endian length, and the trailing
// magic. End is idempotent on success — calling it again after a
// successful call is a no-op returning nil. End does not check for row
// groups begun via RowGroup that were never closed: such a row group has
// no entry in the footer, although its pages were already written to the
// sink. A prior bug in an earlier async writer
// finalized the footer without first flushing accumulated page
// statistics into the column metadata; because PageWriter folds
// statistics synchronously as each page is written (see
// statisticsBuilder.Observe), ColumnMetaData here is always built from
// already-up-to-date statistics and cannot reproduce that bug — see the
// regression test in writer_test.go.
func (fw *FileWriter) End(keyValueMetadata map[string]string) error {
	if fw.ended {
		return nil
	}

	version := int32(1)
	if fw.config.DataPageVersion == DataPageV2 {
		version = 2
	}

	meta := format.FileMetaData{
		Version:   version,
		Schema:    schema.Flatten(fw.schema.Root),
		NumRows:   fw.numRows,
		RowGroups: fw.rowGroups,
		ColumnOrders: make([]format.ColumnOrder, len(fw.schema.Leaves)),
	}
	for i := range meta.ColumnOrders {
		meta.ColumnOrders[i] = format.ColumnOrder{TypeOrder: &format.TypeDefinedOrder{}}
	}
	if fw.config.CreatedBy != "" {
		createdBy := fw.config.CreatedBy
		meta.CreatedBy = &createdBy
	}
	for k, v := range keyValueMetadata {
		meta.KeyValueMetadata = append(meta.KeyValueMetadata, format.KeyValue{Key: k, Value: v})
	}
	for k, v := range fw.config.KeyValueMetadata {
		meta.KeyValueMetadata = append(meta.KeyValueMetadata, format.KeyValue{Key: k, Value: v})
	}
	format.SortKeyValueMetadata(meta.KeyValueMetadata)

	footer, err := thrift.Marshal(nil, &meta)
	if err != nil {
		return fmt.Errorf("%w: encoding footer metadata: %v", ErrMalformedMetadata, err)
	}

	if _, err := fw.dst.Write(footer); err != nil {
		return fmt.Errorf("%w: writing footer: %v", ErrIO, err)
	}

	var length [4]byte
	binary.LittleEndian.PutUint32(length[:], uint32(len(footer)))
	if _, err := fw.dst.Write(length[:]); err != nil {
		return fmt.Errorf("%w: writing footer length: %v", ErrIO, err)
	}
	if _, err := fw.dst.Write([]byte(magic)); err != nil {
		return fmt.Errorf("%w: writing trailing magic: %v", ErrIO, err)
	}

	fw.ended = true
	return nil
}

// columnChunkWriter pairs a PageWriter with the file offset its first
// byte lands at, so its ColumnMetaData/OffsetIndex can be computed once
// the column is closed.
type columnChunkWriter struct {
	pw   *PageWriter
	base int64
}

// RowGroupWriter sequences the column chunks of one row group onto the
// same sink the FileWriter that created it is writing to. Because the
// sink is write-only, columns must be written and closed in schema leaf
// order: starting column i+1 implicitly closes column i.
type RowGroupWriter struct {
	fw      *FileWriter
	columns []*columnChunkWriter
	current int
	sorting []format.SortingColumn
	closed  bool
}

// Column returns the PageWriter for the i-th leaf column (schema leaf
// order). Columns must be requested in non-decreasing order; requesting
// column i finalizes every column before it that has not already been
// finalized.
func (g *RowGroupWriter) Column(i int) (*PageWriter, error) {
	if g.closed {
		return nil, fmt.Errorf("%w: row group already closed", ErrInvalidParameter)
	}
	if i < 0 || i >= len(g.columns) {
		return nil, fmt.Errorf("%w: row group has %d columns, requested index %d",
			ErrInvalidParameter, len(g.columns), i)
	}
	if i < g.current {
		return nil, fmt.Errorf("%w: column %d already finalized, columns must be written in schema order", ErrInvalidParameter, i)
	}
	if g.columns[i] == nil {
		// The sink is write-only: the column being replaced as "current"
		// has written its last byte already, so its end is exactly where
		// the new column's first byte will land. Advance the file
		// writer's running offset before computing the new column's
		// base, rather than deferring that bookkeeping to Close.
		if prev := g.columns[g.current]; prev != nil {
			g.fw.offset = prev.base + prev.pw.offset
		}
		g.current = i
		leaf := g.fw.schema.Leaves[i]
		pw := newPageWriter(g.fw.dst, *leaf.Element.Type, g.fw.config.Compression, g.fw.config.WriteCRC)
		g.columns[i] = &columnChunkWriter{pw: pw, base: g.fw.offset}
	}
	return g.columns[i].pw, nil
}

// SetSortingColumns records the row group's sort order, to be included
// in its footer entry at Close.
func (g *RowGroupWriter) SetSortingColumns(sorting []format.SortingColumn) {
	g.sorting = sorting
}

// Close finalizes the row group: it builds each column's ColumnMetaData
// and OffsetIndex (plus its ColumnIndex when at least one of the column's
// pages carried statistics), advances the file
// writer's running offset past every byte this row group wrote, and
// appends the row group's footer entry. numRows is the row group's row
// count as the top-level record boundary — distinct from any column's
// own NumValues when the schema nests optional or repeated fields.
func (g *RowGroupWriter) Close(numRows int64) error {
	if g.closed {
		return fmt.Errorf("%w: row group already closed", ErrInvalidParameter)
	}
	for i, c := range g.columns {
		if c == nil {
			return fmt.Errorf("%w: column %d was never written", ErrInvalidParameter, i)
		}
	}

	columns := make([]format.ColumnChunk, len(g.columns))
	var totalByteSize int64
	var offsetIndexes []*format.OffsetIndex
	var columnIndexes []*format.ColumnIndex

	for i, c := range g.columns {
		leaf := g.fw.schema.Leaves[i]
		meta := c.pw.ColumnMetaData(c.base, leaf.Path)
		columns[i] = format.ColumnChunk{FileOffset: c.base, MetaData: meta}
		totalByteSize += meta.TotalUncompressedSize

		offsetIndexes = append(offsetIndexes, c.pw.OffsetIndex(c.base))
		columnIndexes = append(columnIndexes, c.pw.ColumnIndex())

		// c.pw wrote every byte of its section directly to g.fw.dst
		// already; the only thing left to advance is the file writer's
		// own running offset, so the next row group's columns compute
		// correct base offsets.
		g.fw.offset = c.base + c.pw.offset
	}

	// Column/offset index sidecars are appended after every column
	// chunk's pages, in column order, matching how a reader locates them
	// via ColumnChunk.ColumnIndexOffset/OffsetIndexOffset rather than any
	// fixed position relative to the page data.
	for i, idx := range columnIndexes {
		if idx == nil {
			continue
		}
		buf, err := thrift.Marshal(nil, idx)
		if err != nil {
			return fmt.Errorf("%w: encoding column index for column %d: %v", ErrMalformedMetadata, i, err)
		}
		offset := g.fw.offset
		if _, err := g.fw.dst.Write(buf); err != nil {
			return fmt.Errorf("%w: writing column index for column %d: %v", ErrIO, i, err)
		}
		g.fw.offset += int64(len(buf))
		length := int32(len(buf))
		columns[i].ColumnIndexOffset = &offset
		columns[i].ColumnIndexLength = &length
	}
	for i, idx := range offsetIndexes {
		if idx == nil {
			continue
		}
		buf, err := thrift.Marshal(nil, idx)
		if err != nil {
			return fmt.Errorf("%w: encoding offset index for column %d: %v", ErrMalformedMetadata, i, err)
		}
		offset := g.fw.offset
		if _, err := g.fw.dst.Write(buf); err != nil {
			return fmt.Errorf("%w: writing offset index for column %d: %v", ErrIO, i, err)
		}
		g.fw.offset += int64(len(buf))
		length := int32(len(buf))
		columns[i].OffsetIndexOffset = &offset
		columns[i].OffsetIndexLength = &length
	}

	ordinal := int16(len(g.fw.rowGroups))
	totalCompressedSize := int64(0)
	for _, c := range g.columns {
		totalCompressedSize += c.pw.compressedSize
	}
	fileOffset := g.columns[0].base

	g.fw.rowGroups = append(g.fw.rowGroups, format.RowGroup{
		Columns:             columns,
		TotalByteSize:       totalByteSize,
		NumRows:             numRows,
		SortingColumns:      g.sorting,
		FileOffset:          &fileOffset,
		TotalCompressedSize: &totalCompressedSize,
		Ordinal:             &ordinal,
	})
	g.fw.numRows += numRows
	g.closed = true
	return nil
}
