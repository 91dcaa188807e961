package parquet

import (
	"io"

	"github.com/parquetcore/parquet/format"
	"github.com/parquetcore/parquet/schema"
)

// ColumnChunk is the metadata and on-disk byte range of one leaf
// column's values within one row group.
type ColumnChunk struct {
	column *schema.Column
	chunk  *format.ColumnChunk
}

// Column returns the schema node this chunk stores values for.
func (c *ColumnChunk) Column() *schema.Column { return c.column }

func (c *ColumnChunk) Type() format.Type             { return *c.column.Element.Type }
func (c *ColumnChunk) Codec() format.CompressionCodec { return c.chunk.MetaData.Codec }
func (c *ColumnChunk) NumValues() int64              { return c.chunk.MetaData.NumValues }
func (c *ColumnChunk) TotalCompressedSize() int64    { return c.chunk.MetaData.TotalCompressedSize }
func (c *ColumnChunk) TotalUncompressedSize() int64  { return c.chunk.MetaData.TotalUncompressedSize }
func (c *ColumnChunk) Statistics() *format.Statistics { return c.chunk.MetaData.Statistics }
func (c *ColumnChunk) Encodings() []format.Encoding  { return c.chunk.MetaData.Encodings }
func (c *ColumnChunk) DataPageOffset() int64         { return c.chunk.MetaData.DataPageOffset }

func (c *ColumnChunk) DictionaryPageOffset() (int64, bool) {
	if c.chunk.MetaData.DictionaryPageOffset == nil {
		return 0, false
	}
	return *c.chunk.MetaData.DictionaryPageOffset, true
}

func (c *ColumnChunk) ColumnIndexLocation() (offset int64, length int32, ok bool) {
	if c.chunk.ColumnIndexOffset == nil || c.chunk.ColumnIndexLength == nil {
		return 0, 0, false
	}
	return *c.chunk.ColumnIndexOffset, *c.chunk.ColumnIndexLength, true
}

func (c *ColumnChunk) OffsetIndexLocation() (offset int64, length int32, ok bool) {
	if c.chunk.OffsetIndexOffset == nil || c.chunk.OffsetIndexLength == nil {
		return 0, 0, false
	}
	return *c.chunk.OffsetIndexOffset, *c.chunk.OffsetIndexLength, true
}

func (c *ColumnChunk) BloomFilterOffset() (offset int64, ok bool) {
	if c.chunk.MetaData.BloomFilterOffset == nil {
		return 0, false
	}
	return *c.chunk.MetaData.BloomFilterOffset, true
}

// byteRange returns the [start, end) byte range, within the file, that
// holds this chunk's dictionary page (if any) and data pages.
func (c *ColumnChunk) byteRange() (start, end int64) {
	start = c.chunk.MetaData.DataPageOffset
	if off, ok := c.DictionaryPageOffset(); ok && off < start {
		start = off
	}
	return start, start + c.chunk.MetaData.TotalCompressedSize
}

// Pages returns a PageReader over this chunk's byte range within r,
// enforcing maxPageSize (0 disables the limit) on every page it reads.
func (c *ColumnChunk) Pages(r io.ReaderAt, maxPageSize int) *PageReader {
	start, end := c.byteRange()
	return newPageReader(c, io.NewSectionReader(r, start, end-start), maxPageSize)
}
