package parquet

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/parquetcore/parquet/format"
	"github.com/parquetcore/parquet/schema"
	"github.com/parquetcore/parquet/thrift"
)

const magic = "PAR1"

// File is an opened parquet file: its footer has been located, parsed
// and validated, but row group column data is read lazily through
// RowGroup.Column(i).Pages.
type File struct {
	reader io.ReaderAt
	size   int64
	config *FileConfig

	metadata format.FileMetaData
	schema   *schema.Schema
	rowGroups []RowGroup

	columnIndexes []format.ColumnIndex
	offsetIndexes []format.OffsetIndex
}

// OpenFile locates and parses the footer of a parquet file occupying
// bytes [0, size) of r: it checks the leading and trailing "PAR1" magic,
// reads the thrift-encoded FileMetaData footer, builds the column
// schema tree, and (unless SkipPageIndex is set) eagerly reads the
// column/offset index sidecars. Bloom filters are not read here; they are
// read on demand by BloomFilterHeader and MightContain. Column chunk page
// data is left untouched; opening a file does not validate page
// checksums or decode any values.
func OpenFile(r io.ReaderAt, size int64, options ...FileOption) (*File, error) {
	config := DefaultFileConfig()
	config.Apply(options...)

	if size < int64(len(magic))*2+8 {
		return nil, fmt.Errorf("%w: file is too small (%d bytes) to hold a parquet footer", ErrOutOfSpec, size)
	}

	head := make([]byte, len(magic))
	if _, err := r.ReadAt(head, 0); err != nil {
		return nil, fmt.Errorf("%w: reading leading magic: %v", ErrIO, err)
	}
	if string(head) != magic {
		return nil, fmt.Errorf("%w: leading magic is %q, not %q", ErrOutOfSpec, head, magic)
	}

	tail := make([]byte, 8)
	if _, err := r.ReadAt(tail, size-8); err != nil {
		return nil, fmt.Errorf("%w: reading trailing magic: %v", ErrIO, err)
	}
	if string(tail[4:]) != magic {
		return nil, fmt.Errorf("%w: trailing magic is %q, not %q", ErrOutOfSpec, tail[4:], magic)
	}

	footerLength := int64(binary.LittleEndian.Uint32(tail[:4]))
	if footerLength < 0 || footerLength > size-int64(len(magic))-8 {
		return nil, fmt.Errorf("%w: footer length %d does not fit within the file", ErrOutOfSpec, footerLength)
	}

	footer := make([]byte, footerLength)
	if _, err := r.ReadAt(footer, size-8-footerLength); err != nil {
		return nil, fmt.Errorf("%w: reading footer: %v", ErrIO, err)
	}

	f := &File{reader: r, size: size, config: config}
	if err := thrift.Unmarshal(footer, &f.metadata); err != nil {
		return nil, fmt.Errorf("%w: decoding footer metadata: %v", ErrMalformedMetadata, err)
	}
	if len(f.metadata.Schema) == 0 {
		return nil, fmt.Errorf("%w: footer has no schema elements", ErrOutOfSpec)
	}

	sch, err := schema.New(f.metadata.Schema)
	if err != nil {
		return nil, fmt.Errorf("%w: building schema tree: %v", ErrMalformedMetadata, err)
	}
	f.schema = sch

	f.rowGroups = make([]RowGroup, len(f.metadata.RowGroups))
	for i := range f.metadata.RowGroups {
		f.rowGroups[i] = RowGroup{schema: sch, group: &f.metadata.RowGroups[i]}
	}

	if !config.SkipPageIndex {
		columnIndexes, offsetIndexes, err := f.ReadPageIndex()
		if err != nil {
			return nil, fmt.Errorf("reading page index: %w", err)
		}
		f.columnIndexes = columnIndexes
		f.offsetIndexes = offsetIndexes
	}

	format.SortKeyValueMetadata(f.metadata.KeyValueMetadata)
	return f, nil
}

func (f *File) NumRows() int64          { return f.metadata.NumRows }
func (f *File) Size() int64             { return f.size }
func (f *File) Schema() *schema.Schema  { return f.schema }
func (f *File) RowGroups() []RowGroup   { return f.rowGroups }
func (f *File) Version() int32          { return f.metadata.Version }

func (f *File) CreatedBy() (string, bool) {
	if f.metadata.CreatedBy == nil {
		return "", false
	}
	return *f.metadata.CreatedBy, true
}

// Lookup returns the value of a footer key/value metadata entry.
func (f *File) Lookup(key string) (value string, ok bool) {
	for _, kv := range f.metadata.KeyValueMetadata {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// ReadAt satisfies io.ReaderAt, bounding reads to the file's size so
// column chunk section readers built against f never read past the
// footer into whatever follows it in the underlying storage.
func (f *File) ReadAt(b []byte, off int64) (int, error) {
	if off < 0 || off >= f.size {
		return 0, io.EOF
	}
	if limit := f.size - off; limit < int64(len(b)) {
		n, err := f.reader.ReadAt(b[:limit], off)
		if err == nil {
			err = io.EOF
		}
		return n, err
	}
	return f.reader.ReadAt(b, off)
}

// ColumnIndexes returns the file's column index sidecars, arranged row
// group major, then column: index (i*numColumns)+j is row group i,
// column j. Empty if the file has no column index or SkipPageIndex
// left it unread.
func (f *File) ColumnIndexes() []format.ColumnIndex { return f.columnIndexes }

// OffsetIndexes returns the file's offset index sidecars, in the same
// row-group-major arrangement as ColumnIndexes.
func (f *File) OffsetIndexes() []format.OffsetIndex { return f.offsetIndexes }

// ReadPageIndex reads the column and offset index sidecars referenced
// by every row group's column chunks. It returns two empty slices and a
// nil error if the first column chunk of the first row group has no
// index offsets recorded (the common case for files written without a
// page index). Useful in combination with SkipPageIndex to defer this
// read until it's actually needed.
func (f *File) ReadPageIndex() ([]format.ColumnIndex, []format.OffsetIndex, error) {
	if len(f.metadata.RowGroups) == 0 || len(f.metadata.RowGroups[0].Columns) == 0 {
		return nil, nil, nil
	}

	first := &f.metadata.RowGroups[0].Columns[0]
	if first.ColumnIndexOffset == nil || first.OffsetIndexOffset == nil {
		return nil, nil, nil
	}

	numRowGroups := len(f.metadata.RowGroups)
	numColumns := len(f.metadata.RowGroups[0].Columns)
	numChunks := numRowGroups * numColumns

	columnIndexes := make([]format.ColumnIndex, numChunks)
	offsetIndexes := make([]format.OffsetIndex, numChunks)

	for i := range f.metadata.RowGroups {
		columns := f.metadata.RowGroups[i].Columns
		if len(columns) != numColumns {
			return nil, nil, fmt.Errorf("%w: row group %d has %d columns, row group 0 has %d",
				ErrOutOfSpec, i, len(columns), numColumns)
		}

		for j := range columns {
			c := &columns[j]
			k := i*numColumns + j

			if off, length, ok := (&ColumnChunk{chunk: c}).ColumnIndexLocation(); ok {
				buf := make([]byte, length)
				if _, err := f.reader.ReadAt(buf, off); err != nil {
					return nil, nil, fmt.Errorf("%w: reading column index for row group %d column %d: %v", ErrIO, i, j, err)
				}
				if err := thrift.Unmarshal(buf, &columnIndexes[k]); err != nil {
					return nil, nil, fmt.Errorf("%w: decoding column index for row group %d column %d: %v", ErrMalformedMetadata, i, j, err)
				}
			}

			if off, length, ok := (&ColumnChunk{chunk: c}).OffsetIndexLocation(); ok {
				buf := make([]byte, length)
				if _, err := f.reader.ReadAt(buf, off); err != nil {
					return nil, nil, fmt.Errorf("%w: reading offset index for row group %d column %d: %v", ErrIO, i, j, err)
				}
				if err := thrift.Unmarshal(buf, &offsetIndexes[k]); err != nil {
					return nil, nil, fmt.Errorf("%w: decoding offset index for row group %d column %d: %v", ErrMalformedMetadata, i, j, err)
				}
			}
		}
	}

	return columnIndexes, offsetIndexes, nil
}

// BloomFilterHeader reads and returns the sidecar header immediately
// preceding a column chunk's bloom filter bitset, along with the byte
// offset its bitset bytes start at. ok is false if the chunk has no
// bloom filter offset recorded.
func (f *File) BloomFilterHeader(chunk *ColumnChunk) (header format.BloomFilterHeader, bitsetOffset int64, ok bool, err error) {
	offset, has := chunk.BloomFilterOffset()
	if !has {
		return format.BloomFilterHeader{}, 0, false, nil
	}

	cr := &countingReader{r: io.NewSectionReader(f.reader, offset, f.size-offset)}
	br := bufio.NewReader(cr)
	dec := thrift.NewStreamDecoder(br)
	if err := dec.Decode(&header); err != nil {
		return format.BloomFilterHeader{}, 0, false, fmt.Errorf("%w: decoding bloom filter header: %v", ErrMalformedMetadata, err)
	}
	if header.Algorithm.Block == nil {
		return format.BloomFilterHeader{}, 0, false, fmt.Errorf("%w: unsupported bloom filter algorithm", ErrFeatureNotActive)
	}
	if header.Hash.XxHash == nil {
		return format.BloomFilterHeader{}, 0, false, fmt.Errorf("%w: unsupported bloom filter hash function", ErrFeatureNotActive)
	}
	if header.Compression.Uncompressed == nil {
		return format.BloomFilterHeader{}, 0, false, fmt.Errorf("%w: unsupported bloom filter compression", ErrFeatureNotActive)
	}

	return header, offset + cr.n - int64(br.Buffered()), true, nil
}

// countingReader tracks how many bytes have been read through it, so
// BloomFilterHeader can locate the bitset that immediately follows a
// thrift-encoded header of otherwise unknown wire length.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(b []byte) (int, error) {
	n, err := c.r.Read(b)
	c.n += int64(n)
	return n, err
}
