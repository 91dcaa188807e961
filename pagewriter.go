package parquet

import (
	"fmt"
	"hash/crc32"
	"io"

	"github.com/parquetcore/parquet/format"
	"github.com/parquetcore/parquet/thrift"
)

// PageWriter appends compressed pages to a column chunk's section of a
// file, in the order Start → Dict? → DataN*, and accumulates the
// metadata a finished column chunk must carry: byte counts, recorded
// encodings, the dictionary/data page offsets, and chunk-level
// statistics folded from each page's own.
//
// PageWriter does not encode or compress values itself; it is handed
// already-encoded page payloads (the codec's job ends where the page
// pipeline begins) and is responsible only for framing, bookkeeping and
// I/O, matching how the write path mirrors PageReader on the read side.
type PageWriter struct {
	dst      io.Writer
	typ      format.Type
	codec    format.CompressionCodec
	writeCRC bool

	offset               int64
	dictionaryPageOffset int64
	firstDataPageOffset  int64
	haveDictionary       bool
	haveDataPage         bool

	compressedSize   int64
	uncompressedSize int64
	numValues        int64

	encodings  map[format.Encoding]struct{}
	statistics *statisticsBuilder

	// Page-index bookkeeping: one entry per data page, in file order,
	// mirroring the ColumnIndex/OffsetIndex sidecars a reader consumes
	// via File.ReadPageIndex.
	pageLocations []format.PageLocation
	nextFirstRow  int64
	colNullPages  []bool
	colMinValues  [][]byte
	colMaxValues  [][]byte
	colNullCounts []int64
	haveNullCount bool

	headerBuf []byte
}

func newPageWriter(dst io.Writer, typ format.Type, codec format.CompressionCodec, writeCRC bool) *PageWriter {
	return &PageWriter{
		dst:        dst,
		typ:        typ,
		codec:      codec,
		writeCRC:   writeCRC,
		encodings:  make(map[format.Encoding]struct{}),
		statistics: newStatisticsBuilder(typ),
	}
}

// WriteDictionaryPage writes a column's dictionary page. It must be
// called at most once, and before any WriteDataPage call.
func (w *PageWriter) WriteDictionaryPage(values []byte, numValues int, encoding format.Encoding, sorted bool) error {
	if w.haveDictionary {
		return fmt.Errorf("%w: column chunk already has a dictionary page", ErrOutOfSpec)
	}
	if w.haveDataPage {
		return fmt.Errorf("%w: dictionary page written after data pages", ErrOutOfSpec)
	}

	compressed, err := w.compress(values)
	if err != nil {
		return fmt.Errorf("compressing dictionary page: %w", err)
	}

	header := &format.PageHeader{
		Type:                  format.DictionaryPage,
		UncompressedPageSize:  int32(len(values)),
		CompressedPageSize:    int32(len(compressed)),
		DictionaryPageHeader: &format.DictionaryPageHeader{
			NumValues: int32(numValues),
			Encoding:  encoding,
		},
	}
	if sorted {
		header.DictionaryPageHeader.IsSorted = &sorted
	}

	w.dictionaryPageOffset = w.offset
	w.haveDictionary = true
	return w.writePage(header, compressed)
}

// WriteDataPageV1 writes a version 1 data page. repetitionLevels and
// definitionLevels must already be RLE-encoded and framed with their
// own 4-byte little-endian length prefix (empty when the column's
// corresponding max level is 0); the three sections are concatenated
// into one payload that is compressed as a whole, matching how V1
// pages share a single compressed envelope between levels and values.
func (w *PageWriter) WriteDataPageV1(repetitionLevels, definitionLevels, values []byte, numValues int, encoding format.Encoding, stats *format.Statistics) error {
	payload := make([]byte, 0, len(repetitionLevels)+len(definitionLevels)+len(values))
	payload = append(payload, repetitionLevels...)
	payload = append(payload, definitionLevels...)
	payload = append(payload, values...)

	compressed, err := w.compress(payload)
	if err != nil {
		return fmt.Errorf("compressing data page: %w", err)
	}

	header := &format.PageHeader{
		Type:                 format.DataPage,
		UncompressedPageSize: int32(len(payload)),
		CompressedPageSize:   int32(len(compressed)),
		DataPageHeader: &format.DataPageHeader{
			NumValues:               int32(numValues),
			Encoding:                encoding,
			DefinitionLevelEncoding: format.RLE,
			RepetitionLevelEncoding: format.RLE,
			Statistics:              stats,
		},
	}

	return w.writeDataPage(header, compressed, numValues, numValues, encoding, stats)
}

// WriteDataPageV2 writes a version 2 data page. repetitionLevels and
// definitionLevels are raw level bytes with no RLE length prefix (V2
// gives their lengths directly in the header) and are never
// compressed, even when compress is true for the values section.
func (w *PageWriter) WriteDataPageV2(repetitionLevels, definitionLevels, values []byte, numValues, numNulls, numRows int, encoding format.Encoding, stats *format.Statistics, compress bool) error {
	var compressedValues []byte
	var err error
	if compress {
		compressedValues, err = w.compress(values)
		if err != nil {
			return fmt.Errorf("compressing data page v2 values: %w", err)
		}
	} else {
		compressedValues = values
	}

	payload := make([]byte, 0, len(repetitionLevels)+len(definitionLevels)+len(compressedValues))
	payload = append(payload, repetitionLevels...)
	payload = append(payload, definitionLevels...)
	payload = append(payload, compressedValues...)

	header := &format.PageHeader{
		Type:                 format.DataPageV2,
		UncompressedPageSize: int32(len(repetitionLevels) + len(definitionLevels) + len(values)),
		CompressedPageSize:   int32(len(payload)),
		DataPageHeaderV2: &format.DataPageHeaderV2{
			NumValues:                  int32(numValues),
			NumNulls:                   int32(numNulls),
			NumRows:                    int32(numRows),
			Encoding:                   encoding,
			DefinitionLevelsByteLength: int32(len(definitionLevels)),
			RepetitionLevelsByteLength: int32(len(repetitionLevels)),
			IsCompressed:               compress,
			Statistics:                 stats,
		},
	}

	return w.writeDataPage(header, payload, numValues, numRows, encoding, stats)
}

// writeDataPage records the bookkeeping common to both page versions and
// writes the page itself. numRows is the page's row count for the
// offset index's first_row_index tracking; for V1 pages (which carry no
// explicit row count of their own) the caller passes numValues, which
// is exact for non-repeated columns and a documented approximation for
// repeated ones — V1 readers outside this library make the same
// assumption, and a caller who needs exact row counts for a repeated
// column should prefer V2.
func (w *PageWriter) writeDataPage(header *format.PageHeader, payload []byte, numValues, numRows int, encoding format.Encoding, stats *format.Statistics) error {
	if !w.haveDataPage {
		w.firstDataPageOffset = w.offset
		w.haveDataPage = true
	}
	w.encodings[encoding] = struct{}{}
	w.numValues += int64(numValues)
	w.statistics.Observe(stats)

	start := w.offset
	if err := w.writePage(header, payload); err != nil {
		return err
	}

	w.pageLocations = append(w.pageLocations, format.PageLocation{
		Offset:             start,
		CompressedPageSize: int32(w.offset - start),
		FirstRowIndex:      w.nextFirstRow,
	})
	w.nextFirstRow += int64(numRows)
	w.observePageBounds(stats, numValues)
	return nil
}

// observePageBounds appends one entry to the per-page column index
// arrays. A page with no statistics (or whose statistics omit bounds,
// the all-null case) is recorded as a null page with empty min/max
// bytes, matching what the parquet-format ColumnIndex requires when
// null_pages[i] is true.
func (w *PageWriter) observePageBounds(stats *format.Statistics, numValues int) {
	nullPage := true
	var min, max []byte
	var nullCount int64

	if stats != nil {
		w.haveNullCount = true
		nullCount = stats.NullCount
		min, max = stats.MinValue, stats.MaxValue
		if min == nil && max == nil {
			min, max = stats.Min, stats.Max
		}
		if min != nil && max != nil {
			nullPage = false
		}
	}

	w.colNullPages = append(w.colNullPages, nullPage)
	w.colNullCounts = append(w.colNullCounts, nullCount)
	if nullPage {
		w.colMinValues = append(w.colMinValues, []byte{})
		w.colMaxValues = append(w.colMaxValues, []byte{})
	} else {
		w.colMinValues = append(w.colMinValues, append([]byte(nil), min...))
		w.colMaxValues = append(w.colMaxValues, append([]byte(nil), max...))
	}
}

// OffsetIndex returns the offset index sidecar for this column chunk,
// with every PageLocation.Offset still relative to the writer's own
// first byte; the caller must add the chunk's base file offset (the
// same base passed to ColumnMetaData) before serializing it. Returns
// nil if no data page was written.
func (w *PageWriter) OffsetIndex(base int64) *format.OffsetIndex {
	if len(w.pageLocations) == 0 {
		return nil
	}
	locations := make([]format.PageLocation, len(w.pageLocations))
	for i, loc := range w.pageLocations {
		loc.Offset += base
		locations[i] = loc
	}
	return &format.OffsetIndex{PageLocations: locations}
}

// ColumnIndex returns the column index sidecar for this column chunk.
// Returns nil if no data page was written, or if every data page was
// written with nil statistics (there is nothing to build one from).
func (w *PageWriter) ColumnIndex() *format.ColumnIndex {
	if len(w.colNullPages) == 0 || !w.haveNullCount {
		return nil
	}
	idx := &format.ColumnIndex{
		NullPages:     w.colNullPages,
		MinValues:     w.colMinValues,
		MaxValues:     w.colMaxValues,
		NullCounts:    w.colNullCounts,
		BoundaryOrder: w.boundaryOrder(),
	}
	return idx
}

// boundaryOrder reports whether the non-null pages' min/max values form
// a monotonic sequence under the column's physical-type ordering, the
// same ordering statisticsBuilder uses to fold chunk-level bounds.
func (w *PageWriter) boundaryOrder() format.BoundaryOrder {
	ascending, descending := true, true
	var prevMin, prevMax []byte
	have := false

	for i, null := range w.colNullPages {
		if null {
			continue
		}
		if have {
			if compareValues(w.typ, w.colMinValues[i], prevMin) < 0 {
				ascending = false
			}
			if compareValues(w.typ, w.colMaxValues[i], prevMax) < 0 {
				ascending = false
			}
			if compareValues(w.typ, w.colMinValues[i], prevMin) > 0 {
				descending = false
			}
			if compareValues(w.typ, w.colMaxValues[i], prevMax) > 0 {
				descending = false
			}
		}
		prevMin, prevMax = w.colMinValues[i], w.colMaxValues[i]
		have = true
	}

	switch {
	case !have:
		return format.Unordered
	case ascending:
		return format.Ascending
	case descending:
		return format.Descending
	default:
		return format.Unordered
	}
}

func (w *PageWriter) compress(src []byte) ([]byte, error) {
	return lookupCompressionCodec(w.codec).Encode(nil, src)
}

func (w *PageWriter) writePage(header *format.PageHeader, payload []byte) error {
	if w.writeCRC {
		checksum := int32(crc32.ChecksumIEEE(payload))
		header.CRC = &checksum
	}

	var err error
	w.headerBuf, err = thrift.Marshal(w.headerBuf[:0], header)
	if err != nil {
		return fmt.Errorf("%w: encoding page header: %v", ErrMalformedMetadata, err)
	}

	n, err := w.dst.Write(w.headerBuf)
	w.offset += int64(n)
	if err != nil {
		return fmt.Errorf("%w: writing page header: %v", ErrIO, err)
	}

	n, err = w.dst.Write(payload)
	w.offset += int64(n)
	if err != nil {
		return fmt.Errorf("%w: writing page payload: %v", ErrIO, err)
	}

	w.uncompressedSize += int64(header.UncompressedPageSize)
	w.compressedSize += int64(header.CompressedPageSize)
	return nil
}

// ColumnMetaData returns the accumulated metadata for this column
// chunk's pages. dataPageOffset and (if any) dictionaryPageOffset are
// absolute file offsets, computed by adding base (the file offset this
// writer's first byte landed at) to the offsets recorded relative to
// it; the historical bug of letting a dictionary page's offset collide
// with or follow the data page offset is avoided by recording each
// independently as pages are written, rather than inferring one from
// the other after the fact.
func (w *PageWriter) ColumnMetaData(base int64, pathInSchema []string) *format.ColumnMetaData {
	meta := &format.ColumnMetaData{
		Type:                   w.typ,
		Encodings:              make([]format.Encoding, 0, len(w.encodings)),
		PathInSchema:           pathInSchema,
		Codec:                  w.codec,
		NumValues:              w.numValues,
		TotalUncompressedSize:  w.uncompressedSize,
		TotalCompressedSize:    w.compressedSize,
		DataPageOffset:         base + w.firstDataPageOffset,
		Statistics:             w.statistics.Statistics(),
	}
	for encoding := range w.encodings {
		meta.Encodings = append(meta.Encodings, encoding)
	}
	if w.haveDictionary {
		offset := base + w.dictionaryPageOffset
		meta.DictionaryPageOffset = &offset
	}
	return meta
}
