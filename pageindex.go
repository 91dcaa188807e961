package parquet

import (
	"fmt"
	"io"

	"github.com/parquetcore/parquet/format"
)

// PageStats is the per-page summary a PageFilter predicate is evaluated
// against: the bounds and null information recorded in a column's
// ColumnIndex sidecar for one data page, without having read or
// decompressed the page itself.
type PageStats struct {
	Min, Max  []byte
	NullPage  bool
	NullCount int64
}

// PageFilter is a caller-supplied predicate deciding whether a page is
// worth reading. It must be side-effect-free and safe to call from any
// goroutine; the page index layer never mutates what it is given and
// never retains a reference to the predicate beyond the SelectPages
// call that received it.
type PageFilter func(*ColumnChunk, PageStats) bool

// Interval is an inclusive-start, exclusive-end row range within one
// page, expressed as row offsets within the row group.
type Interval struct {
	Start, End int64
}

// FilteredPage is one data page selected by SelectPages: its on-disk
// byte range and the row intervals within it that survived the
// predicate's associated row-level filtering.
type FilteredPage struct {
	Offset      int64
	Length      int32
	FirstRow    int64
	NumRows     int64
	SelectedRows []Interval
}

// SelectPages evaluates predicate against every data page of chunk's
// column index, returning the subset of pages it accepts, in file
// order. It requires both a ColumnIndex and OffsetIndex for the chunk;
// callers should check File.ColumnIndexes/OffsetIndexes non-empty (or
// call ReadPageIndex) first. rowGroupNumRows bounds the last page's row
// count, since the offset index does not record an explicit end.
//
// Every returned FilteredPage's SelectedRows covers its full row range
// ([FirstRow, FirstRow+NumRows)): row-level filtering within a page is
// a caller concern once it has decoded the page's values; this layer
// only decides which pages are worth reading at all. Concatenating
// SelectedRows across the returned pages yields a strictly increasing
// sequence bounded by rowGroupNumRows, matching the page ordering
// invariant the on-disk offset index guarantees.
func SelectPages(chunk *ColumnChunk, index *format.ColumnIndex, offsets *format.OffsetIndex, rowGroupNumRows int64, predicate PageFilter) ([]FilteredPage, error) {
	n := len(offsets.PageLocations)
	if len(index.MinValues) != n || len(index.MaxValues) != n || len(index.NullPages) != n {
		return nil, fmt.Errorf("%w: column index has %d/%d/%d entries, offset index has %d pages",
			ErrOutOfSpec, len(index.MinValues), len(index.MaxValues), len(index.NullPages), n)
	}

	var nullCounts []int64
	if len(index.NullCounts) == n {
		nullCounts = index.NullCounts
	}

	var filtered []FilteredPage
	for i, loc := range offsets.PageLocations {
		stats := PageStats{
			Min:      index.MinValues[i],
			Max:      index.MaxValues[i],
			NullPage: index.NullPages[i],
		}
		if nullCounts != nil {
			stats.NullCount = nullCounts[i]
		}

		if predicate != nil && !predicate(chunk, stats) {
			continue
		}

		firstRow := loc.FirstRowIndex
		var endRow int64
		if i+1 < n {
			endRow = offsets.PageLocations[i+1].FirstRowIndex
		} else {
			endRow = rowGroupNumRows
		}
		if endRow < firstRow {
			return nil, fmt.Errorf("%w: offset index page %d has first row %d past the following page's %d",
				ErrOutOfSpec, i, firstRow, endRow)
		}

		filtered = append(filtered, FilteredPage{
			Offset:       loc.Offset,
			Length:       loc.CompressedPageSize,
			FirstRow:     firstRow,
			NumRows:      endRow - firstRow,
			SelectedRows: []Interval{{Start: firstRow, End: endRow}},
		})
	}

	return filtered, nil
}

// HasPageIndex reports whether chunk's offset/column index sidecars
// were recorded by the writer.
func (c *ColumnChunk) HasPageIndex() bool {
	_, _, ok := c.ColumnIndexLocation()
	if !ok {
		return false
	}
	_, _, ok = c.OffsetIndexLocation()
	return ok
}

// ColumnIndexFor returns the column index entry for chunk out of the
// file-wide, row-group-major ColumnIndexes slice File.ColumnIndexes
// returns, given the row group and column ordinals chunk came from.
func ColumnIndexFor(indexes []format.ColumnIndex, numColumns, rowGroup, column int) (*format.ColumnIndex, bool) {
	i := rowGroup*numColumns + column
	if i < 0 || i >= len(indexes) {
		return nil, false
	}
	return &indexes[i], true
}

// OffsetIndexFor is the OffsetIndex counterpart of ColumnIndexFor.
func OffsetIndexFor(indexes []format.OffsetIndex, numColumns, rowGroup, column int) (*format.OffsetIndex, bool) {
	i := rowGroup*numColumns + column
	if i < 0 || i >= len(indexes) {
		return nil, false
	}
	return &indexes[i], true
}

// SeekingPageReader wraps a PageReader over a chunk's section, but only
// materializes the byte ranges named by pages, skipping (via seek, not
// read) everything in between. src must support io.Seeker in addition
// to io.Reader; typically an io.SectionReader over the file.
type SeekingPageReader struct {
	chunk       *ColumnChunk
	src         ReadSeeker
	maxPageSize int
	pages       []FilteredPage
	next        int
	base        int64
}

// ReadSeeker is the minimal byte-source contract SeekingPageReader
// needs: sequential reads plus absolute seeks, matching the read/seek
// byte-source contract of §6.
type ReadSeeker interface {
	Read([]byte) (int, error)
	Seek(offset int64, whence int) (int64, error)
}

// NewSeekingPageReader builds a reader that visits exactly the pages
// pages names, in the order given, seeking over the gaps between them
// rather than reading through them. base is the absolute file offset
// that pages' Offset fields are relative to (0 when they were read via
// File.OffsetIndexes, which already stores absolute offsets).
func NewSeekingPageReader(chunk *ColumnChunk, src ReadSeeker, maxPageSize int, pages []FilteredPage, base int64) *SeekingPageReader {
	return &SeekingPageReader{chunk: chunk, src: src, maxPageSize: maxPageSize, pages: pages, base: base}
}

// Next seeks to the next selected page and decodes it, returning io.EOF
// once every page named at construction has been delivered.
func (r *SeekingPageReader) Next() (Page, FilteredPage, error) {
	if r.next >= len(r.pages) {
		return Page{}, FilteredPage{}, io.EOF
	}
	fp := r.pages[r.next]
	r.next++

	if _, err := r.src.Seek(r.base+fp.Offset, 0); err != nil {
		return Page{}, FilteredPage{}, fmt.Errorf("%w: seeking to page at offset %d: %v", ErrIO, fp.Offset, err)
	}

	pr := newPageReader(r.chunk, &limitedReadSeeker{r: r.src, n: int64(fp.Length)}, r.maxPageSize)
	page, err := pr.Next()
	if err != nil {
		return Page{}, FilteredPage{}, err
	}
	return page, fp, nil
}

// limitedReadSeeker bounds reads to a page's declared byte length, so a
// PageReader built over it cannot read into whatever follows the page
// on disk.
type limitedReadSeeker struct {
	r ReadSeeker
	n int64
}

func (l *limitedReadSeeker) Read(b []byte) (int, error) {
	if l.n <= 0 {
		return 0, io.EOF
	}
	if int64(len(b)) > l.n {
		b = b[:l.n]
	}
	n, err := l.r.Read(b)
	l.n -= int64(n)
	return n, err
}
