package parquet

import (
	"fmt"

	"github.com/parquetcore/parquet/format"
)

// PageHeader is a read-only view over a page's thrift header, common to
// dictionary and data pages of either version.
type PageHeader struct {
	header *format.PageHeader
}

func (h PageHeader) Type() format.PageType { return h.header.Type }

// UncompressedSize returns the size, in bytes, of the page payload once
// decompressed (for DataPageHeaderV2, this includes the level buffers,
// which are never themselves compressed).
func (h PageHeader) UncompressedSize() int { return int(h.header.UncompressedPageSize) }

// CompressedSize returns the size, in bytes, of the page payload as
// stored on disk.
func (h PageHeader) CompressedSize() int { return int(h.header.CompressedPageSize) }

// CRC returns the page payload's CRC32 checksum, if the writer recorded
// one.
func (h PageHeader) CRC() (checksum int32, ok bool) {
	if h.header.CRC == nil {
		return 0, false
	}
	return *h.header.CRC, true
}

// NumValues returns the page's value count, including nulls, from
// whichever type-specific subheader is present.
func (h PageHeader) NumValues() int {
	switch {
	case h.header.DataPageHeader != nil:
		return int(h.header.DataPageHeader.NumValues)
	case h.header.DataPageHeaderV2 != nil:
		return int(h.header.DataPageHeaderV2.NumValues)
	case h.header.DictionaryPageHeader != nil:
		return int(h.header.DictionaryPageHeader.NumValues)
	default:
		return 0
	}
}

// Encoding returns the value encoding recorded in whichever
// type-specific subheader is present.
func (h PageHeader) Encoding() format.Encoding {
	switch {
	case h.header.DataPageHeader != nil:
		return h.header.DataPageHeader.Encoding
	case h.header.DataPageHeaderV2 != nil:
		return h.header.DataPageHeaderV2.Encoding
	case h.header.DictionaryPageHeader != nil:
		return h.header.DictionaryPageHeader.Encoding
	default:
		return format.Plain
	}
}

// DictionaryHeader returns the DictionaryPageHeader subheader, if h
// describes a dictionary page.
func (h PageHeader) DictionaryHeader() (DictionaryPageHeader, bool) {
	if h.header.DictionaryPageHeader == nil {
		return DictionaryPageHeader{}, false
	}
	return DictionaryPageHeader{h.header.DictionaryPageHeader}, true
}

// DataHeaderV1 returns the DataPageHeader subheader, if h describes a
// version 1 data page.
func (h PageHeader) DataHeaderV1() (DataPageHeaderV1, bool) {
	if h.header.DataPageHeader == nil {
		return DataPageHeaderV1{}, false
	}
	return DataPageHeaderV1{h.header.DataPageHeader}, true
}

// DataHeaderV2 returns the DataPageHeaderV2 subheader, if h describes a
// version 2 data page.
func (h PageHeader) DataHeaderV2() (DataPageHeaderV2, bool) {
	if h.header.DataPageHeaderV2 == nil {
		return DataPageHeaderV2{}, false
	}
	return DataPageHeaderV2{h.header.DataPageHeaderV2}, true
}

func (h PageHeader) String() string {
	return fmt.Sprintf("PAGE_HEADER{Type=%s,NumValues=%d,UncompressedSize=%d,CompressedSize=%d}",
		h.header.Type, h.NumValues(), h.UncompressedSize(), h.CompressedSize())
}

// DictionaryPageHeader is the type-specific subheader of a dictionary
// page.
type DictionaryPageHeader struct{ header *format.DictionaryPageHeader }

func (d DictionaryPageHeader) NumValues() int          { return int(d.header.NumValues) }
func (d DictionaryPageHeader) Encoding() format.Encoding { return d.header.Encoding }
func (d DictionaryPageHeader) IsSorted() bool {
	return d.header.IsSorted != nil && *d.header.IsSorted
}

// DataPageHeaderV1 is the type-specific subheader of a version 1 data
// page. The repetition and definition level sections share the page's
// single compressed envelope with the values, each prefixed by its own
// 4-byte little-endian length when its encoding is RLE/bit-packed.
type DataPageHeaderV1 struct{ header *format.DataPageHeader }

func (v1 DataPageHeaderV1) NumValues() int                       { return int(v1.header.NumValues) }
func (v1 DataPageHeaderV1) Encoding() format.Encoding             { return v1.header.Encoding }
func (v1 DataPageHeaderV1) RepetitionLevelEncoding() format.Encoding {
	return v1.header.RepetitionLevelEncoding
}
func (v1 DataPageHeaderV1) DefinitionLevelEncoding() format.Encoding {
	return v1.header.DefinitionLevelEncoding
}
func (v1 DataPageHeaderV1) Statistics() *format.Statistics { return v1.header.Statistics }

// DataPageHeaderV2 is the type-specific subheader of a version 2 data
// page. Unlike V1, the level sections have explicit byte lengths and
// are never compressed even when IsCompressed is true for the values.
type DataPageHeaderV2 struct{ header *format.DataPageHeaderV2 }

func (v2 DataPageHeaderV2) NumValues() int           { return int(v2.header.NumValues) }
func (v2 DataPageHeaderV2) NumNulls() int            { return int(v2.header.NumNulls) }
func (v2 DataPageHeaderV2) NumRows() int             { return int(v2.header.NumRows) }
func (v2 DataPageHeaderV2) Encoding() format.Encoding { return v2.header.Encoding }
func (v2 DataPageHeaderV2) DefinitionLevelsByteLength() int {
	return int(v2.header.DefinitionLevelsByteLength)
}
func (v2 DataPageHeaderV2) RepetitionLevelsByteLength() int {
	return int(v2.header.RepetitionLevelsByteLength)
}
func (v2 DataPageHeaderV2) IsCompressed() bool             { return v2.header.IsCompressed }
func (v2 DataPageHeaderV2) Statistics() *format.Statistics { return v2.header.Statistics }

// CompressedPage is a page exactly as read off disk: a header plus its
// opaque, still-compressed payload bytes.
type CompressedPage struct {
	Header PageHeader
	Data   []byte
}

// Page is a page after decompression. RepetitionLevels, DefinitionLevels
// and Values are sub-slices of one owned backing buffer (never copies of
// each other), with RepetitionLevels/DefinitionLevels empty until a
// pagereader with schema context has split them out of Values for a
// DataPageHeaderV1 payload; for DataPageHeaderV2 the split is exact
// because the header gives explicit byte lengths.
type Page struct {
	Header           PageHeader
	RepetitionLevels []byte
	DefinitionLevels []byte
	Values           []byte
}

// Decompress decompresses p's payload using codec.
//
// For a DataPageHeaderV2 page the repetition and definition level
// sections are never compressed, even when the values section is; the
// header gives their exact byte lengths, so they are split out of
// p.Data directly and only the values tail goes through codec. For a
// DataPageHeaderV1 or dictionary page the whole payload shares one
// compressed envelope. Splitting a V1 payload's own level sections out
// of Values additionally requires the column's max repetition/
// definition levels, and is done by pagereader, not here.
func (p CompressedPage) Decompress(dst []byte, codec format.CompressionCodec) (Page, error) {
	if v2, ok := p.Header.DataHeaderV2(); ok {
		rep := v2.RepetitionLevelsByteLength()
		def := v2.DefinitionLevelsByteLength()
		if rep < 0 || def < 0 || rep+def > len(p.Data) {
			return Page{}, fmt.Errorf("%w: data page v2 level lengths %d+%d exceed payload size %d",
				ErrOutOfSpec, rep, def, len(p.Data))
		}
		page := Page{
			Header:           p.Header,
			RepetitionLevels: p.Data[:rep],
			DefinitionLevels: p.Data[rep : rep+def],
		}
		values := p.Data[rep+def:]
		if !v2.IsCompressed() {
			page.Values = values
			return page, nil
		}
		c := lookupCompressionCodec(codec)
		buf, err := c.Decode(dst[:0], values)
		if err != nil {
			return Page{}, fmt.Errorf("decompressing data page v2 values: %w", err)
		}
		if want := p.Header.UncompressedSize() - rep - def; len(buf) != want {
			return Page{}, fmt.Errorf("%w: decompressed data page v2 values are %d bytes, header declares %d",
				ErrOutOfSpec, len(buf), want)
		}
		page.Values = buf
		return page, nil
	}

	c := lookupCompressionCodec(codec)
	buf, err := c.Decode(dst[:0], p.Data)
	if err != nil {
		return Page{}, fmt.Errorf("decompressing %s page: %w", p.Header.Type(), err)
	}
	if len(buf) != p.Header.UncompressedSize() {
		return Page{}, fmt.Errorf("%w: decompressed %s page is %d bytes, header declares %d",
			ErrOutOfSpec, p.Header.Type(), len(buf), p.Header.UncompressedSize())
	}
	return Page{Header: p.Header, Values: buf}, nil
}
