package parquet

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/parquetcore/parquet/format"
	"github.com/parquetcore/parquet/thrift"
)

// PageReader produces, in file order, the [DictionaryPage?] DataPage*
// sequence that makes up one column chunk:
//
//	Start → (header) → Dict? → DataN*
//	Dict   : next header must be Dictionary → emit → goto Data1
//	DataN  : next header must be DataV1|DataV2 → emit
//	         if Σ(value_count) == chunk.NumValues → Terminal
//	         else stay in DataN
//
// A PageReader reads sequentially and never seeks backwards; it keeps
// one reusable payload buffer and one reusable decompression buffer for
// the lifetime of the chunk iteration.
type PageReader struct {
	chunk       *ColumnChunk
	src         io.Reader
	dec         *thrift.StreamDecoder
	maxPageSize int

	payload   []byte
	decompBuf []byte

	seenDictionary bool
	valuesRead     int64
	done           bool
}

func newPageReader(chunk *ColumnChunk, src io.Reader, maxPageSize int) *PageReader {
	br := bufio.NewReader(src)
	return &PageReader{
		chunk:       chunk,
		src:         br,
		dec:         thrift.NewStreamDecoder(br),
		maxPageSize: maxPageSize,
	}
}

// Next reads, decompresses and returns the next page. It returns io.EOF
// once the chunk's declared NumValues have all been delivered.
func (r *PageReader) Next() (Page, error) {
	if r.done {
		return Page{}, io.EOF
	}

	var header format.PageHeader
	if err := r.dec.Decode(&header); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return Page{}, fmt.Errorf("%w: column chunk truncated before its declared value count was reached",
				ErrOutOfSpec)
		}
		return Page{}, fmt.Errorf("%w: decoding page header: %v", ErrMalformedMetadata, err)
	}

	switch header.Type {
	case format.DictionaryPage:
		if r.seenDictionary {
			return Page{}, fmt.Errorf("%w: column chunk has more than one dictionary page", ErrOutOfSpec)
		}
		r.seenDictionary = true
	case format.DataPage, format.DataPageV2:
	default:
		return Page{}, fmt.Errorf("%w: unexpected page type %s in column chunk", ErrOutOfSpec, header.Type)
	}

	if header.CompressedPageSize < 0 || header.UncompressedPageSize < 0 {
		return Page{}, fmt.Errorf("%w: negative page size in header", ErrOutOfSpec)
	}
	if r.maxPageSize > 0 && (int(header.CompressedPageSize) > r.maxPageSize || int(header.UncompressedPageSize) > r.maxPageSize) {
		return Page{}, fmt.Errorf("%w: page size %d/%d exceeds configured maximum %d",
			ErrOutOfSpec, header.CompressedPageSize, header.UncompressedPageSize, r.maxPageSize)
	}

	if cap(r.payload) < int(header.CompressedPageSize) {
		r.payload = make([]byte, header.CompressedPageSize)
	} else {
		r.payload = r.payload[:header.CompressedPageSize]
	}
	if _, err := io.ReadFull(r.src, r.payload); err != nil {
		return Page{}, fmt.Errorf("%w: reading page payload: %v", ErrIO, err)
	}

	compressed := CompressedPage{Header: PageHeader{&header}, Data: r.payload}
	page, err := compressed.Decompress(r.decompBuf[:0], r.chunk.Codec())
	if err != nil {
		return Page{}, err
	}
	r.decompBuf = page.Values[:0:cap(page.Values)]

	if v1, ok := page.Header.DataHeaderV1(); ok {
		if page, err = r.splitLevelsV1(page, v1); err != nil {
			return Page{}, err
		}
	}

	if header.Type != format.DictionaryPage {
		r.valuesRead += int64(page.Header.NumValues())
		if r.valuesRead >= r.chunk.NumValues() {
			r.done = true
		}
	}
	return page, nil
}

// splitLevelsV1 carves the repetition and definition level sections out
// of a DataPageHeaderV1 page's undivided Values buffer. Each present
// section is RLE-encoded and prefixed by its own 4-byte little-endian
// byte length (the only level encoding this library supports; the
// format's alternative, BIT_PACKED, was deprecated alongside V1 itself).
func (r *PageReader) splitLevelsV1(page Page, v1 DataPageHeaderV1) (Page, error) {
	col := r.chunk.Column()
	buf := page.Values

	if col.MaxRepetitionLevel > 0 {
		section, rest, err := sliceV1LevelSection(buf, v1.RepetitionLevelEncoding())
		if err != nil {
			return Page{}, fmt.Errorf("repetition levels: %w", err)
		}
		page.RepetitionLevels, buf = section, rest
	}
	if col.MaxDefinitionLevel > 0 {
		section, rest, err := sliceV1LevelSection(buf, v1.DefinitionLevelEncoding())
		if err != nil {
			return Page{}, fmt.Errorf("definition levels: %w", err)
		}
		page.DefinitionLevels, buf = section, rest
	}

	page.Values = buf
	return page, nil
}

func sliceV1LevelSection(buf []byte, enc format.Encoding) (section, rest []byte, err error) {
	if enc != format.RLE {
		return nil, nil, fmt.Errorf("%w: level encoding %s", ErrFeatureNotActive, enc)
	}
	if len(buf) < 4 {
		return nil, nil, fmt.Errorf("%w: truncated level section length prefix", ErrOutOfSpec)
	}
	n := int(binary.LittleEndian.Uint32(buf))
	if n < 0 || 4+n > len(buf) {
		return nil, nil, fmt.Errorf("%w: level section length %d exceeds remaining page payload", ErrOutOfSpec, n)
	}
	return buf[4 : 4+n], buf[4+n:], nil
}
