package parquet

import (
	"fmt"
	"io"
	"sync"

	"github.com/parquetcore/parquet/compress"
	"github.com/parquetcore/parquet/compress/brotli"
	"github.com/parquetcore/parquet/compress/gzip"
	"github.com/parquetcore/parquet/compress/lz4"
	"github.com/parquetcore/parquet/compress/lz4raw"
	"github.com/parquetcore/parquet/compress/snappy"
	"github.com/parquetcore/parquet/compress/uncompressed"
	"github.com/parquetcore/parquet/compress/zstd"
	"github.com/parquetcore/parquet/format"
)

var (
	// Uncompressed is a parquet compression codec representing
	// uncompressed pages.
	Uncompressed uncompressed.Codec

	// Snappy is the SNAPPY parquet compression codec.
	Snappy snappy.Codec

	// Gzip is the GZIP parquet compression codec.
	Gzip = gzip.Codec{
		Level: gzip.DefaultCompression,
	}

	// Brotli is the BROTLI parquet compression codec.
	Brotli = brotli.Codec{
		Quality: brotli.DefaultQuality,
		LGWin:   brotli.DefaultLGWin,
	}

	// Zstd is the ZSTD parquet compression codec.
	Zstd zstd.Codec

	// Lz4 is the legacy, Hadoop-framed LZ4 parquet compression codec.
	// Readers need it to open files written by older parquet-mr
	// versions; new files should prefer Lz4Raw.
	Lz4 lz4.Codec

	// Lz4Raw is the LZ4_RAW parquet compression codec.
	Lz4Raw = lz4raw.Codec{
		Level: lz4raw.DefaultLevel,
	}

	// compressionCodecs is indexed by the codec's code in the parquet
	// format.
	compressionCodecs = [...]compress.Codec{
		format.Uncompressed: &Uncompressed,
		format.Snappy:       &Snappy,
		format.Gzip:         &Gzip,
		format.Brotli:       &Brotli,
		format.Zstd:         &Zstd,
		format.LZ4Codec:     &Lz4,
		format.LZ4Raw:       &Lz4Raw,
	}

	// compressedPageReaders pools compression codec readers across page
	// reads, indexed the same way as compressionCodecs, so opening many
	// pages of the same codec does not keep allocating new decoders.
	compressedPageReaders [len(compressionCodecs)]sync.Pool
)

func lookupCompressionCodec(codec format.CompressionCodec) compress.Codec {
	if codec >= 0 && int(codec) < len(compressionCodecs) {
		if c := compressionCodecs[codec]; c != nil {
			return c
		}
	}
	return &unsupportedCodec{codec}
}

func acquireCompressedPageReader(codec format.CompressionCodec, page io.Reader) *compressedPageReader {
	r, _ := compressedPageReaders[codec].Get().(*compressedPageReader)
	if r == nil {
		r = &compressedPageReader{codec: codec}
		r.reader, r.err = lookupCompressionCodec(codec).NewReader(page)
	} else {
		r.Reset(page)
	}
	return r
}

func releaseCompressedPageReader(r *compressedPageReader) {
	r.Reset(nil)
	compressedPageReaders[r.codec].Put(r)
}

type compressedPageReader struct {
	codec  format.CompressionCodec
	reader compress.Reader
	err    error
}

func (r *compressedPageReader) Close() error {
	if r.reader == nil {
		return r.err
	}
	return r.reader.Close()
}

func (r *compressedPageReader) Read(b []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	return r.reader.Read(b)
}

func (r *compressedPageReader) Reset(page io.Reader) {
	if r.reader != nil {
		r.err = r.reader.Reset(page)
	}
}

type unsupportedCodec struct{ codec format.CompressionCodec }

func (u *unsupportedCodec) String() string { return u.codec.String() }

func (u *unsupportedCodec) CompressionCodec() format.CompressionCodec {
	return u.codec
}

func (u *unsupportedCodec) Encode(dst, src []byte) ([]byte, error) {
	return dst, u.error()
}

func (u *unsupportedCodec) Decode(dst, src []byte) ([]byte, error) {
	return dst, u.error()
}

func (u *unsupportedCodec) NewReader(r io.Reader) (compress.Reader, error) {
	return nil, u.error()
}

func (u *unsupportedCodec) NewWriter(w io.Writer) (compress.Writer, error) {
	return nil, u.error()
}

func (u *unsupportedCodec) error() error {
	return fmt.Errorf("%s codec: %w", u.codec, ErrFeatureNotActive)
}
