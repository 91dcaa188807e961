// Package lz4 implements the legacy, Hadoop-framed LZ4 parquet
// compression codec (format.LZ4Codec), which parquet-format deprecated
// in favor of LZ4_RAW because the original Hadoop LZ4 codec framing
// was never well specified and proved incompatible across writers.
// Readers must still support it to open files written by older
// parquet-mr versions.
//
// The framing is a sequence of blocks, each prefixed by two big-endian
// uint32 lengths (decompressed size, then compressed size) followed by
// that many bytes of a raw LZ4 block.
package lz4

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"

	"github.com/parquetcore/parquet/compress"
	"github.com/parquetcore/parquet/format"
)

// blockSize is the uncompressed size of each framed block. Hadoop's
// LZ4 codec defaults to a 256KiB buffer; we match that so large pages
// still compress in a small number of blocks.
const blockSize = 256 * 1024

type Codec struct {
	compress.Compressor
	compress.Decompressor
}

func (c *Codec) String() string {
	return "LZ4"
}

func (c *Codec) CompressionCodec() format.CompressionCodec {
	return format.LZ4Codec
}

func (c *Codec) Encode(dst, src []byte) ([]byte, error) {
	return c.Compressor.Encode(dst, src, c.NewWriter)
}

func (c *Codec) Decode(dst, src []byte) ([]byte, error) {
	return c.Decompressor.Decode(dst, src, c.NewReader)
}

func (c *Codec) NewReader(r io.Reader) (compress.Reader, error) {
	return &reader{reader: r}, nil
}

func (c *Codec) NewWriter(w io.Writer) (compress.Writer, error) {
	return &writer{writer: w}, nil
}

type writer struct {
	wbuf   []byte
	zbuf   []byte
	writer io.Writer
}

func (w *writer) Reset(ww io.Writer) error {
	w.wbuf = w.wbuf[:0]
	w.writer = ww
	return nil
}

func (w *writer) Write(b []byte) (int, error) {
	w.wbuf = append(w.wbuf, b...)
	return len(b), nil
}

func (w *writer) Close() error {
	for len(w.wbuf) > 0 {
		n := blockSize
		if n > len(w.wbuf) {
			n = len(w.wbuf)
		}
		block := w.wbuf[:n]
		w.wbuf = w.wbuf[n:]

		limit := lz4.CompressBlockBound(len(block))
		if limit > cap(w.zbuf) {
			w.zbuf = make([]byte, limit)
		} else {
			w.zbuf = w.zbuf[:limit]
		}

		var c lz4.Compressor
		size, err := c.CompressBlock(block, w.zbuf)
		if err != nil {
			return err
		}

		var header [8]byte
		binary.BigEndian.PutUint32(header[0:4], uint32(len(block)))
		binary.BigEndian.PutUint32(header[4:8], uint32(size))
		if _, err := w.writer.Write(header[:]); err != nil {
			return err
		}
		if _, err := w.writer.Write(w.zbuf[:size]); err != nil {
			return err
		}
	}
	return nil
}

type reader struct {
	reader io.Reader
	data   []byte
	offset int
	header [8]byte
	zbuf   []byte
}

func (r *reader) Reset(rr io.Reader) error {
	r.reader = rr
	r.data = r.data[:0]
	r.offset = 0
	return nil
}

func (r *reader) Close() error {
	r.reader = nil
	r.offset = len(r.data)
	return nil
}

func (r *reader) Read(b []byte) (int, error) {
	for r.offset == len(r.data) {
		if r.reader == nil {
			return 0, io.EOF
		}
		if err := r.readBlock(); err != nil {
			return 0, err
		}
	}
	n := copy(b, r.data[r.offset:])
	r.offset += n
	return n, nil
}

func (r *reader) readBlock() error {
	if _, err := io.ReadFull(r.reader, r.header[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return fmt.Errorf("lz4: truncated block header: %w", err)
		}
		return err
	}
	decompressedSize := binary.BigEndian.Uint32(r.header[0:4])
	compressedSize := binary.BigEndian.Uint32(r.header[4:8])

	if cap(r.zbuf) < int(compressedSize) {
		r.zbuf = make([]byte, compressedSize)
	} else {
		r.zbuf = r.zbuf[:compressedSize]
	}
	if _, err := io.ReadFull(r.reader, r.zbuf); err != nil {
		return fmt.Errorf("lz4: truncated block body: %w", err)
	}

	if cap(r.data) < int(decompressedSize) {
		r.data = make([]byte, decompressedSize)
	} else {
		r.data = r.data[:decompressedSize]
	}
	n, err := lz4.UncompressBlock(r.zbuf, r.data)
	if err != nil {
		return fmt.Errorf("lz4: %w", err)
	}
	r.data = r.data[:n]
	r.offset = 0
	return nil
}
