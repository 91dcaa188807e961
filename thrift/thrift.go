// Package thrift implements a reflection-based encoder and decoder for
// the subset of the Thrift compact protocol that the parquet-format
// footer and page headers use: structs, lists, binary/string, booleans,
// and varint-encoded integers.
//
// Unlike a general-purpose thrift library, this package reads its field
// layout directly from Go struct tags (`thrift:"<id>,<required|optional>"`)
// rather than from a generated descriptor, the same approach taken by
// parquet-go/parquet-go's internal encoding/thrift package for the same
// file format.
package thrift

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"reflect"
)

// Marshal appends the compact-protocol encoding of v (a pointer to a
// struct, or a struct) to dst and returns the extended slice.
func Marshal(dst []byte, v interface{}) ([]byte, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return dst, fmt.Errorf("thrift: Marshal called with nil %s", rv.Type())
		}
		rv = rv.Elem()
	}
	e := &encoder{buf: dst}
	if err := e.writeStruct(rv); err != nil {
		return e.buf, err
	}
	return e.buf, nil
}

// Unmarshal decodes a compact-protocol struct from data into v (which
// must be a non-nil pointer to a struct).
func Unmarshal(data []byte, v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("thrift: Unmarshal called with %s, want non-nil pointer", rv.Type())
	}
	d := &decoder{r: bytes.NewReader(data)}
	return d.readStruct(rv.Elem())
}

// StreamDecoder decodes a sequence of compact-protocol structs read
// back-to-back from a stream, such as the PageHeader that precedes
// every page payload: unlike Unmarshal it has no length prefix to work
// from, it simply stops at each struct's own stop byte and leaves the
// stream positioned at the first byte of whatever follows.
type StreamDecoder struct {
	r *bufio.Reader
}

// NewStreamDecoder returns a StreamDecoder reading from r.
func NewStreamDecoder(r io.Reader) *StreamDecoder {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &StreamDecoder{r: br}
}

// Decode reads one compact-protocol struct into v.
func (s *StreamDecoder) Decode(v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("thrift: Decode called with %s, want non-nil pointer", rv.Type())
	}
	d := &decoder{r: s.r}
	return d.readStruct(rv.Elem())
}
