package delta

import (
	"reflect"
	"testing"

	"github.com/parquetcore/parquet/encoding/plain"
)

func TestLengthByteArrayRoundTrip(t *testing.T) {
	values := [][]byte{[]byte("parquet"), []byte(""), []byte("column"), []byte("a")}

	var src []byte
	for _, v := range values {
		src = plain.AppendByteArray(src, v)
	}

	enc := LengthByteArrayEncoding{}
	buf, err := enc.EncodeByteArray(nil, src)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	got, err := enc.DecodeByteArray(nil, buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	var gotValues [][]byte
	err = plain.RangeByteArray(got, func(v []byte) error {
		gotValues = append(gotValues, append([]byte{}, v...))
		return nil
	})
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if !reflect.DeepEqual(gotValues, values) {
		t.Fatalf("want %v, got %v", values, gotValues)
	}
}

func TestByteArrayRoundTrip(t *testing.T) {
	// Chosen so adjacent values share a non-trivial prefix, exercising
	// the prefix/suffix split rather than always falling back to a
	// zero-length prefix.
	values := [][]byte{
		[]byte("parquet-format"),
		[]byte("parquet-thrift"),
		[]byte("parquet-thrift"),
		[]byte("par"),
		[]byte(""),
		[]byte("zzz"),
	}

	var src []byte
	for _, v := range values {
		src = plain.AppendByteArray(src, v)
	}

	enc := ByteArrayEncoding{}
	buf, err := enc.EncodeByteArray(nil, src)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	got, err := enc.DecodeByteArray(nil, buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	var gotValues [][]byte
	err = plain.RangeByteArray(got, func(v []byte) error {
		gotValues = append(gotValues, append([]byte{}, v...))
		return nil
	})
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if !reflect.DeepEqual(gotValues, values) {
		t.Fatalf("want %v, got %v", values, gotValues)
	}
}

func TestCommonPrefixLen(t *testing.T) {
	tests := []struct {
		a, b []byte
		want int
	}{
		{nil, nil, 0},
		{[]byte("abc"), nil, 0},
		{[]byte("abc"), []byte("abd"), 2},
		{[]byte("abc"), []byte("abc"), 3},
		{[]byte("abc"), []byte("abcdef"), 3},
	}
	for _, test := range tests {
		if got := commonPrefixLen(test.a, test.b); got != test.want {
			t.Fatalf("commonPrefixLen(%q, %q): want %d, got %d", test.a, test.b, test.want, got)
		}
	}
}
