package bytestreamsplit

import (
	"reflect"
	"testing"
)

func TestEncodingRoundTrip(t *testing.T) {
	enc := Encoding{}

	t.Run("int32", func(t *testing.T) {
		values := []int32{1, -2, 3, 0, 1 << 30}
		buf, err := enc.EncodeInt32(nil, values)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		got, err := enc.DecodeInt32(nil, buf)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !reflect.DeepEqual(got, values) {
			t.Fatalf("want %v, got %v", values, got)
		}
	})

	t.Run("int64", func(t *testing.T) {
		values := []int64{1, -2, 3, 0, 1 << 40}
		buf, err := enc.EncodeInt64(nil, values)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		got, err := enc.DecodeInt64(nil, buf)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !reflect.DeepEqual(got, values) {
			t.Fatalf("want %v, got %v", values, got)
		}
	})

	t.Run("float", func(t *testing.T) {
		values := []float32{1.5, -2.25, 0, 3.14159}
		buf, err := enc.EncodeFloat(nil, values)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		got, err := enc.DecodeFloat(nil, buf)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !reflect.DeepEqual(got, values) {
			t.Fatalf("want %v, got %v", values, got)
		}
	})

	t.Run("double", func(t *testing.T) {
		values := []float64{1.5, -2.25, 0, 3.14159265358979}
		buf, err := enc.EncodeDouble(nil, values)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		got, err := enc.DecodeDouble(nil, buf)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !reflect.DeepEqual(got, values) {
			t.Fatalf("want %v, got %v", values, got)
		}
	})

	t.Run("fixed_len_byte_array", func(t *testing.T) {
		src := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9}
		buf, err := enc.EncodeFixedLenByteArray(nil, src, 3)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		got, err := enc.DecodeFixedLenByteArray(nil, buf, 3)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !reflect.DeepEqual(got, src) {
			t.Fatalf("want %v, got %v", src, got)
		}
	})
}

// TestLayoutIsTransposed asserts the defining property of the
// encoding: byte b of every value is grouped contiguously, rather than
// values being stored one after another as in PLAIN.
func TestLayoutIsTransposed(t *testing.T) {
	enc := Encoding{}
	values := []int32{0x01020304, 0x05060708, 0x090a0b0c}

	buf, err := enc.EncodeInt32(nil, values)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(buf) != 4*len(values) {
		t.Fatalf("want %d bytes, got %d", 4*len(values), len(buf))
	}

	n := len(values)
	wantByte0 := []byte{0x04, 0x08, 0x0c}
	gotByte0 := buf[0:n]
	if !reflect.DeepEqual(gotByte0, wantByte0) {
		t.Fatalf("byte-0 stream: want %v, got %v", wantByte0, gotByte0)
	}
}

func TestDecodeRejectsMisalignedLength(t *testing.T) {
	enc := Encoding{}
	if _, err := enc.DecodeInt32(nil, []byte{1, 2, 3}); err == nil {
		t.Fatal("want error decoding a non-multiple-of-4 int32 buffer, got nil")
	}
}
