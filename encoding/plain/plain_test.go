package plain

import (
	"reflect"
	"testing"

	"github.com/parquetcore/parquet/deprecated"
)

func TestEncodingRoundTrip(t *testing.T) {
	enc := Encoding{}

	t.Run("boolean", func(t *testing.T) {
		values := []bool{true, false, false, true, true, true, false, true, true}
		buf, err := enc.EncodeBoolean(nil, values)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		got, err := enc.DecodeBoolean(nil, buf)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !reflect.DeepEqual(got[:len(values)], values) {
			t.Fatalf("want %v, got %v", values, got[:len(values)])
		}
	})

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

	t.Run("int96", func(t *testing.T) {
		values := []deprecated.Int96{{1, 2, 3}, {0, 0, 0}}
		buf, err := enc.EncodeInt96(nil, values)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		got, err := enc.DecodeInt96(nil, buf)
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

func TestDecodeRejectsMisalignedLength(t *testing.T) {
	enc := Encoding{}
	if _, err := enc.DecodeInt32(nil, []byte{1, 2, 3}); err == nil {
		t.Fatal("want error decoding a non-multiple-of-4 int32 buffer, got nil")
	}
	if _, err := enc.DecodeInt64(nil, []byte{1, 2, 3}); err == nil {
		t.Fatal("want error decoding a non-multiple-of-8 int64 buffer, got nil")
	}
	if _, err := enc.DecodeFixedLenByteArray(nil, []byte{1, 2, 3}, 2); err == nil {
		t.Fatal("want error decoding a fixed_len_byte_array buffer not a multiple of size, got nil")
	}
}

func TestByteArrayRoundTrip(t *testing.T) {
	values := [][]byte{[]byte("hello"), []byte(""), []byte("parquet"), {0, 1, 2}}

	var buf []byte
	for _, v := range values {
		buf = AppendByteArray(buf, v)
	}

	count, err := ValidateByteArray(buf)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if count != len(values) {
		t.Fatalf("want %d values, got %d", len(values), count)
	}

	var got [][]byte
	err = RangeByteArray(buf, func(v []byte) error {
		cp := append([]byte{}, v...)
		got = append(got, cp)
		return nil
	})
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if !reflect.DeepEqual(got, values) {
		t.Fatalf("want %v, got %v", values, got)
	}
}

func TestValidateByteArrayRejectsTruncatedInput(t *testing.T) {
	if _, err := ValidateByteArray([]byte{5, 0, 0}); err == nil {
		t.Fatal("want error on truncated length prefix, got nil")
	}
	if _, err := ValidateByteArray([]byte{5, 0, 0, 0, 'a', 'b'}); err == nil {
		t.Fatal("want error on value overrunning input, got nil")
	}
}
