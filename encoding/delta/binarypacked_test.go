package delta

import "testing"

func TestBinaryPackedRoundTrip(t *testing.T) {
	tests := [][]int64{
		{7, 7, 10, 10, 10, 11},
		{},
		{42},
		{-5, -5, -5, -5},
		sequence(128),    // 127 deltas: one block, one delta short of full
		sequence(130),    // a short final miniblock
		sequence(1000),
	}

	for i, values := range tests {
		buf := encodeBinaryPacked(nil, values)
		got, n, err := decodeBinaryPacked(buf)
		if err != nil {
			t.Fatalf("case %d: decode: %v", i, err)
		}
		if n != len(buf) {
			t.Fatalf("case %d: decoder consumed %d of %d bytes", i, n, len(buf))
		}
		if len(got) != len(values) {
			t.Fatalf("case %d: want %d values, got %d", i, len(values), len(got))
		}
		for j := range values {
			if got[j] != values[j] {
				t.Fatalf("case %d: value %d: want %d, got %d", i, j, values[j], got[j])
			}
		}
	}
}

func TestBinaryPackedInt32RoundTrip(t *testing.T) {
	enc := BinaryPackedEncoding{}
	values := []int32{7, 7, 10, 10, 10, 11}

	buf, err := enc.EncodeInt32(nil, values)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := enc.DecodeInt32(nil, buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != len(values) {
		t.Fatalf("want %d values, got %d", len(values), len(got))
	}
	for i := range values {
		if got[i] != values[i] {
			t.Fatalf("value %d: want %d, got %d", i, values[i], got[i])
		}
	}
}

func sequence(n int) []int64 {
	values := make([]int64, n)
	for i := range values {
		values[i] = int64(i) * 3
	}
	return values
}
