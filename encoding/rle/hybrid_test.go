package rle

import (
	"reflect"
	"testing"
)

func TestHybridRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		values   []int32
		bitWidth int
	}{
		{"rle-run", []int32{1, 1, 1, 1, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0}, 1},
		{"mixed", []int32{3, 3, 3, 3, 3, 3, 3, 3, 3, 0, 1, 2, 3, 0, 1, 2}, 2},
		{"single-value-run", []int32{5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5}, 3},
		{"all-literal", []int32{0, 1, 2, 3, 0, 1, 2, 3}, 2},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			buf := EncodeHybridInt32(nil, test.values, test.bitWidth)
			got, err := DecodeHybridInt32(nil, buf, test.bitWidth)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			// The final bit-packed group may carry up to 7 padding
			// values beyond the true count; the caller, which already
			// knows the value count from the page header, truncates.
			if len(got) > len(test.values) {
				got = got[:len(test.values)]
			}
			if !reflect.DeepEqual(got, test.values) {
				t.Fatalf("round trip mismatch: want %v, got %v", test.values, got)
			}
		})
	}
}

// TestHybridZeroBitWidthConsumesNoBytes exercises property 5: encoding
// N zeros at bit width 0 must decode to exactly N zeros and consume no
// value bytes beyond the run header.
func TestHybridZeroBitWidthConsumesNoBytes(t *testing.T) {
	values := make([]int32, 16)
	buf := EncodeHybridInt32(nil, values, 0)

	got, err := DecodeHybridInt32(nil, buf, 0)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != len(values) {
		t.Fatalf("want %d decoded zeros, got %d", len(values), len(got))
	}
	for i, v := range got {
		if v != 0 {
			t.Fatalf("value %d: want 0, got %d", i, v)
		}
	}
}

func TestHybridTwoRuns(t *testing.T) {
	values := []int32{1, 1, 1, 1, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0}
	buf := EncodeHybridInt32(nil, values, 1)

	// Two RLE runs of length 8 each should produce exactly two run
	// headers: one varint header byte followed by one value byte, twice.
	pos, runs := 0, 0
	for pos < len(buf) {
		header, n, err := readVarint(buf[pos:])
		if err != nil {
			t.Fatalf("reading run header: %v", err)
		}
		pos += n
		if header&1 != 0 {
			t.Fatalf("expected an RLE run, got a bit-packed run header")
		}
		pos++ // one value byte at bit width 1
		runs++
	}
	if runs != 2 {
		t.Fatalf("want 2 runs, got %d", runs)
	}
}
