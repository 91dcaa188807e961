package dict

import (
	"reflect"
	"testing"
)

func TestIndexRoundTrip(t *testing.T) {
	tests := map[string][]int32{
		"ascending":    {0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
		"repeated":     {3, 3, 3, 3, 3, 3, 3, 3, 0, 0, 0, 0},
		"single-value": {0},
		"empty":        {},
	}

	for name, values := range tests {
		t.Run(name, func(t *testing.T) {
			for _, enc := range []interface {
				EncodeInt32(dst []byte, src []int32) ([]byte, error)
				DecodeInt32(dst []int32, src []byte) ([]int32, error)
			}{RLEDictionary{}, PlainDictionary{}} {
				buf, err := enc.EncodeInt32(nil, values)
				if err != nil {
					t.Fatalf("encode: %v", err)
				}
				got, err := enc.DecodeInt32([]int32{}, buf)
				if err != nil {
					t.Fatalf("decode: %v", err)
				}
				if len(got) > len(values) {
					got = got[:len(values)]
				}
				if !reflect.DeepEqual(got, values) {
					t.Fatalf("round trip mismatch: want %v, got %v", values, got)
				}
			}
		})
	}
}

func TestDecodeRejectsMissingBitWidthByte(t *testing.T) {
	if _, err := (RLEDictionary{}).DecodeInt32(nil, nil); err == nil {
		t.Fatal("want error decoding an empty buffer, got nil")
	}
}

func TestEncodingNames(t *testing.T) {
	if (RLEDictionary{}).String() != "RLE_DICTIONARY" {
		t.Fatalf("unexpected name: %s", RLEDictionary{}.String())
	}
	if (PlainDictionary{}).String() != "PLAIN_DICTIONARY" {
		t.Fatalf("unexpected name: %s", PlainDictionary{}.String())
	}
}
