package compress_test

import (
	"bytes"
	"testing"

	"github.com/parquetcore/parquet/compress"
	"github.com/parquetcore/parquet/compress/brotli"
	"github.com/parquetcore/parquet/compress/gzip"
	"github.com/parquetcore/parquet/compress/lz4"
	"github.com/parquetcore/parquet/compress/lz4raw"
	"github.com/parquetcore/parquet/compress/snappy"
	"github.com/parquetcore/parquet/compress/uncompressed"
	"github.com/parquetcore/parquet/compress/zstd"
)

func codecs() map[string]compress.Codec {
	return map[string]compress.Codec{
		"UNCOMPRESSED": &uncompressed.Codec{},
		"SNAPPY":       &snappy.Codec{},
		"GZIP":         &gzip.Codec{},
		"BROTLI":       &brotli.Codec{},
		"LZ4":          &lz4.Codec{},
		"LZ4_RAW":      &lz4raw.Codec{},
		"ZSTD":         &zstd.Codec{},
	}
}

func TestCodecRoundTrip(t *testing.T) {
	payloads := map[string][]byte{
		"empty":      {},
		"short":      []byte("parquet"),
		"repetitive": bytes.Repeat([]byte("aaaaaaaaaa"), 1000),
		"random-ish": []byte("the quick brown fox jumps over the lazy dog 0123456789 !@#$%^&*()"),
	}

	for name, codec := range codecs() {
		t.Run(name, func(t *testing.T) {
			for payloadName, payload := range payloads {
				encoded, err := codec.Encode(nil, payload)
				if err != nil {
					t.Fatalf("%s: encode: %v", payloadName, err)
				}
				decoded, err := codec.Decode(nil, encoded)
				if err != nil {
					t.Fatalf("%s: decode: %v", payloadName, err)
				}
				if !bytes.Equal(decoded, payload) {
					t.Fatalf("%s: round trip mismatch: want %q, got %q", payloadName, payload, decoded)
				}
			}
		})
	}
}

// TestLZ4RawTinyPayload exercises payloads at or below the 12-byte
// floor below which LZ4's block format cannot represent a match,
// forcing an all-literals encoding.
func TestLZ4RawTinyPayload(t *testing.T) {
	codec := &lz4raw.Codec{}
	for n := 0; n <= 12; n++ {
		payload := bytes.Repeat([]byte{'x'}, n)
		encoded, err := codec.Encode(nil, payload)
		if err != nil {
			t.Fatalf("len=%d: encode: %v", n, err)
		}
		decoded, err := codec.Decode(nil, encoded)
		if err != nil {
			t.Fatalf("len=%d: decode: %v", n, err)
		}
		if !bytes.Equal(decoded, payload) {
			t.Fatalf("len=%d: round trip mismatch: want %q, got %q", n, payload, decoded)
		}
	}
}

func TestCodecIdentity(t *testing.T) {
	for name, codec := range codecs() {
		if codec.String() != name {
			t.Fatalf("want codec name %q, got %q", name, codec.String())
		}
	}
}
