package parquet

import "errors"

// The library reports failures through one of a small, closed set of
// sentinel errors, each wrapped with context via fmt.Errorf("...: %w",
// ...). Callers that need to distinguish failure classes should use
// errors.Is against these sentinels rather than inspect error strings.
var (
	// ErrOutOfSpec means the input violates the parquet file format
	// itself: a bad magic number, a footer length that does not fit in
	// the file, a page whose declared size does not match what was
	// read, and similar structural violations.
	ErrOutOfSpec = errors.New("parquet: out of spec")

	// ErrMalformedMetadata means the thrift-encoded footer metadata
	// could not be decoded: an ill-formed compact-protocol byte stream.
	ErrMalformedMetadata = errors.New("parquet: malformed metadata")

	// ErrFeatureNotActive means the file requires a codec or encoding
	// that this build does not have linked in (for example a
	// compression codec whose adapter package was never imported).
	ErrFeatureNotActive = errors.New("parquet: feature not active")

	// ErrInvalidParameter means the caller supplied an invalid
	// argument: an out-of-range row group index, writing a row before
	// any row group has been created, and the like.
	ErrInvalidParameter = errors.New("parquet: invalid parameter")

	// ErrIO wraps an opaque error returned by the underlying byte
	// source or sink (the io.Reader/io.Writer/io.ReaderAt the caller
	// provided).
	ErrIO = errors.New("parquet: i/o error")
)
