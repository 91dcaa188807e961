package parquet

import (
	"fmt"
	"strings"

	"github.com/parquetcore/parquet/format"
)

// DataPageVersion selects which page header the writer emits for data
// pages; it has no effect on dictionary pages, which are unversioned.
type DataPageVersion int

const (
	DataPageV1 DataPageVersion = 1
	DataPageV2 DataPageVersion = 2
)

func (v DataPageVersion) String() string {
	switch v {
	case DataPageV1:
		return "v1"
	case DataPageV2:
		return "v2"
	default:
		return fmt.Sprintf("DataPageVersion(%d)", int(v))
	}
}

const (
	DefaultCreatedBy       = "github.com/parquetcore/parquet"
	DefaultDataPageVersion = DataPageV2
	DefaultMaxPageSize     = 1 * 1024 * 1024
	DefaultWriteStatistics = true
	DefaultWriteCRC        = false
	DefaultWriteBloomFilter = false
)

// FileConfig carries the options OpenFile applies when locating and
// parsing a file's footer.
type FileConfig struct {
	// SkipPageIndex, when true, leaves ReadPageIndex to be called
	// explicitly instead of eagerly reading the column/offset index
	// sidecars for every row group when the file is opened.
	SkipPageIndex bool
	// MaxPageSize bounds the compressed and uncompressed size a page
	// header may declare; pages exceeding it are rejected with
	// ErrOutOfSpec rather than trusted and allocated for. Zero disables
	// the limit.
	MaxPageSize int
}

func DefaultFileConfig() *FileConfig {
	return &FileConfig{MaxPageSize: DefaultMaxPageSize}
}

func (c *FileConfig) Apply(options ...FileOption) {
	for _, opt := range options {
		opt.ConfigureFile(c)
	}
}

func (c *FileConfig) Validate() error {
	return nil
}

// ConfigureFile applies configuration options from c to config, so a
// *FileConfig can itself be passed as a FileOption.
func (c *FileConfig) ConfigureFile(config *FileConfig) {
	*config = FileConfig{
		SkipPageIndex: c.SkipPageIndex,
		MaxPageSize:   c.MaxPageSize,
	}
}

// WriterConfig carries the options a FileWriter applies when encoding
// row groups and finalizing a file's footer.
type WriterConfig struct {
	CreatedBy          string
	Compression        format.CompressionCodec
	DataPageVersion    DataPageVersion
	WriteStatistics    bool
	WriteCRC           bool
	WriteBloomFilter   bool
	KeyValueMetadata   map[string]string
}

func DefaultWriterConfig() *WriterConfig {
	return &WriterConfig{
		CreatedBy:       DefaultCreatedBy,
		Compression:     format.Uncompressed,
		DataPageVersion: DefaultDataPageVersion,
		WriteStatistics: DefaultWriteStatistics,
		WriteCRC:        DefaultWriteCRC,
	}
}

func (c *WriterConfig) Apply(options ...WriterOption) {
	for _, opt := range options {
		opt.ConfigureWriter(c)
	}
}

// ConfigureWriter applies configuration options from c to config, so a
// *WriterConfig can itself be passed as a WriterOption.
func (c *WriterConfig) ConfigureWriter(config *WriterConfig) {
	keyValueMetadata := config.KeyValueMetadata
	if len(c.KeyValueMetadata) > 0 {
		if keyValueMetadata == nil {
			keyValueMetadata = make(map[string]string, len(c.KeyValueMetadata))
		}
		for k, v := range c.KeyValueMetadata {
			keyValueMetadata[k] = v
		}
	}
	*config = WriterConfig{
		CreatedBy:        coalesceString(c.CreatedBy, config.CreatedBy),
		Compression:      c.Compression,
		DataPageVersion:  c.DataPageVersion,
		WriteStatistics:  c.WriteStatistics,
		WriteCRC:         c.WriteCRC,
		WriteBloomFilter: c.WriteBloomFilter,
		KeyValueMetadata: keyValueMetadata,
	}
}

func coalesceString(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func (c *WriterConfig) Validate() error {
	const baseName = "parquet.(*WriterConfig)."
	return errorInvalidConfiguration(
		validateOneOfInt(baseName+"DataPageVersion", int(c.DataPageVersion), 1, 2),
	)
}

// FileOption configures a FileConfig.
type FileOption interface{ ConfigureFile(*FileConfig) }

// WriterOption configures a WriterConfig.
type WriterOption interface{ ConfigureWriter(*WriterConfig) }

// SkipPageIndex prevents OpenFile from eagerly reading column/offset
// index sidecars.
//
// Defaults to false.
func SkipPageIndex(skip bool) FileOption {
	return fileOption(func(c *FileConfig) { c.SkipPageIndex = skip })
}

// MaxPageSize bounds the page size a reader will trust a page header's
// declared sizes to be, in bytes. Zero disables the limit.
//
// Defaults to 1 MiB.
func MaxPageSize(size int) FileOption {
	return fileOption(func(c *FileConfig) { c.MaxPageSize = size })
}

// CreatedBy sets the name of the application recorded in a written
// file's footer.
func CreatedBy(createdBy string) WriterOption {
	return writerOption(func(c *WriterConfig) { c.CreatedBy = createdBy })
}

// Compression selects the codec new column chunks are compressed with.
//
// Defaults to Uncompressed.
func Compression(codec format.CompressionCodec) WriterOption {
	return writerOption(func(c *WriterConfig) { c.Compression = codec })
}

// DataPageVersionOption selects the data page header version a writer
// emits.
//
// Defaults to version 2.
func DataPageVersionOption(version DataPageVersion) WriterOption {
	return writerOption(func(c *WriterConfig) { c.DataPageVersion = version })
}

// WriteStatistics sets WriterConfig.WriteStatistics.
//
// FileWriter and PageWriter do not read this setting: every page carries
// exactly the statistics passed to its WriteDataPage call, and the chunk
// statistics and column index are built from those, whatever the value.
//
// Defaults to true.
func WriteStatistics(enabled bool) WriterOption {
	return writerOption(func(c *WriterConfig) { c.WriteStatistics = enabled })
}

// WriteCRC controls whether a CRC32 checksum is written alongside each
// page.
//
// Defaults to false.
func WriteCRC(enabled bool) WriterOption {
	return writerOption(func(c *WriterConfig) { c.WriteCRC = enabled })
}

// KeyValueMetadata adds a key/value pair to a written file's footer.
// Keys are assumed unique; the last value set for a key wins.
func KeyValueMetadata(key, value string) WriterOption {
	return writerOption(func(c *WriterConfig) {
		if c.KeyValueMetadata == nil {
			c.KeyValueMetadata = map[string]string{key: value}
		} else {
			c.KeyValueMetadata[key] = value
		}
	})
}

type fileOption func(*FileConfig)

func (opt fileOption) ConfigureFile(c *FileConfig) { opt(c) }

type writerOption func(*WriterConfig)

func (opt writerOption) ConfigureWriter(c *WriterConfig) { opt(c) }

func validateOneOfInt(optionName string, optionValue int, supportedValues ...int) error {
	for _, value := range supportedValues {
		if value == optionValue {
			return nil
		}
	}
	return fmt.Errorf("invalid option value: %s: %v", optionName, optionValue)
}

func errorInvalidConfiguration(reasons ...error) error {
	var err *invalidConfiguration
	for _, reason := range reasons {
		if reason != nil {
			if err == nil {
				err = new(invalidConfiguration)
			}
			err.reasons = append(err.reasons, reason)
		}
	}
	if err != nil {
		return err
	}
	return nil
}

type invalidConfiguration struct {
	reasons []error
}

func (err *invalidConfiguration) Error() string {
	var b strings.Builder
	for _, reason := range err.reasons {
		b.WriteString(reason.Error())
		b.WriteByte('\n')
	}
	s := b.String()
	if s != "" {
		s = s[:len(s)-1]
	}
	return s
}

var (
	_ FileOption   = (*FileConfig)(nil)
	_ WriterOption = (*WriterConfig)(nil)
)
