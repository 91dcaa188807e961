// Package format is a thrift-tagged struct model of the parquet-format
// metadata structures: FileMetaData and everything it references
// (row groups, column chunks, schema elements, page headers, statistics,
// the page-index and bloom-filter sidecars).
//
// Every type here maps one-for-one onto the thrift IDL published by the
// Apache Parquet project. Struct tags carry the thrift field id and wire
// type so that the reflective codec in the thrift package can marshal and
// unmarshal values without any type-specific code.
package format

import "sort"

// Type is the physical storage type of a leaf column.
type Type int32

const (
	Boolean Type = iota
	Int32
	Int64
	Int96
	Float
	Double
	ByteArray
	FixedLenByteArray
)

func (t Type) String() string {
	switch t {
	case Boolean:
		return "BOOLEAN"
	case Int32:
		return "INT32"
	case Int64:
		return "INT64"
	case Int96:
		return "INT96"
	case Float:
		return "FLOAT"
	case Double:
		return "DOUBLE"
	case ByteArray:
		return "BYTE_ARRAY"
	case FixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return "UNKNOWN"
	}
}

// FieldRepetitionType describes whether a schema element is required,
// optional, or repeated.
type FieldRepetitionType int32

const (
	Required FieldRepetitionType = iota
	Optional
	Repeated
)

func (r FieldRepetitionType) String() string {
	switch r {
	case Required:
		return "REQUIRED"
	case Optional:
		return "OPTIONAL"
	case Repeated:
		return "REPEATED"
	default:
		return "UNKNOWN"
	}
}

// ConvertedType is the deprecated, pre-LogicalType annotation of a schema
// element's interpretation. Retained for reading legacy files; writers in
// this library prefer LogicalType but still populate ConvertedType for
// backwards compatibility, mirroring every production parquet writer.
type ConvertedType int32

const (
	UTF8 ConvertedType = iota
	Map
	MapKeyValue
	List
	Enum
	Decimal
	Date
	TimeMillis
	TimeMicros
	TimestampMillis
	TimestampMicros
	Uint8
	Uint16
	Uint32
	Uint64
	Int8
	Int16
	Int32Converted
	Int64Converted
	Json
	Bson
	Interval
)

// Encoding identifies how the values of a page are serialized.
type Encoding int32

const (
	Plain Encoding = iota
	PlainDictionary
	RLE
	BitPacked // deprecated
	DeltaBinaryPacked
	DeltaLengthByteArray
	DeltaByteArray
	RLEDictionary
	ByteStreamSplit
)

func (e Encoding) String() string {
	switch e {
	case Plain:
		return "PLAIN"
	case PlainDictionary:
		return "PLAIN_DICTIONARY"
	case RLE:
		return "RLE"
	case BitPacked:
		return "BIT_PACKED"
	case DeltaBinaryPacked:
		return "DELTA_BINARY_PACKED"
	case DeltaLengthByteArray:
		return "DELTA_LENGTH_BYTE_ARRAY"
	case DeltaByteArray:
		return "DELTA_BYTE_ARRAY"
	case RLEDictionary:
		return "RLE_DICTIONARY"
	case ByteStreamSplit:
		return "BYTE_STREAM_SPLIT"
	default:
		return "UNKNOWN"
	}
}

// CompressionCodec identifies the codec used to compress a page.
type CompressionCodec int32

const (
	Uncompressed CompressionCodec = iota
	Snappy
	Gzip
	LZOCodec
	Brotli
	LZ4Codec
	Zstd
	LZ4Raw
)

func (c CompressionCodec) String() string {
	switch c {
	case Uncompressed:
		return "UNCOMPRESSED"
	case Snappy:
		return "SNAPPY"
	case Gzip:
		return "GZIP"
	case LZOCodec:
		return "LZO"
	case Brotli:
		return "BROTLI"
	case LZ4Codec:
		return "LZ4"
	case Zstd:
		return "ZSTD"
	case LZ4Raw:
		return "LZ4_RAW"
	default:
		return "UNKNOWN"
	}
}

// PageType identifies the kind of page a PageHeader describes.
type PageType int32

const (
	DataPage PageType = iota
	IndexPage
	DictionaryPage
	DataPageV2
)

func (t PageType) String() string {
	switch t {
	case DataPage:
		return "DATA_PAGE"
	case IndexPage:
		return "INDEX_PAGE"
	case DictionaryPage:
		return "DICTIONARY_PAGE"
	case DataPageV2:
		return "DATA_PAGE_V2"
	default:
		return "UNKNOWN"
	}
}

// BoundaryOrder describes the ordering guarantee of a ColumnIndex's
// min/max values across pages.
type BoundaryOrder int32

const (
	Unordered BoundaryOrder = iota
	Ascending
	Descending
)

func (o BoundaryOrder) String() string {
	switch o {
	case Unordered:
		return "UNORDERED"
	case Ascending:
		return "ASCENDING"
	case Descending:
		return "DESCENDING"
	default:
		return "UNKNOWN"
	}
}

// Statistics holds optional per-column-chunk or per-page summary values.
type Statistics struct {
	Max           []byte `thrift:"1,optional,binary"`
	Min           []byte `thrift:"2,optional,binary"`
	NullCount     int64  `thrift:"3,optional"`
	DistinctCount int64  `thrift:"4,optional"`
	MaxValue      []byte `thrift:"5,optional,binary"`
	MinValue      []byte `thrift:"6,optional,binary"`
}

// StringType: UTF8 logical type, no parameters.
type StringType struct{}

// MapType: MAP logical type, no parameters.
type MapType struct{}

// ListType: LIST logical type, no parameters.
type ListType struct{}

// EnumType: ENUM logical type, no parameters.
type EnumType struct{}

// DateType: DATE logical type, no parameters.
type DateType struct{}

// NullType: UNKNOWN/NULL logical type, no parameters.
type NullType struct{}

// DecimalType: fixed-point decimal parameters.
type DecimalType struct {
	Scale     int32 `thrift:"1,required"`
	Precision int32 `thrift:"2,required"`
}

// MilliSeconds, MicroSeconds, NanoSeconds select a TimeUnit variant.
type MilliSeconds struct{}
type MicroSeconds struct{}
type NanoSeconds struct{}

// TimeUnit is a union selecting the granularity of a TIME/TIMESTAMP
// logical type. Exactly one field is set.
type TimeUnit struct {
	Millis *MilliSeconds `thrift:"1,optional"`
	Micros *MicroSeconds `thrift:"2,optional"`
	Nanos  *NanoSeconds  `thrift:"3,optional"`
}

// TimestampType: TIMESTAMP logical type parameters.
type TimestampType struct {
	IsAdjustedToUTC bool     `thrift:"1,required"`
	Unit            TimeUnit `thrift:"2,required"`
}

// TimeType: TIME logical type parameters.
type TimeType struct {
	IsAdjustedToUTC bool     `thrift:"1,required"`
	Unit            TimeUnit `thrift:"2,required"`
}

// IntType: signed/unsigned INT logical type parameters.
type IntType struct {
	BitWidth int8 `thrift:"1,required"`
	IsSigned bool `thrift:"2,required"`
}

// JsonType: JSON logical type, no parameters.
type JsonType struct{}

// BsonType: BSON logical type, no parameters.
type BsonType struct{}

// UUIDType: UUID logical type, no parameters.
type UUIDType struct{}

// LogicalType is a union of all modern logical type annotations. Exactly
// one field is non-nil.
type LogicalType struct {
	STRING    *StringType    `thrift:"1,optional"`
	MAP       *MapType       `thrift:"2,optional"`
	LIST      *ListType      `thrift:"3,optional"`
	ENUM      *EnumType      `thrift:"4,optional"`
	DECIMAL   *DecimalType   `thrift:"5,optional"`
	DATE      *DateType      `thrift:"6,optional"`
	TIME      *TimeType      `thrift:"7,optional"`
	TIMESTAMP *TimestampType `thrift:"8,optional"`
	INTEGER   *IntType       `thrift:"10,optional"`
	UNKNOWN   *NullType      `thrift:"11,optional"`
	JSON      *JsonType      `thrift:"12,optional"`
	BSON      *BsonType      `thrift:"13,optional"`
	UUID      *UUIDType      `thrift:"14,optional"`
}

// TypeDefinedOrder marks a column as using the type's natural ordering
// for statistics (the only variant of ColumnOrder currently defined).
type TypeDefinedOrder struct{}

// ColumnOrder is a union describing how a column's min/max statistics
// should be interpreted. TypeDefinedOrder is the only variant.
type ColumnOrder struct {
	TypeOrder *TypeDefinedOrder `thrift:"1,optional"`
}

// PageEncodingStats is a histogram entry of how many pages of a given
// type used a given encoding within a column chunk.
type PageEncodingStats struct {
	PageType PageType `thrift:"1,required"`
	Encoding Encoding `thrift:"2,required"`
	Count    int32    `thrift:"3,required"`
}

// SortingColumn describes one column of a row group's sort order.
type SortingColumn struct {
	ColumnIdx  int32 `thrift:"1,required"`
	Descending bool  `thrift:"2,required"`
	NullsFirst bool  `thrift:"3,required"`
}

// KeyValue is a single entry of a FileMetaData's free-form key/value
// metadata map.
type KeyValue struct {
	Key   string `thrift:"1,required"`
	Value string `thrift:"2,optional"`
}

// SchemaElement is one node (leaf or group) of the flattened,
// depth-first schema tree.
type SchemaElement struct {
	Type           *Type                `thrift:"1,optional"`
	TypeLength     *int32               `thrift:"2,optional"`
	RepetitionType *FieldRepetitionType `thrift:"3,optional"`
	Name           string               `thrift:"4,required"`
	NumChildren    *int32               `thrift:"5,optional"`
	ConvertedType  *ConvertedType       `thrift:"6,optional"`
	Scale          *int32               `thrift:"7,optional"`
	Precision      *int32               `thrift:"8,optional"`
	FieldID        *int32               `thrift:"9,optional"`
	LogicalType    *LogicalType         `thrift:"10,optional"`
}

// DataPageHeader describes a DATA_PAGE (v1).
type DataPageHeader struct {
	NumValues               int32       `thrift:"1,required"`
	Encoding                Encoding    `thrift:"2,required"`
	DefinitionLevelEncoding Encoding    `thrift:"3,required"`
	RepetitionLevelEncoding Encoding    `thrift:"4,required"`
	Statistics              *Statistics `thrift:"5,optional"`
}

// DataPageHeaderV2 describes a DATA_PAGE_V2, whose levels are always
// RLE-encoded and stored uncompressed ahead of the (optionally
// compressed) value bytes.
type DataPageHeaderV2 struct {
	NumValues                  int32       `thrift:"1,required"`
	NumNulls                   int32       `thrift:"2,required"`
	NumRows                    int32       `thrift:"3,required"`
	Encoding                   Encoding    `thrift:"4,required"`
	DefinitionLevelsByteLength int32       `thrift:"5,required"`
	RepetitionLevelsByteLength int32       `thrift:"6,required"`
	IsCompressed               bool        `thrift:"7,optional,default=true"`
	Statistics                 *Statistics `thrift:"8,optional"`
}

// DictionaryPageHeader describes a DICTIONARY_PAGE.
type DictionaryPageHeader struct {
	NumValues int32    `thrift:"1,required"`
	Encoding  Encoding `thrift:"2,required"`
	IsSorted  *bool    `thrift:"3,optional"`
}

// PageHeader is the thrift envelope written ahead of every page's bytes.
// Exactly one of DataPageHeader, IndexPageHeader, DictionaryPageHeader,
// DataPageHeaderV2 is set, selected by Type.
type PageHeader struct {
	Type                 PageType              `thrift:"1,required"`
	UncompressedPageSize int32                 `thrift:"2,required"`
	CompressedPageSize   int32                 `thrift:"3,required"`
	CRC                  *int32                `thrift:"4,optional"`
	DataPageHeader       *DataPageHeader       `thrift:"5,optional"`
	IndexPageHeader      *struct{}             `thrift:"6,optional"`
	DictionaryPageHeader *DictionaryPageHeader `thrift:"7,optional"`
	DataPageHeaderV2     *DataPageHeaderV2     `thrift:"8,optional"`
}

// ColumnMetaData is the per-column-chunk metadata embedded in (or
// pointed to by) a ColumnChunk.
type ColumnMetaData struct {
	Type                  Type                `thrift:"1,required"`
	Encodings             []Encoding          `thrift:"2,required"`
	PathInSchema          []string            `thrift:"3,required"`
	Codec                 CompressionCodec    `thrift:"4,required"`
	NumValues             int64               `thrift:"5,required"`
	TotalUncompressedSize int64               `thrift:"6,required"`
	TotalCompressedSize   int64               `thrift:"7,required"`
	KeyValueMetadata      []KeyValue          `thrift:"8,optional"`
	DataPageOffset        int64               `thrift:"9,required"`
	IndexPageOffset       *int64              `thrift:"10,optional"`
	DictionaryPageOffset  *int64              `thrift:"11,optional"`
	Statistics            *Statistics         `thrift:"12,optional"`
	EncodingStats         []PageEncodingStats `thrift:"13,optional"`
	BloomFilterOffset     *int64              `thrift:"14,optional"`
	BloomFilterLength     *int32              `thrift:"15,optional"`
}

// ColumnChunk locates a column chunk's metadata, either inlined or (for
// metadata stored apart from the footer) in another file.
type ColumnChunk struct {
	FilePath              *string         `thrift:"1,optional"`
	FileOffset            int64           `thrift:"2,required"`
	MetaData              *ColumnMetaData `thrift:"3,optional"`
	OffsetIndexOffset     *int64          `thrift:"4,optional"`
	OffsetIndexLength     *int32          `thrift:"5,optional"`
	ColumnIndexOffset     *int64          `thrift:"6,optional"`
	ColumnIndexLength     *int32          `thrift:"7,optional"`
}

// RowGroup is one horizontal partition of the file's rows.
type RowGroup struct {
	Columns             []ColumnChunk   `thrift:"1,required"`
	TotalByteSize        int64           `thrift:"2,required"`
	NumRows              int64           `thrift:"3,required"`
	SortingColumns       []SortingColumn `thrift:"4,optional"`
	FileOffset           *int64          `thrift:"5,optional"`
	TotalCompressedSize  *int64          `thrift:"6,optional"`
	Ordinal              *int16          `thrift:"7,optional"`
}

// FileMetaData is the root of the footer, covering the whole file.
type FileMetaData struct {
	Version          int32           `thrift:"1,required"`
	Schema           []SchemaElement `thrift:"2,required"`
	NumRows          int64           `thrift:"3,required"`
	RowGroups        []RowGroup      `thrift:"4,required"`
	KeyValueMetadata []KeyValue      `thrift:"5,optional"`
	CreatedBy        *string         `thrift:"6,optional"`
	ColumnOrders     []ColumnOrder   `thrift:"7,optional"`
}

// PageLocation is one entry of an OffsetIndex: where a page starts, how
// big its envelope+payload is, and the ordinal of its first row.
type PageLocation struct {
	Offset             int64 `thrift:"1,required"`
	CompressedPageSize int32 `thrift:"2,required"`
	FirstRowIndex      int64 `thrift:"3,required"`
}

// OffsetIndex is the per-column-chunk sidecar listing every page's
// location, used to seek directly to a page without scanning.
type OffsetIndex struct {
	PageLocations               []PageLocation `thrift:"1,required"`
	UnencodedByteArrayDataBytes []int64        `thrift:"2,optional"`
}

// ColumnIndex is the per-column-chunk sidecar carrying per-page min/max
// statistics, enabling predicate pushdown without decoding pages.
type ColumnIndex struct {
	NullPages                 []bool        `thrift:"1,required"`
	MinValues                 [][]byte      `thrift:"2,required"`
	MaxValues                 [][]byte      `thrift:"3,required"`
	BoundaryOrder              BoundaryOrder `thrift:"4,required"`
	NullCounts                []int64       `thrift:"5,optional"`
	RepetitionLevelHistograms []int64       `thrift:"6,optional"`
	DefinitionLevelHistograms []int64       `thrift:"7,optional"`
}

// SplitBlockAlgorithm selects the split-block bloom filter layout (the
// only algorithm currently defined).
type SplitBlockAlgorithm struct{}

// BloomFilterAlgorithm is a union of supported bloom filter algorithms.
type BloomFilterAlgorithm struct {
	Block *SplitBlockAlgorithm `thrift:"1,optional"`
}

// XxHash selects the xxHash64 hash function (the only hash currently
// defined for bloom filters).
type XxHash struct{}

// BloomFilterHash is a union of supported bloom filter hash functions.
type BloomFilterHash struct {
	XxHash *XxHash `thrift:"1,optional"`
}

// BloomFilterUncompressed marks a bloom filter's bitset as stored
// without further compression (the only compression currently defined).
type BloomFilterUncompressed struct{}

// BloomFilterCompression is a union of supported bloom filter bitset
// compression schemes.
type BloomFilterCompression struct {
	Uncompressed *BloomFilterUncompressed `thrift:"1,optional"`
}

// BloomFilterHeader is the sidecar envelope written immediately before a
// bloom filter's bitset bytes.
type BloomFilterHeader struct {
	NumBytes    int32                  `thrift:"1,required"`
	Algorithm   BloomFilterAlgorithm   `thrift:"2,required"`
	Hash        BloomFilterHash        `thrift:"3,required"`
	Compression BloomFilterCompression `thrift:"4,required"`
}

// SortKeyValueMetadata sorts a slice of KeyValue pairs by key, then
// value, for deterministic footer output.
func SortKeyValueMetadata(kv []KeyValue) {
	sort.Slice(kv, func(i, j int) bool {
		switch {
		case kv[i].Key < kv[j].Key:
			return true
		case kv[i].Key > kv[j].Key:
			return false
		default:
			return kv[i].Value < kv[j].Value
		}
	})
}
