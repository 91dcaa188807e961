package schema

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/parquetcore/parquet/format"
)

// IsUUID reports whether c is a FIXED_LEN_BYTE_ARRAY(16) column annotated
// with the UUID logical type.
func (c *Column) IsUUID() bool {
	if c.Element.Type == nil || *c.Element.Type != format.FixedLenByteArray {
		return false
	}
	if c.Element.TypeLength == nil || *c.Element.TypeLength != 16 {
		return false
	}
	return c.Element.LogicalType != nil && c.Element.LogicalType.UUID != nil
}

// ParseUUID decodes the 16 raw bytes of a UUID-annotated column value.
// Returns an error if c is not a UUID column or b is not 16 bytes long.
func (c *Column) ParseUUID(b []byte) (uuid.UUID, error) {
	if !c.IsUUID() {
		return uuid.UUID{}, fmt.Errorf("schema: column %q is not annotated as UUID", c.Name())
	}
	return uuid.FromBytes(b)
}

// FormatUUID encodes id as the 16 raw bytes this library stores for a
// UUID-annotated FIXED_LEN_BYTE_ARRAY(16) column.
func FormatUUID(id uuid.UUID) []byte {
	b := make([]byte, 16)
	copy(b, id[:])
	return b
}

// IsDecimal reports whether c carries DECIMAL annotation, either via the
// modern LogicalType or the deprecated ConvertedType.
func (c *Column) IsDecimal() bool {
	if c.Element.LogicalType != nil && c.Element.LogicalType.DECIMAL != nil {
		return true
	}
	return c.Element.ConvertedType != nil && *c.Element.ConvertedType == format.Decimal
}

// DecimalScale returns the column's decimal scale and precision, or
// (0, 0, false) if c is not a decimal column.
func (c *Column) DecimalScale() (scale, precision int32, ok bool) {
	if c.Element.LogicalType != nil && c.Element.LogicalType.DECIMAL != nil {
		d := c.Element.LogicalType.DECIMAL
		return d.Scale, d.Precision, true
	}
	if c.Element.ConvertedType != nil && *c.Element.ConvertedType == format.Decimal {
		var scale, precision int32
		if c.Element.Scale != nil {
			scale = *c.Element.Scale
		}
		if c.Element.Precision != nil {
			precision = *c.Element.Precision
		}
		return scale, precision, true
	}
	return 0, 0, false
}
