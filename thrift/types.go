package thrift

// Compact protocol type identifiers (as written on the wire, distinct
// from the struct-field-header nibble values for bool true/false).
const (
	compactBooleanTrue  = 0x01
	compactBooleanFalse = 0x02
	compactByte         = 0x03
	compactI16          = 0x04
	compactI32          = 0x05
	compactI64          = 0x06
	compactDouble       = 0x07
	compactBinary       = 0x08
	compactList         = 0x09
	compactSet          = 0x0a
	compactMap          = 0x0b
	compactStruct       = 0x0c
)

const compactProtocolStop = 0x00
