package thrift

import (
	"fmt"
	"math"
	"reflect"
)

type encoder struct {
	buf []byte
}

func (e *encoder) writeByte(b byte) {
	e.buf = append(e.buf, b)
}

func (e *encoder) writeVarint(u uint64) {
	for u >= 0x80 {
		e.buf = append(e.buf, byte(u)|0x80)
		u >>= 7
	}
	e.buf = append(e.buf, byte(u))
}

func zigzag32(v int32) uint64 { return uint64(uint32((v << 1) ^ (v >> 31))) }
func zigzag64(v int64) uint64 { return uint64((v << 1) ^ (v >> 63)) }

func (e *encoder) writeZigzag(v int64) {
	e.writeVarint(zigzag64(v))
}

func (e *encoder) writeBinary(b []byte) {
	e.writeVarint(uint64(len(b)))
	e.buf = append(e.buf, b...)
}

// compactTypeOf returns the compact-protocol wire type used for a given
// reflect.Kind, excluding the special bool true/false encoding which is
// resolved at the field-header call site.
func compactTypeOf(k reflect.Kind) (byte, error) {
	switch k {
	case reflect.Bool:
		return compactBooleanTrue, nil
	case reflect.Int8, reflect.Uint8:
		return compactByte, nil
	case reflect.Int16, reflect.Uint16:
		return compactI16, nil
	case reflect.Int32, reflect.Uint32:
		return compactI32, nil
	case reflect.Int64, reflect.Uint64, reflect.Int, reflect.Uint:
		return compactI64, nil
	case reflect.Float64:
		return compactDouble, nil
	case reflect.String, reflect.Slice:
		// []byte and string both ride the binary wire type; other
		// slices are lists and are special-cased by the caller.
		return compactBinary, nil
	case reflect.Struct:
		return compactStruct, nil
	default:
		return 0, fmt.Errorf("thrift: unsupported kind %s", k)
	}
}

func isByteSlice(t reflect.Type) bool {
	return t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8
}

// writeStruct encodes rv (a struct value) as a thrift compact struct:
// a run of field headers + values, terminated by a stop byte.
func (e *encoder) writeStruct(rv reflect.Value) error {
	t := rv.Type()
	var lastID int16
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		ft := parseTag(sf.Tag.Get("thrift"))
		if !ft.present {
			continue
		}
		fv := rv.Field(i)
		if fv.Kind() == reflect.Ptr {
			if fv.IsNil() {
				continue
			}
			fv = fv.Elem()
		} else if isZero(fv) && !ft.required {
			continue
		}
		if err := e.writeField(ft.id, &lastID, fv); err != nil {
			return fmt.Errorf("thrift: field %s: %w", sf.Name, err)
		}
	}
	e.writeByte(compactProtocolStop)
	return nil
}

func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Slice, reflect.Map:
		return v.Len() == 0 && v.IsNil()
	default:
		return false
	}
}

func (e *encoder) writeField(id int16, lastID *int16, fv reflect.Value) error {
	if fv.Kind() == reflect.Slice && !isByteSlice(fv.Type()) {
		return e.writeFieldHeaderAndValue(id, lastID, compactList, fv)
	}
	if fv.Kind() == reflect.Bool {
		wt := byte(compactBooleanFalse)
		if fv.Bool() {
			wt = compactBooleanTrue
		}
		e.writeFieldHeader(id, lastID, wt)
		return nil
	}
	wt, err := compactTypeOf(fv.Kind())
	if err != nil {
		return err
	}
	return e.writeFieldHeaderAndValue(id, lastID, wt, fv)
}

func (e *encoder) writeFieldHeader(id int16, lastID *int16, wireType byte) {
	delta := id - *lastID
	if delta > 0 && delta <= 15 {
		e.writeByte(byte(delta)<<4 | wireType)
	} else {
		e.writeByte(wireType)
		e.writeZigzag(int64(id))
	}
	*lastID = id
}

func (e *encoder) writeFieldHeaderAndValue(id int16, lastID *int16, wireType byte, fv reflect.Value) error {
	e.writeFieldHeader(id, lastID, wireType)
	return e.writeValue(wireType, fv)
}

func (e *encoder) writeValue(wireType byte, fv reflect.Value) error {
	switch wireType {
	case compactBooleanTrue, compactBooleanFalse:
		if fv.Bool() {
			e.writeByte(compactBooleanTrue)
		} else {
			e.writeByte(compactBooleanFalse)
		}
	case compactByte:
		e.writeByte(byte(fv.Int()))
	case compactI16, compactI32, compactI64:
		e.writeZigzag(fv.Int())
	case compactDouble:
		bits := math.Float64bits(fv.Float())
		for i := 0; i < 8; i++ {
			e.writeByte(byte(bits >> (8 * i)))
		}
	case compactBinary:
		if fv.Kind() == reflect.String {
			e.writeBinary([]byte(fv.String()))
		} else {
			e.writeBinary(fv.Bytes())
		}
	case compactStruct:
		return e.writeStruct(fv)
	case compactList:
		return e.writeList(fv)
	default:
		return fmt.Errorf("thrift: unsupported wire type %#x", wireType)
	}
	return nil
}

func (e *encoder) writeList(fv reflect.Value) error {
	elemType := fv.Type().Elem()
	elemKind := elemType.Kind()
	var elemWire byte
	if elemKind == reflect.Ptr {
		elemKind = elemType.Elem().Kind()
	}
	if elemKind == reflect.Slice && isByteSlice(elemType) {
		elemWire = compactBinary
	} else {
		var err error
		elemWire, err = compactTypeOf(elemKind)
		if err != nil {
			return err
		}
	}
	n := fv.Len()
	if n < 15 {
		e.writeByte(byte(n)<<4 | elemWire)
	} else {
		e.writeByte(0xf0 | elemWire)
		e.writeVarint(uint64(n))
	}
	for i := 0; i < n; i++ {
		ev := fv.Index(i)
		if ev.Kind() == reflect.Ptr {
			ev = ev.Elem()
		}
		if err := e.writeValue(elemWire, ev); err != nil {
			return err
		}
	}
	return nil
}
