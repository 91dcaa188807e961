package thrift

import (
	"fmt"
	"io"
	"math"
	"reflect"
)

// byteSource is the minimal read surface readStruct and friends need.
// *bytes.Reader satisfies it for Unmarshal's in-memory decode; *bufio.Reader
// satisfies it for StreamDecoder's page-by-page streaming decode, so both
// share the exact same decoding logic below.
type byteSource interface {
	io.Reader
	io.ByteReader
}

type decoder struct {
	r byteSource
}

func (d *decoder) readByte() (byte, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		if err == io.EOF {
			return 0, io.ErrUnexpectedEOF
		}
		return 0, err
	}
	return b, nil
}

func (d *decoder) readVarint() (uint64, error) {
	var result uint64
	var shift uint
	for {
		b, err := d.readByte()
		if err != nil {
			return 0, err
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
		if shift >= 70 {
			return 0, fmt.Errorf("thrift: varint overflow")
		}
	}
}

func unzigzag32(u uint64) int32 {
	v := uint32(u)
	return int32(v>>1) ^ -int32(v&1)
}

func unzigzag64(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1)
}

func (d *decoder) readZigzag() (int64, error) {
	u, err := d.readVarint()
	if err != nil {
		return 0, err
	}
	return unzigzag64(u), nil
}

func (d *decoder) readBinary() ([]byte, error) {
	n, err := d.readVarint()
	if err != nil {
		return nil, err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(d.r, b); err != nil {
		return nil, io.ErrUnexpectedEOF
	}
	return b, nil
}

func findField(rv reflect.Value, id int16) (reflect.Value, bool) {
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		ft := parseTag(t.Field(i).Tag.Get("thrift"))
		if ft.present && ft.id == id {
			return rv.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func (d *decoder) readStruct(rv reflect.Value) error {
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		ft := parseTag(t.Field(i).Tag.Get("thrift"))
		if ft.present && ft.defaultTrue {
			fv := rv.Field(i)
			if fv.Kind() == reflect.Bool {
				fv.SetBool(true)
			}
		}
	}
	var lastID int16
	for {
		header, err := d.readByte()
		if err != nil {
			return err
		}
		if header == compactProtocolStop {
			return nil
		}
		wireType := header & 0x0f
		delta := header >> 4
		var id int16
		if delta == 0 {
			v, err := d.readZigzag()
			if err != nil {
				return err
			}
			id = int16(v)
		} else {
			id = lastID + int16(delta)
		}
		lastID = id

		fv, found := findField(rv, id)
		if !found {
			if err := d.skipValue(wireType); err != nil {
				return err
			}
			continue
		}
		if err := d.readFieldValue(fv, wireType); err != nil {
			return fmt.Errorf("thrift: field id %d: %w", id, err)
		}
	}
}

func (d *decoder) readFieldValue(fv reflect.Value, wireType byte) error {
	if fv.Kind() == reflect.Ptr {
		elem := reflect.New(fv.Type().Elem())
		if err := d.readValue(elem.Elem(), wireType); err != nil {
			return err
		}
		fv.Set(elem)
		return nil
	}
	return d.readValue(fv, wireType)
}

func (d *decoder) readValue(fv reflect.Value, wireType byte) error {
	switch wireType {
	case compactBooleanTrue:
		fv.SetBool(true)
		return nil
	case compactBooleanFalse:
		fv.SetBool(false)
		return nil
	case compactByte:
		b, err := d.readByte()
		if err != nil {
			return err
		}
		fv.SetInt(int64(int8(b)))
		return nil
	case compactI16, compactI32, compactI64:
		v, err := d.readZigzag()
		if err != nil {
			return err
		}
		fv.SetInt(v)
		return nil
	case compactDouble:
		var bits uint64
		for i := 0; i < 8; i++ {
			b, err := d.readByte()
			if err != nil {
				return err
			}
			bits |= uint64(b) << (8 * i)
		}
		fv.SetFloat(math.Float64frombits(bits))
		return nil
	case compactBinary:
		b, err := d.readBinary()
		if err != nil {
			return err
		}
		if fv.Kind() == reflect.String {
			fv.SetString(string(b))
		} else {
			fv.SetBytes(b)
		}
		return nil
	case compactStruct:
		if fv.Kind() != reflect.Struct {
			return fmt.Errorf("thrift: cannot decode struct into %s", fv.Type())
		}
		return d.readStruct(fv)
	case compactList, compactSet:
		return d.readList(fv)
	default:
		return fmt.Errorf("thrift: unsupported wire type %#x", wireType)
	}
}

func (d *decoder) readList(fv reflect.Value) error {
	if fv.Kind() != reflect.Slice {
		return fmt.Errorf("thrift: cannot decode list into %s", fv.Type())
	}
	header, err := d.readByte()
	if err != nil {
		return err
	}
	size := int(header >> 4)
	elemWire := header & 0x0f
	if size == 15 {
		v, err := d.readVarint()
		if err != nil {
			return err
		}
		size = int(v)
	}
	elemType := fv.Type().Elem()
	slice := reflect.MakeSlice(fv.Type(), size, size)
	for i := 0; i < size; i++ {
		ev := slice.Index(i)
		if elemWire == compactBooleanTrue || elemWire == compactBooleanFalse {
			// Unlike a bool struct field (whose value lives in the
			// field-header nibble itself), a bool list element carries
			// its own byte: 0x01 for true, 0x02 for false.
			b, err := d.readByte()
			if err != nil {
				return err
			}
			ev.SetBool(b == compactBooleanTrue)
			continue
		}
		if elemType.Kind() == reflect.Ptr {
			elem := reflect.New(elemType.Elem())
			if err := d.readValue(elem.Elem(), elemWire); err != nil {
				return err
			}
			ev.Set(elem)
		} else {
			if err := d.readValue(ev, elemWire); err != nil {
				return err
			}
		}
	}
	fv.Set(slice)
	return nil
}

// skipValue discards the bytes of a value whose field id has no
// matching struct field, so unknown/forward-compatible fields don't
// break decoding of files written by a newer tool.
func (d *decoder) skipValue(wireType byte) error {
	switch wireType {
	case compactBooleanTrue, compactBooleanFalse:
		return nil
	case compactByte:
		_, err := d.readByte()
		return err
	case compactI16, compactI32, compactI64:
		_, err := d.readZigzag()
		return err
	case compactDouble:
		for i := 0; i < 8; i++ {
			if _, err := d.readByte(); err != nil {
				return err
			}
		}
		return nil
	case compactBinary:
		_, err := d.readBinary()
		return err
	case compactStruct:
		for {
			header, err := d.readByte()
			if err != nil {
				return err
			}
			if header == compactProtocolStop {
				return nil
			}
			if header>>4 == 0 {
				// Long-form field header: the field id follows as a
				// zigzag varint.
				if _, err := d.readZigzag(); err != nil {
					return err
				}
			}
			if err := d.skipValue(header & 0x0f); err != nil {
				return err
			}
		}
	case compactList, compactSet:
		header, err := d.readByte()
		if err != nil {
			return err
		}
		size := int(header >> 4)
		elemWire := header & 0x0f
		if size == 15 {
			v, err := d.readVarint()
			if err != nil {
				return err
			}
			size = int(v)
		}
		if elemWire == compactBooleanTrue || elemWire == compactBooleanFalse {
			// Bool list elements carry a full payload byte each, unlike
			// a bool struct field's header-nibble encoding.
			for i := 0; i < size; i++ {
				if _, err := d.readByte(); err != nil {
					return err
				}
			}
			return nil
		}
		for i := 0; i < size; i++ {
			if err := d.skipValue(elemWire); err != nil {
				return err
			}
		}
		return nil
	case compactMap:
		n, err := d.readVarint()
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		kv, err := d.readByte()
		if err != nil {
			return err
		}
		keyWire, valWire := kv>>4, kv&0x0f
		for i := uint64(0); i < n; i++ {
			if err := d.skipValue(keyWire); err != nil {
				return err
			}
			if err := d.skipValue(valWire); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("thrift: unsupported wire type %#x", wireType)
	}
}
