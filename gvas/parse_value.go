package gvas

// PropertyType is the closed set of wire type tags. The tag string maps to
// a variant once, at the dispatch boundary; every decode branch matches on
// the variant, not the string.
type PropertyType uint8

const (
	PTUnknown PropertyType = iota
	PTBool
	PTInt8
	PTUInt8
	PTInt32
	PTUInt32
	PTInt64
	PTUInt64
	PTFloat32
	PTFloat64
	PTStr
	PTName
	PTText
	PTByte
	PTEnum
	PTObject
	PTSoftObject
	PTStruct
	PTArray
	PTMap
	PTSet
)

var propertyTypes = map[string]PropertyType{
	"BoolProperty":       PTBool,
	"Int8Property":       PTInt8,
	"UInt8Property":      PTUInt8,
	"IntProperty":        PTInt32,
	"UInt32Property":     PTUInt32,
	"Int64Property":      PTInt64,
	"UInt64Property":     PTUInt64,
	"FloatProperty":      PTFloat32,
	"DoubleProperty":     PTFloat64,
	"StrProperty":        PTStr,
	"NameProperty":       PTName,
	"TextProperty":       PTText,
	"ByteProperty":       PTByte,
	"EnumProperty":       PTEnum,
	"ObjectProperty":     PTObject,
	"SoftObjectProperty": PTSoftObject,
	"StructProperty":     PTStruct,
	"ArrayProperty":      PTArray,
	"MapProperty":        PTMap,
	"SetProperty":        PTSet,
}

// PropertyTypeOf maps a wire tag to its variant. Unrecognized tags map to
// PTUnknown.
func PropertyTypeOf(tag string) PropertyType {
	return propertyTypes[tag]
}

// String returns the wire tag for the variant.
func (t PropertyType) String() string {
	for tag, pt := range propertyTypes {
		if pt == t {
			return tag
		}
	}
	return "unknown"
}

// parseValue dispatches on the property type tag. Failures with a declared
// size anchor are recovered inside the branch; anything escaping here has
// no anchor and propagates (fatal at the root, recovered by an enclosing
// sized scope otherwise).
func (d *decoder) parseValue(depth int, path, name, tag string) (*Value, error) {
	switch PropertyTypeOf(tag) {
	case PTBool:
		return d.parseBool(path)
	case PTInt8, PTUInt8, PTInt32, PTUInt32, PTInt64, PTUInt64, PTFloat32, PTFloat64, PTStr, PTName:
		return d.parseScalar(PropertyTypeOf(tag))
	case PTText:
		return d.parseText(path)
	case PTByte:
		return d.parseByte(path)
	case PTEnum:
		return d.parseEnum(path)
	case PTObject:
		return d.parseObject(path, false)
	case PTSoftObject:
		return d.parseObject(path, true)
	case PTStruct:
		return d.parseStruct(depth, path)
	case PTArray:
		return d.parseArray(depth, path, name, false)
	case PTSet:
		return d.parseArray(depth, path, name, true)
	case PTMap:
		return d.parseMap(depth, path, name)
	default:
		return nil, errAtf(d.cur.Pos(), ErrUnknownPropertyType, "%q", tag)
	}
}

// skipScalarHeader consumes the uniform scalar frame prefix: size u32 and
// index u32 (both ignored) plus the zero padding byte.
func (d *decoder) skipScalarHeader() error {
	return d.cur.Skip(9)
}

// parseBool reads a Bool property. Unique among scalars, Bool has no
// padding byte: the value byte sits where the padding would be.
func (d *decoder) parseBool(path string) (*Value, error) {
	start := d.cur.Pos()
	size, err := d.cur.ReadU32()
	if err != nil {
		return nil, err
	}
	if _, err := d.cur.ReadU32(); err != nil { // index
		return nil, err
	}
	if size != 0 {
		d.sink.Report(start, path, "bool size %d, expected 0", size)
	}
	b, err := d.cur.ReadU8()
	if err != nil {
		return nil, err
	}
	return Bool(b != 0), nil
}

// parseScalar reads one fixed-width or string scalar behind the uniform
// size+index+padding frame.
func (d *decoder) parseScalar(pt PropertyType) (*Value, error) {
	if err := d.skipScalarHeader(); err != nil {
		return nil, err
	}
	switch pt {
	case PTInt8:
		v, err := d.cur.ReadI8()
		if err != nil {
			return nil, err
		}
		return Int8(v), nil
	case PTUInt8:
		v, err := d.cur.ReadU8()
		if err != nil {
			return nil, err
		}
		return UInt8(v), nil
	case PTInt32:
		v, err := d.cur.ReadI32()
		if err != nil {
			return nil, err
		}
		return Int32(v), nil
	case PTUInt32:
		v, err := d.cur.ReadU32()
		if err != nil {
			return nil, err
		}
		return UInt32(v), nil
	case PTInt64:
		v, err := d.cur.ReadI64()
		if err != nil {
			return nil, err
		}
		return Int64(v), nil
	case PTUInt64:
		v, err := d.cur.ReadU64()
		if err != nil {
			return nil, err
		}
		return UInt64(v), nil
	case PTFloat32:
		v, err := d.cur.ReadF32()
		if err != nil {
			return nil, err
		}
		return Float32(v), nil
	case PTFloat64:
		v, err := d.cur.ReadF64()
		if err != nil {
			return nil, err
		}
		return Float64(v), nil
	case PTStr:
		s, err := d.readStr()
		if err != nil {
			return nil, err
		}
		return Str(s), nil
	case PTName:
		s, err := d.readName()
		if err != nil {
			return nil, err
		}
		return Name(s), nil
	default:
		return nil, errAtf(d.cur.Pos(), ErrUnknownPropertyType, "scalar %v", pt)
	}
}

// textHistoryNone is the culture-invariant history kind, the only text
// shape with a known layout.
const textHistoryNone = 0xFF

// parseText reads a TextProperty. Only the culture-invariant shape
// decodes; other history kinds stay opaque behind the declared size.
func (d *decoder) parseText(path string) (*Value, error) {
	size, err := d.cur.ReadU32()
	if err != nil {
		return nil, err
	}
	if err := d.cur.Skip(5); err != nil { // index + padding
		return nil, err
	}
	end := d.cur.Pos() + int64(size)
	text := ""
	err = d.runScoped(end, path, func() error {
		if _, err := d.cur.ReadU32(); err != nil { // flags
			return err
		}
		history, err := d.cur.ReadU8()
		if err != nil {
			return err
		}
		if history != textHistoryNone {
			d.sink.Report(d.cur.Pos()-1, path, "text history kind %d not decodable", history)
			return d.cur.SeekTo(end)
		}
		if _, err := d.cur.ReadU32(); err != nil { // culture-invariant flag
			return err
		}
		s, err := d.readStr()
		if err != nil {
			return err
		}
		text = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return Text(text), nil
}

// parseByte reads a ByteProperty: a raw u8 when the enum name is the
// "None" sentinel, otherwise a symbolic enum member string.
func (d *decoder) parseByte(path string) (*Value, error) {
	if err := d.cur.Skip(4); err != nil { // flag
		return nil, err
	}
	enumName, err := d.readName()
	if err != nil {
		return nil, err
	}
	size, err := d.cur.ReadU32()
	if err != nil {
		return nil, err
	}
	if err := d.cur.Skip(1); err != nil { // padding
		return nil, err
	}
	end := d.cur.Pos() + int64(size)
	var v *Value
	err = d.runScoped(end, path, func() error {
		if enumName == "None" {
			b, err := d.cur.ReadU8()
			if err != nil {
				return err
			}
			v = EnumByte(b)
			return nil
		}
		sym, err := d.readName()
		if err != nil {
			return err
		}
		v = Enum(enumName, sym)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if v == nil {
		v = Enum(enumName, "")
	}
	return v, nil
}

// parseEnum reads a standalone EnumProperty: enum type metadata, the
// usually-ByteProperty inner tag, then the symbolic member string.
func (d *decoder) parseEnum(path string) (*Value, error) {
	if err := d.cur.Skip(4); err != nil { // flag
		return nil, err
	}
	enumType, err := d.readName()
	if err != nil {
		return nil, err
	}
	if err := d.cur.Skip(4); err != nil { // flag
		return nil, err
	}
	if _, err := d.readName(); err != nil { // module path
		return nil, err
	}
	if err := d.cur.Skip(4); err != nil { // reserved
		return nil, err
	}
	if _, err := d.readName(); err != nil { // inner type
		return nil, err
	}
	if err := d.cur.Skip(4); err != nil { // reserved
		return nil, err
	}
	size, err := d.cur.ReadU32()
	if err != nil {
		return nil, err
	}
	if err := d.cur.Skip(1); err != nil { // padding
		return nil, err
	}
	end := d.cur.Pos() + int64(size)
	sym := ""
	err = d.runScoped(end, path, func() error {
		s, err := d.readName()
		if err != nil {
			return err
		}
		sym = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return Enum(enumType, sym), nil
}

// parseObject reads an ObjectProperty or SoftObjectProperty path.
func (d *decoder) parseObject(path string, soft bool) (*Value, error) {
	size, err := d.cur.ReadU32()
	if err != nil {
		return nil, err
	}
	if err := d.cur.Skip(5); err != nil { // index + padding
		return nil, err
	}
	end := d.cur.Pos() + int64(size)
	var v *Value
	err = d.runScoped(end, path, func() error {
		p, err := d.readStr()
		if err != nil {
			return err
		}
		if !soft {
			v = Object(p)
			return nil
		}
		sub, err := d.readStr()
		if err != nil {
			return err
		}
		v = SoftObject(p, sub)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if v == nil {
		v = Object("")
	}
	return v, nil
}

// parseStruct reads a standalone StructProperty: type metadata, declared
// value size, then the body per the registry classification, bounded by
// the size.
func (d *decoder) parseStruct(depth int, path string) (*Value, error) {
	if err := d.cur.Skip(4); err != nil { // flag
		return nil, err
	}
	structType, err := d.readName()
	if err != nil {
		return nil, err
	}
	if err := d.cur.Skip(4); err != nil { // flag
		return nil, err
	}
	if _, err := d.readName(); err != nil { // module path
		return nil, err
	}
	if err := d.cur.Skip(4); err != nil { // reserved
		return nil, err
	}
	size, err := d.cur.ReadU32()
	if err != nil {
		return nil, err
	}
	if err := d.cur.Skip(1); err != nil { // padding
		return nil, err
	}
	end := d.cur.Pos() + int64(size)
	var v *Value
	err = d.runScoped(end, path, func() error {
		sv, err := d.parseStructValue(depth+1, path, structType)
		if err != nil {
			return err
		}
		v = sv
		return nil
	})
	if err != nil {
		return nil, err
	}
	if v == nil {
		// The body did not decode; the property survives as an empty
		// struct next to its diagnostic.
		v = Struct(structType, NewPropertyList())
	}
	return v, nil
}

// parseStructValue decodes a struct body per its registry classification:
// a fixed-layout record with no recursion, or a nested property list.
func (d *decoder) parseStructValue(depth int, path, structType string) (*Value, error) {
	if layout, ok := LookupStructLayout(structType); ok {
		return d.parseStructRecord(structType, layout)
	}
	fields, err := d.parsePropertyList(depth, path)
	if err != nil {
		return nil, err
	}
	return Struct(structType, fields), nil
}

// parseStructRecord reads a fixed-layout record field by field.
func (d *decoder) parseStructRecord(typeName string, layout StructLayout) (*Value, error) {
	fields := NewPropertyList()
	for _, f := range layout.Fields {
		var v *Value
		switch f.Type {
		case FieldF64:
			x, err := d.cur.ReadF64()
			if err != nil {
				return nil, err
			}
			v = Float64(x)
		case FieldF32:
			x, err := d.cur.ReadF32()
			if err != nil {
				return nil, err
			}
			v = Float32(x)
		case FieldU8:
			x, err := d.cur.ReadU8()
			if err != nil {
				return nil, err
			}
			v = UInt8(x)
		case FieldI32:
			x, err := d.cur.ReadI32()
			if err != nil {
				return nil, err
			}
			v = Int32(x)
		case FieldI64:
			x, err := d.cur.ReadI64()
			if err != nil {
				return nil, err
			}
			v = Int64(x)
		case FieldU64:
			x, err := d.cur.ReadU64()
			if err != nil {
				return nil, err
			}
			v = UInt64(x)
		case FieldGUID:
			g, err := d.cur.ReadGUID()
			if err != nil {
				return nil, err
			}
			v = Guid(g)
		default:
			return nil, errAtf(d.cur.Pos(), ErrUnknownPropertyType, "struct field type %d", f.Type)
		}
		fields.Set(f.Name, v)
	}
	return Struct(typeName, fields), nil
}
