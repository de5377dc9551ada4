package gvas

import (
	"encoding/binary"
	"math"
	"unicode/utf16"
)

// wire assembles synthetic save buffers for tests, little-endian like the
// format. Builders that take a declared size compute it from the body so
// offset arithmetic in tests stays honest.
type wire struct {
	buf []byte
}

func (w *wire) raw(b []byte) *wire {
	w.buf = append(w.buf, b...)
	return w
}

func (w *wire) u8(v uint8) *wire {
	w.buf = append(w.buf, v)
	return w
}

func (w *wire) u16(v uint16) *wire {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
	return w
}

func (w *wire) u32(v uint32) *wire {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
	return w
}

func (w *wire) i32(v int32) *wire {
	return w.u32(uint32(v))
}

func (w *wire) u64(v uint64) *wire {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
	return w
}

func (w *wire) i64(v int64) *wire {
	return w.u64(uint64(v))
}

func (w *wire) f32(v float32) *wire {
	return w.u32(math.Float32bits(v))
}

func (w *wire) f64(v float64) *wire {
	return w.u64(math.Float64bits(v))
}

// str writes a length-prefixed UTF-8 string with its trailing NUL. The
// empty string is written as length zero with no payload.
func (w *wire) str(s string) *wire {
	if s == "" {
		return w.i32(0)
	}
	w.i32(int32(len(s) + 1))
	w.buf = append(w.buf, s...)
	return w.u8(0)
}

// utf16str writes a negative-length UTF-16LE string with its terminator.
func (w *wire) utf16str(s string) *wire {
	units := utf16.Encode([]rune(s))
	w.i32(int32(-(len(units) + 1)))
	for _, u := range units {
		w.u16(u)
	}
	return w.u16(0)
}

// strLen returns the encoded byte length of one UTF-8 string.
func strLen(s string) uint32 {
	if s == "" {
		return 4
	}
	return uint32(4 + len(s) + 1)
}

// ============================================================
// Header and property frames
// ============================================================

// header writes a minimal valid GVAS header with no custom versions.
func (w *wire) header() *wire {
	w.raw([]byte("GVAS"))
	w.u32(3)    // save version
	w.u32(522)  // package version UE4
	w.u32(1009) // package version UE5
	w.u16(5).u16(5).u16(0)
	w.u32(40000000)
	w.str("++UE5+Release-5.5-CL-40000000")
	w.u32(3) // custom format
	w.u32(0) // custom version count
	return w.str("/Script/Game.SaveGameInstance")
}

// prop writes a property's name and type tag.
func (w *wire) prop(name, tag string) *wire {
	return w.str(name).str(tag)
}

// none terminates a property list.
func (w *wire) none() *wire {
	return w.str("None")
}

func (w *wire) boolProp(name string, v bool) *wire {
	w.prop(name, "BoolProperty").u32(0).u32(0)
	if v {
		return w.u8(1)
	}
	return w.u8(0)
}

func (w *wire) scalarFrame(size uint32) *wire {
	return w.u32(size).u32(0).u8(0)
}

func (w *wire) i8Prop(name string, v int8) *wire {
	return w.prop(name, "Int8Property").scalarFrame(1).u8(uint8(v))
}

func (w *wire) u8Prop(name string, v uint8) *wire {
	return w.prop(name, "UInt8Property").scalarFrame(1).u8(v)
}

func (w *wire) i32Prop(name string, v int32) *wire {
	return w.prop(name, "IntProperty").scalarFrame(4).i32(v)
}

func (w *wire) u32Prop(name string, v uint32) *wire {
	return w.prop(name, "UInt32Property").scalarFrame(4).u32(v)
}

func (w *wire) i64Prop(name string, v int64) *wire {
	return w.prop(name, "Int64Property").scalarFrame(8).i64(v)
}

func (w *wire) u64Prop(name string, v uint64) *wire {
	return w.prop(name, "UInt64Property").scalarFrame(8).u64(v)
}

func (w *wire) f32Prop(name string, v float32) *wire {
	return w.prop(name, "FloatProperty").scalarFrame(4).f32(v)
}

func (w *wire) f64Prop(name string, v float64) *wire {
	return w.prop(name, "DoubleProperty").scalarFrame(8).f64(v)
}

func (w *wire) strProp(name, s string) *wire {
	return w.prop(name, "StrProperty").scalarFrame(strLen(s)).str(s)
}

func (w *wire) nameProp(name, s string) *wire {
	return w.prop(name, "NameProperty").scalarFrame(strLen(s)).str(s)
}

func (w *wire) textProp(name, s string) *wire {
	return w.prop(name, "TextProperty").scalarFrame(4+1+4+strLen(s)).
		u32(0).   // flags
		u8(0xFF). // history: culture invariant
		u32(0).   // culture-invariant flag
		str(s)
}

func (w *wire) byteRawProp(name string, v uint8) *wire {
	return w.prop(name, "ByteProperty").u32(0).str("None").u32(1).u8(0).u8(v)
}

func (w *wire) byteEnumProp(name, enumName, symbol string) *wire {
	return w.prop(name, "ByteProperty").u32(0).str(enumName).u32(strLen(symbol)).u8(0).str(symbol)
}

func (w *wire) enumProp(name, enumType, symbol string) *wire {
	return w.prop(name, "EnumProperty").
		u32(0).str(enumType).
		u32(0).str("").
		u32(0).str("ByteProperty").
		u32(0).u32(strLen(symbol)).u8(0).str(symbol)
}

func (w *wire) objectProp(name, path string) *wire {
	return w.prop(name, "ObjectProperty").scalarFrame(strLen(path)).str(path)
}

func (w *wire) softObjectProp(name, path, sub string) *wire {
	return w.prop(name, "SoftObjectProperty").scalarFrame(strLen(path)+strLen(sub)).str(path).str(sub)
}

// structProp writes a standalone struct property whose body is produced
// by fill; the declared size is measured from it.
func (w *wire) structProp(name, structType string, fill func(*wire)) *wire {
	var body wire
	fill(&body)
	w.prop(name, "StructProperty").
		u32(0).str(structType).
		u32(0).str("").
		u32(0).u32(uint32(len(body.buf))).u8(0)
	return w.raw(body.buf)
}

func (w *wire) vectorProp(name string, x, y, z float64) *wire {
	return w.structProp(name, "Vector", func(b *wire) {
		b.f64(x).f64(y).f64(z)
	})
}

// arrayProp writes an array of bare elements; the declared size covers
// the count field plus the element bytes.
func (w *wire) arrayProp(name, inner string, count int, fill func(*wire)) *wire {
	var body wire
	fill(&body)
	w.prop(name, "ArrayProperty").
		u32(0).str(inner).
		u32(0).u32(uint32(4 + len(body.buf))).u8(0).
		u32(uint32(count))
	return w.raw(body.buf)
}

func (w *wire) i32Array(name string, vals ...int32) *wire {
	return w.arrayProp(name, "IntProperty", len(vals), func(b *wire) {
		for _, v := range vals {
			b.i32(v)
		}
	})
}

// setProp writes a set of bare elements; the declared size covers the
// removal count, the element count, and the element bytes.
func (w *wire) setProp(name, inner string, count int, fill func(*wire)) *wire {
	var body wire
	fill(&body)
	w.prop(name, "SetProperty").
		u32(0).str(inner).
		u32(0).u32(uint32(8 + len(body.buf))).u8(0).
		u32(0). // removal count
		u32(uint32(count))
	return w.raw(body.buf)
}

// enumArrayProp writes an array of symbolic enum members.
func (w *wire) enumArrayProp(name, enumType string, symbols ...string) *wire {
	var body wire
	for _, s := range symbols {
		body.str(s)
	}
	w.prop(name, "ArrayProperty").
		u32(0).str("EnumProperty").
		u32(0).str(enumType).
		u32(0).str("").
		u32(0).str("ByteProperty").
		u32(0).u32(uint32(4 + len(body.buf))).u8(0).
		u32(uint32(len(symbols)))
	return w.raw(body.buf)
}

// structArrayProp writes an array of struct records; the declared size
// covers element data only.
func (w *wire) structArrayProp(name, structType string, count int, fill func(*wire)) *wire {
	var body wire
	fill(&body)
	w.prop(name, "ArrayProperty").
		u32(0).str("StructProperty").
		u32(0).str(structType).
		u32(0).str("").
		u32(0).u32(uint32(len(body.buf))).u8(0).
		u32(uint32(count))
	return w.raw(body.buf)
}

// mapProp writes a map with plain key and value types.
func (w *wire) mapProp(name, keyType, valueType string, count int, fill func(*wire)) *wire {
	var body wire
	fill(&body)
	w.prop(name, "MapProperty").
		u32(0).str(keyType).
		u32(0).str(valueType).
		u32(0).u32(uint32(8 + len(body.buf))).u8(0).
		u32(0). // removal count
		u32(uint32(count))
	return w.raw(body.buf)
}

// enumKeyMapProp writes a map with enum keys: the enum storage type is
// serialized before the value type.
func (w *wire) enumKeyMapProp(name, keyEnum, valueType string, count int, fill func(*wire)) *wire {
	var body wire
	fill(&body)
	w.prop(name, "MapProperty").
		u32(0).str("EnumProperty").
		u32(0).str(keyEnum).
		u32(0).str("").
		u32(0).str("ByteProperty").
		u32(0).str(valueType).
		u32(0).u32(uint32(8 + len(body.buf))).u8(0).
		u32(0).
		u32(uint32(count))
	return w.raw(body.buf)
}

// structKeyMapProp writes a map with struct keys. When the value is also
// a struct, exactly one reserved field separates the value metadata from
// the size.
func (w *wire) structKeyMapProp(name, keyStruct, valueType, valueStruct string, count int, fill func(*wire)) *wire {
	var body wire
	fill(&body)
	w.prop(name, "MapProperty").
		u32(0).str("StructProperty").
		u32(0).str(keyStruct).
		u32(0).str("").
		u32(0).str(valueType)
	if valueType == "StructProperty" {
		w.u32(0).str(valueStruct).u32(0).str("")
	}
	w.u32(0).u32(uint32(8 + len(body.buf))).u8(0).
		u32(0).
		u32(uint32(count))
	return w.raw(body.buf)
}
