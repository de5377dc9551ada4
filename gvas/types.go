package gvas

import (
	"fmt"
	"iter"

	"github.com/elliotchance/orderedmap/v3"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindInt8
	KindUInt8
	KindInt32
	KindUInt32
	KindInt64
	KindUInt64
	KindFloat32
	KindFloat64
	KindStr
	KindName
	KindText
	KindEnum
	KindObjectPath
	KindGUID
	KindArray
	KindSet
	KindMap
	KindStruct
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt8:
		return "int8"
	case KindUInt8:
		return "uint8"
	case KindInt32:
		return "int32"
	case KindUInt32:
		return "uint32"
	case KindInt64:
		return "int64"
	case KindUInt64:
		return "uint64"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindStr:
		return "str"
	case KindName:
		return "name"
	case KindText:
		return "text"
	case KindEnum:
		return "enum"
	case KindObjectPath:
		return "objectpath"
	case KindGUID:
		return "guid"
	case KindArray:
		return "array"
	case KindSet:
		return "set"
	case KindMap:
		return "map"
	case KindStruct:
		return "struct"
	default:
		return "invalid"
	}
}

// Value is one decoded property value. The variant is closed: exactly one
// payload field is meaningful for a given kind. Values are immutable once
// the decode pass constructs them.
type Value struct {
	kind Kind

	// Scalar payloads (one valid based on kind)
	boolVal  bool
	intVal   int64  // Int8, Int32, Int64
	uintVal  uint64 // UInt8, UInt32, UInt64
	floatVal float64
	strVal   string // Str, Name, Text
	guidVal  GUID

	// Composite payloads
	enumVal   *EnumValue
	objectVal *ObjectPath
	seqVal    *ElementSeq // Array, Set
	mapVal    *MapValue
	structVal *StructValue
}

// EnumValue is a ByteProperty or EnumProperty payload. EnumName "None" is
// the format's sentinel for the raw byte form; any other name carries the
// symbolic member (e.g. "ENodeType::Iron"). An empty EnumName marks a
// symbolic value whose enum type the stream did not name.
type EnumValue struct {
	EnumName string
	Symbol   string
	Raw      uint8
}

// IsRaw reports whether the value is the raw byte form.
func (e *EnumValue) IsRaw() bool {
	return e.EnumName == "None"
}

// ObjectPath is an ObjectProperty or SoftObjectProperty payload.
type ObjectPath struct {
	Path       string
	SubPath    string
	HasSubPath bool
}

// StructValue is a decoded StructProperty body: either a fixed-layout
// record (fields are scalars in wire order) or a nested property list.
type StructValue struct {
	TypeName string
	Fields   *PropertyList
}

// MapEntry is one decoded (key, value) pair. The format does not require
// keys unique; entries are opaque pairs in encounter order, never
// deduplicated.
type MapEntry struct {
	Key   *Value
	Value *Value
}

// MapValue is a decoded MapProperty body.
type MapValue struct {
	KeyType   string
	ValueType string
	// KeyStruct and ValueStruct carry the struct type name when the
	// corresponding side is StructProperty; KeyEnum likewise for
	// EnumProperty keys.
	KeyStruct   string
	ValueStruct string
	KeyEnum     string
	// Count is the declared entry count. Entries is nil when the policy
	// elided the body or a recovered anomaly discarded it.
	Count   int
	Entries []MapEntry
	Elided  bool
}

// Document is one decoded save: the header plus the root property list.
type Document struct {
	Header *Header
	Props  *PropertyList
	Stats  ParseStats
}

// ============================================================
// PropertyList
// ============================================================

// PropertyList is an insertion-ordered name to value mapping: the decoded
// form of one sentinel-terminated property list.
type PropertyList struct {
	m *orderedmap.OrderedMap[string, *Value]
}

// NewPropertyList returns an empty list.
func NewPropertyList() *PropertyList {
	return &PropertyList{m: orderedmap.NewOrderedMap[string, *Value]()}
}

// Set stores v under name and reports whether a previous value was
// replaced. Duplicate names are a format violation the decoder logs; last
// write wins.
func (p *PropertyList) Set(name string, v *Value) bool {
	return !p.m.Set(name, v)
}

// Get returns the value stored under name.
func (p *PropertyList) Get(name string) (*Value, bool) {
	return p.m.Get(name)
}

// Len returns the number of entries.
func (p *PropertyList) Len() int {
	return p.m.Len()
}

// All iterates entries in insertion order.
func (p *PropertyList) All() iter.Seq2[string, *Value] {
	return p.m.AllFromFront()
}

// ============================================================
// Constructors
// ============================================================

// Bool creates a boolean value.
func Bool(v bool) *Value {
	return &Value{kind: KindBool, boolVal: v}
}

// Int8 creates a signed 8-bit value.
func Int8(v int8) *Value {
	return &Value{kind: KindInt8, intVal: int64(v)}
}

// UInt8 creates an unsigned 8-bit value.
func UInt8(v uint8) *Value {
	return &Value{kind: KindUInt8, uintVal: uint64(v)}
}

// Int32 creates a signed 32-bit value.
func Int32(v int32) *Value {
	return &Value{kind: KindInt32, intVal: int64(v)}
}

// UInt32 creates an unsigned 32-bit value.
func UInt32(v uint32) *Value {
	return &Value{kind: KindUInt32, uintVal: uint64(v)}
}

// Int64 creates a signed 64-bit value.
func Int64(v int64) *Value {
	return &Value{kind: KindInt64, intVal: v}
}

// UInt64 creates an unsigned 64-bit value.
func UInt64(v uint64) *Value {
	return &Value{kind: KindUInt64, uintVal: v}
}

// Float32 creates a single-precision float value.
func Float32(v float32) *Value {
	return &Value{kind: KindFloat32, floatVal: float64(v)}
}

// Float64 creates a double-precision float value.
func Float64(v float64) *Value {
	return &Value{kind: KindFloat64, floatVal: v}
}

// Str creates a string value.
func Str(v string) *Value {
	return &Value{kind: KindStr, strVal: v}
}

// Name creates a name value.
func Name(v string) *Value {
	return &Value{kind: KindName, strVal: v}
}

// Text creates a localized-text value.
func Text(v string) *Value {
	return &Value{kind: KindText, strVal: v}
}

// Guid creates a GUID value.
func Guid(g GUID) *Value {
	return &Value{kind: KindGUID, guidVal: g}
}

// Enum creates a symbolic enum value.
func Enum(enumName, symbol string) *Value {
	return &Value{kind: KindEnum, enumVal: &EnumValue{EnumName: enumName, Symbol: symbol}}
}

// EnumByte creates the raw byte form of a byte/enum value.
func EnumByte(b uint8) *Value {
	return &Value{kind: KindEnum, enumVal: &EnumValue{EnumName: "None", Raw: b}}
}

// Object creates an object path value.
func Object(path string) *Value {
	return &Value{kind: KindObjectPath, objectVal: &ObjectPath{Path: path}}
}

// SoftObject creates an object path value with a sub-path.
func SoftObject(path, subPath string) *Value {
	return &Value{kind: KindObjectPath, objectVal: &ObjectPath{Path: path, SubPath: subPath, HasSubPath: true}}
}

// Array creates an array value over an element sequence.
func Array(seq *ElementSeq) *Value {
	return &Value{kind: KindArray, seqVal: seq}
}

// Set creates a set value over an element sequence.
func Set(seq *ElementSeq) *Value {
	return &Value{kind: KindSet, seqVal: seq}
}

// Map creates a map value.
func Map(m *MapValue) *Value {
	return &Value{kind: KindMap, mapVal: m}
}

// Struct creates a struct value.
func Struct(typeName string, fields *PropertyList) *Value {
	return &Value{kind: KindStruct, structVal: &StructValue{TypeName: typeName, Fields: fields}}
}

// ============================================================
// Accessors
// ============================================================

// Kind returns the value kind.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindInvalid
	}
	return v.kind
}

// AsBool returns the boolean payload.
func (v *Value) AsBool() (bool, error) {
	if v == nil {
		return false, fmt.Errorf("gvas: nil value")
	}
	if v.kind != KindBool {
		return false, fmt.Errorf("gvas: expected bool, got %s", v.kind)
	}
	return v.boolVal, nil
}

// AsInt8 returns the signed 8-bit payload.
func (v *Value) AsInt8() (int8, error) {
	if v == nil {
		return 0, fmt.Errorf("gvas: nil value")
	}
	if v.kind != KindInt8 {
		return 0, fmt.Errorf("gvas: expected int8, got %s", v.kind)
	}
	return int8(v.intVal), nil
}

// AsUInt8 returns the unsigned 8-bit payload.
func (v *Value) AsUInt8() (uint8, error) {
	if v == nil {
		return 0, fmt.Errorf("gvas: nil value")
	}
	if v.kind != KindUInt8 {
		return 0, fmt.Errorf("gvas: expected uint8, got %s", v.kind)
	}
	return uint8(v.uintVal), nil
}

// AsInt32 returns the signed 32-bit payload.
func (v *Value) AsInt32() (int32, error) {
	if v == nil {
		return 0, fmt.Errorf("gvas: nil value")
	}
	if v.kind != KindInt32 {
		return 0, fmt.Errorf("gvas: expected int32, got %s", v.kind)
	}
	return int32(v.intVal), nil
}

// AsUInt32 returns the unsigned 32-bit payload.
func (v *Value) AsUInt32() (uint32, error) {
	if v == nil {
		return 0, fmt.Errorf("gvas: nil value")
	}
	if v.kind != KindUInt32 {
		return 0, fmt.Errorf("gvas: expected uint32, got %s", v.kind)
	}
	return uint32(v.uintVal), nil
}

// AsInt64 returns the signed 64-bit payload.
func (v *Value) AsInt64() (int64, error) {
	if v == nil {
		return 0, fmt.Errorf("gvas: nil value")
	}
	if v.kind != KindInt64 {
		return 0, fmt.Errorf("gvas: expected int64, got %s", v.kind)
	}
	return v.intVal, nil
}

// AsUInt64 returns the unsigned 64-bit payload.
func (v *Value) AsUInt64() (uint64, error) {
	if v == nil {
		return 0, fmt.Errorf("gvas: nil value")
	}
	if v.kind != KindUInt64 {
		return 0, fmt.Errorf("gvas: expected uint64, got %s", v.kind)
	}
	return v.uintVal, nil
}

// AsFloat32 returns the single-precision payload.
func (v *Value) AsFloat32() (float32, error) {
	if v == nil {
		return 0, fmt.Errorf("gvas: nil value")
	}
	if v.kind != KindFloat32 {
		return 0, fmt.Errorf("gvas: expected float32, got %s", v.kind)
	}
	return float32(v.floatVal), nil
}

// AsFloat64 returns the double-precision payload.
func (v *Value) AsFloat64() (float64, error) {
	if v == nil {
		return 0, fmt.Errorf("gvas: nil value")
	}
	if v.kind != KindFloat64 {
		return 0, fmt.Errorf("gvas: expected float64, got %s", v.kind)
	}
	return v.floatVal, nil
}

// AsString returns the string payload of a Str, Name, or Text value.
func (v *Value) AsString() (string, error) {
	if v == nil {
		return "", fmt.Errorf("gvas: nil value")
	}
	if v.kind != KindStr && v.kind != KindName && v.kind != KindText {
		return "", fmt.Errorf("gvas: expected str/name/text, got %s", v.kind)
	}
	return v.strVal, nil
}

// AsGUID returns the GUID payload.
func (v *Value) AsGUID() (GUID, error) {
	if v == nil {
		return GUID{}, fmt.Errorf("gvas: nil value")
	}
	if v.kind != KindGUID {
		return GUID{}, fmt.Errorf("gvas: expected guid, got %s", v.kind)
	}
	return v.guidVal, nil
}

// AsEnum returns the byte/enum payload.
func (v *Value) AsEnum() (*EnumValue, error) {
	if v == nil {
		return nil, fmt.Errorf("gvas: nil value")
	}
	if v.kind != KindEnum {
		return nil, fmt.Errorf("gvas: expected enum, got %s", v.kind)
	}
	return v.enumVal, nil
}

// AsObjectPath returns the object path payload.
func (v *Value) AsObjectPath() (*ObjectPath, error) {
	if v == nil {
		return nil, fmt.Errorf("gvas: nil value")
	}
	if v.kind != KindObjectPath {
		return nil, fmt.Errorf("gvas: expected objectpath, got %s", v.kind)
	}
	return v.objectVal, nil
}

// AsSeq returns the element sequence of an Array or Set value.
func (v *Value) AsSeq() (*ElementSeq, error) {
	if v == nil {
		return nil, fmt.Errorf("gvas: nil value")
	}
	if v.kind != KindArray && v.kind != KindSet {
		return nil, fmt.Errorf("gvas: expected array/set, got %s", v.kind)
	}
	return v.seqVal, nil
}

// AsMap returns the map payload.
func (v *Value) AsMap() (*MapValue, error) {
	if v == nil {
		return nil, fmt.Errorf("gvas: nil value")
	}
	if v.kind != KindMap {
		return nil, fmt.Errorf("gvas: expected map, got %s", v.kind)
	}
	return v.mapVal, nil
}

// AsStruct returns the struct payload.
func (v *Value) AsStruct() (*StructValue, error) {
	if v == nil {
		return nil, fmt.Errorf("gvas: nil value")
	}
	if v.kind != KindStruct {
		return nil, fmt.Errorf("gvas: expected struct, got %s", v.kind)
	}
	return v.structVal, nil
}

// Get returns a field value by name from a struct value, or nil.
func (v *Value) Get(name string) *Value {
	if v == nil || v.kind != KindStruct || v.structVal.Fields == nil {
		return nil
	}
	f, _ := v.structVal.Fields.Get(name)
	return f
}

// Len returns the element count of an array/set/map/struct value.
func (v *Value) Len() int {
	if v == nil {
		return 0
	}
	switch v.kind {
	case KindArray, KindSet:
		return v.seqVal.Len()
	case KindMap:
		return v.mapVal.Count
	case KindStruct:
		if v.structVal.Fields == nil {
			return 0
		}
		return v.structVal.Fields.Len()
	default:
		return 0
	}
}
