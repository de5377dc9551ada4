package gvas

// FieldType is the wire type of one slot in a fixed struct layout.
type FieldType uint8

const (
	FieldF64 FieldType = iota
	FieldF32
	FieldU8
	FieldI32
	FieldI64
	FieldU64
	FieldGUID
)

// width returns the slot's byte width.
func (t FieldType) width() int64 {
	switch t {
	case FieldF64, FieldI64, FieldU64:
		return 8
	case FieldF32, FieldI32:
		return 4
	case FieldU8:
		return 1
	case FieldGUID:
		return 16
	default:
		return 0
	}
}

// StructField is one named slot of a fixed layout, in wire order.
type StructField struct {
	Name string
	Type FieldType
}

// StructLayout is the fixed binary shape of a primitive struct type.
type StructLayout struct {
	Size   int64
	Fields []StructField
}

// primitiveStructs classifies struct type names: a name listed here has a
// fixed binary layout and decodes with no recursion; any other name is
// complex and decodes as a nested property list. Initialized once, never
// mutated.
var primitiveStructs = map[string]StructLayout{
	"Vector": {Size: 24, Fields: []StructField{
		{"x", FieldF64}, {"y", FieldF64}, {"z", FieldF64},
	}},
	"Vector2D": {Size: 16, Fields: []StructField{
		{"x", FieldF64}, {"y", FieldF64},
	}},
	"Rotator": {Size: 24, Fields: []StructField{
		{"pitch", FieldF64}, {"yaw", FieldF64}, {"roll", FieldF64},
	}},
	"Quat": {Size: 32, Fields: []StructField{
		{"x", FieldF64}, {"y", FieldF64}, {"z", FieldF64}, {"w", FieldF64},
	}},
	"LinearColor": {Size: 16, Fields: []StructField{
		{"r", FieldF32}, {"g", FieldF32}, {"b", FieldF32}, {"a", FieldF32},
	}},
	// Color is stored BGRA, not RGBA.
	"Color": {Size: 4, Fields: []StructField{
		{"b", FieldU8}, {"g", FieldU8}, {"r", FieldU8}, {"a", FieldU8},
	}},
	"DateTime": {Size: 8, Fields: []StructField{
		{"ticks", FieldU64},
	}},
	"Timespan": {Size: 8, Fields: []StructField{
		{"ticks", FieldI64},
	}},
	"IntPoint": {Size: 8, Fields: []StructField{
		{"x", FieldI32}, {"y", FieldI32},
	}},
	"IntVector": {Size: 12, Fields: []StructField{
		{"x", FieldI32}, {"y", FieldI32}, {"z", FieldI32},
	}},
	"Guid": {Size: 16, Fields: []StructField{
		{"value", FieldGUID},
	}},
	"Box": {Size: 49, Fields: []StructField{
		{"minX", FieldF64}, {"minY", FieldF64}, {"minZ", FieldF64},
		{"maxX", FieldF64}, {"maxY", FieldF64}, {"maxZ", FieldF64},
		{"valid", FieldU8},
	}},
}

// LookupStructLayout returns the fixed layout for a primitive struct type
// name. ok is false for complex (property-list) struct types.
func LookupStructLayout(name string) (StructLayout, bool) {
	l, ok := primitiveStructs[name]
	return l, ok
}
