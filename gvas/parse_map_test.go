package gvas

import (
	"testing"
)

// mapOf parses a buffer and returns the named property's map body.
func mapOf(t *testing.T, buf []byte, name string) (*MapValue, *ParseResult) {
	t.Helper()
	res, err := Parse(buf)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	v, ok := res.Doc.Props.Get(name)
	if !ok {
		t.Fatalf("property %q missing", name)
	}
	mv, err := v.AsMap()
	if err != nil {
		t.Fatalf("AsMap: %v", err)
	}
	return mv, res
}

func TestParseMapSimple(t *testing.T) {
	var w wire
	w.header()
	w.mapProp("Population", "StrProperty", "IntProperty", 2, func(b *wire) {
		b.str("bakers").i32(4)
		b.str("miners").i32(9)
	})
	w.none()

	mv, res := mapOf(t, w.buf, "Population")
	if mv.KeyType != "StrProperty" || mv.ValueType != "IntProperty" {
		t.Errorf("types = %q -> %q", mv.KeyType, mv.ValueType)
	}
	if mv.Count != 2 || len(mv.Entries) != 2 {
		t.Fatalf("Count = %d, entries = %d, want 2/2", mv.Count, len(mv.Entries))
	}
	if k, _ := mv.Entries[0].Key.AsString(); k != "bakers" {
		t.Errorf("entry 0 key = %q", k)
	}
	if v, _ := mv.Entries[1].Value.AsInt32(); v != 9 {
		t.Errorf("entry 1 value = %d", v)
	}
	if mv.Elided {
		t.Error("small map elided")
	}
	if res.Diags.Len() != 0 {
		t.Errorf("diagnostics = %v", res.Diags.All())
	}
}

func TestParseMapEmpty(t *testing.T) {
	var w wire
	w.header()
	w.mapProp("Empty", "StrProperty", "IntProperty", 0, func(b *wire) {})
	w.none()

	mv, _ := mapOf(t, w.buf, "Empty")
	if mv.Count != 0 || len(mv.Entries) != 0 || mv.Elided {
		t.Errorf("empty map = %+v", mv)
	}
}

func TestParseMapEnumKeys(t *testing.T) {
	var w wire
	w.header()
	w.enumKeyMapProp("Stocks", "EResource", "IntProperty", 2, func(b *wire) {
		b.str("EResource::Timber").i32(10)
		b.str("EResource::Stone").i32(3)
	})
	w.none()

	mv, res := mapOf(t, w.buf, "Stocks")
	if mv.KeyEnum != "EResource" {
		t.Errorf("KeyEnum = %q", mv.KeyEnum)
	}
	if len(mv.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(mv.Entries))
	}
	ev, err := mv.Entries[0].Key.AsEnum()
	if err != nil {
		t.Fatalf("entry 0 key: %v", err)
	}
	if ev.EnumName != "EResource" || ev.Symbol != "EResource::Timber" {
		t.Errorf("entry 0 key = %+v", ev)
	}
	if v, _ := mv.Entries[1].Value.AsInt32(); v != 3 {
		t.Errorf("entry 1 value = %d", v)
	}
	if res.Diags.Len() != 0 {
		t.Errorf("diagnostics = %v", res.Diags.All())
	}
}

// TestParseMapEnumKeyMetadataOrder pins the field order for enum-keyed
// maps: the storage type comes before the value type. A stream written
// the other way around misaligns the value width and cannot decode.
func TestParseMapEnumKeyMetadataOrder(t *testing.T) {
	body := func(b *wire) {
		b.str("EResource::Timber").i32(10)
		b.str("EResource::Stone").i32(3)
	}

	var good wire
	good.header()
	good.enumKeyMapProp("Stocks", "EResource", "IntProperty", 2, body)
	good.i32Prop("After", 1)
	good.none()

	mv, res := mapOf(t, good.buf, "Stocks")
	if len(mv.Entries) != 2 || res.Diags.Len() != 0 {
		t.Fatalf("correct order: entries = %d, diags = %v", len(mv.Entries), res.Diags.All())
	}

	// Same fields with the storage and value types swapped.
	var bodyBuf wire
	body(&bodyBuf)
	var bad wire
	bad.header()
	bad.prop("Stocks", "MapProperty").
		u32(0).str("EnumProperty").
		u32(0).str("EResource").
		u32(0).str("").
		u32(0).str("IntProperty").
		u32(0).str("ByteProperty").
		u32(0).u32(uint32(8 + len(bodyBuf.buf))).u8(0).
		u32(0).
		u32(2).
		raw(bodyBuf.buf)
	bad.i32Prop("After", 1)
	bad.none()

	res, err := Parse(bad.buf)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	v, _ := res.Doc.Props.Get("Stocks")
	bm, _ := v.AsMap()
	if len(bm.Entries) != 0 {
		t.Errorf("swapped order decoded %d entries", len(bm.Entries))
	}
	if res.Diags.Len() == 0 {
		t.Error("swapped order produced no diagnostic")
	}
	if after, _ := res.Doc.Props.Get("After"); after == nil {
		t.Fatal("sibling missing after misaligned map")
	}
}

func TestParseMapStructKeys(t *testing.T) {
	var w wire
	w.header()
	w.structKeyMapProp("Regions", "Vector", "IntProperty", "", 2, func(b *wire) {
		b.f64(1).f64(2).f64(3).i32(7)
		b.f64(4).f64(5).f64(6).i32(8)
	})
	w.none()

	mv, res := mapOf(t, w.buf, "Regions")
	if mv.KeyStruct != "Vector" {
		t.Errorf("KeyStruct = %q", mv.KeyStruct)
	}
	if len(mv.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(mv.Entries))
	}
	if got, _ := mv.Entries[0].Key.Get("y").AsFloat64(); got != 2 {
		t.Errorf("entry 0 key.y = %v, want 2", got)
	}
	if got, _ := mv.Entries[1].Value.AsInt32(); got != 8 {
		t.Errorf("entry 1 value = %d, want 8", got)
	}
	if res.Diags.Len() != 0 {
		t.Errorf("diagnostics = %v", res.Diags.All())
	}
}

func TestParseMapStructValues(t *testing.T) {
	var w wire
	w.header()
	w.prop("Sites", "MapProperty").
		u32(0).str("StrProperty").
		u32(0).str("StructProperty").
		u32(0).str("Vector").
		u32(0).str("")
	var body wire
	body.str("mill").f64(1).f64(2).f64(3)
	w.u32(0).u32(uint32(8 + len(body.buf))).u8(0).
		u32(0).
		u32(1).
		raw(body.buf)
	w.none()

	mv, res := mapOf(t, w.buf, "Sites")
	if mv.ValueStruct != "Vector" {
		t.Errorf("ValueStruct = %q", mv.ValueStruct)
	}
	if len(mv.Entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(mv.Entries))
	}
	if got, _ := mv.Entries[0].Value.Get("z").AsFloat64(); got != 3 {
		t.Errorf("value.z = %v, want 3", got)
	}
	if res.Diags.Len() != 0 {
		t.Errorf("diagnostics = %v", res.Diags.All())
	}
}

// TestParseMapStructBothSides exercises the struct-key struct-value
// combination, whose metadata still funnels into a single reserved field
// before the size.
func TestParseMapStructBothSides(t *testing.T) {
	var w wire
	w.header()
	w.structKeyMapProp("Bounds", "Vector", "StructProperty", "Vector", 1, func(b *wire) {
		b.f64(1).f64(2).f64(3)
		b.f64(7).f64(8).f64(9)
	})
	w.i32Prop("After", 4)
	w.none()

	mv, res := mapOf(t, w.buf, "Bounds")
	if mv.KeyStruct != "Vector" || mv.ValueStruct != "Vector" {
		t.Errorf("structs = %q/%q", mv.KeyStruct, mv.ValueStruct)
	}
	if len(mv.Entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(mv.Entries))
	}
	if got, _ := mv.Entries[0].Key.Get("x").AsFloat64(); got != 1 {
		t.Errorf("key.x = %v", got)
	}
	if got, _ := mv.Entries[0].Value.Get("z").AsFloat64(); got != 9 {
		t.Errorf("value.z = %v", got)
	}
	if after, _ := res.Doc.Props.Get("After"); after == nil {
		t.Fatal("sibling missing")
	}
	if res.Diags.Len() != 0 {
		t.Errorf("diagnostics = %v", res.Diags.All())
	}
}

func TestParseMapElided(t *testing.T) {
	var w wire
	w.header()
	w.mapProp("Census", "StrProperty", "IntProperty", 150, func(b *wire) {
		for i := 0; i < 150; i++ {
			b.str("family").i32(int32(i))
		}
	})
	w.i32Prop("After", 2)
	w.none()

	res, err := Parse(w.buf)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if res.BytesParsed != int64(len(w.buf)) {
		t.Fatalf("BytesParsed = %d, want %d", res.BytesParsed, len(w.buf))
	}
	v, _ := res.Doc.Props.Get("Census")
	mv, _ := v.AsMap()
	if !mv.Elided {
		t.Fatal("large map not elided under the terse policy")
	}
	if mv.Entries != nil {
		t.Errorf("elided map kept %d entries", len(mv.Entries))
	}
	if mv.Count != 150 {
		t.Errorf("Count = %d, want 150", mv.Count)
	}
	if after, _ := res.Doc.Props.Get("After"); after == nil {
		t.Fatal("sibling missing after elided map")
	}
	if res.Diags.Len() != 0 {
		t.Errorf("diagnostics = %v", res.Diags.All())
	}
}

func TestParseMapRecoveryDiscards(t *testing.T) {
	// The second entry's key has an absurd length: the partial result is
	// discarded, the declared size anchors recovery, and the sibling
	// decodes.
	var w wire
	w.header()
	var body wire
	body.str("good").i32(1)
	body.i32(1 << 28).raw([]byte{0, 0, 0, 0})
	w.prop("Broken", "MapProperty").
		u32(0).str("StrProperty").
		u32(0).str("IntProperty").
		u32(0).u32(uint32(8 + len(body.buf))).u8(0).
		u32(0).
		u32(2).
		raw(body.buf)
	w.i32Prop("After", 5)
	w.none()

	mv, res := mapOf(t, w.buf, "Broken")
	if mv.Entries != nil {
		t.Errorf("recovered map kept %d entries, want discard", len(mv.Entries))
	}
	if mv.Count != 2 {
		t.Errorf("Count = %d, want 2", mv.Count)
	}
	if mv.Elided {
		t.Error("recovered map marked elided")
	}
	if after, _ := res.Doc.Props.Get("After"); after == nil {
		t.Fatal("sibling missing after recovered map")
	}
	if res.Diags.Len() != 1 {
		t.Errorf("diagnostics = %d, want 1: %v", res.Diags.Len(), res.Diags.All())
	}
}

func TestParseMapUnknownKeyType(t *testing.T) {
	var w wire
	w.header()
	w.mapProp("Weird", "FancyProperty", "IntProperty", 1, func(b *wire) {
		b.raw([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	})
	w.i32Prop("After", 6)
	w.none()

	mv, res := mapOf(t, w.buf, "Weird")
	if mv.Entries != nil {
		t.Error("undecodable key type produced entries")
	}
	if after, _ := res.Doc.Props.Get("After"); after == nil {
		t.Fatal("sibling missing")
	}
	if res.Diags.Len() != 1 {
		t.Errorf("diagnostics = %d, want 1: %v", res.Diags.Len(), res.Diags.All())
	}
}
