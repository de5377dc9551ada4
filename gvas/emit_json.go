package gvas

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// JSONOptions configures the JSON emitter.
type JSONOptions struct {
	// Indent string for nested levels; empty emits compact output.
	Indent string
}

// DefaultJSONOptions returns sensible defaults.
func DefaultJSONOptions() JSONOptions {
	return JSONOptions{Indent: "  "}
}

// EmitJSON renders a parse result as a JSON report: header, properties,
// anomalies and statistics. Property order follows the byte stream.
func EmitJSON(res *ParseResult) string {
	return EmitJSONWithOptions(res, DefaultJSONOptions())
}

// EmitJSONWithOptions renders a parse result with custom options.
func EmitJSONWithOptions(res *ParseResult, opts JSONOptions) string {
	e := &jsonEmitter{opts: opts}
	e.emitResult(res)
	return e.sb.String()
}

type jsonEmitter struct {
	sb   strings.Builder
	opts JSONOptions
}

func (e *jsonEmitter) pretty() bool {
	return e.opts.Indent != ""
}

func (e *jsonEmitter) newline(depth int) {
	if !e.pretty() {
		return
	}
	e.sb.WriteByte('\n')
	for i := 0; i < depth; i++ {
		e.sb.WriteString(e.opts.Indent)
	}
}

func (e *jsonEmitter) key(name string) {
	e.emitString(name)
	e.sb.WriteByte(':')
	if e.pretty() {
		e.sb.WriteByte(' ')
	}
}

func (e *jsonEmitter) comma(depth int) {
	e.sb.WriteByte(',')
	e.newline(depth)
}

// emitString writes a JSON-escaped string.
func (e *jsonEmitter) emitString(s string) {
	b, err := json.Marshal(s)
	if err != nil {
		b = []byte(`""`)
	}
	e.sb.Write(b)
}

// emitFloat writes a float as JSON. NaN and the infinities have no JSON
// representation and degrade to null.
func (e *jsonEmitter) emitFloat(f float64) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		e.sb.WriteString("null")
		return
	}
	e.sb.WriteString(strconv.FormatFloat(f, 'f', -1, 64))
}

func (e *jsonEmitter) emitResult(res *ParseResult) {
	e.sb.WriteByte('{')
	e.newline(1)
	e.key("header")
	e.emitHeader(res.Doc.Header, 1)
	e.comma(1)
	e.key("properties")
	e.emitProps(res.Doc.Props, 1)
	e.comma(1)
	e.key("errors")
	e.emitDiags(res.Diags, 1)
	e.comma(1)
	e.key("stats")
	e.emitStats(res.Doc.Stats, 1)
	e.newline(0)
	e.sb.WriteByte('}')
}

func (e *jsonEmitter) emitHeader(h *Header, depth int) {
	if h == nil {
		e.sb.WriteString("null")
		return
	}
	e.sb.WriteByte('{')
	e.newline(depth + 1)
	e.key("magic")
	e.emitString("GVAS")
	e.comma(depth + 1)
	e.key("save_version")
	e.sb.WriteString(strconv.FormatUint(uint64(h.SaveVersion), 10))
	e.comma(depth + 1)
	e.key("package_version_ue4")
	e.sb.WriteString(strconv.FormatUint(uint64(h.PackageVersionUE4), 10))
	e.comma(depth + 1)
	e.key("package_version_ue5")
	e.sb.WriteString(strconv.FormatUint(uint64(h.PackageVersionUE5), 10))
	e.comma(depth + 1)
	e.key("engine_major")
	e.sb.WriteString(strconv.FormatUint(uint64(h.EngineMajor), 10))
	e.comma(depth + 1)
	e.key("engine_minor")
	e.sb.WriteString(strconv.FormatUint(uint64(h.EngineMinor), 10))
	e.comma(depth + 1)
	e.key("engine_patch")
	e.sb.WriteString(strconv.FormatUint(uint64(h.EnginePatch), 10))
	e.comma(depth + 1)
	e.key("engine_build")
	e.sb.WriteString(strconv.FormatUint(uint64(h.EngineBuild), 10))
	e.comma(depth + 1)
	e.key("engine_string")
	e.emitString(h.EngineVersion)
	e.comma(depth + 1)
	e.key("custom_format")
	e.sb.WriteString(strconv.FormatUint(uint64(h.CustomFormat), 10))
	e.comma(depth + 1)
	e.key("custom_versions")
	e.sb.WriteByte('[')
	for i, cv := range h.CustomVersions {
		if i > 0 {
			e.sb.WriteByte(',')
		}
		e.newline(depth + 2)
		e.sb.WriteByte('{')
		e.key("guid")
		e.emitString(cv.ID.String())
		e.sb.WriteByte(',')
		if e.pretty() {
			e.sb.WriteByte(' ')
		}
		e.key("version")
		e.sb.WriteString(strconv.FormatInt(int64(cv.Version), 10))
		e.sb.WriteByte('}')
	}
	if len(h.CustomVersions) > 0 {
		e.newline(depth + 1)
	}
	e.sb.WriteByte(']')
	e.comma(depth + 1)
	e.key("save_class")
	e.emitString(h.SaveClass)
	e.newline(depth)
	e.sb.WriteByte('}')
}

func (e *jsonEmitter) emitProps(p *PropertyList, depth int) {
	if p == nil || p.Len() == 0 {
		e.sb.WriteString("{}")
		return
	}
	e.sb.WriteByte('{')
	first := true
	for name, v := range p.All() {
		if !first {
			e.sb.WriteByte(',')
		}
		first = false
		e.newline(depth + 1)
		e.key(name)
		e.emitValue(v, depth+1)
	}
	e.newline(depth)
	e.sb.WriteByte('}')
}

func (e *jsonEmitter) emitValue(v *Value, depth int) {
	if v == nil {
		e.sb.WriteString("null")
		return
	}
	switch v.kind {
	case KindBool:
		e.sb.WriteString(strconv.FormatBool(v.boolVal))
	case KindInt8, KindInt32, KindInt64:
		e.sb.WriteString(strconv.FormatInt(v.intVal, 10))
	case KindUInt8, KindUInt32, KindUInt64:
		e.sb.WriteString(strconv.FormatUint(v.uintVal, 10))
	case KindFloat32, KindFloat64:
		e.emitFloat(v.floatVal)
	case KindStr, KindName, KindText:
		e.emitString(v.strVal)
	case KindGUID:
		e.emitString(v.guidVal.String())
	case KindEnum:
		e.emitEnum(v.enumVal)
	case KindObjectPath:
		e.emitObject(v.objectVal, depth)
	case KindArray, KindSet:
		e.emitSeq(v.seqVal, depth)
	case KindMap:
		e.emitMap(v.mapVal, depth)
	case KindStruct:
		e.emitStruct(v.structVal, depth)
	default:
		e.sb.WriteString("null")
	}
}

func (e *jsonEmitter) emitEnum(ev *EnumValue) {
	switch {
	case ev == nil:
		e.sb.WriteString("null")
	case ev.IsRaw():
		e.sb.WriteString(strconv.FormatUint(uint64(ev.Raw), 10))
	case ev.EnumName == "":
		e.emitString(ev.Symbol)
	default:
		e.sb.WriteByte('{')
		e.key("enum")
		e.emitString(ev.EnumName)
		e.sb.WriteByte(',')
		if e.pretty() {
			e.sb.WriteByte(' ')
		}
		e.key("value")
		e.emitString(ev.Symbol)
		e.sb.WriteByte('}')
	}
}

func (e *jsonEmitter) emitObject(op *ObjectPath, depth int) {
	if op == nil {
		e.sb.WriteString("null")
		return
	}
	if !op.HasSubPath {
		e.emitString(op.Path)
		return
	}
	e.sb.WriteByte('{')
	e.key("path")
	e.emitString(op.Path)
	e.sb.WriteByte(',')
	if e.pretty() {
		e.sb.WriteByte(' ')
	}
	e.key("sub_path")
	e.emitString(op.SubPath)
	e.sb.WriteByte('}')
}

// emitSeq renders a materialized sequence as an array and an elided one
// as a count marker. It never forces materialization: the decode policy
// already decided.
func (e *jsonEmitter) emitSeq(seq *ElementSeq, depth int) {
	if seq == nil {
		e.sb.WriteString("null")
		return
	}
	vals := seq.Materialized()
	if vals == nil && seq.Len() == 0 {
		e.sb.WriteString("[]")
		return
	}
	if vals == nil {
		e.sb.WriteByte('{')
		e.key("_elided")
		e.sb.WriteString(strconv.Itoa(seq.Len()))
		e.sb.WriteByte(',')
		if e.pretty() {
			e.sb.WriteByte(' ')
		}
		e.key("_inner")
		e.emitString(seq.InnerType())
		e.sb.WriteByte('}')
		return
	}
	e.sb.WriteByte('[')
	for i, v := range vals {
		if i > 0 {
			e.sb.WriteByte(',')
		}
		e.newline(depth + 1)
		e.emitValue(v, depth+1)
	}
	if len(vals) > 0 {
		e.newline(depth)
	}
	e.sb.WriteByte(']')
}

// emitMap renders entries as an ordered array of key/value objects: map
// keys are full values, not strings, and duplicates survive.
func (e *jsonEmitter) emitMap(mv *MapValue, depth int) {
	if mv == nil {
		e.sb.WriteString("null")
		return
	}
	if mv.Entries == nil && mv.Count > 0 {
		e.sb.WriteByte('{')
		e.key("_elided")
		e.sb.WriteString(strconv.Itoa(mv.Count))
		e.sb.WriteByte(',')
		if e.pretty() {
			e.sb.WriteByte(' ')
		}
		e.key("_key")
		e.emitString(mv.KeyType)
		e.sb.WriteByte(',')
		if e.pretty() {
			e.sb.WriteByte(' ')
		}
		e.key("_value")
		e.emitString(mv.ValueType)
		e.sb.WriteByte('}')
		return
	}
	e.sb.WriteByte('[')
	for i, entry := range mv.Entries {
		if i > 0 {
			e.sb.WriteByte(',')
		}
		e.newline(depth + 1)
		e.sb.WriteByte('{')
		e.key("key")
		e.emitValue(entry.Key, depth+1)
		e.sb.WriteByte(',')
		if e.pretty() {
			e.sb.WriteByte(' ')
		}
		e.key("value")
		e.emitValue(entry.Value, depth+1)
		e.sb.WriteByte('}')
	}
	if len(mv.Entries) > 0 {
		e.newline(depth)
	}
	e.sb.WriteByte(']')
}

func (e *jsonEmitter) emitStruct(sv *StructValue, depth int) {
	if sv == nil {
		e.sb.WriteString("null")
		return
	}
	e.sb.WriteByte('{')
	e.newline(depth + 1)
	e.key("_struct_type")
	e.emitString(sv.TypeName)
	if sv.Fields != nil {
		for name, v := range sv.Fields.All() {
			e.sb.WriteByte(',')
			e.newline(depth + 1)
			e.key(name)
			e.emitValue(v, depth+1)
		}
	}
	e.newline(depth)
	e.sb.WriteByte('}')
}

func (e *jsonEmitter) emitDiags(sink *DiagSink, depth int) {
	e.sb.WriteByte('[')
	if sink != nil {
		for i, d := range sink.All() {
			if i > 0 {
				e.sb.WriteByte(',')
			}
			e.newline(depth + 1)
			e.emitString(d.String())
		}
		if sink.Len() > 0 {
			e.newline(depth)
		}
	}
	e.sb.WriteByte(']')
}

func (e *jsonEmitter) emitStats(st ParseStats, depth int) {
	e.sb.WriteByte('{')
	e.newline(depth + 1)
	e.key("file_size")
	e.sb.WriteString(strconv.FormatInt(st.FileSize, 10))
	e.comma(depth + 1)
	e.key("parsed")
	e.sb.WriteString(strconv.FormatInt(st.Parsed, 10))
	e.comma(depth + 1)
	e.key("remaining")
	e.sb.WriteString(strconv.FormatInt(st.Remaining, 10))
	e.comma(depth + 1)
	e.key("percent")
	e.sb.WriteString(strconv.FormatFloat(st.Percent, 'f', 1, 64))
	e.newline(depth)
	e.sb.WriteByte('}')
}
