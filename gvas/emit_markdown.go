package gvas

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MarkdownOptions configures the markdown report emitter.
type MarkdownOptions struct {
	// Title for the report heading.
	Title string

	// MaxDepth caps property tree rendering.
	MaxDepth int
}

// DefaultMarkdownOptions returns sensible defaults.
func DefaultMarkdownOptions() MarkdownOptions {
	return MarkdownOptions{
		Title:    "Save Parse Report",
		MaxDepth: 20,
	}
}

// EmitMarkdown renders a parse result as a human-readable markdown
// report: header summary, parse statistics, the property tree and any
// recorded anomalies.
func EmitMarkdown(res *ParseResult) string {
	return EmitMarkdownWithOptions(res, DefaultMarkdownOptions())
}

// EmitMarkdownWithOptions renders a parse result with custom options.
func EmitMarkdownWithOptions(res *ParseResult, opts MarkdownOptions) string {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = 20
	}
	e := &mdEmitter{opts: opts}
	e.emitResult(res)
	return e.sb.String()
}

type mdEmitter struct {
	sb   strings.Builder
	opts MarkdownOptions
}

func (e *mdEmitter) line(s string) {
	e.sb.WriteString(s)
	e.sb.WriteByte('\n')
}

func (e *mdEmitter) emitResult(res *ParseResult) {
	e.line("# " + e.opts.Title)
	e.line("")

	if h := res.Doc.Header; h != nil {
		e.line("## Header")
		e.line("")
		e.line("- **Magic:** GVAS")
		e.line(fmt.Sprintf("- **Engine:** %d.%d.%d", h.EngineMajor, h.EngineMinor, h.EnginePatch))
		e.line("- **Engine String:** " + h.EngineVersion)
		e.line("- **Save Class:** " + h.SaveClass)
		e.line("- **Custom Versions:** " + strconv.Itoa(len(h.CustomVersions)))
		e.line("")
	}

	st := res.Doc.Stats
	e.line("## Parse Statistics")
	e.line("")
	e.line("- **File Size:** " + groupDigits(st.FileSize) + " bytes")
	e.line(fmt.Sprintf("- **Parsed:** %s bytes (%.1f%%)", groupDigits(st.Parsed), st.Percent))
	e.line("- **Remaining:** " + groupDigits(st.Remaining) + " bytes")
	diagCount := 0
	if res.Diags != nil {
		diagCount = res.Diags.Len()
	}
	e.line("- **Anomalies:** " + strconv.Itoa(diagCount))
	if res.Doc.Props != nil {
		e.line("- **Data Items:** " + groupDigits(int64(countItems(res.Doc.Props, 0))))
	}
	e.line("")

	if res.Doc.Props != nil {
		e.line("## Properties")
		e.line("")
		e.emitProps(res.Doc.Props, 0)
	}

	if diagCount > 0 {
		e.line("")
		e.line("## Anomalies")
		e.line("")
		for _, d := range res.Diags.All() {
			e.line("- " + d.String())
		}
	}
}

func (e *mdEmitter) emitProps(p *PropertyList, depth int) {
	if depth > e.opts.MaxDepth {
		e.line(strings.Repeat("  ", depth) + "*[max depth reached]*")
		return
	}
	indent := strings.Repeat("  ", depth)
	for name, v := range p.All() {
		e.emitProp(indent, name, v, depth)
	}
}

func (e *mdEmitter) emitProp(indent, name string, v *Value, depth int) {
	if s, ok := scalarString(v); ok {
		e.line(fmt.Sprintf("%s- **%s**: %s", indent, name, s))
		return
	}
	switch v.kind {
	case KindStruct:
		e.emitStructProp(indent, name, v.structVal, depth)
	case KindArray, KindSet:
		e.emitSeqProp(indent, name, v.seqVal, depth)
	case KindMap:
		e.emitMapProp(indent, name, v.mapVal, depth)
	default:
		e.line(fmt.Sprintf("%s- **%s**: ?", indent, name))
	}
}

// emitStructProp inlines a record whose fields are all scalars and
// recurses otherwise.
func (e *mdEmitter) emitStructProp(indent, name string, sv *StructValue, depth int) {
	if sv == nil || sv.Fields == nil {
		e.line(fmt.Sprintf("%s- **%s** (struct):", indent, name))
		return
	}
	inline := make([]string, 0, sv.Fields.Len())
	allScalar := true
	for fname, fv := range sv.Fields.All() {
		s, ok := scalarString(fv)
		if !ok {
			allScalar = false
			break
		}
		inline = append(inline, fname+"="+s)
	}
	if allScalar && len(inline) > 0 {
		e.line(fmt.Sprintf("%s- **%s** (%s): %s", indent, name, sv.TypeName, strings.Join(inline, ", ")))
		return
	}
	e.line(fmt.Sprintf("%s- **%s** (%s):", indent, name, sv.TypeName))
	e.emitProps(sv.Fields, depth+1)
}

func (e *mdEmitter) emitSeqProp(indent, name string, seq *ElementSeq, depth int) {
	if seq == nil {
		e.line(fmt.Sprintf("%s- **%s** [0 items]:", indent, name))
		return
	}
	vals := seq.Materialized()
	if vals == nil && seq.Len() > 0 {
		e.line(fmt.Sprintf("%s- **%s** [%s %s items, not materialized]", indent, name, groupDigits(int64(seq.Len())), seq.InnerType()))
		return
	}
	e.line(fmt.Sprintf("%s- **%s** [%d items]:", indent, name, len(vals)))
	if depth+1 > e.opts.MaxDepth {
		e.line(indent + "  *[max depth reached]*")
		return
	}
	for i, v := range vals {
		if s, ok := scalarString(v); ok {
			e.line(fmt.Sprintf("%s  - [%d]: %s", indent, i, s))
			continue
		}
		if v.kind == KindStruct && v.structVal != nil {
			e.line(fmt.Sprintf("%s  - [%d] (%s):", indent, i, v.structVal.TypeName))
			if v.structVal.Fields != nil {
				e.emitProps(v.structVal.Fields, depth+2)
			}
			continue
		}
		e.line(fmt.Sprintf("%s  - [%d]:", indent, i))
	}
}

func (e *mdEmitter) emitMapProp(indent, name string, mv *MapValue, depth int) {
	if mv == nil {
		e.line(fmt.Sprintf("%s- **%s** {0 entries}:", indent, name))
		return
	}
	if mv.Entries == nil && mv.Count > 0 {
		e.line(fmt.Sprintf("%s- **%s** {%s entries, not materialized}", indent, name, groupDigits(int64(mv.Count))))
		return
	}
	e.line(fmt.Sprintf("%s- **%s** {%d entries}:", indent, name, len(mv.Entries)))
	if depth+1 > e.opts.MaxDepth {
		e.line(indent + "  *[max depth reached]*")
		return
	}
	for i, entry := range mv.Entries {
		key, ok := scalarString(entry.Key)
		if !ok {
			key = "[" + strconv.Itoa(i) + "]"
		}
		if s, ok := scalarString(entry.Value); ok {
			e.line(fmt.Sprintf("%s  - %s: %s", indent, key, s))
			continue
		}
		e.line(fmt.Sprintf("%s  - %s:", indent, key))
		if entry.Value != nil && entry.Value.kind == KindStruct && entry.Value.structVal != nil && entry.Value.structVal.Fields != nil {
			e.emitProps(entry.Value.structVal.Fields, depth+2)
		}
	}
}

// scalarString renders a leaf value for inline display, reporting false
// for composite values.
func scalarString(v *Value) (string, bool) {
	if v == nil {
		return "null", true
	}
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.boolVal), true
	case KindInt8, KindInt32, KindInt64:
		return strconv.FormatInt(v.intVal, 10), true
	case KindUInt8, KindUInt32, KindUInt64:
		return strconv.FormatUint(v.uintVal, 10), true
	case KindFloat32, KindFloat64:
		if math.IsNaN(v.floatVal) || math.IsInf(v.floatVal, 0) {
			return "null", true
		}
		return strconv.FormatFloat(v.floatVal, 'f', -1, 64), true
	case KindStr, KindName, KindText:
		return v.strVal, true
	case KindGUID:
		return v.guidVal.String(), true
	case KindEnum:
		ev := v.enumVal
		switch {
		case ev == nil:
			return "null", true
		case ev.IsRaw():
			return strconv.FormatUint(uint64(ev.Raw), 10), true
		default:
			return ev.Symbol, true
		}
	case KindObjectPath:
		if v.objectVal == nil {
			return "null", true
		}
		if v.objectVal.HasSubPath && v.objectVal.SubPath != "" {
			return v.objectVal.Path + ":" + v.objectVal.SubPath, true
		}
		return v.objectVal.Path, true
	default:
		return "", false
	}
}

// countItems counts leaf values under a property list, mirroring the
// report's "Data Items" figure. Unmaterialized collections count by
// their declared size.
func countItems(p *PropertyList, depth int) int {
	if p == nil || depth > 20 {
		return 1
	}
	n := 0
	for _, v := range p.All() {
		n += countValue(v, depth+1)
	}
	return n
}

func countValue(v *Value, depth int) int {
	if v == nil || depth > 20 {
		return 1
	}
	switch v.kind {
	case KindStruct:
		if v.structVal == nil {
			return 1
		}
		return countItems(v.structVal.Fields, depth)
	case KindArray, KindSet:
		seq := v.seqVal
		if seq == nil {
			return 0
		}
		vals := seq.Materialized()
		if vals == nil {
			return seq.Len()
		}
		n := 0
		for _, ev := range vals {
			n += countValue(ev, depth+1)
		}
		return n
	case KindMap:
		mv := v.mapVal
		if mv == nil {
			return 0
		}
		if mv.Entries == nil {
			return mv.Count
		}
		n := 0
		for _, entry := range mv.Entries {
			n += countValue(entry.Key, depth+1)
			n += countValue(entry.Value, depth+1)
		}
		return n
	default:
		return 1
	}
}

// groupDigits formats n with thousands separators.
func groupDigits(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	var sb strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		sb.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(s[i : i+3])
	}
	if neg {
		return "-" + sb.String()
	}
	return sb.String()
}
