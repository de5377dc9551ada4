package gvas

import (
	"errors"
)

// parseArray reads an ArrayProperty or SetProperty. The header shape
// depends on the inner type: struct and enum inners carry their own
// metadata block, everything else uses the plain reserved+size header.
// Sets always use the plain header and add a removal count.
func (d *decoder) parseArray(depth int, path, name string, asSet bool) (*Value, error) {
	if err := d.cur.Skip(4); err != nil { // flag
		return nil, err
	}
	inner, err := d.readName()
	if err != nil {
		return nil, err
	}
	if !asSet {
		switch PropertyTypeOf(inner) {
		case PTStruct:
			return d.parseStructArray(depth, path, name)
		case PTEnum:
			return d.parseEnumArray(path, name)
		}
	}
	return d.parsePrimitiveArray(path, name, inner, asSet)
}

// collectionEnd resolves the declared end of a sized region, clamping to
// the enclosing scope when the declaration overruns it.
func (d *decoder) collectionEnd(anchor int64, size uint32, path string) int64 {
	end := anchor + int64(size)
	if end > d.cur.End() {
		d.sink.Report(anchor, path, "declared size %d overruns enclosing scope by %d bytes", size, end-d.cur.End())
		end = d.cur.End()
	}
	return end
}

// finishSeq applies the materialization decision and advances the cursor
// to the declared end. The cursor advance does not depend on the
// decision: sibling properties decode at the same offset in every mode.
func (d *decoder) finishSeq(seq *ElementSeq, end int64) error {
	if seq.decision == MaterializeFull {
		if _, err := seq.Materialize(); err != nil && errors.Is(err, ErrRecursionLimit) {
			return err
		}
	}
	if end < d.cur.Pos() {
		end = d.cur.Pos()
	}
	return d.cur.SeekTo(end)
}

// parsePrimitiveArray reads an array or set of bare elements: reserved
// u32, size u32, padding, removal u32 for sets, count u32, elements.
// The declared size counts every byte after the padding.
func (d *decoder) parsePrimitiveArray(path, name, inner string, asSet bool) (*Value, error) {
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
	end := d.collectionEnd(d.cur.Pos(), size, path)
	if asSet {
		if _, err := d.cur.ReadU32(); err != nil { // removal count
			return nil, err
		}
	}
	count, err := d.cur.ReadU32()
	if err != nil {
		return nil, err
	}
	start := d.cur.Pos()
	if end < start {
		d.sink.Report(start, path, "declared size %d ends before the element region", size)
		end = start
		count = 0
	}

	pt := PropertyTypeOf(inner)
	dec := d.bareElementDecoder(pt)
	decision := d.opts.Policy.decide(name, int(count))
	if dec == nil {
		d.sink.Report(start, path, "no element decoder for %q, region kept opaque", inner)
		decision = MaterializeSkip
	}
	seqEnd := end
	if w := bareElementWidth(pt); w > 0 && int64(count)*w != end-start {
		d.sink.Report(start, path, "%d elements of width %d disagree with region of %d bytes", count, w, end-start)
		count = uint32((end - start) / w)
		seqEnd = start + int64(count)*w
	}

	seq := &ElementSeq{
		inner:    inner,
		count:    int(count),
		start:    start,
		end:      seqEnd,
		data:     d.cur.data,
		dec:      dec,
		decision: decision,
		sink:     d.sink,
		context:  path,
	}
	if err := d.finishSeq(seq, end); err != nil {
		return nil, err
	}
	if asSet {
		return Set(seq), nil
	}
	return Array(seq), nil
}

// parseEnumArray reads an array of symbolic enum members. The header
// names the enum type and its storage type before the size field.
func (d *decoder) parseEnumArray(path, name string) (*Value, error) {
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
	if _, err := d.readName(); err != nil { // storage type
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
	end := d.collectionEnd(d.cur.Pos(), size, path)
	count, err := d.cur.ReadU32()
	if err != nil {
		return nil, err
	}
	start := d.cur.Pos()
	if end < start {
		d.sink.Report(start, path, "declared size %d ends before the element region", size)
		end = start
		count = 0
	}

	names := d.names
	dec := func(c *Cursor) (*Value, error) {
		s, err := c.ReadString()
		if err != nil {
			return nil, err
		}
		return Enum(enumType, names.get(s)), nil
	}
	seq := &ElementSeq{
		inner:    enumType,
		count:    int(count),
		start:    start,
		end:      end,
		data:     d.cur.data,
		dec:      dec,
		decision: d.opts.Policy.decide(name, int(count)),
		sink:     d.sink,
		context:  path,
	}
	if err := d.finishSeq(seq, end); err != nil {
		return nil, err
	}
	return Array(seq), nil
}

// parseStructArray reads an array of struct records. The declared size
// counts element data only; it is the recovery anchor when an element
// body fails to decode.
func (d *decoder) parseStructArray(depth int, path, name string) (*Value, error) {
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
	count, err := d.cur.ReadU32()
	if err != nil {
		return nil, err
	}
	start := d.cur.Pos()
	end := d.collectionEnd(start, size, path)

	seqEnd := end
	if layout, ok := LookupStructLayout(structType); ok {
		if want := layout.Size * int64(count); want != end-start {
			d.sink.Report(start, path, "%d %s records of %d bytes disagree with region of %d bytes", count, structType, layout.Size, end-start)
			count = uint32((end - start) / layout.Size)
			seqEnd = start + int64(count)*layout.Size
		}
	}

	sink, names, opts := d.sink, d.names, d.opts
	dec := func(c *Cursor) (*Value, error) {
		sub := &decoder{cur: c, sink: sink, names: names, opts: opts}
		return sub.parseStructValue(depth+1, path, structType)
	}
	seq := &ElementSeq{
		inner:    structType,
		count:    int(count),
		start:    start,
		end:      seqEnd,
		data:     d.cur.data,
		dec:      dec,
		decision: d.opts.Policy.decide(name, int(count)),
		sink:     d.sink,
		context:  path,
	}
	if err := d.finishSeq(seq, end); err != nil {
		return nil, err
	}
	return Array(seq), nil
}

// bareElementDecoder returns the decoder for one header-less collection
// element, or nil when the inner type has no bare encoding.
func (d *decoder) bareElementDecoder(pt PropertyType) elemDecoder {
	names := d.names
	switch pt {
	case PTBool:
		return func(c *Cursor) (*Value, error) {
			b, err := c.ReadU8()
			if err != nil {
				return nil, err
			}
			return Bool(b != 0), nil
		}
	case PTInt8:
		return func(c *Cursor) (*Value, error) {
			v, err := c.ReadI8()
			if err != nil {
				return nil, err
			}
			return Int8(v), nil
		}
	case PTUInt8, PTByte:
		return func(c *Cursor) (*Value, error) {
			v, err := c.ReadU8()
			if err != nil {
				return nil, err
			}
			return UInt8(v), nil
		}
	case PTInt32:
		return func(c *Cursor) (*Value, error) {
			v, err := c.ReadI32()
			if err != nil {
				return nil, err
			}
			return Int32(v), nil
		}
	case PTUInt32:
		return func(c *Cursor) (*Value, error) {
			v, err := c.ReadU32()
			if err != nil {
				return nil, err
			}
			return UInt32(v), nil
		}
	case PTInt64:
		return func(c *Cursor) (*Value, error) {
			v, err := c.ReadI64()
			if err != nil {
				return nil, err
			}
			return Int64(v), nil
		}
	case PTUInt64:
		return func(c *Cursor) (*Value, error) {
			v, err := c.ReadU64()
			if err != nil {
				return nil, err
			}
			return UInt64(v), nil
		}
	case PTFloat32:
		return func(c *Cursor) (*Value, error) {
			v, err := c.ReadF32()
			if err != nil {
				return nil, err
			}
			return Float32(v), nil
		}
	case PTFloat64:
		return func(c *Cursor) (*Value, error) {
			v, err := c.ReadF64()
			if err != nil {
				return nil, err
			}
			return Float64(v), nil
		}
	case PTStr:
		return func(c *Cursor) (*Value, error) {
			s, err := c.ReadString()
			if err != nil {
				return nil, err
			}
			return Str(s), nil
		}
	case PTName:
		return func(c *Cursor) (*Value, error) {
			s, err := c.ReadString()
			if err != nil {
				return nil, err
			}
			return Name(names.get(s)), nil
		}
	case PTEnum:
		return func(c *Cursor) (*Value, error) {
			s, err := c.ReadString()
			if err != nil {
				return nil, err
			}
			return Enum("", names.get(s)), nil
		}
	case PTObject, PTSoftObject:
		return func(c *Cursor) (*Value, error) {
			s, err := c.ReadString()
			if err != nil {
				return nil, err
			}
			return Object(s), nil
		}
	default:
		return nil
	}
}

// bareElementWidth reports the fixed byte width of a bare element, or 0
// for variable-width encodings.
func bareElementWidth(pt PropertyType) int64 {
	switch pt {
	case PTBool, PTInt8, PTUInt8, PTByte:
		return 1
	case PTInt32, PTUInt32, PTFloat32:
		return 4
	case PTInt64, PTUInt64, PTFloat64:
		return 8
	default:
		return 0
	}
}
