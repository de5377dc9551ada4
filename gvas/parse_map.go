package gvas

// parseMap reads a MapProperty. The header metadata depends on the key
// and value type combination; every combination funnels into a single
// reserved u32 followed by the declared size, which bounds the entry
// region and anchors recovery.
func (d *decoder) parseMap(depth int, path, name string) (*Value, error) {
	if err := d.cur.Skip(4); err != nil { // flag
		return nil, err
	}
	keyType, err := d.readName()
	if err != nil {
		return nil, err
	}

	var keyStruct, keyEnum string
	var valueType string
	switch PropertyTypeOf(keyType) {
	case PTStruct:
		if err := d.cur.Skip(4); err != nil { // flag
			return nil, err
		}
		if keyStruct, err = d.readName(); err != nil {
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
		if valueType, err = d.readName(); err != nil {
			return nil, err
		}
	case PTEnum:
		// The enum storage type is serialized before the value type.
		if err := d.cur.Skip(4); err != nil { // flag
			return nil, err
		}
		if keyEnum, err = d.readName(); err != nil {
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
		if valueType, err = d.readName(); err != nil {
			return nil, err
		}
	default:
		if err := d.cur.Skip(4); err != nil { // flag
			return nil, err
		}
		if valueType, err = d.readName(); err != nil {
			return nil, err
		}
	}

	var valueStruct string
	if PropertyTypeOf(valueType) == PTStruct {
		if err := d.cur.Skip(4); err != nil { // flag
			return nil, err
		}
		if valueStruct, err = d.readName(); err != nil {
			return nil, err
		}
		if err := d.cur.Skip(4); err != nil { // flag
			return nil, err
		}
		if _, err := d.readName(); err != nil { // module path
			return nil, err
		}
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

	mv := &MapValue{
		KeyType:     keyType,
		ValueType:   valueType,
		KeyStruct:   keyStruct,
		ValueStruct: valueStruct,
		KeyEnum:     keyEnum,
	}
	err = d.runScoped(end, path, func() error {
		if _, err := d.cur.ReadU32(); err != nil { // removal count
			return err
		}
		count, err := d.cur.ReadU32()
		if err != nil {
			return err
		}
		mv.Count = int(count)
		if d.opts.Policy.decide(name, int(count)) != MaterializeFull {
			mv.Elided = true
			return d.cur.SeekTo(d.cur.End())
		}
		entries, err := d.parseMapEntries(depth, path, mv, int(count))
		if err != nil {
			return err
		}
		mv.Entries = entries
		return nil
	})
	if err != nil {
		return nil, err
	}
	return Map(mv), nil
}

// parseMapEntries walks the entry region. A failure discards the partial
// result; the enclosing scope records it and recovers at the declared
// boundary.
func (d *decoder) parseMapEntries(depth int, path string, mv *MapValue, count int) ([]MapEntry, error) {
	keyDec := d.bareElementDecoder(PropertyTypeOf(mv.KeyType))
	valDec := d.bareElementDecoder(PropertyTypeOf(mv.ValueType))

	n := int64(count)
	if r := d.cur.Remaining()/2 + 1; n > r {
		n = r
	}
	entries := make([]MapEntry, 0, n)
	for i := 0; i < count; i++ {
		var key *Value
		var err error
		switch PropertyTypeOf(mv.KeyType) {
		case PTStruct:
			key, err = d.parseStructValue(depth+1, path, mv.KeyStruct)
		case PTEnum:
			var s string
			if s, err = d.readName(); err == nil {
				key = Enum(mv.KeyEnum, s)
			}
		default:
			if keyDec == nil {
				return nil, errAtf(d.cur.Pos(), ErrUnknownPropertyType, "map key %q", mv.KeyType)
			}
			key, err = keyDec(d.cur)
		}
		if err != nil {
			return nil, err
		}

		var val *Value
		if PropertyTypeOf(mv.ValueType) == PTStruct {
			val, err = d.parseStructValue(depth+1, path, mv.ValueStruct)
		} else {
			if valDec == nil {
				return nil, errAtf(d.cur.Pos(), ErrUnknownPropertyType, "map value %q", mv.ValueType)
			}
			val, err = valDec(d.cur)
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, MapEntry{Key: key, Value: val})
	}
	return entries, nil
}
