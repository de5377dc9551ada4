package gvas

import "errors"

// parsePropertyList reads properties until the "None"/empty-name sentinel.
// depth is the nesting level, path the dotted property path for
// diagnostics. The returned list holds whatever decoded before an error.
func (d *decoder) parsePropertyList(depth int, path string) (*PropertyList, error) {
	props := NewPropertyList()
	if depth > d.opts.MaxDepth {
		return props, errAtf(d.cur.Pos(), ErrRecursionLimit, "depth %d", depth)
	}
	for {
		if depth == 0 {
			if err := d.checkCtx(); err != nil {
				return props, err
			}
		}
		start := d.cur.Pos()

		name, err := d.readName()
		if err != nil {
			// Exhaustion where a name belongs means the sentinel
			// never arrived.
			if errors.Is(err, ErrUnexpectedEOF) {
				return props, errAtf(start, ErrListTerminator, "after %d properties", props.Len())
			}
			return props, err
		}
		if name == "" || name == "None" {
			return props, nil
		}

		tag, err := d.readName()
		if err != nil {
			return props, err
		}

		value, err := d.parseValue(depth, joinPath(path, name), name, tag)
		if err != nil {
			return props, err
		}
		if props.Set(name, value) {
			d.sink.Report(start, path, "duplicate property %q, keeping the later value", name)
		}
	}
}

// joinPath extends a dotted diagnostic path.
func joinPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
