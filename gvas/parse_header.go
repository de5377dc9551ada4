package gvas

// Header is the decoded GVAS preamble: engine and version identification
// preceding the property stream. The decoder never branches on these
// fields; unexpected values surface as diagnostics only.
type Header struct {
	SaveVersion       uint32
	PackageVersionUE4 uint32
	PackageVersionUE5 uint32
	EngineMajor       uint16
	EngineMinor       uint16
	EnginePatch       uint16
	EngineBuild       uint32
	EngineVersion     string
	CustomFormat      uint32
	CustomVersions    []CustomVersion
	SaveClass         string
}

// CustomVersion is one (GUID, version) pair from the header's custom
// format list.
type CustomVersion struct {
	ID      GUID
	Version int32
}

// customVersionBytes is the wire width of one CustomVersion entry.
const customVersionBytes = 20

// supportedSaveVersion is the save-game version this format was reverse
// engineered from.
const supportedSaveVersion = 3

// parseHeader reads the GVAS header. Only the magic is validated hard;
// everything past it can at worst produce diagnostics.
func (d *decoder) parseHeader() (*Header, error) {
	magic := d.cur.Peek(4)
	if len(magic) < 4 || string(magic) != "GVAS" {
		return nil, errAtf(0, ErrHeaderMagic, "got %q", magic)
	}
	if err := d.cur.Skip(4); err != nil {
		return nil, err
	}

	h := &Header{}
	var err error
	if h.SaveVersion, err = d.cur.ReadU32(); err != nil {
		return h, err
	}
	if h.SaveVersion != supportedSaveVersion {
		d.sink.Report(4, "header", "save version %d, expected %d", h.SaveVersion, supportedSaveVersion)
	}
	if h.PackageVersionUE4, err = d.cur.ReadU32(); err != nil {
		return h, err
	}
	if h.PackageVersionUE5, err = d.cur.ReadU32(); err != nil {
		return h, err
	}
	if h.EngineMajor, err = d.cur.ReadU16(); err != nil {
		return h, err
	}
	if h.EngineMinor, err = d.cur.ReadU16(); err != nil {
		return h, err
	}
	if h.EnginePatch, err = d.cur.ReadU16(); err != nil {
		return h, err
	}
	if h.EngineBuild, err = d.cur.ReadU32(); err != nil {
		return h, err
	}
	if h.EngineVersion, err = d.readStr(); err != nil {
		return h, err
	}

	if h.CustomFormat, err = d.cur.ReadU32(); err != nil {
		return h, err
	}
	countPos := d.cur.Pos()
	count, err := d.cur.ReadU32()
	if err != nil {
		return h, err
	}
	if need := int64(count) * customVersionBytes; need > d.cur.Remaining() {
		return h, errAtf(countPos, ErrUnexpectedEOF, "custom version count %d needs %d bytes, have %d",
			count, need, d.cur.Remaining())
	}
	h.CustomVersions = make([]CustomVersion, 0, count)
	for i := uint32(0); i < count; i++ {
		var cv CustomVersion
		if cv.ID, err = d.cur.ReadGUID(); err != nil {
			return h, err
		}
		if cv.Version, err = d.cur.ReadI32(); err != nil {
			return h, err
		}
		h.CustomVersions = append(h.CustomVersions, cv)
	}

	if h.SaveClass, err = d.readStr(); err != nil {
		return h, err
	}

	// UE5.5 emits a stray NUL between the save class and the first
	// property. Four zero bytes are not the stray NUL but the empty-name
	// list terminator's length prefix, which must stay unconsumed.
	if p := d.cur.Peek(4); len(p) >= 1 && p[0] == 0 && !allZero(p) {
		if err := d.cur.Skip(1); err != nil {
			return h, err
		}
	}
	return h, nil
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
