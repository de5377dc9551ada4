package gvas

import (
	"encoding/binary"
	"encoding/hex"
	"unicode/utf16"
)

// GUID is a 16-byte engine identifier: an opaque, equality-comparable blob,
// never interpreted numerically.
type GUID [16]byte

// String renders the GUID as 32 lowercase hex digits.
func (g GUID) String() string {
	return hex.EncodeToString(g[:])
}

// IsZero reports whether every byte is zero.
func (g GUID) IsZero() bool {
	return g == GUID{}
}

// ReadGUID reads a 16-byte GUID.
func (c *Cursor) ReadGUID() (GUID, error) {
	b, err := c.ReadBytes(16)
	if err != nil {
		return GUID{}, err
	}
	var g GUID
	copy(g[:], b)
	return g, nil
}

// ReadString reads a length-prefixed string, the format's only
// variable-width primitive. The int32 length prefix selects the encoding:
// positive means UTF-8 with the trailing NUL inside the count, negative
// means UTF-16LE spanning 2*|length| bytes, zero means empty with no
// payload. The declared length is validated against the remaining scope
// before any allocation, so a corrupt prefix cannot trigger a runaway
// allocation.
func (c *Cursor) ReadString() (string, error) {
	start := c.pos
	length, err := c.ReadI32()
	if err != nil {
		return "", err
	}
	switch {
	case length == 0:
		return "", nil

	case length > 0:
		if int64(length) > c.Remaining() {
			return "", errAtf(start, ErrInvalidStringLength, "utf-8 length %d exceeds remaining %d", length, c.Remaining())
		}
		b, err := c.ReadBytes(int64(length))
		if err != nil {
			return "", err
		}
		if b[len(b)-1] == 0 {
			b = b[:len(b)-1]
		}
		return string(b), nil

	default:
		units := -int64(length)
		if units*2 > c.Remaining() {
			return "", errAtf(start, ErrInvalidStringLength, "utf-16 length %d exceeds remaining %d", units, c.Remaining())
		}
		b, err := c.ReadBytes(units * 2)
		if err != nil {
			return "", err
		}
		u16 := make([]uint16, 0, units)
		for i := 0; i+1 < len(b); i += 2 {
			u16 = append(u16, binary.LittleEndian.Uint16(b[i:]))
		}
		if n := len(u16); n > 0 && u16[n-1] == 0 {
			u16 = u16[:n-1]
		}
		return string(utf16.Decode(u16)), nil
	}
}
