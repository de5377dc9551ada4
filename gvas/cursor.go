package gvas

import (
	"encoding/binary"
	"math"
)

// Cursor is a forward-only reader over a decompressed save buffer. It
// tracks an absolute byte offset and an exclusive end bound; sub-cursors
// from LimitTo share the buffer and narrow the bound, which is how declared
// construct sizes are enforced during nested decoding.
type Cursor struct {
	data []byte
	pos  int64
	end  int64
}

// NewCursor returns a cursor over data, positioned at offset 0.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data, end: int64(len(data))}
}

// Pos returns the current absolute offset.
func (c *Cursor) Pos() int64 { return c.pos }

// End returns the exclusive bound of the readable range.
func (c *Cursor) End() int64 { return c.end }

// Remaining returns the number of readable bytes before the bound.
func (c *Cursor) Remaining() int64 { return c.end - c.pos }

// ReadBytes returns the next n bytes and advances. The returned slice
// aliases the underlying buffer; callers must not mutate it.
func (c *Cursor) ReadBytes(n int64) ([]byte, error) {
	if n < 0 || n > c.end-c.pos {
		return nil, errAtf(c.pos, ErrUnexpectedEOF, "need %d bytes, have %d", n, c.Remaining())
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// Peek returns up to n bytes ahead of the cursor without advancing. The
// result is shorter than n when fewer bytes remain.
func (c *Cursor) Peek(n int64) []byte {
	if n > c.Remaining() {
		n = c.Remaining()
	}
	return c.data[c.pos : c.pos+n]
}

// Skip advances past n bytes.
func (c *Cursor) Skip(n int64) error {
	if n < 0 || n > c.end-c.pos {
		return errAtf(c.pos, ErrUnexpectedEOF, "skip %d bytes, have %d", n, c.Remaining())
	}
	c.pos += n
	return nil
}

// SeekTo moves the cursor to an absolute offset within its bound.
func (c *Cursor) SeekTo(offset int64) error {
	if offset < 0 || offset > c.end {
		return errAtf(c.pos, ErrUnexpectedEOF, "seek to 0x%X past bound 0x%X", offset, c.end)
	}
	c.pos = offset
	return nil
}

// LimitTo returns a sub-cursor at the same position whose reads fail past
// end. The buffer is shared, never copied.
func (c *Cursor) LimitTo(end int64) (*Cursor, error) {
	if end < c.pos || end > c.end {
		return nil, errAtf(c.pos, ErrUnexpectedEOF, "scope end 0x%X outside [0x%X, 0x%X]", end, c.pos, c.end)
	}
	return &Cursor{data: c.data, pos: c.pos, end: end}, nil
}

// ============================================================
// Fixed-width readers (all little-endian)
// ============================================================

// ReadU8 reads an unsigned 8-bit integer.
func (c *Cursor) ReadU8() (uint8, error) {
	b, err := c.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadI8 reads a signed 8-bit integer.
func (c *Cursor) ReadI8() (int8, error) {
	b, err := c.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return int8(b[0]), nil
}

// ReadU16 reads an unsigned 16-bit integer.
func (c *Cursor) ReadU16() (uint16, error) {
	b, err := c.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadI16 reads a signed 16-bit integer.
func (c *Cursor) ReadI16() (int16, error) {
	v, err := c.ReadU16()
	return int16(v), err
}

// ReadU32 reads an unsigned 32-bit integer.
func (c *Cursor) ReadU32() (uint32, error) {
	b, err := c.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadI32 reads a signed 32-bit integer.
func (c *Cursor) ReadI32() (int32, error) {
	v, err := c.ReadU32()
	return int32(v), err
}

// ReadU64 reads an unsigned 64-bit integer.
func (c *Cursor) ReadU64() (uint64, error) {
	b, err := c.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadI64 reads a signed 64-bit integer.
func (c *Cursor) ReadI64() (int64, error) {
	v, err := c.ReadU64()
	return int64(v), err
}

// ReadF32 reads an IEEE 754 single-precision float.
func (c *Cursor) ReadF32() (float32, error) {
	v, err := c.ReadU32()
	return math.Float32frombits(v), err
}

// ReadF64 reads an IEEE 754 double-precision float.
func (c *Cursor) ReadF64() (float64, error) {
	v, err := c.ReadU64()
	return math.Float64frombits(v), err
}
