package cube

import "encoding/binary"

// Cursor is a forward-only reader/writer over a byte slice, mirroring the
// parser idiom used throughout this codebase's consensus layer: every read
// or write either advances pos and succeeds, or leaves pos untouched and
// returns an error. Unlike the teacher's free-function-plus-`*int` style,
// this one bundles the offset with the slice since both Parse and Compile
// thread the same cursor through several conditional positional fields.
type Cursor struct {
	b   []byte
	pos int
}

// NewCursor wraps b for sequential reading or writing starting at offset 0.
func NewCursor(b []byte) *Cursor {
	return &Cursor{b: b, pos: 0}
}

// Pos returns the cursor's current offset into the underlying slice.
func (c *Cursor) Pos() int {
	return c.pos
}

// Remaining returns the number of unread/unwritten bytes left in the slice.
func (c *Cursor) Remaining() int {
	if c.pos >= len(c.b) {
		return 0
	}
	return len(c.b) - c.pos
}

// ReadExact returns the next n bytes as a slice into the underlying buffer
// and advances the cursor, or fails without advancing if fewer remain.
func (c *Cursor) ReadExact(n int) ([]byte, error) {
	if n < 0 || c.Remaining() < n {
		return nil, NewError(ErrBinaryData, "truncated")
	}
	start := c.pos
	c.pos += n
	return c.b[start:c.pos], nil
}

// ReadU8 reads a single byte.
func (c *Cursor) ReadU8() (byte, error) {
	b, err := c.ReadExact(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU32BE reads a 4-byte big-endian unsigned integer (the NONCE and
// PMUC_UPDATE_COUNT field width).
func (c *Cursor) ReadU32BE() (uint32, error) {
	b, err := c.ReadExact(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// ReadU40BE reads a 5-byte big-endian unsigned integer (the DATE field width).
func (c *Cursor) ReadU40BE() (uint64, error) {
	b, err := c.ReadExact(5)
	if err != nil {
		return 0, err
	}
	var v uint64
	for _, x := range b {
		v = v<<8 | uint64(x)
	}
	return v, nil
}

// Skip advances the cursor by n bytes without reading or writing, for
// reserving a slot (e.g. SIGNATURE) that a later pass fills in place.
func (c *Cursor) Skip(n int) error {
	if n < 0 || c.Remaining() < n {
		return NewError(ErrFieldSize, "skip would overrun buffer")
	}
	c.pos += n
	return nil
}

// WriteExact copies v into the buffer at the cursor's position and advances
// past it, or fails without advancing if v would overrun the buffer.
func (c *Cursor) WriteExact(v []byte) error {
	if c.Remaining() < len(v) {
		return NewError(ErrFieldSize, "write would overrun buffer")
	}
	copy(c.b[c.pos:c.pos+len(v)], v)
	c.pos += len(v)
	return nil
}

// WriteU32BE writes a 4-byte big-endian unsigned integer and advances.
func (c *Cursor) WriteU32BE(v uint32) error {
	if c.Remaining() < 4 {
		return NewError(ErrFieldSize, "write would overrun buffer")
	}
	binary.BigEndian.PutUint32(c.b[c.pos:c.pos+4], v)
	c.pos += 4
	return nil
}

// WriteU40BE writes a 5-byte big-endian unsigned integer and advances.
func (c *Cursor) WriteU40BE(v uint64) error {
	if c.Remaining() < 5 {
		return NewError(ErrFieldSize, "write would overrun buffer")
	}
	dst := c.b[c.pos : c.pos+5]
	dst[0] = byte(v >> 32)
	dst[1] = byte(v >> 24)
	dst[2] = byte(v >> 16)
	dst[3] = byte(v >> 8)
	dst[4] = byte(v)
	c.pos += 5
	return nil
}

// PutU32BE writes a 4-byte big-endian unsigned integer directly into dst,
// for callers (e.g. the proof-of-work nonce search) that rewrite a single
// fixed-offset slot in place rather than advancing sequentially.
func PutU32BE(dst []byte, v uint32) {
	binary.BigEndian.PutUint32(dst, v)
}

// PutU40BE writes a 5-byte big-endian unsigned integer directly into dst.
func PutU40BE(dst []byte, v uint64) {
	dst[0] = byte(v >> 32)
	dst[1] = byte(v >> 24)
	dst[2] = byte(v >> 16)
	dst[3] = byte(v >> 8)
	dst[4] = byte(v)
}
