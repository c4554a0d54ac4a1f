package format

import (
	"encoding/binary"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// cursor is a bounds-checked reader over an immutable byte slice. Every
// read is checked against the slice length; a failed read returns an
// OutOfBounds error and leaves the position unchanged.
type cursor struct {
	data []byte
	pos  int
}

func newCursor(data []byte) *cursor {
	return &cursor{data: data}
}

// Len returns the total number of bytes
func (c *cursor) Len() int {
	return len(c.data)
}

// Pos returns the sequential read position
func (c *cursor) Pos() int {
	return c.pos
}

// Remaining returns the number of bytes after the sequential position
func (c *cursor) Remaining() int {
	return len(c.data) - c.pos
}

// Seek moves the sequential position; the end of the buffer is a valid position
func (c *cursor) Seek(off int) error {
	if off < 0 || off > len(c.data) {
		return c.outOfBounds(off, 0)
	}
	c.pos = off
	return nil
}

func (c *cursor) check(off, n int) error {
	if off < 0 || n < 0 || off > len(c.data) || n > len(c.data)-off {
		return c.outOfBounds(off, n)
	}
	return nil
}

func (c *cursor) outOfBounds(off, n int) *Error {
	return newError(KindOutOfBounds, off, "read of %d bytes, buffer is %d bytes", n, len(c.data))
}

// U8 reads a byte at off
func (c *cursor) U8(off int) (uint8, error) {
	if err := c.check(off, 1); err != nil {
		return 0, err
	}
	return c.data[off], nil
}

// U16LE reads a little-endian uint16 at off
func (c *cursor) U16LE(off int) (uint16, error) {
	if err := c.check(off, 2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(c.data[off:]), nil
}

// U16BE reads a big-endian uint16 at off
func (c *cursor) U16BE(off int) (uint16, error) {
	if err := c.check(off, 2); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(c.data[off:]), nil
}

// U32LE reads a little-endian uint32 at off
func (c *cursor) U32LE(off int) (uint32, error) {
	if err := c.check(off, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(c.data[off:]), nil
}

// Slice returns a view of n bytes at off. The view aliases the input and
// must not be modified.
func (c *cursor) Slice(off, n int) ([]byte, error) {
	if err := c.check(off, n); err != nil {
		return nil, err
	}
	return c.data[off : off+n : off+n], nil
}

// String reads a fixed-size text field with trailing NULs and spaces
// trimmed. Bytes outside printable ASCII are decoded as CP437.
func (c *cursor) String(off, n int) (string, error) {
	raw, err := c.Slice(off, n)
	if err != nil {
		return "", err
	}
	return decodeText(raw), nil
}

// ReadU8 reads the byte at the sequential position and advances
func (c *cursor) ReadU8() (uint8, error) {
	v, err := c.U8(c.pos)
	if err != nil {
		return 0, err
	}
	c.pos++
	return v, nil
}

func decodeText(raw []byte) string {
	end := len(raw)
	for end > 0 && (raw[end-1] == 0 || raw[end-1] == ' ') {
		end--
	}
	raw = raw[:end]

	ascii := true
	for _, b := range raw {
		if b < 0x20 || b > 0x7e {
			ascii = false
			break
		}
	}
	if ascii {
		return string(raw)
	}

	// Embedded NULs are padding; replace them so names stay printable.
	buf := make([]byte, len(raw))
	for i, b := range raw {
		if b == 0 {
			b = ' '
		}
		buf[i] = b
	}
	out, err := charmap.CodePage437.NewDecoder().Bytes(buf)
	if err != nil {
		return strings.ToValidUTF8(string(buf), "?")
	}
	return strings.TrimRight(string(out), " ")
}
