// Package cursor provides a bounds-checked sequential reader over a byte
// buffer. Every decoder in this project reads through it; a short buffer
// surfaces as an *Error carrying the offset instead of a panic deep in a
// call stack.
package cursor

import (
	"encoding/binary"
	"fmt"
)

// Error reports a read that would run past the end of the buffer.
type Error struct {
	Offset int // position the read started at
	Want   int // bytes requested
	Have   int // bytes remaining
}

func (e *Error) Error() string {
	return fmt.Sprintf("cursor: need %d bytes at offset %d, only %d remain", e.Want, e.Offset, e.Have)
}

// Cursor reads sequentially from a byte slice. Endianness is chosen per
// read because the region format mixes big-endian section data with
// little-endian heightmap blobs.
type Cursor struct {
	buf []byte
	off int
}

func New(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

func (c *Cursor) Offset() int    { return c.off }
func (c *Cursor) Len() int       { return len(c.buf) }
func (c *Cursor) Remaining() int { return len(c.buf) - c.off }

func (c *Cursor) take(n int) ([]byte, error) {
	if rem := len(c.buf) - c.off; rem < n {
		return nil, &Error{Offset: c.off, Want: n, Have: rem}
	}
	b := c.buf[c.off : c.off+n]
	c.off += n
	return b, nil
}

// Bytes returns the next n bytes. The slice aliases the underlying buffer.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	return c.take(n)
}

func (c *Cursor) U8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *Cursor) I8() (int8, error) {
	v, err := c.U8()
	return int8(v), err
}

func (c *Cursor) U16BE() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (c *Cursor) U16LE() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *Cursor) U32BE() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (c *Cursor) U32LE() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// String reads an n-byte UTF-8 string.
func (c *Cursor) String(n int) (string, error) {
	b, err := c.take(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
