/*
Copyright 2023 Alexander Bartolomey (github@alexanderbartolomey.de)

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package ki

import (
	"encoding/binary"
	"fmt"
	"math"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ByteCursor reads fixed- and variable-width KI wire values off a borrowed
// byte slice, tracking position and remaining length. It never retains the
// slice past the call that created it and never reads past its end.
type ByteCursor struct {
	buf []byte
	pos int
}

// NewByteCursor wraps buf for reading. buf is borrowed, not copied; callers
// must not mutate it while the cursor is in use.
func NewByteCursor(buf []byte) *ByteCursor {
	return &ByteCursor{buf: buf}
}

// Remaining reports how many unread bytes are left.
func (c *ByteCursor) Remaining() int {
	return len(c.buf) - c.pos
}

// Pos reports the current read offset.
func (c *ByteCursor) Pos() int {
	return c.pos
}

func (c *ByteCursor) need(n int) error {
	if c.Remaining() < n {
		return Truncated(n, c.Remaining())
	}
	return nil
}

// ReadBytes reads and returns the next n bytes, copied out of the
// underlying buffer so the Record it ends up in owns its data.
func (c *ByteCursor) ReadBytes(n int) ([]byte, error) {
	if err := c.need(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, c.buf[c.pos:c.pos+n])
	c.pos += n
	return out, nil
}

// Skip advances the cursor by n bytes without returning them.
func (c *ByteCursor) Skip(n int) error {
	if err := c.need(n); err != nil {
		return err
	}
	c.pos += n
	return nil
}

func (c *ByteCursor) ReadU8() (uint8, error) {
	if err := c.need(1); err != nil {
		return 0, err
	}
	v := c.buf[c.pos]
	c.pos++
	return v, nil
}

func (c *ByteCursor) ReadI8() (int8, error) {
	v, err := c.ReadU8()
	return int8(v), err
}

func (c *ByteCursor) ReadU16() (uint16, error) {
	if err := c.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(c.buf[c.pos:])
	c.pos += 2
	return v, nil
}

func (c *ByteCursor) ReadI16() (int16, error) {
	v, err := c.ReadU16()
	return int16(v), err
}

func (c *ByteCursor) ReadU32() (uint32, error) {
	if err := c.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(c.buf[c.pos:])
	c.pos += 4
	return v, nil
}

func (c *ByteCursor) ReadI32() (int32, error) {
	v, err := c.ReadU32()
	return int32(v), err
}

func (c *ByteCursor) ReadU64() (uint64, error) {
	if err := c.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(c.buf[c.pos:])
	c.pos += 8
	return v, nil
}

func (c *ByteCursor) ReadI64() (int64, error) {
	v, err := c.ReadU64()
	return int64(v), err
}

func (c *ByteCursor) ReadF32() (float32, error) {
	v, err := c.ReadU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func (c *ByteCursor) ReadF64() (float64, error) {
	v, err := c.ReadU64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// PeekU16 returns the next two bytes as a little-endian uint16 without
// advancing the cursor.
func (c *ByteCursor) PeekU16() (uint16, error) {
	if err := c.need(2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(c.buf[c.pos:]), nil
}

// ReadStr reads a STR field: a u16 LE byte-length prefix followed by that
// many raw bytes. No character decoding is applied.
func (c *ByteCursor) ReadStr() ([]byte, error) {
	n, err := c.ReadU16()
	if err != nil {
		return nil, err
	}
	return c.ReadBytes(int(n))
}

var utf16LE = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// ReadWStr reads a WSTR field: a u16 LE prefix counting UTF-16 code units
// (not bytes), followed by 2*n bytes of UTF-16LE, decoded to a Go string.
func (c *ByteCursor) ReadWStr() (string, error) {
	n, err := c.ReadU16()
	if err != nil {
		return "", err
	}
	raw, err := c.ReadBytes(int(n) * 2)
	if err != nil {
		return "", err
	}
	decoded, _, err := transform.Bytes(utf16LE.NewDecoder(), raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedString, err)
	}
	return string(decoded), nil
}
