/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package tlv

import (
	"encoding/binary"
)

// Decoder reads TLV fields from a read-only buffer.
// The offset never exceeds the buffer length, and a failed read leaves it unchanged.
type Decoder struct {
	buf    []byte
	offset int
}

// NewDecoder creates a decoder positioned at the start of buf.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Offset returns the current read offset.
func (d *Decoder) Offset() int {
	return d.offset
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.offset
}

// EOF returns whether the whole buffer has been consumed.
func (d *Decoder) EOF() bool {
	return d.offset >= len(d.buf)
}

// ReadVarint reads a variable-length integer encoded on 1, 3, or 5 bytes.
func (d *Decoder) ReadVarint() (uint32, error) {
	rest := d.buf[d.offset:]
	if len(rest) < 1 {
		return 0, ErrBufferTooShort
	}

	switch first := rest[0]; {
	case first < varint16Marker:
		d.offset++
		return uint32(first), nil
	case first == varint16Marker:
		if len(rest) < 3 {
			return 0, ErrBufferTooShort
		}
		d.offset += 3
		return uint32(binary.BigEndian.Uint16(rest[1:3])), nil
	case first == varint32Marker:
		if len(rest) < 5 {
			return 0, ErrBufferTooShort
		}
		d.offset += 5
		return binary.BigEndian.Uint32(rest[1:5]), nil
	default:
		return 0, ErrUnsupportedVarint
	}
}

// ReadType reads a TLV type.
func (d *Decoder) ReadType() (uint32, error) {
	return d.ReadVarint()
}

// ReadLength reads a TLV length. It must only be called immediately after ReadType.
func (d *Decoder) ReadLength() (uint32, error) {
	return d.ReadVarint()
}

// ReadBytes returns the next n bytes as a sub-slice of the buffer.
func (d *Decoder) ReadBytes(n int) ([]byte, error) {
	if n < 0 || n > d.Remaining() {
		return nil, ErrBufferTooShort
	}
	value := d.buf[d.offset : d.offset+n]
	d.offset += n
	return value, nil
}

// ReadValueInto copies len(dst) bytes into dst. dst must be sized from the preceding ReadLength.
func (d *Decoder) ReadValueInto(dst []byte) error {
	value, err := d.ReadBytes(len(dst))
	if err != nil {
		return err
	}
	copy(dst, value)
	return nil
}

// Skip advances the offset by n bytes.
func (d *Decoder) Skip(n int) error {
	_, err := d.ReadBytes(n)
	return err
}

// PeekType returns the next TLV type without consuming it.
func (d *Decoder) PeekType() (uint32, error) {
	saved := d.offset
	t, err := d.ReadType()
	d.offset = saved
	return t, err
}

// ReadBlock reads a complete TLV element and returns its type, its value, and the offset where the element started.
func (d *Decoder) ReadBlock() (uint32, []byte, int, error) {
	start := d.offset
	t, err := d.ReadType()
	if err != nil {
		return 0, nil, start, err
	}
	if d.EOF() {
		d.offset = start
		return 0, nil, start, ErrMissingLength
	}
	l, err := d.ReadLength()
	if err != nil {
		d.offset = start
		return 0, nil, start, err
	}
	value, err := d.ReadBytes(int(l))
	if err != nil {
		d.offset = start
		return 0, nil, start, err
	}
	return t, value, start, nil
}

// ReadNNIBlock reads a TLV element of the expected type holding a non-negative integer.
func (d *Decoder) ReadNNIBlock(expected uint32) (uint64, error) {
	start := d.offset
	t, value, _, err := d.ReadBlock()
	if err != nil {
		return 0, err
	}
	if t != expected {
		d.offset = start
		return 0, ErrUnexpected
	}
	v, err := DecodeNNI(value)
	if err != nil {
		d.offset = start
		return 0, err
	}
	return v, nil
}
