/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package tlv

import (
	"encoding/binary"
	"math"
)

// Encoder writes TLV fields into a fixed-size buffer supplied by the caller.
// A write that does not fit leaves the buffer untouched and returns ErrBufferOverflow.
type Encoder struct {
	buf    []byte
	offset int
}

// NewEncoder creates an encoder writing into buf from its start.
func NewEncoder(buf []byte) *Encoder {
	return &Encoder{buf: buf}
}

// Offset returns the number of bytes written so far.
func (e *Encoder) Offset() int {
	return e.offset
}

// Remaining returns the free space left in the buffer.
func (e *Encoder) Remaining() int {
	return len(e.buf) - e.offset
}

// Bytes returns the encoded bytes.
func (e *Encoder) Bytes() []byte {
	return e.buf[:e.offset]
}

// Reset rewinds the encoder to the start of its buffer.
func (e *Encoder) Reset() {
	e.offset = 0
}

// WriteVarint writes v as a 1, 3, or 5 byte variable-length integer.
func (e *Encoder) WriteVarint(v uint32) error {
	size := VarintSize(v)
	if size > e.Remaining() {
		return ErrBufferOverflow
	}

	out := e.buf[e.offset:]
	if v < varint16Marker {
		out[0] = byte(v)
	} else if v <= math.MaxUint16 {
		out[0] = varint16Marker
		binary.BigEndian.PutUint16(out[1:3], uint16(v))
	} else {
		out[0] = varint32Marker
		binary.BigEndian.PutUint32(out[1:5], v)
	}
	e.offset += size
	return nil
}

// WriteType writes a TLV type.
func (e *Encoder) WriteType(t uint32) error {
	return e.WriteVarint(t)
}

// WriteLength writes a TLV length.
func (e *Encoder) WriteLength(l int) error {
	if l < 0 || uint64(l) > math.MaxUint32 {
		return ErrBufferOverflow
	}
	return e.WriteVarint(uint32(l))
}

// WriteBytes copies raw bytes into the buffer.
func (e *Encoder) WriteBytes(b []byte) error {
	if len(b) > e.Remaining() {
		return ErrBufferOverflow
	}
	e.offset += copy(e.buf[e.offset:], b)
	return nil
}

// WriteTL writes a type and a length, or nothing if the complete element of that length would not fit.
func (e *Encoder) WriteTL(t uint32, valueLen int) error {
	if BlockSize(t, valueLen) > e.Remaining() {
		return ErrBufferOverflow
	}
	e.WriteType(t)
	return e.WriteLength(valueLen)
}

// WriteBlock writes a complete TLV element.
func (e *Encoder) WriteBlock(t uint32, value []byte) error {
	if err := e.WriteTL(t, len(value)); err != nil {
		return err
	}
	return e.WriteBytes(value)
}

// WriteNNIBlock writes a TLV element holding a non-negative integer.
func (e *Encoder) WriteNNIBlock(t uint32, v uint64) error {
	return e.WriteBlock(t, EncodeNNI(v))
}
