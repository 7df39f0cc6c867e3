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

	"github.com/named-data/ndn-verifier/ndn/util"
)

// Variable-length integer markers.
const (
	varint16Marker = 0xFD
	varint32Marker = 0xFE
	varint64Marker = 0xFF
)

// VarintSize returns the number of bytes needed to encode v as a variable-length integer.
func VarintSize(v uint32) int {
	if v < varint16Marker {
		return 1
	} else if v <= math.MaxUint16 {
		return 3
	}
	return 5
}

// BlockSize returns the size of a TLV block of the specified type holding a value of the specified length.
func BlockSize(t uint32, valueLen int) int {
	return VarintSize(t) + VarintSize(uint32(valueLen)) + valueLen
}

// NNISize returns the size that a non-negative integer takes when encoded as a TLV value.
func NNISize(v uint64) int {
	if v <= math.MaxUint8 {
		return 1
	} else if v <= math.MaxUint16 {
		return 2
	} else if v <= math.MaxUint32 {
		return 4
	}
	return 8
}

// EncodeNNI encodes a non-negative integer value into a TLV value slice.
func EncodeNNI(v uint64) []byte {
	value := make([]byte, 8)
	binary.BigEndian.PutUint64(value, v)
	return value[8-NNISize(v):]
}

// DecodeNNI decodes a non-negative integer value from a TLV value slice.
func DecodeNNI(value []byte) (uint64, error) {
	switch len(value) {
	case 1:
		return uint64(value[0]), nil
	case 2:
		return uint64(binary.BigEndian.Uint16(value)), nil
	case 4:
		return uint64(binary.BigEndian.Uint32(value)), nil
	case 8:
		return binary.BigEndian.Uint64(value), nil
	case 0:
		return 0, util.ErrTooShort
	default:
		return 0, ErrNNISize
	}
}

// IsCritical returns whether the TLV type is critical.
func IsCritical(tlvType uint32) bool {
	return tlvType <= 31 || tlvType&1 == 1
}

// ProbeValueSize parses a type and a length from the start of an independent buffer and returns the length.
// It is used to size scratch buffers before copying a value out.
func ProbeValueSize(buf []byte) (uint32, error) {
	d := NewDecoder(buf)
	if _, err := d.ReadType(); err != nil {
		return 0, err
	}
	return d.ReadLength()
}
