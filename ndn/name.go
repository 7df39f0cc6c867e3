/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package ndn

import (
	"bytes"
	"encoding/hex"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/named-data/ndn-verifier/ndn/tlv"
	"github.com/named-data/ndn-verifier/ndn/util"
)

// NameComponent is a single component of a name. Decoded components alias the packet buffer.
type NameComponent struct {
	Typ uint32
	Val []byte
}

// NewGenericNameComponent creates a GenericNameComponent.
func NewGenericNameComponent(value []byte) NameComponent {
	return NameComponent{Typ: tlv.GenericNameComponent, Val: value}
}

// NewNumberNameComponent creates a component of the specified type holding a non-negative integer.
func NewNumberNameComponent(tlvType uint32, value uint64) NameComponent {
	return NameComponent{Typ: tlvType, Val: tlv.EncodeNNI(value)}
}

// Equals returns whether two components have the same type and value.
func (c NameComponent) Equals(other NameComponent) bool {
	return c.Typ == other.Typ && bytes.Equal(c.Val, other.Val)
}

// EncodingLength returns the size of the encoded component.
func (c NameComponent) EncodingLength() int {
	return tlv.BlockSize(c.Typ, len(c.Val))
}

func (c NameComponent) String() string {
	switch c.Typ {
	case tlv.GenericNameComponent:
		return escapeComponent(c.Val)
	case tlv.ImplicitSha256DigestComponent:
		return "sha256digest=" + hex.EncodeToString(c.Val)
	case tlv.ParametersSha256DigestComponent:
		return "params-sha256=" + hex.EncodeToString(c.Val)
	case tlv.SegmentNameComponent, tlv.ByteOffsetNameComponent, tlv.VersionNameComponent,
		tlv.TimestampNameComponent, tlv.SequenceNumNameComponent:
		if v, err := tlv.DecodeNNI(c.Val); err == nil {
			return numberComponentPrefix[c.Typ] + "=" + strconv.FormatUint(v, 10)
		}
	}
	return strconv.FormatUint(uint64(c.Typ), 10) + "=" + escapeComponent(c.Val)
}

var numberComponentPrefix = map[uint32]string{
	tlv.SegmentNameComponent:     "seg",
	tlv.ByteOffsetNameComponent:  "off",
	tlv.VersionNameComponent:     "v",
	tlv.TimestampNameComponent:   "t",
	tlv.SequenceNumNameComponent: "seq",
}

// Name is an NDN name.
type Name []NameComponent

// NameFromString decodes a name from its URI representation.
func NameFromString(str string) (Name, error) {
	str = strings.TrimPrefix(str, "ndn:")
	n := make(Name, 0)
	for _, component := range strings.Split(str, "/") {
		if len(component) == 0 {
			continue
		}
		c, err := componentFromString(component)
		if err != nil {
			return nil, err
		}
		n = append(n, c)
	}
	return n, nil
}

func componentFromString(component string) (NameComponent, error) {
	typeStr, valueStr, hasType := strings.Cut(component, "=")
	if !hasType {
		unescaped, err := unescapeComponent(component)
		if err != nil {
			return NameComponent{}, err
		}
		return NewGenericNameComponent(unescaped), nil
	}
	if strings.Contains(valueStr, "=") {
		return NameComponent{}, errors.New("name component has extraneous =")
	}

	switch typeStr {
	case "sha256digest", "params-sha256":
		digest, err := hex.DecodeString(valueStr)
		if err != nil || len(digest) != 32 {
			return NameComponent{}, errors.New("digest component is not a 32-byte hex string")
		}
		if typeStr == "sha256digest" {
			return NameComponent{Typ: tlv.ImplicitSha256DigestComponent, Val: digest}, nil
		}
		return NameComponent{Typ: tlv.ParametersSha256DigestComponent, Val: digest}, nil
	}
	for tlvType, prefix := range numberComponentPrefix {
		if prefix == typeStr {
			v, err := strconv.ParseUint(valueStr, 10, 64)
			if err != nil {
				return NameComponent{}, errors.New(prefix + " component is not a decimal string")
			}
			return NewNumberNameComponent(tlvType, v), nil
		}
	}

	t, err := strconv.ParseUint(typeStr, 10, 16)
	if err != nil || t == 0 {
		return NameComponent{}, errors.New("unable to decode component type \"" + typeStr + "\"")
	}
	unescaped, err := unescapeComponent(valueStr)
	if err != nil {
		return NameComponent{}, err
	}
	return NameComponent{Typ: uint32(t), Val: unescaped}, nil
}

func escapeComponent(in []byte) string {
	out := make([]byte, 0, 3*len(in)) // Capacity of 3 * len is worst case if every character has to be escaped
	nPeriods := 0
	for _, b := range in {
		switch {
		case b == '.':
			nPeriods++
			fallthrough
		case (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9') || b == '-' || b == '_' || b == '~':
			out = append(out, b)
		default:
			out = append(out, '%', 0, 0)
			hex.Encode(out[len(out)-2:], []byte{b})
		}
	}
	if nPeriods == len(in) {
		out = append(out, '.', '.', '.')
	}
	return string(out)
}

func unescapeComponent(in string) ([]byte, error) {
	if len(in) >= 3 && strings.Trim(in, ".") == "" {
		return []byte(in[3:]), nil
	}
	out := make([]byte, 0, len(in))
	for i := 0; i < len(in); i++ {
		if in[i] != '%' {
			out = append(out, in[i])
			continue
		}
		if len(in) <= i+2 {
			return nil, errors.New("incomplete escape sequence")
		}
		unescaped, err := hex.DecodeString(in[i+1 : i+3])
		if err != nil {
			return nil, errors.New("could not decode escape sequence")
		}
		out = append(out, unescaped...)
		i += 2
	}
	return out, nil
}

// DecodeName decodes a name from the value of a Name TLV. Components alias value.
func DecodeName(value []byte) (Name, error) {
	d := tlv.NewDecoder(value)
	n := make(Name, 0, 8)
	for !d.EOF() {
		t, v, _, err := d.ReadBlock()
		if err != nil {
			return nil, err
		}
		if t == 0 || t > math.MaxUint16 {
			return nil, util.ErrDecodeNameComponent
		}
		n = append(n, NameComponent{Typ: t, Val: v})
	}
	return n, nil
}

func (n Name) String() string {
	if len(n) == 0 {
		return "/"
	}

	var out strings.Builder
	for _, component := range n {
		out.WriteByte('/')
		out.WriteString(component.String())
	}
	return out.String()
}

// At returns the component at the specified index. Negative indices count from the end.
func (n Name) At(index int) (NameComponent, bool) {
	if index < 0 {
		index += len(n)
	}
	if index < 0 || index >= len(n) {
		return NameComponent{}, false
	}
	return n[index], true
}

// Append returns a new name with the specified components added at the end.
func (n Name) Append(components ...NameComponent) Name {
	out := make(Name, 0, len(n)+len(components))
	out = append(out, n...)
	return append(out, components...)
}

// Equals returns whether the two names are equal.
func (n Name) Equals(other Name) bool {
	return len(n) == len(other) && n.PrefixOf(other)
}

// PrefixOf returns whether this name is a prefix of the specified name.
func (n Name) PrefixOf(other Name) bool {
	if len(n) > len(other) {
		return false
	}
	for i, component := range n {
		if !component.Equals(other[i]) {
			return false
		}
	}
	return true
}

// Find returns the index of the first component of the specified type, or -1.
func (n Name) Find(tlvType uint32) int {
	for i, component := range n {
		if component.Typ == tlvType {
			return i
		}
	}
	return -1
}

// ValueLength returns the size of the encoded components, excluding the Name type and length.
func (n Name) ValueLength() int {
	size := 0
	for _, component := range n {
		size += component.EncodingLength()
	}
	return size
}

// EncodingLength returns the size of the encoded Name TLV.
func (n Name) EncodingLength() int {
	return tlv.BlockSize(tlv.Name, n.ValueLength())
}

// EncodeInto writes the Name TLV into the encoder.
func (n Name) EncodeInto(e *tlv.Encoder) error {
	if err := e.WriteTL(tlv.Name, n.ValueLength()); err != nil {
		return err
	}
	for _, component := range n {
		if err := e.WriteBlock(component.Typ, component.Val); err != nil {
			return err
		}
	}
	return nil
}

// Bytes returns the Name TLV encoding in a newly allocated slice.
func (n Name) Bytes() []byte {
	buf := make([]byte, n.EncodingLength())
	n.EncodeInto(tlv.NewEncoder(buf))
	return buf
}
