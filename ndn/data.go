/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package ndn

import (
	"strconv"

	"github.com/named-data/ndn-verifier/ndn/security"
	"github.com/named-data/ndn-verifier/ndn/tlv"
	"github.com/named-data/ndn-verifier/ndn/util"
)

// Data represents an NDN Data packet.
type Data struct {
	name         Name
	metaInfo     *MetaInfo
	content      []byte
	sigInfo      *SignatureInfo
	sigValue     []byte
	signedRegion Range
}

// NewData creates a new Data packet with the given name and content.
func NewData(name Name, content []byte) *Data {
	d := new(Data)
	d.name = name.Append()
	d.metaInfo = NewMetaInfo()
	d.content = make([]byte, len(content))
	copy(d.content, content)
	return d
}

// DecodeData decodes a Data packet from raw, which must start with the Data TLV. The signature is not verified.
// The decoded Data aliases raw.
func DecodeData(raw []byte) (*Data, error) {
	outer := tlv.NewDecoder(raw)
	typ, value, _, err := outer.ReadBlock()
	if err != nil {
		return nil, decodeErr("Data", err)
	}
	if typ != tlv.Data {
		return nil, decodeErr("Data", tlv.ErrUnexpected)
	}
	base := outer.Offset() - len(value)

	d := new(Data)
	dec := tlv.NewDecoder(value)
	mostRecentElem := 0
	hasName := false
	for !dec.EOF() {
		typ, elem, start, err := dec.ReadBlock()
		if err != nil {
			return nil, decodeErr("Data", err)
		}
		switch typ {
		case tlv.Name:
			if mostRecentElem >= 1 {
				return nil, decodeErr("Name", util.ErrOutOfOrder)
			}
			mostRecentElem = 1
			if d.name, err = DecodeName(elem); err != nil {
				return nil, decodeErr("Name", err)
			}
			hasName = true
			d.signedRegion.Start = base + start
		case tlv.MetaInfo:
			if mostRecentElem >= 2 {
				return nil, decodeErr("MetaInfo", util.ErrOutOfOrder)
			}
			mostRecentElem = 2
			if d.metaInfo, err = DecodeMetaInfo(elem); err != nil {
				return nil, decodeErr("MetaInfo", err)
			}
		case tlv.Content:
			if mostRecentElem >= 3 {
				return nil, decodeErr("Content", util.ErrOutOfOrder)
			}
			mostRecentElem = 3
			d.content = elem
		case tlv.SignatureInfo:
			if mostRecentElem >= 4 {
				return nil, decodeErr("SignatureInfo", util.ErrOutOfOrder)
			}
			mostRecentElem = 4
			if d.sigInfo, err = DecodeSignatureInfo(elem); err != nil {
				return nil, decodeErr("SignatureInfo", err)
			}
			d.signedRegion.End = base + dec.Offset()
		case tlv.SignatureValue:
			if mostRecentElem >= 5 {
				return nil, decodeErr("SignatureValue", util.ErrOutOfOrder)
			}
			mostRecentElem = 5
			d.sigValue = elem
		default:
			if tlv.IsCritical(typ) {
				return nil, decodeErr("Data", tlv.ErrUnrecognizedCritical)
			}
			// If non-critical, ignore
		}
	}

	if !hasName {
		return nil, decodeErr("Name", util.ErrNonExistent)
	}
	if d.sigInfo == nil {
		return nil, decodeErr("SignatureInfo", util.ErrNonExistent)
	}
	if d.sigValue == nil {
		return nil, decodeErr("SignatureValue", util.ErrNonExistent)
	}
	if d.metaInfo == nil {
		d.metaInfo = NewMetaInfo()
	}
	return d, nil
}

func (d *Data) String() string {
	str := "Data(" + d.name.String()
	if !d.metaInfo.IsEmpty() {
		str += ", " + d.metaInfo.String()
	}
	str += ", ContentLen=" + strconv.Itoa(len(d.content))
	if d.sigInfo != nil {
		str += ", Signature=" + d.sigInfo.Type.String()
	}
	return str + ")"
}

// Name returns the name of the Data packet.
func (d *Data) Name() Name {
	return d.name
}

// SetName sets the name of the Data packet.
func (d *Data) SetName(name Name) {
	d.name = name.Append()
}

// MetaInfo returns the MetaInfo of the Data packet.
func (d *Data) MetaInfo() *MetaInfo {
	return d.metaInfo
}

// SetMetaInfo sets the MetaInfo of the Data packet.
func (d *Data) SetMetaInfo(metaInfo *MetaInfo) {
	d.metaInfo = metaInfo
}

// Content returns the content of the Data packet.
func (d *Data) Content() []byte {
	return d.content
}

// SetContent sets the content of the Data packet.
func (d *Data) SetContent(content []byte) {
	d.content = content
}

// SignatureInfo returns the SignatureInfo of the Data packet.
func (d *Data) SignatureInfo() *SignatureInfo {
	return d.sigInfo
}

// SetSignatureInfo sets the SignatureInfo used when encoding. Its type is replaced by the signer's.
func (d *Data) SetSignatureInfo(sigInfo *SignatureInfo) {
	d.sigInfo = sigInfo
}

// SignatureValue returns the SignatureValue of a decoded Data packet.
func (d *Data) SignatureValue() []byte {
	return d.sigValue
}

// SignedRegion returns the range of the decoded buffer covered by the signature.
func (d *Data) SignedRegion() Range {
	return d.signedRegion
}

///////////
// Encoding
///////////

func (d *Data) portionLength(sigInfo *SignatureInfo) int {
	size := d.name.EncodingLength()
	if !d.metaInfo.IsEmpty() {
		size += tlv.BlockSize(tlv.MetaInfo, d.metaInfo.ValueLength())
	}
	size += tlv.BlockSize(tlv.Content, len(d.content))
	size += tlv.BlockSize(tlv.SignatureInfo, sigInfo.ValueLength())
	return size
}

func (d *Data) encodePortion(e *tlv.Encoder, sigInfo *SignatureInfo) error {
	if err := d.name.EncodeInto(e); err != nil {
		return err
	}
	if !d.metaInfo.IsEmpty() {
		if err := d.metaInfo.EncodeInto(e); err != nil {
			return err
		}
	}
	if err := e.WriteBlock(tlv.Content, d.content); err != nil {
		return err
	}
	return sigInfo.EncodeInto(e, tlv.SignatureInfo)
}

func (d *Data) sign(signer security.Signer) ([]byte, []byte, error) {
	sigInfo := SignatureInfo{}
	if d.sigInfo != nil {
		sigInfo = *d.sigInfo
	}
	sigInfo.Type = signer.Type()

	portion := make([]byte, d.portionLength(&sigInfo))
	if err := d.encodePortion(tlv.NewEncoder(portion), &sigInfo); err != nil {
		return nil, nil, err
	}
	sig, err := signer.Sign(portion)
	if err != nil {
		return nil, nil, err
	}
	return portion, sig, nil
}

// EncodeInto signs the Data with signer and writes it into the encoder.
func (d *Data) EncodeInto(e *tlv.Encoder, signer security.Signer) error {
	portion, sig, err := d.sign(signer)
	if err != nil {
		return err
	}
	return writeSignedPacket(e, tlv.Data, portion, tlv.SignatureValue, sig)
}

// Encode signs the Data with signer and returns its wire encoding in a newly allocated slice.
func (d *Data) Encode(signer security.Signer) ([]byte, error) {
	portion, sig, err := d.sign(signer)
	if err != nil {
		return nil, err
	}
	valueLen := len(portion) + tlv.BlockSize(tlv.SignatureValue, len(sig))
	buf := make([]byte, tlv.BlockSize(tlv.Data, valueLen))
	if err := writeSignedPacket(tlv.NewEncoder(buf), tlv.Data, portion, tlv.SignatureValue, sig); err != nil {
		return nil, err
	}
	return buf, nil
}
