/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package ndn

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"math/rand"
	"strconv"
	"time"

	"github.com/named-data/ndn-verifier/ndn/security"
	"github.com/named-data/ndn-verifier/ndn/tlv"
	"github.com/named-data/ndn-verifier/ndn/util"
)

// DefaultInterestLifetime is the lifetime of an Interest that does not carry an InterestLifetime.
const DefaultInterestLifetime = 4000 * time.Millisecond

// Interest represents an NDN Interest packet.
type Interest struct {
	name           Name
	canBePrefix    bool
	mustBeFresh    bool
	forwardingHint []Name
	nonce          []byte
	lifetime       time.Duration
	hopLimit       *uint8
	parameters     []byte
	hasParameters  bool
	sigInfo        *SignatureInfo
	sigValue       []byte
	signedRegion   Range
}

// NewInterest creates a new Interest with the specified name and default values.
func NewInterest(name Name) *Interest {
	i := new(Interest)
	i.name = name.Append()
	i.lifetime = DefaultInterestLifetime
	i.ResetNonce()
	return i
}

// DecodeInterest decodes an Interest from raw, which must start with the Interest TLV. The signature is not
// verified. The decoded Interest aliases raw.
func DecodeInterest(raw []byte) (*Interest, error) {
	outer := tlv.NewDecoder(raw)
	typ, value, _, err := outer.ReadBlock()
	if err != nil {
		return nil, decodeErr("Interest", err)
	}
	if typ != tlv.Interest {
		return nil, decodeErr("Interest", tlv.ErrUnexpected)
	}
	base := outer.Offset() - len(value)

	i := new(Interest)
	i.lifetime = DefaultInterestLifetime
	d := tlv.NewDecoder(value)
	mostRecentElem := 0
	hasName := false
	paramsStart := -1
	for !d.EOF() {
		typ, elem, start, err := d.ReadBlock()
		if err != nil {
			return nil, decodeErr("Interest", err)
		}
		switch typ {
		case tlv.Name:
			if mostRecentElem >= 1 {
				return nil, decodeErr("Name", util.ErrOutOfOrder)
			}
			mostRecentElem = 1
			if i.name, err = DecodeName(elem); err != nil {
				return nil, decodeErr("Name", err)
			}
			hasName = true
			i.signedRegion.Start = base + start
		case tlv.CanBePrefix:
			if mostRecentElem >= 2 {
				return nil, decodeErr("CanBePrefix", util.ErrOutOfOrder)
			}
			mostRecentElem = 2
			i.canBePrefix = true
		case tlv.MustBeFresh:
			if mostRecentElem >= 3 {
				return nil, decodeErr("MustBeFresh", util.ErrOutOfOrder)
			}
			mostRecentElem = 3
			i.mustBeFresh = true
		case tlv.ForwardingHint:
			if mostRecentElem >= 4 {
				return nil, decodeErr("ForwardingHint", util.ErrOutOfOrder)
			}
			mostRecentElem = 4
			if i.forwardingHint, err = decodeForwardingHint(elem); err != nil {
				return nil, decodeErr("ForwardingHint", err)
			}
		case tlv.Nonce:
			if mostRecentElem >= 5 {
				return nil, decodeErr("Nonce", util.ErrOutOfOrder)
			}
			mostRecentElem = 5
			if len(elem) != 4 {
				return nil, decodeErr("Nonce", util.ErrOutOfRange)
			}
			i.nonce = elem
		case tlv.InterestLifetime:
			if mostRecentElem >= 6 {
				return nil, decodeErr("InterestLifetime", util.ErrOutOfOrder)
			}
			mostRecentElem = 6
			lifetime, err := tlv.DecodeNNI(elem)
			if err != nil {
				return nil, decodeErr("InterestLifetime", err)
			}
			i.lifetime = time.Duration(lifetime) * time.Millisecond
		case tlv.HopLimit:
			if mostRecentElem >= 7 {
				return nil, decodeErr("HopLimit", util.ErrOutOfOrder)
			}
			mostRecentElem = 7
			if len(elem) != 1 {
				return nil, decodeErr("HopLimit", util.ErrOutOfRange)
			}
			hopLimit := elem[0]
			i.hopLimit = &hopLimit
		case tlv.ApplicationParameters:
			if mostRecentElem >= 8 {
				return nil, decodeErr("ApplicationParameters", util.ErrOutOfOrder)
			}
			mostRecentElem = 8
			i.parameters = elem
			i.hasParameters = true
			paramsStart = start
		case tlv.InterestSignatureInfo:
			if mostRecentElem >= 9 {
				return nil, decodeErr("InterestSignatureInfo", util.ErrOutOfOrder)
			}
			mostRecentElem = 9
			if i.sigInfo, err = DecodeSignatureInfo(elem); err != nil {
				return nil, decodeErr("InterestSignatureInfo", err)
			}
			i.signedRegion.End = base + d.Offset()
		case tlv.InterestSignatureValue:
			if mostRecentElem != 9 {
				return nil, decodeErr("InterestSignatureValue", util.ErrOutOfOrder)
			}
			mostRecentElem = 10
			i.sigValue = elem
		default:
			if tlv.IsCritical(typ) {
				return nil, decodeErr("Interest", tlv.ErrUnrecognizedCritical)
			}
			// If non-critical, ignore
		}
	}

	if !hasName || len(i.name) == 0 {
		return nil, decodeErr("Name", util.ErrNonExistent)
	}
	if i.sigInfo != nil && i.sigValue == nil {
		return nil, decodeErr("InterestSignatureValue", util.ErrNonExistent)
	}
	if i.sigInfo == nil {
		i.signedRegion = Range{}
	}

	// Parameters digest covers everything from ApplicationParameters to the end of the Interest
	if digestIndex := i.name.Find(tlv.ParametersSha256DigestComponent); digestIndex != -1 {
		if paramsStart == -1 {
			return nil, decodeErr("ParametersSha256DigestComponent", errors.New("present without ApplicationParameters"))
		}
		digest := sha256.Sum256(value[paramsStart:])
		if subtle.ConstantTimeCompare(digest[:], i.name[digestIndex].Val) != 1 {
			return nil, decodeErr("ParametersSha256DigestComponent", errors.New("does not match ApplicationParameters"))
		}
	}

	return i, nil
}

func decodeForwardingHint(value []byte) ([]Name, error) {
	var hints []Name
	d := tlv.NewDecoder(value)
	for !d.EOF() {
		typ, elem, _, err := d.ReadBlock()
		if err != nil {
			return nil, err
		}
		if typ != tlv.Name {
			return nil, tlv.ErrUnexpected
		}
		name, err := DecodeName(elem)
		if err != nil {
			return nil, err
		}
		hints = append(hints, name)
	}
	return hints, nil
}

func (i *Interest) String() string {
	str := "Interest(Name=" + i.name.String()

	if i.canBePrefix {
		str += ", CanBePrefix"
	}
	if i.mustBeFresh {
		str += ", MustBeFresh"
	}
	if len(i.forwardingHint) > 0 {
		str += ", ForwardingHint("
		for pos, hint := range i.forwardingHint {
			if pos > 0 {
				str += ", "
			}
			str += hint.String()
		}
		str += ")"
	}
	str += ", Nonce=0x" + hex.EncodeToString(i.nonce)
	str += ", Lifetime=" + strconv.FormatInt(i.lifetime.Milliseconds(), 10) + "ms"
	if i.hopLimit != nil {
		str += ", HopLimit=" + strconv.FormatUint(uint64(*i.hopLimit), 10)
	}
	if i.hasParameters {
		str += ", ApplicationParameters"
	}
	if i.sigInfo != nil {
		str += ", Signature=" + i.sigInfo.Type.String()
	}

	str += ")"
	return str
}

//////////////////
// Setters/Getters
//////////////////

// Name returns the name of the Interest.
func (i *Interest) Name() Name {
	return i.name
}

// SetName sets the name of the Interest.
func (i *Interest) SetName(name Name) {
	i.name = name.Append()
}

// CanBePrefix returns whether the Interest can be satisfied by a Data packet whos name the Interest name is a prefix of.
func (i *Interest) CanBePrefix() bool {
	return i.canBePrefix
}

// SetCanBePrefix sets whether the Interest can be satisfied by a Data packet whos name the Interest name is a prefix of.
func (i *Interest) SetCanBePrefix(canBePrefix bool) {
	i.canBePrefix = canBePrefix
}

// MustBeFresh returns whether the Interest can only be satisfied by "fresh" Data packets.
func (i *Interest) MustBeFresh() bool {
	return i.mustBeFresh
}

// SetMustBeFresh sets whether the Interest can only be satisfied by "fresh" Data packets.
func (i *Interest) SetMustBeFresh(mustBeFresh bool) {
	i.mustBeFresh = mustBeFresh
}

// ForwardingHint returns the names in the ForwardingHint of the Interest.
func (i *Interest) ForwardingHint() []Name {
	return i.forwardingHint
}

// AppendForwardingHint appends a name to the ForwardingHint of the Interest.
func (i *Interest) AppendForwardingHint(name Name) {
	i.forwardingHint = append(i.forwardingHint, name)
}

// Nonce gets the nonce of the Interest.
func (i *Interest) Nonce() []byte {
	return i.nonce
}

// ResetNonce regenerates the value of the nonce.
func (i *Interest) ResetNonce() {
	i.nonce = make([]byte, 4)
	rand.Read(i.nonce)
}

// SetNonce sets the nonce to the specified value. If not exactly 4 bytes, an error is returned.
func (i *Interest) SetNonce(nonce []byte) error {
	if len(nonce) != 4 {
		return util.ErrOutOfRange
	}
	i.nonce = make([]byte, 4)
	copy(i.nonce, nonce)
	return nil
}

// Lifetime returns the lifetime of the Interest.
func (i *Interest) Lifetime() time.Duration {
	return i.lifetime
}

// SetLifetime set the lifetime of the Interest.
func (i *Interest) SetLifetime(lifetime time.Duration) {
	i.lifetime = lifetime
}

// HopLimit returns the hop limit of the Interest or nil if no hop limit is set.
func (i *Interest) HopLimit() *uint8 {
	return i.hopLimit
}

// SetHopLimit sets the hop limit of the Interest (or unsets it if nil is specified).
func (i *Interest) SetHopLimit(hopLimit *uint8) {
	if hopLimit == nil {
		i.hopLimit = nil
		return
	}
	i.hopLimit = new(uint8)
	*i.hopLimit = *hopLimit
}

// ApplicationParameters returns the value of the ApplicationParameters element, or nil if absent.
func (i *Interest) ApplicationParameters() []byte {
	return i.parameters
}

// SetApplicationParameters sets the ApplicationParameters. An unsigned Interest carrying parameters gets a
// ParametersSha256DigestComponent when encoded.
func (i *Interest) SetApplicationParameters(parameters []byte) {
	i.parameters = parameters
	i.hasParameters = true
}

// IsSigned returns whether the Interest carries an InterestSignatureInfo.
func (i *Interest) IsSigned() bool {
	return i.sigInfo != nil
}

// SignatureInfo returns the InterestSignatureInfo, or nil if the Interest is unsigned.
func (i *Interest) SignatureInfo() *SignatureInfo {
	return i.sigInfo
}

// SetSignatureInfo sets the InterestSignatureInfo used by EncodeSignedInto.
func (i *Interest) SetSignatureInfo(sigInfo *SignatureInfo) {
	i.sigInfo = sigInfo
}

// SignatureValue returns the InterestSignatureValue, or nil if the Interest is unsigned.
func (i *Interest) SignatureValue() []byte {
	return i.sigValue
}

// SignedRegion returns the range of the decoded buffer covered by the signature.
func (i *Interest) SignedRegion() Range {
	return i.signedRegion
}

///////////
// Encoding
///////////

func (i *Interest) parametersDigestComponent() NameComponent {
	params := make([]byte, tlv.BlockSize(tlv.ApplicationParameters, len(i.parameters)))
	tlv.NewEncoder(params).WriteBlock(tlv.ApplicationParameters, i.parameters)
	digest := sha256.Sum256(params)
	return NameComponent{Typ: tlv.ParametersSha256DigestComponent, Val: digest[:]}
}

// encodedName returns the name as encoded, with a trailing ParametersSha256DigestComponent when required.
func (i *Interest) encodedName(signed bool) Name {
	if !i.hasParameters || signed || i.name.Find(tlv.ParametersSha256DigestComponent) != -1 {
		return i.name
	}
	return i.name.Append(i.parametersDigestComponent())
}

func (i *Interest) forwardingHintLength() int {
	size := 0
	for _, hint := range i.forwardingHint {
		size += hint.EncodingLength()
	}
	return size
}

func (i *Interest) portionLength(name Name, sigInfo *SignatureInfo) int {
	size := name.EncodingLength()
	if i.canBePrefix {
		size += tlv.BlockSize(tlv.CanBePrefix, 0)
	}
	if i.mustBeFresh {
		size += tlv.BlockSize(tlv.MustBeFresh, 0)
	}
	if len(i.forwardingHint) > 0 {
		size += tlv.BlockSize(tlv.ForwardingHint, i.forwardingHintLength())
	}
	size += tlv.BlockSize(tlv.Nonce, len(i.nonce))
	size += tlv.BlockSize(tlv.InterestLifetime, tlv.NNISize(uint64(i.lifetime.Milliseconds())))
	if i.hopLimit != nil {
		size += tlv.BlockSize(tlv.HopLimit, 1)
	}
	if i.hasParameters {
		size += tlv.BlockSize(tlv.ApplicationParameters, len(i.parameters))
	}
	if sigInfo != nil {
		size += tlv.BlockSize(tlv.InterestSignatureInfo, sigInfo.ValueLength())
	}
	return size
}

func (i *Interest) encodePortion(e *tlv.Encoder, name Name, sigInfo *SignatureInfo) error {
	if err := name.EncodeInto(e); err != nil {
		return err
	}
	if i.canBePrefix {
		if err := e.WriteBlock(tlv.CanBePrefix, nil); err != nil {
			return err
		}
	}
	if i.mustBeFresh {
		if err := e.WriteBlock(tlv.MustBeFresh, nil); err != nil {
			return err
		}
	}
	if len(i.forwardingHint) > 0 {
		if err := e.WriteTL(tlv.ForwardingHint, i.forwardingHintLength()); err != nil {
			return err
		}
		for _, hint := range i.forwardingHint {
			if err := hint.EncodeInto(e); err != nil {
				return err
			}
		}
	}
	if err := e.WriteBlock(tlv.Nonce, i.nonce); err != nil {
		return err
	}
	if err := e.WriteNNIBlock(tlv.InterestLifetime, uint64(i.lifetime.Milliseconds())); err != nil {
		return err
	}
	if i.hopLimit != nil {
		if err := e.WriteBlock(tlv.HopLimit, []byte{*i.hopLimit}); err != nil {
			return err
		}
	}
	if i.hasParameters {
		if err := e.WriteBlock(tlv.ApplicationParameters, i.parameters); err != nil {
			return err
		}
	}
	if sigInfo != nil {
		return sigInfo.EncodeInto(e, tlv.InterestSignatureInfo)
	}
	return nil
}

func (i *Interest) validate() error {
	if len(i.name) == 0 {
		return errors.New("Name cannot be empty")
	}
	if len(i.nonce) != 4 {
		return errors.New("Nonce must be set to encode")
	}
	return nil
}

// EncodingLength returns the size of the unsigned encoding produced by EncodeInto.
func (i *Interest) EncodingLength() int {
	return tlv.BlockSize(tlv.Interest, i.portionLength(i.encodedName(false), nil))
}

// EncodeInto writes the Interest, without any signature, into the encoder.
func (i *Interest) EncodeInto(e *tlv.Encoder) error {
	if err := i.validate(); err != nil {
		return err
	}
	name := i.encodedName(false)
	if err := e.WriteTL(tlv.Interest, i.portionLength(name, nil)); err != nil {
		return err
	}
	return i.encodePortion(e, name, nil)
}

func (i *Interest) sign(signer security.Signer) ([]byte, []byte, error) {
	if err := i.validate(); err != nil {
		return nil, nil, err
	}
	sigInfo := SignatureInfo{}
	if i.sigInfo != nil {
		sigInfo = *i.sigInfo
	}
	sigInfo.Type = signer.Type()

	name := i.encodedName(true)
	portion := make([]byte, i.portionLength(name, &sigInfo))
	if err := i.encodePortion(tlv.NewEncoder(portion), name, &sigInfo); err != nil {
		return nil, nil, err
	}
	sig, err := signer.Sign(portion)
	if err != nil {
		return nil, nil, err
	}
	return portion, sig, nil
}

// EncodeSignedInto writes the Interest signed by signer into the encoder. The InterestSignatureInfo set on the
// Interest is used with its type replaced by the signer's; without one, a bare InterestSignatureInfo is generated.
func (i *Interest) EncodeSignedInto(e *tlv.Encoder, signer security.Signer) error {
	portion, sig, err := i.sign(signer)
	if err != nil {
		return err
	}
	return writeSignedPacket(e, tlv.Interest, portion, tlv.InterestSignatureValue, sig)
}

// EncodeSigned returns the wire encoding of the Interest signed by signer in a newly allocated slice.
func (i *Interest) EncodeSigned(signer security.Signer) ([]byte, error) {
	portion, sig, err := i.sign(signer)
	if err != nil {
		return nil, err
	}
	valueLen := len(portion) + tlv.BlockSize(tlv.InterestSignatureValue, len(sig))
	buf := make([]byte, tlv.BlockSize(tlv.Interest, valueLen))
	if err := writeSignedPacket(tlv.NewEncoder(buf), tlv.Interest, portion, tlv.InterestSignatureValue, sig); err != nil {
		return nil, err
	}
	return buf, nil
}

// Encode returns the unsigned wire encoding of the Interest in a newly allocated slice.
func (i *Interest) Encode() ([]byte, error) {
	buf := make([]byte, i.EncodingLength())
	if err := i.EncodeInto(tlv.NewEncoder(buf)); err != nil {
		return nil, err
	}
	return buf, nil
}

// writeSignedPacket writes an outer TLV holding the signed portion followed by the signature value.
func writeSignedPacket(e *tlv.Encoder, outerType uint32, portion []byte, sigValueType uint32, sig []byte) error {
	valueLen := len(portion) + tlv.BlockSize(sigValueType, len(sig))
	if tlv.BlockSize(outerType, valueLen) > e.Remaining() {
		return tlv.ErrBufferOverflow
	}
	e.WriteTL(outerType, valueLen)
	e.WriteBytes(portion)
	return e.WriteBlock(sigValueType, sig)
}
