/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package tlv

// NDN packet format 0.3 TLV types.
const (
	// Packet types
	Interest uint32 = 0x05
	Data     uint32 = 0x06

	// Name and name components
	Name                            uint32 = 0x07
	ImplicitSha256DigestComponent   uint32 = 0x01
	ParametersSha256DigestComponent uint32 = 0x02
	GenericNameComponent            uint32 = 0x08
	KeywordNameComponent            uint32 = 0x20
	SegmentNameComponent            uint32 = 0x32
	ByteOffsetNameComponent         uint32 = 0x34
	VersionNameComponent            uint32 = 0x36
	TimestampNameComponent          uint32 = 0x38
	SequenceNumNameComponent        uint32 = 0x3A

	// Interest
	CanBePrefix            uint32 = 0x21
	MustBeFresh            uint32 = 0x12
	ForwardingHint         uint32 = 0x1E
	Nonce                  uint32 = 0x0A
	InterestLifetime       uint32 = 0x0C
	HopLimit               uint32 = 0x22
	ApplicationParameters  uint32 = 0x24
	InterestSignatureInfo  uint32 = 0x2C
	InterestSignatureValue uint32 = 0x2E

	// Data
	MetaInfo       uint32 = 0x14
	Content        uint32 = 0x15
	SignatureInfo  uint32 = 0x16
	SignatureValue uint32 = 0x17

	// MetaInfo
	ContentType     uint32 = 0x18
	FreshnessPeriod uint32 = 0x19
	FinalBlockID    uint32 = 0x1A

	// Signature
	SignatureType   uint32 = 0x1B
	KeyLocator      uint32 = 0x1C
	KeyDigest       uint32 = 0x1D
	SignatureNonce  uint32 = 0x26
	SignatureTime   uint32 = 0x28
	SignatureSeqNum uint32 = 0x2A

	// Certificate
	ValidityPeriod uint32 = 0xFD
	NotBefore      uint32 = 0xFE
	NotAfter       uint32 = 0xFF
)
