/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package ndn

import (
	"errors"
	"time"

	"github.com/named-data/ndn-verifier/ndn/security"
	"github.com/named-data/ndn-verifier/ndn/tlv"
	"github.com/named-data/ndn-verifier/ndn/util"
)

// ValidityTimeFormat is the layout of NotBefore and NotAfter in a ValidityPeriod.
const ValidityTimeFormat = "20060102T150405"

// SignatureInfo represents either the SignatureInfo (for Data packets) or InterestSignatureInfo blocks.
type SignatureInfo struct {
	Type       security.SignatureType
	KeyLocator Name // nil when absent
	KeyDigest  []byte

	// Interest only
	Nonce  []byte
	Time   *time.Time
	SeqNum *uint64

	// Certificate only
	NotBefore *time.Time
	NotAfter  *time.Time
}

// HasKeyLocator returns whether a KeyLocator carrying a Name is present.
func (s *SignatureInfo) HasKeyLocator() bool {
	return s.KeyLocator != nil
}

// HasValidityPeriod returns whether a ValidityPeriod is present.
func (s *SignatureInfo) HasValidityPeriod() bool {
	return s.NotBefore != nil && s.NotAfter != nil
}

// ValidAt returns whether the ValidityPeriod, if any, covers the specified time.
func (s *SignatureInfo) ValidAt(now time.Time) bool {
	if !s.HasValidityPeriod() {
		return true
	}
	return !now.Before(*s.NotBefore) && !now.After(*s.NotAfter)
}

// Element ordering ranks.
var sigInfoOrder = map[uint32]int{
	tlv.SignatureType:   1,
	tlv.KeyLocator:      2,
	tlv.ValidityPeriod:  3,
	tlv.SignatureNonce:  3,
	tlv.SignatureTime:   4,
	tlv.SignatureSeqNum: 5,
}

// DecodeSignatureInfo decodes the value of a SignatureInfo or InterestSignatureInfo block.
func DecodeSignatureInfo(value []byte) (*SignatureInfo, error) {
	s := new(SignatureInfo)
	d := tlv.NewDecoder(value)
	mostRecentElem := 0
	hasType := false
	for !d.EOF() {
		typ, elem, _, err := d.ReadBlock()
		if err != nil {
			return nil, err
		}

		rank, known := sigInfoOrder[typ]
		if !known {
			if tlv.IsCritical(typ) {
				return nil, tlv.ErrUnrecognizedCritical
			}
			continue
		}
		if rank <= mostRecentElem {
			return nil, util.ErrOutOfOrder
		}
		mostRecentElem = rank

		switch typ {
		case tlv.SignatureType:
			sigType, err := tlv.DecodeNNI(elem)
			if err != nil {
				return nil, err
			}
			s.Type = security.SignatureType(sigType)
			hasType = true
		case tlv.KeyLocator:
			if err := s.decodeKeyLocator(elem); err != nil {
				return nil, err
			}
		case tlv.ValidityPeriod:
			if err := s.decodeValidityPeriod(elem); err != nil {
				return nil, err
			}
		case tlv.SignatureNonce:
			s.Nonce = elem
		case tlv.SignatureTime:
			ms, err := tlv.DecodeNNI(elem)
			if err != nil {
				return nil, err
			}
			sigTime := time.UnixMilli(int64(ms)).UTC()
			s.Time = &sigTime
		case tlv.SignatureSeqNum:
			seq, err := tlv.DecodeNNI(elem)
			if err != nil {
				return nil, err
			}
			s.SeqNum = &seq
		}
	}

	if !hasType {
		return nil, util.ErrNonExistent
	}
	return s, nil
}

func (s *SignatureInfo) decodeKeyLocator(value []byte) error {
	d := tlv.NewDecoder(value)
	typ, elem, _, err := d.ReadBlock()
	if err != nil {
		return err
	}
	switch typ {
	case tlv.Name:
		s.KeyLocator, err = DecodeName(elem)
		return err
	case tlv.KeyDigest:
		s.KeyDigest = elem
		return nil
	}
	return tlv.ErrUnexpected
}

func (s *SignatureInfo) decodeValidityPeriod(value []byte) error {
	d := tlv.NewDecoder(value)
	for _, expected := range []uint32{tlv.NotBefore, tlv.NotAfter} {
		typ, elem, _, err := d.ReadBlock()
		if err != nil {
			return err
		}
		if typ != expected {
			return tlv.ErrUnexpected
		}
		t, err := time.Parse(ValidityTimeFormat, string(elem))
		if err != nil {
			return errors.New("invalid ValidityPeriod timestamp")
		}
		if expected == tlv.NotBefore {
			s.NotBefore = &t
		} else {
			s.NotAfter = &t
		}
	}
	return nil
}

func (s *SignatureInfo) keyLocatorValueLength() int {
	if s.KeyLocator != nil {
		return s.KeyLocator.EncodingLength()
	}
	return tlv.BlockSize(tlv.KeyDigest, len(s.KeyDigest))
}

func (s *SignatureInfo) validityValueLength() int {
	return 2 * tlv.BlockSize(tlv.NotBefore, len(ValidityTimeFormat))
}

// ValueLength returns the size of the encoded value.
func (s *SignatureInfo) ValueLength() int {
	size := tlv.BlockSize(tlv.SignatureType, tlv.NNISize(uint64(s.Type)))
	if s.KeyLocator != nil || s.KeyDigest != nil {
		size += tlv.BlockSize(tlv.KeyLocator, s.keyLocatorValueLength())
	}
	if s.HasValidityPeriod() {
		size += tlv.BlockSize(tlv.ValidityPeriod, s.validityValueLength())
	}
	if s.Nonce != nil {
		size += tlv.BlockSize(tlv.SignatureNonce, len(s.Nonce))
	}
	if s.Time != nil {
		size += tlv.BlockSize(tlv.SignatureTime, tlv.NNISize(uint64(s.Time.UnixMilli())))
	}
	if s.SeqNum != nil {
		size += tlv.BlockSize(tlv.SignatureSeqNum, tlv.NNISize(*s.SeqNum))
	}
	return size
}

// EncodeInto writes the SignatureInfo as a block of the specified type.
func (s *SignatureInfo) EncodeInto(e *tlv.Encoder, blockType uint32) error {
	if err := e.WriteTL(blockType, s.ValueLength()); err != nil {
		return err
	}
	if err := e.WriteNNIBlock(tlv.SignatureType, uint64(s.Type)); err != nil {
		return err
	}
	if s.KeyLocator != nil || s.KeyDigest != nil {
		if err := e.WriteTL(tlv.KeyLocator, s.keyLocatorValueLength()); err != nil {
			return err
		}
		var err error
		if s.KeyLocator != nil {
			err = s.KeyLocator.EncodeInto(e)
		} else {
			err = e.WriteBlock(tlv.KeyDigest, s.KeyDigest)
		}
		if err != nil {
			return err
		}
	}
	if s.HasValidityPeriod() {
		if err := e.WriteTL(tlv.ValidityPeriod, s.validityValueLength()); err != nil {
			return err
		}
		if err := e.WriteBlock(tlv.NotBefore, []byte(s.NotBefore.UTC().Format(ValidityTimeFormat))); err != nil {
			return err
		}
		if err := e.WriteBlock(tlv.NotAfter, []byte(s.NotAfter.UTC().Format(ValidityTimeFormat))); err != nil {
			return err
		}
	}
	if s.Nonce != nil {
		if err := e.WriteBlock(tlv.SignatureNonce, s.Nonce); err != nil {
			return err
		}
	}
	if s.Time != nil {
		if err := e.WriteNNIBlock(tlv.SignatureTime, uint64(s.Time.UnixMilli())); err != nil {
			return err
		}
	}
	if s.SeqNum != nil {
		return e.WriteNNIBlock(tlv.SignatureSeqNum, *s.SeqNum)
	}
	return nil
}
