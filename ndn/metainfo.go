/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package ndn

import (
	"strconv"
	"time"

	"github.com/named-data/ndn-verifier/ndn/tlv"
	"github.com/named-data/ndn-verifier/ndn/util"
)

// ContentType values.
const (
	ContentTypeBlob uint64 = 0
	ContentTypeLink uint64 = 1
	ContentTypeKey  uint64 = 2
	ContentTypeNack uint64 = 3
)

// MetaInfo represents the MetaInfo in a Data packet.
type MetaInfo struct {
	contentType     *uint64
	freshnessPeriod *time.Duration
	finalBlockID    *NameComponent
}

// NewMetaInfo creates an empty MetaInfo.
func NewMetaInfo() *MetaInfo {
	return new(MetaInfo)
}

// DecodeMetaInfo decodes the value of a MetaInfo block.
func DecodeMetaInfo(value []byte) (*MetaInfo, error) {
	m := new(MetaInfo)
	d := tlv.NewDecoder(value)
	mostRecentElem := 0
	for !d.EOF() {
		typ, elem, _, err := d.ReadBlock()
		if err != nil {
			return nil, err
		}
		switch typ {
		case tlv.ContentType:
			if mostRecentElem >= 1 {
				return nil, util.ErrOutOfOrder
			}
			mostRecentElem = 1
			contentType, err := tlv.DecodeNNI(elem)
			if err != nil {
				return nil, err
			}
			m.contentType = &contentType
		case tlv.FreshnessPeriod:
			if mostRecentElem >= 2 {
				return nil, util.ErrOutOfOrder
			}
			mostRecentElem = 2
			ms, err := tlv.DecodeNNI(elem)
			if err != nil {
				return nil, err
			}
			freshness := time.Duration(ms) * time.Millisecond
			m.freshnessPeriod = &freshness
		case tlv.FinalBlockID:
			if mostRecentElem >= 3 {
				return nil, util.ErrOutOfOrder
			}
			mostRecentElem = 3
			cd := tlv.NewDecoder(elem)
			componentType, componentValue, _, err := cd.ReadBlock()
			if err != nil {
				return nil, err
			}
			m.finalBlockID = &NameComponent{Typ: componentType, Val: componentValue}
		default:
			if tlv.IsCritical(typ) {
				return nil, tlv.ErrUnrecognizedCritical
			}
		}
	}
	return m, nil
}

func (m *MetaInfo) String() string {
	str := "MetaInfo("
	isFirst := true
	if m.contentType != nil {
		str += "ContentType=" + strconv.FormatUint(*m.contentType, 10)
		isFirst = false
	}
	if m.freshnessPeriod != nil {
		if !isFirst {
			str += ", "
		}
		str += "FreshnessPeriod=" + strconv.FormatInt(m.freshnessPeriod.Milliseconds(), 10) + "ms"
		isFirst = false
	}
	if m.finalBlockID != nil {
		if !isFirst {
			str += ", "
		}
		str += "FinalBlockID=" + m.finalBlockID.String()
	}
	return str + ")"
}

// ContentType returns the ContentType, or nil if unset.
func (m *MetaInfo) ContentType() *uint64 {
	return m.contentType
}

// SetContentType sets the ContentType.
func (m *MetaInfo) SetContentType(contentType uint64) {
	m.contentType = &contentType
}

// FreshnessPeriod returns the FreshnessPeriod, or nil if unset.
func (m *MetaInfo) FreshnessPeriod() *time.Duration {
	return m.freshnessPeriod
}

// SetFreshnessPeriod sets the FreshnessPeriod.
func (m *MetaInfo) SetFreshnessPeriod(freshnessPeriod time.Duration) {
	m.freshnessPeriod = &freshnessPeriod
}

// FinalBlockID returns the FinalBlockId, or nil if unset.
func (m *MetaInfo) FinalBlockID() *NameComponent {
	return m.finalBlockID
}

// SetFinalBlockID sets the FinalBlockId.
func (m *MetaInfo) SetFinalBlockID(finalBlockID NameComponent) {
	m.finalBlockID = &finalBlockID
}

// IsEmpty returns whether no field is set, in which case the MetaInfo is omitted from the Data.
func (m *MetaInfo) IsEmpty() bool {
	return m == nil || (m.contentType == nil && m.freshnessPeriod == nil && m.finalBlockID == nil)
}

// ValueLength returns the size of the encoded value.
func (m *MetaInfo) ValueLength() int {
	size := 0
	if m.contentType != nil {
		size += tlv.BlockSize(tlv.ContentType, tlv.NNISize(*m.contentType))
	}
	if m.freshnessPeriod != nil {
		size += tlv.BlockSize(tlv.FreshnessPeriod, tlv.NNISize(uint64(m.freshnessPeriod.Milliseconds())))
	}
	if m.finalBlockID != nil {
		size += tlv.BlockSize(tlv.FinalBlockID, m.finalBlockID.EncodingLength())
	}
	return size
}

// EncodeInto writes the MetaInfo block into the encoder.
func (m *MetaInfo) EncodeInto(e *tlv.Encoder) error {
	if err := e.WriteTL(tlv.MetaInfo, m.ValueLength()); err != nil {
		return err
	}
	if m.contentType != nil {
		if err := e.WriteNNIBlock(tlv.ContentType, *m.contentType); err != nil {
			return err
		}
	}
	if m.freshnessPeriod != nil {
		if err := e.WriteNNIBlock(tlv.FreshnessPeriod, uint64(m.freshnessPeriod.Milliseconds())); err != nil {
			return err
		}
	}
	if m.finalBlockID != nil {
		if err := e.WriteTL(tlv.FinalBlockID, m.finalBlockID.EncodingLength()); err != nil {
			return err
		}
		return e.WriteBlock(m.finalBlockID.Typ, m.finalBlockID.Val)
	}
	return nil
}
