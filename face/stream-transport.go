/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"errors"
	"io"

	"github.com/named-data/ndn-verifier/core"
	"github.com/named-data/ndn-verifier/ndn/tlv"
)

// ErrStreamDesync is returned when a stream carries more data than a packet without a complete TLV block.
var ErrStreamDesync = errors.New("received too much data without valid TLV block")

// readStreamTransport splits a byte stream into TLV frames. Frames passed to frameCb are only valid for the
// duration of the call.
func readStreamTransport(reader io.Reader, frameCb func([]byte)) error {
	recvBuf := make([]byte, core.MaxNDNPacketSize*4)
	recvOff := 0
	tlvOff := 0

	for {
		readSize, err := reader.Read(recvBuf[recvOff:])
		recvOff += readSize
		if err != nil {
			return err
		}

		// Determine whether valid packet received
		for {
			d := tlv.NewDecoder(recvBuf[tlvOff:recvOff])
			typ, err := d.ReadType()
			if errors.Is(err, tlv.ErrBufferTooShort) {
				// Incomplete packet
				break
			} else if err != nil {
				return err
			}
			length, err := d.ReadLength()
			if errors.Is(err, tlv.ErrBufferTooShort) {
				break
			} else if err != nil {
				return err
			}

			tlvSize := tlv.BlockSize(typ, int(length))
			if tlvSize > core.MaxNDNPacketSize {
				return ErrStreamDesync
			}
			if recvOff-tlvOff < tlvSize {
				// Incomplete packet (for sure)
				break
			}

			// Packet was successfully received
			frameCb(recvBuf[tlvOff : tlvOff+tlvSize])
			tlvOff += tlvSize
		}

		// If less than one packet space remains in buffer, shift to beginning
		if len(recvBuf)-recvOff < core.MaxNDNPacketSize {
			copy(recvBuf, recvBuf[tlvOff:recvOff])
			recvOff -= tlvOff
			tlvOff = 0
		}
	}
}
