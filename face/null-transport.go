/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"sync/atomic"

	"github.com/named-data/ndn-verifier/core"
)

// NullTransport is a transport that drops all packets.
type NullTransport struct {
	transportBase
	hasQuit chan bool
}

// MakeNullTransport makes a NullTransport.
func MakeNullTransport() *NullTransport {
	t := new(NullTransport)
	t.makeTransportBase(MakeNullFaceURI(), core.MaxNDNPacketSize)
	t.hasQuit = make(chan bool)
	t.changeState(t, Up)
	return t
}

func (t *NullTransport) String() string {
	return "NullTransport, RemoteURI=" + t.remoteURI.String()
}

func (t *NullTransport) sendFrame(frame []byte) error {
	if err := t.checkSend(t, frame); err != nil {
		return err
	}
	atomic.AddUint64(&t.nOutBytes, uint64(len(frame)))
	return nil
}

func (t *NullTransport) runReceive() {
	<-t.hasQuit
}

func (t *NullTransport) close() {
	if t.changeState(t, Down) {
		close(t.hasQuit)
	}
}
