/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"errors"
	"sync/atomic"

	"github.com/named-data/ndn-verifier/core"
)

// ErrFrameTooLarge is returned when a frame exceeds the MTU of a transport.
var ErrFrameTooLarge = errors.New("frame larger than MTU")

// ErrTransportDown is returned when sending on a transport that is not up.
var ErrTransportDown = errors.New("transport is down")

// Transport moves whole TLV frames between the application face and a forwarder.
type Transport interface {
	String() string
	RemoteURI() *URI
	MTU() int
	State() State

	// Counters
	NInBytes() uint64
	NOutBytes() uint64

	setReceiver(receiver func(frame []byte))
	runReceive()
	sendFrame(frame []byte) error
	close()
}

// transportBase provides logic common types between transport types
type transportBase struct {
	receiver  func(frame []byte)
	remoteURI *URI
	mtu       int
	state     int32

	// Counters
	nInBytes  uint64
	nOutBytes uint64
}

func (t *transportBase) makeTransportBase(remoteURI *URI, mtu int) {
	t.remoteURI = remoteURI
	t.mtu = mtu
	t.state = int32(Down)
}

func (t *transportBase) setReceiver(receiver func(frame []byte)) {
	t.receiver = receiver
}

//
// Getters
//

// RemoteURI returns the remote URI of the transport.
func (t *transportBase) RemoteURI() *URI {
	return t.remoteURI
}

// MTU returns the maximum transmission unit (MTU) of the Transport.
func (t *transportBase) MTU() int {
	return t.mtu
}

// State returns the state of the transport.
func (t *transportBase) State() State {
	return State(atomic.LoadInt32(&t.state))
}

// NInBytes returns the number of link-layer bytes received on this transport.
func (t *transportBase) NInBytes() uint64 {
	return atomic.LoadUint64(&t.nInBytes)
}

// NOutBytes returns the number of link-layer bytes sent on this transport.
func (t *transportBase) NOutBytes() uint64 {
	return atomic.LoadUint64(&t.nOutBytes)
}

// changeState sets the state and returns whether it changed.
func (t *transportBase) changeState(module interface{}, new State) bool {
	old := State(atomic.SwapInt32(&t.state, int32(new)))
	if old == new {
		return false
	}
	core.LogInfo(module, "state: ", old, " -> ", new)
	return true
}

// checkSend validates an outgoing frame against the state and MTU of the transport.
func (t *transportBase) checkSend(module interface{}, frame []byte) error {
	if t.State() != Up {
		return ErrTransportDown
	}
	if len(frame) > t.mtu {
		core.LogWarn(module, "Attempted to send frame larger than MTU - DROP")
		return ErrFrameTooLarge
	}
	core.LogDebug(module, "Sending frame of size ", len(frame))
	return nil
}

// deliver hands a received frame to the receiver.
func (t *transportBase) deliver(frame []byte) {
	atomic.AddUint64(&t.nInBytes, uint64(len(frame)))
	if t.receiver != nil {
		t.receiver(frame)
	}
}
