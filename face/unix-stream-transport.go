/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"net"
	"sync"
	"sync/atomic"

	"github.com/named-data/ndn-verifier/core"
	"github.com/pkg/errors"
)

// UnixStreamTransport is a Unix stream transport for communicating with the local forwarder.
type UnixStreamTransport struct {
	transportBase
	conn net.Conn
	wmut sync.Mutex
}

// MakeUnixStreamTransport connects to the Unix socket named by remoteURI.
func MakeUnixStreamTransport(remoteURI *URI) (*UnixStreamTransport, error) {
	// Validate URIs
	if remoteURI.Scheme() != "unix" {
		return nil, core.ErrNotCanonical
	}

	conn, err := net.Dial("unix", remoteURI.Path())
	if err != nil {
		return nil, errors.Wrapf(err, "unable to connect to %s", remoteURI)
	}

	t := new(UnixStreamTransport)
	t.makeTransportBase(remoteURI, core.MaxNDNPacketSize)
	t.conn = conn
	t.changeState(t, Up)
	return t, nil
}

func (t *UnixStreamTransport) String() string {
	return "UnixStreamTransport, RemoteURI=" + t.remoteURI.String()
}

func (t *UnixStreamTransport) sendFrame(frame []byte) error {
	if err := t.checkSend(t, frame); err != nil {
		return err
	}

	t.wmut.Lock()
	_, err := t.conn.Write(frame)
	t.wmut.Unlock()
	if err != nil {
		core.LogWarn(t, "Unable to send on socket - DROP and Face DOWN")
		t.close()
		return err
	}
	atomic.AddUint64(&t.nOutBytes, uint64(len(frame)))
	return nil
}

func (t *UnixStreamTransport) runReceive() {
	core.LogTrace(t, "Starting receive thread")
	err := readStreamTransport(t.conn, t.deliver)
	if err != nil && t.State() == Up {
		core.LogWarn(t, "Unable to read from socket (", err, ") - Face DOWN")
	}
	t.close()
}

func (t *UnixStreamTransport) close() {
	if t.changeState(t, Down) {
		core.LogInfo(t, "Closing Unix stream socket")
		t.conn.Close()
	}
}
