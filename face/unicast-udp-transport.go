/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"net"
	"strconv"
	"sync/atomic"

	"github.com/named-data/ndn-verifier/core"
	"github.com/named-data/ndn-verifier/face/impl"
	"github.com/named-data/ndn-verifier/ndn/tlv"
	"github.com/pkg/errors"
)

// UnicastUDPTransport is a unicast UDP transport
type UnicastUDPTransport struct {
	transportBase
	conn *net.UDPConn
}

// MakeUnicastUDPTransport creates a new unicast UDP transport connected to remoteURI.
func MakeUnicastUDPTransport(remoteURI *URI) (*UnicastUDPTransport, error) {
	// Validate URIs
	if err := remoteURI.Canonize(); err != nil {
		return nil, err
	}
	if !remoteURI.IsCanonical() || (remoteURI.Scheme() != "udp4" && remoteURI.Scheme() != "udp6") {
		return nil, core.ErrNotCanonical
	}

	dialer := net.Dialer{Control: impl.SyscallReuseAddr}
	remote := net.JoinHostPort(remoteURI.PathHost(), strconv.Itoa(int(remoteURI.Port())))
	conn, err := dialer.Dial(remoteURI.Scheme(), remote)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to connect to %s", remoteURI)
	}

	t := new(UnicastUDPTransport)
	t.makeTransportBase(remoteURI, core.MaxNDNPacketSize)
	t.conn = conn.(*net.UDPConn)
	if rawConn, err := t.conn.SyscallConn(); err == nil {
		if err := impl.SyscallSetReceiveBuffer(rawConn, core.MaxNDNPacketSize*faceQueueSize); err != nil {
			core.LogDebug(t, "Unable to enlarge receive buffer: ", err)
		}
	}
	t.changeState(t, Up)
	return t, nil
}

func (t *UnicastUDPTransport) String() string {
	return "UnicastUDPTransport, RemoteURI=" + t.remoteURI.String()
}

func (t *UnicastUDPTransport) sendFrame(frame []byte) error {
	if err := t.checkSend(t, frame); err != nil {
		return err
	}

	_, err := t.conn.Write(frame)
	if err != nil {
		core.LogWarn(t, "Unable to write on socket - DROP")
		return err
	}
	atomic.AddUint64(&t.nOutBytes, uint64(len(frame)))
	return nil
}

func (t *UnicastUDPTransport) runReceive() {
	core.LogTrace(t, "Starting receive thread")
	recvBuf := make([]byte, core.MaxNDNPacketSize)
	for t.State() == Up {
		readSize, err := t.conn.Read(recvBuf)
		if err != nil {
			if t.State() == Up {
				core.LogWarn(t, "Unable to read from socket (", err, ") - Face DOWN")
			}
			break
		}

		core.LogTrace(t, "Receive of size ", readSize)

		// Determine whether valid packet received
		d := tlv.NewDecoder(recvBuf[:readSize])
		if _, _, _, err := d.ReadBlock(); err != nil || !d.EOF() {
			core.LogInfo(t, "Received datagram is not a single TLV block - DROP")
			continue
		}
		t.deliver(recvBuf[:readSize])
	}

	t.close()
}

func (t *UnicastUDPTransport) close() {
	if t.changeState(t, Down) {
		core.LogInfo(t, "Closing UDP socket")
		t.conn.Close()
	}
}
