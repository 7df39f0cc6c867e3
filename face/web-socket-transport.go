/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/named-data/ndn-verifier/core"
	"github.com/pkg/errors"
)

// WebSocketTransport communicates with a forwarder via WebSocket. Each binary message carries one packet.
type WebSocketTransport struct {
	transportBase
	c    *websocket.Conn
	wmut sync.Mutex
}

// MakeWebSocketTransport dials the WebSocket server named by remoteURI.
func MakeWebSocketTransport(remoteURI *URI) (*WebSocketTransport, error) {
	if remoteURI.Scheme() != "ws" && remoteURI.Scheme() != "wss" {
		return nil, core.ErrNotCanonical
	}

	c, _, err := websocket.DefaultDialer.Dial(remoteURI.String(), nil)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to connect to %s", remoteURI)
	}
	return newWebSocketTransport(remoteURI, c), nil
}

func newWebSocketTransport(remoteURI *URI, c *websocket.Conn) *WebSocketTransport {
	t := &WebSocketTransport{c: c}
	t.makeTransportBase(remoteURI, core.MaxNDNPacketSize)
	c.SetReadLimit(int64(core.MaxNDNPacketSize))
	t.changeState(t, Up)
	return t
}

func (t *WebSocketTransport) String() string {
	return "WebSocketTransport, RemoteURI=" + t.remoteURI.String()
}

func (t *WebSocketTransport) sendFrame(frame []byte) error {
	if err := t.checkSend(t, frame); err != nil {
		return err
	}

	t.wmut.Lock()
	err := t.c.WriteMessage(websocket.BinaryMessage, frame)
	t.wmut.Unlock()
	if err != nil {
		core.LogWarn(t, "Unable to send on socket - DROP and Face DOWN")
		t.close()
		return err
	}
	atomic.AddUint64(&t.nOutBytes, uint64(len(frame)))
	return nil
}

func (t *WebSocketTransport) runReceive() {
	core.LogTrace(t, "Starting receive thread")

	for {
		mt, message, err := t.c.ReadMessage()
		if err != nil {
			if t.State() == Up {
				core.LogWarn(t, "Unable to read from socket (", err, ") - Face DOWN")
			}
			break
		}

		if mt != websocket.BinaryMessage {
			core.LogWarn(t, "Ignored non-binary message")
			continue
		}

		core.LogTrace(t, "Receive of size ", len(message))
		t.deliver(message)
	}

	t.close()
}

func (t *WebSocketTransport) close() {
	if t.changeState(t, Down) {
		core.LogInfo(t, "Closing WebSocket")
		t.wmut.Lock()
		t.c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		t.wmut.Unlock()
		t.c.Close()
	}
}
