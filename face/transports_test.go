/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/named-data/ndn-verifier/ndn"
	"github.com/named-data/ndn-verifier/ndn/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// answer builds the Data answering an encoded Interest.
func answer(t *testing.T, frame []byte) []byte {
	interest, err := ndn.DecodeInterest(frame)
	if err != nil {
		t.Error(err)
		return nil
	}
	wire, err := ndn.NewData(interest.Name(), []byte("reply")).Encode(security.DigestSha256{})
	if err != nil {
		t.Error(err)
		return nil
	}
	return wire
}

// expressAndWait expresses an Interest on a transport and waits for the Data.
func expressAndWait(t *testing.T, transport Transport) {
	f := MakeAppFace(transport)
	go f.Run()
	defer f.Close()

	r := newCallbackRecorder()
	require.NoError(t, f.ExpressInterest(makeInterest(t, "/test/transport", false, 2*time.Second), r.onData, r.onTimeout, "x"))
	select {
	case ctx := <-r.data:
		assert.Equal(t, "x", ctx)
	case <-r.timeouts:
		t.Fatal("Interest timed out")
	case <-time.After(5 * time.Second):
		t.Fatal("no callback")
	}
	assert.NotZero(t, transport.NInBytes())
	assert.NotZero(t, transport.NOutBytes())
}

func TestNullTransport(t *testing.T) {
	transport, err := MakeTransport("null://")
	require.NoError(t, err)
	assert.Equal(t, Up, transport.State())
	assert.Equal(t, "null://", transport.RemoteURI().String())
	assert.NoError(t, transport.sendFrame([]byte{0x05, 0x00}))
	assert.ErrorIs(t, transport.sendFrame(make([]byte, transport.MTU()+1)), ErrFrameTooLarge)
	transport.close()
	assert.Equal(t, Down, transport.State())
	assert.ErrorIs(t, transport.sendFrame([]byte{0x05, 0x00}), ErrTransportDown)
}

func TestMakeTransportErrors(t *testing.T) {
	_, err := MakeTransport("tcp://127.0.0.1:6363")
	assert.Error(t, err)
	_, err = MakeTransport("unix://" + filepath.Join(t.TempDir(), "missing.sock"))
	assert.Error(t, err)
}

func TestUnixStreamTransport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nfd.sock")
	listener, err := net.Listen("unix", path)
	require.NoError(t, err)
	defer listener.Close()

	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		readStreamTransport(conn, func(frame []byte) {
			reply := answer(t, frame)
			// Deliver in two segments
			conn.Write(reply[:3])
			time.Sleep(10 * time.Millisecond)
			conn.Write(reply[3:])
		})
	}()

	transport, err := MakeTransport("unix://" + path)
	require.NoError(t, err)
	assert.Equal(t, "unix://"+path, transport.RemoteURI().String())
	expressAndWait(t, transport)
	assert.Equal(t, Down, transport.State())
}

func TestUnicastUDPTransport(t *testing.T) {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	defer conn.Close()

	go func() {
		buf := make([]byte, 9000)
		for {
			n, addr, err := conn.ReadFromUDP(buf)
			if err != nil {
				return
			}
			conn.WriteToUDP(answer(t, buf[:n]), addr)
		}
	}()

	transport, err := MakeTransport("udp4://" + conn.LocalAddr().String())
	require.NoError(t, err)
	assert.Equal(t, "udp4", transport.RemoteURI().Scheme())
	expressAndWait(t, transport)
}

func TestWebSocketTransport(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer c.Close()
		for {
			mt, message, err := c.ReadMessage()
			if err != nil {
				return
			}
			if mt == websocket.BinaryMessage {
				c.WriteMessage(websocket.TextMessage, []byte("ignored"))
				c.WriteMessage(websocket.BinaryMessage, answer(t, message))
			}
		}
	}))
	defer server.Close()

	transport, err := MakeTransport("ws://" + strings.TrimPrefix(server.URL, "http://") + "/")
	require.NoError(t, err)
	expressAndWait(t, transport)
}
