/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/named-data/ndn-verifier/core"
	"github.com/named-data/ndn-verifier/ndn"
	"github.com/named-data/ndn-verifier/ndn/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testTransport records sent frames and lets the test inject received frames.
type testTransport struct {
	transportBase
	sent    chan []byte
	sendErr error
	quit    chan struct{}
	once    sync.Once
}

func newTestTransport() *testTransport {
	t := &testTransport{sent: make(chan []byte, 16), quit: make(chan struct{})}
	t.makeTransportBase(MakeNullFaceURI(), core.MaxNDNPacketSize)
	t.changeState(t, Up)
	return t
}

func (t *testTransport) String() string {
	return "testTransport"
}

func (t *testTransport) sendFrame(frame []byte) error {
	if t.sendErr != nil {
		return t.sendErr
	}
	if err := t.checkSend(t, frame); err != nil {
		return err
	}
	t.sent <- append([]byte(nil), frame...)
	return nil
}

func (t *testTransport) runReceive() {
	<-t.quit
}

func (t *testTransport) close() {
	t.once.Do(func() {
		t.changeState(t, Down)
		close(t.quit)
	})
}

func makeInterest(t *testing.T, name string, canBePrefix bool, lifetime time.Duration) []byte {
	n, err := ndn.NameFromString(name)
	require.NoError(t, err)
	interest := ndn.NewInterest(n)
	interest.SetCanBePrefix(canBePrefix)
	interest.SetMustBeFresh(true)
	interest.SetLifetime(lifetime)
	wire, err := interest.Encode()
	require.NoError(t, err)
	return wire
}

func makeData(t *testing.T, name string) []byte {
	n, err := ndn.NameFromString(name)
	require.NoError(t, err)
	wire, err := ndn.NewData(n, []byte("content")).Encode(security.DigestSha256{})
	require.NoError(t, err)
	return wire
}

type callbackRecorder struct {
	data     chan interface{}
	timeouts chan interface{}
	calls    int32
}

func newCallbackRecorder() *callbackRecorder {
	return &callbackRecorder{data: make(chan interface{}, 8), timeouts: make(chan interface{}, 8)}
}

func (r *callbackRecorder) onData(raw []byte, ctx interface{}) {
	atomic.AddInt32(&r.calls, 1)
	r.data <- ctx
}

func (r *callbackRecorder) onTimeout(ctx interface{}) {
	atomic.AddInt32(&r.calls, 1)
	r.timeouts <- ctx
}

func startFace(t *testing.T) (*AppFace, *testTransport) {
	tt := newTestTransport()
	f := MakeAppFace(tt)
	go f.Run()
	t.Cleanup(f.Close)
	return f, tt
}

func TestExpressInterestSatisfied(t *testing.T) {
	f, tt := startFace(t)
	r := newCallbackRecorder()

	wire := makeInterest(t, "/ndn/alice/KEY", true, time.Second)
	require.NoError(t, f.ExpressInterest(wire, r.onData, r.onTimeout, "ctx-1"))
	assert.Equal(t, wire, <-tt.sent)
	assert.Equal(t, 1, f.NPending())

	tt.deliver(makeData(t, "/ndn/alice/KEY/1/self/v=1"))
	select {
	case ctx := <-r.data:
		assert.Equal(t, "ctx-1", ctx)
	case <-time.After(time.Second):
		t.Fatal("Data callback not invoked")
	}
	assert.Equal(t, 0, f.NPending())

	// No timeout afterwards
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&r.calls))
}

func TestExpressInterestTimeout(t *testing.T) {
	f, tt := startFace(t)
	r := newCallbackRecorder()
	unsolicited := make(chan *ndn.Data, 1)
	f.SetUnsolicitedDataHandler(func(data *ndn.Data, raw []byte) { unsolicited <- data })

	wire := makeInterest(t, "/ndn/alice/KEY", true, 20*time.Millisecond)
	require.NoError(t, f.ExpressInterest(wire, r.onData, r.onTimeout, 7))
	<-tt.sent

	select {
	case ctx := <-r.timeouts:
		assert.Equal(t, 7, ctx)
	case <-time.After(time.Second):
		t.Fatal("Timeout callback not invoked")
	}
	assert.Equal(t, 0, f.NPending())

	// Late Data is unsolicited
	tt.deliver(makeData(t, "/ndn/alice/KEY/1"))
	select {
	case data := <-unsolicited:
		assert.Equal(t, "/ndn/alice/KEY/1", data.Name().String())
	case <-time.After(time.Second):
		t.Fatal("Unsolicited Data not delivered")
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&r.calls))
}

func TestExpressInterestExactMatch(t *testing.T) {
	f, tt := startFace(t)
	r := newCallbackRecorder()

	wire := makeInterest(t, "/ndn/alice", false, time.Second)
	require.NoError(t, f.ExpressInterest(wire, r.onData, r.onTimeout, nil))
	<-tt.sent

	// Longer name does not satisfy an Interest without CanBePrefix
	tt.deliver(makeData(t, "/ndn/alice/1"))
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, f.NPending())

	tt.deliver(makeData(t, "/ndn/alice"))
	select {
	case <-r.data:
	case <-time.After(time.Second):
		t.Fatal("Data callback not invoked")
	}
}

func TestExpressInterestAggregated(t *testing.T) {
	f, tt := startFace(t)
	r := newCallbackRecorder()

	wire := makeInterest(t, "/ndn/bob", true, time.Second)
	require.NoError(t, f.ExpressInterest(wire, r.onData, r.onTimeout, 1))
	require.NoError(t, f.ExpressInterest(wire, r.onData, r.onTimeout, 2))
	<-tt.sent
	<-tt.sent
	assert.Equal(t, 2, f.NPending())

	tt.deliver(makeData(t, "/ndn/bob/x"))
	got := []interface{}{<-r.data, <-r.data}
	assert.ElementsMatch(t, []interface{}{1, 2}, got)
	assert.Equal(t, 0, f.NPending())
}

func TestExpressInterestErrors(t *testing.T) {
	f, tt := startFace(t)
	r := newCallbackRecorder()

	assert.Error(t, f.ExpressInterest([]byte{0x05, 0x10}, r.onData, r.onTimeout, nil))
	assert.Error(t, f.ExpressInterest(makeInterest(t, "/a", false, time.Second), nil, r.onTimeout, nil))

	tt.sendErr = errors.New("send failed")
	assert.Error(t, f.ExpressInterest(makeInterest(t, "/a", false, time.Second), r.onData, r.onTimeout, nil))
	assert.Equal(t, 0, f.NPending())

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&r.calls))
}

func TestCloseTimesOutPending(t *testing.T) {
	tt := newTestTransport()
	f := MakeAppFace(tt)
	go f.Run()
	r := newCallbackRecorder()

	require.NoError(t, f.ExpressInterest(makeInterest(t, "/a", false, time.Minute), r.onData, r.onTimeout, "pending"))
	f.Close()

	select {
	case ctx := <-r.timeouts:
		assert.Equal(t, "pending", ctx)
	default:
		t.Fatal("Close did not time out pending Interest")
	}
	assert.Equal(t, Down, tt.State())
	assert.ErrorIs(t, f.ExpressInterest(makeInterest(t, "/a", false, time.Second), r.onData, r.onTimeout, nil), ErrFaceClosed)
	f.Close()
	assert.Equal(t, int32(1), atomic.LoadInt32(&r.calls))
}

func TestIncomingInterestHandler(t *testing.T) {
	tt := newTestTransport()
	f := MakeAppFace(tt)
	received := make(chan string, 1)
	f.SetInterestHandler(func(interest *ndn.Interest, raw []byte) { received <- interest.Name().String() })
	go f.Run()
	defer f.Close()

	tt.deliver(makeInterest(t, "/ndn/cmd", false, time.Second))
	select {
	case name := <-received:
		assert.Equal(t, "/ndn/cmd", name)
	case <-time.After(time.Second):
		t.Fatal("Interest handler not invoked")
	}

	// Garbage is dropped
	tt.deliver([]byte{0xFF})
	tt.deliver([]byte{0x64, 0x00})
}
