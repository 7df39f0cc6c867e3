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
	"time"

	"github.com/named-data/ndn-verifier/core"
	"github.com/named-data/ndn-verifier/ndn"
	"github.com/named-data/ndn-verifier/ndn/tlv"
	"github.com/named-data/ndn-verifier/utils/comparison"
)

// ErrFaceClosed is returned when expressing an Interest on a closed face.
var ErrFaceClosed = errors.New("face is closed")

// OnData is invoked with the raw Data packet satisfying an expressed Interest.
type OnData func(raw []byte, ctx interface{})

// OnTimeout is invoked when an expressed Interest expires without Data.
type OnTimeout func(ctx interface{})

// InterestHandler receives Interests arriving from the forwarder.
type InterestHandler func(interest *ndn.Interest, raw []byte)

// DataHandler receives Data that matches no pending Interest.
type DataHandler func(data *ndn.Data, raw []byte)

// AppFace is an application face to a forwarder. It keeps a table of pending Interests and runs every callback
// on a single event loop goroutine. Exactly one of OnData and OnTimeout fires, once, per expressed Interest.
type AppFace struct {
	transport Transport

	mutex  sync.Mutex
	pit    *pitNode
	queue  []func()
	closed bool

	wake     chan struct{}
	quit     chan struct{}
	loopDone chan struct{}
	running  bool

	onInterest InterestHandler
	onData     DataHandler
}

// MakeAppFace creates an application face over the specified transport.
func MakeAppFace(transport Transport) *AppFace {
	f := new(AppFace)
	f.transport = transport
	f.pit = newPit()
	f.wake = make(chan struct{}, 1)
	f.quit = make(chan struct{})
	f.loopDone = make(chan struct{})
	transport.setReceiver(f.handleIncomingFrame)
	return f
}

func (f *AppFace) String() string {
	return "AppFace (" + f.transport.String() + ")"
}

// SetInterestHandler sets the handler for incoming Interests. It must be called before Run.
func (f *AppFace) SetInterestHandler(handler InterestHandler) {
	f.onInterest = handler
}

// SetUnsolicitedDataHandler sets the handler for Data that matches no pending Interest. It must be called before Run.
func (f *AppFace) SetUnsolicitedDataHandler(handler DataHandler) {
	f.onData = handler
}

// Transport returns the underlying transport.
func (f *AppFace) Transport() Transport {
	return f.transport
}

// Run starts receiving and processes callbacks until Close is called.
func (f *AppFace) Run() {
	f.mutex.Lock()
	if f.running || f.closed {
		f.mutex.Unlock()
		return
	}
	f.running = true
	f.mutex.Unlock()

	go f.transport.runReceive()
	defer close(f.loopDone)

	for {
		select {
		case <-f.wake:
			f.mutex.Lock()
			events := f.queue
			f.queue = nil
			f.mutex.Unlock()
			for _, event := range events {
				event()
			}
		case <-f.quit:
			return
		}
	}
}

// Close stops the face. Interests still pending receive their timeout callback before Close returns.
func (f *AppFace) Close() {
	f.mutex.Lock()
	if f.closed {
		f.mutex.Unlock()
		return
	}
	f.closed = true
	running := f.running
	records := f.pit.drain()
	f.mutex.Unlock()

	f.transport.close()
	close(f.quit)
	if running {
		<-f.loopDone
	}

	f.mutex.Lock()
	events := f.queue
	f.queue = nil
	f.mutex.Unlock()
	for _, event := range events {
		event()
	}
	for _, record := range records {
		record.timer.Stop()
		record.onTimeout(record.ctx)
	}
}

// post queues an event for the event loop, returning false once the face is closed.
func (f *AppFace) post(event func()) bool {
	f.mutex.Lock()
	if f.closed {
		f.mutex.Unlock()
		return false
	}
	f.queue = append(f.queue, event)
	f.mutex.Unlock()

	select {
	case f.wake <- struct{}{}:
	default:
	}
	return true
}

// NPending returns the number of Interests awaiting Data or timeout.
func (f *AppFace) NPending() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.pit.size()
}

// ExpressInterest sends an encoded Interest. On success, exactly one of onData and onTimeout is later invoked
// with ctx. The lifetime of the Interest is clamped to the configured bounds.
func (f *AppFace) ExpressInterest(wire []byte, onData OnData, onTimeout OnTimeout, ctx interface{}) error {
	if onData == nil || onTimeout == nil {
		return errors.New("both callbacks are required")
	}
	wire = append([]byte(nil), wire...)
	interest, err := ndn.DecodeInterest(wire)
	if err != nil {
		return err
	}

	lifetime := comparison.Clamp(interest.Lifetime(), minInterestLifetime, maxInterestLifetime)
	record := &pitRecord{
		onData:    onData,
		onTimeout: onTimeout,
		ctx:       ctx,
	}

	f.mutex.Lock()
	if f.closed {
		f.mutex.Unlock()
		return ErrFaceClosed
	}
	f.pit.insert(interest, record)
	record.timer = time.AfterFunc(lifetime, func() { f.expire(record) })
	f.mutex.Unlock()

	if err := f.transport.sendFrame(wire); err != nil {
		f.mutex.Lock()
		removed := f.pit.removeRecord(record)
		f.mutex.Unlock()
		if removed {
			record.timer.Stop()
			return err
		}
		// Already satisfied or expired; its callback is queued.
		core.LogDebug(f, "Send failed after Interest was resolved: ", err)
		return nil
	}
	core.LogTrace(f, "Expressed ", interest)
	return nil
}

func (f *AppFace) expire(record *pitRecord) {
	f.mutex.Lock()
	removed := f.pit.removeRecord(record)
	f.mutex.Unlock()
	if !removed {
		return
	}
	core.LogTrace(f, "Interest timed out")
	if !f.post(func() { record.onTimeout(record.ctx) }) {
		record.onTimeout(record.ctx)
	}
}

func (f *AppFace) handleIncomingFrame(frame []byte) {
	typ, err := tlv.NewDecoder(frame).PeekType()
	if err != nil {
		core.LogInfo(f, "Unable to decode incoming frame - DROP")
		return
	}
	raw := append([]byte(nil), frame...)

	switch typ {
	case tlv.Data:
		data, err := ndn.DecodeData(raw)
		if err != nil {
			core.LogInfo(f, "Unable to decode incoming Data: ", err, " - DROP")
			return
		}
		f.handleData(data, raw)
	case tlv.Interest:
		interest, err := ndn.DecodeInterest(raw)
		if err != nil {
			core.LogInfo(f, "Unable to decode incoming Interest: ", err, " - DROP")
			return
		}
		if handler := f.onInterest; handler != nil {
			f.post(func() { handler(interest, raw) })
		} else {
			core.LogDebug(f, "No handler for incoming ", interest, " - DROP")
		}
	default:
		core.LogInfo(f, "Received packet of unknown type ", typ, " - DROP")
	}
}

func (f *AppFace) handleData(data *ndn.Data, raw []byte) {
	f.mutex.Lock()
	var records []*pitRecord
	for _, entry := range f.pit.findFromData(data.Name()) {
		records = append(records, entry.node.removeEntry(entry)...)
	}
	f.mutex.Unlock()

	if len(records) == 0 {
		if handler := f.onData; handler != nil {
			f.post(func() { handler(data, raw) })
		} else {
			core.LogDebug(f, "Unsolicited ", data, " - DROP")
		}
		return
	}

	for _, record := range records {
		record.timer.Stop()
	}
	core.LogTrace(f, data, " satisfied ", len(records), " pending Interest(s)")
	satisfy := func() {
		for _, record := range records {
			record.onData(raw, record.ctx)
		}
	}
	if !f.post(satisfy) {
		satisfy()
	}
}
