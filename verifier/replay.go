/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package verifier

import (
	"sync"
	"time"

	"github.com/cespare/xxhash"
	"github.com/named-data/ndn-verifier/keystore"
	"github.com/named-data/ndn-verifier/ndn"
	pkgerrors "github.com/pkg/errors"
)

type replayEntry struct {
	hash       uint64
	expiration time.Time
}

// replayGuard rejects signed Interests whose SignatureTime, SignatureNonce or SignatureSeqNum show them to be
// stale or replayed. Nonces are remembered for the window; entries expire in insertion order.
type replayGuard struct {
	mutex  sync.Mutex
	window time.Duration
	now    func() time.Time

	nonces  map[uint64]bool
	queue   []replayEntry
	lastSeq map[uint32]uint64
}

func newReplayGuard(window time.Duration, now func() time.Time) *replayGuard {
	return &replayGuard{
		window:  window,
		now:     now,
		nonces:  make(map[uint64]bool),
		lastSeq: make(map[uint32]uint64),
	}
}

func nonceHash(locator ndn.Name, nonce []byte) uint64 {
	var hash uint64
	for _, component := range locator {
		hash = hash ^ uint64(component.Typ) ^ xxhash.Sum64(component.Val)
	}
	return hash ^ xxhash.Sum64(nonce)
}

// admit checks the InterestSignatureInfo of a verified Interest and records its nonce and sequence number.
func (g *replayGuard) admit(interest *ndn.Interest) error {
	info := interest.SignatureInfo()
	if info == nil {
		return nil
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()
	now := g.now()
	g.removeExpiredEntries(now)

	if info.Time != nil {
		if skew := now.Sub(*info.Time); skew > g.window || skew < -g.window {
			return pkgerrors.Wrapf(ErrReplay, "SignatureTime off by %s", skew)
		}
	}

	var keyID uint32
	if info.HasKeyLocator() {
		keyID = keystore.KeyIDFromName(info.KeyLocator)
	}
	if info.SeqNum != nil {
		if last, ok := g.lastSeq[keyID]; ok && *info.SeqNum <= last {
			return pkgerrors.Wrapf(ErrReplay, "SignatureSeqNum %d not after %d", *info.SeqNum, last)
		}
	}

	var hash uint64
	if info.Nonce != nil {
		hash = nonceHash(info.KeyLocator, info.Nonce)
		if g.nonces[hash] {
			return pkgerrors.Wrap(ErrReplay, "SignatureNonce seen before")
		}
	}

	// Record only once every check has passed
	if info.SeqNum != nil {
		g.lastSeq[keyID] = *info.SeqNum
	}
	if info.Nonce != nil {
		g.nonces[hash] = true
		g.queue = append(g.queue, replayEntry{hash: hash, expiration: now.Add(g.window)})
	}
	return nil
}

// removeExpiredEntries forgets nonces older than the window.
func (g *replayGuard) removeExpiredEntries(now time.Time) {
	evicted := 0
	for evicted < len(g.queue) && g.queue[evicted].expiration.Before(now) {
		delete(g.nonces, g.queue[evicted].hash)
		evicted++
	}
	if evicted > 0 {
		g.queue = append(g.queue[:0], g.queue[evicted:]...)
	}
}

func (g *replayGuard) size() int {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	return len(g.queue)
}
