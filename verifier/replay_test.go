/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package verifier

import (
	"testing"
	"time"

	"github.com/named-data/ndn-verifier/ndn"
	"github.com/named-data/ndn-verifier/ndn/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// replayInterest encodes an Interest signed with DigestSha256 and the specified replay protection fields.
func replayInterest(t *testing.T, nonce []byte, signedAt *time.Time, seq *uint64) []byte {
	interest := ndn.NewInterest(mustName(t, "/ndn/alice/cmd"))
	interest.SetSignatureInfo(&ndn.SignatureInfo{Nonce: nonce, Time: signedAt, SeqNum: seq})
	raw, err := interest.EncodeSigned(security.DigestSha256{})
	require.NoError(t, err)
	return raw
}

func TestReplayNonce(t *testing.T) {
	f := newFixture(t, EngineOptions{ReplayWindow: time.Minute})
	raw := replayInterest(t, []byte{1, 2, 3, 4}, nil, nil)

	assert.Equal(t, 1, f.verifyInterest(raw).successes)
	o := f.verifyInterest(raw)
	assert.Equal(t, 1, o.failures)
	assert.Equal(t, 0, o.successes)

	assert.Equal(t, 1, f.verifyInterest(replayInterest(t, []byte{5, 6, 7, 8}, nil, nil)).successes)
}

func TestReplayTime(t *testing.T) {
	f := newFixture(t, EngineOptions{ReplayWindow: time.Minute})
	recent := testNow.Add(-30 * time.Second)
	stale := testNow.Add(-2 * time.Minute)
	future := testNow.Add(2 * time.Minute)

	assert.Equal(t, 1, f.verifyInterest(replayInterest(t, nil, &recent, nil)).successes)
	assert.Equal(t, 1, f.verifyInterest(replayInterest(t, nil, &stale, nil)).failures)
	assert.Equal(t, 1, f.verifyInterest(replayInterest(t, nil, &future, nil)).failures)
}

func TestReplaySeqNum(t *testing.T) {
	f := newFixture(t, EngineOptions{ReplayWindow: time.Minute})
	seq := func(v uint64) *uint64 { return &v }

	assert.Equal(t, 1, f.verifyInterest(replayInterest(t, nil, nil, seq(5))).successes)
	assert.Equal(t, 1, f.verifyInterest(replayInterest(t, nil, nil, seq(5))).failures)
	assert.Equal(t, 1, f.verifyInterest(replayInterest(t, nil, nil, seq(4))).failures)
	assert.Equal(t, 1, f.verifyInterest(replayInterest(t, nil, nil, seq(6))).successes)
}

func TestReplayDisabled(t *testing.T) {
	f := newFixture(t, EngineOptions{})
	raw := replayInterest(t, []byte{1, 2, 3, 4}, nil, nil)
	assert.Equal(t, 1, f.verifyInterest(raw).successes)
	assert.Equal(t, 1, f.verifyInterest(raw).successes)
}

func TestReplayBadSignatureNotRecorded(t *testing.T) {
	f := newFixture(t, EngineOptions{ReplayWindow: time.Minute})
	raw := replayInterest(t, []byte{1, 2, 3, 4}, nil, nil)
	interest, err := ndn.DecodeInterest(raw)
	require.NoError(t, err)

	tampered := append([]byte(nil), raw...)
	tampered[interest.SignedRegion().Start+3] ^= 0x01
	o := new(outcome)
	onSuccess, onFailure := o.interest()
	f.engine.VerifyInterest(tampered, interest, onSuccess, onFailure)
	assert.Equal(t, 1, o.failures)
	assert.Equal(t, 0, f.engine.replay.size())

	assert.Equal(t, 1, f.verifyInterest(raw).successes)
}

func TestReplayGuardExpiry(t *testing.T) {
	now := testNow
	g := newReplayGuard(time.Minute, func() time.Time { return now })
	first := ndn.NewInterest(mustName(t, "/a"))
	first.SetSignatureInfo(&ndn.SignatureInfo{Nonce: []byte{1}})
	second := ndn.NewInterest(mustName(t, "/a"))
	second.SetSignatureInfo(&ndn.SignatureInfo{Nonce: []byte{2}})

	require.NoError(t, g.admit(first))
	assert.ErrorIs(t, g.admit(first), ErrReplay)
	assert.Equal(t, 1, g.size())

	now = now.Add(2 * time.Minute)
	require.NoError(t, g.admit(second))
	assert.Equal(t, 1, g.size())
	assert.NoError(t, g.admit(first))
	assert.Equal(t, 2, g.size())

	assert.NoError(t, g.admit(ndn.NewInterest(mustName(t, "/unsigned"))))
}
