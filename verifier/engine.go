/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

// Package verifier decides whether the signature of an Interest or Data packet is valid, fetching the
// certificate of the signer through a forwarder when its key is not already known.
package verifier

import (
	"crypto/ecdsa"
	"errors"
	"sync"
	"time"

	"github.com/named-data/ndn-verifier/core"
	"github.com/named-data/ndn-verifier/face"
	"github.com/named-data/ndn-verifier/keystore"
	"github.com/named-data/ndn-verifier/ndn"
	"github.com/named-data/ndn-verifier/ndn/security"
	pkgerrors "github.com/pkg/errors"
	"github.com/Link512/stealthpool"
)

// Forwarder expresses Interests. Exactly one of onData and onTimeout must later be invoked, once, with ctx,
// unless an error is returned.
type Forwarder interface {
	ExpressInterest(wire []byte, onData face.OnData, onTimeout face.OnTimeout, ctx interface{}) error
}

// EngineOptions tunes an Engine. Zero fields take their default.
type EngineOptions struct {
	// CertLifetime is the lifetime of certificate Interests.
	CertLifetime time.Duration
	// MaxChainDepth is how many certificates may be fetched to decide one packet.
	MaxChainDepth int
	// ScratchBlocks bounds the number of certificate fetches in flight.
	ScratchBlocks int
	// ScratchBlockSize bounds the size of an encoded certificate Interest.
	ScratchBlockSize int
	// ReplayWindow enables replay checks on signed Interests when positive. SignatureTime must be within the
	// window of Now, and a SignatureNonce may not repeat within it.
	ReplayWindow time.Duration

	Primitives security.Primitives
	Now        func() time.Time
}

// Option defaults.
const (
	DefaultCertLifetime     = 4 * time.Second
	DefaultMaxChainDepth    = 1
	DefaultScratchBlocks    = 64
	DefaultScratchBlockSize = 4096
)

// OptionsFromConfig reads the options from the verifier table of the configuration.
func OptionsFromConfig() EngineOptions {
	return EngineOptions{
		CertLifetime:     time.Duration(core.GetConfigIntDefault("verifier.cert_lifetime_ms", int(DefaultCertLifetime/time.Millisecond))) * time.Millisecond,
		MaxChainDepth:    core.GetConfigIntDefault("verifier.max_chain_depth", DefaultMaxChainDepth),
		ScratchBlocks:    core.GetConfigIntDefault("verifier.scratch_blocks", DefaultScratchBlocks),
		ScratchBlockSize: core.GetConfigIntDefault("verifier.scratch_block_size", DefaultScratchBlockSize),
		ReplayWindow:     time.Duration(core.GetConfigIntDefault("verifier.replay_window_ms", 0)) * time.Millisecond,
	}
}

// Engine verifies packet signatures against a key store, fetching missing ECDSA certificates through a forwarder.
// It is safe for concurrent use.
type Engine struct {
	fw           Forwarder
	keys         keystore.Store
	prims        security.Primitives
	now          func() time.Time
	certLifetime time.Duration
	maxDepth     int
	replay       *replayGuard

	mutex    sync.Mutex
	pool     *stealthpool.Pool
	inFlight int
	closed   bool
}

// NewEngine creates a verification engine.
func NewEngine(fw Forwarder, keys keystore.Store, options EngineOptions) (*Engine, error) {
	if fw == nil || keys == nil {
		return nil, errors.New("verifier requires a forwarder and a key store")
	}

	e := &Engine{
		fw:           fw,
		keys:         keys,
		prims:        options.Primitives,
		now:          options.Now,
		certLifetime: options.CertLifetime,
		maxDepth:     options.MaxChainDepth,
	}
	if e.prims == nil {
		e.prims = security.StdPrimitives{}
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.certLifetime <= 0 {
		e.certLifetime = DefaultCertLifetime
	}
	if e.maxDepth < 1 {
		e.maxDepth = DefaultMaxChainDepth
	}
	if options.ReplayWindow > 0 {
		e.replay = newReplayGuard(options.ReplayWindow, e.now)
	}
	blocks := options.ScratchBlocks
	if blocks <= 0 {
		blocks = DefaultScratchBlocks
	}
	blockSize := options.ScratchBlockSize
	if blockSize <= 0 {
		blockSize = DefaultScratchBlockSize
	}

	pool, err := stealthpool.New(blocks, stealthpool.WithBlockSize(blockSize))
	if err != nil {
		return nil, pkgerrors.Wrap(err, "unable to allocate scratch blocks")
	}
	e.pool = pool
	return e, nil
}

func (e *Engine) String() string {
	return "Verifier"
}

// Close releases the scratch blocks once every fetch in flight has completed.
func (e *Engine) Close() {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	if e.inFlight == 0 {
		e.closePool()
	}
}

// InFlight returns the number of certificate fetches awaiting Data or timeout.
func (e *Engine) InFlight() int {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.inFlight
}

// VerifyInterest verifies the signature of an Interest decoded from raw. Exactly one of onSuccess and onFailure
// is invoked, once, either before VerifyInterest returns or later from a forwarder callback. An unsigned Interest
// succeeds. With a replay window, a signed Interest that verifies but is stale or replayed fails. raw must not be
// modified until a callback has been invoked.
func (e *Engine) VerifyInterest(raw []byte, interest *ndn.Interest, onSuccess InterestCallback, onFailure InterestCallback) {
	if interest == nil {
		core.LogInfo(e, "Verification of nil Interest - FAIL")
		onFailure(nil)
		return
	}
	if !interest.IsSigned() {
		core.LogTrace(e, interest, " is unsigned - PASS")
		onSuccess(interest)
		return
	}
	if e.replay != nil {
		accept := onSuccess
		onSuccess = func(interest *ndn.Interest) {
			if err := e.replay.admit(interest); err != nil {
				core.LogInfo(e, interest, " rejected: ", err)
				onFailure(interest)
				return
			}
			accept(interest)
		}
	}
	e.verify(&interestRequest{raw: raw, interest: interest, onSuccess: onSuccess, onFailure: onFailure}, 0, nil)
}

// VerifyData verifies the signature of a Data packet decoded from raw. Exactly one of onSuccess and onFailure is
// invoked, once, either before VerifyData returns or later from a forwarder callback. raw must not be modified
// until a callback has been invoked.
func (e *Engine) VerifyData(raw []byte, data *ndn.Data, onSuccess DataCallback, onFailure DataCallback) {
	if data == nil {
		core.LogInfo(e, "Verification of nil Data - FAIL")
		onFailure(nil)
		return
	}
	e.verify(&dataRequest{raw: raw, data: data, onSuccess: onSuccess, onFailure: onFailure}, 0, nil)
}

// verify decides s. depth is the number of certificates fetched to reach s, and chain holds their names.
func (e *Engine) verify(s subject, depth int, chain []ndn.Name) {
	info := s.signatureInfo()
	if info == nil {
		e.finish(s, ErrFormat)
		return
	}
	if !info.Type.IsSupported() {
		e.finish(s, pkgerrors.Wrapf(ErrUnsupportedType, "type %s", info.Type))
		return
	}
	portion, ok := s.signedPortion()
	if !ok {
		e.finish(s, pkgerrors.Wrap(ErrFormat, "signed region outside of packet"))
		return
	}
	sig := s.signatureValue()

	if info.Type == security.DigestSha256Type {
		e.check(s, e.prims.VerifyDigest(portion, sig))
		return
	}

	if !info.HasKeyLocator() {
		e.finish(s, ErrNoKeyLocator)
		return
	}
	id := keystore.KeyIDFromName(info.KeyLocator)

	switch info.Type {
	case security.SignatureHmacWithSha256Type:
		key, ok := e.keys.HmacKey(id)
		if !ok {
			e.finish(s, pkgerrors.Wrapf(ErrKeyMissing, "HMAC key %s", info.KeyLocator))
			return
		}
		e.check(s, e.prims.VerifyHmac(portion, sig, key))
	case security.SignatureSha256WithEcdsaType:
		if key, ok := e.keys.EccPublicKey(id); ok {
			e.check(s, e.prims.VerifyEcdsa(portion, sig, key))
			return
		}
		core.LogDebug(e, "Key ", info.KeyLocator, " for ", s, " not found - FETCH")
		e.fetch(info.KeyLocator, depth+1, chain, func(key *ecdsa.PublicKey, err error) {
			if err != nil {
				e.finish(s, err)
				return
			}
			e.check(s, e.prims.VerifyEcdsa(portion, sig, key))
		})
	}
}

func (e *Engine) check(s subject, ok bool) {
	if ok {
		e.finish(s, nil)
	} else {
		e.finish(s, ErrBadSignature)
	}
}

// finish completes s and logs the outcome.
func (e *Engine) finish(s subject, err error) {
	if !s.complete(err) {
		core.LogWarn(e, s, " was already decided")
		return
	}
	if err != nil {
		core.LogInfo(e, s, " verification failed: ", err)
	} else {
		core.LogDebug(e, s, " verified")
	}
}
