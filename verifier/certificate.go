/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package verifier

import (
	"crypto/ecdsa"
	"errors"

	"github.com/named-data/ndn-verifier/core"
	"github.com/named-data/ndn-verifier/ndn"
	"github.com/named-data/ndn-verifier/ndn/security"
	"github.com/named-data/ndn-verifier/ndn/tlv"
	pkgerrors "github.com/pkg/errors"
)

// fetchContext is the state of one certificate fetch. It owns its scratch block until a forwarder callback fires.
type fetchContext struct {
	locator ndn.Name
	depth   int
	chain   []ndn.Name // names of the certificates fetched so far
	block   []byte
	done    func(key *ecdsa.PublicKey, err error)
}

// fetch obtains the ECDSA key named by locator by fetching and validating its certificate.
func (e *Engine) fetch(locator ndn.Name, depth int, chain []ndn.Name, done func(*ecdsa.PublicKey, error)) {
	if depth > e.maxDepth {
		done(nil, pkgerrors.Wrapf(ErrKeyMissing, "%s beyond certificate chain depth %d", locator, e.maxDepth))
		return
	}
	for _, fetched := range chain {
		if locator.PrefixOf(fetched) {
			done(nil, pkgerrors.Wrapf(ErrCertInvalid, "certificate loop at %s", locator))
			return
		}
	}

	block, err := e.acquire()
	if err != nil {
		done(nil, err)
		return
	}

	interest := ndn.NewInterest(locator)
	interest.SetCanBePrefix(true)
	interest.SetMustBeFresh(true)
	interest.SetLifetime(e.certLifetime)
	enc := tlv.NewEncoder(block)
	if err := interest.EncodeInto(enc); err != nil {
		e.release(block)
		done(nil, pkgerrors.Wrapf(ErrFormat, "unable to encode Interest for %s: %v", locator, err))
		return
	}

	ctx := &fetchContext{
		locator: locator,
		depth:   depth,
		chain:   chain,
		block:   block,
		done:    done,
	}
	if err := e.fw.ExpressInterest(enc.Bytes(), e.onCertificate, e.onCertificateTimeout, ctx); err != nil {
		e.release(block)
		done(nil, pkgerrors.Wrap(ErrExpressFailed, err.Error()))
		return
	}
	core.LogTrace(e, "Fetching certificate ", locator)
}

func (e *Engine) onCertificate(raw []byte, ctx interface{}) {
	fc := ctx.(*fetchContext)
	e.release(fc.block)

	cert, err := ndn.DecodeData(raw)
	if err != nil {
		fc.done(nil, pkgerrors.Wrapf(ErrCertInvalid, "unable to decode: %v", err))
		return
	}
	if !fc.locator.PrefixOf(cert.Name()) {
		fc.done(nil, pkgerrors.Wrapf(ErrCertInvalid, "%s does not match %s", cert.Name(), fc.locator))
		return
	}
	info := cert.SignatureInfo()
	if !info.Type.RequiresKey() {
		fc.done(nil, pkgerrors.Wrapf(ErrCertInvalid, "%s is signed without an issuer", cert.Name()))
		return
	}
	if !info.ValidAt(e.now()) {
		fc.done(nil, pkgerrors.Wrapf(ErrCertInvalid, "%s is outside its validity period", cert.Name()))
		return
	}
	key, err := security.ParsePublicKey(cert.Content())
	if err != nil {
		fc.done(nil, pkgerrors.Wrapf(ErrCertInvalid, "%s: %v", cert.Name(), err))
		return
	}

	// The issuer signature is verified like any other packet, possibly fetching the issuer certificate.
	e.verify(&certRequest{raw: raw, cert: cert, key: key, done: func(key *ecdsa.PublicKey, err error) {
		if err != nil && !errors.Is(err, ErrCertInvalid) {
			err = pkgerrors.Wrapf(ErrCertInvalid, "%s: %v", cert.Name(), err)
		}
		fc.done(key, err)
	}}, fc.depth, append(append([]ndn.Name(nil), fc.chain...), cert.Name()))
}

func (e *Engine) onCertificateTimeout(ctx interface{}) {
	fc := ctx.(*fetchContext)
	e.release(fc.block)
	fc.done(nil, pkgerrors.Wrapf(ErrFetchTimeout, "%s", fc.locator))
}

// acquire takes a scratch block for a fetch.
func (e *Engine) acquire() ([]byte, error) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	if e.closed {
		return nil, pkgerrors.Wrap(ErrScratchExhausted, "engine is closed")
	}
	block, err := e.pool.Get()
	if err != nil {
		return nil, pkgerrors.Wrap(ErrScratchExhausted, err.Error())
	}
	e.inFlight++
	return block, nil
}

// release returns a scratch block, freeing the pool if the engine was closed meanwhile.
func (e *Engine) release(block []byte) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	if err := e.pool.Return(block); err != nil {
		core.LogWarn(e, "Unable to return scratch block: ", err)
	}
	e.inFlight--
	if e.closed && e.inFlight == 0 {
		e.closePool()
	}
}

func (e *Engine) closePool() {
	if err := e.pool.Close(); err != nil {
		core.LogWarn(e, "Unable to free scratch blocks: ", err)
	}
}
