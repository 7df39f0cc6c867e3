/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package verifier

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/named-data/ndn-verifier/face"
	"github.com/named-data/ndn-verifier/keystore"
	"github.com/named-data/ndn-verifier/ndn"
	"github.com/named-data/ndn-verifier/ndn/security"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2022, 4, 1, 12, 0, 0, 0, time.UTC)

// expressed is an Interest handed to the fake forwarder.
type expressed struct {
	wire      []byte
	interest  *ndn.Interest
	onData    face.OnData
	onTimeout face.OnTimeout
	ctx       interface{}
}

func (x *expressed) satisfy(raw []byte) {
	x.onData(raw, x.ctx)
}

func (x *expressed) expire() {
	x.onTimeout(x.ctx)
}

type fakeForwarder struct {
	mutex sync.Mutex
	sent  []*expressed
	err   error
}

func (f *fakeForwarder) ExpressInterest(wire []byte, onData face.OnData, onTimeout face.OnTimeout, ctx interface{}) error {
	if f.err != nil {
		return f.err
	}
	wire = append([]byte(nil), wire...)
	interest, err := ndn.DecodeInterest(wire)
	if err != nil {
		return err
	}
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.sent = append(f.sent, &expressed{wire: wire, interest: interest, onData: onData, onTimeout: onTimeout, ctx: ctx})
	return nil
}

func (f *fakeForwarder) count() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return len(f.sent)
}

func (f *fakeForwarder) last() *expressed {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.sent[len(f.sent)-1]
}

// countingStore counts key lookups.
type countingStore struct {
	*keystore.MemoryStore
	lookups int
}

func (s *countingStore) EccPublicKey(id uint32) (*ecdsa.PublicKey, bool) {
	s.lookups++
	return s.MemoryStore.EccPublicKey(id)
}

func (s *countingStore) HmacKey(id uint32) ([]byte, bool) {
	s.lookups++
	return s.MemoryStore.HmacKey(id)
}

// countingPrimitives counts calls into the crypto primitives.
type countingPrimitives struct {
	security.StdPrimitives
	calls int
}

func (p *countingPrimitives) VerifyDigest(buf []byte, signature []byte) bool {
	p.calls++
	return p.StdPrimitives.VerifyDigest(buf, signature)
}

func (p *countingPrimitives) VerifyEcdsa(buf []byte, signature []byte, key *ecdsa.PublicKey) bool {
	p.calls++
	return p.StdPrimitives.VerifyEcdsa(buf, signature, key)
}

func (p *countingPrimitives) VerifyHmac(buf []byte, signature []byte, key []byte) bool {
	p.calls++
	return p.StdPrimitives.VerifyHmac(buf, signature, key)
}

// rawSigner produces a fixed signature under an arbitrary type.
type rawSigner security.SignatureType

func (s rawSigner) Type() security.SignatureType {
	return security.SignatureType(s)
}

func (rawSigner) Sign([]byte) ([]byte, error) {
	return make([]byte, 32), nil
}

// outcome records the continuations invoked for one verification.
type outcome struct {
	successes int
	failures  int
}

func (o *outcome) decided() int {
	return o.successes + o.failures
}

func (o *outcome) data() (DataCallback, DataCallback) {
	return func(*ndn.Data) { o.successes++ }, func(*ndn.Data) { o.failures++ }
}

func (o *outcome) interest() (InterestCallback, InterestCallback) {
	return func(*ndn.Interest) { o.successes++ }, func(*ndn.Interest) { o.failures++ }
}

type fixture struct {
	t      *testing.T
	fw     *fakeForwarder
	keys   *countingStore
	prims  *countingPrimitives
	engine *Engine
}

func newFixture(t *testing.T, options EngineOptions) *fixture {
	f := &fixture{
		t:     t,
		fw:    new(fakeForwarder),
		keys:  &countingStore{MemoryStore: keystore.NewMemoryStore()},
		prims: new(countingPrimitives),
	}
	options.Primitives = f.prims
	if options.Now == nil {
		options.Now = func() time.Time { return testNow }
	}
	engine, err := NewEngine(f.fw, f.keys, options)
	require.NoError(t, err)
	f.engine = engine
	t.Cleanup(engine.Close)
	return f
}

func (f *fixture) verifyData(raw []byte) *outcome {
	data, err := ndn.DecodeData(raw)
	require.NoError(f.t, err)
	o := new(outcome)
	onSuccess, onFailure := o.data()
	f.engine.VerifyData(raw, data, onSuccess, onFailure)
	return o
}

func (f *fixture) verifyInterest(raw []byte) *outcome {
	interest, err := ndn.DecodeInterest(raw)
	require.NoError(f.t, err)
	o := new(outcome)
	onSuccess, onFailure := o.interest()
	f.engine.VerifyInterest(raw, interest, onSuccess, onFailure)
	return o
}

func (f *fixture) trust(name string, key *ecdsa.PrivateKey) {
	require.NoError(f.t, f.keys.AddEccPublicKey(mustName(f.t, name), &key.PublicKey))
}

func mustName(t *testing.T, s string) ndn.Name {
	name, err := ndn.NameFromString(s)
	require.NoError(t, err)
	return name
}

func newKey(t *testing.T) *ecdsa.PrivateKey {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	return key
}

// makeData encodes a Data packet signed by signer, with a KeyLocator when locator is not empty.
func makeData(t *testing.T, name string, locator string, signer security.Signer) []byte {
	data := ndn.NewData(mustName(t, name), []byte("payload"))
	if locator != "" {
		data.SetSignatureInfo(&ndn.SignatureInfo{KeyLocator: mustName(t, locator)})
	}
	raw, err := data.Encode(signer)
	require.NoError(t, err)
	return raw
}

// makeSignedInterest encodes an Interest signed by signer, with a KeyLocator when locator is not empty.
func makeSignedInterest(t *testing.T, name string, locator string, signer security.Signer) []byte {
	interest := ndn.NewInterest(mustName(t, name))
	interest.SetApplicationParameters([]byte("params"))
	info := &ndn.SignatureInfo{}
	if locator != "" {
		info.KeyLocator = mustName(t, locator)
	}
	interest.SetSignatureInfo(info)
	raw, err := interest.EncodeSigned(signer)
	require.NoError(t, err)
	return raw
}

// certOptions describe a certificate built by makeCert.
type certOptions struct {
	name      string
	key       *ecdsa.PublicKey
	issuer    string
	signer    security.Signer
	notBefore time.Time
	notAfter  time.Time
	content   []byte
}

func makeCert(t *testing.T, c certOptions) []byte {
	content := c.content
	if content == nil {
		var err error
		content, err = x509.MarshalPKIXPublicKey(c.key)
		require.NoError(t, err)
	}
	if c.notBefore.IsZero() {
		c.notBefore = testNow.Add(-24 * time.Hour)
	}
	if c.notAfter.IsZero() {
		c.notAfter = testNow.Add(24 * time.Hour)
	}

	cert := ndn.NewData(mustName(t, c.name), content)
	cert.MetaInfo().SetContentType(ndn.ContentTypeKey)
	cert.MetaInfo().SetFreshnessPeriod(time.Hour)
	info := &ndn.SignatureInfo{NotBefore: &c.notBefore, NotAfter: &c.notAfter}
	if c.issuer != "" {
		info.KeyLocator = mustName(t, c.issuer)
	}
	cert.SetSignatureInfo(info)
	raw, err := cert.Encode(c.signer)
	require.NoError(t, err)
	return raw
}

var errRefused = errors.New("refused")
