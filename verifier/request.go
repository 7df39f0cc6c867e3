/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package verifier

import (
	"crypto/ecdsa"
	"sync/atomic"

	"github.com/named-data/ndn-verifier/ndn"
)

// InterestCallback receives the Interest a verification was requested for.
type InterestCallback func(interest *ndn.Interest)

// DataCallback receives the Data a verification was requested for.
type DataCallback func(data *ndn.Data)

// subject is a signed packet under verification together with what to do once it is decided.
type subject interface {
	String() string
	signedPortion() ([]byte, bool)
	signatureInfo() *ndn.SignatureInfo
	signatureValue() []byte

	// complete decides the subject. Only the first call has an effect.
	complete(err error) bool
}

// once guards the completion of a subject.
type once struct {
	done atomic.Bool
}

func (o *once) first() bool {
	return o.done.CompareAndSwap(false, true)
}

// interestRequest verifies an Interest for the caller.
type interestRequest struct {
	once
	raw       []byte
	interest  *ndn.Interest
	onSuccess InterestCallback
	onFailure InterestCallback
}

func (r *interestRequest) String() string {
	return r.interest.String()
}

func (r *interestRequest) signedPortion() ([]byte, bool) {
	return r.interest.SignedRegion().Of(r.raw)
}

func (r *interestRequest) signatureInfo() *ndn.SignatureInfo {
	return r.interest.SignatureInfo()
}

func (r *interestRequest) signatureValue() []byte {
	return r.interest.SignatureValue()
}

func (r *interestRequest) complete(err error) bool {
	if !r.first() {
		return false
	}
	if err == nil {
		r.onSuccess(r.interest)
	} else {
		r.onFailure(r.interest)
	}
	return true
}

// dataRequest verifies a Data packet for the caller.
type dataRequest struct {
	once
	raw       []byte
	data      *ndn.Data
	onSuccess DataCallback
	onFailure DataCallback
}

func (r *dataRequest) String() string {
	return r.data.String()
}

func (r *dataRequest) signedPortion() ([]byte, bool) {
	return r.data.SignedRegion().Of(r.raw)
}

func (r *dataRequest) signatureInfo() *ndn.SignatureInfo {
	return r.data.SignatureInfo()
}

func (r *dataRequest) signatureValue() []byte {
	return r.data.SignatureValue()
}

func (r *dataRequest) complete(err error) bool {
	if !r.first() {
		return false
	}
	if err == nil {
		r.onSuccess(r.data)
	} else {
		r.onFailure(r.data)
	}
	return true
}

// certRequest verifies a fetched certificate. On success, the key bound in its content is handed on.
type certRequest struct {
	once
	raw  []byte
	cert *ndn.Data
	key  *ecdsa.PublicKey
	done func(key *ecdsa.PublicKey, err error)
}

func (r *certRequest) String() string {
	return "Certificate " + r.cert.Name().String()
}

func (r *certRequest) signedPortion() ([]byte, bool) {
	return r.cert.SignedRegion().Of(r.raw)
}

func (r *certRequest) signatureInfo() *ndn.SignatureInfo {
	return r.cert.SignatureInfo()
}

func (r *certRequest) signatureValue() []byte {
	return r.cert.SignatureValue()
}

func (r *certRequest) complete(err error) bool {
	if !r.first() {
		return false
	}
	if err != nil {
		r.done(nil, err)
	} else {
		r.done(r.key, nil)
	}
	return true
}
