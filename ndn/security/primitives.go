/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package security

import "crypto/ecdsa"

// Signer represents an implementation of a signature type.
type Signer interface {
	Type() SignatureType
	Sign(buf []byte) ([]byte, error)
}

// Primitives are the pure verification functions a packet verifier relies on.
type Primitives interface {
	VerifyDigest(buf []byte, signature []byte) bool
	VerifyEcdsa(buf []byte, signature []byte, key *ecdsa.PublicKey) bool
	VerifyHmac(buf []byte, signature []byte, key []byte) bool
}

// StdPrimitives implements Primitives with the Go standard crypto packages.
type StdPrimitives struct{}

// VerifyDigest calls VerifyDigestSha256.
func (StdPrimitives) VerifyDigest(buf []byte, signature []byte) bool {
	return VerifyDigestSha256(buf, signature)
}

// VerifyEcdsa calls VerifyEcdsa.
func (StdPrimitives) VerifyEcdsa(buf []byte, signature []byte, key *ecdsa.PublicKey) bool {
	return VerifyEcdsa(buf, signature, key)
}

// VerifyHmac calls VerifyHmac.
func (StdPrimitives) VerifyHmac(buf []byte, signature []byte, key []byte) bool {
	return VerifyHmac(buf, signature, key)
}
