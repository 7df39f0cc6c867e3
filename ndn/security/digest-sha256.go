/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package security

import (
	"crypto/sha256"
	"crypto/subtle"
)

// DigestSha256 represents a signer that performs a SHA-256 digest over the packet.
type DigestSha256 struct{}

// Type returns DigestSha256Type.
func (DigestSha256) Type() SignatureType {
	return DigestSha256Type
}

// Sign signs a buffer using DigestSha256.
func (DigestSha256) Sign(buf []byte) ([]byte, error) {
	sum := sha256.Sum256(buf)
	return sum[:], nil
}

// VerifyDigestSha256 returns whether signature is the SHA-256 digest of buf.
func VerifyDigestSha256(buf []byte, signature []byte) bool {
	sum := sha256.Sum256(buf)
	return subtle.ConstantTimeCompare(sum[:], signature) == 1
}
