/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package security

import (
	"crypto/hmac"
	"crypto/sha256"
)

// HmacSha256 signs with a shared key.
type HmacSha256 struct {
	Key []byte
}

// Type returns SignatureHmacWithSha256Type.
func (HmacSha256) Type() SignatureType {
	return SignatureHmacWithSha256Type
}

// Sign signs a buffer.
func (s HmacSha256) Sign(buf []byte) ([]byte, error) {
	mac := hmac.New(sha256.New, s.Key)
	mac.Write(buf)
	return mac.Sum(nil), nil
}

// VerifyHmac verifies an HMAC-SHA256 signature. The comparison is constant-time.
func VerifyHmac(buf []byte, signature []byte, key []byte) bool {
	if len(key) == 0 {
		return false
	}
	mac := hmac.New(sha256.New, key)
	mac.Write(buf)
	return hmac.Equal(mac.Sum(nil), signature)
}
