/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package security

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"errors"
)

// ErrUnsupportedKey is returned when key material is not a P-256 ECDSA public key.
var ErrUnsupportedKey = errors.New("unsupported public key")

// EcdsaSha256 signs with an ECDSA private key. Signatures are ASN.1 DER over the SHA-256 digest.
type EcdsaSha256 struct {
	Key *ecdsa.PrivateKey
}

// Type returns SignatureSha256WithEcdsaType.
func (EcdsaSha256) Type() SignatureType {
	return SignatureSha256WithEcdsaType
}

// Sign signs a buffer.
func (s EcdsaSha256) Sign(buf []byte) ([]byte, error) {
	digest := sha256.Sum256(buf)
	return ecdsa.SignASN1(rand.Reader, s.Key, digest[:])
}

// VerifyEcdsa verifies an ASN.1 DER ECDSA signature over the SHA-256 digest of buf.
func VerifyEcdsa(buf []byte, signature []byte, key *ecdsa.PublicKey) bool {
	if key == nil {
		return false
	}
	digest := sha256.Sum256(buf)
	return ecdsa.VerifyASN1(key, digest[:], signature)
}

// ParsePublicKey parses the public key bound in a certificate's content.
// PKIX DER is accepted, as are raw uncompressed P-256 points with or without the 0x04 prefix.
func ParsePublicKey(content []byte) (*ecdsa.PublicKey, error) {
	switch len(content) {
	case 64:
		content = append([]byte{0x04}, content...)
		fallthrough
	case 65:
		if content[0] == 0x04 {
			x, y := elliptic.Unmarshal(elliptic.P256(), content)
			if x == nil {
				return nil, ErrUnsupportedKey
			}
			return &ecdsa.PublicKey{Curve: elliptic.P256(), X: x, Y: y}, nil
		}
	}

	key, err := x509.ParsePKIXPublicKey(content)
	if err != nil {
		return nil, err
	}
	ecKey, ok := key.(*ecdsa.PublicKey)
	if !ok || ecKey.Curve != elliptic.P256() {
		return nil, ErrUnsupportedKey
	}
	return ecKey, nil
}
