/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

// Package keystore holds the ECDSA public keys and HMAC shared keys used to verify packets, indexed by a numeric
// identifier derived from the KeyLocator name.
package keystore

import (
	"crypto/ecdsa"
	"errors"
	"io"

	"github.com/cespare/xxhash"
	"github.com/named-data/ndn-verifier/ndn"
)

// ErrInvalidKey is returned when key material cannot be stored or parsed.
var ErrInvalidKey = errors.New("invalid key material")

// Store provides read-only key lookup.
type Store interface {
	EccPublicKey(id uint32) (*ecdsa.PublicKey, bool)
	HmacKey(id uint32) ([]byte, bool)
}

// Writer accepts keys under the identifier of their name.
type Writer interface {
	AddEccPublicKey(name ndn.Name, key *ecdsa.PublicKey) error
	AddHmacKey(name ndn.Name, key []byte) error
}

// WritableStore is a Store that can be populated and must be closed after use.
type WritableStore interface {
	Store
	Writer
	io.Closer
}

// KeyIDFromName derives the key identifier of a KeyLocator name from the hash of its TLV encoding.
func KeyIDFromName(name ndn.Name) uint32 {
	h := xxhash.Sum64(name.Bytes())
	return uint32(h ^ (h >> 32))
}
