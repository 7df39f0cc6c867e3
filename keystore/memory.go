/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package keystore

import (
	"crypto/ecdsa"

	"github.com/cornelk/hashmap"
	"github.com/named-data/ndn-verifier/ndn"
)

// MemoryStore is a lock-free in-memory key store.
type MemoryStore struct {
	eccKeys  hashmap.HashMap
	hmacKeys hashmap.HashMap
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return new(MemoryStore)
}

// EccPublicKey returns the ECDSA public key with the specified identifier.
func (s *MemoryStore) EccPublicKey(id uint32) (*ecdsa.PublicKey, bool) {
	value, ok := s.eccKeys.GetUintKey(uintptr(id))
	if !ok {
		return nil, false
	}
	return value.(*ecdsa.PublicKey), true
}

// HmacKey returns the HMAC shared key with the specified identifier.
func (s *MemoryStore) HmacKey(id uint32) ([]byte, bool) {
	value, ok := s.hmacKeys.GetUintKey(uintptr(id))
	if !ok {
		return nil, false
	}
	return value.([]byte), true
}

// AddEccPublicKey stores an ECDSA public key under the identifier of name, replacing any previous key.
func (s *MemoryStore) AddEccPublicKey(name ndn.Name, key *ecdsa.PublicKey) error {
	if key == nil {
		return ErrInvalidKey
	}
	s.eccKeys.Set(uintptr(KeyIDFromName(name)), key)
	return nil
}

// AddHmacKey stores an HMAC shared key under the identifier of name, replacing any previous key.
func (s *MemoryStore) AddHmacKey(name ndn.Name, key []byte) error {
	if len(key) == 0 {
		return ErrInvalidKey
	}
	stored := make([]byte, len(key))
	copy(stored, key)
	s.hmacKeys.Set(uintptr(KeyIDFromName(name)), stored)
	return nil
}

// Len returns the number of stored keys.
func (s *MemoryStore) Len() int {
	return s.eccKeys.Len() + s.hmacKeys.Len()
}

// Close does nothing.
func (s *MemoryStore) Close() error {
	return nil
}
