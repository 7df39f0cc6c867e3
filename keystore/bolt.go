/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package keystore

import (
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/binary"
	"errors"
	"sync"

	"github.com/named-data/ndn-verifier/core"
	"github.com/named-data/ndn-verifier/ndn"
	"github.com/named-data/ndn-verifier/ndn/security"
	pkgerrors "github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

var (
	eccBucket  = []byte("ecc")
	hmacBucket = []byte("hmac")
)

// ErrBoltNoBucket is returned when the database lacks one of the key buckets.
var ErrBoltNoBucket = errors.New("no bucket in bolt")

// BoltStore is a key store persisted with bbolt.
//
//	The key is the 4-byte big endian key identifier
//	ECDSA values are PKIX DER public keys, HMAC values are the raw shared key
type BoltStore struct {
	db   *bolt.DB
	wmut sync.Mutex
}

// NewBoltStore opens or creates the key database at path.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "unable to open key store %s", path)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{eccBucket, hmacBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, pkgerrors.Wrap(err, "unable to create key buckets")
	}

	return &BoltStore{db: db}, nil
}

// Close closes the database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

func encodeKeyID(id uint32) []byte {
	key := make([]byte, 4)
	binary.BigEndian.PutUint32(key, id)
	return key
}

func (s *BoltStore) get(bucketName []byte, id uint32) (value []byte) {
	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketName)
		if bucket == nil {
			return ErrBoltNoBucket
		}
		if stored := bucket.Get(encodeKeyID(id)); stored != nil {
			value = append([]byte(nil), stored...) // copy
		}
		return nil
	})
	if err != nil {
		core.LogWarn("BoltStore", "Unable to read key ", id, ": ", err)
		return nil
	}
	return value
}

func (s *BoltStore) put(bucketName []byte, id uint32, value []byte) error {
	s.wmut.Lock()
	defer s.wmut.Unlock()

	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketName)
		if bucket == nil {
			return ErrBoltNoBucket
		}
		return bucket.Put(encodeKeyID(id), value)
	})
}

// EccPublicKey returns the ECDSA public key with the specified identifier.
func (s *BoltStore) EccPublicKey(id uint32) (*ecdsa.PublicKey, bool) {
	der := s.get(eccBucket, id)
	if der == nil {
		return nil, false
	}
	key, err := security.ParsePublicKey(der)
	if err != nil {
		core.LogWarn("BoltStore", "Stored key ", id, " is unusable: ", err)
		return nil, false
	}
	return key, true
}

// HmacKey returns the HMAC shared key with the specified identifier.
func (s *BoltStore) HmacKey(id uint32) ([]byte, bool) {
	key := s.get(hmacBucket, id)
	return key, key != nil
}

// AddEccPublicKey stores an ECDSA public key under the identifier of name.
func (s *BoltStore) AddEccPublicKey(name ndn.Name, key *ecdsa.PublicKey) error {
	if key == nil {
		return ErrInvalidKey
	}
	der, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		return pkgerrors.Wrap(ErrInvalidKey, err.Error())
	}
	return s.put(eccBucket, KeyIDFromName(name), der)
}

// AddHmacKey stores an HMAC shared key under the identifier of name.
func (s *BoltStore) AddHmacKey(name ndn.Name, key []byte) error {
	if len(key) == 0 {
		return ErrInvalidKey
	}
	return s.put(hmacBucket, KeyIDFromName(name), key)
}
