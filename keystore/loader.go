/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package keystore

import (
	"crypto/ecdsa"
	"encoding/hex"
	"encoding/pem"
	"os"

	"github.com/named-data/ndn-verifier/core"
	"github.com/named-data/ndn-verifier/ndn"
	"github.com/named-data/ndn-verifier/ndn/security"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// Open creates the key store described by the loaded configuration and populates it with the statically
// configured keys. A BoltStore is used when keystore.path is set, otherwise a MemoryStore.
func Open() (WritableStore, error) {
	var store WritableStore
	if path := core.GetConfigStringDefault("keystore.path", ""); path != "" {
		boltStore, err := NewBoltStore(path)
		if err != nil {
			return nil, err
		}
		store = boltStore
	} else {
		store = NewMemoryStore()
	}

	if err := LoadStatic(store, core.GetConfig()); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

// LoadStatic adds the keys listed in the [[keystore.ecdsa]] and [[keystore.hmac]] tables of tree to store.
//
//	[[keystore.ecdsa]]
//	name = "/ndn/alice/KEY/%01"
//	file = "alice.pem"  # PEM "PUBLIC KEY", or
//	key = "04ab..."     # hex raw P-256 point
//
//	[[keystore.hmac]]
//	name = "/ndn/bob/KEY/%02"
//	key = "00112233"    # hex
func LoadStatic(store Writer, tree *toml.Tree) error {
	if tree == nil {
		return nil
	}

	for _, entry := range tables(tree, "keystore.ecdsa") {
		name, err := entryName(entry)
		if err != nil {
			return err
		}
		key, err := eccKey(entry)
		if err != nil {
			return errors.Wrapf(err, "ECDSA key %s", name)
		}
		if err := store.AddEccPublicKey(name, key); err != nil {
			return errors.Wrapf(err, "ECDSA key %s", name)
		}
		core.LogDebug("KeyStore", "Loaded ECDSA key ", name, " as id=", KeyIDFromName(name))
	}

	for _, entry := range tables(tree, "keystore.hmac") {
		name, err := entryName(entry)
		if err != nil {
			return err
		}
		keyHex, _ := entry.Get("key").(string)
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) == 0 {
			return errors.Wrapf(ErrInvalidKey, "HMAC key %s", name)
		}
		if err := store.AddHmacKey(name, key); err != nil {
			return errors.Wrapf(err, "HMAC key %s", name)
		}
		core.LogDebug("KeyStore", "Loaded HMAC key ", name, " as id=", KeyIDFromName(name))
	}
	return nil
}

func tables(tree *toml.Tree, key string) []*toml.Tree {
	if entries, ok := tree.Get(key).([]*toml.Tree); ok {
		return entries
	}
	return nil
}

func entryName(entry *toml.Tree) (ndn.Name, error) {
	nameStr, ok := entry.Get("name").(string)
	if !ok {
		return nil, errors.Wrap(ErrInvalidKey, "key entry has no name")
	}
	name, err := ndn.NameFromString(nameStr)
	if err != nil {
		return nil, errors.Wrapf(err, "key name %q", nameStr)
	}
	return name, nil
}

func eccKey(entry *toml.Tree) (*ecdsa.PublicKey, error) {
	if file, ok := entry.Get("file").(string); ok {
		return ReadPublicKeyFile(file)
	}
	if keyHex, ok := entry.Get("key").(string); ok {
		material, err := hex.DecodeString(keyHex)
		if err != nil {
			return nil, err
		}
		return security.ParsePublicKey(material)
	}
	return nil, errors.Wrap(ErrInvalidKey, "neither file nor key given")
}

// ReadPublicKeyFile reads an ECDSA public key from the PEM "PUBLIC KEY" block of a file.
func ReadPublicKeyFile(file string) (*ecdsa.PublicKey, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	block, _ := pem.Decode(content)
	if block == nil || block.Type != "PUBLIC KEY" {
		return nil, errors.Wrap(ErrInvalidKey, "no PUBLIC KEY block in "+file)
	}
	return security.ParsePublicKey(block.Bytes)
}
