/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package security_test

import (
	"encoding/hex"
	"testing"

	"github.com/named-data/ndn-verifier/ndn/security"
	"github.com/stretchr/testify/assert"
)

func TestHmacSha256(t *testing.T) {
	// RFC 4231 test case 2
	key := []byte("Jefe")
	buf := []byte("what do ya want for nothing?")
	ref, _ := hex.DecodeString("5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843")

	signer := security.HmacSha256{Key: key}
	sig, err := signer.Sign(buf)
	assert.NoError(t, err)
	assert.Equal(t, ref, sig)

	assert.True(t, security.VerifyHmac(buf, ref, key))
	assert.False(t, security.VerifyHmac(buf, ref, []byte("jefe")))
	assert.False(t, security.VerifyHmac(buf, ref[:31], key))
	assert.False(t, security.VerifyHmac(buf, ref, nil))
}
