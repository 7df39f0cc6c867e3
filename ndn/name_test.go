/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package ndn_test

import (
	"testing"

	"github.com/named-data/ndn-verifier/ndn"
	"github.com/named-data/ndn-verifier/ndn/tlv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameFromString(t *testing.T) {
	n, err := ndn.NameFromString("/go/ndn/seg=3/v=7/%00%01")
	require.NoError(t, err)
	assert.Equal(t, 5, len(n))
	assert.Equal(t, tlv.SegmentNameComponent, n[2].Typ)
	assert.Equal(t, []byte{0x03}, n[2].Val)
	assert.Equal(t, tlv.VersionNameComponent, n[3].Typ)
	assert.Equal(t, []byte{0x00, 0x01}, n[4].Val)
	assert.Equal(t, "/go/ndn/seg=3/v=7/%00%01", n.String())

	n, err = ndn.NameFromString("/")
	require.NoError(t, err)
	assert.Equal(t, 0, len(n))
	assert.Equal(t, "/", n.String())

	n, err = ndn.NameFromString("/.../....")
	require.NoError(t, err)
	assert.Equal(t, 0, len(n[0].Val))
	assert.Equal(t, []byte("."), n[1].Val)
	assert.Equal(t, "/.../....", n.String())

	_, err = ndn.NameFromString("/a=b=c")
	assert.Error(t, err)
	_, err = ndn.NameFromString("/%0")
	assert.Error(t, err)
	_, err = ndn.NameFromString("/sha256digest=00")
	assert.Error(t, err)
}

func TestNameEncodeDecode(t *testing.T) {
	n, err := ndn.NameFromString("/go/ndn")
	require.NoError(t, err)
	wire := n.Bytes()
	assert.Equal(t, []byte{0x07, 0x09, 0x08, 0x02, 0x67, 0x6f, 0x08, 0x03, 0x6e, 0x64, 0x6e}, wire)
	assert.Equal(t, len(wire), n.EncodingLength())

	decoded, err := ndn.DecodeName(wire[2:])
	require.NoError(t, err)
	assert.True(t, n.Equals(decoded))

	empty, err := ndn.DecodeName(nil)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Equal(t, 0, len(empty))

	_, err = ndn.DecodeName([]byte{0x08, 0x05, 0x61})
	assert.ErrorIs(t, err, tlv.ErrBufferTooShort)
	_, err = ndn.DecodeName([]byte{0x00, 0x00})
	assert.Error(t, err)
}

func TestNamePrefix(t *testing.T) {
	prefix, _ := ndn.NameFromString("/go")
	full, _ := ndn.NameFromString("/go/ndn")
	other, _ := ndn.NameFromString("/ndn/go")

	assert.True(t, prefix.PrefixOf(full))
	assert.True(t, full.PrefixOf(full))
	assert.False(t, full.PrefixOf(prefix))
	assert.False(t, prefix.PrefixOf(other))
	assert.False(t, prefix.Equals(full))

	appended := prefix.Append(ndn.NewGenericNameComponent([]byte("ndn")))
	assert.True(t, appended.Equals(full))
	assert.Equal(t, 1, len(prefix))

	last, ok := full.At(-1)
	assert.True(t, ok)
	assert.Equal(t, "ndn", last.String())
	_, ok = full.At(2)
	assert.False(t, ok)
	assert.Equal(t, -1, full.Find(tlv.VersionNameComponent))
}
