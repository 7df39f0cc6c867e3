/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"testing"

	"github.com/named-data/ndn-verifier/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeURIString(t *testing.T) {
	tests := []struct {
		in     string
		scheme string
		out    string
	}{
		{"null://", "null", "null://"},
		{"unix:///run/nfd.sock", "unix", "unix:///run/nfd.sock"},
		{"udp4://127.0.0.1:6000", "udp4", "udp4://127.0.0.1:6000"},
		{"udp4://127.0.0.1", "udp4", "udp4://127.0.0.1:6363"},
		{"udp6://[::1]:6363", "udp6", "udp6://[::1]:6363"},
		{"ws://localhost:9696/ndn", "ws", "ws://localhost:9696/ndn"},
		{"wss://example.net/", "wss", "wss://example.net/"},
	}
	for _, test := range tests {
		uri, err := DecodeURIString(test.in)
		require.NoError(t, err, test.in)
		assert.Equal(t, test.scheme, uri.Scheme())
		assert.Equal(t, test.out, uri.String())
	}

	uri, err := DecodeURIString("unix:///run/nfd.sock")
	require.NoError(t, err)
	assert.Equal(t, "/run/nfd.sock", uri.Path())

	uri, err = DecodeURIString("udp4://192.0.2.1:7000")
	require.NoError(t, err)
	assert.Equal(t, "192.0.2.1", uri.PathHost())
	assert.Equal(t, uint16(7000), uri.Port())
}

func TestDecodeURIStringErrors(t *testing.T) {
	for _, in := range []string{"tcp4://127.0.0.1:6363", "ether://[00:11:22:33:44:55]", "unix://", "udp4://:6363", "udp4://127.0.0.1:99999", "ws://"} {
		_, err := DecodeURIString(in)
		assert.Error(t, err, in)
	}
	_, err := DecodeURIString("fd://3")
	assert.ErrorIs(t, err, ErrUnsupportedScheme)
}

func TestURICanonize(t *testing.T) {
	uri := MakeUDPFaceURI(4, "127.0.0.1", 6363)
	assert.True(t, uri.IsCanonical())
	assert.NoError(t, uri.Canonize())

	uri, err := DecodeURIString("udp://127.0.0.1:6363")
	require.NoError(t, err)
	assert.False(t, uri.IsCanonical())
	require.NoError(t, uri.Canonize())
	assert.Equal(t, "udp4", uri.Scheme())
	assert.True(t, uri.IsCanonical())

	// Address family mismatch
	uri = MakeUDPFaceURI(6, "127.0.0.1", 6363)
	assert.False(t, uri.IsCanonical())

	assert.True(t, MakeNullFaceURI().IsCanonical())
	assert.True(t, MakeUnixFaceURI("/run/nfd.sock").IsCanonical())
	assert.NoError(t, MakeUnixFaceURI("/run/nfd.sock").Canonize())

	uri = &URI{scheme: "dev"}
	assert.ErrorIs(t, uri.Canonize(), core.ErrNotCanonical)
}
