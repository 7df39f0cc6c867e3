/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package tlv_test

import (
	"testing"

	"github.com/named-data/ndn-verifier/ndn/tlv"
	"github.com/stretchr/testify/assert"
)

func TestEncoderWriteBlock(t *testing.T) {
	e := tlv.NewEncoder(make([]byte, 32))
	assert.NoError(t, e.WriteBlock(0x28, []byte{0x01, 0x02, 0x03, 0x04}))
	assert.Equal(t, []byte{0x28, 0x04, 0x01, 0x02, 0x03, 0x04}, e.Bytes())
	assert.NoError(t, e.WriteNNIBlock(tlv.InterestLifetime, 4000))
	assert.Equal(t, []byte{0x28, 0x04, 0x01, 0x02, 0x03, 0x04, 0x0C, 0x02, 0x0F, 0xA0}, e.Bytes())

	e.Reset()
	assert.Equal(t, 0, e.Offset())
	assert.Equal(t, 32, e.Remaining())
}

func TestEncoderOverflow(t *testing.T) {
	e := tlv.NewEncoder(make([]byte, 4))
	assert.ErrorIs(t, e.WriteBlock(0x15, []byte{0x01, 0x02, 0x03}), tlv.ErrBufferOverflow)
	assert.Equal(t, 0, e.Offset())

	assert.NoError(t, e.WriteVarint(0xFC))
	assert.ErrorIs(t, e.WriteVarint(0x10000), tlv.ErrBufferOverflow)
	assert.Equal(t, 1, e.Offset())
	assert.NoError(t, e.WriteVarint(0xFFFF))
	assert.Equal(t, 4, e.Offset())
	assert.ErrorIs(t, e.WriteBytes([]byte{0x00}), tlv.ErrBufferOverflow)
}

func TestNNI(t *testing.T) {
	assert.Equal(t, []byte{0x05}, tlv.EncodeNNI(5))
	assert.Equal(t, []byte{0x01, 0x00}, tlv.EncodeNNI(256))
	assert.Equal(t, []byte{0x00, 0x01, 0x00, 0x00}, tlv.EncodeNNI(65536))
	assert.Equal(t, 8, len(tlv.EncodeNNI(1<<40)))

	v, err := tlv.DecodeNNI([]byte{0x00, 0x01, 0x00, 0x00})
	assert.NoError(t, err)
	assert.Equal(t, uint64(65536), v)
	_, err = tlv.DecodeNNI([]byte{})
	assert.Error(t, err)
	_, err = tlv.DecodeNNI([]byte{0x01, 0x02, 0x03})
	assert.ErrorIs(t, err, tlv.ErrNNISize)
}

func TestIsCritical(t *testing.T) {
	assert.True(t, tlv.IsCritical(tlv.Name))
	assert.True(t, tlv.IsCritical(31))
	assert.False(t, tlv.IsCritical(32))
	assert.True(t, tlv.IsCritical(33))
	assert.False(t, tlv.IsCritical(0xFC))
}
