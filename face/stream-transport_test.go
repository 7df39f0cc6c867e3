/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"bytes"
	"io"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
)

func collectFrames(r io.Reader) ([][]byte, error) {
	var frames [][]byte
	err := readStreamTransport(r, func(frame []byte) {
		frames = append(frames, append([]byte(nil), frame...))
	})
	return frames, err
}

func TestReadStreamTransport(t *testing.T) {
	first := []byte{0x05, 0x03, 0x07, 0x01, 0x61}
	second := []byte{0x06, 0x02, 0x07, 0x00}
	stream := append(append([]byte(nil), first...), second...)

	frames, err := collectFrames(bytes.NewReader(stream))
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, [][]byte{first, second}, frames)

	// Split across many reads
	frames, err = collectFrames(iotest.OneByteReader(bytes.NewReader(stream)))
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, [][]byte{first, second}, frames)

	// Trailing partial frame is not delivered
	frames, err = collectFrames(bytes.NewReader(append(first, 0x06, 0x05, 0x07)))
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, [][]byte{first}, frames)
}

func TestReadStreamTransportDesync(t *testing.T) {
	// 9000-octet value cannot be a packet
	frames, err := collectFrames(bytes.NewReader([]byte{0x06, 0xFD, 0x23, 0x28, 0x00}))
	assert.ErrorIs(t, err, ErrStreamDesync)
	assert.Empty(t, frames)

	// 8-octet varint marker
	frames, err = collectFrames(bytes.NewReader([]byte{0xFF, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01}))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, io.EOF)
	assert.Empty(t, frames)
}
