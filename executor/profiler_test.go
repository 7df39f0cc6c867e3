/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package executor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfiler(t *testing.T) {
	dir := t.TempDir()
	config := ProfileConfig{
		MemProfile:   filepath.Join(dir, "mem.pprof"),
		BlockProfile: filepath.Join(dir, "block.pprof"),
	}
	p := NewProfiler(config)
	require.NoError(t, p.Start())
	p.Stop()

	for _, path := range []string{config.MemProfile, config.BlockProfile} {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.NotZero(t, info.Size())
	}
}

func TestProfilerBadPath(t *testing.T) {
	p := NewProfiler(ProfileConfig{CpuProfile: filepath.Join(t.TempDir(), "missing", "cpu.pprof")})
	assert.Error(t, p.Start())
	p.Stop()
}
