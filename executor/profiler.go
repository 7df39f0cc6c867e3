/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

// Package executor holds process-level helpers shared by the commands.
package executor

import (
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/named-data/ndn-verifier/core"
	"github.com/pkg/errors"
)

// ProfileConfig names the output files of the profiles to collect. Empty names disable a profile.
type ProfileConfig struct {
	CpuProfile   string
	MemProfile   string
	BlockProfile string
}

// Profiler collects pprof profiles for the lifetime of a command.
type Profiler struct {
	config  ProfileConfig
	cpuFile *os.File
	block   *pprof.Profile
}

func NewProfiler(config ProfileConfig) *Profiler {
	return &Profiler{config: config}
}

// Start starts the CPU and block profiles.
func (p *Profiler) Start() error {
	if p.config.CpuProfile != "" {
		cpuFile, err := os.Create(p.config.CpuProfile)
		if err != nil {
			return errors.Wrap(err, "unable to open output file for CPU profile")
		}
		if err := pprof.StartCPUProfile(cpuFile); err != nil {
			cpuFile.Close()
			return errors.Wrap(err, "unable to start CPU profile")
		}
		p.cpuFile = cpuFile
		core.LogInfo("Profiler", "Profiling CPU - outputting to ", p.config.CpuProfile)
	}

	if p.config.BlockProfile != "" {
		core.LogInfo("Profiler", "Profiling blocking operations - outputting to ", p.config.BlockProfile)
		runtime.SetBlockProfileRate(1)
		p.block = pprof.Lookup("block")
	}
	return nil
}

// Stop writes the collected profiles. The heap profile is taken at this point.
func (p *Profiler) Stop() {
	if p.config.MemProfile != "" {
		if err := writeProfile(p.config.MemProfile, func(f *os.File) error {
			runtime.GC()
			return pprof.WriteHeapProfile(f)
		}); err != nil {
			core.LogError("Profiler", "Unable to write memory profile: ", err)
		}
	}

	if p.block != nil {
		if err := writeProfile(p.config.BlockProfile, func(f *os.File) error {
			return p.block.WriteTo(f, 0)
		}); err != nil {
			core.LogError("Profiler", "Unable to write block profile: ", err)
		}
		runtime.SetBlockProfileRate(0)
		p.block = nil
	}

	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		p.cpuFile.Close()
		p.cpuFile = nil
	}
}

func writeProfile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return write(f)
}
