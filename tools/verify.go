/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package tools

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/named-data/ndn-verifier/core"
	"github.com/named-data/ndn-verifier/executor"
	"github.com/named-data/ndn-verifier/face"
	"github.com/named-data/ndn-verifier/keystore"
	"github.com/named-data/ndn-verifier/ndn"
	"github.com/named-data/ndn-verifier/ndn/tlv"
	"github.com/named-data/ndn-verifier/verifier"
	flag "github.com/spf13/pflag"
)

// Exit statuses of the verify command.
const (
	ExitVerified = 0
	ExitRejected = 1
	ExitUsage    = 2
)

// ErrNotPacket is returned for input that is neither an Interest nor a Data packet.
var ErrNotPacket = errors.New("input is not an Interest or Data packet")

type Verify struct {
	args []string

	// command line configuration
	configFile   string
	faceURI      string
	hexPacket    string
	timeout      time.Duration
	printVersion bool
	profile      executor.ProfileConfig
}

// RunVerify verifies the signature of one packet and exits with its verdict.
func RunVerify(args []string) {
	os.Exit((&Verify{args: args}).run())
}

func (v *Verify) usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [options] [file]\n", v.args[0])
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "Verify the signature of an Interest or Data packet read from --hex, a file, or stdin.\n")
	fmt.Fprintf(os.Stderr, "Missing certificates are fetched through the forwarder at --face.\n\n")
}

func (v *Verify) run() int {
	flagset := flag.NewFlagSet("verify", flag.ContinueOnError)
	flagset.Usage = func() {
		v.usage()
		flagset.PrintDefaults()
	}
	flagset.StringVarP(&v.configFile, "config", "c", "", "configuration file")
	flagset.StringVarP(&v.faceURI, "face", "f", "", "face URI of the forwarder (default from configuration)")
	flagset.StringVarP(&v.hexPacket, "hex", "x", "", "packet as a hex string")
	flagset.DurationVarP(&v.timeout, "timeout", "t", 10*time.Second, "time allowed to decide")
	flagset.BoolVarP(&v.printVersion, "version", "V", false, "print version and exit")
	flagset.StringVar(&v.profile.CpuProfile, "cpu-profile", "", "write a CPU profile to this file")
	flagset.StringVar(&v.profile.MemProfile, "mem-profile", "", "write a memory profile to this file")
	if err := flagset.Parse(v.args[1:]); err != nil {
		return ExitUsage
	}

	if v.printVersion {
		fmt.Println("ndnverify: NDN packet signature verifier")
		fmt.Println("Version " + core.Version + " (Built " + core.BuildTime + ")")
		fmt.Println("Released under the terms of the MIT License")
		return ExitVerified
	}

	if v.configFile != "" {
		if err := core.LoadConfig(v.configFile); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return ExitUsage
		}
	}
	if err := core.InitializeLogger(core.GetConfigStringDefault("core.log_file", "")); err != nil {
		fmt.Fprintln(os.Stderr, "Unable to open log file:", err)
		return ExitUsage
	}
	defer core.ShutdownLogger()
	profiler := executor.NewProfiler(v.profile)
	if err := profiler.Start(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitUsage
	}
	defer profiler.Stop()

	face.Configure()
	if v.faceURI != "" {
		face.FaceURI = v.faceURI
	}

	raw, err := v.readPacket(flagset.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Unable to read packet:", err)
		return ExitUsage
	}

	store, err := keystore.Open()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Unable to open key store:", err)
		return ExitUsage
	}
	defer store.Close()

	transport, err := face.MakeTransport(face.FaceURI)
	if err != nil {
		core.LogWarn("Verify", "Unable to reach forwarder at ", face.FaceURI, ": ", err, " - certificates cannot be fetched")
		transport = face.MakeNullTransport()
	}
	app := face.MakeAppFace(transport)
	go app.Run()
	defer app.Close()

	engine, err := verifier.NewEngine(app, store, verifier.OptionsFromConfig())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitUsage
	}
	defer engine.Close()

	ok, err := VerifyPacket(engine, raw, v.timeout)
	core.LogDebug("Verify", "Finished after ", time.Since(core.StartTimestamp))
	switch {
	case err != nil:
		fmt.Fprintln(os.Stderr, err)
		return ExitUsage
	case ok:
		fmt.Println("VERIFIED")
		return ExitVerified
	default:
		fmt.Println("REJECTED")
		return ExitRejected
	}
}

func (v *Verify) readPacket(file string) ([]byte, error) {
	if v.hexPacket != "" {
		return hex.DecodeString(strings.Join(strings.Fields(v.hexPacket), ""))
	}
	if file == "" || file == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(file)
}

// VerifyPacket decodes raw as an Interest or Data packet and waits for the engine to decide it. A packet not
// decided within timeout is rejected.
func VerifyPacket(engine *verifier.Engine, raw []byte, timeout time.Duration) (bool, error) {
	typ, err := tlv.NewDecoder(raw).PeekType()
	if err != nil {
		return false, err
	}

	result := make(chan bool, 1)
	switch typ {
	case tlv.Interest:
		interest, err := ndn.DecodeInterest(raw)
		if err != nil {
			core.LogInfo("Verify", "Unable to decode Interest: ", err)
			return false, nil
		}
		engine.VerifyInterest(raw, interest,
			func(*ndn.Interest) { result <- true },
			func(*ndn.Interest) { result <- false })
	case tlv.Data:
		data, err := ndn.DecodeData(raw)
		if err != nil {
			core.LogInfo("Verify", "Unable to decode Data: ", err)
			return false, nil
		}
		engine.VerifyData(raw, data,
			func(*ndn.Data) { result <- true },
			func(*ndn.Data) { result <- false })
	default:
		return false, ErrNotPacket
	}

	select {
	case ok := <-result:
		return ok, nil
	case <-time.After(timeout):
		core.LogInfo("Verify", "No decision within ", timeout)
		return false, nil
	}
}
