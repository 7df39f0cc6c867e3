/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package main

import (
	"os"
	"time"

	"github.com/named-data/ndn-verifier/cmd"
	"github.com/named-data/ndn-verifier/core"
	"github.com/named-data/ndn-verifier/tools"
)

// Version of ndnverify.
var Version string

// BuildTime contains the timestamp of when the version of ndnverify was built.
var BuildTime string

func main() {
	core.Version = Version
	core.BuildTime = BuildTime
	core.StartTimestamp = time.Now()

	tree := cmd.CmdTree{
		Name: "ndnverify",
		Help: "NDN packet signature verifier",
		Sub: []*cmd.CmdTree{{
			Name: "verify",
			Help: "Verify the signature of an Interest or Data packet",
			Fun:  tools.RunVerify,
		}, {
			Name: "key",
			Help: "Manage the key store",
			Sub: []*cmd.CmdTree{{
				Name: "id",
				Help: "Print the key identifier of KeyLocator names",
				Fun:  tools.RunKeyID,
			}, {
				Name: "import",
				Help: "Add an ECDSA or HMAC key to the key store",
				Fun:  tools.RunKeyImport,
			}},
		}},
	}

	args := os.Args
	args[0] = tree.Name
	tree.Execute(args)
}
