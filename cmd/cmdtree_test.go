/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCmdTreeExecute(t *testing.T) {
	var got []string
	tree := CmdTree{
		Name: "ndnverify",
		Help: "NDN signature verifier",
		Sub: []*CmdTree{{
			Name: "key",
			Help: "Key management",
			Sub: []*CmdTree{{
				Name: "id",
				Help: "Print key identifiers",
				Fun:  func(args []string) { got = args },
			}},
		}, {
			Name: "verify",
			Help: "Verify a packet",
			Fun:  func(args []string) { got = args },
		}},
	}

	tree.Execute([]string{"ndnverify", "key", "id", "/a", "/b"})
	assert.Equal(t, []string{"ndnverify key id", "/a", "/b"}, got)

	tree.Execute([]string{"ndnverify", "verify", "--hex", "0600"})
	assert.Equal(t, []string{"ndnverify verify", "--hex", "0600"}, got)
}

func TestCmdTreeUsage(t *testing.T) {
	tree := CmdTree{
		Name: "ndnverify",
		Help: "NDN signature verifier",
		Sub:  []*CmdTree{{Name: "verify", Help: "Verify a packet"}, {}, {Name: "key", Help: "Key management"}},
	}
	var out strings.Builder
	tree.printUsage(&out, []string{"ndnverify"})
	assert.Contains(t, out.String(), "Usage: ndnverify [command]")
	assert.Contains(t, out.String(), "  verify          Verify a packet")
	assert.Contains(t, out.String(), "  key             Key management")

	sub, args := tree.find([]string{"ndnverify", "unknown"})
	assert.Nil(t, sub)
	assert.Nil(t, args)
}
