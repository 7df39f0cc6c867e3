/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package tools

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/named-data/ndn-verifier/core"
	"github.com/named-data/ndn-verifier/keystore"
	"github.com/named-data/ndn-verifier/ndn"
	flag "github.com/spf13/pflag"
)

// RunKeyID prints the key identifier of each KeyLocator name given as argument.
func RunKeyID(args []string) {
	if len(args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <name>...\n", args[0])
		os.Exit(ExitUsage)
	}
	if err := printKeyIDs(os.Stdout, args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitUsage)
	}
}

func printKeyIDs(w io.Writer, names []string) error {
	for _, nameStr := range names {
		name, err := ndn.NameFromString(nameStr)
		if err != nil {
			return fmt.Errorf("invalid name %q: %w", nameStr, err)
		}
		fmt.Fprintf(w, "%08x %s\n", keystore.KeyIDFromName(name), name)
	}
	return nil
}

type KeyImport struct {
	args []string

	// command line configuration
	configFile string
	storePath  string
	name       string
	pemFile    string
	hmacHex    string
}

// RunKeyImport adds a key to a persistent key store.
func RunKeyImport(args []string) {
	os.Exit((&KeyImport{args: args}).run())
}

func (ki *KeyImport) usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s --name <name> (--pem <file> | --hmac <hex>) [options]\n", ki.args[0])
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "Add an ECDSA public key or an HMAC key to the key store.\n\n")
}

func (ki *KeyImport) run() int {
	flagset := flag.NewFlagSet("import", flag.ContinueOnError)
	flagset.Usage = func() {
		ki.usage()
		flagset.PrintDefaults()
	}
	flagset.StringVarP(&ki.configFile, "config", "c", "", "configuration file")
	flagset.StringVarP(&ki.storePath, "store", "s", "", "key store database (default keystore.path)")
	flagset.StringVarP(&ki.name, "name", "n", "", "KeyLocator name of the key")
	flagset.StringVar(&ki.pemFile, "pem", "", "PEM file holding an ECDSA PUBLIC KEY")
	flagset.StringVar(&ki.hmacHex, "hmac", "", "HMAC key as a hex string")
	if err := flagset.Parse(ki.args[1:]); err != nil {
		return ExitUsage
	}

	if ki.configFile != "" {
		if err := core.LoadConfig(ki.configFile); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return ExitUsage
		}
	}
	if ki.storePath == "" {
		ki.storePath = core.GetConfigStringDefault("keystore.path", "")
	}
	if ki.storePath == "" || ki.name == "" || (ki.pemFile == "") == (ki.hmacHex == "") {
		flagset.Usage()
		return ExitUsage
	}

	store, err := keystore.NewBoltStore(ki.storePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitUsage
	}
	defer store.Close()

	if err := ki.importKey(store); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitUsage
	}
	return ExitVerified
}

func (ki *KeyImport) importKey(store keystore.Writer) error {
	name, err := ndn.NameFromString(ki.name)
	if err != nil {
		return fmt.Errorf("invalid name %q: %w", ki.name, err)
	}

	if ki.pemFile != "" {
		key, err := keystore.ReadPublicKeyFile(ki.pemFile)
		if err != nil {
			return err
		}
		if err := store.AddEccPublicKey(name, key); err != nil {
			return err
		}
	} else {
		key, err := hex.DecodeString(ki.hmacHex)
		if err != nil {
			return fmt.Errorf("invalid HMAC key: %w", err)
		}
		if err := store.AddHmacKey(name, key); err != nil {
			return err
		}
	}
	fmt.Printf("%08x %s\n", keystore.KeyIDFromName(name), name)
	return nil
}
