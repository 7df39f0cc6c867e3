/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package core

import (
	"math"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

var config *toml.Tree

// LoadConfig loads the configuration from the specified configuration file.
func LoadConfig(file string) error {
	tree, err := toml.LoadFile(file)
	if err != nil {
		return errors.Wrap(err, "unable to load configuration file")
	}
	config = tree
	return nil
}

// LoadConfigString loads the configuration from TOML text.
func LoadConfigString(content string) error {
	tree, err := toml.Load(content)
	if err != nil {
		return errors.Wrap(err, "unable to parse configuration")
	}
	config = tree
	return nil
}

// GetConfig returns the loaded configuration tree, or nil if none was loaded.
func GetConfig() *toml.Tree {
	return config
}

func getConfigRaw(key string) interface{} {
	if config == nil {
		return nil
	}
	return config.Get(key)
}

// GetConfigIntDefault returns the integer configuration value at the specified key or the specified default value if it does not exist.
func GetConfigIntDefault(key string, def int) int {
	valRaw := getConfigRaw(key)
	if valRaw == nil {
		return def
	}
	val, ok := valRaw.(int64)
	if ok && val >= math.MinInt32 && val <= math.MaxInt32 {
		return int(val)
	}
	return def
}

// GetConfigStringDefault returns the string configuration value at the specified key or the specified default value if it does not exist.
func GetConfigStringDefault(key string, def string) string {
	valRaw := getConfigRaw(key)
	if valRaw == nil {
		return def
	}
	val, ok := valRaw.(string)
	if ok {
		return val
	}
	return def
}
