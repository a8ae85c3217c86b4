// Copyright (c) 2026 The packd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package sampleconfig provides the commented example config for packd.
package sampleconfig

import (
	_ "embed"
)

// samplePackdConf is a string containing the commented example config for
// packd.
//
//go:embed sample-packd.conf
var samplePackdConf string

// Packd returns a string containing the commented example config for packd.
func Packd() string {
	return samplePackdConf
}
