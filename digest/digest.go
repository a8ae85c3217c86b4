// Copyright (c) 2026 The packd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package digest provides the 32-byte hashing providers used to derive script
// identities, signer identities, and lottery entropy.
//
// Every consumer takes a Func rather than calling a specific algorithm so the
// same validation code can run against ledgers that commit to different hash
// functions.  All providers are pure functions of their input.
package digest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/decred/dcrd/crypto/blake256"
	"golang.org/x/crypto/blake2b"
	"lukechampine.com/blake3"
)

const (
	// Size is the size of a digest in bytes.
	Size = 32

	// IdentitySize is the size of a truncated identity digest in bytes.
	IdentitySize = 20
)

// Func computes the digest of the provided bytes.
type Func func(b []byte) [Size]byte

// Identity is a truncated digest identifying a public key or an owner.
type Identity [IdentitySize]byte

// Blake2b256 returns the unkeyed BLAKE2b-256 digest of b.  It is the default
// provider.
func Blake2b256(b []byte) [Size]byte {
	return blake2b.Sum256(b)
}

// Blake256 returns the BLAKE-256 (14 rounds) digest of b.
func Blake256(b []byte) [Size]byte {
	return blake256.Sum256(b)
}

// Blake3 returns the BLAKE3 digest of b truncated to 32 bytes.
func Blake3(b []byte) [Size]byte {
	return blake3.Sum256(b)
}

// Default is the provider used when none is configured.
const Default = "blake2b"

// providers houses the named hash providers.
var providers = map[string]Func{
	"blake2b":  Blake2b256,
	"blake256": Blake256,
	"blake3":   Blake3,
}

// Names returns the sorted names of all registered providers.
func Names() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByName returns the provider registered under the given case-insensitive
// name.
func ByName(name string) (Func, error) {
	fn, ok := providers[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown hash provider %q (available: %s)",
			name, strings.Join(Names(), ", "))
	}
	return fn, nil
}

// Blake160 returns the first 20 bytes of the digest of b computed with fn.
func Blake160(fn Func, b []byte) Identity {
	sum := fn(b)
	var id Identity
	copy(id[:], sum[:IdentitySize])
	return id
}
