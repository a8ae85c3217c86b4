// Copyright (c) 2026 The packd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package signature implements the signature-recovery provider: given a
// compact secp256k1 signature over a transaction digest it yields the 20-byte
// identity of the signer.
package signature

import (
	"fmt"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/kabletop/packd/digest"
)

// CompactSigSize is the size of a compact recoverable signature.
const CompactSigSize = 65

// Identity returns the identity of the public key, which is the blake160 of
// its compressed serialization.
func Identity(hashFn digest.Func, pubKey *secp256k1.PublicKey) digest.Identity {
	return digest.Blake160(hashFn, pubKey.SerializeCompressed())
}

// RecoverIdentity recovers the public key that produced the compact signature
// sig over msg and returns its identity.
func RecoverIdentity(hashFn digest.Func, msg chainhash.Hash, sig []byte) (digest.Identity, error) {
	if len(sig) != CompactSigSize {
		str := fmt.Sprintf("malformed signature: got %d bytes, want %d",
			len(sig), CompactSigSize)
		return digest.Identity{}, signatureError(ErrSigLength, str)
	}

	pubKey, _, err := ecdsa.RecoverCompact(sig, msg[:])
	if err != nil {
		str := fmt.Sprintf("unable to recover public key: %v", err)
		return digest.Identity{}, signatureError(ErrRecovery, str)
	}
	return Identity(hashFn, pubKey), nil
}

// Sign produces a compact recoverable signature of msg with key.  The
// signature commits to the compressed form of the public key.
func Sign(key *secp256k1.PrivateKey, msg chainhash.Hash) []byte {
	return ecdsa.SignCompact(key, msg[:], true)
}
