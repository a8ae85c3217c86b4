// Copyright (c) 2026 The packd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"bytes"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/wire"
	"github.com/kabletop/packd/digest"
)

// Hash types select how a script's code hash refers to the code it runs.
const (
	// HashTypeData means the code hash is the digest of the code cell data.
	HashTypeData uint8 = 0

	// HashTypeType means the code hash is the type identity of the code
	// cell.
	HashTypeType uint8 = 1
)

// Script identifies a program guarding a cell along with the arguments it is
// instantiated with.  Two scripts are the same instance only when all three
// fields match.
type Script struct {
	CodeHash chainhash.Hash
	HashType uint8
	Args     []byte
}

// SerializeSize returns the number of bytes it would take to serialize the
// script.
func (s *Script) SerializeSize() int {
	return chainhash.HashSize + 1 + wire.VarIntSerializeSize(uint64(len(s.Args))) +
		len(s.Args)
}

// Serialize returns the canonical serialization of the script:
//
//	code_hash (32) | hash_type (1) | varint(len(args)) | args
func (s *Script) Serialize() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, s.SerializeSize()))
	buf.Write(s.CodeHash[:])
	buf.WriteByte(s.HashType)
	// Writing to a bytes.Buffer cannot fail.
	_ = wire.WriteVarBytes(buf, wire.ProtocolVersion, s.Args)
	return buf.Bytes()
}

// Hash returns the identity of the script under the given hash provider.
func (s *Script) Hash(hashFn digest.Func) chainhash.Hash {
	return chainhash.Hash(hashFn(s.Serialize()))
}

// Equal reports whether both scripts are the same instance.
func (s *Script) Equal(other *Script) bool {
	return s.CodeHash == other.CodeHash && s.HashType == other.HashType &&
		bytes.Equal(s.Args, other.Args)
}
