// Copyright (c) 2026 The packd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/wire"
)

// Cell is a ledger output: a capacity guarded by a lock script, optionally
// classified by a type script, carrying arbitrary data.  Cells are immutable
// once created.
type Cell struct {
	Capacity uint64
	Lock     Script
	Type     *Script
	Data     []byte
}

// CellInfo is a cell together with the identities of its scripts as computed
// by the view that produced it.
type CellInfo struct {
	Cell
	LockHash chainhash.Hash
	TypeHash *chainhash.Hash
}

// Input is a cell consumed by a transaction.  Header is the block header the
// consumed cell was committed in, when the transaction references it.
type Input struct {
	Cell
	Header *wire.BlockHeader
}

// Tx is an assembled transaction snapshot.  Hash is the digest the witnesses
// sign.  Witnesses[i] holds the compact signature authorizing input i.
type Tx struct {
	Hash      chainhash.Hash
	Inputs    []Input
	Outputs   []Cell
	CellDeps  []Cell
	Witnesses [][]byte
}
