// Copyright (c) 2026 The packd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"fmt"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/kabletop/packd/digest"
	"github.com/kabletop/packd/signature"
)

// Source identifies a logical set of cells a script may read.
type Source uint8

const (
	// SourceInput is every cell consumed by the transaction.
	SourceInput Source = iota

	// SourceOutput is every cell created by the transaction.
	SourceOutput

	// SourceCellDep is every cell referenced read-only by the transaction.
	SourceCellDep

	// SourceGroupInput is the consumed cells guarded by the executing
	// script.
	SourceGroupInput

	// SourceGroupOutput is the created cells guarded by the executing
	// script.
	SourceGroupOutput
)

// sourceStrings is a map of sources back to their constant names for pretty
// printing.
var sourceStrings = map[Source]string{
	SourceInput:       "SourceInput",
	SourceOutput:      "SourceOutput",
	SourceCellDep:     "SourceCellDep",
	SourceGroupInput:  "SourceGroupInput",
	SourceGroupOutput: "SourceGroupOutput",
}

// String returns the Source in human-readable form.
func (s Source) String() string {
	if str, ok := sourceStrings[s]; ok {
		return str
	}
	return fmt.Sprintf("Unknown Source (%d)", uint8(s))
}

// GroupKind selects which script of a cell places it in the executing
// script's group.
type GroupKind uint8

const (
	// LockGroup groups cells by their lock script.
	LockGroup GroupKind = iota

	// TypeGroup groups cells by their type script.
	TypeGroup
)

// String returns the GroupKind in human-readable form.
func (k GroupKind) String() string {
	switch k {
	case LockGroup:
		return "lock"
	case TypeGroup:
		return "type"
	}
	return fmt.Sprintf("unknown(%d)", uint8(k))
}

// View is a read-only view of a transaction as seen by one executing script.
// All cell sets are finite and materialized when the view is created, and
// script identities are computed once with the view's hash provider.
//
// The returned cells share memory with the view and must not be modified.
type View struct {
	tx         *Tx
	script     Script
	scriptHash chainhash.Hash
	kind       GroupKind
	hashFn     digest.Func

	inputs       []CellInfo
	outputs      []CellInfo
	cellDeps     []CellInfo
	groupInputs  []CellInfo
	groupOutputs []CellInfo

	// groupInputIdx maps a group input index to its transaction input
	// index.
	groupInputIdx []int
}

// cellInfo computes the script identities of the cell.
func cellInfo(cell *Cell, hashFn digest.Func) CellInfo {
	info := CellInfo{Cell: *cell, LockHash: cell.Lock.Hash(hashFn)}
	if cell.Type != nil {
		typeHash := cell.Type.Hash(hashFn)
		info.TypeHash = &typeHash
	}
	return info
}

// inGroup reports whether the cell belongs to the group of the script with
// the given identity.
func inGroup(info *CellInfo, kind GroupKind, scriptHash *chainhash.Hash) bool {
	switch kind {
	case LockGroup:
		return info.LockHash == *scriptHash
	case TypeGroup:
		return info.TypeHash != nil && *info.TypeHash == *scriptHash
	}
	return false
}

// NewView returns a view of tx for the executing script, whose group is made
// of the cells whose lock (LockGroup) or type (TypeGroup) script is script.
func NewView(tx *Tx, script Script, kind GroupKind, hashFn digest.Func) *View {
	v := &View{
		tx:         tx,
		script:     script,
		scriptHash: script.Hash(hashFn),
		kind:       kind,
		hashFn:     hashFn,
		inputs:     make([]CellInfo, 0, len(tx.Inputs)),
		outputs:    make([]CellInfo, 0, len(tx.Outputs)),
		cellDeps:   make([]CellInfo, 0, len(tx.CellDeps)),
	}
	for i := range tx.Inputs {
		info := cellInfo(&tx.Inputs[i].Cell, hashFn)
		v.inputs = append(v.inputs, info)
		if inGroup(&info, kind, &v.scriptHash) {
			v.groupInputs = append(v.groupInputs, info)
			v.groupInputIdx = append(v.groupInputIdx, i)
		}
	}
	for i := range tx.Outputs {
		info := cellInfo(&tx.Outputs[i], hashFn)
		v.outputs = append(v.outputs, info)
		if inGroup(&info, kind, &v.scriptHash) {
			v.groupOutputs = append(v.groupOutputs, info)
		}
	}
	for i := range tx.CellDeps {
		v.cellDeps = append(v.cellDeps, cellInfo(&tx.CellDeps[i], hashFn))
	}

	log.Tracef("Created %s view for script %x: %d/%d group inputs, %d/%d "+
		"group outputs, %d cell deps", kind, v.scriptHash[:],
		len(v.groupInputs), len(v.inputs), len(v.groupOutputs),
		len(v.outputs), len(v.cellDeps))
	return v
}

// Script returns the executing script.
func (v *View) Script() Script {
	return v.script
}

// ScriptHash returns the identity of the executing script.
func (v *View) ScriptHash() chainhash.Hash {
	return v.scriptHash
}

// TxHash returns the digest signed by the transaction witnesses.
func (v *View) TxHash() chainhash.Hash {
	return v.tx.Hash
}

// Cells returns the cells of the requested source in transaction order.
func (v *View) Cells(src Source) ([]CellInfo, error) {
	switch src {
	case SourceInput:
		return v.inputs, nil
	case SourceOutput:
		return v.outputs, nil
	case SourceCellDep:
		return v.cellDeps, nil
	case SourceGroupInput:
		return v.groupInputs, nil
	case SourceGroupOutput:
		return v.groupOutputs, nil
	}
	return nil, ledgerError(ErrUnknownSource, fmt.Sprintf("unknown cell "+
		"source %s", src))
}

// GroupInputHeader returns the serialized block header paired with the group
// input at index i.  The second return value is false when the transaction
// does not reference a header for that input.
func (v *View) GroupInputHeader(i int) ([]byte, bool, error) {
	if i < 0 || i >= len(v.groupInputIdx) {
		str := fmt.Sprintf("group input %d out of range (%d inputs)", i,
			len(v.groupInputIdx))
		return nil, false, ledgerError(ErrIndexOutOfRange, str)
	}
	header := v.tx.Inputs[v.groupInputIdx[i]].Header
	if header == nil {
		return nil, false, nil
	}
	b, err := header.Bytes()
	if err != nil {
		str := fmt.Sprintf("unable to serialize header of group input %d: %v",
			i, err)
		return nil, false, ledgerError(ErrSerializeHeader, str)
	}
	return b, true, nil
}

// RecoverSigner returns the identity of the key that signed the transaction
// hash in the witness of transaction input i.
func (v *View) RecoverSigner(i int) (digest.Identity, error) {
	if i < 0 || i >= len(v.tx.Inputs) {
		str := fmt.Sprintf("input %d out of range (%d inputs)", i,
			len(v.tx.Inputs))
		return digest.Identity{}, ledgerError(ErrIndexOutOfRange, str)
	}
	if i >= len(v.tx.Witnesses) || len(v.tx.Witnesses[i]) == 0 {
		str := fmt.Sprintf("no witness for input %d", i)
		return digest.Identity{}, ledgerError(ErrMissingWitness, str)
	}
	return signature.RecoverIdentity(v.hashFn, v.tx.Hash, v.tx.Witnesses[i])
}
