// Copyright (c) 2026 The packd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package payment

import (
	"bytes"
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/kabletop/packd/ledger"
)

// StateCell is the package state and capacity of a wallet cell.
type StateCell struct {
	Data     []byte
	Capacity uint64
}

// VerifyEntry gathers everything known about one wallet in a transaction.
// Wallets are identified by the hash of their lock.
type VerifyEntry struct {
	LockHash  chainhash.Hash
	OwnerArgs []byte

	// Old is the consumed wallet cell and New the created one.  Old is nil
	// when the transaction creates the wallet.
	Old *StateCell
	New *StateCell

	// PackageConfig is the raw configuration published by the composer
	// owning the wallet lock, or empty when no dependency provides it.
	PackageConfig []byte

	// SealedHeader is the serialized header the consumed wallet cell was
	// committed in, or nil when the transaction does not reference it.
	SealedHeader []byte
}

// verifyDataMap is a map of wallets keyed by lock hash that remembers the
// order in which wallets were first seen.
type verifyDataMap struct {
	entries map[chainhash.Hash]*VerifyEntry
	order   []*VerifyEntry
}

// newVerifyDataMap returns an empty map sized for the provided hint.
func newVerifyDataMap(sizeHint int) *verifyDataMap {
	return &verifyDataMap{
		entries: make(map[chainhash.Hash]*VerifyEntry, sizeHint),
		order:   make([]*VerifyEntry, 0, sizeHint),
	}
}

// lookup returns the entry for the lock hash or nil.
func (m *verifyDataMap) lookup(lockHash *chainhash.Hash) *VerifyEntry {
	return m.entries[*lockHash]
}

// add inserts a new entry.  The caller must ensure the lock hash is not
// already present.
func (m *verifyDataMap) add(entry *VerifyEntry) {
	m.entries[entry.LockHash] = entry
	m.order = append(m.order, entry)
}

// Entries returns the entries in insertion order.
func (m *verifyDataMap) Entries() []*VerifyEntry {
	return m.order
}

// isPackageConfigDep reports whether a cell dependency is the package
// configuration of a composer: its type must run this script's code, and its
// lock must be instantiated with the same arguments as that type, which binds
// the configuration to exactly one composer.
func isPackageConfigDep(dep *ledger.CellInfo, codeHash *chainhash.Hash) bool {
	return dep.Type != nil && dep.Type.CodeHash == *codeHash &&
		bytes.Equal(dep.Lock.Args, dep.Type.Args)
}

// buildVerifyDataMap correlates the wallet cells of the transaction by lock
// hash.  It runs in three phases: group inputs create entries holding the old
// state and sealed header, group outputs attach the new state or create the
// entry of a new wallet, and package configuration dependencies attach to the
// entries of the wallets their composer owns.
func buildVerifyDataMap(view TxView) (*verifyDataMap, error) {
	inputs, err := view.Cells(ledger.SourceGroupInput)
	if err != nil {
		return nil, convertedError(ErrDataSource, "unable to load group "+
			"inputs", err)
	}
	outputs, err := view.Cells(ledger.SourceGroupOutput)
	if err != nil {
		return nil, convertedError(ErrDataSource, "unable to load group "+
			"outputs", err)
	}
	deps, err := view.Cells(ledger.SourceCellDep)
	if err != nil {
		return nil, convertedError(ErrDataSource, "unable to load cell deps",
			err)
	}

	m := newVerifyDataMap(len(inputs) + len(outputs))
	for i := range inputs {
		in := &inputs[i]
		if m.lookup(&in.LockHash) != nil {
			str := fmt.Sprintf("group input %d repeats wallet lock %x", i,
				in.LockHash[:])
			return nil, ruleError(ErrDuplicateInputCell, str)
		}
		header, ok, err := view.GroupInputHeader(i)
		if err != nil {
			str := fmt.Sprintf("unable to load header of group input %d", i)
			return nil, convertedError(ErrDataSource, str, err)
		}
		if !ok {
			header = nil
		}
		m.add(&VerifyEntry{
			LockHash:     in.LockHash,
			OwnerArgs:    in.Lock.Args,
			Old:          &StateCell{Data: in.Data, Capacity: in.Capacity},
			SealedHeader: header,
		})
	}

	for i := range outputs {
		out := &outputs[i]
		state := &StateCell{Data: out.Data, Capacity: out.Capacity}
		entry := m.lookup(&out.LockHash)
		if entry == nil {
			m.add(&VerifyEntry{
				LockHash:  out.LockHash,
				OwnerArgs: out.Lock.Args,
				New:       state,
			})
			continue
		}
		if entry.New != nil {
			str := fmt.Sprintf("group output %d repeats wallet lock %x", i,
				out.LockHash[:])
			return nil, ruleError(ErrDuplicateOutputCell, str)
		}
		entry.New = state
	}

	codeHash := view.Script().CodeHash
	for i := range deps {
		dep := &deps[i]
		if !isPackageConfigDep(dep, &codeHash) {
			continue
		}
		entry := m.lookup(&dep.LockHash)
		if entry == nil {
			continue
		}
		if len(entry.PackageConfig) > 0 {
			str := fmt.Sprintf("cell dep %d repeats the package config of "+
				"wallet lock %x", i, dep.LockHash[:])
			return nil, ruleError(ErrDuplicateDepCell, str)
		}
		if _, err := DecodePackageConfig(dep.Data); err != nil {
			return nil, err
		}
		entry.PackageConfig = dep.Data
	}

	log.Tracef("Correlated wallets: %v", newLogClosure(func() string {
		return spew.Sdump(m.order)
	}))
	return m, nil
}
