// Copyright (c) 2026 The packd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package wallet implements the lock guarding package wallets.
//
// The lock arguments hold the identity of the wallet owner.  The owner may
// spend the wallet freely.  Anyone else may only spend it in a transaction
// that leaves at least as much capacity locked by the same lock, which lets
// guests pay into wallets they do not own.
package wallet

import (
	"fmt"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/math/uint256"
	"github.com/kabletop/packd/digest"
	"github.com/kabletop/packd/ledger"
)

// TxView is the read-only view of a transaction the wallet lock runs against.
// It is satisfied by *ledger.View.
type TxView interface {
	Script() ledger.Script
	ScriptHash() chainhash.Hash
	Cells(src ledger.Source) ([]ledger.CellInfo, error)
	RecoverSigner(i int) (digest.Identity, error)
}

var _ TxView = (*ledger.View)(nil)

// sumCapacity returns the total capacity of the cells locked by lockHash.
func sumCapacity(cells []ledger.CellInfo, lockHash *chainhash.Hash) *uint256.Uint256 {
	var sum, capacity uint256.Uint256
	for i := range cells {
		if cells[i].LockHash != *lockHash {
			continue
		}
		sum.Add(capacity.SetUint64(cells[i].Capacity))
	}
	return &sum
}

// isOwner reports whether the transaction is signed by the wallet owner.  The
// signature is taken from the witness of the first input locked by the
// wallet.
func isOwner(view TxView, owner []byte) (bool, error) {
	inputs, err := view.Cells(ledger.SourceInput)
	if err != nil {
		return false, convertedError(ErrDataSource, "unable to load inputs",
			err)
	}
	scriptHash := view.ScriptHash()
	for i := range inputs {
		if inputs[i].LockHash != scriptHash {
			continue
		}
		signer, err := view.RecoverSigner(i)
		if err != nil {
			str := fmt.Sprintf("unable to recover the signer of input %d", i)
			return false, convertedError(ErrSignature, str, err)
		}
		return signer == digest.Identity(owner), nil
	}

	str := fmt.Sprintf("no input is locked by wallet %x", scriptHash[:])
	return false, ruleError(ErrSignature, str)
}

// Verify runs the wallet lock against the transaction view.
func Verify(view TxView) error {
	owner := view.Script().Args
	if len(owner) != digest.IdentitySize {
		str := fmt.Sprintf("script args are %d bytes, want %d", len(owner),
			digest.IdentitySize)
		return ruleError(ErrEncoding, str)
	}

	ok, err := isOwner(view, owner)
	if err != nil {
		return err
	}
	scriptHash := view.ScriptHash()
	if ok {
		log.Debugf("Owner %x spends wallet %x", owner, scriptHash[:])
		return nil
	}

	inputs, err := view.Cells(ledger.SourceGroupInput)
	if err != nil {
		return convertedError(ErrDataSource, "unable to load group inputs",
			err)
	}
	outputs, err := view.Cells(ledger.SourceOutput)
	if err != nil {
		return convertedError(ErrDataSource, "unable to load outputs", err)
	}
	spent := sumCapacity(inputs, &scriptHash)
	kept := sumCapacity(outputs, &scriptHash)
	if spent.Gt(kept) {
		str := fmt.Sprintf("wallet %x holds %s before the transaction but "+
			"only %s after it", scriptHash[:], spent, kept)
		return ruleError(ErrCapacityDecrease, str)
	}

	log.Debugf("Wallet %x capacity goes from %s to %s", scriptHash[:], spent,
		kept)
	return nil
}
