// Copyright (c) 2026 The packd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package payment

import (
	"bytes"
	"fmt"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/math/uint256"
	"github.com/kabletop/packd/digest"
	"github.com/kabletop/packd/ledger"
)

// Package states stored in the single byte of wallet data.
const (
	// stateIdle means the wallet holds no unrevealed packages.
	stateIdle = 0

	// stateSize is the size of the package state.
	stateSize = 1
)

// isStateTransition reports whether both wallet cells hold a package state.
func isStateTransition(entry *VerifyEntry) bool {
	return len(entry.Old.Data) == stateSize && len(entry.New.Data) == stateSize
}

// checkWalletCreation ensures a newly created wallet starts idle.
func checkWalletCreation(entry *VerifyEntry) error {
	if entry.New == nil || !bytes.Equal(entry.New.Data, []byte{stateIdle}) {
		var data []byte
		if entry.New != nil {
			data = entry.New.Data
		}
		str := fmt.Sprintf("new wallet lock %x must start with state %x, "+
			"got %x", entry.LockHash[:], []byte{stateIdle}, data)
		return ruleError(ErrInvalidWalletCreationFormat, str)
	}
	return nil
}

// checkPayment validates the purchase of packages into an idle wallet.  The
// capacity added to the wallet must cover the price of every package bought.
// A purchase of zero packages is a plain capacity transfer.
func checkPayment(entry *VerifyEntry, cfg *PackageConfig) error {
	purchased := uint64(entry.New.Data[0])
	oldCap, newCap := entry.Old.Capacity, entry.New.Capacity

	var paid uint64
	if newCap > oldCap {
		paid = newCap - oldCap
	}
	price := new(uint256.Uint256).SetUint64(purchased)
	price.Mul(new(uint256.Uint256).SetUint64(cfg.UnitPrice))
	if newCap < oldCap || new(uint256.Uint256).SetUint64(paid).Lt(price) {
		str := fmt.Sprintf("wallet lock %x buys %d packages at %d each but "+
			"its capacity goes from %d to %d", entry.LockHash[:], purchased,
			cfg.UnitPrice, oldCap, newCap)
		return ruleError(ErrInsufficientCapacity, str)
	}

	log.Debugf("Wallet lock %x pays %d for %d packages", entry.LockHash[:],
		paid, purchased)
	return nil
}

// findRevealedCollection returns the items held by the first transaction
// output whose type is instantiated with the wallet lock hash.
func findRevealedCollection(view TxView, lockHash *chainhash.Hash) (Collection, error) {
	outputs, err := view.Cells(ledger.SourceOutput)
	if err != nil {
		return nil, convertedError(ErrDataSource, "unable to load outputs",
			err)
	}
	for i := range outputs {
		typ := outputs[i].Type
		if typ == nil || !bytes.Equal(typ.Args, lockHash[:]) {
			continue
		}
		return DecodeCollection(outputs[i].Data)
	}

	str := fmt.Sprintf("no output holds the items revealed from wallet lock %x",
		lockHash[:])
	return nil, ruleError(ErrMissingCells, str)
}

// checkReveal validates the reveal of every pending package of a wallet.  The
// revealed items must fit in the pending packages and must match the lottery
// seeded by the header the wallet was sealed in.
func checkReveal(view TxView, hashFn digest.Func, entry *VerifyEntry, cfg *PackageConfig) error {
	if entry.SealedHeader == nil {
		str := fmt.Sprintf("reveal from wallet lock %x does not reference "+
			"the header its payment was sealed in", entry.LockHash[:])
		return ruleError(ErrMissingPaymentHeader, str)
	}

	revealed, err := findRevealedCollection(view, &entry.LockHash)
	if err != nil {
		return err
	}

	pending := int(entry.Old.Data[0])
	maxRevealed := pending * int(cfg.UnitCount)
	if len(revealed) > maxRevealed {
		str := fmt.Sprintf("wallet lock %x reveals %d items but %d pending "+
			"packages of %d items hold at most %d", entry.LockHash[:],
			len(revealed), pending, cfg.UnitCount, maxRevealed)
		return ruleError(ErrRevealedNFTOutOfBound, str)
	}

	if !VerifyReveal(hashFn, revealed, cfg, entry.SealedHeader) {
		str := fmt.Sprintf("items revealed from wallet lock %x do not match "+
			"the sealed lottery", entry.LockHash[:])
		return ruleError(ErrInvalidRevealNFTData, str)
	}

	log.Debugf("Wallet lock %x reveals %d items from %d packages",
		entry.LockHash[:], len(revealed), pending)
	return nil
}

// verifyGuestEntry validates the operation a guest performs on one wallet.
func verifyGuestEntry(view TxView, hashFn digest.Func, entry *VerifyEntry) error {
	// A wallet created by this transaction needs no configuration.
	if entry.Old == nil {
		return checkWalletCreation(entry)
	}

	if len(entry.PackageConfig) == 0 || entry.New == nil {
		str := fmt.Sprintf("wallet lock %x requires both its package config "+
			"dependency and its output", entry.LockHash[:])
		return ruleError(ErrMissingCells, str)
	}
	cfg, err := DecodePackageConfig(entry.PackageConfig)
	if err != nil {
		return err
	}

	if isStateTransition(entry) {
		switch {
		case entry.Old.Data[0] == stateIdle:
			return checkPayment(entry, cfg)

		case entry.New.Data[0] == stateIdle:
			return checkReveal(view, hashFn, entry, cfg)
		}
	}

	str := fmt.Sprintf("wallet lock %x goes from state %x to %x which is "+
		"neither a payment nor a reveal", entry.LockHash[:], entry.Old.Data,
		entry.New.Data)
	return ruleError(ErrUnknownOperation, str)
}
