// Copyright (c) 2026 The packd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package payment

import (
	"fmt"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/kabletop/packd/digest"
	"github.com/kabletop/packd/ledger"
)

// TxView is the read-only view of a transaction the payment script runs
// against.  It is satisfied by *ledger.View.
type TxView interface {
	// Script returns the executing script.
	Script() ledger.Script

	// ScriptHash returns the identity of the executing script.
	ScriptHash() chainhash.Hash

	// Cells returns the cells of the requested source in transaction order.
	Cells(src ledger.Source) ([]ledger.CellInfo, error)

	// GroupInputHeader returns the serialized header paired with group
	// input i and whether the transaction references one.
	GroupInputHeader(i int) ([]byte, bool, error)

	// RecoverSigner returns the identity that signed transaction input i.
	RecoverSigner(i int) (digest.Identity, error)
}

// Ensure the ledger view satisfies the interface.
var _ TxView = (*ledger.View)(nil)

// signerIndex returns the index of the first transaction input in the group
// of the executing script, or 0 when the script only guards outputs.
func signerIndex(view TxView) (int, error) {
	inputs, err := view.Cells(ledger.SourceInput)
	if err != nil {
		return 0, convertedError(ErrDataSource, "unable to load inputs", err)
	}
	scriptHash := view.ScriptHash()
	for i := range inputs {
		if inputs[i].TypeHash != nil && *inputs[i].TypeHash == scriptHash {
			return i, nil
		}
	}
	return 0, nil
}

// Verify runs the payment script against the transaction view.  The script
// arguments hold the identity of the target that may administer the wallets.
//
// The signer of the transaction is recovered and classified against the
// wallets of the group.  The target administering its own wallets and a
// composer transferring capacity out of a wallet are accepted after a format
// check.  Any other signer is a guest, and every wallet must then carry a
// valid creation, payment, or reveal.
//
// The returned error is a RuleError, which callers may inspect with
// errors.Is against the ErrorKind constants.
func Verify(view TxView, hashFn digest.Func) error {
	target := view.Script().Args
	if len(target) < digest.IdentitySize {
		str := fmt.Sprintf("script args are %d bytes, want at least %d",
			len(target), digest.IdentitySize)
		return ruleError(ErrEncoding, str)
	}

	idx, err := signerIndex(view)
	if err != nil {
		return err
	}
	caller, err := view.RecoverSigner(idx)
	if err != nil {
		str := fmt.Sprintf("unable to recover the signer of input %d", idx)
		return convertedError(ErrSignatureRecovery, str, err)
	}

	m, err := buildVerifyDataMap(view)
	if err != nil {
		return err
	}
	accepted, err := classifyMode(caller, target, m)
	if err != nil {
		return err
	}
	if accepted {
		return nil
	}

	for _, entry := range m.Entries() {
		if err := verifyGuestEntry(view, hashFn, entry); err != nil {
			return err
		}
	}
	scriptHash := view.ScriptHash()
	log.Debugf("Accepted %d wallet operations for script %x",
		len(m.Entries()), scriptHash[:])
	return nil
}
