// Copyright (c) 2026 The packd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/container/lru"
	"github.com/kabletop/packd/digest"
	"github.com/kabletop/packd/inventory"
	"github.com/kabletop/packd/ledger"
	"github.com/kabletop/packd/payment"
	"github.com/kabletop/packd/wallet"
)

// scriptKind identifies which verifier a configured code hash dispatches to.
type scriptKind uint8

const (
	scriptPayment scriptKind = iota
	scriptWallet
	scriptInventory
)

// String returns the scriptKind in human-readable form.
func (k scriptKind) String() string {
	switch k {
	case scriptPayment:
		return "payment"
	case scriptWallet:
		return "wallet"
	case scriptInventory:
		return "inventory"
	}
	return fmt.Sprintf("unknown(%d)", uint8(k))
}

// groupKind returns the kind of group the script runs for.  The wallet guards
// cells through their lock while the others are type scripts.
func (k scriptKind) groupKind() ledger.GroupKind {
	if k == scriptWallet {
		return ledger.LockGroup
	}
	return ledger.TypeGroup
}

// verdictStatus describes how a script group verdict was reached.
type verdictStatus uint8

const (
	verdictVerified verdictStatus = iota
	verdictCached
	verdictSkipped
)

// groupVerdict is the outcome of running one script group of a transaction.
// Err is nil when the group accepted the transaction.
type groupVerdict struct {
	Group  ledger.ScriptGroup
	Kind   scriptKind
	Status verdictStatus
	Err    error
}

// String returns the verdict as printed by the CLI.
func (v *groupVerdict) String() string {
	var outcome string
	switch {
	case v.Status == verdictSkipped:
		return fmt.Sprintf("%s group %x: skipped (unknown code %x)",
			v.Group.Kind, v.Group.Hash[:], v.Group.Script.CodeHash[:])
	case v.Err != nil:
		outcome = "reject: " + v.Err.Error()
	default:
		outcome = "accept"
	}
	if v.Status == verdictCached {
		outcome += " (cached)"
	}
	return fmt.Sprintf("%s %s group %x: %s", v.Kind, v.Group.Kind,
		v.Group.Hash[:], outcome)
}

// verdictKey identifies a script group verdict.  The hash provider is fixed
// for the life of a verifier so it is not part of the key.
type verdictKey struct {
	tx     chainhash.Hash
	script chainhash.Hash
	kind   ledger.GroupKind
}

// verifier dispatches the script groups of transaction snapshots to the
// configured scripts and remembers their verdicts.
type verifier struct {
	hashFn digest.Func
	codes  map[chainhash.Hash]scriptKind
	cache  *lru.Map[verdictKey, error]
}

// newVerifier returns a verifier for the given hash provider and code hashes
// that remembers up to cacheSize verdicts.
func newVerifier(hashFn digest.Func, codes map[chainhash.Hash]scriptKind, cacheSize uint32) *verifier {
	return &verifier{
		hashFn: hashFn,
		codes:  codes,
		cache:  lru.NewMap[verdictKey, error](cacheSize),
	}
}

// run executes the script of the given kind against the view.
func (v *verifier) run(kind scriptKind, view *ledger.View) error {
	switch kind {
	case scriptPayment:
		return payment.Verify(view, v.hashFn)
	case scriptWallet:
		return wallet.Verify(view)
	case scriptInventory:
		return inventory.Verify(view)
	}
	return fmt.Errorf("no verifier for %v scripts", kind)
}

// verifyTx runs every script group of tx whose code hash is configured and
// returns one verdict per group in first appearance order.  Groups with an
// unknown code hash, or whose code runs for the other kind of group, are
// reported as skipped.
func (v *verifier) verifyTx(tx *ledger.Tx) []groupVerdict {
	groups := ledger.ScriptGroups(tx, v.hashFn)
	verdicts := make([]groupVerdict, 0, len(groups))
	for _, group := range groups {
		kind, ok := v.codes[group.Script.CodeHash]
		if !ok || kind.groupKind() != group.Kind {
			packLog.Debugf("Skipping %s group %x of tx %x", group.Kind,
				group.Hash[:], tx.Hash[:])
			verdicts = append(verdicts, groupVerdict{Group: group,
				Status: verdictSkipped})
			continue
		}

		key := verdictKey{tx: tx.Hash, script: group.Hash, kind: group.Kind}
		if err, ok := v.cache.Get(key); ok {
			verdicts = append(verdicts, groupVerdict{Group: group,
				Kind: kind, Status: verdictCached, Err: err})
			continue
		}

		view := ledger.NewView(tx, group.Script, group.Kind, v.hashFn)
		err := v.run(kind, view)
		v.cache.Put(key, err)
		verdicts = append(verdicts, groupVerdict{Group: group, Kind: kind,
			Status: verdictVerified, Err: err})
	}
	return verdicts
}
