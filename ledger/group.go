// Copyright (c) 2026 The packd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/kabletop/packd/digest"
)

// ScriptGroup is a distinct script that must run for a transaction along with
// the kind of group it guards.
type ScriptGroup struct {
	Script Script
	Hash   chainhash.Hash
	Kind   GroupKind
}

// ScriptGroups returns the script groups of tx in first appearance order.
// Lock scripts run for consumed cells only while type scripts run for both
// consumed and created cells.
func ScriptGroups(tx *Tx, hashFn digest.Func) []ScriptGroup {
	type groupKey struct {
		hash chainhash.Hash
		kind GroupKind
	}
	seen := make(map[groupKey]struct{})
	var groups []ScriptGroup
	add := func(script *Script, kind GroupKind) {
		hash := script.Hash(hashFn)
		key := groupKey{hash, kind}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		groups = append(groups, ScriptGroup{Script: *script, Hash: hash,
			Kind: kind})
	}

	for i := range tx.Inputs {
		add(&tx.Inputs[i].Lock, LockGroup)
	}
	for i := range tx.Inputs {
		if tx.Inputs[i].Type != nil {
			add(tx.Inputs[i].Type, TypeGroup)
		}
	}
	for i := range tx.Outputs {
		if tx.Outputs[i].Type != nil {
			add(tx.Outputs[i].Type, TypeGroup)
		}
	}
	return groups
}
