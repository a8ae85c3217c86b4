// Copyright (c) 2026 The packd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package payment

import (
	"bytes"
	"fmt"

	"github.com/kabletop/packd/digest"
)

// classifyMode decides how the signer of the transaction relates to the
// wallets in the map.  It returns true when the transaction is accepted
// without per-wallet verification, and false when every wallet must be
// verified as a guest operation.
//
// The wallets are scanned in the order they were first seen and the first
// one that involves the caller decides the outcome:
//
//   - When the caller is the script target, the first wallet decides.  If it
//     is owned by the target this is sudo mode, where the target maintains
//     its own package configuration cells, so any state the wallet carries
//     only needs to decode as a configuration.  Otherwise the caller is a
//     guest operating on composer wallets.
//   - When the caller owns a wallet, the caller is the composer moving
//     capacity out of it, which must leave the package state untouched.
//
// Deciding on the first match is only sound because every wallet appears
// once per transaction and a caller can hold only one role, so no later
// wallet could change the outcome.
func classifyMode(caller digest.Identity, target []byte, m *verifyDataMap) (bool, error) {
	callerIsTarget := bytes.Equal(caller[:], target)
	for _, entry := range m.Entries() {
		if callerIsTarget {
			if !bytes.Equal(entry.OwnerArgs, target) {
				log.Debugf("Guest mode for caller %x", caller[:])
				return false, nil
			}

			if entry.Old != nil {
				if _, err := DecodePackageConfig(entry.Old.Data); err != nil {
					return false, err
				}
			}
			if entry.New != nil {
				if _, err := DecodePackageConfig(entry.New.Data); err != nil {
					return false, err
				}
			}
			log.Debugf("Sudo mode for caller %x on wallet lock %x",
				caller[:], entry.LockHash[:])
			return true, nil
		}

		if bytes.Equal(entry.OwnerArgs, caller[:]) {
			if entry.Old == nil || entry.New == nil ||
				!bytes.Equal(entry.Old.Data, entry.New.Data) {

				str := fmt.Sprintf("composer %x may only transfer capacity "+
					"out of wallet lock %x without changing its package "+
					"state", caller[:], entry.LockHash[:])
				return false, ruleError(ErrInvalidTransferFormat, str)
			}
			log.Debugf("Composer %x transfers capacity out of wallet lock %x",
				caller[:], entry.LockHash[:])
			return true, nil
		}
	}

	str := fmt.Sprintf("signer %x is neither the target nor the owner of any "+
		"wallet", caller[:])
	return false, ruleError(ErrInvalidSignature, str)
}
