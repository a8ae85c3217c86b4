// Copyright (c) 2026 The packd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package payment_test

import (
	"errors"
	"fmt"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/kabletop/packd/digest"
	"github.com/kabletop/packd/ledger"
	"github.com/kabletop/packd/payment"
	"github.com/kabletop/packd/signature"
)

// This example demonstrates decoding a package configuration of 100 capacity
// per package of 5 items drawn from two tiers.
func ExampleDecodePackageConfig() {
	cfg := &payment.PackageConfig{
		UnitPrice: 100,
		UnitCount: 5,
		Tiers: []payment.Tier{
			{Item: payment.ItemID{0x01}, Rate: 200},
			{Item: payment.ItemID{0x02}, Rate: 255},
		},
	}
	decoded, err := payment.DecodePackageConfig(cfg.Serialize())
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("price %d, %d items, %d tiers\n", decoded.UnitPrice,
		decoded.UnitCount, len(decoded.Tiers))

	// Output:
	// price 100, 5 items, 2 tiers
}

// This example demonstrates verifying a guest buying two packages from a
// composer wallet.
func ExampleVerify() {
	composerKey := secp256k1.PrivKeyFromBytes([]byte{0x01})
	userKey := secp256k1.PrivKeyFromBytes([]byte{0x02})
	composer := signature.Identity(digest.Blake2b256, composerKey.PubKey())
	user := signature.Identity(digest.Blake2b256, userKey.PubKey())

	walletCode := chainhash.Hash{0x01}
	paymentCode := chainhash.Hash{0x02}
	wallet := ledger.Script{CodeHash: walletCode, Args: composer[:]}
	pay := ledger.Script{CodeHash: paymentCode, Args: user[:]}
	cfgType := ledger.Script{CodeHash: paymentCode, Args: composer[:]}
	cfg := &payment.PackageConfig{
		UnitPrice: 100,
		UnitCount: 5,
		Tiers:     []payment.Tier{{Item: payment.ItemID{0x01}, Rate: 255}},
	}

	tx := &ledger.Tx{
		Hash: chainhash.HashH([]byte("purchase")),
		Inputs: []ledger.Input{{Cell: ledger.Cell{Capacity: 1000,
			Lock: wallet, Type: &pay, Data: []byte{0}}}},
		Outputs: []ledger.Cell{{Capacity: 1150, Lock: wallet, Type: &pay,
			Data: []byte{2}}},
		CellDeps: []ledger.Cell{{Lock: wallet, Type: &cfgType,
			Data: cfg.Serialize()}},
	}
	tx.Witnesses = [][]byte{signature.Sign(userKey, tx.Hash)}

	view := ledger.NewView(tx, pay, ledger.TypeGroup, digest.Blake2b256)
	err := payment.Verify(view, digest.Blake2b256)
	fmt.Println(errors.Is(err, payment.ErrInsufficientCapacity))

	tx.Outputs[0].Capacity = 1200
	view = ledger.NewView(tx, pay, ledger.TypeGroup, digest.Blake2b256)
	fmt.Println(payment.Verify(view, digest.Blake2b256))

	// Output:
	// true
	// <nil>
}
