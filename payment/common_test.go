// Copyright (c) 2026 The packd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package payment

import (
	"testing"
	"time"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/wire"
	"github.com/kabletop/packd/digest"
	"github.com/kabletop/packd/ledger"
	"github.com/kabletop/packd/signature"
)

var (
	// walletCode is the code of the lock guarding wallets and the cells of
	// the parties in the tests.
	walletCode = chainhash.Hash{0x01}

	// paymentCode is the code of the payment script.
	paymentCode = chainhash.Hash{0x02}

	// itemCode is the code of the script typing revealed item outputs.
	itemCode = chainhash.Hash{0x03}
)

// testParty is a key pair taking part in a test transaction.
type testParty struct {
	key *secp256k1.PrivateKey
	id  digest.Identity
}

// newTestParty returns a party with a freshly generated key.
func newTestParty(t *testing.T) *testParty {
	t.Helper()

	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("unable to generate key: %v", err)
	}
	return &testParty{
		key: key,
		id:  signature.Identity(digest.Blake2b256, key.PubKey()),
	}
}

// lock returns the lock script guarding cells owned by the party.
func (p *testParty) lock() ledger.Script {
	return ledger.Script{
		CodeHash: walletCode,
		HashType: ledger.HashTypeType,
		Args:     p.id[:],
	}
}

// payment returns the payment script instantiated for the party.
func (p *testParty) payment() *ledger.Script {
	return &ledger.Script{
		CodeHash: paymentCode,
		HashType: ledger.HashTypeType,
		Args:     p.id[:],
	}
}

// testSealedHeader is the header every test wallet input is committed in.
var testSealedHeader = &wire.BlockHeader{
	Version:   1,
	Height:    4242,
	Timestamp: time.Unix(1700000000, 0),
	Nonce:     100,
}

// sealedHeaderBytes returns the serialized form of testSealedHeader.
func sealedHeaderBytes(t *testing.T) []byte {
	t.Helper()

	b, err := testSealedHeader.Bytes()
	if err != nil {
		t.Fatalf("unable to serialize header: %v", err)
	}
	return b
}

// txBuilder assembles test transactions.  Every input is committed in
// testSealedHeader unless headers are dropped.
type txBuilder struct {
	tx ledger.Tx
}

// newTxBuilder returns an empty transaction builder.
func newTxBuilder() *txBuilder {
	return &txBuilder{tx: ledger.Tx{Hash: chainhash.HashH([]byte("packd"))}}
}

// input adds a consumed cell.
func (b *txBuilder) input(data []byte, capacity uint64, lock ledger.Script, typ *ledger.Script) *txBuilder {
	b.tx.Inputs = append(b.tx.Inputs, ledger.Input{
		Cell: ledger.Cell{
			Capacity: capacity,
			Lock:     lock,
			Type:     typ,
			Data:     data,
		},
		Header: testSealedHeader,
	})
	return b
}

// output adds a created cell.
func (b *txBuilder) output(data []byte, capacity uint64, lock ledger.Script, typ *ledger.Script) *txBuilder {
	b.tx.Outputs = append(b.tx.Outputs, ledger.Cell{
		Capacity: capacity,
		Lock:     lock,
		Type:     typ,
		Data:     data,
	})
	return b
}

// dep adds a cell dependency.
func (b *txBuilder) dep(data []byte, lock ledger.Script, typ *ledger.Script) *txBuilder {
	b.tx.CellDeps = append(b.tx.CellDeps, ledger.Cell{
		Lock: lock,
		Type: typ,
		Data: data,
	})
	return b
}

// configDep adds the package configuration published by the composer.
func (b *txBuilder) configDep(composer *testParty, cfg *PackageConfig) *txBuilder {
	return b.dep(cfg.Serialize(), composer.lock(), composer.payment())
}

// reveal adds an output holding items revealed from the wallet guarded by
// walletLock.
func (b *txBuilder) reveal(owner *testParty, walletLock ledger.Script, data []byte) *txBuilder {
	lockHash := walletLock.Hash(digest.Blake2b256)
	return b.output(data, 100, owner.lock(), &ledger.Script{
		CodeHash: itemCode,
		HashType: ledger.HashTypeType,
		Args:     lockHash[:],
	})
}

// withoutHeaders drops the header references of every input.
func (b *txBuilder) withoutHeaders() *txBuilder {
	for i := range b.tx.Inputs {
		b.tx.Inputs[i].Header = nil
	}
	return b
}

// sign sets the witness of every input to a signature by the party.
func (b *txBuilder) sign(p *testParty) *txBuilder {
	sig := signature.Sign(p.key, b.tx.Hash)
	b.tx.Witnesses = make([][]byte, len(b.tx.Inputs))
	for i := range b.tx.Witnesses {
		b.tx.Witnesses[i] = sig
	}
	return b
}

// view returns the view of the transaction for the payment script.
func (b *txBuilder) view(script *ledger.Script) *ledger.View {
	return ledger.NewView(&b.tx, *script, ledger.TypeGroup, digest.Blake2b256)
}

// verify runs the payment script against the transaction.
func (b *txBuilder) verify(script *ledger.Script) error {
	return Verify(b.view(script), digest.Blake2b256)
}
