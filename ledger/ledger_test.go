// Copyright (c) 2026 The packd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/wire"
	"github.com/kabletop/packd/digest"
	"github.com/kabletop/packd/signature"
)

var (
	lockCode = chainhash.Hash{0x01}
	typeCode = chainhash.Hash{0x02}
)

// testHeader returns a deterministic block header.
func testHeader() *wire.BlockHeader {
	return &wire.BlockHeader{
		Version:   1,
		Height:    100,
		Timestamp: time.Unix(1700000000, 0),
		Nonce:     7,
	}
}

// TestScriptHash ensures script identities depend on every script field.
func TestScriptHash(t *testing.T) {
	t.Parallel()

	base := Script{CodeHash: lockCode, HashType: HashTypeType, Args: []byte{1}}
	variants := []Script{
		{CodeHash: typeCode, HashType: HashTypeType, Args: []byte{1}},
		{CodeHash: lockCode, HashType: HashTypeData, Args: []byte{1}},
		{CodeHash: lockCode, HashType: HashTypeType, Args: []byte{2}},
		{CodeHash: lockCode, HashType: HashTypeType, Args: nil},
	}
	baseHash := base.Hash(digest.Blake2b256)
	if got := base.Hash(digest.Blake2b256); got != baseHash {
		t.Fatalf("script hash is not deterministic: %x != %x", got, baseHash)
	}
	for i, v := range variants {
		if v.Hash(digest.Blake2b256) == baseHash {
			t.Errorf("#%d: variant %+v collides with base script", i, v)
		}
		if v.Equal(&base) {
			t.Errorf("#%d: variant %+v reported equal to base script", i, v)
		}
	}
	if got := len(base.Serialize()); got != base.SerializeSize() {
		t.Fatalf("serialize size mismatch: got %d, want %d", got,
			base.SerializeSize())
	}
}

// TestViewGroups ensures the view selects group cells by lock or type script
// and pairs headers with group inputs.
func TestViewGroups(t *testing.T) {
	t.Parallel()

	typeScript := Script{CodeHash: typeCode, HashType: HashTypeType,
		Args: []byte{0xaa}}
	lockA := Script{CodeHash: lockCode, HashType: HashTypeType, Args: []byte{1}}
	lockB := Script{CodeHash: lockCode, HashType: HashTypeType, Args: []byte{2}}
	header := testHeader()

	tx := &Tx{
		Inputs: []Input{
			{Cell: Cell{Capacity: 10, Lock: lockA}},
			{Cell: Cell{Capacity: 20, Lock: lockB, Type: &typeScript},
				Header: header},
			{Cell: Cell{Capacity: 30, Lock: lockA, Type: &typeScript}},
		},
		Outputs: []Cell{
			{Capacity: 5, Lock: lockB, Type: &typeScript, Data: []byte{0}},
			{Capacity: 6, Lock: lockA},
		},
		CellDeps: []Cell{{Capacity: 1, Lock: lockA}},
	}

	tv := NewView(tx, typeScript, TypeGroup, digest.Blake2b256)
	groupIn, err := tv.Cells(SourceGroupInput)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groupIn) != 2 || groupIn[0].Capacity != 20 ||
		groupIn[1].Capacity != 30 {
		t.Fatalf("unexpected type group inputs: %+v", groupIn)
	}
	groupOut, _ := tv.Cells(SourceGroupOutput)
	if len(groupOut) != 1 || groupOut[0].Capacity != 5 {
		t.Fatalf("unexpected type group outputs: %+v", groupOut)
	}
	if groupIn[0].LockHash != lockB.Hash(digest.Blake2b256) {
		t.Fatal("group input lock hash mismatch")
	}

	wantHeader, err := header.Bytes()
	if err != nil {
		t.Fatalf("unable to serialize header: %v", err)
	}
	got, ok, err := tv.GroupInputHeader(0)
	if err != nil || !ok || !bytes.Equal(got, wantHeader) {
		t.Fatalf("unexpected header for group input 0: %x, %v, %v", got, ok,
			err)
	}
	if _, ok, err := tv.GroupInputHeader(1); ok || err != nil {
		t.Fatalf("unexpected header for group input 1: %v, %v", ok, err)
	}
	if _, _, err := tv.GroupInputHeader(2); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("unexpected error for group input 2: %v", err)
	}

	lv := NewView(tx, lockA, LockGroup, digest.Blake2b256)
	groupIn, _ = lv.Cells(SourceGroupInput)
	if len(groupIn) != 2 || groupIn[0].Capacity != 10 ||
		groupIn[1].Capacity != 30 {
		t.Fatalf("unexpected lock group inputs: %+v", groupIn)
	}
	all, _ := lv.Cells(SourceInput)
	deps, _ := lv.Cells(SourceCellDep)
	if len(all) != 3 || len(deps) != 1 {
		t.Fatalf("unexpected input/dep counts: %d/%d", len(all), len(deps))
	}
	if _, err := lv.Cells(Source(99)); !errors.Is(err, ErrUnknownSource) {
		t.Fatalf("unexpected error for unknown source: %v", err)
	}
}

// TestRecoverSigner ensures the view recovers the signer of an input witness.
func TestRecoverSigner(t *testing.T) {
	t.Parallel()

	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("unable to generate key: %v", err)
	}
	lock := Script{CodeHash: lockCode, Args: []byte{1}}
	tx := &Tx{
		Hash: chainhash.HashH([]byte("tx")),
		Inputs: []Input{
			{Cell: Cell{Lock: lock}},
			{Cell: Cell{Lock: lock}},
		},
	}
	tx.Witnesses = [][]byte{signature.Sign(key, tx.Hash)}

	v := NewView(tx, lock, LockGroup, digest.Blake2b256)
	id, err := v.RecoverSigner(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := signature.Identity(digest.Blake2b256, key.PubKey()); id != want {
		t.Fatalf("mismatched signer -- got %x, want %x", id, want)
	}
	if _, err := v.RecoverSigner(1); !errors.Is(err, ErrMissingWitness) {
		t.Fatalf("unexpected error for missing witness: %v", err)
	}
	if _, err := v.RecoverSigner(2); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("unexpected error for out of range input: %v", err)
	}
}

// TestScriptGroups ensures groups are reported once each in first appearance
// order with lock groups of inputs preceding type groups.
func TestScriptGroups(t *testing.T) {
	t.Parallel()

	lockA := Script{CodeHash: lockCode, Args: []byte{1}}
	lockB := Script{CodeHash: lockCode, Args: []byte{2}}
	typeA := Script{CodeHash: typeCode, Args: []byte{1}}
	typeB := Script{CodeHash: typeCode, Args: []byte{2}}
	tx := &Tx{
		Inputs: []Input{
			{Cell: Cell{Lock: lockA, Type: &typeA}},
			{Cell: Cell{Lock: lockB}},
			{Cell: Cell{Lock: lockA, Type: &typeA}},
		},
		Outputs: []Cell{
			{Lock: lockB, Type: &typeB},
			{Lock: lockA, Type: &typeA},
		},
	}

	groups := ScriptGroups(tx, digest.Blake2b256)
	want := []struct {
		script Script
		kind   GroupKind
	}{
		{lockA, LockGroup},
		{lockB, LockGroup},
		{typeA, TypeGroup},
		{typeB, TypeGroup},
	}
	if len(groups) != len(want) {
		t.Fatalf("unexpected number of groups: got %d, want %d", len(groups),
			len(want))
	}
	for i, w := range want {
		if !groups[i].Script.Equal(&w.script) || groups[i].Kind != w.kind {
			t.Errorf("#%d: unexpected group %+v", i, groups[i])
		}
	}
}

// TestDecodeSnapshot ensures well-formed snapshots decode and malformed ones
// are rejected with ErrMalformedSnapshot.
func TestDecodeSnapshot(t *testing.T) {
	t.Parallel()

	headerBytes, err := testHeader().Bytes()
	if err != nil {
		t.Fatalf("unable to serialize header: %v", err)
	}
	hash := strings.Repeat("11", 32)
	code := strings.Repeat("22", 32)
	good := fmt.Sprintf(`{
		"hash": "%s",
		"inputs": [{"capacity": 1000,
			"lock": {"code_hash": "%s", "hash_type": 1, "args": "aa"},
			"type": {"code_hash": "%s", "hash_type": 1, "args": "bb"},
			"data": "00", "header": "%s"}],
		"outputs": [{"capacity": 1200,
			"lock": {"code_hash": "%s", "hash_type": 1, "args": "aa"},
			"data": "02"}],
		"cell_deps": [],
		"witnesses": ["0102"]
	}`, hash, code, code, hex.EncodeToString(headerBytes), code)

	tx, err := DecodeSnapshot(strings.NewReader(good))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.Hash[0] != 0x11 || len(tx.Inputs) != 1 || len(tx.Outputs) != 1 {
		t.Fatalf("unexpected decoded tx: %+v", tx)
	}
	in := tx.Inputs[0]
	if in.Capacity != 1000 || in.Type == nil || in.Type.Args[0] != 0xbb ||
		in.Header == nil || in.Header.Height != 100 {
		t.Fatalf("unexpected decoded input: %+v", in)
	}
	if tx.Outputs[0].Type != nil || !bytes.Equal(tx.Outputs[0].Data, []byte{2}) {
		t.Fatalf("unexpected decoded output: %+v", tx.Outputs[0])
	}
	if len(tx.Witnesses) != 1 || !bytes.Equal(tx.Witnesses[0], []byte{1, 2}) {
		t.Fatalf("unexpected witnesses: %x", tx.Witnesses)
	}

	tests := []struct {
		name string
		json string
	}{{
		name: "not json",
		json: "{",
	}, {
		name: "unknown field",
		json: fmt.Sprintf(`{"hash": "%s", "extra": 1}`, hash),
	}, {
		name: "short hash",
		json: `{"hash": "1111"}`,
	}, {
		name: "bad data hex",
		json: fmt.Sprintf(`{"hash": "%s", "outputs": [{"lock": {"code_hash":
			"%s", "args": ""}, "data": "zz"}]}`, hash, code),
	}, {
		name: "header on output",
		json: fmt.Sprintf(`{"hash": "%s", "outputs": [{"lock": {"code_hash":
			"%s", "args": ""}, "data": "", "header": "00"}]}`, hash, code),
	}, {
		name: "truncated header",
		json: fmt.Sprintf(`{"hash": "%s", "inputs": [{"lock": {"code_hash":
			"%s", "args": ""}, "data": "", "header": "0100"}]}`, hash, code),
	}}

	for _, test := range tests {
		_, err := DecodeSnapshot(strings.NewReader(test.json))
		if !errors.Is(err, ErrMalformedSnapshot) {
			t.Errorf("%s: unexpected error: %v", test.name, err)
		}
	}
}
