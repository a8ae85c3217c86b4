// Copyright (c) 2026 The packd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/wire"
)

// scriptJSON is the snapshot encoding of a Script.  Hashes and byte strings
// are hex encoded in their natural byte order.
type scriptJSON struct {
	CodeHash string `json:"code_hash"`
	HashType uint8  `json:"hash_type"`
	Args     string `json:"args"`
}

// cellJSON is the snapshot encoding of a Cell.  Header is only meaningful
// for inputs and holds a hex serialized block header.
type cellJSON struct {
	Capacity uint64      `json:"capacity"`
	Lock     scriptJSON  `json:"lock"`
	Type     *scriptJSON `json:"type,omitempty"`
	Data     string      `json:"data"`
	Header   string      `json:"header,omitempty"`
}

// txJSON is the snapshot encoding of a Tx.
type txJSON struct {
	Hash      string     `json:"hash"`
	Inputs    []cellJSON `json:"inputs"`
	Outputs   []cellJSON `json:"outputs"`
	CellDeps  []cellJSON `json:"cell_deps"`
	Witnesses []string   `json:"witnesses"`
}

// decodeHex decodes a hex field of the snapshot.
func decodeHex(s, field string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		str := fmt.Sprintf("malformed %s: %v", field, err)
		return nil, ledgerError(ErrMalformedSnapshot, str)
	}
	return b, nil
}

// decodeHash decodes a hex encoded 32-byte hash field of the snapshot.
func decodeHash(s, field string) (chainhash.Hash, error) {
	var hash chainhash.Hash
	b, err := decodeHex(s, field)
	if err != nil {
		return hash, err
	}
	if len(b) != chainhash.HashSize {
		str := fmt.Sprintf("malformed %s: got %d bytes, want %d", field,
			len(b), chainhash.HashSize)
		return hash, ledgerError(ErrMalformedSnapshot, str)
	}
	copy(hash[:], b)
	return hash, nil
}

// ParseHash decodes a 32-byte hash hex encoded in its natural byte order as
// snapshots encode them.  Note this differs from chainhash.NewHashFromStr,
// which expects the byte-reversed encoding.
func ParseHash(s string) (chainhash.Hash, error) {
	return decodeHash(s, "hash")
}

func (s *scriptJSON) script(field string) (Script, error) {
	codeHash, err := decodeHash(s.CodeHash, field+".code_hash")
	if err != nil {
		return Script{}, err
	}
	args, err := decodeHex(s.Args, field+".args")
	if err != nil {
		return Script{}, err
	}
	return Script{CodeHash: codeHash, HashType: s.HashType, Args: args}, nil
}

func (c *cellJSON) cell(field string) (Cell, error) {
	lock, err := c.Lock.script(field + ".lock")
	if err != nil {
		return Cell{}, err
	}
	cell := Cell{Capacity: c.Capacity, Lock: lock}
	if c.Type != nil {
		typ, err := c.Type.script(field + ".type")
		if err != nil {
			return Cell{}, err
		}
		cell.Type = &typ
	}
	cell.Data, err = decodeHex(c.Data, field+".data")
	if err != nil {
		return Cell{}, err
	}
	return cell, nil
}

func decodeCells(cells []cellJSON, field string) ([]Cell, error) {
	out := make([]Cell, 0, len(cells))
	for i := range cells {
		if cells[i].Header != "" {
			str := fmt.Sprintf("%s[%d]: header is only allowed on inputs",
				field, i)
			return nil, ledgerError(ErrMalformedSnapshot, str)
		}
		cell, err := cells[i].cell(fmt.Sprintf("%s[%d]", field, i))
		if err != nil {
			return nil, err
		}
		out = append(out, cell)
	}
	return out, nil
}

// DecodeSnapshot decodes a JSON transaction snapshot.  Unknown fields are
// rejected so that a misspelled field cannot silently change the verdict.
func DecodeSnapshot(r io.Reader) (*Tx, error) {
	var raw txJSON
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		str := fmt.Sprintf("unable to decode snapshot: %v", err)
		return nil, ledgerError(ErrMalformedSnapshot, str)
	}

	var tx Tx
	var err error
	tx.Hash, err = decodeHash(raw.Hash, "hash")
	if err != nil {
		return nil, err
	}
	tx.Inputs = make([]Input, 0, len(raw.Inputs))
	for i := range raw.Inputs {
		field := fmt.Sprintf("inputs[%d]", i)
		cell, err := raw.Inputs[i].cell(field)
		if err != nil {
			return nil, err
		}
		input := Input{Cell: cell}
		if raw.Inputs[i].Header != "" {
			b, err := decodeHex(raw.Inputs[i].Header, field+".header")
			if err != nil {
				return nil, err
			}
			var header wire.BlockHeader
			if err := header.FromBytes(b); err != nil {
				str := fmt.Sprintf("malformed %s.header: %v", field, err)
				return nil, ledgerError(ErrMalformedSnapshot, str)
			}
			input.Header = &header
		}
		tx.Inputs = append(tx.Inputs, input)
	}
	if tx.Outputs, err = decodeCells(raw.Outputs, "outputs"); err != nil {
		return nil, err
	}
	if tx.CellDeps, err = decodeCells(raw.CellDeps, "cell_deps"); err != nil {
		return nil, err
	}
	tx.Witnesses = make([][]byte, 0, len(raw.Witnesses))
	for i, w := range raw.Witnesses {
		b, err := decodeHex(w, fmt.Sprintf("witnesses[%d]", i))
		if err != nil {
			return nil, err
		}
		tx.Witnesses = append(tx.Witnesses, b)
	}

	log.Debugf("Decoded snapshot %x: %d inputs, %d outputs, %d cell deps",
		tx.Hash[:], len(tx.Inputs), len(tx.Outputs), len(tx.CellDeps))
	return &tx, nil
}
