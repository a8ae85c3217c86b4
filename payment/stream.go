// Copyright (c) 2026 The packd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package payment

import (
	"encoding/binary"
	"fmt"
)

// streamReader reads fixed width fields sequentially from a byte buffer.
// Each read advances the cursor by the width of the field.  There is no
// backtracking, so callers validate the total length of a record before
// decoding it and a short read only surfaces as an error on malformed input.
type streamReader struct {
	b   []byte
	pos int
}

// newStreamReader returns a reader positioned at the start of b.
func newStreamReader(b []byte) *streamReader {
	return &streamReader{b: b}
}

// remaining returns the number of unread bytes.
func (r *streamReader) remaining() int {
	return len(r.b) - r.pos
}

// readExact returns the next n bytes.
func (r *streamReader) readExact(n int, field string) ([]byte, error) {
	if n < 0 || r.remaining() < n {
		str := fmt.Sprintf("unexpected end of data reading %s at offset %d "+
			"(%d bytes remaining, %d needed)", field, r.pos, r.remaining(), n)
		return nil, ruleError(ErrInvalidNFTData, str)
	}
	start := r.pos
	r.pos += n
	return r.b[start:r.pos], nil
}

// readU8 reads a single byte.
func (r *streamReader) readU8(field string) (uint8, error) {
	b, err := r.readExact(1, field)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// readU64LE reads a little-endian uint64.
func (r *streamReader) readU64LE(field string) (uint64, error) {
	b, err := r.readExact(8, field)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// readItemID reads a 20-byte item id.
func (r *streamReader) readItemID(field string) (ItemID, error) {
	var id ItemID
	b, err := r.readExact(ItemIDSize, field)
	if err != nil {
		return id, err
	}
	copy(id[:], b)
	return id, nil
}
