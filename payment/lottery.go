// Copyright (c) 2026 The packd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package payment

import (
	"github.com/kabletop/packd/digest"
)

// Lottery is the deterministic draw sequence seeded by a sealed header.
//
// The sequence starts with the digest of the header.  Whenever a draw past
// the end of the sequence is requested, the digest of the entire sequence so
// far is appended to it.  Each draw is a single byte of the sequence, so the
// draws are a pure function of the header bytes, the hash provider, and the
// draw index.
//
// A Lottery is not safe for concurrent use.
type Lottery struct {
	hashFn digest.Func
	buf    []byte
}

// NewLottery returns the draw sequence seeded by the serialized header.
func NewLottery(hashFn digest.Func, header []byte) *Lottery {
	seed := hashFn(header)
	buf := make([]byte, digest.Size, 4*digest.Size)
	copy(buf, seed[:])
	return &Lottery{hashFn: hashFn, buf: buf}
}

// Draw returns the draw at index i, extending the sequence as needed.
func (l *Lottery) Draw(i int) uint8 {
	for i >= len(l.buf) {
		next := l.hashFn(l.buf)
		l.buf = append(l.buf, next[:]...)
	}
	return l.buf[i]
}

// TierFor returns the tier selected by a draw: the first tier whose rate is
// above the draw, or the last tier when no rate is.  The tiers must not be
// empty.
func TierFor(draw uint8, tiers []Tier) *Tier {
	for i := range tiers {
		if draw < tiers[i].Rate {
			return &tiers[i]
		}
	}
	return &tiers[len(tiers)-1]
}

// Expected returns the n items a correct reveal against the tiers contains.
func (l *Lottery) Expected(tiers []Tier, n int) Collection {
	items := make(Collection, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, TierFor(l.Draw(i), tiers).Item)
	}
	return items
}

// VerifyReveal reports whether every revealed item is the item selected by
// the draw at the same index of the lottery seeded by header.
func VerifyReveal(hashFn digest.Func, revealed Collection, cfg *PackageConfig,
	header []byte) bool {

	if len(cfg.Tiers) == 0 {
		return false
	}
	lottery := NewLottery(hashFn, header)
	for i := range revealed {
		draw := lottery.Draw(i)
		want := TierFor(draw, cfg.Tiers).Item
		if revealed[i] != want {
			log.Debugf("Revealed item %d is %x, draw %d selects %x", i,
				revealed[i][:], draw, want[:])
			return false
		}
	}
	return true
}
