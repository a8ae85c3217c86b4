// Copyright (c) 2026 The packd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package payment

import (
	"encoding/binary"
	"fmt"
)

const (
	// ItemIDSize is the size of an item id.
	ItemIDSize = 20

	// configHeaderSize is the size of the unit price and unit count fields
	// that lead a package configuration.
	configHeaderSize = 8 + 1

	// tierSize is the size of one serialized tier.
	tierSize = ItemIDSize + 1
)

// ItemID identifies an item that may be drawn from a package.
type ItemID [ItemIDSize]byte

// Tier is a bucket of the package probability table.  Rate is cumulative:
// a draw below Rate that is not below the rate of any earlier tier selects
// Item.
type Tier struct {
	Item ItemID
	Rate uint8
}

// PackageConfig is the package issuance rule published by a composer.
//
// The serialized form is:
//
//	unit_price (u64le) | unit_count (u8) | (item (20) | rate (u8)){k >= 1}
type PackageConfig struct {
	// UnitPrice is the capacity charged per package.
	UnitPrice uint64

	// UnitCount is the number of items a package reveals.
	UnitCount uint8

	// Tiers is the probability table ordered by non-decreasing rate.  The
	// last tier absorbs every draw not covered by an earlier tier.
	Tiers []Tier
}

// DecodePackageConfig decodes and validates a serialized package
// configuration.  The data must consist of the header followed by at least
// one tier with nothing left over, and the tier rates must be non-decreasing.
func DecodePackageConfig(b []byte) (*PackageConfig, error) {
	if len(b) < configHeaderSize+tierSize ||
		(len(b)-configHeaderSize)%tierSize != 0 {

		str := fmt.Sprintf("package config is %d bytes, want %d + %d*k "+
			"for k >= 1", len(b), configHeaderSize, tierSize)
		return nil, ruleError(ErrInvalidNFTData, str)
	}
	numTiers := (len(b) - configHeaderSize) / tierSize

	r := newStreamReader(b)
	var cfg PackageConfig
	var err error
	if cfg.UnitPrice, err = r.readU64LE("unit price"); err != nil {
		return nil, err
	}
	if cfg.UnitCount, err = r.readU8("unit count"); err != nil {
		return nil, err
	}
	cfg.Tiers = make([]Tier, 0, numTiers)
	for i := 0; i < numTiers; i++ {
		var tier Tier
		if tier.Item, err = r.readItemID("tier item"); err != nil {
			return nil, err
		}
		if tier.Rate, err = r.readU8("tier rate"); err != nil {
			return nil, err
		}
		if i > 0 && tier.Rate < cfg.Tiers[i-1].Rate {
			str := fmt.Sprintf("tier %d rate %d is below the rate %d of the "+
				"preceding tier", i, tier.Rate, cfg.Tiers[i-1].Rate)
			return nil, ruleError(ErrInvalidNFTData, str)
		}
		cfg.Tiers = append(cfg.Tiers, tier)
	}
	return &cfg, nil
}

// SerializeSize returns the number of bytes it would take to serialize the
// configuration.
func (c *PackageConfig) SerializeSize() int {
	return configHeaderSize + len(c.Tiers)*tierSize
}

// Serialize returns the serialized form of the configuration.
func (c *PackageConfig) Serialize() []byte {
	b := make([]byte, 0, c.SerializeSize())
	b = binary.LittleEndian.AppendUint64(b, c.UnitPrice)
	b = append(b, c.UnitCount)
	for i := range c.Tiers {
		b = append(b, c.Tiers[i].Item[:]...)
		b = append(b, c.Tiers[i].Rate)
	}
	return b
}

// Collection is an ordered list of revealed items.  The serialized form is
// the concatenation of the item ids.
type Collection []ItemID

// DecodeCollection decodes a serialized collection, which must be a non-empty
// exact multiple of the item id size.
func DecodeCollection(b []byte) (Collection, error) {
	if len(b) == 0 || len(b)%ItemIDSize != 0 {
		str := fmt.Sprintf("collection is %d bytes, want a non-zero "+
			"multiple of %d", len(b), ItemIDSize)
		return nil, ruleError(ErrInvalidNFTData, str)
	}

	r := newStreamReader(b)
	items := make(Collection, 0, len(b)/ItemIDSize)
	for r.remaining() > 0 {
		item, err := r.readItemID("collection item")
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Serialize returns the serialized form of the collection.
func (c Collection) Serialize() []byte {
	b := make([]byte, 0, len(c)*ItemIDSize)
	for i := range c {
		b = append(b, c[i][:]...)
	}
	return b
}
