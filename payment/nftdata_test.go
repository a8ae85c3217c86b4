// Copyright (c) 2026 The packd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package payment

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/kabletop/packd/digest"
)

// testItem returns the item id derived from a single byte, which mirrors how
// composers commonly derive item ids from an item index.
func testItem(n byte) ItemID {
	return ItemID(digest.Blake160(digest.Blake2b256, []byte{n}))
}

// testTiers returns the reference probability table with the provided
// cumulative rates applied to items 1 through len(rates).
func testTiers(rates ...uint8) []Tier {
	tiers := make([]Tier, 0, len(rates))
	for i, rate := range rates {
		tiers = append(tiers, Tier{Item: testItem(byte(i + 1)), Rate: rate})
	}
	return tiers
}

// testConfig returns the reference package configuration: 100 capacity per
// package of 5 items.
func testConfig() *PackageConfig {
	return &PackageConfig{
		UnitPrice: 100,
		UnitCount: 5,
		Tiers:     testTiers(56, 86, 101, 134, 180, 255),
	}
}

// TestStreamReader ensures the stream reader decodes fixed width fields and
// refuses reads past the end of the buffer.
func TestStreamReader(t *testing.T) {
	t.Parallel()

	item := testItem(1)
	b := []byte{0x07, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	b = append(b, item[:]...)

	r := newStreamReader(b)
	u8, err := r.readU8("u8")
	if err != nil || u8 != 0x07 {
		t.Fatalf("readU8: got %d (%v), want 7", u8, err)
	}
	u64, err := r.readU64LE("u64")
	if err != nil || u64 != 0x0807060504030201 {
		t.Fatalf("readU64LE: got %x (%v), want 0807060504030201", u64, err)
	}
	got, err := r.readItemID("item")
	if err != nil || got != item {
		t.Fatalf("readItemID: got %x (%v), want %x", got, err, item)
	}
	if r.remaining() != 0 {
		t.Fatalf("unexpected remaining bytes: %d", r.remaining())
	}
	if _, err := r.readU8("u8"); !errors.Is(err, ErrInvalidNFTData) {
		t.Fatalf("read past end: got %v, want %v", err, ErrInvalidNFTData)
	}

	// A failed read must not advance the cursor.
	r = newStreamReader([]byte{1, 2, 3})
	if _, err := r.readU64LE("u64"); !errors.Is(err, ErrInvalidNFTData) {
		t.Fatalf("short u64: got %v, want %v", err, ErrInvalidNFTData)
	}
	if r.remaining() != 3 {
		t.Fatalf("cursor advanced on failed read: %d remaining", r.remaining())
	}
}

// TestDecodePackageConfig ensures package configurations decode to the
// expected values and malformed configurations are rejected.
func TestDecodePackageConfig(t *testing.T) {
	t.Parallel()

	valid := testConfig()
	validBytes := valid.Serialize()

	single := &PackageConfig{UnitPrice: 1, UnitCount: 1,
		Tiers: testTiers(0)}

	swapped := testConfig()
	swapped.Tiers[0].Rate, swapped.Tiers[1].Rate = 86, 56

	equalRates := &PackageConfig{UnitPrice: 7, UnitCount: 2,
		Tiers: testTiers(128, 128, 255)}

	tests := []struct {
		name    string
		data    []byte
		want    *PackageConfig
		wantErr error
	}{{
		name: "reference config",
		data: validBytes,
		want: valid,
	}, {
		name: "single catch-all tier",
		data: single.Serialize(),
		want: single,
	}, {
		name: "equal adjacent rates",
		data: equalRates.Serialize(),
		want: equalRates,
	}, {
		name:    "empty",
		data:    nil,
		wantErr: ErrInvalidNFTData,
	}, {
		name:    "header only",
		data:    validBytes[:configHeaderSize],
		wantErr: ErrInvalidNFTData,
	}, {
		name:    "truncated tier",
		data:    validBytes[:len(validBytes)-1],
		wantErr: ErrInvalidNFTData,
	}, {
		name:    "trailing byte",
		data:    append(append([]byte{}, validBytes...), 0xff),
		wantErr: ErrInvalidNFTData,
	}, {
		name:    "decreasing rates",
		data:    swapped.Serialize(),
		wantErr: ErrInvalidNFTData,
	}}

	for _, test := range tests {
		cfg, err := DecodePackageConfig(test.data)
		if !errors.Is(err, test.wantErr) {
			t.Errorf("%q: unexpected error -- got %v, want %v", test.name,
				err, test.wantErr)
			continue
		}
		if test.wantErr != nil {
			continue
		}
		if !reflect.DeepEqual(cfg, test.want) {
			t.Errorf("%q: mismatched config -- got %v, want %v", test.name,
				spew.Sdump(cfg), spew.Sdump(test.want))
			continue
		}
		if !bytes.Equal(cfg.Serialize(), test.data) {
			t.Errorf("%q: re-serialized config differs", test.name)
		}
	}
}

// TestPackageConfigLayout ensures the serialized configuration follows the
// documented little-endian layout.
func TestPackageConfigLayout(t *testing.T) {
	t.Parallel()

	cfg := &PackageConfig{UnitPrice: 0x0102, UnitCount: 5,
		Tiers: testTiers(255)}
	b := cfg.Serialize()
	if len(b) != cfg.SerializeSize() || len(b) != 30 {
		t.Fatalf("unexpected size %d (SerializeSize %d), want 30", len(b),
			cfg.SerializeSize())
	}
	wantHeader := []byte{0x02, 0x01, 0, 0, 0, 0, 0, 0, 5}
	if !bytes.Equal(b[:configHeaderSize], wantHeader) {
		t.Fatalf("unexpected header %x, want %x", b[:configHeaderSize],
			wantHeader)
	}
	item := testItem(1)
	if !bytes.Equal(b[configHeaderSize:configHeaderSize+ItemIDSize], item[:]) {
		t.Fatalf("unexpected tier item %x", b[configHeaderSize:])
	}
	if b[len(b)-1] != 255 {
		t.Fatalf("unexpected tier rate %d", b[len(b)-1])
	}
}

// TestDecodeCollection ensures collections decode every item and malformed
// collections are rejected.
func TestDecodeCollection(t *testing.T) {
	t.Parallel()

	items := Collection{testItem(1), testItem(2), testItem(3)}
	b := items.Serialize()

	tests := []struct {
		name    string
		data    []byte
		want    Collection
		wantErr error
	}{{
		name: "three items",
		data: b,
		want: items,
	}, {
		name: "one item",
		data: b[:ItemIDSize],
		want: items[:1],
	}, {
		name:    "empty",
		data:    []byte{},
		wantErr: ErrInvalidNFTData,
	}, {
		name:    "partial item",
		data:    b[:ItemIDSize+1],
		wantErr: ErrInvalidNFTData,
	}, {
		name:    "short",
		data:    b[:ItemIDSize-1],
		wantErr: ErrInvalidNFTData,
	}}

	for _, test := range tests {
		got, err := DecodeCollection(test.data)
		if !errors.Is(err, test.wantErr) {
			t.Errorf("%q: unexpected error -- got %v, want %v", test.name,
				err, test.wantErr)
			continue
		}
		if test.wantErr != nil {
			continue
		}
		if !reflect.DeepEqual(got, test.want) {
			t.Errorf("%q: mismatched collection -- got %v, want %v",
				test.name, spew.Sdump(got), spew.Sdump(test.want))
		}
	}
}
