// Copyright (c) 2026 The packd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package inventory implements the type script of cells holding revealed
// items.
//
// The script arguments hold the lock hash of the wallet the items were
// revealed from.  A transaction consuming a cell guarded by that lock may
// create any inventory, which is how a reveal mints items.  Any other
// transaction may only move items: every item held by an output of the
// inventory must be held by one of its inputs.
package inventory

import (
	"bytes"
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/decred/slog"
	"github.com/kabletop/packd/ledger"
	"github.com/kabletop/packd/payment"
)

// TxView is the read-only view of a transaction the inventory script runs
// against.  It is satisfied by *ledger.View.
type TxView interface {
	Script() ledger.Script
	Cells(src ledger.Source) ([]ledger.CellInfo, error)
}

var _ TxView = (*ledger.View)(nil)

// collectItems returns the items held by the cells of the source.  The data
// of each cell must be a possibly empty sequence of item ids.
func collectItems(view TxView, src ledger.Source) ([]payment.ItemID, error) {
	cells, err := view.Cells(src)
	if err != nil {
		str := fmt.Sprintf("unable to load %s cells", src)
		return nil, convertedError(ErrDataSource, str, err)
	}

	var items []payment.ItemID
	for i := range cells {
		data := cells[i].Data
		if len(data)%payment.ItemIDSize != 0 {
			str := fmt.Sprintf("%s cell %d holds %d bytes, want a multiple "+
				"of %d", src, i, len(data), payment.ItemIDSize)
			return nil, ruleError(ErrMalformedItems, str)
		}
		for len(data) > 0 {
			var item payment.ItemID
			copy(item[:], data)
			items = append(items, item)
			data = data[payment.ItemIDSize:]
		}
	}
	return items, nil
}

// isOwner reports whether the transaction consumes a cell locked by the lock
// whose hash is args.
func isOwner(view TxView, args []byte) (bool, error) {
	inputs, err := view.Cells(ledger.SourceInput)
	if err != nil {
		return false, convertedError(ErrDataSource, "unable to load inputs",
			err)
	}
	for i := range inputs {
		if bytes.Equal(inputs[i].LockHash[:], args) {
			return true, nil
		}
	}
	return false, nil
}

// Verify runs the inventory script against the transaction view.
func Verify(view TxView) error {
	args := view.Script().Args
	if len(args) == 0 {
		return ruleError(ErrEncoding, "script args are empty")
	}

	ok, err := isOwner(view, args)
	if err != nil {
		return err
	}
	if ok {
		log.Debugf("Owner %x mints inventory", args)
		return nil
	}

	inputs, err := collectItems(view, ledger.SourceGroupInput)
	if err != nil {
		return err
	}
	outputs, err := collectItems(view, ledger.SourceGroupOutput)
	if err != nil {
		return err
	}
	if log.Level() <= slog.LevelTrace {
		log.Tracef("Inventory of %x moves %v to %v", args,
			spew.Sdump(inputs), spew.Sdump(outputs))
	}

	owned := make(map[payment.ItemID]struct{}, len(inputs))
	for _, item := range inputs {
		owned[item] = struct{}{}
	}
	for i, item := range outputs {
		if _, ok := owned[item]; !ok {
			str := fmt.Sprintf("output item %d (%x) is not held by any "+
				"input", i, item[:])
			return ruleError(ErrItemNotOwned, str)
		}
	}
	return nil
}
