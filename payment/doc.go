// Copyright (c) 2026 The packd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package payment implements the payment script that guards package wallets.

A composer publishes a package configuration that prices packages and
describes the probability table of the items a package contains.  Guests buy
sealed packages by paying capacity into a wallet cell and later reveal the
contents of those packages.  The items revealed are drawn by a lottery seeded
by the block header the payment was sealed in, so anyone can replay the draw
and the composer cannot choose the outcome.

# Wallet state

The data of a wallet cell is a single byte counting the packages bought but
not yet revealed.  Zero means the wallet is idle.  A guest transaction must
perform one of the following operations on each wallet of the group:

  - Creation: a new wallet starts idle
  - Payment: an idle wallet records N pending packages and receives at least
    N times the unit price in capacity
  - Reveal: a wallet with pending packages returns to idle and an output
    holds the revealed items, which must match the lottery

The target named by the script arguments may administer its own wallets, and
a composer may transfer capacity out of a wallet as long as its state is left
untouched.

# Record formats

All integers are little endian.

	package config: unit_price (u64) | unit_count (u8) | (item (20) | rate (u8)){k >= 1}
	collection:     (item (20)){m >= 1}

# Errors

Errors returned by this package are of type payment.RuleError.  Callers can
programmatically determine the specific rule violation by using errors.Is
with the ErrorKind constants, for example:

	if errors.Is(err, payment.ErrInsufficientCapacity) {
		...
	}
*/
package payment
