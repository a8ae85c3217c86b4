// Copyright (c) 2026 The packd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package payment

// ErrorKind identifies a kind of error.  It has full support for errors.Is and
// errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific RuleError.
const (
	// ErrEncoding indicates the script arguments are too short to hold the
	// identity of the wallet owner.
	ErrEncoding = ErrorKind("ErrEncoding")

	// ErrMissingCells indicates a cell required by the requested operation
	// is absent, such as the package configuration dependency, the wallet
	// output, or the output holding revealed items.
	ErrMissingCells = ErrorKind("ErrMissingCells")

	// ErrDuplicateInputCell indicates more than one group input is guarded
	// by the same lock.
	ErrDuplicateInputCell = ErrorKind("ErrDuplicateInputCell")

	// ErrDuplicateOutputCell indicates more than one group output is
	// guarded by the same lock.
	ErrDuplicateOutputCell = ErrorKind("ErrDuplicateOutputCell")

	// ErrDuplicateDepCell indicates more than one package configuration
	// dependency matches the same wallet.
	ErrDuplicateDepCell = ErrorKind("ErrDuplicateDepCell")

	// ErrInvalidSignature indicates the transaction signer is neither the
	// wallet owner nor the package composer of any wallet in the group.
	ErrInvalidSignature = ErrorKind("ErrInvalidSignature")

	// ErrInvalidTransferFormat indicates the composer changed the package
	// state of a wallet while transferring capacity out of it.
	ErrInvalidTransferFormat = ErrorKind("ErrInvalidTransferFormat")

	// ErrInvalidWalletCreationFormat indicates a newly created wallet does
	// not start with an idle package state.
	ErrInvalidWalletCreationFormat = ErrorKind("ErrInvalidWalletCreationFormat")

	// ErrInsufficientCapacity indicates the capacity paid into a wallet
	// does not cover the price of the purchased packages.
	ErrInsufficientCapacity = ErrorKind("ErrInsufficientCapacity")

	// ErrUnknownOperation indicates a wallet state transition that is
	// neither a payment nor a reveal.
	ErrUnknownOperation = ErrorKind("ErrUnknownOperation")

	// ErrInvalidNFTData indicates a package configuration or a revealed
	// collection is malformed.
	ErrInvalidNFTData = ErrorKind("ErrInvalidNFTData")

	// ErrRevealedNFTOutOfBound indicates more items were revealed than the
	// pending packages contain.
	ErrRevealedNFTOutOfBound = ErrorKind("ErrRevealedNFTOutOfBound")

	// ErrInvalidRevealNFTData indicates the revealed items do not match
	// the lottery drawn from the sealed header.
	ErrInvalidRevealNFTData = ErrorKind("ErrInvalidRevealNFTData")

	// ErrMissingPaymentHeader indicates a reveal spends a wallet whose
	// sealed header is not referenced by the transaction.
	ErrMissingPaymentHeader = ErrorKind("ErrMissingPaymentHeader")

	// ErrSignatureRecovery indicates the transaction signer could not be
	// recovered.
	ErrSignatureRecovery = ErrorKind("ErrSignatureRecovery")

	// ErrDataSource indicates the transaction view failed to provide
	// requested data.
	ErrDataSource = ErrorKind("ErrDataSource")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// RuleError identifies a rule violation.  It is used to indicate that
// validation of a transaction failed due to one of the many validation
// rules.  It has full support for errors.Is and errors.As, so the caller can
// ascertain the specific reason for the rule violation.
//
// RawErr contains the original error in the case where an error reported by
// a collaborator has been converted.
type RuleError struct {
	Err         error
	Description string
	RawErr      error
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped errors: the error kind and, when
// set, the original error reported by a collaborator.
func (e RuleError) Unwrap() []error {
	if e.RawErr == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.RawErr}
}

// ruleError creates a RuleError given a set of arguments.
func ruleError(kind ErrorKind, desc string) RuleError {
	return RuleError{Err: kind, Description: desc}
}

// convertedError creates a RuleError of the given kind that preserves the
// error reported by a collaborator.
func convertedError(kind ErrorKind, desc string, rawErr error) RuleError {
	return RuleError{Err: kind, Description: desc + ": " + rawErr.Error(),
		RawErr: rawErr}
}
