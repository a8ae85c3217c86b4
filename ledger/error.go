// Copyright (c) 2026 The packd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

// ErrorKind identifies a kind of error.  It has full support for errors.Is and
// errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrUnknownSource indicates a cell source that the view does not
	// provide was requested.
	ErrUnknownSource = ErrorKind("ErrUnknownSource")

	// ErrIndexOutOfRange indicates a cell, header, or witness was requested
	// by an index past the end of its source.
	ErrIndexOutOfRange = ErrorKind("ErrIndexOutOfRange")

	// ErrMissingWitness indicates the witness needed to recover a signer is
	// absent.
	ErrMissingWitness = ErrorKind("ErrMissingWitness")

	// ErrSerializeHeader indicates a sealed header could not be serialized.
	ErrSerializeHeader = ErrorKind("ErrSerializeHeader")

	// ErrMalformedSnapshot indicates a transaction snapshot could not be
	// decoded.
	ErrMalformedSnapshot = ErrorKind("ErrMalformedSnapshot")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies an error related to reading ledger data.  It has full
// support for errors.Is and errors.As, so the caller can ascertain the
// specific reason for the error by checking the underlying error.
type Error struct {
	Err         error
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e Error) Unwrap() error {
	return e.Err
}

// ledgerError creates an Error given a set of arguments.
func ledgerError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}
