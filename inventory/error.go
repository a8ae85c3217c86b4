// Copyright (c) 2026 The packd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package inventory

// ErrorKind identifies a kind of error.  It has full support for errors.Is and
// errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific RuleError.
const (
	// ErrEncoding indicates the script arguments are empty.
	ErrEncoding = ErrorKind("ErrEncoding")

	// ErrMalformedItems indicates inventory data that is not a sequence of
	// item ids.
	ErrMalformedItems = ErrorKind("ErrMalformedItems")

	// ErrItemNotOwned indicates an output holds an item that no input of
	// the inventory holds.
	ErrItemNotOwned = ErrorKind("ErrItemNotOwned")

	// ErrDataSource indicates the transaction view failed to provide
	// requested data.
	ErrDataSource = ErrorKind("ErrDataSource")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// RuleError identifies a rule violation.  It has full support for errors.Is
// and errors.As, so the caller can ascertain the specific reason for the rule
// violation.
//
// RawErr contains the original error in the case where an error reported by
// the transaction view has been converted.
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
// set, the original error reported by the transaction view.
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
// error reported by the transaction view.
func convertedError(kind ErrorKind, desc string, rawErr error) RuleError {
	return RuleError{Err: kind, Description: desc + ": " + rawErr.Error(),
		RawErr: rawErr}
}
