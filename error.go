// Copyright (c) 2024 The namecoin-core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coinview

import "fmt"

// AssertError identifies an error that indicates an internal code consistency
// issue and should be treated as a critical and unrecoverable error: no
// history leak on delete, no undo against an absent record, no unspendable
// coin smuggled in, no reallocation of a non-empty cache.
type AssertError string

// Error satisfies the error interface.
func (e AssertError) Error() string {
	return "assertion failed: " + string(e)
}

// ErrorKind identifies a kind of logic error.  It has full support for
// errors.Is and errors.As, so the caller can directly check against an error
// kind when deciding how to react.
type ErrorKind string

// Error satisfies the error interface.
func (e ErrorKind) Error() string {
	return string(e)
}

const (
	// ErrOverwriteUnspent indicates that AddCoin was called with
	// possible_overwrite set to false, but an entry for the outpoint already
	// exists in the cache and is not spent.  This is always a logic bug in
	// the caller: it means two different transactions are trying to create
	// the same still-live outpoint.
	ErrOverwriteUnspent = ErrorKind("ErrOverwriteUnspent")

	// ErrFreshAppliedToExisting indicates that BatchWrite encountered a
	// child entry marked FRESH for an outpoint that is live in the parent
	// cache.  FRESH asserts "the parent has no live coin here"; seeing a
	// live parent coin under a FRESH child entry means the FRESH flag was
	// misapplied somewhere upstream.
	ErrFreshAppliedToExisting = ErrorKind("ErrFreshAppliedToExisting")

	// ErrNotSupported indicates that the view a caller is operating against
	// does not implement the operation requested, such as writing to a
	// read-only leaf or validating a name index that does not exist.
	ErrNotSupported = ErrorKind("ErrNotSupported")
)

// RuleError identifies a logic-error violation raised by the cache.  It has
// full support for errors.Is and errors.As so callers can check against the
// specific ErrorKind without string matching.
type RuleError struct {
	Err         error
	Description string
}

// Error satisfies the error interface.
func (e RuleError) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped ErrorKind.
func (e RuleError) Unwrap() error {
	return e.Err
}

// ruleError creates a RuleError given a kind and a descriptive message.
func ruleError(kind ErrorKind, desc string) RuleError {
	return RuleError{Err: kind, Description: desc}
}

// ruleErrorf is a convenience wrapper around ruleError that accepts a format
// string.
func ruleErrorf(kind ErrorKind, format string, args ...interface{}) RuleError {
	return ruleError(kind, fmt.Sprintf(format, args...))
}
