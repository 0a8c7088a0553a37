// Package errors provides error handling for CATX.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - PII-safe error formatting
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := readLocation(loc); err != nil {
//	    return errors.Wrapf(err, "failed to read %s", loc.Target)
//	}
//
//	// Check errors
//	if errors.Is(err, errors.ErrNoReader) {
//	    // handle unreadable location
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// Mark associates an error with a reference sentinel so that Is(err, ref)
// holds while the full cause chain is preserved. Used to tag ingestion
// errors with their taxonomy sentinel without losing the underlying cause.
var Mark = crdb.Mark

// Assertions
var AssertionFailedf = crdb.AssertionFailedf

// Sentinel errors for the ingestion error taxonomy.
// Use these with errors.Is() for type-safe error checking.
// Wrap or Mark these to add context while preserving the category.
var (
	// ErrNoReader indicates no processor in the chain could read a location
	ErrNoReader = New("no processor could read this location")

	// ErrNoParser indicates no processor in the chain could parse a data payload
	ErrNoParser = New("no processor could parse this data")

	// ErrProcessorFault indicates a processor failed while handling a hook
	ErrProcessorFault = New("processor fault")

	// ErrNotAllowed indicates an entity was rejected by the admission rules
	ErrNotAllowed = New("entity not allowed")

	// ErrRoundLimit indicates the ingestion round bound was reached with work still pending
	ErrRoundLimit = New("ingestion round limit exceeded")
)

// IsUnhandledInputError checks if an error is or wraps ErrNoReader or ErrNoParser
func IsUnhandledInputError(err error) bool {
	return err != nil && IsAny(err, ErrNoReader, ErrNoParser)
}

// IsProcessorFaultError checks if an error is or wraps ErrProcessorFault
func IsProcessorFaultError(err error) bool {
	return err != nil && Is(err, ErrProcessorFault)
}

// IsPolicyError checks if an error is or wraps ErrNotAllowed
func IsPolicyError(err error) bool {
	return err != nil && Is(err, ErrNotAllowed)
}

// IsRoundLimitError checks if an error is or wraps ErrRoundLimit
func IsRoundLimitError(err error) bool {
	return err != nil && Is(err, ErrRoundLimit)
}
