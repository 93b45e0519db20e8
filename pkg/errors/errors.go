// Package errors provides error handling for fixtures.
//
// It re-exports github.com/cockroachdb/errors and defines the sentinel
// errors every registry and generator reports through. Callers classify
// failures with Is:
//
//	if errors.Is(err, errors.ErrGeneratorNotFound) {
//	    // register a generator for the type
//	}
//
// Wrapping keeps the sentinel visible while adding context:
//
//	return errors.Wrapf(ErrIllegalArgument, "generator at index %d is nil", i)
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
	Mark         = crdb.Mark
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
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Sentinel errors. Wrap them with Wrapf or attach them with Mark so the
// classification survives added context.
var (
	// ErrGeneratorNotFound indicates no registered generator supports the
	// requested value type.
	ErrGeneratorNotFound = New("generator not found")

	// ErrUnsupportedValueType indicates a generator was invoked for a type
	// its Supports predicate rejects.
	ErrUnsupportedValueType = New("unsupported value type")

	// ErrGenerationFailure indicates an underlying construction step failed.
	// The original cause stays reachable through Unwrap.
	ErrGenerationFailure = New("generation failure")

	// ErrIllegalArgument indicates invalid registry input or a parameters
	// type that cannot be instantiated.
	ErrIllegalArgument = New("illegal argument")
)

// GenerationFailure wraps cause with msg and marks it as ErrGenerationFailure.
func GenerationFailure(cause error, format string, args ...interface{}) error {
	if cause == nil {
		return Wrapf(ErrGenerationFailure, format, args...)
	}
	return Mark(Wrapf(cause, format, args...), ErrGenerationFailure)
}

// IllegalArgument returns an ErrIllegalArgument carrying a formatted reason.
func IllegalArgument(format string, args ...interface{}) error {
	return Wrapf(ErrIllegalArgument, format, args...)
}
