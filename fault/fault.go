// Package fault holds the error classes shared by the operation, transaction
// and envelope packages. Every error names the variant or field it refers to
// so a caller can act on it without parsing strings.
package fault

import (
	"errors"
	"fmt"
)

// ValidationError is returned by a builder when a field is missing or
// violates a domain constraint.
type ValidationError struct {
	Variant string
	Field   string
	Reason  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s operation: %s %s", e.Variant, e.Field, e.Reason)
}

// Missing reports a required field that was never set.
func Missing(variant, field string) error {
	return &ValidationError{Variant: variant, Field: field, Reason: "is required"}
}

// Invalid reports a field whose value breaks a protocol rule.
func Invalid(variant, field, reason string) error {
	return &ValidationError{Variant: variant, Field: field, Reason: reason}
}

// ConversionError is returned when a caller supplied value cannot be
// represented by the target type.
type ConversionError struct {
	Field string
	Value string
	Err   error
}

func (e *ConversionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot convert %s %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("cannot convert %s %q", e.Field, e.Value)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// Convert builds a ConversionError.
func Convert(field, value string, err error) error {
	return &ConversionError{Field: field, Value: value, Err: err}
}

// CodecError wraps a failure of the XDR codec or a wire value the domain
// types cannot hold. It is never recovered from.
type CodecError struct {
	Op  string
	Err error
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("xdr %s: %v", e.Op, e.Err)
}

func (e *CodecError) Unwrap() error { return e.Err }

// Codec builds a CodecError.
func Codec(op string, err error) error {
	return &CodecError{Op: op, Err: err}
}

// AssemblyError is returned when a transaction cannot be finalized.
type AssemblyError struct {
	Field  string
	Reason string
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("cannot assemble transaction: %s %s", e.Field, e.Reason)
}

// Assembly builds an AssemblyError.
func Assembly(field, reason string) error {
	return &AssemblyError{Field: field, Reason: reason}
}

// determine the class of an error
func IsValidation(err error) bool { var e *ValidationError; return errors.As(err, &e) }
func IsConversion(err error) bool { var e *ConversionError; return errors.As(err, &e) }
func IsCodec(err error) bool      { var e *CodecError; return errors.As(err, &e) }
func IsAssembly(err error) bool   { var e *AssemblyError; return errors.As(err, &e) }

// IsCaller reports whether err was caused by bad input rather than by a
// broken payload or an internal failure.
func IsCaller(err error) bool {
	return IsValidation(err) || IsConversion(err) || IsAssembly(err)
}
