// Package errors provides structured error types for cpkg.
//
// Every failure the installer can report carries a machine-readable [Code],
// which lets the CLI tell fatal catalog problems apart from per-package
// problems that only halt one package of a dependency walk.
//
// # Error Codes
//
//   - REGISTRY_*: the catalog could not be obtained; fatal to the command
//   - UNKNOWN_PACKAGE, CHECKOUT_FAILED, DEPENDENCY_FAILED: per-package failures
//   - BUILD_INTEGRATION_SKIPPED: a diagnostic, never a failure
//   - INVALID_*: argument and configuration validation
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownPackage, "package %q not found in registry", name)
//	if errors.Is(err, errors.ErrCodeUnknownPackage) {
//	    // report and continue with the next package
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeCheckoutFailed, origErr, "clone %s", url)
package errors

import (
	"context"
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidPackage Code = "INVALID_PACKAGE"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"

	// Catalog errors (fatal to the whole command)
	ErrCodeRegistryUnreachable Code = "REGISTRY_UNREACHABLE"
	ErrCodeRegistryMalformed   Code = "REGISTRY_MALFORMED"

	// Per-package errors
	ErrCodeUnknownPackage   Code = "UNKNOWN_PACKAGE"
	ErrCodeCheckoutFailed   Code = "CHECKOUT_FAILED"
	ErrCodeDependencyFailed Code = "DEPENDENCY_FAILED"
	ErrCodeNotInstalled     Code = "NOT_INSTALLED"
	ErrCodeBuildIntegration Code = "BUILD_INTEGRATION_FAILED"

	// Diagnostics
	ErrCodeBuildIntegrationSkipped Code = "BUILD_INTEGRATION_SKIPPED"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// Only the outermost *Error in the chain is consulted, so a CHECKOUT_FAILED
// wrapping a REGISTRY_UNREACHABLE is reported as CHECKOUT_FAILED.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// Severity says how far a failure reaches.
type Severity int

const (
	// SeverityCommand failures abort the whole command.
	SeverityCommand Severity = iota
	// SeverityPackage failures halt one package; siblings carry on.
	SeverityPackage
	// SeverityNotice is reported but never fails anything.
	SeverityNotice
)

// SeverityOf classifies err by its code. Errors without a code, such as a
// failed flag parse, abort the command.
func SeverityOf(err error) Severity {
	switch GetCode(err) {
	case ErrCodeUnknownPackage, ErrCodeCheckoutFailed, ErrCodeDependencyFailed,
		ErrCodeNotInstalled, ErrCodeBuildIntegration:
		return SeverityPackage
	case ErrCodeBuildIntegrationSkipped:
		return SeverityNotice
	}
	return SeverityCommand
}

// IsFatal reports whether err aborts a whole command rather than a single package.
func IsFatal(err error) bool {
	return err != nil && SeverityOf(err) == SeverityCommand
}

// ExitCode maps the error a command returned to a process exit status:
// 0 for nil, 130 for an interrupt and 1 for everything else.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return 130
	}
	return 1
}
