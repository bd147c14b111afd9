// Package errors provides structured error types for taxotree.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - UNKNOWN_*, AMBIGUOUS_*, CYCLIC_*: Structural problems in a taxonomy
//   - NO_DATA, NETWORK_*: Source failures
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "invalid source name: %s", name)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "failed to fetch %s", url)
//
// The typed errors ([AmbiguousHierarchyError], [UnknownEntityError],
// [CyclicHierarchyError], [InvalidRecordError], [NoDataError]) carry the
// offending identifiers and also report a [Code], so [Is] and [GetCode] work
// uniformly on all of them.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidRecord Code = "INVALID_RECORD"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Structural errors in a taxonomy
	ErrCodeUnknownEntity      Code = "UNKNOWN_ENTITY"
	ErrCodeAmbiguousHierarchy Code = "AMBIGUOUS_HIERARCHY"
	ErrCodeCyclicHierarchy    Code = "CYCLIC_HIERARCHY"

	// Source errors
	ErrCodeNoData   Code = "NO_DATA"
	ErrCodeNotFound Code = "NOT_FOUND"
	ErrCodeNetwork  Code = "NETWORK_ERROR"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// coder is implemented by every error type in this package.
type coder interface {
	error
	Code() Code
}

// Error is a structured error with a code and optional cause.
type Error struct {
	ErrCode Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.ErrCode, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.ErrCode, e.Message)
}

// Code returns the machine-readable error code.
func (e *Error) Code() Code { return e.ErrCode }

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		ErrCode: code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		ErrCode: code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for the outermost coded error.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if no error in the chain carries a code.
func GetCode(err error) Code {
	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For an *Error, returns the message without the code prefix.
// Any other error, including one that wraps an *Error, is returned as-is
// so the wrapping context is kept.
func UserMessage(err error) string {
	if e, ok := err.(*Error); ok {
		return e.Message
	}
	return err.Error()
}

// AmbiguousHierarchyError is returned when an entity has no enclosing
// children-set to serve as its parent, yet other entities declare it as one
// of their children. Such an entity cannot be promoted to a root.
type AmbiguousHierarchyError struct {
	EntityID  string
	ClaimedBy []string
}

func (e *AmbiguousHierarchyError) Error() string {
	return fmt.Sprintf("ambiguous hierarchy: %s has no enclosing parent but is declared a child of %s",
		e.EntityID, strings.Join(e.ClaimedBy, ", "))
}

// Code returns ErrCodeAmbiguousHierarchy.
func (e *AmbiguousHierarchyError) Code() Code { return ErrCodeAmbiguousHierarchy }

// UnknownEntityError is returned when an edge references an entity that is
// absent from the node table.
type UnknownEntityError struct {
	EntityID string
}

func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("unknown entity: %s", e.EntityID)
}

// Code returns ErrCodeUnknownEntity.
func (e *UnknownEntityError) Code() Code { return ErrCodeUnknownEntity }

// CyclicHierarchyError is returned when the edge set contains a directed
// cycle. Cycle lists the entities on the cycle, first entity repeated last.
type CyclicHierarchyError struct {
	Cycle []string
}

func (e *CyclicHierarchyError) Error() string {
	return fmt.Sprintf("cyclic hierarchy: %s", strings.Join(e.Cycle, " -> "))
}

// Code returns ErrCodeCyclicHierarchy.
func (e *CyclicHierarchyError) Code() Code { return ErrCodeCyclicHierarchy }

// InvalidRecordError reports a malformed upstream record.
type InvalidRecordError struct {
	Index    int    // Position of the record in its batch
	EntityID string // May be empty when the id itself is missing
	Reason   string
}

func (e *InvalidRecordError) Error() string {
	if e.EntityID == "" {
		return fmt.Sprintf("invalid record #%d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("invalid record #%d (%s): %s", e.Index, e.EntityID, e.Reason)
}

// Code returns ErrCodeInvalidRecord.
func (e *InvalidRecordError) Code() Code { return ErrCodeInvalidRecord }

// NoDataError is the recoverable "no data for this source" signal. Sources
// return it when their transport or backing store is unavailable so that
// callers can fall back or retry later instead of failing outright.
type NoDataError struct {
	Source string
	Cause  error
}

func (e *NoDataError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("no data for source %s: %v", e.Source, e.Cause)
	}
	return fmt.Sprintf("no data for source %s", e.Source)
}

// Code returns ErrCodeNoData.
func (e *NoDataError) Code() Code { return ErrCodeNoData }

// Unwrap returns the transport or storage failure.
func (e *NoDataError) Unwrap() error { return e.Cause }

// NoData wraps cause as a NoDataError for the named source.
func NoData(source string, cause error) error {
	return &NoDataError{Source: source, Cause: cause}
}

// IsRecoverable reports whether err is a NoDataError somewhere in its chain.
func IsRecoverable(err error) bool {
	var nd *NoDataError
	return errors.As(err, &nd)
}
