// File: api/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Error codes and structured errors for the fixed-size pool engine.
// The enumeration is stable: values are part of the external contract
// and must not be renumbered.

package api

import "errors"

// ErrorCode identifies a pool operation outcome.
type ErrorCode int32

const (
	CodeOK ErrorCode = iota
	CodeNullPointer
	CodeInvalidSize
	CodeOutOfMemory
	CodeInvalidBlock
	CodeAlignment
	CodeDoubleFree
	CodeNotInitialized
)

// Error is a pool error carrying its stable code.
type Error struct {
	Code    ErrorCode
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// Sentinel errors, one per failure code. Compare with errors.Is.
var (
	ErrNullPointer    = &Error{Code: CodeNullPointer, Message: "null pointer"}
	ErrInvalidSize    = &Error{Code: CodeInvalidSize, Message: "invalid size"}
	ErrOutOfMemory    = &Error{Code: CodeOutOfMemory, Message: "out of memory"}
	ErrInvalidBlock   = &Error{Code: CodeInvalidBlock, Message: "invalid block"}
	ErrAlignment      = &Error{Code: CodeAlignment, Message: "alignment error"}
	ErrDoubleFree     = &Error{Code: CodeDoubleFree, Message: "double free detected"}
	ErrNotInitialized = &Error{Code: CodeNotInitialized, Message: "pool not initialized"}
)

// CodeOf extracts the ErrorCode from an error returned by this module.
// nil maps to CodeOK; errors from other sources map to -1, for which
// Strerror still returns a generic message.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return -1
}

// Strerror returns a stable human-readable description for code.
// Unknown values yield a generic non-empty string.
func Strerror(code ErrorCode) string {
	switch code {
	case CodeOK:
		return "Success"
	case CodeNullPointer:
		return "Null pointer"
	case CodeInvalidSize:
		return "Invalid size"
	case CodeOutOfMemory:
		return "Out of memory"
	case CodeInvalidBlock:
		return "Invalid block"
	case CodeAlignment:
		return "Alignment error"
	case CodeDoubleFree:
		return "Double free detected"
	case CodeNotInitialized:
		return "Pool not initialized"
	default:
		return "Unknown error"
	}
}
