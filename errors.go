package ftext

import (
	"errors"
	"fmt"
)

// Error represents an ftext error with an error code
type Error struct {
	Code    ErrorCode
	Message string
	Op      string // failing primitive or stage, if any
	Offset  int    // byte offset the operation was applied at
	Range   int    // byte count the operation was applied to
	Err     error  // wrapped error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = fmt.Sprintf("%s: %s (offset %d, range %d)", e.Op, e.Message, e.Offset, e.Range)
	}
	if e.Err != nil {
		return fmt.Sprintf("ftext: %s: %v", msg, e.Err)
	}
	return fmt.Sprintf("ftext: %s", msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorCode classifies failures of the mapped file and the transforms.
type ErrorCode int

// Error codes. I/O failures occupy -100..-199, validation failures
// -200..-299 and algorithmic failures -300..-399.
const (
	// Success indicates the operation completed successfully
	Success ErrorCode = 0

	// ErrMap indicates the initial mapping of the file failed
	ErrMap ErrorCode = -100

	// ErrRemap indicates resizing the mapping failed
	ErrRemap ErrorCode = -101

	// ErrAllocate indicates disk space could not be reserved
	ErrAllocate ErrorCode = -102

	// ErrTruncate indicates the file could not be truncated
	ErrTruncate ErrorCode = -103

	// ErrSync indicates dirty pages could not be flushed
	ErrSync ErrorCode = -104

	// ErrMapFull indicates the address-space reservation is exhausted
	ErrMapFull ErrorCode = -105

	// ErrJournal indicates the operation journal rejected a record
	ErrJournal ErrorCode = -106

	// ErrNotExist indicates the target file does not exist
	ErrNotExist ErrorCode = -200

	// ErrNotReadable indicates the target file cannot be read
	ErrNotReadable ErrorCode = -201

	// ErrNotWritable indicates the target file cannot be written
	ErrNotWritable ErrorCode = -202

	// ErrNotRegular indicates the target is not a regular file
	ErrNotRegular ErrorCode = -203

	// ErrLocked indicates another process holds the file
	ErrLocked ErrorCode = -204

	// ErrBadWidth indicates a negative or unusable width
	ErrBadWidth ErrorCode = -205

	// ErrModeConflict indicates mutually exclusive modes were requested
	ErrModeConflict ErrorCode = -206

	// ErrInvariant indicates a transform met text its width computation
	// says cannot exist
	ErrInvariant ErrorCode = -300

	// ErrRange indicates a primitive was called outside its preconditions
	ErrRange ErrorCode = -301

	// ErrClosed indicates the file was used after Close
	ErrClosed ErrorCode = -302
)

// Error descriptions
var errorMessages = map[ErrorCode]string{
	Success:         "success",
	ErrMap:          "unable to map file",
	ErrRemap:        "unable to resize mapping",
	ErrAllocate:     "unable to allocate disk space",
	ErrTruncate:     "unable to truncate file",
	ErrSync:         "unable to flush mapping",
	ErrMapFull:      "address-space reservation exhausted",
	ErrJournal:      "journal write failed",
	ErrNotExist:     "file does not exist",
	ErrNotReadable:  "cannot read file",
	ErrNotWritable:  "cannot write to file",
	ErrNotRegular:   "not a regular file",
	ErrLocked:       "file is locked by another process",
	ErrBadWidth:     "invalid line width",
	ErrModeConflict: "conflicting formatting modes",
	ErrInvariant:    "internal invariant violated",
	ErrRange:        "offset or range outside mapping",
	ErrClosed:       "file is closed",
}

// NewError creates a new Error with the given code
func NewError(code ErrorCode) *Error {
	msg, ok := errorMessages[code]
	if !ok {
		msg = fmt.Sprintf("unknown error code %d", code)
	}
	return &Error{Code: code, Message: msg}
}

// WrapError creates a new Error wrapping another error
func WrapError(code ErrorCode, err error) *Error {
	e := NewError(code)
	e.Err = err
	return e
}

// opError reports a failed primitive together with where it was applied.
func opError(code ErrorCode, op string, offset, n int, err error) *Error {
	e := WrapError(code, err)
	e.Op = op
	e.Offset = offset
	e.Range = n
	return e
}

// invariantError reports an algorithmic failure detected mid-transform.
func invariantError(op string, format string, args ...any) *Error {
	return &Error{
		Code:    ErrInvariant,
		Message: fmt.Sprintf(format, args...),
		Op:      op,
	}
}

// Code returns the error code from an error, or ErrInvariant if not an
// ftext error
func Code(err error) ErrorCode {
	if err == nil {
		return Success
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrInvariant
}

// IsIO returns true if the error came from a system call on the mapping
// or the file.
func IsIO(err error) bool {
	c := Code(err)
	return c <= -100 && c > -200
}

// IsValidation returns true if the file or configuration was rejected
// before any byte was changed.
func IsValidation(err error) bool {
	c := Code(err)
	return c <= -200 && c > -300
}

// IsInvariant returns true if the error signals a logic or width mismatch
// rather than a system failure.
func IsInvariant(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == ErrInvariant || e.Code == ErrRange
	}
	return false
}

// IsLocked returns true if the error is ErrLocked
func IsLocked(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == ErrLocked
	}
	return false
}
