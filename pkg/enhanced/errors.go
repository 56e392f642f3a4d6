package enhanced

import (
	"errors"
	"fmt"
)

// Code classifies every outcome the pipeline can report. The set is
// closed: downstream consumers switch on it to decide whether a
// failure is retryable (for example with a reduced frame subset) or
// terminal.
type Code int

const (
	// CodeSuccess is the non-error sentinel. It is the zero value so
	// that a default-initialized result reads as success.
	CodeSuccess Code = iota

	// CodeInvalidInput reports a caller error: empty frame subsets,
	// out-of-range frame indices, nil records.
	CodeInvalidInput

	// CodeNotEnhancedIOD reports that the file's SOP class is not one
	// of the supported enhanced multi-frame kinds.
	CodeNotEnhancedIOD

	// CodeNotCardiacGated reports that a series lacks the cardiac
	// trigger metadata required by gated reconstructions.
	CodeNotCardiacGated

	// CodeParseFailed reports that the underlying file could not be
	// opened or decoded at all.
	CodeParseFailed

	// CodeMissingTag reports a structurally required attribute that
	// has no graceful default (rows, columns, bits allocated).
	CodeMissingTag

	// CodeUnsupportedPixelFormat reports a sample layout outside the
	// supported 8/16-bit signed/unsigned grid, or encapsulated pixel
	// data that the external reader did not decode.
	CodeUnsupportedPixelFormat

	// CodeFrameExtractionFailed reports that a frame's bytes could not
	// be located or decoded inside the pixel buffer.
	CodeFrameExtractionFailed

	// CodeVolumeAssemblyFailed reports a failure while building the
	// output voxel grid from already-extracted frames.
	CodeVolumeAssemblyFailed

	// CodeInconsistentData reports metadata that contradicts itself,
	// such as a declared frame count of zero.
	CodeInconsistentData

	// CodeInternalError reports a bug in this library.
	CodeInternalError
)

// String returns the stable name of the code.
func (c Code) String() string {
	switch c {
	case CodeSuccess:
		return "Success"
	case CodeInvalidInput:
		return "InvalidInput"
	case CodeNotEnhancedIOD:
		return "NotEnhancedIOD"
	case CodeNotCardiacGated:
		return "NotCardiacGated"
	case CodeParseFailed:
		return "ParseFailed"
	case CodeMissingTag:
		return "MissingTag"
	case CodeUnsupportedPixelFormat:
		return "UnsupportedPixelFormat"
	case CodeFrameExtractionFailed:
		return "FrameExtractionFailed"
	case CodeVolumeAssemblyFailed:
		return "VolumeAssemblyFailed"
	case CodeInconsistentData:
		return "InconsistentData"
	case CodeInternalError:
		return "InternalError"
	}
	return fmt.Sprintf("Code(%d)", int(c))
}

// Error is the typed error returned by every fallible operation in
// this package. Expected failure conditions (malformed or truncated
// files) are always reported this way; the package never panics
// across its public boundary for them.
type Error struct {
	Code Code
	Msg  string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// Unwrap exposes the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf builds a typed error from a format string.
func Errorf(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// WrapError attaches a taxonomy code to an underlying cause.
func WrapError(code Code, err error, msg string) *Error {
	return &Error{Code: code, Msg: msg, Err: err}
}

// CodeOf extracts the taxonomy code from any error. A nil error maps
// to CodeSuccess; an error from outside this package maps to
// CodeInternalError.
func CodeOf(err error) Code {
	if err == nil {
		return CodeSuccess
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternalError
}
