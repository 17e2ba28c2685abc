// Package domainerrors defines the coded error type shared across the
// service. Handlers translate codes into HTTP envelopes; services attach
// codes when turning infrastructure facts into caller-facing failures.
package domainerrors

import "errors"

// Code classifies a domain error for transport-level translation.
type Code string

const (
	// CodeValidation marks rejected input: empty required fields, unknown
	// enum values, or an identifier collision on append.
	CodeValidation Code = "validation_error"
	// CodeImportParse marks an import source that could not be read as
	// tabular data at all. The store is left untouched.
	CodeImportParse Code = "import_parse_error"
	// CodeNotFound marks an explicit no-result outcome surfaced over HTTP.
	CodeNotFound Code = "not_found"
	// CodeBadRequest marks a malformed request body or query parameter.
	CodeBadRequest Code = "bad_request"
	// CodeUnauthorized marks a missing or mismatched admin token.
	CodeUnauthorized Code = "unauthorized"
	// CodeInternal marks unexpected failures. Details are logged, not
	// returned to callers.
	CodeInternal Code = "internal_error"
)

// Error is a domain error with a stable code and a human-readable message.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

// New builds a domain error with the given code and message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for
// errors that did not originate in this package.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf extracts the message from err, or the raw error text for
// foreign errors.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}
