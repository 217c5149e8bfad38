package logbook

import (
	"errors"
	"fmt"
	"strings"
)

// Code categorizes logbook failures.
type Code string

const (
	// CodeConnectionUnavailable indicates there is no live storage handle.
	CodeConnectionUnavailable Code = "CONNECTION_UNAVAILABLE"

	// CodeContainerNotFound indicates the referenced log doesn't exist.
	CodeContainerNotFound Code = "CONTAINER_NOT_FOUND"

	// CodeValidationFailure indicates a required field or the station identity is missing.
	CodeValidationFailure Code = "VALIDATION_FAILURE"

	// CodeMissingKeyField indicates qso_date or time_on was absent at key derivation.
	CodeMissingKeyField Code = "MISSING_KEY_FIELD"

	// CodeStorageFailure indicates a statement or transaction failed and was rolled back.
	CodeStorageFailure Code = "STORAGE_FAILURE"
)

// Sentinels for errors.Is. They match any *Error with the same Code.
var (
	ErrConnectionUnavailable = &Error{Code: CodeConnectionUnavailable}
	ErrContainerNotFound     = &Error{Code: CodeContainerNotFound}
	ErrValidationFailure     = &Error{Code: CodeValidationFailure}
	ErrMissingKeyField       = &Error{Code: CodeMissingKeyField}
	ErrStorageFailure        = &Error{Code: CodeStorageFailure}
)

// Error is returned by every Engine operation that fails.
type Error struct {
	// Code identifies the error category.
	Code Code

	// Op is the operation that failed, e.g. "add qso".
	Op string

	// LogID identifies the affected log, when known.
	LogID int64

	// Key is the derived QSO key, when known.
	Key string

	// Fields lists missing field names for validation and key errors.
	Fields []string

	// Invalid lists field names a record may not carry.
	Invalid []string

	// Err is the underlying cause, typically a storage error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(string(e.Code))
	if len(e.Fields) > 0 {
		fmt.Fprintf(&b, " (missing %s)", strings.Join(e.Fields, ", "))
	}
	if len(e.Invalid) > 0 {
		fmt.Fprintf(&b, " (invalid %q)", e.Invalid)
	}
	if e.LogID != 0 {
		fmt.Fprintf(&b, " (log=%d", e.LogID)
		if e.Key != "" {
			fmt.Fprintf(&b, ", qso=%q", e.Key)
		}
		b.WriteString(")")
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a sentinel with the same Code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Err == nil && t.Code == e.Code
}

// CodeOf returns the Code of the first *Error in err's chain, or "" if none.
func CodeOf(err error) Code {
	var le *Error
	if errors.As(err, &le) {
		return le.Code
	}
	return ""
}

func storageError(op string, logID int64, key string, err error) *Error {
	return &Error{Code: CodeStorageFailure, Op: op, LogID: logID, Key: key, Err: err}
}
