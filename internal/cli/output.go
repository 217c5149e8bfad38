package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/iz2uqf/hamlog/internal/adif"
	"github.com/iz2uqf/hamlog/internal/logbook"
	"github.com/iz2uqf/hamlog/internal/store"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Operation failure (unknown log, rejected record, storage error)
	ExitCommandError = 2 // Command error (bad arguments, database cannot be opened, etc.)
)

// Error codes for CLI responses.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeNotFound     = "E002" // Log or QSO not found
	ErrCodeValidation   = "E003" // Record failed validation or key derivation
	ErrCodeStorage      = "E004" // Storage statement or transaction failed
	ErrCodeConnection   = "E005" // Database unavailable
	ErrCodeMalformedADI = "E006" // ADIF input could not be decoded
	ErrCodeFile         = "E007" // File read or write error
	ErrCodeRejected     = "E008" // Import finished with rejected records (--strict)
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string      `json:"status"`          // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`  // success payload
	Error  *CLIError   `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string      `json:"code"`              // "E001", "E002", etc.
	Message string      `json:"message"`           // human-readable message
	Details interface{} `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Fail reports err through the formatter and returns the ExitError the
// command should return.
func (f *OutputFormatter) Fail(message string, err error) error {
	code, exit := classify(err)
	var details interface{}
	var le *logbook.Error
	if errors.As(err, &le) && (len(le.Fields) > 0 || len(le.Invalid) > 0) {
		d := map[string]interface{}{}
		if len(le.Fields) > 0 {
			d["missing"] = le.Fields
		}
		if len(le.Invalid) > 0 {
			d["invalid"] = le.Invalid
		}
		details = d
	}
	if outErr := f.Error(code, fmt.Sprintf("%s: %v", message, err), details); outErr != nil {
		return outErr
	}
	return WrapExitError(exit, message, err)
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// classify maps an error to a response code and exit code.
func classify(err error) (string, int) {
	var synErr *adif.SyntaxError
	switch {
	case errors.As(err, &synErr):
		return ErrCodeMalformedADI, ExitFailure
	case errors.Is(err, store.ErrNotFound):
		return ErrCodeNotFound, ExitFailure
	}

	switch logbook.CodeOf(err) {
	case logbook.CodeContainerNotFound:
		return ErrCodeNotFound, ExitFailure
	case logbook.CodeValidationFailure, logbook.CodeMissingKeyField:
		return ErrCodeValidation, ExitFailure
	case logbook.CodeStorageFailure:
		return ErrCodeStorage, ExitFailure
	case logbook.CodeConnectionUnavailable:
		return ErrCodeConnection, ExitCommandError
	}
	return ErrCodeGeneric, ExitFailure
}
