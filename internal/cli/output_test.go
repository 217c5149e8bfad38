package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iz2uqf/hamlog/internal/adif"
	"github.com/iz2uqf/hamlog/internal/logbook"
	"github.com/iz2uqf/hamlog/internal/store"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Success(map[string]int{"imported": 3}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
	assert.Nil(t, resp.Error)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Error(ErrCodeNotFound, "log 7 not found", nil))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "log 7 not found", resp.Error.Message)
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Error(ErrCodeStorage, "insert failed", map[string]string{"table": "qso"}))
	assert.Contains(t, buf.String(), "Error [E004]: insert failed")
	assert.NotContains(t, buf.String(), "Details:")
}

func TestOutputFormatter_TextErrorVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf, Verbose: true}

	require.NoError(t, formatter.Error(ErrCodeStorage, "insert failed", map[string]string{"table": "qso"}))
	assert.Contains(t, buf.String(), "Details:")
}

func TestOutputFormatter_VerboseLogGoesToErrWriter(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: out, ErrWriter: errOut, Verbose: true}

	formatter.VerboseLog("record %d rejected", 2)

	assert.Empty(t, out.String())
	assert.Equal(t, "record 2 rejected\n", errOut.String())

	formatter.Verbose = false
	formatter.VerboseLog("hidden")
	assert.Equal(t, "record 2 rejected\n", errOut.String())
}

func TestOutputFormatter_FailReportsMissingFields(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	cause := &logbook.Error{Code: logbook.CodeValidationFailure, Op: "add or update qso", Fields: []string{"freq"}}
	err := formatter.Fail("rejected", cause)

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.True(t, errors.Is(err, logbook.ErrValidationFailure))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, map[string]interface{}{"missing": []interface{}{"freq"}}, resp.Error.Details)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
		wantExit int
	}{
		{"not found", &logbook.Error{Code: logbook.CodeContainerNotFound}, ErrCodeNotFound, ExitFailure},
		{"missing qso", fmt.Errorf("get: %w", store.ErrNotFound), ErrCodeNotFound, ExitFailure},
		{"validation", &logbook.Error{Code: logbook.CodeValidationFailure}, ErrCodeValidation, ExitFailure},
		{"key field", &logbook.Error{Code: logbook.CodeMissingKeyField}, ErrCodeValidation, ExitFailure},
		{"storage", &logbook.Error{Code: logbook.CodeStorageFailure}, ErrCodeStorage, ExitFailure},
		{"connection", &logbook.Error{Code: logbook.CodeConnectionUnavailable}, ErrCodeConnection, ExitCommandError},
		{"malformed", fmt.Errorf("import: %w", &adif.SyntaxError{Offset: 3, Tag: "call:x", Msg: "invalid length"}), ErrCodeMalformedADI, ExitFailure},
		{"other", errors.New("boom"), ErrCodeGeneric, ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, exit := classify(tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantExit, exit)
		})
	}
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad args")))
	assert.Equal(t, ExitFailure, GetExitCode(fmt.Errorf("wrapped: %w", WrapExitError(ExitFailure, "x", errors.New("y")))))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
}

func TestOutputFormatter_GetErrWriterFallsBackToWriter(t *testing.T) {
	out := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: out, Verbose: true}
	assert.Same(t, out, formatter.GetErrWriter())

	formatter.VerboseLog("no separate writer")
	assert.Equal(t, "no separate writer\n", out.String())

	errOut := &bytes.Buffer{}
	formatter.ErrWriter = errOut
	assert.Same(t, errOut, formatter.GetErrWriter())
}
