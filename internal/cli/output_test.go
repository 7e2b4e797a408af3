package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/addrhist/internal/history"
	"github.com/roach88/addrhist/internal/pkg/validator"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Success(map[string]string{"deleted": "DAbc"})
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
	assert.Nil(t, resp.Error)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error(CodeStorageWrite, "failed to save address", "disk full")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeStorageWrite, resp.Error.Code)
	assert.Equal(t, "failed to save address", resp.Error.Message)
	assert.Equal(t, "disk full", resp.Error.Details)
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	err := formatter.Error(CodeStorageOpen, "failed to open database", "details hidden")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [E002]: failed to open database")
	assert.NotContains(t, buf.String(), "details hidden")
}

func TestOutputFormatter_TextErrorVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: true,
	}

	err := formatter.Error(CodeStorageOpen, "failed to open database", "permission denied")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Details: permission denied")
}

func TestOutputFormatter_Fail(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	exitErr := WrapExitError(ExitFailure, "no record for DAbc", errNotFound)
	err := formatter.Fail(exitErr)
	assert.Same(t, exitErr, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeNotFound, resp.Error.Code)
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			diag := &bytes.Buffer{}
			formatter := &OutputFormatter{
				Format:    "json",
				Writer:    out,
				ErrWriter: diag,
				Verbose:   tt.verbose,
			}

			formatter.VerboseLog("read %d record(s)", 3)

			assert.Empty(t, out.String(), "verbose output must not corrupt JSON output")
			if tt.wantLog {
				assert.Contains(t, diag.String(), "read 3 record(s)")
			} else {
				assert.Empty(t, diag.String())
			}
		})
	}
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad")))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError,
		GetExitCode(fmt.Errorf("wrapped: %w", NewExitError(ExitCommandError, "bad"))))
}

func TestErrorCode(t *testing.T) {
	s := history.New("/nonexistent/dir/history.db")
	openErr := s.Initialize(context.Background())
	require.Error(t, openErr)

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"validation", fmt.Errorf("save: %w", validator.ErrValidationFailed), CodeInvalidInput},
		{"confirmation", errConfirmationRequired, CodeInvalidInput},
		{"open", openErr, CodeStorageOpen},
		{"not found", errNotFound, CodeNotFound},
		{"unknown", errors.New("boom"), CodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorCode(tt.err))
		})
	}
}

func TestClassify(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "history.db")
	openErr := history.New(path).Initialize(context.Background())

	assert.Equal(t, ExitCommandError, classify("open", openErr).Code)
	assert.Equal(t, ExitCommandError, classify("save", validator.ErrValidationFailed).Code)
	assert.Equal(t, ExitFailure, classify("list", errors.New("engine")).Code)
}
