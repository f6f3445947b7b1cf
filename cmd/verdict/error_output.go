package main

import (
	"encoding/json"
	"fmt"
	"os"

	coreerrors "github.com/davidahmann/verdict/core/errors"
)

// writeJSONOutput prints a successful command result to stdout.
func writeJSONOutput(output any) int {
	encoded, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return writeErrorOutput(
			coreerrors.Wrap(fmt.Errorf("encode output: %w", err), coreerrors.CategoryInternalFailure, "encode_failed", "report this as a bug"),
			exitInternalFailure,
		)
	}
	fmt.Println(string(encoded))
	return exitOK
}

type errorEnvelope struct {
	OK            bool   `json:"ok"`
	Error         string `json:"error"`
	ErrorCode     string `json:"error_code"`
	ErrorCategory string `json:"error_category"`
	Hint          string `json:"hint,omitempty"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// writeErrorOutput prints a structured failure envelope to stderr and returns
// the exit code. Nothing is written to stdout on failure.
func writeErrorOutput(err error, fallbackExit int) int {
	exitCode := exitCodeForError(err, fallbackExit)
	envelope := errorEnvelope{
		OK:            false,
		Error:         err.Error(),
		ErrorCode:     coreerrors.CodeOf(err),
		ErrorCategory: string(coreerrors.CategoryOf(err)),
		Hint:          coreerrors.HintOf(err),
		CorrelationID: currentCorrelationID,
	}
	if envelope.ErrorCode == "" {
		envelope.ErrorCode = defaultErrorCode(exitCode)
	}
	if envelope.ErrorCategory == "" {
		envelope.ErrorCategory = string(defaultErrorCategory(exitCode))
	}
	encoded, encodeErr := json.Marshal(envelope)
	if encodeErr != nil {
		fmt.Fprintf(os.Stderr, `{"ok":false,"error":"failed to encode error envelope","error_code":"encode_failed","error_category":"internal_failure"}`+"\n")
		return exitInternalFailure
	}
	fmt.Fprintln(os.Stderr, string(encoded))
	return exitCode
}

func exitCodeForError(err error, fallbackExit int) int {
	if err == nil {
		return exitOK
	}
	switch coreerrors.CategoryOf(err) {
	case coreerrors.CategoryInvalidInput:
		return exitInvalidInput
	case coreerrors.CategoryVerification:
		return exitVerifyFailed
	case coreerrors.CategoryConfigInvalid:
		return exitConfigInvalid
	case coreerrors.CategoryIOFailure, coreerrors.CategoryInternalFailure:
		return exitInternalFailure
	}
	return fallbackExit
}

func defaultErrorCode(exitCode int) string {
	switch exitCode {
	case exitInvalidInput:
		return "invalid_input"
	case exitVerifyFailed:
		return "verification_failed"
	case exitConfigInvalid:
		return "config_invalid"
	default:
		return "internal_failure"
	}
}

func defaultErrorCategory(exitCode int) coreerrors.Category {
	switch exitCode {
	case exitInvalidInput:
		return coreerrors.CategoryInvalidInput
	case exitVerifyFailed:
		return coreerrors.CategoryVerification
	case exitConfigInvalid:
		return coreerrors.CategoryConfigInvalid
	default:
		return coreerrors.CategoryInternalFailure
	}
}
