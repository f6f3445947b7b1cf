package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	coredecision "github.com/davidahmann/verdict/core/decision"
	coreerrors "github.com/davidahmann/verdict/core/errors"
	schemadecision "github.com/davidahmann/verdict/core/schema/v1/decision"
)

type verifyOutput struct {
	OK         bool   `json:"ok"`
	Verified   bool   `json:"verified"`
	DecisionID string `json:"decision_id,omitempty"`
	InputHash  string `json:"input_hash"`
	ConfigHash string `json:"config_hash"`
	ModelHash  string `json:"model_hash,omitempty"`
}

// runVerify replays a run request with the same engine configuration and
// checks that the recomputed fingerprints match a recorded decision. The
// pipeline is deterministic, so any mismatch means the inputs, thresholds or
// policy differ from what the record claims.
func runVerify(arguments []string) int {
	if hasExplainFlag(arguments) {
		return writeExplain("Re-run the pipeline over a run request and verify the fingerprints of a recorded decision.")
	}
	flagSet := flag.NewFlagSet("verify", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	var flags engineFlags
	var inputPath string
	var recordPath string
	registerEngineFlags(flagSet, &flags)
	flagSet.StringVar(&inputPath, "input", "", "path to run request json")
	flagSet.StringVar(&recordPath, "record", "", "path to recorded decision json")

	if err := flagSet.Parse(arguments); err != nil {
		return writeErrorOutput(coreerrors.Wrap(err, coreerrors.CategoryInvalidInput, "invalid_flags", "run verdict verify with --input and --record"), exitInvalidInput)
	}

	record, err := loadRecord(recordPath)
	if err != nil {
		return writeErrorOutput(err, exitInvalidInput)
	}
	if record.Audit.Fingerprint == nil {
		return writeErrorOutput(
			coreerrors.Wrap(fmt.Errorf("record has no fingerprint"), coreerrors.CategoryInvalidInput, "record_unverifiable", "the decision was recorded without an auditor; re-run decide without --no-audit"),
			exitInvalidInput,
		)
	}

	configuration, err := loadConfiguration(flags)
	if err != nil {
		return writeErrorOutput(err, exitConfigInvalid)
	}

	request, err := loadRunRequest(inputPath)
	if err != nil {
		return writeErrorOutput(err, exitInvalidInput)
	}
	// Replay must bind to the recorded decision, not a freshly minted id.
	request.Context.DecisionID = record.Context.DecisionID

	flags.noAudit = false
	engine, err := buildEngine(flags, request.Context, configuration)
	if err != nil {
		return writeErrorOutput(err, exitConfigInvalid)
	}

	output, err := engine.Run(request.Context, request.Payload)
	if err != nil {
		return writeErrorOutput(err, exitInternalFailure)
	}
	if output.Fingerprint == nil {
		return writeErrorOutput(
			coreerrors.Wrap(fmt.Errorf("replay produced no fingerprint"), coreerrors.CategoryConfigInvalid, "audit_disabled", "the project config disables auditing; pass --no-config"),
			exitConfigInvalid,
		)
	}

	recorded := *record.Audit.Fingerprint
	recomputed := *output.Fingerprint
	if mismatch := fingerprintMismatch(recorded, recomputed); mismatch != "" {
		return writeErrorOutput(
			coreerrors.Wrap(
				fmt.Errorf("fingerprint mismatch: %s (recorded input=%s config=%s, recomputed input=%s config=%s)", mismatch, recorded.InputHash, recorded.ConfigHash, recomputed.InputHash, recomputed.ConfigHash),
				coreerrors.CategoryVerification,
				"fingerprint_mismatch",
				"the inputs or governance configuration differ from the recorded decision",
			),
			exitVerifyFailed,
		)
	}

	return writeJSONOutput(verifyOutput{
		OK:         true,
		Verified:   true,
		DecisionID: record.Context.DecisionID,
		InputHash:  recomputed.InputHash,
		ConfigHash: recomputed.ConfigHash,
		ModelHash:  recomputed.ModelHash,
	})
}

func fingerprintMismatch(recorded, recomputed coredecision.Fingerprint) string {
	switch {
	case recorded.InputHash != recomputed.InputHash:
		return "input_hash"
	case recorded.ConfigHash != recomputed.ConfigHash:
		return "config_hash"
	case recorded.ModelHash != recomputed.ModelHash:
		return "model_hash"
	}
	return ""
}

func loadRecord(path string) (schemadecision.Record, error) {
	if path == "" {
		return schemadecision.Record{}, coreerrors.Wrap(fmt.Errorf("--record is required"), coreerrors.CategoryInvalidInput, "record_missing", "pass --record <decision.json>")
	}
	// #nosec G304 -- record path is explicit local user input.
	data, err := os.ReadFile(path)
	if err != nil {
		return schemadecision.Record{}, coreerrors.Wrap(fmt.Errorf("read record: %w", err), coreerrors.CategoryInvalidInput, "record_unreadable", "check the --record path")
	}
	var record schemadecision.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return schemadecision.Record{}, coreerrors.Wrap(fmt.Errorf("decode record: %w", err), coreerrors.CategoryInvalidInput, "record_decode_failed", "the record must be a verdict decision result")
	}
	if record.SchemaID != schemadecision.RecordSchemaID {
		return schemadecision.Record{}, coreerrors.Wrap(fmt.Errorf("unexpected schema id %q", record.SchemaID), coreerrors.CategoryInvalidInput, "record_schema_unknown", "the record must be a verdict decision result")
	}
	return record, nil
}
