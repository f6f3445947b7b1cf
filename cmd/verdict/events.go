package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/davidahmann/verdict/core/fsx"
	"github.com/davidahmann/verdict/core/projectconfig"
	schemadecision "github.com/davidahmann/verdict/core/schema/v1/decision"
)

const decisionEventSchemaID = "verdict.decision.event"

type decisionEvent struct {
	SchemaID        string `json:"schema_id"`
	SchemaVersion   string `json:"schema_version"`
	CreatedAt       string `json:"created_at"`
	ProducerVersion string `json:"producer_version"`
	CorrelationID   string `json:"correlation_id"`
	DecisionID      string `json:"decision_id"`
	OverallDecision string `json:"overall_decision"`
	InputHash       string `json:"input_hash,omitempty"`
	ConfigHash      string `json:"config_hash,omitempty"`
	ElapsedMS       int64  `json:"elapsed_ms"`
}

// writeDecisionEvent appends one JSONL event per decide run to the decision
// log. The log is opt-in (VERDICT_DECISION_LOG or telemetry config); write
// failures warn on stderr and never fail the decision.
func writeDecisionEvent(configuration projectconfig.Config, record schemadecision.Record, elapsed time.Duration) {
	logPath := strings.TrimSpace(os.Getenv("VERDICT_DECISION_LOG"))
	if logPath == "" {
		logPath = configuration.Telemetry.DecisionLog
	}
	if logPath == "" {
		return
	}

	event := decisionEvent{
		SchemaID:        decisionEventSchemaID,
		SchemaVersion:   schemadecision.SchemaV1,
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
		ProducerVersion: version,
		CorrelationID:   currentCorrelationID,
		DecisionID:      record.Context.DecisionID,
		OverallDecision: record.OverallDecision,
		ElapsedMS:       elapsed.Milliseconds(),
	}
	if record.Audit.Fingerprint != nil {
		event.InputHash = record.Audit.Fingerprint.InputHash
		event.ConfigHash = record.Audit.Fingerprint.ConfigHash
	}

	line, err := json.Marshal(event)
	if err == nil {
		err = fsx.AppendLineLocked(logPath, line, 0o600)
	}
	if err != nil && !strings.EqualFold(strings.TrimSpace(os.Getenv("VERDICT_TELEMETRY_WARN")), "off") {
		fmt.Fprintf(os.Stderr, "verdict warning: decision log write failed: %v\n", err)
	}
}
