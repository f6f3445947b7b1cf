// Package decision defines the versioned wire format of the verdict CLI:
// the run request consumed from disk and the decision record emitted on
// stdout.
package decision

import (
	"time"

	coredecision "github.com/davidahmann/verdict/core/decision"
)

const (
	RunRequestSchemaID = "verdict.decision.request"
	RecordSchemaID     = "verdict.decision.result"
	SchemaV1           = "1.0.0"
)

// RunRequest is the input file: one decision context plus one indicator
// payload.
type RunRequest struct {
	Context coredecision.Context `json:"context"`
	Payload coredecision.Payload `json:"payload"`
}

// ContextSummary echoes the identifying context fields back in the record.
type ContextSummary struct {
	DecisionID   string `json:"decision_id"`
	Title        string `json:"title"`
	Activity     string `json:"activity,omitempty"`
	Stage        string `json:"stage,omitempty"`
	RiskAppetite string `json:"risk_appetite,omitempty"`
}

// DomainOutcome is the per-domain section of the record.
type DomainOutcome struct {
	Level           string                     `json:"level"`
	Score           float64                    `json:"score"`
	Classification  string                     `json:"classification"`
	TopContributors []coredecision.Contributor `json:"top_contributors"`
}

// DomainScoreEntry pairs the domain mean with its classification band.
type DomainScoreEntry struct {
	Score float64 `json:"score"`
	Level string  `json:"level"`
}

// AuditSection carries the ordered trail and the fingerprint set. The
// fingerprint is absent when the engine ran without an auditor.
type AuditSection struct {
	Trail       []coredecision.AuditEntry `json:"trail"`
	Fingerprint *coredecision.Fingerprint `json:"fingerprint,omitempty"`
}

// Record is the terminal decision artifact written by the CLI.
type Record struct {
	SchemaID        string                      `json:"schema_id"`
	SchemaVersion   string                      `json:"schema_version"`
	CreatedAt       time.Time                   `json:"created_at"`
	ProducerVersion string                      `json:"producer_version"`
	Context         ContextSummary              `json:"context"`
	OverallDecision string                      `json:"overall_decision"`
	PerDomain       map[string]DomainOutcome    `json:"per_domain"`
	DomainScores    map[string]DomainScoreEntry `json:"domain_scores"`
	CategoryScores  map[string]float64          `json:"category_scores"`
	Rationale       []string                    `json:"rationale"`
	RequiredActions []coredecision.ActionItem   `json:"required_actions"`
	Audit           AuditSection                `json:"audit"`
	Warnings        []string                    `json:"warnings,omitempty"`
	Notes           map[string]any              `json:"notes,omitempty"`
}

// FromOutput maps an engine output to the versioned wire record.
func FromOutput(output coredecision.Output, producerVersion string, createdAt time.Time) Record {
	perDomain := make(map[string]DomainOutcome, len(output.PerDomain))
	for domain, domainDecision := range output.PerDomain {
		contributors := domainDecision.TopContributors
		if contributors == nil {
			contributors = []coredecision.Contributor{}
		}
		perDomain[domain] = DomainOutcome{
			Level:           string(domainDecision.Level),
			Score:           domainDecision.Score,
			Classification:  string(domainDecision.Classification),
			TopContributors: contributors,
		}
	}

	domainScores := make(map[string]DomainScoreEntry, len(output.DomainScores))
	for domain, score := range output.DomainScores {
		domainScores[domain] = DomainScoreEntry{Score: score.Score, Level: string(score.Band)}
	}

	rationale := output.Rationale
	if rationale == nil {
		rationale = []string{}
	}
	actions := output.RequiredActions
	if actions == nil {
		actions = []coredecision.ActionItem{}
	}
	trail := output.AuditTrail
	if trail == nil {
		trail = []coredecision.AuditEntry{}
	}

	return Record{
		SchemaID:        RecordSchemaID,
		SchemaVersion:   SchemaV1,
		CreatedAt:       createdAt.UTC(),
		ProducerVersion: producerVersion,
		Context: ContextSummary{
			DecisionID:   output.Context.DecisionID,
			Title:        output.Context.Title,
			Activity:     output.Context.Activity,
			Stage:        output.Context.Stage,
			RiskAppetite: output.Context.RiskAppetite,
		},
		OverallDecision: string(output.Overall),
		PerDomain:       perDomain,
		DomainScores:    domainScores,
		CategoryScores:  output.CategoryScores,
		Rationale:       rationale,
		RequiredActions: actions,
		Audit:           AuditSection{Trail: trail, Fingerprint: output.Fingerprint},
		Warnings:        output.Warnings,
		Notes:           output.Notes,
	}
}
