// Package decision defines the typed stage contracts and value objects of the
// risk decision pipeline, and the engine that composes them. Every type here
// is created fresh per run and immutable after assembly; the engine holds no
// state across calls.
package decision

// Level is the ordinal decision outcome. The total order
// approve < conditional < reject drives escalation: any rejected domain
// forces an overall reject.
type Level string

const (
	LevelApprove     Level = "approve"
	LevelConditional Level = "conditional"
	LevelReject      Level = "reject"
)

var levelRanks = map[Level]int{
	LevelApprove:     0,
	LevelConditional: 1,
	LevelReject:      2,
}

// Rank returns the position of the level in the escalation order. Unknown
// levels rank above reject so a malformed level never silently approves.
func (l Level) Rank() int {
	rank, ok := levelRanks[l]
	if !ok {
		return len(levelRanks)
	}
	return rank
}

// Escalate returns the more severe of two levels.
func Escalate(a, b Level) Level {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// Band is the ordinal classification of a domain score.
type Band string

const (
	BandLow    Band = "low"
	BandMedium Band = "medium"
	BandHigh   Band = "high"
)

// Context carries the identifying metadata for one decision run. It is owned
// by the caller and passed through unchanged.
type Context struct {
	DecisionID   string         `json:"decision_id"`
	Title        string         `json:"title"`
	Activity     string         `json:"activity"`
	Stage        string         `json:"stage"`
	Objective    string         `json:"objective,omitempty"`
	RiskAppetite string         `json:"risk_appetite,omitempty"`
	Constraints  string         `json:"constraints,omitempty"`
	TimeHorizon  string         `json:"time_horizon,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// IndicatorDetail describes one observed risk indicator. Read-only to the
// engine.
type IndicatorDetail struct {
	Domain   string         `json:"domain"`
	Category string         `json:"category,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Payload is the raw indicator input consumed by the scorer.
type Payload struct {
	IndicatorDetails map[string]IndicatorDetail `json:"indicator_details"`
	LocalScores      map[string]float64         `json:"local_scores"`
}

// ScoreSet is the canonical scorer output: validated indicator metadata plus
// one local score per indicator.
type ScoreSet struct {
	IndicatorDetails map[string]IndicatorDetail `json:"indicator_details"`
	LocalScores      map[string]float64         `json:"local_scores"`
}

// Rollup holds per-domain and per-category score means. Groups with zero
// contributing indicators are absent, never a spurious zero.
type Rollup struct {
	DomainScores   map[string]float64 `json:"domain_scores"`
	CategoryScores map[string]float64 `json:"category_scores"`
}

// Thresholds are the effective low/high classification cut points.
type Thresholds struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// PolicyParams records the policy inputs that produced a classification.
type PolicyParams struct {
	RiskAppetite string `json:"risk_appetite"`
	Stage        string `json:"stage,omitempty"`
}

// Classification is the banding of one domain score. Thresholds and Policy
// are carried for auditability when a policy-aware classifier produced it.
type Classification struct {
	Score      float64       `json:"score"`
	Band       Band          `json:"level"`
	Thresholds *Thresholds   `json:"thresholds,omitempty"`
	Policy     *PolicyParams `json:"policy,omitempty"`
}

// ActionItem is a required remediation task. Priority 1 is most urgent.
type ActionItem struct {
	Priority         int      `json:"priority"`
	Action           string   `json:"action"`
	Deliverables     string   `json:"deliverables,omitempty"`
	Owner            string   `json:"owner"`
	TargetDate       string   `json:"target_date"`
	RelatedDomain    string   `json:"related_domain,omitempty"`
	RelatedControls  []string `json:"related_controls,omitempty"`
	EvidenceExpected []string `json:"evidence_expected,omitempty"`
}

const actionDefault = "TBC"

// normalize fills the TBC defaults and clamps priority to at least 1.
func (a ActionItem) normalize() ActionItem {
	if a.Priority < 1 {
		a.Priority = 1
	}
	if a.Owner == "" {
		a.Owner = actionDefault
	}
	if a.TargetDate == "" {
		a.TargetDate = actionDefault
	}
	return a
}

// Ruling is the rules-stage output.
type Ruling struct {
	Overall         Level            `json:"overall"`
	PerDomain       map[string]Level `json:"per_domain"`
	Rationale       []string         `json:"rationale"`
	RequiredActions []ActionItem     `json:"required_actions"`
}

// Contributor is one indicator's entry in a domain's explanation.
type Contributor struct {
	IndicatorID string  `json:"indicator_id"`
	Score       float64 `json:"score"`
	Category    string  `json:"category,omitempty"`
}

// AuditEntry is one ordered record in the audit trail.
type AuditEntry struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// Fingerprint proves a decision is reproducible from its recorded inputs and
// configuration. ModelHash is a version label, empty when unset.
type Fingerprint struct {
	InputHash  string `json:"input_hash"`
	ConfigHash string `json:"config_hash"`
	ModelHash  string `json:"model_hash"`
}

// Audit is the auditor output: an ordered trail plus the fingerprint set.
type Audit struct {
	Trail       []AuditEntry `json:"trail"`
	Fingerprint Fingerprint  `json:"fingerprint"`
}

// DomainScore pairs a domain mean with its classification band.
type DomainScore struct {
	Score float64 `json:"score"`
	Band  Band    `json:"level"`
}

// DomainDecision merges score, classification, decision level and top
// contributors for one domain.
type DomainDecision struct {
	Domain          string        `json:"domain"`
	Level           Level         `json:"level"`
	Score           float64       `json:"score"`
	Classification  Band          `json:"classification"`
	TopContributors []Contributor `json:"top_contributors,omitempty"`
}

// RawParts exposes every intermediate stage output to the auditor.
type RawParts struct {
	Payload         Payload
	ScoreSet        ScoreSet
	Rollup          Rollup
	Classifications map[string]Classification
	Ruling          Ruling
	Contributors    map[string][]Contributor
}

// Output is the terminal artifact of one run, owned by the caller.
type Output struct {
	Context         Context                   `json:"context"`
	Overall         Level                     `json:"overall"`
	PerDomain       map[string]DomainDecision `json:"per_domain"`
	DomainScores    map[string]DomainScore    `json:"domain_scores"`
	CategoryScores  map[string]float64        `json:"category_scores"`
	Rationale       []string                  `json:"rationale"`
	RequiredActions []ActionItem              `json:"required_actions"`
	AuditTrail      []AuditEntry              `json:"audit_trail"`
	Fingerprint     *Fingerprint              `json:"fingerprint,omitempty"`
	Warnings        []string                  `json:"warnings,omitempty"`
	Notes           map[string]any            `json:"notes,omitempty"`
}
