package domain

import "time"

// Freshness is the temporal validity of a piece of evidence relative to its
// cadence. PENDING_APPROVAL covers evidence that exists but has not been
// approved yet, so every evaluation carries a freshness value.
type Freshness string

const (
	FreshnessFresh           Freshness = "FRESH"
	FreshnessExpiringSoon    Freshness = "EXPIRING_SOON"
	FreshnessStale           Freshness = "STALE"
	FreshnessMissing         Freshness = "MISSING"
	FreshnessPendingApproval Freshness = "PENDING_APPROVAL"
)

// EvidenceStatus is the judgment on a single evidence requirement.
type EvidenceStatus string

const (
	EvidencePass EvidenceStatus = "PASS"
	EvidenceWarn EvidenceStatus = "WARN"
	EvidenceFail EvidenceStatus = "FAIL"
)

// RollupStatus is the judgment on a control or obligation. It is a
// different set from EvidenceStatus on purpose; the two must not be
// conflated.
type RollupStatus string

const (
	RollupPass         RollupStatus = "PASS"
	RollupFail         RollupStatus = "FAIL"
	RollupPartial      RollupStatus = "PARTIAL"
	RollupNotEvaluated RollupStatus = "NOT_EVALUATED"
)

// EvidenceEvaluation is the transient result of evaluating one requirement.
type EvidenceEvaluation struct {
	RequirementID   string         `json:"requirement_id"`
	RequirementName string         `json:"requirement_name"`
	Status          EvidenceStatus `json:"status"`
	Freshness       Freshness      `json:"freshness"`
	Reason          string         `json:"reason"`
	ArtifactID      *string        `json:"artifact_id"`
	UploadedAt      *time.Time     `json:"uploaded_at"`
	ExpiresAt       *time.Time     `json:"expires_at"`
	DaysUntilExpiry int            `json:"days_until_expiry"`
}

// ControlEvaluation is the transient rollup over one control's requirements.
type ControlEvaluation struct {
	ControlID   string               `json:"control_id"`
	ControlCode string               `json:"control_code"`
	Status      RollupStatus         `json:"status"`
	PassRate    int                  `json:"pass_rate"`
	Evidence    []EvidenceEvaluation `json:"evidence"`
}

// ObligationEvaluation is the transient rollup over one obligation's
// controls.
type ObligationEvaluation struct {
	ObligationID   string              `json:"obligation_id"`
	ObligationCode string              `json:"obligation_code"`
	Domain         ComplianceDomain    `json:"domain"`
	Severity       Severity            `json:"severity"`
	Status         RollupStatus        `json:"status"`
	PassRate       int                 `json:"pass_rate"`
	Controls       []ControlEvaluation `json:"controls"`
}

// ReadinessScore is the tenant-wide report: an overall percentage, a score
// per compliance domain and a pass rate per obligation code. Advisory only,
// never persisted.
type ReadinessScore struct {
	TenantID          string                   `json:"tenant_id"`
	OverallScore      int                      `json:"overall_score"`
	DomainScores      map[ComplianceDomain]int `json:"domain_scores"`
	ObligationRates   map[string]int           `json:"obligation_rates"`
	PassingCount      int                      `json:"passing_count"`
	PartialCount      int                      `json:"partial_count"`
	FailingCount      int                      `json:"failing_count"`
	NotEvaluatedCount int                      `json:"not_evaluated_count"`
	ComputedAt        time.Time                `json:"computed_at"`
}

// EvaluationResult is what one full evaluation run returns for a tenant.
type EvaluationResult struct {
	TenantID       string         `json:"tenant_id"`
	ReadinessScore ReadinessScore `json:"readiness_score"`
	Risks          []RiskItem     `json:"risks"`
	EvaluatedAt    time.Time      `json:"evaluated_at"`
	DurationMs     int64          `json:"duration_ms"`
}
