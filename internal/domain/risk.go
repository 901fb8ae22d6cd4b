package domain

import (
	"strings"
	"time"
)

// RiskStatus is the lifecycle state of a persisted risk item.
type RiskStatus string

const (
	RiskStatusOpen      RiskStatus = "OPEN"
	RiskStatusInReview  RiskStatus = "IN_REVIEW"
	RiskStatusMitigated RiskStatus = "MITIGATED"
	RiskStatusAccepted  RiskStatus = "ACCEPTED"
)

// RiskKind classifies what triggered an auto-generated risk.
type RiskKind string

const (
	RiskMissingEvidence RiskKind = "MISSING_EVIDENCE"
	RiskStaleEvidence   RiskKind = "STALE_EVIDENCE"
	RiskFailedControl   RiskKind = "FAILED_CONTROL"
)

// AutoRiskPrefix marks risk items the engine created itself. Replacement
// runs delete only rows carrying this prefix, so manually created risks are
// never touched.
const AutoRiskPrefix = "[auto] "

// RiskItem is a persisted, user-visible finding describing a compliance gap.
type RiskItem struct {
	ID           string     `json:"id"`
	TenantID     string     `json:"tenant_id"`
	Kind         RiskKind   `json:"kind"`
	Severity     Severity   `json:"severity"`
	Status       RiskStatus `json:"status"`
	ObligationID *string    `json:"obligation_id"`
	ControlID    *string    `json:"control_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsAutoGenerated reports whether the item was produced by the engine.
func (r RiskItem) IsAutoGenerated() bool {
	return strings.HasPrefix(r.Title, AutoRiskPrefix)
}
