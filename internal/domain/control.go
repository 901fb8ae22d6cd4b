package domain

import (
	"errors"
	"time"
)

// Control errors
var (
	ErrControlNotFound = errors.New("control not found")
)

// CadenceType describes how often the evidence behind a requirement must be
// refreshed.
type CadenceType string

const (
	CadenceContinuous        CadenceType = "CONTINUOUS"
	CadenceMonthly           CadenceType = "MONTHLY"
	CadenceQuarterly         CadenceType = "QUARTERLY"
	CadenceAnnual            CadenceType = "ANNUAL"
	CadenceOncePerInspection CadenceType = "ONCE_PER_INSPECTION"
	CadenceOnChange          CadenceType = "ON_CHANGE"
)

// Control is an operational mechanism implemented to satisfy one or more
// obligations. A control with zero requirements is NOT_EVALUATED by
// definition.
type Control struct {
	ID           string                `json:"id"`
	TenantID     string                `json:"tenant_id"`
	Code         string                `json:"code"`
	Title        string                `json:"title"`
	Requirements []EvidenceRequirement `json:"requirements"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// EvidenceRequirement is a specific document/record a control needs, with a
// refresh cadence. ReviewIntervalMonths overrides the cadence default when
// the cadence type is not one of the known values.
type EvidenceRequirement struct {
	ID                   string      `json:"id"`
	ControlID            string      `json:"control_id"`
	Name                 string      `json:"name"`
	Required             bool        `json:"required"`
	Cadence              CadenceType `json:"cadence"`
	ReviewIntervalMonths *int        `json:"review_interval_months"`
}
