package domain

import (
	"errors"
	"time"
)

// Obligation errors
var (
	ErrObligationNotFound = errors.New("obligation not found")
)

// ComplianceDomain groups obligations by regulatory area.
type ComplianceDomain string

const (
	DomainLabor     ComplianceDomain = "LABOR"
	DomainPrivacy   ComplianceDomain = "PRIVACY"
	DomainFinance   ComplianceDomain = "FINANCE"
	DomainContracts ComplianceDomain = "CONTRACTS"
	DomainSecurity  ComplianceDomain = "SECURITY"
	DomainTraining  ComplianceDomain = "TRAINING"
)

// Severity of an obligation, inherited by the risks it generates.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Obligation is a regulatory requirement a tenant must satisfy. Created by
// onboarding/content packs, mutated by admins; the engine only reads it.
type Obligation struct {
	ID        string           `json:"id"`
	TenantID  string           `json:"tenant_id"`
	Code      string           `json:"code"`
	Title     string           `json:"title"`
	Domain    ComplianceDomain `json:"domain"`
	Severity  Severity         `json:"severity"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}
