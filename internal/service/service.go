package service

import (
	"context"
	"time"

	"compliance-service/internal/domain"
)

// EvaluationServiceInterface is the read-only evaluation surface consumed by
// the HTTP layer and the orchestrator.
type EvaluationServiceInterface interface {
	EvaluateControl(ctx context.Context, tenantID, controlID string) (*domain.ControlEvaluation, error)
	EvaluateObligation(ctx context.Context, tenantID, obligationID string) (*domain.ObligationEvaluation, error)
	ComputeReadiness(ctx context.Context, tenantID string) (*domain.ReadinessScore, error)
}

// RiskServiceInterface generates and persists the auto-generated risk set.
type RiskServiceInterface interface {
	GenerateRisks(ctx context.Context, tenantID string) ([]domain.RiskItem, error)
	GenerateAndPersist(ctx context.Context, tenantID string) ([]domain.RiskItem, error)
}

// OrchestratorInterface runs one full evaluation for a tenant.
type OrchestratorInterface interface {
	RunFullEvaluation(ctx context.Context, tenantID string) (*domain.EvaluationResult, error)
}

// Clock abstracts time for deterministic evaluation and tests.
type Clock func() time.Time
