package service

import (
	"context"
	"time"

	"compliance-service/internal/domain"

	log "github.com/sirupsen/logrus"
)

// Orchestrator composes scoring, risk generation and risk persistence into
// one full-evaluation unit of work. The scheduler and the manual trigger
// endpoint both go through here.
type Orchestrator struct {
	evaluator EvaluationServiceInterface
	risks     RiskServiceInterface
	audit     *AuditService
	now       Clock
}

func NewOrchestrator(evaluator EvaluationServiceInterface, risks RiskServiceInterface, audit *AuditService, now Clock) *Orchestrator {
	if now == nil {
		now = time.Now
	}
	return &Orchestrator{
		evaluator: evaluator,
		risks:     risks,
		audit:     audit,
		now:       now,
	}
}

// RunFullEvaluation computes the readiness score, regenerates and persists
// the tenant's risk set, and reports how long the whole run took.
func (o *Orchestrator) RunFullEvaluation(ctx context.Context, tenantID string) (*domain.EvaluationResult, error) {
	started := o.now()

	score, err := o.evaluator.ComputeReadiness(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	risks, err := o.risks.GenerateAndPersist(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	result := &domain.EvaluationResult{
		TenantID:       tenantID,
		ReadinessScore: *score,
		Risks:          risks,
		EvaluatedAt:    started,
		DurationMs:     o.now().Sub(started).Milliseconds(),
	}

	log.WithFields(log.Fields{
		"tenant_id":     tenantID,
		"overall_score": score.OverallScore,
		"risk_count":    len(risks),
		"duration_ms":   result.DurationMs,
	}).Info("Full evaluation finished")

	// Audit publishing is best effort; a broker outage must not fail the
	// evaluation itself.
	if err := o.audit.RecordEvaluationCompleted(ctx, result); err != nil {
		log.WithError(err).WithField("tenant_id", tenantID).Warn("Failed to publish evaluation audit event")
	}

	return result, nil
}
