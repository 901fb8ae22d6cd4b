package service

import (
	"context"
	"time"

	"compliance-service/internal/domain"
)

const serviceName = "compliance-service"

type AuditPublisher interface {
	Publish(ctx context.Context, event domain.AuditEvent) error
}

// AuditService records evaluation milestones on the audit topic. All methods
// tolerate a nil publisher so the engine can run without Kafka.
type AuditService struct {
	publisher AuditPublisher
}

func NewAuditService(publisher AuditPublisher) *AuditService {
	return &AuditService{publisher: publisher}
}

func (s *AuditService) RecordEvaluationCompleted(ctx context.Context, result *domain.EvaluationResult) error {
	if s == nil || s.publisher == nil || result == nil {
		return nil
	}

	event := domain.AuditEvent{
		Service:    serviceName,
		EventType:  domain.EventEvaluationCompleted,
		TenantID:   result.TenantID,
		OccurredAt: time.Now().UTC(),
		Payload: map[string]interface{}{
			"overall_score": result.ReadinessScore.OverallScore,
			"risk_count":    len(result.Risks),
			"duration_ms":   result.DurationMs,
		},
	}

	return s.publisher.Publish(ctx, event)
}

func (s *AuditService) RecordBatchFinished(ctx context.Context, run *domain.JobRun) error {
	if s == nil || s.publisher == nil || run == nil {
		return nil
	}

	event := domain.AuditEvent{
		Service:    serviceName,
		EventType:  domain.EventBatchFinished,
		OccurredAt: time.Now().UTC(),
		Payload: map[string]interface{}{
			"job_name":    run.JobName,
			"tenants":     run.TenantsTotal,
			"succeeded":   run.SucceededCount,
			"failed":      run.FailedCount,
			"duration_ms": run.DurationMs(),
		},
	}

	return s.publisher.Publish(ctx, event)
}
