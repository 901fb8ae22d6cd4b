package domain

import "time"

// Audit event types emitted by the evaluation engine.
const (
	EventEvaluationCompleted = "evaluation_completed"
	EventRisksReplaced       = "risks_replaced"
	EventBatchFinished       = "evaluation_batch_finished"
)

type AuditEvent struct {
	Service    string                 `json:"service"`
	EventType  string                 `json:"event_type"`
	TenantID   string                 `json:"tenant_id"`
	OccurredAt time.Time              `json:"occurred_at"`
	Payload    map[string]interface{} `json:"payload"`
}
