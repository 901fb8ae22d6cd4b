package domain

import "time"

// TenantFailure records one tenant that could not be evaluated during a
// batch run.
type TenantFailure struct {
	TenantID string `json:"tenant_id"`
	Message  string `json:"message"`
}

// JobRun is the append-only summary of one scheduled or manually triggered
// batch evaluation.
type JobRun struct {
	ID             string          `json:"id"`
	JobName        string          `json:"job_name"`
	TenantsTotal   int             `json:"tenants_total"`
	SucceededCount int             `json:"succeeded_count"`
	FailedCount    int             `json:"failed_count"`
	Failures       []TenantFailure `json:"failures"`
	StartedAt      time.Time       `json:"started_at"`
	FinishedAt     time.Time       `json:"finished_at"`
}

// DurationMs is the wall-clock duration of the run.
func (j JobRun) DurationMs() int64 {
	return j.FinishedAt.Sub(j.StartedAt).Milliseconds()
}
