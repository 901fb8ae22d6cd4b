package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"compliance-service/internal/domain"
	"compliance-service/internal/repository"
	"compliance-service/internal/service"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Job names for the built-in schedules.
const (
	JobNightly = "nightly_evaluation"
	JobWeekly  = "weekly_deep_evaluation"
	JobManual  = "manual_trigger"
)

type registeredJob struct {
	name     string
	spec     string
	schedule cron.Schedule
}

// Runner drives scheduled batch evaluations. Jobs are explicit (name, cron
// spec, schedule) registrations on the runner instance; there is no global
// registry. The injected clock feeds all timestamps so tests can pin time.
type Runner struct {
	orchestrator  service.OrchestratorInterface
	tenants       repository.TenantRepository
	jobRuns       repository.JobRunRepository
	audit         *service.AuditService
	now           service.Clock
	tenantTimeout time.Duration

	mu      sync.Mutex
	running map[string]bool
	jobs    []registeredJob
	stop    chan struct{}
	wg      sync.WaitGroup
}

func NewRunner(
	orchestrator service.OrchestratorInterface,
	tenants repository.TenantRepository,
	jobRuns repository.JobRunRepository,
	audit *service.AuditService,
	now service.Clock,
	tenantTimeout time.Duration,
) *Runner {
	if now == nil {
		now = time.Now
	}
	return &Runner{
		orchestrator:  orchestrator,
		tenants:       tenants,
		jobRuns:       jobRuns,
		audit:         audit,
		now:           now,
		tenantTimeout: tenantTimeout,
		running:       map[string]bool{},
		stop:          make(chan struct{}),
	}
}

// Register adds a cron-driven job. Specs use standard five-field cron
// syntax and may carry a CRON_TZ= timezone prefix.
func (r *Runner) Register(name, spec string) error {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return fmt.Errorf("invalid cron spec %q for job %s: %w", spec, name, err)
	}
	r.jobs = append(r.jobs, registeredJob{name: name, spec: spec, schedule: schedule})
	log.WithFields(log.Fields{
		"job":  name,
		"spec": spec,
	}).Info("Scheduled job registered")
	return nil
}

// Start launches one goroutine per registered job. Stop() shuts them down.
func (r *Runner) Start(ctx context.Context) {
	for _, job := range r.jobs {
		job := job
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			r.loop(ctx, job)
		}()
	}
}

// Stop signals all job loops and waits for them to exit.
func (r *Runner) Stop() {
	close(r.stop)
	r.wg.Wait()
}

func (r *Runner) loop(ctx context.Context, job registeredJob) {
	for {
		now := r.now()
		next := job.schedule.Next(now)
		timer := time.NewTimer(next.Sub(now))

		select {
		case <-timer.C:
			r.RunBatch(ctx, job.name)
		case <-r.stop:
			timer.Stop()
			return
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}

// RunBatch evaluates every active tenant sequentially. A failure under one
// tenant is caught and recorded; the batch always reaches the remaining
// tenants. The summary is logged, persisted to the job log and published to
// the audit topic. Returns the recorded run.
func (r *Runner) RunBatch(ctx context.Context, jobName string) *domain.JobRun {
	r.mu.Lock()
	if r.running[jobName] {
		r.mu.Unlock()
		log.WithField("job", jobName).Warn("Previous run still in progress, skipping")
		return nil
	}
	r.running[jobName] = true
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.running[jobName] = false
		r.mu.Unlock()
	}()

	run := &domain.JobRun{
		ID:        uuid.NewString(),
		JobName:   jobName,
		StartedAt: r.now(),
	}

	tenants, err := r.tenants.ListActive(ctx)
	if err != nil {
		log.WithError(err).WithField("job", jobName).Error("Failed to list tenants, aborting batch")
		run.FinishedAt = r.now()
		r.record(ctx, run)
		return run
	}
	run.TenantsTotal = len(tenants)

	for _, tenant := range tenants {
		if err := r.evaluateTenant(ctx, tenant.ID); err != nil {
			run.FailedCount++
			run.Failures = append(run.Failures, domain.TenantFailure{
				TenantID: tenant.ID,
				Message:  err.Error(),
			})
			log.WithError(err).WithFields(log.Fields{
				"job":       jobName,
				"tenant_id": tenant.ID,
			}).Warn("Tenant evaluation failed")
			continue
		}
		run.SucceededCount++
	}

	run.FinishedAt = r.now()

	log.WithFields(log.Fields{
		"job":         jobName,
		"tenants":     run.TenantsTotal,
		"succeeded":   run.SucceededCount,
		"failed":      run.FailedCount,
		"duration_ms": run.DurationMs(),
	}).Info("Batch evaluation finished")

	r.record(ctx, run)
	return run
}

// TriggerTenant runs one tenant's full evaluation on demand and records a
// job summary of the same shape as a scheduled run.
func (r *Runner) TriggerTenant(ctx context.Context, tenantID string) (*domain.EvaluationResult, error) {
	run := &domain.JobRun{
		ID:           uuid.NewString(),
		JobName:      JobManual,
		TenantsTotal: 1,
		StartedAt:    r.now(),
	}

	result, err := r.orchestrator.RunFullEvaluation(ctx, tenantID)
	if err != nil {
		run.FailedCount = 1
		run.Failures = []domain.TenantFailure{{TenantID: tenantID, Message: err.Error()}}
	} else {
		run.SucceededCount = 1
	}
	run.FinishedAt = r.now()

	r.record(ctx, run)
	return result, err
}

// evaluateTenant bounds one tenant's evaluation with the configured timeout
// and turns a panic into an ordinary recorded failure.
func (r *Runner) evaluateTenant(ctx context.Context, tenantID string) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("evaluation panicked: %v", rec)
		}
	}()

	if r.tenantTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.tenantTimeout)
		defer cancel()
	}

	_, err = r.orchestrator.RunFullEvaluation(ctx, tenantID)
	return err
}

func (r *Runner) record(ctx context.Context, run *domain.JobRun) {
	if r.jobRuns != nil {
		if err := r.jobRuns.Insert(ctx, run); err != nil {
			log.WithError(err).WithField("job", run.JobName).Error("Failed to persist job run")
		}
	}
	if err := r.audit.RecordBatchFinished(ctx, run); err != nil {
		log.WithError(err).WithField("job", run.JobName).Warn("Failed to publish batch audit event")
	}
}
