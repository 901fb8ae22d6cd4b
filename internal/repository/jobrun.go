package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"compliance-service/internal/domain"

	log "github.com/sirupsen/logrus"
)

type postgresJobRunRepository struct {
	db *sql.DB
}

func NewPostgresJobRunRepository(db *sql.DB) *postgresJobRunRepository {
	return &postgresJobRunRepository{db: db}
}

func (r *postgresJobRunRepository) Insert(ctx context.Context, run *domain.JobRun) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	failures, err := json.Marshal(run.Failures)
	if err != nil {
		return fmt.Errorf("failed to marshal job failures: %w", err)
	}

	query := `
		INSERT INTO job_runs (
			id, job_name, tenants_total, succeeded_count, failed_count,
			failures, started_at, finished_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	if _, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.JobName,
		run.TenantsTotal,
		run.SucceededCount,
		run.FailedCount,
		failures,
		run.StartedAt,
		run.FinishedAt,
	); err != nil {
		log.WithError(err).WithField("job_name", run.JobName).Error("Failed to insert job run")
		return fmt.Errorf("failed to insert job run: %w", err)
	}

	return nil
}

func (r *postgresJobRunRepository) List(ctx context.Context, limit int) ([]domain.JobRun, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		SELECT id, job_name, tenants_total, succeeded_count, failed_count,
			failures, started_at, finished_at
		FROM job_runs
		ORDER BY started_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		log.WithError(err).Error("Failed to list job runs")
		return nil, fmt.Errorf("failed to list job runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.JobRun
	for rows.Next() {
		var run domain.JobRun
		var failures []byte
		if err := rows.Scan(
			&run.ID,
			&run.JobName,
			&run.TenantsTotal,
			&run.SucceededCount,
			&run.FailedCount,
			&failures,
			&run.StartedAt,
			&run.FinishedAt,
		); err != nil {
			log.WithError(err).Error("Failed to scan job run row")
			return nil, fmt.Errorf("failed to scan job run row: %w", err)
		}
		if len(failures) > 0 {
			if err := json.Unmarshal(failures, &run.Failures); err != nil {
				return nil, fmt.Errorf("failed to unmarshal job failures: %w", err)
			}
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}
