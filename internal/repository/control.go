package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"compliance-service/internal/domain"

	log "github.com/sirupsen/logrus"
)

type postgresControlRepository struct {
	db *sql.DB
}

func NewPostgresControlRepository(db *sql.DB) *postgresControlRepository {
	return &postgresControlRepository{db: db}
}

func (r *postgresControlRepository) GetByID(ctx context.Context, tenantID, controlID string) (*domain.Control, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		SELECT id, tenant_id, code, title, created_at, updated_at
		FROM controls
		WHERE id = $1 AND tenant_id = $2
	`

	var c domain.Control
	err := r.db.QueryRowContext(ctx, query, controlID, tenantID).Scan(
		&c.ID,
		&c.TenantID,
		&c.Code,
		&c.Title,
		&c.CreatedAt,
		&c.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrControlNotFound
		}
		log.WithError(err).WithField("control_id", controlID).Error("Failed to get control")
		return nil, fmt.Errorf("failed to get control: %w", err)
	}

	reqs, err := listRequirements(ctx, r.db, c.ID)
	if err != nil {
		return nil, err
	}
	c.Requirements = reqs

	return &c, nil
}

// listRequirements loads the evidence requirements of one control. Shared by
// the control and obligation repositories.
func listRequirements(ctx context.Context, db *sql.DB, controlID string) ([]domain.EvidenceRequirement, error) {
	query := `
		SELECT id, control_id, name, required, cadence, review_interval_months
		FROM evidence_requirements
		WHERE control_id = $1
		ORDER BY name
	`

	rows, err := db.QueryContext(ctx, query, controlID)
	if err != nil {
		log.WithError(err).WithField("control_id", controlID).Error("Failed to list evidence requirements")
		return nil, fmt.Errorf("failed to list evidence requirements: %w", err)
	}
	defer rows.Close()

	var reqs []domain.EvidenceRequirement
	for rows.Next() {
		var req domain.EvidenceRequirement
		var interval sql.NullInt64
		if err := rows.Scan(
			&req.ID,
			&req.ControlID,
			&req.Name,
			&req.Required,
			&req.Cadence,
			&interval,
		); err != nil {
			log.WithError(err).Error("Failed to scan evidence requirement row")
			return nil, fmt.Errorf("failed to scan evidence requirement row: %w", err)
		}
		if interval.Valid {
			months := int(interval.Int64)
			req.ReviewIntervalMonths = &months
		}
		reqs = append(reqs, req)
	}

	return reqs, rows.Err()
}
