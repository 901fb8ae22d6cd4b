package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"compliance-service/internal/domain"

	log "github.com/sirupsen/logrus"

	_ "github.com/lib/pq"
)

type postgresObligationRepository struct {
	db *sql.DB
}

func NewPostgresObligationRepository(db *sql.DB) *postgresObligationRepository {
	return &postgresObligationRepository{db: db}
}

func (r *postgresObligationRepository) GetByID(ctx context.Context, tenantID, obligationID string) (*domain.Obligation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		SELECT id, tenant_id, code, title, domain, severity, created_at, updated_at
		FROM obligations
		WHERE id = $1 AND tenant_id = $2
	`

	var o domain.Obligation
	err := r.db.QueryRowContext(ctx, query, obligationID, tenantID).Scan(
		&o.ID,
		&o.TenantID,
		&o.Code,
		&o.Title,
		&o.Domain,
		&o.Severity,
		&o.CreatedAt,
		&o.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrObligationNotFound
		}
		log.WithError(err).WithField("obligation_id", obligationID).Error("Failed to get obligation")
		return nil, fmt.Errorf("failed to get obligation: %w", err)
	}

	return &o, nil
}

func (r *postgresObligationRepository) ListByTenant(ctx context.Context, tenantID string) ([]domain.Obligation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		SELECT id, tenant_id, code, title, domain, severity, created_at, updated_at
		FROM obligations
		WHERE tenant_id = $1
		ORDER BY code
	`

	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		log.WithError(err).WithField("tenant_id", tenantID).Error("Failed to list obligations")
		return nil, fmt.Errorf("failed to list obligations: %w", err)
	}
	defer rows.Close()

	var obligations []domain.Obligation
	for rows.Next() {
		var o domain.Obligation
		if err := rows.Scan(
			&o.ID,
			&o.TenantID,
			&o.Code,
			&o.Title,
			&o.Domain,
			&o.Severity,
			&o.CreatedAt,
			&o.UpdatedAt,
		); err != nil {
			log.WithError(err).Error("Failed to scan obligation row")
			return nil, fmt.Errorf("failed to scan obligation row: %w", err)
		}
		obligations = append(obligations, o)
	}

	return obligations, rows.Err()
}

func (r *postgresObligationRepository) ListControls(ctx context.Context, obligationID string) ([]domain.Control, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		SELECT c.id, c.tenant_id, c.code, c.title, c.created_at, c.updated_at
		FROM controls c
		JOIN obligation_controls oc ON oc.control_id = c.id
		WHERE oc.obligation_id = $1
		ORDER BY c.code
	`

	rows, err := r.db.QueryContext(ctx, query, obligationID)
	if err != nil {
		log.WithError(err).WithField("obligation_id", obligationID).Error("Failed to list controls for obligation")
		return nil, fmt.Errorf("failed to list controls: %w", err)
	}
	defer rows.Close()

	var controls []domain.Control
	for rows.Next() {
		var c domain.Control
		if err := rows.Scan(
			&c.ID,
			&c.TenantID,
			&c.Code,
			&c.Title,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			log.WithError(err).Error("Failed to scan control row")
			return nil, fmt.Errorf("failed to scan control row: %w", err)
		}
		controls = append(controls, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over control rows: %w", err)
	}

	for i := range controls {
		reqs, err := listRequirements(ctx, r.db, controls[i].ID)
		if err != nil {
			return nil, err
		}
		controls[i].Requirements = reqs
	}

	return controls, nil
}
