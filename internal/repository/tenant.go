package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"compliance-service/internal/domain"

	log "github.com/sirupsen/logrus"
)

type postgresTenantRepository struct {
	db *sql.DB
}

func NewPostgresTenantRepository(db *sql.DB) *postgresTenantRepository {
	return &postgresTenantRepository{db: db}
}

func (r *postgresTenantRepository) ListActive(ctx context.Context) ([]domain.Tenant, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		SELECT id, name, active, created_at
		FROM tenants
		WHERE active = true
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		log.WithError(err).Error("Failed to list active tenants")
		return nil, fmt.Errorf("failed to list active tenants: %w", err)
	}
	defer rows.Close()

	var tenants []domain.Tenant
	for rows.Next() {
		var t domain.Tenant
		if err := rows.Scan(&t.ID, &t.Name, &t.Active, &t.CreatedAt); err != nil {
			log.WithError(err).Error("Failed to scan tenant row")
			return nil, fmt.Errorf("failed to scan tenant row: %w", err)
		}
		tenants = append(tenants, t)
	}

	return tenants, rows.Err()
}
