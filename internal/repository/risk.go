package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"compliance-service/internal/domain"

	log "github.com/sirupsen/logrus"
)

type postgresRiskRepository struct {
	db *sql.DB
}

func NewPostgresRiskRepository(db *sql.DB) *postgresRiskRepository {
	return &postgresRiskRepository{db: db}
}

// ReplaceAutoGenerated swaps out the tenant's auto-generated risk set in one
// transaction. Readers never observe a half-cleared list, and rows without
// the auto marker are left alone.
func (r *postgresRiskRepository) ReplaceAutoGenerated(ctx context.Context, tenantID string, items []domain.RiskItem) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin risk replacement transaction: %w", err)
	}
	defer tx.Rollback()

	deleteQuery := `DELETE FROM risk_items WHERE tenant_id = $1 AND title LIKE $2`
	result, err := tx.ExecContext(ctx, deleteQuery, tenantID, domain.AutoRiskPrefix+"%")
	if err != nil {
		log.WithError(err).WithField("tenant_id", tenantID).Error("Failed to delete auto-generated risks")
		return fmt.Errorf("failed to delete auto-generated risks: %w", err)
	}
	deleted, _ := result.RowsAffected()

	insertQuery := `
		INSERT INTO risk_items (
			id, tenant_id, kind, severity, status,
			obligation_id, control_id, title, description
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	for _, item := range items {
		if _, err := tx.ExecContext(ctx, insertQuery,
			item.ID,
			item.TenantID,
			item.Kind,
			item.Severity,
			item.Status,
			item.ObligationID,
			item.ControlID,
			item.Title,
			item.Description,
		); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"tenant_id": tenantID,
				"risk_id":   item.ID,
			}).Error("Failed to insert risk item")
			return fmt.Errorf("failed to insert risk item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit risk replacement: %w", err)
	}

	log.WithFields(log.Fields{
		"tenant_id": tenantID,
		"deleted":   deleted,
		"inserted":  len(items),
	}).Info("Auto-generated risk set replaced")

	return nil
}

func (r *postgresRiskRepository) ListAutoGenerated(ctx context.Context, tenantID string) ([]domain.RiskItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		SELECT id, tenant_id, kind, severity, status,
			obligation_id, control_id, title, description,
			created_at, updated_at
		FROM risk_items
		WHERE tenant_id = $1 AND title LIKE $2
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, tenantID, domain.AutoRiskPrefix+"%")
	if err != nil {
		log.WithError(err).WithField("tenant_id", tenantID).Error("Failed to list auto-generated risks")
		return nil, fmt.Errorf("failed to list auto-generated risks: %w", err)
	}
	defer rows.Close()

	var items []domain.RiskItem
	for rows.Next() {
		var item domain.RiskItem
		var obligationID, controlID sql.NullString
		if err := rows.Scan(
			&item.ID,
			&item.TenantID,
			&item.Kind,
			&item.Severity,
			&item.Status,
			&obligationID,
			&controlID,
			&item.Title,
			&item.Description,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			log.WithError(err).Error("Failed to scan risk item row")
			return nil, fmt.Errorf("failed to scan risk item row: %w", err)
		}
		if obligationID.Valid {
			item.ObligationID = &obligationID.String
		}
		if controlID.Valid {
			item.ControlID = &controlID.String
		}
		items = append(items, item)
	}

	return items, rows.Err()
}
