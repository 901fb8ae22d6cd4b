package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"compliance-service/internal/domain"

	log "github.com/sirupsen/logrus"
)

type postgresArtifactRepository struct {
	db *sql.DB
}

func NewPostgresArtifactRepository(db *sql.DB) *postgresArtifactRepository {
	return &postgresArtifactRepository{db: db}
}

// LatestLinked resolves evidence strictly through the link table. Filename
// matching is never used, so one tenant's uploads can never satisfy another
// tenant's requirement.
func (r *postgresArtifactRepository) LatestLinked(ctx context.Context, tenantID, requirementID string) (*domain.Artifact, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		SELECT a.id, a.tenant_id, a.filename, a.uploaded_at, a.approved, a.deleted
		FROM artifacts a
		JOIN artifact_requirement_links l ON l.artifact_id = a.id
		WHERE l.requirement_id = $1
		  AND a.tenant_id = $2
		  AND a.deleted = false
		ORDER BY a.uploaded_at DESC NULLS LAST
		LIMIT 1
	`

	var a domain.Artifact
	var uploadedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, requirementID, tenantID).Scan(
		&a.ID,
		&a.TenantID,
		&a.Filename,
		&uploadedAt,
		&a.Approved,
		&a.Deleted,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		log.WithError(err).WithField("requirement_id", requirementID).Error("Failed to resolve linked artifact")
		return nil, fmt.Errorf("failed to resolve linked artifact: %w", err)
	}

	if uploadedAt.Valid {
		a.UploadedAt = &uploadedAt.Time
	}

	return &a, nil
}
