package repository

import (
	"context"

	"compliance-service/internal/domain"
)

// TenantRepository lists the tenants whose compliance state gets evaluated.
type TenantRepository interface {
	ListActive(ctx context.Context) ([]domain.Tenant, error)
}

// ObligationRepository reads the obligation side of the compliance graph.
// All lookups are tenant-scoped: an id belonging to another tenant behaves
// exactly like a missing id.
type ObligationRepository interface {
	GetByID(ctx context.Context, tenantID, obligationID string) (*domain.Obligation, error)
	ListByTenant(ctx context.Context, tenantID string) ([]domain.Obligation, error)
	ListControls(ctx context.Context, obligationID string) ([]domain.Control, error)
}

// ControlRepository reads controls together with their evidence
// requirements, tenant-scoped.
type ControlRepository interface {
	GetByID(ctx context.Context, tenantID, controlID string) (*domain.Control, error)
}

// ArtifactRepository resolves evidence for a requirement. Resolution goes
// through the explicit artifact-requirement link table only.
type ArtifactRepository interface {
	// LatestLinked returns the most recently uploaded, non-deleted artifact
	// linked to the requirement within the tenant, or nil when none exists.
	LatestLinked(ctx context.Context, tenantID, requirementID string) (*domain.Artifact, error)
}

// RiskRepository owns the persisted risk items the engine generates.
type RiskRepository interface {
	// ReplaceAutoGenerated atomically deletes the tenant's auto-generated
	// risk items and inserts the new set.
	ReplaceAutoGenerated(ctx context.Context, tenantID string, items []domain.RiskItem) error
	ListAutoGenerated(ctx context.Context, tenantID string) ([]domain.RiskItem, error)
}

// JobRunRepository is the append-only log of batch evaluation runs.
type JobRunRepository interface {
	Insert(ctx context.Context, run *domain.JobRun) error
	List(ctx context.Context, limit int) ([]domain.JobRun, error)
}
