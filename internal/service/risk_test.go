package service

import (
	"context"
	"testing"

	"compliance-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRiskRepo mimics the replace semantics of the Postgres repository:
// auto-generated rows are swapped wholesale, manual rows never move.
type fakeRiskRepo struct {
	auto   map[string][]domain.RiskItem
	manual map[string][]domain.RiskItem
}

func newFakeRiskRepo() *fakeRiskRepo {
	return &fakeRiskRepo{
		auto:   map[string][]domain.RiskItem{},
		manual: map[string][]domain.RiskItem{},
	}
}

func (r *fakeRiskRepo) ReplaceAutoGenerated(_ context.Context, tenantID string, items []domain.RiskItem) error {
	r.auto[tenantID] = items
	return nil
}

func (r *fakeRiskRepo) ListAutoGenerated(_ context.Context, tenantID string) ([]domain.RiskItem, error) {
	return r.auto[tenantID], nil
}

func TestGenerateRisks_Kinds(t *testing.T) {
	store := newFakeStore()
	store.addObligation("t1", "o1", domain.DomainSecurity, domain.SeverityCritical)
	missing := store.requirementWith("t1", "c1", "missing")
	stale := store.requirementWith("t1", "c1", "stale")
	store.addControl("t1", "c1", "o1", missing, stale)

	svc := NewRiskService(newTestEvaluator(store), newFakeRiskRepo())
	risks, err := svc.GenerateRisks(context.Background(), "t1")

	require.NoError(t, err)
	// Missing evidence, stale evidence, plus one risk for the failed control.
	require.Len(t, risks, 3)

	kinds := map[domain.RiskKind]int{}
	for _, risk := range risks {
		kinds[risk.Kind]++
		assert.True(t, risk.IsAutoGenerated(), "title %q must carry the auto marker", risk.Title)
		assert.Equal(t, domain.SeverityCritical, risk.Severity)
		assert.Equal(t, domain.RiskStatusOpen, risk.Status)
		require.NotNil(t, risk.ObligationID)
		assert.Equal(t, "o1", *risk.ObligationID)
		require.NotNil(t, risk.ControlID)
		assert.Equal(t, "c1", *risk.ControlID)
	}
	assert.Equal(t, 1, kinds[domain.RiskMissingEvidence])
	assert.Equal(t, 1, kinds[domain.RiskStaleEvidence])
	assert.Equal(t, 1, kinds[domain.RiskFailedControl])
}

func TestGenerateRisks_StaleDescriptionCarriesOverdueDays(t *testing.T) {
	store := newFakeStore()
	store.addObligation("t1", "o1", domain.DomainLabor, domain.SeverityHigh)
	store.addControl("t1", "c1", "o1", store.requirementWith("t1", "c1", "stale"))

	svc := NewRiskService(newTestEvaluator(store), newFakeRiskRepo())
	risks, err := svc.GenerateRisks(context.Background(), "t1")

	require.NoError(t, err)
	var stale *domain.RiskItem
	for i := range risks {
		if risks[i].Kind == domain.RiskStaleEvidence {
			stale = &risks[i]
		}
	}
	require.NotNil(t, stale)
	assert.Contains(t, stale.Description, "10 days overdue")
}

func TestGenerateRisks_UnmappedSeverityDefaultsToMedium(t *testing.T) {
	store := newFakeStore()
	store.addObligation("t1", "o1", domain.DomainContracts, domain.Severity("UNKNOWN"))
	store.addControl("t1", "c1", "o1", store.requirementWith("t1", "c1", "missing"))

	svc := NewRiskService(newTestEvaluator(store), newFakeRiskRepo())
	risks, err := svc.GenerateRisks(context.Background(), "t1")

	require.NoError(t, err)
	require.NotEmpty(t, risks)
	for _, risk := range risks {
		assert.Equal(t, domain.SeverityMedium, risk.Severity)
	}
}

func TestGenerateRisks_PassingTenantHasNone(t *testing.T) {
	store := newFakeStore()
	store.addObligation("t1", "o1", domain.DomainPrivacy, domain.SeverityLow)
	store.addControl("t1", "c1", "o1", store.requirementWith("t1", "c1", "fresh"))

	svc := NewRiskService(newTestEvaluator(store), newFakeRiskRepo())
	risks, err := svc.GenerateRisks(context.Background(), "t1")

	require.NoError(t, err)
	assert.Empty(t, risks)
}

func TestGenerateAndPersist_IdempotentOnUnchangedState(t *testing.T) {
	store := newFakeStore()
	store.addObligation("t1", "o1", domain.DomainSecurity, domain.SeverityHigh)
	store.addControl("t1", "c1", "o1",
		store.requirementWith("t1", "c1", "missing"),
		store.requirementWith("t1", "c1", "fresh"),
	)

	repo := newFakeRiskRepo()
	repo.manual["t1"] = []domain.RiskItem{{ID: "manual-1", TenantID: "t1", Title: "Handwritten risk"}}
	svc := NewRiskService(newTestEvaluator(store), repo)
	ctx := context.Background()

	first, err := svc.GenerateAndPersist(ctx, "t1")
	require.NoError(t, err)
	second, err := svc.GenerateAndPersist(ctx, "t1")
	require.NoError(t, err)

	assert.Equal(t, len(first), len(second))

	persisted, err := repo.ListAutoGenerated(ctx, "t1")
	require.NoError(t, err)
	assert.Len(t, persisted, len(second), "replacement must not accumulate rows")

	// Manual risks stay untouched.
	assert.Len(t, repo.manual["t1"], 1)
}
