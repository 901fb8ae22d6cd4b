package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"compliance-service/internal/domain"
)

// fakeStore is an in-memory compliance graph implementing the repository
// interfaces the evaluation services consume.
type fakeStore struct {
	obligations map[string][]domain.Obligation // tenant id -> obligations
	controls    map[string]*domain.Control     // control id -> control
	links       map[string][]string            // obligation id -> control ids
	artifacts   map[string]*domain.Artifact    // requirement id -> linked artifact
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		obligations: map[string][]domain.Obligation{},
		controls:    map[string]*domain.Control{},
		links:       map[string][]string{},
		artifacts:   map[string]*domain.Artifact{},
	}
}

func (f *fakeStore) GetByID(_ context.Context, tenantID, obligationID string) (*domain.Obligation, error) {
	for _, o := range f.obligations[tenantID] {
		if o.ID == obligationID {
			o := o
			return &o, nil
		}
	}
	return nil, domain.ErrObligationNotFound
}

func (f *fakeStore) ListByTenant(_ context.Context, tenantID string) ([]domain.Obligation, error) {
	return f.obligations[tenantID], nil
}

func (f *fakeStore) ListControls(_ context.Context, obligationID string) ([]domain.Control, error) {
	var controls []domain.Control
	for _, id := range f.links[obligationID] {
		if c, ok := f.controls[id]; ok {
			controls = append(controls, *c)
		}
	}
	return controls, nil
}

// controlRepo exposes the tenant-scoped control lookup of the same store.
type controlRepo struct{ store *fakeStore }

func (r controlRepo) GetByID(_ context.Context, tenantID, controlID string) (*domain.Control, error) {
	c, ok := r.store.controls[controlID]
	if !ok || c.TenantID != tenantID {
		return nil, domain.ErrControlNotFound
	}
	return c, nil
}

// artifactRepo resolves evidence through the store's explicit links only.
type artifactRepo struct{ store *fakeStore }

func (r artifactRepo) LatestLinked(_ context.Context, tenantID, requirementID string) (*domain.Artifact, error) {
	a, ok := r.store.artifacts[requirementID]
	if !ok || a.TenantID != tenantID {
		return nil, nil
	}
	return a, nil
}

func newTestEvaluator(store *fakeStore) *EvaluationService {
	return NewEvaluationService(store, controlRepo{store}, artifactRepo{store}, func() time.Time { return testNow })
}

// addControl registers a control for a tenant and optionally links it to an
// obligation.
func (f *fakeStore) addControl(tenantID, controlID string, obligationID string, reqs ...domain.EvidenceRequirement) {
	f.controls[controlID] = &domain.Control{
		ID:           controlID,
		TenantID:     tenantID,
		Code:         "CTL-" + controlID,
		Title:        "Control " + controlID,
		Requirements: reqs,
	}
	if obligationID != "" {
		f.links[obligationID] = append(f.links[obligationID], controlID)
	}
}

func (f *fakeStore) addObligation(tenantID, obligationID string, d domain.ComplianceDomain, severity domain.Severity) {
	f.obligations[tenantID] = append(f.obligations[tenantID], domain.Obligation{
		ID:       obligationID,
		TenantID: tenantID,
		Code:     "OBL-" + obligationID,
		Title:    "Obligation " + obligationID,
		Domain:   d,
		Severity: severity,
	})
}

var reqCounter int

// requirementWith creates a monthly requirement whose linked artifact is in
// the given evidence state.
func (f *fakeStore) requirementWith(tenantID, controlID, state string) domain.EvidenceRequirement {
	reqCounter++
	reqID := fmt.Sprintf("req-%d", reqCounter)
	req := domain.EvidenceRequirement{
		ID:        reqID,
		ControlID: controlID,
		Name:      "Requirement " + reqID,
		Required:  true,
		Cadence:   domain.CadenceMonthly,
	}

	switch state {
	case "missing":
		// no artifact linked
	case "unapproved":
		uploaded := testNow.AddDate(0, 0, -1)
		f.artifacts[reqID] = &domain.Artifact{
			ID: "art-" + reqID, TenantID: tenantID, Filename: reqID + ".pdf",
			UploadedAt: &uploaded, Approved: false,
		}
	case "stale":
		uploaded := uploadedDaysBeforeExpiry(domain.CadenceMonthly, -10)
		f.artifacts[reqID] = &domain.Artifact{
			ID: "art-" + reqID, TenantID: tenantID, Filename: reqID + ".pdf",
			UploadedAt: &uploaded, Approved: true,
		}
	case "expiring":
		uploaded := uploadedDaysBeforeExpiry(domain.CadenceMonthly, 3)
		f.artifacts[reqID] = &domain.Artifact{
			ID: "art-" + reqID, TenantID: tenantID, Filename: reqID + ".pdf",
			UploadedAt: &uploaded, Approved: true,
		}
	case "fresh":
		uploaded := testNow.AddDate(0, 0, -1)
		f.artifacts[reqID] = &domain.Artifact{
			ID: "art-" + reqID, TenantID: tenantID, Filename: reqID + ".pdf",
			UploadedAt: &uploaded, Approved: true,
		}
	default:
		panic(errors.New("unknown evidence state: " + state))
	}

	return req
}
